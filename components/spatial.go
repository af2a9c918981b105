// Package components defines ECS components for navigating agents.
package components

// Position represents an entity's world position.
type Position struct {
	X, Y float32 `inspect:"label,fmt:%.1f"`
}

// Velocity represents an entity's velocity in world units per second.
type Velocity struct {
	X, Y float32 `inspect:"label,fmt:%.2f"`
}

// Heading is the unit direction the agent last steered toward. Obstacle
// avoidance compares it against the direction to the nearest obstacle.
type Heading struct {
	X, Y float32 `inspect:"vec"`
}
