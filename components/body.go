package components

import "github.com/MauroVanHoutte/FlowField/config"

// Body holds physical properties of an entity.
type Body struct {
	Radius float32 `inspect:"label,fmt:%.2f"`
}

// Agent holds per-agent navigation state.
type Agent struct {
	ID        uint32  `inspect:"label"`
	MaxSpeed  float32 `inspect:"bar,max:20"`
	Node      int32   `inspect:"label"` // grid node occupied last tick, -1 outside the grid
	Arrived   bool    `inspect:"bool"`
	Teleports int32   `inspect:"label"`
	Slowed    bool    `inspect:"bool"` // standing on slow terrain this tick
}

// AgentFromConfig returns the starting agent state for id.
func AgentFromConfig(id uint32, cfg *config.AgentsConfig) Agent {
	return Agent{
		ID:       id,
		MaxSpeed: float32(cfg.MaxSpeed),
		Node:     -1,
	}
}

// BodyFromConfig returns the body shared by all agents.
func BodyFromConfig(cfg *config.AgentsConfig) Body {
	return Body{Radius: float32(cfg.Radius)}
}
