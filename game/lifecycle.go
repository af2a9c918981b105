package game

import (
	"github.com/MauroVanHoutte/FlowField/components"
	"github.com/MauroVanHoutte/FlowField/systems"
	"github.com/MauroVanHoutte/FlowField/telemetry"
)

// spawnAgents creates the configured number of agents on random passable cells.
func (g *Game) spawnAgents() {
	cfg := g.cfg
	body := components.BodyFromConfig(&cfg.Agents)

	for i := 0; i < cfg.Agents.Count; i++ {
		p := g.randomSpawnPoint()
		pos := components.Position{X: p.X, Y: p.Y}
		vel := components.Velocity{}
		heading := components.Heading{X: 1}
		b := body
		agent := components.AgentFromConfig(g.nextID, &cfg.Agents)
		agent.Node = int32(g.graph.WorldToNode(p))
		g.nextID++

		g.agentMapper.NewEntity(&pos, &vel, &heading, &b, &agent)
		g.agentCount++
	}
}

// restoreAgents recreates agents saved in a snapshot. Positions are clamped
// to the current grid.
func (g *Game) restoreAgents(states []telemetry.AgentState) {
	cfg := g.cfg
	body := components.BodyFromConfig(&cfg.Agents)

	for _, s := range states {
		p := g.graph.ClampToWorld(systems.Vec2{X: s.X, Y: s.Y})
		pos := components.Position{X: p.X, Y: p.Y}
		vel := components.Velocity{X: s.VelX, Y: s.VelY}
		heading := components.Heading{X: 1}
		if dir := (systems.Vec2{X: s.VelX, Y: s.VelY}).Normalized(); !dir.IsZero() {
			heading = components.Heading{X: dir.X, Y: dir.Y}
		}
		b := body
		agent := components.AgentFromConfig(s.ID, &cfg.Agents)
		agent.Node = int32(g.graph.WorldToNode(p))
		if s.ID >= g.nextID {
			g.nextID = s.ID + 1
		}

		g.agentMapper.NewEntity(&pos, &vel, &heading, &b, &agent)
		g.agentCount++
	}
}

// resetAgents scatters every agent to a fresh random passable cell.
func (g *Game) resetAgents() {
	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, _, _, agent := query.Get()
		p := g.randomSpawnPoint()
		pos.X, pos.Y = p.X, p.Y
		vel.X, vel.Y = 0, 0
		agent.Node = int32(g.graph.WorldToNode(p))
		agent.Arrived = false
		agent.Slowed = false
	}
	g.arrivedCount = 0
}

// randomSpawnPoint returns a uniformly random point inside a passable cell.
// Falls back to anywhere in the world when the grid is fully blocked.
func (g *Game) randomSpawnPoint() systems.Vec2 {
	cell := g.graph.CellSize()
	n := g.graph.NodeCount()
	for attempt := 0; attempt < 4*n; attempt++ {
		idx := g.rng.Intn(n)
		if !g.graph.Terrain(idx).Passable() {
			continue
		}
		col, row := g.graph.Coord(idx)
		return g.graph.ClampToWorld(systems.Vec2{
			X: (float32(col) + 0.1 + 0.8*g.rng.Float32()) * cell,
			Y: (float32(row) + 0.1 + 0.8*g.rng.Float32()) * cell,
		})
	}
	size := g.graph.WorldSize()
	return g.graph.ClampToWorld(systems.Vec2{X: g.rng.Float32() * size.X, Y: g.rng.Float32() * size.Y})
}
