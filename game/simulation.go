package game

import (
	"log/slog"
	"time"

	"github.com/MauroVanHoutte/FlowField/systems"
	"github.com/MauroVanHoutte/FlowField/telemetry"
)

// UpdateHeadless runs the simulation without graphics.
func (g *Game) UpdateHeadless() {
	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// Update handles input and runs the simulation for one frame. While paused,
// edits still reach the navigator so the fields on screen stay current.
func (g *Game) Update() {
	g.handleInput()
	if g.paused {
		g.applyEdits()
		g.sampleAgents()
		g.updateNavigation()
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// Step advances the simulation by exactly one tick, even while paused.
func (g *Game) Step() {
	g.step()
}

// step runs one tick: apply edits, sample agents, refresh the navigation
// fields, steer, then carry agents across the teleporter.
func (g *Game) step() {
	g.perfCollector.StartTick()

	g.perfCollector.StartPhase(telemetry.PhaseEdits)
	g.applyEdits()

	g.perfCollector.StartPhase(telemetry.PhaseSampling)
	g.sampleAgents()

	g.perfCollector.StartPhase(telemetry.PhaseNavigation)
	g.updateNavigation()

	g.perfCollector.StartPhase(telemetry.PhaseSteering)
	g.steerAgents()

	g.perfCollector.StartPhase(telemetry.PhaseTeleport)
	g.teleportAgents()

	g.tick++

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.flushTelemetry()

	g.perfCollector.EndTick()
}

// sampleAgents records each agent's cell and the traffic samples.
func (g *Game) sampleAgents() {
	g.samples = g.samples[:0]
	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, _, body, agent := query.Get()
		p := systems.Vec2{X: pos.X, Y: pos.Y}
		node := g.graph.WorldToNode(p)
		agent.Node = int32(node)
		agent.Slowed = node != systems.InvalidNode && g.graph.Terrain(node) == systems.TerrainSlow
		g.samples = append(g.samples, systems.AgentSample{Position: p, Radius: body.Radius})
	}
}

// updateNavigation re-solves and rebuilds whatever the navigator reports stale.
func (g *Game) updateNavigation() {
	rebuilds := g.nav.Rebuilds()
	start := time.Now()
	solved := g.nav.Update(g.samples)
	dest := g.nav.Destination()

	if solved {
		g.collector.Record(telemetry.NewSolveEvent(g.tick, dest))
		reachable := 0
		g.nav.View(func(v systems.NavView) {
			reachable = v.Costs.ReachableCount()
		})
		slog.Debug("cost field solved",
			"tick", g.tick,
			"destination", dest,
			"reachable", reachable,
			"duration", time.Since(start),
		)
	}
	if g.nav.Rebuilds() > rebuilds {
		g.collector.Record(telemetry.NewRebuildEvent(g.tick, dest))
	}
}

// steerAgents blends flow-field seeking with obstacle fleeing and integrates
// positions. Agents inside the destination cell home in on its centre.
func (g *Game) steerAgents() {
	cfg := g.cfg
	dt := cfg.Derived.DT32
	seekW := float32(cfg.Steering.SeekWeight)
	fleeW := float32(cfg.Steering.FleeWeight)
	fleeRadius := float32(cfg.Steering.FleeRadius)
	minAlign := float32(cfg.Steering.FleeMinAlign)
	arriveRadius := float32(cfg.Agents.ArriveRadius)
	slowDivisor := float32(cfg.Agents.SlowDivisor)

	dest := g.nav.Destination()
	var destCenter systems.Vec2
	if dest != systems.InvalidNode {
		destCenter = g.graph.NodeToWorldCenter(dest)
	}

	arrived := 0
	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, heading, _, agent := query.Get()
		p := systems.Vec2{X: pos.X, Y: pos.Y}
		node := int(agent.Node)

		var desired systems.Vec2
		maxStep := float32(-1)
		if dest != systems.InvalidNode && node == dest {
			toCenter := destCenter.Sub(p)
			dist := toCenter.Length()
			if dist <= arriveRadius {
				if !agent.Arrived {
					agent.Arrived = true
					g.collector.Record(telemetry.NewArrivalEvent(g.tick, agent.ID, node))
				}
				vel.X, vel.Y = 0, 0
				arrived++
				continue
			}
			desired = toCenter.Normalized()
			maxStep = dist
		} else {
			agent.Arrived = false
			desired = g.nav.FlowAtNode(node)
		}

		steer := desired.Scale(seekW)
		if !g.graph.Terrain(node).Passable() {
			// Painted over: walk out of the cell.
			steer = p.Sub(g.graph.NodeToWorldCenter(node))
			if steer.IsZero() {
				steer = systems.Vec2{X: 1}
			}
		} else if fleeW > 0 {
			if center, ok := g.obstacles.Within(p, fleeRadius); ok {
				away := p.Sub(center).Normalized()
				facing := systems.Vec2{X: heading.X, Y: heading.Y}
				if facing.Dot(away.Scale(-1)) > minAlign {
					steer = steer.Add(away.Scale(fleeW))
				}
			}
		}

		dir := steer.Normalized()
		if dir.IsZero() {
			vel.X, vel.Y = 0, 0
			continue
		}

		speed := agent.MaxSpeed
		if agent.Slowed {
			speed /= slowDivisor
		}
		stepLen := speed * dt
		if maxStep >= 0 && stepLen > maxStep {
			stepLen = maxStep
		}

		next := g.moveAgent(p, dir.Scale(stepLen))
		pos.X, pos.Y = next.X, next.Y
		vel.X, vel.Y = dir.X*speed, dir.Y*speed
		heading.X, heading.Y = dir.X, dir.Y
		agent.Node = int32(g.graph.WorldToNode(next))
	}
	g.arrivedCount = arrived
}

// moveAgent applies delta to p, clamped to the world. A move that would end
// on a blocked cell slides along one axis instead, or stays put.
func (g *Game) moveAgent(p, delta systems.Vec2) systems.Vec2 {
	if !g.graph.Terrain(g.graph.WorldToNode(p)).Passable() {
		return g.graph.ClampToWorld(p.Add(delta))
	}
	candidates := [3]systems.Vec2{
		p.Add(delta),
		{X: p.X + delta.X, Y: p.Y},
		{X: p.X, Y: p.Y + delta.Y},
	}
	for _, c := range candidates {
		c = g.graph.ClampToWorld(c)
		if g.graph.Terrain(g.graph.WorldToNode(c)).Passable() {
			return c
		}
	}
	return p
}

// teleportAgents moves agents standing on the far teleporter endpoint to the
// centre of the near one.
func (g *Game) teleportAgents() {
	pair, ok := g.nav.Teleporter()
	if !ok {
		return
	}
	query := g.agentFilter.Query()
	for query.Next() {
		pos, _, _, _, agent := query.Get()
		from := int(agent.Node)
		to, crossing := pair.Crossing(from)
		if !crossing {
			continue
		}
		c := g.graph.NodeToWorldCenter(to)
		pos.X, pos.Y = c.X, c.Y
		agent.Node = int32(to)
		agent.Teleports++
		g.collector.Record(telemetry.NewTeleportEvent(g.tick, agent.ID, from, to))
		slog.Debug("agent teleported", "tick", g.tick, "agent", agent.ID, "from", from, "to", to)
	}
}
