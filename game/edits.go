package game

import (
	"log/slog"

	"github.com/MauroVanHoutte/FlowField/systems"
	"github.com/MauroVanHoutte/FlowField/telemetry"
)

// SetDestination queues a destination change for the next tick.
// Invalid indices are ignored.
func (g *Game) SetDestination(node int) {
	if !g.graph.IsValidIndex(node) {
		return
	}
	g.editMu.Lock()
	g.pendingDest = node
	g.editMu.Unlock()
}

// SetDestinationAt queues the cell containing the world point as destination.
func (g *Game) SetDestinationAt(worldX, worldY float32) {
	g.SetDestination(g.graph.WorldToNode(systems.Vec2{X: worldX, Y: worldY}))
}

// PaintTerrain queues a terrain change for the next tick.
func (g *Game) PaintTerrain(node int, kind systems.TerrainKind) {
	if !g.graph.IsValidIndex(node) || kind >= systems.NumTerrainKinds {
		return
	}
	g.editMu.Lock()
	g.pendingTerrain = append(g.pendingTerrain, terrainEdit{node: node, kind: kind})
	g.editMu.Unlock()
}

// PaintTerrainAt queues a terrain change for the cell containing the world point.
func (g *Game) PaintTerrainAt(worldX, worldY float32, kind systems.TerrainKind) {
	g.PaintTerrain(g.graph.WorldToNode(systems.Vec2{X: worldX, Y: worldY}), kind)
}

// ResetAgents queues a scatter of all agents to random passable cells.
func (g *Game) ResetAgents() {
	g.editMu.Lock()
	g.pendingReset = true
	g.editMu.Unlock()
}

// RandomizeTeleporter moves the teleporter to two random passable cells.
func (g *Game) RandomizeTeleporter() {
	pair := systems.RandomTeleporter(g.graph, g.rng)
	g.nav.SetTeleporter(&pair)
	slog.Debug("teleporter moved", "first", pair.First, "second", pair.Second)
}

// SetTeleporterEnabled installs a random teleporter or removes the current one.
func (g *Game) SetTeleporterEnabled(enabled bool) {
	if !enabled {
		g.nav.SetTeleporter(nil)
		return
	}
	if _, ok := g.nav.Teleporter(); !ok {
		g.RandomizeTeleporter()
	}
}

// SetTraffic toggles agent-aware flow and sets the traffic multiplier.
func (g *Game) SetTraffic(enabled bool, multiplier float32) {
	g.nav.SetTraffic(enabled, multiplier)
}

// SetOpenList switches the solver's open set implementation.
func (g *Game) SetOpenList(kind systems.OpenListKind) {
	g.nav.SetOpenList(kind)
}

// RegenerateTerrain repaints the grid from fresh noise, keeping the
// destination and teleporter cells open.
func (g *Game) RegenerateTerrain() {
	keep := []int{g.nav.Destination()}
	if pair, ok := g.nav.Teleporter(); ok {
		keep = append(keep, pair.First, pair.Second)
	}
	params := g.terrainParams()
	if params.SlowThreshold <= 0 && params.BlockedThreshold <= 0 {
		return
	}

	g.editMu.Lock()
	defer g.editMu.Unlock()
	scratch := newGraph(g.cfg)
	systems.GenerateTerrain(scratch, params, keep...)
	for idx := 0; idx < scratch.NodeCount(); idx++ {
		if kind := scratch.Terrain(idx); kind != g.graph.Terrain(idx) {
			g.pendingTerrain = append(g.pendingTerrain, terrainEdit{node: idx, kind: kind})
		}
	}
}

// applyEdits drains the edit queues into the navigator and obstacle index.
func (g *Game) applyEdits() {
	g.editMu.Lock()
	dest := g.pendingDest
	edits := g.pendingTerrain
	reset := g.pendingReset
	g.pendingDest = systems.InvalidNode
	g.pendingTerrain = nil
	g.pendingReset = false
	g.editMu.Unlock()

	changed := false
	if dest != systems.InvalidNode && dest != g.nav.Destination() {
		g.nav.SetDestination(dest)
		g.collector.Record(telemetry.NewDestinationChangeEvent(g.tick, dest))
		slog.Debug("destination changed", "tick", g.tick, "destination", dest)
		changed = true
	}

	for _, e := range edits {
		if g.graph.Terrain(e.node) == e.kind {
			continue
		}
		g.nav.SetTerrain(e.node, e.kind)
		g.obstacles.Sync(e.node)
		g.collector.Record(telemetry.NewTerrainEditEvent(g.tick, e.node))
		slog.Debug("terrain edited", "tick", g.tick, "node", e.node, "terrain", e.kind.String())
		changed = true
	}

	if reset || (changed && g.cfg.Agents.RespawnOnEdit) {
		g.resetAgents()
	}
}
