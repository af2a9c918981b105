package game

import (
	"testing"

	"github.com/MauroVanHoutte/FlowField/components"
	"github.com/MauroVanHoutte/FlowField/config"
	"github.com/MauroVanHoutte/FlowField/systems"
	"github.com/MauroVanHoutte/FlowField/telemetry"
)

func testConfig(t *testing.T, columns, rows int) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.Grid.Columns = columns
	cfg.Grid.Rows = rows
	cfg.Grid.CellSize = 5
	cfg.Grid.Diagonal = true
	cfg.Navigation.Destination = 0
	cfg.Agents.Count = 8
	cfg.Teleporter.Enabled = false
	cfg.Terrain.Generate = false
	cfg.Traffic.Enabled = false
	cfg.Telemetry.StatsWindow = 1
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return cfg
}

func newTestGame(t *testing.T, opts Options) *Game {
	t.Helper()
	opts.Headless = true
	if opts.Seed == 0 {
		opts.Seed = 7
	}
	g := NewGameWithOptions(opts)
	t.Cleanup(g.Unload)
	return g
}

func agentStates(g *Game) []components.Agent {
	var out []components.Agent
	query := g.agentFilter.Query()
	for query.Next() {
		_, _, _, _, agent := query.Get()
		out = append(out, *agent)
	}
	return out
}

func TestAgentsReachDestination(t *testing.T) {
	g := newTestGame(t, Options{Config: testConfig(t, 10, 10)})

	if got := g.AgentCount(); got != 8 {
		t.Fatalf("AgentCount() = %d, want 8", got)
	}
	for i := 0; i < 1200; i++ {
		g.Step()
	}

	if got := g.ArrivedCount(); got != g.AgentCount() {
		t.Errorf("ArrivedCount() = %d, want %d", got, g.AgentCount())
	}
	for _, a := range agentStates(g) {
		if a.Node != 0 {
			t.Errorf("agent %d on node %d, want 0", a.ID, a.Node)
		}
	}
	if got := g.Navigator().Solves(); got != 1 {
		t.Errorf("Solves() = %d, want 1 without edits", got)
	}
}

func TestSetDestinationAppliedOnNextTick(t *testing.T) {
	g := newTestGame(t, Options{Config: testConfig(t, 6, 6)})
	g.Step()

	g.SetDestination(5)
	if got := g.Navigator().Destination(); got != 0 {
		t.Errorf("Destination() before tick = %d, want 0", got)
	}
	g.Step()
	if got := g.Navigator().Destination(); got != 5 {
		t.Errorf("Destination() after tick = %d, want 5", got)
	}
	if got := g.Navigator().Solves(); got != 2 {
		t.Errorf("Solves() = %d, want 2", got)
	}

	g.SetDestination(99) // out of range
	g.Step()
	if got := g.Navigator().Destination(); got != 5 {
		t.Errorf("Destination() after invalid = %d, want 5", got)
	}
}

func TestPaintTerrain(t *testing.T) {
	g := newTestGame(t, Options{Config: testConfig(t, 6, 6)})
	g.Step()

	g.PaintTerrain(14, systems.TerrainBlocked)
	g.Step()

	if got := g.Graph().Terrain(14); got != systems.TerrainBlocked {
		t.Errorf("Terrain(14) = %v, want blocked", got)
	}
	if !g.obstacles.Contains(14) {
		t.Error("obstacle index does not contain painted cell")
	}
	if got := g.Navigator().CostAt(14); got != systems.CostInfinity {
		t.Errorf("CostAt(14) = %v, want infinity", got)
	}
	if got := g.Navigator().Solves(); got != 2 {
		t.Errorf("Solves() = %d, want 2", got)
	}

	// Repainting with the same kind is not an edit.
	g.PaintTerrain(14, systems.TerrainBlocked)
	g.Step()
	if got := g.Navigator().Solves(); got != 2 {
		t.Errorf("Solves() after no-op paint = %d, want 2", got)
	}

	g.PaintTerrainAt(14*5+2, 2, systems.TerrainOpen) // outside the grid
	g.PaintTerrainAt(2*5+1, 2*5+1, systems.TerrainOpen)
	g.Step()
	if g.obstacles.Contains(14) {
		t.Error("obstacle index still contains reopened cell")
	}
}

func TestTeleporterCarriesAgent(t *testing.T) {
	cfg := testConfig(t, 10, 1)
	cfg.Grid.Diagonal = false
	cfg.Agents.Count = 0

	layout := &telemetry.Snapshot{
		Version:     telemetry.SnapshotVersion,
		Terrain:     []string{".........."},
		Destination: 0,
		Teleporter:  &[2]int{1, 8},
		Agents:      []telemetry.AgentState{{ID: 1, X: 42.5, Y: 2.5}},
	}
	g := newTestGame(t, Options{Config: cfg, Layout: layout})
	g.Step()

	query := g.agentFilter.Query()
	found := 0
	for query.Next() {
		pos, _, _, _, agent := query.Get()
		found++
		if agent.Teleports != 1 {
			t.Errorf("Teleports = %d, want 1", agent.Teleports)
		}
		if pos.X != 7.5 || pos.Y != 2.5 {
			t.Errorf("position = (%v, %v), want (7.5, 2.5)", pos.X, pos.Y)
		}
		if agent.Node != 1 {
			t.Errorf("Node = %d, want 1", agent.Node)
		}
	}
	if found != 1 {
		t.Fatalf("found %d agents, want 1", found)
	}

	pair, ok := g.Navigator().Teleporter()
	if !ok {
		t.Fatal("Teleporter() ok = false")
	}
	if pair.Near() != 1 || pair.Far() != 8 {
		t.Errorf("Near, Far = %d, %d, want 1, 8", pair.Near(), pair.Far())
	}
}

func TestStatsWindows(t *testing.T) {
	var windows []telemetry.WindowStats
	g := newTestGame(t, Options{
		Config:        testConfig(t, 10, 10),
		StatsCallback: func(s telemetry.WindowStats) { windows = append(windows, s) },
	})

	for i := 0; i < 120; i++ {
		g.Step()
	}

	if len(windows) != 2 {
		t.Fatalf("got %d windows, want 2", len(windows))
	}
	first := windows[0]
	if first.Agents != 8 {
		t.Errorf("Agents = %d, want 8", first.Agents)
	}
	if first.Solves != 1 {
		t.Errorf("Solves = %d, want 1", first.Solves)
	}
	if first.ReachableNodes != 100 || first.UnreachableNodes != 0 {
		t.Errorf("reachable, unreachable = %d, %d, want 100, 0", first.ReachableNodes, first.UnreachableNodes)
	}
	if first.Stuck != 0 {
		t.Errorf("Stuck = %d, want 0", first.Stuck)
	}
	if windows[1].Solves != 0 {
		t.Errorf("second window Solves = %d, want 0", windows[1].Solves)
	}
}

func TestPausedHeadlessDoesNotAdvance(t *testing.T) {
	g := newTestGame(t, Options{Config: testConfig(t, 4, 4), StepsPerUpdate: 3})

	g.UpdateHeadless()
	if got := g.Tick(); got != 3 {
		t.Errorf("Tick() = %d, want 3", got)
	}
	g.SetPaused(true)
	g.UpdateHeadless()
	if got := g.Tick(); got != 3 {
		t.Errorf("Tick() while paused = %d, want 3", got)
	}
}

func TestSnapshotRestoresLayout(t *testing.T) {
	cfg := testConfig(t, 6, 4)
	cfg.Teleporter.Enabled = true
	cfg.Teleporter.First = 3
	cfg.Teleporter.Second = 20
	g := newTestGame(t, Options{Config: cfg})

	g.PaintTerrain(7, systems.TerrainSlow)
	g.PaintTerrain(8, systems.TerrainBlocked)
	g.SetDestination(23)
	g.Step()

	snap := g.Snapshot(nil)
	if snap.Destination != 23 {
		t.Errorf("Destination = %d, want 23", snap.Destination)
	}
	if snap.Teleporter == nil || *snap.Teleporter != [2]int{3, 20} {
		t.Errorf("Teleporter = %v, want [3 20]", snap.Teleporter)
	}
	if len(snap.Agents) != 8 {
		t.Errorf("len(Agents) = %d, want 8", len(snap.Agents))
	}

	restored := newTestGame(t, Options{Config: testConfig(t, 6, 4), Layout: snap})
	for idx := 0; idx < g.Graph().NodeCount(); idx++ {
		if got, want := restored.Graph().Terrain(idx), g.Graph().Terrain(idx); got != want {
			t.Errorf("Terrain(%d) = %v, want %v", idx, got, want)
		}
	}
	if got := restored.Navigator().Destination(); got != 23 {
		t.Errorf("restored Destination() = %d, want 23", got)
	}
	if got := restored.AgentCount(); got != 8 {
		t.Errorf("restored AgentCount() = %d, want 8", got)
	}
	if !restored.obstacles.Contains(8) {
		t.Error("restored obstacle index missing blocked cell")
	}
}

func TestRegenerateTerrainKeepsDestinationOpen(t *testing.T) {
	cfg := testConfig(t, 20, 20)
	cfg.Navigation.Destination = 210
	cfg.Terrain.SlowThreshold = 0.4
	cfg.Terrain.BlockedThreshold = 0.6
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	g := newTestGame(t, Options{Config: cfg})

	g.RegenerateTerrain()
	g.Step()

	if got := g.Graph().Terrain(210); got != systems.TerrainOpen {
		t.Errorf("destination terrain = %v, want open", got)
	}
	blocked := 0
	for idx := 0; idx < g.Graph().NodeCount(); idx++ {
		if g.Graph().Terrain(idx) == systems.TerrainBlocked {
			blocked++
		}
	}
	if got := g.obstacles.Len(); got != blocked {
		t.Errorf("obstacles.Len() = %d, want %d", got, blocked)
	}
}
