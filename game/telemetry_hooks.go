package game

import (
	"log/slog"

	"github.com/MauroVanHoutte/FlowField/systems"
	"github.com/MauroVanHoutte/FlowField/telemetry"
)

// defaultSnapshotDir receives manual snapshots when no directory is configured.
const defaultSnapshotDir = "snapshots"

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.sampleWorld())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}

	bookmarks := g.bookmarkDetector.Check(stats)
	for _, bm := range bookmarks {
		if g.logStats {
			bm.LogBookmark()
		}

		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}

		if g.snapshotDir != "" || g.outputManager != nil {
			g.saveSnapshot(&bm)
		}
	}
}

// sampleWorld gathers agent and grid state for the closing window.
func (g *Game) sampleWorld() telemetry.WorldSample {
	sample := telemetry.WorldSample{Arrived: g.arrivedCount}
	var speedSum float64

	g.nav.View(func(v systems.NavView) {
		sample.ReachableNodes = v.Costs.ReachableCount()
		sample.UnreachableNodes = len(v.Costs) - sample.ReachableNodes
		for _, t := range v.Traffic {
			if float64(t) > sample.MaxTraffic {
				sample.MaxTraffic = float64(t)
			}
		}

		query := g.agentFilter.Query()
		for query.Next() {
			_, vel, _, _, agent := query.Get()
			sample.Agents++
			speedSum += float64(systems.Vec2{X: vel.X, Y: vel.Y}.Length())

			node := int(agent.Node)
			if !v.Graph.IsValidIndex(node) || !v.Costs.Reachable(node) {
				sample.Stuck++
				continue
			}
			sample.AgentCosts = append(sample.AgentCosts, float64(v.Costs[node]))
		}
	})

	if sample.Agents > 0 {
		sample.MeanSpeed = speedSum / float64(sample.Agents)
	}
	return sample
}

// saveSnapshot creates and saves a snapshot to disk.
func (g *Game) saveSnapshot(bookmark *telemetry.Bookmark) {
	snapshot := g.Snapshot(bookmark)

	var (
		path string
		err  error
	)
	switch {
	case g.snapshotDir != "":
		path, err = telemetry.SaveSnapshot(snapshot, g.snapshotDir)
	case g.outputManager != nil:
		path, err = g.outputManager.WriteSnapshot(snapshot)
	default:
		path, err = telemetry.SaveSnapshot(snapshot, defaultSnapshotDir)
	}
	if err != nil {
		slog.Error("failed to save snapshot", "error", err)
		return
	}

	slog.Info("snapshot saved", "path", path, "tick", g.tick)
}

// Snapshot captures the grid layout and agent positions.
func (g *Game) Snapshot(bookmark *telemetry.Bookmark) *telemetry.Snapshot {
	snapshot := &telemetry.Snapshot{
		Version:  telemetry.SnapshotVersion,
		RNGSeed:  g.rngSeed,
		Tick:     g.tick,
		Columns:  g.graph.Columns(),
		Rows:     g.graph.Rows(),
		CellSize: g.graph.CellSize(),
		Bookmark: bookmark,
	}

	g.nav.View(func(v systems.NavView) {
		snapshot.Terrain = telemetry.EncodeTerrain(v.Graph)
		snapshot.Destination = v.Destination
		if v.Teleporter != nil {
			snapshot.Teleporter = &[2]int{v.Teleporter.First, v.Teleporter.Second}
		}
	})

	query := g.agentFilter.Query()
	for query.Next() {
		pos, vel, _, _, agent := query.Get()
		snapshot.Agents = append(snapshot.Agents, telemetry.AgentState{
			ID:   agent.ID,
			X:    pos.X,
			Y:    pos.Y,
			VelX: vel.X,
			VelY: vel.Y,
		})
	}

	return snapshot
}
