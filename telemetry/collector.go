package telemetry

import "math"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Event counters for current window
	solves             int
	rebuilds           int
	teleports          int
	terrainEdits       int
	destinationChanges int
	arrivals           int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
//
// The tick count is rounded: float32 dt values such as 1/60 widen to slightly
// more than their decimal value.
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(math.Round(windowDurationSec / float64(dt)))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordSolve records a cost field solve.
func (c *Collector) RecordSolve() { c.solves++ }

// RecordRebuild records a flow field rebuild.
func (c *Collector) RecordRebuild() { c.rebuilds++ }

// RecordTeleport records an agent crossing the teleporter.
func (c *Collector) RecordTeleport() { c.teleports++ }

// RecordTerrainEdit records one painted cell.
func (c *Collector) RecordTerrainEdit() { c.terrainEdits++ }

// RecordDestinationChange records a new destination.
func (c *Collector) RecordDestinationChange() { c.destinationChanges++ }

// RecordArrival records an agent reaching the destination.
func (c *Collector) RecordArrival() { c.arrivals++ }

// Record counts an event in the current window.
func (c *Collector) Record(e Event) {
	switch e.Type {
	case EventSolve:
		c.RecordSolve()
	case EventRebuild:
		c.RecordRebuild()
	case EventTeleport:
		c.RecordTeleport()
	case EventTerrainEdit:
		c.RecordTerrainEdit()
	case EventDestinationChange:
		c.RecordDestinationChange()
	case EventArrival:
		c.RecordArrival()
	}
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// WorldSample holds the world state sampled at the end of a window.
type WorldSample struct {
	Agents           int
	Arrived          int
	Stuck            int
	ReachableNodes   int
	UnreachableNodes int
	AgentCosts       []float64 // finite cost-to-go of each agent
	MeanSpeed        float64
	MaxTraffic       float64
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, snap WorldSample) WindowStats {
	mean, std, p10, p50, p90 := ComputeCostStats(snap.AgentCosts)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Agents:  snap.Agents,
		Arrived: snap.Arrived,
		Stuck:   snap.Stuck,

		Solves:             c.solves,
		Rebuilds:           c.rebuilds,
		Teleports:          c.teleports,
		TerrainEdits:       c.terrainEdits,
		DestinationChanges: c.destinationChanges,
		Arrivals:           c.arrivals,

		ReachableNodes:   snap.ReachableNodes,
		UnreachableNodes: snap.UnreachableNodes,

		CostMean: mean,
		CostStd:  std,
		CostP10:  p10,
		CostP50:  p50,
		CostP90:  p90,

		MeanSpeed:  snap.MeanSpeed,
		MaxTraffic: snap.MaxTraffic,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.solves = 0
	c.rebuilds = 0
	c.teleports = 0
	c.terrainEdits = 0
	c.destinationChanges = 0
	c.arrivals = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
