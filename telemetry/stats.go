package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Agent counts at window end
	Agents  int `csv:"agents"`
	Arrived int `csv:"arrived"`
	Stuck   int `csv:"stuck"` // agents on cells that cannot reach the destination

	// Events during window
	Solves             int `csv:"solves"`
	Rebuilds           int `csv:"rebuilds"`
	Teleports          int `csv:"teleports"`
	TerrainEdits       int `csv:"terrain_edits"`
	DestinationChanges int `csv:"destination_changes"`
	Arrivals           int `csv:"arrivals"`

	// Grid reachability at window end
	ReachableNodes   int `csv:"reachable_nodes"`
	UnreachableNodes int `csv:"unreachable_nodes"`

	// Cost-to-go distribution over agents with a finite cost
	CostMean float64 `csv:"cost_mean"`
	CostStd  float64 `csv:"cost_std"`
	CostP10  float64 `csv:"cost_p10"`
	CostP50  float64 `csv:"cost_p50"`
	CostP90  float64 `csv:"cost_p90"`

	MeanSpeed  float64 `csv:"mean_speed"`
	MaxTraffic float64 `csv:"max_traffic"`
}

// Percentile returns the p-th quantile of a sorted slice with linear
// interpolation. p is clamped to [0, 1]. Returns 0 if slice is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	return stat.Quantile(p, stat.LinInterp, sorted, nil)
}

// ComputeCostStats calculates mean, std, and percentiles from cost values.
func ComputeCostStats(values []float64) (mean, std, p10, p50, p90 float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0, 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mean, std = stat.PopMeanStdDev(sorted, nil)
	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)
	return mean, std, p10, p50, p90
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("agents", s.Agents),
		slog.Int("arrived", s.Arrived),
		slog.Int("stuck", s.Stuck),
		slog.Int("solves", s.Solves),
		slog.Int("rebuilds", s.Rebuilds),
		slog.Int("teleports", s.Teleports),
		slog.Int("terrain_edits", s.TerrainEdits),
		slog.Int("destination_changes", s.DestinationChanges),
		slog.Int("arrivals", s.Arrivals),
		slog.Int("reachable_nodes", s.ReachableNodes),
		slog.Int("unreachable_nodes", s.UnreachableNodes),
		slog.Float64("cost_mean", s.CostMean),
		slog.Float64("cost_std", s.CostStd),
		slog.Float64("cost_p10", s.CostP10),
		slog.Float64("cost_p50", s.CostP50),
		slog.Float64("cost_p90", s.CostP90),
		slog.Float64("mean_speed", s.MeanSpeed),
		slog.Float64("max_traffic", s.MaxTraffic),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
