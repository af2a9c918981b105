package telemetry

import (
	"log/slog"
	"time"
)

// Phase names for the simulation step.
const (
	PhaseEdits      = "edits"      // terrain edits and obstacle index sync
	PhaseSampling   = "sampling"   // agent (position, radius) snapshot
	PhaseNavigation = "navigation" // cost field solve and flow field build
	PhaseSteering   = "steering"   // seek/flee blend and integration
	PhaseTeleport   = "teleport"
	PhaseTelemetry  = "telemetry"
)

// AllPhases lists the phases in tick order.
var AllPhases = []string{
	PhaseEdits, PhaseSampling, PhaseNavigation,
	PhaseSteering, PhaseTeleport, PhaseTelemetry,
}

// tickRecord is one timed tick. phases is indexed by phase slot.
type tickRecord struct {
	total  time.Duration
	phases []time.Duration
}

// PerfCollector keeps the timings of the last windowSize ticks. Phases get a
// slot the first time they are started, so per-tick bookkeeping is a slice
// index rather than a map write.
type PerfCollector struct {
	ring  []tickRecord
	next  int
	count int

	slots map[string]int
	names []string

	current    tickRecord
	tickStart  time.Time
	phaseStart time.Time
	phase      int // slot of the running phase, -1 between ticks

	lastFrame time.Time
	frame     time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	p := &PerfCollector{
		ring:  make([]tickRecord, windowSize),
		slots: make(map[string]int, len(AllPhases)),
		phase: -1,
	}
	for _, name := range AllPhases {
		p.slot(name)
	}
	return p
}

func (p *PerfCollector) slot(name string) int {
	if i, ok := p.slots[name]; ok {
		return i
	}
	i := len(p.names)
	p.slots[name] = i
	p.names = append(p.names, name)
	return i
}

// StartTick begins timing a new simulation tick.
func (p *PerfCollector) StartTick() {
	p.tickStart = time.Now()
	p.current = tickRecord{phases: make([]time.Duration, len(p.names))}
	p.phase = -1
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	now := time.Now()
	p.closePhase(now)
	slot := p.slot(phase)
	for len(p.current.phases) <= slot {
		p.current.phases = append(p.current.phases, 0)
	}
	p.phase = slot
	p.phaseStart = now
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.current.phases[p.phase] += now.Sub(p.phaseStart)
	}
}

// EndTick closes the running phase and stores the tick.
func (p *PerfCollector) EndTick() {
	now := time.Now()
	p.closePhase(now)
	p.phase = -1
	p.current.total = now.Sub(p.tickStart)

	p.ring[p.next] = p.current
	p.next = (p.next + 1) % len(p.ring)
	if p.count < len(p.ring) {
		p.count++
	}
}

// RecordFrame measures the time since the previous call (graphics mode).
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frame = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats holds aggregated performance statistics.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration

	// Per phase: mean duration and share of the mean tick in percent
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	TicksPerSecond float64

	// Graphics mode only
	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the ticks currently in the window.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		FrameDuration: p.frame,
	}
	if p.frame > 0 {
		s.FPS = float64(time.Second) / float64(p.frame)
	}
	if p.count == 0 {
		return s
	}

	var total time.Duration
	sums := make([]time.Duration, len(p.names))
	for i, rec := range p.ring[:p.count] {
		total += rec.total
		if i == 0 || rec.total < s.MinTickDuration {
			s.MinTickDuration = rec.total
		}
		if rec.total > s.MaxTickDuration {
			s.MaxTickDuration = rec.total
		}
		for slot, d := range rec.phases {
			sums[slot] += d
		}
	}

	n := time.Duration(p.count)
	s.AvgTickDuration = total / n
	if s.AvgTickDuration > 0 {
		s.TicksPerSecond = float64(time.Second) / float64(s.AvgTickDuration)
	}
	for slot, sum := range sums {
		if sum == 0 {
			continue
		}
		name := p.names[slot]
		s.PhaseAvg[name] = sum / n
		if s.AvgTickDuration > 0 {
			s.PhasePct[name] = float64(s.PhaseAvg[name]) / float64(s.AvgTickDuration) * 100
		}
	}
	return s
}

// LogStats logs the tick timings with the share of every phase above 0.1%.
func (s PerfStats) LogStats() {
	attrs := []any{
		"avg_tick_us", s.AvgTickDuration.Microseconds(),
		"min_tick_us", s.MinTickDuration.Microseconds(),
		"max_tick_us", s.MaxTickDuration.Microseconds(),
		"ticks_per_sec", int(s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range AllPhases {
		if pct := s.PhasePct[phase]; pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// LogValue implements slog.LogValuer.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Float64("ticks_per_sec", s.TicksPerSecond),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Float64("fps", s.FPS))
	}
	for _, phase := range AllPhases {
		if pct, ok := s.PhasePct[phase]; ok {
			attrs = append(attrs, slog.Float64(phase+"_pct", pct))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one perf.csv row.
type PerfStatsCSV struct {
	WindowEnd     int32   `csv:"window_end"`
	AvgTickUS     int64   `csv:"avg_tick_us"`
	MinTickUS     int64   `csv:"min_tick_us"`
	MaxTickUS     int64   `csv:"max_tick_us"`
	TicksPerSec   float64 `csv:"ticks_per_sec"`
	FPS           float64 `csv:"fps"`
	EditsPct      float64 `csv:"edits_pct"`
	SamplingPct   float64 `csv:"sampling_pct"`
	NavigationPct float64 `csv:"navigation_pct"`
	SteeringPct   float64 `csv:"steering_pct"`
	TeleportPct   float64 `csv:"teleport_pct"`
	TelemetryPct  float64 `csv:"telemetry_pct"`
}

// ToCSV flattens s into a perf.csv row.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:     windowEnd,
		AvgTickUS:     s.AvgTickDuration.Microseconds(),
		MinTickUS:     s.MinTickDuration.Microseconds(),
		MaxTickUS:     s.MaxTickDuration.Microseconds(),
		TicksPerSec:   s.TicksPerSecond,
		FPS:           s.FPS,
		EditsPct:      s.PhasePct[PhaseEdits],
		SamplingPct:   s.PhasePct[PhaseSampling],
		NavigationPct: s.PhasePct[PhaseNavigation],
		SteeringPct:   s.PhasePct[PhaseSteering],
		TeleportPct:   s.PhasePct[PhaseTeleport],
		TelemetryPct:  s.PhasePct[PhaseTelemetry],
	}
}
