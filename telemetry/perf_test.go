package telemetry

import (
	"testing"
	"time"
)

func runTicks(pc *PerfCollector, n int, phases map[string]time.Duration, order ...string) {
	for i := 0; i < n; i++ {
		pc.StartTick()
		for _, name := range order {
			pc.StartPhase(name)
			time.Sleep(phases[name])
		}
		pc.EndTick()
	}
}

func TestPerfCollectorPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	runTicks(pc, 5, map[string]time.Duration{
		PhaseNavigation: 100 * time.Microsecond,
		PhaseSteering:   200 * time.Microsecond,
	}, PhaseNavigation, PhaseSteering)

	stats := pc.Stats()
	if stats.AvgTickDuration <= 0 {
		t.Errorf("AvgTickDuration = %v, want > 0", stats.AvgTickDuration)
	}
	if stats.MinTickDuration > stats.MaxTickDuration {
		t.Errorf("MinTickDuration = %v > MaxTickDuration = %v", stats.MinTickDuration, stats.MaxTickDuration)
	}
	for _, phase := range []string{PhaseNavigation, PhaseSteering} {
		if stats.PhaseAvg[phase] <= 0 {
			t.Errorf("PhaseAvg[%s] = %v, want > 0", phase, stats.PhaseAvg[phase])
		}
	}
	if _, ok := stats.PhaseAvg[PhaseTeleport]; ok {
		t.Error("PhaseAvg has teleport, which never ran")
	}
}

func TestPerfCollectorRollingWindow(t *testing.T) {
	pc := NewPerfCollector(5)
	runTicks(pc, 12, map[string]time.Duration{PhaseNavigation: 10 * time.Microsecond}, PhaseNavigation)

	if pc.count != 5 {
		t.Errorf("count = %d, want 5", pc.count)
	}
	if stats := pc.Stats(); stats.TicksPerSecond <= 0 {
		t.Errorf("TicksPerSecond = %v, want > 0", stats.TicksPerSecond)
	}
}

func TestPerfCollectorUnknownPhases(t *testing.T) {
	pc := NewPerfCollector(10)
	runTicks(pc, 5, map[string]time.Duration{
		"fast": 10 * time.Microsecond,
		"slow": 500 * time.Microsecond,
	}, "fast", "slow")

	stats := pc.Stats()
	if stats.PhasePct["slow"] <= stats.PhasePct["fast"] {
		t.Errorf("PhasePct slow = %v, want above fast = %v", stats.PhasePct["slow"], stats.PhasePct["fast"])
	}
}

func TestPerfCollectorEmpty(t *testing.T) {
	stats := NewPerfCollector(0).Stats()
	if stats.AvgTickDuration != 0 {
		t.Errorf("AvgTickDuration = %v, want 0", stats.AvgTickDuration)
	}
	if stats.PhaseAvg == nil || stats.PhasePct == nil {
		t.Error("phase maps are nil, want empty")
	}
}

func TestPerfCollectorFrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond)
	pc.RecordFrame()

	stats := pc.Stats()
	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("FrameDuration = %v, want >= 15ms", stats.FrameDuration)
	}
	if stats.FPS <= 0 || stats.FPS > 70 {
		t.Errorf("FPS = %v, want in (0, 70]", stats.FPS)
	}
}

func TestPerfStatsToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 250 * time.Microsecond,
		PhasePct:        map[string]float64{PhaseNavigation: 60, PhaseSteering: 30},
	}
	row := s.ToCSV(120)
	if row.WindowEnd != 120 || row.AvgTickUS != 250 {
		t.Errorf("row = %+v, want window 120 and 250us", row)
	}
	if row.NavigationPct != 60 || row.SteeringPct != 30 || row.TeleportPct != 0 {
		t.Errorf("phase pct = %v, %v, %v, want 60, 30, 0", row.NavigationPct, row.SteeringPct, row.TeleportPct)
	}
}
