package main

import (
	"math"
	"testing"

	"github.com/MauroVanHoutte/FlowField/config"
	"github.com/MauroVanHoutte/FlowField/telemetry"
)

func TestNormalizeRoundTrip(t *testing.T) {
	pv := NewParamVector()
	raw := pv.DefaultVector()
	back := pv.Denormalize(pv.Normalize(raw))
	for i := range raw {
		if math.Abs(back[i]-raw[i]) > 1e-9 {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Name, back[i], raw[i])
		}
	}
}

func TestApplyToConfigClamps(t *testing.T) {
	pv := NewParamVector()
	cfg := config.Defaults()

	values := []float64{-1, 10, 0.5, 3, 0.5}
	if err := pv.ApplyToConfig(cfg, values); err != nil {
		t.Fatalf("ApplyToConfig() error = %v", err)
	}

	if !cfg.Traffic.Enabled {
		t.Error("Traffic.Enabled = false, want true")
	}
	if cfg.Traffic.Multiplier != 0 {
		t.Errorf("Traffic.Multiplier = %v, want 0", cfg.Traffic.Multiplier)
	}
	if cfg.Steering.SeekWeight != 2.0 {
		t.Errorf("Steering.SeekWeight = %v, want 2", cfg.Steering.SeekWeight)
	}

	got := pv.ExtractFromConfig(cfg)
	want := pv.Clamp(values)
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("%s = %v, want %v", pv.Specs[i].Name, got[i], want[i])
		}
	}
}

func TestComputeQuality(t *testing.T) {
	tests := []struct {
		name    string
		windows []telemetry.WindowStats
		want    float64
	}{
		{"no windows", nil, 0},
		{"all arrived", []telemetry.WindowStats{{Agents: 4, Arrived: 4}}, 1},
		{"full speed no traffic", []telemetry.WindowStats{{Agents: 4, MeanSpeed: 10}}, 1},
		{"standing still", []telemetry.WindowStats{{Agents: 4, MeanSpeed: 0}}, qualityWeightTraffic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeQuality(tt.windows, 10)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("computeQuality() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestComputeFitnessPrefersArrivals(t *testing.T) {
	fe := NewFitnessEvaluator(NewParamVector(), 1000, []int64{1}, config.Defaults())

	done := fe.computeFitness(&runResult{agents: 10, arrived: 10, doneTick: 500}, 0)
	partial := fe.computeFitness(&runResult{agents: 10, arrived: 5, doneTick: 1000}, 1)

	if done >= partial {
		t.Errorf("fitness(all arrived) = %v, want below %v", done, partial)
	}
}
