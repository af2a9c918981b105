// Package main tunes steering and traffic parameters by running headless
// navigation games under a derivative-free optimizer.
package main

import (
	"github.com/MauroVanHoutte/FlowField/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "traffic_multiplier", Path: "traffic.multiplier", Min: 0, Max: 5, Default: 1.0},
			{Name: "seek_weight", Path: "steering.seek_weight", Min: 0.1, Max: 2.0, Default: 0.8},
			{Name: "flee_weight", Path: "steering.flee_weight", Min: 0, Max: 1.0, Default: 0.2},
			{Name: "flee_radius", Path: "steering.flee_radius", Min: 2.0, Max: 15.0, Default: 8.37},
			{Name: "flee_min_align", Path: "steering.flee_min_align", Min: 0, Max: 0.99, Default: 0.8},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to cfg and recomputes its derived
// values. Traffic is switched on so the multiplier has an effect.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) error {
	clamped := pv.Clamp(values)

	cfg.Traffic.Enabled = true
	cfg.Traffic.Multiplier = clamped[0]
	cfg.Steering.SeekWeight = clamped[1]
	cfg.Steering.FleeWeight = clamped[2]
	cfg.Steering.FleeRadius = clamped[3]
	cfg.Steering.FleeMinAlign = clamped[4]

	return cfg.Finalize()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Traffic.Multiplier,
		cfg.Steering.SeekWeight,
		cfg.Steering.FleeWeight,
		cfg.Steering.FleeRadius,
		cfg.Steering.FleeMinAlign,
	}
}
