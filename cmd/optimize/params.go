// Package main provides CMA-ES optimization for pasture predator policies.
package main

import (
	"github.com/pthm-cable/pasture/config"
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

// NewParamVector creates the predator policy parameters. Defaults come
// from base so the search starts at the configured policy.
func NewParamVector(base *config.Config) *ParamVector {
	pv := &ParamVector{
		Specs: []ParamSpec{
			{Name: "sacrifice_age_days", Path: "predator.sacrifice_age_days", Min: 0, Max: 1500, Default: 280},
			{Name: "opt_reserve", Path: "predator.opt_reserve", Min: 10, Max: 300, Default: 30},
			{Name: "initial_reserve", Path: "predator.initial_reserve", Min: 100, Max: 10000, Default: 3000},
		},
	}
	if base != nil {
		defaults := pv.Clamp(pv.ExtractFromConfig(base))
		for i := range pv.Specs {
			pv.Specs[i].Default = defaults[i]
		}
	}
	return pv
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

// ApplyToConfig applies parameter values to cfg's predator section.
// opt_reserve never drops below the configured min_reserve.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	// Order must match Specs order
	cfg.Predator.SacrificeAgeDays = int(clamped[0] + 0.5)
	cfg.Predator.OptReserve = clamped[1]
	if cfg.Predator.OptReserve < cfg.Predator.MinReserve {
		cfg.Predator.OptReserve = cfg.Predator.MinReserve
	}
	cfg.Predator.InitialReserve = clamped[2]
}

// ExtractFromConfig extracts current parameter values from cfg.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		float64(cfg.Predator.SacrificeAgeDays),
		cfg.Predator.OptReserve,
		cfg.Predator.InitialReserve,
	}
}
