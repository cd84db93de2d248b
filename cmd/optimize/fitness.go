package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/pasture/config"
	"github.com/pthm-cable/pasture/game"
	"github.com/pthm-cable/pasture/organism"
	"github.com/pthm-cable/pasture/telemetry"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxDays     int
	seeds       []int64
	baseConfig  *config.Config
	statsWindow int

	mu          sync.Mutex
	lastQuality float64 // quality from most recent Evaluate call
	lastSurvive float64 // mean survival days from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxDays int, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxDays:     maxDays,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 10,
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastSurvival returns the mean survival days from the most recent evaluation.
func (fe *FitnessEvaluator) LastSurvival() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastSurvive
}

// runResult holds the results from a single simulation run.
type runResult struct {
	survivalDays int // day the predator went down, or maxDays
	speciesLeft  int // species with living prey at the end
	windowStats  []telemetry.DayStats
	err          error
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	survival float64
	quality  float64
}

// Evaluate computes fitness for raw parameter values (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	cfg := fe.baseConfig.Clone()
	fe.params.ApplyToConfig(cfg, x)

	// Run all seeds in parallel
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r := fe.runSimulation(cfg, s)
			results[idx] = seedResult{
				survival: float64(r.survivalDays),
				quality:  computeQuality(r),
			}
		}(i, seed)
	}
	wg.Wait()

	var totalSurvival, totalQuality float64
	for _, r := range results {
		totalSurvival += r.survival
		totalQuality += r.quality
	}
	n := float64(len(fe.seeds))
	survival := totalSurvival / n
	quality := totalQuality / n

	fe.mu.Lock()
	fe.lastQuality = quality
	fe.lastSurvive = survival
	fe.mu.Unlock()

	return computeFitness(survival, quality)
}

// runSimulation executes a single headless run until the predator goes
// down or maxDays pass. cfg is only read.
func (fe *FitnessEvaluator) runSimulation(cfg *config.Config, seed int64) *runResult {
	result := &runResult{}

	sim, err := game.FromConfig(cfg, game.Options{
		Seed:            seed,
		StatsWindowDays: fe.statsWindow,
		StatsCallback: func(stats telemetry.DayStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	if err != nil {
		slog.Error("failed to build simulation", "seed", seed, "error", err)
		result.err = err
		return result
	}

	for sim.Day() < fe.maxDays {
		sim.AdvanceOneDay()
		if !sim.PredatorAlive() {
			break
		}
	}
	sim.Close()

	result.survivalDays = sim.Day()
	census := sim.Census()
	for _, sp := range organism.AllSpecies() {
		if census[sp.String()] > 0 {
			result.speciesLeft++
		}
	}
	return result
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(survivalDays × (1.0 + 0.2 × quality))
func computeFitness(survival, quality float64) float64 {
	return -(survival * (1.0 + 0.2*quality))
}

// Quality component weights.
const (
	qualityWeightSpecies   = 0.7
	qualityWeightStability = 0.3
)

// computeQuality scores a run in [0, 1] from the species still present at
// the end and the stability of the prey population across windows.
func computeQuality(r *runResult) float64 {
	species := float64(r.speciesLeft) / float64(len(organism.AllSpecies()))

	stability := 0.0
	if len(r.windowStats) >= 2 {
		counts := make([]float64, len(r.windowStats))
		for i, w := range r.windowStats {
			counts[i] = float64(w.Population)
		}
		c := cv(counts)
		stability = math.Exp(-c * c)
	}

	return clamp01(qualityWeightSpecies*species + qualityWeightStability*stability)
}

// cv computes the coefficient of variation (std/mean) for a slice of values.
func cv(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean, std := stat.MeanStdDev(values, nil)
	if mean == 0 {
		return 0
	}
	return std / mean
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
