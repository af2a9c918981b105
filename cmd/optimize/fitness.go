package main

import (
	"log/slog"
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/MauroVanHoutte/FlowField/config"
	"github.com/MauroVanHoutte/FlowField/game"
	"github.com/MauroVanHoutte/FlowField/telemetry"
)

// FitnessEvaluator runs headless games and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	mu          sync.Mutex
	bestFitness float64
	lastQuality float64 // quality from most recent Evaluate call
	lastArrived float64 // arrived fraction from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 2.0,
		bestFitness: math.Inf(1),
	}
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

// LastArrived returns the mean arrived fraction from the most recent evaluation.
func (fe *FitnessEvaluator) LastArrived() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastArrived
}

// runResult holds the results from a single game run.
type runResult struct {
	agents      int
	arrived     int
	doneTick    int32 // tick at which every agent had arrived, or maxTicks
	windowStats []telemetry.WindowStats
}

// Evaluate computes fitness for a parameter vector (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]*runResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			results[idx] = fe.runSimulation(x, s)
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality, totalArrived float64
	for _, r := range results {
		quality := computeQuality(r.windowStats, fe.baseConfig.Agents.MaxSpeed)
		totalFitness += fe.computeFitness(r, quality)
		totalQuality += quality
		totalArrived += arrivedFraction(r)
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
	}
	fe.lastQuality = totalQuality / n
	fe.lastArrived = totalArrived / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless game until every agent has
// arrived or maxTicks is reached.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) *runResult {
	cfg := fe.copyConfig()
	if err := fe.params.ApplyToConfig(cfg, x); err != nil {
		slog.Error("invalid parameters", "error", err)
		return &runResult{doneTick: fe.maxTicks}
	}

	result := &runResult{doneTick: fe.maxTicks}

	g := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		Headless:       true,
		StatsWindowSec: fe.statsWindow,
		StepsPerUpdate: 1,
		Config:         cfg,
		StatsCallback: func(stats telemetry.WindowStats) {
			result.windowStats = append(result.windowStats, stats)
		},
	})
	defer g.Unload()

	for g.Tick() < fe.maxTicks {
		g.UpdateHeadless()
		if g.AgentCount() > 0 && g.ArrivedCount() == g.AgentCount() {
			result.doneTick = g.Tick()
			break
		}
	}

	result.agents = g.AgentCount()
	result.arrived = g.ArrivedCount()
	return result
}

// copyConfig returns a copy of the base config. Config holds only values,
// so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

func arrivedFraction(r *runResult) float64 {
	if r.agents == 0 {
		return 1
	}
	return float64(r.arrived) / float64(r.agents)
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: (1 - arrived) + doneTick/maxTicks - 0.2 × quality
// Agents left behind dominate; among configs that bring everyone home the
// faster and smoother one wins.
func (fe *FitnessEvaluator) computeFitness(r *runResult, quality float64) float64 {
	missing := 1 - arrivedFraction(r)
	duration := float64(r.doneTick) / float64(fe.maxTicks)
	return missing + duration - 0.2*quality
}

// Quality component weights.
const (
	qualityWeightSpeed   = 0.6
	qualityWeightTraffic = 0.4
)

// computeQuality scores crowd flow in [0, 1] from window stats: high mean
// speed relative to maxSpeed and low peak traffic.
func computeQuality(windows []telemetry.WindowStats, maxSpeed float64) float64 {
	if len(windows) == 0 || maxSpeed <= 0 {
		return 0
	}

	speeds := make([]float64, 0, len(windows))
	traffic := make([]float64, 0, len(windows))
	for _, w := range windows {
		if w.Agents == w.Arrived {
			continue
		}
		speeds = append(speeds, w.MeanSpeed/maxSpeed)
		traffic = append(traffic, w.MaxTraffic)
	}
	if len(speeds) == 0 {
		return 1
	}

	speedScore := clamp01(stat.Mean(speeds, nil))
	trafficScore := math.Exp(-stat.Mean(traffic, nil))

	return clamp01(qualityWeightSpeed*speedScore + qualityWeightTraffic*trafficScore)
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
