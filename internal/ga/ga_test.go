package ga

import (
	"math"
	"testing"

	"github.com/ridopark/jonbu-wfo/internal/paramspace"
)

// sphereFitness scores params by negative distance from the space's
// defaults, a single well-defined optimum the GA should climb toward.
func sphereFitness(p paramspace.Params) float64 {
	d := paramspace.Default()
	sq := func(a, b float64) float64 { return (a - b) * (a - b) }
	dist := sq(p.GOBQuality, d.GOBQuality) +
		sq(p.GMomentum, d.GMomentum) +
		sq(p.AlphaThreshold, d.AlphaThreshold)
	return -dist
}

func TestOptimizeImprovesOrMatchesInitialBest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 16
	cfg.NumGenerations = 6
	cfg.Seed = 42
	cfg.MaxWorkers = 2

	result := New(cfg).Optimize(sphereFitness)
	if len(result.History) == 0 {
		t.Fatal("Optimize() produced no generation history")
	}
	first := result.History[0].BestFitness
	last := result.History[len(result.History)-1].BestFitness
	if last < first {
		t.Errorf("best fitness regressed across generations: first=%v last=%v", first, last)
	}
}

func TestOptimizeIsDeterministicForAFixedSeed(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 12
	cfg.NumGenerations = 4
	cfg.Seed = 7

	r1 := New(cfg).Optimize(sphereFitness)
	r2 := New(cfg).Optimize(sphereFitness)

	if r1.Best.Fitness != r2.Best.Fitness {
		t.Errorf("Optimize() not deterministic for a fixed seed: %v != %v", r1.Best.Fitness, r2.Best.Fitness)
	}
	if r1.Best.Params != r2.Best.Params {
		t.Errorf("Optimize() best params differ across runs with the same seed")
	}
}

func TestOptimizeResultIsWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 10
	cfg.NumGenerations = 3
	cfg.Seed = 1

	best := New(cfg).Optimize(sphereFitness).Best.Params
	if best.GOBQuality < paramspace.Space["g_ob_quality"].Min || best.GOBQuality > paramspace.Space["g_ob_quality"].Max {
		t.Errorf("GOBQuality = %v, out of bounds", best.GOBQuality)
	}
	if best.AlphaThreshold < paramspace.Space["alpha_threshold"].Min || best.AlphaThreshold > paramspace.Space["alpha_threshold"].Max {
		t.Errorf("AlphaThreshold = %v, out of bounds", best.AlphaThreshold)
	}
}

func TestOptimizeEarlyStoppingRespectsStagnationLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.PopulationSize = 8
	cfg.NumGenerations = 50
	cfg.EarlyStoppingGenerations = 2
	cfg.Seed = 3

	constantFitness := func(paramspace.Params) float64 { return 1.0 }
	result := New(cfg).Optimize(constantFitness)

	if len(result.History) > cfg.EarlyStoppingGenerations+2 {
		t.Errorf("Optimize() ran %d generations with a flat fitness landscape, expected early stop near %d", len(result.History), cfg.EarlyStoppingGenerations)
	}
}

func TestRecordGenerationSkipsNegInfFromAverage(t *testing.T) {
	population := []Individual{
		{Fitness: math.Inf(-1)},
		{Fitness: 2.0},
		{Fitness: 4.0},
	}
	rec := recordGeneration(0, population, population[2])
	if rec.AvgFitnessFinite != 3.0 {
		t.Errorf("AvgFitnessFinite = %v, want 3.0 (NegInf excluded)", rec.AvgFitnessFinite)
	}
}
