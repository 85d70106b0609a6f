// Package ga implements the genetic algorithm that searches the parameter
// space for each walk-forward window.
package ga

import (
	"math"
	"math/rand"
	"runtime"
	"sort"

	"github.com/ridopark/jonbu-wfo/internal/paramspace"
)

// Config holds the GA's tunable knobs.
type Config struct {
	PopulationSize           int
	NumGenerations           int
	TournamentSize           int
	CrossoverRate            float64
	MutationRate             float64
	MutationSigmaPct         float64
	ElitismCount             int
	EarlyStoppingGenerations int
	Seed                     int64
	MaxWorkers               int
}

// DefaultConfig returns the standard GA defaults.
func DefaultConfig() Config {
	return Config{
		PopulationSize:           32,
		NumGenerations:           8,
		TournamentSize:           3,
		CrossoverRate:            0.8,
		MutationRate:             0.15,
		MutationSigmaPct:         0.10,
		ElitismCount:             2,
		EarlyStoppingGenerations: 3,
		Seed:                     0,
		MaxWorkers:               runtime.NumCPU(),
	}
}

// GenerationRecord is one entry in the GA's run history.
type GenerationRecord struct {
	Gen              int
	BestFitness      float64
	AvgFitnessFinite float64
	Evaluations      int
}

// FitnessFunc scores one parameter vector. Must be pure given params and
// the closed-over training data.
type FitnessFunc func(params paramspace.Params) float64

// Result is the outcome of one GA.Optimize call.
type Result struct {
	Best    Individual
	History []GenerationRecord
}

// GA runs the evolutionary search over the parameter space.
type GA struct {
	cfg Config
}

// New builds a GA with cfg.
func New(cfg Config) *GA {
	return &GA{cfg: cfg}
}

// Optimize runs the full generation loop against fitnessFn and returns the
// best-ever individual plus the per-generation history.
func (g *GA) Optimize(fitnessFn FitnessFunc) Result {
	master := rand.New(rand.NewSource(g.cfg.Seed))

	population := g.initializePopulation(master)
	g.evaluateAll(population, fitnessFn, master.Int63())

	best := bestOf(population)
	history := []GenerationRecord{recordGeneration(0, population, best)}

	stagnation := 0
	for gen := 1; gen < g.cfg.NumGenerations; gen++ {
		sort.SliceStable(population, func(i, j int) bool {
			return population[i].Fitness > population[j].Fitness
		})

		elites := make([]Individual, g.cfg.ElitismCount)
		for i := 0; i < g.cfg.ElitismCount; i++ {
			elites[i] = population[i].Clone()
		}

		offspringCount := g.cfg.PopulationSize - g.cfg.ElitismCount
		offspring := make([]Individual, offspringCount)
		for i := 0; i < offspringCount; i++ {
			offspring[i] = g.makeChild(population, master)
		}

		g.evaluateAll(offspring, fitnessFn, master.Int63())

		population = append(elites, offspring...)

		genBest := bestOf(population)
		if genBest.Fitness > best.Fitness {
			best = genBest
			stagnation = 0
		} else {
			stagnation++
		}

		history = append(history, recordGeneration(gen, population, best))

		if stagnation >= g.cfg.EarlyStoppingGenerations {
			break
		}
	}

	return Result{Best: best, History: history}
}

func (g *GA) initializePopulation(rng *rand.Rand) []Individual {
	population := make([]Individual, g.cfg.PopulationSize)
	for i := range population {
		population[i] = Individual{Params: paramspace.ProjectConstraints(sampleUniform(rng))}
	}
	return population
}

func sampleUniform(rng *rand.Rand) paramspace.Params {
	val := func(name string) float64 {
		b := paramspace.Space[name]
		return b.Min + rng.Float64()*(b.Max-b.Min)
	}
	return paramspace.Params{
		GOBQuality:        val("g_ob_quality"),
		GMomentum:         val("g_momentum"),
		GVolatility:       val("g_volatility"),
		GLiquidity:        val("g_liquidity"),
		GMLConfidence:     val("g_ml_confidence"),
		AlphaThreshold:    val("alpha_threshold"),
		ADXTrendThresh:    int(val("adx_trend_threshold")),
		ADXSidewaysThresh: int(val("adx_sideways_threshold")),
		ATRHighMult:       val("atr_high_mult"),
		ATRLowMult:        val("atr_low_mult"),
		StopLossATRMult:   val("stop_loss_atr_mult"),
		TakeProfitRMult:   val("take_profit_r_mult"),
		RiskPerTradePct:   val("risk_per_trade_pct"),
	}
}

// evaluateAll scores every individual, optionally in parallel. FitnessFunc
// is pure given params, so evaluation order and worker count never affect
// the result.
func (g *GA) evaluateAll(population []Individual, fitnessFn FitnessFunc, genSeed int64) {
	evaluatePool(len(population), g.cfg.MaxWorkers, func(i int) {
		population[i].Fitness = fitnessFn(population[i].Params)
		population[i].Evaluated = true
	})
}

func (g *GA) makeChild(population []Individual, rng *rand.Rand) Individual {
	parent1 := tournamentSelect(population, g.cfg.TournamentSize, rng)
	parent2 := tournamentSelect(population, g.cfg.TournamentSize, rng)

	var child paramspace.Params
	if rng.Float64() < g.cfg.CrossoverRate {
		child = uniformCrossover(parent1.Params, parent2.Params, rng)
	} else {
		child = parent1.Params
	}

	child = g.mutate(child, rng)
	child = paramspace.ProjectConstraints(child)

	return Individual{Params: child}
}

func tournamentSelect(population []Individual, k int, rng *rand.Rand) Individual {
	n := len(population)
	if k > n {
		k = n
	}
	indices := rng.Perm(n)[:k]

	best := population[indices[0]]
	for _, idx := range indices[1:] {
		if population[idx].Fitness > best.Fitness {
			best = population[idx]
		}
	}
	return best
}

func uniformCrossover(a, b paramspace.Params, rng *rand.Rand) paramspace.Params {
	pick := func(x, y float64) float64 {
		if rng.Float64() < 0.5 {
			return x
		}
		return y
	}
	return paramspace.Params{
		GOBQuality:        pick(a.GOBQuality, b.GOBQuality),
		GMomentum:         pick(a.GMomentum, b.GMomentum),
		GVolatility:       pick(a.GVolatility, b.GVolatility),
		GLiquidity:        pick(a.GLiquidity, b.GLiquidity),
		GMLConfidence:     pick(a.GMLConfidence, b.GMLConfidence),
		AlphaThreshold:    pick(a.AlphaThreshold, b.AlphaThreshold),
		ADXTrendThresh:    int(pick(float64(a.ADXTrendThresh), float64(b.ADXTrendThresh))),
		ADXSidewaysThresh: int(pick(float64(a.ADXSidewaysThresh), float64(b.ADXSidewaysThresh))),
		ATRHighMult:       pick(a.ATRHighMult, b.ATRHighMult),
		ATRLowMult:        pick(a.ATRLowMult, b.ATRLowMult),
		StopLossATRMult:   pick(a.StopLossATRMult, b.StopLossATRMult),
		TakeProfitRMult:   pick(a.TakeProfitRMult, b.TakeProfitRMult),
		RiskPerTradePct:   pick(a.RiskPerTradePct, b.RiskPerTradePct),
	}
}

func (g *GA) mutate(p paramspace.Params, rng *rand.Rand) paramspace.Params {
	gene := func(value float64, name string) float64 {
		if rng.Float64() >= g.cfg.MutationRate {
			return value
		}
		b := paramspace.Space[name]
		sigma := g.cfg.MutationSigmaPct * (b.Max - b.Min)
		return value + rng.NormFloat64()*sigma
	}

	p.GOBQuality = gene(p.GOBQuality, "g_ob_quality")
	p.GMomentum = gene(p.GMomentum, "g_momentum")
	p.GVolatility = gene(p.GVolatility, "g_volatility")
	p.GLiquidity = gene(p.GLiquidity, "g_liquidity")
	p.GMLConfidence = gene(p.GMLConfidence, "g_ml_confidence")
	p.AlphaThreshold = gene(p.AlphaThreshold, "alpha_threshold")
	p.ADXTrendThresh = int(gene(float64(p.ADXTrendThresh), "adx_trend_threshold"))
	p.ADXSidewaysThresh = int(gene(float64(p.ADXSidewaysThresh), "adx_sideways_threshold"))
	p.ATRHighMult = gene(p.ATRHighMult, "atr_high_mult")
	p.ATRLowMult = gene(p.ATRLowMult, "atr_low_mult")
	p.StopLossATRMult = gene(p.StopLossATRMult, "stop_loss_atr_mult")
	p.TakeProfitRMult = gene(p.TakeProfitRMult, "take_profit_r_mult")
	p.RiskPerTradePct = gene(p.RiskPerTradePct, "risk_per_trade_pct")

	return p
}

func bestOf(population []Individual) Individual {
	best := population[0]
	for _, ind := range population[1:] {
		if ind.Fitness > best.Fitness {
			best = ind
		}
	}
	return best
}

func recordGeneration(gen int, population []Individual, best Individual) GenerationRecord {
	sum := 0.0
	finiteCount := 0
	for _, ind := range population {
		if !math.IsInf(ind.Fitness, 0) {
			sum += ind.Fitness
			finiteCount++
		}
	}
	avg := 0.0
	if finiteCount > 0 {
		avg = sum / float64(finiteCount)
	}
	return GenerationRecord{
		Gen:              gen,
		BestFitness:      best.Fitness,
		AvgFitnessFinite: avg,
		Evaluations:      len(population),
	}
}
