package wfo

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ridopark/jonbu-wfo/internal/alpha"
	"github.com/ridopark/jonbu-wfo/internal/backtest"
	"github.com/ridopark/jonbu-wfo/internal/fitness"
	"github.com/ridopark/jonbu-wfo/internal/ga"
	"github.com/ridopark/jonbu-wfo/internal/logger"
	"github.com/ridopark/jonbu-wfo/internal/metrics"
	"github.com/ridopark/jonbu-wfo/internal/models"
	"github.com/ridopark/jonbu-wfo/internal/paramspace"
	"github.com/ridopark/jonbu-wfo/internal/predictor"
	"github.com/shopspring/decimal"
)

// Config configures one end-to-end WFO driver run.
type Config struct {
	Window           WindowConfig
	Symbol           string
	InitialBalance   decimal.Decimal
	FeeRate          decimal.Decimal
	MaxPortfolioRisk float64
	DrawdownScaling  bool
	GA               ga.Config
	Predictor        predictor.Predictor
	Sink             backtest.Sink
}

// WindowResult is the per-window record appended by the driver.
type WindowResult struct {
	Label         string
	TrainFitness  float64
	TestReturn    float64
	TestPF        float64
	TestSharpe    float64
	TestMaxDD     float64
	TestTrades    int
	TestWinRate   float64
	StartBalance  float64
	EndBalance    float64
	OptimalParams paramspace.Params
	Elapsed       time.Duration
}

// Summary aggregates the per-window results across an entire run.
type Summary struct {
	InitialBalance float64
	FinalBalance   float64
	TotalReturnPct float64
	AvgTestPF      float64
	MedianTestPF   float64
	PassRate       float64
	StdLogPF       float64
	FailingWindows int
}

// Result is the complete output of a WFO driver run.
type Result struct {
	Windows []WindowResult
	Summary Summary
}

// Driver runs the walk-forward loop: per window, a GA search over
// SubTrain/ValTrain followed by one untouched-test backtest, compounding
// equity forward across windows.
type Driver struct {
	cfg          Config
	orchestrator *alpha.Orchestrator
	runID        string
	// cancel is polled between windows only; a backtest, once started,
	// runs to completion.
	cancel func() bool
}

// NewDriver builds a Driver. cancel may be nil; if set, it is polled after
// each completed window and the run stops early (without error) when it
// returns true.
func NewDriver(cfg Config, cancel func() bool) *Driver {
	if cfg.Predictor == nil {
		cfg.Predictor = predictor.NeutralPredictor{}
	}
	return &Driver{
		cfg:          cfg,
		orchestrator: alpha.NewOrchestrator(cfg.Predictor),
		runID:        uuid.New().String(),
		cancel:       cancel,
	}
}

// Run partitions candles into rolling windows and drives the full
// optimize-then-test loop over each one in order.
func (d *Driver) Run(candles []models.Candle) (*Result, error) {
	windows, err := GenerateWindows(candles, d.cfg.Window)
	if err != nil {
		return nil, err
	}

	cumulative := d.cfg.InitialBalance
	results := make([]WindowResult, 0, len(windows))

	for _, w := range windows {
		start := time.Now()
		wlog := logger.NewWindowLogger(w.Label, d.cfg.Symbol)

		subTrain, valTrain := SplitTrain(w.TrainData, d.cfg.Window.TrainMonths)
		if len(w.WarmupData) < d.cfg.Window.WarmupBars {
			wlog.Warn().
				Int("available", len(w.WarmupData)).
				Int("requested", d.cfg.Window.WarmupBars).
				Msg("short warmup history, proceeding with what exists")
		}
		valWarmup := concatCandles(w.WarmupData, subTrain)

		fitnessFn := func(params paramspace.Params) float64 {
			subMetrics := d.runSegment(w.WarmupData, subTrain, params, d.cfg.InitialBalance)
			valMetrics := d.runSegment(valWarmup, valTrain, params, d.cfg.InitialBalance)
			return fitness.Compute(params, subMetrics, valMetrics)
		}

		gaResult := ga.New(d.cfg.GA).Optimize(fitnessFn)
		best := gaResult.Best.Params
		recordGAMetrics(w.Label, gaResult)
		gaLog := logger.NewGALogger(w.Label, d.cfg.GA.Seed)
		gaLog.Info().
			Int("generations", len(gaResult.History)).
			Float64("best_fitness", gaResult.Best.Fitness).
			Msg("optimization finished")

		testWarmup := concatCandles(w.WarmupData, w.TrainData)
		testEngine := d.newEngine(cumulative, best, false)
		testStart := time.Now()
		testMetrics := testEngine.Run(d.cfg.Symbol, testWarmup, w.TestData, d.signalSource(best), d.runID, "wfo_test")
		metrics.BacktestDurationSeconds.WithLabelValues("test").Observe(time.Since(testStart).Seconds())
		metrics.WindowTestPF.WithLabelValues(w.Label).Set(testMetrics.PF)

		startBalance, _ := cumulative.Float64()
		endBalance, _ := testEngine.FinalBalance().Float64()

		results = append(results, WindowResult{
			Label:         w.Label,
			TrainFitness:  gaResult.Best.Fitness,
			TestReturn:    testMetrics.ReturnPct,
			TestPF:        testMetrics.PF,
			TestSharpe:    testMetrics.Sharpe,
			TestMaxDD:     testMetrics.MaxDD,
			TestTrades:    testMetrics.Trades,
			TestWinRate:   winRate(testEngine.ClosedPositions()),
			StartBalance:  startBalance,
			EndBalance:    endBalance,
			OptimalParams: best,
			Elapsed:       time.Since(start),
		})

		cumulative = testEngine.FinalBalance()

		wlog.Info().
			Float64("train_fitness", gaResult.Best.Fitness).
			Float64("test_pf", testMetrics.PF).
			Int("test_trades", testMetrics.Trades).
			Float64("end_balance", endBalance).
			Dur("elapsed", time.Since(start)).
			Msg("window complete")

		if d.cancel != nil && d.cancel() {
			break
		}
	}

	return &Result{Windows: results, Summary: summarize(d.cfg.InitialBalance, cumulative, results)}, nil
}

// runSegment backtests one SubTrain/ValTrain segment at the run's fixed
// initial balance: each SegmentMetrics is seeded independently, not
// compounded. Fitness evaluation always runs in
// optimize mode, bypassing the trade sink.
func (d *Driver) runSegment(warmup, main []models.Candle, params paramspace.Params, balance decimal.Decimal) models.SegmentMetrics {
	start := time.Now()
	engine := backtest.New(d.segmentConfig(balance, params, true), nil)
	result := engine.Run(d.cfg.Symbol, warmup, main, d.signalSource(params), d.runID, "wfo_ga")
	metrics.BacktestDurationSeconds.WithLabelValues("ga").Observe(time.Since(start).Seconds())
	return result
}

// recordGAMetrics publishes the per-window GA run history to the process
// metrics registry: one generations/evaluations
// increment per history entry, and the window's final best-fitness gauge.
func recordGAMetrics(windowLabel string, result ga.Result) {
	for _, rec := range result.History {
		metrics.GAGenerationsTotal.WithLabelValues(windowLabel).Inc()
		metrics.GAEvaluationsTotal.WithLabelValues(windowLabel).Add(float64(rec.Evaluations))
	}
	metrics.GABestFitness.WithLabelValues(windowLabel).Set(result.Best.Fitness)
}

func (d *Driver) newEngine(balance decimal.Decimal, params paramspace.Params, optimize bool) *backtest.Engine {
	return backtest.New(d.segmentConfig(balance, params, optimize), d.cfg.Sink)
}

func (d *Driver) segmentConfig(balance decimal.Decimal, params paramspace.Params, optimize bool) backtest.Config {
	return backtest.Config{
		InitialBalance:   balance,
		FeeRate:          d.cfg.FeeRate,
		RiskPercentage:   params.RiskPerTradePct / 100.0,
		StopLossATRMult:  params.StopLossATRMult,
		TakeProfitRMult:  params.TakeProfitRMult,
		AlphaThreshold:   params.AlphaThreshold,
		MaxPortfolioRisk: d.cfg.MaxPortfolioRisk,
		DrawdownScaling:  d.cfg.DrawdownScaling,
		OptimizeMode:     optimize,
	}
}

func (d *Driver) signalSource(params paramspace.Params) backtest.SignalSource {
	return alpha.ParameterizedSource{Orchestrator: d.orchestrator, Params: params}
}

func concatCandles(a, b []models.Candle) []models.Candle {
	out := make([]models.Candle, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

func winRate(closed []models.ClosedPosition) float64 {
	if len(closed) == 0 {
		return 0
	}
	wins := 0
	for _, c := range closed {
		if c.NetPnL.Sign() > 0 {
			wins++
		}
	}
	return float64(wins) / float64(len(closed))
}

// summarize computes the cross-window aggregate statistics.
func summarize(initial, final decimal.Decimal, windows []WindowResult) Summary {
	initF, _ := initial.Float64()
	finalF, _ := final.Float64()

	s := Summary{
		InitialBalance: initF,
		FinalBalance:   finalF,
	}
	if initF != 0 {
		s.TotalReturnPct = (finalF - initF) / initF
	}
	if len(windows) == 0 {
		return s
	}

	pfs := make([]float64, len(windows))
	for i, w := range windows {
		pfs[i] = w.TestPF
	}

	sumPF := 0.0
	passing := 0
	failing := 0
	logPFs := make([]float64, len(pfs))
	for i, pf := range pfs {
		sumPF += pf
		if pf > 1.1 {
			passing++
		}
		if pf < 1.0 {
			failing++
		}
		logPFs[i] = math.Log(math.Max(pf, 0.01))
	}

	s.AvgTestPF = sumPF / float64(len(pfs))
	s.MedianTestPF = median(pfs)
	s.PassRate = float64(passing) / float64(len(pfs))
	s.FailingWindows = failing
	s.StdLogPF = stdev(logPFs)

	return s
}

func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func stdev(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)
	return math.Sqrt(variance)
}
