package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ridopark/jonbu-wfo/internal/backtest"
	"github.com/ridopark/jonbu-wfo/internal/config"
	"github.com/ridopark/jonbu-wfo/internal/ga"
	"github.com/ridopark/jonbu-wfo/internal/loader"
	"github.com/ridopark/jonbu-wfo/internal/logger"
	"github.com/ridopark/jonbu-wfo/internal/models"
	"github.com/ridopark/jonbu-wfo/internal/predictor"
	"github.com/ridopark/jonbu-wfo/internal/report"
	"github.com/ridopark/jonbu-wfo/internal/sink"
	"github.com/ridopark/jonbu-wfo/internal/wfo"
	"github.com/shopspring/decimal"
)

// Exit codes: 0 on success, non-zero on data-loading failure,
// configuration error, or no windows generated. When RunE returns
// non-nil, rootCmd.Execute returns the error and main exits 1, which
// satisfies the "non-zero" contract for every failure branch below.

var (
	dataPath       string
	year           int
	trainMonths    int
	testMonths     int
	stepMonths     int
	warmupBars     int
	population     int
	generations    int
	gaSeed         int64
	initialBalance float64
	outputDir      string
	symbol         string
	modelPath      string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a full walk-forward optimization and write a JSON report",
	RunE:  runWFO,
}

func init() {
	runCmd.Flags().StringVar(&dataPath, "data-path", "", "path to the OHLCV CSV file (required)")
	runCmd.Flags().IntVar(&year, "year", time.Now().UTC().Year(), "calendar year to partition into windows")
	runCmd.Flags().IntVar(&trainMonths, "train-months", 4, "months per train window")
	runCmd.Flags().IntVar(&testMonths, "test-months", 1, "months per test window")
	runCmd.Flags().IntVar(&stepMonths, "step-months", 1, "months to advance between windows (must equal test-months)")
	runCmd.Flags().IntVar(&warmupBars, "warmup-bars", 240, "warmup bars preceding each train window")
	runCmd.Flags().IntVar(&population, "population", 32, "GA population size")
	runCmd.Flags().IntVar(&generations, "generations", 8, "GA generation count")
	runCmd.Flags().Int64Var(&gaSeed, "seed", 0, "GA random seed")
	runCmd.Flags().Float64Var(&initialBalance, "initial-balance", 10000, "starting account balance")
	runCmd.Flags().StringVar(&outputDir, "output-dir", "./reports", "directory to write the run's JSON report")
	runCmd.Flags().StringVar(&symbol, "symbol", "SYMBOL", "symbol tag recorded on trade signals/records")
	runCmd.Flags().StringVar(&modelPath, "model-path", "", "optional path to a serialized LinearPredictor weights JSON file")

	_ = runCmd.MarkFlagRequired("data-path")
}

func runWFO(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger.InitLogger(cfg.LogLevel, cfg.Environment)
	log := logger.NewServiceLogger("wfo", "run")

	if stepMonths != testMonths {
		return fmt.Errorf("configuration error: --step-months (%d) must equal --test-months (%d)", stepMonths, testMonths)
	}

	candles, err := loader.LoadCandles(dataPath, models.H4)
	if err != nil {
		return fmt.Errorf("data-loading failure: %w", err)
	}
	log.Info().Int("candles", len(candles)).Str("path", dataPath).Msg("loaded candles")

	pred, err := loadPredictor()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	tradeSink, closeSink := buildSink(cfg, log)
	defer closeSink()

	driverCfg := wfo.Config{
		Window: wfo.WindowConfig{
			Year:        year,
			TrainMonths: trainMonths,
			TestMonths:  testMonths,
			StepMonths:  stepMonths,
			WarmupBars:  warmupBars,
		},
		Symbol:           symbol,
		InitialBalance:   decimal.NewFromFloat(initialBalance),
		FeeRate:          decimal.NewFromFloat(0.001),
		MaxPortfolioRisk: 0.06,
		DrawdownScaling:  true,
		GA: ga.Config{
			PopulationSize:           population,
			NumGenerations:           generations,
			TournamentSize:           3,
			CrossoverRate:            0.8,
			MutationRate:             0.15,
			MutationSigmaPct:         0.10,
			ElitismCount:             2,
			EarlyStoppingGenerations: 3,
			Seed:                     gaSeed,
			MaxWorkers:               ga.DefaultConfig().MaxWorkers,
		},
		Predictor: pred,
		Sink:      tradeSink,
	}

	driver := wfo.NewDriver(driverCfg, nil)

	result, err := driver.Run(candles)
	if err != nil {
		if errors.Is(err, models.ErrNoWindows) {
			return fmt.Errorf("no windows generated: %w", err)
		}
		return fmt.Errorf("wfo run failed: %w", err)
	}

	runID := uuid.New().String()
	doc := report.Build(report.Config{
		DataPath:       dataPath,
		Year:           year,
		TrainMonths:    trainMonths,
		TestMonths:     testMonths,
		StepMonths:     stepMonths,
		WarmupBars:     warmupBars,
		Population:     population,
		Generations:    generations,
		Seed:           gaSeed,
		InitialBalance: initialBalance,
	}, runID, time.Now().UTC(), result)

	path, err := report.WriteFile(outputDir, runID, doc)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	log.Info().
		Int("windows", len(result.Windows)).
		Float64("total_return_pct", result.Summary.TotalReturnPct).
		Float64("avg_test_pf", result.Summary.AvgTestPF).
		Str("report", path).
		Msg("wfo run complete")

	return nil
}

func loadPredictor() (predictor.Predictor, error) {
	if modelPath == "" {
		return predictor.NeutralPredictor{}, nil
	}
	return predictor.LoadLinearPredictor(modelPath)
}

// buildSink wires a Postgres trade sink when the loaded config has a
// database host configured; otherwise it falls back to NoopSink. The
// GA's SubTrain/ValTrain backtests always run in optimize mode, so this
// sink only ever sees the one per-window test run.
func buildSink(cfg *config.Config, log zerolog.Logger) (backtest.Sink, func()) {
	if !cfg.HasTradeSink() {
		return sink.NoopSink{}, func() {}
	}

	pg, err := sink.NewPostgresSink(sink.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Name:            cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxConnections:  cfg.Database.MaxConnections,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, log)
	if err != nil {
		log.Warn().Err(err).Msg("trade sink unavailable, falling back to NoopSink")
		return sink.NoopSink{}, func() {}
	}
	return pg, func() { _ = pg.Close() }
}
