// Package report assembles the JSON run-output document: a config echo,
// the cross-window summary, and one record per window. Written via
// encoding/json with indent.
package report

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ridopark/jonbu-wfo/internal/paramspace"
	"github.com/ridopark/jonbu-wfo/internal/wfo"
)

// Config echoes the run configuration into the output document.
type Config struct {
	DataPath       string  `json:"data_path"`
	Year           int     `json:"year"`
	TrainMonths    int     `json:"train_months"`
	TestMonths     int     `json:"test_months"`
	StepMonths     int     `json:"step_months"`
	WarmupBars     int     `json:"warmup_bars"`
	Population     int     `json:"population"`
	Generations    int     `json:"generations"`
	Seed           int64   `json:"seed"`
	InitialBalance float64 `json:"initial_balance"`
}

// Summary mirrors wfo.Summary with stable JSON field names.
type Summary struct {
	InitialBalance float64 `json:"initial_balance"`
	FinalBalance   float64 `json:"final_balance"`
	TotalReturnPct float64 `json:"total_return_pct"`
	AvgTestPF      float64 `json:"avg_test_pf"`
	MedianTestPF   float64 `json:"median_test_pf"`
	PassRate       float64 `json:"pass_rate"`
	StdLogPF       float64 `json:"std_log_pf"`
	FailingWindows int     `json:"failing_windows"`
}

// WindowRecord is one window's result, flattened for JSON output.
type WindowRecord struct {
	Label         string                 `json:"label"`
	TrainFitness  float64                `json:"train_fitness"`
	TestReturn    float64                `json:"test_return"`
	TestPF        float64                `json:"test_pf"`
	TestSharpe    float64                `json:"test_sharpe"`
	TestMaxDD     float64                `json:"test_maxdd"`
	TestTrades    int                    `json:"test_trades"`
	TestWinRate   float64                `json:"test_win_rate"`
	StartBalance  float64                `json:"start_balance"`
	EndBalance    float64                `json:"end_balance"`
	OptimalParams map[string]interface{} `json:"optimal_params"`
	ElapsedMs     int64                  `json:"elapsed_ms"`
}

// Document is the full persisted run output.
type Document struct {
	Config    Config         `json:"config"`
	Summary   Summary        `json:"summary"`
	Windows   []WindowRecord `json:"windows"`
	RunID     string         `json:"run_id"`
	CreatedAt time.Time      `json:"created_at"`
}

// Build assembles a Document from a driver Result and the run's config
// echo.
func Build(cfg Config, runID string, createdAt time.Time, result *wfo.Result) Document {
	windows := make([]WindowRecord, len(result.Windows))
	for i, w := range result.Windows {
		windows[i] = WindowRecord{
			Label:         w.Label,
			TrainFitness:  w.TrainFitness,
			TestReturn:    w.TestReturn,
			TestPF:        w.TestPF,
			TestSharpe:    w.TestSharpe,
			TestMaxDD:     w.TestMaxDD,
			TestTrades:    w.TestTrades,
			TestWinRate:   w.TestWinRate,
			StartBalance:  w.StartBalance,
			EndBalance:    w.EndBalance,
			OptimalParams: paramsToMap(w.OptimalParams),
			ElapsedMs:     w.Elapsed.Milliseconds(),
		}
	}

	return Document{
		Config: cfg,
		Summary: Summary{
			InitialBalance: result.Summary.InitialBalance,
			FinalBalance:   result.Summary.FinalBalance,
			TotalReturnPct: result.Summary.TotalReturnPct,
			AvgTestPF:      result.Summary.AvgTestPF,
			MedianTestPF:   result.Summary.MedianTestPF,
			PassRate:       result.Summary.PassRate,
			StdLogPF:       result.Summary.StdLogPF,
			FailingWindows: result.Summary.FailingWindows,
		},
		Windows:   windows,
		RunID:     runID,
		CreatedAt: createdAt,
	}
}

// WriteFile writes doc as indented JSON to <dir>/<runID>.json, creating dir
// if needed.
func WriteFile(dir, runID string, doc Document) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, runID+".json")
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := Encode(f, doc); err != nil {
		return "", err
	}
	return path, nil
}

// Encode writes doc as indented JSON to w.
func Encode(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// paramsToMap flattens a parameter vector into the snake_case keys of
// paramspace.Space, for a stable JSON shape.
func paramsToMap(p paramspace.Params) map[string]interface{} {
	return map[string]interface{}{
		"g_ob_quality":           p.GOBQuality,
		"g_momentum":             p.GMomentum,
		"g_volatility":           p.GVolatility,
		"g_liquidity":            p.GLiquidity,
		"g_ml_confidence":        p.GMLConfidence,
		"alpha_threshold":        p.AlphaThreshold,
		"adx_trend_threshold":    p.ADXTrendThresh,
		"adx_sideways_threshold": p.ADXSidewaysThresh,
		"atr_high_mult":          p.ATRHighMult,
		"atr_low_mult":           p.ATRLowMult,
		"stop_loss_atr_mult":     p.StopLossATRMult,
		"take_profit_r_mult":     p.TakeProfitRMult,
		"risk_per_trade_pct":     p.RiskPerTradePct,
	}
}
