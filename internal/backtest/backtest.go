// Package backtest runs the bar-by-bar simulation loop that drives the
// broker from a candle stream and a signal source.
package backtest

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/ridopark/jonbu-wfo/internal/broker"
	"github.com/ridopark/jonbu-wfo/internal/models"
	"github.com/ridopark/jonbu-wfo/internal/risk"
	"github.com/shopspring/decimal"
)

// Config carries the per-run backtest parameters.
type Config struct {
	InitialBalance   decimal.Decimal
	FeeRate          decimal.Decimal
	RiskPercentage   float64
	StopLossATRMult  float64
	TakeProfitRMult  float64
	AlphaThreshold   float64
	MaxPortfolioRisk float64
	DrawdownScaling  bool
	OptimizeMode     bool
}

// DefaultATRFallback stands in for ATR when the computed stop distance is
// zero; the stop distance is then DefaultATRFallback * StopLossATRMult.
const DefaultATRFallback = 1.0

// SignalSource produces a TradeSignal for the current MarketState, or false
// if no signal fires.
type SignalSource interface {
	Signal(state models.MarketState, symbol string) (models.TradeSignal, bool)
}

// Sink records closed trades outside the hot loop.
type Sink interface {
	Record(record models.TradeRecord) error
}

// Engine runs one backtest segment over a candle stream.
type Engine struct {
	cfg       Config
	broker    *broker.Broker
	risk      *risk.Manager
	sink      Sink
	flushedTo int
}

// New builds an Engine seeded with cfg's initial balance and fee rate.
func New(cfg Config, sink Sink) *Engine {
	return &Engine{
		cfg:    cfg,
		broker: broker.New(cfg.InitialBalance, cfg.FeeRate),
		risk:   risk.NewManager(cfg.RiskPercentage, cfg.MaxPortfolioRisk, cfg.DrawdownScaling),
		sink:   sink,
	}
}

// Run drives warmup followed by main over symbol's H4 timeframe, ingesting
// bars in strict timestamp order, and returns the resulting SegmentMetrics.
// runID and strategyID identify sink records when not in optimize mode.
func (e *Engine) Run(symbol string, warmup, main []models.Candle, source SignalSource, runID, strategyID string) models.SegmentMetrics {
	state := models.NewMarketState(symbol)
	warmupLen := len(warmup)
	all := append(append([]models.Candle{}, warmup...), main...)

	for i, bar := range all {
		state = state.Update(bar)
		e.broker.UpdatePositions(bar.Close)
		e.flushNewlyClosed(symbol, strategyID, runID, bar.TimestampMs)

		if i < warmupLen {
			continue
		}

		if len(e.broker.Open) > 0 {
			continue
		}

		signal, ok := source.Signal(state, symbol)
		if !ok {
			continue
		}

		e.fillFromSignal(state, signal)
	}

	return e.metrics()
}

// ClosedPositions returns every position the broker has closed so far.
func (e *Engine) ClosedPositions() []models.ClosedPosition {
	return e.broker.Closed
}

// FinalBalance returns the broker's current balance.
func (e *Engine) FinalBalance() decimal.Decimal {
	return e.broker.Balance
}

// flushNewlyClosed persists every position the broker closed since the
// last flush. Persistence is skipped entirely in optimize mode:
// GA fitness evaluation runs thousands of backtests per
// optimization and must not touch the sink.
func (e *Engine) flushNewlyClosed(symbol, strategyID, runID string, exitTimeMs int64) {
	if e.cfg.OptimizeMode || e.sink == nil {
		e.flushedTo = len(e.broker.Closed)
		return
	}
	exitTime := time.UnixMilli(exitTimeMs).UTC()
	runUUID, err := uuid.Parse(runID)
	if err != nil {
		runUUID = uuid.New()
	}
	for _, closed := range e.broker.Closed[e.flushedTo:] {
		regime := closed.Metadata["regime"]
		agent := closed.Metadata["agent"]
		record := models.NewTradeRecord(runUUID, symbol, models.H4, strategyID, closed, exitTime, exitTime, regime, agent, nil)
		_ = e.sink.Record(record)
	}
	e.flushedTo = len(e.broker.Closed)
}

func (e *Engine) fillFromSignal(state models.MarketState, signal models.TradeSignal) {
	entry := signal.EntryPrice
	if entry.IsZero() {
		close, ok := state.CurrentClose()
		if !ok {
			return
		}
		entry = decimal.NewFromFloat(close)
	}

	atr := state.ATR()
	slDist := atr * e.cfg.StopLossATRMult
	if slDist == 0 {
		slDist = DefaultATRFallback * e.cfg.StopLossATRMult
	}
	tpDist := slDist * e.cfg.TakeProfitRMult

	var stopLoss, takeProfit decimal.Decimal
	slDistD := decimal.NewFromFloat(slDist)
	tpDistD := decimal.NewFromFloat(tpDist)

	if signal.Side == models.Buy {
		stopLoss = entry.Sub(slDistD)
		takeProfit = entry.Add(tpDistD)
	} else {
		stopLoss = entry.Add(slDistD)
		takeProfit = entry.Sub(tpDistD)
	}

	openRisk := e.broker.OpenRisk()
	drawdown := e.broker.CurrentDrawdownPct()
	qty, err := e.risk.CalculatePositionSize(e.broker.Balance, entry, stopLoss, openRisk, drawdown)
	if err != nil || qty.Sign() <= 0 {
		return
	}

	e.broker.PlaceOrder(broker.Order{
		Symbol:     signal.Symbol,
		Side:       signal.Side,
		Quantity:   qty,
		Price:      entry,
		StopLoss:   stopLoss,
		TakeProfit: takeProfit,
		Metadata:   signal.Metadata,
	})
}

func (e *Engine) metrics() models.SegmentMetrics {
	if len(e.broker.Closed) == 0 {
		return models.ZeroTradeMetrics()
	}

	var grossProfit, grossLoss float64
	for _, c := range e.broker.Closed {
		pnl, _ := c.NetPnL.Float64()
		if pnl > 0 {
			grossProfit += pnl
		} else {
			grossLoss += -pnl
		}
	}

	initial, _ := e.cfg.InitialBalance.Float64()
	final, _ := e.broker.Balance.Float64()
	returnPct := 0.0
	if initial != 0 {
		returnPct = (final - initial) / initial
	}

	maxDD := maxDrawdown(e.broker.EquityCurve)
	sharpe := sharpeRatio(e.broker.EquityCurve)

	pf := 1.0
	switch {
	case grossLoss == 0 && grossProfit > 0:
		pf = 10.0
	case grossLoss > 0:
		pf = grossProfit / grossLoss
	}

	return models.SegmentMetrics{
		Trades:      len(e.broker.Closed),
		ReturnPct:   returnPct,
		MaxDD:       maxDD,
		Sharpe:      sharpe,
		PF:          pf,
		GrossProfit: grossProfit,
		GrossLoss:   grossLoss,
	}
}

func maxDrawdown(equity []decimal.Decimal) float64 {
	if len(equity) == 0 {
		return 0
	}
	peak, _ := equity[0].Float64()
	maxDD := 0.0
	for _, v := range equity {
		f, _ := v.Float64()
		if f > peak {
			peak = f
		}
		if peak > 0 {
			dd := (peak - f) / peak
			if dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

func sharpeRatio(equity []decimal.Decimal) float64 {
	if len(equity) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev, _ := equity[i-1].Float64()
		cur, _ := equity[i].Float64()
		if prev == 0 {
			continue
		}
		returns = append(returns, cur/prev-1)
	}
	if len(returns) == 0 {
		return 0
	}

	mean := 0.0
	for _, r := range returns {
		mean += r
	}
	mean /= float64(len(returns))

	variance := 0.0
	for _, r := range returns {
		d := r - mean
		variance += d * d
	}
	variance /= float64(len(returns))
	stdev := math.Sqrt(variance)

	if stdev == 0 {
		return 0
	}
	return mean / stdev * math.Sqrt(float64(len(returns)))
}
