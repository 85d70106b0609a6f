package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Candle is an immutable OHLCV bar. Construction enforces the invariants
// high >= max(open, close, low), low <= min(open, close, high) and
// volume >= 0; violations fail fast with a *ConstructionError wrapping
// ErrConstruction.
type Candle struct {
	TimestampMs int64
	Open        decimal.Decimal
	High        decimal.Decimal
	Low         decimal.Decimal
	Close       decimal.Decimal
	Volume      decimal.Decimal
	Timeframe   Timeframe
	Complete    bool
}

// NewCandle validates and constructs a Candle.
func NewCandle(timestampMs int64, open, high, low, close, volume decimal.Decimal, tf Timeframe, complete bool) (Candle, error) {
	maxOC := decimal.Max(open, close)
	minOC := decimal.Min(open, close)

	if high.LessThan(decimal.Max(maxOC, low)) {
		return Candle{}, &ConstructionError{
			Field:   "high",
			Value:   high,
			Message: fmt.Sprintf("construction error: high %s must be >= max(open, close, low)", high),
		}
	}
	if low.GreaterThan(decimal.Min(minOC, high)) {
		return Candle{}, &ConstructionError{
			Field:   "low",
			Value:   low,
			Message: fmt.Sprintf("construction error: low %s must be <= min(open, close, high)", low),
		}
	}
	if volume.IsNegative() {
		return Candle{}, &ConstructionError{
			Field:   "volume",
			Value:   volume,
			Message: fmt.Sprintf("construction error: volume %s cannot be negative", volume),
		}
	}

	return Candle{
		TimestampMs: timestampMs,
		Open:        open,
		High:        high,
		Low:         low,
		Close:       close,
		Volume:      volume,
		Timeframe:   tf,
		Complete:    complete,
	}, nil
}

// CloseFloat returns the close price as float64, for use at the statistical
// boundary (indicators, Sharpe/return aggregates) per the decimal-arithmetic
// design note: convert at the edge, not in the hot loop.
func (c Candle) CloseFloat() float64 {
	f, _ := c.Close.Float64()
	return f
}

func (c Candle) HighFloat() float64 {
	f, _ := c.High.Float64()
	return f
}

func (c Candle) LowFloat() float64 {
	f, _ := c.Low.Float64()
	return f
}

func (c Candle) OpenFloat() float64 {
	f, _ := c.Open.Float64()
	return f
}

func (c Candle) VolumeFloat() float64 {
	f, _ := c.Volume.Float64()
	return f
}
