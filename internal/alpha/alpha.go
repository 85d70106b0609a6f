// Package alpha implements the five alpha functions that score a
// MarketState in [-1, 1], and the combiner/orchestrator that turns those
// scores into a TradeSignal.
package alpha

import (
	"math"
	"sync"

	"github.com/ridopark/jonbu-wfo/internal/analysis"
	"github.com/ridopark/jonbu-wfo/internal/indicators"
	"github.com/ridopark/jonbu-wfo/internal/models"
	"github.com/ridopark/jonbu-wfo/internal/predictor"
	"github.com/rs/zerolog/log"
)

// clip bounds x to [-1, 1].
func clip(x float64) float64 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// Func scores a MarketState in [-1, 1].
type Func func(state models.MarketState) float64

// OBQuality scans the H4 series for the most recent valid order block and
// returns +1 for a bullish setup, -1 for bearish, 0 for none.
func OBQuality(state models.MarketState) float64 {
	candles := state.H4Series().Slice()
	ob := analysis.OrderBlockScan(candles)
	if ob == nil {
		return 0
	}
	if ob.Direction == models.DirBullish {
		return 1
	}
	return -1
}

// Momentum normalizes the current RSI-14 to (rsi - 50) / 50.
func Momentum(state models.MarketState) float64 {
	return clip((state.RSI() - 50.0) / 50.0)
}

// Volatility compares current ATR to the 14-period ATR mean.
func Volatility(state models.MarketState) float64 {
	avg := state.ATRAvg14()
	if avg == 0 {
		return 0
	}
	return clip(state.ATR()/avg - 1.0)
}

// Liquidity compares current bar volume to the 20-period volume mean.
func Liquidity(state models.MarketState) float64 {
	candles := state.H4Series().Slice()
	if len(candles) == 0 {
		return 0
	}
	volumes := make([]float64, len(candles))
	for i, c := range candles {
		volumes[i] = c.VolumeFloat()
	}
	meanVol := indicators.SMA(volumes, 20)
	if meanVol == 0 {
		return 0
	}
	current := volumes[len(volumes)-1]
	return clip(current/meanVol - 1.0)
}

// MLConfidenceMinBars is the minimum H4 history required before
// ML-Confidence will query the predictor.
const MLConfidenceMinBars = 50

// BuildFeatureRow constructs the engineered feature row fed to the
// predictor: EMAs, RSI, MACD, ATR, Bollinger width/position, volume ratio,
// OBV, candle body ratio, and log-return.
func BuildFeatureRow(state models.MarketState) predictor.FeatureRow {
	candles := state.H4Series().Slice()
	n := len(candles)
	closes := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	opens := make([]float64, n)
	volumes := make([]float64, n)
	for i, c := range candles {
		closes[i] = c.CloseFloat()
		highs[i] = c.HighFloat()
		lows[i] = c.LowFloat()
		opens[i] = c.OpenFloat()
		volumes[i] = c.VolumeFloat()
	}

	macd, signal, hist := indicators.MACD(closes, 12, 26)
	upper, mid, lower := indicators.BollingerBands(closes, 20, 2.0)

	row := predictor.FeatureRow{
		"ema_20":       indicators.EMA(closes, 20),
		"ema_50":       indicators.EMA(closes, 50),
		"rsi_14":       indicators.RSI(closes, 14),
		"macd":         macd,
		"macd_signal":  signal,
		"macd_hist":    hist,
		"atr_14":       indicators.ATR(highs, lows, closes, 14),
		"bb_upper":     upper,
		"bb_middle":    mid,
		"bb_lower":     lower,
		"volume_ratio": indicators.VolumeRatio(volumes, 20),
	}

	if obvSeries := indicators.OBV(closes, volumes); len(obvSeries) > 0 {
		row["obv"] = obvSeries[len(obvSeries)-1]
	}

	if mid > 0 {
		row["bb_width"] = (upper - lower) / mid
	}
	if upper != lower {
		row["bb_position"] = (closes[n-1] - lower) / (upper - lower)
	}
	if n > 0 {
		last := candles[n-1]
		rng := last.HighFloat() - last.LowFloat()
		if rng > 0 {
			row["body_ratio"] = math.Abs(last.CloseFloat()-last.OpenFloat()) / rng
		}
	}
	if n >= 2 && closes[n-2] > 0 {
		row["log_return"] = math.Log(closes[n-1] / closes[n-2])
	}

	return row
}

// predictorWarnOnce keeps a failing predictor from flooding the log: the
// hot loop calls MLConfidence once per bar per evaluation.
var predictorWarnOnce sync.Once

// MLConfidence queries the injected predictor with the engineered feature
// row and rescales its win probability to [-1, 1]. Returns 0 if there is
// insufficient history or the predictor is unavailable.
func MLConfidence(pred predictor.Predictor, state models.MarketState) float64 {
	candles := state.H4Series().Slice()
	if len(candles) < MLConfidenceMinBars {
		return 0
	}
	if pred == nil {
		return 0
	}
	p, err := pred.PredictProba(BuildFeatureRow(state))
	if err != nil {
		predictorWarnOnce.Do(func() {
			log.Warn().Err(err).Msg("predictor failed, treating ml_confidence as neutral for this run")
		})
		return 0
	}
	return clip((p - 0.5) * 2.0)
}
