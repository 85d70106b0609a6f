package analysis

import (
	"github.com/ridopark/jonbu-wfo/internal/indicators"
	"github.com/ridopark/jonbu-wfo/internal/models"
)

// Regime is one of the six coarse market-state labels used to switch
// strategy weights.
type Regime string

const (
	RegimeTrendingBullish Regime = "trending_bullish"
	RegimeTrendingBearish Regime = "trending_bearish"
	RegimeSidewaysRange   Regime = "sideways_range"
	RegimeHighVolatility  Regime = "high_volatility"
	RegimeBreakoutPending Regime = "breakout_pending"
	RegimeNewsDriven      Regime = "news_driven"
)

// RegimeThresholds parameterizes the classifier. Use
// DefaultRegimeThresholds as a base.
type RegimeThresholds struct {
	ADXTrendThreshold    float64
	ADXSidewaysThreshold float64
	ATRHighMult          float64
	ATRLowMult           float64
}

// DefaultRegimeThresholds mirrors the parameter space defaults.
func DefaultRegimeThresholds() RegimeThresholds {
	return RegimeThresholds{
		ADXTrendThreshold:    25,
		ADXSidewaysThreshold: 15,
		ATRHighMult:          1.5,
		ATRLowMult:           0.65,
	}
}

// RegimeClassifier maps a MarketState plus thresholds to one of the six
// regimes. NewsDriven is a reserved label: this classifier never emits it,
// since it requires an external event feed outside the OHLCV-only scope.
type RegimeClassifier struct{}

// NewRegimeClassifier creates a stateless classifier.
func NewRegimeClassifier() *RegimeClassifier {
	return &RegimeClassifier{}
}

// Classify resolves state's regime in a fixed order: HighVolatility first,
// then TrendingBullish/TrendingBearish, then BreakoutPending, falling back
// to SidewaysRange.
func (rc *RegimeClassifier) Classify(state models.MarketState, thresholds RegimeThresholds) Regime {
	currentATR := state.ATR()
	atrAvg := state.ATRAvg14()
	adx := state.ADX()
	alignment := state.EMAAlignment()

	if atrAvg > 0 && currentATR > atrAvg*thresholds.ATRHighMult {
		return RegimeHighVolatility
	}

	if adx > thresholds.ADXTrendThreshold {
		switch alignment {
		case indicators.EMABullish:
			return RegimeTrendingBullish
		case indicators.EMABearish:
			return RegimeTrendingBearish
		}
	}

	if atrAvg > 0 && currentATR < atrAvg*thresholds.ATRLowMult && adx < thresholds.ADXTrendThreshold {
		return RegimeBreakoutPending
	}

	return RegimeSidewaysRange
}
