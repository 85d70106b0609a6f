// Package fitness scores a GA individual from paired SubTrain/ValTrain
// segment metrics.
package fitness

import (
	"math"

	"github.com/ridopark/jonbu-wfo/internal/models"
	"github.com/ridopark/jonbu-wfo/internal/paramspace"
)

// NegInf is the sentinel "hard fail" fitness value.
var NegInf = math.Inf(-1)

// segmentScore computes trade_factor/maxdd_safe/calmar-weighted score for
// one segment.
func segmentScore(m models.SegmentMetrics) float64 {
	tradeFactor := math.Min(1, float64(m.Trades)/30.0)
	maxddSafe := math.Max(m.MaxDD, 0.05)
	calmar := m.ReturnPct / maxddSafe
	return tradeFactor * (0.60*calmar + 0.40*m.Sharpe)
}

// overfitPenalty compares SubTrain and ValTrain metrics for degradation.
func overfitPenalty(sub, val models.SegmentMetrics) float64 {
	pfDeg := val.PF / math.Max(sub.PF, 0.01)
	sharpeDeg := (val.Sharpe + 2) / math.Max(sub.Sharpe+2, 0.1)
	return 2.0*math.Max(0, 0.70-pfDeg) + 1.0*math.Max(0, 0.75-sharpeDeg)
}

// regularizationPenalty penalizes distance from parameter defaults,
// normalized by each parameter's range.
func regularizationPenalty(p paramspace.Params) float64 {
	values := map[string]float64{
		"g_ob_quality":           p.GOBQuality,
		"g_momentum":             p.GMomentum,
		"g_volatility":           p.GVolatility,
		"g_liquidity":            p.GLiquidity,
		"g_ml_confidence":        p.GMLConfidence,
		"alpha_threshold":        p.AlphaThreshold,
		"adx_trend_threshold":    float64(p.ADXTrendThresh),
		"adx_sideways_threshold": float64(p.ADXSidewaysThresh),
		"atr_high_mult":          p.ATRHighMult,
		"atr_low_mult":           p.ATRLowMult,
		"stop_loss_atr_mult":     p.StopLossATRMult,
		"take_profit_r_mult":     p.TakeProfitRMult,
		"risk_per_trade_pct":     p.RiskPerTradePct,
	}

	sum := 0.0
	for _, name := range paramspace.ParamNames {
		b := paramspace.Space[name]
		rng := b.Max - b.Min
		if rng == 0 {
			continue
		}
		sum += math.Abs((values[name] - b.Default) / rng)
	}
	return 0.15 * sum
}

// Compute returns the fitness of params given its SubTrain and ValTrain
// segment metrics. Hard-fails to NegInf if val.MaxDD > 0.25 or
// val.ReturnPct < -0.05. Otherwise combines sub/val scores with the
// overfit and regularization penalties, applying a gradual penalty when
// val has fewer than 10 trades.
func Compute(params paramspace.Params, sub, val models.SegmentMetrics) float64 {
	if val.MaxDD > 0.25 || val.ReturnPct < -0.05 {
		return NegInf
	}

	scoreSub := segmentScore(sub)
	scoreVal := segmentScore(val)
	overfit := overfitPenalty(sub, val)
	reg := regularizationPenalty(params)

	f := 0.25*scoreSub + 0.75*scoreVal - overfit - reg

	if val.Trades < 10 {
		f *= float64(val.Trades) / 10.0
	}

	return f
}
