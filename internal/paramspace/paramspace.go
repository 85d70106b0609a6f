// Package paramspace defines the GA's 13-parameter search space and its
// constraint projection.
package paramspace

// Params is the 13-parameter vector the GA searches over.
type Params struct {
	GOBQuality        float64
	GMomentum         float64
	GVolatility       float64
	GLiquidity        float64
	GMLConfidence     float64
	AlphaThreshold    float64
	ADXTrendThresh    int
	ADXSidewaysThresh int
	ATRHighMult       float64
	ATRLowMult        float64
	StopLossATRMult   float64
	TakeProfitRMult   float64
	RiskPerTradePct   float64
}

// Bounds describes one parameter's valid range and default.
type Bounds struct {
	Min, Max, Default float64
}

// Space lists every parameter's bounds, keyed by name.
var Space = map[string]Bounds{
	"g_ob_quality":           {Min: 0.50, Max: 2.00, Default: 1.00},
	"g_momentum":             {Min: 0.50, Max: 2.00, Default: 1.00},
	"g_volatility":           {Min: 0.50, Max: 2.00, Default: 1.00},
	"g_liquidity":            {Min: 0.50, Max: 2.00, Default: 1.00},
	"g_ml_confidence":        {Min: 0.00, Max: 1.50, Default: 1.00},
	"alpha_threshold":        {Min: 0.45, Max: 0.75, Default: 0.60},
	"adx_trend_threshold":    {Min: 20, Max: 35, Default: 25},
	"adx_sideways_threshold": {Min: 10, Max: 22, Default: 15},
	"atr_high_mult":          {Min: 1.20, Max: 2.00, Default: 1.50},
	"atr_low_mult":           {Min: 0.45, Max: 0.85, Default: 0.65},
	"stop_loss_atr_mult":     {Min: 1.00, Max: 3.50, Default: 2.00},
	"take_profit_r_mult":     {Min: 1.00, Max: 4.00, Default: 2.00},
	"risk_per_trade_pct":     {Min: 0.25, Max: 1.25, Default: 1.00},
}

// ParamNames lists the parameter names in a fixed, stable order, used
// wherever per-gene iteration order must be deterministic (initialization,
// crossover, mutation, regularization).
var ParamNames = []string{
	"g_ob_quality",
	"g_momentum",
	"g_volatility",
	"g_liquidity",
	"g_ml_confidence",
	"alpha_threshold",
	"adx_trend_threshold",
	"adx_sideways_threshold",
	"atr_high_mult",
	"atr_low_mult",
	"stop_loss_atr_mult",
	"take_profit_r_mult",
	"risk_per_trade_pct",
}

// Default returns the parameter vector's default value.
func Default() Params {
	return Params{
		GOBQuality:        Space["g_ob_quality"].Default,
		GMomentum:         Space["g_momentum"].Default,
		GVolatility:       Space["g_volatility"].Default,
		GLiquidity:        Space["g_liquidity"].Default,
		GMLConfidence:     Space["g_ml_confidence"].Default,
		AlphaThreshold:    Space["alpha_threshold"].Default,
		ADXTrendThresh:    int(Space["adx_trend_threshold"].Default),
		ADXSidewaysThresh: int(Space["adx_sideways_threshold"].Default),
		ATRHighMult:       Space["atr_high_mult"].Default,
		ATRLowMult:        Space["atr_low_mult"].Default,
		StopLossATRMult:   Space["stop_loss_atr_mult"].Default,
		TakeProfitRMult:   Space["take_profit_r_mult"].Default,
		RiskPerTradePct:   Space["risk_per_trade_pct"].Default,
	}
}

func clip(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ProjectConstraints clips every gene to its bounds, coerces integer genes,
// and repairs adx_sideways_threshold < adx_trend_threshold when violated.
// Idempotent: applying twice yields the same vector.
func ProjectConstraints(p Params) Params {
	out := p
	out.GOBQuality = clip(p.GOBQuality, Space["g_ob_quality"].Min, Space["g_ob_quality"].Max)
	out.GMomentum = clip(p.GMomentum, Space["g_momentum"].Min, Space["g_momentum"].Max)
	out.GVolatility = clip(p.GVolatility, Space["g_volatility"].Min, Space["g_volatility"].Max)
	out.GLiquidity = clip(p.GLiquidity, Space["g_liquidity"].Min, Space["g_liquidity"].Max)
	out.GMLConfidence = clip(p.GMLConfidence, Space["g_ml_confidence"].Min, Space["g_ml_confidence"].Max)
	out.AlphaThreshold = clip(p.AlphaThreshold, Space["alpha_threshold"].Min, Space["alpha_threshold"].Max)
	out.ATRHighMult = clip(p.ATRHighMult, Space["atr_high_mult"].Min, Space["atr_high_mult"].Max)
	out.ATRLowMult = clip(p.ATRLowMult, Space["atr_low_mult"].Min, Space["atr_low_mult"].Max)
	out.StopLossATRMult = clip(p.StopLossATRMult, Space["stop_loss_atr_mult"].Min, Space["stop_loss_atr_mult"].Max)
	out.TakeProfitRMult = clip(p.TakeProfitRMult, Space["take_profit_r_mult"].Min, Space["take_profit_r_mult"].Max)
	out.RiskPerTradePct = clip(p.RiskPerTradePct, Space["risk_per_trade_pct"].Min, Space["risk_per_trade_pct"].Max)

	trend := clip(float64(p.ADXTrendThresh), Space["adx_trend_threshold"].Min, Space["adx_trend_threshold"].Max)
	sideways := clip(float64(p.ADXSidewaysThresh), Space["adx_sideways_threshold"].Min, Space["adx_sideways_threshold"].Max)
	out.ADXTrendThresh = int(trend)
	out.ADXSidewaysThresh = int(sideways)
	if out.ADXSidewaysThresh >= out.ADXTrendThresh {
		out.ADXSidewaysThresh = out.ADXTrendThresh - 1
	}

	return out
}
