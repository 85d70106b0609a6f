package alpha

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/ridopark/jonbu-wfo/internal/analysis"
	"github.com/ridopark/jonbu-wfo/internal/models"
	"github.com/ridopark/jonbu-wfo/internal/paramspace"
	"github.com/ridopark/jonbu-wfo/internal/predictor"
)

// baseWeights are the fixed per-alpha weights multiplied by the parameter
// vector's gain genes in parameterized mode.
var baseWeights = map[string]float64{
	"ob_quality":    1.0,
	"momentum":      1.0,
	"volatility":    1.0,
	"liquidity":     1.0,
	"ml_confidence": 1.0,
}

// AgentProfile is a fixed weight profile for one of the regime-switching
// agents. A single struct parameterized by a weight profile stands in for
// what would otherwise be a family of near-identical agent types.
type AgentProfile struct {
	Name      string
	Weights   map[string]float64
	Threshold float64
}

// SwitchingAgents maps each regime to its fixed-profile agent. Two trending
// regimes share the TrendHunter profile (direction is carried by the
// alphas' signed scores, not by the profile).
var SwitchingAgents = map[analysis.Regime]AgentProfile{
	analysis.RegimeTrendingBullish: {
		Name:      "TrendHunter",
		Weights:   map[string]float64{"ob_quality": 1.2, "momentum": 1.3, "volatility": 0.6, "liquidity": 0.8, "ml_confidence": 1.0},
		Threshold: 0.55,
	},
	analysis.RegimeTrendingBearish: {
		Name:      "TrendHunter",
		Weights:   map[string]float64{"ob_quality": 1.2, "momentum": 1.3, "volatility": 0.6, "liquidity": 0.8, "ml_confidence": 1.0},
		Threshold: 0.55,
	},
	analysis.RegimeSidewaysRange: {
		Name:      "MeanReversion",
		Weights:   map[string]float64{"ob_quality": 0.8, "momentum": 1.4, "volatility": 0.5, "liquidity": 0.9, "ml_confidence": 0.8},
		Threshold: 0.5,
	},
	analysis.RegimeHighVolatility: {
		Name:      "VolatilityFilter",
		Weights:   map[string]float64{"ob_quality": 0.6, "momentum": 0.6, "volatility": 1.5, "liquidity": 1.0, "ml_confidence": 0.7},
		Threshold: 0.65,
	},
	analysis.RegimeBreakoutPending: {
		Name:      "BreakoutHunter",
		Weights:   map[string]float64{"ob_quality": 1.5, "momentum": 0.9, "volatility": 1.1, "liquidity": 1.2, "ml_confidence": 1.0},
		Threshold: 0.5,
	},
	analysis.RegimeNewsDriven: {
		Name:      "SentimentScout",
		Weights:   map[string]float64{"ob_quality": 0.7, "momentum": 1.0, "volatility": 1.0, "liquidity": 1.3, "ml_confidence": 1.4},
		Threshold: 0.6,
	},
}

// Orchestrator wires the regime classifier, alpha functions, and predictor
// together, exposing both the WFO parameterized mode and the fixed
// switching mode.
type Orchestrator struct {
	classifier *analysis.RegimeClassifier
	predictor  predictor.Predictor
}

// NewOrchestrator builds an Orchestrator with the given predictor (may be
// nil, in which case ML-Confidence always returns 0).
func NewOrchestrator(pred predictor.Predictor) *Orchestrator {
	return &Orchestrator{classifier: analysis.NewRegimeClassifier(), predictor: pred}
}

func (o *Orchestrator) weightedAlphas(weights map[string]float64) []Weighted {
	return []Weighted{
		{Name: "ob_quality", Score: OBQuality, Weight: weights["ob_quality"]},
		{Name: "momentum", Score: Momentum, Weight: weights["momentum"]},
		{Name: "volatility", Score: Volatility, Weight: weights["volatility"]},
		{Name: "liquidity", Score: Liquidity, Weight: weights["liquidity"]},
		{Name: "ml_confidence", Score: func(s models.MarketState) float64 { return MLConfidence(o.predictor, s) }, Weight: weights["ml_confidence"]},
	}
}

// ParamsHash returns a short, stable hash identifying a parameter vector,
// recorded in signal metadata for traceability back to the GA individual
// that produced it.
func ParamsHash(p paramspace.Params) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%+v", p)))
	return hex.EncodeToString(sum[:])[:12]
}

// Parameterized runs the WFO parameterized mode: classify the regime using
// the parameter vector's thresholds, build a combiner from base weights
// times the vector's gain genes, and emit a signal using alpha_threshold.
func (o *Orchestrator) Parameterized(state models.MarketState, params paramspace.Params, symbol string) (models.TradeSignal, analysis.Regime, bool) {
	thresholds := analysis.RegimeThresholds{
		ADXTrendThreshold:    float64(params.ADXTrendThresh),
		ADXSidewaysThreshold: float64(params.ADXSidewaysThresh),
		ATRHighMult:          params.ATRHighMult,
		ATRLowMult:           params.ATRLowMult,
	}
	regime := o.classifier.Classify(state, thresholds)

	weights := map[string]float64{
		"ob_quality":    baseWeights["ob_quality"] * params.GOBQuality,
		"momentum":      baseWeights["momentum"] * params.GMomentum,
		"volatility":    baseWeights["volatility"] * params.GVolatility,
		"liquidity":     baseWeights["liquidity"] * params.GLiquidity,
		"ml_confidence": baseWeights["ml_confidence"] * params.GMLConfidence,
	}
	combiner := NewCombiner(o.weightedAlphas(weights))

	metadata := map[string]string{
		"agent":       "WFO_Alpha_Combiner",
		"regime":      string(regime),
		"params_hash": ParamsHash(params),
	}

	signal, ok := combiner.GetSignal(state, params.AlphaThreshold, symbol, metadata)
	return signal, regime, ok
}

// Switching runs the fixed switching mode: classify the regime with default
// thresholds, pick that regime's fixed-profile agent, and delegate signal
// generation.
func (o *Orchestrator) Switching(state models.MarketState, symbol string) (models.TradeSignal, analysis.Regime, bool) {
	regime := o.classifier.Classify(state, analysis.DefaultRegimeThresholds())
	profile, ok := SwitchingAgents[regime]
	if !ok {
		profile = SwitchingAgents[analysis.RegimeSidewaysRange]
	}

	combiner := NewCombiner(o.weightedAlphas(profile.Weights))
	metadata := map[string]string{
		"agent":  profile.Name,
		"regime": string(regime),
	}

	signal, got := combiner.GetSignal(state, profile.Threshold, symbol, metadata)
	return signal, regime, got
}
