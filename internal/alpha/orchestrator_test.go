package alpha

import (
	"testing"

	"github.com/ridopark/jonbu-wfo/internal/analysis"
	"github.com/ridopark/jonbu-wfo/internal/paramspace"
	"github.com/ridopark/jonbu-wfo/internal/predictor"
)

func TestParamsHashStable(t *testing.T) {
	p := paramspace.Default()
	h1 := ParamsHash(p)
	h2 := ParamsHash(p)
	if h1 != h2 {
		t.Errorf("ParamsHash not stable across calls: %q != %q", h1, h2)
	}
	if len(h1) != 12 {
		t.Errorf("ParamsHash length = %d, want 12", len(h1))
	}
}

func TestParamsHashDiffersOnChange(t *testing.T) {
	p1 := paramspace.Default()
	p2 := p1
	p2.AlphaThreshold += 0.01

	if ParamsHash(p1) == ParamsHash(p2) {
		t.Error("ParamsHash should differ for different parameter vectors")
	}
}

func TestSwitchingAgentsCoverEveryRegime(t *testing.T) {
	for _, regime := range []analysis.Regime{
		analysis.RegimeTrendingBullish,
		analysis.RegimeTrendingBearish,
		analysis.RegimeSidewaysRange,
		analysis.RegimeHighVolatility,
		analysis.RegimeBreakoutPending,
		analysis.RegimeNewsDriven,
	} {
		if _, ok := SwitchingAgents[regime]; !ok {
			t.Errorf("SwitchingAgents missing entry for regime %v", regime)
		}
	}
}

func TestOrchestratorParameterizedNoSignalOnFlatSeries(t *testing.T) {
	o := NewOrchestrator(predictor.NeutralPredictor{})
	_, _, ok := o.Parameterized(buildState(flatSeriesAlpha(60, 100)), paramspace.Default(), "BTCUSDT")
	if ok {
		t.Error("Parameterized() fired a signal on a flat, directionless series")
	}
}

func flatSeriesAlpha(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
