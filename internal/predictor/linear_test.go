package predictor

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ridopark/jonbu-wfo/internal/models"
)

func TestLinearPredictorPredictProbaZeroWeightsIsLogisticOfBias(t *testing.T) {
	p := NewLinearPredictor(nil, 0)
	got, err := p.PredictProba(FeatureRow{"momentum": 5})
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	if got != 0.5 {
		t.Errorf("PredictProba() with zero bias/weights = %v, want 0.5", got)
	}
}

func TestLinearPredictorPredictProbaWeightedSum(t *testing.T) {
	p := NewLinearPredictor(map[string]float64{"momentum": 2.0}, -1.0)
	got, err := p.PredictProba(FeatureRow{"momentum": 1.0})
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	// z = 2*1 - 1 = 1 -> sigmoid(1)
	want := 1.0 / (1.0 + math.Exp(-1.0))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("PredictProba() = %v, want %v", got, want)
	}
}

func TestLinearPredictorIgnoresUnweightedFeatures(t *testing.T) {
	p := NewLinearPredictor(map[string]float64{"momentum": 2.0}, 0)
	got, err := p.PredictProba(FeatureRow{"momentum": 0, "unrelated": 1000})
	if err != nil {
		t.Fatalf("PredictProba() error = %v", err)
	}
	if got != 0.5 {
		t.Errorf("PredictProba() with an unweighted feature present = %v, want 0.5", got)
	}
}

func TestLoadLinearPredictorHappyPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.json")
	contents := `{"weights": {"momentum": 1.5, "volatility": -0.5}, "bias": 0.1}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	p, err := LoadLinearPredictor(path)
	if err != nil {
		t.Fatalf("LoadLinearPredictor() error = %v", err)
	}
	if p.Bias != 0.1 {
		t.Errorf("Bias = %v, want 0.1", p.Bias)
	}
	if p.Weights["momentum"] != 1.5 {
		t.Errorf("Weights[momentum] = %v, want 1.5", p.Weights["momentum"])
	}
}

func TestLoadLinearPredictorMissingFile(t *testing.T) {
	_, err := LoadLinearPredictor(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, models.ErrPredictorUnavailable) {
		t.Fatalf("expected ErrPredictorUnavailable, got %v", err)
	}
}

func TestLoadLinearPredictorMalformedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := LoadLinearPredictor(path)
	if !errors.Is(err, models.ErrPredictorUnavailable) {
		t.Fatalf("expected ErrPredictorUnavailable, got %v", err)
	}
}
