package predictor

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/ridopark/jonbu-wfo/internal/models"
)

// LinearPredictor scores a feature row with a logistic function over a
// fixed weight vector. It is the simplest concrete Predictor that exercises
// the plug-in point end to end; production deployments are expected to
// supply their own implementation (e.g. backed by a serialized model) by
// satisfying the same interface.
type LinearPredictor struct {
	Weights map[string]float64
	Bias    float64
}

// NewLinearPredictor builds a LinearPredictor from weights and a bias term.
func NewLinearPredictor(weights map[string]float64, bias float64) *LinearPredictor {
	return &LinearPredictor{Weights: weights, Bias: bias}
}

// linearModelFile is the on-disk shape a LinearPredictor is serialized to
// and loaded from.
type linearModelFile struct {
	Weights map[string]float64 `json:"weights"`
	Bias    float64            `json:"bias"`
}

// LoadLinearPredictor reads a JSON weights file from path and constructs a
// LinearPredictor from it.
func LoadLinearPredictor(path string) (*LinearPredictor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrPredictorUnavailable, path, err)
	}

	var model linearModelFile
	if err := json.Unmarshal(data, &model); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", models.ErrPredictorUnavailable, path, err)
	}

	return NewLinearPredictor(model.Weights, model.Bias), nil
}

// PredictProba implements Predictor via a logistic function over the
// weighted feature sum. Features without a configured weight are ignored.
func (p *LinearPredictor) PredictProba(features FeatureRow) (float64, error) {
	z := p.Bias
	for name, weight := range p.Weights {
		z += weight * features[name]
	}
	return 1.0 / (1.0 + math.Exp(-z)), nil
}
