// Package predictor provides the pluggable ML-confidence plug-in point.
package predictor

// FeatureRow is the engineered feature vector submitted to a Predictor.
type FeatureRow map[string]float64

// Predictor scores a feature row with a win probability in [0, 1].
// Implementations may load a serialized model from a configured path at
// construction time.
type Predictor interface {
	PredictProba(features FeatureRow) (float64, error)
}

// NeutralPredictor always returns 0.5, the documented fallback for an
// absent or unloaded predictor.
type NeutralPredictor struct{}

// PredictProba implements Predictor.
func (NeutralPredictor) PredictProba(FeatureRow) (float64, error) {
	return 0.5, nil
}
