package alpha

import "github.com/ridopark/jonbu-wfo/internal/models"

// Weighted pairs an alpha function with its weight.
type Weighted struct {
	Name   string
	Score  Func
	Weight float64
}

// Combiner aggregates a list of weighted alpha scores into a single signal.
type Combiner struct {
	Alphas []Weighted
}

// NewCombiner builds a Combiner from a list of weighted alphas.
func NewCombiner(alphas []Weighted) *Combiner {
	return &Combiner{Alphas: alphas}
}

// Aggregate computes the weighted mean of every alpha's score against
// state. Returns 0 if the weight list is empty or weights sum to zero.
func (c *Combiner) Aggregate(state models.MarketState) float64 {
	if len(c.Alphas) == 0 {
		return 0
	}
	var weightedSum, weightSum float64
	for _, a := range c.Alphas {
		weightedSum += a.Score(state) * a.Weight
		weightSum += a.Weight
	}
	if weightSum == 0 {
		return 0
	}
	return weightedSum / weightSum
}

// GetSignal produces a TradeSignal if the aggregate score clears threshold
// in absolute value, else returns (TradeSignal{}, false). SL/TP/entry are
// left as zero-value placeholders for the backtest engine to fill in.
func (c *Combiner) GetSignal(state models.MarketState, threshold float64, symbol string, metadata map[string]string) (models.TradeSignal, bool) {
	aggregate := c.Aggregate(state)
	if aggregate < 0 {
		aggregate = -aggregate
		if aggregate < threshold {
			return models.TradeSignal{}, false
		}
		return models.TradeSignal{
			Symbol:     symbol,
			Side:       models.Sell,
			Confidence: aggregate,
			Metadata:   metadata,
		}, true
	}

	if aggregate < threshold {
		return models.TradeSignal{}, false
	}
	return models.TradeSignal{
		Symbol:     symbol,
		Side:       models.Buy,
		Confidence: aggregate,
		Metadata:   metadata,
	}, true
}
