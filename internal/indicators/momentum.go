package indicators

// Package indicators computes lazily-memoized technical indicators (RSI,
// ATR, ADX, EMA) over plain float64 price series. Functions here take raw
// slices rather than domain candle types so the package stays free of any
// dependency on internal/models: internal/models.MarketState calls into
// this package, not the other way around.

// RSINeutral is returned when history is shorter than the RSI warmup.
const RSINeutral = 50.0

// RSI computes the Relative Strength Index from the simple averages of the
// gains and losses over the trailing `period` close-to-close changes.
// Returns RSINeutral when there isn't enough history, and 100 when there
// are no losses in the window.
func RSI(closes []float64, period int) float64 {
	if len(closes) < period+1 {
		return RSINeutral
	}

	window := closes[len(closes)-period-1:]

	avgGain, avgLoss := 0.0, 0.0
	for i := 1; i <= period; i++ {
		change := window[i] - window[i-1]
		if change > 0 {
			avgGain += change
		} else {
			avgLoss += -change
		}
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		return 100
	}

	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}
