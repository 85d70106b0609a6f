package indicators

// MACD computes the Moving Average Convergence Divergence line, its signal
// line, and the histogram. The signal line is approximated as 0.9 times the
// MACD line rather than a full 9-period EMA of its history.
func MACD(prices []float64, fastPeriod, slowPeriod int) (macd, signal, histogram float64) {
	if len(prices) < slowPeriod {
		return 0, 0, 0
	}

	fastEMA := EMA(prices, fastPeriod)
	slowEMA := EMA(prices, slowPeriod)
	macd = fastEMA - slowEMA
	signal = macd * 0.9
	histogram = macd - signal
	return macd, signal, histogram
}
