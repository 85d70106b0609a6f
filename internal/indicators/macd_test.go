package indicators

import "testing"

func TestMACDInsufficientHistory(t *testing.T) {
	prices := []float64{100, 101, 102}
	macd, signal, hist := MACD(prices, 12, 26)
	if macd != 0 || signal != 0 || hist != 0 {
		t.Errorf("MACD with insufficient history = (%v, %v, %v), want all zero", macd, signal, hist)
	}
}

func TestMACDHistogramConsistency(t *testing.T) {
	prices := make([]float64, 30)
	for i := range prices {
		prices[i] = float64(100 + i)
	}
	macd, signal, hist := MACD(prices, 12, 26)
	if hist != macd-signal {
		t.Errorf("histogram = %v, want macd-signal = %v", hist, macd-signal)
	}
	if signal != macd*0.9 {
		t.Errorf("signal = %v, want macd*0.9 = %v", signal, macd*0.9)
	}
}
