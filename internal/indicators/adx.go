package indicators

import "math"

// ADXNeutral is returned when history is shorter than the ADX warmup.
const ADXNeutral = 20.0

// ADX computes a `period`-bar directional index using Wilder's
// directional-movement smoothing. The result is the DX of the smoothed
// +DI/-DI at the last bar; DX is not smoothed a second time. Returns
// ADXNeutral when there isn't enough history.
func ADX(highs, lows, closes []float64, period int) float64 {
	n := len(highs)
	if n < period*2+1 {
		return ADXNeutral
	}

	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)

	for i := 1; i < n; i++ {
		upMove := highs[i] - highs[i-1]
		downMove := lows[i-1] - lows[i]

		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
		tr[i] = TrueRange(highs[i], lows[i], closes[i-1], true)
	}

	// Wilder smoothing: seed with a simple sum over the first period, then
	// roll forward with the running-sum update prev - prev/period + cur.
	smooth := func(series []float64) float64 {
		sum := 0.0
		for i := 1; i <= period; i++ {
			sum += series[i]
		}
		smoothed := sum
		for i := period + 1; i < n; i++ {
			smoothed = smoothed - (smoothed / float64(period)) + series[i]
		}
		return smoothed
	}

	smoothedTR := smooth(tr)
	smoothedPlusDM := smooth(plusDM)
	smoothedMinusDM := smooth(minusDM)

	if smoothedTR == 0 {
		return ADXNeutral
	}

	plusDI := 100 * smoothedPlusDM / smoothedTR
	minusDI := 100 * smoothedMinusDM / smoothedTR

	diSum := plusDI + minusDI
	if diSum == 0 {
		return ADXNeutral
	}

	dx := 100 * math.Abs(plusDI-minusDI) / diSum
	return dx
}
