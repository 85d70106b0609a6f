package indicators

// OBV computes the On-Balance Volume series: a running sum of signed volume
// based on the direction of each bar's close relative to the previous close.
func OBV(closes, volumes []float64) []float64 {
	out := make([]float64, len(closes))
	if len(closes) == 0 {
		return out
	}

	running := 0.0
	out[0] = running
	for i := 1; i < len(closes); i++ {
		switch {
		case closes[i] > closes[i-1]:
			running += volumes[i]
		case closes[i] < closes[i-1]:
			running -= volumes[i]
		}
		out[i] = running
	}
	return out
}

// VolumeRatio compares the most recent volume to the mean of the trailing
// `period` volumes (including the current bar). Returns 1 when there isn't
// enough history or the mean is zero.
func VolumeRatio(volumes []float64, period int) float64 {
	avg := SMA(volumes, period)
	if avg == 0 || len(volumes) == 0 {
		return 1
	}
	return volumes[len(volumes)-1] / avg
}
