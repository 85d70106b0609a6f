package indicators

import "sync"

// Snapshot is the bundle of derived indicators memoized for one H4 series
// state. It is computed once per MarketState generation and reused by every
// alpha/regime read until the next candle arrives and produces a fresh
// state with an empty cache, per the frozen-state design note.
type Snapshot struct {
	RSI          float64
	ATR          float64
	ATRAvg14     float64
	ADX          float64
	EMAAlignment EMAAlignment
}

// Cache lazily computes and memoizes a Snapshot from the four raw price
// slices of an H4 series. It is safe for concurrent reads but is meant to
// be owned by exactly one MarketState instance and never shared across
// goroutines.
type Cache struct {
	once     sync.Once
	snapshot Snapshot
}

// Get computes the Snapshot on first call (memoizing it) and returns the
// cached value on every subsequent call.
func (c *Cache) Get(highs, lows, closes, volumes []float64) Snapshot {
	c.once.Do(func() {
		atr14 := ATR(highs, lows, closes, 14)
		// Mean of the 14-period ATR as of each of the last 14 bars that
		// have a full ATR window (fewer when history is shorter).
		atrAvg14 := ATRNeutral
		if n := len(highs); n > 14 {
			k := n - 14
			if k > 14 {
				k = 14
			}
			sum := 0.0
			for end := n - k + 1; end <= n; end++ {
				sum += ATR(highs[:end], lows[:end], closes[:end], 14)
			}
			atrAvg14 = sum / float64(k)
		}
		c.snapshot = Snapshot{
			RSI:          RSI(closes, 14),
			ATR:          atr14,
			ATRAvg14:     atrAvg14,
			ADX:          ADX(highs, lows, closes, 14),
			EMAAlignment: ComputeEMAAlignment(closes),
		}
	})
	return c.snapshot
}

func meanTail(values []float64, n int) float64 {
	if len(values) == 0 {
		return ATRNeutral
	}
	if n > len(values) {
		n = len(values)
	}
	sum := 0.0
	for i := len(values) - n; i < len(values); i++ {
		sum += values[i]
	}
	return sum / float64(n)
}
