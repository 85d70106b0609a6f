package analysis

import "github.com/ridopark/jonbu-wfo/internal/models"

// SwingPoint is a TJR-convention two-bar fractal extreme.
type SwingPoint struct {
	Index int
	Price float64
	Kind  string // "high" or "low"
}

// DetectSwings scans candles for valid swing points using the strict
// two-bar convention: a valid swing high is a green bar immediately
// followed by a red bar, recorded at the green bar's high; a valid swing
// low is red-then-green, recorded at the red bar's low.
func DetectSwings(candles []models.Candle) []SwingPoint {
	var swings []SwingPoint
	for i := 0; i < len(candles)-1; i++ {
		cur := candles[i]
		next := candles[i+1]
		curGreen := cur.CloseFloat() > cur.OpenFloat()
		curRed := cur.CloseFloat() < cur.OpenFloat()
		nextGreen := next.CloseFloat() > next.OpenFloat()
		nextRed := next.CloseFloat() < next.OpenFloat()

		if curGreen && nextRed {
			swings = append(swings, SwingPoint{Index: i, Price: cur.HighFloat(), Kind: "high"})
		}
		if curRed && nextGreen {
			swings = append(swings, SwingPoint{Index: i, Price: cur.LowFloat(), Kind: "low"})
		}
	}
	return swings
}

// OrderBlockScan finds the most recent valid order block on candles: a
// liquidity sweep of a prior valid swing extreme followed by a body-close
// break of structure through the opposing extreme. Returns nil if no such
// setup exists.
func OrderBlockScan(candles []models.Candle) *models.OrderBlock {
	swings := DetectSwings(candles)
	if len(swings) == 0 {
		return nil
	}

	var best *models.OrderBlock

	for si, swing := range swings {
		switch swing.Kind {
		case "low":
			sweepIdx := findSweepBar(candles, swing.Index, swing.Price, true)
			if sweepIdx < 0 {
				continue
			}
			priorHigh := mostRecentSwingBefore(swings, si, "high")
			if priorHigh == nil {
				continue
			}
			bosIdx := findBOSBar(candles, sweepIdx, priorHigh.Price, true)
			if bosIdx < 0 {
				continue
			}
			obIdx := lastOppositeCandle(candles, sweepIdx, bosIdx, false)
			ob := &models.OrderBlock{
				Top:       candles[obIdx].HighFloat(),
				Bottom:    candles[obIdx].LowFloat(),
				Index:     obIdx,
				Direction: models.DirBullish,
			}
			if best == nil || ob.Index >= best.Index {
				best = ob
			}

		case "high":
			sweepIdx := findSweepBar(candles, swing.Index, swing.Price, false)
			if sweepIdx < 0 {
				continue
			}
			priorLow := mostRecentSwingBefore(swings, si, "low")
			if priorLow == nil {
				continue
			}
			bosIdx := findBOSBar(candles, sweepIdx, priorLow.Price, false)
			if bosIdx < 0 {
				continue
			}
			obIdx := lastOppositeCandle(candles, sweepIdx, bosIdx, true)
			ob := &models.OrderBlock{
				Top:       candles[obIdx].HighFloat(),
				Bottom:    candles[obIdx].LowFloat(),
				Index:     obIdx,
				Direction: models.DirBearish,
			}
			if best == nil || ob.Index >= best.Index {
				best = ob
			}
		}
	}

	return best
}

// findSweepBar returns the index of the first bar after fromIdx whose
// extreme trades through level. below == true looks for a bar whose low
// drops beneath level (sweeping a swing low); below == false looks for a
// bar whose high trades above level (sweeping a swing high).
func findSweepBar(candles []models.Candle, fromIdx int, level float64, below bool) int {
	for i := fromIdx + 1; i < len(candles); i++ {
		if below && candles[i].LowFloat() < level {
			return i
		}
		if !below && candles[i].HighFloat() > level {
			return i
		}
	}
	return -1
}

// findBOSBar returns the index of the first bar after fromIdx whose close
// (not wick) breaks through level in the given direction.
func findBOSBar(candles []models.Candle, fromIdx int, level float64, upward bool) int {
	for i := fromIdx + 1; i < len(candles); i++ {
		if upward && candles[i].CloseFloat() > level {
			return i
		}
		if !upward && candles[i].CloseFloat() < level {
			return i
		}
	}
	return -1
}

// mostRecentSwingBefore walks swings backward from si-1 for the nearest
// swing of the given kind.
func mostRecentSwingBefore(swings []SwingPoint, si int, kind string) *SwingPoint {
	for i := si - 1; i >= 0; i-- {
		if swings[i].Kind == kind {
			s := swings[i]
			return &s
		}
	}
	return nil
}

// lastOppositeCandle returns the index of the last candle strictly between
// fromIdx and toIdx whose body color is opposite wantGreen, falling back to
// fromIdx itself (the sweep bar) when no such candle exists.
func lastOppositeCandle(candles []models.Candle, fromIdx, toIdx int, wantGreen bool) int {
	for i := toIdx - 1; i > fromIdx; i-- {
		c := candles[i]
		isGreen := c.CloseFloat() > c.OpenFloat()
		isRed := c.CloseFloat() < c.OpenFloat()
		if wantGreen && isGreen {
			return i
		}
		if !wantGreen && isRed {
			return i
		}
	}
	return fromIdx
}
