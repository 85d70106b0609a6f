package analysis

import "github.com/ridopark/jonbu-wfo/internal/models"

// FVGScan finds fair-value gaps on candles: a three-bar imbalance where the
// outer bars' wicks never overlap, leaving a price void the middle bar
// jumped across. Bullish when bar i+2's low sits above bar i's high,
// bearish when bar i+2's high sits below bar i's low.
func FVGScan(candles []models.Candle) []models.FVG {
	var gaps []models.FVG
	for i := 0; i+2 < len(candles); i++ {
		first := candles[i]
		third := candles[i+2]

		if third.LowFloat() > first.HighFloat() {
			gaps = append(gaps, models.FVG{
				Top:       third.LowFloat(),
				Bottom:    first.HighFloat(),
				Index:     i + 1,
				Direction: models.DirBullish,
			})
		}
		if third.HighFloat() < first.LowFloat() {
			gaps = append(gaps, models.FVG{
				Top:       first.LowFloat(),
				Bottom:    third.HighFloat(),
				Index:     i + 1,
				Direction: models.DirBearish,
			})
		}
	}
	return gaps
}

// StructureScan emits the full ordered event stream the order-block scanner
// walks implicitly: every valid swing, the first bar that sweeps each swing
// extreme, and the first later bar that closes back through the swept level
// (above a swept low, below a swept high) as the break of structure.
func StructureScan(candles []models.Candle) []models.StructureEvent {
	var events []models.StructureEvent

	for _, swing := range DetectSwings(candles) {
		dir := models.DirBearish
		sweepBelow := false
		if swing.Kind == "low" {
			dir = models.DirBullish
			sweepBelow = true
		}
		events = append(events, models.StructureEvent{
			Kind: "swing_" + swing.Kind, Price: swing.Price, Index: swing.Index, Direction: dir,
		})

		sweepIdx := findSweepBar(candles, swing.Index, swing.Price, sweepBelow)
		if sweepIdx < 0 {
			continue
		}
		events = append(events, models.StructureEvent{
			Kind: "sweep", Price: swing.Price, Index: sweepIdx, Direction: dir,
		})

		bosIdx := findBOSBar(candles, sweepIdx, swing.Price, sweepBelow)
		if bosIdx < 0 {
			continue
		}
		events = append(events, models.StructureEvent{
			Kind: "bos", Price: candles[bosIdx].CloseFloat(), Index: bosIdx, Direction: dir,
		})
	}

	return events
}
