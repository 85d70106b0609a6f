// Package wfo implements the walk-forward window generator and the WFO
// driver that orchestrates per-window GA optimization and out-of-sample
// scoring.
package wfo

import (
	"errors"
	"fmt"
	"time"

	"github.com/ridopark/jonbu-wfo/internal/models"
)

// ErrStepMismatch is returned when step_months != test_months, the
// precondition for non-overlapping test windows.
var ErrStepMismatch = errors.New("wfo: step_months must equal test_months")

// WindowConfig configures the rolling window generator.
type WindowConfig struct {
	Year        int
	TrainMonths int
	TestMonths  int
	StepMonths  int
	WarmupBars  int
}

// Window is one train/test split of a calendar year, carrying the
// warmup prefix, train segment, and test segment candle slices.
type Window struct {
	ID              int
	Label           string
	TrainStartMonth int
	TrainEndMonth   int
	TestStartMonth  int
	TestEndMonth    int
	TrainData       []models.Candle
	TestData        []models.Candle
	WarmupData      []models.Candle
}

// monthBounds returns the [start, end] UTC millisecond timestamps spanning
// 00:00:00.000 on day 1 of month through 23:59:59.999 on the month's last
// day.
func monthBounds(year, month int) (startMs, endMs int64) {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC).Add(-time.Millisecond)
	return start.UnixMilli(), end.UnixMilli()
}

// sliceByMonths returns the subslice of candles (assumed sorted ascending
// by timestamp) whose timestamps fall within [startMonth, endMonth]
// inclusive.
func sliceByMonths(candles []models.Candle, year, startMonth, endMonth int) []models.Candle {
	lo, _ := monthBounds(year, startMonth)
	_, hi := monthBounds(year, endMonth)

	startIdx := len(candles)
	for i, c := range candles {
		if c.TimestampMs >= lo {
			startIdx = i
			break
		}
	}
	endIdx := len(candles)
	for i := startIdx; i < len(candles); i++ {
		if candles[i].TimestampMs > hi {
			endIdx = i
			break
		}
	}
	return candles[startIdx:endIdx]
}

// warmupSlice returns the last warmupBars candles strictly preceding
// beforeMs. If fewer are available, it returns whatever exists rather than
// failing.
func warmupSlice(candles []models.Candle, beforeMs int64, warmupBars int) []models.Candle {
	endIdx := len(candles)
	for i, c := range candles {
		if c.TimestampMs >= beforeMs {
			endIdx = i
			break
		}
	}
	startIdx := endIdx - warmupBars
	if startIdx < 0 {
		startIdx = 0
	}
	return candles[startIdx:endIdx]
}

// GenerateWindows partitions a full year of candles into rolling
// train/test windows. Preconditions: step_months == test_months (no test
// overlap between windows). Returns models.ErrNoWindows if the configured
// train/test/step leaves zero windows in a 12-month year.
func GenerateWindows(candles []models.Candle, cfg WindowConfig) ([]Window, error) {
	if cfg.StepMonths != cfg.TestMonths {
		return nil, fmt.Errorf("%w: got step=%d test=%d", ErrStepMismatch, cfg.StepMonths, cfg.TestMonths)
	}

	count := 12 - cfg.TrainMonths - cfg.TestMonths + 1
	if count <= 0 {
		return nil, models.ErrNoWindows
	}

	windows := make([]Window, 0, count)
	for i := 0; i < count; i++ {
		trainStart := 1 + i*cfg.StepMonths
		trainEnd := trainStart + cfg.TrainMonths - 1
		testStart := trainEnd + 1
		testEnd := testStart + cfg.TestMonths - 1

		trainStartMs, _ := monthBounds(cfg.Year, trainStart)

		w := Window{
			ID:              i,
			Label:           windowLabel(cfg.Year, trainStart, trainEnd, testStart),
			TrainStartMonth: trainStart,
			TrainEndMonth:   trainEnd,
			TestStartMonth:  testStart,
			TestEndMonth:    testEnd,
			TrainData:       sliceByMonths(candles, cfg.Year, trainStart, trainEnd),
			TestData:        sliceByMonths(candles, cfg.Year, testStart, testEnd),
			WarmupData:      warmupSlice(candles, trainStartMs, cfg.WarmupBars),
		}
		windows = append(windows, w)
	}

	if len(windows) == 0 {
		return nil, models.ErrNoWindows
	}

	return windows, nil
}

func windowLabel(year, trainStart, trainEnd, testStart int) string {
	return fmt.Sprintf("Train:%04d-%02dto%04d-%02d_Test:%04d-%02d",
		year, trainStart, year, trainEnd, year, testStart)
}

// SplitTrain divides a window's train segment into SubTrain (the first
// train_months-1 months) and ValTrain (the final train month).
// split_idx = len(train) * (train_months-1) / train_months, integer
// division.
func SplitTrain(trainData []models.Candle, trainMonths int) (subTrain, valTrain []models.Candle) {
	if trainMonths <= 0 {
		return trainData, nil
	}
	splitIdx := len(trainData) * (trainMonths - 1) / trainMonths
	return trainData[:splitIdx], trainData[splitIdx:]
}
