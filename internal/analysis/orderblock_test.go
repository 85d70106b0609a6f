package analysis

import (
	"testing"

	"github.com/ridopark/jonbu-wfo/internal/models"
	"github.com/shopspring/decimal"
)

func candle(o, h, l, c float64) models.Candle {
	candle, err := models.NewCandle(0,
		decimal.NewFromFloat(o), decimal.NewFromFloat(h),
		decimal.NewFromFloat(l), decimal.NewFromFloat(c),
		decimal.NewFromFloat(100), models.H4, true)
	if err != nil {
		panic(err)
	}
	return candle
}

func TestDetectSwingsStrictTwoBarConvention(t *testing.T) {
	candles := []models.Candle{
		candle(100, 105, 99, 104),  // green
		candle(104, 106, 98, 99),   // red -> swing high at index 0
		candle(99, 100, 94, 95),    // red
		candle(95, 101, 93, 100),   // green -> swing low at index 2
	}

	swings := DetectSwings(candles)
	if len(swings) != 2 {
		t.Fatalf("DetectSwings() found %d swings, want 2", len(swings))
	}
	if swings[0].Kind != "high" || swings[0].Index != 0 {
		t.Errorf("swing[0] = %+v, want high at index 0", swings[0])
	}
	if swings[1].Kind != "low" || swings[1].Index != 2 {
		t.Errorf("swing[1] = %+v, want low at index 2", swings[1])
	}
}

func TestOrderBlockScanNoSetup(t *testing.T) {
	candles := []models.Candle{
		candle(100, 101, 99, 100.5),
		candle(100.5, 101.5, 99.5, 101),
	}
	if ob := OrderBlockScan(candles); ob != nil {
		t.Errorf("OrderBlockScan() = %+v, want nil", ob)
	}
}

func TestOrderBlockScanBullishSetup(t *testing.T) {
	// Sweep a swing low, then close back above the prior swing high
	// (bullish break of structure) to produce a bullish order block.
	candles := []models.Candle{
		candle(100, 110, 99, 108),  // 0: green, sets up swing high context
		candle(108, 109, 95, 96),   // 1: red -> swing high at 0 (price 110)
		candle(96, 97, 85, 90),     // 2: red
		candle(90, 95, 80, 94),     // 3: green -> swing low at 2 (price 85); sweeps it (low 80 < 85)
		candle(94, 96, 83, 84),     // 4: red -> the order-block candle before the BOS
		candle(84, 112, 83, 111),   // 5: green -> BOS close (111 > prior swing high 110)
	}

	ob := OrderBlockScan(candles)
	if ob == nil {
		t.Fatal("OrderBlockScan() = nil, want a bullish order block")
	}
	if ob.Direction != models.DirBullish {
		t.Errorf("Direction = %v, want bullish", ob.Direction)
	}
}
