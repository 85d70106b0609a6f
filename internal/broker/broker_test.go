package broker

import (
	"testing"

	"github.com/ridopark/jonbu-wfo/internal/models"
	"github.com/shopspring/decimal"
)

func TestPlaceOrderDebitsEntryFee(t *testing.T) {
	b := New(decimal.NewFromInt(10000), decimal.NewFromFloat(0.001))
	result := b.PlaceOrder(Order{
		Symbol:   "BTCUSDT",
		Side:     models.Buy,
		Quantity: decimal.NewFromInt(1),
		Price:    decimal.NewFromInt(100),
	})
	if !result.Filled {
		t.Fatalf("PlaceOrder() not filled: %+v", result)
	}
	// entry fee = 1 * 100 * 0.001 = 0.1
	wantBalance := decimal.NewFromFloat(9999.9)
	if !b.Balance.Equal(wantBalance) {
		t.Errorf("Balance = %v, want %v", b.Balance, wantBalance)
	}
}

func TestPlaceOrderRejectsWhenBalanceExhausted(t *testing.T) {
	b := New(decimal.Zero, decimal.NewFromFloat(0.001))
	result := b.PlaceOrder(Order{Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(100)})
	if result.Filled {
		t.Error("PlaceOrder() should reject when balance is exhausted")
	}
}

// TestUpdatePositionsSLFirstPriority pins the SL-first same-bar
// tie-break: when a bar's range crosses both SL and TP, the position
// closes at the stop-loss price, not the take-profit.
func TestUpdatePositionsSLFirstPriority(t *testing.T) {
	b := New(decimal.NewFromInt(10000), decimal.Zero)
	b.PlaceOrder(Order{
		Symbol:     "BTCUSDT",
		Side:       models.Buy,
		Quantity:   decimal.NewFromInt(1),
		Price:      decimal.NewFromInt(100),
		StopLoss:   decimal.NewFromInt(95),
		TakeProfit: decimal.NewFromInt(90),
	})

	// UpdatePositions takes a single price, so the take-profit is placed
	// below the stop-loss here: a price of 92 is both <= SL (95) and
	// >= TP (90), so both levels trigger in the same call and the exit
	// must be at the stop-loss.
	b.UpdatePositions(decimal.NewFromInt(92))

	if len(b.Open) != 0 {
		t.Fatalf("expected position to close, still open: %+v", b.Open)
	}
	if len(b.Closed) != 1 {
		t.Fatalf("expected exactly one closed position, got %d", len(b.Closed))
	}
	if !b.Closed[0].ExitPrice.Equal(decimal.NewFromInt(95)) {
		t.Errorf("ExitPrice = %v, want stop-loss price 95", b.Closed[0].ExitPrice)
	}
}

func TestClosePositionComputesNetPnL(t *testing.T) {
	b := New(decimal.NewFromInt(10000), decimal.NewFromFloat(0.001))
	b.PlaceOrder(Order{
		Symbol:   "BTCUSDT",
		Side:     models.Buy,
		Quantity: decimal.NewFromInt(1),
		Price:    decimal.NewFromInt(100),
		StopLoss: decimal.NewFromInt(90),
	})
	balanceAfterEntry := b.Balance

	b.UpdatePositions(decimal.NewFromInt(90))

	// gross PnL = (90 - 100) * 1 = -10; exit fee = 1 * 90 * 0.001 = 0.09
	wantNet := decimal.NewFromFloat(-10.09)
	if !b.Closed[0].NetPnL.Equal(wantNet) {
		t.Errorf("NetPnL = %v, want %v", b.Closed[0].NetPnL, wantNet)
	}
	wantBalance := balanceAfterEntry.Add(wantNet)
	if !b.Balance.Equal(wantBalance) {
		t.Errorf("Balance = %v, want %v", b.Balance, wantBalance)
	}
	// 10000 initial, 0.1 entry fee, -10.09 net PnL on the SL exit ->
	// 9989.81 final balance, matching EquityCurve.
	if !b.Balance.Equal(decimal.NewFromFloat(9989.81)) {
		t.Errorf("Balance = %v, want 9989.81", b.Balance)
	}
	if len(b.EquityCurve) == 0 || !b.EquityCurve[len(b.EquityCurve)-1].Equal(b.Balance) {
		t.Errorf("EquityCurve final entry = %v, want it to equal final balance %v", b.EquityCurve, b.Balance)
	}
}

func TestCurrentDrawdownPct(t *testing.T) {
	b := New(decimal.NewFromInt(1000), decimal.Zero)
	b.EquityCurve = []decimal.Decimal{
		decimal.NewFromInt(1000),
		decimal.NewFromInt(1200),
	}
	b.Balance = decimal.NewFromInt(900)
	b.EquityCurve = append(b.EquityCurve, b.Balance)

	got := b.CurrentDrawdownPct()
	want := (1200.0 - 900.0) / 1200.0
	if got != want {
		t.Errorf("CurrentDrawdownPct() = %v, want %v", got, want)
	}
}

func TestOpenRiskSumsAcrossPositions(t *testing.T) {
	b := New(decimal.NewFromInt(100000), decimal.Zero)
	b.PlaceOrder(Order{Symbol: "A", Side: models.Buy, Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(100), StopLoss: decimal.NewFromInt(95)})
	b.PlaceOrder(Order{Symbol: "B", Side: models.Buy, Quantity: decimal.NewFromInt(1), Price: decimal.NewFromInt(50)}) // no stop: full notional

	got := b.OpenRisk()
	want := decimal.NewFromInt(10).Add(decimal.NewFromInt(50)) // (100-95)*2 + 50*1
	if !got.Equal(want) {
		t.Errorf("OpenRisk() = %v, want %v", got, want)
	}
}
