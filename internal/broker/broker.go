// Package broker implements the simulation broker that fills orders,
// triggers stop-loss/take-profit, and tracks equity.
package broker

import (
	"github.com/ridopark/jonbu-wfo/internal/models"
	"github.com/shopspring/decimal"
)

// Order is a request to open a position.
type Order struct {
	Symbol     string
	Side       models.Side
	Quantity   decimal.Decimal
	Price      decimal.Decimal
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal
	Metadata   map[string]string
}

// FillResult reports the outcome of placing an order.
type FillResult struct {
	Filled   bool
	Position models.Position
	Reason   string
}

// Broker holds balance, fee rate, open positions, a closed-position log,
// and the equity curve. It is not safe for concurrent use; each backtest
// owns exactly one Broker instance.
type Broker struct {
	Balance       decimal.Decimal
	FeeRate       decimal.Decimal
	Open          []models.Position
	Closed        []models.ClosedPosition
	EquityCurve   []decimal.Decimal
	CumulativeFee decimal.Decimal
}

// New builds a Broker seeded with initialBalance and a fee rate (e.g. 0.001
// for 10 bps). The equity curve starts with the initial balance.
func New(initialBalance, feeRate decimal.Decimal) *Broker {
	return &Broker{
		Balance:     initialBalance,
		FeeRate:     feeRate,
		EquityCurve: []decimal.Decimal{initialBalance},
	}
}

// PlaceOrder rejects the order if balance is non-positive or the entry fee
// would exceed balance. Otherwise it debits the entry fee, opens the
// position, and appends the post-fee balance to the equity curve.
func (b *Broker) PlaceOrder(order Order) FillResult {
	if b.Balance.Sign() <= 0 {
		return FillResult{Reason: "balance exhausted"}
	}

	entryFee := order.Quantity.Mul(order.Price).Mul(b.FeeRate)
	if entryFee.GreaterThan(b.Balance) {
		return FillResult{Reason: "entry fee exceeds balance"}
	}

	b.Balance = b.Balance.Sub(entryFee)
	b.CumulativeFee = b.CumulativeFee.Add(entryFee)

	pos := models.Position{
		Symbol:     order.Symbol,
		Side:       order.Side,
		Quantity:   order.Quantity,
		EntryPrice: order.Price,
		StopLoss:   order.StopLoss,
		TakeProfit: order.TakeProfit,
		Metadata:   order.Metadata,
	}
	b.Open = append(b.Open, pos)
	b.EquityCurve = append(b.EquityCurve, b.Balance)

	return FillResult{Filled: true, Position: pos}
}

// UpdatePositions checks every open position's SL/TP against currentPrice.
// When both would trigger within the same call, stop-loss takes priority
// (the conservative assumption, pinned by the test suite). Fill price is
// the trigger level, not currentPrice.
func (b *Broker) UpdatePositions(currentPrice decimal.Decimal) {
	var stillOpen []models.Position

	for _, pos := range b.Open {
		exitPrice, triggered := b.triggerPrice(pos, currentPrice)
		if !triggered {
			stillOpen = append(stillOpen, pos)
			continue
		}
		b.closePosition(pos, exitPrice)
	}

	b.Open = stillOpen
}

// triggerPrice returns the exit price and whether a fill should happen,
// applying SL-first priority when both levels are crossed.
func (b *Broker) triggerPrice(pos models.Position, currentPrice decimal.Decimal) (decimal.Decimal, bool) {
	long := pos.Side == models.Buy

	slHit := false
	if !pos.StopLoss.IsZero() {
		if long {
			slHit = currentPrice.LessThanOrEqual(pos.StopLoss)
		} else {
			slHit = currentPrice.GreaterThanOrEqual(pos.StopLoss)
		}
	}
	if slHit {
		return pos.StopLoss, true
	}

	tpHit := false
	if !pos.TakeProfit.IsZero() {
		if long {
			tpHit = currentPrice.GreaterThanOrEqual(pos.TakeProfit)
		} else {
			tpHit = currentPrice.LessThanOrEqual(pos.TakeProfit)
		}
	}
	if tpHit {
		return pos.TakeProfit, true
	}

	return decimal.Zero, false
}

func (b *Broker) closePosition(pos models.Position, exitPrice decimal.Decimal) {
	sideMult := decimal.NewFromInt(1)
	if pos.Side == models.Sell {
		sideMult = decimal.NewFromInt(-1)
	}

	grossPnL := exitPrice.Sub(pos.EntryPrice).Mul(pos.Quantity).Mul(sideMult)
	exitFee := pos.Quantity.Mul(exitPrice).Mul(b.FeeRate)
	netPnL := grossPnL.Sub(exitFee)

	b.Balance = b.Balance.Add(netPnL)
	b.CumulativeFee = b.CumulativeFee.Add(exitFee)
	b.EquityCurve = append(b.EquityCurve, b.Balance)

	b.Closed = append(b.Closed, models.ClosedPosition{
		Position:  pos,
		ExitPrice: exitPrice,
		NetPnL:    netPnL,
	})
}

// CurrentDrawdownPct returns (peak - balance) / peak over the equity curve
// seen so far.
func (b *Broker) CurrentDrawdownPct() float64 {
	peak := b.peakEquity()
	if peak.Sign() <= 0 {
		return 0
	}
	dd := peak.Sub(b.Balance).Div(peak)
	f, _ := dd.Float64()
	if f < 0 {
		return 0
	}
	return f
}

func (b *Broker) peakEquity() decimal.Decimal {
	peak := b.EquityCurve[0]
	for _, v := range b.EquityCurve {
		if v.GreaterThan(peak) {
			peak = v
		}
	}
	return peak
}

// OpenRisk sums |entry - stop| * qty across open positions; a position with
// no stop contributes its full notional (entry * qty) as its risk.
func (b *Broker) OpenRisk() decimal.Decimal {
	total := decimal.Zero
	for _, pos := range b.Open {
		if pos.StopLoss.IsZero() {
			total = total.Add(pos.EntryPrice.Mul(pos.Quantity))
			continue
		}
		total = total.Add(pos.EntryPrice.Sub(pos.StopLoss).Abs().Mul(pos.Quantity))
	}
	return total
}
