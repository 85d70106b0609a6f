package models

import "github.com/shopspring/decimal"

// Position is an open trade owned by the simulation broker for its
// lifetime.
type Position struct {
	Symbol     string
	Side       Side
	Quantity   decimal.Decimal
	EntryPrice decimal.Decimal
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal
	Metadata   map[string]string
}

// ClosedPosition is a Position that has been exited, with the realized
// exit price and net PnL (after fees) appended.
type ClosedPosition struct {
	Position
	ExitPrice decimal.Decimal
	NetPnL    decimal.Decimal
}
