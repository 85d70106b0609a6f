package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TradeRecord is the payload handed to a trade Sink after a position
// closes. Sinks must treat records as idempotent on duplicate submission
// (identified by ID).
type TradeRecord struct {
	ID          uuid.UUID
	RunID       uuid.UUID
	Symbol      string
	Timeframe   Timeframe
	StrategyID  string
	EntryPrice  decimal.Decimal
	ExitPrice   decimal.Decimal
	Quantity    decimal.Decimal
	Side        Side
	NetPnL      decimal.Decimal
	EntryTime   time.Time
	ExitTime    time.Time
	Regime      string
	Agent       string
	Features    map[string]float64
}

// NewTradeRecord builds a TradeRecord from a closed position, stamping a
// fresh record ID.
func NewTradeRecord(runID uuid.UUID, symbol string, tf Timeframe, strategyID string, closed ClosedPosition, entryTime, exitTime time.Time, regime, agent string, features map[string]float64) TradeRecord {
	return TradeRecord{
		ID:         uuid.New(),
		RunID:      runID,
		Symbol:     symbol,
		Timeframe:  tf,
		StrategyID: strategyID,
		EntryPrice: closed.EntryPrice,
		ExitPrice:  closed.ExitPrice,
		Quantity:   closed.Quantity,
		Side:       closed.Side,
		NetPnL:     closed.NetPnL,
		EntryTime:  entryTime,
		ExitTime:   exitTime,
		Regime:     regime,
		Agent:      agent,
		Features:   features,
	}
}
