package models

import "github.com/shopspring/decimal"

// Side is the direction of a trade signal or position.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// TradeSignal is emitted by an alpha combiner or orchestrator once the
// aggregate score clears the configured threshold. EntryPrice/StopLoss/
// TakeProfit are placeholders until the backtest engine fills them in from
// the current bar close and the configured risk multipliers.
type TradeSignal struct {
	Symbol     string
	Side       Side
	EntryPrice decimal.Decimal
	StopLoss   decimal.Decimal
	TakeProfit decimal.Decimal
	Confidence float64
	Metadata   map[string]string
}
