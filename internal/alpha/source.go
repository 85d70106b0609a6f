package alpha

import (
	"github.com/ridopark/jonbu-wfo/internal/models"
	"github.com/ridopark/jonbu-wfo/internal/paramspace"
)

// ParameterizedSource adapts an Orchestrator's WFO parameterized mode to
// the backtest engine's SignalSource interface (satisfied structurally,
// no import of package backtest is required).
type ParameterizedSource struct {
	Orchestrator *Orchestrator
	Params       paramspace.Params
}

// Signal implements backtest.SignalSource.
func (s ParameterizedSource) Signal(state models.MarketState, symbol string) (models.TradeSignal, bool) {
	signal, _, ok := s.Orchestrator.Parameterized(state, s.Params, symbol)
	return signal, ok
}

// SwitchingSource adapts an Orchestrator's fixed switching mode to the
// backtest engine's SignalSource interface.
type SwitchingSource struct {
	Orchestrator *Orchestrator
}

// Signal implements backtest.SignalSource.
func (s SwitchingSource) Signal(state models.MarketState, symbol string) (models.TradeSignal, bool) {
	signal, _, ok := s.Orchestrator.Switching(state, symbol)
	return signal, ok
}
