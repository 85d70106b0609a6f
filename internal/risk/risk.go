// Package risk implements position sizing.
package risk

import (
	"math"

	"github.com/ridopark/jonbu-wfo/internal/models"
	"github.com/shopspring/decimal"
)

// Manager sizes positions from account balance, stop distance, and the
// configured risk percentage.
type Manager struct {
	RiskPercentage   float64
	MaxPortfolioRisk float64 // 0 disables the portfolio-heat cap
	DrawdownScaling  bool
}

// NewManager builds a risk Manager.
func NewManager(riskPercentage, maxPortfolioRisk float64, drawdownScaling bool) *Manager {
	return &Manager{
		RiskPercentage:   riskPercentage,
		MaxPortfolioRisk: maxPortfolioRisk,
		DrawdownScaling:  drawdownScaling,
	}
}

// CalculatePositionSize returns the quantity to open given balance, entry,
// stop-loss, already-open risk, and current drawdown fraction. Returns
// models.ErrInvalidStop if entry == stopLoss.
func (m *Manager) CalculatePositionSize(balance, entry, stopLoss decimal.Decimal, openRisk decimal.Decimal, drawdownPct float64) (decimal.Decimal, error) {
	if entry.Equal(stopLoss) {
		return decimal.Zero, models.ErrInvalidStop
	}

	riskAmount := balance.Mul(decimal.NewFromFloat(m.RiskPercentage))

	if m.DrawdownScaling && drawdownPct > 0 {
		scale := math.Max(0.5, 1-2*drawdownPct)
		riskAmount = riskAmount.Mul(decimal.NewFromFloat(scale))
	}

	if m.MaxPortfolioRisk > 0 {
		available := balance.Mul(decimal.NewFromFloat(m.MaxPortfolioRisk)).Sub(openRisk)
		if available.Sign() <= 0 {
			return decimal.Zero, nil
		}
		if riskAmount.GreaterThan(available) {
			riskAmount = available
		}
	}

	stopDistance := entry.Sub(stopLoss).Abs()
	return riskAmount.Div(stopDistance), nil
}
