package portfolio

import (
	"quant-trading-bot/internal/types"
)

// Manager is the exclusive owner of the ticker -> Position mapping.
// No other component mutates positions directly. The caller serializes
// decisions per ticker; the manager itself does no locking.
type Manager struct {
	initialCapital float64
	positions      map[string]*types.Position
	sizer          Sizer
}

func New(initialCapital float64, sizer Sizer) *Manager {
	return &Manager{
		initialCapital: initialCapital,
		positions:      make(map[string]*types.Position),
		sizer:          sizer,
	}
}

// Position returns the open position for a symbol, nil when flat.
func (m *Manager) Position(symbol string) *types.Position {
	return m.positions[symbol]
}

// Metrics recomputes the portfolio view from live positions on every
// call. Sector exposure, beta-weighted delta and portfolio Sharpe/Sortino
// are extension points pending a benchmark feed and stay zero/empty.
func (m *Manager) Metrics() types.PortfolioMetrics {
	totalEquity := 0.0
	for _, pos := range m.positions {
		totalEquity += pos.Equity
	}
	return types.PortfolioMetrics{
		TotalEquity:    totalEquity,
		CashAvailable:  m.initialCapital - totalEquity,
		Positions:      m.positions,
		SectorExposure: map[string]float64{},
	}
}

// RefreshPrice re-derives the price-dependent fields of a position and
// advances the HighestPrice watermark. No-op for unknown symbols.
func (m *Manager) RefreshPrice(symbol string, price float64) {
	pos := m.positions[symbol]
	if pos == nil || price <= 0 {
		return
	}
	pos.CurrentPrice = price
	pos.Equity = price * pos.Quantity
	pos.UnrealizedPL = (price - pos.AverageBuyPrice) * pos.Quantity
	if pos.AverageBuyPrice > 0 {
		pos.UnrealizedPLPct = (price - pos.AverageBuyPrice) / pos.AverageBuyPrice
	}
	if pos.Equity > pos.HighestPrice {
		pos.HighestPrice = pos.Equity
	}
}

// ApplyBuy books a buy fill, creating the position on first entry and
// blending the average buy price on adds.
func (m *Manager) ApplyBuy(symbol string, quantity, price float64) {
	if quantity <= 0 || price <= 0 {
		return
	}
	pos := m.positions[symbol]
	if pos == nil {
		pos = &types.Position{
			Quantity:        quantity,
			AverageBuyPrice: price,
			HighestPrice:    price * quantity,
		}
		m.positions[symbol] = pos
	} else {
		totalCost := pos.AverageBuyPrice*pos.Quantity + price*quantity
		pos.Quantity += quantity
		pos.AverageBuyPrice = totalCost / pos.Quantity
	}
	m.RefreshPrice(symbol, price)
}

// ApplySell books a sell fill and removes the position once quantity
// reaches zero. Returns the realized P/L of the sold lot.
func (m *Manager) ApplySell(symbol string, quantity, price float64) float64 {
	pos := m.positions[symbol]
	if pos == nil || quantity <= 0 {
		return 0
	}
	if quantity > pos.Quantity {
		quantity = pos.Quantity
	}
	realized := (price - pos.AverageBuyPrice) * quantity
	pos.Quantity -= quantity
	if pos.Quantity <= 0 {
		delete(m.positions, symbol)
		return realized
	}
	m.RefreshPrice(symbol, price)
	return realized
}

// PositionSize sizes an entry for the current cash level.
func (m *Manager) PositionSize(signalStrength, volatility float64) float64 {
	return m.sizer.Size(m.Metrics().CashAvailable, signalStrength, volatility)
}
