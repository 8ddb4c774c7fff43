package interfaces

import (
	"context"

	"quant-trading-bot/internal/types"
)

// Analysis carries the derived values a strategy used to reach its
// recommendation, so sizing runs off the same inputs as the decision.
type Analysis struct {
	TrendStrength  float64
	SignalStrength float64
	Volatility     float64
	Momentum       float64
}

// Strategy is a decision engine: given a symbol, current price and the
// open position (nil when flat), emit a recommendation.
type Strategy interface {
	Recommend(ctx context.Context, symbol string, price float64, pos *types.Position) (types.Recommendation, Analysis, error)
}
