package interfaces

import (
	"context"

	"quant-trading-bot/internal/types"
)

// Broker is the market-data and order-execution collaborator boundary.
// History must return chronologically ordered bars or fail with a
// data-unavailable error.
type Broker interface {
	LTP(ctx context.Context, symbol string) (float64, error)
	History(ctx context.Context, symbol, interval, span string) ([]types.Candle, error)
	PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResult, error)
}
