package broker

import (
	"context"

	"quant-trading-bot/internal/interfaces"
	"quant-trading-bot/internal/logger"
	"quant-trading-bot/internal/trace"
	"quant-trading-bot/internal/types"
)

// observableBroker decorates a Broker with spans and logging.
type observableBroker struct {
	broker interfaces.Broker
}

var _ interfaces.Broker = (*observableBroker)(nil)

func WrapObs(brk interfaces.Broker) interfaces.Broker {
	return &observableBroker{broker: brk}
}

func (ob *observableBroker) LTP(ctx context.Context, symbol string) (float64, error) {
	ctx, span := trace.StartSpan(ctx, "broker.LTP")
	defer span.End()

	price, err := ob.broker.LTP(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch LTP", err, "symbol", symbol)
		return 0, err
	}
	logger.Debug(ctx, "LTP fetched", "symbol", symbol, "price", price)
	return price, nil
}

func (ob *observableBroker) History(ctx context.Context, symbol, interval, span string) ([]types.Candle, error) {
	ctx, sp := trace.StartSpan(ctx, "broker.History")
	defer sp.End()

	candles, err := ob.broker.History(ctx, symbol, interval, span)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch history", err,
			"symbol", symbol, "interval", interval, "span", span)
		return nil, err
	}
	logger.Debug(ctx, "History fetched",
		"symbol", symbol, "interval", interval, "span", span, "bars", len(candles))
	return candles, nil
}

func (ob *observableBroker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResult, error) {
	ctx, span := trace.StartSpan(ctx, "broker.PlaceOrder")
	defer span.End()

	logger.Info(ctx, "Placing order",
		"symbol", req.Symbol, "side", req.Side, "qty", req.Qty, "amount", req.Amount, "tag", req.Tag)

	result, err := ob.broker.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErr(ctx, "Order placement failed", err, "symbol", req.Symbol)
		return result, err
	}
	if !result.Success {
		logger.Warn(ctx, "Order rejected",
			"symbol", req.Symbol, "side", req.Side, "error", result.ErrorMessage)
		return result, nil
	}
	logger.Trade(ctx, req.Symbol, req.Side, result.Amount, result.Price, result.OrderID)
	return result, nil
}
