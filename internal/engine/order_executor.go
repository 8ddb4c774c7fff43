package engine

import (
	"context"

	"quant-trading-bot/internal/interfaces"
	"quant-trading-bot/internal/logger"
	"quant-trading-bot/internal/tradelog"
	"quant-trading-bot/internal/types"
)

// orderExecutor handles order placement and trade logging.
type orderExecutor struct {
	broker interfaces.Broker
}

func newOrderExecutor(broker interfaces.Broker) *orderExecutor {
	return &orderExecutor{broker: broker}
}

// placeBuyOrder executes an amount-denominated BUY order and appends it
// to the trade log on success.
func (oe *orderExecutor) placeBuyOrder(ctx context.Context, symbol string, amount, price float64, reason string) (types.OrderResult, error) {
	req := types.OrderReq{
		Symbol: symbol,
		Side:   "BUY",
		Amount: amount,
		Tag:    "STRAT",
	}

	res, err := oe.broker.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to place BUY order", err,
			"symbol", symbol,
			"amount", amount,
			"price", price,
		)
		return types.OrderResult{}, err
	}

	if res.Success {
		if err := tradelog.Append(tradelog.Entry{
			Symbol:  symbol,
			Side:    "BUY",
			Amount:  res.Amount,
			Price:   res.Price,
			OrderID: res.OrderID,
			Reason:  reason,
		}); err != nil {
			logger.Warn(ctx, "Failed to append trade log entry", "error", err, "symbol", symbol)
		}
	}
	return res, nil
}

// placeSellOrder executes a quantity-denominated SELL order and appends
// it to the trade log on success.
func (oe *orderExecutor) placeSellOrder(ctx context.Context, symbol string, qty, price, realizedPL float64, reason, tag string) (types.OrderResult, error) {
	req := types.OrderReq{
		Symbol: symbol,
		Side:   "SELL",
		Qty:    qty,
		Tag:    tag,
	}

	res, err := oe.broker.PlaceOrder(ctx, req)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to place SELL order", err,
			"symbol", symbol,
			"qty", qty,
			"price", price,
		)
		return types.OrderResult{}, err
	}

	if res.Success {
		if err := tradelog.Append(tradelog.Entry{
			Symbol:     symbol,
			Side:       "SELL",
			Amount:     res.Amount,
			Price:      res.Price,
			OrderID:    res.OrderID,
			Reason:     reason,
			ProfitLoss: realizedPL,
		}); err != nil {
			logger.Warn(ctx, "Failed to append trade log entry", "error", err, "symbol", symbol)
		}
	}
	return res, nil
}

// logDecision records the recommendation and its inputs to the decision log.
func (oe *orderExecutor) logDecision(ctx context.Context, symbol string, rec types.Recommendation, reason string, price float64, analysis interfaces.Analysis, sentimentSignal float64) {
	err := tradelog.AppendDecision(tradelog.DecisionEntry{
		Symbol:          symbol,
		Action:          string(rec),
		Reason:          reason,
		Price:           price,
		SignalStrength:  analysis.SignalStrength,
		SentimentSignal: sentimentSignal,
		Indicators: map[string]float64{
			"TREND_STRENGTH": analysis.TrendStrength,
			"MOMENTUM":       analysis.Momentum,
			"VOLATILITY":     analysis.Volatility,
		},
	})
	if err != nil {
		logger.Warn(ctx, "Failed to append decision log entry", "error", err, "symbol", symbol)
	}
}
