package risk

import (
	"context"

	"quant-trading-bot/internal/logger"
	"quant-trading-bot/internal/types"
)

// Exit trigger reasons, in evaluation order. The first trigger that fires
// wins; triggers are never combined.
const (
	ReasonStopLoss     = "STOP_LOSS"
	ReasonTakeProfit   = "TAKE_PROFIT"
	ReasonTrailingStop = "TRAILING_STOP"
	ReasonMaxPosition  = "MAX_POSITION_SIZE"
)

// Manager gates every strategy decision: it decides whether an open
// position must be exited now, before any entry logic runs.
type Manager struct {
	StopLossPct     float64
	TakeProfitPct   float64
	TrailingStopPct float64
	MaxPositionSize float64
}

func New(stopLossPct, takeProfitPct, trailingStopPct, maxPositionSize float64) *Manager {
	return &Manager{
		StopLossPct:     stopLossPct,
		TakeProfitPct:   takeProfitPct,
		TrailingStopPct: trailingStopPct,
		MaxPositionSize: maxPositionSize,
	}
}

// Evaluate checks the exit triggers in order: stop-loss, take-profit,
// trailing stop, max position size. It updates the position's
// HighestPrice watermark (monotonic, over position value) in place.
// Anything unevaluable fails safe to "do not exit".
func (m *Manager) Evaluate(ctx context.Context, symbol string, currentPrice float64, pos *types.Position) (bool, string) {
	if pos == nil || pos.Quantity <= 0 || pos.AverageBuyPrice <= 0 {
		return false, ""
	}

	positionValue := currentPrice * pos.Quantity
	unrealizedPL := (currentPrice - pos.AverageBuyPrice) / pos.AverageBuyPrice

	if pos.HighestPrice < positionValue {
		pos.HighestPrice = positionValue
	}

	if unrealizedPL < -m.StopLossPct {
		logger.Risk(ctx, symbol, ReasonStopLoss,
			"unrealized_pl", unrealizedPL,
			"stop_loss_pct", m.StopLossPct,
		)
		return true, ReasonStopLoss
	}

	if unrealizedPL > m.TakeProfitPct {
		logger.Risk(ctx, symbol, ReasonTakeProfit,
			"unrealized_pl", unrealizedPL,
			"take_profit_pct", m.TakeProfitPct,
		)
		return true, ReasonTakeProfit
	}

	if pos.HighestPrice > 0 && (pos.HighestPrice-positionValue)/pos.HighestPrice > m.TrailingStopPct {
		logger.Risk(ctx, symbol, ReasonTrailingStop,
			"position_value", positionValue,
			"highest_price", pos.HighestPrice,
			"trailing_stop_pct", m.TrailingStopPct,
		)
		return true, ReasonTrailingStop
	}

	if positionValue > m.MaxPositionSize {
		logger.Risk(ctx, symbol, ReasonMaxPosition,
			"position_value", positionValue,
			"max_position_size", m.MaxPositionSize,
		)
		return true, ReasonMaxPosition
	}

	return false, ""
}
