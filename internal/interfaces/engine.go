package interfaces

import (
	"context"

	"quant-trading-bot/internal/types"
)

type Engine interface {
	Step(ctx context.Context, symbol string) (*types.StepResult, error)
}
