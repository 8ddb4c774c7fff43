package engineobs

import (
	"context"
	"time"

	"quant-trading-bot/internal/interfaces"
	"quant-trading-bot/internal/logger"
	"quant-trading-bot/internal/trace"
	"quant-trading-bot/internal/types"
)

// Wrap decorates an engine with span creation and cycle-level logging so
// the core decision path stays free of observability plumbing.
func Wrap(eng interfaces.Engine) interfaces.Engine {
	return &observedEngine{inner: eng}
}

type observedEngine struct {
	inner interfaces.Engine
}

var _ interfaces.Engine = (*observedEngine)(nil)

func (o *observedEngine) Step(ctx context.Context, symbol string) (*types.StepResult, error) {
	ctx, span := trace.StartSpan(ctx, "engine.Step")
	defer span.End()

	logger.Info(ctx, "Trading cycle started", "symbol", symbol)
	start := time.Now()

	result, err := o.inner.Step(ctx, symbol)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		logger.ErrorWithErr(ctx, "Trading cycle failed", err,
			"symbol", symbol,
			"duration_ms", elapsed,
		)
		return nil, err
	}

	logger.Info(ctx, "Trading cycle completed",
		"symbol", symbol,
		"recommendation", string(result.Recommendation),
		"reason", result.Reason,
		"duration_ms", elapsed,
	)
	return result, nil
}
