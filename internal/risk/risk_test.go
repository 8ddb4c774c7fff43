package risk

import (
	"context"
	"testing"

	"quant-trading-bot/internal/types"
)

func newTestManager() *Manager {
	return New(0.15, 0.10, 0.03, 10000)
}

func TestEvaluateNoPosition(t *testing.T) {
	m := newTestManager()
	ctx := context.Background()

	exit, reason := m.Evaluate(ctx, "AAPL", 100, nil)
	if exit || reason != "" {
		t.Errorf("Expected no exit for nil position, got %v %q", exit, reason)
	}

	exit, _ = m.Evaluate(ctx, "AAPL", 100, &types.Position{Quantity: 0, AverageBuyPrice: 100})
	if exit {
		t.Error("Expected no exit for flat position")
	}

	exit, _ = m.Evaluate(ctx, "AAPL", 100, &types.Position{Quantity: 10, AverageBuyPrice: 0})
	if exit {
		t.Error("Expected fail-safe no-exit for unevaluable position")
	}
}

func TestEvaluateStopLoss(t *testing.T) {
	m := newTestManager()
	pos := &types.Position{Quantity: 10, AverageBuyPrice: 100, HighestPrice: 1000}

	exit, reason := m.Evaluate(context.Background(), "AAPL", 80, pos)
	if !exit || reason != ReasonStopLoss {
		t.Errorf("Expected STOP_LOSS at -20%%, got %v %q", exit, reason)
	}
}

func TestEvaluateTakeProfit(t *testing.T) {
	m := newTestManager()
	pos := &types.Position{Quantity: 10, AverageBuyPrice: 100, HighestPrice: 1000}

	exit, reason := m.Evaluate(context.Background(), "AAPL", 115, pos)
	if !exit || reason != ReasonTakeProfit {
		t.Errorf("Expected TAKE_PROFIT at +15%%, got %v %q", exit, reason)
	}
}

func TestEvaluateTrailingStop(t *testing.T) {
	m := newTestManager()
	// Watermark at 1050, value now 1010: 3.8% drawdown from the peak while
	// still inside the stop-loss and take-profit bands.
	pos := &types.Position{Quantity: 10, AverageBuyPrice: 100, HighestPrice: 1050}

	exit, reason := m.Evaluate(context.Background(), "AAPL", 101, pos)
	if !exit || reason != ReasonTrailingStop {
		t.Errorf("Expected TRAILING_STOP, got %v %q", exit, reason)
	}
}

func TestEvaluateMaxPositionSize(t *testing.T) {
	m := newTestManager()
	pos := &types.Position{Quantity: 120, AverageBuyPrice: 100}

	exit, reason := m.Evaluate(context.Background(), "AAPL", 101, pos)
	if !exit || reason != ReasonMaxPosition {
		t.Errorf("Expected MAX_POSITION_SIZE at value 12120, got %v %q", exit, reason)
	}
}

func TestEvaluateTriggerOrder(t *testing.T) {
	m := newTestManager()
	// Stop-loss and max-position both fire; stop-loss is evaluated first.
	pos := &types.Position{Quantity: 200, AverageBuyPrice: 100, HighestPrice: 20000}

	exit, reason := m.Evaluate(context.Background(), "AAPL", 80, pos)
	if !exit || reason != ReasonStopLoss {
		t.Errorf("Expected STOP_LOSS to win the trigger order, got %v %q", exit, reason)
	}
}

func TestEvaluateAdvancesWatermark(t *testing.T) {
	m := newTestManager()
	pos := &types.Position{Quantity: 10, AverageBuyPrice: 100, HighestPrice: 1000}

	m.Evaluate(context.Background(), "AAPL", 102, pos)
	if pos.HighestPrice != 1020 {
		t.Errorf("Expected watermark to advance to 1020, got %f", pos.HighestPrice)
	}

	m.Evaluate(context.Background(), "AAPL", 101, pos)
	if pos.HighestPrice != 1020 {
		t.Errorf("Expected watermark to stay at 1020, got %f", pos.HighestPrice)
	}
}

func TestEvaluateHoldInsideBands(t *testing.T) {
	m := newTestManager()
	pos := &types.Position{Quantity: 10, AverageBuyPrice: 100, HighestPrice: 1000}

	exit, reason := m.Evaluate(context.Background(), "AAPL", 102, pos)
	if exit || reason != "" {
		t.Errorf("Expected no exit inside all bands, got %v %q", exit, reason)
	}
}
