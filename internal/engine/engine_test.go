package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"quant-trading-bot/internal/interfaces"
	"quant-trading-bot/internal/perf"
	"quant-trading-bot/internal/portfolio"
	"quant-trading-bot/internal/store"
	"quant-trading-bot/internal/types"
)

type stubBroker struct {
	price   float64
	fills   []types.OrderReq
	success bool
	reject  string
}

func (b *stubBroker) LTP(ctx context.Context, symbol string) (float64, error) {
	return b.price, nil
}

func (b *stubBroker) History(ctx context.Context, symbol, interval, span string) ([]types.Candle, error) {
	return nil, nil
}

func (b *stubBroker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResult, error) {
	b.fills = append(b.fills, req)
	if !b.success {
		return types.OrderResult{Success: false, ErrorMessage: b.reject, Price: b.price}, nil
	}
	amount := req.Amount
	if req.Qty > 0 {
		amount = req.Qty * b.price
	}
	return types.OrderResult{
		Success:   true,
		OrderID:   "test-order",
		Amount:    amount,
		Price:     b.price,
		Timestamp: time.Now(),
	}, nil
}

type stubStrategy struct {
	rec      types.Recommendation
	analysis interfaces.Analysis
}

func (s *stubStrategy) Recommend(ctx context.Context, symbol string, price float64, pos *types.Position) (types.Recommendation, interfaces.Analysis, error) {
	return s.rec, s.analysis, nil
}

type stubSentiment struct{ signal float64 }

func (s *stubSentiment) Signal(ctx context.Context, symbol string) float64 {
	return s.signal
}

func engineConfig() *store.Config {
	cfg := &store.Config{InitialCapital: 100000}
	cfg.Sizing.MaxPositionFraction = 0.2
	cfg.Sizing.MinTradeAmount = 100
	cfg.Sizing.MaxTradeAmount = 5000
	return cfg
}

// monday is a weekday well inside any unbounded session window.
var monday = time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)

func newTestEngine(t *testing.T, cfg *store.Config, brk interfaces.Broker, strat interfaces.Strategy, sent interfaces.SentimentSource) (*tradingEngine, *portfolio.Manager, *perf.Analyzer) {
	t.Helper()
	book := portfolio.New(cfg.InitialCapital, portfolio.NewKellySizer(
		cfg.Sizing.MaxPositionFraction, cfg.Sizing.MinTradeAmount, cfg.Sizing.MaxTradeAmount))
	analyzer := perf.NewAnalyzer()
	eng, err := newEngine(cfg, brk, strat, book, analyzer, sent)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	eng.now = func() time.Time { return monday }
	return eng, book, analyzer
}

func TestStepBuyOpensPosition(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	brk := &stubBroker{price: 100, success: true}
	strat := &stubStrategy{rec: types.BuyRecommendation, analysis: interfaces.Analysis{SignalStrength: 1.0, Volatility: 0.1}}
	eng, book, analyzer := newTestEngine(t, engineConfig(), brk, strat, nil)

	st, err := eng.Step(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if st.Recommendation != types.BuyRecommendation {
		t.Errorf("Expected BUY result, got %s", st.Recommendation)
	}
	if st.Order == nil || !st.Order.Success {
		t.Fatal("Expected a successful order in the result")
	}

	pos := book.Position("AAPL")
	if pos == nil {
		t.Fatal("Expected an open position after the buy")
	}
	if pos.AverageBuyPrice != 100 {
		t.Errorf("Expected average buy price 100, got %f", pos.AverageBuyPrice)
	}
	if len(analyzer.Trades()) != 1 {
		t.Errorf("Expected 1 recorded trade, got %d", len(analyzer.Trades()))
	}
}

func TestStepSurvivesTradelogWriteFailure(t *testing.T) {
	// point the log dir at a regular file so every append fails
	blocked := filepath.Join(t.TempDir(), "logs")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("TRADER_LOG_DIR", blocked)

	brk := &stubBroker{price: 100, success: true}
	strat := &stubStrategy{rec: types.BuyRecommendation, analysis: interfaces.Analysis{SignalStrength: 1.0, Volatility: 0.1}}
	eng, book, _ := newTestEngine(t, engineConfig(), brk, strat, nil)

	st, err := eng.Step(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Expected the cycle to survive a log write failure, got %v", err)
	}
	if st.Order == nil || !st.Order.Success {
		t.Fatal("Expected the order to go through despite the log failure")
	}
	if book.Position("AAPL") == nil {
		t.Error("Expected the position to be booked despite the log failure")
	}
}

func TestStepSellLiquidatesPosition(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	brk := &stubBroker{price: 120, success: true}
	strat := &stubStrategy{rec: types.SellRecommendation}
	eng, book, analyzer := newTestEngine(t, engineConfig(), brk, strat, nil)

	book.ApplyBuy("AAPL", 10, 100)

	st, err := eng.Step(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if st.Order == nil || !st.Order.Success {
		t.Fatal("Expected a successful sell order")
	}
	if book.Position("AAPL") != nil {
		t.Error("Expected the position to be closed")
	}

	trades := analyzer.Trades()
	if len(trades) != 1 {
		t.Fatalf("Expected 1 recorded trade, got %d", len(trades))
	}
	if trades[0].ProfitLoss != 200 {
		t.Errorf("Expected realized P/L 200, got %f", trades[0].ProfitLoss)
	}
}

func TestStepSellWithoutPositionIsNoop(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	brk := &stubBroker{price: 100, success: true}
	strat := &stubStrategy{rec: types.SellRecommendation}
	eng, _, analyzer := newTestEngine(t, engineConfig(), brk, strat, nil)

	st, err := eng.Step(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if st.Order != nil {
		t.Error("Expected no order when flat")
	}
	if len(brk.fills) != 0 {
		t.Errorf("Expected no broker call, got %d", len(brk.fills))
	}
	if len(analyzer.Trades()) != 0 {
		t.Error("Expected no recorded trades")
	}
}

func TestStepHoldPlacesNoOrder(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	brk := &stubBroker{price: 100, success: true}
	strat := &stubStrategy{rec: types.HoldRecommendation}
	eng, _, _ := newTestEngine(t, engineConfig(), brk, strat, nil)

	st, err := eng.Step(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if st.Order != nil || len(brk.fills) != 0 {
		t.Error("Expected no order on HOLD")
	}
}

func TestStepRejectedOrderLeavesBookUnchanged(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	brk := &stubBroker{price: 100, success: false, reject: "insufficient funds"}
	strat := &stubStrategy{rec: types.BuyRecommendation, analysis: interfaces.Analysis{SignalStrength: 1.0}}
	eng, book, analyzer := newTestEngine(t, engineConfig(), brk, strat, nil)

	st, err := eng.Step(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Rejections must not surface as errors: %v", err)
	}
	if st.Order == nil || st.Order.Success {
		t.Fatal("Expected the failed order in the result")
	}
	if book.Position("AAPL") != nil {
		t.Error("Expected no position after a rejected order")
	}
	if len(analyzer.Trades()) != 0 {
		t.Error("Expected no recorded trades after a rejected order")
	}
}

func TestStepBearishSentimentVetoesBuy(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	brk := &stubBroker{price: 100, success: true}
	strat := &stubStrategy{rec: types.BuyRecommendation, analysis: interfaces.Analysis{SignalStrength: 1.0}}
	eng, _, _ := newTestEngine(t, engineConfig(), brk, strat, &stubSentiment{signal: -1})

	st, err := eng.Step(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if st.Recommendation != types.HoldRecommendation {
		t.Errorf("Expected the buy to be vetoed, got %s", st.Recommendation)
	}
	if len(brk.fills) != 0 {
		t.Error("Expected no order after the veto")
	}
}

func TestStepOutsideSessionSkips(t *testing.T) {
	t.Setenv("TRADER_LOG_DIR", t.TempDir())
	cfg := engineConfig()
	cfg.Session.OpenUTC = "09:30"
	cfg.Session.CloseUTC = "16:00"

	brk := &stubBroker{price: 100, success: true}
	strat := &stubStrategy{rec: types.BuyRecommendation, analysis: interfaces.Analysis{SignalStrength: 1.0}}
	eng, _, _ := newTestEngine(t, cfg, brk, strat, nil)
	eng.now = func() time.Time { return time.Date(2026, 3, 2, 20, 0, 0, 0, time.UTC) }

	st, err := eng.Step(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if st.Reason != "MARKET_CLOSED" {
		t.Errorf("Expected MARKET_CLOSED, got %q", st.Reason)
	}
	if len(brk.fills) != 0 {
		t.Error("Expected no broker activity outside the session")
	}
}

func TestSessionWindow(t *testing.T) {
	w, err := newSessionWindow("09:30", "16:00")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if !w.open(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)) {
		t.Error("Expected Monday 10:00 to be inside the window")
	}
	if w.open(time.Date(2026, 3, 2, 9, 29, 0, 0, time.UTC)) {
		t.Error("Expected 09:29 to be outside the window")
	}
	if w.open(time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)) {
		t.Error("Expected the close minute to be exclusive")
	}
	if w.open(time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)) {
		t.Error("Expected Saturday to be closed")
	}

	unbounded, err := newSessionWindow("", "")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !unbounded.open(time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC)) {
		t.Error("Expected an unbounded window to be open on weekdays")
	}

	if _, err := newSessionWindow("16:00", "09:30"); err == nil {
		t.Error("Expected an inverted window to be rejected")
	}
	if _, err := newSessionWindow("25:00", "26:00"); err == nil {
		t.Error("Expected an invalid clock to be rejected")
	}
}
