package strategy

import (
	"context"
	"errors"
	"testing"

	"quant-trading-bot/internal/risk"
	"quant-trading-bot/internal/store"
	"quant-trading-bot/internal/types"
)

// fakeBroker serves canned candles keyed by interval:span.
type fakeBroker struct {
	candles map[string][]types.Candle
	err     error
}

func (f *fakeBroker) LTP(ctx context.Context, symbol string) (float64, error) {
	return 100, nil
}

func (f *fakeBroker) History(ctx context.Context, symbol, interval, span string) ([]types.Candle, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.candles[interval+":"+span], nil
}

func (f *fakeBroker) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResult, error) {
	return types.OrderResult{Success: true}, nil
}

func closesToCandles(closes []float64) []types.Candle {
	out := make([]types.Candle, len(closes))
	for i, c := range closes {
		out[i] = types.Candle{High: c, Low: c, Close: c, Vol: 100}
	}
	return out
}

func smaConfig() *store.Config {
	cfg := &store.Config{}
	cfg.Indicators.SMAShortPeriod = 3
	cfg.Indicators.SMALongPeriod = 5
	cfg.Indicators.MomentumLookback = 2
	cfg.Indicators.MomentumThreshold = 0
	cfg.Threshold.Base = 0
	cfg.Threshold.Dynamic = false
	return cfg
}

func TestNewDispatch(t *testing.T) {
	cfg := smaConfig()
	cfg.VWAP.Window = 20
	brk := &fakeBroker{}
	riskMgr := risk.New(0.05, 0.10, 0.03, 10000)

	if _, err := New(SMACrossover, cfg, brk, riskMgr); err != nil {
		t.Errorf("Expected SMA_CROSSOVER to build, got %v", err)
	}
	if _, err := New(VWAPReversion, cfg, brk, riskMgr); err != nil {
		t.Errorf("Expected VWAP_REVERSION to build, got %v", err)
	}
	if _, err := New(Kind("MOMENTUM"), cfg, brk, riskMgr); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("Expected ErrUnknownKind, got %v", err)
	}
}

func TestNewSMACrossoverValidation(t *testing.T) {
	brk := &fakeBroker{}
	riskMgr := risk.New(0.05, 0.10, 0.03, 10000)

	cfg := smaConfig()
	cfg.Indicators.SMAShortPeriod = 50
	cfg.Indicators.SMALongPeriod = 20
	if _, err := NewSMACrossover(cfg, brk, riskMgr); !errors.Is(err, ErrShortPeriodTooLong) {
		t.Errorf("Expected ErrShortPeriodTooLong, got %v", err)
	}

	cfg = smaConfig()
	cfg.Indicators.MomentumLookback = 0
	if _, err := NewSMACrossover(cfg, brk, riskMgr); !errors.Is(err, ErrInvalidMomentumWindow) {
		t.Errorf("Expected ErrInvalidMomentumWindow, got %v", err)
	}
}

func TestSMACrossoverUptrendBuys(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 110}
	brk := &fakeBroker{candles: map[string][]types.Candle{
		"5minute:day": closesToCandles(closes),
	}}
	s, err := NewSMACrossover(smaConfig(), brk, risk.New(0.05, 0.10, 0.03, 1e9))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	rec, analysis, err := s.Recommend(context.Background(), "AAPL", 110, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rec != types.BuyRecommendation {
		t.Errorf("Expected BUY on a steady uptrend, got %s", rec)
	}
	if analysis.SignalStrength <= 0 {
		t.Errorf("Expected positive signal strength, got %f", analysis.SignalStrength)
	}
}

func TestSMACrossoverDowntrendSells(t *testing.T) {
	closes := []float64{110, 109, 108, 107, 106, 105, 104, 103, 102, 100}
	brk := &fakeBroker{candles: map[string][]types.Candle{
		"5minute:day": closesToCandles(closes),
	}}
	s, _ := NewSMACrossover(smaConfig(), brk, risk.New(0.05, 0.10, 0.03, 1e9))

	rec, _, err := s.Recommend(context.Background(), "AAPL", 100, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rec != types.SellRecommendation {
		t.Errorf("Expected SELL on a steady downtrend, got %s", rec)
	}
}

func TestSMACrossoverThinDataHolds(t *testing.T) {
	brk := &fakeBroker{candles: map[string][]types.Candle{
		"5minute:day": closesToCandles([]float64{100, 101}),
	}}
	s, _ := NewSMACrossover(smaConfig(), brk, risk.New(0.05, 0.10, 0.03, 1e9))

	rec, analysis, err := s.Recommend(context.Background(), "AAPL", 101, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rec != types.HoldRecommendation {
		t.Errorf("Expected HOLD on thin data, got %s", rec)
	}
	if analysis.SignalStrength != 0 {
		t.Errorf("Expected neutral analysis on thin data, got %f", analysis.SignalStrength)
	}
}

func TestSMACrossoverHistoryErrorHolds(t *testing.T) {
	brk := &fakeBroker{err: errors.New("feed down")}
	s, _ := NewSMACrossover(smaConfig(), brk, risk.New(0.05, 0.10, 0.03, 1e9))

	rec, _, err := s.Recommend(context.Background(), "AAPL", 100, nil)
	if err != nil {
		t.Errorf("Data errors must not cross the decision boundary, got %v", err)
	}
	if rec != types.HoldRecommendation {
		t.Errorf("Expected HOLD on history error, got %s", rec)
	}
}

func TestSMACrossoverRiskGateForcesSell(t *testing.T) {
	closes := []float64{100, 101, 102, 103, 104, 105, 106, 107, 108, 110}
	brk := &fakeBroker{candles: map[string][]types.Candle{
		"5minute:day": closesToCandles(closes),
	}}
	s, _ := NewSMACrossover(smaConfig(), brk, risk.New(0.05, 0.10, 0.03, 1e9))

	// Position down 20% trips the stop-loss before any signal runs.
	pos := &types.Position{Quantity: 10, AverageBuyPrice: 137.5, HighestPrice: 1375}
	rec, _, err := s.Recommend(context.Background(), "AAPL", 110, pos)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rec != types.SellRecommendation {
		t.Errorf("Expected forced SELL from the risk gate, got %s", rec)
	}
}

func vwapConfig() *store.Config {
	cfg := &store.Config{}
	cfg.VWAP.Window = 2
	cfg.VWAP.DynamicThreshold = false
	cfg.VWAP.VolumeThreshold = 1.0
	cfg.VWAP.MeanReversionThreshold = 0.05
	return cfg
}

// flat intraday tape at the given typical price with a volume spike on
// the final bar.
func flatTape(price float64, n int, lastVol float64) []types.Candle {
	out := make([]types.Candle, n)
	for i := range out {
		out[i] = types.Candle{High: price, Low: price, Close: price, Vol: 100}
	}
	out[n-1].Vol = lastVol
	return out
}

func TestVWAPReversionBuySetup(t *testing.T) {
	brk := &fakeBroker{candles: map[string][]types.Candle{
		"5minute:day": flatTape(100, 10, 300),
		"day:year":    flatTape(100, 10, 100),
	}}
	s, err := NewVWAPReversion(vwapConfig(), brk, risk.New(0.05, 0.10, 0.03, 1e9))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// 3% below VWAP, under the daily lower band, on a 1.5x volume spike.
	rec, analysis, err := s.Recommend(context.Background(), "AAPL", 97, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rec != types.BuyRecommendation {
		t.Errorf("Expected BUY on the reversion setup, got %s", rec)
	}
	if analysis.SignalStrength >= 0 {
		t.Errorf("Expected negative price-to-VWAP, got %f", analysis.SignalStrength)
	}
}

func TestVWAPReversionSellSetup(t *testing.T) {
	brk := &fakeBroker{candles: map[string][]types.Candle{
		"5minute:day": flatTape(100, 10, 100),
		"day:year":    flatTape(100, 10, 100),
	}}
	s, _ := NewVWAPReversion(vwapConfig(), brk, risk.New(0.05, 0.10, 0.03, 1e9))

	// 6% above VWAP and the daily upper band, beyond the reversion cap.
	rec, _, err := s.Recommend(context.Background(), "AAPL", 106, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rec != types.SellRecommendation {
		t.Errorf("Expected SELL on the extension setup, got %s", rec)
	}
}

func TestVWAPReversionShortHistoryHolds(t *testing.T) {
	brk := &fakeBroker{candles: map[string][]types.Candle{
		"5minute:day": flatTape(100, 5, 100),
		"day:year":    flatTape(100, 5, 100),
	}}
	cfg := vwapConfig()
	cfg.VWAP.Window = 20
	s, _ := NewVWAPReversion(cfg, brk, risk.New(0.05, 0.10, 0.03, 1e9))

	// The daily bands are undefined with 5 bars against a 20-bar window,
	// so even a 6% extension above the VWAP must not sell.
	rec, _, err := s.Recommend(context.Background(), "AAPL", 106, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rec != types.HoldRecommendation {
		t.Errorf("Expected HOLD on short history, got %s", rec)
	}
}

func TestVWAPReversionAtVWAPHolds(t *testing.T) {
	brk := &fakeBroker{candles: map[string][]types.Candle{
		"5minute:day": flatTape(100, 10, 100),
		"day:year":    flatTape(100, 10, 100),
	}}
	s, _ := NewVWAPReversion(vwapConfig(), brk, risk.New(0.05, 0.10, 0.03, 1e9))

	rec, _, err := s.Recommend(context.Background(), "AAPL", 100, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if rec != types.HoldRecommendation {
		t.Errorf("Expected HOLD at the VWAP, got %s", rec)
	}
}

func TestVWAPReversionDataErrorHolds(t *testing.T) {
	brk := &fakeBroker{err: errors.New("feed down")}
	s, _ := NewVWAPReversion(vwapConfig(), brk, risk.New(0.05, 0.10, 0.03, 1e9))

	rec, _, err := s.Recommend(context.Background(), "AAPL", 100, nil)
	if err != nil {
		t.Errorf("Data errors must not cross the decision boundary, got %v", err)
	}
	if rec != types.HoldRecommendation {
		t.Errorf("Expected HOLD on data error, got %s", rec)
	}
}

func TestVWAPReversionWindowValidation(t *testing.T) {
	cfg := vwapConfig()
	cfg.VWAP.Window = 0
	if _, err := NewVWAPReversion(cfg, &fakeBroker{}, risk.New(0.05, 0.10, 0.03, 1e9)); !errors.Is(err, ErrInvalidVWAPWindow) {
		t.Errorf("Expected ErrInvalidVWAPWindow, got %v", err)
	}
}
