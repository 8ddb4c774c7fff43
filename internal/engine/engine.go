package engine

import (
	"context"
	"fmt"
	"time"

	"quant-trading-bot/internal/interfaces"
	"quant-trading-bot/internal/logger"
	"quant-trading-bot/internal/perf"
	"quant-trading-bot/internal/portfolio"
	"quant-trading-bot/internal/store"
	"quant-trading-bot/internal/types"
)

type tradingEngine struct {
	cfg       *store.Config
	strat     interfaces.Strategy
	book      *portfolio.Manager
	analyzer  *perf.Analyzer
	sentiment interfaces.SentimentSource
	exec      *orderExecutor
	session   sessionWindow
	now       func() time.Time
}

var _ interfaces.Engine = (*tradingEngine)(nil)

func newEngine(cfg *store.Config, brk interfaces.Broker, strat interfaces.Strategy, book *portfolio.Manager, analyzer *perf.Analyzer, sent interfaces.SentimentSource) (*tradingEngine, error) {
	session, err := newSessionWindow(cfg.Session.OpenUTC, cfg.Session.CloseUTC)
	if err != nil {
		return nil, err
	}
	return &tradingEngine{
		cfg:       cfg,
		strat:     strat,
		book:      book,
		analyzer:  analyzer,
		sentiment: sent,
		exec:      newOrderExecutor(brk),
		session:   session,
		now:       time.Now,
	}, nil
}

// Step runs one decision cycle for a symbol: refresh the mark price,
// ask the strategy for a recommendation, size and execute, then book the
// fill. Broker rejections come back inside the OrderResult; only data
// unavailability surfaces as an error.
func (e *tradingEngine) Step(ctx context.Context, symbol string) (*types.StepResult, error) {
	now := e.now()
	if !e.session.open(now) {
		logger.Debug(ctx, "Outside trading session, skipping", "symbol", symbol)
		return &types.StepResult{
			Symbol:         symbol,
			Recommendation: types.HoldRecommendation,
			Time:           now.Unix(),
			Reason:         "MARKET_CLOSED",
		}, nil
	}

	price, err := e.exec.broker.LTP(ctx, symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch last traded price", err, "symbol", symbol)
		return nil, err
	}

	e.book.RefreshPrice(symbol, price)
	pos := e.book.Position(symbol)

	rec, analysis, err := e.strat.Recommend(ctx, symbol, price, pos)
	if err != nil {
		logger.ErrorWithErr(ctx, "Strategy recommendation failed", err, "symbol", symbol)
		return nil, err
	}

	sentSignal := 0.0
	if e.sentiment != nil {
		sentSignal = e.sentiment.Signal(ctx, symbol)
	}
	if rec == types.BuyRecommendation && sentSignal < 0 {
		logger.Info(ctx, "Entry vetoed by bearish sentiment", "symbol", symbol, "sentiment_signal", sentSignal)
		rec = types.HoldRecommendation
	}

	reason := fmt.Sprintf("signal=%.4f trend=%.4f momentum=%.4f vol=%.4f",
		analysis.SignalStrength, analysis.TrendStrength, analysis.Momentum, analysis.Volatility)

	logger.Decision(ctx, symbol, string(rec), reason,
		"price", price,
		"sentiment_signal", sentSignal,
	)
	e.exec.logDecision(ctx, symbol, rec, reason, price, analysis, sentSignal)

	result := &types.StepResult{
		Symbol:         symbol,
		Recommendation: rec,
		Price:          price,
		Time:           now.Unix(),
		Reason:         reason,
	}

	switch rec {
	case types.BuyRecommendation:
		order := e.executeBuy(ctx, symbol, price, analysis, reason)
		result.Order = order
	case types.SellRecommendation:
		order := e.executeSell(ctx, symbol, price, pos, reason)
		result.Order = order
	default:
		logger.Debug(ctx, "No action for HOLD", "symbol", symbol, "price", price)
	}

	return result, nil
}

// executeBuy sizes an entry from available cash and books the fill.
// A zero size means the sizer rejected the trade.
func (e *tradingEngine) executeBuy(ctx context.Context, symbol string, price float64, analysis interfaces.Analysis, reason string) *types.OrderResult {
	amount := e.book.PositionSize(analysis.SignalStrength, analysis.Volatility)
	if amount <= 0 {
		logger.Info(ctx, "Buy skipped, position size is zero",
			"symbol", symbol,
			"signal_strength", analysis.SignalStrength,
			"volatility", analysis.Volatility,
		)
		return nil
	}

	res, err := e.exec.placeBuyOrder(ctx, symbol, amount, price, reason)
	if err != nil {
		return nil
	}
	if !res.Success {
		return &res
	}

	qty := res.Amount / res.Price
	e.book.ApplyBuy(symbol, qty, res.Price)
	e.analyzer.Record(types.TradeRecord{
		Symbol:   symbol,
		Side:     "BUY",
		Quantity: qty,
		Price:    res.Price,
	})
	return &res
}

// executeSell liquidates the full open position. SELL with no position
// is a no-op.
func (e *tradingEngine) executeSell(ctx context.Context, symbol string, price float64, pos *types.Position, reason string) *types.OrderResult {
	if pos == nil || pos.Quantity <= 0 {
		logger.Debug(ctx, "Sell skipped, no open position", "symbol", symbol)
		return nil
	}

	qty := pos.Quantity
	realized := (price - pos.AverageBuyPrice) * qty

	res, err := e.exec.placeSellOrder(ctx, symbol, qty, price, realized, reason, "STRAT")
	if err != nil {
		return nil
	}
	if !res.Success {
		return &res
	}

	filled := qty
	if res.Price > 0 && res.Amount > 0 {
		filled = res.Amount / res.Price
	}
	realized = e.book.ApplySell(symbol, filled, res.Price)
	e.analyzer.Record(types.TradeRecord{
		Symbol:     symbol,
		Side:       "SELL",
		Quantity:   filled,
		Price:      res.Price,
		ProfitLoss: realized,
	})
	return &res
}
