package strategy

import (
	"context"
	"math"

	"quant-trading-bot/internal/interfaces"
	"quant-trading-bot/internal/logger"
	"quant-trading-bot/internal/risk"
	"quant-trading-bot/internal/store"
	"quant-trading-bot/internal/ta"
	"quant-trading-bot/internal/types"
)

// SMA strategies evaluate intraday bars: five-minute candles over one day.
const (
	intradayInterval = "5minute"
	intradaySpan     = "day"
)

// SMACrossoverStrategy trades short/long SMA crossovers with dynamic
// thresholds, momentum confirmation and a risk-manager gate.
type SMACrossoverStrategy struct {
	shortPeriod       int
	longPeriod        int
	momentumLookback  int
	momentumThreshold float64
	baseThreshold     float64
	dynamicThreshold  bool

	rsiPeriod     int
	rsiOversold   float64
	rsiOverbought float64
	macdShort     int
	macdLong      int
	macdSignal    int

	brk     interfaces.Broker
	riskMgr *risk.Manager
}

var _ interfaces.Strategy = (*SMACrossoverStrategy)(nil)

func NewSMACrossover(cfg *store.Config, brk interfaces.Broker, riskMgr *risk.Manager) (*SMACrossoverStrategy, error) {
	if cfg.Indicators.SMAShortPeriod >= cfg.Indicators.SMALongPeriod {
		return nil, ErrShortPeriodTooLong
	}
	if cfg.Indicators.MomentumLookback <= 0 {
		return nil, ErrInvalidMomentumWindow
	}
	return &SMACrossoverStrategy{
		shortPeriod:       cfg.Indicators.SMAShortPeriod,
		longPeriod:        cfg.Indicators.SMALongPeriod,
		momentumLookback:  cfg.Indicators.MomentumLookback,
		momentumThreshold: cfg.Indicators.MomentumThreshold,
		baseThreshold:     cfg.Threshold.Base,
		dynamicThreshold:  cfg.Threshold.Dynamic,
		rsiPeriod:         cfg.Indicators.RSIPeriod,
		rsiOversold:       cfg.Indicators.RSIOversold,
		rsiOverbought:     cfg.Indicators.RSIOverbought,
		macdShort:         cfg.Indicators.MACDShortSpan,
		macdLong:          cfg.Indicators.MACDLongSpan,
		macdSignal:        cfg.Indicators.MACDSignalSpan,
		brk:               brk,
		riskMgr:           riskMgr,
	}, nil
}

// Recommend applies the risk gate first: an open position that trips a
// risk trigger forces SELL regardless of signal. Data problems degrade
// to HOLD, never to an error crossing the decision boundary.
func (s *SMACrossoverStrategy) Recommend(ctx context.Context, symbol string, price float64, pos *types.Position) (types.Recommendation, interfaces.Analysis, error) {
	if exit, reason := s.riskMgr.Evaluate(ctx, symbol, price, pos); exit {
		logger.Info(ctx, "Risk management forced exit", "symbol", symbol, "trigger", reason)
		return types.SellRecommendation, interfaces.Analysis{}, nil
	}

	candles, err := s.brk.History(ctx, symbol, intradayInterval, intradaySpan)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch history", err, "symbol", symbol)
		return types.HoldRecommendation, interfaces.Analysis{}, nil
	}

	closes := make([]float64, len(candles))
	for i, c := range candles {
		closes[i] = c.Close
	}

	short := ta.Snapshot(closes, s.shortPeriod, s.momentumLookback)
	long := ta.Snapshot(closes, s.longPeriod, s.momentumLookback)

	trendStrength, signalStrength, momentumConfirmed := s.analyzeMarketConditions(ctx, short, long)

	composite := SMASignal(closes, s.shortPeriod, s.longPeriod) +
		ta.RSISignal(closes, s.rsiPeriod, s.rsiOversold, s.rsiOverbought) +
		ta.MACDSignal(closes, s.macdShort, s.macdLong, s.macdSignal)
	logger.Debug(ctx, "Confirmation signals",
		"symbol", symbol,
		"composite", composite,
		"signal_strength", signalStrength,
		"trend_strength", trendStrength,
	)

	analysis := interfaces.Analysis{
		TrendStrength:  trendStrength,
		SignalStrength: signalStrength,
		Volatility:     short.Volatility,
		Momentum:       short.Momentum,
	}

	if pos != nil {
		logger.Debug(ctx, "Position state",
			"symbol", symbol,
			"sma_position", s.buildSMAPosition(pos, short, long, trendStrength),
		)
	}

	threshold := s.baseThreshold
	if s.dynamicThreshold {
		threshold = s.baseThreshold * (1 + trendStrength)
	}

	switch {
	case signalStrength > threshold && momentumConfirmed:
		return types.BuyRecommendation, analysis, nil
	case signalStrength < -threshold || (signalStrength < 0 && !momentumConfirmed):
		return types.SellRecommendation, analysis, nil
	default:
		return types.HoldRecommendation, analysis, nil
	}
}

// analyzeMarketConditions derives trend strength, signal strength and the
// momentum confirmation from the snapshot pair. Fails closed to the
// neutral triple when the long SMA is missing or zero.
func (s *SMACrossoverStrategy) analyzeMarketConditions(ctx context.Context, short, long types.IndicatorSnapshot) (trendStrength, signalStrength float64, momentumConfirmed bool) {
	if long.SMA == 0 {
		logger.Warn(ctx, "Invalid or zero long-term SMA value")
		return 0, 0, false
	}
	if short.SMA == 0 {
		logger.Warn(ctx, "Invalid short-term SMA value")
		return 0, 0, false
	}

	priceTrend := (short.SMA - long.SMA) / long.SMA

	volatilityRatio := 1.0
	if long.Volatility > 0 {
		volatilityRatio = short.Volatility / long.Volatility
	}

	trendStrength = math.Abs(priceTrend) * (1 + volatilityRatio)
	signalStrength = priceTrend * (1 + math.Abs(short.Momentum))
	momentumConfirmed = short.Momentum > s.momentumThreshold
	return trendStrength, signalStrength, momentumConfirmed
}

// buildSMAPosition attaches the strategy-derived fields to a position
// snapshot for observability.
func (s *SMACrossoverStrategy) buildSMAPosition(pos *types.Position, short, long types.IndicatorSnapshot, trendStrength float64) types.SMAPosition {
	return types.SMAPosition{
		Position:          *pos,
		ShortTermSMA:      short.SMA,
		LongTermSMA:       long.SMA,
		CurrentMomentum:   short.Momentum,
		CurrentVolatility: short.Volatility,
		TrendStrength:     trendStrength,
	}
}
