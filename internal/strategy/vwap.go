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

// Daily context for the VWAP bands: one year of daily candles.
const (
	dailyInterval = "day"
	dailySpan     = "year"
)

// fixedVWAPThreshold applies when dynamic thresholding is disabled.
const fixedVWAPThreshold = 0.01

// VWAPReversionStrategy trades mean reversion around the intraday VWAP,
// confirmed by the daily VWAP bands and a volume ratio.
type VWAPReversionStrategy struct {
	window                 int
	dynamicThreshold       bool
	volumeThreshold        float64
	meanReversionThreshold float64

	brk     interfaces.Broker
	riskMgr *risk.Manager
}

var _ interfaces.Strategy = (*VWAPReversionStrategy)(nil)

func NewVWAPReversion(cfg *store.Config, brk interfaces.Broker, riskMgr *risk.Manager) (*VWAPReversionStrategy, error) {
	if cfg.VWAP.Window <= 0 {
		return nil, ErrInvalidVWAPWindow
	}
	return &VWAPReversionStrategy{
		window:                 cfg.VWAP.Window,
		dynamicThreshold:       cfg.VWAP.DynamicThreshold,
		volumeThreshold:        cfg.VWAP.VolumeThreshold,
		meanReversionThreshold: cfg.VWAP.MeanReversionThreshold,
		brk:                    brk,
		riskMgr:                riskMgr,
	}, nil
}

// Recommend evaluates the mean-reversion conditions. Any data or VWAP
// computation failure degrades to HOLD; the risk gate can force SELL for
// an open position.
func (s *VWAPReversionStrategy) Recommend(ctx context.Context, symbol string, price float64, pos *types.Position) (types.Recommendation, interfaces.Analysis, error) {
	intraday, daily, intradayCandles, ok := s.fetchMetrics(ctx, symbol)
	if !ok {
		return types.HoldRecommendation, interfaces.Analysis{}, nil
	}

	if pos != nil {
		if exit, reason := s.riskMgr.Evaluate(ctx, symbol, price, pos); exit {
			logger.Info(ctx, "Risk management forced exit", "symbol", symbol, "trigger", reason)
			return types.SellRecommendation, interfaces.Analysis{}, nil
		}
	}

	threshold := fixedVWAPThreshold
	if s.dynamicThreshold && intraday.VWAP != 0 {
		threshold = intraday.StdDev / intraday.VWAP
	}

	if intraday.VWAP == 0 {
		return types.HoldRecommendation, interfaces.Analysis{}, nil
	}
	priceToVWAP := (price - intraday.VWAP) / intraday.VWAP

	analysis := interfaces.Analysis{
		SignalStrength: priceToVWAP,
		Volatility:     intraday.StdDev,
	}

	sufficientVolume := intraday.VolumeRatio > s.volumeThreshold

	logger.Debug(ctx, "Confirmation signals",
		"symbol", symbol,
		"vwap_signal", VWAPSignal(intradayCandles, threshold),
		"price_to_vwap", priceToVWAP,
		"volume_ratio", intraday.VolumeRatio,
	)

	// Without a full daily window the bands are undefined and neither
	// side may trade on them.
	if !daily.WindowFilled {
		return types.HoldRecommendation, analysis, nil
	}

	// BUY: dislocated below VWAP and the daily lower band, on real
	// volume, but not so far below that it reads as a runaway move.
	if priceToVWAP < -threshold &&
		price < daily.LowerBand &&
		sufficientVolume &&
		math.Abs(priceToVWAP) < s.meanReversionThreshold {
		return types.BuyRecommendation, analysis, nil
	}

	if priceToVWAP > threshold &&
		price > daily.UpperBand &&
		math.Abs(priceToVWAP) > s.meanReversionThreshold {
		return types.SellRecommendation, analysis, nil
	}

	return types.HoldRecommendation, analysis, nil
}

func (s *VWAPReversionStrategy) fetchMetrics(ctx context.Context, symbol string) (intraday, daily types.VWAPMetrics, candles []types.Candle, ok bool) {
	intradayCandles, err := s.brk.History(ctx, symbol, intradayInterval, intradaySpan)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch intraday history", err, "symbol", symbol)
		return intraday, daily, nil, false
	}
	dailyCandles, err := s.brk.History(ctx, symbol, dailyInterval, dailySpan)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to fetch daily history", err, "symbol", symbol)
		return intraday, daily, nil, false
	}

	intraday, err = ta.VWAP(intradayCandles, s.window)
	if err != nil {
		logger.ErrorWithErr(ctx, "Intraday VWAP computation failed", err, "symbol", symbol)
		return intraday, daily, nil, false
	}
	daily, err = ta.VWAP(dailyCandles, s.window)
	if err != nil {
		logger.ErrorWithErr(ctx, "Daily VWAP computation failed", err, "symbol", symbol)
		return intraday, daily, nil, false
	}
	return intraday, daily, intradayCandles, true
}
