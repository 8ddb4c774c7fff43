package strategy

import (
	"quant-trading-bot/internal/ta"
	"quant-trading-bot/internal/types"
)

// Composite scalar signals in {-1, 0, +1}, usable as confirmation inputs
// alongside the main decision engines.

// SMASignal is the plain crossover: +1 when the short SMA sits above the
// long SMA, -1 below, 0 on ties or insufficient data.
func SMASignal(closes []float64, shortPeriod, longPeriod int) float64 {
	short := ta.SMA(closes, shortPeriod)
	long := ta.SMA(closes, longPeriod)
	if short == 0 || long == 0 {
		return 0
	}
	if short > long {
		return 1
	}
	if short < long {
		return -1
	}
	return 0
}

// VWAPSignal compares the last close against the close-weighted VWAP
// band: above vwap*(1+threshold) is a sell, below vwap*(1-threshold) a buy.
func VWAPSignal(candles []types.Candle, threshold float64) float64 {
	cumVol, cumVolPrice := 0.0, 0.0
	for _, c := range candles {
		cumVol += c.Vol
		cumVolPrice += c.Close * c.Vol
	}
	if cumVol == 0 || len(candles) == 0 {
		return 0
	}
	vwap := cumVolPrice / cumVol
	price := candles[len(candles)-1].Close
	if price > vwap*(1+threshold) {
		return -1
	}
	if price < vwap*(1-threshold) {
		return 1
	}
	return 0
}
