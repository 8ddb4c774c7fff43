package ta

import (
	"math"

	"quant-trading-bot/internal/types"
)

// tradingDaysPerYear annualizes volatility and return ratios.
const tradingDaysPerYear = 252.0

// Snapshot computes the trailing-window indicators for one series/period
// pair. Thin or unusable data degrades to the zero snapshot instead of
// failing, so strategy logic never crashes on short series; callers must
// treat an all-zero snapshot as insufficient data.
func Snapshot(closes []float64, period, momentumLookback int) types.IndicatorSnapshot {
	if period <= 0 {
		return types.IndicatorSnapshot{}
	}

	cl := finite(closes)
	if len(cl) == 0 || len(cl) < period {
		return types.IndicatorSnapshot{}
	}

	sma := mean(cl[len(cl)-period:])
	std := sampleStd(cl[len(cl)-period:])

	momentum := 0.0
	if len(cl) > momentumLookback && momentumLookback > 0 {
		prev := cl[len(cl)-1-momentumLookback]
		if prev != 0 {
			momentum = (cl[len(cl)-1] - prev) / prev
		}
	}

	volatility := 0.0
	if rets := logReturns(cl); len(rets) >= period {
		volatility = sampleStd(rets[len(rets)-period:]) * math.Sqrt(tradingDaysPerYear)
	}

	return types.IndicatorSnapshot{
		SMA:        round4(sma),
		Std:        round4(std),
		Momentum:   round4(momentum),
		Volatility: round4(volatility),
	}
}

// SMA is the trailing arithmetic mean over the last n closes.
// Returns 0 when fewer than n samples are available.
func SMA(closes []float64, n int) float64 {
	if n <= 0 || len(closes) < n {
		return 0
	}
	return mean(closes[len(closes)-n:])
}

// RSI computes the Relative Strength Index over the trailing period.
// A zero average loss saturates RSI toward 100.
func RSI(closes []float64, period int) float64 {
	if period <= 0 || len(closes) < period+1 {
		return math.NaN()
	}
	gain, loss := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			gain += d
		} else {
			loss -= d
		}
	}
	if loss == 0 {
		return 100.0
	}
	rs := (gain / float64(period)) / (loss / float64(period))
	return 100.0 - (100.0 / (1.0 + rs))
}

// RSISignal maps RSI to {-1, 0, +1}: +1 below oversold, -1 above overbought.
func RSISignal(closes []float64, period int, oversold, overbought float64) float64 {
	rsi := RSI(closes, period)
	if math.IsNaN(rsi) {
		return 0
	}
	if rsi < oversold {
		return 1
	}
	if rsi > overbought {
		return -1
	}
	return 0
}

// MACDSignal compares short EMA - long EMA against its own EMA signal line.
// EMAs are anchored at the series start with alpha = 2/(span+1).
func MACDSignal(closes []float64, shortSpan, longSpan, signalSpan int) float64 {
	if len(closes) == 0 || shortSpan <= 0 || longSpan <= 0 || signalSpan <= 0 {
		return 0
	}

	shortEMA := emaSeries(closes, shortSpan)
	longEMA := emaSeries(closes, longSpan)

	macd := make([]float64, len(closes))
	for i := range closes {
		macd[i] = shortEMA[i] - longEMA[i]
	}
	signalLine := emaSeries(macd, signalSpan)

	last := len(closes) - 1
	if macd[last] > signalLine[last] {
		return 1
	}
	if macd[last] < signalLine[last] {
		return -1
	}
	return 0
}

// emaSeries computes the exponential moving average at every point,
// seeded with the first value (no SMA pre-seed).
func emaSeries(vals []float64, span int) []float64 {
	out := make([]float64, len(vals))
	if len(vals) == 0 {
		return out
	}
	alpha := 2.0 / (float64(span) + 1.0)
	out[0] = vals[0]
	for i := 1; i < len(vals); i++ {
		out[i] = alpha*vals[i] + (1-alpha)*out[i-1]
	}
	return out
}

func mean(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// sampleStd is the sample standard deviation (n-1 denominator).
// Fewer than two samples yield 0.
func sampleStd(vals []float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	m := mean(vals)
	s := 0.0
	for _, v := range vals {
		d := v - m
		s += d * d
	}
	return math.Sqrt(s / float64(len(vals)-1))
}

func logReturns(closes []float64) []float64 {
	if len(closes) < 2 {
		return nil
	}
	rets := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		if closes[i-1] <= 0 || closes[i] <= 0 {
			continue
		}
		rets = append(rets, math.Log(closes[i]/closes[i-1]))
	}
	return rets
}

// finite drops non-numeric closes the way the source data would be coerced.
func finite(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	return out
}

func round4(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Round(x*1e4) / 1e4
}
