package ta

import (
	"errors"
	"math"

	"quant-trading-bot/internal/types"
)

// ErrInsufficientData is returned when a series cannot support a VWAP
// computation at all (empty or fully non-numeric).
var ErrInsufficientData = errors.New("insufficient data for vwap computation")

// bandWidth is the fixed band multiplier: bands sit at vwap +/- 2 std.
const bandWidth = 2.0

// VWAP computes cumulative volume-weighted average price metrics over the
// candle series. The rolling std of the VWAP series and the rolling mean
// of volume use the given window; with fewer than window samples the
// rolling values are undefined, so WindowFilled reports false and std,
// bands and volume ratio are zeroed for the caller to ignore.
func VWAP(candles []types.Candle, window int) (types.VWAPMetrics, error) {
	if window <= 0 {
		return types.VWAPMetrics{}, ErrInsufficientData
	}

	vols := make([]float64, 0, len(candles))
	vwaps := make([]float64, 0, len(candles))
	cumVol, cumVolPrice := 0.0, 0.0

	for _, c := range candles {
		typical := (c.High + c.Low + c.Close) / 3.0
		if math.IsNaN(typical) || math.IsInf(typical, 0) || math.IsNaN(c.Vol) {
			continue
		}
		cumVol += c.Vol
		cumVolPrice += typical * c.Vol
		if cumVol == 0 {
			continue
		}
		vols = append(vols, c.Vol)
		vwaps = append(vwaps, cumVolPrice/cumVol)
	}

	if len(vwaps) == 0 {
		return types.VWAPMetrics{}, ErrInsufficientData
	}

	vwap := vwaps[len(vwaps)-1]

	filled := len(vwaps) >= window
	stdDev := 0.0
	volumeRatio := 0.0
	if filled {
		stdDev = sampleStd(vwaps[len(vwaps)-window:])
		if volSMA := mean(vols[len(vols)-window:]); volSMA > 0 {
			volumeRatio = vols[len(vols)-1] / volSMA
		}
	}

	return types.VWAPMetrics{
		VWAP:         vwap,
		StdDev:       stdDev,
		UpperBand:    vwap + bandWidth*stdDev,
		LowerBand:    vwap - bandWidth*stdDev,
		VolumeRatio:  volumeRatio,
		WindowFilled: filled,
	}, nil
}
