package portfolio

import "math"

// Historical win statistics for the Kelly fraction. Domain constants,
// not fitted from data.
const (
	kellyWinRate      = 0.55
	kellyWinLossRatio = 1.5
)

// Sizer converts a signal into a dollar position size.
type Sizer interface {
	Size(availableCash, signalStrength, volatility float64) float64
}

// KellySizer sizes positions with a Kelly fraction dampened by
// volatility: higher volatility shrinks size smoothly and never to zero.
type KellySizer struct {
	MaxPositionFraction float64
	MinTradeAmount      float64
	MaxTradeAmount      float64
}

func NewKellySizer(maxPositionFraction, minTradeAmount, maxTradeAmount float64) *KellySizer {
	return &KellySizer{
		MaxPositionFraction: maxPositionFraction,
		MinTradeAmount:      minTradeAmount,
		MaxTradeAmount:      maxTradeAmount,
	}
}

// Size returns a dollar amount in [MinTradeAmount, min(MaxTradeAmount,
// cash * MaxPositionFraction)]. The cash-fraction cap always wins over
// the floor, and the result is never negative.
func (s *KellySizer) Size(availableCash, signalStrength, volatility float64) float64 {
	if availableCash <= 0 {
		return 0
	}

	kelly := (kellyWinRate*kellyWinLossRatio - (1 - kellyWinRate)) / kellyWinLossRatio
	volFactor := math.Exp(-volatility)

	baseSize := availableCash * kelly * volFactor
	adjustedSize := baseSize * math.Abs(signalStrength)

	cap := availableCash * s.MaxPositionFraction
	upper := math.Min(s.MaxTradeAmount, cap)

	size := math.Min(adjustedSize, upper)
	size = math.Max(size, s.MinTradeAmount)
	if size > upper {
		size = upper
	}
	if size < 0 {
		return 0
	}
	return size
}
