package types

import "time"

// Candle is a single OHLCV bar. Bars are always chronological.
type Candle struct {
	Ts                          int64
	Open, High, Low, Close, Vol float64
}

// Recommendation is the output of a decision engine.
type Recommendation string

const (
	BuyRecommendation  Recommendation = "BUY"
	SellRecommendation Recommendation = "SELL"
	HoldRecommendation Recommendation = "HOLD"
)

// IndicatorSnapshot holds the trailing-window indicators for one
// (series, period) pair. An all-zero snapshot means "insufficient data",
// not a genuine zero signal; it is recomputed every cycle and never cached.
type IndicatorSnapshot struct {
	SMA        float64
	Std        float64
	Momentum   float64
	Volatility float64
}

// IsZero reports whether the snapshot is the insufficient-data sentinel.
func (s IndicatorSnapshot) IsZero() bool {
	return s.SMA == 0 && s.Std == 0 && s.Momentum == 0 && s.Volatility == 0
}

// VWAPMetrics holds VWAP-derived values for one evaluation.
// Upper and lower bands are vwap +/- 2 standard deviations. WindowFilled
// is false when the series is shorter than the rolling window, in which
// case StdDev, the bands and VolumeRatio carry no information and band
// comparisons must not trade on them.
type VWAPMetrics struct {
	VWAP         float64
	StdDev       float64
	UpperBand    float64
	LowerBand    float64
	VolumeRatio  float64
	WindowFilled bool
}

// Position is an open holding. All fields are re-derived on every price
// refresh except HighestPrice, which is a monotonically non-decreasing
// watermark over position value, mutated in place for trailing stops.
type Position struct {
	Quantity        float64
	AverageBuyPrice float64
	CurrentPrice    float64
	Equity          float64
	UnrealizedPL    float64
	UnrealizedPLPct float64
	HighestPrice    float64
}

// SMAPosition is a Position with SMA-strategy derived fields attached.
type SMAPosition struct {
	Position
	ShortTermSMA      float64
	LongTermSMA       float64
	CurrentMomentum   float64
	CurrentVolatility float64
	TrendStrength     float64
}

// OrderReq is the request handed to a broker. Amount is the dollar size
// for amount-denominated orders; Qty wins when both are set.
type OrderReq struct {
	Symbol string
	Side   string
	Qty    float64
	Amount float64
	Tag    string
}

// OrderResult is the outcome of one execution attempt. Produced exactly
// once per attempt and immutable; callers branch on Success, no error
// crosses the decision boundary.
type OrderResult struct {
	Success      bool              `json:"success"`
	OrderID      string            `json:"order_id,omitempty"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Details      map[string]string `json:"details,omitempty"`
	Amount       float64           `json:"amount"`
	Price        float64           `json:"price"`
	Timestamp    time.Time         `json:"timestamp"`
}

// PortfolioMetrics is a derived view recomputed on demand from live
// positions, never persisted. SectorExposure, BetaWeightedDelta and the
// portfolio-level Sharpe/Sortino ratios are declared extension points
// pending a benchmark feed and stay zero/empty.
type PortfolioMetrics struct {
	TotalEquity       float64
	CashAvailable     float64
	Positions         map[string]*Position
	SectorExposure    map[string]float64
	BetaWeightedDelta float64
	SharpeRatio       float64
	SortinoRatio      float64
}

// TradeRecord is one entry in the performance ledger. Append-only,
// insertion order is chronological.
type TradeRecord struct {
	Symbol     string
	Side       string
	Quantity   float64
	Price      float64
	ProfitLoss float64
	Timestamp  time.Time
}

// SentimentResult is the aggregate of scored posts for one ticker.
type SentimentResult struct {
	Symbol      string
	Score       float64
	Signal      float64
	SampleCount int
	Timestamp   int64
}

// StepResult summarizes one trading cycle for a symbol.
type StepResult struct {
	Symbol         string         `json:"symbol"`
	Recommendation Recommendation `json:"recommendation"`
	Price          float64        `json:"price"`
	Time           int64          `json:"time"`
	Order          *OrderResult   `json:"order,omitempty"`
	Reason         string         `json:"reason"`
}
