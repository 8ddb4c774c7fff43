package perf

import (
	"math"
	"sync"
	"time"

	"quant-trading-bot/internal/types"
)

// riskFreeRate is the fixed annual risk-free rate used for excess returns.
const riskFreeRate = 0.02

const tradingDaysPerYear = 252.0

// Report is a pure derivation of the trade ledger.
type Report struct {
	TotalReturn        float64 `json:"total_return"`
	SharpeRatio        float64 `json:"sharpe_ratio"`
	SortinoRatio       float64 `json:"sortino_ratio"`
	MaxDrawdown        float64 `json:"max_drawdown"`
	WinRate            float64 `json:"win_rate"`
	ProfitFactor       float64 `json:"profit_factor"`
	RiskAdjustedReturn float64 `json:"risk_adjusted_return"`
	TotalTrades        int     `json:"total_trades"`
}

// Analyzer keeps an append-only trade ledger and derives aggregate
// performance metrics from it on demand.
type Analyzer struct {
	mu     sync.Mutex
	trades []types.TradeRecord
	now    func() time.Time
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{now: time.Now}
}

// Record appends a trade with a recorder-assigned timestamp.
func (a *Analyzer) Record(trade types.TradeRecord) {
	a.mu.Lock()
	defer a.mu.Unlock()
	trade.Timestamp = a.now()
	a.trades = append(a.trades, trade)
}

// Trades returns a copy of the ledger in insertion order.
func (a *Analyzer) Trades() []types.TradeRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]types.TradeRecord, len(a.trades))
	copy(out, a.trades)
	return out
}

// GetReport derives the aggregate metrics. An empty ledger yields the
// all-zero report rather than failing.
func (a *Analyzer) GetReport() Report {
	trades := a.Trades()
	if len(trades) == 0 {
		return Report{}
	}

	var report Report
	report.TotalTrades = len(trades)

	wins := 0
	grossProfit, grossLoss := 0.0, 0.0
	equity := make([]float64, len(trades))
	running := 0.0
	for i, t := range trades {
		running += t.ProfitLoss
		equity[i] = running
		if t.ProfitLoss > 0 {
			wins++
			grossProfit += t.ProfitLoss
		} else {
			grossLoss -= t.ProfitLoss
		}
	}

	report.TotalReturn = running
	report.WinRate = float64(wins) / float64(len(trades))
	if grossLoss > 0 {
		report.ProfitFactor = grossProfit / grossLoss
	}
	report.MaxDrawdown = maxDrawdown(equity)
	if report.MaxDrawdown > 0 {
		report.RiskAdjustedReturn = report.TotalReturn / report.MaxDrawdown
	}
	report.SharpeRatio, report.SortinoRatio = riskRatios(equity)

	return report
}

// maxDrawdown is the largest peak-to-trough decline of the cumulative
// P/L curve, as a fraction of the peak.
func maxDrawdown(equity []float64) float64 {
	peak, maxDD := 0.0, 0.0
	for _, v := range equity {
		if v > peak {
			peak = v
		}
		if peak > 0 {
			if dd := (peak - v) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

// riskRatios derives annualized Sharpe and Sortino ratios from the
// period-over-period returns of the equity curve. Zero variance (or too
// few points) is guarded to zero instead of dividing by it.
func riskRatios(equity []float64) (sharpe, sortino float64) {
	excess := make([]float64, 0, len(equity))
	for i := 1; i < len(equity); i++ {
		if equity[i-1] == 0 {
			continue
		}
		ret := (equity[i] - equity[i-1]) / equity[i-1]
		excess = append(excess, ret-riskFreeRate/tradingDaysPerYear)
	}
	if len(excess) < 2 {
		return 0, 0
	}

	m := mean(excess)
	if std := sampleStd(excess); std > 0 {
		sharpe = math.Sqrt(tradingDaysPerYear) * m / std
	}

	downside := 0.0
	for _, e := range excess {
		if e < 0 {
			downside += e * e
		}
	}
	downside = math.Sqrt(downside / float64(len(excess)))
	if downside > 0 {
		sortino = math.Sqrt(tradingDaysPerYear) * m / downside
	}
	return sharpe, sortino
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

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
