package broker

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"quant-trading-bot/internal/interfaces"
	"quant-trading-bot/internal/types"
)

// Paper simulates a brokerage for DRY_RUN mode: synthetic candles, a
// decimal cash ledger and instant fills at the last traded price.
type Paper struct {
	mu     sync.Mutex
	cash   decimal.Decimal
	shares map[string]decimal.Decimal
	last   map[string]float64
	rng    *rand.Rand
}

var _ interfaces.Broker = (*Paper)(nil)

func NewPaper(startingCash float64) *Paper {
	return &Paper{
		cash:   decimal.NewFromFloat(startingCash),
		shares: make(map[string]decimal.Decimal),
		last:   make(map[string]float64),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *Paper) LTP(ctx context.Context, symbol string) (float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastPrice(symbol), nil
}

func (p *Paper) lastPrice(symbol string) float64 {
	if v, ok := p.last[symbol]; ok {
		return v
	}
	price := 100 + p.rng.Float64()*400
	p.last[symbol] = price
	return price
}

// History generates a random-walk series anchored at the symbol's last
// price. Interval and span only control bar count and spacing.
func (p *Paper) History(ctx context.Context, symbol, interval, span string) ([]types.Candle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n, step := barsFor(interval, span)
	base := p.lastPrice(symbol)
	now := time.Now().Unix()

	cs := make([]types.Candle, 0, n)
	price := base * (0.95 + p.rng.Float64()*0.1)
	for i := n; i > 0; i-- {
		price += (p.rng.Float64() - 0.5) * base * 0.004
		h := price + p.rng.Float64()*base*0.002
		l := price - p.rng.Float64()*base*0.002
		cs = append(cs, types.Candle{
			Ts:    now - int64(i)*step,
			Open:  price - (p.rng.Float64()-0.5)*base*0.001,
			High:  h,
			Low:   l,
			Close: price,
			Vol:   1000 + p.rng.Float64()*9000,
		})
	}
	p.last[symbol] = cs[len(cs)-1].Close
	return cs, nil
}

func barsFor(interval, span string) (n int, stepSeconds int64) {
	switch {
	case interval == "day" && span == "year":
		return 252, 86400
	case interval == "day":
		return 30, 86400
	default: // intraday
		return 78, 300
	}
}

// PlaceOrder fills immediately at the last traded price and settles
// against the decimal cash ledger. Rejections come back as failed
// OrderResults, never as errors.
func (p *Paper) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	price := p.lastPrice(req.Symbol)
	if price <= 0 {
		return failedOrder("no market price available", 0), nil
	}

	qty := decimal.NewFromFloat(req.Qty)
	if qty.IsZero() && req.Amount > 0 {
		qty = decimal.NewFromFloat(req.Amount).Div(decimal.NewFromFloat(price))
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return failedOrder("order quantity must be positive", 0), nil
	}

	cost := qty.Mul(decimal.NewFromFloat(price))

	switch strings.ToUpper(req.Side) {
	case "BUY":
		if cost.GreaterThan(p.cash) {
			return failedOrder("insufficient funds", price), nil
		}
		p.cash = p.cash.Sub(cost)
		p.shares[req.Symbol] = p.shares[req.Symbol].Add(qty)
	case "SELL":
		held := p.shares[req.Symbol]
		if qty.GreaterThan(held) {
			qty = held
			cost = qty.Mul(decimal.NewFromFloat(price))
		}
		if qty.LessThanOrEqual(decimal.Zero) {
			return failedOrder("no position to sell", price), nil
		}
		p.cash = p.cash.Add(cost)
		p.shares[req.Symbol] = held.Sub(qty)
	default:
		return failedOrder(fmt.Sprintf("unknown order side %q", req.Side), price), nil
	}

	amount, _ := cost.Float64()
	return types.OrderResult{
		Success:   true,
		OrderID:   uuid.NewString(),
		Amount:    amount,
		Price:     price,
		Timestamp: time.Now().UTC(),
		Details: map[string]string{
			"side": strings.ToUpper(req.Side),
			"mode": "PAPER",
		},
	}, nil
}

// Cash returns the remaining simulated cash balance.
func (p *Paper) Cash() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, _ := p.cash.Float64()
	return v
}

func failedOrder(msg string, price float64) types.OrderResult {
	return types.OrderResult{
		Success:      false,
		ErrorMessage: msg,
		Price:        price,
		Timestamp:    time.Now().UTC(),
	}
}
