package broker

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	kiteconnect "github.com/zerodha/gokiteconnect/v4"

	"quant-trading-bot/internal/interfaces"
	"quant-trading-bot/internal/logger"
	"quant-trading-bot/internal/types"
)

// Kite is the live broker backed by the Zerodha Kite Connect REST API.
// Authentication (api key + access token) happens outside this module;
// the client only consumes already-issued credentials.
type Kite struct {
	kc       *kiteconnect.Client
	exchange string

	tokensOnce sync.Once
	tokens     map[string]int
	tokensErr  error
}

var _ interfaces.Broker = (*Kite)(nil)

func NewKite(apiKey, accessToken, exchange string) *Kite {
	kc := kiteconnect.New(apiKey)
	kc.SetAccessToken(accessToken)
	if exchange == "" {
		exchange = "NSE"
	}
	return &Kite{kc: kc, exchange: exchange}
}

func (k *Kite) LTP(ctx context.Context, symbol string) (float64, error) {
	key := k.exchange + ":" + symbol
	quotes, err := k.kc.GetLTP(key)
	if err != nil {
		return 0, fmt.Errorf("ltp fetch for %s: %w", symbol, err)
	}
	q, ok := quotes[key]
	if !ok {
		return 0, fmt.Errorf("no quote returned for %s", key)
	}
	return q.LastPrice, nil
}

// History maps the (interval, span) pair onto a Kite historical-data
// request. Bars come back chronologically ordered.
func (k *Kite) History(ctx context.Context, symbol, interval, span string) ([]types.Candle, error) {
	token, err := k.instrumentToken(symbol)
	if err != nil {
		return nil, err
	}

	to := time.Now()
	from := to.Add(-spanDuration(span))

	data, err := k.kc.GetHistoricalData(token, interval, from, to, false, false)
	if err != nil {
		return nil, fmt.Errorf("historical data for %s: %w", symbol, err)
	}

	cs := make([]types.Candle, 0, len(data))
	for _, d := range data {
		cs = append(cs, types.Candle{
			Ts:    d.Date.Unix(),
			Open:  d.Open,
			High:  d.High,
			Low:   d.Low,
			Close: d.Close,
			Vol:   float64(d.Volume),
		})
	}
	return cs, nil
}

func spanDuration(span string) time.Duration {
	switch span {
	case "year":
		return 365 * 24 * time.Hour
	case "week":
		return 7 * 24 * time.Hour
	default: // day
		return 24 * time.Hour
	}
}

// PlaceOrder submits a regular market order. Broker rejections surface
// as failed OrderResults so callers can branch on Success.
func (k *Kite) PlaceOrder(ctx context.Context, req types.OrderReq) (types.OrderResult, error) {
	qty := req.Qty
	if qty <= 0 && req.Amount > 0 {
		price, err := k.LTP(ctx, req.Symbol)
		if err != nil || price <= 0 {
			return failedOrder("cannot derive quantity without a price", 0), nil
		}
		qty = req.Amount / price
	}
	if int(qty) <= 0 {
		return failedOrder("order quantity rounds to zero shares", 0), nil
	}

	resp, err := k.kc.PlaceOrder(kiteconnect.VarietyRegular, kiteconnect.OrderParams{
		Exchange:        k.exchange,
		Tradingsymbol:   req.Symbol,
		Product:         kiteconnect.ProductCNC,
		OrderType:       kiteconnect.OrderTypeMarket,
		TransactionType: strings.ToUpper(req.Side),
		Quantity:        int(qty),
		Validity:        kiteconnect.ValidityDay,
		Tag:             req.Tag,
	})
	if err != nil {
		return failedOrder(err.Error(), 0), nil
	}

	price, err := k.LTP(ctx, req.Symbol)
	if err != nil {
		logger.ErrorWithErr(ctx, "Fill price lookup failed after order", err, "symbol", req.Symbol)
	}

	return types.OrderResult{
		Success:   true,
		OrderID:   resp.OrderID,
		Amount:    float64(int(qty)) * price,
		Price:     price,
		Timestamp: time.Now().UTC(),
		Details: map[string]string{
			"side": strings.ToUpper(req.Side),
			"mode": "LIVE",
		},
	}, nil
}

// instrumentToken resolves a trading symbol to its Kite instrument
// token, loading the exchange instrument dump once.
func (k *Kite) instrumentToken(symbol string) (int, error) {
	k.tokensOnce.Do(func() {
		instruments, err := k.kc.GetInstrumentsByExchange(k.exchange)
		if err != nil {
			k.tokensErr = fmt.Errorf("instrument dump: %w", err)
			return
		}
		k.tokens = make(map[string]int, len(instruments))
		for _, in := range instruments {
			k.tokens[in.Tradingsymbol] = in.InstrumentToken
		}
	})
	if k.tokensErr != nil {
		return 0, k.tokensErr
	}
	token, ok := k.tokens[symbol]
	if !ok {
		return 0, fmt.Errorf("unknown trading symbol %q on %s", symbol, k.exchange)
	}
	return token, nil
}
