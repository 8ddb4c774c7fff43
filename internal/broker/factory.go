package broker

import "quant-trading-bot/internal/interfaces"

// Params configures broker construction.
type Params struct {
	Mode        string // DRY_RUN or LIVE
	APIKey      string
	AccessToken string
	Exchange    string
	PaperCash   float64
}

// New returns the live Kite broker in LIVE mode, a paper broker
// otherwise. Both come wrapped with the observability decorator.
func New(p Params) interfaces.Broker {
	var brk interfaces.Broker
	if p.Mode == "LIVE" {
		brk = NewKite(p.APIKey, p.AccessToken, p.Exchange)
	} else {
		brk = NewPaper(p.PaperCash)
	}
	return WrapObs(brk)
}
