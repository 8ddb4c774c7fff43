package strategy

import (
	"quant-trading-bot/internal/interfaces"
	"quant-trading-bot/internal/risk"
	"quant-trading-bot/internal/store"
)

// Kind selects a decision engine variant. Variants share the risk-gate /
// sizing / execution pipeline and differ only in their decision function.
type Kind string

const (
	SMACrossover  Kind = "SMA_CROSSOVER"
	VWAPReversion Kind = "VWAP_REVERSION"
)

// New builds the decision engine for the configured kind, validating the
// strategy configuration up front.
func New(kind Kind, cfg *store.Config, brk interfaces.Broker, riskMgr *risk.Manager) (interfaces.Strategy, error) {
	switch kind {
	case SMACrossover:
		return NewSMACrossover(cfg, brk, riskMgr)
	case VWAPReversion:
		return NewVWAPReversion(cfg, brk, riskMgr)
	default:
		return nil, ErrUnknownKind
	}
}
