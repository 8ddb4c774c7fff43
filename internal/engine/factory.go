package engine

import (
	"quant-trading-bot/internal/interfaces"
	"quant-trading-bot/internal/perf"
	"quant-trading-bot/internal/portfolio"
	"quant-trading-bot/internal/store"
)

func New(cfg *store.Config, brk interfaces.Broker, strat interfaces.Strategy, book *portfolio.Manager, analyzer *perf.Analyzer, sent interfaces.SentimentSource) (interfaces.Engine, error) {
	return newEngine(cfg, brk, strat, book, analyzer, sent)
}
