package main

import (
	"context"
	"fmt"
	"os"

	"quant-trading-bot/internal/broker"
	"quant-trading-bot/internal/engine"
	"quant-trading-bot/internal/engine/engineobs"
	"quant-trading-bot/internal/interfaces"
	"quant-trading-bot/internal/logger"
	"quant-trading-bot/internal/perf"
	"quant-trading-bot/internal/portfolio"
	"quant-trading-bot/internal/risk"
	"quant-trading-bot/internal/sentiment"
	"quant-trading-bot/internal/store"
	"quant-trading-bot/internal/strategy"
	"quant-trading-bot/internal/trace"
	"quant-trading-bot/internal/tradelog"

	"github.com/joho/godotenv"
)

// initializeSystem initializes environment, logger and tracer.
func initializeSystem() {
	_ = godotenv.Load()

	logger.Init()

	if err := trace.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize tracer: %v\n", err)
	}
}

func loadConfig(ctx context.Context) (*store.Config, error) {
	cfg, err := store.LoadConfig("config.yaml")
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to load config", err)
		return nil, err
	}
	return cfg, nil
}

// compressOldLogs compresses old tradelog files if retention is configured.
func compressOldLogs(ctx context.Context) {
	if v := os.Getenv("TRADER_LOG_RETENTION_DAYS"); v != "" {
		var n int
		fmt.Sscanf(v, "%d", &n)
		if err := tradelog.CompressOlder(n); err != nil {
			logger.Warn(ctx, "Failed to compress old logs", "error", err)
		}
	}
}

func initializeBroker(ctx context.Context, cfg *store.Config) interfaces.Broker {
	brk := broker.New(broker.Params{
		Mode:        cfg.Mode,
		APIKey:      os.Getenv("KITE_API_KEY"),
		AccessToken: os.Getenv("KITE_ACCESS_TOKEN"),
		Exchange:    cfg.Exchange,
		PaperCash:   cfg.InitialCapital,
	})

	if cfg.Mode == "DRY_RUN" {
		logger.Warn(ctx, "Running in DRY_RUN mode - orders will be simulated")
	}
	return brk
}

func initializeStrategy(ctx context.Context, cfg *store.Config, brk interfaces.Broker) (interfaces.Strategy, error) {
	riskMgr := risk.New(
		cfg.Risk.StopLossPct,
		cfg.Risk.TakeProfitPct,
		cfg.Risk.TrailingStopPct,
		cfg.Risk.MaxPositionSize,
	)

	strat, err := strategy.New(strategy.Kind(cfg.Strategy), cfg, brk, riskMgr)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to build strategy", err, "kind", cfg.Strategy)
		return nil, err
	}
	logger.Info(ctx, "Strategy initialized", "kind", cfg.Strategy)
	return strat, nil
}

func initializeSentiment(ctx context.Context, cfg *store.Config) interfaces.SentimentSource {
	if !cfg.Sentiment.Enabled {
		logger.Info(ctx, "Sentiment signal disabled in config")
	}
	return sentiment.NewService(cfg)
}

// initializeEngine assembles the trading engine with observability.
func initializeEngine(cfg *store.Config, brk interfaces.Broker, strat interfaces.Strategy, book *portfolio.Manager, analyzer *perf.Analyzer, sent interfaces.SentimentSource) (interfaces.Engine, error) {
	eng, err := engine.New(cfg, brk, strat, book, analyzer, sent)
	if err != nil {
		return nil, err
	}
	return engineobs.Wrap(eng), nil
}

func newPortfolio(cfg *store.Config) *portfolio.Manager {
	sizer := &portfolio.KellySizer{
		MaxPositionFraction: cfg.Sizing.MaxPositionFraction,
		MinTradeAmount:      cfg.Sizing.MinTradeAmount,
		MaxTradeAmount:      cfg.Sizing.MaxTradeAmount,
	}
	return portfolio.New(cfg.InitialCapital, sizer)
}
