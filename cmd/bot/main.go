package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quant-trading-bot/internal/logger"
	"quant-trading-bot/internal/perf"
	"quant-trading-bot/internal/trace"
	"quant-trading-bot/internal/tradelog"
)

func main() {
	initializeSystem()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer func() { _ = trace.Shutdown(context.Background()) }()

	cfg, err := loadConfig(ctx)
	if err != nil {
		os.Exit(1)
	}

	compressOldLogs(ctx)

	brk := initializeBroker(ctx, cfg)
	strat, err := initializeStrategy(ctx, cfg, brk)
	if err != nil {
		os.Exit(1)
	}
	sent := initializeSentiment(ctx, cfg)
	book := newPortfolio(cfg)
	analyzer := perf.NewAnalyzer()

	eng, err := initializeEngine(cfg, brk, strat, book, analyzer, sent)
	if err != nil {
		logger.ErrorWithErr(ctx, "Failed to build engine", err)
		os.Exit(1)
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	tick := time.NewTicker(time.Duration(cfg.PollSeconds) * time.Second)
	defer tick.Stop()

	logger.Info(ctx, "Bot started",
		"mode", cfg.Mode,
		"strategy", cfg.Strategy,
		"universe", cfg.Universe,
		"poll_seconds", cfg.PollSeconds,
	)

	for {
		select {
		case <-tick.C:
			for _, sym := range cfg.Universe {
				st, err := eng.Step(ctx, sym)
				if err != nil {
					logger.ErrorWithErr(ctx, "Step failed", err, "symbol", sym)
					continue
				}
				if st != nil {
					b, _ := json.Marshal(st)
					fmt.Println(string(b))
				}
			}
		case <-sigc:
			logger.Info(ctx, "Shutting down...")
			shutdownReport(ctx, analyzer)
			return
		case <-ctx.Done():
			return
		}
	}
}

// shutdownReport prints the performance report and writes the daily
// per-symbol trade summary before exit.
func shutdownReport(ctx context.Context, analyzer *perf.Analyzer) {
	report := analyzer.GetReport()
	b, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(b))

	if rows, err := tradelog.SummarizeToday(); err != nil {
		logger.Warn(ctx, "Failed to write EOD summary", "error", err)
	} else {
		logger.Info(ctx, "EOD summary written", "symbols", len(rows))
	}
}
