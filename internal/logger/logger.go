package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"quant-trading-bot/internal/trace"
)

var globalLogger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// Config holds logging configuration, loaded from environment variables.
type Config struct {
	Level  string // DEBUG, INFO, WARN, ERROR
	Format string // json or text
}

// Init initializes the global logger from LOG_LEVEL and LOG_FORMAT.
func Init() {
	InitWithConfig(Config{
		Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format: getEnvOrDefault("LOG_FORMAT", "json"),
	})
}

func InitWithConfig(cfg Config) {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
}

func parseLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// log attaches trace/span IDs from the context when tracing is active.
func log(ctx context.Context, level slog.Level, msg string, args ...any) {
	if traceID, spanID, ok := trace.GetTraceFields(ctx); ok {
		args = append([]any{"trace_id", traceID, "span_id", spanID}, args...)
	}
	globalLogger.Log(ctx, level, msg, args...)
}

func Debug(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelDebug, msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelInfo, msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelWarn, msg, args...)
}

func Error(ctx context.Context, msg string, args ...any) {
	log(ctx, slog.LevelError, msg, args...)
}

// ErrorWithErr logs an error message and records the error on the active span.
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	if trace.Enabled() {
		span := oteltrace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}
	log(ctx, slog.LevelError, msg, append([]any{"error", err}, args...)...)
}

// Decision logs a trading recommendation (always at info level).
func Decision(ctx context.Context, symbol, action, reason string, fields ...any) {
	if trace.Enabled() {
		span := oteltrace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.AddEvent("trading_decision", oteltrace.WithAttributes(
				attribute.String("symbol", symbol),
				attribute.String("action", action),
				attribute.String("reason", reason),
			))
		}
	}
	allFields := append([]any{
		"type", "DECISION",
		"symbol", symbol,
		"action", action,
		"reason", reason,
	}, fields...)
	log(ctx, slog.LevelInfo, "Trading decision made", allFields...)
}

// Trade logs an executed order.
func Trade(ctx context.Context, symbol, side string, amount, price float64, orderID string, fields ...any) {
	if trace.Enabled() {
		span := oteltrace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.AddEvent("trade_executed", oteltrace.WithAttributes(
				attribute.String("symbol", symbol),
				attribute.String("side", side),
				attribute.Float64("amount", amount),
				attribute.Float64("price", price),
				attribute.String("order_id", orderID),
			))
		}
	}
	allFields := append([]any{
		"type", "TRADE",
		"symbol", symbol,
		"side", side,
		"amount", amount,
		"price", price,
		"order_id", orderID,
	}, fields...)
	log(ctx, slog.LevelInfo, "Trade executed", allFields...)
}

// Risk logs a risk-management event at warn level.
func Risk(ctx context.Context, symbol, eventType string, fields ...any) {
	if trace.Enabled() {
		span := oteltrace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.AddEvent("risk_event", oteltrace.WithAttributes(
				attribute.String("symbol", symbol),
				attribute.String("event_type", eventType),
			))
		}
	}
	allFields := append([]any{
		"type", "RISK",
		"symbol", symbol,
		"event_type", eventType,
	}, fields...)
	log(ctx, slog.LevelWarn, "Risk event", allFields...)
}
