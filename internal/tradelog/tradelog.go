package tradelog

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

// Entry is one executed order appended to the daily trade log.
type Entry struct {
	Time, Symbol, Side, OrderID, Reason string
	Amount                              float64
	Price                               float64
	ProfitLoss                          float64
	Extra                               map[string]any `json:"extra,omitempty"`
}

// DecisionEntry is one strategy recommendation, executed or not.
type DecisionEntry struct {
	Time, Symbol, Action, Reason string
	Price                        float64
	SignalStrength               float64
	SentimentSignal              float64
	Indicators                   map[string]float64
}

func logDir() string {
	if v := os.Getenv("TRADER_LOG_DIR"); v != "" {
		return v
	}
	return "logs"
}

func dailyFilepath(t time.Time) string {
	return filepath.Join(logDir(), t.UTC().Format("2006-01-02")+".txt")
}

func decisionsFilepath(t time.Time) string {
	return filepath.Join(logDir(), "decisions", t.UTC().Format("2006-01-02")+".txt")
}

// Append writes a trade entry to today's log file, one JSON object per line.
func Append(e Entry) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().UTC()
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendLine(dailyFilepath(now), e)
}

// AppendDecision writes a decision entry to today's decision log.
func AppendDecision(e DecisionEntry) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().UTC()
	e.Time = now.Format("2006-01-02 15:04:05")
	return appendLine(decisionsFilepath(now), e)
}

func appendLine(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(v)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips log files older than retentionDays and removes the
// originals. Zero or negative retention disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(logDir(), func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		return compressFile(p)
	})
}

func compressFile(p string) error {
	gz := p + ".gz"
	if _, err := os.Stat(gz); err == nil {
		return os.Remove(p)
	}

	in, err := os.Open(p)
	if err != nil {
		return nil
	}
	defer in.Close()

	out, err := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil
	}

	gw := gzip.NewWriter(out)
	if _, err := io.Copy(gw, in); err != nil {
		_ = gw.Close()
		_ = out.Close()
		return nil
	}
	_ = gw.Close()
	_ = out.Close()
	return os.Remove(p)
}
