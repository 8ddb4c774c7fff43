package tradelog

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// SymbolSummary aggregates one symbol's activity over a single day.
type SymbolSummary struct {
	Symbol     string
	Buys       int
	Sells      int
	BuyAmount  float64
	SellAmount float64
	NetPL      float64
}

// SummarizeDay reads the trade log for the given day and writes a per-symbol
// CSV summary next to it. Returns the summary rows in symbol order.
func SummarizeDay(day time.Time) ([]SymbolSummary, error) {
	entries, err := readEntries(dailyFilepath(day))
	if err != nil {
		return nil, err
	}

	bySymbol := map[string]*SymbolSummary{}
	for _, e := range entries {
		s, ok := bySymbol[e.Symbol]
		if !ok {
			s = &SymbolSummary{Symbol: e.Symbol}
			bySymbol[e.Symbol] = s
		}
		switch e.Side {
		case "BUY":
			s.Buys++
			s.BuyAmount += e.Amount
		case "SELL":
			s.Sells++
			s.SellAmount += e.Amount
		}
		s.NetPL += e.ProfitLoss
	}

	rows := make([]SymbolSummary, 0, len(bySymbol))
	for _, s := range bySymbol {
		rows = append(rows, *s)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Symbol < rows[j].Symbol })

	if err := writeSummaryCSV(day, rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// SummarizeToday is SummarizeDay for the current UTC day.
func SummarizeToday() ([]SymbolSummary, error) {
	return SummarizeDay(time.Now().UTC())
}

func readEntries(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, sc.Err()
}

func writeSummaryCSV(day time.Time, rows []SymbolSummary) error {
	path := filepath.Join(logDir(), "summary-"+day.UTC().Format("2006-01-02")+".csv")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"symbol", "buys", "sells", "buy_amount", "sell_amount", "net_pl"}); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.Symbol,
			fmt.Sprintf("%d", r.Buys),
			fmt.Sprintf("%d", r.Sells),
			fmt.Sprintf("%.2f", r.BuyAmount),
			fmt.Sprintf("%.2f", r.SellAmount),
			fmt.Sprintf("%.2f", r.NetPL),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
