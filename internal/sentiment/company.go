package sentiment

// tickerToCompany expands a ticker into its company name for search
// queries, so posts that never mention the symbol still count.
var tickerToCompany = map[string]string{
	"AAPL":  "Apple",
	"MSFT":  "Microsoft",
	"GOOGL": "Google",
	"AMZN":  "Amazon",
	"META":  "Meta",
	"TSLA":  "Tesla",
	"NVDA":  "Nvidia",
	"NFLX":  "Netflix",
	"AMD":   "AMD",
	"INTC":  "Intel",
	"JPM":   "JPMorgan",
	"BAC":   "Bank of America",
	"WMT":   "Walmart",
	"DIS":   "Disney",
	"KO":    "Coca-Cola",
	"PFE":   "Pfizer",
	"XOM":   "Exxon",
	"BA":    "Boeing",
	"GE":    "General Electric",
	"F":     "Ford",
}

// CompanyName returns the company name for a ticker, falling back to the
// ticker itself.
func CompanyName(ticker string) string {
	if name, ok := tickerToCompany[ticker]; ok {
		return name
	}
	return ticker
}
