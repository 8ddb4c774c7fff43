package interfaces

import "context"

// SentimentSource produces an optional scalar signal in {-1, 0, +1}
// derived from external text. Neutral (0) on missing data or errors.
type SentimentSource interface {
	Signal(ctx context.Context, symbol string) float64
}
