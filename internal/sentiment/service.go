package sentiment

import (
	"context"
	"sync"
	"time"

	"quant-trading-bot/internal/interfaces"
	"quant-trading-bot/internal/logger"
	"quant-trading-bot/internal/store"
	"quant-trading-bot/internal/types"
)

// Service turns scraped post sentiment into a scalar trading signal.
// Disabled, failing, or thin data always yields the neutral signal.
type Service struct {
	scraper  *Scraper
	analyzer *Analyzer
	cache    *resultCache

	enabled       bool
	maxPosts      int
	minSamples    int
	buyThreshold  float64
	sellThreshold float64
}

var _ interfaces.SentimentSource = (*Service)(nil)

func NewService(cfg *store.Config) *Service {
	return &Service{
		scraper:       NewScraper(30 * time.Second),
		analyzer:      NewAnalyzer(),
		cache:         newResultCache(time.Duration(cfg.Sentiment.CacheMinutes) * time.Minute),
		enabled:       cfg.Sentiment.Enabled,
		maxPosts:      cfg.Sentiment.MaxPosts,
		minSamples:    cfg.Sentiment.MinSamples,
		buyThreshold:  cfg.Sentiment.BuyThreshold,
		sellThreshold: cfg.Sentiment.SellThreshold,
	}
}

// Signal returns +1, -1 or 0 for the ticker. The aggregate score must
// clear the buy/sell thresholds with at least minSamples scored posts.
func (s *Service) Signal(ctx context.Context, symbol string) float64 {
	return s.Analyze(ctx, symbol).Signal
}

// Analyze returns the full sentiment result, serving cached results
// while they are fresh.
func (s *Service) Analyze(ctx context.Context, symbol string) types.SentimentResult {
	neutral := types.SentimentResult{Symbol: symbol, Timestamp: time.Now().Unix()}
	if !s.enabled {
		return neutral
	}

	if cached, ok := s.cache.get(symbol); ok {
		logger.Debug(ctx, "Sentiment served from cache", "symbol", symbol)
		return cached
	}

	posts := s.scraper.SearchRecent(ctx, symbol, s.maxPosts)
	score, samples := s.analyzer.Aggregate(posts)
	if samples < s.minSamples {
		logger.Info(ctx, "Too few posts for sentiment signal",
			"symbol", symbol, "samples", samples, "min_samples", s.minSamples)
		return neutral
	}

	result := types.SentimentResult{
		Symbol:      symbol,
		Score:       score,
		Signal:      s.toSignal(score),
		SampleCount: samples,
		Timestamp:   time.Now().Unix(),
	}
	s.cache.set(symbol, result)

	logger.Info(ctx, "Sentiment analyzed",
		"symbol", symbol, "score", score, "signal", result.Signal, "samples", samples)
	return result
}

func (s *Service) toSignal(score float64) float64 {
	if score > s.buyThreshold {
		return 1
	}
	if score < s.sellThreshold {
		return -1
	}
	return 0
}

// resultCache stores sentiment results with a TTL.
type resultCache struct {
	mu   sync.RWMutex
	data map[string]cacheEntry
	ttl  time.Duration
}

type cacheEntry struct {
	result types.SentimentResult
	at     time.Time
}

func newResultCache(ttl time.Duration) *resultCache {
	return &resultCache{
		data: make(map[string]cacheEntry),
		ttl:  ttl,
	}
}

func (c *resultCache) get(symbol string) (types.SentimentResult, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.data[symbol]
	if !ok || time.Since(entry.at) > c.ttl {
		return types.SentimentResult{}, false
	}
	return entry.result, true
}

func (c *resultCache) set(symbol string, result types.SentimentResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[symbol] = cacheEntry{result: result, at: time.Now()}
}
