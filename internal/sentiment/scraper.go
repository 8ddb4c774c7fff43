package sentiment

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"quant-trading-bot/internal/logger"
)

// PostSource is one public post feed to scrape.
type PostSource struct {
	Name       string
	BaseURL    string
	SearchPath string // "{query}" is replaced with the escaped search query
	Selectors  PostSelectors
	RateLimit  time.Duration
}

// PostSelectors holds the CSS selectors for one source's post markup.
type PostSelectors struct {
	PostContainer string
	Text          string
	Timestamp     string
	Followers     string
	Reposts       string
	Favorites     string
}

// Scraper collects recent posts about a ticker from public sources.
type Scraper struct {
	sources []PostSource
	timeout time.Duration
}

func NewScraper(timeout time.Duration) *Scraper {
	return &Scraper{
		sources: defaultSources(),
		timeout: timeout,
	}
}

func defaultSources() []PostSource {
	return []PostSource{
		{
			Name:       "StockTwits",
			BaseURL:    "https://stocktwits.com",
			SearchPath: "/symbol/{query}",
			Selectors: PostSelectors{
				PostContainer: "div.st_3SL2gug",
				Text:          "div.st_3SL2gug div.st_28bQfzV",
				Timestamp:     "time",
				Followers:     "span.st_2ijLBzI",
				Reposts:       "span[aria-label*='reshare']",
				Favorites:     "span[aria-label*='like']",
			},
			RateLimit: 2 * time.Second,
		},
		{
			Name:       "Reddit",
			BaseURL:    "https://old.reddit.com",
			SearchPath: "/r/stocks/search?q={query}&restrict_sr=on&sort=new",
			Selectors: PostSelectors{
				PostContainer: "div.search-result",
				Text:          "a.search-title",
				Timestamp:     "time",
				Favorites:     "span.search-score",
			},
			RateLimit: 2 * time.Second,
		},
	}
}

// SearchRecent scrapes up to maxPosts posts mentioning the ticker or its
// company name. Sources that fail are skipped, never fatal.
func (s *Scraper) SearchRecent(ctx context.Context, symbol string, maxPosts int) []Post {
	query := buildQuery(symbol)
	perSource := maxPosts / len(s.sources)
	if perSource < 1 {
		perSource = 1
	}

	all := []Post{}
	for _, source := range s.sources {
		posts, err := s.scrapeSource(source, query, perSource)
		if err != nil {
			logger.ErrorWithErr(ctx, "Failed to scrape post source", err, "source", source.Name, "symbol", symbol)
			continue
		}
		all = append(all, posts...)
		time.Sleep(source.RateLimit)
	}

	logger.Info(ctx, "Post scraping completed", "symbol", symbol, "posts", len(all))
	if len(all) > maxPosts {
		all = all[:maxPosts]
	}
	return all
}

// buildQuery mirrors the "(Company OR $TICKER)" search expansion.
func buildQuery(symbol string) string {
	company := CompanyName(symbol)
	if company == symbol {
		return symbol
	}
	return fmt.Sprintf("%s OR $%s", company, symbol)
}

func (s *Scraper) scrapeSource(source PostSource, query string, maxPosts int) ([]Post, error) {
	posts := []Post{}

	c := colly.NewCollector(
		colly.AllowedDomains(getDomain(source.BaseURL)),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	})

	// Parse the whole response with goquery so selectors can reach
	// across the post container.
	c.OnResponse(func(r *colly.Response) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if err != nil {
			return
		}
		doc.Find(source.Selectors.PostContainer).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			if len(posts) >= maxPosts {
				return false
			}
			text := strings.TrimSpace(sel.Find(source.Selectors.Text).Text())
			if text == "" {
				text = strings.TrimSpace(sel.Text())
			}
			if text == "" {
				return true
			}
			posts = append(posts, Post{
				Text:          text,
				CreatedAt:     parseTimestamp(sel.Find(source.Selectors.Timestamp)),
				UserFollowers: parseCount(sel.Find(source.Selectors.Followers).Text()),
				RepostCount:   parseCount(sel.Find(source.Selectors.Reposts).Text()),
				FavoriteCount: parseCount(sel.Find(source.Selectors.Favorites).Text()),
			})
			return true
		})
	})

	searchURL := source.BaseURL + strings.ReplaceAll(source.SearchPath, "{query}", url.QueryEscape(query))
	if err := c.Visit(searchURL); err != nil {
		return nil, fmt.Errorf("failed to visit %s: %w", searchURL, err)
	}
	c.Wait()

	return posts, nil
}

func parseTimestamp(sel *goquery.Selection) time.Time {
	if dt, ok := sel.Attr("datetime"); ok {
		if t, err := time.Parse(time.RFC3339, dt); err == nil {
			return t
		}
	}
	return time.Time{}
}

// parseCount reads counts like "1,234" or "12.3k".
func parseCount(text string) int {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.ReplaceAll(text, ",", "")
	if text == "" {
		return 0
	}
	mult := 1.0
	if strings.HasSuffix(text, "k") {
		mult = 1000
		text = strings.TrimSuffix(text, "k")
	} else if strings.HasSuffix(text, "m") {
		mult = 1000000
		text = strings.TrimSuffix(text, "m")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return int(v * mult)
}

func getDomain(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
