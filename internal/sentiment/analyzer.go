package sentiment

import (
	"math"
	"regexp"
	"strings"
	"time"
	"unicode"
)

// Post is one scraped social post about a ticker.
type Post struct {
	Text          string
	CreatedAt     time.Time
	UserFollowers int
	RepostCount   int
	FavoriteCount int
}

var (
	urlPattern    = regexp.MustCompile(`https?://\S+|www\.\S+`)
	handlePattern = regexp.MustCompile(`[@#$]\w+`)
)

// Analyzer scores post text against finance word lexicons.
type Analyzer struct {
	positiveWords    map[string]bool
	negativeWords    map[string]bool
	uncertaintyWords map[string]bool
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{
		positiveWords:    loadPositiveWords(),
		negativeWords:    loadNegativeWords(),
		uncertaintyWords: loadUncertaintyWords(),
	}
}

// Score rates a single post in [-1, 1]. URLs and ticker/handle tags are
// stripped before tokenizing; uncertainty language halves its weight.
func (a *Analyzer) Score(text string) float64 {
	clean := urlPattern.ReplaceAllString(text, "")
	clean = handlePattern.ReplaceAllString(clean, "")
	words := tokenize(strings.ToLower(clean))
	if len(words) == 0 {
		return 0
	}

	positive, negative, uncertain := 0, 0, 0
	for _, w := range words {
		switch {
		case a.positiveWords[w]:
			positive++
		case a.negativeWords[w]:
			negative++
		case a.uncertaintyWords[w]:
			uncertain++
		}
	}

	net := (float64(positive) - float64(negative)) / float64(len(words))
	score := clamp(net*10, -1, 1)

	uncertaintyRatio := clamp(float64(uncertain)/float64(len(words))*20, 0, 1)
	return score * (1 - uncertaintyRatio*0.5)
}

// followerScale discounts audience size against direct engagement so
// follower counts and repost/favorite counts land on a comparable scale.
const followerScale = 100.0

// Aggregate combines post scores into a weighted mean, weighting each
// post by its engagement. Returns the mean and the number of scoreable
// posts.
func (a *Analyzer) Aggregate(posts []Post) (float64, int) {
	if len(posts) == 0 {
		return 0, 0
	}
	weightedSum, weightSum := 0.0, 0.0
	n := 0
	for _, p := range posts {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		w := engagementWeight(p)
		weightedSum += w * a.Score(p.Text)
		weightSum += w
		n++
	}
	if n == 0 {
		return 0, 0
	}
	return weightedSum / weightSum, n
}

// engagementWeight maps a post's reach onto a log scale so a viral post
// counts for more without drowning out the rest of the sample. A post
// with no engagement weighs exactly 1.
func engagementWeight(p Post) float64 {
	reach := float64(p.RepostCount+p.FavoriteCount) + float64(p.UserFollowers)/followerScale
	if reach <= 0 {
		return 1
	}
	return 1 + math.Log10(1+reach)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
