package sentiment

// Word lexicons for post scoring. Finance-flavored rather than general
// English: posts about tickers lean on this vocabulary.

func loadPositiveWords() map[string]bool {
	words := []string{
		"gain", "gains", "rally", "bull", "bullish", "buy", "buying",
		"upgrade", "upgraded", "beat", "beats", "strong", "growth",
		"profit", "profits", "profitable", "surge", "surged", "soar",
		"soared", "record", "outperform", "win", "winner", "winning",
		"breakout", "momentum", "long", "calls", "undervalued", "moon",
		"rocket", "green", "up", "higher", "rise", "rising", "rose",
		"positive", "good", "great", "excellent", "love", "best",
	}
	return toSet(words)
}

func loadNegativeWords() map[string]bool {
	words := []string{
		"loss", "losses", "crash", "bear", "bearish", "sell", "selling",
		"downgrade", "downgraded", "miss", "misses", "missed", "weak",
		"decline", "declined", "drop", "dropped", "plunge", "plunged",
		"tank", "tanked", "short", "puts", "overvalued", "bubble",
		"red", "down", "lower", "fall", "falling", "fell", "negative",
		"bad", "terrible", "awful", "avoid", "worst", "bankrupt",
		"bankruptcy", "lawsuit", "fraud", "investigation", "recall",
	}
	return toSet(words)
}

func loadUncertaintyWords() map[string]bool {
	words := []string{
		"maybe", "perhaps", "possibly", "might", "could", "unsure",
		"uncertain", "risky", "volatile", "gamble", "speculation",
		"speculative", "rumor", "rumour", "if", "unclear", "depends",
	}
	return toSet(words)
}

func toSet(words []string) map[string]bool {
	set := make(map[string]bool, len(words))
	for _, w := range words {
		set[w] = true
	}
	return set
}
