package providers

import (
	"math/rand"
	"regexp"
	"strconv"
	"strings"
)

// extractStrategy attempts to pull a 0-100 score from unstructured
// model output. Strategies are tried in fixed priority order; each
// either produces a value or reports no match.
type extractStrategy struct {
	name string
	fn   func(content string) (float64, bool)
}

var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)score[:\s]+(\d{1,3})`),
	regexp.MustCompile(`(?i)(\d{1,3})[\s/]*(?:out of\s+)?100`),
	regexp.MustCompile(`(\d{1,3})%`),
	regexp.MustCompile(`(?i)rating[:\s]+(\d{1,3})`),
}

var extractStrategies = []extractStrategy{
	{"regex", extractByPattern},
	{"sentiment", extractBySentiment},
}

// ExtractScore runs the strategy chain over a raw model response and
// returns the score, the strategy that produced it, and whether any
// strategy matched.
func ExtractScore(content string) (float64, string, bool) {
	for _, strat := range extractStrategies {
		if score, ok := strat.fn(content); ok {
			return clampScore(score), strat.name, true
		}
	}
	return 0, "", false
}

func extractByPattern(content string) (float64, bool) {
	for _, pattern := range scorePatterns {
		match := pattern.FindStringSubmatch(content)
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		return float64(n), true
	}
	return 0, false
}

var (
	positiveWords = []string{"good", "strong", "bullish", "positive", "rising", "growth", "solid"}
	negativeWords = []string{"bad", "weak", "bearish", "negative", "falling", "decline", "risky"}
)

// extractBySentiment derives a coarse score from keyword counts when no
// explicit number is present. The bands match the dashboard: 65-85
// positive, 25-45 negative, 45-65 neutral.
func extractBySentiment(content string) (float64, bool) {
	lower := strings.ToLower(content)
	if strings.TrimSpace(lower) == "" {
		return 0, false
	}

	var positives, negatives int
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positives++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negatives++
		}
	}

	switch {
	case positives > negatives:
		return float64(65 + rand.Intn(20)), true
	case negatives > positives:
		return float64(25 + rand.Intn(20)), true
	default:
		return float64(45 + rand.Intn(20)), true
	}
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
