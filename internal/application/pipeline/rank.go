package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/panicdrop/altscan/internal/domain"
)

// RankResult is an ordered Top-N selection. Insufficient is set when
// the whole collection could not fill N slots even after backfill; the
// caller renders an empty state rather than padding with placeholders.
type RankResult struct {
	Tokens       []domain.Token        `json:"tokens"`
	Requested    int                   `json:"requested"`
	Insufficient bool                  `json:"insufficient"`
	Criteria     domain.FilterCriteria `json:"criteria"`
}

// Rank applies the filter criteria to the token collection, sorts by
// composite score with rank tie-break, and selects up to n tokens with
// backfill. The backfill is a product guarantee: the Top-N panel is
// never empty while the unfiltered collection has candidates surviving
// the exclusion filters. n must be positive; n <= 0 is a caller bug.
func Rank(tokens []domain.Token, criteria domain.FilterCriteria, n int) (*RankResult, error) {
	if n <= 0 {
		return nil, fmt.Errorf("rank: n must be positive, got %d", n)
	}

	filtered := make([]domain.Token, 0, len(tokens))
	for _, t := range tokens {
		if !matchesCategory(t, criteria.Category) {
			continue
		}
		if !criteria.Bucket.Contains(t.MarketCapUSD / 1e9) {
			continue
		}
		if excluded(t, criteria) {
			continue
		}
		filtered = append(filtered, t)
	}

	sortByScore(filtered)

	selected := filtered
	if len(selected) > n {
		selected = selected[:n]
	}

	// Backfill from the whole collection, re-applying only the
	// exclusion filters, never the category/market-cap filters.
	if len(selected) < n {
		taken := make(map[string]struct{}, len(selected))
		for _, t := range selected {
			taken[t.Symbol] = struct{}{}
		}

		pool := make([]domain.Token, 0, len(tokens))
		for _, t := range tokens {
			if _, dup := taken[t.Symbol]; dup {
				continue
			}
			if excluded(t, criteria) {
				continue
			}
			pool = append(pool, t)
		}
		sortByScore(pool)

		for _, t := range pool {
			if len(selected) >= n {
				break
			}
			selected = append(selected, t)
		}
	}

	out := make([]domain.Token, len(selected))
	copy(out, selected)

	return &RankResult{
		Tokens:       out,
		Requested:    n,
		Insufficient: len(out) < n,
		Criteria:     criteria,
	}, nil
}

func matchesCategory(t domain.Token, category string) bool {
	if category == "" || strings.EqualFold(category, "all") {
		return true
	}
	return strings.EqualFold(string(t.Category), category)
}

func excluded(t domain.Token, criteria domain.FilterCriteria) bool {
	if criteria.ExcludeStablecoins && t.Category == domain.CategoryStablecoin {
		return true
	}
	if criteria.ExcludeMemecoins && t.Category == domain.CategoryMeme {
		return true
	}
	return false
}

// sortByScore orders descending by composite score; rank (ascending,
// lower number = larger market cap) breaks score ties and orders
// tokens that have not been scored.
func sortByScore(tokens []domain.Token) {
	sort.SliceStable(tokens, func(i, j int) bool {
		a, b := tokens[i], tokens[j]
		if a.Scored() && b.Scored() && a.TotalScore != b.TotalScore {
			return a.TotalScore > b.TotalScore
		}
		return a.Rank < b.Rank
	})
}
