package pipeline

import (
	"strings"

	"github.com/panicdrop/altscan/internal/domain"
	"github.com/panicdrop/altscan/internal/infrastructure/providers"
)

// Normalize converts one raw provider row into a canonical Token with
// market fields populated, display strings rendered, a category
// assigned, and scoring fields zeroed. All missing-field defaulting
// happens here so consumers never see partial rows: numerics default to
// zero, a missing rank becomes the sentinel.
func Normalize(row providers.RawListing) domain.Token {
	rank := row.Rank
	if rank <= 0 {
		rank = domain.RankSentinel
	}

	price := row.PriceUSD
	if price < 0 {
		price = 0
	}
	marketCap := row.MarketCapUSD
	if marketCap < 0 {
		marketCap = 0
	}
	volume := row.Volume24hUSD
	if volume < 0 {
		volume = 0
	}

	symbol := strings.ToUpper(strings.TrimSpace(row.Symbol))

	return domain.Token{
		ID:     row.ID,
		Symbol: symbol,
		Name:   row.Name,

		PriceUSD:        price,
		PercentChange24: row.PercentChange24,
		MarketCapUSD:    marketCap,
		Volume24hUSD:    volume,
		Rank:            rank,

		PriceDisplay:     "$" + domain.FormatPrice(price),
		ChangeDisplay:    domain.FormatChange(row.PercentChange24),
		MarketCapDisplay: domain.FormatMarketCap(marketCap),

		Category: domain.Classify(symbol, row.Name),
	}
}

// NormalizeAll normalizes a whole fetch, dropping rows whose symbol
// duplicates an earlier one so symbols stay unique within a snapshot.
func NormalizeAll(rows []providers.RawListing) []domain.Token {
	tokens := make([]domain.Token, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		t := Normalize(row)
		if t.Symbol == "" {
			continue
		}
		if _, dup := seen[t.Symbol]; dup {
			continue
		}
		seen[t.Symbol] = struct{}{}
		tokens = append(tokens, t)
	}
	return tokens
}
