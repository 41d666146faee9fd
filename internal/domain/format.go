package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatPrice applies the dashboard's tiered precision: six decimals
// under a cent, four under a dollar, two under $100, otherwise a grouped
// integer.
func FormatPrice(price float64) string {
	switch {
	case price < 0.01:
		return strconv.FormatFloat(price, 'f', 6, 64)
	case price < 1:
		return strconv.FormatFloat(price, 'f', 4, 64)
	case price < 100:
		return strconv.FormatFloat(price, 'f', 2, 64)
	}
	return groupInt(int64(price + 0.5))
}

// FormatChange renders a signed 24h percentage, e.g. "+2.50%".
func FormatChange(pct float64) string {
	if pct >= 0 {
		return fmt.Sprintf("+%.2f%%", pct)
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// FormatMarketCap renders a market cap with the largest applicable
// T/B/M suffix, falling back to a plain dollar figure below $1M. Filter
// parsers re-parse this string in some UI paths, so the format is fixed.
func FormatMarketCap(marketCap float64) string {
	switch {
	case marketCap >= 1e12:
		return fmt.Sprintf("$%.1fT", marketCap/1e12)
	case marketCap >= 1e9:
		return fmt.Sprintf("$%.1fB", marketCap/1e9)
	case marketCap >= 1e6:
		return fmt.Sprintf("$%.1fM", marketCap/1e6)
	}
	return fmt.Sprintf("$%.0f", marketCap)
}

// ParseMarketCapDisplay reads a formatted market-cap string back into
// billions of USD. Ranking uses the raw numeric field instead; this
// parser exists for parity with UI code that only holds the string.
func ParseMarketCapDisplay(s string) (float64, error) {
	cleaned := strings.NewReplacer("$", "", ",", "").Replace(strings.TrimSpace(s))
	if cleaned == "" {
		return 0, fmt.Errorf("empty market cap string")
	}

	multiplier := 1.0
	switch cleaned[len(cleaned)-1] {
	case 'T':
		multiplier = 1000
		cleaned = cleaned[:len(cleaned)-1]
	case 'B':
		cleaned = cleaned[:len(cleaned)-1]
	case 'M':
		multiplier = 1.0 / 1000
		cleaned = cleaned[:len(cleaned)-1]
	default:
		// Plain dollar figure below $1M.
		multiplier = 1e-9
	}

	val, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse market cap %q: %w", s, err)
	}
	return val * multiplier, nil
}

// groupInt formats an integer with comma thousands separators.
func groupInt(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
