package domain

import "strings"

// Static membership lists for the classifier. These are configuration,
// not algorithm: replacing a list does not change classification order.
var (
	stablecoinSymbols = symbolSet("USDT", "USDC", "BUSD", "DAI", "TUSD", "USDE")
	memeSymbols       = symbolSet("DOGE", "SHIB", "PEPE", "FLOKI", "BONK", "WIF", "BOME")
	l1Symbols         = symbolSet("ETH", "BNB", "SOL", "ADA", "AVAX", "DOT", "NEAR", "SUI", "INJ")
	l2Symbols         = symbolSet("MATIC", "ARB", "OP", "LRC", "IMX")
	defiSymbols       = symbolSet("UNI", "AAVE", "COMP", "SNX", "CRV")
	gamingSymbols     = symbolSet("SAND", "MANA", "AXS", "ENJ")
)

func symbolSet(symbols ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	return set
}

// Classify maps a symbol/name pair to exactly one category. Precedence is
// first match wins: stablecoins and memes are checked before the chain
// lists because some symbols plausibly overlap, and the dashboard has
// always checked stablecoins first.
func Classify(symbol, name string) Category {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	lowerName := strings.ToLower(name)

	switch {
	case member(stablecoinSymbols, sym):
		return CategoryStablecoin
	case member(memeSymbols, sym):
		return CategoryMeme
	case member(l1Symbols, sym):
		return CategoryL1
	case member(l2Symbols, sym):
		return CategoryL2
	case member(defiSymbols, sym) || strings.Contains(lowerName, "defi"):
		return CategoryDeFi
	case member(gamingSymbols, sym):
		return CategoryGaming
	}
	return CategoryCrypto
}

func member(set map[string]struct{}, sym string) bool {
	_, ok := set[sym]
	return ok
}
