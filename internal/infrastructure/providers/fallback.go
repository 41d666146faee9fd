package providers

// SampleListings returns the built-in sample rows served when the live
// listings API is unreachable, so the pipeline always has something to
// render. Figures are a frozen snapshot, not live data.
func SampleListings() []RawListing {
	return []RawListing{
		{
			ID: 1, Symbol: "BTC", Name: "Bitcoin", Rank: 1,
			PriceUSD: 43250.50, MarketCapUSD: 847_500_000_000,
			Volume24hUSD: 15_200_000_000, PercentChange24: 2.5,
		},
		{
			ID: 1027, Symbol: "ETH", Name: "Ethereum", Rank: 2,
			PriceUSD: 2645.75, MarketCapUSD: 318_000_000_000,
			Volume24hUSD: 8_500_000_000, PercentChange24: 1.8,
		},
		{
			ID: 825, Symbol: "USDT", Name: "Tether", Rank: 3,
			PriceUSD: 1.0001, MarketCapUSD: 91_000_000_000,
			Volume24hUSD: 28_000_000_000, PercentChange24: 0.01,
		},
		{
			ID: 1839, Symbol: "BNB", Name: "BNB", Rank: 4,
			PriceUSD: 315.20, MarketCapUSD: 48_000_000_000,
			Volume24hUSD: 1_200_000_000, PercentChange24: 1.2,
		},
		{
			ID: 52, Symbol: "XRP", Name: "XRP", Rank: 5,
			PriceUSD: 0.52, MarketCapUSD: 28_000_000_000,
			Volume24hUSD: 950_000_000, PercentChange24: -0.8,
		},
	}
}
