package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingsPayload = `{
	"data": [
		{"id": 1, "name": "Bitcoin", "symbol": "BTC", "cmc_rank": 1,
		 "quote": {"USD": {"price": 43250.50, "market_cap": 847500000000, "volume_24h": 15200000000, "percent_change_24h": 2.5}}},
		{"id": 1027, "name": "Ethereum", "symbol": "ETH", "cmc_rank": 2,
		 "quote": {"USD": {"price": 2645.75, "market_cap": 318000000000, "volume_24h": 8500000000, "percent_change_24h": 1.8}}}
	]
}`

func TestTopListings_Live(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/cryptocurrency/listings/latest", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("limit"))
		assert.Equal(t, "market_cap", r.URL.Query().Get("sort"))
		assert.Equal(t, "USD", r.URL.Query().Get("convert"))
		assert.Equal(t, "test-key", r.Header.Get("X-CMC_PRO_API_KEY"))
		w.Write([]byte(listingsPayload))
	}))
	defer srv.Close()

	p := NewCoinMarketCap(CMCConfig{BaseURL: srv.URL, APIKey: "test-key", Timeout: 2 * time.Second}, nil)

	result, err := p.TopListings(context.Background(), 100)
	require.NoError(t, err)
	assert.False(t, result.Fallback)
	require.Len(t, result.Listings, 2)

	btc := result.Listings[0]
	assert.Equal(t, int64(1), btc.ID)
	assert.Equal(t, "BTC", btc.Symbol)
	assert.Equal(t, 1, btc.Rank)
	assert.Equal(t, 43250.50, btc.PriceUSD)
	assert.Equal(t, 847_500_000_000.0, btc.MarketCapUSD)
}

func TestTopListings_FallsBackOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	p := NewCoinMarketCap(CMCConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil)

	result, err := p.TopListings(context.Background(), 100)
	require.NoError(t, err)
	assert.True(t, result.Fallback)
	require.NotEmpty(t, result.Listings)
	assert.Equal(t, "BTC", result.Listings[0].Symbol)
}

func TestTopListings_FallsBackOnMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": "not an array"`))
	}))
	defer srv.Close()

	p := NewCoinMarketCap(CMCConfig{BaseURL: srv.URL, Timeout: 2 * time.Second}, nil)

	result, err := p.TopListings(context.Background(), 50)
	require.NoError(t, err)
	assert.True(t, result.Fallback)
}

func TestTopListings_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewCoinMarketCap(CMCConfig{BaseURL: "http://127.0.0.1:0", Timeout: time.Second}, nil)
	_, err := p.TopListings(ctx, 10)
	assert.Error(t, err)
}

// memCache is a map-backed ListingCache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
}

func newMemCache() *memCache { return &memCache{data: make(map[string]string)} }

func (m *memCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[key], nil
}

func (m *memCache) Set(_ context.Context, key, val string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = val
	return nil
}

func TestTopListings_ServesFromCache(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte(listingsPayload))
	}))
	defer srv.Close()

	p := NewCoinMarketCap(CMCConfig{BaseURL: srv.URL, Timeout: 2 * time.Second, CacheTTL: time.Minute}, newMemCache())

	first, err := p.TopListings(context.Background(), 100)
	require.NoError(t, err)
	second, err := p.TopListings(context.Background(), 100)
	require.NoError(t, err)

	assert.Equal(t, 1, hits, "second fetch should come from cache")
	assert.Equal(t, first.Listings, second.Listings)
}
