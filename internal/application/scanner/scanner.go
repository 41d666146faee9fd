package scanner

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/panicdrop/altscan/internal/application/pipeline"
	"github.com/panicdrop/altscan/internal/domain"
	"github.com/panicdrop/altscan/internal/infrastructure/providers"
	"github.com/panicdrop/altscan/internal/telemetry"
)

// Config controls one scanner instance.
type Config struct {
	ListingLimit   int           `yaml:"listing_limit"`   // top-K listings per fetch
	EnrichTop      int           `yaml:"enrich_top"`      // tokens sent through enrichment
	EnrichInterval time.Duration `yaml:"enrich_interval"` // pacing between enrichment calls
	ListingTimeout time.Duration `yaml:"listing_timeout"`
	EnrichTimeout  time.Duration `yaml:"enrich_timeout"`
	TopN           int           `yaml:"top_n"` // default Top-N panel size
}

// DefaultConfig mirrors the production dashboard: top 100 listings,
// AI scoring for the top 50, one enrichment call every 1.2s.
func DefaultConfig() Config {
	return Config{
		ListingLimit:   100,
		EnrichTop:      50,
		EnrichInterval: 1200 * time.Millisecond,
		ListingTimeout: 10 * time.Second,
		EnrichTimeout:  8 * time.Second,
		TopN:           3,
	}
}

// Validate catches configuration errors at startup.
func (c Config) Validate() error {
	if c.ListingLimit <= 0 {
		return fmt.Errorf("listing_limit must be positive, got %d", c.ListingLimit)
	}
	if c.EnrichTop < 0 {
		return fmt.Errorf("enrich_top must be non-negative, got %d", c.EnrichTop)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", c.TopN)
	}
	if c.EnrichInterval <= 0 {
		return fmt.Errorf("enrich_interval must be positive, got %s", c.EnrichInterval)
	}
	return nil
}

// ScanResult summarizes one completed refresh cycle.
type ScanResult struct {
	Generation     uint64        `json:"generation"`
	TotalTokens    int           `json:"total_tokens"`
	Enriched       int           `json:"enriched"`
	FallbackScored int           `json:"fallback_scored"`
	SampleData     bool          `json:"sample_data"`
	Superseded     bool          `json:"superseded"`
	Duration       time.Duration `json:"duration"`
	CompletedAt    time.Time     `json:"completed_at"`
}

// Scanner drives the refresh pipeline: listings fetch, normalization,
// enrichment, scoring. It owns the TokenStore and guarantees that a
// newer refresh supersedes an in-flight one.
type Scanner struct {
	cfg      Config
	listings providers.ListingProvider
	enricher providers.EnrichmentProvider // nil disables enrichment entirely
	scorer   *pipeline.Scorer
	metrics  *telemetry.Metrics // optional
	limiter  *rate.Limiter
	store    *TokenStore

	mu         sync.Mutex
	generation uint64
	cancelPrev context.CancelFunc
}

// New builds a scanner. enricher and metrics may be nil.
func New(cfg Config, listings providers.ListingProvider, enricher providers.EnrichmentProvider,
	scorer *pipeline.Scorer, metrics *telemetry.Metrics) (*Scanner, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("scanner config: %w", err)
	}
	if listings == nil {
		return nil, fmt.Errorf("scanner: listing provider is required")
	}
	if scorer == nil {
		return nil, fmt.Errorf("scanner: scorer is required")
	}
	return &Scanner{
		cfg:      cfg,
		listings: listings,
		enricher: enricher,
		scorer:   scorer,
		metrics:  metrics,
		limiter:  rate.NewLimiter(rate.Every(cfg.EnrichInterval), 1),
		store:    NewTokenStore(),
	}, nil
}

// Refresh runs one full cycle. Calling it while a previous refresh is
// in flight supersedes that cycle: its context is cancelled and any
// enrichment results it still produces are discarded by generation
// checks in the store.
func (s *Scanner) Refresh(ctx context.Context) (*ScanResult, error) {
	s.mu.Lock()
	if s.cancelPrev != nil {
		s.cancelPrev()
	}
	s.generation++
	gen := s.generation
	cctx, cancel := context.WithCancel(ctx)
	s.cancelPrev = cancel
	s.mu.Unlock()
	defer cancel()

	start := time.Now()
	log.Info().Uint64("generation", gen).Msg("Refresh cycle started")

	lctx, lcancel := context.WithTimeout(cctx, s.cfg.ListingTimeout)
	defer lcancel()
	listings, err := s.listings.TopListings(lctx, s.cfg.ListingLimit)
	if err != nil {
		return nil, fmt.Errorf("refresh generation %d: %w", gen, err)
	}

	tokens := pipeline.NormalizeAll(listings.Listings)
	if !s.store.Replace(gen, tokens, listings.Fallback) {
		// A newer cycle already owns the store.
		return &ScanResult{Generation: gen, Superseded: true}, nil
	}

	enriched, fallbackScored := s.scoreAll(cctx, gen, tokens)

	result := &ScanResult{
		Generation:     gen,
		TotalTokens:    len(tokens),
		Enriched:       enriched,
		FallbackScored: fallbackScored,
		SampleData:     listings.Fallback,
		Superseded:     cctx.Err() != nil,
		Duration:       time.Since(start),
		CompletedAt:    time.Now(),
	}

	if s.metrics != nil {
		s.metrics.ScansTotal.Inc()
		s.metrics.ScanDuration.Observe(result.Duration.Seconds())
		s.metrics.TokensScored.WithLabelValues("enriched").Add(float64(enriched))
		s.metrics.TokensScored.WithLabelValues("fallback").Add(float64(fallbackScored))
		s.metrics.ActiveGeneration.Set(float64(gen))
		if listings.Fallback {
			s.metrics.ListingsFallbacks.Inc()
		}
	}

	log.Info().Uint64("generation", gen).
		Int("tokens", result.TotalTokens).
		Int("enriched", result.Enriched).
		Int("fallback_scored", result.FallbackScored).
		Bool("sample_data", result.SampleData).
		Dur("duration", result.Duration).
		Msg("Refresh cycle completed")

	return result, nil
}

// scoreAll routes each token through exactly one scoring path. The top
// EnrichTop tokens get an enrichment attempt, paced by the rate limiter
// and joined before returning; per-token failure falls back for that
// token only. Without an enricher every token takes the fallback path.
func (s *Scanner) scoreAll(ctx context.Context, gen uint64, tokens []domain.Token) (int, int) {
	var enriched, fallbackScored atomic.Int64

	if s.enricher == nil {
		for _, t := range tokens {
			if s.store.Mutate(gen, t.Symbol, s.scorer.ApplyFallback) {
				fallbackScored.Add(1)
			}
		}
		return 0, int(fallbackScored.Load())
	}

	limit := s.cfg.EnrichTop
	if limit > len(tokens) {
		limit = len(tokens)
	}

	var wg sync.WaitGroup
	for _, t := range tokens[:limit] {
		if err := s.limiter.Wait(ctx); err != nil {
			break // cycle superseded or caller gone
		}

		wg.Add(1)
		go func(symbol, name string) {
			defer wg.Done()

			ectx, ecancel := context.WithTimeout(ctx, s.cfg.EnrichTimeout)
			defer ecancel()

			scores, err := s.enricher.ScoreToken(ectx, symbol, name)
			if err != nil {
				log.Warn().Err(err).Str("symbol", symbol).
					Msg("Enrichment failed, falling back for this token")
				if s.metrics != nil {
					s.metrics.EnrichmentErrors.Inc()
				}
				if s.store.Mutate(gen, symbol, s.scorer.ApplyFallback) {
					fallbackScored.Add(1)
				}
				return
			}

			applied := s.store.Mutate(gen, symbol, func(tok *domain.Token) {
				s.scorer.ApplyScores(tok, scores)
			})
			if !applied {
				log.Debug().Str("symbol", symbol).Uint64("generation", gen).
					Msg("Discarding stale enrichment result")
				return
			}
			if scores.Fallback {
				fallbackScored.Add(1)
			} else {
				enriched.Add(1)
			}
		}(t.Symbol, t.Name)
	}
	wg.Wait()

	return int(enriched.Load()), int(fallbackScored.Load())
}

// ApplyFilters ranks the current snapshot under the given criteria.
// It is synchronous and does not touch the network.
func (s *Scanner) ApplyFilters(criteria domain.FilterCriteria, n int) (*pipeline.RankResult, error) {
	if n <= 0 {
		n = s.cfg.TopN
	}
	snap := s.store.Snapshot()
	return pipeline.Rank(snap.Tokens, criteria, n)
}

// Snapshot returns a read-only copy of the current token collection.
func (s *Scanner) Snapshot() Snapshot {
	return s.store.Snapshot()
}

// Section symbol lists for the dashboard's fixed panels.
var (
	narrativeSymbols = []string{"SOL", "AVAX", "NEAR", "SUI", "INJ", "SEI", "FTM", "ALGO"}
	networkSymbols   = []string{"ETH", "BNB", "MATIC", "ARB", "OP", "AVAX"}
)

const sectionLimit = 3

// Section returns the tokens backing one dashboard panel. Panels are
// filtered views over the snapshot, not separately maintained state.
func (s *Scanner) Section(name string) []domain.Token {
	snap := s.store.Snapshot()
	switch name {
	case "narrative":
		return filterBySymbols(snap.Tokens, narrativeSymbols)
	case "meme":
		out := make([]domain.Token, 0, sectionLimit)
		for _, t := range snap.Tokens {
			if t.Category == domain.CategoryMeme {
				out = append(out, t)
				if len(out) == sectionLimit {
					break
				}
			}
		}
		return out
	case "network":
		return filterBySymbols(snap.Tokens, networkSymbols)
	}
	return nil
}

func filterBySymbols(tokens []domain.Token, symbols []string) []domain.Token {
	want := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		want[s] = struct{}{}
	}
	out := make([]domain.Token, 0, sectionLimit)
	for _, t := range tokens {
		if _, ok := want[t.Symbol]; ok {
			out = append(out, t)
			if len(out) == sectionLimit {
				break
			}
		}
	}
	return out
}
