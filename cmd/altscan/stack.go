package main

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/panicdrop/altscan/internal/application/pipeline"
	"github.com/panicdrop/altscan/internal/application/scanner"
	"github.com/panicdrop/altscan/internal/config"
	"github.com/panicdrop/altscan/internal/infrastructure/cache"
	"github.com/panicdrop/altscan/internal/infrastructure/providers"
	"github.com/panicdrop/altscan/internal/telemetry"
)

// buildScanner assembles the provider stack described by the config:
// listings behind an optional Redis cache, the AI enricher when a key
// is present, and the composite scorer.
func buildScanner(cfg config.Config, metrics *telemetry.Metrics) (*scanner.Scanner, error) {
	var listingCache providers.ListingCache
	if cfg.Cache.Enabled {
		redisCache := cache.NewRedis(cfg.Cache.Addr, cfg.Cache.Password, cfg.Cache.DB, cfg.Cache.TTL)
		listingCache = redisCache
		log.Info().Str("addr", cfg.Cache.Addr).Msg("Listings cache enabled")
	}

	cmcCfg := providers.DefaultCMCConfig()
	cmcCfg.BaseURL = cfg.Listings.BaseURL
	cmcCfg.APIKey = cfg.Listings.APIKey
	cmcCfg.Timeout = cfg.Scanner.ListingTimeout
	cmcCfg.CacheTTL = cfg.Listings.CacheTTL
	listings := providers.NewCoinMarketCap(cmcCfg, listingCache).WithMetrics(metrics)

	var enricher providers.EnrichmentProvider
	if cfg.Enricher.APIKey != "" {
		pxCfg := providers.DefaultPerplexityConfig()
		pxCfg.BaseURL = cfg.Enricher.BaseURL
		pxCfg.Model = cfg.Enricher.Model
		pxCfg.MaxTokens = cfg.Enricher.MaxTokens
		pxCfg.Temperature = cfg.Enricher.Temperature
		pxCfg.APIKey = cfg.Enricher.APIKey
		enricher = providers.NewPerplexity(pxCfg)
	} else {
		log.Warn().Msgf("%s not set, all tokens will use fallback scoring", config.EnvEnricherKey)
	}

	scorer, err := pipeline.NewScorer(cfg.Weights)
	if err != nil {
		return nil, fmt.Errorf("build scorer: %w", err)
	}

	scanCfg := scanner.Config{
		ListingLimit:   cfg.Scanner.ListingLimit,
		EnrichTop:      cfg.Scanner.EnrichTop,
		EnrichInterval: cfg.Scanner.EnrichInterval,
		ListingTimeout: cfg.Scanner.ListingTimeout,
		EnrichTimeout:  cfg.Scanner.EnrichTimeout,
		TopN:           cfg.Scanner.TopN,
	}

	return scanner.New(scanCfg, listings, enricher, scorer, metrics)
}
