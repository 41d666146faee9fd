package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments for the scanner. Everything
// registers on a private registry so tests can run in parallel without
// default-registry collisions.
type Metrics struct {
	registry *prometheus.Registry

	ScanDuration prometheus.Histogram
	ScansTotal   prometheus.Counter

	TokensScored      *prometheus.CounterVec
	EnrichmentErrors  prometheus.Counter
	ListingsFallbacks prometheus.Counter

	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter

	ActiveGeneration prometheus.Gauge

	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all scanner metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "altscan_scan_duration_seconds",
			Help:    "Duration of a full refresh cycle in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "altscan_scans_total",
			Help: "Total number of completed refresh cycles",
		}),
		TokensScored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "altscan_tokens_scored_total",
			Help: "Tokens scored per cycle by scoring path",
		}, []string{"mode"}), // enriched | fallback
		EnrichmentErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "altscan_enrichment_errors_total",
			Help: "Enrichment calls that failed and fell back",
		}),
		ListingsFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "altscan_listings_fallbacks_total",
			Help: "Refresh cycles served from the built-in sample set",
		}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "altscan_listings_cache_hits_total",
			Help: "Listings requests served from the cache",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "altscan_listings_cache_misses_total",
			Help: "Listings requests that missed the cache",
		}),
		ActiveGeneration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "altscan_active_generation",
			Help: "Generation counter of the current token snapshot",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "altscan_http_request_duration_seconds",
			Help:    "HTTP request duration by route",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"route", "code"}),
	}

	m.registry.MustRegister(
		m.ScanDuration,
		m.ScansTotal,
		m.TokensScored,
		m.EnrichmentErrors,
		m.ListingsFallbacks,
		m.CacheHits,
		m.CacheMisses,
		m.ActiveGeneration,
		m.RequestDuration,
	)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the /metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
