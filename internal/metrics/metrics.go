package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TranslationCacheHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polly_translation_cache_hits_total",
		Help: "Cache hits by cache (detect or translate).",
	}, []string{"cache"})

	TranslationCacheMisses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polly_translation_cache_misses_total",
		Help: "Cache misses by cache (detect or translate).",
	}, []string{"cache"})

	TranslationRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polly_translation_requests_total",
		Help: "Translation API calls by kind and outcome.",
	}, []string{"kind", "outcome"})

	TranslationAPILatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "polly_translation_api_latency_seconds",
		Help:    "Round-trip latency of translation API calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	EventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polly_events_total",
		Help: "Host events handled by type and outcome.",
	}, []string{"type", "outcome"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "polly_http_requests_total",
		Help: "HTTP requests by method, route, and status.",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "polly_http_request_duration_seconds",
		Help:    "HTTP request latency by method and route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})
)
