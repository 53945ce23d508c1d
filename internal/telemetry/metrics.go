/*

Prometheus instrumentation for the engine. Everything is registered on the
default registry and exposed by the web layer's /metrics endpoint.

*/

package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AnalysesTotal counts completed analyses by outcome: ok, cached, or an
	// error kind.
	AnalysesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptogreed_analyses_total",
			Help: "Total number of analyses by outcome",
		},
		[]string{"outcome"},
	)

	// ProviderRequests counts outbound provider calls by provider and result.
	ProviderRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cryptogreed_provider_requests_total",
			Help: "Total number of upstream provider requests by provider and result",
		},
		[]string{"provider", "result"},
	)

	// ProviderDuration tracks outbound provider call latency.
	ProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cryptogreed_provider_request_duration_seconds",
			Help:    "Duration of upstream provider requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"provider"},
	)

	// CacheHits and CacheMisses track result cache effectiveness.
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptogreed_cache_hits_total",
		Help: "Total number of result cache hits",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptogreed_cache_misses_total",
		Help: "Total number of result cache misses",
	})

	// RateLimitDenials counts admission rejections.
	RateLimitDenials = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cryptogreed_rate_limit_denials_total",
		Help: "Total number of requests denied by the rate limiter",
	})
)

// ObserveProviderRequest records one outbound provider call.
func ObserveProviderRequest(provider string, duration time.Duration, ok bool) {
	result := "ok"
	if !ok {
		result = "error"
	}
	ProviderRequests.WithLabelValues(provider, result).Inc()
	ProviderDuration.WithLabelValues(provider).Observe(duration.Seconds())
}
