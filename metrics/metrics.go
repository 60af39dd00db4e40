package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestsDispatched counts dispatched requests by how the dispatcher
	// answered them: bad_request, asterisk, empty_path or resolving
	RequestsDispatched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "artifact_gateway_requests_dispatched_total",
		Help: "The number of requests accepted by the dispatcher",
	}, []string{"outcome"})

	// HandlerResolutions counts finished handler resolutions by outcome
	HandlerResolutions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "artifact_gateway_handler_resolutions_total",
		Help: "The number of repository handler resolutions",
	}, []string{"outcome"})

	// HandlerResolutionDuration is the time it takes to resolve a repository
	// to a handler
	HandlerResolutionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "artifact_gateway_handler_resolution_duration_seconds",
		Help:    "The time (in seconds) it takes to resolve a repository handler",
		Buckets: prometheus.DefBuckets,
	})

	// ConfigStoreReads counts configuration store reads by store and outcome
	ConfigStoreReads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "artifact_gateway_config_store_reads_total",
		Help: "The number of configuration store reads",
	}, []string{"store", "outcome"})

	// ConfigStoreReadDuration is the latency of configuration store reads
	ConfigStoreReadDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "artifact_gateway_config_store_read_duration_seconds",
		Help:    "The time (in seconds) a configuration store read takes",
		Buckets: prometheus.DefBuckets,
	}, []string{"store"})

	// DeliveryErrors counts responses that could not be written to the client
	DeliveryErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "artifact_gateway_delivery_errors_total",
		Help: "The number of responses that failed to reach the client",
	})

	// LimitListenerMaxConns is the max number of connections allowed by the listener
	LimitListenerMaxConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "artifact_gateway_limit_listener_max_conns",
		Help: "The maximum number of simultaneous connections accepted by the listeners",
	})

	// LimitListenerConcurrentConns is the number of connections being served
	LimitListenerConcurrentConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "artifact_gateway_limit_listener_concurrent_conns",
		Help: "The number of concurrent connections served by the listeners",
	})

	// LimitListenerWaitingConns is the number of connections waiting for a slot
	LimitListenerWaitingConns = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "artifact_gateway_limit_listener_waiting_conns",
		Help: "The number of connections waiting to be accepted by the listeners",
	})

	// RateLimitSourceIPCacheRequests is the number of source IP limiter cache requests
	RateLimitSourceIPCacheRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "artifact_gateway_rate_limit_source_ip_cache_requests",
		Help: "The number of source_ip cache hits/misses in the rate limiter",
	}, []string{"op", "cache"})

	// RateLimitSourceIPCachedEntries is the number of cached source IP limiters
	RateLimitSourceIPCachedEntries = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "artifact_gateway_rate_limit_source_ip_cached_entries",
		Help: "The number of entries in the source IP rate limiter cache",
	}, []string{"op"})

	// RateLimitSourceIPBlockedCount is the number of requests rejected by the
	// source IP rate limiter
	RateLimitSourceIPBlockedCount = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "artifact_gateway_rate_limit_source_ip_blocked_count",
		Help: "The number of requests rejected by the source IP rate limiter",
	})
)

// MustRegister collectors with a Prometheus registerer.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		RequestsDispatched,
		HandlerResolutions,
		HandlerResolutionDuration,
		ConfigStoreReads,
		ConfigStoreReadDuration,
		DeliveryErrors,
		LimitListenerMaxConns,
		LimitListenerConcurrentConns,
		LimitListenerWaitingConns,
		RateLimitSourceIPCacheRequests,
		RateLimitSourceIPCachedEntries,
		RateLimitSourceIPBlockedCount,
	)
}
