// Package metrics defines the Prometheus collectors exported on /metrics.
//
//	defer metrics.ObserveStore("Locations", "near", time.Now())
//	metrics.RecordRatingRecompute("Events", err)
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestDuration is labelled by the chi route pattern, not the raw path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_operation_duration_seconds",
			Help:    "Duration of document store operations in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"collection", "operation"},
	)

	StoreReadRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_read_retries_total",
			Help: "Total number of retried document store reads",
		},
		[]string{"collection", "operation"},
	)

	RatingRecomputes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rating_recomputes_total",
			Help: "Total number of rating recomputations by outcome",
		},
		[]string{"collection", "outcome"},
	)

	DomainEventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "domain_events_published_total",
			Help: "Total number of domain events published by outcome",
		},
		[]string{"event", "outcome"},
	)

	CodelistCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codelist_cache_lookups_total",
			Help: "Codelist cache lookups by result",
		},
		[]string{"result"},
	)
)

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveStore records the duration since start.
func ObserveStore(collection, operation string, start time.Time) {
	StoreOperationDuration.WithLabelValues(collection, operation).Observe(time.Since(start).Seconds())
}

func RecordReadRetry(collection, operation string) {
	StoreReadRetries.WithLabelValues(collection, operation).Inc()
}

func RecordRatingRecompute(collection string, err error) {
	RatingRecomputes.WithLabelValues(collection, outcome(err)).Inc()
}

func RecordDomainEvent(event string, err error) {
	DomainEventsPublished.WithLabelValues(event, outcome(err)).Inc()
}

func RecordCodelistLookup(hit bool) {
	if hit {
		CodelistCacheLookups.WithLabelValues("hit").Inc()
		return
	}
	CodelistCacheLookups.WithLabelValues("miss").Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
