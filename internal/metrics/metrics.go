// Package metrics exposes Prometheus instrumentation for the Bookly server.
package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/booklyapp/bookly-server/internal/store"
)

var (
	// HTTP metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookly_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookly_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	RateLimitedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookly_http_rate_limited_total",
			Help: "Requests rejected by the per-client rate limiter",
		},
	)

	// Store metrics
	StoreOperationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bookly_store_operation_duration_seconds",
			Help:    "Duration of document store calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookly_store_errors_total",
			Help: "Total number of failed document store calls",
		},
		[]string{"operation"},
	)

	BooksStored = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "bookly_books_stored",
			Help: "Number of book documents in the collection",
		},
	)

	MalformedDocuments = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookly_malformed_documents_total",
			Help: "Stored documents skipped because they are not well-formed books",
		},
	)

	// Recommendation metrics
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bookly_recommendations_total",
			Help: "Recommendation requests by outcome (matched, empty, error)",
		},
		[]string{"outcome"},
	)

	RecommendationCandidates = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "bookly_recommendation_candidates",
			Help:    "Number of mood-matching candidates per recommendation",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)
)

// Recommendation outcomes.
const (
	OutcomeMatched = "matched"
	OutcomeEmpty   = "empty"
	OutcomeError   = "error"
)

// RecordAPIRequest records an HTTP request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordStoreOperation records one store call.
func RecordStoreOperation(operation string, duration time.Duration, err error) {
	StoreOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		StoreErrors.WithLabelValues(operation).Inc()
	}
}

// RecordRecommendation records a completed recommendation. Pass err for
// failed requests; candidates is ignored then.
func RecordRecommendation(candidates int, err error) {
	switch {
	case err != nil:
		RecommendationsTotal.WithLabelValues(OutcomeError).Inc()
		return
	case candidates == 0:
		RecommendationsTotal.WithLabelValues(OutcomeEmpty).Inc()
	default:
		RecommendationsTotal.WithLabelValues(OutcomeMatched).Inc()
	}
	RecommendationCandidates.Observe(float64(candidates))
}

// RecordMalformedDocument counts a skipped document.
func RecordMalformedDocument() {
	MalformedDocuments.Inc()
}

// BookCounter is the part of a store SyncBooksStored needs.
type BookCounter interface {
	CountBooks(ctx context.Context) (int, error)
}

// SyncBooksStored sets BooksStored from the collection's current size.
// StoreEmitter only sees changes, so this runs once after the store opens.
func SyncBooksStored(ctx context.Context, c BookCounter) error {
	n, err := c.CountBooks(ctx)
	if err != nil {
		return err
	}
	BooksStored.Set(float64(n))
	return nil
}

// StoreEmitter keeps BooksStored in step with store change events.
type StoreEmitter struct{}

var _ store.EventEmitter = StoreEmitter{}

// Emit implements store.EventEmitter.
func (StoreEmitter) Emit(event any) {
	switch e := event.(type) {
	case store.BookCreatedEvent:
		BooksStored.Inc()
	case store.BooksReplacedEvent:
		BooksStored.Set(float64(e.Count))
	}
}
