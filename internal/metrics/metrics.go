package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/DRSN-tech/cocktail-search/pkg/e"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики поискового сервиса:
// - длительность и исход запросов поиска
// - пропущенные при ранжировании кандидаты
// - эффективность кэша запросов
// - вызовы внешнего эмбеддера
// - события инвалидации из Kafka
// - HTTP-запросы

var (
	// Поисковые запросы
	SearchQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_query_duration_seconds",
			Help:    "Duration of search queries in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)

	SearchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_queries_total",
			Help: "Total number of search queries by outcome",
		},
		[]string{"operation", "outcome"}, // "ok", "not_found", "invalid_argument", "embedding_unavailable", "storage_unavailable", "canceled", "internal"
	)

	SearchResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "search_result_size",
			Help:    "Number of records returned by a search query",
			Buckets: []float64{0, 1, 5, 10, 15, 25, 50},
		},
		[]string{"operation"},
	)

	SearchSkippedCandidates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "search_skipped_candidates_total",
			Help: "Candidates skipped during ranking because of zero norm or dimension mismatch",
		},
		[]string{"kind", "field"},
	)

	// Кэш запросов
	QueryCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_hits_total",
			Help: "Total number of query cache hits",
		},
		[]string{"operation"},
	)

	QueryCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_misses_total",
			Help: "Total number of query cache misses",
		},
		[]string{"operation"},
	)

	QueryCacheErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "query_cache_errors_total",
			Help: "Total number of query cache errors ignored by the search path",
		},
		[]string{"stage"}, // "get", "set", "invalidate"
	)

	// Эмбеддер
	EmbedderRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedder_request_duration_seconds",
			Help:    "Duration of external embedder calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	EmbedderRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedder_requests_total",
			Help: "Total number of external embedder calls by result",
		},
		[]string{"result"}, // "ok", "error", "rejected"
	)

	// Kafka
	InvalidationEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "invalidation_events_total",
			Help: "Total number of upsert events consumed from Kafka",
		},
		[]string{"entity", "result"},
	)

	// HTTP
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)
)

// Outcome сводит ошибку запроса к метке исхода.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, e.ErrNotFound):
		return "not_found"
	case errors.Is(err, e.ErrInvalidArgument):
		return "invalid_argument"
	case errors.Is(err, e.ErrEmbeddingUnavailable):
		return "embedding_unavailable"
	case errors.Is(err, e.ErrStorageUnavailable):
		return "storage_unavailable"
	default:
		return "internal"
	}
}

// RecordSearchQuery фиксирует длительность, исход и размер результата поискового запроса.
func RecordSearchQuery(operation string, duration time.Duration, resultSize int, err error) {
	SearchQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	SearchQueriesTotal.WithLabelValues(operation, Outcome(err)).Inc()
	if err == nil {
		SearchResultSize.WithLabelValues(operation).Observe(float64(resultSize))
	}
}

func RecordSkippedCandidates(kind, field string, n int) {
	if n > 0 {
		SearchSkippedCandidates.WithLabelValues(kind, field).Add(float64(n))
	}
}

func RecordCacheLookup(operation string, hit bool) {
	if hit {
		QueryCacheHits.WithLabelValues(operation).Inc()
		return
	}
	QueryCacheMisses.WithLabelValues(operation).Inc()
}

func RecordCacheError(stage string) {
	QueryCacheErrors.WithLabelValues(stage).Inc()
}

func RecordEmbedderRequest(duration time.Duration, result string) {
	EmbedderRequestDuration.Observe(duration.Seconds())
	EmbedderRequestsTotal.WithLabelValues(result).Inc()
}

func RecordInvalidationEvent(entity string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	InvalidationEventsTotal.WithLabelValues(entity, result).Inc()
}

func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
