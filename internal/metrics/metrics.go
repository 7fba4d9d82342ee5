// Package metrics exposes the Prometheus metrics for the HTTP surface and
// the alignment engine itself: build outcomes, query dispatch counts, and
// fallback usage.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scopealign_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"path", "method", "code"},
	)

	httpDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "scopealign_http_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method"},
	)

	buildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scopealign_builds_total",
			Help: "Total number of Initialise calls, by outcome.",
		},
		[]string{"outcome"}, // "ok" or an error kind
	)

	buildDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scopealign_build_duration_seconds",
			Help:    "Time spent in Initialise.",
			Buckets: prometheus.DefBuckets,
		},
	)

	syncPointsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "scopealign_sync_points",
			Help: "Number of sync points in the currently built model.",
		},
	)

	queriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scopealign_queries_total",
			Help: "Total number of alignment queries, by direction and dispatch case.",
		},
		[]string{"direction", "state"}, // direction: celestial_to_telescope|telescope_to_celestial
	)

	queryFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "scopealign_query_fallbacks_total",
			Help: "Number of N>=4 queries that missed every hull facet and used the nearest-neighbor fallback.",
		},
		[]string{"direction"},
	)

	facetScanLength = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "scopealign_facet_scan_length",
			Help:    "Number of non-skirt facets scanned before a hit or falling back to nearest-neighbor.",
			Buckets: []float64{1, 2, 4, 8, 16, 32, 64, 128, 256},
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal,
		httpDurationSeconds,
		buildsTotal,
		buildDurationSeconds,
		syncPointsGauge,
		queriesTotal,
		queryFallbacksTotal,
		facetScanLength,
	)
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and duration for each request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		code := strconv.Itoa(rw.statusCode)
		path := normalizeRoute(r.URL.Path)

		httpRequestsTotal.WithLabelValues(path, r.Method, code).Inc()
		httpDurationSeconds.WithLabelValues(path, r.Method).Observe(duration)
	})
}

// knownRoutes is the fixed set of paths the API server serves. Anything
// else collapses to "other" so stray bot/scanner traffic can't blow up the
// cardinality of the path label.
var knownRoutes = map[string]bool{
	"/healthz":                             true,
	"/readyz":                              true,
	"/metrics":                             true,
	"/api/v1/sync":                         true,
	"/api/v1/align/initialise":             true,
	"/api/v1/align/celestial-to-telescope": true,
	"/api/v1/align/telescope-to-celestial": true,
}

func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// ObserveBuild records the outcome and duration of an Initialise call.
func ObserveBuild(outcome string, duration time.Duration, nSyncPoints int) {
	buildsTotal.WithLabelValues(outcome).Inc()
	buildDurationSeconds.Observe(duration.Seconds())
	if outcome == "ok" {
		syncPointsGauge.Set(float64(nSyncPoints))
	} else {
		// A failed build leaves the engine with no model.
		syncPointsGauge.Set(0)
	}
}

// ObserveQuery records one query by direction and the engine state that
// answered it.
func ObserveQuery(direction, state string) {
	queriesTotal.WithLabelValues(direction, state).Inc()
}

// ObserveFallback records that a query had to use the nearest-neighbor
// fallback instead of a direct facet hit.
func ObserveFallback(direction string) {
	queryFallbacksTotal.WithLabelValues(direction).Inc()
}

// ObserveFacetScanLength records how many facets were scanned before a hit
// or the decision to fall back.
func ObserveFacetScanLength(n int) {
	facetScanLength.Observe(float64(n))
}
