// Package metrics exposes Prometheus collectors for the forms service.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	formsSubmissionsTotal      *prometheus.CounterVec
	sheetSyncsTotal            *prometheus.CounterVec
	uploadsTotal               *prometheus.CounterVec
	uploadBytesTotal           *prometheus.CounterVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		formsSubmissionsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forms_submissions_total",
				Help: "Total number of form submissions, labeled by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		)

		sheetSyncsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forms_sheet_syncs_total",
				Help: "Total number of spreadsheet sync attempts, labeled by sheet and outcome.",
			},
			[]string{"sheet", "outcome"},
		)

		uploadsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forms_uploads_total",
				Help: "Total number of file uploads, labeled by kind and outcome.",
			},
			[]string{"kind", "outcome"},
		)

		uploadBytesTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forms_upload_bytes_total",
				Help: "Total number of upload bytes accepted, labeled by kind.",
			},
			[]string{"kind"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// Handler returns an http.Handler for exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveSubmission increments the submission counter for the given form
// kind and outcome ("accepted" or "rejected" or "error").
func ObserveSubmission(kind, outcome string) {
	formsSubmissionsTotal.WithLabelValues(kind, outcome).Inc()
}

// ObserveSheetSync increments the sheet sync counter. Outcome is the
// logged boolean from the sync attempt.
func ObserveSheetSync(sheet string, synced bool) {
	outcome := "failure"
	if synced {
		outcome = "success"
	}
	sheetSyncsTotal.WithLabelValues(sheet, outcome).Inc()
}

// ObserveUpload increments the upload counters for the given kind.
func ObserveUpload(kind, outcome string, bytesStored int64) {
	uploadsTotal.WithLabelValues(kind, outcome).Inc()
	if bytesStored > 0 {
		uploadBytesTotal.WithLabelValues(kind).Add(float64(bytesStored))
	}
}

// ObserveHTTPRequest increments the HTTP request metrics.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Middleware records request counts and latencies for every route.
// Init must have been called before the first request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(ww, r)

		routePattern := chi.RouteContext(r.Context()).RoutePattern()
		if routePattern == "" {
			routePattern = "unmatched"
		}
		ObserveHTTPRequest(r.Method, routePattern, ww.status, time.Since(start))
	})
}

type responseWriter struct {
	http.ResponseWriter
	status int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}
