// Package httpapi is the HTTP query surface over the dataset service. It
// binds query parameters, translates domain errors to JSON responses, and
// leaves all computation to internal/service.
package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/camilodvr/censopueblos/internal/platform/metrics"
	"github.com/camilodvr/censopueblos/internal/runtime"
	"github.com/camilodvr/censopueblos/internal/service"
)

// Handler serves the query API endpoints.
type Handler struct {
	svc     *service.Service
	log     zerolog.Logger
	metrics *metrics.Metrics
}

// NewHandler constructs the handler around the dataset service.
func NewHandler(svc *service.Service, log zerolog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{svc: svc, log: log, metrics: m}
}

// NewRouter wires all endpoints with request-ID, logging, limiter, and
// metrics middleware.
func NewRouter(h *Handler, ctrl *runtime.Controller, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(h.logRequests)
	r.Use(runtime.NewMiddleware(ctrl).HTTPMiddleware)

	r.Get("/options", h.handleOptions)
	r.Get("/aggregate", h.handleAggregate)
	r.Get("/by_people", h.handleByPeople)
	r.Get("/download_report", h.handleDownloadReport)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return r
}

type ctxKey string

const requestIDKey ctxKey = "request_id"

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), id)))
	})
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		elapsed := time.Since(start)
		h.metrics.ObserveRequest(r.URL.Path, strconv.Itoa(sw.status), elapsed)
		h.log.Info().
			Str("request_id", getRequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", elapsed).
			Msg("request served")
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
