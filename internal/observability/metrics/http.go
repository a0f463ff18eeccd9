package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPServerMetrics holds a private registry so tests can create multiple
// instances without duplicate-registration panics.
type HTTPServerMetrics struct {
	registry *prometheus.Registry

	requestTotal    *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	requestInFlight prometheus.Gauge

	queryRequestsTotal *prometheus.CounterVec
	retrievalHitTotal  *prometheus.CounterVec
	noContextTotal     *prometheus.CounterVec
	retrievedPassages  *prometheus.HistogramVec
	queryDuration      *prometheus.HistogramVec

	documentsIndexedTotal *prometheus.CounterVec
	documentsDeletedTotal *prometheus.CounterVec
	documentsRegistered   prometheus.Gauge
}

func NewHTTPServerMetrics(service string) *HTTPServerMetrics {
	registry := prometheus.NewRegistry()

	requestTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docuquery",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests processed.",
		},
		[]string{"service", "method", "path", "status"},
	)
	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docuquery",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "method", "path"},
	)
	requestInFlight := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docuquery",
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Number of in-flight HTTP requests.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)
	queryRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docuquery",
			Subsystem: "retrieval",
			Name:      "requests_total",
			Help:      "Total successful retrieval requests.",
		},
		[]string{"service", "endpoint"},
	)
	retrievalHitTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docuquery",
			Subsystem: "retrieval",
			Name:      "hit_total",
			Help:      "Total retrieval requests with at least one scored passage.",
		},
		[]string{"service", "endpoint"},
	)
	noContextTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docuquery",
			Subsystem: "retrieval",
			Name:      "no_context_total",
			Help:      "Total retrieval requests without scored passages.",
		},
		[]string{"service", "endpoint"},
	)
	retrievedPassages := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docuquery",
			Subsystem: "retrieval",
			Name:      "passages",
			Help:      "Distribution of returned passages per successful request.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
		[]string{"service", "endpoint"},
	)
	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "docuquery",
			Subsystem: "retrieval",
			Name:      "duration_seconds",
			Help:      "Retrieval execution duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"service", "endpoint"},
	)
	documentsIndexedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docuquery",
			Subsystem: "documents",
			Name:      "indexed_total",
			Help:      "Total documents indexed since startup.",
		},
		[]string{"service", "kind"},
	)
	documentsDeletedTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "docuquery",
			Subsystem: "documents",
			Name:      "deleted_total",
			Help:      "Total documents deleted since startup.",
		},
		[]string{"service"},
	)
	documentsRegistered := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "docuquery",
			Subsystem: "documents",
			Name:      "registered",
			Help:      "Documents currently held in the registry.",
			ConstLabels: prometheus.Labels{
				"service": service,
			},
		},
	)

	registry.MustRegister(
		requestTotal,
		requestDuration,
		requestInFlight,
		queryRequestsTotal,
		retrievalHitTotal,
		noContextTotal,
		retrievedPassages,
		queryDuration,
		documentsIndexedTotal,
		documentsDeletedTotal,
		documentsRegistered,
	)

	return &HTTPServerMetrics{
		registry:              registry,
		requestTotal:          requestTotal,
		requestDuration:       requestDuration,
		requestInFlight:       requestInFlight,
		queryRequestsTotal:    queryRequestsTotal,
		retrievalHitTotal:     retrievalHitTotal,
		noContextTotal:        noContextTotal,
		retrievedPassages:     retrievedPassages,
		queryDuration:         queryDuration,
		documentsIndexedTotal: documentsIndexedTotal,
		documentsDeletedTotal: documentsDeletedTotal,
		documentsRegistered:   documentsRegistered,
	}
}

func (m *HTTPServerMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *HTTPServerMetrics) Middleware(service string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		path := normalizePath(r.URL.Path)
		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		m.requestInFlight.Inc()
		defer m.requestInFlight.Dec()

		next.ServeHTTP(recorder, r)

		m.requestTotal.WithLabelValues(
			service,
			r.Method,
			path,
			strconv.Itoa(recorder.statusCode),
		).Inc()
		m.requestDuration.WithLabelValues(service, r.Method, path).Observe(time.Since(start).Seconds())
	})
}

func normalizePath(path string) string {
	switch {
	case strings.HasPrefix(path, "/api/documents/"):
		return "/api/documents/{doc_id}"
	default:
		return path
	}
}

func (m *HTTPServerMetrics) RecordRetrieval(service, endpoint string, passageCount int, duration time.Duration) {
	m.queryRequestsTotal.WithLabelValues(service, endpoint).Inc()
	m.retrievedPassages.WithLabelValues(service, endpoint).Observe(float64(passageCount))
	m.queryDuration.WithLabelValues(service, endpoint).Observe(duration.Seconds())

	if passageCount > 0 {
		m.retrievalHitTotal.WithLabelValues(service, endpoint).Inc()
		return
	}
	m.noContextTotal.WithLabelValues(service, endpoint).Inc()
}

func (m *HTTPServerMetrics) RecordDocumentIndexed(service, kind string) {
	if kind == "" {
		kind = "unknown"
	}
	m.documentsIndexedTotal.WithLabelValues(service, kind).Inc()
}

func (m *HTTPServerMetrics) RecordDocumentsDeleted(service string, count int) {
	if count <= 0 {
		return
	}
	m.documentsDeletedTotal.WithLabelValues(service).Add(float64(count))
}

func (m *HTTPServerMetrics) SetDocumentsRegistered(count int) {
	m.documentsRegistered.Set(float64(count))
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusRecorder) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *statusRecorder) Flush() {
	flusher, ok := w.ResponseWriter.(http.Flusher)
	if ok {
		flusher.Flush()
	}
}

func (w *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not implement http.Hijacker")
	}
	return hijacker.Hijack()
}

func (w *statusRecorder) Push(target string, opts *http.PushOptions) error {
	pusher, ok := w.ResponseWriter.(http.Pusher)
	if !ok {
		return http.ErrNotSupported
	}
	return pusher.Push(target, opts)
}
