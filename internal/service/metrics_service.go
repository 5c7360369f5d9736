package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and
// the scheduling domain.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	placements      *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	shareEvents     *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	openSessions    prometheus.Gauge
}

// NewMetricsService registers core Prometheus collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	placements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_placements_total",
		Help: "Accepted scheduling operations by kind",
	}, []string{"kind"})

	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_rejections_total",
		Help: "Rejected scheduling operations by error code",
	}, []string{"code"})

	shareEvents := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "share_requests_total",
		Help: "Share protocol transitions by resulting status",
	}, []string{"status"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_hits_total",
		Help: "Total catalog cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_cache_misses_total",
		Help: "Total catalog cache misses",
	})

	openSessions := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "schedule_sessions_open",
		Help: "Currently open scheduling sessions",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, placements, rejections, shareEvents, cacheHits, cacheMisses, openSessions, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		placements:      placements,
		rejections:      rejections,
		shareEvents:     shareEvents,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		openSessions:    openSessions,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordPlacement counts an accepted scheduling operation.
func (m *MetricsService) RecordPlacement(kind string) {
	if m == nil {
		return
	}
	m.placements.WithLabelValues(kind).Inc()
}

// RecordRejection counts a rejected scheduling operation by error code.
func (m *MetricsService) RecordRejection(code string) {
	if m == nil {
		return
	}
	m.rejections.WithLabelValues(code).Inc()
}

// RecordShareTransition counts a share protocol transition.
func (m *MetricsService) RecordShareTransition(status string) {
	if m == nil {
		return
	}
	m.shareEvents.WithLabelValues(status).Inc()
}

// RecordCacheLookup counts a catalog cache hit or miss.
func (m *MetricsService) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// SetOpenSessions tracks the live session count.
func (m *MetricsService) SetOpenSessions(n int) {
	if m == nil {
		return
	}
	m.openSessions.Set(float64(n))
}
