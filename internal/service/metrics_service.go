package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for both the local
// HTTP surface and the outbound calls to the remote service.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	outboundDuration *prometheus.HistogramVec
	outboundTotal    *prometheus.CounterVec
	uploadsTotal     *prometheus.CounterVec
	generationsTotal *prometheus.CounterVec
}

// NewMetricsService registers the core Prometheus collectors.
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

	outboundDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of calls to the remote result service",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "status"})

	outboundTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Total calls to the remote result service",
	}, []string{"endpoint", "status"})

	uploadsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sheet_uploads_total",
		Help: "Result-sheet submissions by outcome",
	}, []string{"outcome"})

	generationsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "result_generations_total",
		Help: "Generated results by tier",
	}, []string{"premium"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, outboundDuration, outboundTotal, uploadsTotal, generationsTotal, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:         registry,
		handler:          handler,
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		outboundDuration: outboundDuration,
		outboundTotal:    outboundTotal,
		uploadsTotal:     uploadsTotal,
		generationsTotal: generationsTotal,
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

// ObserveHTTPRequest records inbound request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveOutbound records timing for a call to the remote service. Status 0
// means the request never produced a response.
func (m *MetricsService) ObserveOutbound(endpoint string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.outboundDuration.WithLabelValues(endpoint, labelStatus).Observe(duration.Seconds())
	m.outboundTotal.WithLabelValues(endpoint, labelStatus).Inc()
}

// RecordUpload counts a sheet submission by outcome (ok, stale, failed).
func (m *MetricsService) RecordUpload(outcome string) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(outcome).Inc()
}

// RecordGeneration counts a generated result by tier.
func (m *MetricsService) RecordGeneration(premium bool) {
	if m == nil {
		return
	}
	m.generationsTotal.WithLabelValues(fmt.Sprintf("%t", premium)).Inc()
}
