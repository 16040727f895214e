// Package metrics expone métricas Prometheus del servicio: composición de documentos y HTTP.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Maiar0/inventory-web-backend/internal/application/ports"
)

var _ ports.ComposeMetrics = (*Metrics)(nil)

// Metrics registry propio más los colectores de la aplicación.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	composeTotal    *prometheus.CounterVec
	composeDuration *prometheus.HistogramVec
	composeLines    *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// New inicializa el registry con las métricas del proceso y de Go.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	composeTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_documents_composed_total",
		Help: "Documentos procesados por tipo y resultado.",
	}, []string{"kind", "outcome"})
	composeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_document_compose_duration_seconds",
		Help:    "Duración de la composición (validación + transacción).",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	composeLines := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_document_lines",
		Help:    "Líneas por documento creado.",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
	}, []string{"kind"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "inventory_http_requests_total",
		Help: "Peticiones HTTP por método, ruta y status.",
	}, []string{"method", "route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inventory_http_request_duration_seconds",
		Help:    "Duración de peticiones HTTP por ruta.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		composeTotal, composeDuration, composeLines, requests, duration,
	)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		composeTotal:    composeTotal,
		composeDuration: composeDuration,
		composeLines:    composeLines,
		requestsTotal:   requests,
		requestDuration: duration,
	}
}

// Handler devuelve el http.Handler para /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveCompose registra un intento de composición. lines solo cuenta en documentos creados.
func (m *Metrics) ObserveCompose(kind, outcome string, lines int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.composeTotal.WithLabelValues(kind, outcome).Inc()
	m.composeDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if outcome == "created" {
		m.composeLines.WithLabelValues(kind).Observe(float64(lines))
	}
}

// ObserveHTTP registra una petición ya respondida. route es el patrón, no la URL.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	m.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
