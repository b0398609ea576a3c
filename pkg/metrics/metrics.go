// Package metrics provides the prometheus collectors of the settings service.
// Every instance owns its registry so tests and the CLI never collide with the server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks store operations, schema migrations, workflow events and HTTP traffic
type Metrics struct {
	registry *prometheus.Registry

	StoreOperations  *prometheus.CounterVec
	StoreDuration    *prometheus.HistogramVec
	SchemaDecodes    *prometheus.CounterVec
	ListenerFailures *prometheus.CounterVec
	WorkflowEvents   *prometheus.CounterVec
	BlockedCountries prometheus.Gauge
	WebsocketClients prometheus.Gauge
	HTTPRequests     *prometheus.CounterVec
	HTTPDuration     *prometheus.HistogramVec
}

// New creates a Metrics instance registered on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		StoreOperations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geogate_store_operations_total",
			Help: "Settings store operations by operation and result",
		}, []string{"operation", "result"}),
		StoreDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geogate_store_operation_duration_seconds",
			Help:    "Duration of settings store operations, artificial latency included",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.3, 0.5, 1, 2.5},
		}, []string{"operation"}),
		SchemaDecodes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geogate_schema_decodes_total",
			Help: "Stored documents decoded, by outcome (empty, current, migrated, corrupt)",
		}, []string{"outcome"}),
		ListenerFailures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geogate_listener_failures_total",
			Help: "Change listener failures by listener",
		}, []string{"listener"}),
		WorkflowEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geogate_workflow_events_total",
			Help: "Workflow events by workflow and event",
		}, []string{"workflow", "event"}),
		BlockedCountries: f.NewGauge(prometheus.GaugeOpts{
			Name: "geogate_blocked_countries",
			Help: "Number of countries currently blocked",
		}),
		WebsocketClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "geogate_websocket_clients",
			Help: "Open admin console websocket connections",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "geogate_http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "geogate_http_request_duration_seconds",
			Help:    "HTTP request duration by route",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveStore records one store operation.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveStore(op string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.StoreOperations.WithLabelValues(op, result).Inc()
	m.StoreDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// SchemaDecoded records how a stored document was interpreted
func (m *Metrics) SchemaDecoded(outcome string) {
	if m == nil {
		return
	}
	m.SchemaDecodes.WithLabelValues(outcome).Inc()
}

// ListenerFailed records a failed change notification
func (m *Metrics) ListenerFailed(listener string) {
	if m == nil {
		return
	}
	m.ListenerFailures.WithLabelValues(listener).Inc()
}

// WorkflowEvent records a workflow event such as "commit" or "rejected"
func (m *Metrics) WorkflowEvent(workflow, event string) {
	if m == nil {
		return
	}
	m.WorkflowEvents.WithLabelValues(workflow, event).Inc()
}

// SetBlockedCountries updates the blocked countries gauge
func (m *Metrics) SetBlockedCountries(n int) {
	if m == nil {
		return
	}
	m.BlockedCountries.Set(float64(n))
}

// WebsocketConnected adjusts the open connection gauge by delta
func (m *Metrics) WebsocketConnected(delta int) {
	if m == nil {
		return
	}
	m.WebsocketClients.Add(float64(delta))
}

// ObserveHTTP records one HTTP request
func (m *Metrics) ObserveHTTP(method, route string, status int, start time.Time) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}
