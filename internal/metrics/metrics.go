// Package metrics provides Prometheus metrics for workspace sync operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation outcomes used as the "result" label.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics groups the collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	nodesImported     *prometheus.CounterVec
	filesDeployed     prometheus.Counter
	archiveBytes      *prometheus.CounterVec
	slotWritesTotal   *prometheus.CounterVec
	workspaceNodes    prometheus.Gauge
}

// New registers the collectors with reg. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: reg,
		operationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_operations_total",
				Help: "Total workspace operations by kind and result",
			},
			[]string{"operation", "result"},
		),
		operationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "vault_operation_duration_seconds",
				Help:    "Duration of import, export and deploy operations",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		nodesImported: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_nodes_imported_total",
				Help: "Nodes committed by imports, by source",
			},
			[]string{"source"},
		),
		filesDeployed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "vault_files_deployed_total",
				Help: "Files uploaded to remote repositories",
			},
		),
		archiveBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_archive_bytes_total",
				Help: "Archive bytes read or written",
			},
			[]string{"direction"},
		),
		slotWritesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "vault_slot_writes_total",
				Help: "Durable slot writes by result",
			},
			[]string{"result"},
		),
		workspaceNodes: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "vault_workspace_nodes",
				Help: "Number of nodes in the workspace graph",
			},
		),
	}
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultSuccess
}

// ObserveOperation records one finished operation.
func (m *Metrics) ObserveOperation(op string, started time.Time, err error) {
	if m == nil {
		return
	}
	m.operationsTotal.WithLabelValues(op, result(err)).Inc()
	m.operationDuration.WithLabelValues(op).Observe(time.Since(started).Seconds())
}

// AddImported counts nodes committed by an import.
func (m *Metrics) AddImported(source string, n int) {
	if m == nil {
		return
	}
	m.nodesImported.WithLabelValues(source).Add(float64(n))
}

// AddDeployed counts uploaded files.
func (m *Metrics) AddDeployed(n int) {
	if m == nil {
		return
	}
	m.filesDeployed.Add(float64(n))
}

// AddArchiveBytes counts archive bytes; direction is "in" or "out".
func (m *Metrics) AddArchiveBytes(direction string, n int) {
	if m == nil {
		return
	}
	m.archiveBytes.WithLabelValues(direction).Add(float64(n))
}

// ObserveSlotWrite counts one durable slot write.
func (m *Metrics) ObserveSlotWrite(err error) {
	if m == nil {
		return
	}
	m.slotWritesTotal.WithLabelValues(result(err)).Inc()
}

// SetNodes updates the workspace size gauge.
func (m *Metrics) SetNodes(n int) {
	if m == nil {
		return
	}
	m.workspaceNodes.Set(float64(n))
}

// Handler returns the Prometheus metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
