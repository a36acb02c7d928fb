package tasks

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Operation labels.
const (
	opLoad   = "load"
	opAdd    = "add"
	opUpdate = "update"
	opDelete = "delete"
	opToggle = "toggle"
)

// Status labels.
const (
	statusSuccess = "success"
	statusNoop    = "noop"
	statusError   = "error"
)

// Metrics counts task store operations by outcome and times them.
type Metrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewMetrics creates the task metrics and registers them with reg.
// A nil reg leaves the metrics unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taskboard_task_operations_total",
				Help: "Total number of task store operations by outcome",
			},
			[]string{"op", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taskboard_task_operation_duration_seconds",
				Help:    "Duration of task store operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}
}

// observe records one finished operation.
func (m *Metrics) observe(op string, start time.Time, status string) {
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	m.operations.WithLabelValues(op, status).Inc()
}
