// Package metrics exports store activity as Prometheus metrics.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"golang.org/x/sys/unix"

	"github.com/KilimcininKorOglu/xenstore/internal/errno"
	"github.com/KilimcininKorOglu/xenstore/internal/store"
)

// Result label values. Failures are labeled with the lowercase errno name.
const (
	ResultOK          = "ok"
	ResultNotFound    = "enoent"
	ResultInvalid     = "einval"
	ResultTooLarge    = "e2big"
	ResultQuota       = "enospc"
	ResultUnsupported = "enosys"
	ResultPermission  = "eacces"
	ResultOther       = "error"
)

// Metrics implements store.Recorder on a private registry.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	nodes      prometheus.Gauge
}

var _ store.Recorder = (*Metrics)(nil)

// New creates the store metrics and registers them on a fresh registry.
func New(namespace string) *Metrics {
	if namespace == "" {
		namespace = "xenstore"
	}
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Store operations by operation and result.",
		}, []string{"op", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Store operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10), // 1µs to ~260ms
		}, []string{"op"}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "nodes",
			Help:      "Nodes in the live tree, root included.",
		}),
	}
	m.registry.MustRegister(m.operations, m.duration, m.nodes)
	return m
}

// Registry returns the registry holding the store metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveOp records one completed operation.
func (m *Metrics) ObserveOp(op string, err error, elapsed time.Duration) {
	m.operations.WithLabelValues(op, Result(err)).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// SetNodeCount records the current node count.
func (m *Metrics) SetNodeCount(n uint) {
	m.nodes.Set(float64(n))
}

// Result returns the result label for an operation error: "ok", the
// lowercase errno name a client would see, or "error" for anything that
// maps to EIO.
func Result(err error) string {
	if err == nil {
		return ResultOK
	}
	e := errno.Of(err)
	if e == unix.EIO {
		return ResultOther
	}
	return strings.ToLower(unix.ErrnoName(e))
}

// Sample is one operation counter value.
type Sample struct {
	Op     string
	Result string
	Count  float64
}

// Counts returns the current operation counters, in registry order.
func (m *Metrics) Counts() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}
	var samples []Sample
	for _, family := range families {
		if family.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, metric := range family.GetMetric() {
			sample := Sample{Count: metric.GetCounter().GetValue()}
			for _, label := range metric.GetLabel() {
				switch label.GetName() {
				case "op":
					sample.Op = label.GetValue()
				case "result":
					sample.Result = label.GetValue()
				}
			}
			samples = append(samples, sample)
		}
	}
	return samples, nil
}
