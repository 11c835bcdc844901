// Package metrics exports the collector's allocation and barrier counters
// as Prometheus collectors: a small set of metric descriptors registered
// once, wrapped in a struct callers pass to gc.Config.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the Prometheus collectors a Collector updates as it runs.
type Metrics struct {
	AllocatedBytes   prometheus.Counter
	AllocatedObjects prometheus.Counter
	Collections      *prometheus.CounterVec
}

// New constructs a Metrics with the given namespace/subsystem, mirroring
// partitioningBlockAllocatorAllocations's naming convention.
func New(namespace, subsystem string) *Metrics {
	return &Metrics{
		AllocatedBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "allocated_bytes_total",
			Help:      "Total bytes requested through Collector.Alloc.",
		}),
		AllocatedObjects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "allocated_objects_total",
			Help:      "Total objects allocated through Collector.Alloc.",
		}),
		Collections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "collections_total",
			Help:      "Total collection cycles run, labeled by generation.",
		}, []string{"generation"}),
	}
}

// MustRegister registers every collector in m with reg.
func (m *Metrics) MustRegister(reg prometheus.Registerer) {
	reg.MustRegister(m.AllocatedBytes, m.AllocatedObjects, m.Collections)
}

// ObserveAlloc records one successful allocation of sizeInBytes bytes.
func (m *Metrics) ObserveAlloc(sizeInBytes float64) {
	m.AllocatedBytes.Add(sizeInBytes)
	m.AllocatedObjects.Inc()
}

// ObserveCycle records one completed collection cycle for the generation
// numbered gen (0 or 1).
func (m *Metrics) ObserveCycle(gen int) {
	label := "0"
	if gen == 1 {
		label = "1"
	}
	m.Collections.WithLabelValues(label).Inc()
}
