// Package metrics counts plant resolutions on a private Prometheus registry.
// A run can dump the registry to a node-exporter textfile when it ends.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/pvgridgo/internal/pverr"
)

const namespace = "pvgridgo"

// Metrics groups the collectors updated by the app.
type Metrics struct {
	registry *prometheus.Registry

	plantsResolved prometheus.Counter
	plantFailures  *prometheus.CounterVec
	capacityKW     prometheus.Gauge
	footprintArea  prometheus.Histogram
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		plantsResolved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plants_resolved_total",
			Help:      "Plants successfully resolved and pushed to the engine.",
		}),
		plantFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "plant_failures_total",
			Help:      "Plants rejected during configuration or resolution, by error kind.",
		}, []string{"kind"}),
		capacityKW: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "resolved_capacity_kw",
			Help:      "Total nameplate capacity of the resolved plants.",
		}),
		footprintArea: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "plant_footprint_area_square_meters",
			Help:      "Module footprint area of resolved plants.",
			Buckets:   prometheus.ExponentialBuckets(100, 10, 6),
		}),
	}
	m.registry.MustRegister(m.plantsResolved, m.plantFailures, m.capacityKW, m.footprintArea)
	return m
}

// ObserveResolved records a successfully resolved plant.
func (m *Metrics) ObserveResolved(capacityKW, footprintArea float64) {
	m.plantsResolved.Inc()
	m.capacityKW.Add(capacityKW)
	m.footprintArea.Observe(footprintArea)
}

// ObserveFailure records a rejected plant under the kind of err.
func (m *Metrics) ObserveFailure(err error) {
	m.plantFailures.WithLabelValues(pverr.KindOf(err)).Inc()
}

// Registry exposes the underlying registry, for scraping or tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteTextfile writes the current values in text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
