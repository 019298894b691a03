// Package metrics exposes the scoring engine's Prometheus instrumentation
// on a private registry, so embedding programs never collide with the
// default global registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "molscore"

// EngineMetrics holds every metric of the scoring and diversity engine.
type EngineMetrics struct {
	StructuresScored     prometheus.Counter
	InvalidStructures    prometheus.Counter
	SuppressedStructures prometheus.Counter
	AdmittedStructures   prometheus.Counter
	AlertMatches         prometheus.Counter
	ComponentFailures    *prometheus.CounterVec

	TotalScore        prometheus.Histogram
	BatchDuration     prometheus.Histogram
	ComponentDuration *prometheus.HistogramVec

	DiversityBuckets prometheus.Gauge
	InceptionSeeds   prometheus.Gauge

	registry *prometheus.Registry
}

// NewEngineMetrics registers all engine metrics on a fresh registry.
func NewEngineMetrics() *EngineMetrics {
	registry := prometheus.NewRegistry()

	m := &EngineMetrics{
		StructuresScored: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structures_scored_total",
			Help:      "Structures submitted to the scoring pipeline",
		}),
		InvalidStructures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structures_invalid_total",
			Help:      "Structures that failed to parse or evaluate",
		}),
		SuppressedStructures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structures_suppressed_total",
			Help:      "Structures zeroed by the diversity filter",
		}),
		AdmittedStructures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "structures_admitted_total",
			Help:      "Structures admitted into diversity buckets",
		}),
		AlertMatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_matches_total",
			Help:      "Structures matching a disallowed substructure pattern",
		}),
		ComponentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "component_failures_total",
			Help:      "Per-structure component evaluation failures",
		}, []string{"component"}),
		TotalScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "total_score",
			Help:      "Distribution of final per-structure scores",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_duration_seconds",
			Help:      "End-to-end batch scoring duration",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		ComponentDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "component_duration_seconds",
			Help:      "Per-component evaluation duration over one batch",
			Buckets:   []float64{.001, .005, .01, .05, .1, .5, 1, 5},
		}, []string{"component"}),
		DiversityBuckets: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "diversity_buckets",
			Help:      "Number of diversity-filter buckets created",
		}),
		InceptionSeeds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inception_seeds",
			Help:      "Seeds currently retained in inception memory",
		}),
		registry: registry,
	}

	registry.MustRegister(
		m.StructuresScored,
		m.InvalidStructures,
		m.SuppressedStructures,
		m.AdmittedStructures,
		m.AlertMatches,
		m.ComponentFailures,
		m.TotalScore,
		m.BatchDuration,
		m.ComponentDuration,
		m.DiversityBuckets,
		m.InceptionSeeds,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *EngineMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for test scraping.
func (m *EngineMetrics) Registry() *prometheus.Registry {
	return m.registry
}
