// Package metrics exposes Prometheus instrumentation for the pipeline
// stages.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all pipeline metrics.
type Registry struct {
	StageDuration *prometheus.HistogramVec

	RowsFeatured             prometheus.Counter
	AnomaliesFlagged         *prometheus.CounterVec
	RecommendationsGenerated *prometheus.CounterVec
	ReportsGenerated         prometheus.Counter
}

// NewRegistry creates the pipeline metrics.
func NewRegistry() *Registry {
	return &Registry{
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "fitarena_stage_duration_seconds",
				Help:    "Duration of each pipeline stage in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
			},
			[]string{"stage"},
		),
		RowsFeatured: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fitarena_rows_featured_total",
				Help: "Total rows processed by the feature engine",
			},
		),
		AnomaliesFlagged: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitarena_anomalies_flagged_total",
				Help: "Total rows flagged anomalous by detection method",
			},
			[]string{"method"},
		),
		RecommendationsGenerated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fitarena_recommendations_generated_total",
				Help: "Total recommendations generated by priority",
			},
			[]string{"priority"},
		),
		ReportsGenerated: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "fitarena_reports_generated_total",
				Help: "Total performance reports generated",
			},
		),
	}
}

// Register registers every metric with the given registerer.
func (r *Registry) Register(reg prometheus.Registerer) {
	reg.MustRegister(
		r.StageDuration,
		r.RowsFeatured,
		r.AnomaliesFlagged,
		r.RecommendationsGenerated,
		r.ReportsGenerated,
	)
}
