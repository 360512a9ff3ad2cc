// Package metrics exposes pipeline counters for batch runs.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"vinfeatures/internal/models"
)

// Metrics provides observability for pipeline runs. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	RecordsExtracted prometheus.Counter
	RecordsDropped   *prometheus.CounterVec
	RowsEmitted      prometheus.Counter
	StageDuration    *prometheus.HistogramVec
}

// New creates a Metrics instance registered on its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		RecordsExtracted: factory.NewCounter(prometheus.CounterOpts{
			Name: "vinfeatures_records_extracted_total",
			Help: "Identifier/price tokens found in the input text",
		}),

		RecordsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "vinfeatures_records_dropped_total",
			Help: "Records excluded from the feature matrix by reason",
		}, []string{"reason"}),

		RowsEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "vinfeatures_rows_emitted_total",
			Help: "Rows written to the feature matrix",
		}),

		StageDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vinfeatures_stage_duration_seconds",
			Help:    "Duration of pipeline stages",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"stage"}), // stage: "fetch", "extract", "process", "fit", "transform"
	}
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}

	return m.registry
}

// AddExtracted records extracted tokens.
func (m *Metrics) AddExtracted(n int) {
	if m != nil {
		m.RecordsExtracted.Add(float64(n))
	}
}

// IncDropped records one dropped record.
func (m *Metrics) IncDropped(reason models.DropReason) {
	if m != nil {
		m.RecordsDropped.WithLabelValues(string(reason)).Inc()
	}
}

// AddEmitted records rows written to the matrix.
func (m *Metrics) AddEmitted(n int) {
	if m != nil {
		m.RowsEmitted.Add(float64(n))
	}
}

// ObserveStage records the duration of a stage.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m != nil {
		m.StageDuration.WithLabelValues(stage).Observe(d.Seconds())
	}
}

// WriteTextfile writes all metrics in the text exposition format, for
// collection by a node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return nil
	}

	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}

	return nil
}
