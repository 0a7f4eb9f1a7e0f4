// Package metrics holds the per-run prometheus collectors. A batch run has no
// scrape endpoint, so the registry is exported after the run either to a
// node_exporter textfile or to a Pushgateway.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

const namespace = "ipla"

// Recorder owns a private registry so repeated runs in one process (tests)
// never collide on the default registerer.
type Recorder struct {
	registry *prometheus.Registry

	rowsRead      *prometheus.CounterVec
	cellsNulled   *prometheus.CounterVec
	rowsMalformed *prometheus.CounterVec
	stageRows     *prometheus.GaugeVec
	stageDuration *prometheus.HistogramVec
}

func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		rowsRead: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_read_total",
			Help:      "Rows read from a source table.",
		}, []string{"table"}),
		cellsNulled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cells_nulled_total",
			Help:      "Cells that failed to coerce to their declared type and were read as null.",
		}, []string{"table"}),
		rowsMalformed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_malformed_total",
			Help:      "Rows whose width did not match the schema.",
		}, []string{"table"}),
		stageRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stage_rows",
			Help:      "Rows in the table produced by a pipeline stage.",
		}, []string{"stage"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Wall time spent in a pipeline stage.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"stage"}),
	}
	r.registry.MustRegister(r.rowsRead, r.cellsNulled, r.rowsMalformed, r.stageRows, r.stageDuration)
	return r
}

func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

func (r *Recorder) AddRowsRead(table string, n int) {
	r.rowsRead.WithLabelValues(table).Add(float64(n))
}

func (r *Recorder) IncCellsNulled(table string) {
	r.cellsNulled.WithLabelValues(table).Inc()
}

func (r *Recorder) IncRowsMalformed(table string) {
	r.rowsMalformed.WithLabelValues(table).Inc()
}

// ObserveStage records one finished stage.
func (r *Recorder) ObserveStage(stage string, rows int, took time.Duration) {
	r.stageRows.WithLabelValues(stage).Set(float64(rows))
	r.stageDuration.WithLabelValues(stage).Observe(took.Seconds())
}

// WriteTextfile writes the registry in the text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Push sends the registry to a Pushgateway under the given job and run id.
func (r *Recorder) Push(url, job, runID string) error {
	if err := push.New(url, job).Gatherer(r.registry).Grouping("run_id", runID).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
