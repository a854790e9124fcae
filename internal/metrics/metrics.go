// Package metrics records index build statistics and writes them as a
// Prometheus textfile for node_exporter's textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jmylchreest/huefind/internal/index"
)

// Build holds the metrics of index builds.
type Build struct {
	registry *prometheus.Registry

	ImagesScanned prometheus.Counter
	ImagesIndexed prometheus.Counter
	ImagesFailed  prometheus.Counter
	Duration      prometheus.Gauge
	LastSuccess   prometheus.Gauge
}

// NewBuild creates build metrics on a fresh registry.
func NewBuild() *Build {
	m := &Build{
		registry: prometheus.NewRegistry(),
		ImagesScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "huefind",
			Name:      "images_scanned_total",
			Help:      "Total number of eligible images found in the dataset",
		}),
		ImagesIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "huefind",
			Name:      "images_indexed_total",
			Help:      "Total number of images added to the index",
		}),
		ImagesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "huefind",
			Name:      "images_failed_total",
			Help:      "Total number of images skipped because they could not be processed",
		}),
		Duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "huefind",
			Name:      "index_build_duration_seconds",
			Help:      "Duration of the last index build in seconds",
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "huefind",
			Name:      "index_build_last_success_timestamp_seconds",
			Help:      "Unix time of the last index build that was persisted",
		}),
	}
	m.registry.MustRegister(m.ImagesScanned, m.ImagesIndexed, m.ImagesFailed, m.Duration, m.LastSuccess)
	return m
}

// Observe records a build summary.
func (m *Build) Observe(summary *index.BuildSummary) {
	if summary == nil {
		return
	}
	m.ImagesScanned.Add(float64(summary.Scanned))
	m.ImagesIndexed.Add(float64(summary.Indexed))
	m.ImagesFailed.Add(float64(summary.Failed()))
	m.Duration.Set(summary.Duration.Seconds())
}

// MarkPersisted records that the built index was written.
func (m *Build) MarkPersisted() {
	m.LastSuccess.SetToCurrentTime()
}

// WriteTextfile writes the metrics in the Prometheus text format, replacing
// path atomically.
func (m *Build) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics file: %w", err)
	}
	return nil
}
