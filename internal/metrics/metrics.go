// Package metrics records registrar runs in a private Prometheus registry.
// cronreg is a one-shot process, so metrics are exported through the
// node_exporter textfile collector instead of an HTTP endpoint.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	registry      *prometheus.Registry
	runsTotal     *prometheus.CounterVec
	runDuration   prometheus.Histogram
	managed       prometheus.Gauge
	tableEntries  prometheus.Gauge
	lastRun       prometheus.Gauge
	lastSuccess   prometheus.Gauge
	backupsPruned prometheus.Counter
}

func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Registrar runs by outcome",
			},
			[]string{"command", "outcome"},
		),
		runDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of registrar runs, prompt time included",
				Buckets:   []float64{.01, .05, .1, .5, 1, 5, 30, 120},
			},
		),
		managed: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "managed_entries",
				Help:      "Entries matching the marker after the last run",
			},
		),
		tableEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "table_entries",
				Help:      "Lines in the schedule table after the last run",
			},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time of the last run",
			},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last run that did not fail",
			},
		),
		backupsPruned: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "backups_pruned_total",
				Help:      "Backups deleted by retention",
			},
		),
	}

	m.registry.MustRegister(
		m.runsTotal,
		m.runDuration,
		m.managed,
		m.tableEntries,
		m.lastRun,
		m.lastSuccess,
		m.backupsPruned,
	)

	return m
}

// RecordRun stores the result of one registrar run. outcome "error" marks a
// failed run; every other outcome also updates the last success timestamp.
func (m *Metrics) RecordRun(command, outcome string, managed, entries int, duration time.Duration) {
	now := float64(time.Now().Unix())

	m.runsTotal.WithLabelValues(command, outcome).Inc()
	m.runDuration.Observe(duration.Seconds())
	m.lastRun.Set(now)
	if outcome == "error" {
		return
	}
	m.lastSuccess.Set(now)
	m.managed.Set(float64(managed))
	m.tableEntries.Set(float64(entries))
}

func (m *Metrics) AddPrunedBackups(n int) {
	m.backupsPruned.Add(float64(n))
}

// WriteTextfile atomically writes all metrics in text exposition format.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create metrics directory: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
