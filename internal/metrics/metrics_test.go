package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, m *Metrics, name string) float64 {
	t.Helper()
	families, err := m.registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			require.NotEmpty(t, f.GetMetric())
			return f.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not found", name)
	return 0
}

func counterValue(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.registry.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			matched := 0
			for _, lp := range metric.GetLabel() {
				if labels[lp.GetName()] == lp.GetValue() {
					matched++
				}
			}
			if matched == len(labels) {
				return metric.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestMetrics_RecordRun(t *testing.T) {
	m := New("cronreg")

	m.RecordRun("install", "installed", 1, 4, 20*time.Millisecond)
	m.RecordRun("install", "declined", 1, 4, time.Second)

	assert.Equal(t, 1.0, counterValue(t, m, "cronreg_runs_total", map[string]string{"command": "install", "outcome": "installed"}))
	assert.Equal(t, 1.0, counterValue(t, m, "cronreg_runs_total", map[string]string{"command": "install", "outcome": "declined"}))
	assert.Equal(t, 1.0, gaugeValue(t, m, "cronreg_managed_entries"))
	assert.Equal(t, 4.0, gaugeValue(t, m, "cronreg_table_entries"))
	assert.Greater(t, gaugeValue(t, m, "cronreg_last_success_timestamp_seconds"), 0.0)
}

func TestMetrics_RecordFailedRun(t *testing.T) {
	m := New("cronreg")

	m.RecordRun("install", "error", 0, 0, time.Millisecond)

	assert.Equal(t, 1.0, counterValue(t, m, "cronreg_runs_total", map[string]string{"outcome": "error"}))
	assert.Greater(t, gaugeValue(t, m, "cronreg_last_run_timestamp_seconds"), 0.0)
	assert.Equal(t, 0.0, gaugeValue(t, m, "cronreg_last_success_timestamp_seconds"))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New("cronreg")
	m.RecordRun("remove", "removed", 0, 2, time.Millisecond)
	m.AddPrunedBackups(3)

	path := filepath.Join(t.TempDir(), "textfile", "cronreg.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `cronreg_runs_total{command="remove",outcome="removed"} 1`)
	assert.Contains(t, content, "cronreg_backups_pruned_total 3")
	assert.Contains(t, content, "# TYPE cronreg_run_duration_seconds histogram")
}
