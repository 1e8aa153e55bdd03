package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitarena/fitarena/internal/anomaly"
	"github.com/fitarena/fitarena/internal/table"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault_ProductionValues(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []int{3, 7, 14}, cfg.Features.Windows)
	assert.Equal(t, []int{1, 3, 7}, cfg.Features.Lags)
	assert.Equal(t, anomaly.DefaultThreshold, cfg.Anomaly.Threshold)
	assert.Equal(t, anomaly.MethodZScore, cfg.Anomaly.Method)
	assert.InDelta(t, 5000.0, cfg.Rules.Steps.Low.Threshold, 1e-9)
	assert.InDelta(t, 10000.0, cfg.Goals[table.ColSteps], 1e-9)
	assert.InDelta(t, 2500.0, cfg.Goals[table.ColCalories], 1e-9)
}

func TestLoad_PartialOverrideKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
anomaly:
  threshold: 3.0
  method: iqr
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3.0, cfg.Anomaly.Threshold)
	assert.Equal(t, anomaly.MethodIQR, cfg.Anomaly.Method)

	// Untouched sections keep their defaults.
	assert.Equal(t, []int{3, 7, 14}, cfg.Features.Windows)
	assert.InDelta(t, 10000.0, cfg.Rules.Steps.Low.Target, 1e-9)
	assert.NotEmpty(t, cfg.Anomaly.Metrics)
}

func TestLoad_FullOverride(t *testing.T) {
	path := writeConfig(t, `
features:
  windows: [5]
  lags: [2]
  series_metrics: [steps]
anomaly:
  threshold: 2.0
  metrics: [steps]
  method: zscore
rules:
  steps:
    low:
      threshold: 4000
      target: 8000
goals:
  steps: 12000
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{5}, cfg.Features.Windows)
	assert.Equal(t, []int{2}, cfg.Features.Lags)
	assert.Equal(t, []string{"steps"}, cfg.Anomaly.Metrics)
	assert.InDelta(t, 4000.0, cfg.Rules.Steps.Low.Threshold, 1e-9)
	assert.InDelta(t, 8000.0, cfg.Rules.Steps.Low.Target, 1e-9)
	assert.InDelta(t, 12000.0, cfg.Goals["steps"], 1e-9)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeConfig(t, "features: [not, a, mapping]")
	_, err = Load(path)
	assert.Error(t, err)
}
