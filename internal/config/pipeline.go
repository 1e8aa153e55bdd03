// Package config loads pipeline configuration from YAML and supplies the
// production defaults. Every tunable is a named value here, never a hidden
// literal at a call site.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/fitarena/fitarena/internal/anomaly"
	"github.com/fitarena/fitarena/internal/features"
	"github.com/fitarena/fitarena/internal/recommend"
	"github.com/fitarena/fitarena/internal/table"
)

// AnomalyConfig selects the anomaly detector's behavior.
type AnomalyConfig struct {
	Threshold float64  `yaml:"threshold"` // z-score cutoff
	Metrics   []string `yaml:"metrics"`   // metrics to fit and score
	Method    string   `yaml:"method"`    // "zscore" or "iqr"
}

// PipelineConfig is the full configuration surface of the pipeline.
type PipelineConfig struct {
	Features features.Config    `yaml:"features"`
	Anomaly  AnomalyConfig      `yaml:"anomaly"`
	Rules    recommend.Rules    `yaml:"rules"`
	Goals    map[string]float64 `yaml:"goals"`
}

// Default returns the production pipeline configuration.
func Default() *PipelineConfig {
	return &PipelineConfig{
		Features: features.DefaultConfig(),
		Anomaly: AnomalyConfig{
			Threshold: anomaly.DefaultThreshold,
			Metrics:   []string{table.ColSteps, table.ColCalories, table.ColDistance},
			Method:    anomaly.MethodZScore,
		},
		Rules: recommend.DefaultRules(),
		Goals: map[string]float64{
			table.ColSteps:    10000,
			table.ColCalories: 2500,
		},
	}
}

// Load reads a pipeline configuration file. Missing sections fall back to
// defaults, so a partial file only overrides what it names.
func Load(path string) (*PipelineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline YAML: %w", err)
	}
	return cfg, nil
}
