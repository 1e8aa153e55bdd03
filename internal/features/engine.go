// Package features derives the engineered feature table the anomaly,
// recommendation and analytics stages consume: calendar fields, per-row
// activity ratios, a composite performance score, and per-athlete windowed
// statistics.
package features

import (
	"github.com/rs/zerolog/log"

	"github.com/fitarena/fitarena/internal/table"
)

// Config selects the windowed-statistics surface of the engine.
type Config struct {
	Windows       []int    `yaml:"windows"`        // rolling window sizes in days
	Lags          []int    `yaml:"lags"`           // lag offsets in rows
	SeriesMetrics []string `yaml:"series_metrics"` // metrics to roll/lag/diff/aggregate
}

// DefaultConfig returns the production windowed-feature configuration.
func DefaultConfig() Config {
	return Config{
		Windows:       []int{3, 7, 14},
		Lags:          []int{1, 3, 7},
		SeriesMetrics: []string{table.ColSteps, table.ColCalories, table.ColDistance},
	}
}

// Engine computes feature tables. It is stateless; one engine may serve
// concurrent callers as long as each call gets its own input table.
type Engine struct {
	cfg Config
}

// NewEngine creates a feature engine. A zero-value config falls back to
// defaults.
func NewEngine(cfg Config) *Engine {
	if len(cfg.Windows) == 0 && len(cfg.Lags) == 0 && len(cfg.SeriesMetrics) == 0 {
		cfg = DefaultConfig()
	}
	return &Engine{cfg: cfg}
}

// BuildAll runs the full feature pipeline in its fixed stage order:
// calendar, activity, performance indicators, then the windowed stages.
// The windowed stages run last because they may roll over columns the
// earlier stages produce. The output has one row per input row and is
// sorted by (athlete, date).
func (e *Engine) BuildAll(t *table.Table) *table.FeatureTable {
	ft := e.wrap(t)

	e.CalendarFeatures(ft)
	e.ActivityFeatures(ft)
	e.PerformanceIndicators(ft)

	metrics := e.availableSeriesMetrics(ft)
	if len(metrics) > 0 {
		e.RollingFeatures(ft, metrics, e.cfg.Windows)
		e.LagFeatures(ft, metrics, e.cfg.Lags)
		e.ChangeFeatures(ft, metrics)
		e.AggregateFeatures(ft, metrics)
	}

	log.Info().
		Int("rows", ft.Len()).
		Int("athletes", len(ft.Athletes())).
		Strs("series_metrics", metrics).
		Msg("feature engineering completed")
	return ft
}

// wrap copies the input into a feature table sorted by (athlete, date).
// Sorting once up front makes row order an explicit postcondition for every
// windowed stage; the stable tie-break keeps same-day duplicates in input
// order.
func (e *Engine) wrap(t *table.Table) *table.FeatureTable {
	sorted := t.SortByAthleteDate()
	rows := make([]table.FeatureRow, len(sorted.Rows))
	for i, r := range sorted.Rows {
		rows[i] = table.FeatureRow{Record: r, Series: make(map[string]float64)}
	}
	return &table.FeatureTable{Schema: t.Schema, Rows: rows}
}

// availableSeriesMetrics filters the configured series metrics down to the
// ones the schema (and earlier stages) actually provide.
func (e *Engine) availableSeriesMetrics(ft *table.FeatureTable) []string {
	var out []string
	for _, m := range e.cfg.SeriesMetrics {
		if e.metricAvailable(ft, m) {
			out = append(out, m)
		}
	}
	return out
}

func (e *Engine) metricAvailable(ft *table.FeatureTable, name string) bool {
	switch name {
	case table.ColSteps:
		return true
	case table.ColDistance:
		return ft.Schema.HasDistance
	case table.ColCalories:
		return ft.Schema.HasCalories
	case table.ColVeryActive, table.ColFairlyActive, table.ColLightlyActive:
		return ft.Schema.HasIntensity
	case table.ColSedentary:
		return ft.Schema.HasSedentary
	case table.ColTotalActiveMinutes:
		return ft.Features.TotalActiveMinutes
	case table.ColPerformanceScore:
		return ft.Features.PerformanceScore
	}
	if len(ft.Rows) == 0 {
		return false
	}
	_, ok := ft.Rows[0].Metric(name)
	return ok
}

// athleteGroups returns the contiguous [start, end) row spans per athlete.
// Requires the table to be sorted by (athlete, date), which every entry
// point guarantees.
func athleteGroups(ft *table.FeatureTable) [][2]int {
	var groups [][2]int
	start := 0
	for i := 1; i <= len(ft.Rows); i++ {
		if i == len(ft.Rows) || ft.Rows[i].AthleteID != ft.Rows[start].AthleteID {
			groups = append(groups, [2]int{start, i})
			start = i
		}
	}
	return groups
}

// groupColumn extracts one metric for the rows in [start, end).
func groupColumn(ft *table.FeatureTable, start, end int, metric string) []float64 {
	vals := make([]float64, end-start)
	for i := start; i < end; i++ {
		vals[i-start], _ = ft.Rows[i].Metric(metric)
	}
	return vals
}
