package table

import (
	"encoding/json"
	"math"
	"sort"
)

// FeatureRow is a Record extended with engineered fields. Windowed, lag,
// change and aggregate statistics live in Series keyed by feature name
// (e.g. "steps_rolling_mean_7d", "calories_lag_3"). Undefined numeric
// values — a lag before its offset, the percent change of the first row of
// a series, a sample standard deviation over one observation — are NaN,
// and every consumer skips NaN.
type FeatureRow struct {
	Record

	// Calendar features.
	DayOfWeek    int  `json:"day_of_week"` // Monday=0 .. Sunday=6
	DayOfMonth   int  `json:"day_of_month"`
	WeekOfYear   int  `json:"week_of_year"`
	Month        int  `json:"month"`
	Quarter      int  `json:"quarter"`
	IsWeekend    bool `json:"is_weekend"`
	IsMonthStart bool `json:"is_month_start"`
	IsMonthEnd   bool `json:"is_month_end"`

	// Activity-derived features.
	TotalActiveMinutes      float64 `json:"total_active_minutes"`
	HighIntensityRatio      float64 `json:"high_intensity_ratio"`
	StepsPerKm              float64 `json:"steps_per_km"`
	CaloriesPerStep         float64 `json:"calories_per_step"`
	CaloriesPerActiveMinute float64 `json:"calories_per_active_minute"`
	SedentaryRatio          float64 `json:"sedentary_ratio"`
	ActivityDiversity       int     `json:"activity_diversity"`

	// Performance indicators.
	PerformanceScore  float64 `json:"performance_score"`
	FitnessLevel      string  `json:"fitness_level"`
	StepsConsistency  float64 `json:"steps_consistency"`
	RecoveryIndicator float64 `json:"recovery_indicator"`

	// Windowed/lag/change/aggregate statistics by feature name.
	Series map[string]float64 `json:"series,omitempty"`
}

// MarshalJSON emits undefined (NaN or infinite) statistics as JSON null,
// which encoding/json otherwise rejects.
func (r FeatureRow) MarshalJSON() ([]byte, error) {
	type alias FeatureRow
	aux := struct {
		alias
		StepsConsistency *float64            `json:"steps_consistency"`
		Series           map[string]*float64 `json:"series,omitempty"`
	}{alias: alias(r), StepsConsistency: nullableFloat(r.StepsConsistency)}
	if len(r.Series) > 0 {
		aux.Series = make(map[string]*float64, len(r.Series))
		for k, v := range r.Series {
			aux.Series[k] = nullableFloat(v)
		}
	}
	return json.Marshal(aux)
}

func nullableFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// FeatureSchema records which derived fields the engine computed, given the
// input schema. It makes missing-column degradation auditable without
// probing individual rows.
type FeatureSchema struct {
	Calendar                bool `json:"calendar"`
	TotalActiveMinutes      bool `json:"total_active_minutes"`
	HighIntensityRatio      bool `json:"high_intensity_ratio"`
	StepsPerKm              bool `json:"steps_per_km"`
	CaloriesPerStep         bool `json:"calories_per_step"`
	CaloriesPerActiveMinute bool `json:"calories_per_active_minute"`
	SedentaryRatio          bool `json:"sedentary_ratio"`
	ActivityDiversity       bool `json:"activity_diversity"`
	PerformanceScore        bool `json:"performance_score"`
	FitnessLevel            bool `json:"fitness_level"`
	StepsConsistency        bool `json:"steps_consistency"`
	RecoveryIndicator       bool `json:"recovery_indicator"`
}

// FeatureTable is the feature engine's output: same row count as its input,
// a superset of its columns, always sorted by (athlete, date).
type FeatureTable struct {
	Schema   Schema
	Features FeatureSchema
	Rows     []FeatureRow
}

// Len returns the row count.
func (ft *FeatureTable) Len() int {
	return len(ft.Rows)
}

// Metric returns the named metric for this row: base record metrics,
// engineered per-row fields, or a Series entry.
func (r *FeatureRow) Metric(name string) (float64, bool) {
	if v, ok := r.Record.Metric(name); ok {
		return v, true
	}
	switch name {
	case ColTotalActiveMinutes:
		return r.TotalActiveMinutes, true
	case ColPerformanceScore:
		return r.PerformanceScore, true
	case "high_intensity_ratio":
		return r.HighIntensityRatio, true
	case "steps_per_km":
		return r.StepsPerKm, true
	case "calories_per_step":
		return r.CaloriesPerStep, true
	case "calories_per_active_minute":
		return r.CaloriesPerActiveMinute, true
	case "sedentary_ratio":
		return r.SedentaryRatio, true
	case "recovery_indicator":
		return r.RecoveryIndicator, true
	}
	v, ok := r.Series[name]
	return v, ok
}

// Column extracts the named metric across all rows. ok is false when no row
// carries the metric.
func (ft *FeatureTable) Column(name string) ([]float64, bool) {
	if len(ft.Rows) == 0 {
		return nil, false
	}
	if _, ok := ft.Rows[0].Metric(name); !ok {
		return nil, false
	}
	out := make([]float64, len(ft.Rows))
	for i := range ft.Rows {
		out[i], _ = ft.Rows[i].Metric(name)
	}
	return out, true
}

// Athletes returns the distinct athlete IDs in row order.
func (ft *FeatureTable) Athletes() []string {
	seen := make(map[string]bool)
	var ids []string
	for i := range ft.Rows {
		id := ft.Rows[i].AthleteID
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// FilterAthlete returns this athlete's rows, preserving order.
func (ft *FeatureTable) FilterAthlete(athleteID string) *FeatureTable {
	var rows []FeatureRow
	for i := range ft.Rows {
		if ft.Rows[i].AthleteID == athleteID {
			rows = append(rows, ft.Rows[i])
		}
	}
	return &FeatureTable{Schema: ft.Schema, Features: ft.Features, Rows: rows}
}

// SortByAthleteDate stably sorts the rows in place by (athlete, date).
func (ft *FeatureTable) SortByAthleteDate() {
	sort.SliceStable(ft.Rows, func(i, j int) bool {
		if ft.Rows[i].AthleteID != ft.Rows[j].AthleteID {
			return ft.Rows[i].AthleteID < ft.Rows[j].AthleteID
		}
		return ft.Rows[i].Date.Before(ft.Rows[j].Date)
	})
}
