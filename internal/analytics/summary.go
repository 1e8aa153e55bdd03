// Package analytics provides read-only aggregations over the activity and
// feature tables: summaries, trends, comparisons, consistency, weekly
// patterns and goal achievement. Nothing here mutates its inputs.
package analytics

import (
	"encoding/json"
	"math"
	"sort"
	"time"

	"github.com/fitarena/fitarena/internal/stats"
	"github.com/fitarena/fitarena/internal/table"
)

// Summary holds table-level counts, date range and per-metric averages and
// totals, scoped to one athlete or the whole table.
type Summary struct {
	TotalRecords   int       `json:"total_records"`
	UniqueAthletes int       `json:"unique_athletes"`
	DateRange      DateRange `json:"date_range"`
	Averages       Averages  `json:"averages"`
	Totals         Totals    `json:"totals"`
}

// DateRange is the span covered by the summarized rows.
type DateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  int    `json:"days"`
}

// Averages are per-day means of the core metrics.
type Averages struct {
	Steps            float64 `json:"steps"`
	DistanceKm       float64 `json:"distance_km"`
	Calories         float64 `json:"calories"`
	ActiveMinutes    float64 `json:"active_minutes"`
	SedentaryMinutes float64 `json:"sedentary_minutes"`
}

// Totals are summed core metrics.
type Totals struct {
	Steps      int     `json:"steps"`
	DistanceKm float64 `json:"distance_km"`
	Calories   int     `json:"calories"`
}

// SummaryStatistics summarizes the table, scoped to athleteID when
// non-empty. Metrics the schema omits report zero.
func SummaryStatistics(ft *table.FeatureTable, athleteID string) Summary {
	data := ft
	if athleteID != "" {
		data = ft.FilterAthlete(athleteID)
	}

	s := Summary{
		TotalRecords:   data.Len(),
		UniqueAthletes: len(data.Athletes()),
	}

	if start, end, ok := dateRange(data); ok {
		s.DateRange = DateRange{
			Start: start.Format("2006-01-02"),
			End:   end.Format("2006-01-02"),
			Days:  int(end.Sub(start).Hours() / 24),
		}
	}

	if col, ok := data.Column(table.ColSteps); ok {
		s.Averages.Steps = round2(stats.Mean(col))
		s.Totals.Steps = int(stats.Sum(col))
	}
	if data.Schema.HasDistance {
		col, _ := data.Column(table.ColDistance)
		s.Averages.DistanceKm = round2(stats.Mean(col))
		s.Totals.DistanceKm = round2(stats.Sum(col))
	}
	if data.Schema.HasCalories {
		col, _ := data.Column(table.ColCalories)
		s.Averages.Calories = round2(stats.Mean(col))
		s.Totals.Calories = int(stats.Sum(col))
	}
	if data.Features.TotalActiveMinutes {
		col, _ := data.Column(table.ColTotalActiveMinutes)
		s.Averages.ActiveMinutes = round2(stats.Mean(col))
	}
	if data.Schema.HasSedentary {
		col, _ := data.Column(table.ColSedentary)
		s.Averages.SedentaryMinutes = round2(stats.Mean(col))
	}
	return s
}

// TrendPoint is one dated observation with its rolling-mean trend values.
type TrendPoint struct {
	Date          time.Time `json:"date"`
	Steps         float64   `json:"steps"`
	Distance      float64   `json:"distance_km"`
	Calories      float64   `json:"calories"`
	StepsTrend    float64   `json:"steps_trend"`
	DistanceTrend float64   `json:"distance_trend"`
	CaloriesTrend float64   `json:"calories_trend"`
}

// PerformanceTrends returns one athlete's series with trailing rolling
// means (min-periods-1) over the given window, sorted by date.
func PerformanceTrends(ft *table.FeatureTable, athleteID string, window int) []TrendPoint {
	if window < 1 {
		window = 7
	}
	sub := ft.FilterAthlete(athleteID)
	sub.SortByAthleteDate()

	points := make([]TrendPoint, sub.Len())
	steps, _ := sub.Column(table.ColSteps)
	distance, _ := sub.Column(table.ColDistance)
	calories, _ := sub.Column(table.ColCalories)

	for i := range points {
		lo := i - window + 1
		if lo < 0 {
			lo = 0
		}
		points[i] = TrendPoint{
			Date:       sub.Rows[i].Date,
			Steps:      steps[i],
			StepsTrend: stats.Mean(steps[lo : i+1]),
		}
		if sub.Schema.HasDistance {
			points[i].Distance = distance[i]
			points[i].DistanceTrend = stats.Mean(distance[lo : i+1])
		}
		if sub.Schema.HasCalories {
			points[i].Calories = calories[i]
			points[i].CaloriesTrend = stats.Mean(calories[lo : i+1])
		}
	}
	return points
}

// MetricComparison is one athlete's aggregate for one metric.
type MetricComparison struct {
	Avg   float64 `json:"avg"`
	Total float64 `json:"total"`
	Max   float64 `json:"max"`
}

// AthleteComparison is one athlete's row in a cross-athlete comparison.
type AthleteComparison struct {
	AthleteID string                      `json:"athlete_id"`
	Metrics   map[string]MetricComparison `json:"metrics"`
}

// CompareAthletes builds a comparison table of avg/total/max per requested
// metric per athlete. Athletes without rows and metrics the table does not
// carry are skipped.
func CompareAthletes(ft *table.FeatureTable, athleteIDs, metrics []string) []AthleteComparison {
	if metrics == nil {
		metrics = []string{table.ColSteps, table.ColDistance, table.ColCalories, table.ColTotalActiveMinutes}
	}
	var out []AthleteComparison
	for _, id := range athleteIDs {
		sub := ft.FilterAthlete(id)
		if sub.Len() == 0 {
			continue
		}
		row := AthleteComparison{AthleteID: id, Metrics: make(map[string]MetricComparison)}
		for _, m := range metrics {
			col, ok := sub.Column(m)
			if !ok {
				continue
			}
			row.Metrics[m] = MetricComparison{
				Avg:   stats.Mean(col),
				Total: stats.Sum(col),
				Max:   stats.Max(col),
			}
		}
		out = append(out, row)
	}
	return out
}

// MetricConsistency pairs a coefficient of variation with its 0-100 score.
type MetricConsistency struct {
	CV    float64 `json:"cv"`
	Score float64 `json:"consistency_score"`
}

// Consistency holds per-metric consistency for one athlete.
type Consistency struct {
	AthleteID string                       `json:"athlete_id"`
	TotalDays int                          `json:"total_days"`
	Metrics   map[string]MetricConsistency `json:"metrics"`
}

// ConsistencyMetrics computes the coefficient of variation and derived
// score for steps, calories and distance. A non-positive mean yields CV 0.
func ConsistencyMetrics(ft *table.FeatureTable, athleteID string) Consistency {
	sub := ft.FilterAthlete(athleteID)
	c := Consistency{
		AthleteID: athleteID,
		TotalDays: sub.Len(),
		Metrics:   make(map[string]MetricConsistency),
	}
	for _, m := range []string{table.ColSteps, table.ColCalories, table.ColDistance} {
		col, ok := sub.Column(m)
		if !ok {
			continue
		}
		mean := stats.Mean(col)
		std := stats.SampleStd(col)
		cv := 0.0
		if mean > 0 && !math.IsNaN(std) {
			cv = std / mean
		}
		c.Metrics[m] = MetricConsistency{
			CV:    round4(cv),
			Score: round2(stats.Clip(100*(1-cv), 0, 100)),
		}
	}
	return c
}

// BestDay is one top-ranked athlete-day.
type BestDay struct {
	Date              time.Time `json:"date"`
	Steps             int       `json:"steps"`
	Distance          float64   `json:"distance_km"`
	Calories          float64   `json:"calories"`
	VeryActiveMinutes int       `json:"very_active_minutes"`
	PerformanceScore  float64   `json:"performance_score"`
}

// BestPerformanceDays returns the athlete's top-N days ranked by
// performance score, falling back to step count when the score was not
// computed.
func BestPerformanceDays(ft *table.FeatureTable, athleteID string, topN int) []BestDay {
	sub := ft.FilterAthlete(athleteID)
	if sub.Len() == 0 {
		return nil
	}
	rankMetric := table.ColPerformanceScore
	if !sub.Features.PerformanceScore {
		rankMetric = table.ColSteps
	}

	idx := make([]int, sub.Len())
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		va, _ := sub.Rows[idx[a]].Metric(rankMetric)
		vb, _ := sub.Rows[idx[b]].Metric(rankMetric)
		return va > vb
	})
	if topN > 0 && topN < len(idx) {
		idx = idx[:topN]
	}

	out := make([]BestDay, len(idx))
	for i, j := range idx {
		r := &sub.Rows[j]
		out[i] = BestDay{
			Date:              r.Date,
			Steps:             r.Steps,
			Distance:          r.Distance,
			Calories:          r.Calories,
			VeryActiveMinutes: r.VeryActiveMinutes,
			PerformanceScore:  r.PerformanceScore,
		}
	}
	return out
}

// DayPattern aggregates one weekday's metrics.
type DayPattern struct {
	Day          string  `json:"day"`
	StepsMean    float64 `json:"steps_mean"`
	StepsStd     float64 `json:"steps_std"`
	CaloriesMean float64 `json:"calories_mean"`
	CaloriesStd  float64 `json:"calories_std"`
	DistanceMean float64 `json:"distance_mean"`
	DistanceStd  float64 `json:"distance_std"`
}

// MarshalJSON emits NaN standard deviations (single-row weekdays) as null.
func (p DayPattern) MarshalJSON() ([]byte, error) {
	type alias DayPattern
	return json.Marshal(struct {
		alias
		StepsStd    *float64 `json:"steps_std"`
		CaloriesStd *float64 `json:"calories_std"`
		DistanceStd *float64 `json:"distance_std"`
	}{alias(p), nullableFloat(p.StepsStd), nullableFloat(p.CaloriesStd), nullableFloat(p.DistanceStd)})
}

var dayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// WeeklyPatterns aggregates steps, calories and distance by day of week,
// Monday first, scoped to athleteID when non-empty. Weekdays with no rows
// are omitted.
func WeeklyPatterns(ft *table.FeatureTable, athleteID string) []DayPattern {
	data := ft
	if athleteID != "" {
		data = ft.FilterAthlete(athleteID)
	}

	byDay := make(map[int][]int) // weekday -> row indices
	for i := range data.Rows {
		d := data.Rows[i].DayOfWeek
		byDay[d] = append(byDay[d], i)
	}

	var out []DayPattern
	for d := 0; d < 7; d++ {
		rows := byDay[d]
		if len(rows) == 0 {
			continue
		}
		steps := make([]float64, len(rows))
		calories := make([]float64, len(rows))
		distance := make([]float64, len(rows))
		for i, j := range rows {
			steps[i] = float64(data.Rows[j].Steps)
			calories[i] = data.Rows[j].Calories
			distance[i] = data.Rows[j].Distance
		}
		out = append(out, DayPattern{
			Day:          dayNames[d],
			StepsMean:    round2(stats.Mean(steps)),
			StepsStd:     round2(stats.SampleStd(steps)),
			CaloriesMean: round2(stats.Mean(calories)),
			CaloriesStd:  round2(stats.SampleStd(calories)),
			DistanceMean: round2(stats.Mean(distance)),
			DistanceStd:  round2(stats.SampleStd(distance)),
		})
	}
	return out
}

// GoalStats is the achievement record for one goal metric.
type GoalStats struct {
	Target          float64 `json:"target"`
	DaysAchieved    int     `json:"days_achieved"`
	AchievementRate float64 `json:"achievement_rate"`
	AverageValue    float64 `json:"average_value"`
}

// GoalAchievement holds per-goal achievement rates for one athlete.
type GoalAchievement struct {
	AthleteID string               `json:"athlete_id"`
	TotalDays int                  `json:"total_days"`
	Goals     map[string]GoalStats `json:"goals"`
}

// CalculateGoalAchievement computes the share of days on which each
// caller-supplied target was met or exceeded.
func CalculateGoalAchievement(ft *table.FeatureTable, athleteID string, goals map[string]float64) GoalAchievement {
	sub := ft.FilterAthlete(athleteID)
	out := GoalAchievement{
		AthleteID: athleteID,
		TotalDays: sub.Len(),
		Goals:     make(map[string]GoalStats),
	}
	if sub.Len() == 0 {
		return out
	}
	for metric, target := range goals {
		col, ok := sub.Column(metric)
		if !ok {
			continue
		}
		achieved := 0
		for _, v := range col {
			if v >= target {
				achieved++
			}
		}
		out.Goals[metric] = GoalStats{
			Target:          target,
			DaysAchieved:    achieved,
			AchievementRate: round2(float64(achieved) / float64(sub.Len()) * 100),
			AverageValue:    round2(stats.Mean(col)),
		}
	}
	return out
}

func dateRange(ft *table.FeatureTable) (time.Time, time.Time, bool) {
	if ft.Len() == 0 {
		return time.Time{}, time.Time{}, false
	}
	start, end := ft.Rows[0].Date, ft.Rows[0].Date
	for i := range ft.Rows[1:] {
		d := ft.Rows[i+1].Date
		if d.Before(start) {
			start = d
		}
		if d.After(end) {
			end = d
		}
	}
	return start, end, true
}

func nullableFloat(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func round2(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	if math.IsNaN(v) {
		return v
	}
	return math.Round(v*10000) / 10000
}
