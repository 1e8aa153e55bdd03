package recommend

import (
	"errors"
	"fmt"
	"math"

	"github.com/fitarena/fitarena/internal/stats"
	"github.com/fitarena/fitarena/internal/table"
)

// ErrAthleteNotFound is returned when the requested athlete has no rows.
var ErrAthleteNotFound = errors.New("recommend: athlete not found")

// Trend labels for an athlete's step series.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// TrendSlopeThreshold is the OLS slope (in steps per day) beyond which a
// series counts as improving or declining. It is an absolute constant
// calibrated to the typical magnitude of daily step counts; reusing it for
// a metric on a different scale would misclassify trends.
const TrendSlopeThreshold = 100.0

// neutralConsistency is the score assigned to series too short to measure.
const neutralConsistency = 50.0

// Analysis summarizes one athlete's activity patterns.
type Analysis struct {
	AthleteID           string  `json:"athlete_id"`
	TotalDays           int     `json:"total_days"`
	AvgSteps            float64 `json:"avg_steps"`
	AvgDistance         float64 `json:"avg_distance"`
	AvgCalories         float64 `json:"avg_calories"`
	AvgActiveMinutes    float64 `json:"avg_active_minutes"`
	AvgSedentaryMinutes float64 `json:"avg_sedentary_minutes"`
	StepsTrend          string  `json:"steps_trend"`
	ConsistencyScore    float64 `json:"consistency_score"`
	PerformanceScore    float64 `json:"performance_score"`
}

// Analyze filters the table to one athlete, sorts by date, and computes the
// averages, trend label and consistency score the rule generators consume.
// Metrics the schema omits average to zero; a missing performance score
// defaults to the neutral 50.
func (e *Engine) Analyze(ft *table.FeatureTable, athleteID string) (*Analysis, error) {
	sub := ft.FilterAthlete(athleteID)
	if sub.Len() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrAthleteNotFound, athleteID)
	}
	sub.SortByAthleteDate()

	steps, _ := sub.Column(table.ColSteps)

	a := &Analysis{
		AthleteID:        athleteID,
		TotalDays:        sub.Len(),
		AvgSteps:         stats.Mean(steps),
		StepsTrend:       trendLabel(steps),
		ConsistencyScore: consistencyScore(steps),
		PerformanceScore: neutralConsistency,
	}
	if sub.Schema.HasDistance {
		col, _ := sub.Column(table.ColDistance)
		a.AvgDistance = stats.Mean(col)
	}
	if sub.Schema.HasCalories {
		col, _ := sub.Column(table.ColCalories)
		a.AvgCalories = stats.Mean(col)
	}
	if sub.Features.TotalActiveMinutes {
		col, _ := sub.Column(table.ColTotalActiveMinutes)
		a.AvgActiveMinutes = stats.Mean(col)
	}
	if sub.Schema.HasSedentary {
		col, _ := sub.Column(table.ColSedentary)
		a.AvgSedentaryMinutes = stats.Mean(col)
	}
	if sub.Features.PerformanceScore {
		col, _ := sub.Column(table.ColPerformanceScore)
		a.PerformanceScore = stats.Mean(col)
	}
	return a, nil
}

// trendLabel classifies the OLS slope of the series against its row index.
// Fewer than two valid points is stable by definition, never an error.
func trendLabel(series []float64) string {
	slope, ok := stats.Slope(series)
	if !ok {
		return TrendStable
	}
	switch {
	case slope > TrendSlopeThreshold:
		return TrendImproving
	case slope < -TrendSlopeThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

// consistencyScore maps the coefficient of variation onto 0-100 (lower
// variation scores higher). Series with fewer than two points get the
// neutral 50.
func consistencyScore(series []float64) float64 {
	valid := stats.Valid(series)
	if len(valid) < 2 {
		return neutralConsistency
	}
	cv := stats.SampleStd(valid) / (stats.Mean(valid) + 1)
	return round2(stats.Clip(100*(1-cv), 0, 100))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
