package recommend

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fitarena/fitarena/internal/features"
	"github.com/fitarena/fitarena/internal/table"
)

func day(d string) time.Time {
	t, err := time.Parse("2006-01-02", d)
	if err != nil {
		panic(err)
	}
	return t
}

// activitySeries builds n consecutive days for one athlete with steps
// start, start+delta, start+2·delta, ...
func activitySeries(id string, n, start, delta int) []table.Record {
	rows := make([]table.Record, n)
	for i := range rows {
		rows[i] = table.Record{
			AthleteID:            id,
			Date:                 day("2023-05-01").AddDate(0, 0, i),
			Steps:                start + i*delta,
			Distance:             3.5,
			Calories:             3500,
			VeryActiveMinutes:    50,
			FairlyActiveMinutes:  30,
			LightlyActiveMinutes: 40,
			SedentaryMinutes:     700,
		}
	}
	return rows
}

func buildFeatures(rows []table.Record) *table.FeatureTable {
	return features.NewEngine(features.DefaultConfig()).BuildAll(table.New(table.FullSchema(), rows))
}

func TestAnalyze_UnknownAthlete(t *testing.T) {
	ft := buildFeatures(activitySeries("A", 5, 4000, 100))
	engine := NewEngine(DefaultRules())

	_, err := engine.Analyze(ft, "nobody")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAthleteNotFound)
}

func TestAnalyze_Averages(t *testing.T) {
	ft := buildFeatures(activitySeries("A", 10, 4000, 100))
	engine := NewEngine(DefaultRules())

	a, err := engine.Analyze(ft, "A")
	require.NoError(t, err)

	assert.Equal(t, 10, a.TotalDays)
	assert.InDelta(t, 4450.0, a.AvgSteps, 1e-9)
	assert.InDelta(t, 3.5, a.AvgDistance, 1e-9)
	assert.InDelta(t, 3500.0, a.AvgCalories, 1e-9)
	assert.InDelta(t, 120.0, a.AvgActiveMinutes, 1e-9)
	assert.InDelta(t, 700.0, a.AvgSedentaryMinutes, 1e-9)

	// A +100/day slope sits exactly on the threshold: stable.
	assert.Equal(t, TrendStable, a.StepsTrend)
}

func TestAnalyze_TrendLabels(t *testing.T) {
	engine := NewEngine(DefaultRules())

	improving, err := engine.Analyze(buildFeatures(activitySeries("A", 10, 2000, 300)), "A")
	require.NoError(t, err)
	assert.Equal(t, TrendImproving, improving.StepsTrend)

	declining, err := engine.Analyze(buildFeatures(activitySeries("A", 10, 9000, -300)), "A")
	require.NoError(t, err)
	assert.Equal(t, TrendDeclining, declining.StepsTrend)
}

func TestAnalyze_SingleRowDefaults(t *testing.T) {
	ft := buildFeatures(activitySeries("A", 1, 4000, 0))
	engine := NewEngine(DefaultRules())

	a, err := engine.Analyze(ft, "A")
	require.NoError(t, err)
	assert.Equal(t, TrendStable, a.StepsTrend)
	assert.Equal(t, 50.0, a.ConsistencyScore)
}

func TestActivityRecommendations_LowStepsScenario(t *testing.T) {
	// Ten consecutive days all below the 5000-step threshold.
	ft := buildFeatures(activitySeries("A", 10, 4000, 100))
	engine := NewEngine(DefaultRules())

	a, err := engine.Analyze(ft, "A")
	require.NoError(t, err)
	items := engine.ActivityRecommendations(a)

	var stepItems []Item
	for _, it := range items {
		if it.Title == "Increase Daily Steps" {
			stepItems = append(stepItems, it)
		}
	}
	require.Len(t, stepItems, 1)
	assert.Equal(t, PriorityHigh, stepItems[0].Priority)
	assert.Equal(t, "activity", stepItems[0].Type)
	assert.Contains(t, stepItems[0].Description, "4450")
	assert.Contains(t, stepItems[0].Description, "10000")
	assert.NotEmpty(t, stepItems[0].ActionItems)
}

func TestActivityRecommendations_ModerateTier(t *testing.T) {
	ft := buildFeatures(activitySeries("A", 10, 7000, 0))
	engine := NewEngine(DefaultRules())

	a, err := engine.Analyze(ft, "A")
	require.NoError(t, err)
	items := engine.ActivityRecommendations(a)

	var titles []string
	for _, it := range items {
		titles = append(titles, it.Title)
	}
	assert.Contains(t, titles, "Enhance Activity Level")
	assert.NotContains(t, titles, "Increase Daily Steps")
}

func TestRecoveryRecommendations_AlwaysEmitsOne(t *testing.T) {
	engine := NewEngine(DefaultRules())

	// Perfectly consistent athlete still gets the unconditional item.
	a := &Analysis{ConsistencyScore: 95}
	items := engine.RecoveryRecommendations(a)
	require.Len(t, items, 1)
	assert.Equal(t, "Optimize Recovery", items[0].Title)

	// An inconsistent one gets the consistency item first.
	a = &Analysis{ConsistencyScore: 20}
	items = engine.RecoveryRecommendations(a)
	require.Len(t, items, 2)
	assert.Equal(t, "Improve Activity Consistency", items[0].Title)
}

func TestPerformanceRecommendations_Tiers(t *testing.T) {
	engine := NewEngine(DefaultRules())

	low := engine.PerformanceRecommendations(&Analysis{PerformanceScore: 30})
	require.Len(t, low, 1)
	assert.Equal(t, "Structured Training Program", low[0].Title)
	assert.Equal(t, PriorityHigh, low[0].Priority)

	high := engine.PerformanceRecommendations(&Analysis{PerformanceScore: 85})
	require.Len(t, high, 1)
	assert.Equal(t, "Advanced Performance Optimization", high[0].Title)
	assert.Equal(t, PriorityLow, high[0].Priority)

	mid := engine.PerformanceRecommendations(&Analysis{PerformanceScore: 60})
	assert.Empty(t, mid)
}

func TestComprehensive_PriorityOrdering(t *testing.T) {
	// Improving trend yields a low-priority item, low steps a high one and
	// recovery a medium one, so all three tiers are present.
	ft := buildFeatures(activitySeries("A", 10, 2000, 300))
	engine := NewEngine(DefaultRules())

	rep, err := engine.Comprehensive(ft, "A")
	require.NoError(t, err)
	require.NotEmpty(t, rep.Recommendations)

	require.Greater(t, rep.HighPriorityCount, 0)
	require.Greater(t, rep.MediumPriorityCount, 0)
	require.Greater(t, rep.LowPriorityCount, 0)

	lastRank := -1
	for _, it := range rep.Recommendations {
		rank := priorityRank(it.Priority)
		assert.GreaterOrEqual(t, rank, lastRank, "priorities must be non-decreasing")
		lastRank = rank
	}

	assert.Equal(t, len(rep.Recommendations), rep.TotalRecommendations)
	assert.Equal(t, rep.TotalRecommendations,
		rep.HighPriorityCount+rep.MediumPriorityCount+rep.LowPriorityCount)
	assert.NotEmpty(t, rep.ReportID)
	assert.Equal(t, "A", rep.AthleteID)
}

func TestComprehensive_SingleRowStillGetsRecovery(t *testing.T) {
	ft := buildFeatures(activitySeries("A", 1, 4000, 0))
	engine := NewEngine(DefaultRules())

	rep, err := engine.Comprehensive(ft, "A")
	require.NoError(t, err)
	assert.Equal(t, 50.0, rep.Analysis.ConsistencyScore)
	assert.Equal(t, TrendStable, rep.Analysis.StepsTrend)

	recovery := 0
	for _, it := range rep.Recommendations {
		if it.Type == "recovery" {
			recovery++
		}
	}
	assert.GreaterOrEqual(t, recovery, 1)
}

func TestComprehensive_TieOrderWithinPriority(t *testing.T) {
	// Within the medium tier, activity items come before recovery items
	// because the concatenation order is preserved by the stable sort.
	ft := buildFeatures(activitySeries("A", 10, 7000, 0))
	engine := NewEngine(DefaultRules())

	rep, err := engine.Comprehensive(ft, "A")
	require.NoError(t, err)

	var mediumTypes []string
	for _, it := range rep.Recommendations {
		if it.Priority == PriorityMedium {
			mediumTypes = append(mediumTypes, it.Type)
		}
	}
	require.Contains(t, mediumTypes, "activity")
	require.Contains(t, mediumTypes, "recovery")
	assert.Equal(t, "activity", mediumTypes[0])
}

func TestBatch_AllAthletes(t *testing.T) {
	rows := append(activitySeries("A", 5, 4000, 100), activitySeries("B", 5, 12000, 0)...)
	ft := buildFeatures(rows)
	engine := NewEngine(DefaultRules())

	reports, err := engine.Batch(ft, nil)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "A", reports[0].AthleteID)
	assert.Equal(t, "B", reports[1].AthleteID)
}

func TestBatch_ExplicitUnknownAthleteFails(t *testing.T) {
	ft := buildFeatures(activitySeries("A", 5, 4000, 100))
	engine := NewEngine(DefaultRules())

	_, err := engine.Batch(ft, []string{"A", "ghost"})
	assert.ErrorIs(t, err, ErrAthleteNotFound)
}

func TestCustomRules_AlternateThresholds(t *testing.T) {
	rules := DefaultRules()
	rules.Steps.Low = Tier{Threshold: 3000, Target: 6000}
	engine := NewEngine(rules)

	a := &Analysis{AvgSteps: 4000, AvgActiveMinutes: 120, StepsTrend: TrendStable}
	items := engine.ActivityRecommendations(a)
	for _, it := range items {
		assert.NotEqual(t, "Increase Daily Steps", it.Title,
			fmt.Sprintf("4000 steps is above the custom %.0f threshold", rules.Steps.Low.Threshold))
	}
}
