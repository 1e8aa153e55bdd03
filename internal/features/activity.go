package features

import (
	"github.com/rs/zerolog/log"

	"github.com/fitarena/fitarena/internal/stats"
	"github.com/fitarena/fitarena/internal/table"
)

// Division guards: additive constants that keep zero-distance and zero-step
// days from producing infinities. They are part of the feature contract,
// not implementation detail.
const (
	distanceGuard = 0.001
	countGuard    = 1.0
)

// Performance score weights and normalization caps. The score is
// 40·clip(steps/15000) + 30·clip(very_active/60) + 30·clip(calories/3000),
// bounded to [0, 100].
const (
	stepsScoreCap    = 15000.0
	activityScoreCap = 60.0
	calorieScoreCap  = 3000.0
)

// Fitness level buckets over the performance score. Boundaries belong to
// the upper bucket: exactly 30 is Moderate, exactly 70 is Excellent.
const (
	FitnessLow       = "Low"
	FitnessModerate  = "Moderate"
	FitnessGood      = "Good"
	FitnessExcellent = "Excellent"
)

const minutesPerDay = 1440.0

// ActivityFeatures fills the per-row activity-derived fields the schema
// allows. Fields whose contributing columns are absent are omitted, never
// an error.
func (e *Engine) ActivityFeatures(ft *table.FeatureTable) {
	s := ft.Schema

	for i := range ft.Rows {
		r := &ft.Rows[i]

		if s.HasIntensity {
			r.TotalActiveMinutes = float64(r.VeryActiveMinutes + r.FairlyActiveMinutes + r.LightlyActiveMinutes)
			r.HighIntensityRatio = float64(r.VeryActiveMinutes) / (r.TotalActiveMinutes + countGuard)
			r.ActivityDiversity = nonzeroBuckets(r.VeryActiveMinutes, r.FairlyActiveMinutes, r.LightlyActiveMinutes)
		}
		if s.HasDistance {
			r.StepsPerKm = float64(r.Steps) / (r.Distance + distanceGuard)
		}
		if s.HasCalories {
			r.CaloriesPerStep = r.Calories / (float64(r.Steps) + countGuard)
		}
		if s.HasCalories && s.HasIntensity {
			r.CaloriesPerActiveMinute = r.Calories / (r.TotalActiveMinutes + countGuard)
		}
		if s.HasSedentary {
			r.SedentaryRatio = float64(r.SedentaryMinutes) / minutesPerDay
		}
	}

	ft.Features.TotalActiveMinutes = s.HasIntensity
	ft.Features.HighIntensityRatio = s.HasIntensity
	ft.Features.ActivityDiversity = s.HasIntensity
	ft.Features.StepsPerKm = s.HasDistance
	ft.Features.CaloriesPerStep = s.HasCalories
	ft.Features.CaloriesPerActiveMinute = s.HasCalories && s.HasIntensity
	ft.Features.SedentaryRatio = s.HasSedentary
	log.Debug().Int("rows", ft.Len()).Msg("activity features created")
}

func nonzeroBuckets(very, fairly, lightly int) int {
	n := 0
	if very > 0 {
		n++
	}
	if fairly > 0 {
		n++
	}
	if lightly > 0 {
		n++
	}
	return n
}

// PerformanceIndicators fills the composite performance score, fitness
// level, per-athlete steps consistency, and recovery indicator.
func (e *Engine) PerformanceIndicators(ft *table.FeatureTable) {
	s := ft.Schema

	if s.HasIntensity && s.HasCalories {
		for i := range ft.Rows {
			r := &ft.Rows[i]
			score := 40*stats.Clip(float64(r.Steps)/stepsScoreCap, 0, 1) +
				30*stats.Clip(float64(r.VeryActiveMinutes)/activityScoreCap, 0, 1) +
				30*stats.Clip(r.Calories/calorieScoreCap, 0, 1)
			r.PerformanceScore = score
			r.FitnessLevel = FitnessLevelFor(score)
		}
		ft.Features.PerformanceScore = true
		ft.Features.FitnessLevel = true
	}

	// Steps consistency: per-athlete coefficient of variation, broadcast to
	// every row of the athlete. NaN for single-day athletes.
	for _, g := range athleteGroups(ft) {
		steps := groupColumn(ft, g[0], g[1], table.ColSteps)
		cv := stats.SampleStd(steps) / (stats.Mean(steps) + countGuard)
		for i := g[0]; i < g[1]; i++ {
			ft.Rows[i].StepsConsistency = cv
		}
	}
	ft.Features.StepsConsistency = true

	if s.HasSedentary {
		for i := range ft.Rows {
			r := &ft.Rows[i]
			r.RecoveryIndicator = stats.Clip(float64(r.SedentaryMinutes)/720.0, 0, 1)
		}
		ft.Features.RecoveryIndicator = true
	}

	log.Debug().Int("rows", ft.Len()).Msg("performance indicators created")
}

// FitnessLevelFor buckets a performance score. Bucket floors are inclusive
// (30 → Moderate, 50 → Good, 70 → Excellent); 100 caps at Excellent.
func FitnessLevelFor(score float64) string {
	switch {
	case score < 30:
		return FitnessLow
	case score < 50:
		return FitnessModerate
	case score < 70:
		return FitnessGood
	default:
		return FitnessExcellent
	}
}
