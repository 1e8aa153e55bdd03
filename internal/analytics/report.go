package analytics

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fitarena/fitarena/internal/table"
)

// Default goal targets for the comprehensive report.
const (
	DefaultStepsGoal    = 10000.0
	DefaultCaloriesGoal = 2500.0
)

// PerformanceReport bundles every per-athlete projection into one
// structure.
type PerformanceReport struct {
	AthleteID       string          `json:"athlete_id"`
	GeneratedAt     time.Time       `json:"generated_at"`
	Summary         Summary         `json:"summary"`
	Consistency     Consistency     `json:"consistency"`
	BestDays        []BestDay       `json:"best_days"`
	WeeklyPatterns  []DayPattern    `json:"weekly_patterns"`
	GoalAchievement GoalAchievement `json:"goal_achievement"`
}

// GeneratePerformanceReport builds the comprehensive report for one
// athlete using the default goals.
func GeneratePerformanceReport(ft *table.FeatureTable, athleteID string) PerformanceReport {
	report := PerformanceReport{
		AthleteID:      athleteID,
		GeneratedAt:    time.Now().UTC(),
		Summary:        SummaryStatistics(ft, athleteID),
		Consistency:    ConsistencyMetrics(ft, athleteID),
		BestDays:       BestPerformanceDays(ft, athleteID, 5),
		WeeklyPatterns: WeeklyPatterns(ft, athleteID),
		GoalAchievement: CalculateGoalAchievement(ft, athleteID, map[string]float64{
			table.ColSteps:    DefaultStepsGoal,
			table.ColCalories: DefaultCaloriesGoal,
		}),
	}
	log.Info().Str("athlete", athleteID).Msg("performance report generated")
	return report
}
