package recommend

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/fitarena/fitarena/internal/table"
)

// Recommendation priorities, ordered high before medium before low.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func priorityRank(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// Item is one actionable recommendation.
type Item struct {
	Type            string   `json:"type"` // activity | intensity | behavior | motivation | recovery | training
	Priority        Priority `json:"priority"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	ActionItems     []string `json:"action_items"`
	ExpectedBenefit string   `json:"expected_benefit"`
	Confidence      float64  `json:"confidence"`
}

// Report is the comprehensive recommendation result for one athlete,
// serializable as-is for the API layer.
type Report struct {
	ReportID             string    `json:"report_id"`
	AthleteID            string    `json:"athlete_id"`
	GeneratedAt          time.Time `json:"generated_at"`
	Analysis             *Analysis `json:"analysis_summary"`
	Recommendations      []Item    `json:"recommendations"`
	TotalRecommendations int       `json:"total_recommendations"`
	HighPriorityCount    int       `json:"high_priority_count"`
	MediumPriorityCount  int       `json:"medium_priority_count"`
	LowPriorityCount     int       `json:"low_priority_count"`
}

// Engine generates recommendations by evaluating analyses against a fixed
// rule table. It holds no mutable state; one engine serves any number of
// concurrent callers.
type Engine struct {
	rules Rules
}

// NewEngine creates an engine bound to the given rules.
func NewEngine(rules Rules) *Engine {
	return &Engine{rules: rules}
}

// ActivityRecommendations evaluates step count, active minutes, sedentary
// time and trend against the rule tiers.
func (e *Engine) ActivityRecommendations(a *Analysis) []Item {
	var items []Item

	if a.AvgSteps < e.rules.Steps.Low.Threshold {
		items = append(items, Item{
			Type:     "activity",
			Priority: PriorityHigh,
			Title:    "Increase Daily Steps",
			Description: fmt.Sprintf("Your average daily steps (%d) is below the recommended level. Aim for %d steps per day.",
				int(a.AvgSteps), int(e.rules.Steps.Low.Target)),
			ActionItems: []string{
				"Take short walking breaks every hour",
				"Use stairs instead of elevators",
				"Park further from your destination",
				"Take a 15-minute walk after meals",
			},
			ExpectedBenefit: "Improved cardiovascular health and weight management",
			Confidence:      0.9,
		})
	} else if a.AvgSteps < e.rules.Steps.Moderate.Threshold {
		items = append(items, Item{
			Type:     "activity",
			Priority: PriorityMedium,
			Title:    "Enhance Activity Level",
			Description: fmt.Sprintf("Good progress! Increase from %d to %d steps daily.",
				int(a.AvgSteps), int(e.rules.Steps.Moderate.Target)),
			ActionItems: []string{
				"Add a 20-minute morning walk",
				"Join a walking group or find a walking partner",
				"Explore new routes to keep it interesting",
			},
			ExpectedBenefit: "Enhanced endurance and stamina",
			Confidence:      0.85,
		})
	}

	if a.AvgActiveMinutes < e.rules.ActivityMinutes.Low.Threshold {
		items = append(items, Item{
			Type:     "intensity",
			Priority: PriorityHigh,
			Title:    "Boost Active Minutes",
			Description: fmt.Sprintf("Increase your daily active minutes from %d to at least %d minutes.",
				int(a.AvgActiveMinutes), int(e.rules.ActivityMinutes.Low.Target)),
			ActionItems: []string{
				"Schedule 30 minutes of moderate exercise daily",
				"Try activities you enjoy (swimming, cycling, dancing)",
				"Break it into 3x10-minute sessions if needed",
			},
			ExpectedBenefit: "Significant fitness improvement and energy boost",
			Confidence:      0.95,
		})
	}

	if a.AvgSedentaryMinutes > e.rules.Sedentary.High.Threshold {
		items = append(items, Item{
			Type:     "behavior",
			Priority: PriorityHigh,
			Title:    "Reduce Sedentary Time",
			Description: fmt.Sprintf("Your sedentary time (%d min/day) is high. Target: %d minutes.",
				int(a.AvgSedentaryMinutes), int(e.rules.Sedentary.High.Target)),
			ActionItems: []string{
				"Set hourly movement reminders",
				"Use a standing desk or desk converter",
				"Take active breaks during work",
				"Stand during phone calls",
			},
			ExpectedBenefit: "Reduced risk of metabolic issues and improved posture",
			Confidence:      0.88,
		})
	}

	switch a.StepsTrend {
	case TrendDeclining:
		items = append(items, Item{
			Type:        "motivation",
			Priority:    PriorityHigh,
			Title:       "Reverse Declining Trend",
			Description: "Your activity level has been declining. Let's get back on track!",
			ActionItems: []string{
				"Set realistic, achievable daily goals",
				"Find an accountability partner",
				"Reward yourself for meeting weekly targets",
				"Identify and address barriers to activity",
			},
			ExpectedBenefit: "Restored motivation and activity levels",
			Confidence:      0.80,
		})
	case TrendImproving:
		items = append(items, Item{
			Type:        "motivation",
			Priority:    PriorityLow,
			Title:       "Maintain Positive Momentum",
			Description: "Great job! Your activity is trending upward. Keep it up!",
			ActionItems: []string{
				"Continue current routine",
				"Gradually increase intensity",
				"Try new activities to prevent boredom",
				"Share your success with others",
			},
			ExpectedBenefit: "Sustained improvement and goal achievement",
			Confidence:      0.92,
		})
	}

	return items
}

// RecoveryRecommendations always emits at least one item: the general
// recovery guidance is unconditional.
func (e *Engine) RecoveryRecommendations(a *Analysis) []Item {
	var items []Item

	if a.ConsistencyScore < 40 {
		items = append(items, Item{
			Type:        "recovery",
			Priority:    PriorityMedium,
			Title:       "Improve Activity Consistency",
			Description: "Your activity pattern is inconsistent. Regular activity is key to progress.",
			ActionItems: []string{
				"Create a weekly activity schedule",
				"Set consistent workout times",
				"Start with manageable goals",
				"Track your progress daily",
			},
			ExpectedBenefit: "Better results and habit formation",
			Confidence:      0.87,
		})
	}

	items = append(items, Item{
		Type:        "recovery",
		Priority:    PriorityMedium,
		Title:       "Optimize Recovery",
		Description: "Recovery is essential for performance improvement.",
		ActionItems: []string{
			"Ensure 7-9 hours of quality sleep",
			"Include rest days in your routine",
			"Stay hydrated throughout the day",
			"Practice stretching or yoga",
		},
		ExpectedBenefit: "Enhanced performance and injury prevention",
		Confidence:      0.90,
	})

	return items
}

// PerformanceRecommendations targets athletes at either end of the
// performance-score range.
func (e *Engine) PerformanceRecommendations(a *Analysis) []Item {
	var items []Item

	if a.PerformanceScore < 50 {
		items = append(items, Item{
			Type:        "training",
			Priority:    PriorityHigh,
			Title:       "Structured Training Program",
			Description: "Your performance score can be improved with a structured approach.",
			ActionItems: []string{
				"Work with a coach or follow a training plan",
				"Set specific, measurable goals",
				"Track progress weekly",
				"Incorporate variety in your training",
			},
			ExpectedBenefit: "Systematic performance improvement",
			Confidence:      0.85,
		})
	} else if a.PerformanceScore > 70 {
		items = append(items, Item{
			Type:        "training",
			Priority:    PriorityLow,
			Title:       "Advanced Performance Optimization",
			Description: "You're performing well! Consider these advanced strategies.",
			ActionItems: []string{
				"Experiment with periodization",
				"Add high-intensity interval training",
				"Focus on specific performance metrics",
				"Consider nutrition optimization",
			},
			ExpectedBenefit: "Elite-level performance gains",
			Confidence:      0.82,
		})
	}

	return items
}

// Comprehensive analyzes one athlete and combines all three generators.
// The final list is stably sorted by priority, so within a priority the
// activity items precede recovery items precede performance items.
func (e *Engine) Comprehensive(ft *table.FeatureTable, athleteID string) (*Report, error) {
	analysis, err := e.Analyze(ft, athleteID)
	if err != nil {
		return nil, err
	}

	all := e.ActivityRecommendations(analysis)
	all = append(all, e.RecoveryRecommendations(analysis)...)
	all = append(all, e.PerformanceRecommendations(analysis)...)

	sort.SliceStable(all, func(i, j int) bool {
		return priorityRank(all[i].Priority) < priorityRank(all[j].Priority)
	})

	rep := &Report{
		ReportID:             uuid.NewString(),
		AthleteID:            athleteID,
		GeneratedAt:          time.Now().UTC(),
		Analysis:             analysis,
		Recommendations:      all,
		TotalRecommendations: len(all),
	}
	for _, it := range all {
		switch it.Priority {
		case PriorityHigh:
			rep.HighPriorityCount++
		case PriorityMedium:
			rep.MediumPriorityCount++
		case PriorityLow:
			rep.LowPriorityCount++
		}
	}

	log.Info().
		Str("athlete", athleteID).
		Int("recommendations", len(all)).
		Msg("recommendations generated")
	return rep, nil
}

// Batch generates one comprehensive report per athlete. A nil athleteIDs
// slice means every athlete in the table; an explicitly requested athlete
// with no rows fails the whole batch.
func (e *Engine) Batch(ft *table.FeatureTable, athleteIDs []string) ([]*Report, error) {
	if athleteIDs == nil {
		athleteIDs = ft.Athletes()
	}
	reports := make([]*Report, 0, len(athleteIDs))
	for _, id := range athleteIDs {
		rep, err := e.Comprehensive(ft, id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	return reports, nil
}
