package analytics

import (
	"encoding/json"
	"sort"

	"github.com/fitarena/fitarena/internal/stats"
	"github.com/fitarena/fitarena/internal/table"
)

// TeamSummary is the whole-table rollup across athletes.
type TeamSummary struct {
	TotalAthletes int       `json:"total_athletes"`
	TotalRecords  int       `json:"total_records"`
	DateRange     DateRange `json:"date_range"`
	TeamAverages  Averages  `json:"team_averages"`
	TeamTotals    Totals    `json:"team_totals"`
}

// CalculateTeamSummary aggregates the full table.
func CalculateTeamSummary(ft *table.FeatureTable) TeamSummary {
	s := SummaryStatistics(ft, "")
	return TeamSummary{
		TotalAthletes: s.UniqueAthletes,
		TotalRecords:  s.TotalRecords,
		DateRange:     s.DateRange,
		TeamAverages:  s.Averages,
		TeamTotals:    s.Totals,
	}
}

// TopPerformer is one athlete's ranking entry.
type TopPerformer struct {
	AthleteID  string  `json:"athlete_id"`
	Avg        float64 `json:"avg"`
	Total      float64 `json:"total"`
	DaysActive int     `json:"days_active"`
}

// IdentifyTopPerformers ranks athletes by their summed value of the given
// metric, descending, and returns the top N.
func IdentifyTopPerformers(ft *table.FeatureTable, metric string, topN int) []TopPerformer {
	var out []TopPerformer
	for _, id := range ft.Athletes() {
		sub := ft.FilterAthlete(id)
		col, ok := sub.Column(metric)
		if !ok {
			continue
		}
		out = append(out, TopPerformer{
			AthleteID:  id,
			Avg:        stats.Mean(col),
			Total:      stats.Sum(col),
			DaysActive: sub.Len(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Total > out[j].Total
	})
	if topN > 0 && topN < len(out) {
		out = out[:topN]
	}
	return out
}

// ScoreDistribution summarizes the spread of performance scores.
type ScoreDistribution struct {
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Std    float64 `json:"std"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// MarshalJSON emits the NaN std of a single-row table as null.
func (s ScoreDistribution) MarshalJSON() ([]byte, error) {
	type alias ScoreDistribution
	return json.Marshal(struct {
		alias
		Std *float64 `json:"std"`
	}{alias(s), nullableFloat(s.Std)})
}

// TeamDiversity describes how fitness levels and performance scores are
// distributed across the team.
type TeamDiversity struct {
	FitnessLevelDistribution map[string]int     `json:"fitness_level_distribution"` // distinct athletes per level
	PerformanceDistribution  *ScoreDistribution `json:"performance_distribution,omitempty"`
}

// CalculateTeamDiversity computes the team's fitness-level and score
// distributions. Both sections degrade to empty when the feature engine
// did not produce performance indicators.
func CalculateTeamDiversity(ft *table.FeatureTable) TeamDiversity {
	div := TeamDiversity{FitnessLevelDistribution: make(map[string]int)}

	if ft.Features.FitnessLevel {
		perLevel := make(map[string]map[string]bool)
		for i := range ft.Rows {
			level := ft.Rows[i].FitnessLevel
			if perLevel[level] == nil {
				perLevel[level] = make(map[string]bool)
			}
			perLevel[level][ft.Rows[i].AthleteID] = true
		}
		for level, athletes := range perLevel {
			div.FitnessLevelDistribution[level] = len(athletes)
		}
	}

	if ft.Features.PerformanceScore {
		col, _ := ft.Column(table.ColPerformanceScore)
		div.PerformanceDistribution = &ScoreDistribution{
			Mean:   round2(stats.Mean(col)),
			Median: round2(stats.Median(col)),
			Std:    round2(stats.SampleStd(col)),
			Min:    round2(stats.Min(col)),
			Max:    round2(stats.Max(col)),
		}
	}
	return div
}
