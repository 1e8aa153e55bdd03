package table

import (
	"time"
)

// Record is one athlete-day of wearable activity data. Records are immutable
// inputs produced by an external loader; the pipeline never mutates them.
type Record struct {
	AthleteID            string    `json:"athlete_id"`
	Date                 time.Time `json:"date"`
	Steps                int       `json:"steps"`
	Distance             float64   `json:"distance_km"`
	Calories             float64   `json:"calories"`
	VeryActiveMinutes    int       `json:"very_active_minutes"`
	FairlyActiveMinutes  int       `json:"fairly_active_minutes"`
	LightlyActiveMinutes int       `json:"lightly_active_minutes"`
	SedentaryMinutes     int       `json:"sedentary_minutes"`
}

// Schema declares which optional input fields the loader populated. It is
// computed once at load time and drives feature selection downstream, so
// missing-column behavior is decided in exactly one place.
type Schema struct {
	HasDistance  bool `json:"has_distance"`
	HasCalories  bool `json:"has_calories"`
	HasIntensity bool `json:"has_intensity"` // the three active-minute buckets
	HasSedentary bool `json:"has_sedentary"`
}

// FullSchema reports every optional field as present.
func FullSchema() Schema {
	return Schema{
		HasDistance:  true,
		HasCalories:  true,
		HasIntensity: true,
		HasSedentary: true,
	}
}

// Canonical metric column names used across the pipeline. These are the
// contract surface between the feature engine and its consumers.
const (
	ColSteps              = "steps"
	ColDistance           = "distance"
	ColCalories           = "calories"
	ColVeryActive         = "very_active_minutes"
	ColFairlyActive       = "fairly_active_minutes"
	ColLightlyActive      = "lightly_active_minutes"
	ColSedentary          = "sedentary_minutes"
	ColTotalActiveMinutes = "total_active_minutes"
	ColPerformanceScore   = "performance_score"
)

// Metric returns the named base metric for this record. The second return
// is false for names the record does not carry.
func (r *Record) Metric(name string) (float64, bool) {
	switch name {
	case ColSteps:
		return float64(r.Steps), true
	case ColDistance:
		return r.Distance, true
	case ColCalories:
		return r.Calories, true
	case ColVeryActive:
		return float64(r.VeryActiveMinutes), true
	case ColFairlyActive:
		return float64(r.FairlyActiveMinutes), true
	case ColLightlyActive:
		return float64(r.LightlyActiveMinutes), true
	case ColSedentary:
		return float64(r.SedentaryMinutes), true
	}
	return 0, false
}
