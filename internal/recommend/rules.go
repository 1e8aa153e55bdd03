// Package recommend turns one athlete's engineered time series into a
// prioritized list of actionable recommendations.
package recommend

// Tier pairs a trigger threshold with the target the recommendation asks
// the athlete to reach.
type Tier struct {
	Threshold float64 `yaml:"threshold"`
	Target    float64 `yaml:"target"`
}

// StepTiers are the step-count rule tiers.
type StepTiers struct {
	Low      Tier `yaml:"low"`
	Moderate Tier `yaml:"moderate"`
	High     Tier `yaml:"high"`
}

// ActivityTiers are the daily active-minute rule tiers.
type ActivityTiers struct {
	Low      Tier `yaml:"low"`
	Moderate Tier `yaml:"moderate"`
	High     Tier `yaml:"high"`
}

// SedentaryTiers are the sedentary-minute rule tiers. Thresholds here are
// upper bounds: exceeding them triggers the recommendation.
type SedentaryTiers struct {
	High     Tier `yaml:"high"`
	Moderate Tier `yaml:"moderate"`
}

// Rules is the immutable threshold table the engine evaluates analyses
// against. Construct once (DefaultRules or config) and pass by value;
// nothing mutates it after construction.
type Rules struct {
	Steps           StepTiers      `yaml:"steps"`
	ActivityMinutes ActivityTiers  `yaml:"activity_minutes"`
	Sedentary       SedentaryTiers `yaml:"sedentary"`
}

// DefaultRules returns the production rule thresholds.
func DefaultRules() Rules {
	return Rules{
		Steps: StepTiers{
			Low:      Tier{Threshold: 5000, Target: 10000},
			Moderate: Tier{Threshold: 10000, Target: 15000},
			High:     Tier{Threshold: 15000, Target: 20000},
		},
		ActivityMinutes: ActivityTiers{
			Low:      Tier{Threshold: 30, Target: 60},
			Moderate: Tier{Threshold: 60, Target: 90},
			High:     Tier{Threshold: 90, Target: 120},
		},
		Sedentary: SedentaryTiers{
			High:     Tier{Threshold: 600, Target: 480},
			Moderate: Tier{Threshold: 480, Target: 360},
		},
	}
}
