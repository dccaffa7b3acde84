package config

// RawConfig is a tuning file as written in YAML. Pointer fields distinguish
// "not set" from zero so that layers merge field by field.
type RawConfig struct {
	Version    string           `yaml:"version"`
	Regulation RegulationConfig `yaml:"regulation"`
	Overtime   *OvertimeConfig  `yaml:"overtime,omitempty"`
	Shootout   *ShootoutConfig  `yaml:"shootout,omitempty"`
	Assists    *AssistConfig    `yaml:"assists,omitempty"`
	Notes      string           `yaml:"notes,omitempty"`
}

type RegulationConfig struct {
	BasePlaysPerPeriod *int     `yaml:"base_plays_per_period"`
	ShotAttemptRate    *float64 `yaml:"shot_attempt_rate"`
	GoalProbabilityCap *float64 `yaml:"goal_probability_cap"`
	StarterProbability *float64 `yaml:"starter_probability"`
}

type OvertimeConfig struct {
	ShotRate     *float64 `yaml:"shot_rate"`
	Plays        *int     `yaml:"plays"`
	XGMultiplier *float64 `yaml:"xg_multiplier"`
	MaxSegments  *int     `yaml:"max_segments"`
}

type ShootoutConfig struct {
	Rounds   *int     `yaml:"rounds"`
	BaseRate *float64 `yaml:"base_rate"`
}

type AssistConfig struct {
	PrimaryRate   *float64 `yaml:"primary_rate"`
	SecondaryRate *float64 `yaml:"secondary_rate"`
}
