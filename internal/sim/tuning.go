package sim

import "fmt"

// Periods is the number of regulation periods.
const Periods = 3

// GameLengthSeconds is regulation length; goalies are credited all of it.
const GameLengthSeconds = 3600

// suddenDeathCap bounds shootout sudden death before a coin flip settles it.
const suddenDeathCap = 1000

// Tuning holds the engine's calibration constants. Zero fields take the
// value from DefaultTuning.
type Tuning struct {
	BasePlaysPerPeriod   int     `json:"base_plays_per_period"`
	ShotAttemptRate      float64 `json:"shot_attempt_rate"`
	OvertimeShotRate     float64 `json:"overtime_shot_rate"`
	OvertimePlays        int     `json:"overtime_plays"`
	OvertimeXGMultiplier float64 `json:"overtime_xg_multiplier"`
	GoalProbabilityCap   float64 `json:"goal_probability_cap"`
	PrimaryAssistRate    float64 `json:"primary_assist_rate"`
	SecondaryAssistRate  float64 `json:"secondary_assist_rate"`
	MaxOvertimeSegments  int     `json:"max_overtime_segments"`
	ShootoutRounds       int     `json:"shootout_rounds"`
	ShootoutBaseRate     float64 `json:"shootout_base_rate"`
	StarterProbability   float64 `json:"starter_probability"`
}

func DefaultTuning() Tuning {
	return Tuning{
		BasePlaysPerPeriod:   50,
		ShotAttemptRate:      0.25,
		OvertimeShotRate:     0.35,
		OvertimePlays:        10,
		OvertimeXGMultiplier: 1.5,
		GoalProbabilityCap:   0.50,
		PrimaryAssistRate:    0.95,
		SecondaryAssistRate:  0.75,
		MaxOvertimeSegments:  1000,
		ShootoutRounds:       3,
		ShootoutBaseRate:     0.30,
		StarterProbability:   0.60,
	}
}

// probabilities lists the rate fields by name.
func (t *Tuning) probabilities() []struct {
	name string
	p    *float64
} {
	return []struct {
		name string
		p    *float64
	}{
		{"shot_attempt_rate", &t.ShotAttemptRate},
		{"overtime_shot_rate", &t.OvertimeShotRate},
		{"goal_probability_cap", &t.GoalProbabilityCap},
		{"primary_assist_rate", &t.PrimaryAssistRate},
		{"secondary_assist_rate", &t.SecondaryAssistRate},
		{"shootout_base_rate", &t.ShootoutBaseRate},
		{"starter_probability", &t.StarterProbability},
	}
}

// Validate reports the first rate outside [0, 1], wrapping ErrInvalidProb.
func (t Tuning) Validate() error {
	for _, f := range t.probabilities() {
		if err := validateProb(*f.p); err != nil {
			return fmt.Errorf("%s=%v: %w", f.name, *f.p, err)
		}
	}
	return nil
}

// withDefaults replaces unset or unusable fields: non-positive counts and
// rates that are not positive probabilities.
func (t Tuning) withDefaults() Tuning {
	d := DefaultTuning()
	setInt := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	setFloat := func(v *float64, def float64) {
		if *v <= 0 {
			*v = def
		}
	}
	setInt(&t.BasePlaysPerPeriod, d.BasePlaysPerPeriod)
	setFloat(&t.ShotAttemptRate, d.ShotAttemptRate)
	setFloat(&t.OvertimeShotRate, d.OvertimeShotRate)
	setInt(&t.OvertimePlays, d.OvertimePlays)
	setFloat(&t.OvertimeXGMultiplier, d.OvertimeXGMultiplier)
	setFloat(&t.GoalProbabilityCap, d.GoalProbabilityCap)
	setFloat(&t.PrimaryAssistRate, d.PrimaryAssistRate)
	setFloat(&t.SecondaryAssistRate, d.SecondaryAssistRate)
	setInt(&t.MaxOvertimeSegments, d.MaxOvertimeSegments)
	setInt(&t.ShootoutRounds, d.ShootoutRounds)
	setFloat(&t.ShootoutBaseRate, d.ShootoutBaseRate)
	setFloat(&t.StarterProbability, d.StarterProbability)
	defaults := d.probabilities()
	for i, f := range t.probabilities() {
		if validateProb(*f.p) != nil {
			*f.p = *defaults[i].p
		}
	}
	return t
}
