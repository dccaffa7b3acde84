package config

import (
	"fmt"
	"strings"
)

// ValidateRaw checks semantic constraints of a RawConfig.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	positive := func(name string, v *int) {
		if v != nil && *v <= 0 {
			errs = append(errs, name+" must be >= 1")
		}
	}
	rate := func(name string, v *float64) {
		if v != nil && !(*v > 0 && *v <= 1) {
			errs = append(errs, name+" must be in (0,1]")
		}
	}

	// regulation
	positive("regulation.base_plays_per_period", cfg.Regulation.BasePlaysPerPeriod)
	rate("regulation.shot_attempt_rate", cfg.Regulation.ShotAttemptRate)
	rate("regulation.goal_probability_cap", cfg.Regulation.GoalProbabilityCap)
	rate("regulation.starter_probability", cfg.Regulation.StarterProbability)

	// overtime
	if o := cfg.Overtime; o != nil {
		rate("overtime.shot_rate", o.ShotRate)
		positive("overtime.plays", o.Plays)
		positive("overtime.max_segments", o.MaxSegments)
		if o.XGMultiplier != nil && !(*o.XGMultiplier > 0) {
			errs = append(errs, "overtime.xg_multiplier must be > 0")
		}
	}

	// shootout
	if s := cfg.Shootout; s != nil {
		positive("shootout.rounds", s.Rounds)
		rate("shootout.base_rate", s.BaseRate)
	}

	// assists
	if a := cfg.Assists; a != nil {
		rate("assists.primary_rate", a.PrimaryRate)
		rate("assists.secondary_rate", a.SecondaryRate)
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
