package rating

import (
	"math"

	"github.com/xtding233/rinksim/internal/roster"
)

// Fold multiplies modifiers together. An empty fold is 1.
func Fold(factors ...float64) float64 {
	out := 1.0
	for _, f := range factors {
		out *= f
	}
	return out
}

// CoachModifier scales a team rating by its coach; no coach costs 2%.
func CoachModifier(c *roster.Coach) float64 {
	if c == nil {
		return NoCoachModifier
	}
	return 1 + (float64(c.Rating)-75)/500
}

func HomeIce(isHome bool) float64 {
	if isHome {
		return HomeIceAdvantage
	}
	return 1
}

// Physicality returns a player's physicality, boosted and capped at 100 in
// the playoffs.
func Physicality(p *roster.Player, isPlayoff bool) float64 {
	phys := float64(p.Physicality)
	if isPlayoff {
		phys = math.Min(phys*PlayoffPhysBoost, 100)
	}
	return phys
}

// ChemistryBonus rewards the single best leader: 70 is neutral, 100 is +5%.
func ChemistryBonus(maxLead float64) float64 {
	return 1 + math.Max(0, (maxLead-70)/600)
}

// PlayoffIntensityBonus grows with average leadership above 75.
func PlayoffIntensityBonus(avgLead float64) float64 {
	return 1 + math.Max(0, (avgLead-75)/500)
}

// ClutchBonus applies in the third period and overtime.
func ClutchBonus(maxLead float64) float64 {
	return 1 + math.Max(0, (maxLead-70)/500)
}

// LeadershipPenalty shrinks scoring for rosters averaging under 70.
func LeadershipPenalty(avgLead float64) float64 {
	return 1 - math.Max(0, 70-avgLead)/200
}

// DefenseSuppression is the fraction of high-danger chances a defense
// removes. Below-average defenses return a negative value, which widens the
// attacker's chances.
func DefenseSuppression(defRating float64) float64 {
	return (defRating - 75) / 100
}

// IntimidationSuppression converts average physicality into the fraction of
// scoring chance the opponent loses.
func IntimidationSuppression(avgPhys float64) float64 {
	return math.Max(0, (avgPhys-75)/150)
}

// GoalieModifier scales the attacker's chance by the defending goalie; an
// empty net is easier.
func GoalieModifier(goalie *roster.Player) float64 {
	if goalie == nil {
		return NoGoalieModifier
	}
	return 85 / math.Max(50, float64(goalie.Offense))
}
