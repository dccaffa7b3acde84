// Package rating turns rosters into the scalar ratings the play engine
// consumes. Everything here is pure: the same team always rates the same.
package rating

import (
	"math"

	"github.com/xtding233/rinksim/internal/roster"
)

const (
	DefaultSlotRating = 50.0
	DefaultDefense    = 75.0
	DefaultLeadership = 75.0
	DefaultPhysical   = 75.0

	HomeIceAdvantage = 1.05
	PlayoffPhysBoost = 1.20
	GoalieWeight     = 0.30
	NoCoachModifier  = 0.98
	NoGoalieModifier = 1.2
	MaxNetfront      = 1.35
	LeadershipFloor  = 0.90

	ForwardLines = 4
	DefensePairs = 3
)

var (
	forwardIce = [ForwardLines]float64{0.35, 0.30, 0.20, 0.15}
	defenseIce = [DefensePairs]float64{0.45, 0.35, 0.20}
)

func clampDepth(depth, n int) int {
	i := depth - 1
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

// IceTimeShare is the fraction of the game a slot is on the ice. Depth is
// clamped into the table, so line 7 plays like line 4. Goalies play the
// whole game.
func IceTimeShare(kind roster.LineKind, depth int) float64 {
	switch kind {
	case roster.LineForward:
		return forwardIce[clampDepth(depth, ForwardLines)]
	case roster.LineDefense:
		return defenseIce[clampDepth(depth, DefensePairs)]
	case roster.LineGoalie:
		return 1
	default:
		return 0
	}
}

// weightedMean accumulates ice-time weighted skater values, falling back to
// def when no skater contributes.
func weightedMean(t *roster.Team, def float64, value func(la *roster.LineAssignment) float64) float64 {
	var sum, weight float64
	for i := range t.Lines {
		la := &t.Lines[i]
		if !la.Kind.IsSkater() {
			continue
		}
		ice := IceTimeShare(la.Kind, la.Depth)
		sum += value(la) * ice
		weight += ice
	}
	if weight <= 0 {
		return def
	}
	return sum / weight
}

// TeamDefense is the ice-time weighted skater defense, scaled by each
// player's type.
func TeamDefense(t *roster.Team) float64 {
	return weightedMean(t, DefaultDefense, func(la *roster.LineAssignment) float64 {
		return float64(la.Player.Defense) * la.Player.Type.DefenseBonus()
	})
}

// TeamIntimidation is the suppression a team's physicality applies to its
// opponent's scoring.
func TeamIntimidation(t *roster.Team, isPlayoff bool) float64 {
	avg := weightedMean(t, DefaultPhysical, func(la *roster.LineAssignment) float64 {
		return Physicality(&la.Player, isPlayoff) * la.Player.Type.IntimidationBonus()
	})
	return IntimidationSuppression(avg)
}

func maxLeadership(t *roster.Team) float64 {
	best, seen := 0, false
	for i := range t.Lines {
		la := &t.Lines[i]
		if !la.Kind.IsSkater() {
			continue
		}
		if !seen || la.Player.Leadership > best {
			best, seen = la.Player.Leadership, true
		}
	}
	if !seen {
		return DefaultLeadership
	}
	return float64(best)
}

// TeamLeadership is the scoring multiplier a team's leaders provide. Clutch
// applies in the third period and overtime.
func TeamLeadership(t *roster.Team, isPlayoff, isClutch bool) float64 {
	maxLead := maxLeadership(t)
	avgLead := weightedMean(t, DefaultLeadership, func(la *roster.LineAssignment) float64 {
		return float64(la.Player.Leadership)
	})

	factors := []float64{ChemistryBonus(maxLead)}
	if isPlayoff {
		factors = append(factors, PlayoffIntensityBonus(avgLead))
	}
	if isClutch {
		factors = append(factors, ClutchBonus(maxLead))
	}
	factors = append(factors, LeadershipPenalty(avgLead))
	return math.Max(LeadershipFloor, Fold(factors...))
}

// NetfrontPresence multiplies high-danger rebound conversion. Defensemen
// count at 30% of their ice time.
func NetfrontPresence(t *roster.Team) float64 {
	presence := 1.0
	for i := range t.Lines {
		la := &t.Lines[i]
		if !la.Kind.IsSkater() {
			continue
		}
		ice := IceTimeShare(la.Kind, la.Depth)
		if la.Kind == roster.LineDefense {
			ice *= 0.3
		}
		presence += la.Player.Type.NetfrontBonus() * ice * 2
	}
	return math.Min(presence, MaxNetfront)
}

// Profile is every team-level rating one game needs, computed once.
type Profile struct {
	Rating           float64 `json:"rating"`
	Defense          float64 `json:"defense"`
	Intimidation     float64 `json:"intimidation"`
	Leadership       float64 `json:"leadership"`
	ClutchLeadership float64 `json:"clutch_leadership"`
	Netfront         float64 `json:"netfront"`
}

// Evaluate builds a team's Profile. goalie is the active goalie, or nil.
func Evaluate(t *roster.Team, goalie *roster.Player, isHome, isPlayoff bool) Profile {
	return Profile{
		Rating:           TeamRating(t, goalie, isHome, isPlayoff),
		Defense:          TeamDefense(t),
		Intimidation:     TeamIntimidation(t, isPlayoff),
		Leadership:       TeamLeadership(t, isPlayoff, false),
		ClutchLeadership: TeamLeadership(t, isPlayoff, true),
		Netfront:         NetfrontPresence(t),
	}
}
