package rating

import "github.com/xtding233/rinksim/internal/roster"

// skillWeights are the offense, defense and physicality blend of one slot.
type skillWeights struct{ off, def, phys float64 }

var (
	forwardWeights = [ForwardLines]skillWeights{
		{0.50, 0.30, 0.20},
		{0.40, 0.40, 0.20},
		{0.25, 0.50, 0.25},
		{0.20, 0.40, 0.40},
	}
	pairWeights = [DefensePairs]skillWeights{
		{0.40, 0.30, 0.30},
		{0.30, 0.40, 0.30},
		{0.10, 0.50, 0.40},
	}
)

func blend(players []roster.Player, w skillWeights, isPlayoff bool) float64 {
	var total float64
	for i := range players {
		p := &players[i]
		total += float64(p.Offense)*w.off + float64(p.Defense)*w.def + Physicality(p, isPlayoff)*w.phys
	}
	return total / float64(len(players))
}

// LineRating rates a forward line. Leadership nudges it by 0.1% per point
// of average leadership away from 75.
func LineRating(players []roster.Player, depth int, isPlayoff bool) float64 {
	if len(players) == 0 {
		return DefaultSlotRating
	}
	var lead float64
	for i := range players {
		lead += float64(players[i].Leadership)
	}
	avgLead := lead / float64(len(players))
	return blend(players, forwardWeights[clampDepth(depth, ForwardLines)], isPlayoff) * (1 + (avgLead-75)/1000)
}

// PairRating rates a defense pair.
func PairRating(players []roster.Player, depth int, isPlayoff bool) float64 {
	if len(players) == 0 {
		return DefaultSlotRating
	}
	return blend(players, pairWeights[clampDepth(depth, DefensePairs)], isPlayoff)
}

func playersAt(t *roster.Team, kind roster.LineKind, depth int) []roster.Player {
	var out []roster.Player
	for _, i := range t.Slots(kind, depth) {
		out = append(out, t.Lines[i].Player)
	}
	return out
}

// TeamRating blends four forward lines, three defense pairs and the active
// goalie by ice time, then applies the coach and home ice. Missing slots and
// a missing goalie rate as 50.
func TeamRating(t *roster.Team, goalie *roster.Player, isHome, isPlayoff bool) float64 {
	var total, weight float64
	for depth := 1; depth <= ForwardLines; depth++ {
		ice := forwardIce[depth-1]
		total += LineRating(playersAt(t, roster.LineForward, depth), depth, isPlayoff) * ice
		weight += ice
	}
	for depth := 1; depth <= DefensePairs; depth++ {
		ice := defenseIce[depth-1]
		total += PairRating(playersAt(t, roster.LineDefense, depth), depth, isPlayoff) * ice
		weight += ice
	}

	g := DefaultSlotRating
	if goalie != nil {
		g = float64(goalie.Offense)
	}
	total += g * GoalieWeight
	weight += GoalieWeight

	return Fold(total/weight, CoachModifier(t.Coach), HomeIce(isHome))
}
