package sim

import (
	"math"

	"github.com/xtding233/rinksim/internal/rating"
	"github.com/xtding233/rinksim/internal/roster"
)

// ShotQuality classifies where a shot came from.
type ShotQuality int

const (
	LowDanger ShotQuality = iota
	MediumDanger
	HighDanger
)

var qualities = []ShotQuality{HighDanger, MediumDanger, LowDanger}

// BaseXG is the league-average conversion rate of the shot class.
func (q ShotQuality) BaseXG() float64 {
	switch q {
	case HighDanger:
		return 0.16
	case MediumDanger:
		return 0.065
	default:
		return 0.024
	}
}

func (q ShotQuality) String() string {
	switch q {
	case HighDanger:
		return "high"
	case MediumDanger:
		return "medium"
	default:
		return "low"
	}
}

// mediumDangerShare is the fixed slice of the probability space given to
// medium-danger shots after high danger is placed.
const mediumDangerShare = 0.35

// side is one team's fixed state for a game.
type side struct {
	name    string
	team    *roster.Team
	style   roster.StyleModifiers
	goalie  *roster.Player
	profile rating.Profile
	stats   *teamStats
	skaters []int
}

func newSide(name string, t *roster.Team, goalieLine int, isHome, isPlayoff bool) *side {
	s := &side{name: name, team: t, style: t.Style.Modifiers()}
	if goalieLine >= 0 {
		s.goalie = &t.Lines[goalieLine].Player
	}
	s.profile = rating.Evaluate(t, s.goalie, isHome, isPlayoff)
	s.stats = newTeamStats(t, goalieLine)
	for i := range t.Lines {
		if t.Lines[i].Kind.IsSkater() {
			s.skaters = append(s.skaters, i)
		}
	}
	return s
}

func (s *side) line(i int) *roster.LineAssignment { return &s.team.Lines[i] }

// playContext is what one attacking side knows going into a play.
type playContext struct {
	attack   *side
	defend   *side
	playoff  bool
	clutch   bool
	overtime bool
}

func (c *playContext) leadership() float64 {
	if c.clutch {
		return c.attack.profile.ClutchLeadership
	}
	return c.attack.profile.Leadership
}

// playOutcome is a shot attempt. Assist fields are line indexes, -1 if none.
type playOutcome struct {
	shooter   int
	quality   ShotQuality
	prob      float64
	goal      bool
	primary   int
	secondary int
}

// samplePlay runs one regulation play. ok is false when no shot was taken.
func samplePlay(rng RandomSource, c *playContext, t *Tuning) (out playOutcome, ok bool) {
	if !chance(t.ShotAttemptRate, rng) {
		return out, false
	}
	shooter, ok := weightedChoice(rng, c.attack.skaters, func(i int) float64 {
		la := c.attack.line(i)
		ice := rating.IceTimeShare(la.Kind, la.Depth)
		if la.Kind == roster.LineDefense {
			ice *= 0.4
		}
		return math.Pow(ice, 1.5) * math.Pow(float64(la.Player.Offense)/80, 1.3)
	})
	if !ok {
		return out, false
	}
	la := c.attack.line(shooter)
	p := &la.Player

	variance := uniform(rng, -0.20, 0.20) * (1 - float64(p.Consistency)/100)
	adjOff := math.Max(1, float64(p.Offense)*(1+variance))

	return finishShot(rng, c, t, shooter, adjOff), true
}

// sampleOvertimePlay is the three-on-three variant: a higher attempt rate,
// top-two-line shooters picked uniformly, no consistency variance.
func sampleOvertimePlay(rng RandomSource, c *playContext, t *Tuning) (out playOutcome, ok bool) {
	if !chance(t.OvertimeShotRate, rng) {
		return out, false
	}
	var top []int
	for _, i := range c.attack.skaters {
		if c.attack.line(i).Depth <= 2 {
			top = append(top, i)
		}
	}
	if len(top) == 0 {
		return out, false
	}
	shooter := top[intn(rng, len(top))]
	adjOff := float64(c.attack.line(shooter).Player.Offense)
	return finishShot(rng, c, t, shooter, adjOff), true
}

// finishShot classifies the shot, rolls the goal and picks assists.
func finishShot(rng RandomSource, c *playContext, t *Tuning, shooter int, adjOff float64) playOutcome {
	la := c.attack.line(shooter)
	out := playOutcome{shooter: shooter, primary: -1, secondary: -1}
	out.quality = shotQuality(rng, la.Depth, adjOff, la.Player.Type, c.attack.style, c.defend.profile.Defense)
	out.prob = goalProbability(c, t, out.quality, adjOff, la.Player.Type)
	out.goal = chance(out.prob, rng)
	if !out.goal {
		return out
	}
	if chance(t.PrimaryAssistRate, rng) {
		out.primary = selectPrimaryAssist(rng, c.attack, shooter)
	}
	if out.primary >= 0 && chance(t.SecondaryAssistRate, rng) {
		out.secondary = selectSecondaryAssist(rng, c.attack, shooter, out.primary)
	}
	return out
}

var highDangerByLine = [...]float64{0.40, 0.30, 0.20, 0.15}

// highDangerBase clamps depth into the forward lines the way ice time does.
func highDangerBase(depth int) float64 {
	i := min(max(depth, 1), len(highDangerByLine)) - 1
	return highDangerByLine[i]
}

// highDangerChance is the probability a shot is high danger, floored at 5%.
func highDangerChance(depth int, adjOff float64, typ roster.PlayerType, style roster.StyleModifiers, defenderDef float64) float64 {
	skill := (adjOff - 80) / 200
	hd := rating.Fold(
		highDangerBase(depth)+skill,
		style.HighDanger,
		typ.ShotQualityModifier(),
		1-rating.DefenseSuppression(defenderDef),
	)
	return math.Max(0.05, hd)
}

func shotQuality(rng RandomSource, depth int, adjOff float64, typ roster.PlayerType, style roster.StyleModifiers, defenderDef float64) ShotQuality {
	hd := highDangerChance(depth, adjOff, typ, style, defenderDef)
	md := math.Min(mediumDangerShare, math.Max(0, 1-hd))
	ld := math.Max(0, 1-hd-mediumDangerShare)
	q, _ := weightedChoice(rng, qualities, func(q ShotQuality) float64 {
		switch q {
		case HighDanger:
			return hd
		case MediumDanger:
			return md
		default:
			return ld
		}
	})
	return q
}

// goalProbability is the capped chance a classified shot goes in; always in
// [0, cap].
func goalProbability(c *playContext, t *Tuning, q ShotQuality, adjOff float64, typ roster.PlayerType) float64 {
	xg := q.BaseXG()
	playoffBoost, rebound := 1.0, 1.0
	if c.overtime {
		xg *= t.OvertimeXGMultiplier
		if q == HighDanger {
			rebound = c.attack.profile.Netfront
		}
	} else if q == HighDanger {
		if c.playoff {
			playoffBoost = 1.05
		}
		rebound = c.attack.style.ReboundGoals * c.attack.profile.Netfront
	}

	p := rating.Fold(
		xg,
		adjOff/80,
		typ.GoalModifier(),
		rating.GoalieModifier(c.defend.goalie),
		c.attack.profile.Rating/80,
		playoffBoost,
		rebound,
		1-c.defend.profile.Intimidation,
		c.leadership(),
	)
	if math.IsNaN(p) || p < 0 {
		return 0
	}
	return math.Min(p, t.GoalProbabilityCap)
}

type assistShape struct {
	preferSameLine bool
	defExp, fwdExp float64
	offScale       float64
}

func pickAssist(rng RandomSource, s *side, shooter, exclude int, shape assistShape) int {
	sl := s.line(shooter)
	eligible := func(i int) bool { return i != shooter && i != exclude }

	var pool []int
	for _, i := range s.skaters {
		if !eligible(i) {
			continue
		}
		la := s.line(i)
		if shape.preferSameLine {
			if la.Kind == sl.Kind && la.Depth == sl.Depth {
				pool = append(pool, i)
			}
		} else if la.Kind != sl.Kind {
			pool = append(pool, i)
		}
	}
	if len(pool) == 0 {
		for _, i := range s.skaters {
			if eligible(i) {
				pool = append(pool, i)
			}
		}
	}

	pick, ok := weightedChoice(rng, pool, func(i int) float64 {
		la := s.line(i)
		exp := shape.fwdExp
		if la.Kind == roster.LineDefense {
			exp = shape.defExp
		}
		ice := rating.IceTimeShare(la.Kind, la.Depth)
		return la.Player.Type.AssistModifier() * math.Pow(ice, exp) * float64(la.Player.Offense) / shape.offScale
	})
	if !ok {
		return -1
	}
	return pick
}

// selectPrimaryAssist usually favours the shooter's own line and otherwise
// looks across positions.
func selectPrimaryAssist(rng RandomSource, s *side, shooter int) int {
	same := chance(0.75, rng)
	return pickAssist(rng, s, shooter, -1, assistShape{preferSameLine: same, defExp: 2.0, fwdExp: 1.3, offScale: 80})
}

// selectSecondaryAssist crosses positions half the time, with a steeper
// ice-time curve than the primary.
func selectSecondaryAssist(rng RandomSource, s *side, shooter, primary int) int {
	cross := chance(0.50, rng)
	return pickAssist(rng, s, shooter, primary, assistShape{preferSameLine: !cross, defExp: 2.5, fwdExp: 1.5, offScale: 85})
}
