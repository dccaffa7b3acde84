package sim

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/xtding233/rinksim/internal/roster"
)

type phaseKind int

const (
	phasePeriod phaseKind = iota
	phaseOvertime
	phaseShootout
	phaseFinal
)

func (k phaseKind) String() string {
	switch k {
	case phasePeriod:
		return "period"
	case phaseOvertime:
		return "overtime"
	case phaseShootout:
		return "shootout"
	default:
		return "final"
	}
}

// phase is a state of the game: a regulation period number, or one of the
// later stages.
type phase struct {
	kind   phaseKind
	period int
}

// game is the mutable state of one Simulate call.
type game struct {
	tuning  *Tuning
	rng     RandomSource
	playoff bool
	log     *logrus.Entry
	observe func(*playOutcome)

	home, away           *side
	homeGoals, awayGoals int
	overtimeSegments     int
	shootout             *ShootoutResult
}

// selectGoalie picks the active goalie's line index, -1 if the team has
// none. With two or more, the depth-1 goalie starts at StarterProbability.
func (g *game) selectGoalie(t *roster.Team) int {
	goalies := t.Goalies()
	switch len(goalies) {
	case 0:
		return -1
	case 1:
		return goalies[0]
	}
	if chance(g.tuning.StarterProbability, g.rng) {
		return goalies[0]
	}
	return goalies[1]
}

func (g *game) tied() bool { return g.homeGoals == g.awayGoals }

func (g *game) run() *GameResult {
	for p := (phase{kind: phasePeriod, period: 1}); p.kind != phaseFinal; p = g.step(p) {
		g.log.WithFields(logrus.Fields{
			"phase":  p.kind.String(),
			"period": p.period,
			"score":  [2]int{g.homeGoals, g.awayGoals},
		}).Debug("phase start")
	}

	g.log.WithFields(logrus.Fields{
		"home_shots": g.home.stats.shots(),
		"away_shots": g.away.stats.shots(),
		"home_goals": g.home.stats.goals(),
		"away_goals": g.away.stats.goals(),
	}).Debug("play finished")

	diff := g.homeGoals - g.awayGoals
	g.home.stats.finalizePlusMinus(diff)
	g.away.stats.finalizePlusMinus(-diff)

	return &GameResult{
		HomeScore:        g.homeGoals,
		AwayScore:        g.awayGoals,
		HomeStats:        g.home.stats.records,
		AwayStats:        g.away.stats.records,
		WentToOvertime:   g.overtimeSegments > 0,
		OvertimeSegments: g.overtimeSegments,
		Shootout:         g.shootout,
		WentToShootout:   g.shootout != nil,
	}
}

// step runs one phase and returns the next.
func (g *game) step(p phase) phase {
	switch p.kind {
	case phasePeriod:
		g.playPeriod(p.period)
		switch {
		case p.period < Periods:
			return phase{kind: phasePeriod, period: p.period + 1}
		case g.tied():
			return phase{kind: phaseOvertime}
		default:
			return phase{kind: phaseFinal}
		}

	case phaseOvertime:
		segments := 1
		if g.playoff {
			segments = g.tuning.MaxOvertimeSegments
		}
		for i := 0; i < segments && g.tied(); i++ {
			g.overtimeSegments++
			g.playOvertimeSegment()
		}
		if g.tied() {
			if g.playoff {
				g.log.WithField("segments", g.overtimeSegments).Warn("overtime segment cap reached")
			}
			return phase{kind: phaseShootout}
		}
		return phase{kind: phaseFinal}

	case phaseShootout:
		g.shootout = runShootout(g.rng, g.tuning, g.home, g.away)
		g.homeGoals += g.shootout.HomeGoals
		g.awayGoals += g.shootout.AwayGoals
		return phase{kind: phaseFinal}
	}
	return phase{kind: phaseFinal}
}

func (g *game) context(attack, defend *side, clutch, overtime bool) *playContext {
	return &playContext{attack: attack, defend: defend, playoff: g.playoff, clutch: clutch, overtime: overtime}
}

// apply books one shot on both sides' records and the score.
func (g *game) apply(c *playContext, out *playOutcome) {
	if g.observe != nil {
		g.observe(out)
	}
	c.attack.stats.recordFor(out)
	c.defend.stats.recordAgainst(out.goal)
	if !out.goal {
		return
	}
	if c.attack == g.home {
		g.homeGoals++
	} else {
		g.awayGoals++
	}
}

func (g *game) playsFor(s *side) int {
	return int(math.Round(float64(g.tuning.BasePlaysPerPeriod) * s.style.ShotVolume))
}

// playPeriod runs every home play, then every away play, then the physical
// and turnover passes. The third period is clutch time.
func (g *game) playPeriod(n int) {
	clutch := n == Periods
	for _, c := range []*playContext{
		g.context(g.home, g.away, clutch, false),
		g.context(g.away, g.home, clutch, false),
	} {
		for i := g.playsFor(c.attack); i > 0; i-- {
			if out, ok := samplePlay(g.rng, c, g.tuning); ok {
				g.apply(c, &out)
			}
		}
	}
	physicalPass(g.rng, g.home, g.playoff)
	physicalPass(g.rng, g.away, g.playoff)
	turnoverPass(g.rng, g.home)
	turnoverPass(g.rng, g.away)
}

// playOvertimeSegment alternates single attempts, home first, and stops at
// the first goal.
func (g *game) playOvertimeSegment() {
	home := g.context(g.home, g.away, true, true)
	away := g.context(g.away, g.home, true, true)
	for i := 0; i < g.tuning.OvertimePlays; i++ {
		for _, c := range []*playContext{home, away} {
			out, ok := sampleOvertimePlay(g.rng, c, g.tuning)
			if !ok {
				continue
			}
			g.apply(c, &out)
			if out.goal {
				return
			}
		}
	}
}
