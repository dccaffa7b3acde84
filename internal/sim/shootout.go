package sim

import (
	"github.com/xtding233/rinksim/internal/roster"
)

// ShootoutAttempt is one try in the shootout log. Sudden-death attempts are
// team level; only the deciding one names a player.
type ShootoutAttempt struct {
	Round       int    `json:"round"`
	Team        string `json:"team"`
	PlayerID    int    `json:"player_id,omitempty"`
	PlayerName  string `json:"player_name,omitempty"`
	Scored      bool   `json:"scored"`
	SuddenDeath bool   `json:"sudden_death,omitempty"`
}

type ShootoutResult struct {
	HomeGoals int               `json:"home_goals"`
	AwayGoals int               `json:"away_goals"`
	Attempts  []ShootoutAttempt `json:"attempts"`
}

// HomeWon reports the shootout winner. Shootouts never tie.
func (r *ShootoutResult) HomeWon() bool { return r.HomeGoals > r.AwayGoals }

var shootoutDepthWeight = [...]float64{1.0, 0.8, 0.5, 0.3}

func depthWeight(depth int) float64 {
	i := depth - 1
	if i < 0 || i >= len(shootoutDepthWeight) {
		return shootoutDepthWeight[len(shootoutDepthWeight)-1]
	}
	return shootoutDepthWeight[i]
}

// pickShooter draws a forward weighted by skill, depth and finishing. With
// no forwards any skater may shoot; ok is false with no skaters.
func pickShooter(rng RandomSource, s *side) (line int, ok bool) {
	forwards := s.team.Slots(roster.LineForward, 0)
	pool := forwards
	if len(pool) == 0 {
		pool = s.skaters
	}
	return weightedChoice(rng, pool, func(i int) float64 {
		p := &s.line(i).Player
		return float64(p.Offense) * depthWeight(s.line(i).Depth) * p.Type.GoalModifier()
	})
}

// shootoutAttempt is one player try; a goal is booked on the shooter.
func (s *side) shootoutAttempt(rng RandomSource, t *Tuning, round int) ShootoutAttempt {
	att := ShootoutAttempt{Round: round, Team: s.name}
	var prob float64 // no skaters, nobody to score
	line, ok := pickShooter(rng, s)
	if ok {
		p := &s.line(line).Player
		att.PlayerID, att.PlayerName = p.ID, p.Name
		prob = t.ShootoutBaseRate * float64(p.Offense) / 80 * p.Type.GoalModifier()
	}
	att.Scored = chance(prob, rng)
	if att.Scored {
		s.creditShootoutGoal(line)
	}
	return att
}

// decideSuddenDeath names the scorer of a deciding team-level goal and books
// it. att may be nil when the round has no attempt entry.
func (s *side) decideSuddenDeath(rng RandomSource, att *ShootoutAttempt) {
	line, ok := pickShooter(rng, s)
	if !ok {
		return
	}
	if att != nil {
		p := &s.line(line).Player
		att.PlayerID, att.PlayerName = p.ID, p.Name
	}
	s.creditShootoutGoal(line)
}

func (s *side) suddenDeathRate(t *Tuning) float64 {
	if len(s.skaters) == 0 {
		return 0
	}
	return t.ShootoutBaseRate * s.profile.Rating / 80
}

func (s *side) creditShootoutGoal(line int) {
	if rec := s.stats.slot(line); rec != nil {
		rec.Goals++
	}
}

// runShootout plays the fixed rounds, home shooting first, then team-level
// sudden death until exactly one side scores in a round. Every counted goal
// lands on a shooter's record.
func runShootout(rng RandomSource, t *Tuning, home, away *side) *ShootoutResult {
	res := &ShootoutResult{}
	for round := 1; round <= t.ShootoutRounds; round++ {
		h := home.shootoutAttempt(rng, t, round)
		a := away.shootoutAttempt(rng, t, round)
		res.Attempts = append(res.Attempts, h, a)
		if h.Scored {
			res.HomeGoals++
		}
		if a.Scored {
			res.AwayGoals++
		}
	}

	round := t.ShootoutRounds
	for sd := 0; res.HomeGoals == res.AwayGoals; sd++ {
		round++
		if sd >= suddenDeathCap {
			// a pair of sides that can never score; settle it
			if chance(0.5, rng) {
				res.HomeGoals++
				home.decideSuddenDeath(rng, nil)
			} else {
				res.AwayGoals++
				away.decideSuddenDeath(rng, nil)
			}
			break
		}
		hs := chance(home.suddenDeathRate(t), rng)
		as := chance(away.suddenDeathRate(t), rng)
		res.Attempts = append(res.Attempts,
			ShootoutAttempt{Round: round, Team: home.name, Scored: hs, SuddenDeath: true},
			ShootoutAttempt{Round: round, Team: away.name, Scored: as, SuddenDeath: true},
		)
		n := len(res.Attempts)
		switch {
		case hs && !as:
			res.HomeGoals++
			home.decideSuddenDeath(rng, &res.Attempts[n-2])
		case as && !hs:
			res.AwayGoals++
			away.decideSuddenDeath(rng, &res.Attempts[n-1])
		}
	}
	return res
}
