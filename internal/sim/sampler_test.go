package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/rinksim/internal/roster"
	"github.com/xtding233/rinksim/internal/testutil"
)

func testSides(t *testing.T, home, away roster.Team, playoff bool) (*side, *side) {
	t.Helper()
	hg, ag := -1, -1
	if g := home.Goalies(); len(g) > 0 {
		hg = g[0]
	}
	if g := away.Goalies(); len(g) > 0 {
		ag = g[0]
	}
	return newSide("home", &home, hg, true, playoff), newSide("away", &away, ag, false, playoff)
}

func TestHighDangerChance(t *testing.T) {
	neutral := roster.StyleNeutral.Modifiers()
	assert.InDelta(t, 0.40, highDangerChance(1, 80, roster.TypeUnknown, neutral, 75), 1e-12)
	assert.InDelta(t, 0.15, highDangerChance(7, 80, roster.TypeUnknown, neutral, 75), 1e-12)
	// a missing depth counts as the first line, as for ice time
	assert.InDelta(t, 0.40, highDangerChance(0, 80, roster.TypeUnknown, neutral, 75), 1e-12)
	assert.Equal(t, highDangerBase(1), highDangerBase(-3))

	// strong defense against a weak fourth-liner hits the floor
	trap := roster.StyleTrap.Modifiers()
	assert.Equal(t, 0.05, highDangerChance(4, 20, roster.TypeDefensive, trap, 100))

	// a weak defense widens chances
	assert.Greater(t, highDangerChance(1, 80, roster.TypeUnknown, neutral, 60), 0.40)
}

func TestShotQualityMix(t *testing.T) {
	neutral := roster.StyleNeutral.Modifiers()
	rng := NewSeededRNG(3)
	counts := map[ShotQuality]int{}
	const n = 40000
	for i := 0; i < n; i++ {
		counts[shotQuality(rng, 1, 80, roster.TypeUnknown, neutral, 75)]++
	}
	assert.InDelta(t, 0.40, float64(counts[HighDanger])/n, 0.015)
	assert.InDelta(t, 0.35, float64(counts[MediumDanger])/n, 0.015)
	assert.InDelta(t, 0.25, float64(counts[LowDanger])/n, 0.015)
}

func TestGoalProbabilityCapped(t *testing.T) {
	tuning := DefaultTuning()
	strong := testutil.UniformTeam(1, 100, roster.StyleShootCrash)
	weak := testutil.BuildTeam(testutil.TeamSpec{ID: 2, Rating: 0, Forwards: 4, Pairs: 3})
	home, away := testSides(t, strong, weak, true)

	for _, overtime := range []bool{false, true} {
		c := &playContext{attack: home, defend: away, playoff: true, clutch: true, overtime: overtime}
		for _, q := range qualities {
			p := goalProbability(c, &tuning, q, 120, roster.TypeSniper)
			assert.True(t, p >= 0 && p <= tuning.GoalProbabilityCap, "p=%v", p)
		}
		assert.Equal(t, tuning.GoalProbabilityCap, goalProbability(c, &tuning, HighDanger, 120, roster.TypeSniper))
	}

	c := &playContext{attack: away, defend: home}
	p := goalProbability(c, &tuning, LowDanger, 1, roster.TypeDefensive)
	assert.True(t, p >= 0 && p < 0.01, "p=%v", p)
}

func TestOvertimeBoostsXG(t *testing.T) {
	tuning := DefaultTuning()
	home, away := testSides(t, testutil.UniformTeam(1, 60, roster.StyleNeutral), testutil.UniformTeam(2, 80, roster.StyleNeutral), false)

	reg := &playContext{attack: home, defend: away}
	ot := &playContext{attack: home, defend: away, overtime: true}
	pr := goalProbability(reg, &tuning, MediumDanger, 60, roster.TypeUnknown)
	po := goalProbability(ot, &tuning, MediumDanger, 60, roster.TypeUnknown)
	assert.InDelta(t, pr*1.5, po, 1e-12)
}

func TestSamplePlayNeverPicksGoalie(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ShotAttemptRate = 1
	home, away := testSides(t, testutil.UniformTeam(1, 80, roster.StylePossession), testutil.UniformTeam(2, 80, roster.StylePossession), false)
	c := &playContext{attack: home, defend: away}

	rng := NewSeededRNG(21)
	for i := 0; i < 5000; i++ {
		out, ok := samplePlay(rng, c, &tuning)
		require.True(t, ok)
		la := home.line(out.shooter)
		require.True(t, la.Kind.IsSkater())
		require.True(t, out.prob >= 0 && out.prob <= tuning.GoalProbabilityCap)
		if out.primary >= 0 {
			assert.NotEqual(t, out.shooter, out.primary)
			assert.True(t, home.line(out.primary).Kind.IsSkater())
		}
		if out.secondary >= 0 {
			assert.GreaterOrEqual(t, out.primary, 0)
			assert.NotEqual(t, out.shooter, out.secondary)
			assert.NotEqual(t, out.primary, out.secondary)
		}
		if !out.goal {
			assert.Equal(t, -1, out.primary)
			assert.Equal(t, -1, out.secondary)
		}
	}
}

func TestAssistWithLoneSkater(t *testing.T) {
	team := testutil.BuildTeam(testutil.TeamSpec{ID: 1, Rating: 80, Forwards: 1, Goalies: 1})
	team.Lines = team.Lines[2:] // one right wing and the goalie
	s := newSide("home", &team, 1, true, false)
	require.Len(t, s.skaters, 1)

	rng := NewSeededRNG(1)
	assert.Equal(t, -1, selectPrimaryAssist(rng, s, s.skaters[0]))
}

func TestAssistPrefersLinemates(t *testing.T) {
	home, _ := testSides(t, testutil.UniformTeam(1, 80, roster.StyleNeutral), testutil.UniformTeam(2, 80, roster.StyleNeutral), false)
	shooter := home.skaters[0] // first line forward
	rng := NewSeededRNG(8)
	linemates := 0
	const n = 20000
	for i := 0; i < n; i++ {
		a := selectPrimaryAssist(rng, home, shooter)
		la := home.line(a)
		if la.Kind == roster.LineForward && la.Depth == 1 {
			linemates++
		}
	}
	// 75% same line by preference, plus nothing from the crossover pool
	assert.InDelta(t, 0.75, float64(linemates)/n, 0.02)
}

func TestOvertimePlayNeedsTopLines(t *testing.T) {
	tuning := DefaultTuning()
	tuning.OvertimeShotRate = 1

	team := testutil.UniformTeam(1, 80, roster.StyleNeutral)
	for i := range team.Lines {
		if team.Lines[i].Kind.IsSkater() {
			team.Lines[i].Depth = 3
		}
	}
	home, away := testSides(t, team, testutil.UniformTeam(2, 80, roster.StyleNeutral), false)
	c := &playContext{attack: home, defend: away, overtime: true, clutch: true}
	_, ok := sampleOvertimePlay(NewSeededRNG(1), c, &tuning)
	assert.False(t, ok)

	c = &playContext{attack: away, defend: home, overtime: true, clutch: true}
	rng := NewSeededRNG(2)
	for i := 0; i < 500; i++ {
		out, ok := sampleOvertimePlay(rng, c, &tuning)
		require.True(t, ok)
		assert.LessOrEqual(t, away.line(out.shooter).Depth, 2)
	}
}

func TestShootoutNeverTied(t *testing.T) {
	tuning := DefaultTuning()
	for seed := uint64(0); seed < 300; seed++ {
		home, away := testSides(t, testutil.UniformTeam(1, 75, roster.StyleNeutral), testutil.UniformTeam(2, 75, roster.StyleNeutral), false)
		res := runShootout(NewSeededRNG(seed), &tuning, home, away)
		require.NotEqual(t, res.HomeGoals, res.AwayGoals)
		require.GreaterOrEqual(t, len(res.Attempts), 2*tuning.ShootoutRounds)
		for _, a := range res.Attempts[:2*tuning.ShootoutRounds] {
			assert.False(t, a.SuddenDeath)
			assert.NotZero(t, a.PlayerID)
		}
		assert.Equal(t, "home", res.Attempts[0].Team)
		assert.Equal(t, res.HomeGoals, home.stats.goals())
		assert.Equal(t, res.AwayGoals, away.stats.goals())
		for _, a := range res.Attempts[2*tuning.ShootoutRounds:] {
			// only the deciding sudden-death attempt names a scorer
			if a.PlayerID != 0 {
				assert.True(t, a.Scored)
			}
		}
	}
}

func TestShootoutWithoutShooters(t *testing.T) {
	tuning := DefaultTuning()
	empty := testutil.BuildTeam(testutil.TeamSpec{ID: 1, Goalies: 1})
	other := testutil.BuildTeam(testutil.TeamSpec{ID: 2, Rating: 80, Pairs: 3, Goalies: 1})
	home, away := testSides(t, empty, other, false)

	res := runShootout(NewSeededRNG(4), &tuning, home, away)
	assert.NotEqual(t, res.HomeGoals, res.AwayGoals)
	assert.Zero(t, res.Attempts[0].PlayerID)
	// no forwards: a defenseman shoots
	assert.NotZero(t, res.Attempts[1].PlayerID)
	assert.Equal(t, res.AwayGoals, away.stats.goals())
	assert.Zero(t, home.stats.goals())
}

func TestShootoutSuddenDeathCap(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ShootoutBaseRate = 0
	home, away := testSides(t, testutil.UniformTeam(1, 80, roster.StyleNeutral), testutil.UniformTeam(2, 80, roster.StyleNeutral), false)

	res := runShootout(NewSeededRNG(6), &tuning, home, away)
	assert.Equal(t, 1, res.HomeGoals+res.AwayGoals)
	assert.Len(t, res.Attempts, 2*tuning.ShootoutRounds+2*suddenDeathCap)
	assert.Equal(t, 1, home.stats.goals()+away.stats.goals())
}

func TestGiveawaysIgnoreStyle(t *testing.T) {
	giveaways := func(style roster.PlayStyle) []int {
		team := testutil.UniformTeam(1, 60, style)
		s, _ := testSides(t, team, testutil.UniformTeam(2, 60, style), false)
		rng := NewSeededRNG(12)
		for i := 0; i < 20; i++ {
			turnoverPass(rng, s)
		}
		var out []int
		for _, r := range s.stats.records {
			out = append(out, r.Giveaways)
		}
		return out
	}
	trap, possession := giveaways(roster.StyleTrap), giveaways(roster.StylePossession)
	assert.Equal(t, trap, possession)
	total := 0
	for _, g := range trap {
		total += g
	}
	assert.Greater(t, total, 0)
}
