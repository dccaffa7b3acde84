package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/rinksim/internal/roster"
	"github.com/xtding233/rinksim/internal/testutil"
)

func sumStats(stats []PlayerGameStat) (goals, assists int) {
	for _, s := range stats {
		goals += s.Goals
		assists += s.Assists
	}
	return goals, assists
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func checkResult(t *testing.T, in *roster.GameInput, res *GameResult) {
	t.Helper()
	require.GreaterOrEqual(t, res.HomeScore, 0)
	require.GreaterOrEqual(t, res.AwayScore, 0)

	if res.WentToShootout {
		require.NotNil(t, res.Shootout)
		require.True(t, res.WentToOvertime)
		require.NotEqual(t, res.Shootout.HomeGoals, res.Shootout.AwayGoals)
		require.Equal(t, res.Shootout.HomeWon(), res.HomeScore > res.AwayScore)
	} else {
		require.Nil(t, res.Shootout)
	}
	if res.WentToOvertime && !res.WentToShootout {
		// sudden death: the first overtime goal ends it
		require.Equal(t, 1, abs(res.HomeScore-res.AwayScore))
	}

	hg, ha := sumStats(res.HomeStats)
	ag, aa := sumStats(res.AwayStats)
	require.Equal(t, res.HomeScore, hg)
	require.Equal(t, res.AwayScore, ag)
	require.LessOrEqual(t, ha, 2*hg)
	require.LessOrEqual(t, aa, 2*ag)

	require.NotEqual(t, res.HomeScore, res.AwayScore, "games never end tied")
	if !in.IsPlayoff && res.WentToOvertime {
		require.Equal(t, 1, res.OvertimeSegments)
	}
	if in.IsPlayoff {
		require.False(t, res.WentToShootout)
	}
	if !res.WentToOvertime {
		require.Zero(t, res.OvertimeSegments)
	}
}

func TestSimulateInvariants(t *testing.T) {
	e := NewEngine(DefaultTuning(), nil)
	for _, playoff := range []bool{false, true} {
		in := testutil.Game(78, roster.StylePossession, playoff)
		sawOT := false
		for seed := uint64(0); seed < 400; seed++ {
			res := e.Simulate(in, NewSeededRNG(seed))
			checkResult(t, in, res)
			sawOT = sawOT || res.WentToOvertime
		}
		assert.True(t, sawOT, "expected some overtime games (playoff=%v)", playoff)
	}
}

func TestSimulateDeterministic(t *testing.T) {
	e := NewEngine(DefaultTuning(), nil)
	in := testutil.Game(80, roster.StyleRush, false)
	in.Away.Style = roster.StyleTrap

	a := e.Simulate(in, NewSeededRNG(7))
	b := e.Simulate(in, NewSeededRNG(7))
	assert.Equal(t, a, b)

	c := e.Simulate(in, NewSeededRNG(8))
	assert.NotEqual(t, a, c)
}

func TestGoalProbabilitiesInRange(t *testing.T) {
	e := NewEngine(DefaultTuning(), nil)
	in := &roster.GameInput{
		Home:      testutil.UniformTeam(1, 99, roster.StyleShootCrash),
		Away:      testutil.BuildTeam(testutil.TeamSpec{ID: 2, Rating: 40, Forwards: 2, Pairs: 1}),
		IsPlayoff: true,
	}
	seen := 0
	for seed := uint64(0); seed < 50; seed++ {
		e.simulate(in, NewSeededRNG(seed), func(o *playOutcome) {
			seen++
			require.True(t, o.prob >= 0 && o.prob <= 0.50, "p=%v", o.prob)
		})
	}
	assert.Greater(t, seen, 1000)
}

func TestStatRecords(t *testing.T) {
	e := NewEngine(DefaultTuning(), nil)
	in := testutil.Game(80, roster.StylePossession, false)
	res := e.Simulate(in, NewSeededRNG(3))

	for _, stats := range [][]PlayerGameStat{res.HomeStats, res.AwayStats} {
		require.Len(t, stats, 12+6+1)
		goalies := 0
		var toi int
		for _, s := range stats {
			if s.Role == RoleGoalie {
				goalies++
				assert.Equal(t, GameLengthSeconds, s.TimeOnIce)
				assert.Zero(t, s.PlusMinus)
				assert.Zero(t, s.Shots)
				assert.Equal(t, s.ShotsAgainst, s.Saves+s.GoalsAgainst)
				continue
			}
			toi += s.TimeOnIce
			assert.Zero(t, s.ShotsAgainst)
		}
		assert.Equal(t, 1, goalies)
		// three forwards per line and two defense per pair share the ice
		assert.Equal(t, 3*GameLengthSeconds+2*GameLengthSeconds, toi)
	}
	assert.Equal(t, shotsOf(res.HomeStats), res.AwayStats[len(res.AwayStats)-1].ShotsAgainst)
}

func TestStarterSelection(t *testing.T) {
	e := NewEngine(DefaultTuning(), nil)
	in := testutil.Game(75, roster.StyleNeutral, false)
	starterID := in.Home.Lines[in.Home.Goalies()[0]].Player.ID

	const n = 2000
	starts := 0
	for seed := uint64(0); seed < n; seed++ {
		res := e.Simulate(in, NewSeededRNG(seed))
		for _, s := range res.HomeStats {
			if s.Role == RoleGoalie && s.PlayerID == starterID {
				starts++
			}
		}
	}
	assert.InDelta(t, 0.60, float64(starts)/n, 0.04)
}

func TestSimulateDegenerateRosters(t *testing.T) {
	e := NewEngine(DefaultTuning(), nil)
	in := &roster.GameInput{
		Home: testutil.BuildTeam(testutil.TeamSpec{ID: 1, Rating: 80, Forwards: 4, Pairs: 3}),
		Away: roster.Team{ID: 2, Name: "Empty"},
	}
	for seed := uint64(0); seed < 50; seed++ {
		res := e.Simulate(in, NewSeededRNG(seed))
		checkResult(t, in, res)
		assert.Empty(t, res.AwayStats)
		for _, s := range res.HomeStats {
			assert.Equal(t, RoleSkater, s.Role)
		}
	}
}

func TestPlusMinusFollowsScore(t *testing.T) {
	s := &teamStats{records: []PlayerGameStat{
		{Role: RoleSkater, TimeOnIce: 1260},
		{Role: RoleSkater, TimeOnIce: 540},
		{Role: RoleGoalie, TimeOnIce: 3600},
	}}
	s.finalizePlusMinus(2)
	assert.Equal(t, 4, s.records[0].PlusMinus) // 2 * 0.7 * 3 = 4.2
	assert.Equal(t, 2, s.records[1].PlusMinus) // 2 * 0.3 * 3 = 1.8
	assert.Zero(t, s.records[2].PlusMinus)

	s.finalizePlusMinus(-1)
	assert.Equal(t, -2, s.records[0].PlusMinus)
	assert.Equal(t, -1, s.records[1].PlusMinus)
}

func TestDuplicatePlayerKeepsFirstSlot(t *testing.T) {
	team := testutil.UniformTeam(1, 80, roster.StyleNeutral)
	dup := team.Lines[0]
	dup.Kind, dup.Depth = roster.LineDefense, 3
	team.Lines = append(team.Lines, dup)

	s := newTeamStats(&team, team.Goalies()[0])
	assert.Len(t, s.records, 12+6+1)
	assert.Equal(t, int(GameLengthSeconds*0.35), s.records[0].TimeOnIce)
}

func TestRegularSeasonTieGoesToShootout(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ShotAttemptRate = 0.0001
	tuning.OvertimeShotRate = 0.0001
	e := NewEngine(tuning, nil)

	in := testutil.Game(80, roster.StyleNeutral, false)
	res := e.Simulate(in, NewSeededRNG(1))
	assert.True(t, res.WentToOvertime)
	assert.True(t, res.WentToShootout)
	assert.Equal(t, 1, res.OvertimeSegments)
	// nothing scored in play, so the score is the shootout's
	assert.Equal(t, res.Shootout.HomeGoals, res.HomeScore)
	assert.Equal(t, res.Shootout.AwayGoals, res.AwayScore)
	checkResult(t, in, res)

	in.IsPlayoff = true
	tuning.MaxOvertimeSegments = 5
	res = NewEngine(tuning, nil).Simulate(in, NewSeededRNG(1))
	assert.True(t, res.WentToShootout, "overtime cap settles by shootout")
	assert.Equal(t, 5, res.OvertimeSegments)
}

func TestShootoutGoalsCountTowardScore(t *testing.T) {
	e := NewEngine(DefaultTuning(), nil)
	in := testutil.Game(80, roster.StylePossession, false)
	shootouts := 0
	for seed := uint64(0); seed < 600; seed++ {
		res := e.Simulate(in, NewSeededRNG(seed))
		checkResult(t, in, res)
		if !res.WentToShootout {
			continue
		}
		shootouts++
		// regulation and the overtime ended level, so the margin is the shootout's
		assert.Equal(t, res.Shootout.HomeGoals-res.Shootout.AwayGoals, res.HomeScore-res.AwayScore)
		diff := res.HomeScore - res.AwayScore
		for _, s := range res.HomeStats {
			if s.Role == RoleSkater && s.TimeOnIce == int(GameLengthSeconds*0.35) {
				assert.Equal(t, int(math.Round(float64(diff)*0.35/5*3)), s.PlusMinus)
			}
		}
	}
	assert.Greater(t, shootouts, 0)
}

func TestOvertimeEndsAtFirstGoal(t *testing.T) {
	tuning := DefaultTuning()
	tuning.ShotAttemptRate = 1e-9
	tuning.OvertimeShotRate = 1
	tuning.OvertimeXGMultiplier = 10
	e := NewEngine(tuning, nil)

	in := testutil.Game(90, roster.StyleShootCrash, true)
	for seed := uint64(0); seed < 200; seed++ {
		res := e.Simulate(in, NewSeededRNG(seed))
		require.True(t, res.WentToOvertime)
		require.False(t, res.WentToShootout)
		require.Equal(t, 1, res.HomeScore+res.AwayScore, "seed %d", seed)
		checkResult(t, in, res)
	}
}

// Every attribute 80, possession, no coach: round(50 * 0.95) = 48 plays a
// period per side at a 0.25 attempt rate is 48 * 3 * 0.25 = 36 shots, and
// the xG formulas land close to seven goals a game.
func TestCalibration(t *testing.T) {
	if testing.Short() {
		t.Skip("calibration run")
	}
	e := NewEngine(DefaultTuning(), nil)
	in := testutil.Game(80, roster.StylePossession, false)

	const n = 2000
	var goals, shots float64
	for seed := uint64(0); seed < n; seed++ {
		res := e.Simulate(in, NewSeededRNG(seed))
		goals += float64(res.HomeScore + res.AwayScore)
		shots += float64(shotsOf(res.HomeStats)+shotsOf(res.AwayStats)) / 2
	}
	assert.InDelta(t, 36, shots/n, 3)
	meanGoals := goals / n
	assert.True(t, meanGoals > 5.5 && meanGoals < 8.0, "mean goals %v", meanGoals)
}
