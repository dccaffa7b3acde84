package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xtding233/rinksim/internal/roster"
	"github.com/xtding233/rinksim/internal/testutil"
)

func TestCalcStats(t *testing.T) {
	d := calcStats([]float64{4, 1, 3, 2})
	assert.InDelta(t, 2.5, d.Mean, 1e-12)
	assert.InDelta(t, 1.25, d.Var, 1e-12)
	assert.InDelta(t, 1.118033988749895, d.StdDev, 1e-12)
	assert.True(t, d.P50 >= 1 && d.P50 <= 4)
	assert.LessOrEqual(t, d.P50, d.P90)
	assert.LessOrEqual(t, d.P90, d.P99)

	assert.Equal(t, Distribution{}, calcStats(nil))
}

func TestRunMonteCarloInvalidTrials(t *testing.T) {
	e := NewEngine(DefaultTuning(), nil)
	_, err := RunMonteCarlo(context.Background(), e, testutil.Game(80, roster.StyleNeutral, false), 0, 1)
	assert.True(t, errors.Is(err, ErrInvalidTrials))
}

func TestRunMonteCarloCancelled(t *testing.T) {
	e := NewEngine(DefaultTuning(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := RunMonteCarlo(ctx, e, testutil.Game(80, roster.StyleNeutral, false), 10, 1)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestRunMonteCarloReproducible(t *testing.T) {
	e := NewEngine(DefaultTuning(), nil)
	in := testutil.Game(80, roster.StylePossession, false)

	a, err := RunMonteCarlo(context.Background(), e, in, 60, 100)
	require.NoError(t, err)
	b, err := RunMonteCarlo(context.Background(), e, in, 60, 100)
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	b.RunID = a.RunID
	assert.Equal(t, a, b)

	assert.Equal(t, 60, a.HomeWins+a.AwayWins)
	assert.InDelta(t, float64(a.HomeWins)/60, a.HomeWinRate, 1e-12)
	assert.LessOrEqual(t, a.ShootoutRate, a.OvertimeRate)
	assert.InDelta(t, a.HomeGoals.Mean+a.AwayGoals.Mean, a.TotalGoals.Mean, 1e-9)

	// trial i replays alone with seed+i
	single := e.Simulate(in, NewSeededRNG(100+5))
	one, err := RunMonteCarlo(context.Background(), e, in, 1, 105)
	require.NoError(t, err)
	assert.Equal(t, float64(single.HomeScore), one.HomeGoals.Mean)
}
