package sim

import (
	"context"
	"errors"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/xtding233/rinksim/internal/roster"
)

var ErrInvalidTrials = errors.New("invalid trials; must be positive")

// Distribution summarises one per-game metric across trials.
type Distribution struct {
	Mean   float64 `json:"mean"`
	Var    float64 `json:"var"`
	StdDev float64 `json:"std_dev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

// Summary is the outcome of repeating one matchup.
type Summary struct {
	RunID  string `json:"run_id"`
	Trials int    `json:"trials"`
	Seed   uint64 `json:"seed"`

	HomeWins     int     `json:"home_wins"`
	AwayWins     int     `json:"away_wins"`
	HomeWinRate  float64 `json:"home_win_rate"`
	OvertimeRate float64 `json:"overtime_rate"`
	ShootoutRate float64 `json:"shootout_rate"`

	HomeGoals  Distribution `json:"home_goals"`
	AwayGoals  Distribution `json:"away_goals"`
	TotalGoals Distribution `json:"total_goals"`
	HomeShots  Distribution `json:"home_shots"`
	AwayShots  Distribution `json:"away_shots"`
}

// calcStats computes mean, population variance and interpolated percentiles.
func calcStats(xs []float64) Distribution {
	if len(xs) == 0 {
		return Distribution{}
	}
	mean, variance := stat.PopMeanVariance(xs, nil)
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	q := func(p float64) float64 { return stat.Quantile(p, stat.LinInterp, sorted, nil) }
	return Distribution{
		Mean:   mean,
		Var:    variance,
		StdDev: math.Sqrt(variance),
		P50:    q(0.50),
		P90:    q(0.90),
		P99:    q(0.99),
	}
}

func shotsOf(stats []PlayerGameStat) int {
	n := 0
	for i := range stats {
		n += stats[i].Shots
	}
	return n
}

// RunMonteCarlo plays the matchup trials times. Trial i uses seed+i, so a
// run is reproducible and any single game can be replayed alone.
func RunMonteCarlo(ctx context.Context, e *Engine, in *roster.GameInput, trials int, seed uint64) (*Summary, error) {
	if trials <= 0 {
		return nil, ErrInvalidTrials
	}
	var (
		homeGoals = make([]float64, trials)
		awayGoals = make([]float64, trials)
		total     = make([]float64, trials)
		homeShots = make([]float64, trials)
		awayShots = make([]float64, trials)
	)
	s := &Summary{RunID: uuid.NewString(), Trials: trials, Seed: seed}
	var ot, so int

	for i := 0; i < trials; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res := e.Simulate(in, NewSeededRNG(seed+uint64(i)))
		if res.HomeScore > res.AwayScore {
			s.HomeWins++
		} else {
			s.AwayWins++
		}
		if res.WentToOvertime {
			ot++
		}
		if res.WentToShootout {
			so++
		}
		homeGoals[i] = float64(res.HomeScore)
		awayGoals[i] = float64(res.AwayScore)
		total[i] = float64(res.HomeScore + res.AwayScore)
		homeShots[i] = float64(shotsOf(res.HomeStats))
		awayShots[i] = float64(shotsOf(res.AwayStats))
	}

	n := float64(trials)
	s.HomeWinRate = float64(s.HomeWins) / n
	s.OvertimeRate = float64(ot) / n
	s.ShootoutRate = float64(so) / n
	s.HomeGoals = calcStats(homeGoals)
	s.AwayGoals = calcStats(awayGoals)
	s.TotalGoals = calcStats(total)
	s.HomeShots = calcStats(homeShots)
	s.AwayShots = calcStats(awayShots)

	e.log.WithFields(logrus.Fields{
		"run_id": s.RunID,
		"trials": trials,
		"seed":   seed,
	}).Info("monte carlo run complete")
	return s, nil
}
