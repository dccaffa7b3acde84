// Package sim plays a hockey game from two rosters: regulation, overtime
// and shootout, with a per-player boxscore.
package sim

import (
	"io"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/xtding233/rinksim/internal/roster"
)

// GameResult is the final score and boxscore of one game. Shootout goals
// count toward the score and the shooters' goal totals.
type GameResult struct {
	HomeScore        int              `json:"home_score"`
	AwayScore        int              `json:"away_score"`
	HomeStats        []PlayerGameStat `json:"home_stats"`
	AwayStats        []PlayerGameStat `json:"away_stats"`
	WentToOvertime   bool             `json:"went_to_overtime"`
	WentToShootout   bool             `json:"went_to_shootout"`
	OvertimeSegments int              `json:"overtime_segments"`
	Shootout         *ShootoutResult  `json:"shootout,omitempty"`
}

// Engine is immutable once built and safe to share between goroutines; all
// per-game state lives in the game it creates for each call.
type Engine struct {
	tuning Tuning
	log    *logrus.Entry
}

// NewEngine builds an engine. A nil log discards engine logging.
func NewEngine(t Tuning, log *logrus.Entry) *Engine {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = logrus.NewEntry(l)
	}
	return &Engine{tuning: t.withDefaults(), log: log}
}

func (e *Engine) Tuning() Tuning { return e.tuning }

// Simulate plays one game. The result depends only on the input and the
// draws taken from rng; a nil rng uses DefaultRNG.
func (e *Engine) Simulate(in *roster.GameInput, rng RandomSource) *GameResult {
	return e.simulate(in, rng, nil)
}

func (e *Engine) simulate(in *roster.GameInput, rng RandomSource, observe func(*playOutcome)) *GameResult {
	if rng == nil {
		rng = DefaultRNG()
	}
	g := &game{
		tuning:  &e.tuning,
		rng:     rng,
		playoff: in.IsPlayoff,
		observe: observe,
		log: e.log.WithFields(logrus.Fields{
			"home": in.Home.Name,
			"away": in.Away.Name,
		}),
	}
	// goalie draws happen before anything else touches rng
	hg := g.selectGoalie(&in.Home)
	ag := g.selectGoalie(&in.Away)
	g.home = newSide("home", &in.Home, hg, true, in.IsPlayoff)
	g.away = newSide("away", &in.Away, ag, false, in.IsPlayoff)
	return g.run()
}

// Holder lets a server swap the engine when tuning reloads.
type Holder struct {
	mu sync.RWMutex
	e  *Engine
}

func NewHolder(e *Engine) *Holder { return &Holder{e: e} }

func (h *Holder) Get() *Engine {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.e
}

func (h *Holder) Set(e *Engine) {
	h.mu.Lock()
	h.e = e
	h.mu.Unlock()
}
