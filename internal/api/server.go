// Package api serves the engine over HTTP.
package api

import (
	"encoding/json"
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/xtding233/rinksim/internal/logger"
	"github.com/xtding233/rinksim/internal/roster"
	"github.com/xtding233/rinksim/internal/sim"
)

const (
	defaultTrials = 1000
	seedHeader    = "X-Rinksim-Seed"
)

// Server holds the HTTP handlers. The engine is read from the holder on
// every request so tuning reloads take effect without a restart.
type Server struct {
	engines   *sim.Holder
	maxTrials int
	maxBody   int64
	log       *logrus.Entry
}

// Options configures a Server. Zero values pick the service defaults.
type Options struct {
	MaxTrials    int
	MaxBodyBytes int64
	Log          *logrus.Entry
}

func NewServer(engines *sim.Holder, opts Options) *Server {
	if opts.MaxTrials <= 0 {
		opts.MaxTrials = 10000
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = 1 << 20
	}
	if opts.Log == nil {
		opts.Log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Server{
		engines:   engines,
		maxTrials: opts.MaxTrials,
		maxBody:   opts.MaxBodyBytes,
		log:       opts.Log,
	}
}

// Routes builds the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Heartbeat("/health"))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/tuning", s.handleTuning)
		r.Route("/games", func(r chi.Router) {
			r.Use(s.limitBody)
			r.Post("/simulate", s.handleSimulate)
			r.Post("/montecarlo", s.handleMonteCarlo)
		})
	})
	return r
}

func (s *Server) handleTuning(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engines.Get().Tuning())
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	seed, ok, msg := parseUint(r, "seed")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if !ok {
		seed = rand.Uint64()
	}
	in, err := roster.Decode(r.Body)
	if err != nil {
		writeError(w, bodyStatus(err), err.Error())
		return
	}

	res := s.engines.Get().Simulate(in, sim.NewSeededRNG(seed))
	s.entry(r).WithFields(logrus.Fields{
		"home":       in.Home.Name,
		"away":       in.Away.Name,
		"home_score": res.HomeScore,
		"away_score": res.AwayScore,
		"seed":       seed,
	}).Debug("game simulated")

	w.Header().Set(seedHeader, strconv.FormatUint(seed, 10))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleMonteCarlo(w http.ResponseWriter, r *http.Request) {
	trials, ok, msg := parseInt(r, "trials")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if !ok {
		trials = min(defaultTrials, s.maxTrials)
	}
	if trials <= 0 || trials > s.maxTrials {
		writeError(w, http.StatusBadRequest, "trials must be in [1,"+strconv.Itoa(s.maxTrials)+"]")
		return
	}
	seed, ok, msg := parseUint(r, "seed")
	if msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if !ok {
		seed = rand.Uint64()
	}
	in, err := roster.Decode(r.Body)
	if err != nil {
		writeError(w, bodyStatus(err), err.Error())
		return
	}

	sum, err := sim.RunMonteCarlo(r.Context(), s.engines.Get(), in, trials, seed)
	if err != nil {
		s.entry(r).WithError(err).Warn("monte carlo aborted")
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, sum)
}

func (s *Server) entry(r *http.Request) *logrus.Entry {
	return logger.WithRequest(s.log, middleware.GetReqID(r.Context()))
}

func bodyStatus(err error) int {
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) {
		return http.StatusRequestEntityTooLarge
	}
	return http.StatusBadRequest
}

// parseInt reads an optional query parameter. ok reports presence; msg is
// set when the value is present but malformed.
func parseInt(r *http.Request, key string) (int, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func parseUint(r *http.Request, key string) (uint64, bool, string) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, false, ""
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false, "invalid " + key
	}
	return v, true, ""
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
