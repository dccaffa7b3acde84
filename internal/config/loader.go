package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/xtding233/rinksim/internal/sim"
)

// Paths helper for default/profile tuning files.
type Paths struct {
	BaseDir string // e.g. /etc/rinksim
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "tuning", "default.yaml")
}
func (p Paths) ProfilePath(profile string) string {
	return filepath.Join(p.BaseDir, "tuning", profile+".yaml")
}

// Loader reads tuning YAML and merges default → profile.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: profile, "" for default only
}

// NewLoader creates a tuning loader rooted at baseDir.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

// Paths returns the files that feed a profile, for watching.
func (l *Loader) Paths(profile string) []string {
	out := []string{l.paths.DefaultPath()}
	if profile != "" {
		out = append(out, l.paths.ProfilePath(profile))
	}
	return out
}

// LoadMerged loads and merges default → profile (profile optional). Both
// files may be missing; the result is then empty and normalises to
// sim.DefaultTuning.
func (l *Loader) LoadMerged(profile string) (RawConfig, error) {
	l.mu.RLock()
	if cfg, ok := l.cache[profile]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	l.mu.RUnlock()

	defCfg, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	merged := defCfg
	if profile != "" {
		profCfg, err := readYAML(l.paths.ProfilePath(profile))
		if err != nil {
			return RawConfig{}, fmt.Errorf("read profile %q: %w", profile, err)
		}
		merged = mergeRaw(defCfg, profCfg)
	}

	l.mu.Lock()
	l.cache[""] = defCfg
	l.cache[profile] = merged
	l.mu.Unlock()

	return merged, nil
}

// Tuning loads, validates and normalises a profile.
func (l *Loader) Tuning(profile string) (sim.Tuning, error) {
	raw, err := l.LoadMerged(profile)
	if err != nil {
		return sim.Tuning{}, err
	}
	return Normalize(raw)
}

// Invalidate clears the loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
}

// LoadFile reads one tuning file on top of the built-in defaults. Unlike the
// layered loader a missing file is an error: the caller named it.
func LoadFile(path string) (sim.Tuning, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return sim.Tuning{}, fmt.Errorf("read tuning: %w", err)
	}
	var cfg RawConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return sim.Tuning{}, fmt.Errorf("parse tuning %s: %w", path, err)
	}
	return Normalize(cfg)
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, err
	}
	return cfg, nil
}

func pick[T any](a, b *T) *T {
	if b != nil {
		return b
	}
	return a
}

// mergeRaw performs a deep merge: 'b' overrides 'a' wherever 'b' sets a field.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	out.Regulation = RegulationConfig{
		BasePlaysPerPeriod: pick(a.Regulation.BasePlaysPerPeriod, b.Regulation.BasePlaysPerPeriod),
		ShotAttemptRate:    pick(a.Regulation.ShotAttemptRate, b.Regulation.ShotAttemptRate),
		GoalProbabilityCap: pick(a.Regulation.GoalProbabilityCap, b.Regulation.GoalProbabilityCap),
		StarterProbability: pick(a.Regulation.StarterProbability, b.Regulation.StarterProbability),
	}

	switch {
	case a.Overtime == nil && b.Overtime != nil:
		c := *b.Overtime
		out.Overtime = &c
	case a.Overtime != nil && b.Overtime != nil:
		out.Overtime = &OvertimeConfig{
			ShotRate:     pick(a.Overtime.ShotRate, b.Overtime.ShotRate),
			Plays:        pick(a.Overtime.Plays, b.Overtime.Plays),
			XGMultiplier: pick(a.Overtime.XGMultiplier, b.Overtime.XGMultiplier),
			MaxSegments:  pick(a.Overtime.MaxSegments, b.Overtime.MaxSegments),
		}
	}

	switch {
	case a.Shootout == nil && b.Shootout != nil:
		c := *b.Shootout
		out.Shootout = &c
	case a.Shootout != nil && b.Shootout != nil:
		out.Shootout = &ShootoutConfig{
			Rounds:   pick(a.Shootout.Rounds, b.Shootout.Rounds),
			BaseRate: pick(a.Shootout.BaseRate, b.Shootout.BaseRate),
		}
	}

	switch {
	case a.Assists == nil && b.Assists != nil:
		c := *b.Assists
		out.Assists = &c
	case a.Assists != nil && b.Assists != nil:
		out.Assists = &AssistConfig{
			PrimaryRate:   pick(a.Assists.PrimaryRate, b.Assists.PrimaryRate),
			SecondaryRate: pick(a.Assists.SecondaryRate, b.Assists.SecondaryRate),
		}
	}

	return out
}

// Normalize validates raw and fills unset fields from sim.DefaultTuning.
func Normalize(raw RawConfig) (sim.Tuning, error) {
	if err := ValidateRaw(raw); err != nil {
		return sim.Tuning{}, err
	}
	t := sim.DefaultTuning()
	setInt := func(dst *int, v *int) {
		if v != nil {
			*dst = *v
		}
	}
	setFloat := func(dst *float64, v *float64) {
		if v != nil {
			*dst = *v
		}
	}

	setInt(&t.BasePlaysPerPeriod, raw.Regulation.BasePlaysPerPeriod)
	setFloat(&t.ShotAttemptRate, raw.Regulation.ShotAttemptRate)
	setFloat(&t.GoalProbabilityCap, raw.Regulation.GoalProbabilityCap)
	setFloat(&t.StarterProbability, raw.Regulation.StarterProbability)
	if o := raw.Overtime; o != nil {
		setFloat(&t.OvertimeShotRate, o.ShotRate)
		setInt(&t.OvertimePlays, o.Plays)
		setFloat(&t.OvertimeXGMultiplier, o.XGMultiplier)
		setInt(&t.MaxOvertimeSegments, o.MaxSegments)
	}
	if s := raw.Shootout; s != nil {
		setInt(&t.ShootoutRounds, s.Rounds)
		setFloat(&t.ShootoutBaseRate, s.BaseRate)
	}
	if a := raw.Assists; a != nil {
		setFloat(&t.PrimaryAssistRate, a.PrimaryRate)
		setFloat(&t.SecondaryAssistRate, a.SecondaryRate)
	}
	if err := t.Validate(); err != nil {
		return sim.Tuning{}, fmt.Errorf("normalize tuning: %w", err)
	}
	return t, nil
}
