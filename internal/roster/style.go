package roster

import (
	"encoding/json"
	"strings"
)

// PlayStyle is a team's tactical profile.
type PlayStyle int

const (
	StyleNeutral PlayStyle = iota
	StyleTrap
	StylePossession
	StyleDumpChase
	StyleRush
	StyleShootCrash
)

// StyleAuto is the wire label that asks for the style to be derived from
// the coach.
const StyleAuto = "auto"

// StyleModifiers scale how a team generates and converts chances.
type StyleModifiers struct {
	ShotVolume    float64 `json:"shot_volume"`
	HighDanger    float64 `json:"high_danger_chance"`
	TurnoverRate  float64 `json:"turnover_rate"`
	PhysicalBonus float64 `json:"physical_bonus"`
	ReboundGoals  float64 `json:"rebound_goals"`
}

var styleModifiers = [...]StyleModifiers{
	StyleNeutral:    {ShotVolume: 1.0, HighDanger: 1.0, TurnoverRate: 1.0, PhysicalBonus: 1.0, ReboundGoals: 1.0},
	StyleTrap:       {ShotVolume: 0.85, HighDanger: 0.90, TurnoverRate: 1.20, PhysicalBonus: 1.0, ReboundGoals: 0.90},
	StylePossession: {ShotVolume: 0.95, HighDanger: 1.25, TurnoverRate: 0.80, PhysicalBonus: 0.90, ReboundGoals: 1.0},
	StyleDumpChase:  {ShotVolume: 1.10, HighDanger: 0.90, TurnoverRate: 1.0, PhysicalBonus: 1.40, ReboundGoals: 1.25},
	StyleRush:       {ShotVolume: 1.05, HighDanger: 1.15, TurnoverRate: 1.10, PhysicalBonus: 0.85, ReboundGoals: 0.95},
	StyleShootCrash: {ShotVolume: 1.25, HighDanger: 1.0, TurnoverRate: 1.05, PhysicalBonus: 1.20, ReboundGoals: 1.20},
}

var styleNames = [...]string{
	StyleNeutral:    "neutral",
	StyleTrap:       "trap",
	StylePossession: "possession",
	StyleDumpChase:  "dump_chase",
	StyleRush:       "rush",
	StyleShootCrash: "shoot_crash",
}

// ParsePlayStyle maps a label onto the vocabulary; anything unrecognised is
// neutral.
func ParsePlayStyle(s string) PlayStyle {
	switch strings.ReplaceAll(normalizeLabel(s), " ", "_") {
	case "trap":
		return StyleTrap
	case "possession":
		return StylePossession
	case "dump_chase", "dump_and_chase":
		return StyleDumpChase
	case "rush":
		return StyleRush
	case "shoot_crash", "shoot_and_crash":
		return StyleShootCrash
	default:
		return StyleNeutral
	}
}

// StyleForCoach derives a style from a coach type label.
func StyleForCoach(coachType string) PlayStyle {
	ct := strings.ToLower(coachType)
	switch {
	case strings.Contains(ct, "defensive"), strings.Contains(ct, "trap"):
		return StyleTrap
	case strings.Contains(ct, "offensive"), strings.Contains(ct, "possession"):
		return StylePossession
	case strings.Contains(ct, "physical"), strings.Contains(ct, "grind"):
		return StyleDumpChase
	case strings.Contains(ct, "speed"), strings.Contains(ct, "transition"):
		return StyleRush
	case strings.Contains(ct, "aggressive"), strings.Contains(ct, "crash"):
		return StyleShootCrash
	default:
		return StylePossession
	}
}

func (s PlayStyle) String() string {
	if s < 0 || int(s) >= len(styleNames) {
		return styleNames[StyleNeutral]
	}
	return styleNames[s]
}

func (s PlayStyle) Modifiers() StyleModifiers {
	if s < 0 || int(s) >= len(styleModifiers) {
		return styleModifiers[StyleNeutral]
	}
	return styleModifiers[s]
}

func (s PlayStyle) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *PlayStyle) UnmarshalJSON(b []byte) error {
	var label string
	if err := json.Unmarshal(b, &label); err != nil {
		return err
	}
	*s = ParsePlayStyle(label)
	return nil
}
