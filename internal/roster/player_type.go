package roster

import (
	"encoding/json"
	"strings"
)

// PlayerType classifies how a skater plays. Each type carries a fixed set of
// multipliers consumed by the rating and play engines.
type PlayerType int

const (
	TypeUnknown PlayerType = iota
	TypePowerForward
	TypePlaymaker
	TypeOffensive
	TypeTwoWay
	TypeSniper
	TypePowerDefense
	TypeGamer
	TypeDefensive
)

var playerTypeNames = [...]string{
	TypeUnknown:      "",
	TypePowerForward: "Power Forward",
	TypePlaymaker:    "Playmaker",
	TypeOffensive:    "Offensive",
	TypeTwoWay:       "Two-Way",
	TypeSniper:       "Sniper",
	TypePowerDefense: "Power Defense",
	TypeGamer:        "Gamer",
	TypeDefensive:    "Defensive",
}

// typeProfile holds every per-type multiplier. Unknown is neutral (1.0) with
// no net-front contribution.
type typeProfile struct {
	defense      float64
	intimidation float64
	goal         float64
	assist       float64
	shotQuality  float64
	hits         float64
	blocks       float64
	takeaways    float64
	giveaways    float64
	netfront     float64
}

var typeProfiles = [...]typeProfile{
	TypeUnknown: {
		defense: 1.0, intimidation: 1.0, goal: 1.0, assist: 1.0, shotQuality: 1.0,
		hits: 1.0, blocks: 1.0, takeaways: 1.0, giveaways: 1.0,
	},
	TypePowerForward: {
		defense: 1.0, intimidation: 1.20, goal: 1.15, assist: 1.05, shotQuality: 1.12,
		hits: 1.40, blocks: 0.90, takeaways: 1.0, giveaways: 0.95, netfront: 0.20,
	},
	TypePlaymaker: {
		defense: 0.92, intimidation: 0.80, goal: 0.85, assist: 1.50, shotQuality: 1.05,
		hits: 0.60, blocks: 0.50, takeaways: 1.10, giveaways: 1.10,
	},
	TypeOffensive: {
		defense: 0.90, intimidation: 0.85, goal: 1.20, assist: 1.40, shotQuality: 1.10,
		hits: 0.75, blocks: 0.55, takeaways: 0.80, giveaways: 1.15,
	},
	TypeTwoWay: {
		defense: 1.08, intimidation: 1.0, goal: 1.0, assist: 1.15, shotQuality: 1.0,
		hits: 1.0, blocks: 1.15, takeaways: 1.25, giveaways: 0.85,
	},
	TypeSniper: {
		defense: 0.88, intimidation: 0.75, goal: 1.25, assist: 0.75, shotQuality: 1.15,
		hits: 0.55, blocks: 0.45, takeaways: 0.75, giveaways: 1.05,
	},
	TypePowerDefense: {
		defense: 1.12, intimidation: 1.18, goal: 0.95, assist: 1.0, shotQuality: 0.95,
		hits: 1.35, blocks: 1.30, takeaways: 1.15, giveaways: 0.80, netfront: 0.12,
	},
	TypeGamer: {
		defense: 1.05, intimidation: 1.05, goal: 1.08, assist: 1.10, shotQuality: 1.05,
		hits: 1.10, blocks: 1.10, takeaways: 1.12, giveaways: 0.90, netfront: 0.08,
	},
	TypeDefensive: {
		defense: 1.15, intimidation: 1.10, goal: 0.70, assist: 0.60, shotQuality: 0.88,
		hits: 1.15, blocks: 1.40, takeaways: 1.40, giveaways: 0.70,
	},
}

// ParsePlayerType maps a free-form label onto the closed vocabulary.
// Matching ignores case and treats '-', '_' and repeated spaces alike.
// Labels outside the vocabulary map to TypeUnknown.
func ParsePlayerType(s string) PlayerType {
	switch normalizeLabel(s) {
	case "power forward":
		return TypePowerForward
	case "playmaker":
		return TypePlaymaker
	case "offensive":
		return TypeOffensive
	case "two way":
		return TypeTwoWay
	case "sniper":
		return TypeSniper
	case "power defense":
		return TypePowerDefense
	case "gamer":
		return TypeGamer
	case "defensive":
		return TypeDefensive
	default:
		return TypeUnknown
	}
}

func (t PlayerType) String() string {
	if t < 0 || int(t) >= len(playerTypeNames) {
		return ""
	}
	return playerTypeNames[t]
}

func (t PlayerType) profile() typeProfile {
	if t < 0 || int(t) >= len(typeProfiles) {
		return typeProfiles[TypeUnknown]
	}
	return typeProfiles[t]
}

func (t PlayerType) DefenseBonus() float64        { return t.profile().defense }
func (t PlayerType) IntimidationBonus() float64   { return t.profile().intimidation }
func (t PlayerType) GoalModifier() float64        { return t.profile().goal }
func (t PlayerType) AssistModifier() float64      { return t.profile().assist }
func (t PlayerType) ShotQualityModifier() float64 { return t.profile().shotQuality }
func (t PlayerType) HitModifier() float64         { return t.profile().hits }
func (t PlayerType) BlockModifier() float64       { return t.profile().blocks }
func (t PlayerType) TakeawayModifier() float64    { return t.profile().takeaways }
func (t PlayerType) GiveawayModifier() float64    { return t.profile().giveaways }

// NetfrontBonus is the rebound presence a player adds per unit of ice time.
func (t PlayerType) NetfrontBonus() float64 { return t.profile().netfront }

func (t PlayerType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON is lenient: unrecognised labels decode to TypeUnknown.
func (t *PlayerType) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	*t = ParsePlayerType(s)
	return nil
}

func normalizeLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("-", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}
