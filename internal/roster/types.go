package roster

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
)

// Player attributes are conceptually 0..100; nothing enforces it.
// For goalies Offense doubles as the general rating.
type Player struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Position    string     `json:"position"`
	Type        PlayerType `json:"player_type"`
	Offense     int        `json:"off"`
	Defense     int        `json:"def"`
	Physicality int        `json:"phys"`
	Leadership  int        `json:"lead"`
	Consistency int        `json:"const"`
}

// LineAssignment places a player in a role slot. Depth is 1-based:
// forward lines 1-4, defense pairs 1-3, goalies 1-2.
type LineAssignment struct {
	Kind     LineKind `json:"line_type"`
	Depth    int      `json:"line_number"`
	Position string   `json:"position"`
	Player   Player   `json:"player"`
}

type Coach struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Rating int    `json:"rating"`
	Type   string `json:"coach_type"`
}

type Team struct {
	ID    int              `json:"id"`
	Name  string           `json:"name"`
	City  string           `json:"city"`
	Lines []LineAssignment `json:"lines"`
	Coach *Coach           `json:"coach"`
	Style PlayStyle        `json:"play_style"`
}

// UnmarshalJSON applies the play style defaults: a missing style is
// possession and "auto" follows the coach type.
func (t *Team) UnmarshalJSON(b []byte) error {
	type plain Team
	var w struct {
		plain
		Style *string `json:"play_style"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*t = Team(w.plain)
	switch {
	case w.Style == nil:
		t.Style = StylePossession
	case normalizeLabel(*w.Style) == StyleAuto:
		coachType := ""
		if t.Coach != nil {
			coachType = t.Coach.Type
		}
		t.Style = StyleForCoach(coachType)
	default:
		t.Style = ParsePlayStyle(*w.Style)
	}
	return nil
}

// Slots returns the indexes of lines of the given kind and depth. A depth of
// 0 matches every depth.
func (t *Team) Slots(kind LineKind, depth int) []int {
	var out []int
	for i := range t.Lines {
		la := &t.Lines[i]
		if la.Kind != kind {
			continue
		}
		if depth != 0 && la.Depth != depth {
			continue
		}
		out = append(out, i)
	}
	return out
}

// Goalies returns goalie slot indexes ordered by depth; ties keep document
// order.
func (t *Team) Goalies() []int {
	idx := t.Slots(LineGoalie, 0)
	sort.SliceStable(idx, func(a, b int) bool {
		return t.Lines[idx[a]].Depth < t.Lines[idx[b]].Depth
	})
	return idx
}

type GameInput struct {
	Home      Team `json:"home_team"`
	Away      Team `json:"away_team"`
	IsPlayoff bool `json:"is_playoff"`
}

// Decode reads one game document.
func Decode(r io.Reader) (*GameInput, error) {
	var in GameInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("decode game input: %w", err)
	}
	return &in, nil
}

// DecodeBytes is Decode for an in-memory document.
func DecodeBytes(b []byte) (*GameInput, error) {
	var in GameInput
	if err := json.Unmarshal(b, &in); err != nil {
		return nil, fmt.Errorf("decode game input: %w", err)
	}
	return &in, nil
}
