// Package testutil builds rosters for tests across packages.
package testutil

import (
	"fmt"

	"github.com/xtding233/rinksim/internal/roster"
)

// TeamSpec describes a generated roster.
type TeamSpec struct {
	ID       int
	Rating   int // every skater attribute and goalie rating
	Style    roster.PlayStyle
	Type     roster.PlayerType
	Forwards int // forward lines, 0..4
	Pairs    int // defense pairs, 0..3
	Goalies  int // 0..2
}

var forwardPositions = []string{"LW", "C", "RW"}
var defensePositions = []string{"LD", "RD"}

// UniformTeam is a full roster (4 lines, 3 pairs, 2 goalies) where every
// attribute equals rating.
func UniformTeam(id, rating int, style roster.PlayStyle) roster.Team {
	return BuildTeam(TeamSpec{ID: id, Rating: rating, Style: style, Forwards: 4, Pairs: 3, Goalies: 2})
}

// BuildTeam generates a roster from spec. Player ids are unique per team id.
func BuildTeam(spec TeamSpec) roster.Team {
	t := roster.Team{
		ID:    spec.ID,
		Name:  fmt.Sprintf("Team %d", spec.ID),
		City:  "Testville",
		Style: spec.Style,
	}
	next := spec.ID * 100
	add := func(kind roster.LineKind, depth int, pos string, typ roster.PlayerType) {
		next++
		t.Lines = append(t.Lines, roster.LineAssignment{
			Kind:     kind,
			Depth:    depth,
			Position: pos,
			Player: roster.Player{
				ID:          next,
				Name:        fmt.Sprintf("P%d", next),
				Position:    pos,
				Type:        typ,
				Offense:     spec.Rating,
				Defense:     spec.Rating,
				Physicality: spec.Rating,
				Leadership:  spec.Rating,
				Consistency: spec.Rating,
			},
		})
	}
	for d := 1; d <= spec.Forwards; d++ {
		for _, pos := range forwardPositions {
			add(roster.LineForward, d, pos, spec.Type)
		}
	}
	for d := 1; d <= spec.Pairs; d++ {
		for _, pos := range defensePositions {
			add(roster.LineDefense, d, pos, spec.Type)
		}
	}
	for d := 1; d <= spec.Goalies; d++ {
		add(roster.LineGoalie, d, "G", roster.TypeUnknown)
	}
	return t
}

// Game pairs two uniform teams.
func Game(rating int, style roster.PlayStyle, playoff bool) *roster.GameInput {
	return &roster.GameInput{
		Home:      UniformTeam(1, rating, style),
		Away:      UniformTeam(2, rating, style),
		IsPlayoff: playoff,
	}
}
