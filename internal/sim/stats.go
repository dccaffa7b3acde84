package sim

import (
	"math"

	"github.com/xtding233/rinksim/internal/rating"
	"github.com/xtding233/rinksim/internal/roster"
)

// Role tags a stat record so plus-minus never has to guess who the goalie is.
type Role string

const (
	RoleSkater Role = "skater"
	RoleGoalie Role = "goalie"
)

// PlayerGameStat is one player's boxscore line.
type PlayerGameStat struct {
	PlayerID     int    `json:"player_id"`
	PlayerName   string `json:"player_name"`
	Role         Role   `json:"role"`
	Goals        int    `json:"goals"`
	Assists      int    `json:"assists"`
	Shots        int    `json:"shots"`
	Hits         int    `json:"hits"`
	Blocks       int    `json:"blocks"`
	PlusMinus    int    `json:"plus_minus"`
	TimeOnIce    int    `json:"time_on_ice"`
	Takeaways    int    `json:"takeaways"`
	Giveaways    int    `json:"giveaways"`
	Saves        int    `json:"saves"`
	GoalsAgainst int    `json:"goals_against"`
	ShotsAgainst int    `json:"shots_against"`
}

// teamStats owns one side's records for a game. Records are keyed by player
// id; a player listed in two slots keeps the record of the first.
type teamStats struct {
	team    *roster.Team
	records []PlayerGameStat
	byID    map[int]int
	goalie  int // record index of the active goalie, -1 without one
}

// newTeamStats creates a record for every skater slot and for the active
// goalie slot (line index, -1 for none). Backups get nothing.
func newTeamStats(t *roster.Team, activeGoalie int) *teamStats {
	s := &teamStats{
		team:    t,
		records: make([]PlayerGameStat, 0, len(t.Lines)),
		byID:    make(map[int]int, len(t.Lines)),
		goalie:  -1,
	}
	for i := range t.Lines {
		la := &t.Lines[i]
		var toi int
		role := RoleSkater
		switch {
		case la.Kind.IsSkater():
			toi = int(GameLengthSeconds * rating.IceTimeShare(la.Kind, la.Depth))
		case la.Kind == roster.LineGoalie && i == activeGoalie:
			toi, role = GameLengthSeconds, RoleGoalie
		default:
			continue
		}
		if idx, dup := s.byID[la.Player.ID]; dup {
			if role == RoleGoalie {
				s.goalie = idx
			}
			continue
		}
		s.byID[la.Player.ID] = len(s.records)
		if role == RoleGoalie {
			s.goalie = len(s.records)
		}
		s.records = append(s.records, PlayerGameStat{
			PlayerID:   la.Player.ID,
			PlayerName: la.Player.Name,
			Role:       role,
			TimeOnIce:  toi,
		})
	}
	return s
}

// slot returns the record for a line index, or nil.
func (s *teamStats) slot(line int) *PlayerGameStat {
	if line < 0 || line >= len(s.team.Lines) {
		return nil
	}
	idx, ok := s.byID[s.team.Lines[line].Player.ID]
	if !ok {
		return nil
	}
	return &s.records[idx]
}

// recordFor credits the attacking side with a shot and, on a goal, the
// scorer and assists.
func (s *teamStats) recordFor(out *playOutcome) {
	shooter := s.slot(out.shooter)
	if shooter == nil {
		return
	}
	shooter.Shots++
	if !out.goal {
		return
	}
	shooter.Goals++
	for _, a := range []int{out.primary, out.secondary} {
		if rec := s.slot(a); rec != nil {
			rec.Assists++
		}
	}
}

// recordAgainst mirrors a shot on the active goalie.
func (s *teamStats) recordAgainst(goal bool) {
	if s.goalie < 0 {
		return
	}
	g := &s.records[s.goalie]
	g.ShotsAgainst++
	if goal {
		g.GoalsAgainst++
	} else {
		g.Saves++
	}
}

// finalizePlusMinus spreads the goal differential over skaters by ice time.
func (s *teamStats) finalizePlusMinus(goalDiff int) {
	var total int
	for i := range s.records {
		if s.records[i].Role == RoleSkater {
			total += s.records[i].TimeOnIce
		}
	}
	if total == 0 {
		return
	}
	for i := range s.records {
		r := &s.records[i]
		if r.Role != RoleSkater {
			continue
		}
		share := float64(r.TimeOnIce) / float64(total)
		r.PlusMinus = int(math.Round(float64(goalDiff) * share * 3))
	}
}

func (s *teamStats) goals() int {
	var n int
	for i := range s.records {
		n += s.records[i].Goals
	}
	return n
}

func (s *teamStats) shots() int {
	var n int
	for i := range s.records {
		n += s.records[i].Shots
	}
	return n
}
