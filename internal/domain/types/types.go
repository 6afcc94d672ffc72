// Package types contains the read shapes served by the HTTP API.
package types

import (
	"github.com/okian/hoopsim/internal/domain/league"
	"github.com/okian/hoopsim/internal/domain/model"
)

// Standing is one team's row in the league table.
type Standing struct {
	Rank          int     `json:"rank"`
	TeamID        string  `json:"team_id"`
	Name          string  `json:"name"`
	Games         int     `json:"games"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Ties          int     `json:"ties"`
	PointsFor     int     `json:"points_for"`
	PointsAgainst int     `json:"points_against"`
	PointDiff     int     `json:"point_diff"`
	WinShare      float64 `json:"win_share"`
}

// PlayerSummary is a roster entry as listed by GET /teams.
type PlayerSummary struct {
	Name     string          `json:"name"`
	Position league.Position `json:"position"`
}

// TeamSummary is a catalog entry as listed by GET /teams.
type TeamSummary struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Pace    float64         `json:"pace"`
	Players []PlayerSummary `json:"players"`
}

// NewTeamSummary projects a catalog team.
func NewTeamSummary(t league.Team) TeamSummary {
	s := TeamSummary{ID: t.ID, Name: t.Name, Pace: t.Pace, Players: make([]PlayerSummary, len(t.Roster))}
	for i, p := range t.Roster {
		s.Players[i] = PlayerSummary{Name: p.Name, Position: p.Position}
	}
	return s
}

// JobView is the GET /jobs/{id} response.
type JobView struct {
	model.Job
	Game *model.GameRecord `json:"game,omitempty"`
}

// JobAck acknowledges a POST /jobs submission.
type JobAck struct {
	JobID     string          `json:"job_id"`
	Status    model.JobStatus `json:"status"`
	Duplicate bool            `json:"duplicate"`
}
