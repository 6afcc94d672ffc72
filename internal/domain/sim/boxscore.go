package sim

import (
	"math"

	"github.com/okian/hoopsim/internal/domain/league"
)

// Minutes proxy: raw units accrued per touched possession, and the factor
// that maps a full game of raw units onto a 48-minute scale.
const (
	minutesPerTouch = 0.45
	minutesScale    = 2.4
)

// Side says which end of a possession a box score is posting for.
type Side int

// Possession sides.
const (
	SideOffense Side = iota
	SideDefense
)

// PlayerLine is one player's statistics for one game.
type PlayerLine struct {
	Name      string          `json:"name"`
	Position  league.Position `json:"position"`
	Minutes   float64         `json:"minutes"`
	Points    int             `json:"points"`
	Rebounds  int             `json:"rebounds"`
	Assists   int             `json:"assists"`
	Steals    int             `json:"steals"`
	Blocks    int             `json:"blocks"`
	Turnovers int             `json:"turnovers"`
	FGM       int             `json:"fgm"`
	FGA       int             `json:"fga"`
	TPM       int             `json:"tpm"`
	TPA       int             `json:"tpa"`
}

// BoxScore is the mutable per-team ledger for one game. Lines are an arena
// indexed by roster position.
type BoxScore struct {
	lines  []PlayerLine
	points int
}

// NewBoxScore returns a zero-valued ledger with one line per rostered player.
func NewBoxScore(team league.Team) *BoxScore {
	b := &BoxScore{lines: make([]PlayerLine, len(team.Roster))}
	for i, p := range team.Roster {
		b.lines[i] = PlayerLine{Name: p.Name, Position: p.Position}
	}
	return b
}

// Post applies the mutations possession p implies for this team acting on
// side s. Each possession posts at most one of every counter per ledger.
func (b *BoxScore) Post(p Possession, s Side) {
	if s == SideOffense {
		b.postOffense(p)
		return
	}
	b.postDefense(p)
}

func (b *BoxScore) postOffense(p Possession) {
	shooter := &b.lines[p.Shooter]
	shooter.Minutes += minutesPerTouch

	if p.Outcome == OutcomeTurnover {
		shooter.Turnovers++
		return
	}
	shooter.FGA++
	if p.Shot == league.ShotThree {
		shooter.TPA++
	}
	switch p.Outcome {
	case OutcomeMade:
		shooter.FGM++
		if p.Shot == league.ShotThree {
			shooter.TPM++
		}
		shooter.Points += p.Points
		b.points += p.Points
		if p.Assister != none {
			b.lines[p.Assister].Assists++
		}
	case OutcomeMissed:
		if p.OffensiveRebound && p.Rebounder != none {
			b.lines[p.Rebounder].Rebounds++
		}
	}
}

func (b *BoxScore) postDefense(p Possession) {
	b.lines[p.Defender].Minutes += minutesPerTouch
	switch p.Outcome {
	case OutcomeTurnover:
		if p.Stealer != none {
			b.lines[p.Stealer].Steals++
		}
	case OutcomeMissed:
		if p.Blocker != none {
			b.lines[p.Blocker].Blocks++
		}
		if !p.OffensiveRebound && p.Rebounder != none {
			b.lines[p.Rebounder].Rebounds++
		}
	}
}

// Points returns the running team score.
func (b *BoxScore) Points() int { return b.points }

// Lines returns a finalized copy of the ledger with minutes scaled to a
// 48-minute game.
func (b *BoxScore) Lines() []PlayerLine {
	out := make([]PlayerLine, len(b.lines))
	copy(out, b.lines)
	for i := range out {
		out[i].Minutes = math.Round(out[i].Minutes*minutesScale*10) / 10
	}
	return out
}
