package sim_test

import (
	"fmt"

	"github.com/okian/hoopsim/internal/domain/league"
)

var testPositions = []league.Position{
	league.PointGuard, league.ShootingGuard, league.SmallForward, league.PowerForward,
	league.Center, league.ShootingGuard, league.SmallForward, league.Center,
}

// testTeam builds a mid-rated eight-player roster with uniform style fits.
func testTeam(id string) league.Team {
	t := league.Team{
		ID:           id,
		Name:         "Team " + id,
		CoachOffense: 3,
		CoachDefense: 3,
		Pace:         96,
	}
	for i := range t.OffenseFit {
		t.OffenseFit[i] = 70
	}
	for i := range t.DefenseFit {
		t.DefenseFit[i] = 70
	}
	usage := []float64{20, 18, 16, 14, 12, 10, 8, 8}
	for i, pos := range testPositions {
		p := league.Player{
			Name:       fmt.Sprintf("%s-%d", id, i),
			Position:   pos,
			Offense:    66,
			Defense:    72,
			Playmaking: 68,
			Rebounding: 60,
			Usage:      usage[i],
			Shot:       [league.NumShotTypes]float64{62, 60, 58},
		}
		if pos == league.PointGuard {
			p.Playmaking = 80
		}
		if pos == league.Center {
			p.Rebounding = 78
		}
		for c := range p.Creation {
			p.Creation[c] = 60
		}
		t.Roster = append(t.Roster, p)
	}
	return t
}

// fixedSource replays a fixed sequence of draws, repeating the last one.
type fixedSource struct {
	vals []float64
	i    int
}

func (f *fixedSource) Float64() float64 {
	v := f.vals[f.i]
	if f.i < len(f.vals)-1 {
		f.i++
	}
	return v
}
