package sim

import (
	"fmt"

	"github.com/okian/hoopsim/internal/domain/league"
)

// Weights applied when folding coaching and role fit into the team bases.
const (
	coachWeight = 0.3
	fitWeight   = 0.1
)

// PossessionContext bundles one side's per-game derived scalars. It is built
// once per team at tip-off and read, never written, on every possession.
type PossessionContext struct {
	Team    league.Team
	Tactics Tactics
	// Profiles is parallel to Team.Roster.
	Profiles []RoleProfile

	OffenseBase float64
	DefenseBase float64
	Synergy     float64
	// Rebounding is the roster's mean rebounding rating.
	Rebounding float64
}

// NewPossessionContext resolves roles for every rostered player and derives
// the team-level bases and synergy for tactics t.
func NewPossessionContext(team league.Team, t Tactics) (PossessionContext, error) {
	if len(team.Roster) == 0 {
		return PossessionContext{}, fmt.Errorf("%w: team %q has an empty roster", ErrInvalidConfiguration, team.ID)
	}
	if err := t.Validate(); err != nil {
		return PossessionContext{}, err
	}
	offFit, err := team.OffenseStyleFit(t.Offense)
	if err != nil {
		return PossessionContext{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	defFit, err := team.DefenseStyleFit(t.Defense)
	if err != nil {
		return PossessionContext{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	pc := PossessionContext{
		Team:     team,
		Tactics:  t,
		Profiles: make([]RoleProfile, len(team.Roster)),
		Synergy:  (offFit + defFit) / 2,
	}

	n := float64(len(team.Roster))
	var offense, defense, offenseFit, defenseFit, rebounding float64
	for i, p := range team.Roster {
		rp, err := ResolveRoles(p, t, p.Position)
		if err != nil {
			return PossessionContext{}, fmt.Errorf("player %q: %w", p.Name, err)
		}
		pc.Profiles[i] = rp
		offense += p.Offense
		defense += p.Defense
		offenseFit += rp.OffenseFit
		defenseFit += rp.DefenseFit
		rebounding += p.Rebounding
	}
	pc.OffenseBase = offense/n + team.CoachOffense*coachWeight + fitWeight*offenseFit/n
	pc.DefenseBase = defense/n + team.CoachDefense*coachWeight + fitWeight*defenseFit/n
	pc.Rebounding = rebounding / n
	return pc, nil
}

// MeanOffenseFit averages the roster's offense fit.
func (pc PossessionContext) MeanOffenseFit() float64 {
	s := 0.0
	for _, rp := range pc.Profiles {
		s += rp.OffenseFit
	}
	return s / float64(len(pc.Profiles))
}

// MeanDefenseFit averages the roster's defense fit.
func (pc PossessionContext) MeanDefenseFit() float64 {
	s := 0.0
	for _, rp := range pc.Profiles {
		s += rp.DefenseFit
	}
	return s / float64(len(pc.Profiles))
}
