// Package model contains the request, job and record models passed between
// the HTTP layer, the service and the worker pool.
package model

import (
	"fmt"

	"github.com/okian/hoopsim/internal/domain/league"
	"github.com/okian/hoopsim/internal/domain/sim"
)

// TacticsSpec is the wire form of one side's tactics. Empty fields keep the
// value from sim.DefaultTactics.
type TacticsSpec struct {
	Offense   string       `json:"offense,omitempty"`
	Defense   string       `json:"defense,omitempty"`
	Mix       *sim.ShotMix `json:"mix,omitempty"`
	Focus     string       `json:"focus,omitempty"`
	Primary   string       `json:"primary,omitempty"`
	Secondary string       `json:"secondary,omitempty"`
}

// Tactics parses s on top of the defaults. Unknown keys are reported as
// sim.ErrInvalidConfiguration.
func (s TacticsSpec) Tactics() (sim.Tactics, error) {
	var opts []sim.TacticOption
	if s.Offense != "" {
		o, err := league.ParseOffenseStyle(s.Offense)
		if err != nil {
			return sim.Tactics{}, invalid(err)
		}
		opts = append(opts, sim.WithOffenseStyle(o))
	}
	if s.Defense != "" {
		d, err := league.ParseDefenseStyle(s.Defense)
		if err != nil {
			return sim.Tactics{}, invalid(err)
		}
		opts = append(opts, sim.WithDefenseStyle(d))
	}
	if s.Focus != "" {
		c, err := league.ParseCreationType(s.Focus)
		if err != nil {
			return sim.Tactics{}, invalid(err)
		}
		opts = append(opts, sim.WithCreationFocus(c))
	}
	if s.Mix != nil {
		opts = append(opts, sim.WithShotMix(s.Mix.Rim, s.Mix.Mid, s.Mix.Three))
	}
	if s.Primary != "" || s.Secondary != "" {
		opts = append(opts, sim.WithScorers(s.Primary, s.Secondary))
	}
	return sim.DefaultTactics().With(opts...), nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", sim.ErrInvalidConfiguration, err)
}

// GameRequest asks for one simulated game.
type GameRequest struct {
	// RequestID makes asynchronous submissions idempotent.
	RequestID   string      `json:"request_id,omitempty"`
	Home        string      `json:"home"`
	Away        string      `json:"away"`
	HomeTactics TacticsSpec `json:"home_tactics"`
	AwayTactics TacticsSpec `json:"away_tactics"`
	// Seed makes the game reproducible when set.
	Seed *uint64 `json:"seed,omitempty"`
}

// SeriesRequest asks for many independent games of one matchup.
type SeriesRequest struct {
	Home        string      `json:"home"`
	Away        string      `json:"away"`
	HomeTactics TacticsSpec `json:"home_tactics"`
	AwayTactics TacticsSpec `json:"away_tactics"`
	Games       int         `json:"games"`
	Seed        uint64      `json:"seed"`
}
