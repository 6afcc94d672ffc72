package sim

import (
	"fmt"

	"github.com/okian/hoopsim/internal/domain/league"
)

// ShotMix is the target share of rim, mid-range and three-point attempts.
// Weights need not sum to 100; they are normalized at use time.
type ShotMix struct {
	Rim   float64 `json:"rim"`
	Mid   float64 `json:"mid"`
	Three float64 `json:"three"`
}

func (m ShotMix) lanes() [league.NumShotTypes]float64 {
	return [league.NumShotTypes]float64{m.Rim, m.Mid, m.Three}
}

// Tactics is one side's tactical configuration for a single game.
// The engine never mutates it; derive variants with With.
type Tactics struct {
	Offense   league.OffenseStyle
	Defense   league.DefenseStyle
	Mix       ShotMix
	Focus     league.CreationType
	Primary   string
	Secondary string
}

// DefaultTactics returns a balanced five-out / drop configuration.
func DefaultTactics() Tactics {
	return Tactics{
		Offense: league.FiveOut,
		Defense: league.Drop,
		Mix:     ShotMix{Rim: 35, Mid: 25, Three: 40},
		Focus:   league.PickAndRoll,
	}
}

// TacticOption overrides one field of a Tactics copy.
type TacticOption func(*Tactics)

// With returns a copy of t with opts applied.
func (t Tactics) With(opts ...TacticOption) Tactics {
	c := t
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// WithOffenseStyle sets the offensive system.
func WithOffenseStyle(s league.OffenseStyle) TacticOption {
	return func(t *Tactics) { t.Offense = s }
}

// WithDefenseStyle sets the defensive scheme.
func WithDefenseStyle(s league.DefenseStyle) TacticOption {
	return func(t *Tactics) { t.Defense = s }
}

// WithShotMix sets the rim / mid / three targets.
func WithShotMix(rim, mid, three float64) TacticOption {
	return func(t *Tactics) { t.Mix = ShotMix{Rim: rim, Mid: mid, Three: three} }
}

// WithCreationFocus sets the creation method.
func WithCreationFocus(c league.CreationType) TacticOption {
	return func(t *Tactics) { t.Focus = c }
}

// WithScorers designates the primary and secondary options by player name.
func WithScorers(primary, secondary string) TacticOption {
	return func(t *Tactics) {
		t.Primary = primary
		t.Secondary = secondary
	}
}

// Validate rejects enumerated keys the lookup tables cannot serve.
func (t Tactics) Validate() error {
	switch {
	case !t.Offense.Valid():
		return fmt.Errorf("%w: offense style %v", ErrInvalidConfiguration, t.Offense)
	case !t.Defense.Valid():
		return fmt.Errorf("%w: defense style %v", ErrInvalidConfiguration, t.Defense)
	case !t.Focus.Valid():
		return fmt.Errorf("%w: creation focus %v", ErrInvalidConfiguration, t.Focus)
	}
	return nil
}
