// Package league holds the static player and team attribute tables the
// simulator reads: enumerated tactical keys, rosters, style-fit tables and
// the catalog used to look teams up by identifier.
package league

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel kinds for league errors.
var (
	ErrUnknownKey    = errors.New("unknown key")
	ErrTeamNotFound  = errors.New("team not found")
	ErrInvalidLeague = errors.New("invalid league")
)

// lookup resolves s against names case-insensitively and returns its index.
func lookup(kind string, names []string, s string) (int, error) {
	s = strings.TrimSpace(s)
	for i, n := range names {
		if strings.EqualFold(n, s) {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %s %q", ErrUnknownKey, kind, s)
}

// Position is one of the five roster slots.
type Position int

// Roster slots.
const (
	PointGuard Position = iota
	ShootingGuard
	SmallForward
	PowerForward
	Center
	NumPositions
)

var positionNames = []string{"PG", "SG", "SF", "PF", "C"}

// ParsePosition parses "PG", "SG", "SF", "PF" or "C".
func ParsePosition(s string) (Position, error) {
	i, err := lookup("position", positionNames, s)
	return Position(i), err
}

func (p Position) Valid() bool { return p >= 0 && p < NumPositions }

func (p Position) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Position(%d)", int(p))
	}
	return positionNames[p]
}

// Guard reports whether p is a backcourt slot.
func (p Position) Guard() bool { return p == PointGuard || p == ShootingGuard }

// Forward reports whether p is a wing or frontcourt forward slot.
func (p Position) Forward() bool { return p == SmallForward || p == PowerForward }

// IsCenter reports whether p is the center slot.
func (p Position) IsCenter() bool { return p == Center }

func (p Position) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Position) UnmarshalText(b []byte) error {
	v, err := ParsePosition(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// ShotType is the lane a field-goal attempt comes from.
type ShotType int

// Shot lanes.
const (
	ShotRim ShotType = iota
	ShotMid
	ShotThree
	NumShotTypes
)

var shotTypeNames = []string{"rim", "mid", "three"}

// ParseShotType parses "rim", "mid" or "three".
func ParseShotType(s string) (ShotType, error) {
	i, err := lookup("shot type", shotTypeNames, s)
	return ShotType(i), err
}

func (t ShotType) Valid() bool { return t >= 0 && t < NumShotTypes }

func (t ShotType) String() string {
	if !t.Valid() {
		return fmt.Sprintf("ShotType(%d)", int(t))
	}
	return shotTypeNames[t]
}

// Points is the value of a made attempt from this lane.
func (t ShotType) Points() int {
	if t == ShotThree {
		return 3
	}
	return 2
}

func (t ShotType) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

func (t *ShotType) UnmarshalText(b []byte) error {
	v, err := ParseShotType(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// CreationType is the primary way an offense manufactures shots.
type CreationType int

// Creation methods.
const (
	PickAndRoll CreationType = iota
	Transition
	Isolation
	Post
	Motion
	NumCreationTypes
)

var creationTypeNames = []string{"pick_and_roll", "transition", "isolation", "post", "motion"}

// ParseCreationType parses a creation focus such as "pick_and_roll".
func ParseCreationType(s string) (CreationType, error) {
	i, err := lookup("creation type", creationTypeNames, s)
	return CreationType(i), err
}

func (c CreationType) Valid() bool { return c >= 0 && c < NumCreationTypes }

func (c CreationType) String() string {
	if !c.Valid() {
		return fmt.Sprintf("CreationType(%d)", int(c))
	}
	return creationTypeNames[c]
}

func (c CreationType) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *CreationType) UnmarshalText(b []byte) error {
	v, err := ParseCreationType(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// OffenseStyle is the called offensive system.
type OffenseStyle int

// Offensive systems.
const (
	FiveOut OffenseStyle = iota
	Horns
	InsideOut
	SevenSeconds
	NumOffenseStyles
)

var offenseStyleNames = []string{"five_out", "horns", "inside_out", "seven_seconds"}

// ParseOffenseStyle parses an offensive system name such as "five_out".
func ParseOffenseStyle(s string) (OffenseStyle, error) {
	i, err := lookup("offense style", offenseStyleNames, s)
	return OffenseStyle(i), err
}

func (o OffenseStyle) Valid() bool { return o >= 0 && o < NumOffenseStyles }

func (o OffenseStyle) String() string {
	if !o.Valid() {
		return fmt.Sprintf("OffenseStyle(%d)", int(o))
	}
	return offenseStyleNames[o]
}

// Spacing reports whether the system is built around floor spacing.
func (o OffenseStyle) Spacing() bool { return o == FiveOut }

// Interior reports whether the system is built around paint touches.
func (o OffenseStyle) Interior() bool { return o == InsideOut }

// Pace reports whether the system pushes transition tempo.
func (o OffenseStyle) Pace() bool { return o == SevenSeconds }

// Favors returns the shot lane the system is designed to generate.
func (o OffenseStyle) Favors() ShotType {
	switch o {
	case FiveOut, SevenSeconds:
		return ShotThree
	case Horns:
		return ShotMid
	default:
		return ShotRim
	}
}

func (o OffenseStyle) MarshalText() ([]byte, error) { return []byte(o.String()), nil }

func (o *OffenseStyle) UnmarshalText(b []byte) error {
	v, err := ParseOffenseStyle(string(b))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// DefenseStyle is the called defensive scheme.
type DefenseStyle int

// Defensive schemes.
const (
	Drop DefenseStyle = iota
	Zone
	Switch
	PackLine
	NumDefenseStyles
)

var defenseStyleNames = []string{"drop", "zone", "switch", "pack_line"}

// ParseDefenseStyle parses a defensive scheme name such as "drop".
func ParseDefenseStyle(s string) (DefenseStyle, error) {
	i, err := lookup("defense style", defenseStyleNames, s)
	return DefenseStyle(i), err
}

func (d DefenseStyle) Valid() bool { return d >= 0 && d < NumDefenseStyles }

func (d DefenseStyle) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DefenseStyle(%d)", int(d))
	}
	return defenseStyleNames[d]
}

func (d DefenseStyle) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

func (d *DefenseStyle) UnmarshalText(b []byte) error {
	v, err := ParseDefenseStyle(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}
