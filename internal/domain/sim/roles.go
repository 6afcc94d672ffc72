package sim

import (
	"fmt"

	"github.com/okian/hoopsim/internal/domain/league"
)

// Role thresholds.
const (
	creatorSkillMin      = 82
	creatorPlaymakingMin = 85
	spacerThreeMin       = 82
	finisherRimMin       = 82
	glassReboundingMin   = 84

	rimProtectorDefenseMin  = 86
	wingStopperDefenseMin   = 82
	pointOfAttackDefenseMin = 80
	defRebounderMin         = 84

	fitFloor       = 50
	fitCeiling     = 99
	centerFitBonus = 4
)

// OffenseRole is the label a player carries on offense for one game.
type OffenseRole int

// Offense roles in assignment priority order.
const (
	PrimaryOption OffenseRole = iota
	SecondaryOption
	Creator
	Spacer
	InteriorFinisher
	GlassCleaner
	Connector
)

var offenseRoleNames = [...]string{
	"Primary Option", "Secondary Option", "Creator", "Spacer",
	"Interior Finisher", "Glass Cleaner", "Connector",
}

func (r OffenseRole) String() string {
	if r < 0 || int(r) >= len(offenseRoleNames) {
		return fmt.Sprintf("OffenseRole(%d)", int(r))
	}
	return offenseRoleNames[r]
}

func (r OffenseRole) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// DefenseRole is the label a player carries on defense for one game.
type DefenseRole int

// Defense roles in assignment priority order.
const (
	RimProtector DefenseRole = iota
	WingStopper
	PointOfAttack
	DefensiveRebounder
	TeamHelper
)

var defenseRoleNames = [...]string{
	"Rim Protector", "Wing Stopper", "Point-of-Attack", "Defensive Rebounder", "Team Helper",
}

func (r DefenseRole) String() string {
	if r < 0 || int(r) >= len(defenseRoleNames) {
		return fmt.Sprintf("DefenseRole(%d)", int(r))
	}
	return defenseRoleNames[r]
}

func (r DefenseRole) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// RoleProfile is a player's derived role assignment and fit for one game.
type RoleProfile struct {
	Offense    OffenseRole `json:"offense_role"`
	Defense    DefenseRole `json:"defense_role"`
	OffenseFit float64     `json:"offense_fit"`
	DefenseFit float64     `json:"defense_fit"`
}

// ResolveRoles derives p's roles and fit scores under tactics t when
// slotted at pos. It is a pure function of its arguments.
func ResolveRoles(p league.Player, t Tactics, pos league.Position) (RoleProfile, error) {
	if err := t.Validate(); err != nil {
		return RoleProfile{}, err
	}
	if !pos.Valid() {
		return RoleProfile{}, fmt.Errorf("%w: position %v", ErrInvalidConfiguration, pos)
	}
	focus, err := p.CreationSkill(t.Focus)
	if err != nil {
		return RoleProfile{}, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	rp := RoleProfile{
		Offense: offenseRole(p, t, focus),
		Defense: defenseRole(p, pos),
	}
	rp.OffenseFit = clamp(mean(p.Offense, p.Playmaking, p.BestShot(), focus), fitFloor, fitCeiling)
	def := mean(p.Defense, p.Rebounding)
	if pos.IsCenter() {
		def += centerFitBonus
	}
	rp.DefenseFit = clamp(def, fitFloor, fitCeiling)
	return rp, nil
}

func offenseRole(p league.Player, t Tactics, focus float64) OffenseRole {
	switch {
	case t.Primary != "" && p.Name == t.Primary:
		return PrimaryOption
	case t.Secondary != "" && p.Name == t.Secondary:
		return SecondaryOption
	case focus >= creatorSkillMin || p.Playmaking >= creatorPlaymakingMin:
		return Creator
	case p.Shot[league.ShotThree] >= spacerThreeMin && t.Offense.Spacing():
		return Spacer
	case p.Shot[league.ShotRim] >= finisherRimMin && t.Offense.Interior():
		return InteriorFinisher
	case p.Rebounding >= glassReboundingMin:
		return GlassCleaner
	default:
		return Connector
	}
}

func defenseRole(p league.Player, pos league.Position) DefenseRole {
	switch {
	case pos.IsCenter() && p.Defense >= rimProtectorDefenseMin:
		return RimProtector
	case pos.Forward() && p.Defense >= wingStopperDefenseMin:
		return WingStopper
	case pos.Guard() && p.Defense >= pointOfAttackDefenseMin:
		return PointOfAttack
	case p.Rebounding >= defRebounderMin:
		return DefensiveRebounder
	default:
		return TeamHelper
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mean(vs ...float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range vs {
		s += v
	}
	return s / float64(len(vs))
}
