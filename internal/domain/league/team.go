package league

import (
	"fmt"
	"math"
)

// RosterSize is the fixed number of players on every roster.
const RosterSize = 8

// Rating bounds shared by every 0-99 attribute, including style fits.
const (
	MinRating = 0
	MaxRating = 99
)

// Bounds for the attributes that are not on the rating scale.
const (
	MaxUsage = 100
	MaxCoach = 20
	MaxPace  = 200
)

// inRange reports lo <= v <= hi. NaN is never in range.
func inRange(v, lo, hi float64) bool {
	return !math.IsNaN(v) && v >= lo && v <= hi
}

// Player is an immutable attribute record.
type Player struct {
	Name       string
	Position   Position
	Offense    float64
	Defense    float64
	Playmaking float64
	Rebounding float64
	// Usage weights how often the player finishes possessions.
	Usage    float64
	Shot     [NumShotTypes]float64
	Creation [NumCreationTypes]float64
}

// ShotSkill returns the player's rating for shot lane t.
func (p Player) ShotSkill(t ShotType) (float64, error) {
	if !t.Valid() {
		return 0, fmt.Errorf("%w: shot type %d", ErrUnknownKey, int(t))
	}
	return p.Shot[t], nil
}

// CreationSkill returns the player's rating for creation method c.
func (p Player) CreationSkill(c CreationType) (float64, error) {
	if !c.Valid() {
		return 0, fmt.Errorf("%w: creation type %d", ErrUnknownKey, int(c))
	}
	return p.Creation[c], nil
}

// BestShot returns the player's highest shot-lane rating.
func (p Player) BestShot() float64 {
	return math.Max(p.Shot[ShotRim], math.Max(p.Shot[ShotMid], p.Shot[ShotThree]))
}

func (p Player) validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: player without name", ErrInvalidLeague)
	}
	if !p.Position.Valid() {
		return fmt.Errorf("%w: player %q has no position", ErrInvalidLeague, p.Name)
	}
	ratings := []float64{p.Offense, p.Defense, p.Playmaking, p.Rebounding}
	ratings = append(ratings, p.Shot[:]...)
	ratings = append(ratings, p.Creation[:]...)
	for _, r := range ratings {
		if !inRange(r, MinRating, MaxRating) {
			return fmt.Errorf("%w: player %q rating %.1f outside [%d,%d]", ErrInvalidLeague, p.Name, r, MinRating, MaxRating)
		}
	}
	if !inRange(p.Usage, 0, MaxUsage) {
		return fmt.Errorf("%w: player %q usage %.1f outside [0,%d]", ErrInvalidLeague, p.Name, p.Usage, MaxUsage)
	}
	return nil
}

// Team is an immutable template many games may reference.
type Team struct {
	ID           string
	Name         string
	Roster       []Player
	CoachOffense float64
	CoachDefense float64
	Pace         float64
	OffenseFit   [NumOffenseStyles]float64
	DefenseFit   [NumDefenseStyles]float64
}

// OffenseStyleFit returns how well the team suits offensive system s.
func (t Team) OffenseStyleFit(s OffenseStyle) (float64, error) {
	if !s.Valid() {
		return 0, fmt.Errorf("%w: offense style %d", ErrUnknownKey, int(s))
	}
	return t.OffenseFit[s], nil
}

// DefenseStyleFit returns how well the team suits defensive scheme s.
func (t Team) DefenseStyleFit(s DefenseStyle) (float64, error) {
	if !s.Valid() {
		return 0, fmt.Errorf("%w: defense style %d", ErrUnknownKey, int(s))
	}
	return t.DefenseFit[s], nil
}

// PlayerIndex returns the roster index of the named player, or -1.
func (t Team) PlayerIndex(name string) int {
	for i, p := range t.Roster {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Validate checks the invariants the simulator relies on.
func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: team without id", ErrInvalidLeague)
	}
	if len(t.Roster) != RosterSize {
		return fmt.Errorf("%w: team %q has %d players, want %d", ErrInvalidLeague, t.ID, len(t.Roster), RosterSize)
	}
	seen := make(map[string]struct{}, len(t.Roster))
	for _, p := range t.Roster {
		if err := p.validate(); err != nil {
			return fmt.Errorf("team %q: %w", t.ID, err)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("%w: team %q lists %q twice", ErrInvalidLeague, t.ID, p.Name)
		}
		seen[p.Name] = struct{}{}
	}
	if !inRange(t.Pace, 1, MaxPace) {
		return fmt.Errorf("%w: team %q pace %.1f outside [1,%d]", ErrInvalidLeague, t.ID, t.Pace, MaxPace)
	}
	for _, c := range []float64{t.CoachOffense, t.CoachDefense} {
		if !inRange(c, -MaxCoach, MaxCoach) {
			return fmt.Errorf("%w: team %q coach modifier %.1f outside [-%d,%d]", ErrInvalidLeague, t.ID, c, MaxCoach, MaxCoach)
		}
	}
	fits := append(make([]float64, 0, NumOffenseStyles+NumDefenseStyles), t.OffenseFit[:]...)
	fits = append(fits, t.DefenseFit[:]...)
	for _, f := range fits {
		if !inRange(f, MinRating, MaxRating) {
			return fmt.Errorf("%w: team %q style fit %.1f outside [%d,%d]", ErrInvalidLeague, t.ID, f, MinRating, MaxRating)
		}
	}
	return nil
}
