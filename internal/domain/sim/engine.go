// Package sim resolves basketball games one possession at a time. A game
// derives per-team possession contexts from rosters and tactics, then runs
// the possession engine against an injected random source and posts each
// outcome into per-team box scores.
package sim

import (
	"math"

	"github.com/okian/hoopsim/internal/domain/league"
)

// Shot-mix adjustment band, in percentage points per lane.
const (
	laneFloor   = 5
	laneCeiling = 85
)

// Actor selection.
const (
	usageBase       = 8
	primaryShare    = 1.5
	secondaryShare  = 1.25
	creatorShare    = 1.12
	fitScale        = 90
	rimImpact       = 1.25
	perimeterImpact = 1.15
	creatorAssist   = 1.2
)

// Probability terms.
const (
	turnoverBase    = 0.105
	turnoverScale   = 430
	turnoverNoise   = 0.015
	turnoverFloor   = 0.08
	turnoverCeiling = 0.20
	stealShare      = 0.65

	mismatchPivot   = 70
	mismatchScale   = 500
	mismatchCeiling = 0.08

	makeBase         = 0.43
	makeScale        = 365
	makeNoise        = 0.05
	threeFloor       = 0.24
	threeCeiling     = 0.54
	twoFloor         = 0.34
	twoCeiling       = 0.73
	favoredShotBoost = 2.5
	paceBoost        = 2

	assistBase    = 0.48
	motionAssist  = 0.09
	assistScale   = 1000
	assistFloor   = 0.32
	assistCeiling = 0.76

	blockBase    = 0.05
	blockScale   = 320
	rimBlock     = 0.02
	blockFloor   = 0.02
	blockCeiling = 0.15

	oreboundBase    = 0.24
	oreboundScale   = 260
	oreboundFloor   = 0.17
	oreboundCeiling = 0.35
	retainShare     = 0.35
)

// none marks an unfilled actor slot in a Possession.
const none = -1

// Outcome is how a possession ended.
type Outcome int

// Possession outcomes.
const (
	OutcomeTurnover Outcome = iota
	OutcomeMade
	OutcomeMissed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeTurnover:
		return "turnover"
	case OutcomeMade:
		return "made"
	case OutcomeMissed:
		return "missed"
	default:
		return "unknown"
	}
}

// Possession is the result of one pass through the engine. Actor fields are
// roster indices: Shooter, Assister and offensive Rebounder index the
// offense roster; Defender, Stealer, Blocker and defensive Rebounder index
// the defense roster. Unfilled slots are -1.
type Possession struct {
	Outcome  Outcome
	Shot     league.ShotType
	Shooter  int
	Defender int
	Stealer  int
	Assister int
	Blocker  int
	// Rebounder belongs to the offense when OffensiveRebound is set.
	Rebounder        int
	OffensiveRebound bool
	// Retained means the offense keeps the ball for the next possession.
	Retained bool
	Points   int
}

// Engine resolves single possessions against an injected random Source.
type Engine struct {
	src Source
}

// NewEngine returns an Engine drawing from src, or the ambient source if nil.
func NewEngine(src Source) *Engine {
	if src == nil {
		src = DefaultSource()
	}
	return &Engine{src: src}
}

// Run resolves one possession with off attacking def. Both contexts must
// come from NewPossessionContext.
func (e *Engine) Run(off, def PossessionContext) Possession {
	shot := e.selectShotType(off.Tactics.Mix, def.Tactics.Defense)
	p := Possession{
		Shot:      shot,
		Shooter:   e.selectShooter(off, shot),
		Defender:  e.selectDefender(def, off.Tactics.Focus, shot),
		Stealer:   none,
		Assister:  none,
		Blocker:   none,
		Rebounder: none,
	}
	shooter := off.Team.Roster[p.Shooter]
	defender := def.Team.Roster[p.Defender]
	mismatch := clamp((mismatchPivot-off.Profiles[p.Shooter].OffenseFit)/mismatchScale, 0, mismatchCeiling)

	if chance(e.src, e.turnoverProbability(off, def, shooter, mismatch)) {
		p.Outcome = OutcomeTurnover
		if chance(e.src, stealShare) {
			p.Stealer = p.Defender
		}
		return p
	}

	if chance(e.src, e.makeProbability(off, def, shooter, defender, shot, mismatch)) {
		p.Outcome = OutcomeMade
		p.Points = shot.Points()
		if chance(e.src, assistProbability(off)) {
			p.Assister = e.selectAssister(off, p.Shooter)
		}
		return p
	}

	p.Outcome = OutcomeMissed
	if chance(e.src, blockProbability(shooter, defender, shot)) {
		p.Blocker = p.Defender
	}
	if chance(e.src, oreboundProbability(off, def)) {
		p.OffensiveRebound = true
		p.Rebounder = e.selectRebounder(off)
		p.Retained = chance(e.src, retainShare)
	} else {
		p.Rebounder = e.selectRebounder(def)
	}
	return p
}

// ShotDistribution applies defense-style adjustments to mix, clamps each lane
// into the fixed band and renormalizes so the lanes sum to 100.
func ShotDistribution(mix ShotMix, d league.DefenseStyle) [league.NumShotTypes]float64 {
	lanes := mix.lanes()
	switch d {
	case league.Drop:
		lanes[league.ShotThree] += 6
		lanes[league.ShotRim] -= 4
	case league.Zone:
		lanes[league.ShotThree] += 4
		lanes[league.ShotMid] += 4
		lanes[league.ShotRim] -= 6
	}
	total := 0.0
	for i, v := range lanes {
		if math.IsNaN(v) {
			v = laneFloor
		}
		lanes[i] = clamp(v, laneFloor, laneCeiling)
		total += lanes[i]
	}
	for i := range lanes {
		lanes[i] = lanes[i] / total * 100
	}
	return lanes
}

func (e *Engine) selectShotType(mix ShotMix, d league.DefenseStyle) league.ShotType {
	dist := ShotDistribution(mix, d)
	r := e.src.Float64() * 100
	acc := 0.0
	for i, share := range dist {
		acc += share
		if r < acc {
			return league.ShotType(i)
		}
	}
	return league.ShotThree
}

func (e *Engine) selectShooter(off PossessionContext, shot league.ShotType) int {
	focus := off.Tactics.Focus
	return Pick(e.src, indices(len(off.Team.Roster)), func(i int) float64 {
		p := off.Team.Roster[i]
		rp := off.Profiles[i]
		return (usageBase + p.Usage) *
			roleShare(rp.Offense) *
			(p.Shot[shot] / 100) *
			(0.75 + p.Creation[focus]/100) *
			(rp.OffenseFit / fitScale)
	})
}

func roleShare(r OffenseRole) float64 {
	switch r {
	case PrimaryOption:
		return primaryShare
	case SecondaryOption:
		return secondaryShare
	case Creator:
		return creatorShare
	default:
		return 1
	}
}

func (e *Engine) selectDefender(def PossessionContext, focus league.CreationType, shot league.ShotType) int {
	return Pick(e.src, indices(len(def.Team.Roster)), func(i int) float64 {
		rp := def.Profiles[i]
		impact := 1.0
		switch {
		case rp.Defense == RimProtector && shot == league.ShotRim:
			impact = rimImpact
		case rp.Defense == PointOfAttack && focus != league.Post:
			impact = perimeterImpact
		}
		return def.Team.Roster[i].Defense * impact * (rp.DefenseFit / fitScale)
	})
}

func (e *Engine) selectAssister(off PossessionContext, shooter int) int {
	mates := make([]int, 0, len(off.Team.Roster)-1)
	for i := range off.Team.Roster {
		if i != shooter {
			mates = append(mates, i)
		}
	}
	k := Pick(e.src, mates, func(i int) float64 {
		w := off.Team.Roster[i].Playmaking
		if off.Profiles[i].Offense == Creator {
			w *= creatorAssist
		}
		return w
	})
	if k < 0 {
		return none
	}
	return mates[k]
}

func (e *Engine) selectRebounder(pc PossessionContext) int {
	return Pick(e.src, indices(len(pc.Team.Roster)), func(i int) float64 {
		return pc.Team.Roster[i].Rebounding
	})
}

func (e *Engine) turnoverProbability(off, def PossessionContext, shooter league.Player, mismatch float64) float64 {
	edge := def.DefenseBase + def.Synergy - (shooter.Playmaking + off.OffenseBase + off.Synergy)
	p := turnoverBase + edge/turnoverScale + mismatch + uniform(e.src, -turnoverNoise, turnoverNoise)
	return clamp(p, turnoverFloor, turnoverCeiling)
}

func (e *Engine) makeProbability(off, def PossessionContext, shooter, defender league.Player, shot league.ShotType, mismatch float64) float64 {
	attack := shooter.Shot[shot] + shooter.Offense + off.OffenseBase + off.Synergy
	resist := defender.Defense + def.DefenseBase + def.Synergy
	p := makeBase +
		(attack-resist)/makeScale +
		styleBoost(off.Tactics.Offense, shot)/100 -
		defenseCounter(def.Tactics.Defense, shot, off.Tactics.Focus)/100 -
		mismatch +
		uniform(e.src, -makeNoise, makeNoise)
	if shot == league.ShotThree {
		return clamp(p, threeFloor, threeCeiling)
	}
	return clamp(p, twoFloor, twoCeiling)
}

func styleBoost(o league.OffenseStyle, shot league.ShotType) float64 {
	b := 0.0
	if o.Favors() == shot {
		b += favoredShotBoost
	}
	if o.Pace() {
		b += paceBoost
	}
	return b
}

func defenseCounter(d league.DefenseStyle, shot league.ShotType, focus league.CreationType) float64 {
	c := 0.0
	switch {
	case d == league.Drop && shot == league.ShotRim:
		c += 2.2
	case d == league.Zone && shot == league.ShotRim:
		c += 1.6
	}
	if d == league.Switch && focus == league.PickAndRoll {
		c += 1.3
	}
	return c
}

func assistProbability(off PossessionContext) float64 {
	p := assistBase + off.OffenseBase/assistScale
	if off.Tactics.Focus == league.Motion {
		p += motionAssist
	}
	return clamp(p, assistFloor, assistCeiling)
}

func blockProbability(shooter, defender league.Player, shot league.ShotType) float64 {
	p := blockBase + (defender.Defense-shooter.Offense)/blockScale
	if shot == league.ShotRim {
		p += rimBlock
	}
	return clamp(p, blockFloor, blockCeiling)
}

func oreboundProbability(off, def PossessionContext) float64 {
	return clamp(oreboundBase+(off.Rebounding-def.Rebounding)/oreboundScale, oreboundFloor, oreboundCeiling)
}

func indices(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
