package sim

import (
	"testing"

	"github.com/okian/hoopsim/internal/domain/league"
	. "github.com/smartystreets/goconvey/convey"
)

// midSource always draws 0.5, which zeroes every symmetric noise term.
type midSource struct{}

func (midSource) Float64() float64 { return 0.5 }

// neutral returns a context with zero bases and tactics that neither boost
// nor counter a mid-range shot.
func neutral() PossessionContext {
	return PossessionContext{Tactics: Tactics{Offense: league.FiveOut, Defense: league.PackLine, Focus: league.Isolation}}
}

func TestTurnoverProbability(t *testing.T) {
	Convey("Given an engine without noise", t, func() {
		e := NewEngine(midSource{})
		off, def := neutral(), neutral()
		var carrier league.Player

		Convey("Then evenly matched sides turn it over at the base rate", func() {
			So(e.turnoverProbability(off, def, carrier, 0), ShouldAlmostEqual, turnoverBase, 1e-9)
		})

		Convey("Then a mismatch adds directly to the rate", func() {
			So(e.turnoverProbability(off, def, carrier, 0.05), ShouldAlmostEqual, 0.155, 1e-9)
		})

		Convey("Then a smothering defense is capped at 0.20", func() {
			def.DefenseBase = 100
			So(e.turnoverProbability(off, def, carrier, mismatchCeiling), ShouldEqual, 0.20)
		})

		Convey("Then an elite ball handler never drops below 0.08", func() {
			carrier.Playmaking = 99
			off.OffenseBase = 100
			So(e.turnoverProbability(off, def, carrier, 0), ShouldEqual, 0.08)
		})
	})
}

func TestMakeProbability(t *testing.T) {
	Convey("Given an engine without noise", t, func() {
		e := NewEngine(midSource{})
		off, def := neutral(), neutral()
		var shooter, defender league.Player

		Convey("Then an even mid-range look falls at the base rate", func() {
			So(e.makeProbability(off, def, shooter, defender, league.ShotMid, 0), ShouldAlmostEqual, makeBase, 1e-9)
		})

		Convey("Then the favored lane gains 2.5 points", func() {
			So(e.makeProbability(off, def, shooter, defender, league.ShotThree, 0), ShouldAlmostEqual, 0.455, 1e-9)
		})

		Convey("Then a mismatch is subtracted", func() {
			So(e.makeProbability(off, def, shooter, defender, league.ShotMid, 0.05), ShouldAlmostEqual, 0.38, 1e-9)
		})

		Convey("Then a drop takes 2.2 points off rim attempts", func() {
			def.Tactics.Defense = league.Drop
			So(e.makeProbability(off, def, shooter, defender, league.ShotRim, 0), ShouldAlmostEqual, 0.408, 1e-9)
		})

		Convey("When the shooter overwhelms the defense", func() {
			shooter.Offense, shooter.Shot = 99, [league.NumShotTypes]float64{99, 99, 99}
			off.OffenseBase = 100

			Convey("Then threes cap at 0.54 and twos at 0.73", func() {
				So(e.makeProbability(off, def, shooter, defender, league.ShotThree, 0), ShouldEqual, 0.54)
				So(e.makeProbability(off, def, shooter, defender, league.ShotMid, 0), ShouldEqual, 0.73)
				So(e.makeProbability(off, def, shooter, defender, league.ShotRim, 0), ShouldEqual, 0.73)
			})
		})

		Convey("When the defense overwhelms the shooter", func() {
			defender.Defense = 99
			def.DefenseBase = 100

			Convey("Then threes floor at 0.24 and twos at 0.34", func() {
				So(e.makeProbability(off, def, shooter, defender, league.ShotThree, mismatchCeiling), ShouldEqual, 0.24)
				So(e.makeProbability(off, def, shooter, defender, league.ShotMid, mismatchCeiling), ShouldEqual, 0.34)
			})
		})
	})
}

func TestBlockProbability(t *testing.T) {
	Convey("Given a shooter and defender", t, func() {
		var shooter, defender league.Player

		Convey("Then an even matchup blocks at 0.05 away from the rim", func() {
			So(blockProbability(shooter, defender, league.ShotMid), ShouldAlmostEqual, 0.05, 1e-9)
		})

		Convey("Then the rim adds two points", func() {
			So(blockProbability(shooter, defender, league.ShotRim), ShouldAlmostEqual, 0.07, 1e-9)
		})

		Convey("Then a rim protector is capped at 0.15", func() {
			defender.Defense = 99
			So(blockProbability(shooter, defender, league.ShotRim), ShouldEqual, 0.15)
		})

		Convey("Then a dominant scorer is blocked no less than 0.02", func() {
			shooter.Offense = 99
			So(blockProbability(shooter, defender, league.ShotThree), ShouldEqual, 0.02)
		})
	})
}

func TestOreboundProbability(t *testing.T) {
	Convey("Given two rebounding sides", t, func() {
		off, def := neutral(), neutral()

		Convey("Then equal glass work recovers 0.24", func() {
			off.Rebounding, def.Rebounding = 65, 65
			So(oreboundProbability(off, def), ShouldAlmostEqual, 0.24, 1e-9)
		})

		Convey("Then a ten point edge scales by 1/260", func() {
			off.Rebounding, def.Rebounding = 70, 60
			So(oreboundProbability(off, def), ShouldAlmostEqual, 0.24+10.0/260, 1e-9)
		})

		Convey("Then the offensive glass caps at 0.35", func() {
			off.Rebounding = 99
			So(oreboundProbability(off, def), ShouldEqual, 0.35)
		})

		Convey("Then it never falls below 0.17", func() {
			def.Rebounding = 99
			So(oreboundProbability(off, def), ShouldEqual, 0.17)
		})
	})
}

func TestAssistProbability(t *testing.T) {
	Convey("Given an offense", t, func() {
		off := neutral()

		Convey("Then a zero base assists at 0.48", func() {
			So(assistProbability(off), ShouldAlmostEqual, 0.48, 1e-9)
		})

		Convey("Then motion adds nine points", func() {
			off.Tactics.Focus = league.Motion
			So(assistProbability(off), ShouldAlmostEqual, 0.57, 1e-9)
		})

		Convey("Then the rate caps at 0.76", func() {
			off.Tactics.Focus = league.Motion
			off.OffenseBase = 1000
			So(assistProbability(off), ShouldEqual, 0.76)
		})

		Convey("Then the rate floors at 0.32", func() {
			off.OffenseBase = -1000
			So(assistProbability(off), ShouldEqual, 0.32)
		})
	})
}

func TestStyleBoost(t *testing.T) {
	Convey("Given the offensive systems", t, func() {
		So(styleBoost(league.FiveOut, league.ShotThree), ShouldEqual, 2.5)
		So(styleBoost(league.Horns, league.ShotMid), ShouldEqual, 2.5)
		So(styleBoost(league.InsideOut, league.ShotRim), ShouldEqual, 2.5)
		So(styleBoost(league.SevenSeconds, league.ShotThree), ShouldEqual, 4.5)
		So(styleBoost(league.SevenSeconds, league.ShotRim), ShouldEqual, 2.0)
		So(styleBoost(league.Horns, league.ShotThree), ShouldEqual, 0.0)
		So(styleBoost(league.FiveOut, league.ShotRim), ShouldEqual, 0.0)
	})
}

func TestDefenseCounter(t *testing.T) {
	Convey("Given the defensive schemes", t, func() {
		Convey("Then a drop and a zone tax rim attempts", func() {
			So(defenseCounter(league.Drop, league.ShotRim, league.Isolation), ShouldEqual, 2.2)
			So(defenseCounter(league.Zone, league.ShotRim, league.Isolation), ShouldEqual, 1.6)
			So(defenseCounter(league.Drop, league.ShotRim, league.PickAndRoll), ShouldEqual, 2.2)
		})

		Convey("Then a switch taxes pick-and-roll creation on any lane", func() {
			So(defenseCounter(league.Switch, league.ShotThree, league.PickAndRoll), ShouldEqual, 1.3)
			So(defenseCounter(league.Switch, league.ShotRim, league.PickAndRoll), ShouldEqual, 1.3)
		})

		Convey("Then other pairings are untouched", func() {
			So(defenseCounter(league.Drop, league.ShotMid, league.Isolation), ShouldEqual, 0.0)
			So(defenseCounter(league.Zone, league.ShotThree, league.PickAndRoll), ShouldEqual, 0.0)
			So(defenseCounter(league.Switch, league.ShotRim, league.Motion), ShouldEqual, 0.0)
			So(defenseCounter(league.PackLine, league.ShotRim, league.PickAndRoll), ShouldEqual, 0.0)
		})
	})
}
