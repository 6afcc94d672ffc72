package sim_test

import (
	"errors"
	"math"
	"testing"

	"github.com/okian/hoopsim/internal/domain/league"
	"github.com/okian/hoopsim/internal/domain/sim"
	. "github.com/smartystreets/goconvey/convey"
)

func sum(v [league.NumShotTypes]float64) float64 {
	return v[0] + v[1] + v[2]
}

func TestShotDistribution(t *testing.T) {
	Convey("Given the default mix against a drop", t, func() {
		d := sim.ShotDistribution(sim.ShotMix{Rim: 35, Mid: 25, Three: 40}, league.Drop)

		Convey("Then the lanes sum to 100 and threes are pushed up", func() {
			So(sum(d), ShouldAlmostEqual, 100, 1e-9)
			So(d[league.ShotThree], ShouldBeGreaterThan, 40)
			So(d[league.ShotRim], ShouldBeLessThan, 35)
		})
	})

	Convey("Given a mix skewed entirely to threes against a zone", t, func() {
		d := sim.ShotDistribution(sim.ShotMix{Three: 100}, league.Zone)

		Convey("Then every lane is clamped before renormalizing", func() {
			So(sum(d), ShouldAlmostEqual, 100, 1e-9)
			So(d[league.ShotRim], ShouldAlmostEqual, 5.0/95*100, 1e-9)
			So(d[league.ShotMid], ShouldAlmostEqual, 5.0/95*100, 1e-9)
			So(d[league.ShotThree], ShouldAlmostEqual, 85.0/95*100, 1e-9)
		})
	})

	Convey("Given an all-zero mix against a switch", t, func() {
		d := sim.ShotDistribution(sim.ShotMix{}, league.Switch)

		Convey("Then the lanes split evenly", func() {
			for _, v := range d {
				So(v, ShouldAlmostEqual, 100.0/3, 1e-9)
			}
		})
	})

	Convey("Given a mix containing NaN", t, func() {
		d := sim.ShotDistribution(sim.ShotMix{Rim: math.NaN(), Mid: 50, Three: 50}, league.PackLine)

		Convey("Then the bad lane falls to the floor", func() {
			So(sum(d), ShouldAlmostEqual, 100, 1e-9)
			So(d[league.ShotRim], ShouldAlmostEqual, 5.0/105*100, 1e-9)
		})
	})
}

func TestPossessionContext(t *testing.T) {
	Convey("Given a valid team and default tactics", t, func() {
		pc, err := sim.NewPossessionContext(testTeam("a"), sim.DefaultTactics())

		Convey("Then a profile exists for every rostered player", func() {
			So(err, ShouldBeNil)
			So(len(pc.Profiles), ShouldEqual, league.RosterSize)
			So(pc.Synergy, ShouldEqual, 70.0)
			So(pc.Rebounding, ShouldAlmostEqual, (60*6+78*2)/8.0, 1e-9)
			So(pc.OffenseBase, ShouldBeGreaterThan, 66)
		})
	})

	Convey("Given a team with no players", t, func() {
		team := testTeam("a")
		team.Roster = nil

		Convey("Then the context is rejected", func() {
			_, err := sim.NewPossessionContext(team, sim.DefaultTactics())
			So(errors.Is(err, sim.ErrInvalidConfiguration), ShouldBeTrue)
		})
	})

	Convey("Given an out-of-range defensive scheme", t, func() {
		tac := sim.DefaultTactics().With(sim.WithDefenseStyle(league.DefenseStyle(9)))

		Convey("Then the context is rejected", func() {
			_, err := sim.NewPossessionContext(testTeam("a"), tac)
			So(errors.Is(err, sim.ErrInvalidConfiguration), ShouldBeTrue)
		})
	})
}

func TestEngineRun(t *testing.T) {
	Convey("Given two contexts", t, func() {
		off, err := sim.NewPossessionContext(testTeam("o"), sim.DefaultTactics())
		So(err, ShouldBeNil)
		def, err := sim.NewPossessionContext(testTeam("d"), sim.DefaultTactics())
		So(err, ShouldBeNil)

		Convey("When every draw is zero", func() {
			p := sim.NewEngine(&fixedSource{vals: []float64{0}}).Run(off, def)

			Convey("Then the possession is a stolen rim attempt", func() {
				So(p.Outcome, ShouldEqual, sim.OutcomeTurnover)
				So(p.Shot, ShouldEqual, league.ShotRim)
				So(p.Stealer, ShouldEqual, p.Defender)
				So(p.Points, ShouldEqual, 0)
				So(p.Retained, ShouldBeFalse)
			})

			Convey("And posting credits the turnover and the steal", func() {
				ob, db := sim.NewBoxScore(off.Team), sim.NewBoxScore(def.Team)
				ob.Post(p, sim.SideOffense)
				db.Post(p, sim.SideDefense)
				So(ob.Lines()[p.Shooter].Turnovers, ShouldEqual, 1)
				So(ob.Lines()[p.Shooter].FGA, ShouldEqual, 0)
				So(db.Lines()[p.Defender].Steals, ShouldEqual, 1)
				So(ob.Points(), ShouldEqual, 0)
			})
		})

		Convey("When every draw is near one", func() {
			p := sim.NewEngine(&fixedSource{vals: []float64{0.999}}).Run(off, def)

			Convey("Then the three misses and the defense rebounds", func() {
				So(p.Outcome, ShouldEqual, sim.OutcomeMissed)
				So(p.Shot, ShouldEqual, league.ShotThree)
				So(p.OffensiveRebound, ShouldBeFalse)
				So(p.Retained, ShouldBeFalse)
				So(p.Blocker, ShouldEqual, -1)
				So(p.Rebounder, ShouldBeBetweenOrEqual, 0, league.RosterSize-1)
			})

			Convey("And posting records the attempt and the defensive board", func() {
				ob, db := sim.NewBoxScore(off.Team), sim.NewBoxScore(def.Team)
				ob.Post(p, sim.SideOffense)
				db.Post(p, sim.SideDefense)
				line := ob.Lines()[p.Shooter]
				So(line.FGA, ShouldEqual, 1)
				So(line.TPA, ShouldEqual, 1)
				So(line.FGM, ShouldEqual, 0)
				So(db.Lines()[p.Rebounder].Rebounds, ShouldEqual, 1)
			})
		})

		Convey("When many possessions run from a seeded source", func() {
			e := sim.NewEngine(sim.NewSeededSource(11))
			for range 2000 {
				p := e.Run(off, def)
				So(p.Shooter, ShouldBeBetweenOrEqual, 0, league.RosterSize-1)
				So(p.Defender, ShouldBeBetweenOrEqual, 0, league.RosterSize-1)
				switch p.Outcome {
				case sim.OutcomeMade:
					So(p.Points, ShouldEqual, p.Shot.Points())
					So(p.Assister, ShouldNotEqual, p.Shooter)
				case sim.OutcomeTurnover:
					So(p.Points, ShouldEqual, 0)
					So(p.Rebounder, ShouldEqual, -1)
				case sim.OutcomeMissed:
					So(p.Points, ShouldEqual, 0)
					So(p.Rebounder, ShouldBeBetweenOrEqual, 0, league.RosterSize-1)
					if p.Retained {
						So(p.OffensiveRebound, ShouldBeTrue)
					}
				}
			}
		})
	})
}

func TestCounterEdge(t *testing.T) {
	Convey("Given the scouting matrix", t, func() {
		Convey("Then rated pairings are returned as-is", func() {
			So(sim.CounterEdge(league.FiveOut, league.PackLine), ShouldEqual, 2.4)
			So(sim.CounterEdge(league.Horns, league.Zone), ShouldEqual, 0.6)
		})

		Convey("Then unrated pairings fall back to the default edge", func() {
			So(sim.CounterEdge(league.SevenSeconds, league.Drop), ShouldEqual, 0.8)
			So(sim.CounterEdge(league.OffenseStyle(-1), league.Drop), ShouldEqual, 0.8)
		})
	})
}
