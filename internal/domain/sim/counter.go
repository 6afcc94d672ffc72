package sim

import "github.com/okian/hoopsim/internal/domain/league"

// defaultCounterEdge is reported for pairings the matrix leaves at zero.
const defaultCounterEdge = 0.8

// counterMatrix rates how well an offensive system attacks a defensive
// scheme. Narrative only; possessions never read it.
var counterMatrix = [league.NumOffenseStyles][league.NumDefenseStyles]float64{
	league.FiveOut:   {league.Drop: 2.1, league.Zone: 1.0, league.Switch: 1.4, league.PackLine: 2.4},
	league.Horns:     {league.Drop: 1.7, league.Zone: 0.6, league.Switch: 2.2, league.PackLine: 1.4},
	league.InsideOut: {league.Drop: 0.9, league.Zone: 2.3, league.Switch: 1.0, league.PackLine: 1.8},
}

// CounterEdge returns the scouting edge of offense o against defense d.
func CounterEdge(o league.OffenseStyle, d league.DefenseStyle) float64 {
	if !o.Valid() || !d.Valid() {
		return defaultCounterEdge
	}
	if v := counterMatrix[o][d]; v > 0 {
		return v
	}
	return defaultCounterEdge
}
