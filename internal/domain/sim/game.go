package sim

import (
	"fmt"
	"math"

	"github.com/okian/hoopsim/internal/domain/league"
)

// paceNoise bounds the uniform jitter applied to the blended team pace.
const paceNoise = 4

// Matchup is the input to one simulated game.
type Matchup struct {
	Home        league.Team
	Away        league.Team
	HomeTactics Tactics
	AwayTactics Tactics
}

// TeamResult is one side's finalized line.
type TeamResult struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Score   int          `json:"score"`
	Players []PlayerLine `json:"players"`
}

// GameResult is the immutable outcome of a simulated game.
type GameResult struct {
	Home        TeamResult `json:"home"`
	Away        TeamResult `json:"away"`
	Pace        int        `json:"pace"`
	Possessions int        `json:"possessions"`
	Log         []string   `json:"log"`
}

// Winner returns the id of the higher-scoring team, or "" on a tie.
func (r GameResult) Winner() string {
	switch {
	case r.Home.Score > r.Away.Score:
		return r.Home.ID
	case r.Away.Score > r.Home.Score:
		return r.Away.ID
	default:
		return ""
	}
}

type gameSide struct {
	ctx PossessionContext
	box *BoxScore
}

// SimulateGame runs 2*pace possessions, home team first, alternating the
// ball except when an offensive rebound is retained, and returns the final
// scoreline and box scores. All randomness comes from src.
func SimulateGame(m Matchup, src Source) (GameResult, error) {
	if src == nil {
		src = DefaultSource()
	}
	homeCtx, err := NewPossessionContext(m.Home, m.HomeTactics)
	if err != nil {
		return GameResult{}, fmt.Errorf("home: %w", err)
	}
	awayCtx, err := NewPossessionContext(m.Away, m.AwayTactics)
	if err != nil {
		return GameResult{}, fmt.Errorf("away: %w", err)
	}

	pace := int(math.Round(mean(m.Home.Pace, m.Away.Pace) + uniform(src, -paceNoise, paceNoise)))
	if pace < 1 {
		pace = 1
	}

	sides := [2]gameSide{
		{ctx: homeCtx, box: NewBoxScore(m.Home)},
		{ctx: awayCtx, box: NewBoxScore(m.Away)},
	}
	engine := NewEngine(src)
	total := 2 * pace
	offense := 0
	for range total {
		off, def := sides[offense], sides[1-offense]
		p := engine.Run(off.ctx, def.ctx)
		off.box.Post(p, SideOffense)
		def.box.Post(p, SideDefense)
		if !p.Retained {
			offense = 1 - offense
		}
	}

	return GameResult{
		Home:        teamResult(m.Home, sides[0].box),
		Away:        teamResult(m.Away, sides[1].box),
		Pace:        pace,
		Possessions: total,
		Log:         narrative(homeCtx, awayCtx, pace, total),
	}, nil
}

func teamResult(t league.Team, b *BoxScore) TeamResult {
	return TeamResult{ID: t.ID, Name: t.Name, Score: b.Points(), Players: b.Lines()}
}

func narrative(home, away PossessionContext, pace, possessions int) []string {
	return []string{
		configurationLine(home),
		configurationLine(away),
		fmt.Sprintf("Role fit: %s offense %.1f defense %.1f synergy %.1f | %s offense %.1f defense %.1f synergy %.1f",
			home.Team.Name, home.MeanOffenseFit(), home.MeanDefenseFit(), home.Synergy,
			away.Team.Name, away.MeanOffenseFit(), away.MeanDefenseFit(), away.Synergy),
		fmt.Sprintf("Counter edge: %s %.1f | %s %.1f",
			home.Team.Name, CounterEdge(home.Tactics.Offense, away.Tactics.Defense),
			away.Team.Name, CounterEdge(away.Tactics.Offense, home.Tactics.Defense)),
		fmt.Sprintf("Pace %d (%d possessions)", pace, possessions),
	}
}

func configurationLine(pc PossessionContext) string {
	t := pc.Tactics
	return fmt.Sprintf("%s: %s offense, %s defense, %s focus, mix rim %.0f / mid %.0f / three %.0f, primary %s, secondary %s",
		pc.Team.Name, t.Offense, t.Defense, t.Focus,
		t.Mix.Rim, t.Mix.Mid, t.Mix.Three,
		orDash(t.Primary), orDash(t.Secondary))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
