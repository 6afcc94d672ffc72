// Command simulate plays one game or a series from the command line
// without starting the HTTP service.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	app "github.com/okian/hoopsim/internal/app"
	"github.com/okian/hoopsim/internal/domain/model"
	"github.com/okian/hoopsim/internal/domain/sim"
	"github.com/okian/hoopsim/pkg/logger"
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "simulate:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		home, away  = fs.String("home", "", "Home team id"), fs.String("away", "", "Away team id")
		games       = fs.Int("games", 1, "Games to play; more than one projects a series")
		seed        = fs.Uint64("seed", 0, "Game seed; 0 draws a random game")
		leagueFile  = fs.String("league", "", "League YAML file; empty uses the bundled league")
		asJSON      = fs.Bool("json", false, "Print the result as JSON")
		logLevel    = fs.String("log-level", "warn", "Log level for diagnostics on stderr")
		homeOffense = fs.String("home-offense", "", "Home offensive style")
		homeDefense = fs.String("home-defense", "", "Home defensive style")
		homeFocus   = fs.String("home-focus", "", "Home creation focus")
		awayOffense = fs.String("away-offense", "", "Away offensive style")
		awayDefense = fs.String("away-defense", "", "Away defensive style")
		awayFocus   = fs.String("away-focus", "", "Away creation focus")
	)
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *home == "" || *away == "" {
		fs.Usage()
		return errUsage
	}
	if err := logger.InitWith(logger.Options{Level: *logLevel, Output: stderr}); err != nil {
		return err
	}

	svc := app.New(
		app.WithLogger(logger.Get()),
		app.WithWorkerCount(1),
		app.WithLeagueFile(*leagueFile),
		app.WithMaxSeriesGames(*games),
	)
	if err := svc.Start(ctx); err != nil {
		return err
	}
	defer func() { _ = svc.Stop(context.Background()) }()

	ht := model.TacticsSpec{Offense: *homeOffense, Defense: *homeDefense, Focus: *homeFocus}
	at := model.TacticsSpec{Offense: *awayOffense, Defense: *awayDefense, Focus: *awayFocus}

	if *games > 1 {
		res, err := svc.Series(ctx, model.SeriesRequest{
			Home: *home, Away: *away, HomeTactics: ht, AwayTactics: at, Games: *games, Seed: *seed,
		})
		if err != nil {
			return err
		}
		if *asJSON {
			return writeJSON(stdout, res)
		}
		return printSeries(stdout, *home, *away, res)
	}

	req := model.GameRequest{Home: *home, Away: *away, HomeTactics: ht, AwayTactics: at}
	if *seed != 0 {
		req.Seed = seed
	}
	rec, err := svc.Simulate(ctx, req)
	if err != nil {
		return err
	}
	if *asJSON {
		return writeJSON(stdout, rec)
	}
	return printGame(stdout, rec.Result)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printGame(w io.Writer, res sim.GameResult) error {
	fmt.Fprintf(w, "%s %d, %s %d (%d possessions each)\n\n",
		res.Home.Name, res.Home.Score, res.Away.Name, res.Away.Score, res.Pace)
	for _, t := range []sim.TeamResult{res.Home, res.Away} {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
		fmt.Fprintf(tw, "%s\tPOS\tMIN\tPTS\tFG\t3P\tREB\tAST\tSTL\tBLK\tTO\t\n", t.Name)
		for _, p := range t.Players {
			fmt.Fprintf(tw, "%s\t%s\t%.1f\t%d\t%d-%d\t%d-%d\t%d\t%d\t%d\t%d\t%d\t\n",
				p.Name, p.Position, p.Minutes, p.Points, p.FGM, p.FGA, p.TPM, p.TPA,
				p.Rebounds, p.Assists, p.Steals, p.Blocks, p.Turnovers)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}
	for _, line := range res.Log {
		fmt.Fprintln(w, line)
	}
	return nil
}

func printSeries(w io.Writer, home, away string, res sim.SeriesResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "games\t%d\n", res.Games)
	fmt.Fprintf(tw, "%s wins\t%d\n", home, res.HomeWins)
	fmt.Fprintf(tw, "%s wins\t%d\n", away, res.AwayWins)
	fmt.Fprintf(tw, "ties\t%d\n", res.Ties)
	fmt.Fprintf(tw, "average score\t%.1f - %.1f\n", res.HomeAvg, res.AwayAvg)
	fmt.Fprintf(tw, "%s win share\t%.3f\n", home, res.HomeWinShare)
	return tw.Flush()
}
