// Command calibrate plays many matches between two identical sides and
// prints the goal distribution, for tuning the match constants.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/talgya/touchline/internal/config"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/match"
)

func main() {
	n := flag.Int("n", 10000, "matches to simulate")
	seed := flag.Int64("seed", 1, "random seed")
	rating := flag.Int("rating", 62, "overall rating of both elevens")
	knockout := flag.Bool("knockout", false, "resolve draws on penalties")
	cfgPath := flag.String("config", "", "balance file whose match section is used")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	b, err := config.Load(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	sim := match.New(b.Engine.Match)
	src := entropy.NewSeeded(*seed)
	home, away := club("home", *rating), club("away", *rating)

	results := make([]*match.Result, 0, *n)
	for i := 0; i < *n; i++ {
		for _, c := range []*league.Club{home, away} {
			for _, p := range c.Players {
				p.Condition = 100
				p.Injury = nil
			}
		}
		results = append(results, sim.Simulate(home, away, match.Options{Knockout: *knockout, Weather: match.Clear}, src))
	}

	s := match.Summarize(results)
	slog.Info("calibration finished", "matches", humanize.Comma(int64(s.Matches)), "seed", *seed, "rating", *rating)
	fmt.Printf("goals per match   %.2f (sd %.2f)\n", s.MeanGoals, s.StdDevGoals)
	fmt.Printf("home / away goals %.2f / %.2f\n", s.MeanHomeGoals, s.MeanAwayGoals)
	fmt.Printf("home / draw / away %.1f%% / %.1f%% / %.1f%%\n", s.HomeWinRate*100, s.DrawRate*100, s.AwayWinRate*100)
	if *knockout {
		fmt.Printf("penalty shootouts %.1f%%\n", s.PenaltyRate*100)
	}
}

// club builds a 4-4-2 of uniform quality with a weaker bench.
func club(id string, rating int) *league.Club {
	c := &league.Club{
		ID: league.ClubID(id), Name: id,
		Tactics: league.Tactics{
			Formation: "4-4-2", Pressing: league.Medium, LineHeight: league.Medium,
			Tempo: league.Medium, Style: league.Balanced, Tackling: league.Normal,
		},
	}
	positions := []league.Position{
		league.Goalkeeper,
		league.Defender, league.Defender, league.Defender, league.Defender,
		league.Midfielder, league.Midfielder, league.Midfielder, league.Midfielder,
		league.Forward, league.Striker,
		league.Goalkeeper, league.Defender, league.Midfielder, league.Forward,
	}
	for i, pos := range positions {
		ov := rating
		if i >= 11 {
			ov = rating - 12
		}
		a := league.Attributes{
			Pace: ov, Shooting: ov, Passing: ov, Dribbling: ov, Defending: ov,
			Physical: ov, Mental: ov, SetPieces: ov, Goalkeeping: 20,
		}
		if pos == league.Goalkeeper {
			a.Goalkeeping = ov + 3
		}
		c.AddPlayer(&league.Player{
			ID:       league.PlayerID(fmt.Sprintf("%s-%02d", id, i)),
			Name:     fmt.Sprintf("%s player %d", id, i),
			Position: pos, Age: 26, Overall: ov, Potential: ov,
			Attributes: a, Condition: 100, Fitness: 100, Morale: 50,
		})
	}
	return c
}
