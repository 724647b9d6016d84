// Command leaguesim runs a football management career: it loads the last
// save or generates a new world, advances it day by day, and autosaves to
// SQLite along the way.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/config"
	"github.com/talgya/touchline/internal/engine"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/llm"
	"github.com/talgya/touchline/internal/persistence"
	"github.com/talgya/touchline/internal/spawn"
)

func main() {
	cfgPath := flag.String("config", "", "path to a YAML balance file")
	days := flag.Int("days", 0, "days to simulate (overrides the config)")
	fresh := flag.Bool("new", false, "ignore any save and generate a new world")
	flag.Parse()

	b, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if *days > 0 {
		b.Sim.Days = *days
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: b.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// ── Database ──────────────────────────────────────────────────────
	db, err := persistence.Open(b.Sim.DBPath)
	if err != nil {
		slog.Error("failed to open database", "path", b.Sim.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// ── Career ────────────────────────────────────────────────────────
	var gs *league.GameState
	if !*fresh {
		gs, err = db.LoadState()
		if err != nil && !errors.Is(err, persistence.ErrNoSave) {
			slog.Error("failed to load save", "error", err)
			os.Exit(1)
		}
	}
	if gs == nil {
		start, err := b.StartDate()
		if err != nil {
			slog.Error("bad start date", "error", err)
			os.Exit(1)
		}
		gs, err = spawn.NewWorld(spawn.Config{
			Seed:           b.Sim.Seed,
			Start:          start,
			Leagues:        b.Sim.Leagues,
			ClubsPerLeague: b.Sim.ClubsPerLeague,
			SquadSize:      b.Sim.SquadSize,
			HumanClub:      b.Sim.HumanClub,
			Schedule:       spawn.DefaultScheduler(),
		})
		if err != nil {
			slog.Error("world generation failed", "error", err)
			os.Exit(1)
		}
		if err := db.SaveState(gs); err != nil {
			slog.Error("initial save failed", "error", err)
		}
	}

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(gs, b.Engine)

	client := llm.NewClient(b.LLM.APIKey, llm.WithModel(b.LLM.Model), llm.WithRateLimit(b.LLM.RateLimit))
	if client.Enabled() {
		sim.Renderer = llm.NewReporter(client, nil)
		slog.Info("LLM reporter enabled", "model", b.LLM.Model)
	} else {
		slog.Warn("ANTHROPIC_API_KEY not set, news uses templates")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	save := func(reason string) {
		if err := db.SaveState(sim.State); err != nil {
			slog.Error("save failed", "reason", reason, "error", err)
			return
		}
		if n, err := db.PruneSnapshots(b.Sim.KeepSnapshots); err != nil {
			slog.Warn("snapshot prune failed", "error", err)
		} else if n > 0 {
			slog.Debug("snapshots pruned", "count", n)
		}
	}

	eng := engine.NewEngine(sim)
	eng.OnDay = func(rep engine.DayReport) {
		for _, f := range rep.Results {
			if f.HomeID == gs.HumanClubID || f.AwayID == gs.HumanClubID {
				slog.Info("result", "date", f.Date, "competition", f.Competition,
					"home", clubName(sim, f.HomeID), "score", fmt.Sprintf("%d-%d", f.HomeGoals, f.AwayGoals),
					"away", clubName(sim, f.AwayID))
			}
		}
		for _, err := range rep.Skipped {
			slog.Warn("skipped", "date", rep.Date, "error", err)
		}
		if b.Sim.AutosaveDays > 0 && eng.Days%uint64(b.Sim.AutosaveDays) == 0 {
			save("autosave")
		}
	}
	eng.OnMonth = func(date calendar.Date) {
		l, ok := sim.Index().LeagueOf(gs.HumanClubID)
		if !ok {
			return
		}
		d := llm.GenerateDigest(ctx, client, digestData(sim.State, l, date))
		fmt.Printf("\n%s\n\n", d.Content)
	}
	eng.OnSeason = func(sim *engine.Simulation) error {
		histories, err := sim.CompleteSeasonSummary(spawn.DefaultScheduler())
		if err != nil {
			return err
		}
		for _, h := range histories {
			fmt.Printf("\nSeason %d: champions %s, top scorer %s (%d goals)\n",
				h.Season, h.ChampionName, h.TopScorerName, h.TopScorerGoals)
		}
		save("new season")
		return nil
	}

	// ── Start ─────────────────────────────────────────────────────────
	if human, ok := sim.Index().Club(gs.HumanClubID); ok {
		fmt.Printf("\nManaging %s from %s. Budget %s, reputation %d.\n",
			human.Name, gs.Date, humanize.Comma(human.Budget), human.Reputation)
	}
	fmt.Printf("Simulating %d days... (Ctrl+C to stop)\n", b.Sim.Days)

	done, err := eng.Advance(ctx, b.Sim.Days)
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("simulation stopped", "after_days", done, "error", err)
	}

	// Final save on shutdown.
	slog.Info("final save...")
	save("shutdown")

	human, hok := sim.Index().Club(gs.HumanClubID)
	l, lok := sim.Index().LeagueOf(gs.HumanClubID)
	if hok && lok {
		pos := engine.Position(l, human.ID)
		fmt.Printf("Stopped on %s after %d days. %s sit %s with %d points.\n",
			sim.State.Date, done, human.Name, humanize.Ordinal(pos), human.Record.Points)
	}
}

func clubName(sim *engine.Simulation, id league.ClubID) string {
	if c, ok := sim.Index().Club(id); ok {
		return c.Name
	}
	return string(id)
}

// digestData collects the table and the month's stories for one league.
func digestData(gs *league.GameState, l *league.League, date calendar.Date) *llm.DigestData {
	data := &llm.DigestData{Date: date.String(), LeagueName: l.Name}
	for _, c := range engine.Standings(l) {
		data.Standings = append(data.Standings, llm.StandingSummary{
			Name:           c.Name,
			Played:         c.Record.Played,
			Points:         c.Record.Points,
			GoalDifference: c.Record.GoalDifference(),
			Form:           strings.Join(c.Form, ""),
		})
	}
	for _, n := range gs.News {
		if n.Date.Year() == date.Year() && n.Date.Month() == date.Month() {
			data.Items = append(data.Items, n)
		}
	}
	if len(data.Items) > 20 {
		data.Items = data.Items[len(data.Items)-20:]
	}
	return data
}
