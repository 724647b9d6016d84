// Simulation ties together all league systems and advances them one day at a time.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/finance"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/match"
	"github.com/talgya/touchline/internal/news"
	"github.com/talgya/touchline/internal/progression"
	"github.com/talgya/touchline/internal/roles"
	"github.com/talgya/touchline/internal/transfer"
	"github.com/talgya/touchline/internal/weather"
)

var (
	// ErrSeasonSummaryPending halts the day loop until CompleteSeasonSummary runs.
	ErrSeasonSummaryPending = errors.New("season summary pending")
	// ErrMissingEntity is wrapped by MissingEntityError.
	ErrMissingEntity = errors.New("missing entity")

	ErrNoSummaryPending       = errors.New("no season summary pending")
	ErrNoHumanClub            = errors.New("no human club")
	ErrAlreadyNegotiating     = errors.New("player already in negotiation")
	ErrConstructionInProgress = errors.New("construction already in progress")
	ErrFacilityMaxed          = errors.New("facility at maximum level")
	ErrIneligibleMentor       = errors.New("ineligible mentor")
)

// MissingEntityError names a referenced entity that could not be found.
// The day carries on; the error is reported in DayReport.Skipped.
type MissingEntityError struct {
	Kind string
	ID   string
	Op   string
}

func (e *MissingEntityError) Error() string {
	return fmt.Sprintf("%s: %s %q not found", e.Op, e.Kind, e.ID)
}

func (e *MissingEntityError) Unwrap() error { return ErrMissingEntity }

// MatchSimulator resolves one fixture.
type MatchSimulator interface {
	Simulate(home, away *league.Club, opts match.Options, src entropy.Source) *match.Result
}

// BoardConfig tunes the weekly board review, crisis thresholds and facilities.
type BoardConfig struct {
	WarningLevel        int     `yaml:"warning_level"`
	WarningCooldownDays int     `yaml:"warning_cooldown_days"`
	EmergencyBudget     int64   `yaml:"emergency_budget"`
	InjectionAmount     int64   `yaml:"injection_amount"`
	DebtToWageLimit     float64 `yaml:"debt_to_wage_limit"`
	StreakThreshold     int     `yaml:"streak_threshold"`
	WinlessThreshold    int     `yaml:"winless_threshold"`
	UpsetGap            int     `yaml:"upset_gap"`
	FacilityBaseCost    int64   `yaml:"facility_base_cost"`
	FacilityBaseDays    int     `yaml:"facility_base_days"`
	AwardMinApps        int     `yaml:"award_min_apps"`
	NewsLimit           int     `yaml:"news_limit"`
}

// Config bundles every subsystem's tuning.
type Config struct {
	Match       match.Config       `yaml:"match"`
	Transfer    transfer.Config    `yaml:"transfer"`
	Progression progression.Config `yaml:"progression"`
	Finance     finance.Config     `yaml:"finance"`
	Roles       roles.Config       `yaml:"roles"`
	Board       BoardConfig        `yaml:"board"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Match:       match.DefaultConfig(),
		Transfer:    transfer.DefaultConfig(),
		Progression: progression.DefaultConfig(),
		Finance:     finance.DefaultConfig(),
		Roles:       roles.DefaultConfig(),
		Board: BoardConfig{
			WarningLevel:        30,
			WarningCooldownDays: 28,
			EmergencyBudget:     -5_000_000,
			InjectionAmount:     10_000_000,
			DebtToWageLimit:     2,
			StreakThreshold:     5,
			WinlessThreshold:    8,
			UpsetGap:            15,
			FacilityBaseCost:    1_500_000,
			FacilityBaseDays:    45,
			AwardMinApps:        2,
			NewsLimit:           1000,
		},
	}
}

// DayReport summarizes one advanced day.
type DayReport struct {
	Date        calendar.Date
	Results     []*league.Fixture
	Transfers   []news.TransferFact
	Facts       []news.Fact
	Messages    int
	Skipped     []error
	SeasonEnded bool
}

// matchDay records which clubs played on the current day and where.
type matchDay struct {
	played map[league.ClubID]bool
	home   map[league.ClubID]bool
	lineup map[league.PlayerID]bool
}

// Simulation holds the career state and wires the subsystems together.
type Simulation struct {
	State *league.GameState

	// Rand overrides the per-day seeded source. Tests inject a scripted one.
	Rand entropy.Source
	// Renderer turns facts into news items. Nil uses the templates.
	Renderer news.Renderer
	// Weather is nil for clear conditions every day.
	Weather *weather.Generator

	cfg        Config
	matches    MatchSimulator
	market     *transfer.Market
	negotiator *transfer.Negotiator
	progressor *progression.Progressor
	ledger     *finance.Ledger
	index      *league.Index
}

// NewSimulation wires a simulation around gs.
func NewSimulation(gs *league.GameState, cfg Config) *Simulation {
	cfg.Transfer.Roles = cfg.Roles
	return &Simulation{
		State:      gs,
		Weather:    weather.NewGenerator(gs.Seed),
		cfg:        cfg,
		matches:    match.New(cfg.Match),
		market:     transfer.NewMarket(cfg.Transfer),
		negotiator: transfer.NewNegotiator(cfg.Transfer),
		progressor: progression.New(cfg.Progression),
		ledger:     finance.NewLedger(cfg.Finance),
		index:      league.BuildIndex(gs),
	}
}

// SetMatchSimulator replaces the match engine.
func (s *Simulation) SetMatchSimulator(m MatchSimulator) { s.matches = m }

// Index returns the lookup tables as of the last rebuild.
func (s *Simulation) Index() *league.Index { return s.index }

// Config returns the simulation's tuning.
func (s *Simulation) Config() Config { return s.cfg }

// AdvanceDay runs one day: fixtures, market, negotiations, clubs,
// installments, narrative, then moves the date forward. Nothing fails
// part way through; unresolvable references are collected in Skipped.
func (s *Simulation) AdvanceDay(ctx context.Context) (DayReport, error) {
	if s.State.SeasonSummaryPending {
		return DayReport{}, ErrSeasonSummaryPending
	}
	if err := ctx.Err(); err != nil {
		return DayReport{}, err
	}

	today := s.State.Date
	src := s.source(today)
	s.index = league.BuildIndex(s.State)
	rep := &DayReport{Date: today}
	day := matchDay{
		played: make(map[league.ClubID]bool),
		home:   make(map[league.ClubID]bool),
		lineup: make(map[league.PlayerID]bool),
	}
	inbox := len(s.State.Inbox)

	s.playFixtures(today, src, rep, day)

	if calendar.InTransferWindow(today) {
		done := s.market.Run(transfer.MarketContext{Date: today, State: s.State, Index: s.index, Src: src})
		for _, f := range done {
			rep.Transfers = append(rep.Transfers, f)
			rep.Facts = append(rep.Facts, f)
		}
	}

	s.advanceNegotiations(today, src, rep)

	for _, c := range s.index.Clubs() {
		s.advanceClub(c, today, src, rep, day)
	}

	s.payInstallments(today, rep)
	s.monthlyAwards(today, rep)

	next := today.AddDays(1)
	ended := s.seasonOver(next)
	if ended {
		s.seasonFacts(today, rep)
	}
	s.render(ctx, rep)

	s.State.Date = next
	if ended {
		s.State.SeasonSummaryPending = true
		rep.SeasonEnded = true
	}
	rep.Messages = len(s.State.Inbox) - inbox

	var spent int64
	for _, t := range rep.Transfers {
		spent += t.Fee
	}
	slog.Info("daily report",
		"date", today,
		"matches", len(rep.Results),
		"transfers", len(rep.Transfers),
		"transfer_spend", humanize.Comma(spent),
		"facts", len(rep.Facts),
		"messages", rep.Messages,
		"skipped", len(rep.Skipped),
		"open_negotiations", len(s.State.OpenNegotiations()),
	)
	return *rep, nil
}

// source returns the day's random source. Without an override the draws
// are a pure function of the career seed and the date.
func (s *Simulation) source(d calendar.Date) entropy.Source {
	if s.Rand != nil {
		return s.Rand
	}
	return entropy.NewSeeded(s.State.Seed*1_000_003 + d.Ordinal())
}

// auxSource serves draws made outside AdvanceDay, such as a human bid.
func (s *Simulation) auxSource() entropy.Source {
	if s.Rand != nil {
		return s.Rand
	}
	return entropy.NewSeeded(s.State.Seed*7_919 + int64(s.State.Serial()))
}

func (s *Simulation) skip(rep *DayReport, kind, id, op string) {
	err := &MissingEntityError{Kind: kind, ID: id, Op: op}
	slog.Warn("skipped", "date", rep.Date, "err", err)
	rep.Skipped = append(rep.Skipped, err)
}

func (s *Simulation) renderer() news.Renderer {
	if s.Renderer == nil {
		return news.Templates{}
	}
	return s.Renderer
}

// render turns the day's facts into news items. Rendering failures drop
// the item; they never fail the day.
func (s *Simulation) render(ctx context.Context, rep *DayReport) {
	r := s.renderer()
	for _, f := range rep.Facts {
		item, err := r.Render(ctx, f)
		if err != nil {
			slog.Debug("render failed", "kind", f.Kind(), "err", err)
			continue
		}
		s.State.News = append(s.State.News, item)
	}
	if limit := s.cfg.Board.NewsLimit; limit > 0 && len(s.State.News) > limit {
		s.State.News = s.State.News[len(s.State.News)-limit:]
	}
}
