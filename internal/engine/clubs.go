package engine

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/finance"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/news"
	"github.com/talgya/touchline/internal/progression"
	"github.com/talgya/touchline/internal/roles"
)

// advanceClub runs one club's daily systems.
func (s *Simulation) advanceClub(c *league.Club, today calendar.Date, src entropy.Source, rep *DayReport, day matchDay) {
	before := c.Budget

	rep.Facts = append(rep.Facts, s.progressor.Advance(c, progression.DayContext{Date: today, Played: day.lineup}, src)...)
	s.tickConstruction(c, today, rep)

	st := s.ledger.SettleDay(c, finance.DayContext{
		Date:      today,
		MatchDay:  day.played[c.ID],
		HomeMatch: day.home[c.ID],
	}, src)
	if st.MarketingBoost {
		slog.Debug("marketing boost", "club", c.Name, "commercial", c.CommercialLevel)
	}

	if today.Weekday() == time.Monday {
		for _, ch := range roles.Evaluate(c, s.cfg.Roles) {
			slog.Debug("role change", "club", c.Name, "player", ch.PlayerID, "role", ch.Role, "granted", ch.Granted)
		}
		s.reviewBoard(c, today, rep)
	}

	if before >= 0 && c.Budget < 0 {
		rep.Facts = append(rep.Facts, news.CrisisFact{
			Date:   today,
			Club:   news.Ref(c),
			Crisis: news.CrisisBudget,
			Value:  c.Budget,
		})
		s.notify(c.ID, today, "Finance Director", "Budget in deficit",
			fmt.Sprintf("Our budget has fallen to %s.", news.Money(c.Budget)), league.CategoryFinance)
	}
}

// tickConstruction counts down an upgrade and applies it on completion.
func (s *Simulation) tickConstruction(c *league.Club, today calendar.Date, rep *DayReport) {
	if c.Construction == nil {
		return
	}
	c.Construction.DaysRemaining--
	if c.Construction.DaysRemaining > 0 {
		return
	}
	kind := c.Construction.Facility
	c.Facilities.Upgrade(kind)
	c.Construction = nil
	level := c.Facilities.Level(kind)
	rep.Facts = append(rep.Facts, news.FacilityFact{Date: today, Club: news.Ref(c), Facility: kind, Level: level})
	s.notify(c.ID, today, "Stadium Manager", "Construction complete",
		fmt.Sprintf("The %s upgrade is finished. It now stands at level %d.", kind, level), league.CategoryFacility)
	slog.Info("facility upgraded", "club", c.Name, "facility", kind, "level", level)
}

// reviewBoard updates job security from recent form and finances, warns
// when it falls low, and rescues a deeply indebted club once per season.
func (s *Simulation) reviewBoard(c *league.Club, today calendar.Date, rep *DayReport) {
	cfg := s.cfg.Board
	delta := 0
	for _, r := range lastN(c.Form, 5) {
		switch r {
		case "W":
			delta++
		case "L":
			delta--
		}
	}
	if c.Budget < 0 {
		delta -= 3
	}
	if bill := c.WageBill(); bill > 0 && float64(c.Debt) > cfg.DebtToWageLimit*float64(bill) {
		delta -= 2
	}
	switch {
	case c.FanHappiness < 30:
		delta -= 2
	case c.FanHappiness > 70:
		delta++
	}

	previous := c.JobSecurity
	c.JobSecurity = league.Clamp100(c.JobSecurity + delta)

	if c.JobSecurity < cfg.WarningLevel {
		if previous >= cfg.WarningLevel {
			rep.Facts = append(rep.Facts, news.CrisisFact{
				Date:      today,
				Club:      news.Ref(c),
				Crisis:    news.CrisisJobSecurity,
				Value:     int64(c.JobSecurity),
				Threshold: int64(cfg.WarningLevel),
			})
		}
		if c.LastBoardWarning.IsZero() || c.LastBoardWarning.DaysUntil(today) >= cfg.WarningCooldownDays {
			c.LastBoardWarning = today
			s.notify(c.ID, today, "Chairman", "The board is concerned",
				fmt.Sprintf("Results and finances have left your position under review (security %d).", c.JobSecurity),
				league.CategoryBoard)
		}
	}

	season := s.seasonOf(c)
	if c.Budget < cfg.EmergencyBudget && c.LastInjectionYear != season {
		c.Budget += cfg.InjectionAmount
		c.LastInjectionYear = season
		s.notify(c.ID, today, "Chairman", "Emergency funding",
			fmt.Sprintf("The owners have injected %s to keep the club afloat. It will not happen again this season.",
				news.Money(cfg.InjectionAmount)), league.CategoryFinance)
		slog.Info("emergency injection", "club", c.Name, "amount", humanize.Comma(cfg.InjectionAmount), "budget", humanize.Comma(c.Budget))
	}
}

func (s *Simulation) seasonOf(c *league.Club) int {
	if l, ok := s.index.LeagueOf(c.ID); ok {
		return l.Season
	}
	return 0
}

func lastN(form []string, n int) []string {
	if len(form) > n {
		return form[len(form)-n:]
	}
	return form
}

// payInstallments settles deferred transfer payments due today.
func (s *Simulation) payInstallments(today calendar.Date, rep *DayReport) {
	for _, c := range s.index.Clubs() {
		paid, missing := s.ledger.PayInstallments(c, today, s.index.Club)
		for _, p := range paid {
			slog.Debug("installment paid", "payer", p.Payer, "payee", p.Payee, "amount", humanize.Comma(p.Amount), "player", p.Player)
		}
		for _, id := range missing {
			s.skip(rep, "club", string(id), "installment from "+string(c.ID))
		}
	}
}

// monthlyAwards names each league's player of the previous month on the
// first day of a month.
func (s *Simulation) monthlyAwards(today calendar.Date, rep *DayReport) {
	if today.Day() != 1 {
		return
	}
	month := today.AddDays(-1).MonthKey()
	for _, l := range s.State.Leagues {
		var best *league.Player
		var bestLine *league.StatLine
		var bestClub *league.Club
		for _, c := range l.Clubs {
			for _, p := range c.Players {
				line := p.Stats.Monthly[month]
				if line == nil || line.Appearances < s.cfg.Board.AwardMinApps {
					continue
				}
				if best == nil || betterMonth(line, bestLine) {
					best, bestLine, bestClub = p, line, c
				}
			}
		}
		if best == nil {
			continue
		}
		award := league.MonthlyAward{
			Month:         month,
			PlayerID:      best.ID,
			PlayerName:    best.Name,
			ClubID:        bestClub.ID,
			AverageRating: bestLine.AverageRating(),
			Goals:         bestLine.Goals,
		}
		l.MonthlyAwards = append(l.MonthlyAwards, award)
		rep.Facts = append(rep.Facts, news.AwardFact{
			Date:          today,
			LeagueName:    l.Name,
			Month:         month,
			PlayerName:    best.Name,
			Club:          news.Ref(bestClub),
			AverageRating: award.AverageRating,
			Goals:         award.Goals,
		})
	}
}

func betterMonth(a, b *league.StatLine) bool {
	if a.AverageRating() != b.AverageRating() {
		return a.AverageRating() > b.AverageRating()
	}
	return a.Goals > b.Goals
}

// StartConstruction begins upgrading a facility, paying the cost up front.
func (s *Simulation) StartConstruction(id league.ClubID, kind league.Facility) error {
	c, ok := league.BuildIndex(s.State).Club(id)
	if !ok {
		return &MissingEntityError{Kind: "club", ID: string(id), Op: "start construction"}
	}
	if c.Construction != nil {
		return fmt.Errorf("%s: %w", c.Name, ErrConstructionInProgress)
	}
	level := c.Facilities.Level(kind)
	if level == 0 {
		return fmt.Errorf("unknown facility %q", kind)
	}
	if level >= league.MaxFacilityLevel {
		return fmt.Errorf("%s %s: %w", c.Name, kind, ErrFacilityMaxed)
	}
	next := int64(level + 1)
	cost := s.cfg.Board.FacilityBaseCost * next * next
	if err := s.ledger.Spend(c, cost); err != nil {
		return fmt.Errorf("start %s construction: %w", kind, err)
	}
	c.Construction = &league.Construction{
		Facility:      kind,
		DaysRemaining: s.cfg.Board.FacilityBaseDays * (level + 1),
		Cost:          cost,
	}
	slog.Info("construction started", "club", c.Name, "facility", kind, "cost", humanize.Comma(cost), "days", c.Construction.DaysRemaining)
	return nil
}

// AssignMentor pairs a player with a veteran teammate. An empty mentor id
// clears the pairing.
func (s *Simulation) AssignMentor(playerID, mentorID league.PlayerID) error {
	idx := league.BuildIndex(s.State)
	p, ok := idx.Player(playerID)
	if !ok {
		return &MissingEntityError{Kind: "player", ID: string(playerID), Op: "assign mentor"}
	}
	if mentorID == "" {
		p.MentorID = ""
		return nil
	}
	m, ok := idx.Player(mentorID)
	if !ok {
		return &MissingEntityError{Kind: "player", ID: string(mentorID), Op: "assign mentor"}
	}
	switch {
	case m.ID == p.ID:
		return fmt.Errorf("%s cannot mentor themselves: %w", p.Name, ErrIneligibleMentor)
	case m.ClubID != p.ClubID:
		return fmt.Errorf("%s plays for another club: %w", m.Name, ErrIneligibleMentor)
	case m.Age < s.cfg.Progression.MinMentorAge:
		return fmt.Errorf("%s is %d: %w", m.Name, m.Age, ErrIneligibleMentor)
	}
	p.MentorID = m.ID
	return nil
}
