package engine

import (
	"log/slog"
	"sort"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/match"
	"github.com/talgya/touchline/internal/news"
	"github.com/talgya/touchline/internal/weather"
)

// playFixtures resolves every unplayed fixture dated today, in list order.
func (s *Simulation) playFixtures(today calendar.Date, src entropy.Source, rep *DayReport, day matchDay) {
	for _, l := range s.State.Leagues {
		for _, f := range l.Fixtures {
			if f.Played || !f.Date.Equal(today) {
				continue
			}
			if !f.Resolved() {
				slog.Warn("unresolved fixture slot", "fixture", f.ID, "competition", f.Competition)
				continue
			}
			home, ok := s.index.Club(f.HomeID)
			if !ok {
				s.skip(rep, "club", string(f.HomeID), "fixture "+string(f.ID))
				continue
			}
			away, ok := s.index.Club(f.AwayID)
			if !ok {
				s.skip(rep, "club", string(f.AwayID), "fixture "+string(f.ID))
				continue
			}

			w := match.Clear
			if s.Weather != nil {
				w = weather.MapToMatch(s.Weather.For(today, home.Name))
			}
			res := s.matches.Simulate(home, away, match.Options{
				Strictness: l.Strictness,
				Knockout:   f.IsKnockout,
				Weather:    w,
			}, src)
			s.applyResult(l, f, home, away, res, rep, day)
		}
	}
}

// applyResult writes a simulated result into the fixture and everything
// that depends on it.
func (s *Simulation) applyResult(l *league.League, f *league.Fixture, home, away *league.Club, res *match.Result, rep *DayReport, day matchDay) {
	today := rep.Date
	f.Played = true
	f.HomeGoals = res.HomeGoals
	f.AwayGoals = res.AwayGoals
	f.Penalties = res.Penalties
	f.Events = res.Events
	f.Weather = res.Weather
	f.Attendance = s.ledger.Attendance(home)

	day.played[home.ID] = true
	day.played[away.ID] = true
	day.home[home.ID] = true

	s.applyRecord(f, home, res.HomeGoals, res.AwayGoals)
	s.applyRecord(f, away, res.AwayGoals, res.HomeGoals)

	for _, line := range res.Lines {
		if !line.Appeared {
			continue
		}
		p, ok := s.index.Player(line.PlayerID)
		if !ok {
			continue
		}
		p.Stats.Record(today.MonthKey(), f.Competition, line.Appearance())
		p.ClubAppearances++
		if p.Form == 0 {
			p.Form = line.Rating
		} else {
			p.Form = 0.7*p.Form + 0.3*line.Rating
		}
		p.Condition = league.Clamp100(p.Condition - 15 - int(line.Fatigue*30))
		p.Fitness = league.Clamp100(p.Fitness - 2)
		day.lineup[p.ID] = true
	}

	derby := home.IsRival(away.ID) || away.IsRival(home.ID)
	s.applyMood(home, away, res.HomeGoals, res.AwayGoals, derby)
	s.applyMood(away, home, res.AwayGoals, res.HomeGoals, derby)

	if f.IsKnockout {
		s.propagate(l, f, rep)
	}

	s.streakFacts(home, today, rep)
	s.streakFacts(away, today, rep)

	upset := false
	if winner := f.Winner(); winner != "" {
		w, lo := home, away
		if winner == away.ID {
			w, lo = away, home
		}
		upset = w.Reputation+s.cfg.Board.UpsetGap <= lo.Reputation
	}

	fact := news.MatchFact{
		Date:        today,
		FixtureID:   f.ID,
		LeagueName:  l.Name,
		Competition: f.Competition,
		Round:       f.Round,
		Home:        news.Ref(home),
		Away:        news.Ref(away),
		HomeGoals:   f.HomeGoals,
		AwayGoals:   f.AwayGoals,
		Penalties:   f.Penalties,
		Attendance:  f.Attendance,
		IsDerby:     derby,
		IsUpset:     upset,
		Weather:     f.Weather,
	}
	if !f.IsKnockout {
		fact.HomePosition = Position(l, home.ID)
		fact.AwayPosition = Position(l, away.ID)
	}
	for _, e := range f.Events {
		if e.Kind != league.EventGoal {
			continue
		}
		if p, ok := s.index.Player(e.PlayerID); ok {
			fact.Scorers = append(fact.Scorers, p.Name)
		}
	}
	if motm, ok := res.ManOfTheMatch(); ok {
		if p, ok := s.index.Player(motm.PlayerID); ok {
			fact.ManOfMatch = p.Name
		}
	}
	rep.Results = append(rep.Results, f)
	rep.Facts = append(rep.Facts, fact)

	slog.Debug("match played",
		"date", today,
		"competition", f.Competition,
		"home", home.Name,
		"away", away.Name,
		"score", f.HomeGoals, "against", f.AwayGoals,
		"penalties", f.Penalties,
	)
}

func (s *Simulation) applyRecord(f *league.Fixture, c *league.Club, scored, conceded int) {
	if f.IsKnockout {
		if c.CupRecords == nil {
			c.CupRecords = make(map[string]*league.SeasonRecord)
		}
		if c.CupRecords[f.Competition] == nil {
			c.CupRecords[f.Competition] = &league.SeasonRecord{}
		}
		c.CupRecords[f.Competition].Apply(scored, conceded)
	} else {
		c.Record.Apply(scored, conceded)
	}
	c.PushForm(scored, conceded)
}

// applyMood moves morale, reputation, fan happiness and job security after
// a result. Derbies count double for the fans.
func (s *Simulation) applyMood(c, opp *league.Club, scored, conceded int, derby bool) {
	morale, fans, security, rep := 0, 0, 0, 0
	switch {
	case scored > conceded:
		morale, fans, security = 4, 3, 2
		if opp.Reputation+10 >= c.Reputation {
			rep = 1
		}
	case scored < conceded:
		morale, fans, security = -4, -3, -2
		if opp.Reputation <= c.Reputation {
			rep = -1
		}
	}
	if derby {
		fans *= 2
	}
	for _, p := range c.Players {
		p.Morale = league.Clamp100(p.Morale + morale)
	}
	c.FanHappiness = league.Clamp100(c.FanHappiness + fans)
	c.JobSecurity = league.Clamp100(c.JobSecurity + security)
	c.Reputation = clampReputation(c.Reputation + rep)
}

// propagate eliminates the loser of a knockout tie and moves the winner
// into its bracket slot. The final's winner collects the trophy.
func (s *Simulation) propagate(l *league.League, f *league.Fixture, rep *DayReport) {
	winner, loser := f.Winner(), f.Loser()
	if winner == "" {
		slog.Warn("knockout fixture without a winner", "fixture", f.ID)
		return
	}
	if c, ok := s.index.Club(loser); ok {
		c.Eliminate(f.Competition)
	}
	if f.NextFixtureID == "" {
		if c, ok := s.index.Club(winner); ok {
			c.Trophies = append(c.Trophies, league.Trophy{Season: l.Season, Competition: f.Competition})
			c.Eliminate(f.Competition)
			slog.Info("cup won", "competition", f.Competition, "club", c.Name, "season", l.Season)
		}
		return
	}
	next, ok := s.index.Fixture(f.NextFixtureID)
	if !ok {
		s.skip(rep, "fixture", string(f.NextFixtureID), "advance winner of "+string(f.ID))
		return
	}
	if f.BracketSlot == league.AwaySlot {
		next.AwayID = winner
	} else {
		next.HomeID = winner
	}
}

// streakFacts reports a club's run reaching a threshold, once per run.
func (s *Simulation) streakFacts(c *league.Club, today calendar.Date, rep *DayReport) {
	t := s.cfg.Board.StreakThreshold
	if t > 0 && (c.Streak == t || c.Streak == -t) {
		rep.Facts = append(rep.Facts, news.StreakFact{Date: today, Club: news.Ref(c), Streak: c.Streak, Threshold: t})
	}
	if w := s.cfg.Board.WinlessThreshold; w > 0 && c.WinlessRun == w {
		rep.Facts = append(rep.Facts, news.CrisisFact{
			Date:      today,
			Club:      news.Ref(c),
			Crisis:    news.CrisisWinless,
			Value:     int64(c.WinlessRun),
			Threshold: int64(w),
		})
	}
}

// Standings orders a league's clubs by points, goal difference, goals
// scored, then name.
func Standings(l *league.League) []*league.Club {
	table := make([]*league.Club, len(l.Clubs))
	copy(table, l.Clubs)
	sort.SliceStable(table, func(i, j int) bool {
		a, b := table[i].Record, table[j].Record
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDifference() != b.GoalDifference() {
			return a.GoalDifference() > b.GoalDifference()
		}
		if a.GoalsFor != b.GoalsFor {
			return a.GoalsFor > b.GoalsFor
		}
		return table[i].Name < table[j].Name
	})
	return table
}

// Position is the club's 1-based table position, or 0 if not in the league.
func Position(l *league.League, id league.ClubID) int {
	for i, c := range Standings(l) {
		if c.ID == id {
			return i + 1
		}
	}
	return 0
}

func clampReputation(v int) int {
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}
