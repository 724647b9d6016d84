package engine

import (
	"log/slog"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/news"
)

// FixtureProvider schedules a league's fixtures for a new season.
type FixtureProvider interface {
	Fixtures(l *league.League, start calendar.Date) []*league.Fixture
}

// seasonOver reports whether every league is past its season end with all
// resolvable fixtures played.
func (s *Simulation) seasonOver(next calendar.Date) bool {
	if len(s.State.Leagues) == 0 {
		return false
	}
	for _, l := range s.State.Leagues {
		if l.SeasonEnd.IsZero() || !next.After(l.SeasonEnd) {
			return false
		}
		for _, f := range l.Fixtures {
			if !f.Played && f.Resolved() {
				return false
			}
		}
	}
	return true
}

func (s *Simulation) seasonFacts(today calendar.Date, rep *DayReport) {
	for _, l := range s.State.Leagues {
		table := Standings(l)
		fact := news.SeasonFact{Date: today, LeagueName: l.Name, Season: l.Season}
		if len(table) > 0 {
			fact.Leader = news.Ref(table[0])
			fact.Points = table[0].Record.Points
		}
		rep.Facts = append(rep.Facts, fact)
		slog.Info("season over", "league", l.Name, "season", l.Season, "leader", fact.Leader.Name, "points", fact.Points)
	}
}

// CompleteSeasonSummary archives the finished season, rolls every league
// into the next one and lifts the season gate. provider may be nil, in
// which case leagues start the new season with no fixtures.
func (s *Simulation) CompleteSeasonSummary(provider FixtureProvider) ([]league.SeasonHistory, error) {
	if !s.State.SeasonSummaryPending {
		return nil, ErrNoSummaryPending
	}
	var out []league.SeasonHistory
	for _, l := range s.State.Leagues {
		h := s.archive(l)
		out = append(out, h)

		l.Season++
		l.SeasonStart = l.SeasonStart.AddYears(1)
		l.SeasonEnd = l.SeasonEnd.AddYears(1)
		for _, c := range l.Clubs {
			s.rollClub(c, l)
		}
		l.Fixtures = nil
		if provider != nil {
			l.Fixtures = provider.Fixtures(l, l.SeasonStart)
		}
		EnterCompetitions(l)
	}
	s.State.SeasonSummaryPending = false
	s.index = league.BuildIndex(s.State)
	return out, nil
}

func (s *Simulation) archive(l *league.League) league.SeasonHistory {
	h := league.SeasonHistory{Season: l.Season}
	if table := Standings(l); len(table) > 0 {
		champ := table[0]
		h.ChampionID, h.ChampionName = champ.ID, champ.Name
		champ.Trophies = append(champ.Trophies, league.Trophy{Season: l.Season, Competition: l.Name})
	}
	for _, c := range l.Clubs {
		for _, p := range c.Players {
			if p.Stats.Season.Goals > h.TopScorerGoals {
				h.TopScorerID, h.TopScorerName, h.TopScorerGoals = p.ID, p.Name, p.Stats.Season.Goals
			}
		}
	}
	l.History = append(l.History, h)
	slog.Info("season archived", "league", l.Name, "season", h.Season, "champion", h.ChampionName,
		"top_scorer", h.TopScorerName, "goals", h.TopScorerGoals)
	return h
}

// rollClub resets season records, ages the squad and extends expired
// contracts by two years.
func (s *Simulation) rollClub(c *league.Club, l *league.League) {
	c.Record = league.SeasonRecord{}
	c.CupRecords = nil
	c.Form = nil
	c.Streak = 0
	c.WinlessRun = 0
	for _, p := range c.Players {
		p.Age++
		p.Stats.Season = league.StatLine{}
		if p.ContractEnd.Before(l.SeasonStart) {
			p.ContractEnd = l.SeasonEnd.AddYears(1)
			s.notify(c.ID, s.State.Date, "Director of Football", p.Name+" renews",
				p.Name+" has signed a contract extension.", league.CategorySigning)
		}
	}
}

// EnterCompetitions sets every club's active competitions from the
// fixtures it is drawn in.
func EnterCompetitions(l *league.League) {
	entered := make(map[league.ClubID]map[string]bool)
	add := func(id league.ClubID, comp string) {
		if entered[id] == nil {
			entered[id] = make(map[string]bool)
		}
		entered[id][comp] = true
	}
	for _, f := range l.Fixtures {
		add(f.HomeID, f.Competition)
		add(f.AwayID, f.Competition)
	}
	for _, c := range l.Clubs {
		c.ActiveCompetitions = []string{l.Name}
		for _, f := range l.Fixtures {
			if entered[c.ID][f.Competition] && !c.InCompetition(f.Competition) {
				c.ActiveCompetitions = append(c.ActiveCompetitions, f.Competition)
			}
		}
	}
}
