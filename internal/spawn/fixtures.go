package spawn

import (
	"fmt"
	"sort"
	"time"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/league"
)

// Scheduler is the default fixture provider: a double round robin on
// Saturdays and an optional single-elimination cup on Wednesdays.
type Scheduler struct {
	FirstMatchOffset int    // days from season start to the first league Saturday
	CupName          string // empty disables the cup
	CupSize          int    // maximum entrants, rounded down to a power of two
	CupRoundGap      int    // weeks between cup rounds
}

// DefaultScheduler returns the standard calendar.
func DefaultScheduler() Scheduler {
	return Scheduler{FirstMatchOffset: 37, CupName: "Cup", CupSize: 8, CupRoundGap: 3}
}

// Fixtures schedules l's season beginning at start.
func (s Scheduler) Fixtures(l *league.League, start calendar.Date) []*league.Fixture {
	first := nextWeekday(start.AddDays(s.FirstMatchOffset), time.Saturday)
	fixtures := s.roundRobin(l, first)
	if s.CupName != "" {
		fixtures = append(fixtures, s.cup(l, first)...)
	}
	return fixtures
}

// roundRobin uses the circle method: the first club stays put while the
// rest rotate. The second half mirrors the first with venues swapped.
func (s Scheduler) roundRobin(l *league.League, first calendar.Date) []*league.Fixture {
	n := len(l.Clubs)
	if n < 2 {
		return nil
	}
	ring := make([]*league.Club, n)
	copy(ring, l.Clubs)
	rounds := n - 1

	var out []*league.Fixture
	for r := 0; r < rounds; r++ {
		for i := 0; i < n/2; i++ {
			home, away := ring[i], ring[n-1-i]
			if (i == 0 && r%2 == 1) || (i > 0 && i%2 == 1) {
				home, away = away, home
			}
			out = append(out,
				s.leagueFixture(l, r, i, first.AddDays(7*r), home, away),
				s.leagueFixture(l, r+rounds, i, first.AddDays(7*(r+rounds)), away, home),
			)
		}
		last := ring[n-1]
		copy(ring[2:], ring[1:n-1])
		ring[1] = last
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

func (s Scheduler) leagueFixture(l *league.League, round, match int, date calendar.Date, home, away *league.Club) *league.Fixture {
	return &league.Fixture{
		ID:          league.FixtureID(fmt.Sprintf("%s-%d-r%02d-%02d", l.ID, l.Season, round+1, match)),
		Date:        date,
		HomeID:      home.ID,
		AwayID:      away.ID,
		Competition: l.Name,
		Round:       fmt.Sprintf("Matchday %d", round+1),
	}
}

// cup draws the best-reputed clubs into a seeded bracket. Later rounds
// start with placeholder sides that winners are written into.
func (s Scheduler) cup(l *league.League, first calendar.Date) []*league.Fixture {
	size := 1
	for size*2 <= min(s.CupSize, len(l.Clubs)) {
		size *= 2
	}
	if size < 2 {
		return nil
	}
	entrants := make([]*league.Club, len(l.Clubs))
	copy(entrants, l.Clubs)
	sort.SliceStable(entrants, func(i, j int) bool { return entrants[i].Reputation > entrants[j].Reputation })
	entrants = entrants[:size]

	name := s.CupName
	if len(l.Name) > 0 {
		name = l.Name + " " + s.CupName
	}
	gap := max(s.CupRoundGap, 1)

	var rounds [][]*league.Fixture
	for ties, r := size/2, 0; ties >= 1; ties, r = ties/2, r+1 {
		date := first.AddDays(4 + 7*gap*(r+1))
		round := make([]*league.Fixture, ties)
		for m := range round {
			round[m] = &league.Fixture{
				ID:          league.FixtureID(fmt.Sprintf("%s-%d-cup%d-%02d", l.ID, l.Season, r+1, m)),
				Date:        date,
				HomeID:      league.PlaceholderClubID,
				AwayID:      league.PlaceholderClubID,
				Competition: name,
				IsKnockout:  true,
				Round:       roundName(ties),
			}
		}
		rounds = append(rounds, round)
	}
	for r := 0; r+1 < len(rounds); r++ {
		for m, f := range rounds[r] {
			f.NextFixtureID = rounds[r+1][m/2].ID
			f.BracketSlot = league.HomeSlot
			if m%2 == 1 {
				f.BracketSlot = league.AwaySlot
			}
		}
	}
	for m, f := range rounds[0] {
		f.HomeID = entrants[m].ID
		f.AwayID = entrants[size-1-m].ID
	}

	var out []*league.Fixture
	for _, round := range rounds {
		out = append(out, round...)
	}
	return out
}

func roundName(ties int) string {
	switch ties {
	case 1:
		return "Final"
	case 2:
		return "Semi-final"
	case 4:
		return "Quarter-final"
	}
	return fmt.Sprintf("Round of %d", ties*2)
}

func nextWeekday(d calendar.Date, wd time.Weekday) calendar.Date {
	for d.Weekday() != wd {
		d = d.AddDays(1)
	}
	return d
}
