package spawn

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/engine"
	"github.com/talgya/touchline/internal/league"
)

var start = calendar.MustParse("2025-07-01")

func testConfig() Config {
	return Config{
		Seed: 11, Start: start, Leagues: 2, ClubsPerLeague: 8, SquadSize: 22,
		Schedule: DefaultScheduler(),
	}
}

func TestNewWorldShape(t *testing.T) {
	gs, err := NewWorld(testConfig())
	require.NoError(t, err)
	require.Len(t, gs.Leagues, 2)
	assert.Equal(t, start, gs.Date)

	ids := make(map[string]bool)
	for _, l := range gs.Leagues {
		assert.Len(t, l.Clubs, 8)
		assert.True(t, l.SeasonEnd.After(l.SeasonStart))
		for _, c := range l.Clubs {
			assert.False(t, ids[string(c.ID)], "duplicate club id")
			ids[string(c.ID)] = true
			assert.Len(t, c.Players, 22)
			assert.GreaterOrEqual(t, c.CountPosition(league.Goalkeeper), 2)
			assert.GreaterOrEqual(t, c.CountPosition(league.Forward), 4)
			assert.Len(t, c.Rivals, 1)
			assert.True(t, c.InCompetition(l.Name))
			for _, p := range c.Players {
				assert.False(t, ids[string(p.ID)], "duplicate player id")
				ids[string(p.ID)] = true
				assert.Equal(t, c.ID, p.ClubID)
				assert.LessOrEqual(t, p.Overall, p.Potential)
				assert.Positive(t, p.MarketValue)
				assert.Positive(t, p.Salary)
				assert.True(t, p.ContractEnd.After(start))
			}
		}
	}

	human, ok := league.BuildIndex(gs).Club(gs.HumanClubID)
	require.True(t, ok)
	for _, c := range gs.Leagues[0].Clubs {
		assert.GreaterOrEqual(t, c.Reputation, human.Reputation)
	}
	assert.Greater(t, gs.Leagues[0].Clubs[0].Reputation, gs.Leagues[1].Clubs[0].Reputation)
}

func TestNewWorldIsDeterministic(t *testing.T) {
	a, err := NewWorld(testConfig())
	require.NoError(t, err)
	b, err := NewWorld(testConfig())
	require.NoError(t, err)
	ja, _ := json.Marshal(a)
	jb, _ := json.Marshal(b)
	assert.JSONEq(t, string(ja), string(jb))

	cfg := testConfig()
	cfg.Seed = 12
	c, err := NewWorld(cfg)
	require.NoError(t, err)
	assert.NotEqual(t, a.Leagues[0].Clubs[0].ID, c.Leagues[0].Clubs[0].ID)
}

func TestHumanClubByName(t *testing.T) {
	gs, err := NewWorld(testConfig())
	require.NoError(t, err)
	name := gs.Leagues[1].Clubs[3].Name

	cfg := testConfig()
	cfg.HumanClub = name
	gs, err = NewWorld(cfg)
	require.NoError(t, err)
	assert.Equal(t, gs.Leagues[1].Clubs[3].ID, gs.HumanClubID)

	cfg.HumanClub = "Nowhere Athletic"
	_, err = NewWorld(cfg)
	assert.Error(t, err)
}

func TestNewWorldRejectsBadConfig(t *testing.T) {
	cfg := testConfig()
	cfg.ClubsPerLeague = 7
	_, err := NewWorld(cfg)
	assert.Error(t, err)

	cfg = testConfig()
	cfg.Leagues = 0
	_, err = NewWorld(cfg)
	assert.Error(t, err)
}

func TestRoundRobin(t *testing.T) {
	gs, err := NewWorld(testConfig())
	require.NoError(t, err)
	l := gs.Leagues[0]

	type pair struct{ home, away league.ClubID }
	seen := make(map[pair]int)
	perDay := make(map[string]map[league.ClubID]int)
	count := 0
	for _, f := range l.Fixtures {
		if f.IsKnockout {
			continue
		}
		count++
		seen[pair{f.HomeID, f.AwayID}]++
		assert.Equal(t, time.Saturday, f.Date.Weekday())
		day := f.Date.String()
		if perDay[day] == nil {
			perDay[day] = make(map[league.ClubID]int)
		}
		perDay[day][f.HomeID]++
		perDay[day][f.AwayID]++
	}
	assert.Equal(t, 8*7, count)
	for _, a := range l.Clubs {
		for _, b := range l.Clubs {
			if a.ID != b.ID {
				assert.Equal(t, 1, seen[pair{a.ID, b.ID}], "%s v %s", a.Name, b.Name)
			}
		}
	}
	assert.Len(t, perDay, 14)
	for _, clubs := range perDay {
		assert.Len(t, clubs, 8)
		for _, n := range clubs {
			assert.Equal(t, 1, n)
		}
	}
}

func TestCupBracket(t *testing.T) {
	gs, err := NewWorld(testConfig())
	require.NoError(t, err)
	l := gs.Leagues[0]
	idx := league.BuildIndex(gs)

	var cup []*league.Fixture
	for _, f := range l.Fixtures {
		if f.IsKnockout {
			cup = append(cup, f)
		}
	}
	require.Len(t, cup, 7)

	finals := 0
	resolved := 0
	for _, f := range cup {
		assert.Equal(t, l.Name+" Cup", f.Competition)
		if f.Resolved() {
			resolved++
		}
		if f.NextFixtureID == "" {
			finals++
			assert.Equal(t, "Final", f.Round)
			continue
		}
		next, ok := idx.Fixture(f.NextFixtureID)
		require.True(t, ok)
		assert.True(t, next.Date.After(f.Date))
	}
	assert.Equal(t, 1, finals)
	assert.Equal(t, 4, resolved)

	entrants := 0
	for _, c := range l.Clubs {
		if c.InCompetition(l.Name + " Cup") {
			entrants++
		}
	}
	assert.Equal(t, 8, entrants)
}

func TestSpawnedWorldRuns(t *testing.T) {
	if testing.Short() {
		t.Skip("runs sixty simulated days")
	}
	gs, err := NewWorld(testConfig())
	require.NoError(t, err)
	sim := engine.NewSimulation(gs, engine.DefaultConfig())
	eng := engine.NewEngine(sim)

	n, err := eng.Advance(context.Background(), 60)
	require.NoError(t, err)
	assert.Equal(t, 60, n)
	assert.Equal(t, start.AddDays(60), gs.Date)

	for _, l := range gs.Leagues {
		played := 0
		for _, f := range l.Fixtures {
			if f.Played {
				played++
			}
		}
		assert.Equal(t, 3*4, played, l.Name)
	}
}
