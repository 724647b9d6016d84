package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/league"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "career.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleState() *league.GameState {
	day := calendar.MustParse("2025-08-16")
	c1 := &league.Club{ID: "c1", Name: "Northgate", Budget: 12_000_000, Reputation: 61,
		Record: league.SeasonRecord{Played: 2, Points: 4, GoalsFor: 3, GoalsAgainst: 1}}
	c1.AddPlayer(&league.Player{ID: "p1", Name: "Ada Quist", Position: league.Forward, Age: 22, Overall: 70, Potential: 80})
	c2 := &league.Club{ID: "c2", Name: "Harbour", Budget: 8_000_000, Reputation: 55,
		Record: league.SeasonRecord{Played: 2, Points: 6, GoalsFor: 4, GoalsAgainst: 0}}
	l := &league.League{ID: "l1", Name: "First Division", Season: 3, Clubs: []*league.Club{c1, c2}}
	return &league.GameState{
		Seed: 9, Date: day, HumanClubID: "c1", Leagues: []*league.League{l},
		News: []league.NewsItem{
			{Date: day.AddDays(-1), Kind: "match", Headline: "Harbour win again"},
			{Date: day, Kind: "transfer", Headline: "Northgate sign a striker"},
		},
	}
}

func TestLoadWithoutSave(t *testing.T) {
	db := openTemp(t)
	_, err := db.LoadState()
	assert.ErrorIs(t, err, ErrNoSave)
}

func TestSaveAndLoad(t *testing.T) {
	db := openTemp(t)
	gs := sampleState()
	require.NoError(t, db.SaveState(gs))

	got, err := db.LoadState()
	require.NoError(t, err)
	assert.Equal(t, gs.Date, got.Date)
	assert.Equal(t, gs.Seed, got.Seed)
	require.Len(t, got.Leagues, 1)
	require.Len(t, got.Leagues[0].Clubs, 2)
	assert.Equal(t, "Ada Quist", got.Leagues[0].Clubs[0].Players[0].Name)

	date, err := db.GetMeta("date")
	require.NoError(t, err)
	assert.Equal(t, "2025-08-16", date)

	table, err := db.Table("l1")
	require.NoError(t, err)
	require.Len(t, table, 2)
	assert.Equal(t, "Harbour", table[0].Name)
	assert.Equal(t, 2, table[1].GoalDifference)
	assert.Equal(t, 1, table[1].SquadSize)
}

func TestNewsIsStoredOnce(t *testing.T) {
	db := openTemp(t)
	gs := sampleState()
	require.NoError(t, db.SaveState(gs))
	require.NoError(t, db.SaveState(gs))

	gs.Date = gs.Date.AddDays(1)
	gs.News = append(gs.News, league.NewsItem{Date: gs.Date, Kind: "injury", Headline: "Blow for Harbour"})
	require.NoError(t, db.SaveState(gs))

	items, err := db.RecentNews(10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "Blow for Harbour", items[0].Headline)
	assert.Equal(t, gs.Date, items[0].Date)
}

func TestPruneSnapshots(t *testing.T) {
	db := openTemp(t)
	gs := sampleState()
	for i := 0; i < 4; i++ {
		gs.Date = gs.Date.AddDays(1)
		require.NoError(t, db.SaveState(gs))
	}
	n, err := db.PruneSnapshots(1)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	got, err := db.LoadState()
	require.NoError(t, err)
	assert.Equal(t, gs.Date, got.Date)
}
