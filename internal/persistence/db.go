// Package persistence provides SQLite-based career storage.
package persistence

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/league"
)

// ErrNoSave is returned by LoadState when the database holds no snapshot.
var ErrNoSave = errors.New("no saved career")

// DB wraps a SQLite connection for career persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		season INTEGER NOT NULL,
		state_json TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS clubs (
		id TEXT PRIMARY KEY,
		league_id TEXT NOT NULL,
		name TEXT NOT NULL,
		reputation INTEGER NOT NULL,
		budget INTEGER NOT NULL,
		debt INTEGER NOT NULL,
		played INTEGER NOT NULL,
		points INTEGER NOT NULL,
		goal_difference INTEGER NOT NULL,
		squad_size INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS news (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		kind TEXT NOT NULL,
		headline TEXT NOT NULL,
		body TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS world_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_news_date ON news(date);
	CREATE INDEX IF NOT EXISTS idx_clubs_league ON clubs(league_id);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// ClubRow is the queryable summary of a club kept alongside each save.
type ClubRow struct {
	ID             string `db:"id"`
	LeagueID       string `db:"league_id"`
	Name           string `db:"name"`
	Reputation     int    `db:"reputation"`
	Budget         int64  `db:"budget"`
	Debt           int64  `db:"debt"`
	Played         int    `db:"played"`
	Points         int    `db:"points"`
	GoalDifference int    `db:"goal_difference"`
	SquadSize      int    `db:"squad_size"`
}

type newsRow struct {
	Date     string `db:"date"`
	Kind     string `db:"kind"`
	Headline string `db:"headline"`
	Body     string `db:"body"`
}

// SaveState writes a full snapshot of gs in one transaction: the state
// itself, the club summaries, news not yet stored and the meta keys.
func (db *DB) SaveState(gs *league.GameState) error {
	blob, err := json.Marshal(gs)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	season := 0
	if len(gs.Leagues) > 0 {
		season = gs.Leagues[0].Season
	}

	lastNews, err := db.GetMeta("last_news_date")
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("read meta: %w", err)
	}

	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("INSERT INTO snapshots (date, season, state_json) VALUES (?, ?, ?)",
		gs.Date.String(), season, string(blob)); err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	if _, err := tx.Exec("DELETE FROM clubs"); err != nil {
		return err
	}
	stmt, err := tx.Preparex(`INSERT INTO clubs
		(id, league_id, name, reputation, budget, debt, played, points, goal_difference, squad_size)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, l := range gs.Leagues {
		for _, c := range l.Clubs {
			_, err := stmt.Exec(c.ID, l.ID, c.Name, c.Reputation, c.Budget, c.Debt,
				c.Record.Played, c.Record.Points, c.Record.GoalDifference(), len(c.Players))
			if err != nil {
				return fmt.Errorf("insert club %s: %w", c.ID, err)
			}
		}
	}

	newest := lastNews
	stored := 0
	for _, n := range gs.News {
		d := n.Date.String()
		if d <= lastNews {
			continue
		}
		if _, err := tx.Exec("INSERT INTO news (date, kind, headline, body) VALUES (?, ?, ?, ?)",
			d, n.Kind, n.Headline, n.Body); err != nil {
			return fmt.Errorf("insert news: %w", err)
		}
		stored++
		if d > newest {
			newest = d
		}
	}

	meta := map[string]string{
		"date":           gs.Date.String(),
		"seed":           strconv.FormatInt(gs.Seed, 10),
		"season":         strconv.Itoa(season),
		"last_news_date": newest,
	}
	for k, v := range meta {
		if _, err := tx.Exec("INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("save meta %s: %w", k, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("career saved", "date", gs.Date, "season", season, "news", stored, "bytes", humanize.Bytes(uint64(len(blob))))
	return nil
}

// LoadState restores the most recent snapshot.
func (db *DB) LoadState() (*league.GameState, error) {
	var blob string
	err := db.conn.Get(&blob, "SELECT state_json FROM snapshots ORDER BY id DESC LIMIT 1")
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSave
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var gs league.GameState
	if err := json.Unmarshal([]byte(blob), &gs); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	slog.Info("career loaded", "date", gs.Date, "leagues", len(gs.Leagues))
	return &gs, nil
}

// PruneSnapshots deletes all but the newest keep snapshots.
func (db *DB) PruneSnapshots(keep int) (int64, error) {
	res, err := db.conn.Exec(
		"DELETE FROM snapshots WHERE id NOT IN (SELECT id FROM snapshots ORDER BY id DESC LIMIT ?)", keep)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SaveMeta stores a key-value pair in career metadata.
func (db *DB) SaveMeta(key, value string) error {
	_, err := db.conn.Exec(
		"INSERT OR REPLACE INTO world_meta (key, value) VALUES (?, ?)",
		key, value,
	)
	return err
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM world_meta WHERE key = ?", key)
	return value, err
}

// Table returns a league's saved club summaries, best first.
func (db *DB) Table(leagueID string) ([]ClubRow, error) {
	var rows []ClubRow
	err := db.conn.Select(&rows,
		`SELECT id, league_id, name, reputation, budget, debt, played, points, goal_difference, squad_size
		 FROM clubs WHERE league_id = ? ORDER BY points DESC, goal_difference DESC, name ASC`,
		leagueID,
	)
	return rows, err
}

// RecentNews returns the most recent news items, newest first.
func (db *DB) RecentNews(limit int) ([]league.NewsItem, error) {
	var rows []newsRow
	err := db.conn.Select(&rows,
		"SELECT date, kind, headline, body FROM news ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	items := make([]league.NewsItem, 0, len(rows))
	for _, r := range rows {
		d, err := calendar.Parse(r.Date)
		if err != nil {
			return nil, fmt.Errorf("news date %q: %w", r.Date, err)
		}
		items = append(items, league.NewsItem{Date: d, Kind: r.Kind, Headline: r.Headline, Body: r.Body})
	}
	return items, nil
}
