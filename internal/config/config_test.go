package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/touchline/internal/engine"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "balance.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	b := Default()
	require.NoError(t, b.Validate())
	assert.Equal(t, engine.DefaultConfig(), b.Engine)
	d, err := b.StartDate()
	require.NoError(t, err)
	assert.Equal(t, "2025-07-01", d.String())
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeFile(t, `
sim:
  seed: 77
  days: 30
  log_level: debug
match:
  base_action_chance: 0.3
transfer:
  max_roster: 28
board:
  streak_threshold: 4
`)
	t.Setenv("TOUCHLINE_DB", "")
	t.Setenv("TOUCHLINE_SEED", "")
	b, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(77), b.Sim.Seed)
	assert.Equal(t, 30, b.Sim.Days)
	assert.Equal(t, slog.LevelDebug, b.SlogLevel())
	assert.Equal(t, 0.3, b.Engine.Match.BaseActionChance)
	assert.Equal(t, 28, b.Engine.Transfer.MaxRoster)
	assert.Equal(t, 4, b.Engine.Board.StreakThreshold)

	def := Default()
	assert.Equal(t, def.Sim.DBPath, b.Sim.DBPath)
	assert.Equal(t, def.Engine.Match.FoulChance, b.Engine.Match.FoulChance)
	assert.Equal(t, def.Engine.Finance, b.Engine.Finance)
	assert.Equal(t, def.Engine.Roles, b.Engine.Roles)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("TOUCHLINE_DB", "/tmp/other.db")
	t.Setenv("TOUCHLINE_SEED", "1234")
	t.Setenv("ANTHROPIC_API_KEY", "key")
	b, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/other.db", b.Sim.DBPath)
	assert.Equal(t, int64(1234), b.Sim.Seed)
	assert.Equal(t, "key", b.LLM.APIKey)

	t.Setenv("TOUCHLINE_SEED", "abc")
	_, err = Load("")
	assert.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TOUCHLINE_SEED", "")
	_, err := Load(writeFile(t, "sim:\n  start: not-a-date\n  clubs_per_league: 5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sim.start")
	assert.Contains(t, err.Error(), "clubs_per_league")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(writeFile(t, "sim: [unclosed"))
	assert.Error(t, err)
}
