// Package config loads the simulation tuning file. Every field has a
// default, so a file only needs the values it changes.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/engine"
)

// Sim holds the run settings for the CLI.
type Sim struct {
	Seed           int64  `yaml:"seed"`
	Start          string `yaml:"start"` // ISO date of the first simulated day
	HumanClub      string `yaml:"human_club"`
	DBPath         string `yaml:"db_path"`
	Days           int    `yaml:"days"`
	LogLevel       string `yaml:"log_level"`
	Leagues        int    `yaml:"leagues"`
	ClubsPerLeague int    `yaml:"clubs_per_league"`
	SquadSize      int    `yaml:"squad_size"`
	AutosaveDays   int    `yaml:"autosave_days"`
	KeepSnapshots  int    `yaml:"keep_snapshots"`
}

// LLM configures the optional narrative model.
type LLM struct {
	Model     string `yaml:"model"`
	RateLimit int    `yaml:"rate_limit"` // calls per minute
	APIKey    string `yaml:"-"`          // from ANTHROPIC_API_KEY only
}

// Balance is the whole tuning file.
type Balance struct {
	Sim    Sim           `yaml:"sim"`
	Engine engine.Config `yaml:",inline"`
	LLM    LLM           `yaml:"llm"`
}

// Default returns the built-in tuning.
func Default() Balance {
	return Balance{
		Sim: Sim{
			Seed:           1,
			Start:          "2025-07-01",
			DBPath:         "touchline.db",
			Days:           365,
			LogLevel:       "info",
			Leagues:        2,
			ClubsPerLeague: 12,
			SquadSize:      22,
			AutosaveDays:   7,
			KeepSnapshots:  10,
		},
		Engine: engine.DefaultConfig(),
		LLM: LLM{
			Model:     "claude-haiku-4-5-20251001",
			RateLimit: 20,
		},
	}
}

// Load overlays the YAML file at path onto the defaults, then applies
// environment overrides. An empty path loads the defaults only.
func Load(path string) (Balance, error) {
	b := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return b, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &b); err != nil {
			return b, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := b.applyEnv(); err != nil {
		return b, err
	}
	if err := b.Validate(); err != nil {
		return b, err
	}
	return b, nil
}

func (b *Balance) applyEnv() error {
	if v := os.Getenv("TOUCHLINE_DB"); v != "" {
		b.Sim.DBPath = v
	}
	if v := os.Getenv("TOUCHLINE_SEED"); v != "" {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TOUCHLINE_SEED: %w", err)
		}
		b.Sim.Seed = seed
	}
	b.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	return nil
}

// Validate rejects settings the simulation cannot run with.
func (b Balance) Validate() error {
	var errs []error
	if _, err := b.StartDate(); err != nil {
		errs = append(errs, err)
	}
	if b.Sim.Days < 0 {
		errs = append(errs, fmt.Errorf("sim.days must not be negative, got %d", b.Sim.Days))
	}
	if b.Sim.Leagues < 1 {
		errs = append(errs, fmt.Errorf("sim.leagues must be at least 1, got %d", b.Sim.Leagues))
	}
	if b.Sim.ClubsPerLeague < 2 || b.Sim.ClubsPerLeague%2 != 0 {
		errs = append(errs, fmt.Errorf("sim.clubs_per_league must be even and at least 2, got %d", b.Sim.ClubsPerLeague))
	}
	if b.Sim.SquadSize < 16 || b.Sim.SquadSize > b.Engine.Transfer.MaxRoster {
		errs = append(errs, fmt.Errorf("sim.squad_size must be between 16 and %d, got %d", b.Engine.Transfer.MaxRoster, b.Sim.SquadSize))
	}
	return errors.Join(errs...)
}

// StartDate parses Sim.Start.
func (b Balance) StartDate() (calendar.Date, error) {
	d, err := calendar.Parse(b.Sim.Start)
	if err != nil {
		return d, fmt.Errorf("sim.start: %w", err)
	}
	return d, nil
}

// SlogLevel maps Sim.LogLevel onto a slog level, defaulting to info.
func (b Balance) SlogLevel() slog.Level {
	switch strings.ToLower(b.Sim.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
