// Package engine provides the daily simulation loop.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/talgya/touchline/internal/calendar"
)

// Engine drives a Simulation forward one day per interval.
type Engine struct {
	Sim      *Simulation
	Days     uint64        // days advanced by this engine (monotonic)
	Speed    float64       // multiplier: 1.0 = one day per Interval, 0 = paused
	Interval time.Duration // base wall time per simulated day
	Running  bool

	// Callbacks, populated during setup.
	OnDay    func(rep DayReport)
	OnWeek   func(date calendar.Date) // after each Sunday
	OnMonth  func(date calendar.Date) // after the last day of a month
	OnSeason func(sim *Simulation) error
}

// NewEngine creates an engine with default pacing.
func NewEngine(sim *Simulation) *Engine {
	return &Engine{
		Sim:      sim,
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run advances days until ctx is cancelled, Stop is called or a day fails.
func (e *Engine) Run(ctx context.Context) error {
	e.Running = true
	slog.Info("simulation engine started", "date", e.Sim.State.Date, "speed", e.Speed)
	defer func() {
		e.Running = false
		slog.Info("simulation engine stopped", "date", e.Sim.State.Date, "days", e.Days)
	}()

	for e.Running {
		if e.Speed <= 0 {
			if !sleep(ctx, 100*time.Millisecond) {
				return ctx.Err()
			}
			continue
		}

		start := time.Now()
		if err := e.step(ctx); err != nil {
			return err
		}

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target && !sleep(ctx, target-elapsed) {
			return ctx.Err()
		}
	}
	return nil
}

// Advance runs n days back to back without pacing and returns how many
// completed.
func (e *Engine) Advance(ctx context.Context, n int) (int, error) {
	for i := 0; i < n; i++ {
		if err := e.step(ctx); err != nil {
			return i, err
		}
	}
	return n, nil
}

// Stop halts the loop after the current day.
func (e *Engine) Stop() {
	e.Running = false
}

// step advances one day. A pending season summary is handed to OnSeason;
// without that callback the gate error is returned.
func (e *Engine) step(ctx context.Context) error {
	rep, err := e.Sim.AdvanceDay(ctx)
	if errors.Is(err, ErrSeasonSummaryPending) && e.OnSeason != nil {
		if err := e.OnSeason(e.Sim); err != nil {
			return err
		}
		rep, err = e.Sim.AdvanceDay(ctx)
	}
	if err != nil {
		return err
	}
	e.Days++

	if e.OnDay != nil {
		e.OnDay(rep)
	}
	if rep.Date.Weekday() == time.Sunday && e.OnWeek != nil {
		e.OnWeek(rep.Date)
	}
	if rep.Date.AddDays(1).Day() == 1 && e.OnMonth != nil {
		e.OnMonth(rep.Date)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
