package league

import "github.com/talgya/touchline/internal/calendar"

// FixtureID is a unique identifier for a fixture.
type FixtureID string

// Slot is the side of a knockout fixture a winner advances into.
type Slot string

const (
	HomeSlot Slot = "home"
	AwaySlot Slot = "away"
)

// EventKind classifies a match event.
type EventKind string

const (
	EventGoal      EventKind = "goal"
	EventSave      EventKind = "save"
	EventYellow    EventKind = "yellow_card"
	EventRed       EventKind = "red_card"
	EventFreeKick  EventKind = "free_kick"
	EventPenalties EventKind = "penalties"
)

// MatchEvent is one entry of a fixture's minute-ordered log.
type MatchEvent struct {
	Minute   int       `json:"minute"`
	Kind     EventKind `json:"kind"`
	ClubID   ClubID    `json:"club_id"`
	PlayerID PlayerID  `json:"player_id,omitempty"`
	AssistID PlayerID  `json:"assist_id,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// Fixture is a scheduled match. Created unplayed by the fixture provider
// and written exactly once by the orchestrator.
type Fixture struct {
	ID          FixtureID     `json:"id"`
	Date        calendar.Date `json:"date"`
	HomeID      ClubID        `json:"home_id"`
	AwayID      ClubID        `json:"away_id"`
	Competition string        `json:"competition"`

	IsKnockout    bool      `json:"is_knockout"`
	NextFixtureID FixtureID `json:"next_fixture_id,omitempty"`
	BracketSlot   Slot      `json:"bracket_slot,omitempty"`
	Round         string    `json:"round,omitempty"`

	Played     bool         `json:"played"`
	HomeGoals  int          `json:"home_goals"`
	AwayGoals  int          `json:"away_goals"`
	Penalties  bool         `json:"penalties"`
	Events     []MatchEvent `json:"events,omitempty"`
	Attendance int          `json:"attendance,omitempty"`
	Weather    string       `json:"weather,omitempty"`
}

// Resolved reports whether both sides are known clubs.
func (f *Fixture) Resolved() bool {
	return f.HomeID != PlaceholderClubID && f.AwayID != PlaceholderClubID &&
		f.HomeID != "" && f.AwayID != ""
}

// Winner returns the winning club, or "" for a draw or unplayed fixture.
func (f *Fixture) Winner() ClubID {
	if !f.Played {
		return ""
	}
	switch {
	case f.HomeGoals > f.AwayGoals:
		return f.HomeID
	case f.AwayGoals > f.HomeGoals:
		return f.AwayID
	}
	return ""
}

// Loser returns the losing club, or "" for a draw or unplayed fixture.
func (f *Fixture) Loser() ClubID {
	switch f.Winner() {
	case f.HomeID:
		return f.AwayID
	case f.AwayID:
		return f.HomeID
	}
	return ""
}
