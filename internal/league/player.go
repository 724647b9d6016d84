// Package league holds the pure-data model of a career: the game state
// aggregate, leagues, clubs, players, fixtures, negotiations and messages.
// Nothing here draws randomness or talks to collaborators, so the whole
// graph round-trips through JSON unchanged.
package league

import (
	"sort"

	"github.com/talgya/touchline/internal/calendar"
)

// PlayerID is a unique identifier for a player.
type PlayerID string

// RoleID names a qualitative status tag held by a player.
type RoleID string

// Position is a player's primary position.
type Position string

const (
	Goalkeeper Position = "goalkeeper"
	Defender   Position = "defender"
	Midfielder Position = "midfielder"
	Forward    Position = "forward"
	Striker    Position = "striker"
)

// Positions lists every position in squad order.
var Positions = []Position{Goalkeeper, Defender, Midfielder, Forward, Striker}

// Group folds forward and striker together; they substitute for each other
// in squad planning.
func (p Position) Group() Position {
	if p == Striker {
		return Forward
	}
	return p
}

// Matches reports whether p can fill a need for position o.
func (p Position) Matches(o Position) bool {
	return p.Group() == o.Group()
}

// Attribute names one of the fixed player attributes.
type Attribute string

const (
	Pace        Attribute = "pace"
	Shooting    Attribute = "shooting"
	Passing     Attribute = "passing"
	Dribbling   Attribute = "dribbling"
	Defending   Attribute = "defending"
	Physical    Attribute = "physical"
	Mental      Attribute = "mental"
	SetPieces   Attribute = "set_pieces"
	Goalkeeping Attribute = "goalkeeping"
)

// AllAttributes lists every attribute.
var AllAttributes = []Attribute{Pace, Shooting, Passing, Dribbling, Defending, Physical, Mental, SetPieces, Goalkeeping}

// PhysicalAttributes are the ones that decline with age and long injuries.
var PhysicalAttributes = []Attribute{Pace, Physical}

// Attribute bounds.
const (
	MinRating = 1
	MaxRating = 99
)

// Attributes holds the 1–99 skill ratings.
type Attributes struct {
	Pace        int `json:"pace"`
	Shooting    int `json:"shooting"`
	Passing     int `json:"passing"`
	Dribbling   int `json:"dribbling"`
	Defending   int `json:"defending"`
	Physical    int `json:"physical"`
	Mental      int `json:"mental"`
	SetPieces   int `json:"set_pieces"`
	Goalkeeping int `json:"goalkeeping"`
}

func (a *Attributes) field(name Attribute) *int {
	switch name {
	case Pace:
		return &a.Pace
	case Shooting:
		return &a.Shooting
	case Passing:
		return &a.Passing
	case Dribbling:
		return &a.Dribbling
	case Defending:
		return &a.Defending
	case Physical:
		return &a.Physical
	case Mental:
		return &a.Mental
	case SetPieces:
		return &a.SetPieces
	case Goalkeeping:
		return &a.Goalkeeping
	}
	return nil
}

// Get returns the named attribute, or 0 for an unknown name.
func (a Attributes) Get(name Attribute) int {
	if f := a.field(name); f != nil {
		return *f
	}
	return 0
}

// Set stores the named attribute clamped to [1, 99].
func (a *Attributes) Set(name Attribute, v int) {
	if f := a.field(name); f != nil {
		*f = ClampRating(v)
	}
}

// KeyAttributes returns the attributes that make up a position's overall.
// Goalkeeping only counts for keepers, and keepers ignore outfield skills.
func KeyAttributes(p Position) []Attribute {
	switch p.Group() {
	case Goalkeeper:
		return []Attribute{Goalkeeping, Mental, Physical, Passing}
	case Defender:
		return []Attribute{Pace, Passing, Defending, Physical, Mental, SetPieces}
	case Midfielder:
		return []Attribute{Pace, Shooting, Passing, Dribbling, Defending, Physical, Mental, SetPieces}
	default:
		return []Attribute{Pace, Shooting, Passing, Dribbling, Physical, Mental, SetPieces}
	}
}

// ClampRating bounds v to the 1–99 rating scale.
func ClampRating(v int) int {
	if v < MinRating {
		return MinRating
	}
	if v > MaxRating {
		return MaxRating
	}
	return v
}

// Clamp100 bounds v to 0–100.
func Clamp100(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Injury is an active injury with its remaining recovery time.
type Injury struct {
	Type          string `json:"type"`
	DaysRemaining int    `json:"days_remaining"`
}

// StatLine accumulates totals. Averages are always derived from the totals
// so the season, monthly and competition buckets cannot drift apart.
type StatLine struct {
	Appearances   int     `json:"appearances"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	YellowCards   int     `json:"yellow_cards"`
	RedCards      int     `json:"red_cards"`
	ManOfTheMatch int     `json:"man_of_the_match"`
	RatingTotal   float64 `json:"rating_total"`
}

// AverageRating returns the mean match rating, or 0 with no appearances.
func (s StatLine) AverageRating() float64 {
	if s.Appearances == 0 {
		return 0
	}
	return s.RatingTotal / float64(s.Appearances)
}

// Appearance is one match's contribution to a stat line.
type Appearance struct {
	Goals   int
	Assists int
	Rating  float64
	Yellow  bool
	Red     bool
	MOTM    bool
}

// Add folds one appearance into the totals.
func (s *StatLine) Add(a Appearance) {
	s.Appearances++
	s.Goals += a.Goals
	s.Assists += a.Assists
	s.RatingTotal += a.Rating
	if a.Yellow {
		s.YellowCards++
	}
	if a.Red {
		s.RedCards++
	}
	if a.MOTM {
		s.ManOfTheMatch++
	}
}

// PlayerStats groups the statistic buckets.
type PlayerStats struct {
	Season       StatLine             `json:"season"`
	Career       StatLine             `json:"career"`
	Monthly      map[string]*StatLine `json:"monthly,omitempty"`
	Competitions map[string]*StatLine `json:"competitions,omitempty"`
}

// Record adds an appearance to every bucket for the given month and competition.
func (ps *PlayerStats) Record(month, competition string, a Appearance) {
	ps.Season.Add(a)
	ps.Career.Add(a)
	if ps.Monthly == nil {
		ps.Monthly = make(map[string]*StatLine)
	}
	if ps.Monthly[month] == nil {
		ps.Monthly[month] = &StatLine{}
	}
	ps.Monthly[month].Add(a)
	if ps.Competitions == nil {
		ps.Competitions = make(map[string]*StatLine)
	}
	if ps.Competitions[competition] == nil {
		ps.Competitions[competition] = &StatLine{}
	}
	ps.Competitions[competition].Add(a)
}

// Player is a footballer. ClubID is a back-reference; the owning club's
// Players slice is the source of truth for membership.
type Player struct {
	ID       PlayerID `json:"id"`
	Name     string   `json:"name"`
	ClubID   ClubID   `json:"club_id"`
	Position Position `json:"position"`
	Age      int      `json:"age"`

	Overall    int        `json:"overall"`
	Potential  int        `json:"potential"`
	Attributes Attributes `json:"attributes"`

	Condition int     `json:"condition"` // 0–100, drained by matches
	Fitness   int     `json:"fitness"`   // 0–100
	Morale    int     `json:"morale"`    // 0–100
	Form      float64 `json:"form"`      // rolling match rating, 0–10
	Injury    *Injury `json:"injury,omitempty"`

	ContractEnd calendar.Date `json:"contract_end"`
	Salary      int64         `json:"salary"` // annual
	MarketValue int64         `json:"market_value"`

	Roles    []RoleID `json:"roles,omitempty"`
	MentorID PlayerID `json:"mentor_id,omitempty"`

	GrowthSinceRecalc int `json:"growth_since_recalc"`
	ClubAppearances   int `json:"club_appearances"`

	Stats PlayerStats `json:"stats"`
}

// IsInjured reports whether the player is currently injured.
func (p *Player) IsInjured() bool {
	return p.Injury != nil && p.Injury.DaysRemaining > 0
}

// Reputation is how well known the player is, on the club reputation scale.
func (p *Player) Reputation() int {
	rep := p.Overall + p.Stats.Career.Goals/25 + p.Stats.Career.ManOfTheMatch/10
	return Clamp100(rep)
}

// HasRole reports whether the player holds role id.
func (p *Player) HasRole(id RoleID) bool {
	for _, r := range p.Roles {
		if r == id {
			return true
		}
	}
	return false
}

// AddRole grants a role once.
func (p *Player) AddRole(id RoleID) {
	if !p.HasRole(id) {
		p.Roles = append(p.Roles, id)
	}
}

// RemoveRole drops a role if held.
func (p *Player) RemoveRole(id RoleID) {
	out := p.Roles[:0]
	for _, r := range p.Roles {
		if r != id {
			out = append(out, r)
		}
	}
	p.Roles = out
}

// Recalculate sets overall to the mean of the position's key attributes,
// capped at potential. Returns the new overall.
func (p *Player) Recalculate() int {
	keys := KeyAttributes(p.Position)
	sum := 0
	for _, k := range keys {
		sum += p.Attributes.Get(k)
	}
	overall := ClampRating((sum + len(keys)/2) / len(keys))
	if overall > p.Potential {
		overall = p.Potential
	}
	p.Overall = overall
	p.GrowthSinceRecalc = 0
	return overall
}

// SortByOverall orders players best first, breaking ties by id so the
// order is stable across runs.
func SortByOverall(players []*Player) {
	sort.SliceStable(players, func(i, j int) bool {
		if players[i].Overall != players[j].Overall {
			return players[i].Overall > players[j].Overall
		}
		return players[i].ID < players[j].ID
	})
}
