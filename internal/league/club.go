package league

import "github.com/talgya/touchline/internal/calendar"

// ClubID is a unique identifier for a club.
type ClubID string

// PlaceholderClubID marks an unresolved knockout slot.
const PlaceholderClubID ClubID = "TBD"

// Level is a low/medium/high tactical or strategy setting.
type Level string

const (
	Low    Level = "low"
	Medium Level = "medium"
	High   Level = "high"
)

// Style is the attacking approach.
type Style string

const (
	Possession Style = "possession"
	Balanced   Style = "balanced"
	Direct     Style = "direct"
	Counter    Style = "counter"
)

// Tackling is how aggressively a side contests the ball.
type Tackling string

const (
	Cautious   Tackling = "cautious"
	Normal     Tackling = "normal"
	Aggressive Tackling = "aggressive"
)

// Tactics is a club's tactical configuration.
type Tactics struct {
	Formation  string   `json:"formation" yaml:"formation"`
	Pressing   Level    `json:"pressing" yaml:"pressing"`
	LineHeight Level    `json:"line_height" yaml:"line_height"`
	Tempo      Level    `json:"tempo" yaml:"tempo"`
	Style      Style    `json:"style" yaml:"style"`
	Tackling   Tackling `json:"tackling" yaml:"tackling"`
}

// Facility names one of the club facilities.
type Facility string

const (
	YouthAcademy   Facility = "youth_academy"
	TrainingGround Facility = "training_ground"
	MedicalCenter  Facility = "medical_center"
	Stadium        Facility = "stadium"
)

// MaxFacilityLevel is the top level for any facility.
const MaxFacilityLevel = 5

// Facilities are 1–5 quality levels.
type Facilities struct {
	YouthAcademy   int `json:"youth_academy"`
	TrainingGround int `json:"training_ground"`
	MedicalCenter  int `json:"medical_center"`
	Stadium        int `json:"stadium"`
}

// Level returns the level of facility f.
func (f Facilities) Level(kind Facility) int {
	switch kind {
	case YouthAcademy:
		return f.YouthAcademy
	case TrainingGround:
		return f.TrainingGround
	case MedicalCenter:
		return f.MedicalCenter
	case Stadium:
		return f.Stadium
	}
	return 0
}

// Upgrade raises facility kind by one level, up to the maximum.
func (f *Facilities) Upgrade(kind Facility) {
	bump := func(v *int) {
		if *v < MaxFacilityLevel {
			*v++
		}
	}
	switch kind {
	case YouthAcademy:
		bump(&f.YouthAcademy)
	case TrainingGround:
		bump(&f.TrainingGround)
	case MedicalCenter:
		bump(&f.MedicalCenter)
	case Stadium:
		bump(&f.Stadium)
	}
}

// Construction is an in-progress facility upgrade.
type Construction struct {
	Facility      Facility `json:"facility"`
	DaysRemaining int      `json:"days_remaining"`
	Cost          int64    `json:"cost"`
}

// FinanceStrategy configures how the ledger treats a club's money.
// DebtRepayment low means no automatic repayment, medium steady, high aggressive.
type FinanceStrategy struct {
	TicketPricing    Level `json:"ticket_pricing"`
	DebtRepayment    Level `json:"debt_repayment"`
	MerchandiseFocus Level `json:"merchandise_focus"`
	MarketingSpend   int64 `json:"marketing_spend"` // per day
}

// SeasonRecord is a club's results in one competition.
type SeasonRecord struct {
	Played       int `json:"played"`
	Won          int `json:"won"`
	Drawn        int `json:"drawn"`
	Lost         int `json:"lost"`
	GoalsFor     int `json:"goals_for"`
	GoalsAgainst int `json:"goals_against"`
	Points       int `json:"points"`
}

// Apply folds one result into the record.
func (r *SeasonRecord) Apply(scored, conceded int) {
	r.Played++
	r.GoalsFor += scored
	r.GoalsAgainst += conceded
	switch {
	case scored > conceded:
		r.Won++
		r.Points += 3
	case scored == conceded:
		r.Drawn++
		r.Points++
	default:
		r.Lost++
	}
}

// GoalDifference is goals for minus goals against.
func (r SeasonRecord) GoalDifference() int { return r.GoalsFor - r.GoalsAgainst }

// Trophy is a won competition.
type Trophy struct {
	Season      int    `json:"season"`
	Competition string `json:"competition"`
}

// Installment is a deferred transfer payment owed by the club holding it.
type Installment struct {
	PayeeID ClubID        `json:"payee_id"`
	Amount  int64         `json:"amount"`
	Due     calendar.Date `json:"due"`
	Player  string        `json:"player"`
}

// RoleEffects is the numeric bundle a role contributes, and also the
// capped club-wide aggregate.
type RoleEffects struct {
	Growth           float64 `json:"growth"`
	InjuryResistance float64 `json:"injury_resistance"`
	MatchRevenue     float64 `json:"match_revenue"`
	Merchandise      float64 `json:"merchandise"`
	Morale           float64 `json:"morale"`
}

// Club is one team in a league.
type Club struct {
	ID       ClubID `json:"id"`
	Name     string `json:"name"`
	LeagueID string `json:"league_id"`

	Reputation      int     `json:"reputation"` // 1–100
	Budget          int64   `json:"budget"`
	Debt            int64   `json:"debt"`
	FanHappiness    int     `json:"fan_happiness"` // 0–100
	JobSecurity     int     `json:"job_security"`  // 0–100
	Fanbase         int     `json:"fanbase"`
	CommercialLevel float64 `json:"commercial_level"`

	Players []*Player `json:"players"`

	Record     SeasonRecord             `json:"record"`
	CupRecords map[string]*SeasonRecord `json:"cup_records,omitempty"`
	Form       []string                 `json:"form,omitempty"` // last results, newest last: W/D/L
	Streak     int                      `json:"streak"`         // >0 wins in a row, <0 losses in a row
	WinlessRun int                      `json:"winless_run"`

	Tactics      Tactics         `json:"tactics"`
	Facilities   Facilities      `json:"facilities"`
	Construction *Construction   `json:"construction,omitempty"`
	Strategy     FinanceStrategy `json:"strategy"`

	ActiveCompetitions []string      `json:"active_competitions"`
	Rivals             []ClubID      `json:"rivals,omitempty"`
	Trophies           []Trophy      `json:"trophies,omitempty"`
	Installments       []Installment `json:"installments,omitempty"`

	RoleEffects       RoleEffects   `json:"role_effects"`
	LastInjectionYear int           `json:"last_injection_year,omitempty"`
	LastBoardWarning  calendar.Date `json:"last_board_warning"`
}

// Player returns the rostered player with id, if any.
func (c *Club) Player(id PlayerID) (*Player, bool) {
	for _, p := range c.Players {
		if p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// AddPlayer puts p on the roster and points its back-reference here.
func (c *Club) AddPlayer(p *Player) {
	p.ClubID = c.ID
	c.Players = append(c.Players, p)
}

// RemovePlayer takes id off the roster.
func (c *Club) RemovePlayer(id PlayerID) (*Player, bool) {
	for i, p := range c.Players {
		if p.ID == id {
			c.Players = append(c.Players[:i], c.Players[i+1:]...)
			return p, true
		}
	}
	return nil, false
}

// CountPosition counts rostered players in the position's group.
func (c *Club) CountPosition(pos Position) int {
	n := 0
	for _, p := range c.Players {
		if p.Position.Matches(pos) {
			n++
		}
	}
	return n
}

// AverageOverall is the mean overall of players, 0 when empty.
func AverageOverall(players []*Player) float64 {
	if len(players) == 0 {
		return 0
	}
	sum := 0
	for _, p := range players {
		sum += p.Overall
	}
	return float64(sum) / float64(len(players))
}

// AverageMorale is the squad's mean morale, 50 when empty.
func (c *Club) AverageMorale() float64 {
	if len(c.Players) == 0 {
		return 50
	}
	sum := 0
	for _, p := range c.Players {
		sum += p.Morale
	}
	return float64(sum) / float64(len(c.Players))
}

// WageBill is the total annual salary of the roster.
func (c *Club) WageBill() int64 {
	var total int64
	for _, p := range c.Players {
		total += p.Salary
	}
	return total
}

// InCompetition reports whether the club is still active in name.
func (c *Club) InCompetition(name string) bool {
	for _, comp := range c.ActiveCompetitions {
		if comp == name {
			return true
		}
	}
	return false
}

// Eliminate removes name from the active competitions.
func (c *Club) Eliminate(name string) {
	out := c.ActiveCompetitions[:0]
	for _, comp := range c.ActiveCompetitions {
		if comp != name {
			out = append(out, comp)
		}
	}
	c.ActiveCompetitions = out
}

// IsRival reports whether other is a rival.
func (c *Club) IsRival(other ClubID) bool {
	for _, r := range c.Rivals {
		if r == other {
			return true
		}
	}
	return false
}

// PushForm records a W/D/L result and updates the streak counters.
func (c *Club) PushForm(scored, conceded int) {
	result := "D"
	switch {
	case scored > conceded:
		result = "W"
		if c.Streak < 0 {
			c.Streak = 0
		}
		c.Streak++
		c.WinlessRun = 0
	case scored < conceded:
		result = "L"
		if c.Streak > 0 {
			c.Streak = 0
		}
		c.Streak--
		c.WinlessRun++
	default:
		c.Streak = 0
		c.WinlessRun++
	}
	c.Form = append(c.Form, result)
	if len(c.Form) > 5 {
		c.Form = c.Form[len(c.Form)-5:]
	}
}
