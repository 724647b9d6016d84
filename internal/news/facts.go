// Package news defines the structured facts the engine emits for the
// narrative renderer, and a template renderer that turns them into
// headlines without any external service.
package news

import (
	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/league"
)

// Kind identifies a fact type.
type Kind string

const (
	KindMatch        Kind = "match"
	KindTransfer     Kind = "transfer"
	KindNegotiation  Kind = "negotiation"
	KindInjury       Kind = "injury"
	KindInjuryReturn Kind = "injury_return"
	KindStreak       Kind = "streak"
	KindCrisis       Kind = "crisis"
	KindAward        Kind = "award"
	KindFacility     Kind = "facility"
	KindSeasonEnd    Kind = "season_end"
)

// Fact is one structured occurrence for the narrative renderer.
type Fact interface {
	Kind() Kind
	Day() calendar.Date
}

// ClubRef names a club in a fact.
type ClubRef struct {
	ID         league.ClubID `json:"id"`
	Name       string        `json:"name"`
	Reputation int           `json:"reputation"`
}

// Ref builds a ClubRef from a club.
func Ref(c *league.Club) ClubRef {
	if c == nil {
		return ClubRef{}
	}
	return ClubRef{ID: c.ID, Name: c.Name, Reputation: c.Reputation}
}

// MatchFact is a played fixture with its league context.
type MatchFact struct {
	Date         calendar.Date    `json:"date"`
	FixtureID    league.FixtureID `json:"fixture_id"`
	LeagueName   string           `json:"league_name"`
	Competition  string           `json:"competition"`
	Round        string           `json:"round,omitempty"`
	Home         ClubRef          `json:"home"`
	Away         ClubRef          `json:"away"`
	HomeGoals    int              `json:"home_goals"`
	AwayGoals    int              `json:"away_goals"`
	Penalties    bool             `json:"penalties"`
	Scorers      []string         `json:"scorers,omitempty"`
	ManOfMatch   string           `json:"man_of_match,omitempty"`
	Attendance   int              `json:"attendance"`
	IsDerby      bool             `json:"is_derby"`
	IsUpset      bool             `json:"is_upset"`
	HomePosition int              `json:"home_position"`
	AwayPosition int              `json:"away_position"`
	Weather      string           `json:"weather,omitempty"`
}

func (f MatchFact) Kind() Kind         { return KindMatch }
func (f MatchFact) Day() calendar.Date { return f.Date }

// Margin is the absolute goal difference.
func (f MatchFact) Margin() int {
	d := f.HomeGoals - f.AwayGoals
	if d < 0 {
		return -d
	}
	return d
}

// TransferFact is a completed transfer.
type TransferFact struct {
	Date        calendar.Date   `json:"date"`
	PlayerID    league.PlayerID `json:"player_id"`
	PlayerName  string          `json:"player_name"`
	Position    league.Position `json:"position"`
	Age         int             `json:"age"`
	Overall     int             `json:"overall"`
	Potential   int             `json:"potential"`
	Buyer       ClubRef         `json:"buyer"`
	Seller      ClubRef         `json:"seller"`
	Fee         int64           `json:"fee"`
	MarketValue int64           `json:"market_value"`
	IsRecord    bool            `json:"is_record"`
	IsBargain   bool            `json:"is_bargain"`
	IsProspect  bool            `json:"is_prospect"`
	IsChain     bool            `json:"is_chain"`
	Replacing   string          `json:"replacing,omitempty"` // departed player a chain transfer replaces
}

func (f TransferFact) Kind() Kind         { return KindTransfer }
func (f TransferFact) Day() calendar.Date { return f.Date }

// NegotiationFact is a negotiation phase change.
type NegotiationFact struct {
	Date          calendar.Date        `json:"date"`
	NegotiationID league.NegotiationID `json:"negotiation_id"`
	PlayerName    string               `json:"player_name"`
	Buyer         ClubRef              `json:"buyer"`
	Seller        ClubRef              `json:"seller"`
	Phase         league.Phase         `json:"phase"`
	Fee           int64                `json:"fee"`
	Reason        string               `json:"reason,omitempty"`
}

func (f NegotiationFact) Kind() Kind         { return KindNegotiation }
func (f NegotiationFact) Day() calendar.Date { return f.Date }

// InjuryFact is a new injury or a return from one.
type InjuryFact struct {
	Date       calendar.Date   `json:"date"`
	PlayerID   league.PlayerID `json:"player_id"`
	PlayerName string          `json:"player_name"`
	Club       ClubRef         `json:"club"`
	Injury     string          `json:"injury"`
	Days       int             `json:"days"`
	Returned   bool            `json:"returned"`
}

func (f InjuryFact) Kind() Kind {
	if f.Returned {
		return KindInjuryReturn
	}
	return KindInjury
}
func (f InjuryFact) Day() calendar.Date { return f.Date }

// StreakFact is a run of wins or losses crossing a threshold.
type StreakFact struct {
	Date      calendar.Date `json:"date"`
	Club      ClubRef       `json:"club"`
	Streak    int           `json:"streak"` // >0 wins, <0 losses
	Threshold int           `json:"threshold"`
}

func (f StreakFact) Kind() Kind         { return KindStreak }
func (f StreakFact) Day() calendar.Date { return f.Date }

// Crisis kinds.
const (
	CrisisBudget      = "budget_negative"
	CrisisJobSecurity = "job_security"
	CrisisWinless     = "winless_run"
)

// CrisisFact is a club crossing a danger threshold.
type CrisisFact struct {
	Date      calendar.Date `json:"date"`
	Club      ClubRef       `json:"club"`
	Crisis    string        `json:"crisis"`
	Value     int64         `json:"value"`
	Threshold int64         `json:"threshold"`
}

func (f CrisisFact) Kind() Kind         { return KindCrisis }
func (f CrisisFact) Day() calendar.Date { return f.Date }

// AwardFact is a player-of-the-month award.
type AwardFact struct {
	Date          calendar.Date `json:"date"`
	LeagueName    string        `json:"league_name"`
	Month         string        `json:"month"`
	PlayerName    string        `json:"player_name"`
	Club          ClubRef       `json:"club"`
	AverageRating float64       `json:"average_rating"`
	Goals         int           `json:"goals"`
}

func (f AwardFact) Kind() Kind         { return KindAward }
func (f AwardFact) Day() calendar.Date { return f.Date }

// FacilityFact is a completed facility upgrade.
type FacilityFact struct {
	Date     calendar.Date   `json:"date"`
	Club     ClubRef         `json:"club"`
	Facility league.Facility `json:"facility"`
	Level    int             `json:"level"`
}

func (f FacilityFact) Kind() Kind         { return KindFacility }
func (f FacilityFact) Day() calendar.Date { return f.Date }

// SeasonFact marks the end of a league season.
type SeasonFact struct {
	Date       calendar.Date `json:"date"`
	LeagueName string        `json:"league_name"`
	Season     int           `json:"season"`
	Leader     ClubRef       `json:"leader"`
	Points     int           `json:"points"`
}

func (f SeasonFact) Kind() Kind         { return KindSeasonEnd }
func (f SeasonFact) Day() calendar.Date { return f.Date }
