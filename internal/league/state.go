package league

import "github.com/talgya/touchline/internal/calendar"

// SeasonHistory is one finished season's headline record.
type SeasonHistory struct {
	Season         int      `json:"season"`
	ChampionID     ClubID   `json:"champion_id"`
	ChampionName   string   `json:"champion_name"`
	TopScorerID    PlayerID `json:"top_scorer_id,omitempty"`
	TopScorerName  string   `json:"top_scorer_name,omitempty"`
	TopScorerGoals int      `json:"top_scorer_goals"`
}

// MonthlyAward is a player-of-the-month entry.
type MonthlyAward struct {
	Month         string   `json:"month"`
	PlayerID      PlayerID `json:"player_id"`
	PlayerName    string   `json:"player_name"`
	ClubID        ClubID   `json:"club_id"`
	AverageRating float64  `json:"average_rating"`
	Goals         int      `json:"goals"`
}

// League is a set of clubs sharing a fixture list.
type League struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	Clubs    []*Club    `json:"clubs"`
	Fixtures []*Fixture `json:"fixtures"`

	Season      int           `json:"season"`
	SeasonStart calendar.Date `json:"season_start"`
	SeasonEnd   calendar.Date `json:"season_end"`

	EconomicCoefficient float64 `json:"economic_coefficient"`
	InflationRate       float64 `json:"inflation_rate"`
	Strictness          float64 `json:"strictness"` // referee card multiplier, 1.0 = normal
	RecordFee           int64   `json:"record_fee"`

	History       []SeasonHistory `json:"history,omitempty"`
	MonthlyAwards []MonthlyAward  `json:"monthly_awards,omitempty"`
}

// WageCoefficient scales wage demands in this league.
func (l *League) WageCoefficient() float64 {
	coef := l.EconomicCoefficient
	if coef <= 0 {
		coef = 1
	}
	return coef * (1 + l.InflationRate)
}

// AllPlayed reports whether every fixture has been played.
func (l *League) AllPlayed() bool {
	for _, f := range l.Fixtures {
		if !f.Played {
			return false
		}
	}
	return true
}

// MessageCategory classifies an inbox message.
type MessageCategory string

const (
	CategoryFacility MessageCategory = "facility"
	CategoryBoard    MessageCategory = "board"
	CategoryTransfer MessageCategory = "transfer"
	CategorySigning  MessageCategory = "signing"
	CategoryFinance  MessageCategory = "finance"
)

// Message is an inbox entry for the human-controlled club.
type Message struct {
	ID       string          `json:"id"`
	Date     calendar.Date   `json:"date"`
	Sender   string          `json:"sender"`
	Subject  string          `json:"subject"`
	Body     string          `json:"body"`
	Category MessageCategory `json:"category"`
	Read     bool            `json:"read"`
}

// NewsItem is a rendered narrative entry.
type NewsItem struct {
	Date     calendar.Date `json:"date"`
	Kind     string        `json:"kind"`
	Headline string        `json:"headline"`
	Body     string        `json:"body"`
}

// GameState is the aggregate root of one career. It is advanced one day at
// a time by the orchestrator and never rolled back.
type GameState struct {
	Seed        int64         `json:"seed"`
	Date        calendar.Date `json:"date"`
	HumanClubID ClubID        `json:"human_club_id"`

	Leagues      []*League      `json:"leagues"`
	Negotiations []*Negotiation `json:"negotiations,omitempty"`
	Inbox        []Message      `json:"inbox,omitempty"`
	News         []NewsItem     `json:"news,omitempty"`

	SeasonSummaryPending bool `json:"season_summary_pending"`
	NextSerial           int  `json:"next_serial"`

	Scratch map[string]string `json:"scratch,omitempty"`
}

// Serial returns a fresh per-career counter value for id derivation.
func (g *GameState) Serial() int {
	g.NextSerial++
	return g.NextSerial
}

// OpenNegotiations returns negotiations that have not terminated.
func (g *GameState) OpenNegotiations() []*Negotiation {
	var out []*Negotiation
	for _, n := range g.Negotiations {
		if n.Open() {
			out = append(out, n)
		}
	}
	return out
}

// PlayerInNegotiation reports whether id is the subject of an open negotiation.
func (g *GameState) PlayerInNegotiation(id PlayerID) bool {
	for _, n := range g.Negotiations {
		if n.Open() && n.PlayerID == id {
			return true
		}
	}
	return false
}
