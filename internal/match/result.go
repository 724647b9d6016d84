package match

import (
	"gonum.org/v1/gonum/stat"

	"github.com/talgya/touchline/internal/league"
)

// Line is one rostered player's match statistics. Players who did not
// appear still get a line with Appeared false and a zero rating.
type Line struct {
	PlayerID    league.PlayerID `json:"player_id"`
	ClubID      league.ClubID   `json:"club_id"`
	Position    league.Position `json:"position"`
	Appeared    bool            `json:"appeared"`
	Goals       int             `json:"goals"`
	Assists     int             `json:"assists"`
	Saves       int             `json:"saves"`
	YellowCards int             `json:"yellow_cards"`
	RedCard     bool            `json:"red_card"`
	CleanSheet  bool            `json:"clean_sheet"`
	MOTM        bool            `json:"motm"`
	Rating      float64         `json:"rating"`
	Fatigue     float64         `json:"fatigue"`
}

// Appearance converts the line into a stat-bucket entry.
func (l Line) Appearance() league.Appearance {
	return league.Appearance{
		Goals:   l.Goals,
		Assists: l.Assists,
		Rating:  l.Rating,
		Yellow:  l.YellowCards > 0,
		Red:     l.RedCard,
		MOTM:    l.MOTM,
	}
}

// Result is the outcome of one simulated fixture.
type Result struct {
	HomeID        league.ClubID       `json:"home_id"`
	AwayID        league.ClubID       `json:"away_id"`
	HomeGoals     int                 `json:"home_goals"`
	AwayGoals     int                 `json:"away_goals"`
	Events        []league.MatchEvent `json:"events"`
	Penalties     bool                `json:"penalties"`
	PenaltyWinner league.ClubID       `json:"penalty_winner,omitempty"`
	Possession    float64             `json:"possession"` // home share
	Weather       string              `json:"weather"`
	Lines         []Line              `json:"lines"`
}

// Line returns the stat line for id.
func (r *Result) Line(id league.PlayerID) (Line, bool) {
	for _, l := range r.Lines {
		if l.PlayerID == id {
			return l, true
		}
	}
	return Line{}, false
}

// ManOfTheMatch returns the MOTM line, if any player appeared.
func (r *Result) ManOfTheMatch() (Line, bool) {
	for _, l := range r.Lines {
		if l.MOTM {
			return l, true
		}
	}
	return Line{}, false
}

// Summary describes a batch of results.
type Summary struct {
	Matches       int
	MeanGoals     float64
	StdDevGoals   float64
	MeanHomeGoals float64
	MeanAwayGoals float64
	HomeWinRate   float64
	DrawRate      float64
	AwayWinRate   float64
	PenaltyRate   float64
}

// Summarize computes goal distribution statistics over results.
func Summarize(results []*Result) Summary {
	s := Summary{Matches: len(results)}
	if len(results) == 0 {
		return s
	}
	totals := make([]float64, len(results))
	homes := make([]float64, len(results))
	aways := make([]float64, len(results))
	var homeWins, draws, awayWins, pens int
	for i, r := range results {
		homes[i] = float64(r.HomeGoals)
		aways[i] = float64(r.AwayGoals)
		totals[i] = homes[i] + aways[i]
		switch {
		case r.HomeGoals > r.AwayGoals:
			homeWins++
		case r.HomeGoals < r.AwayGoals:
			awayWins++
		default:
			draws++
		}
		if r.Penalties {
			pens++
		}
	}
	s.MeanGoals, s.StdDevGoals = stat.MeanStdDev(totals, nil)
	s.MeanHomeGoals = stat.Mean(homes, nil)
	s.MeanAwayGoals = stat.Mean(aways, nil)
	n := float64(len(results))
	s.HomeWinRate = float64(homeWins) / n
	s.DrawRate = float64(draws) / n
	s.AwayWinRate = float64(awayWins) / n
	s.PenaltyRate = float64(pens) / n
	return s
}
