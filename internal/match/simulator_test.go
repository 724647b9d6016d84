package match

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
)

func flat(v int) league.Attributes {
	return league.Attributes{
		Pace: v, Shooting: v, Passing: v, Dribbling: v, Defending: v,
		Physical: v, Mental: v, SetPieces: v, Goalkeeping: 20,
	}
}

// balancedClub builds an eleven of identical quality plus a weaker bench.
func balancedClub(id string) *league.Club {
	c := &league.Club{
		ID: league.ClubID(id), Name: id,
		Tactics: league.Tactics{
			Formation: "4-4-2", Pressing: league.Medium, LineHeight: league.Medium,
			Tempo: league.Medium, Style: league.Balanced, Tackling: league.Normal,
		},
	}
	xi := []league.Position{
		league.Goalkeeper,
		league.Defender, league.Defender, league.Defender, league.Defender,
		league.Midfielder, league.Midfielder, league.Midfielder, league.Midfielder,
		league.Forward, league.Striker,
	}
	bench := []league.Position{league.Goalkeeper, league.Defender, league.Midfielder, league.Forward}
	add := func(i int, pos league.Position, overall int) {
		a := flat(overall)
		if pos == league.Goalkeeper {
			a.Goalkeeping = overall + 3
		}
		c.AddPlayer(&league.Player{
			ID: league.PlayerID(fmt.Sprintf("%s-%02d", id, i)), Name: fmt.Sprintf("%s player %d", id, i),
			Position: pos, Age: 26, Overall: overall, Potential: overall,
			Attributes: a, Condition: 100, Fitness: 100, Morale: 50,
		})
	}
	for i, pos := range xi {
		add(i, pos, 62)
	}
	for i, pos := range bench {
		add(len(xi)+i, pos, 50)
	}
	return c
}

func TestParseFormation(t *testing.T) {
	assert.Equal(t, shape{4, 3, 3}, parseFormation("4-3-3"))
	assert.Equal(t, shape{4, 5, 1}, parseFormation("4-2-3-1"))
	assert.Equal(t, defaultShape, parseFormation("4-4-4"))
	assert.Equal(t, defaultShape, parseFormation("diamond"))
}

func TestSelectLineupSkipsInjured(t *testing.T) {
	c := balancedClub("h")
	c.Players[0].Injury = &league.Injury{Type: "knee", DaysRemaining: 20}

	xi := SelectLineup(c)

	require.Len(t, xi, 11)
	assert.Equal(t, league.PlayerID("h-11"), xi[0].ID, "backup keeper starts")
	for _, p := range xi {
		assert.False(t, p.IsInjured())
	}
}

func TestEveryRosteredPlayerGetsALine(t *testing.T) {
	home, away := balancedClub("h"), balancedClub("a")
	r := New(DefaultConfig()).Simulate(home, away, Options{}, entropy.NewSeeded(3))

	require.Len(t, r.Lines, len(home.Players)+len(away.Players))
	appeared := 0
	motm := 0
	for _, l := range r.Lines {
		if l.Appeared {
			appeared++
			assert.True(t, l.Rating >= 1 && l.Rating <= 10)
		} else {
			assert.Zero(t, l.Rating)
		}
		if l.MOTM {
			motm++
		}
	}
	assert.Equal(t, 22, appeared)
	assert.Equal(t, 1, motm)
}

func TestEventsAreMinuteOrderedAndMatchScore(t *testing.T) {
	sim := New(DefaultConfig())
	src := entropy.NewSeeded(99)
	for i := 0; i < 200; i++ {
		r := sim.Simulate(balancedClub("h"), balancedClub("a"), Options{}, src)
		goals := map[league.ClubID]int{}
		last := 0
		for _, ev := range r.Events {
			require.GreaterOrEqual(t, ev.Minute, last)
			last = ev.Minute
			if ev.Kind == league.EventGoal {
				goals[ev.ClubID]++
				assert.NotEqual(t, ev.PlayerID, ev.AssistID)
			}
		}
		assert.Equal(t, r.HomeGoals, goals["h"])
		assert.Equal(t, r.AwayGoals, goals["a"])
		assert.False(t, r.Penalties)
	}
}

func TestCleanSheetBonus(t *testing.T) {
	sim := New(DefaultConfig())
	src := entropy.NewSeeded(5)
	checked := 0
	for i := 0; i < 100 && checked < 5; i++ {
		r := sim.Simulate(balancedClub("h"), balancedClub("a"), Options{}, src)
		if r.AwayGoals != 0 {
			continue
		}
		checked++
		keeper, ok := r.Line("h-00")
		require.True(t, ok)
		assert.True(t, keeper.CleanSheet)
		striker, _ := r.Line("h-10")
		assert.False(t, striker.CleanSheet)
	}
	assert.Positive(t, checked)
}

func TestKnockoutDrawGoesToPenalties(t *testing.T) {
	r := &Result{HomeID: "h", AwayID: "a", HomeGoals: 1, AwayGoals: 1}

	resolvePenalties(r, entropy.NewSequence(0.7))

	assert.True(t, r.Penalties)
	assert.Equal(t, 1, r.HomeGoals)
	assert.Equal(t, 2, r.AwayGoals)
	assert.Equal(t, league.ClubID("a"), r.PenaltyWinner)
	require.NotEmpty(t, r.Events)
	assert.Equal(t, league.EventPenalties, r.Events[len(r.Events)-1].Kind)
}

func TestKnockoutMatchesAlwaysHaveAWinner(t *testing.T) {
	sim := New(DefaultConfig())
	src := entropy.NewSeeded(17)
	pens := 0
	for i := 0; i < 300; i++ {
		r := sim.Simulate(balancedClub("h"), balancedClub("a"), Options{Knockout: true}, src)
		require.NotEqual(t, r.HomeGoals, r.AwayGoals)
		if r.Penalties {
			pens++
			diff := r.HomeGoals - r.AwayGoals
			assert.True(t, diff == 1 || diff == -1)
		}
	}
	assert.Positive(t, pens)
}

func TestSecondYellowSendsOff(t *testing.T) {
	sim := New(DefaultConfig())
	def := newSide(balancedClub("a"), false)
	offender := def.lineup[1]
	r := &Result{}

	// card roll hits, red roll misses, twice
	src := entropy.NewSequence(0, 0.9)
	sim.foul(10, def, offender, 1, src, r)
	sim.foul(30, def, offender, 1, src, r)

	l := def.line(offender)
	assert.Equal(t, 2, l.YellowCards)
	assert.True(t, l.RedCard)
	assert.True(t, def.sentOff[offender.ID])
	assert.Len(t, def.active(), 10)
	require.Len(t, r.Events, 3)
	assert.Equal(t, league.EventRed, r.Events[2].Kind)
	assert.Equal(t, "second yellow", r.Events[2].Detail)
}

func TestTacticalMatchups(t *testing.T) {
	att, def := newSide(balancedClub("h"), true), newSide(balancedClub("a"), false)
	assert.InDelta(t, 1.0, chanceModifier(att, def), 1e-9)

	att.club.Tactics.Style = league.Counter
	def.club.Tactics.LineHeight = league.High
	assert.InDelta(t, 1.25, chanceModifier(att, def), 1e-9)

	att.club.Tactics.Style = league.Possession
	att.club.Tactics.Tempo = league.Low
	def.club.Tactics.Pressing = league.High
	assert.InDelta(t, 0.85*0.95*1.2, chanceModifier(att, def), 1e-9)
}

func TestRainSlowsPassing(t *testing.T) {
	sd := newSide(balancedClub("h"), true)
	dry := zoneControl(sd, Clear)
	wet := zoneControl(sd, Weather{Condition: "rain", Passing: 0.9, Stamina: 1.1})
	assert.Less(t, wet, dry)
}

func TestSimulationIsDeterministic(t *testing.T) {
	sim := New(DefaultConfig())
	a := sim.Simulate(balancedClub("h"), balancedClub("a"), Options{Strictness: 1.2}, entropy.NewSeeded(2024))
	b := sim.Simulate(balancedClub("h"), balancedClub("a"), Options{Strictness: 1.2}, entropy.NewSeeded(2024))
	assert.Equal(t, a, b)
}

func TestScorePlausibility(t *testing.T) {
	if testing.Short() {
		t.Skip("10,000 match calibration run")
	}
	sim := New(DefaultConfig())
	src := entropy.NewSeeded(1)
	home, away := balancedClub("h"), balancedClub("a")
	results := make([]*Result, 0, 10000)
	for i := 0; i < 10000; i++ {
		results = append(results, sim.Simulate(home, away, Options{}, src))
	}

	s := Summarize(results)
	assert.Equal(t, 10000, s.Matches)
	assert.True(t, s.MeanGoals >= 1.5 && s.MeanGoals <= 3.5, "mean goals %.2f", s.MeanGoals)
	assert.Greater(t, s.HomeWinRate, s.AwayWinRate)
	assert.Greater(t, s.HomeWinRate/(s.HomeWinRate+s.AwayWinRate), 0.5)
	assert.Greater(t, s.MeanHomeGoals, s.MeanAwayGoals)
	assert.InDelta(t, 1.0, s.HomeWinRate+s.DrawRate+s.AwayWinRate, 1e-9)
}
