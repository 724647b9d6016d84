package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/news"
)

// 2025-03-04 is a Tuesday, so no weekly recalculation happens.
var tuesday = calendar.MustParse("2025-03-04")

func attrs(v int) league.Attributes {
	var a league.Attributes
	for _, name := range league.AllAttributes {
		a.Set(name, v)
	}
	return a
}

func testClub(players ...*league.Player) *league.Club {
	c := &league.Club{ID: "c", Name: "Harbor", Reputation: 60}
	for _, p := range players {
		c.AddPlayer(p)
	}
	return c
}

func TestInjuredPlayerReturns(t *testing.T) {
	p := &league.Player{ID: "p", Name: "Ames", Position: league.Defender, Age: 25,
		Overall: 60, Potential: 70, Attributes: attrs(60), Fitness: 90, Condition: 50,
		Injury: &league.Injury{Type: "calf tear", DaysRemaining: 1}}
	c := testClub(p)

	facts := New(DefaultConfig()).Advance(c, DayContext{Date: tuesday}, entropy.NewSequence(0.99))

	require.Len(t, facts, 1)
	f := facts[0].(news.InjuryFact)
	assert.True(t, f.Returned)
	assert.Equal(t, news.KindInjuryReturn, f.Kind())
	assert.Nil(t, p.Injury)
	assert.Equal(t, 58, p.Condition)
}

func TestFatiguedPlayerGetsInjured(t *testing.T) {
	p := &league.Player{ID: "p", Name: "Ames", Position: league.Defender, Age: 25,
		Overall: 60, Potential: 70, Attributes: attrs(60), Fitness: 40, Morale: 60}
	c := testClub(p)

	facts := New(DefaultConfig()).Advance(c, DayContext{Date: tuesday, Played: map[league.PlayerID]bool{"p": true}}, entropy.NewSequence(0))

	require.Len(t, facts, 1)
	f := facts[0].(news.InjuryFact)
	assert.False(t, f.Returned)
	assert.Equal(t, "ankle sprain", f.Injury)
	assert.Equal(t, 5, f.Days)
	require.True(t, p.IsInjured())
	assert.Equal(t, 40, p.Fitness, "players who played do not get rest recovery")
}

func TestInjuryChanceModifiers(t *testing.T) {
	pr := New(DefaultConfig())
	fresh := &league.Player{ID: "a", Fitness: 90}
	tired := &league.Player{ID: "b", Fitness: 30}
	c := testClub(fresh, tired)

	assert.InDelta(t, 0.002, pr.InjuryChance(c, fresh), 1e-12)
	assert.InDelta(t, 0.008, pr.InjuryChance(c, tired), 1e-12)

	c.Facilities.MedicalCenter = 5
	assert.InDelta(t, 0.002*0.6, pr.InjuryChance(c, fresh), 1e-12)

	c.RoleEffects.InjuryResistance = 3
	assert.InDelta(t, 0.002*0.6*0.2, pr.InjuryChance(c, fresh), 1e-12, "resistance is capped")
}

func TestYouthGrowth(t *testing.T) {
	p := &league.Player{ID: "p", Name: "Kit", Position: league.Forward, Age: 18,
		Overall: 60, Potential: 85, Attributes: attrs(60), Fitness: 90, Morale: 55}
	c := testClub(p)

	// injury roll misses, growth roll hits, attribute pick is the first key attribute
	New(DefaultConfig()).Advance(c, DayContext{Date: tuesday}, entropy.NewSequence(0.5, 0, 0))

	assert.Equal(t, 61, p.Attributes.Pace)
	assert.Equal(t, 1, p.GrowthSinceRecalc)
	assert.Equal(t, 60, p.Overall, "overall waits for a recalculation")
}

func TestMentorBoostsGrowth(t *testing.T) {
	pr := New(DefaultConfig())
	kid := &league.Player{ID: "kid", Age: 18, Morale: 50, Form: 5}
	vet := &league.Player{ID: "vet", Age: 33}
	c := testClub(kid, vet)

	base := pr.GrowthChance(c, kid)
	kid.MentorID = "vet"
	assert.InDelta(t, base*1.25, pr.GrowthChance(c, kid), 1e-12)

	vet.Age = 26
	assert.InDelta(t, base, pr.GrowthChance(c, kid), 1e-12)
	assert.Empty(t, kid.MentorID, "an ineligible mentor is cleared")
}

func TestAttributesStayInBounds(t *testing.T) {
	if testing.Short() {
		t.Skip("long progression run")
	}
	cfg := DefaultConfig()
	cfg.BaseGrowthChance = 0.9
	cfg.BaseDeclineChance = 0.3

	kid := &league.Player{ID: "kid", Position: league.Midfielder, Age: 17, Overall: 97, Potential: 99, Attributes: attrs(97), Fitness: 50}
	old := &league.Player{ID: "old", Position: league.Defender, Age: 38, Overall: 3, Potential: 10, Attributes: attrs(3), Fitness: 50}
	gk := &league.Player{ID: "gk", Position: league.Goalkeeper, Age: 20, Overall: 40, Potential: 55, Attributes: attrs(40), Fitness: 50}
	c := testClub(kid, old, gk)
	c.Facilities = league.Facilities{TrainingGround: 5, YouthAcademy: 5, MedicalCenter: 5}

	pr := New(cfg)
	src := entropy.NewSeeded(11)
	day := calendar.MustParse("2025-01-01")
	for i := 0; i < 3000; i++ {
		pr.Advance(c, DayContext{Date: day}, src)
		day = day.AddDays(1)
		for _, p := range c.Players {
			for _, a := range league.AllAttributes {
				v := p.Attributes.Get(a)
				require.True(t, v >= league.MinRating && v <= league.MaxRating, "%s %s=%d", p.ID, a, v)
			}
			require.LessOrEqual(t, p.Overall, p.Potential)
			require.GreaterOrEqual(t, p.Overall, league.MinRating)
			require.True(t, p.Condition >= 0 && p.Condition <= 100)
			require.True(t, p.Morale >= 0 && p.Morale <= 100)
		}
	}
	assert.Equal(t, 55, gk.Overall, "growth plateaus at potential")
}
