package roles

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talgya/touchline/internal/league"
)

func player(id string, age, overall, potential int) *league.Player {
	p := &league.Player{
		ID: league.PlayerID(id), Position: league.Midfielder,
		Age: age, Overall: overall, Potential: potential, Fitness: 70,
	}
	for _, a := range league.AllAttributes {
		p.Attributes.Set(a, overall)
	}
	return p
}

func TestClassifyIsPure(t *testing.T) {
	c := &league.Club{Reputation: 80}
	p := player("kid", 18, 70, 90)
	got := Classify(p, c)
	assert.Contains(t, got, Wonderkid)
	assert.Contains(t, got, Prospect)
	assert.Empty(t, p.Roles)
}

func TestAgeSensitiveRolesDropButOthersStick(t *testing.T) {
	c := &league.Club{Reputation: 80}
	p := player("p", 20, 75, 90)
	p.Attributes.Physical = 85
	p.Fitness = 90
	c.AddPlayer(p)

	Evaluate(c, DefaultConfig())
	assert.True(t, p.HasRole(Wonderkid))
	assert.True(t, p.HasRole(Workhorse))

	p.Age = 22
	p.Fitness = 40
	changes := Evaluate(c, DefaultConfig())
	assert.False(t, p.HasRole(Wonderkid), "wonderkid is age-sensitive")
	assert.False(t, p.HasRole(Prospect))
	assert.True(t, p.HasRole(Workhorse), "workhorse is sticky")
	assert.NotEmpty(t, changes)
}

func TestTier3CapAndSingleIcon(t *testing.T) {
	c := &league.Club{Reputation: 90}
	for i := 0; i < 6; i++ {
		p := player(string(rune('a'+i)), 28, 90, 95)
		p.ClubAppearances = 200
		c.AddPlayer(p)
	}
	cfg := DefaultConfig()
	Evaluate(c, cfg)
	Evaluate(c, cfg)

	tier3, icons := countTier3(c.Players)
	assert.LessOrEqual(t, tier3, cfg.Tier3Cap)
	assert.Equal(t, 1, icons)
}

func TestAggregateAppliesCaps(t *testing.T) {
	c := &league.Club{}
	for i := 0; i < 10; i++ {
		p := player(string(rune('a'+i)), 28, 80, 85)
		p.Roles = []league.RoleID{FanFavorite, ClubIcon}
		c.AddPlayer(p)
	}
	agg := Aggregate(c, DefaultConfig().Caps)
	assert.InDelta(t, 0.50, agg.MatchRevenue, 1e-9)
	assert.InDelta(t, 0.60, agg.Merchandise, 1e-9)
	assert.InDelta(t, 10, agg.Morale, 1e-9)
}

func TestDropClubBound(t *testing.T) {
	p := player("p", 30, 85, 85)
	p.Roles = []league.RoleID{ClubIcon, FanFavorite, VeteranMentor, "retired_role"}
	DropClubBound(p)
	assert.Equal(t, []league.RoleID{VeteranMentor}, p.Roles)
}

func TestEvaluateTrimsHoldingsOverCap(t *testing.T) {
	c := &league.Club{Reputation: 90}
	for i := 0; i < 4; i++ {
		p := player(string(rune('a'+i)), 28, 90+i, 95)
		p.Roles = []league.RoleID{Superstar}
		c.AddPlayer(p)
	}
	c.Players[0].Roles = append(c.Players[0].Roles, ClubIcon)
	c.Players[1].Roles = append(c.Players[1].Roles, ClubIcon)

	changes := Evaluate(c, DefaultConfig())

	tier3, icons := countTier3(c.Players)
	assert.Equal(t, 3, tier3)
	assert.Equal(t, 0, icons, "icons belong to the lowest-rated holders here")
	assert.True(t, c.Players[3].HasRole(Superstar))
	assert.True(t, c.Players[2].HasRole(Superstar))
	assert.True(t, c.Players[1].HasRole(Superstar))
	assert.False(t, c.Players[0].HasRole(Superstar))
	assert.Contains(t, changes, Change{PlayerID: "a", Role: Superstar})
}

func TestEnforceKeepsSingleIcon(t *testing.T) {
	c := &league.Club{}
	for i := 0; i < 2; i++ {
		p := player(string(rune('a'+i)), 30, 80+i, 85)
		p.Roles = []league.RoleID{ClubIcon}
		c.AddPlayer(p)
	}

	changes := Enforce(c, DefaultConfig())

	assert.Equal(t, []Change{{PlayerID: "a", Role: ClubIcon}}, changes)
	assert.True(t, c.Players[1].HasRole(ClubIcon))
	_, icons := countTier3(c.Players)
	assert.Equal(t, 1, icons)
}
