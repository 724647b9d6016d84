package transfer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/roles"
)

var summer = calendar.MustParse("2025-07-10")

func newPlayer(id string, pos league.Position, age, overall int, value int64) *league.Player {
	return &league.Player{
		ID: league.PlayerID(id), Name: "Player " + id, Position: pos, Age: age,
		Overall: overall, Potential: overall + 2, Morale: 60, Fitness: 90, Condition: 90,
		Salary: 1_000_000, MarketValue: value, ContractEnd: summer.AddYears(2),
	}
}

// squad builds a club with gks keepers and a full outfield of equal quality.
func squad(id string, budget int64, gks, overall int) *league.Club {
	c := &league.Club{ID: league.ClubID(id), Name: "Club " + id, Reputation: 60, Budget: budget, FanHappiness: 60}
	n := 0
	add := func(pos league.Position, count int) {
		for i := 0; i < count; i++ {
			c.AddPlayer(newPlayer(fmt.Sprintf("%s-%d", id, n), pos, 30, overall, 3_000_000))
			n++
		}
	}
	add(league.Goalkeeper, gks)
	add(league.Defender, 6)
	add(league.Midfielder, 6)
	add(league.Forward, 4)
	return c
}

func negotiationFixture(t *testing.T) (*Negotiator, *league.Negotiation, Context) {
	t.Helper()
	buyer := squad("b", 50_000_000, 2, 65)
	seller := squad("s", 10_000_000, 2, 65)
	p := newPlayer("star", league.Midfielder, 26, 70, 10_000_000)
	seller.AddPlayer(p)
	lg := &league.League{ID: "l", Clubs: []*league.Club{buyer, seller}, EconomicCoefficient: 1}
	gs := &league.GameState{Date: summer, Leagues: []*league.League{lg}}

	ng := NewNegotiator(DefaultConfig())
	n, err := ng.Open("n1", buyer, seller, p, league.ClubOffer{Fee: 5_000_000}, summer, entropy.NewSeeded(1))
	require.NoError(t, err)
	n.Valuation = league.Valuation{MinFee: 10_000_000, DemandedWage: 2_000_000, ClubPatience: 80, AgentPatience: 80}

	x := Context{
		Date: summer.AddDays(1), Buyer: buyer, Seller: seller, Player: p,
		League: lg, Index: league.BuildIndex(gs), Src: entropy.NewSequence(0.99),
	}
	return ng, n, x
}

func TestOpenValidates(t *testing.T) {
	ng := NewNegotiator(DefaultConfig())
	buyer, seller := squad("b", 1e7, 2, 60), squad("s", 1e7, 2, 60)
	p := seller.Players[0]

	_, err := ng.Open("n", buyer, seller, p, league.ClubOffer{Fee: 1}, calendar.MustParse("2025-10-10"), entropy.NewSeeded(1))
	assert.ErrorIs(t, err, ErrNotInWindow)

	_, err = ng.Open("n", buyer, seller, buyer.Players[0], league.ClubOffer{Fee: 1}, summer, entropy.NewSeeded(1))
	assert.ErrorIs(t, err, ErrPlayerMoved)

	n, err := ng.Open("n", buyer, seller, p, league.ClubOffer{Fee: 1}, summer, entropy.NewSeeded(1))
	require.NoError(t, err)
	assert.Equal(t, league.PhaseClubFee, n.Phase)
	assert.Equal(t, "active", n.Phase.Status())
	assert.True(t, n.Valuation.ClubPatience >= 70 && n.Valuation.ClubPatience <= 100)
	assert.True(t, n.Valuation.AgentPatience >= 70 && n.Valuation.AgentPatience <= 100)
	assert.Equal(t, summer.AddDays(1), n.NextResponse)
}

func TestGenerousBidAgreesFeeWithoutPatienceCost(t *testing.T) {
	ng, n, x := negotiationFixture(t)
	n.Offer.Fee = 15_000_000

	out, err := ng.Advance(n, x)

	require.NoError(t, err)
	assert.Equal(t, league.PhaseClubFee, out.From)
	assert.Equal(t, league.PhaseContract, out.To)
	assert.Equal(t, "agreed_fee", n.Phase.Status())
	assert.Equal(t, "contract", n.Phase.Stage())
	assert.Equal(t, 80, n.Valuation.ClubPatience)
	assert.Equal(t, 80, n.Valuation.AgentPatience)
}

func TestInstallmentsAreDiscounted(t *testing.T) {
	ng, n, x := negotiationFixture(t)
	// 8m + 0.85 * 2m = 9.7m, short of the 10m minimum
	n.Offer = league.ClubOffer{Fee: 8_000_000, Installments: 2_000_000, InstallmentMonths: 4}

	out, err := ng.Advance(n, x)

	require.NoError(t, err)
	assert.False(t, out.Changed())
	assert.Equal(t, 75, n.Valuation.ClubPatience)
	assert.Equal(t, int64((9_700_000+11_000_000)/2), n.CounterFee)
	assert.True(t, n.NextResponse.After(x.Date))
}

func TestPatienceNeverIncreases(t *testing.T) {
	ng, n, x := negotiationFixture(t)
	n.Offer.Fee = 3_000_000
	n.Valuation.ClubPatience = 100

	last := n.Valuation.ClubPatience
	for i := 0; i < 20 && n.Open(); i++ {
		x.Date = n.NextResponse
		out, err := ng.Advance(n, x)
		require.NoError(t, err)
		assert.LessOrEqual(t, n.Valuation.ClubPatience, last)
		assert.GreaterOrEqual(t, n.Valuation.ClubPatience, 0)
		if out.Changed() {
			assert.True(t, out.From.CanMoveTo(out.To))
		}
		last = n.Valuation.ClubPatience
	}
	assert.Equal(t, league.PhaseCollapsed, n.Phase)
	assert.Equal(t, ReasonClubPatience, n.CollapseReason)
	assert.Zero(t, n.Valuation.ClubPatience)
}

func TestNothingHappensBeforeResponseDate(t *testing.T) {
	ng, n, x := negotiationFixture(t)
	x.Date = summer

	out, err := ng.Advance(n, x)

	require.NoError(t, err)
	assert.False(t, out.Changed())
	assert.Equal(t, 80, n.Valuation.ClubPatience)
}

func TestLowReputationBuyerIsRejected(t *testing.T) {
	ng, n, x := negotiationFixture(t)
	x.Buyer.Reputation = 30
	x.Src = entropy.NewSequence(0.1)

	out, err := ng.Advance(n, x)

	require.NoError(t, err)
	assert.Equal(t, league.PhaseCollapsed, out.To)
	assert.Equal(t, ReasonNotInterested, out.Reason)
}

func TestWindowClosingCollapses(t *testing.T) {
	ng, n, x := negotiationFixture(t)
	x.Date = calendar.MustParse("2025-09-03")

	out, err := ng.Advance(n, x)

	require.NoError(t, err)
	assert.Equal(t, ReasonWindowClosed, out.Reason)
	_, err = ng.Advance(n, x)
	assert.ErrorIs(t, err, ErrNegotiationClosed)
}

func TestAgentPatienceOnLowWage(t *testing.T) {
	ng, n, x := negotiationFixture(t)
	n.Phase = league.PhaseContract
	require.NoError(t, ng.SubmitTerms(n, league.TermsOffer{Wage: 1_500_000, ContractYears: 3}, summer))

	out, err := ng.Advance(n, x)

	require.NoError(t, err)
	assert.False(t, out.Changed())
	assert.Equal(t, 60, n.Valuation.AgentPatience, "25% short costs 20")
	assert.Equal(t, 80, n.Valuation.ClubPatience)
	assert.Equal(t, int64((1_500_000+2_100_000)/2), n.CounterWage)
}

func TestFullNegotiationConservesMoney(t *testing.T) {
	ng, n, x := negotiationFixture(t)
	n.Offer = league.ClubOffer{Fee: 12_000_000, Installments: 3_000_000, InstallmentMonths: 3}
	require.NoError(t, ng.SubmitTerms(n, league.TermsOffer{Wage: 2_100_000, SigningBonus: 300_000, ContractYears: 4}, summer))
	buyerBefore, sellerBefore := x.Buyer.Budget, x.Seller.Budget
	buyerSize, sellerSize := len(x.Buyer.Players), len(x.Seller.Players)

	var last Outcome
	for i := 0; i < 3; i++ {
		x.Date = n.NextResponse
		out, err := ng.Advance(n, x)
		require.NoError(t, err)
		require.True(t, out.Changed())
		require.True(t, out.From.CanMoveTo(out.To))
		last = out
	}

	require.Equal(t, league.PhaseCompleted, n.Phase)
	require.NotNil(t, last.Transfer)
	assert.Equal(t, buyerBefore-12_000_000, x.Buyer.Budget)
	assert.Equal(t, sellerBefore+12_000_000, x.Seller.Budget)
	assert.Len(t, x.Buyer.Players, buyerSize+1)
	assert.Len(t, x.Seller.Players, sellerSize-1)
	_, inSeller := x.Seller.Player("star")
	assert.False(t, inSeller)
	assert.Equal(t, league.ClubID("b"), x.Player.ClubID)
	moved, ok := x.Index.Player("star")
	require.True(t, ok)
	assert.Equal(t, league.ClubID("b"), moved.ClubID)
	assert.Equal(t, int64(2_100_000+75_000), x.Player.Salary)
	assert.Len(t, x.Buyer.Installments, 3)
	assert.Equal(t, int64(15_000_000), last.Transfer.Fee)
	assert.Equal(t, int64(15_000_000), x.League.RecordFee)

	_, err := ng.Advance(n, x)
	assert.ErrorIs(t, err, ErrNegotiationClosed)
}

func TestMedicalFailsOnLongInjury(t *testing.T) {
	ng, n, x := negotiationFixture(t)
	n.Phase = league.PhaseMedical
	n.Terms = &league.TermsOffer{Wage: 2_000_000, ContractYears: 3}
	x.Player.Injury = &league.Injury{Type: "knee ligament damage", DaysRemaining: 45}

	out, err := ng.Advance(n, x)

	require.NoError(t, err)
	assert.Equal(t, ReasonMedical, out.Reason)
	assert.Equal(t, league.ClubID("s"), x.Player.ClubID)
}

func TestExecuteIsAtomicOnFailure(t *testing.T) {
	buyer, seller := squad("b", 1_000_000, 2, 60), squad("s", 5_000_000, 2, 60)
	p := seller.Players[3]
	ex := NewExecutor(DefaultConfig())

	_, err := ex.Execute(Deal{Date: summer, Buyer: buyer, Seller: seller, Player: p, Fee: 2_000_000, Wage: 1, ContractYears: 2}, nil)

	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.Equal(t, int64(1_000_000), buyer.Budget)
	assert.Equal(t, int64(5_000_000), seller.Budget)
	_, still := seller.Player(p.ID)
	assert.True(t, still)
	assert.Equal(t, seller.ID, p.ClubID)
}

func TestExecuteSideEffects(t *testing.T) {
	buyer, seller := squad("b", 100_000_000, 2, 60), squad("s", 5_000_000, 2, 60)
	p := seller.Players[5]
	p.Overall = 88
	p.AddRole(roles.FanFavorite)
	p.AddRole(roles.Workhorse)

	fact, err := NewExecutor(DefaultConfig()).Execute(Deal{
		Date: summer, Buyer: buyer, Seller: seller, Player: p,
		Fee: 2_000_000, Wage: 3_000_000, ContractYears: 4,
	}, nil)

	require.NoError(t, err)
	assert.True(t, fact.IsBargain)
	assert.Equal(t, 50, seller.FanHappiness)
	assert.Equal(t, 62, buyer.Reputation)
	assert.Equal(t, 68, buyer.FanHappiness)
	assert.False(t, p.HasRole(roles.FanFavorite))
	assert.True(t, p.HasRole(roles.Workhorse))
	assert.Equal(t, summer.AddYears(4), p.ContractEnd)
}

func tier3Held(c *league.Club) int {
	n := 0
	for _, p := range c.Players {
		for _, id := range p.Roles {
			if r, ok := roles.Lookup(id); ok && r.Tier == roles.Tier3 {
				n++
			}
		}
	}
	return n
}

func TestSuperstarJoiningCappedClub(t *testing.T) {
	buyer, seller := squad("b", 100_000_000, 2, 60), squad("s", 5_000_000, 2, 60)
	for _, p := range buyer.Players[2:5] {
		p.Overall = 90
	}
	star := seller.Players[4]
	star.Overall = 92
	cfg := roles.DefaultConfig()
	roles.Evaluate(buyer, cfg)
	roles.Evaluate(seller, cfg)
	require.Equal(t, cfg.Tier3Cap, tier3Held(buyer))
	require.True(t, star.HasRole(roles.Superstar))

	_, err := NewExecutor(DefaultConfig()).Execute(Deal{
		Date: summer, Buyer: buyer, Seller: seller, Player: star,
		Fee: 20_000_000, Wage: 5_000_000, ContractYears: 4,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, cfg.Tier3Cap, tier3Held(buyer))
	assert.True(t, star.HasRole(roles.Superstar), "the best player keeps the role")
	assert.False(t, buyer.Players[4].HasRole(roles.Superstar))

	roles.Evaluate(buyer, cfg)
	assert.Equal(t, cfg.Tier3Cap, tier3Held(buyer))
}

func TestMarketIdleOutsideWindow(t *testing.T) {
	b := squad("b", 20_000_000, 1, 60)
	gs := &league.GameState{Leagues: []*league.League{{ID: "l", Clubs: []*league.Club{b, squad("s", 0, 3, 70)}}}}
	facts := NewMarket(DefaultConfig()).Run(MarketContext{
		Date: calendar.MustParse("2025-11-02"), State: gs, Index: league.BuildIndex(gs), Src: entropy.NewSequence(0),
	})
	assert.Empty(t, facts)
}

func TestDetectNeedPriorities(t *testing.T) {
	m := NewMarket(DefaultConfig())

	need, ok := m.DetectNeed(squad("a", 0, 1, 60))
	require.True(t, ok)
	assert.Equal(t, Need{Position: league.Goalkeeper, Priority: PriorityShortage}, need)

	_, ok = m.DetectNeed(squad("b", 0, 2, 60))
	assert.False(t, ok)

	weak := squad("w", 0, 2, 72)
	for _, p := range weak.Players {
		if p.Position == league.Goalkeeper {
			p.Overall = 50
		}
	}
	need, ok = m.DetectNeed(weak)
	require.True(t, ok, "a poor starting keeper is a weak link")
	assert.Equal(t, Need{Position: league.Goalkeeper, Priority: PriorityWeakLink}, need)

	rich := squad("c", 80_000_000, 2, 60)
	need, ok = m.DetectNeed(rich)
	require.True(t, ok)
	assert.Equal(t, PriorityLuxury, need.Priority)
}

func TestScoreRejectsUnaffordable(t *testing.T) {
	m := NewMarket(DefaultConfig())
	buyer := squad("b", 0, 2, 60)
	p := newPlayer("x", league.Forward, 26, 75, 10_000_000)

	assert.Equal(t, float64(Rejected), m.Score(buyer, p, 5_000_000))
	assert.Greater(t, m.Score(buyer, p, 50_000_000), DefaultConfig().MinScore)
}

func TestMarketBuysAndChains(t *testing.T) {
	buyer := squad("b", 20_000_000, 1, 60)
	seller := squad("s", 500_000, 2, 60)
	third := squad("t", 500_000, 3, 60)
	human := squad("h", 0, 3, 90)
	star := seller.Players[0]
	star.Overall, star.Age, star.MarketValue = 75, 27, 5_000_000
	backup := third.Players[0]
	backup.Overall, backup.Age, backup.MarketValue = 70, 27, 2_000_000

	lg := &league.League{ID: "l", Clubs: []*league.Club{buyer, seller, third, human}}
	gs := &league.GameState{HumanClubID: "h", Leagues: []*league.League{lg}}

	facts := NewMarket(DefaultConfig()).Run(MarketContext{
		Date: summer, State: gs, Index: league.BuildIndex(gs), Src: entropy.NewSequence(0),
	})

	require.Len(t, facts, 2)
	first, chain := facts[0], facts[1]
	assert.Equal(t, star.ID, first.PlayerID)
	assert.Equal(t, int64(5_000_000), first.Fee)
	assert.Equal(t, league.ClubID("b"), first.Buyer.ID)
	assert.Equal(t, int64(15_000_000), buyer.Budget)

	assert.True(t, chain.IsChain)
	assert.Equal(t, star.Name, chain.Replacing)
	assert.Equal(t, backup.ID, chain.PlayerID)
	assert.Equal(t, league.ClubID("s"), chain.Buyer.ID)
	assert.Equal(t, league.ClubID("t"), chain.Seller.ID)
	assert.Equal(t, int64(500_000+5_000_000-2_000_000), seller.Budget)
	assert.Equal(t, int64(2_500_000), third.Budget)
	assert.Equal(t, 3, human.CountPosition(league.Goalkeeper))
	assert.Equal(t, int64(5_000_000), lg.RecordFee)
}
