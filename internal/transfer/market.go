package transfer

import (
	"errors"
	"log/slog"
	"math"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/match"
	"github.com/talgya/touchline/internal/news"
)

// Rejected is the score of a candidate that must never be picked.
const Rejected = math.MinInt32

// Need priorities, strongest first.
const (
	PriorityLuxury   = 1
	PriorityWeakLink = 2
	PriorityShortage = 3
)

// Need is a squad gap a club wants to fill.
type Need struct {
	Position league.Position
	Priority int
}

// MarketContext is the world view for one market run.
type MarketContext struct {
	Date  calendar.Date
	State *league.GameState
	Index *league.Index
	Src   entropy.Source
}

// Market runs AI-to-AI transfers.
type Market struct {
	cfg  Config
	exec *Executor
}

// NewMarket creates a Market.
func NewMarket(cfg Config) *Market {
	return &Market{cfg: cfg, exec: NewExecutor(cfg)}
}

// Run performs one day of AI transfer activity and returns a fact for
// every completed transfer, chain transfers included. Outside a transfer
// window it does nothing.
func (m *Market) Run(x MarketContext) []news.TransferFact {
	if !calendar.InTransferWindow(x.Date) {
		return nil
	}

	var buyers []*league.Club
	for _, c := range x.Index.Clubs() {
		if m.canBuy(c, x.State) {
			buyers = append(buyers, c)
		}
	}
	entropy.Shuffle(x.Src, len(buyers), func(i, j int) { buyers[i], buyers[j] = buyers[j], buyers[i] })

	var facts []news.TransferFact
	for _, buyer := range buyers {
		if len(facts) >= m.cfg.MaxTransfersPerDay {
			break
		}
		if !m.canBuy(buyer, x.State) {
			continue
		}
		need, ok := m.DetectNeed(buyer)
		if !ok || !entropy.Chance(x.Src, m.actChance(need.Priority)) {
			continue
		}
		fact, seller, ok := m.buy(buyer, need, buyer.Budget, nil, x)
		if !ok {
			continue
		}
		facts = append(facts, fact)

		if len(facts) < m.cfg.MaxTransfersPerDay {
			if chain, ok := m.chain(seller, buyer, fact, x); ok {
				facts = append(facts, chain)
			}
		}
	}
	return facts
}

func (m *Market) canBuy(c *league.Club, gs *league.GameState) bool {
	return c.ID != gs.HumanClubID &&
		len(c.Players) < m.cfg.MaxRoster &&
		c.Budget >= m.cfg.MinBudget
}

func (m *Market) actChance(priority int) float64 {
	switch priority {
	case PriorityShortage:
		return m.cfg.ActChanceShortage
	case PriorityWeakLink:
		return m.cfg.ActChanceWeakLink
	}
	return m.cfg.ActChanceLuxury
}

// DetectNeed finds the club's most pressing gap: a positional shortage,
// then a starter from the formation's eleven well below the squad
// average, then a luxury buy when the club is rich.
func (m *Market) DetectNeed(c *league.Club) (Need, bool) {
	minimums := []struct {
		pos league.Position
		n   int
	}{
		{league.Goalkeeper, m.cfg.MinGoalkeepers},
		{league.Defender, m.cfg.MinDefenders},
		{league.Midfielder, m.cfg.MinMidfielders},
		{league.Forward, m.cfg.MinForwards},
	}
	for _, mn := range minimums {
		if c.CountPosition(mn.pos) < mn.n {
			return Need{Position: mn.pos, Priority: PriorityShortage}, true
		}
	}

	avg := league.AverageOverall(c.Players)
	starters := match.SelectLineup(c)
	var weakest *league.Player
	for _, p := range starters {
		if weakest == nil || p.Overall < weakest.Overall {
			weakest = p
		}
	}
	if weakest != nil && float64(weakest.Overall) < avg-m.cfg.WeakLinkMargin {
		return Need{Position: weakest.Position.Group(), Priority: PriorityWeakLink}, true
	}

	if c.Budget > m.cfg.LuxuryBudget {
		pos := league.Forward
		if weakest != nil {
			pos = weakest.Position.Group()
		}
		return Need{Position: pos, Priority: PriorityLuxury}, true
	}
	return Need{}, false
}

// ExpectedFee is the fee a buyer should plan for.
func (m *Market) ExpectedFee(p *league.Player) int64 {
	fee := float64(p.MarketValue) * (1 + m.cfg.FeeSpread/2)
	if p.Overall >= m.cfg.EliteOverall {
		fee *= m.cfg.EliteFeeMultiple
	}
	return int64(fee)
}

// Score rates p as a target for buyer with at most budget to spend.
// Unaffordable players score Rejected.
func (m *Market) Score(buyer *league.Club, p *league.Player, budget int64) float64 {
	fee := m.ExpectedFee(p)
	if budget <= 0 || fee > budget {
		return Rejected
	}
	score := 0.0
	if up := float64(p.Overall) - league.AverageOverall(buyer.Players); up > 0 {
		score += up * 3
	}
	if p.Age <= 21 && p.Potential-p.Overall >= 10 {
		score += float64(p.Potential - p.Overall)
	}
	if p.Age >= 24 && p.Age <= 29 {
		score += 10
	}
	score += (1 - float64(fee)/float64(budget)) * 20
	return score
}

// target finds the best candidate for need among every club except the
// buyer, the human club and any in skip.
func (m *Market) target(buyer *league.Club, need Need, budget int64, skip map[league.ClubID]bool, x MarketContext) (*league.Player, *league.Club) {
	var best *league.Player
	var from *league.Club
	bestScore := m.cfg.MinScore
	for _, c := range x.Index.Clubs() {
		if c.ID == buyer.ID || c.ID == x.State.HumanClubID || skip[c.ID] {
			continue
		}
		for _, p := range c.Players {
			if !p.Position.Matches(need.Position) || p.IsInjured() || x.State.PlayerInNegotiation(p.ID) {
				continue
			}
			if s := m.Score(buyer, p, budget); s > bestScore {
				best, from, bestScore = p, c, s
			}
		}
	}
	return best, from
}

func (m *Market) buy(buyer *league.Club, need Need, budget int64, skip map[league.ClubID]bool, x MarketContext) (news.TransferFact, *league.Club, bool) {
	p, seller := m.target(buyer, need, budget, skip, x)
	if p == nil {
		return news.TransferFact{}, nil, false
	}
	fee := float64(p.MarketValue) * (1 + m.cfg.FeeSpread*x.Src.Float64())
	if p.Overall >= m.cfg.EliteOverall {
		fee *= m.cfg.EliteFeeMultiple
	}
	if int64(fee) > budget {
		slog.Debug("ai bid priced out", "buyer", buyer.Name, "player", p.Name)
		return news.TransferFact{}, nil, false
	}
	lg, _ := x.Index.LeagueOf(buyer.ID)
	d := Deal{
		Date:          x.Date,
		Buyer:         buyer,
		Seller:        seller,
		Player:        p,
		League:        lg,
		Fee:           int64(fee),
		Wage:          int64(float64(p.Salary) * entropy.Between(x.Src, 1.1, 1.3)),
		ContractYears: 3 + x.Src.Intn(3),
	}
	fact, err := m.exec.Execute(d, x.Index)
	if err != nil {
		if !errors.Is(err, ErrInsufficientFunds) && !errors.Is(err, ErrRosterFull) {
			slog.Warn("ai transfer failed", "error", err)
		}
		return news.TransferFact{}, nil, false
	}
	return fact, seller, true
}

// chain lets a seller that now lacks the departed player's position buy a
// cheaper replacement from someone other than the club it just sold to.
func (m *Market) chain(seller, soldTo *league.Club, sold news.TransferFact, x MarketContext) (news.TransferFact, bool) {
	if !m.canBuy(seller, x.State) {
		return news.TransferFact{}, false
	}
	need, ok := m.DetectNeed(seller)
	if !ok || !need.Position.Matches(sold.Position) {
		return news.TransferFact{}, false
	}
	budget := int64(float64(sold.Fee) * m.cfg.ChainBudgetShare)
	if budget > seller.Budget {
		budget = seller.Budget
	}
	fact, _, ok := m.buy(seller, need, budget, map[league.ClubID]bool{soldTo.ID: true}, x)
	if !ok {
		return news.TransferFact{}, false
	}
	fact.IsChain = true
	fact.Replacing = sold.PlayerName
	return fact, true
}
