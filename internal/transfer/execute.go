package transfer

import (
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/finance"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/news"
	"github.com/talgya/touchline/internal/roles"
)

// Deal is everything needed to move a player.
type Deal struct {
	Date   calendar.Date
	Buyer  *league.Club
	Seller *league.Club
	Player *league.Player
	League *league.League // buyer's league, for the record fee

	Fee               int64
	Installments      int64
	InstallmentMonths int

	Wage          int64
	SigningBonus  int64
	ContractYears int
}

// Executor applies completed deals.
type Executor struct {
	cfg Config
}

// NewExecutor creates an Executor.
func NewExecutor(cfg Config) *Executor {
	return &Executor{cfg: cfg}
}

// Execute moves the player and the money. Every precondition is checked
// before the first write, so an error leaves both clubs untouched.
// The signing bonus is spread over the contract as salary, so the buyer's
// budget drops by exactly the fee and the seller's rises by the same.
func (x *Executor) Execute(d Deal, idx *league.Index) (news.TransferFact, error) {
	p := d.Player
	if _, ok := d.Seller.Player(p.ID); !ok {
		return news.TransferFact{}, fmt.Errorf("execute %s: %w", p.Name, ErrPlayerMoved)
	}
	if d.Fee > d.Buyer.Budget {
		return news.TransferFact{}, fmt.Errorf("execute %s: fee %d, budget %d: %w", p.Name, d.Fee, d.Buyer.Budget, ErrInsufficientFunds)
	}
	if len(d.Buyer.Players) >= x.cfg.MaxRoster {
		return news.TransferFact{}, fmt.Errorf("execute %s: %w", p.Name, ErrRosterFull)
	}

	beloved := p.HasRole(roles.FanFavorite) || p.HasRole(roles.ClubIcon)
	fact := news.TransferFact{
		Date:        d.Date,
		PlayerID:    p.ID,
		PlayerName:  p.Name,
		Position:    p.Position,
		Age:         p.Age,
		Overall:     p.Overall,
		Potential:   p.Potential,
		Buyer:       news.Ref(d.Buyer),
		Seller:      news.Ref(d.Seller),
		Fee:         d.Fee + d.Installments,
		MarketValue: p.MarketValue,
		IsProspect:  p.Age <= 21 && p.Potential-p.Overall >= 10,
	}
	fact.IsBargain = p.MarketValue > 0 && float64(fact.Fee) < float64(p.MarketValue)*x.cfg.BargainRatio
	if d.League != nil && fact.Fee > d.League.RecordFee {
		fact.IsRecord = d.League.RecordFee > 0
		d.League.RecordFee = fact.Fee
	}

	d.Buyer.Budget -= d.Fee
	d.Seller.Budget += d.Fee
	d.Seller.RemovePlayer(p.ID)
	d.Buyer.AddPlayer(p)
	if idx != nil {
		idx.MovePlayer(p, d.Buyer)
	}
	finance.Schedule(d.Buyer, d.Seller.ID, d.Installments, d.InstallmentMonths, d.Date, p.Name)

	years := d.ContractYears
	if years < 1 {
		years = 1
	}
	p.Salary = d.Wage + d.SigningBonus/int64(years)
	p.ContractEnd = d.Date.AddYears(years)
	p.ClubAppearances = 0
	p.MentorID = ""
	p.Morale = league.Clamp100(p.Morale + 10)
	roles.DropClubBound(p)
	for _, ch := range roles.Enforce(d.Buyer, x.cfg.Roles) {
		slog.Debug("role dropped over cap", "club", d.Buyer.Name, "player", ch.PlayerID, "role", ch.Role)
	}

	if beloved {
		d.Seller.FanHappiness = league.Clamp100(d.Seller.FanHappiness - x.cfg.BelovedDepartureCost)
	}
	if p.Overall >= x.cfg.EliteOverall {
		d.Buyer.Reputation = league.Clamp100(d.Buyer.Reputation + x.cfg.EliteReputationGain)
		d.Buyer.FanHappiness = league.Clamp100(d.Buyer.FanHappiness + x.cfg.EliteFanGain)
	}

	slog.Info("transfer completed",
		"player", p.Name,
		"from", d.Seller.Name,
		"to", d.Buyer.Name,
		"fee", humanize.Comma(fact.Fee),
	)
	return fact, nil
}
