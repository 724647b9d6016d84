package transfer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/news"
	"github.com/talgya/touchline/internal/roles"
)

// Collapse reasons.
const (
	ReasonNotInterested = "player not interested in the move"
	ReasonClubPatience  = "selling club ended talks"
	ReasonAgentPatience = "agent walked away from personal terms"
	ReasonFunds         = "buyer could not fund the deal"
	ReasonMedical       = "failed medical"
	ReasonWindowClosed  = "transfer window closed"
	ReasonPlayerMoved   = "player no longer at the selling club"
	ReasonRosterFull    = "buyer squad is full"
)

// Context is what one negotiation step needs besides the negotiation.
type Context struct {
	Date   calendar.Date
	Buyer  *league.Club
	Seller *league.Club
	Player *league.Player
	League *league.League // buyer's league
	Index  *league.Index
	Src    entropy.Source
}

// Outcome reports one Advance call.
type Outcome struct {
	From     league.Phase
	To       league.Phase
	Reason   string
	Transfer *news.TransferFact
}

// Changed reports whether the phase moved.
func (o Outcome) Changed() bool { return o.From != o.To }

// Negotiator runs the negotiation state machine.
type Negotiator struct {
	cfg  Config
	exec *Executor
}

// NewNegotiator creates a Negotiator.
func NewNegotiator(cfg Config) *Negotiator {
	return &Negotiator{cfg: cfg, exec: NewExecutor(cfg)}
}

// Open starts a negotiation in the club-fee phase with the selling side's
// hidden valuation drawn from src.
func (ng *Negotiator) Open(id league.NegotiationID, buyer, seller *league.Club, p *league.Player, offer league.ClubOffer, date calendar.Date, src entropy.Source) (*league.Negotiation, error) {
	if !calendar.InTransferWindow(date) {
		return nil, fmt.Errorf("open negotiation for %s: %w", p.Name, ErrNotInWindow)
	}
	if _, ok := seller.Player(p.ID); !ok || buyer.ID == seller.ID {
		return nil, fmt.Errorf("open negotiation for %s: %w", p.Name, ErrPlayerMoved)
	}
	if len(buyer.Players) >= ng.cfg.MaxRoster {
		return nil, fmt.Errorf("open negotiation for %s: %w", p.Name, ErrRosterFull)
	}
	n := &league.Negotiation{
		ID:           id,
		PlayerID:     p.ID,
		SellerID:     seller.ID,
		BuyerID:      buyer.ID,
		Phase:        league.PhaseClubFee,
		Offer:        offer,
		Valuation:    ng.Value(p, date, src),
		Opened:       date,
		NextResponse: date.AddDays(1),
	}
	slog.Debug("negotiation opened", "player", p.Name, "buyer", buyer.Name, "seller", seller.Name, "fee", offer.Fee)
	return n, nil
}

// Value derives the seller's minimum fee, the player's wage demand and
// fresh patience counters.
func (ng *Negotiator) Value(p *league.Player, date calendar.Date, src entropy.Source) league.Valuation {
	contract := 1.0
	switch left := date.DaysUntil(p.ContractEnd); {
	case left >= 3*365:
		contract = 1.2
	case left < 365:
		contract = 0.7
	}
	if p.HasRole(roles.FanFavorite) || p.HasRole(roles.ClubIcon) {
		contract *= 1.15
	}
	minFee := int64(float64(p.MarketValue) * contract)
	if minFee < 1 {
		minFee = 1
	}
	wage := int64(float64(p.Salary) * ng.cfg.WageDemandMultiple)
	if floor := int64(p.Overall * p.Overall * 50); wage < floor {
		wage = floor
	}
	return league.Valuation{
		MinFee:        minFee,
		DemandedWage:  wage,
		ClubPatience:  70 + src.Intn(31),
		AgentPatience: 70 + src.Intn(31),
	}
}

// SubmitClubOffer replaces the club-level offer while the fee is open.
func (ng *Negotiator) SubmitClubOffer(n *league.Negotiation, offer league.ClubOffer, date calendar.Date) error {
	if !n.Open() {
		return ErrNegotiationClosed
	}
	if n.Phase != league.PhaseClubFee {
		return fmt.Errorf("club offer in %s: %w", n.Phase, ErrWrongPhase)
	}
	n.Offer = offer
	n.NextResponse = date.AddDays(1)
	return nil
}

// SubmitTerms replaces the personal-terms offer before the medical.
func (ng *Negotiator) SubmitTerms(n *league.Negotiation, terms league.TermsOffer, date calendar.Date) error {
	if !n.Open() {
		return ErrNegotiationClosed
	}
	if n.Phase != league.PhaseClubFee && n.Phase != league.PhaseContract {
		return fmt.Errorf("terms in %s: %w", n.Phase, ErrWrongPhase)
	}
	n.Terms = &terms
	if n.Phase == league.PhaseContract {
		n.NextResponse = date.AddDays(1)
	}
	return nil
}

// Collapse ends a negotiation with a reason.
func Collapse(n *league.Negotiation, date calendar.Date, reason string) Outcome {
	from := n.Phase
	n.Phase = league.PhaseCollapsed
	n.CollapseReason = reason
	n.Closed = date
	slog.Debug("negotiation collapsed", "id", n.ID, "reason", reason)
	return Outcome{From: from, To: league.PhaseCollapsed, Reason: reason}
}

// Advance runs one response step. Before the scheduled response date it
// changes nothing.
func (ng *Negotiator) Advance(n *league.Negotiation, x Context) (Outcome, error) {
	if !n.Open() {
		return Outcome{From: n.Phase, To: n.Phase}, ErrNegotiationClosed
	}
	if x.Date.Before(n.NextResponse) {
		return Outcome{From: n.Phase, To: n.Phase}, nil
	}
	if !calendar.InTransferWindow(x.Date) {
		return Collapse(n, x.Date, ReasonWindowClosed), nil
	}
	if x.Player.ClubID != n.SellerID {
		return Collapse(n, x.Date, ReasonPlayerMoved), nil
	}

	switch n.Phase {
	case league.PhaseClubFee:
		return ng.clubFee(n, x), nil
	case league.PhaseContract:
		return ng.contract(n, x), nil
	case league.PhaseMedical:
		return ng.medical(n, x), nil
	}
	return Outcome{From: n.Phase, To: n.Phase}, fmt.Errorf("negotiation %s in unknown phase %q", n.ID, n.Phase)
}

func (ng *Negotiator) move(n *league.Negotiation, to league.Phase, date calendar.Date) Outcome {
	from := n.Phase
	n.Phase = to
	n.NextResponse = date.AddDays(1)
	return Outcome{From: from, To: to}
}

func (ng *Negotiator) reschedule(n *league.Negotiation, x Context) {
	n.Rounds++
	n.NextResponse = x.Date.AddDays(2 + x.Src.Intn(2))
}

func (ng *Negotiator) clubFee(n *league.Negotiation, x Context) Outcome {
	if x.Buyer.Reputation < x.Player.Reputation()-ng.cfg.ReputationGap && entropy.Chance(x.Src, ng.cfg.RejectChance) {
		return Collapse(n, x.Date, ReasonNotInterested)
	}

	effective := float64(n.Offer.Fee) + float64(n.Offer.Installments)*ng.cfg.InstallmentDiscount
	minFee := float64(n.Valuation.MinFee)
	if effective >= minFee {
		n.CounterFee = 0
		return ng.move(n, league.PhaseContract, x.Date)
	}

	n.Valuation.ClubPatience = drain(n.Valuation.ClubPatience, patiencePenalty((minFee-effective)/minFee))
	if n.Valuation.ClubPatience == 0 {
		return Collapse(n, x.Date, ReasonClubPatience)
	}
	n.CounterFee = int64((effective + minFee*ng.cfg.FeeCounterInflation) / 2)
	ng.reschedule(n, x)
	return Outcome{From: n.Phase, To: n.Phase}
}

func (ng *Negotiator) contract(n *league.Negotiation, x Context) Outcome {
	if n.Terms == nil {
		n.Terms = &league.TermsOffer{
			Wage:          int64(float64(x.Player.Salary) * 1.1),
			ContractYears: 3,
		}
	}
	coef := 1.0
	if x.League != nil {
		coef = x.League.WageCoefficient()
	}
	demand := float64(n.Valuation.DemandedWage) * coef
	years := n.Terms.ContractYears
	if years < 1 {
		years = 1
	}
	effective := float64(n.Terms.Wage) + float64(n.Terms.SigningBonus)*ng.cfg.BonusDiscount/float64(years)

	if effective >= demand {
		if n.Offer.Fee > x.Buyer.Budget {
			return Collapse(n, x.Date, ReasonFunds)
		}
		n.CounterWage = 0
		return ng.move(n, league.PhaseMedical, x.Date)
	}

	n.Valuation.AgentPatience = drain(n.Valuation.AgentPatience, patiencePenalty((demand-effective)/demand))
	if n.Valuation.AgentPatience == 0 {
		return Collapse(n, x.Date, ReasonAgentPatience)
	}
	n.CounterWage = int64((effective + demand*ng.cfg.WageCounterInflation) / 2)
	ng.reschedule(n, x)
	return Outcome{From: n.Phase, To: n.Phase}
}

func (ng *Negotiator) medical(n *league.Negotiation, x Context) Outcome {
	if x.Player.Injury != nil && x.Player.Injury.DaysRemaining > ng.cfg.MedicalInjuryDays {
		return Collapse(n, x.Date, ReasonMedical)
	}
	d := Deal{
		Date:              x.Date,
		Buyer:             x.Buyer,
		Seller:            x.Seller,
		Player:            x.Player,
		League:            x.League,
		Fee:               n.Offer.Fee,
		Installments:      n.Offer.Installments,
		InstallmentMonths: n.Offer.InstallmentMonths,
		Wage:              n.Terms.Wage,
		SigningBonus:      n.Terms.SigningBonus,
		ContractYears:     n.Terms.ContractYears,
	}
	fact, err := ng.exec.Execute(d, x.Index)
	if err != nil {
		slog.Warn("transfer aborted at medical", "player", x.Player.Name, "error", err)
		reason := ReasonFunds
		switch {
		case errors.Is(err, ErrRosterFull):
			reason = ReasonRosterFull
		case errors.Is(err, ErrPlayerMoved):
			reason = ReasonPlayerMoved
		}
		return Collapse(n, x.Date, reason)
	}
	n.Phase = league.PhaseCompleted
	n.Closed = x.Date
	return Outcome{From: league.PhaseMedical, To: league.PhaseCompleted, Transfer: &fact}
}

// drain lowers a patience counter, never below zero.
func drain(patience, hit int) int {
	patience -= hit
	if patience < 0 {
		return 0
	}
	return patience
}
