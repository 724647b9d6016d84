package engine

import (
	"fmt"
	"log/slog"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
	"github.com/talgya/touchline/internal/news"
	"github.com/talgya/touchline/internal/transfer"
)

// advanceNegotiations moves every negotiation that is due a response.
func (s *Simulation) advanceNegotiations(today calendar.Date, src entropy.Source, rep *DayReport) {
	for _, n := range s.State.Negotiations {
		if !n.Open() || today.Before(n.NextResponse) {
			continue
		}
		rounds := n.Rounds

		buyer, okB := s.index.Club(n.BuyerID)
		seller, okS := s.index.Club(n.SellerID)
		p, okP := s.index.Player(n.PlayerID)
		var out transfer.Outcome
		switch {
		case !okB:
			s.skip(rep, "club", string(n.BuyerID), "negotiation "+string(n.ID))
			out = transfer.Collapse(n, today, "buying club no longer exists")
		case !okS:
			s.skip(rep, "club", string(n.SellerID), "negotiation "+string(n.ID))
			out = transfer.Collapse(n, today, "selling club no longer exists")
		case !okP:
			s.skip(rep, "player", string(n.PlayerID), "negotiation "+string(n.ID))
			out = transfer.Collapse(n, today, "player no longer exists")
		default:
			lg, _ := s.index.LeagueOf(buyer.ID)
			var err error
			out, err = s.negotiator.Advance(n, transfer.Context{
				Date:   today,
				Buyer:  buyer,
				Seller: seller,
				Player: p,
				League: lg,
				Index:  s.index,
				Src:    src,
			})
			if err != nil {
				slog.Warn("negotiation advance failed", "negotiation", n.ID, "err", err)
				continue
			}
		}

		if out.Transfer != nil {
			rep.Transfers = append(rep.Transfers, *out.Transfer)
			rep.Facts = append(rep.Facts, *out.Transfer)
		}
		if out.Changed() {
			fact := news.NegotiationFact{
				Date:          today,
				NegotiationID: n.ID,
				Buyer:         news.Ref(buyer),
				Seller:        news.Ref(seller),
				Phase:         out.To,
				Fee:           n.Offer.Fee + n.Offer.Installments,
				Reason:        out.Reason,
			}
			if p != nil {
				fact.PlayerName = p.Name
			}
			rep.Facts = append(rep.Facts, fact)
		}
		s.negotiationMessages(n, out, rounds, p, today)
	}
}

// negotiationMessages informs the human club about its own negotiations.
func (s *Simulation) negotiationMessages(n *league.Negotiation, out transfer.Outcome, rounds int, p *league.Player, today calendar.Date) {
	human := s.State.HumanClubID
	if human == "" || (n.BuyerID != human && n.SellerID != human) {
		return
	}
	name := string(n.PlayerID)
	if p != nil {
		name = p.Name
	}
	switch {
	case out.Changed() && out.To == league.PhaseCollapsed:
		s.notify(human, today, "Director of Football", fmt.Sprintf("Talks for %s collapsed", name),
			fmt.Sprintf("The negotiation has ended: %s.", out.Reason), league.CategoryTransfer)
	case out.Changed() && out.To == league.PhaseContract:
		s.notify(human, today, "Director of Football", fmt.Sprintf("Fee agreed for %s", name),
			fmt.Sprintf("The clubs have agreed a fee of %s. Personal terms are next.", news.Money(n.Offer.Fee)), league.CategoryTransfer)
	case out.Changed() && out.To == league.PhaseMedical:
		s.notify(human, today, "Director of Football", fmt.Sprintf("%s agrees terms", name),
			"Personal terms are agreed. The player will now undergo a medical.", league.CategorySigning)
	case out.Changed() && out.To == league.PhaseCompleted:
		s.notify(human, today, "Director of Football", fmt.Sprintf("%s signing confirmed", name),
			fmt.Sprintf("The transfer of %s is complete.", name), league.CategorySigning)
	case n.Rounds > rounds && n.Phase == league.PhaseClubFee && n.CounterFee > 0:
		s.notify(human, today, "Director of Football", fmt.Sprintf("Counter-offer for %s", name),
			fmt.Sprintf("The selling club would consider %s.", news.Money(n.CounterFee)), league.CategoryTransfer)
	case n.Rounds > rounds && n.Phase == league.PhaseContract && n.CounterWage > 0:
		s.notify(human, today, "Director of Football", fmt.Sprintf("%s's agent responds", name),
			fmt.Sprintf("The agent is asking for %s a year.", news.Money(n.CounterWage)), league.CategoryTransfer)
	}
}

// Bid opens a negotiation from the human club for a player at another club.
func (s *Simulation) Bid(playerID league.PlayerID, offer league.ClubOffer) (*league.Negotiation, error) {
	idx := league.BuildIndex(s.State)
	buyer, ok := idx.Club(s.State.HumanClubID)
	if !ok {
		return nil, ErrNoHumanClub
	}
	p, ok := idx.Player(playerID)
	if !ok {
		return nil, &MissingEntityError{Kind: "player", ID: string(playerID), Op: "bid"}
	}
	if s.State.PlayerInNegotiation(p.ID) {
		return nil, fmt.Errorf("%s: %w", p.Name, ErrAlreadyNegotiating)
	}
	seller, ok := idx.Club(p.ClubID)
	if !ok {
		return nil, &MissingEntityError{Kind: "club", ID: string(p.ClubID), Op: "bid"}
	}
	id := league.NegotiationID(s.State.NewID("negotiation"))
	n, err := s.negotiator.Open(id, buyer, seller, p, offer, s.State.Date, s.auxSource())
	if err != nil {
		return nil, fmt.Errorf("bid for %s: %w", p.Name, err)
	}
	s.State.Negotiations = append(s.State.Negotiations, n)
	slog.Info("bid opened", "player", p.Name, "seller", seller.Name, "fee", news.Money(offer.Fee))
	return n, nil
}

// Improve resubmits the club offer of an open negotiation.
func (s *Simulation) Improve(id league.NegotiationID, offer league.ClubOffer) error {
	n, ok := s.negotiation(id)
	if !ok {
		return &MissingEntityError{Kind: "negotiation", ID: string(id), Op: "improve offer"}
	}
	return s.negotiator.SubmitClubOffer(n, offer, s.State.Date)
}

// OfferTerms submits personal terms for a negotiation past the fee stage.
func (s *Simulation) OfferTerms(id league.NegotiationID, terms league.TermsOffer) error {
	n, ok := s.negotiation(id)
	if !ok {
		return &MissingEntityError{Kind: "negotiation", ID: string(id), Op: "offer terms"}
	}
	return s.negotiator.SubmitTerms(n, terms, s.State.Date)
}

func (s *Simulation) negotiation(id league.NegotiationID) (*league.Negotiation, bool) {
	for _, n := range s.State.Negotiations {
		if n.ID == id {
			return n, true
		}
	}
	return nil, false
}

// notify appends an inbox message when club is the human club.
func (s *Simulation) notify(club league.ClubID, date calendar.Date, sender, subject, body string, cat league.MessageCategory) {
	if club == "" || club != s.State.HumanClubID {
		return
	}
	s.State.Inbox = append(s.State.Inbox, league.Message{
		ID:       s.State.NewID("message"),
		Date:     date,
		Sender:   sender,
		Subject:  subject,
		Body:     body,
		Category: cat,
	})
}
