package league

import "github.com/talgya/touchline/internal/calendar"

// NegotiationID is a unique identifier for a negotiation.
type NegotiationID string

// Phase is the single tagged state of a negotiation. Each value pairs one
// status with one stage so illegal combinations cannot be stored.
type Phase string

const (
	PhaseClubFee   Phase = "club_fee"  // status active, stage club_fee
	PhaseContract  Phase = "contract"  // status agreed_fee, stage contract
	PhaseMedical   Phase = "medical"   // status signed, stage medical
	PhaseCompleted Phase = "completed" // terminal
	PhaseCollapsed Phase = "collapsed" // terminal
)

// Status returns the negotiation status the phase implies.
func (p Phase) Status() string {
	switch p {
	case PhaseClubFee:
		return "active"
	case PhaseContract:
		return "agreed_fee"
	case PhaseMedical:
		return "signed"
	}
	return string(p)
}

// Stage returns the negotiation stage, or "" for terminal phases.
func (p Phase) Stage() string {
	switch p {
	case PhaseClubFee, PhaseContract, PhaseMedical:
		return string(p)
	}
	return ""
}

// Terminal reports whether no further transition is possible.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseCollapsed
}

func (p Phase) rank() int {
	switch p {
	case PhaseClubFee:
		return 0
	case PhaseContract:
		return 1
	case PhaseMedical:
		return 2
	case PhaseCompleted:
		return 3
	}
	return -1
}

// CanMoveTo reports whether next is a legal successor of p: forward
// through the sequence, or collapse from any non-terminal phase.
func (p Phase) CanMoveTo(next Phase) bool {
	if p.Terminal() {
		return false
	}
	if next == PhaseCollapsed {
		return true
	}
	return next.rank() == p.rank()+1
}

// ClubOffer is the club-to-club part of a bid.
type ClubOffer struct {
	Fee               int64 `json:"fee"`
	Installments      int64 `json:"installments"`       // total deferred amount
	InstallmentMonths int   `json:"installment_months"` // spread of the deferred amount
}

// TermsOffer is the personal-terms part of a bid.
type TermsOffer struct {
	Wage          int64 `json:"wage"` // annual
	SigningBonus  int64 `json:"signing_bonus"`
	ContractYears int   `json:"contract_years"`
}

// Valuation is the selling side's hidden position.
type Valuation struct {
	MinFee        int64 `json:"min_fee"`
	DemandedWage  int64 `json:"demanded_wage"`
	ClubPatience  int   `json:"club_patience"`  // 0–100, non-increasing
	AgentPatience int   `json:"agent_patience"` // 0–100, non-increasing
}

// Negotiation is an in-flight transfer negotiation.
type Negotiation struct {
	ID       NegotiationID `json:"id"`
	PlayerID PlayerID      `json:"player_id"`
	SellerID ClubID        `json:"seller_id"`
	BuyerID  ClubID        `json:"buyer_id"`

	Phase     Phase       `json:"phase"`
	Offer     ClubOffer   `json:"offer"`
	Terms     *TermsOffer `json:"terms,omitempty"`
	Valuation Valuation   `json:"valuation"`

	CounterFee  int64 `json:"counter_fee,omitempty"`
	CounterWage int64 `json:"counter_wage,omitempty"`
	Rounds      int   `json:"rounds"`

	Opened         calendar.Date `json:"opened"`
	NextResponse   calendar.Date `json:"next_response"`
	Closed         calendar.Date `json:"closed"`
	CollapseReason string        `json:"collapse_reason,omitempty"`
}

// Open reports whether the negotiation is still in progress.
func (n *Negotiation) Open() bool { return !n.Phase.Terminal() }
