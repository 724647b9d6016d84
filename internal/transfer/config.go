// Package transfer moves players between clubs: the negotiation state
// machine, atomic transfer execution and the AI transfer market.
package transfer

import (
	"errors"

	"github.com/talgya/touchline/internal/roles"
)

var (
	ErrInsufficientFunds = errors.New("buyer cannot fund the transfer")
	ErrNegotiationClosed = errors.New("negotiation is closed")
	ErrNotInWindow       = errors.New("outside the transfer window")
	ErrRosterFull        = errors.New("buyer roster is full")
	ErrPlayerMoved       = errors.New("player is not at the selling club")
	ErrWrongPhase        = errors.New("offer not accepted in this phase")
)

// Config tunes negotiations and the AI market.
type Config struct {
	ReputationGap        int     `yaml:"reputation_gap"`
	RejectChance         float64 `yaml:"reject_chance"`
	InstallmentDiscount  float64 `yaml:"installment_discount"`
	FeeCounterInflation  float64 `yaml:"fee_counter_inflation"`
	WageCounterInflation float64 `yaml:"wage_counter_inflation"`
	WageDemandMultiple   float64 `yaml:"wage_demand_multiple"`
	BonusDiscount        float64 `yaml:"bonus_discount"`
	MedicalInjuryDays    int     `yaml:"medical_injury_days"`

	MaxRoster            int     `yaml:"max_roster"`
	EliteOverall         int     `yaml:"elite_overall"`
	EliteReputationGain  int     `yaml:"elite_reputation_gain"`
	EliteFanGain         int     `yaml:"elite_fan_gain"`
	BelovedDepartureCost int     `yaml:"beloved_departure_cost"`
	BargainRatio         float64 `yaml:"bargain_ratio"`

	// Roles is the cap policy applied to the buying club; the engine copies
	// it from its own roles section.
	Roles roles.Config `yaml:"-"`

	MinBudget          int64   `yaml:"min_budget"`
	MaxTransfersPerDay int     `yaml:"max_transfers_per_day"`
	WeakLinkMargin     float64 `yaml:"weak_link_margin"`
	LuxuryBudget       int64   `yaml:"luxury_budget"`
	ActChanceShortage  float64 `yaml:"act_chance_shortage"`
	ActChanceWeakLink  float64 `yaml:"act_chance_weak_link"`
	ActChanceLuxury    float64 `yaml:"act_chance_luxury"`
	MinScore           float64 `yaml:"min_score"`
	FeeSpread          float64 `yaml:"fee_spread"`
	EliteFeeMultiple   float64 `yaml:"elite_fee_multiple"`
	ChainBudgetShare   float64 `yaml:"chain_budget_share"`
	MinGoalkeepers     int     `yaml:"min_goalkeepers"`
	MinDefenders       int     `yaml:"min_defenders"`
	MinMidfielders     int     `yaml:"min_midfielders"`
	MinForwards        int     `yaml:"min_forwards"`
}

// DefaultConfig returns the standard market rules.
func DefaultConfig() Config {
	return Config{
		ReputationGap:        15,
		RejectChance:         0.8,
		InstallmentDiscount:  0.85,
		FeeCounterInflation:  1.1,
		WageCounterInflation: 1.05,
		WageDemandMultiple:   1.3,
		BonusDiscount:        0.5,
		MedicalInjuryDays:    30,

		MaxRoster:            30,
		EliteOverall:         85,
		EliteReputationGain:  2,
		EliteFanGain:         8,
		BelovedDepartureCost: 10,
		BargainRatio:         0.8,

		Roles: roles.DefaultConfig(),

		MinBudget:          1_000_000,
		MaxTransfersPerDay: 3,
		WeakLinkMargin:     8,
		LuxuryBudget:       50_000_000,
		ActChanceShortage:  0.6,
		ActChanceWeakLink:  0.3,
		ActChanceLuxury:    0.1,
		MinScore:           15,
		FeeSpread:          0.5,
		EliteFeeMultiple:   1.25,
		ChainBudgetShare:   0.7,
		MinGoalkeepers:     2,
		MinDefenders:       6,
		MinMidfielders:     6,
		MinForwards:        4,
	}
}

// patiencePenalty maps a relative shortfall to a patience hit.
func patiencePenalty(shortfall float64) int {
	switch {
	case shortfall > 0.4:
		return 35
	case shortfall > 0.2:
		return 20
	case shortfall > 0.1:
		return 10
	}
	return 5
}
