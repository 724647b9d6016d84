// Package finance settles a club's daily cash position: wages, gate
// receipts, sponsorship, merchandise, debt service and marketing.
package finance

import (
	"errors"
	"fmt"
	"math"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
)

// ErrInsufficientFunds is returned when a discretionary spend exceeds the budget.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Config tunes the ledger.
type Config struct {
	DaysPerYear             int     `yaml:"days_per_year"`
	MerchPerFan             float64 `yaml:"merch_per_fan"`
	MatchDayMerchMultiple   float64 `yaml:"match_day_merch_multiple"`
	SeatsPerStadiumLevel    int     `yaml:"seats_per_stadium_level"`
	BaseTicketPrice         float64 `yaml:"base_ticket_price"`
	SponsorshipBase         float64 `yaml:"sponsorship_base"`
	SponsorshipExponent     float64 `yaml:"sponsorship_exponent"`
	DebtInterestRate        float64 `yaml:"debt_interest_rate"` // annual
	ReserveDays             int     `yaml:"reserve_days"`
	SteadyRepaymentRate     float64 `yaml:"steady_repayment_rate"`
	AggressiveRepaymentRate float64 `yaml:"aggressive_repayment_rate"`
	MarketingChancePer10k   float64 `yaml:"marketing_chance_per_10k"`
	MarketingMaxChance      float64 `yaml:"marketing_max_chance"`
}

// DefaultConfig returns the standard economy.
func DefaultConfig() Config {
	return Config{
		DaysPerYear:             365,
		MerchPerFan:             0.05,
		MatchDayMerchMultiple:   4,
		SeatsPerStadiumLevel:    9000,
		BaseTicketPrice:         32,
		SponsorshipBase:         60,
		SponsorshipExponent:     1.5,
		DebtInterestRate:        0.06,
		ReserveDays:             30,
		SteadyRepaymentRate:     0.005,
		AggressiveRepaymentRate: 0.02,
		MarketingChancePer10k:   0.005,
		MarketingMaxChance:      0.05,
	}
}

// DayContext tells the ledger what kind of day it is for the club.
type DayContext struct {
	Date      calendar.Date
	MatchDay  bool
	HomeMatch bool
}

// Statement itemizes one day's settlement.
type Statement struct {
	Wages          int64
	Gate           int64
	Sponsorship    int64
	Merchandise    int64
	Marketing      int64
	Interest       int64 // added to debt, not paid from cash
	Repayment      int64
	Attendance     int
	MarketingBoost bool
}

// Net is the change in cash from the statement.
func (s Statement) Net() int64 {
	return s.Gate + s.Sponsorship + s.Merchandise - s.Wages - s.Marketing - s.Repayment
}

// Ledger applies daily settlement with a fixed configuration.
type Ledger struct {
	cfg Config
}

// NewLedger creates a ledger.
func NewLedger(cfg Config) *Ledger {
	return &Ledger{cfg: cfg}
}

// DailyWages is the wage bill for one day.
func (l *Ledger) DailyWages(c *league.Club) int64 {
	return c.WageBill() / int64(l.cfg.DaysPerYear)
}

// Attendance estimates the crowd for a home match.
func (l *Ledger) Attendance(c *league.Club) int {
	capacity := c.Facilities.Stadium * l.cfg.SeatsPerStadiumLevel
	demand := 0.45 + float64(c.FanHappiness)/200 + float64(c.Reputation)/400
	demand *= pricingDemand(c.Strategy.TicketPricing)
	if demand > 1 {
		demand = 1
	}
	return int(float64(capacity) * demand)
}

// SettleDay applies one day of club finances and returns the statement.
func (l *Ledger) SettleDay(c *league.Club, day DayContext, src entropy.Source) Statement {
	var st Statement

	st.Wages = l.DailyWages(c)

	if day.HomeMatch {
		st.Attendance = l.Attendance(c)
		price := l.cfg.BaseTicketPrice * pricingMultiple(c.Strategy.TicketPricing)
		st.Gate = int64(float64(st.Attendance) * price * (1 + c.RoleEffects.MatchRevenue))
	}

	// Sponsorship scales superlinearly with reputation.
	st.Sponsorship = int64(l.cfg.SponsorshipBase * math.Pow(float64(c.Reputation), l.cfg.SponsorshipExponent) * commercial(c))

	merch := float64(c.Fanbase) * l.cfg.MerchPerFan * focusMultiple(c.Strategy.MerchandiseFocus) *
		(1 + c.RoleEffects.Merchandise) * commercial(c)
	if day.MatchDay {
		merch *= l.cfg.MatchDayMerchMultiple
	}
	st.Merchandise = int64(merch)

	st.Marketing = c.Strategy.MarketingSpend

	c.Budget += st.Gate + st.Sponsorship + st.Merchandise - st.Wages - st.Marketing

	if c.Debt > 0 {
		st.Interest = int64(float64(c.Debt) * l.cfg.DebtInterestRate / float64(l.cfg.DaysPerYear))
		c.Debt += st.Interest

		reserve := st.Wages * int64(l.cfg.ReserveDays)
		if c.Budget > reserve {
			rate := l.repaymentRate(c.Strategy.DebtRepayment)
			amount := int64(math.Ceil(float64(c.Debt) * rate))
			if amount > c.Budget-reserve {
				amount = c.Budget - reserve
			}
			if amount > c.Debt {
				amount = c.Debt
			}
			if amount > 0 {
				c.Budget -= amount
				c.Debt -= amount
				st.Repayment = amount
			}
		}
	}

	if st.Marketing > 0 {
		chance := float64(st.Marketing) / 10000 * l.cfg.MarketingChancePer10k
		if chance > l.cfg.MarketingMaxChance {
			chance = l.cfg.MarketingMaxChance
		}
		if entropy.Chance(src, chance) {
			c.Fanbase += c.Fanbase / 100
			c.CommercialLevel += 0.01
			st.MarketingBoost = true
		}
	}

	return st
}

// Spend debits a discretionary cost, refusing when the budget cannot cover it.
func (l *Ledger) Spend(c *league.Club, amount int64) error {
	if amount > c.Budget {
		return fmt.Errorf("spend %d with budget %d: %w", amount, c.Budget, ErrInsufficientFunds)
	}
	c.Budget -= amount
	return nil
}

func (l *Ledger) repaymentRate(level league.Level) float64 {
	switch level {
	case league.High:
		return l.cfg.AggressiveRepaymentRate
	case league.Medium:
		return l.cfg.SteadyRepaymentRate
	}
	return 0
}

func commercial(c *league.Club) float64 {
	if c.CommercialLevel <= 0 {
		return 1
	}
	return c.CommercialLevel
}

func pricingMultiple(level league.Level) float64 {
	switch level {
	case league.Low:
		return 0.8
	case league.High:
		return 1.4
	}
	return 1
}

func pricingDemand(level league.Level) float64 {
	switch level {
	case league.Low:
		return 1.05
	case league.High:
		return 0.82
	}
	return 0.95
}

func focusMultiple(level league.Level) float64 {
	switch level {
	case league.Low:
		return 0.8
	case league.High:
		return 1.3
	}
	return 1
}
