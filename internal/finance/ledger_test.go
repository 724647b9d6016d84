package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/entropy"
	"github.com/talgya/touchline/internal/league"
)

func club() *league.Club {
	c := &league.Club{
		ID: "c", Name: "Harbor", Reputation: 64, Budget: 5_000_000,
		FanHappiness: 60, Fanbase: 100_000, CommercialLevel: 1,
		Facilities: league.Facilities{Stadium: 3, MedicalCenter: 2, TrainingGround: 2, YouthAcademy: 2},
		Strategy:   league.FinanceStrategy{TicketPricing: league.Medium, DebtRepayment: league.Medium, MerchandiseFocus: league.Medium},
	}
	c.AddPlayer(&league.Player{ID: "p1", Salary: 3_650_000})
	c.AddPlayer(&league.Player{ID: "p2", Salary: 365_000})
	return c
}

func TestWagesDebitedDaily(t *testing.T) {
	l := NewLedger(DefaultConfig())
	c := club()
	c.Reputation = 1
	c.Fanbase = 0
	before := c.Budget
	st := l.SettleDay(c, DayContext{Date: calendar.MustParse("2025-03-03")}, entropy.NewSequence(0.99))
	assert.Equal(t, int64(11_000), st.Wages)
	assert.Equal(t, before+st.Net(), c.Budget)
	assert.Zero(t, st.Gate)
}

func TestHomeMatchEarnsGateAndMerchMultiple(t *testing.T) {
	l := NewLedger(DefaultConfig())
	rest := l.SettleDay(club(), DayContext{}, entropy.NewSequence(0.99))
	match := l.SettleDay(club(), DayContext{MatchDay: true, HomeMatch: true}, entropy.NewSequence(0.99))
	assert.Positive(t, match.Gate)
	assert.Positive(t, match.Attendance)
	assert.LessOrEqual(t, match.Attendance, 27000)
	assert.Equal(t, rest.Merchandise*4, match.Merchandise)
}

func TestRoleBonusRaisesGate(t *testing.T) {
	l := NewLedger(DefaultConfig())
	plain := l.SettleDay(club(), DayContext{HomeMatch: true}, entropy.NewSequence(0.99))
	c := club()
	c.RoleEffects.MatchRevenue = 0.5
	boosted := l.SettleDay(c, DayContext{HomeMatch: true}, entropy.NewSequence(0.99))
	assert.Greater(t, boosted.Gate, plain.Gate)
}

func TestDebtInterestAndRepayment(t *testing.T) {
	l := NewLedger(DefaultConfig())
	c := club()
	c.Debt = 10_000_000
	c.Budget = 50_000_000
	st := l.SettleDay(c, DayContext{}, entropy.NewSequence(0.99))
	assert.Positive(t, st.Interest)
	assert.Positive(t, st.Repayment)
	assert.Equal(t, int64(10_000_000)+st.Interest-st.Repayment, c.Debt)

	none := club()
	none.Strategy.DebtRepayment = league.Low
	none.Debt = 10_000_000
	none.Budget = 50_000_000
	st = l.SettleDay(none, DayContext{}, entropy.NewSequence(0.99))
	assert.Zero(t, st.Repayment)
}

func TestNoRepaymentBelowReserve(t *testing.T) {
	l := NewLedger(DefaultConfig())
	c := club()
	c.Debt = 1_000_000
	c.Budget = -100
	st := l.SettleDay(c, DayContext{}, entropy.NewSequence(0.99))
	assert.Zero(t, st.Repayment)
}

func TestMarketingBoost(t *testing.T) {
	l := NewLedger(DefaultConfig())
	c := club()
	c.Strategy.MarketingSpend = 100_000
	st := l.SettleDay(c, DayContext{}, entropy.NewSequence(0.01))
	assert.True(t, st.MarketingBoost)
	assert.Equal(t, 101_000, c.Fanbase)
	assert.InDelta(t, 1.01, c.CommercialLevel, 1e-9)
}

func TestSpend(t *testing.T) {
	l := NewLedger(DefaultConfig())
	c := club()
	require.NoError(t, l.Spend(c, 1_000_000))
	assert.Equal(t, int64(4_000_000), c.Budget)
	assert.ErrorIs(t, l.Spend(c, 10_000_000), ErrInsufficientFunds)
	assert.Equal(t, int64(4_000_000), c.Budget)
}

func TestInstallmentsConserveMoney(t *testing.T) {
	l := NewLedger(DefaultConfig())
	buyer, seller := club(), club()
	seller.ID = "s"
	start := calendar.MustParse("2025-07-01")
	Schedule(buyer, seller.ID, 1_000_001, 3, start, "Ada")
	require.Len(t, buyer.Installments, 3)

	lookup := func(id league.ClubID) (*league.Club, bool) {
		if id == seller.ID {
			return seller, true
		}
		return nil, false
	}
	total := buyer.Budget + seller.Budget
	paid, missing := l.PayInstallments(buyer, start.AddDays(60), lookup)
	assert.Len(t, paid, 2)
	assert.Empty(t, missing)
	assert.Len(t, buyer.Installments, 1)
	assert.Equal(t, total, buyer.Budget+seller.Budget)
	assert.Equal(t, int64(333_335), buyer.Installments[0].Amount)

	buyer.Installments[0].PayeeID = "gone"
	_, missing = l.PayInstallments(buyer, start.AddDays(90), lookup)
	assert.Equal(t, []league.ClubID{"gone"}, missing)
	assert.Len(t, buyer.Installments, 1)
}
