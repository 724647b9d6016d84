package finance

import (
	"github.com/talgya/touchline/internal/calendar"
	"github.com/talgya/touchline/internal/league"
)

// Payment is one settled installment.
type Payment struct {
	Payer  league.ClubID
	Payee  league.ClubID
	Amount int64
	Player string
}

// Schedule splits a deferred amount into monthly installments owed by payer,
// the first due one month after start. Any remainder goes on the last one.
func Schedule(payer *league.Club, payee league.ClubID, total int64, months int, start calendar.Date, player string) {
	if total <= 0 {
		return
	}
	if months < 1 {
		months = 1
	}
	each := total / int64(months)
	for i := 1; i <= months; i++ {
		amount := each
		if i == months {
			amount = total - each*int64(months-1)
		}
		payer.Installments = append(payer.Installments, league.Installment{
			PayeeID: payee,
			Amount:  amount,
			Due:     start.AddDays(30 * i),
			Player:  player,
		})
	}
}

// PayInstallments settles every installment c owes that is due by date.
// Each payment debits c and credits the payee together. Installments whose
// payee cannot be found stay pending and the payee ids are returned.
func (l *Ledger) PayInstallments(c *league.Club, date calendar.Date, lookup func(league.ClubID) (*league.Club, bool)) ([]Payment, []league.ClubID) {
	var paid []Payment
	var missing []league.ClubID
	pending := c.Installments[:0]
	for _, inst := range c.Installments {
		if inst.Due.After(date) {
			pending = append(pending, inst)
			continue
		}
		payee, ok := lookup(inst.PayeeID)
		if !ok {
			pending = append(pending, inst)
			missing = append(missing, inst.PayeeID)
			continue
		}
		c.Budget -= inst.Amount
		payee.Budget += inst.Amount
		paid = append(paid, Payment{Payer: c.ID, Payee: payee.ID, Amount: inst.Amount, Player: inst.Player})
	}
	c.Installments = pending
	return paid, missing
}
