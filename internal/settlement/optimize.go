package settlement

import (
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type party struct {
	id     uuid.UUID
	amount decimal.Decimal
}

// Optimize reduces a balance map to payments that zero every balance, by
// repeatedly matching the largest remaining creditor against the largest
// remaining debtor. It emits at most n-1 payments for n unsettled
// participants; the matching is a practical heuristic, not a proven minimum.
//
// Participants with equal balances may be matched in any order between runs;
// only the aggregate outcome is part of the contract.
func Optimize(balances map[uuid.UUID]decimal.Decimal) []Settlement {
	var creditors, debtors []party
	for id, bal := range balances {
		rounded := bal.Round(2)
		switch {
		case rounded.GreaterThan(deadZone):
			creditors = append(creditors, party{id: id, amount: rounded})
		case rounded.LessThan(deadZone.Neg()):
			debtors = append(debtors, party{id: id, amount: rounded.Neg()})
		}
	}

	var settlements []Settlement
	for len(creditors) > 0 && len(debtors) > 0 {
		sort.SliceStable(creditors, func(i, j int) bool {
			return creditors[i].amount.GreaterThan(creditors[j].amount)
		})
		sort.SliceStable(debtors, func(i, j int) bool {
			return debtors[i].amount.GreaterThan(debtors[j].amount)
		})

		creditor := creditors[0]
		debtor := debtors[0]

		settle := decimal.Min(creditor.amount, debtor.amount)
		if settle.GreaterThan(deadZone) {
			settlements = append(settlements, Settlement{
				FromID: debtor.id,
				ToID:   creditor.id,
				Amount: settle.Round(2),
			})
		}

		creditors = creditors[1:]
		if remaining := creditor.amount.Sub(settle); remaining.GreaterThan(deadZone) {
			creditors = append(creditors, party{id: creditor.id, amount: remaining})
		}
		debtors = debtors[1:]
		if remaining := debtor.amount.Sub(settle); remaining.GreaterThan(deadZone) {
			debtors = append(debtors, party{id: debtor.id, amount: remaining})
		}
	}
	return settlements
}
