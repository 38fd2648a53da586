package settlement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tripsplit/tripsplit/internal/trip"
)

// ComputeBalances nets the ledger snapshot into one balance per participant.
// Every participant in the snapshot gets an entry, including those with no
// activity. Amounts stay exact decimals throughout and are rounded to two
// places, half up, only at the end.
//
// Dangling references (payments by unknown participants, assignments against
// unknown line items) contribute nothing; partially entered trips must still
// compute.
func ComputeBalances(snap trip.Snapshot) map[uuid.UUID]decimal.Decimal {
	balances := make(map[uuid.UUID]decimal.Decimal, len(snap.Participants))
	for _, p := range snap.Participants {
		balances[p.ID] = decimal.Zero
	}

	paymentsByReceipt := make(map[uuid.UUID][]trip.ReceiptPayment)
	for _, rp := range snap.ReceiptPayments {
		paymentsByReceipt[rp.ReceiptID] = append(paymentsByReceipt[rp.ReceiptID], rp)
	}

	lineItems := make(map[uuid.UUID]trip.LineItem, len(snap.LineItems))
	for _, li := range snap.LineItems {
		lineItems[li.ID] = li
	}

	// Credit payers. Receipts with payment rows credit each contributor;
	// otherwise the legacy single-payer columns credit the full total. A
	// receipt with neither is skipped: unattributed money is not fabricated
	// into the ledger.
	for _, rec := range snap.Receipts {
		if payments := paymentsByReceipt[rec.ID]; len(payments) > 0 {
			for _, p := range payments {
				if bal, ok := balances[p.ParticipantID]; ok {
					balances[p.ParticipantID] = bal.Add(p.Amount)
				}
			}
			continue
		}
		if rec.PayerID != nil && rec.Total != nil {
			if bal, ok := balances[*rec.PayerID]; ok {
				balances[*rec.PayerID] = bal.Add(*rec.Total)
			}
		}
	}

	// Debit assigned consumption. Total shares are re-derived per assignment
	// so sparse or partial assignment sets still divide correctly.
	for _, a := range snap.ItemAssignments {
		bal, ok := balances[a.ParticipantID]
		if !ok {
			continue
		}
		li, ok := lineItems[a.LineItemID]
		if !ok {
			continue
		}
		total := totalShares(snap.ItemAssignments, a.LineItemID)
		if total.IsPositive() {
			portion := li.Amount.Mul(a.Share).Div(total)
			balances[a.ParticipantID] = bal.Sub(portion)
		}
	}

	// Debit unassigned consumption. A line item with zero total shares (no
	// assignment rows, or all shares zero) splits evenly across the whole
	// trip.
	if len(snap.Participants) > 0 {
		count := decimal.NewFromInt(int64(len(snap.Participants)))
		for _, li := range snap.LineItems {
			if totalShares(snap.ItemAssignments, li.ID).IsPositive() {
				continue
			}
			perHead := li.Amount.Div(count)
			for _, p := range snap.Participants {
				balances[p.ID] = balances[p.ID].Sub(perHead)
			}
		}
	}

	// Direct transfers compose like receipts: the sender paid into the
	// ledger, the recipient consumed that value.
	for _, dt := range snap.DirectTransfers {
		if bal, ok := balances[dt.FromID]; ok {
			balances[dt.FromID] = bal.Add(dt.Amount)
		}
		if bal, ok := balances[dt.ToID]; ok {
			balances[dt.ToID] = bal.Sub(dt.Amount)
		}
	}

	for id, bal := range balances {
		balances[id] = bal.Round(2)
	}
	return balances
}

func totalShares(assignments []trip.ItemAssignment, lineItemID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, a := range assignments {
		if a.LineItemID == lineItemID {
			total = total.Add(a.Share)
		}
	}
	return total
}
