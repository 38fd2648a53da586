// Package settlement holds the ledger reconciliation engine: a pure
// computation that nets a trip's ledger into one balance per participant and
// reduces those balances to a short list of settling payments. It performs
// no I/O and keeps no state between calls; concurrent invocations are safe.
package settlement

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Balance is a participant's net position. Positive means the group owes
// them money, negative means they owe the group.
type Balance struct {
	ParticipantID uuid.UUID
	Amount        decimal.Decimal
}

// Settlement is a directed payment instruction: FromID pays ToID.
type Settlement struct {
	FromID uuid.UUID
	ToID   uuid.UUID
	Amount decimal.Decimal
}

// deadZone is the band around zero treated as already settled. Residue from
// 2-decimal rounding lands inside it; suppressing it avoids noise payments.
var deadZone = decimal.RequireFromString("0.01")
