// Package trip defines the typed ledger records for one trip and the
// repository that materialises them from Postgres. Raw rows become these
// structs here, at the boundary; downstream packages never see loose maps.
package trip

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Participant is a member of a trip.
type Participant struct {
	ID     uuid.UUID
	TripID uuid.UUID
	Name   string
}

// Receipt is one purchase in the trip ledger. PayerID and Total are the
// legacy single-payer columns, kept for receipts recorded before multi-payer
// support; they are only consulted when a receipt has no ReceiptPayment rows.
type Receipt struct {
	ID      uuid.UUID
	TripID  uuid.UUID
	PayerID *uuid.UUID
	Total   *decimal.Decimal
}

// ReceiptPayment is one participant's contribution toward a receipt.
// A receipt may have several of these (multi-payer).
type ReceiptPayment struct {
	ReceiptID     uuid.UUID
	ParticipantID uuid.UUID
	Amount        decimal.Decimal
}

// LineItem is a consumable charge belonging to a receipt.
type LineItem struct {
	ID          uuid.UUID
	ReceiptID   uuid.UUID
	Description string
	Amount      decimal.Decimal
}

// ItemAssignment gives a participant a weighted share of a line item.
// The owed portion is amount * share / sum(shares on the item).
type ItemAssignment struct {
	LineItemID    uuid.UUID
	ParticipantID uuid.UUID
	Share         decimal.Decimal
}

// DirectTransfer is a peer-to-peer payment outside any receipt.
type DirectTransfer struct {
	FromID uuid.UUID
	ToID   uuid.UUID
	Amount decimal.Decimal
}

// Snapshot is the full ledger for one trip, read in one pass and treated as
// immutable by everything downstream.
type Snapshot struct {
	TripID          uuid.UUID
	Participants    []Participant
	Receipts        []Receipt
	ReceiptPayments []ReceiptPayment
	LineItems       []LineItem
	ItemAssignments []ItemAssignment
	DirectTransfers []DirectTransfer
}
