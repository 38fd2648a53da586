package trip

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository loads trip ledgers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Snapshot reads every ledger record scoped to a trip. An unknown trip id
// yields an empty snapshot rather than an error; the engine resolves that to
// empty results.
func (r *Repository) Snapshot(ctx context.Context, tripID uuid.UUID) (Snapshot, error) {
	snap := Snapshot{TripID: tripID}

	rows, err := r.pool.Query(ctx, `SELECT id, trip_id, name FROM participants WHERE trip_id = $1 ORDER BY created_at`, tripID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("trip: query participants: %w", err)
	}
	for rows.Next() {
		var p Participant
		if err := rows.Scan(&p.ID, &p.TripID, &p.Name); err != nil {
			rows.Close()
			return Snapshot{}, fmt.Errorf("trip: scan participant: %w", err)
		}
		snap.Participants = append(snap.Participants, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("trip: participants: %w", err)
	}

	rows, err = r.pool.Query(ctx, `SELECT id, trip_id, payer_participant_id, total FROM receipts WHERE trip_id = $1 ORDER BY created_at`, tripID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("trip: query receipts: %w", err)
	}
	for rows.Next() {
		var rec Receipt
		if err := rows.Scan(&rec.ID, &rec.TripID, &rec.PayerID, &rec.Total); err != nil {
			rows.Close()
			return Snapshot{}, fmt.Errorf("trip: scan receipt: %w", err)
		}
		snap.Receipts = append(snap.Receipts, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("trip: receipts: %w", err)
	}

	rows, err = r.pool.Query(ctx, `SELECT rp.receipt_id, rp.participant_id, rp.amount
FROM receipt_payments rp
JOIN receipts r ON r.id = rp.receipt_id
WHERE r.trip_id = $1 AND rp.deleted_at IS NULL
ORDER BY rp.created_at`, tripID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("trip: query receipt payments: %w", err)
	}
	for rows.Next() {
		var rp ReceiptPayment
		if err := rows.Scan(&rp.ReceiptID, &rp.ParticipantID, &rp.Amount); err != nil {
			rows.Close()
			return Snapshot{}, fmt.Errorf("trip: scan receipt payment: %w", err)
		}
		snap.ReceiptPayments = append(snap.ReceiptPayments, rp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("trip: receipt payments: %w", err)
	}

	rows, err = r.pool.Query(ctx, `SELECT li.id, li.receipt_id, li.description, li.amount
FROM line_items li
JOIN receipts r ON r.id = li.receipt_id
WHERE r.trip_id = $1
ORDER BY li.created_at`, tripID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("trip: query line items: %w", err)
	}
	for rows.Next() {
		var li LineItem
		if err := rows.Scan(&li.ID, &li.ReceiptID, &li.Description, &li.Amount); err != nil {
			rows.Close()
			return Snapshot{}, fmt.Errorf("trip: scan line item: %w", err)
		}
		snap.LineItems = append(snap.LineItems, li)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("trip: line items: %w", err)
	}

	rows, err = r.pool.Query(ctx, `SELECT ia.line_item_id, ia.participant_id, ia.share
FROM item_assignments ia
JOIN line_items li ON li.id = ia.line_item_id
JOIN receipts r ON r.id = li.receipt_id
WHERE r.trip_id = $1
ORDER BY ia.created_at`, tripID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("trip: query item assignments: %w", err)
	}
	for rows.Next() {
		var ia ItemAssignment
		if err := rows.Scan(&ia.LineItemID, &ia.ParticipantID, &ia.Share); err != nil {
			rows.Close()
			return Snapshot{}, fmt.Errorf("trip: scan item assignment: %w", err)
		}
		snap.ItemAssignments = append(snap.ItemAssignments, ia)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("trip: item assignments: %w", err)
	}

	rows, err = r.pool.Query(ctx, `SELECT from_participant_id, to_participant_id, amount FROM direct_payments WHERE trip_id = $1 ORDER BY created_at`, tripID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("trip: query direct payments: %w", err)
	}
	for rows.Next() {
		var dt DirectTransfer
		if err := rows.Scan(&dt.FromID, &dt.ToID, &dt.Amount); err != nil {
			rows.Close()
			return Snapshot{}, fmt.Errorf("trip: scan direct payment: %w", err)
		}
		snap.DirectTransfers = append(snap.DirectTransfers, dt)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return Snapshot{}, fmt.Errorf("trip: direct payments: %w", err)
	}

	return snap, nil
}
