package settlement

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tripsplit/tripsplit/internal/trip"
)

// SnapshotSource supplies the ledger for one trip.
type SnapshotSource interface {
	Snapshot(ctx context.Context, tripID uuid.UUID) (trip.Snapshot, error)
}

// Service runs the reconciliation engine over fetched snapshots.
type Service struct {
	source SnapshotSource
}

// NewService constructs the settlement service.
func NewService(source SnapshotSource) *Service {
	return &Service{source: source}
}

// Balances returns one balance per participant, in snapshot order.
func (s *Service) Balances(ctx context.Context, tripID uuid.UUID) ([]Balance, error) {
	if s == nil || s.source == nil {
		return nil, errors.New("settlement: snapshot source not configured")
	}
	snap, err := s.source.Snapshot(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("settlement: fetch snapshot: %w", err)
	}
	balances := ComputeBalances(snap)
	out := make([]Balance, 0, len(snap.Participants))
	for _, p := range snap.Participants {
		out = append(out, Balance{ParticipantID: p.ID, Amount: balances[p.ID]})
	}
	return out, nil
}

// Settlements returns payments that settle every balance in the trip.
func (s *Service) Settlements(ctx context.Context, tripID uuid.UUID) ([]Settlement, error) {
	if s == nil || s.source == nil {
		return nil, errors.New("settlement: snapshot source not configured")
	}
	snap, err := s.source.Snapshot(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("settlement: fetch snapshot: %w", err)
	}
	return Optimize(ComputeBalances(snap)), nil
}
