package settlement

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripsplit/tripsplit/internal/trip"
)

type stubSource struct {
	snap  trip.Snapshot
	err   error
	calls int
}

func (s *stubSource) Snapshot(ctx context.Context, tripID uuid.UUID) (trip.Snapshot, error) {
	s.calls++
	return s.snap, s.err
}

func TestServiceBalancesKeepsSnapshotOrder(t *testing.T) {
	tripID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	receipt := uuid.New()
	source := &stubSource{snap: trip.Snapshot{
		TripID:       tripID,
		Participants: participants(tripID, a, b, c),
		Receipts:     []trip.Receipt{{ID: receipt, TripID: tripID}},
		ReceiptPayments: []trip.ReceiptPayment{
			{ReceiptID: receipt, ParticipantID: b, Amount: dec(t, "30.00")},
		},
	}}
	svc := NewService(source)

	balances, err := svc.Balances(context.Background(), tripID)
	require.NoError(t, err)
	require.Len(t, balances, 3)
	assert.Equal(t, a, balances[0].ParticipantID)
	assert.Equal(t, b, balances[1].ParticipantID)
	assert.Equal(t, c, balances[2].ParticipantID)
	assert.True(t, balances[1].Amount.Equal(dec(t, "30.00")))
}

func TestServiceSettlementsPropagatesFetchError(t *testing.T) {
	source := &stubSource{err: errors.New("store offline")}
	svc := NewService(source)

	_, err := svc.Settlements(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorContains(t, err, "fetch snapshot")
}

func TestServiceBalancesEmptyTrip(t *testing.T) {
	source := &stubSource{snap: trip.Snapshot{TripID: uuid.New()}}
	svc := NewService(source)

	balances, err := svc.Balances(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Empty(t, balances)
}

func TestServiceWithoutSourceFails(t *testing.T) {
	svc := NewService(nil)
	_, err := svc.Balances(context.Background(), uuid.New())
	require.Error(t, err)
}
