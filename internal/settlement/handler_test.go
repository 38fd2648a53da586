package settlement

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripsplit/tripsplit/internal/trip"
)

func newTestHandler(source SnapshotSource) http.Handler {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	handler := NewHandler(logger, NewService(source))
	r := chi.NewRouter()
	r.Route("/trips", handler.MountRoutes)
	return r
}

func TestHandlerGetBalances(t *testing.T) {
	tripID := uuid.New()
	a, b := uuid.New(), uuid.New()
	receipt, item := uuid.New(), uuid.New()
	source := &stubSource{snap: trip.Snapshot{
		TripID:       tripID,
		Participants: participants(tripID, a, b),
		Receipts:     []trip.Receipt{{ID: receipt, TripID: tripID}},
		ReceiptPayments: []trip.ReceiptPayment{
			{ReceiptID: receipt, ParticipantID: a, Amount: dec(t, "100.00")},
		},
		LineItems: []trip.LineItem{{ID: item, ReceiptID: receipt, Amount: dec(t, "100.00")}},
		ItemAssignments: []trip.ItemAssignment{
			{LineItemID: item, ParticipantID: a, Share: dec(t, "1")},
			{LineItemID: item, ParticipantID: b, Share: dec(t, "1")},
		},
	}}

	rec := httptest.NewRecorder()
	newTestHandler(source).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips/"+tripID.String()+"/balances", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []balanceDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 2)
	assert.Equal(t, a.String(), body[0].ParticipantID)
	assert.InDelta(t, 50.0, body[0].Amount, 0.001)
	assert.InDelta(t, -50.0, body[1].Amount, 0.001)
}

func TestHandlerGetSettlements(t *testing.T) {
	tripID := uuid.New()
	a, b := uuid.New(), uuid.New()
	source := &stubSource{snap: trip.Snapshot{
		TripID:       tripID,
		Participants: participants(tripID, a, b),
		DirectTransfers: []trip.DirectTransfer{
			{FromID: b, ToID: a, Amount: dec(t, "25.00")},
		},
	}}

	rec := httptest.NewRecorder()
	newTestHandler(source).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips/"+tripID.String()+"/settlements", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []settlementDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, a.String(), body[0].FromID)
	assert.Equal(t, b.String(), body[0].ToID)
	assert.InDelta(t, 25.0, body[0].Amount, 0.001)
}

func TestHandlerRejectsBadTripID(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestHandler(&stubSource{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/trips/not-a-uuid/balances", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
