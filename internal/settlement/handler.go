package settlement

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripsplit/tripsplit/internal/platform/httpx"
)

// Handler serves balance and settlement endpoints.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers trip settlement routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{tripID}/balances", h.getBalances)
	r.Get("/{tripID}/settlements", h.getSettlements)
}

type balanceDTO struct {
	ParticipantID string  `json:"participant_id"`
	Amount        float64 `json:"amount"`
}

type settlementDTO struct {
	FromID string  `json:"from_id"`
	ToID   string  `json:"to_id"`
	Amount float64 `json:"amount"`
}

func (h *Handler) getBalances(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Trip ID", "trip id must be a UUID")
		return
	}
	balances, err := h.service.Balances(r.Context(), tripID)
	if err != nil {
		h.logger.Error("calculate balances", slog.String("trip_id", tripID.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]balanceDTO, 0, len(balances))
	for _, b := range balances {
		out = append(out, balanceDTO{ParticipantID: b.ParticipantID.String(), Amount: b.Amount.InexactFloat64()})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *Handler) getSettlements(w http.ResponseWriter, r *http.Request) {
	tripID, err := uuid.Parse(chi.URLParam(r, "tripID"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Trip ID", "trip id must be a UUID")
		return
	}
	settlements, err := h.service.Settlements(r.Context(), tripID)
	if err != nil {
		h.logger.Error("calculate settlements", slog.String("trip_id", tripID.String()), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	out := make([]settlementDTO, 0, len(settlements))
	for _, s := range settlements {
		out = append(out, settlementDTO{FromID: s.FromID.String(), ToID: s.ToID.String(), Amount: s.Amount.InexactFloat64()})
	}
	httpx.JSON(w, http.StatusOK, out)
}
