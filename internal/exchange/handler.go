package exchange

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/tripsplit/tripsplit/internal/platform/httpx"
)

// Handler serves exchange rate endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers exchange rate routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.getRate)
	r.Post("/", h.createOverride)
}

type quoteDTO struct {
	Rate   float64 `json:"rate"`
	Source string  `json:"source"`
	Cached bool    `json:"cached"`
}

type overrideRequest struct {
	FromCurrency string  `json:"from_currency" validate:"required,iso4217"`
	ToCurrency   string  `json:"to_currency" validate:"required,iso4217"`
	Rate         float64 `json:"rate" validate:"required,gt=0"`
	Date         string  `json:"date" validate:"required,datetime=2006-01-02"`
}

func (h *Handler) getRate(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	rawDate := r.URL.Query().Get("date")
	if from == "" || to == "" || rawDate == "" {
		httpx.Problem(w, http.StatusBadRequest, "Missing Parameters", "from, to and date are required")
		return
	}
	day, err := time.Parse("2006-01-02", rawDate)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", "date must be formatted YYYY-MM-DD")
		return
	}

	quote, err := h.service.Rate(r.Context(), from, to, day)
	switch {
	case errors.Is(err, ErrInvalidCurrency):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Currency", err.Error())
		return
	case errors.Is(err, ErrRateUnavailable):
		httpx.Problem(w, http.StatusNotFound, "Rate Unavailable", err.Error())
		return
	case err != nil:
		h.logger.Error("resolve rate", slog.String("from", from), slog.String("to", to), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quoteDTO{Rate: quote.Rate, Source: quote.Source, Cached: quote.Cached})
}

func (h *Handler) createOverride(w http.ResponseWriter, r *http.Request) {
	var req overrideRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Body", "request body must be valid JSON")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	day, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Date", "date must be formatted YYYY-MM-DD")
		return
	}

	quote, err := h.service.Override(r.Context(), req.FromCurrency, req.ToCurrency, req.Rate, day)
	switch {
	case errors.Is(err, ErrInvalidCurrency):
		httpx.Problem(w, http.StatusBadRequest, "Invalid Currency", err.Error())
		return
	case err != nil:
		h.logger.Error("save manual rate", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, quoteDTO{Rate: quote.Rate, Source: quote.Source, Cached: quote.Cached})
}
