package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/tripsplit/tripsplit/internal/exchange"
	"github.com/tripsplit/tripsplit/internal/observability"
	"github.com/tripsplit/tripsplit/internal/receiptscan"
	"github.com/tripsplit/tripsplit/internal/settlement"
	"github.com/tripsplit/tripsplit/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger             *slog.Logger
	Config             *Config
	SettlementHandler  *settlement.Handler
	ExchangeHandler    *exchange.Handler
	ReceiptScanHandler *receiptscan.Handler
	JobHandler         *jobs.Handler
	Metrics            *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok","service":"tripsplit-api"}`))
	})

	if params.SettlementHandler != nil {
		r.Route("/trips", params.SettlementHandler.MountRoutes)
	}
	if params.ExchangeHandler != nil {
		r.Route("/exchange-rate", params.ExchangeHandler.MountRoutes)
	}
	if params.ReceiptScanHandler != nil {
		r.Route("/receipts", params.ReceiptScanHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
