package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tripsplit/tripsplit/internal/exchange"
	jobmetrics "github.com/tripsplit/tripsplit/internal/jobs"
)

// RatesWarmupJob pre-fetches today's exchange rates for configured pairs so
// interactive requests hit a warm cache.
type RatesWarmupJob struct {
	Exchange *exchange.Service
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
	clock    func() time.Time
}

// NewRatesWarmupJob wires dependencies for the warmup handler.
func NewRatesWarmupJob(exchangeSvc *exchange.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *RatesWarmupJob {
	return &RatesWarmupJob{
		Exchange: exchangeSvc,
		Logger:   logger,
		Metrics:  metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes TaskRatesWarmup tasks. Warming is best effort: a pair
// that fails to resolve is logged and skipped, not retried.
func (j *RatesWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Exchange == nil {
		return errors.New("rates warmup: handler not configured")
	}
	tracker := j.Metrics.Track(TaskRatesWarmup)

	var payload RatesWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return tracker.End(asynq.SkipRetry)
	}

	today := j.clock()
	warmed := 0
	for _, pair := range payload.Pairs {
		quote, err := j.Exchange.Rate(ctx, pair[0], pair[1], today)
		if err != nil {
			j.Logger.Warn("rate warmup pair failed",
				slog.String("from", pair[0]),
				slog.String("to", pair[1]),
				slog.Any("error", err))
			continue
		}
		if !quote.Cached {
			warmed++
			j.Metrics.AddWarmedPairs(pair[1], 1)
		}
	}
	j.Logger.Info("rates warmup finished",
		slog.Int("pairs", len(payload.Pairs)),
		slog.Int("fetched", warmed))
	return tracker.End(nil)
}
