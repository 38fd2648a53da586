package exchange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/currency"
)

// RateStore abstracts the Postgres rate repository.
type RateStore interface {
	Lookup(ctx context.Context, from, to string, day time.Time) (Rate, error)
	Save(ctx context.Context, rate Rate) error
}

// RateAPI abstracts the public rate provider.
type RateAPI interface {
	Rate(ctx context.Context, from, to string, day time.Time) (float64, error)
}

// Service resolves rates cache-first and records fetched rates for reuse.
type Service struct {
	store  RateStore
	cache  *Cache
	api    RateAPI
	logger *slog.Logger
	group  singleflight.Group
}

// NewService constructs the exchange service.
func NewService(store RateStore, cache *Cache, api RateAPI, logger *slog.Logger) *Service {
	return &Service{store: store, cache: cache, api: api, logger: logger}
}

func normalizePair(from, to string) (string, string, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if _, err := currency.ParseISO(from); err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidCurrency, from)
	}
	if _, err := currency.ParseISO(to); err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrInvalidCurrency, to)
	}
	return from, to, nil
}

// Rate resolves the pair for a day: Redis, then Postgres, then the public
// API, persisting on the way back. Concurrent lookups of the same key share
// one resolution.
func (s *Service) Rate(ctx context.Context, from, to string, day time.Time) (Quote, error) {
	from, to, err := normalizePair(from, to)
	if err != nil {
		return Quote{}, err
	}
	day = day.Truncate(24 * time.Hour)

	key := cacheKey(from, to, day)
	resultCh := s.group.DoChan(key, func() (interface{}, error) {
		return s.resolve(ctx, from, to, day)
	})
	select {
	case <-ctx.Done():
		return Quote{}, ctx.Err()
	case res := <-resultCh:
		if res.Err != nil {
			return Quote{}, res.Err
		}
		return res.Val.(Quote), nil
	}
}

func (s *Service) resolve(ctx context.Context, from, to string, day time.Time) (Quote, error) {
	if cached, hit, err := s.cache.Get(ctx, from, to, day); err != nil {
		s.logger.Warn("rate cache read failed", slog.Any("error", err))
	} else if hit {
		return Quote{Rate: cached.Rate, Source: cached.Source, Cached: true}, nil
	}

	stored, err := s.store.Lookup(ctx, from, to, day)
	if err == nil {
		if err := s.cache.Set(ctx, stored); err != nil {
			s.logger.Warn("rate cache write failed", slog.Any("error", err))
		}
		return Quote{Rate: stored.Rate, Source: stored.Source, Cached: true}, nil
	}
	if !errors.Is(err, ErrRateUnavailable) {
		return Quote{}, err
	}

	value, err := s.api.Rate(ctx, from, to, day)
	if err != nil {
		return Quote{}, err
	}
	rate := Rate{From: from, To: to, Date: day, Rate: value, Source: SourceFrankfurter}
	if err := s.store.Save(ctx, rate); err != nil {
		s.logger.Warn("rate store write failed", slog.Any("error", err))
	}
	if err := s.cache.Set(ctx, rate); err != nil {
		s.logger.Warn("rate cache write failed", slog.Any("error", err))
	}
	return Quote{Rate: value, Source: SourceFrankfurter, Cached: false}, nil
}

// Override stores a manual rate, replacing whatever the pair and date held.
func (s *Service) Override(ctx context.Context, from, to string, value float64, day time.Time) (Quote, error) {
	from, to, err := normalizePair(from, to)
	if err != nil {
		return Quote{}, err
	}
	day = day.Truncate(24 * time.Hour)

	rate := Rate{From: from, To: to, Date: day, Rate: value, Source: SourceManual}
	if err := s.store.Save(ctx, rate); err != nil {
		return Quote{}, err
	}
	if err := s.cache.Set(ctx, rate); err != nil {
		s.logger.Warn("rate cache write failed", slog.Any("error", err))
	}
	return Quote{Rate: value, Source: SourceManual, Cached: false}, nil
}
