package exchange

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Repository persists exchange rates in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Lookup finds a stored rate for the pair and date. Returns
// ErrRateUnavailable when no row exists.
func (r *Repository) Lookup(ctx context.Context, from, to string, day time.Time) (Rate, error) {
	row := r.pool.QueryRow(ctx, `SELECT from_currency, to_currency, rate_date, rate, source
FROM exchange_rate_cache
WHERE from_currency = $1 AND to_currency = $2 AND rate_date = $3`, from, to, day)
	var rate Rate
	if err := row.Scan(&rate.From, &rate.To, &rate.Date, &rate.Rate, &rate.Source); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Rate{}, ErrRateUnavailable
		}
		return Rate{}, fmt.Errorf("exchange: lookup rate: %w", err)
	}
	return rate, nil
}

// Save stores a rate, replacing any existing row for the same pair and date.
func (r *Repository) Save(ctx context.Context, rate Rate) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO exchange_rate_cache (from_currency, to_currency, rate_date, rate, source)
VALUES ($1,$2,$3,$4,$5)`, rate.From, rate.To, rate.Date, rate.Rate, rate.Source)
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return fmt.Errorf("exchange: insert rate: %w", err)
	}
	_, err = r.pool.Exec(ctx, `UPDATE exchange_rate_cache SET rate = $4, source = $5
WHERE from_currency = $1 AND to_currency = $2 AND rate_date = $3`, rate.From, rate.To, rate.Date, rate.Rate, rate.Source)
	if err != nil {
		return fmt.Errorf("exchange: update rate: %w", err)
	}
	return nil
}
