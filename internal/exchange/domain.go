// Package exchange resolves currency exchange rates for a given day, reading
// through a Redis cache and a Postgres store before falling back to the
// public frankfurter.app API.
package exchange

import (
	"errors"
	"time"
)

// Rate sources recorded in the store.
const (
	SourceFrankfurter = "frankfurter"
	SourceManual      = "manual"
)

// Rate is one stored exchange rate for a currency pair on a date.
type Rate struct {
	From   string
	To     string
	Date   time.Time
	Rate   float64
	Source string
}

// Quote is a resolved rate plus where it came from.
type Quote struct {
	Rate   float64
	Source string
	Cached bool
}

// Sentinel errors for the exchange domain.
var (
	ErrRateUnavailable = errors.New("exchange: rate unavailable")
	ErrInvalidCurrency = errors.New("exchange: invalid currency code")
)
