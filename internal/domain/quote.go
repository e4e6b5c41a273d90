package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is one price observation for a symbol. Produced only by a
// successful upstream call; the price keeps the exact decimal digits
// the exchange sent.
type Quote struct {
	Symbol    string
	Price     decimal.Decimal
	FetchedAt time.Time
}

// PriceResult is the successful outcome of one upstream fetch: the
// quote plus what the call itself looked like on the wire.
type PriceResult struct {
	Quote    Quote
	Status   int
	Latency  time.Duration
	Endpoint string
}
