package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditRecord is the immutable account of one handled request. It is
// written exactly once, after the response has gone out, and never
// mutated or deleted afterwards.
//
// Price is set iff Success; ErrorMessage is set iff !Success.
// TotalLatencyMs >= UpstreamLatencyMs >= 0 and RespondedAt >= ReceivedAt.
type AuditRecord struct {
	RequestID         string
	ReceivedAt        time.Time
	RespondedAt       time.Time
	ClientIP          string
	ClientID          string
	Symbol            string
	Success           bool
	ErrorMessage      string
	Price             *decimal.Decimal
	UpstreamStatus    int
	UpstreamLatencyMs int64
	TotalLatencyMs    int64
	UpstreamEndpoint  string
}

// SymbolFrequency is one row of a by-symbol request count. Derived per
// aggregation query, never stored.
type SymbolFrequency struct {
	Symbol string
	Count  int64
}
