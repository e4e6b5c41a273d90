package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pricequote-service/internal/domain"
)

// PriceClient fetches one quote from the upstream exchange. Exactly one
// attempt per call; failures come back as *domain.FetchError.
// Implementations hold no per-call state and are safe for concurrent use.
type PriceClient interface {
	Fetch(ctx context.Context, symbol string) (domain.PriceResult, error)
	// Endpoint reports the configured base URL, recorded on every
	// audit record regardless of outcome.
	Endpoint() string
}

// AuditRepository is the append-only store of request outcomes plus the
// aggregate queries the dashboard needs. Aggregate reads are
// independent, uncoordinated queries; no cross-query consistency is
// guaranteed.
type AuditRepository interface {
	Insert(ctx context.Context, rec domain.AuditRecord) error
	TotalCount(ctx context.Context) (int64, error)
	SuccessCount(ctx context.Context) (int64, error)
	AverageLatencyMs(ctx context.Context) (float64, error)
	TopSymbols(ctx context.Context, limit int) ([]domain.SymbolFrequency, error)
	RecentLogs(ctx context.Context, limit int) ([]domain.AuditRecord, error)
}

// Clock and IDGen are seams for deterministic tests.
type Clock interface {
	Now() time.Time
}

type IDGen interface {
	NewID() string
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type defaultIDGen struct{}

func (defaultIDGen) NewID() string { return uuid.NewString() }
