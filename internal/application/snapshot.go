package application

import (
	"context"

	"pricequote-service/internal/domain"
)

const (
	topSymbolsLimit = 5
	recentLogsLimit = 50
)

// AnalyticsSnapshot is a read-only projection over the audit store,
// recomputed from scratch on every call. Never cached.
type AnalyticsSnapshot struct {
	TotalRequests      int64
	SuccessRatePercent float64
	AverageLatencyMs   float64
	TopSymbols         []domain.SymbolFrequency
	RecentLogs         []domain.AuditRecord
}

// Snapshot composes the repository aggregates into one dashboard view.
// The underlying queries are independent; a concurrent insert may be
// visible in some aggregates and not others.
func (s *QuoteService) Snapshot(ctx context.Context) (AnalyticsSnapshot, error) {
	total, err := s.audit.TotalCount(ctx)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	success, err := s.audit.SuccessCount(ctx)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	avg, err := s.audit.AverageLatencyMs(ctx)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	top, err := s.audit.TopSymbols(ctx, topSymbolsLimit)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}
	recent, err := s.audit.RecentLogs(ctx, recentLogsLimit)
	if err != nil {
		return AnalyticsSnapshot{}, err
	}

	snap := AnalyticsSnapshot{
		TotalRequests:    total,
		AverageLatencyMs: avg,
		TopSymbols:       top,
		RecentLogs:       recent,
	}
	if total > 0 {
		snap.SuccessRatePercent = float64(success) / float64(total) * 100
	}
	return snap, nil
}
