// Package memory holds the in-memory audit store used for local
// development (STORAGE=memory) and as the repository in handler tests.
package memory

import (
	"context"
	"sort"
	"sync"

	"pricequote-service/internal/application"
	"pricequote-service/internal/domain"
)

type AuditRepo struct {
	mu      sync.RWMutex
	records []domain.AuditRecord
}

var _ application.AuditRepository = (*AuditRepo)(nil)

func NewAuditRepo() *AuditRepo { return &AuditRepo{} }

func (r *AuditRepo) Insert(_ context.Context, rec domain.AuditRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
	return nil
}

func (r *AuditRepo) TotalCount(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.records)), nil
}

func (r *AuditRepo) SuccessCount(context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, rec := range r.records {
		if rec.Success {
			n++
		}
	}
	return n, nil
}

func (r *AuditRepo) AverageLatencyMs(context.Context) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.records) == 0 {
		return 0, nil
	}
	var sum int64
	for _, rec := range r.records {
		sum += rec.TotalLatencyMs
	}
	return float64(sum) / float64(len(r.records)), nil
}

func (r *AuditRepo) TopSymbols(_ context.Context, limit int) ([]domain.SymbolFrequency, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[string]int64)
	for _, rec := range r.records {
		counts[rec.Symbol]++
	}
	out := make([]domain.SymbolFrequency, 0, len(counts))
	for symbol, count := range counts {
		out = append(out, domain.SymbolFrequency{Symbol: symbol, Count: count})
	}
	// Ties broken by symbol only to keep this implementation
	// deterministic; the durable stores promise nothing beyond
	// non-increasing counts.
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Symbol < out[j].Symbol
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *AuditRepo) RecentLogs(_ context.Context, limit int) ([]domain.AuditRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := append([]domain.AuditRecord(nil), r.records...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ReceivedAt.After(out[j].ReceivedAt)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// All returns a copy of every record in insertion order. Test helper.
func (r *AuditRepo) All() []domain.AuditRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.AuditRecord(nil), r.records...)
}
