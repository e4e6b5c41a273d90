package application

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"pricequote-service/internal/domain"
)

var ErrRepo = errors.New("repo error")

type fakeAuditRepo struct {
	records   []domain.AuditRecord
	insertErr error

	topLimit    int
	recentLimit int
}

func (f *fakeAuditRepo) Insert(_ context.Context, rec domain.AuditRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeAuditRepo) TotalCount(context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

func (f *fakeAuditRepo) SuccessCount(context.Context) (int64, error) {
	var n int64
	for _, r := range f.records {
		if r.Success {
			n++
		}
	}
	return n, nil
}

func (f *fakeAuditRepo) AverageLatencyMs(context.Context) (float64, error) {
	if len(f.records) == 0 {
		return 0, nil
	}
	var sum int64
	for _, r := range f.records {
		sum += r.TotalLatencyMs
	}
	return float64(sum) / float64(len(f.records)), nil
}

func (f *fakeAuditRepo) TopSymbols(_ context.Context, limit int) ([]domain.SymbolFrequency, error) {
	f.topLimit = limit
	counts := map[string]int64{}
	for _, r := range f.records {
		counts[r.Symbol]++
	}
	out := make([]domain.SymbolFrequency, 0, len(counts))
	for s, c := range counts {
		out = append(out, domain.SymbolFrequency{Symbol: s, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeAuditRepo) RecentLogs(_ context.Context, limit int) ([]domain.AuditRecord, error) {
	f.recentLimit = limit
	out := append([]domain.AuditRecord(nil), f.records...)
	sort.Slice(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakePriceClient struct {
	result domain.PriceResult
	err    error

	lastSymbol string
}

func (f *fakePriceClient) Fetch(_ context.Context, symbol string) (domain.PriceResult, error) {
	f.lastSymbol = symbol
	if f.err != nil {
		return domain.PriceResult{}, f.err
	}
	return f.result, nil
}

func (f *fakePriceClient) Endpoint() string { return "https://exchange.test/ticker" }

// fakeClock hands out strictly increasing instants so latency math is
// deterministic.
type fakeClock struct {
	t    time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type seqIDGen struct{ n int }

func (g *seqIDGen) NewID() string {
	g.n++
	return fmt.Sprintf("req-%d", g.n)
}
