package httpserver

import (
	"context"
	"sync"

	"pricequote-service/internal/application"
	"pricequote-service/internal/domain"
	"pricequote-service/internal/infrastructure/memory"
)

var _ application.PriceClient = (*fakePriceClient)(nil)

// fakePriceClient serves scripted outcomes so handler tests control the
// upstream without a network.
type fakePriceClient struct {
	mu         sync.Mutex
	result     domain.PriceResult
	err        error
	lastSymbol string
}

func (f *fakePriceClient) Fetch(_ context.Context, symbol string) (domain.PriceResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastSymbol = symbol
	if f.err != nil {
		return domain.PriceResult{}, f.err
	}
	return f.result, nil
}

func (f *fakePriceClient) Endpoint() string { return "https://exchange.test/ticker" }

func (f *fakePriceClient) set(result domain.PriceResult, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.result, f.err = result, err
}

func (f *fakePriceClient) seenSymbol() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastSymbol
}

// NewInMemoryService builds a fully in-memory service for tests and
// local experiments.
func NewInMemoryService() (*application.QuoteService, *memory.AuditRepo, *fakePriceClient) {
	repo := memory.NewAuditRepo()
	client := &fakePriceClient{}
	svc := application.NewQuoteService(client, repo)
	return svc, repo, client
}
