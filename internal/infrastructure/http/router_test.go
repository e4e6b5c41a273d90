package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"pricequote-service/internal/domain"
	"pricequote-service/internal/infrastructure/memory"
)

func setup() (http.Handler, *memory.AuditRepo, *fakePriceClient) {
	svc, repo, client := NewInMemoryService()
	srv := NewServer(svc, nil)
	return NewRouter(srv), repo, client
}

func ethResult(price string) domain.PriceResult {
	p, _ := decimal.NewFromString(price)
	return domain.PriceResult{
		Quote: domain.Quote{
			Symbol:    "ETHUSD",
			Price:     p,
			FetchedAt: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC),
		},
		Status:   http.StatusOK,
		Latency:  10 * time.Millisecond,
		Endpoint: "https://exchange.test/ticker?symbol=ETHUSD",
	}
}

func TestHealthz(t *testing.T) {
	h, _, _ := setup()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestGetPrice_Success(t *testing.T) {
	h, repo, client := setup()
	client.set(ethResult("2500.50"), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/price?symbol=ethusd&clientId=android-1", nil)
	req.RemoteAddr = "10.0.0.7:51234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	// The price must come back as a bare number with its digits intact.
	require.Contains(t, rec.Body.String(), `"price":2500.50`)

	dec := json.NewDecoder(strings.NewReader(rec.Body.String()))
	dec.UseNumber()
	var body struct {
		Symbol    string      `json:"symbol"`
		Price     json.Number `json:"price"`
		FetchedAt string      `json:"fetchedAt"`
	}
	require.NoError(t, dec.Decode(&body))
	require.Equal(t, "ETHUSD", body.Symbol)
	require.Equal(t, json.Number("2500.50"), body.Price)
	require.NotEmpty(t, body.FetchedAt)

	require.Equal(t, "ETHUSD", client.seenSymbol())

	records := repo.All()
	require.Len(t, records, 1)
	r0 := records[0]
	require.True(t, r0.Success)
	require.Equal(t, "ETHUSD", r0.Symbol)
	require.Equal(t, "2500.50", r0.Price.String())
	require.Equal(t, "android-1", r0.ClientID)
	require.Equal(t, "10.0.0.7", r0.ClientIP)
	require.NotEmpty(t, r0.RequestID)
	require.GreaterOrEqual(t, r0.TotalLatencyMs, r0.UpstreamLatencyMs)
}

func TestGetPrice_UpstreamStatusError(t *testing.T) {
	h, repo, client := setup()
	client.set(domain.PriceResult{}, &domain.FetchError{
		Kind:    domain.FailureUpstream,
		Message: "Unexpected upstream status",
		Status:  http.StatusNotFound,
		Latency: 5 * time.Millisecond,
		RawBody: `{"code":-1121,"msg":"Invalid symbol."}`,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/price?symbol=NOPEUSD", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Binance error: Unexpected upstream status", body.Error)

	records := repo.All()
	require.Len(t, records, 1)
	require.False(t, records[0].Success)
	require.Nil(t, records[0].Price)
	require.Equal(t, http.StatusNotFound, records[0].UpstreamStatus)
}

func TestGetPrice_MissingPriceField(t *testing.T) {
	h, repo, client := setup()
	client.set(domain.PriceResult{}, &domain.FetchError{
		Kind:    domain.FailureUpstream,
		Message: "Response missing price field",
		Status:  http.StatusOK,
		RawBody: `{}`,
	})

	req := httptest.NewRequest(http.MethodGet, "/api/price?symbol=ETHUSD", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Contains(t, rec.Body.String(), "Binance error: Response missing price field")
	require.Equal(t, http.StatusOK, repo.All()[0].UpstreamStatus)
}

func TestGetPrice_InternalError(t *testing.T) {
	h, repo, client := setup()
	client.set(domain.PriceResult{}, &domain.FetchError{
		Kind:    domain.FailureInternal,
		Message: "context deadline exceeded",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/price?symbol=BTCUSD", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Server error: context deadline exceeded")
	r0 := repo.All()[0]
	require.Zero(t, r0.UpstreamStatus)
	require.Zero(t, r0.UpstreamLatencyMs)
}

func TestGetPrice_DefaultsToBTCUSD(t *testing.T) {
	h, repo, client := setup()
	res := ethResult("67000.00")
	res.Quote.Symbol = "BTCUSD"
	client.set(res, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/price", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "BTCUSD", client.seenSymbol())
	require.Equal(t, "BTCUSD", repo.All()[0].Symbol)
}

func TestPreflight_NoAuditRecord(t *testing.T) {
	h, repo, _ := setup()

	req := httptest.NewRequest(http.MethodOptions, "/api/price", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "GET,OPTIONS", rec.Header().Get("Access-Control-Allow-Methods"))
	require.Equal(t, "Content-Type", rec.Header().Get("Access-Control-Allow-Headers"))
	require.Empty(t, rec.Body.String())
	require.Empty(t, repo.All())
}

func TestDashboard(t *testing.T) {
	h, _, client := setup()
	client.set(ethResult("2500.50"), nil)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/price?symbol=ETHUSD", nil)
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	require.Contains(t, rec.Body.String(), "ETHUSD")
	require.Contains(t, rec.Body.String(), "100.0%")
	require.Contains(t, rec.Body.String(), "2500.50")
}

func TestDashboard_Empty(t *testing.T) {
	h, _, _ := setup()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "No requests yet")
}
