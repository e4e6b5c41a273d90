package binance

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"pricequote-service/internal/application"
	"pricequote-service/internal/domain"
)

// DefaultBaseURL is the production single-symbol ticker endpoint.
const DefaultBaseURL = "https://api.binance.com/api/v3/ticker/price"

const (
	defaultConnectTimeout = 5 * time.Second
	defaultRequestTimeout = 10 * time.Second
)

// Client fetches single-symbol quotes from the Binance ticker API.
// One attempt per call, no retries; safe for concurrent use.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

var _ application.PriceClient = (*Client)(nil)

// New builds a client with a connect timeout on the dialer and an
// overall deadline on the request.
func New(baseURL string, connectTimeout, requestTimeout time.Duration) *Client {
	if connectTimeout <= 0 {
		connectTimeout = defaultConnectTimeout
	}
	if requestTimeout <= 0 {
		requestTimeout = defaultRequestTimeout
	}
	return &Client{
		BaseURL: baseURL,
		HTTP: &http.Client{
			Timeout: requestTimeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{Timeout: connectTimeout}).DialContext,
			},
		},
	}
}

func (c *Client) Endpoint() string {
	if c.BaseURL == "" {
		return DefaultBaseURL
	}
	return c.BaseURL
}

// tickerResp keeps the price raw so no decimal digits are lost to an
// intermediate float.
type tickerResp struct {
	Symbol string          `json:"symbol"`
	Price  json.RawMessage `json:"price"`
}

// Fetch performs one GET against the ticker endpoint and classifies the
// outcome. Reachable-but-wrong responses (bad status, missing price)
// come back as FailureUpstream; timeouts, transport errors and
// unparseable bodies as FailureInternal.
func (c *Client) Fetch(ctx context.Context, symbol string) (domain.PriceResult, error) {
	symbol = strings.ToUpper(symbol)
	endpoint := c.Endpoint() + "?symbol=" + url.QueryEscape(symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.PriceResult{}, &domain.FetchError{
			Kind:    domain.FailureInternal,
			Message: err.Error(),
		}
	}

	client := c.HTTP
	if client == nil {
		client = New("", 0, 0).HTTP
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return domain.PriceResult{}, &domain.FetchError{
			Kind:    domain.FailureInternal,
			Message: err.Error(),
			Latency: time.Since(start),
		}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	latency := time.Since(start)
	if err != nil {
		return domain.PriceResult{}, &domain.FetchError{
			Kind:    domain.FailureInternal,
			Message: err.Error(),
			Latency: latency,
		}
	}

	if resp.StatusCode != http.StatusOK {
		return domain.PriceResult{}, &domain.FetchError{
			Kind:    domain.FailureUpstream,
			Message: "Unexpected upstream status",
			Status:  resp.StatusCode,
			Latency: latency,
			RawBody: string(body),
		}
	}

	var ticker tickerResp
	if err := json.Unmarshal(body, &ticker); err != nil {
		return domain.PriceResult{}, &domain.FetchError{
			Kind:    domain.FailureInternal,
			Message: "decode response: " + err.Error(),
			Status:  resp.StatusCode,
			Latency: latency,
			RawBody: string(body),
		}
	}

	raw := strings.TrimSpace(string(ticker.Price))
	if raw == "" || raw == "null" {
		return domain.PriceResult{}, &domain.FetchError{
			Kind:    domain.FailureUpstream,
			Message: "Response missing price field",
			Status:  resp.StatusCode,
			Latency: latency,
			RawBody: string(body),
		}
	}

	// The field is a JSON string on the real API but a bare number is
	// accepted too.
	price, err := decimal.NewFromString(strings.Trim(raw, `"`))
	if err != nil {
		return domain.PriceResult{}, &domain.FetchError{
			Kind:    domain.FailureInternal,
			Message: "parse price: " + err.Error(),
			Status:  resp.StatusCode,
			Latency: latency,
			RawBody: string(body),
		}
	}

	return domain.PriceResult{
		Quote: domain.Quote{
			Symbol:    symbol,
			Price:     price,
			FetchedAt: time.Now().UTC(),
		},
		Status:   resp.StatusCode,
		Latency:  latency,
		Endpoint: endpoint,
	}, nil
}
