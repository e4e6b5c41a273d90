package httpserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"pricequote-service/internal/application"
)

type Server struct {
	svc  *application.QuoteService
	ping func(context.Context) error
}

// NewServer wires the quote service into HTTP handlers. ping backs
// /readyz and may be nil when the storage has no health probe.
func NewServer(svc *application.QuoteService, ping func(context.Context) error) *Server {
	return &Server{svc: svc, ping: ping}
}

// jsonDecimal renders a price as a bare JSON number, keeping every
// digit the upstream sent.
type jsonDecimal decimal.Decimal

func (d jsonDecimal) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(d).String()), nil
}

type quoteBody struct {
	Symbol    string      `json:"symbol"`
	Price     jsonDecimal `json:"price"`
	FetchedAt string      `json:"fetchedAt"`
}

type errorBody struct {
	Error string `json:"error"`
}

func (s *Server) handlePrice(w http.ResponseWriter, r *http.Request) {
	addCORSHeaders(w)

	req := application.PriceRequest{
		Symbol:   r.URL.Query().Get("symbol"),
		ClientID: r.URL.Query().Get("clientId"),
		ClientIP: clientIP(r),
	}

	// Insert failures are logged and counted inside the service; by the
	// time HandlePrice returns, the response has already been written.
	_, _ = s.svc.HandlePrice(r.Context(), req, func(reply application.PriceReply) error {
		if reply.Status == http.StatusOK {
			return writeJSON(w, http.StatusOK, quoteBody{
				Symbol:    reply.Quote.Symbol,
				Price:     jsonDecimal(reply.Quote.Price),
				FetchedAt: reply.Quote.FetchedAt.UTC().Format(time.RFC3339Nano),
			})
		}
		return writeJSON(w, reply.Status, errorBody{Error: reply.ErrorMessage})
	})
}

// handlePricePreflight answers the CORS probe without touching the
// gateway; no audit record is produced for it.
func (s *Server) handlePricePreflight(w http.ResponseWriter, _ *http.Request) {
	addCORSHeaders(w)
	w.WriteHeader(http.StatusNoContent)
}

func addCORSHeaders(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET,OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	_ = writeJSON(w, status, errorBody{Error: msg})
}
