package application

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"pricequote-service/internal/domain"
	"pricequote-service/internal/metrics"
)

// PriceRequest is one inbound quote lookup.
type PriceRequest struct {
	Symbol   string
	ClientID string
	ClientIP string
}

// PriceReply is what the transport delivers to the caller. Quote is set
// on the 200 path, ErrorMessage on the 502/500 paths.
type PriceReply struct {
	Status       int
	Quote        domain.Quote
	ErrorMessage string
}

// SendFunc delivers the reply to the caller. It always runs before the
// audit record is persisted.
type SendFunc func(PriceReply) error

type QuoteService struct {
	client PriceClient
	audit  AuditRepository
	clock  Clock
	idgen  IDGen
	log    *zap.Logger
}

type Option func(*QuoteService)

func WithClock(c Clock) Option       { return func(s *QuoteService) { s.clock = c } }
func WithIDGen(g IDGen) Option       { return func(s *QuoteService) { s.idgen = g } }
func WithLogger(l *zap.Logger) Option { return func(s *QuoteService) { s.log = l } }

func NewQuoteService(client PriceClient, audit AuditRepository, opts ...Option) *QuoteService {
	s := &QuoteService{
		client: client,
		audit:  audit,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = realClock{}
	}
	if s.idgen == nil {
		s.idgen = defaultIDGen{}
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	return s
}

// HandlePrice runs one request end to end: a single upstream fetch, the
// reply via send, then unconditional persistence of the audit record.
// The returned record is what was handed to the repository; the error
// reports a failed send or a failed insert, both of which happen after
// the outcome is already decided.
func (s *QuoteService) HandlePrice(ctx context.Context, req PriceRequest, send SendFunc) (domain.AuditRecord, error) {
	rec := domain.AuditRecord{
		RequestID:        s.idgen.NewID(),
		ReceivedAt:       s.clock.Now(),
		ClientIP:         req.ClientIP,
		ClientID:         req.ClientID,
		Symbol:           domain.NormalizeSymbol(req.Symbol),
		UpstreamEndpoint: s.client.Endpoint(),
	}

	result, fetchErr := s.client.Fetch(ctx, rec.Symbol)

	var reply PriceReply
	if fetchErr == nil {
		price := result.Quote.Price
		rec.Success = true
		rec.Price = &price
		rec.UpstreamStatus = result.Status
		rec.UpstreamLatencyMs = result.Latency.Milliseconds()
		reply = PriceReply{Status: http.StatusOK, Quote: result.Quote}
		metrics.UpstreamRequestsTotal.WithLabelValues("success").Inc()
		metrics.UpstreamLatency.Observe(result.Latency.Seconds())
	} else {
		var fe *domain.FetchError
		if errors.As(fetchErr, &fe) && fe.Kind == domain.FailureUpstream {
			rec.ErrorMessage = "Binance error: " + fe.Message
			rec.UpstreamStatus = fe.Status
			rec.UpstreamLatencyMs = fe.Latency.Milliseconds()
			reply = PriceReply{Status: http.StatusBadGateway, ErrorMessage: rec.ErrorMessage}
			metrics.UpstreamRequestsTotal.WithLabelValues("upstream_error").Inc()
			metrics.UpstreamLatency.Observe(fe.Latency.Seconds())
		} else {
			rec.ErrorMessage = "Server error: " + fetchErr.Error()
			reply = PriceReply{Status: http.StatusInternalServerError, ErrorMessage: rec.ErrorMessage}
			metrics.UpstreamRequestsTotal.WithLabelValues("internal_error").Inc()
		}
	}

	sendErr := send(reply)
	if sendErr != nil && rec.Success {
		// The quote never reached the caller; the record must not
		// claim a success it cannot prove.
		rec.Success = false
		rec.Price = nil
		rec.ErrorMessage = "Server error: " + sendErr.Error()
	}

	rec.RespondedAt = s.clock.Now()
	rec.TotalLatencyMs = rec.RespondedAt.Sub(rec.ReceivedAt).Milliseconds()

	if err := s.audit.Insert(ctx, rec); err != nil {
		// Best effort: the response is already on the wire, so the
		// loss is counted and logged instead of retried.
		metrics.AuditInsertFailures.Inc()
		s.log.Error("audit insert failed",
			zap.String("request_id", rec.RequestID),
			zap.String("symbol", rec.Symbol),
			zap.Error(err),
		)
		return rec, err
	}
	return rec, sendErr
}
