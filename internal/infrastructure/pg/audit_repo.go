package pg

import (
	"context"

	"github.com/shopspring/decimal"

	"pricequote-service/internal/application"
	"pricequote-service/internal/domain"
)

// AuditRepo stores audit records in the audit_logs table. The price
// column is NUMERIC so the decimal survives the round trip intact; it
// crosses the wire as text on both sides.
type AuditRepo struct{ db *DB }

var _ application.AuditRepository = (*AuditRepo)(nil)

func NewAuditRepo(db *DB) *AuditRepo { return &AuditRepo{db: db} }

func (r *AuditRepo) Insert(ctx context.Context, rec domain.AuditRecord) error {
	const q = `
        INSERT INTO audit_logs(
            request_id, received_at, responded_at, client_ip, client_id, symbol,
            success, error_message, price, upstream_status, upstream_latency_ms,
            total_latency_ms, upstream_endpoint)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	var price, clientID, errMsg *string
	if rec.Price != nil {
		s := rec.Price.String()
		price = &s
	}
	if rec.ClientID != "" {
		clientID = &rec.ClientID
	}
	if rec.ErrorMessage != "" {
		errMsg = &rec.ErrorMessage
	}
	_, err := r.db.Pool.Exec(ctx, q,
		rec.RequestID, rec.ReceivedAt, rec.RespondedAt, rec.ClientIP, clientID,
		rec.Symbol, rec.Success, errMsg, price, rec.UpstreamStatus,
		rec.UpstreamLatencyMs, rec.TotalLatencyMs, rec.UpstreamEndpoint)
	return err
}

func (r *AuditRepo) TotalCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`).Scan(&n)
	return n, err
}

func (r *AuditRepo) SuccessCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs WHERE success`).Scan(&n)
	return n, err
}

func (r *AuditRepo) AverageLatencyMs(ctx context.Context) (float64, error) {
	var avg float64
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COALESCE(AVG(total_latency_ms), 0)::float8 FROM audit_logs`).Scan(&avg)
	return avg, err
}

func (r *AuditRepo) TopSymbols(ctx context.Context, limit int) ([]domain.SymbolFrequency, error) {
	const q = `
        SELECT symbol, COUNT(*) AS cnt
        FROM audit_logs
        GROUP BY symbol
        ORDER BY cnt DESC
        LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.SymbolFrequency
	for rows.Next() {
		var f domain.SymbolFrequency
		if err := rows.Scan(&f.Symbol, &f.Count); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *AuditRepo) RecentLogs(ctx context.Context, limit int) ([]domain.AuditRecord, error) {
	const q = `
        SELECT request_id, received_at, responded_at, client_ip,
               COALESCE(client_id, ''), symbol, success, COALESCE(error_message, ''),
               price::text, upstream_status, upstream_latency_ms, total_latency_ms,
               upstream_endpoint
        FROM audit_logs
        ORDER BY received_at DESC
        LIMIT $1`
	rows, err := r.db.Pool.Query(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		var price *string
		if err := rows.Scan(&rec.RequestID, &rec.ReceivedAt, &rec.RespondedAt,
			&rec.ClientIP, &rec.ClientID, &rec.Symbol, &rec.Success,
			&rec.ErrorMessage, &price, &rec.UpstreamStatus,
			&rec.UpstreamLatencyMs, &rec.TotalLatencyMs, &rec.UpstreamEndpoint); err != nil {
			return nil, err
		}
		if price != nil {
			p, err := decimal.NewFromString(*price)
			if err != nil {
				return nil, err
			}
			rec.Price = &p
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}
