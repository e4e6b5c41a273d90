package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pricequote-service/internal/application"
	"pricequote-service/internal/domain"
)

type AuditRepo struct {
	coll *mongo.Collection
}

var _ application.AuditRepository = (*AuditRepo)(nil)

func NewAuditRepo(db *DB) *AuditRepo { return &AuditRepo{coll: db.coll} }

// recordDoc is the BSON shape of one audit record. The price is stored
// as Decimal128 so no digits are lost in the collection either.
type recordDoc struct {
	RequestID         string                `bson:"requestId"`
	ReceivedAt        time.Time             `bson:"receivedAt"`
	RespondedAt       time.Time             `bson:"respondedAt"`
	ClientIP          string                `bson:"clientIp"`
	ClientID          string                `bson:"clientId,omitempty"`
	Symbol            string                `bson:"symbol"`
	Success           bool                  `bson:"success"`
	ErrorMessage      string                `bson:"errorMessage,omitempty"`
	Price             *primitive.Decimal128 `bson:"price,omitempty"`
	UpstreamStatus    int                   `bson:"upstreamStatus"`
	UpstreamLatencyMs int64                 `bson:"upstreamLatencyMs"`
	TotalLatencyMs    int64                 `bson:"totalLatencyMs"`
	UpstreamEndpoint  string                `bson:"upstreamEndpoint"`
}

func toDoc(rec domain.AuditRecord) (recordDoc, error) {
	doc := recordDoc{
		RequestID:         rec.RequestID,
		ReceivedAt:        rec.ReceivedAt.UTC(),
		RespondedAt:       rec.RespondedAt.UTC(),
		ClientIP:          rec.ClientIP,
		ClientID:          rec.ClientID,
		Symbol:            rec.Symbol,
		Success:           rec.Success,
		ErrorMessage:      rec.ErrorMessage,
		UpstreamStatus:    rec.UpstreamStatus,
		UpstreamLatencyMs: rec.UpstreamLatencyMs,
		TotalLatencyMs:    rec.TotalLatencyMs,
		UpstreamEndpoint:  rec.UpstreamEndpoint,
	}
	if rec.Price != nil {
		d128, err := primitive.ParseDecimal128(rec.Price.String())
		if err != nil {
			return recordDoc{}, fmt.Errorf("price to decimal128: %w", err)
		}
		doc.Price = &d128
	}
	return doc, nil
}

func fromDoc(doc recordDoc) (domain.AuditRecord, error) {
	rec := domain.AuditRecord{
		RequestID:         doc.RequestID,
		ReceivedAt:        doc.ReceivedAt,
		RespondedAt:       doc.RespondedAt,
		ClientIP:          doc.ClientIP,
		ClientID:          doc.ClientID,
		Symbol:            doc.Symbol,
		Success:           doc.Success,
		ErrorMessage:      doc.ErrorMessage,
		UpstreamStatus:    doc.UpstreamStatus,
		UpstreamLatencyMs: doc.UpstreamLatencyMs,
		TotalLatencyMs:    doc.TotalLatencyMs,
		UpstreamEndpoint:  doc.UpstreamEndpoint,
	}
	if doc.Price != nil {
		price, err := decimal.NewFromString(doc.Price.String())
		if err != nil {
			return domain.AuditRecord{}, fmt.Errorf("decimal128 to price: %w", err)
		}
		rec.Price = &price
	}
	return rec, nil
}

func (r *AuditRepo) Insert(ctx context.Context, rec domain.AuditRecord) error {
	doc, err := toDoc(rec)
	if err != nil {
		return err
	}
	_, err = r.coll.InsertOne(ctx, doc)
	return err
}

func (r *AuditRepo) TotalCount(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{})
}

func (r *AuditRepo) SuccessCount(ctx context.Context) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.D{{Key: "success", Value: true}})
}

func (r *AuditRepo) AverageLatencyMs(ctx context.Context) (float64, error) {
	cur, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avgLatency", Value: bson.D{{Key: "$avg", Value: "$totalLatencyMs"}}},
		}}},
	})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var row struct {
		AvgLatency float64 `bson:"avgLatency"`
	}
	if !cur.Next(ctx) {
		return 0, cur.Err()
	}
	if err := cur.Decode(&row); err != nil {
		return 0, err
	}
	return row.AvgLatency, nil
}

func (r *AuditRepo) TopSymbols(ctx context.Context, limit int) ([]domain.SymbolFrequency, error) {
	cur, err := r.coll.Aggregate(ctx, mongo.Pipeline{
		bson.D{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$symbol"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		bson.D{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		bson.D{{Key: "$limit", Value: limit}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.SymbolFrequency
	for cur.Next(ctx) {
		var row struct {
			Symbol string `bson:"_id"`
			Count  int64  `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out = append(out, domain.SymbolFrequency{Symbol: row.Symbol, Count: row.Count})
	}
	return out, cur.Err()
}

func (r *AuditRepo) RecentLogs(ctx context.Context, limit int) ([]domain.AuditRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "receivedAt", Value: -1}}).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []domain.AuditRecord
	for cur.Next(ctx) {
		var doc recordDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		rec, err := fromDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, cur.Err()
}
