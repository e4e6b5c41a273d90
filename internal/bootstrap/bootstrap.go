// Package bootstrap is the composition root: it builds the long-lived
// collaborators (audit store, upstream client) once per process and
// hands back cleanup funcs for shutdown.
package bootstrap

import (
	"context"
	"fmt"

	"pricequote-service/internal/application"
	"pricequote-service/internal/config"
	"pricequote-service/internal/infrastructure/binance"
	"pricequote-service/internal/infrastructure/logx"
	"pricequote-service/internal/infrastructure/memory"
	mongostore "pricequote-service/internal/infrastructure/mongo"
	"pricequote-service/internal/infrastructure/pg"
)

type Repos struct {
	Audit application.AuditRepository
	// Ping backs /readyz; nil when the storage has no health probe.
	Ping func(context.Context) error
}

// BuildRepos builds the audit repository selected by STORAGE.
func BuildRepos(ctx context.Context, cfg config.Config) (Repos, func(), error) {
	log := logx.L()

	switch cfg.Storage {
	case "mongo":
		if cfg.MongoURI == "" {
			return Repos{}, func() {}, fmt.Errorf("MONGODB_URI is required for STORAGE=mongo")
		}
		db, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		if err != nil {
			return Repos{}, func() {}, err
		}
		cleanup := func() {
			log.Info("closing mongo")
			_ = db.Close(context.Background())
		}
		return Repos{Audit: mongostore.NewAuditRepo(db), Ping: db.Ping}, cleanup, nil

	case "pg":
		if cfg.DatabaseURL == "" {
			return Repos{}, func() {}, fmt.Errorf("DATABASE_URL is required for STORAGE=pg")
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return Repos{}, func() {}, err
		}
		if err := pg.RunMigrations(ctx, db); err != nil {
			db.Close()
			return Repos{}, func() {}, err
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return Repos{Audit: pg.NewAuditRepo(db), Ping: db.Ping}, cleanup, nil

	case "memory":
		return Repos{Audit: memory.NewAuditRepo()}, func() {}, nil

	default:
		return Repos{}, func() {}, fmt.Errorf("unknown STORAGE %q", cfg.Storage)
	}
}

// BuildPriceClient constructs the shared upstream client.
func BuildPriceClient(cfg config.Config) application.PriceClient {
	return binance.New(cfg.BinanceAPIBase, cfg.ConnectTimeout, cfg.RequestTimeout)
}
