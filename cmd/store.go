package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/shopwindow/internal/store"
	"github.com/sells-group/shopwindow/pkg/geocode"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "shopwindow.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initGeocoder() geocode.Client {
	return geocode.NewClient(cfg.Geocode.GoogleKey,
		geocode.WithRateLimit(cfg.Geocode.RateLimit),
		geocode.WithCache(),
	)
}
