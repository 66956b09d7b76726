// Package app wires configuration to the store backends and the catalog.
// The server and the operator CLI share it.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
	"github.com/Simplici0/cabinet-cpq/internal/config"
	"github.com/Simplici0/cabinet-cpq/internal/db"
	"github.com/Simplici0/cabinet-cpq/internal/migrations"
	"github.com/Simplici0/cabinet-cpq/internal/seed"
	"github.com/Simplici0/cabinet-cpq/internal/store"
	"github.com/Simplici0/cabinet-cpq/internal/workflow"
)

// OpenStore opens the configured backend. migrate runs pending SQL
// migrations first; it is ignored for Redis.
func OpenStore(cfg config.Config, migrate bool) (store.KV, func() error, error) {
	if cfg.StoreBackend == config.StoreRedis {
		client, err := store.NewRedisClient(store.RedisOptions{
			URL:      cfg.RedisURL,
			Host:     cfg.RedisHost,
			Port:     cfg.RedisPort,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			return nil, nil, err
		}
		return store.NewRedis(client), client.Close, nil
	}

	dsn := cfg.DBPath
	if cfg.DBDriver == db.DriverPostgres {
		dsn = cfg.DatabaseURL
	}
	conn, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, nil, err
	}
	if migrate {
		if err := migrations.Up(conn, cfg.DBDriver); err != nil {
			conn.Close()
			return nil, nil, err
		}
	}
	return store.NewSQL(conn, db.BindName(cfg.DBDriver)), conn.Close, nil
}

// SourceCatalog reads CATALOG_PATH, or returns the built-in catalog.
func SourceCatalog(cfg config.Config) (*catalog.Catalog, error) {
	if cfg.CatalogPath == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(cfg.CatalogPath)
}

// Catalog returns the catalog to price against. With seedFirst the source
// catalog is written to the store before use; otherwise the seeded snapshot
// wins and the source catalog is the fallback.
func Catalog(ctx context.Context, cfg config.Config, kv store.KV, seedFirst bool) (*catalog.Catalog, error) {
	src, err := SourceCatalog(cfg)
	if err != nil {
		return nil, err
	}

	if seedFirst {
		stats, err := seed.Run(ctx, kv, src)
		if err != nil {
			return nil, fmt.Errorf("seed catalog: %w", err)
		}
		log.Info().Int("inserts", stats.Inserts).Int("updates", stats.Updates).Msg("seed completed")
		return src, nil
	}

	seeded, found, err := seed.LoadCatalog(ctx, kv)
	if err != nil {
		return nil, err
	}
	if !found {
		log.Warn().Msg("no seeded catalog in store, using source catalog")
		return src, nil
	}
	return seeded, nil
}

// Engine builds the workflow engine with the configured quote policy.
func Engine(cfg config.Config, c *catalog.Catalog) *workflow.Engine {
	return workflow.New(c,
		workflow.WithApprovalThreshold(cfg.ApprovalThreshold),
		workflow.WithValidityDays(cfg.QuoteValidityDays),
	)
}
