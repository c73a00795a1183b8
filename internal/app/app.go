package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/riskibarqy/fpl-season-ingest/external/fantasynutmeg"
	"github.com/riskibarqy/fpl-season-ingest/internal/config"
	"github.com/riskibarqy/fpl-season-ingest/internal/domain/season"
	"github.com/riskibarqy/fpl-season-ingest/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/fpl-season-ingest/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/fpl-season-ingest/internal/platform/logging"
	"github.com/riskibarqy/fpl-season-ingest/internal/usecase"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const (
	dbMaxOpenConns    = 2
	dbMaxIdleConns    = 1
	dbConnMaxLifetime = 5 * time.Minute
)

// NewPostgresStore builds a store that opens one traced connection pool per
// session.
func NewPostgresStore(cfg config.Config, logger *logging.Logger) *postgres.SeasonStore {
	return postgres.NewSeasonStore(openPostgres(cfg), logger)
}

// NewMemoryStore backs dry runs. Nothing written to it outlives the process.
func NewMemoryStore() *memory.SeasonStore {
	return memory.NewSeasonStore()
}

func NewSeasonIngestService(cfg config.Config, store season.Store, logger *logging.Logger) *usecase.SeasonIngestService {
	client := fantasynutmeg.NewClient(fantasynutmeg.ClientConfig{
		Timeout:      cfg.FetchTimeout,
		MaxBodyBytes: cfg.FetchMaxBodyBytes,
		Logger:       logger,
	})

	return usecase.NewSeasonIngestService(client, store, usecase.SeasonIngestConfig{
		StrictRecords: cfg.StrictRecords,
		ArchiveRaw:    cfg.ArchiveRaw,
	}, logger)
}

func openPostgres(cfg config.Config) postgres.OpenFunc {
	dsn := cfg.DSN()
	dbName := config.DBName(dsn)

	return func(ctx context.Context) (*sqlx.DB, error) {
		db, err := otelsqlx.Open("postgres", dsn,
			otelsql.WithDBName(dbName),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, fmt.Errorf("open db: %w", err)
		}
		db.SetMaxOpenConns(dbMaxOpenConns)
		db.SetMaxIdleConns(dbMaxIdleConns)
		db.SetConnMaxLifetime(dbConnMaxLifetime)

		pingCtx, cancel := context.WithTimeout(ctx, cfg.DBConnectTimeout)
		defer cancel()
		if err := db.PingContext(pingCtx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ping db %s: %w", dbName, err)
		}

		return db, nil
	}
}
