package config

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"course-authoring/internal/repository/sqlstore"
)

// CreateRepository opens the store described by the configuration, creating
// the SQLite data directory when needed.
func CreateRepository(ctx context.Context, config *Config, logger *slog.Logger) (*sqlstore.Store, error) {
	dialect, err := sqlstore.ParseDialect(config.Database.Dialect)
	if err != nil {
		return nil, err
	}

	opts := sqlstore.Options{
		Dialect:         dialect,
		DSN:             config.Database.DSN,
		MaxOpenConns:    config.Database.MaxOpenConns,
		ConnMaxLifetime: config.Database.ConnMaxLifetime,
		Logger:          logger,
	}

	if dialect == sqlstore.DialectSQLite {
		opts.DSN = config.GetDatabasePath()
		if opts.DSN != ":memory:" {
			if err := os.MkdirAll(config.Database.Dir, os.FileMode(config.Database.DirPermissions)); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	store, err := sqlstore.Open(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return store, nil
}

// CreateTestRepository creates an in-memory repository for testing
func CreateTestRepository() (*sqlstore.Store, error) {
	store, err := sqlstore.New(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize test database: %w", err)
	}

	return store, nil
}
