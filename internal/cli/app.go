package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"course-authoring/internal/api"
	"course-authoring/internal/config"
	"course-authoring/internal/repository/sqlstore"
	"course-authoring/internal/services"
)

// App holds the dependencies shared by every command
type App struct {
	api    api.API
	store  *sqlstore.Store
	config *config.Config
	logger *slog.Logger
	out    io.Writer
	errs   *ErrorHandler
}

// AppFactory builds an App once configuration has been resolved. The
// returned cleanup releases the store.
type AppFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, func(), error)

// NewApp wires an App around an already opened store
func NewApp(store *sqlstore.Store, cfg *config.Config, logger *slog.Logger, out io.Writer) *App {
	if out == nil {
		out = os.Stdout
	}
	container := services.NewServiceContainer(store, cfg, logger)
	return &App{
		api:    api.New(container, cfg),
		store:  store,
		config: cfg,
		logger: logger,
		out:    out,
		errs:   NewErrorHandler(),
	}
}

// DefaultAppFactory opens the configured store and writes to stdout
func DefaultAppFactory(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, func(), error) {
	store, err := config.CreateRepository(ctx, cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}

	app := NewApp(store, cfg, logger, os.Stdout)
	cleanup := func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store", slog.Any("error", err))
		}
	}
	return app, cleanup, nil
}

// withTimeout returns a context bounded by the configured application timeout
func (a *App) withTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.Application.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, a.config.Application.Timeout)
}
