package services

import (
	"context"
	"log/slog"
	"time"

	"course-authoring/internal/config"
	"course-authoring/internal/errors"
	"course-authoring/internal/logging"
	"course-authoring/internal/repository/sqlstore"
)

// runner bounds every storage call by the configured timeouts
type runner struct {
	db           sqlstore.Database
	queryTimeout time.Duration
	writeTimeout time.Duration
}

func newRunner(db sqlstore.Database, cfg *config.Config) runner {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return runner{
		db:           db,
		queryTimeout: cfg.GetQueryTimeout(),
		writeTimeout: cfg.GetWriteTimeout(),
	}
}

// write runs fn in one transaction limited by the write timeout
func (r runner) write(ctx context.Context, fn func(sqlstore.Repository) error) error {
	ctx, cancel := withTimeout(ctx, r.writeTimeout)
	defer cancel()
	return r.db.WithinTx(ctx, fn)
}

// read derives a context limited by the query timeout
func (r runner) read(ctx context.Context) (context.Context, context.CancelFunc) {
	return withTimeout(ctx, r.queryTimeout)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func loggerOrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return logging.Discard()
	}
	return logger
}

// logOutcome logs successes at info, rule violations at debug and
// storage failures at error.
func logOutcome(ctx context.Context, logger *slog.Logger, msg string, err error, attrs ...any) {
	if err == nil {
		logger.InfoContext(ctx, msg, attrs...)
		return
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	if errors.ShouldLogError(err) {
		logger.ErrorContext(ctx, msg+" failed", attrs...)
		return
	}
	logger.DebugContext(ctx, msg+" rejected", attrs...)
}
