// Package migrations applies the embedded schema files for each dialect.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

//go:embed sqlite/*.sql postgres/*.sql
var migrationsFS embed.FS

// Migration is one numbered schema step with its inverse
type Migration struct {
	Version int
	Name    string
	Up      string
	Down    string
}

// Migrator tracks applied versions in a migrations table. A step that
// fails stays marked dirty and blocks every later run until repaired by hand.
type Migrator struct {
	db     *sqlx.DB
	dir    string
	logger *slog.Logger
}

// NewMigrator prepares a migrator for dir ("sqlite" or "postgres")
func NewMigrator(db *sqlx.DB, dir string, logger *slog.Logger) *Migrator {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Migrator{db: db, dir: dir, logger: logger.With(slog.String("component", "migrations"))}
}

// Up applies every pending migration in version order
func (m *Migrator) Up(ctx context.Context) error {
	if err := m.ensureTable(ctx); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	dirty, err := m.versions(ctx, true)
	if err != nil {
		return fmt.Errorf("failed to check migration state: %w", err)
	}
	if len(dirty) > 0 {
		return fmt.Errorf("database is in a dirty state, failed migration(s): %v", dirty)
	}

	pending, err := m.Pending(ctx)
	if err != nil {
		return err
	}
	for _, mig := range pending {
		m.logger.DebugContext(ctx, "applying migration", slog.Int("version", mig.Version), slog.String("name", mig.Name))
		if err := m.apply(ctx, mig); err != nil {
			return fmt.Errorf("failed to apply migration %d: %w", mig.Version, err)
		}
	}
	if len(pending) > 0 {
		m.logger.InfoContext(ctx, "schema migrated", slog.Int("applied", len(pending)))
	}
	return nil
}

// Down reverts the most recently applied migration. It returns the reverted
// version, or 0 when nothing was applied.
func (m *Migrator) Down(ctx context.Context) (int, error) {
	applied, err := m.Applied(ctx)
	if err != nil {
		return 0, err
	}
	if len(applied) == 0 {
		return 0, nil
	}
	last := applied[len(applied)-1]

	all, err := LoadMigrations(m.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to load migrations: %w", err)
	}
	idx := sort.Search(len(all), func(i int) bool { return all[i].Version >= last })
	if idx == len(all) || all[idx].Version != last {
		return 0, fmt.Errorf("migration %d is applied but has no file", last)
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, all[idx].Down); err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("failed to revert migration %d: %w", last, err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM migrations WHERE version = ?"), last); err != nil {
		_ = tx.Rollback()
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	m.logger.InfoContext(ctx, "migration reverted", slog.Int("version", last))
	return last, nil
}

// Applied lists the cleanly applied versions in ascending order
func (m *Migrator) Applied(ctx context.Context) ([]int, error) {
	if err := m.ensureTable(ctx); err != nil {
		return nil, err
	}
	return m.versions(ctx, false)
}

// Pending lists the migrations not yet applied
func (m *Migrator) Pending(ctx context.Context) ([]Migration, error) {
	all, err := LoadMigrations(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	applied, err := m.Applied(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}

	done := make(map[int]struct{}, len(applied))
	for _, v := range applied {
		done[v] = struct{}{}
	}
	var pending []Migration
	for _, mig := range all {
		if _, ok := done[mig.Version]; !ok {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

func (m *Migrator) ensureTable(ctx context.Context) error {
	_, err := m.db.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS migrations (
		version INTEGER PRIMARY KEY,
		applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		dirty BOOLEAN NOT NULL DEFAULT FALSE
	)`)
	return err
}

func (m *Migrator) versions(ctx context.Context, dirty bool) ([]int, error) {
	var versions []int
	query := m.db.Rebind("SELECT version FROM migrations WHERE dirty = ? ORDER BY version")
	if err := m.db.SelectContext(ctx, &versions, query, dirty); err != nil {
		return nil, err
	}
	return versions, nil
}

// apply marks the version dirty, runs the step in a transaction and clears
// the mark on success
func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	mark := m.db.Rebind("INSERT INTO migrations (version, dirty) VALUES (?, TRUE)")
	if _, err := m.db.ExecContext(ctx, mark, mig.Version); err != nil {
		return err
	}

	tx, err := m.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, mig.Up); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("%w (database is in a dirty state)", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind("UPDATE migrations SET dirty = FALSE WHERE version = ?"), mig.Version); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// LoadMigrations reads the embedded migrations for dir sorted by version.
// Files are named NNNNNN_name.up.sql with a matching .down.sql.
func LoadMigrations(dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, err
	}

	var out []Migration
	for _, entry := range entries {
		name, ok := strings.CutSuffix(entry.Name(), ".up.sql")
		if !ok {
			continue
		}
		version := extractVersion(name)
		if version == 0 {
			continue
		}

		up, err := migrationsFS.ReadFile(path.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		down, err := migrationsFS.ReadFile(path.Join(dir, name+".down.sql"))
		if err != nil {
			return nil, err
		}
		out = append(out, Migration{Version: version, Name: name, Up: string(up), Down: string(down)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// extractVersion parses the numeric prefix of a migration file name
func extractVersion(filename string) int {
	prefix, _, ok := strings.Cut(filename, "_")
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(prefix)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
