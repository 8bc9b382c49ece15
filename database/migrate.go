// Package database owns the PostgreSQL schema and applies it with goose.
package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

const migrationsDir = "migrations"

// ErrSchemaOutdated is returned when migrations are not applied and auto-migration is off.
var ErrSchemaOutdated = errors.New("database schema is outdated")

// Migrate applies all pending migrations to the database at dsn.
func Migrate(ctx context.Context, dsn string) error {
	return Prepare(ctx, dsn, true)
}

// Prepare opens dsn, optionally applies pending migrations, and verifies the
// schema is at the latest embedded version.
func Prepare(ctx context.Context, dsn string, apply bool) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if apply {
		goose.SetBaseFS(migrations)
		if err := goose.SetDialect("postgres"); err != nil {
			return fmt.Errorf("failed to set goose dialect: %w", err)
		}
		if err := goose.UpContext(ctx, db, migrationsDir); err != nil {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	return CheckVersion(ctx, db)
}

// CheckVersion compares the applied schema version with the embedded migrations.
func CheckVersion(ctx context.Context, db *sql.DB) error {
	latest, err := LatestVersion()
	if err != nil {
		return err
	}
	current, err := SchemaVersion(ctx, db)
	if err != nil {
		return err
	}
	if current < latest {
		return fmt.Errorf("%w: at version %d, want %d", ErrSchemaOutdated, current, latest)
	}
	return nil
}

// SchemaVersion returns the highest applied goose version, or 0 when none is applied.
func SchemaVersion(ctx context.Context, db *sql.DB) (int64, error) {
	var version sql.NullInt64
	err := db.QueryRowContext(ctx,
		`SELECT MAX(version_id) FROM goose_db_version WHERE is_applied`,
	).Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version.Int64, nil
}

// LatestVersion returns the version of the newest embedded migration.
func LatestVersion() (int64, error) {
	entries, err := fs.ReadDir(migrations, migrationsDir)
	if err != nil {
		return 0, fmt.Errorf("failed to list migrations: %w", err)
	}

	var latest int64
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || path.Ext(name) != ".sql" {
			continue
		}
		prefix, _, ok := strings.Cut(name, "_")
		if !ok {
			return 0, fmt.Errorf("migration %q has no version prefix", name)
		}
		v, err := strconv.ParseInt(prefix, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("migration %q has invalid version: %w", name, err)
		}
		latest = max(latest, v)
	}
	return latest, nil
}
