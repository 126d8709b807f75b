// Package migrations manages the conversation history schema in Postgres.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed sql/*.sql
var embeddedFS embed.FS

const migrationTable = "samarth_schema_migrations"

var migrationFilePattern = regexp.MustCompile(`^([0-9]+)_(.+)\.(up|down)\.sql$`)

// Runner applies the embedded history database migrations in version order.
type Runner struct {
	fsys fs.FS
}

func NewRunner() *Runner {
	return &Runner{fsys: embeddedFS}
}

// Status reports one embedded migration and when it was applied, if ever.
type Status struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

type appliedMigration struct {
	Version   int64
	AppliedAt time.Time
}

// Up applies pending migrations, at most steps of them when steps > 0. It
// refuses to run against a database that has versions this binary does not
// know, since that database was migrated by a newer release.
func (r *Runner) Up(ctx context.Context, db *sql.DB, steps int) (int, error) {
	migrations, applied, err := r.load(ctx, db)
	if err != nil {
		return 0, err
	}
	known := make(map[int64]struct{}, len(migrations))
	for _, item := range migrations {
		known[item.Version] = struct{}{}
	}
	for version := range applied {
		if _, ok := known[version]; !ok {
			return 0, fmt.Errorf("database has migration %d which is not embedded in this build", version)
		}
	}

	runCount := 0
	for _, item := range migrations {
		if _, ok := applied[item.Version]; ok {
			continue
		}
		if steps > 0 && runCount >= steps {
			break
		}
		err := withTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, item.UpSQL); err != nil {
				return fmt.Errorf("apply migration %d (%s): %w", item.Version, item.Name, err)
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO `+migrationTable+` (version, name) VALUES ($1, $2)`, item.Version, item.Name); err != nil {
				return fmt.Errorf("mark migration %d: %w", item.Version, err)
			}
			return nil
		})
		if err != nil {
			return runCount, err
		}
		runCount++
	}
	return runCount, nil
}

// Down rolls back the newest applied migrations; steps <= 0 means one.
func (r *Runner) Down(ctx context.Context, db *sql.DB, steps int) (int, error) {
	if steps <= 0 {
		steps = 1
	}
	migrations, applied, err := r.load(ctx, db)
	if err != nil {
		return 0, err
	}

	lookup := make(map[int64]migration, len(migrations))
	for _, item := range migrations {
		lookup[item.Version] = item
	}
	versions := make([]int64, 0, len(applied))
	for version := range applied {
		versions = append(versions, version)
	}
	sort.Slice(versions, func(i, j int) bool { return versions[i] > versions[j] })

	runCount := 0
	for _, version := range versions {
		if runCount >= steps {
			break
		}
		item, ok := lookup[version]
		if !ok {
			return runCount, fmt.Errorf("applied migration %d is missing from source", version)
		}
		err := withTx(ctx, db, func(tx *sql.Tx) error {
			if _, err := tx.ExecContext(ctx, item.DownSQL); err != nil {
				return fmt.Errorf("rollback migration %d (%s): %w", item.Version, item.Name, err)
			}
			if _, err := tx.ExecContext(ctx, `DELETE FROM `+migrationTable+` WHERE version = $1`, item.Version); err != nil {
				return fmt.Errorf("unmark migration %d: %w", item.Version, err)
			}
			return nil
		})
		if err != nil {
			return runCount, err
		}
		runCount++
	}
	return runCount, nil
}

func (r *Runner) Status(ctx context.Context, db *sql.DB) ([]Status, error) {
	migrations, applied, err := r.load(ctx, db)
	if err != nil {
		return nil, err
	}
	statuses := make([]Status, 0, len(migrations))
	for _, item := range migrations {
		status := Status{Version: item.Version, Name: item.Name}
		if record, ok := applied[item.Version]; ok {
			status.Applied = true
			status.AppliedAt = record.AppliedAt
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func (r *Runner) load(ctx context.Context, db *sql.DB) ([]migration, map[int64]appliedMigration, error) {
	migrations, err := loadMigrations(r.fsys)
	if err != nil {
		return nil, nil, err
	}
	if err := ensureMigrationTable(ctx, db); err != nil {
		return nil, nil, err
	}
	applied, err := listApplied(ctx, db)
	if err != nil {
		return nil, nil, err
	}
	return migrations, applied, nil
}

func ensureMigrationTable(ctx context.Context, db *sql.DB) error {
	query := `
CREATE TABLE IF NOT EXISTS ` + migrationTable + ` (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return nil
}

func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration tx: %w", err)
	}
	return nil
}

func listApplied(ctx context.Context, db *sql.DB) (map[int64]appliedMigration, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, applied_at FROM `+migrationTable+` ORDER BY version ASC`)
	if err != nil {
		return nil, fmt.Errorf("query applied versions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	applied := map[int64]appliedMigration{}
	for rows.Next() {
		var record appliedMigration
		if err := rows.Scan(&record.Version, &record.AppliedAt); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		applied[record.Version] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return applied, nil
}

// loadMigrations pairs NNNNNN_name.up.sql with NNNNNN_name.down.sql; both
// halves are required.
func loadMigrations(fsys fs.FS) ([]migration, error) {
	entries, err := fs.ReadDir(fsys, "sql")
	if err != nil {
		return nil, fmt.Errorf("read migration dir: %w", err)
	}

	items := map[int64]migration{}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		base := path.Base(entry.Name())
		matches := migrationFilePattern.FindStringSubmatch(base)
		if matches == nil {
			continue
		}
		version, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse migration version for %q: %w", base, err)
		}
		script, err := fs.ReadFile(fsys, path.Join("sql", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %q: %w", entry.Name(), err)
		}

		item := items[version]
		if item.Name != "" && item.Name != matches[2] {
			return nil, fmt.Errorf("migration %d has conflicting names %q and %q", version, item.Name, matches[2])
		}
		item.Version = version
		item.Name = matches[2]
		if matches[3] == "up" {
			item.UpSQL = string(script)
		} else {
			item.DownSQL = string(script)
		}
		items[version] = item
	}

	migrations := make([]migration, 0, len(items))
	for _, item := range items {
		if strings.TrimSpace(item.UpSQL) == "" {
			return nil, fmt.Errorf("migration %d missing up SQL", item.Version)
		}
		if strings.TrimSpace(item.DownSQL) == "" {
			return nil, fmt.Errorf("migration %d missing down SQL", item.Version)
		}
		migrations = append(migrations, item)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}
