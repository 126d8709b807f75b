// Package postgres stores the conversation log in Postgres through the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// ApplicationName tags history connections in pg_stat_activity unless the
// DSN sets its own.
const ApplicationName = "samarth-history"

const defaultPingTimeout = 5 * time.Second

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnMaxLifetime time.Duration
	// PingTimeout bounds the startup connectivity check. Zero means 5s.
	PingTimeout time.Duration
}

// Open parses the DSN with pgx, applies pool limits, and pings once so a bad
// history database is reported at startup rather than on the first turn.
func Open(ctx context.Context, cfg DBConfig) (*sql.DB, error) {
	connConfig, err := parseConnConfig(cfg.DSN)
	if err != nil {
		return nil, err
	}

	db := stdlib.OpenDB(*connConfig)
	applyPoolLimits(db, cfg)

	pingTimeout := cfg.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = defaultPingTimeout
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history db %s/%s: %w", connConfig.Host, connConfig.Database, err)
	}
	return db, nil
}

func parseConnConfig(dsn string) (*pgx.ConnConfig, error) {
	if dsn == "" {
		return nil, fmt.Errorf("history dsn is required")
	}
	connConfig, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse history dsn: %w", err)
	}
	if connConfig.RuntimeParams == nil {
		connConfig.RuntimeParams = map[string]string{}
	}
	if _, ok := connConfig.RuntimeParams["application_name"]; !ok {
		connConfig.RuntimeParams["application_name"] = ApplicationName
	}
	return connConfig, nil
}

func applyPoolLimits(db *sql.DB, cfg DBConfig) {
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
}
