package duckdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/marcboeker/go-duckdb/v2"

	"github.com/projectsamarth/samarth/internal/query"
	"github.com/projectsamarth/samarth/internal/storage"
)

type Config struct {
	// Path is the DuckDB database file. Empty opens an in-memory database.
	Path     string
	ReadOnly bool
	// Store and TablePrefix mount <prefix>/<table>/*.parquet objects as views.
	Store       storage.ObjectStore
	TablePrefix string
	SampleRows  int
}

type Engine struct {
	db         *sql.DB
	workDir    string
	sampleRows int
}

func Open(ctx context.Context, cfg Config) (*Engine, error) {
	dsn := ""
	if cfg.Path != "" {
		if _, err := os.Stat(cfg.Path); err != nil {
			return nil, fmt.Errorf("dataset file %q: %w", cfg.Path, err)
		}
		dsn = cfg.Path
		if cfg.ReadOnly {
			dsn += "?access_mode=read_only"
		}
	}
	if cfg.Store != nil && cfg.Path != "" && cfg.ReadOnly {
		return nil, fmt.Errorf("object store tables cannot be mounted into a read-only dataset file")
	}

	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping duckdb: %w", err)
	}

	engine := &Engine{db: db, sampleRows: cfg.SampleRows}
	if cfg.Store != nil {
		if err := engine.mountObjectStoreTables(ctx, cfg.Store, cfg.TablePrefix); err != nil {
			_ = engine.Close()
			return nil, err
		}
	}
	return engine, nil
}

func (e *Engine) Close() error {
	var errs []error
	if e.db != nil {
		errs = append(errs, e.db.Close())
	}
	if e.workDir != "" {
		errs = append(errs, os.RemoveAll(e.workDir))
	}
	return errors.Join(errs...)
}

func (e *Engine) HealthCheck(ctx context.Context) error {
	return e.db.PingContext(ctx)
}

func (e *Engine) Execute(ctx context.Context, request query.Request) (query.Result, error) {
	sqlText := stripTrailingSemicolons(request.SQL)
	if sqlText == "" {
		return query.Result{}, fmt.Errorf("sql is required")
	}
	if request.RowLimit > 0 {
		// The inner query sits on its own lines so a trailing line comment
		// cannot swallow the wrapper.
		sqlText = fmt.Sprintf("SELECT * FROM (\n%s\n) AS q LIMIT %d", sqlText, request.RowLimit)
	}

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, sqlText)
	if err != nil {
		return query.Result{}, err
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return query.Result{}, fmt.Errorf("query columns: %w", err)
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return query.Result{}, fmt.Errorf("query column types: %w", err)
	}
	uuidColumns := make([]bool, len(columnTypes))
	for i, columnType := range columnTypes {
		uuidColumns[i] = strings.EqualFold(columnType.DatabaseTypeName(), "UUID")
	}

	resultRows := make([][]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return query.Result{}, fmt.Errorf("scan row: %w", err)
		}
		resultRows = append(resultRows, normalizeValues(values, uuidColumns))
	}
	if err := rows.Err(); err != nil {
		return query.Result{}, fmt.Errorf("iterate rows: %w", err)
	}

	return query.Result{
		Columns:  columns,
		Rows:     resultRows,
		Duration: time.Since(start),
	}, nil
}

func (e *Engine) mountObjectStoreTables(ctx context.Context, store storage.ObjectStore, tablePrefix string) error {
	objects, err := store.List(ctx, tablePrefix)
	if err != nil {
		return fmt.Errorf("list dataset tables: %w", err)
	}
	grouped, err := storage.GroupTableParts(tablePrefix, objects)
	if err != nil {
		return err
	}
	if len(grouped) == 0 {
		return fmt.Errorf("no parquet tables found under %q", tablePrefix)
	}

	workDir, err := os.MkdirTemp("", "samarth-dataset-")
	if err != nil {
		return fmt.Errorf("create dataset temp dir: %w", err)
	}
	e.workDir = workDir

	for tableName, keys := range grouped {
		localPaths := make([]string, 0, len(keys))
		for index, key := range keys {
			localPath := filepath.Join(workDir, fmt.Sprintf("%s_%d.parquet", tableName, index))
			if err := download(ctx, store, key, localPath); err != nil {
				return err
			}
			localPaths = append(localPaths, localPath)
		}
		viewSQL := fmt.Sprintf(`CREATE OR REPLACE VIEW %s AS SELECT * FROM read_parquet(%s)`, quoteIdent(tableName), quoteStringArray(localPaths))
		if _, err := e.db.ExecContext(ctx, viewSQL); err != nil {
			return fmt.Errorf("create view for table %q: %w", tableName, err)
		}
	}
	return nil
}

// normalizeValues turns driver-specific values into plain Go values the row
// formatter understands. UUID columns arrive as 16 raw bytes.
func normalizeValues(values []any, uuidColumns []bool) []any {
	normalized := make([]any, len(values))
	for i, value := range values {
		if raw, ok := value.([]byte); ok && i < len(uuidColumns) && uuidColumns[i] {
			if id, err := uuid.FromBytes(raw); err == nil {
				normalized[i] = id.String()
				continue
			}
		}
		normalized[i] = normalizeValue(value)
	}
	return normalized
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case []byte:
		return string(typed)
	case duckdb.Decimal:
		return typed.Float64()
	case duckdb.Interval:
		return formatInterval(typed)
	case duckdb.UUID:
		return typed.String()
	case []any:
		items := make([]any, len(typed))
		for i, item := range typed {
			items[i] = normalizeValue(item)
		}
		return items
	case map[string]any:
		fields := make(map[string]any, len(typed))
		for name, field := range typed {
			fields[name] = normalizeValue(field)
		}
		return fields
	case duckdb.Map:
		entries := make(map[any]any, len(typed))
		for key, entry := range typed {
			entries[normalizeValue(key)] = normalizeValue(entry)
		}
		return entries
	default:
		return typed
	}
}

// formatInterval renders an interval the way DuckDB prints it, e.g.
// "1 year 2 months 3 days 04:05:06".
func formatInterval(interval duckdb.Interval) string {
	var parts []string
	unit := func(n int64, name string) {
		if n == 0 {
			return
		}
		if n == 1 || n == -1 {
			parts = append(parts, fmt.Sprintf("%d %s", n, name))
			return
		}
		parts = append(parts, fmt.Sprintf("%d %ss", n, name))
	}
	unit(int64(interval.Months/12), "year")
	unit(int64(interval.Months%12), "month")
	unit(int64(interval.Days), "day")
	if interval.Micros != 0 || len(parts) == 0 {
		parts = append(parts, formatClock(interval.Micros))
	}
	return strings.Join(parts, " ")
}

func formatClock(micros int64) string {
	sign := ""
	if micros < 0 {
		sign = "-"
		micros = -micros
	}
	const microsPerSecond = int64(time.Second / time.Microsecond)
	seconds := micros / microsPerSecond
	clock := fmt.Sprintf("%s%02d:%02d:%02d", sign, seconds/3600, seconds/60%60, seconds%60)
	if fraction := micros % microsPerSecond; fraction != 0 {
		clock += strings.TrimRight(fmt.Sprintf(".%06d", fraction), "0")
	}
	return clock
}

func quoteIdent(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func quoteStringArray(values []string) string {
	quoted := make([]string, 0, len(values))
	for _, value := range values {
		quoted = append(quoted, `'`+strings.ReplaceAll(value, `'`, `''`)+`'`)
	}
	return "[" + strings.Join(quoted, ",") + "]"
}

func stripTrailingSemicolons(sqlText string) string {
	trimmed := strings.TrimSpace(sqlText)
	for strings.HasSuffix(trimmed, ";") {
		trimmed = strings.TrimSpace(strings.TrimSuffix(trimmed, ";"))
	}
	return trimmed
}
