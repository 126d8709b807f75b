package duckdb

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const maxSampleValueLength = 100

type column struct {
	Name     string
	DataType string
}

// DescribeSchema renders every table and view in the main schema as a CREATE
// TABLE statement followed by a comment block holding up to SampleRows rows.
func (e *Engine) DescribeSchema(ctx context.Context) (string, error) {
	tables, err := e.listTables(ctx)
	if err != nil {
		return "", err
	}

	blocks := make([]string, 0, len(tables))
	for _, table := range tables {
		columns, err := e.listColumns(ctx, table)
		if err != nil {
			return "", err
		}
		block := renderCreateTable(table, columns)
		if e.sampleRows > 0 {
			sample, err := e.sampleTable(ctx, table, columns)
			if err != nil {
				return "", err
			}
			block += "\n\n" + sample
		}
		blocks = append(blocks, block)
	}
	return strings.TrimSpace(strings.Join(blocks, "\n\n")), nil
}

func (e *Engine) listTables(ctx context.Context) ([]string, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = 'main'
		ORDER BY table_name`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tables := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tables: %w", err)
	}
	return tables, nil
}

func (e *Engine) listColumns(ctx context.Context, table string) ([]column, error) {
	rows, err := e.db.QueryContext(ctx, `
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_schema = 'main' AND table_name = ?
		ORDER BY ordinal_position`, table)
	if err != nil {
		return nil, fmt.Errorf("list columns of %q: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	columns := make([]column, 0)
	for rows.Next() {
		var item column
		if err := rows.Scan(&item.Name, &item.DataType); err != nil {
			return nil, fmt.Errorf("scan column of %q: %w", table, err)
		}
		columns = append(columns, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate columns of %q: %w", table, err)
	}
	return columns, nil
}

func (e *Engine) sampleTable(ctx context.Context, table string, columns []column) (string, error) {
	rows, err := e.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s LIMIT %d", quoteIdent(table), e.sampleRows))
	if err != nil {
		return "", fmt.Errorf("sample rows of %q: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	names := make([]string, 0, len(columns))
	uuidColumns := make([]bool, len(columns))
	for i, item := range columns {
		names = append(names, item.Name)
		uuidColumns[i] = strings.EqualFold(item.DataType, "UUID")
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "/*\n%d rows from %s table:\n%s\n", e.sampleRows, table, strings.Join(names, "\t"))
	for rows.Next() {
		values := make([]any, len(columns))
		scanTargets := make([]any, len(columns))
		for i := range values {
			scanTargets[i] = &values[i]
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return "", fmt.Errorf("scan sample row of %q: %w", table, err)
		}
		cells := make([]string, 0, len(values))
		for _, value := range normalizeValues(values, uuidColumns) {
			cells = append(cells, sampleCell(value))
		}
		builder.WriteString(strings.Join(cells, "\t"))
		builder.WriteString("\n")
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate sample rows of %q: %w", table, err)
	}
	builder.WriteString("*/")
	return builder.String(), nil
}

func renderCreateTable(table string, columns []column) string {
	definitions := make([]string, 0, len(columns))
	for _, item := range columns {
		definitions = append(definitions, "\t"+item.Name+" "+item.DataType)
	}
	return fmt.Sprintf("CREATE TABLE %s (\n%s\n)", table, strings.Join(definitions, ", \n"))
}

func sampleCell(value any) string {
	var text string
	switch typed := value.(type) {
	case nil:
		text = "None"
	case time.Time:
		if typed.Hour() == 0 && typed.Minute() == 0 && typed.Second() == 0 && typed.Nanosecond() == 0 {
			text = typed.Format(time.DateOnly)
		} else {
			text = typed.Format(time.DateTime)
		}
	case bool:
		if typed {
			text = "True"
		} else {
			text = "False"
		}
	default:
		text = fmt.Sprint(typed)
	}
	runes := []rune(text)
	if len(runes) > maxSampleValueLength {
		text = string(runes[:maxSampleValueLength]) + "..."
	}
	return text
}
