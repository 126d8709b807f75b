// Package dataset converts tabular exports into the parquet layout the query
// engine mounts from object storage.
package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/parquet-go/parquet-go"
)

type ColumnType string

const (
	ColumnBigint  ColumnType = "BIGINT"
	ColumnDouble  ColumnType = "DOUBLE"
	ColumnVarchar ColumnType = "VARCHAR"
)

var ErrNoRows = errors.New("csv has no data rows")

var nonIdentChars = regexp.MustCompile(`[^a-z0-9_]+`)

type Column struct {
	Name string
	// Header is the column label as it appeared in the source file.
	Header string
	Type   ColumnType
}

type EncodeResult struct {
	Data        []byte
	Columns     []Column
	RecordCount int64
}

// EncodeCSV reads a headered CSV and writes it as a single parquet file.
// Every column is nullable; empty cells and NA markers become nulls.
func EncodeCSV(r io.Reader) (EncodeResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return EncodeResult{}, fmt.Errorf("csv header is required")
		}
		return EncodeResult{}, fmt.Errorf("read csv header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	columns := ColumnsFromHeader(header)

	records := make([][]string, 0, 256)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return EncodeResult{}, fmt.Errorf("read csv row %d: %w", len(records)+2, err)
		}
		if len(record) > len(columns) {
			return EncodeResult{}, fmt.Errorf("csv row %d has %d fields, header has %d", len(records)+2, len(record), len(columns))
		}
		records = append(records, record)
	}
	if len(records) == 0 {
		return EncodeResult{}, ErrNoRows
	}

	for i := range columns {
		columns[i].Type = inferColumnType(records, i)
	}

	schema := buildSchema(columns)
	leafIndex := map[string]int{}
	for i, field := range schema.Fields() {
		leafIndex[field.Name()] = i
	}

	rows := make([]parquet.Row, 0, len(records))
	for rowNumber, record := range records {
		row := make(parquet.Row, len(columns))
		for i, column := range columns {
			cell := ""
			if i < len(record) {
				cell = record[i]
			}
			value, err := parquetValue(column.Type, cell)
			if err != nil {
				return EncodeResult{}, fmt.Errorf("row %d column %s: %w", rowNumber+2, column.Name, err)
			}
			index := leafIndex[column.Name]
			if value.IsNull() {
				row[index] = value.Level(0, 0, index)
			} else {
				row[index] = value.Level(0, 1, index)
			}
		}
		rows = append(rows, row)
	}

	buf := bytes.NewBuffer(nil)
	writer := parquet.NewWriter(buf, schema)
	if _, err := writer.WriteRows(rows); err != nil {
		return EncodeResult{}, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return EncodeResult{}, fmt.Errorf("close parquet writer: %w", err)
	}

	return EncodeResult{
		Data:        buf.Bytes(),
		Columns:     columns,
		RecordCount: int64(len(rows)),
	}, nil
}

// ColumnsFromHeader normalizes labels such as "Annual Rainfall (mm)" into
// lower_snake identifiers, deduplicating collisions with a numeric suffix.
func ColumnsFromHeader(header []string) []Column {
	columns := make([]Column, 0, len(header))
	seen := map[string]int{}
	for i, label := range header {
		name := identifier(label)
		if name == "" {
			name = "column_" + strconv.Itoa(i+1)
		}
		if count := seen[name]; count > 0 {
			seen[name] = count + 1
			name = name + "_" + strconv.Itoa(count+1)
		}
		seen[name]++
		columns = append(columns, Column{Name: name, Header: strings.TrimSpace(label)})
	}
	return columns
}

// TableName derives a table identifier from a file name like "Crop Production 2015.csv".
func TableName(fileName string) string {
	base := fileName
	if idx := strings.LastIndexAny(base, `/\`); idx >= 0 {
		base = base[idx+1:]
	}
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return identifier(base)
}

func identifier(label string) string {
	name := nonIdentChars.ReplaceAllString(strings.ToLower(strings.TrimSpace(label)), "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return ""
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "t_" + name
	}
	if len(name) > 63 {
		name = strings.TrimRight(name[:63], "_")
	}
	return name
}

func isNullCell(cell string) bool {
	switch strings.ToUpper(strings.TrimSpace(cell)) {
	case "", "NA", "N/A", "NULL":
		return true
	}
	return false
}

func inferColumnType(records [][]string, column int) ColumnType {
	inferred := ColumnBigint
	sawValue := false
	for _, record := range records {
		if column >= len(record) || isNullCell(record[column]) {
			continue
		}
		sawValue = true
		cell := strings.TrimSpace(record[column])
		if inferred == ColumnBigint {
			if _, err := strconv.ParseInt(cell, 10, 64); err == nil {
				continue
			}
			inferred = ColumnDouble
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			return ColumnVarchar
		}
	}
	if !sawValue {
		return ColumnVarchar
	}
	return inferred
}

func buildSchema(columns []Column) *parquet.Schema {
	group := parquet.Group{}
	for _, column := range columns {
		var node parquet.Node
		switch column.Type {
		case ColumnBigint:
			node = parquet.Int(64)
		case ColumnDouble:
			node = parquet.Leaf(parquet.DoubleType)
		default:
			node = parquet.String()
		}
		group[column.Name] = parquet.Optional(node)
	}
	return parquet.NewSchema("dataset", group)
}

func parquetValue(columnType ColumnType, cell string) (parquet.Value, error) {
	if isNullCell(cell) {
		return parquet.NullValue(), nil
	}
	cell = strings.TrimSpace(cell)
	switch columnType {
	case ColumnBigint:
		v, err := strconv.ParseInt(cell, 10, 64)
		if err != nil {
			return parquet.Value{}, err
		}
		return parquet.Int64Value(v), nil
	case ColumnDouble:
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil {
			return parquet.Value{}, err
		}
		return parquet.DoubleValue(v), nil
	default:
		return parquet.ByteArrayValue([]byte(cell)), nil
	}
}
