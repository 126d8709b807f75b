package dataset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path"

	"github.com/projectsamarth/samarth/internal/storage"
)

type Importer struct {
	ObjectStore storage.ObjectStore
	TablePrefix string
	Logger      *slog.Logger
}

type ImportResult struct {
	Table       string
	ObjectKey   string
	Columns     []Column
	RecordCount int64
	SizeBytes   int64
}

// ImportCSV replaces the named table with the contents of r. Parts left over
// from an earlier import of the same table are removed after the upload.
func (i *Importer) ImportCSV(ctx context.Context, table string, r io.Reader) (ImportResult, error) {
	if i.ObjectStore == nil {
		return ImportResult{}, fmt.Errorf("object store is required")
	}
	key, err := storage.BuildTablePartPath(i.TablePrefix, table, 0)
	if err != nil {
		return ImportResult{}, fmt.Errorf("build table part path: %w", err)
	}

	encoded, err := EncodeCSV(r)
	if err != nil {
		return ImportResult{}, fmt.Errorf("encode %s: %w", table, err)
	}

	info, err := i.ObjectStore.Put(ctx, key, bytes.NewReader(encoded.Data), int64(len(encoded.Data)), storage.PutOptions{ContentType: storage.ParquetContentType})
	if err != nil {
		return ImportResult{}, fmt.Errorf("put parquet object: %w", err)
	}

	existing, err := i.ObjectStore.List(ctx, path.Dir(key)+"/")
	if err != nil {
		return ImportResult{}, fmt.Errorf("list table parts: %w", err)
	}
	for _, object := range existing {
		if object.Key == key {
			continue
		}
		if err := i.ObjectStore.Delete(ctx, object.Key); err != nil {
			return ImportResult{}, fmt.Errorf("delete stale part %s: %w", object.Key, err)
		}
	}

	if i.Logger != nil {
		i.Logger.InfoContext(ctx, "dataset table imported",
			slog.String("table", table),
			slog.String("object_path", key),
			slog.Int64("record_count", encoded.RecordCount),
			slog.Int("column_count", len(encoded.Columns)),
		)
	}

	return ImportResult{
		Table:       table,
		ObjectKey:   key,
		Columns:     encoded.Columns,
		RecordCount: encoded.RecordCount,
		SizeBytes:   info.Size,
	}, nil
}
