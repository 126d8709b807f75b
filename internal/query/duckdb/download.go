package duckdb

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/projectsamarth/samarth/internal/storage"
)

// download copies one table part to localPath so read_parquet can scan it.
func download(ctx context.Context, store storage.ObjectStore, key, localPath string) error {
	reader, err := store.Get(ctx, key)
	if err != nil {
		return fmt.Errorf("get object %q: %w", key, err)
	}
	defer func() { _ = reader.Close() }()

	file, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("create local parquet file %q: %w", localPath, err)
	}
	if _, err := io.Copy(file, reader); err != nil {
		_ = file.Close()
		return fmt.Errorf("write local parquet file %q: %w", localPath, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close local parquet file %q: %w", localPath, err)
	}
	return nil
}
