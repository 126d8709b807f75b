package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified time.Time
}

// ParquetContentType is applied to .parquet keys stored without an explicit
// content type.
const ParquetContentType = "application/vnd.apache.parquet"

type PutOptions struct {
	ContentType string
}

// ObjectStore holds the parquet files backing dataset tables. Keys are
// slash-separated and relative to the store's configured prefix.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, opts PutOptions) (ObjectInfo, error)
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	List(ctx context.Context, prefix string) ([]ObjectInfo, error)
}
