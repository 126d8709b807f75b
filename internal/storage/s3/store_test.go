package s3

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/projectsamarth/samarth/internal/storage"
)

func TestPutUsesPrefixAndNormalizedKey(t *testing.T) {
	fake := &fakeClient{}
	store, err := NewWithClient("bucket-a", "samarth/prod", fake)
	if err != nil {
		t.Fatalf("NewWithClient() error = %v", err)
	}

	_, err = store.Put(context.Background(), "/tables/rainfall/part-00000.parquet", bytes.NewBufferString("abc"), 3, storage.PutOptions{ContentType: "application/octet-stream"})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if fake.lastPutBucket != "bucket-a" {
		t.Fatalf("bucket = %q", fake.lastPutBucket)
	}
	if fake.lastPutKey != "samarth/prod/tables/rainfall/part-00000.parquet" {
		t.Fatalf("key = %q", fake.lastPutKey)
	}
}

func TestPutDefaultsParquetContentType(t *testing.T) {
	fake := &fakeClient{}
	store, err := NewWithClient("bucket-a", "samarth", fake)
	if err != nil {
		t.Fatalf("NewWithClient() error = %v", err)
	}

	info, err := store.Put(context.Background(), "tables/crops/part-00000.parquet", bytes.NewBufferString("abc"), 3, storage.PutOptions{})
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if fake.lastContentType != storage.ParquetContentType {
		t.Fatalf("content type = %q", fake.lastContentType)
	}
	if info.Key != "tables/crops/part-00000.parquet" {
		t.Fatalf("info.Key = %q", info.Key)
	}

	if _, err := store.Put(context.Background(), "notes.txt", bytes.NewBufferString("x"), 1, storage.PutOptions{}); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if fake.lastContentType != "" {
		t.Fatalf("content type for non-parquet key = %q", fake.lastContentType)
	}
}

func TestPutRejectsPathTraversal(t *testing.T) {
	fake := &fakeClient{}
	store, err := NewWithClient("bucket-a", "", fake)
	if err != nil {
		t.Fatalf("NewWithClient() error = %v", err)
	}
	for _, key := range []string{"../secrets.txt", "tables/../../secrets.txt", "..", "  "} {
		if _, err := store.Put(context.Background(), key, bytes.NewBufferString("x"), 1, storage.PutOptions{}); err == nil {
			t.Fatalf("expected validation error for key %q", key)
		}
	}
}

func TestEnsureBucketCreatesWhenMissing(t *testing.T) {
	fake := &fakeClient{bucketExists: false}
	store, err := NewWithClient("bucket-a", "", fake)
	if err != nil {
		t.Fatalf("NewWithClient() error = %v", err)
	}

	if err := store.ensureBucket(context.Background(), "us-east-1"); err != nil {
		t.Fatalf("ensureBucket() error = %v", err)
	}
	if !fake.createBucketCalled {
		t.Fatal("expected CreateBucket to be called")
	}
}

func TestDeleteIgnoresMissingObject(t *testing.T) {
	fake := &fakeClient{deleteErr: storage.ErrObjectNotFound}
	store, err := NewWithClient("bucket-a", "", fake)
	if err != nil {
		t.Fatalf("NewWithClient() error = %v", err)
	}
	if err := store.Delete(context.Background(), "missing/file.parquet"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
}

func TestListStripsStorePrefix(t *testing.T) {
	fake := &fakeClient{listed: []storage.ObjectInfo{
		{Key: "samarth/prod/tables/rainfall/part-00000.parquet", Size: 12},
		{Key: "samarth/prod/tables/crop_production/part-00000.parquet", Size: 34},
	}}
	store, err := NewWithClient("bucket-a", "samarth/prod", fake)
	if err != nil {
		t.Fatalf("NewWithClient() error = %v", err)
	}

	objects, err := store.List(context.Background(), "tables")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if fake.lastListPrefix != "samarth/prod/tables/" {
		t.Fatalf("list prefix = %q", fake.lastListPrefix)
	}
	if len(objects) != 2 {
		t.Fatalf("len(objects) = %d", len(objects))
	}
	if objects[0].Key != "tables/rainfall/part-00000.parquet" {
		t.Fatalf("objects[0].Key = %q", objects[0].Key)
	}
}

func TestParseEndpoint(t *testing.T) {
	tests := []struct {
		raw        string
		useSSL     bool
		wantHost   string
		wantSecure bool
		wantErr    bool
	}{
		{raw: "https://minio.example.com", wantHost: "minio.example.com", wantSecure: true},
		{raw: "http://localhost:9000", useSSL: false, wantHost: "localhost:9000"},
		{raw: "localhost:9000", useSSL: true, wantHost: "localhost:9000", wantSecure: true},
		{raw: "ftp://minio.example.com", wantErr: true},
		{raw: "https://", wantErr: true},
		{raw: " ", wantErr: true},
	}
	for _, tt := range tests {
		host, secure, err := parseEndpoint(tt.raw, tt.useSSL)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseEndpoint(%q) expected error", tt.raw)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseEndpoint(%q) error = %v", tt.raw, err)
		}
		if host != tt.wantHost || secure != tt.wantSecure {
			t.Fatalf("parseEndpoint(%q) = %q/%v", tt.raw, host, secure)
		}
	}
}

type fakeClient struct {
	lastPutBucket      string
	lastPutKey         string
	lastContentType    string
	bucketExists       bool
	createBucketCalled bool
	deleteErr          error
	listed             []storage.ObjectInfo
	lastListPrefix     string
}

func (f *fakeClient) Put(_ context.Context, bucket, key string, reader io.Reader, size int64, contentType string) (storage.ObjectInfo, error) {
	f.lastPutBucket = bucket
	f.lastPutKey = key
	f.lastContentType = contentType
	_, _ = io.Copy(io.Discard, reader)
	return storage.ObjectInfo{Key: key, Size: size, ETag: "etag-1"}, nil
}

func (f *fakeClient) Get(_ context.Context, _, key string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(key)), nil
}

func (f *fakeClient) Delete(_ context.Context, _, _ string) error {
	return f.deleteErr
}

func (f *fakeClient) List(_ context.Context, _, prefix string) ([]storage.ObjectInfo, error) {
	f.lastListPrefix = prefix
	return append([]storage.ObjectInfo(nil), f.listed...), nil
}

func (f *fakeClient) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, nil
}

func (f *fakeClient) CreateBucket(_ context.Context, _, _ string) error {
	f.createBucketCalled = true
	return nil
}
