package schema

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type countingProvider struct {
	text  string
	err   error
	calls int
}

func (p *countingProvider) DescribeSchema(context.Context) (string, error) {
	p.calls++
	return p.text, p.err
}

func TestLoadCallsProviderOnce(t *testing.T) {
	provider := &countingProvider{text: "CREATE TABLE rainfall (state VARCHAR)"}
	description, err := Load(context.Background(), provider)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if provider.calls != 1 {
		t.Fatalf("calls = %d", provider.calls)
	}
	if description.String() != provider.text {
		t.Fatalf("String() = %q", description.String())
	}
	if description.IsZero() {
		t.Fatal("IsZero() = true")
	}
}

func TestLoadFailsFast(t *testing.T) {
	boom := errors.New("dataset unreachable")
	if _, err := Load(context.Background(), &countingProvider{err: boom}); !errors.Is(err, boom) {
		t.Fatalf("Load() error = %v, want %v", err, boom)
	}
	if _, err := Load(context.Background(), &countingProvider{text: " \n\t"}); !errors.Is(err, ErrEmptySchema) {
		t.Fatalf("Load() error = %v, want ErrEmptySchema", err)
	}
	if _, err := Load(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil provider")
	}
}

func TestStaticProvider(t *testing.T) {
	description, err := Load(context.Background(), Static("CREATE TABLE crops (name VARCHAR)"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if description.String() != "CREATE TABLE crops (name VARCHAR)" {
		t.Fatalf("String() = %q", description.String())
	}
}

func TestFileProvider(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.txt")
	if err := os.WriteFile(path, []byte("CREATE TABLE crops (name VARCHAR)\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	description, err := Load(context.Background(), FileProvider{Path: path})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if description.String() != "CREATE TABLE crops (name VARCHAR)\n" {
		t.Fatalf("String() = %q", description.String())
	}

	if _, err := Load(context.Background(), FileProvider{Path: filepath.Join(t.TempDir(), "missing.txt")}); err == nil {
		t.Fatal("expected error for missing file")
	}
	if _, err := Load(context.Background(), FileProvider{}); err == nil {
		t.Fatal("expected error for empty path")
	}
}
