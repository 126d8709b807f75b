package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaultsForDevProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{})
	cfg, err := Load("samarth-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Auth.Required {
		t.Fatal("Auth.Required should default to false in dev")
	}
	if cfg.Dataset.Source != DatasetSourceFile {
		t.Fatalf("Dataset.Source = %q", cfg.Dataset.Source)
	}
	if cfg.Dataset.Path != "samarth.db" {
		t.Fatalf("Dataset.Path = %q", cfg.Dataset.Path)
	}
	if !cfg.Dataset.ReadOnly {
		t.Fatal("Dataset.ReadOnly should default to true")
	}
	if cfg.Dataset.SampleRows != 3 {
		t.Fatalf("Dataset.SampleRows = %d", cfg.Dataset.SampleRows)
	}
	if cfg.Dataset.RowLimit != 0 {
		t.Fatalf("Dataset.RowLimit = %d", cfg.Dataset.RowLimit)
	}
	if cfg.History.Backend != HistoryBackendMemory {
		t.Fatalf("History.Backend = %q", cfg.History.Backend)
	}
	if cfg.AI.Provider != AIProviderGemini {
		t.Fatalf("AI.Provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.Temperature != 0 {
		t.Fatalf("AI.Temperature = %f", cfg.AI.Temperature)
	}
	if cfg.AI.Timeout != 60*time.Second {
		t.Fatalf("AI.Timeout = %s", cfg.AI.Timeout)
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	lookup := mapLookup(map[string]string{"SAMARTH_PROFILE": "prod"})
	cfg, err := Load("samarth-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileProd {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileProd)
	}
	if !cfg.Auth.Required {
		t.Fatal("Auth.Required should default to true in prod")
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.ObjectStore.UseSSL {
		t.Fatal("ObjectStore.UseSSL should default to true in prod")
	}
	if cfg.History.Backend != HistoryBackendPostgres {
		t.Fatalf("History.Backend = %q", cfg.History.Backend)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"SAMARTH_PROFILE":                   "test",
		"SAMARTH_HTTP_ADDR":                 ":9999",
		"SAMARTH_HTTP_READ_TIMEOUT":         "2s",
		"SAMARTH_LOG_LEVEL":                 "error",
		"SAMARTH_AUTH_REQUIRED":             "true",
		"SAMARTH_AUTH_STATIC_KEYS":          "k1:u1:asker",
		"SAMARTH_SERVICE_NAME":              "samarth-custom",
		"SAMARTH_DATASET_SOURCE":            "ObjectStore",
		"SAMARTH_DATASET_TABLE_PREFIX":      "datasets/agri",
		"SAMARTH_DATASET_SCHEMA_FILE":       "/etc/samarth/schema.txt",
		"SAMARTH_DATASET_SAMPLE_ROWS":       "5",
		"SAMARTH_DATASET_ROW_LIMIT":         "500",
		"SAMARTH_DATASET_READ_ONLY":         "false",
		"SAMARTH_OBJECTSTORE_ENDPOINT":      "s3.example.com",
		"SAMARTH_OBJECTSTORE_BUCKET":        "samarth-prod",
		"SAMARTH_OBJECTSTORE_USE_SSL":       "true",
		"SAMARTH_HISTORY_BACKEND":           "postgres",
		"SAMARTH_HISTORY_DSN":               "postgres://example",
		"SAMARTH_HISTORY_MAX_OPEN_CONNS":    "42",
		"SAMARTH_HISTORY_CONN_MAX_LIFETIME": "1h",
		"SAMARTH_AI_PROVIDER":               "OpenAI",
		"SAMARTH_AI_BASE_URL":               "https://api.example.com/v1/",
		"SAMARTH_AI_API_KEY":                "secret-key",
		"SAMARTH_AI_MODEL":                  "gpt-4.1-mini",
		"SAMARTH_AI_TEMPERATURE":            "0.3",
		"SAMARTH_AI_TIMEOUT":                "21s",
	})
	cfg, err := Load("samarth-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.Name != "samarth-custom" {
		t.Fatalf("Service.Name = %q", cfg.Service.Name)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.HTTP.ReadTimeout != 2*time.Second {
		t.Fatalf("HTTP.ReadTimeout = %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if !cfg.Auth.Required {
		t.Fatal("Auth.Required = false, want true")
	}
	if cfg.Auth.StaticKeys != "k1:u1:asker" {
		t.Fatalf("StaticKeys = %q", cfg.Auth.StaticKeys)
	}
	if cfg.Dataset.Source != DatasetSourceObjectStore {
		t.Fatalf("Dataset.Source = %q", cfg.Dataset.Source)
	}
	if cfg.Dataset.TablePrefix != "datasets/agri" {
		t.Fatalf("Dataset.TablePrefix = %q", cfg.Dataset.TablePrefix)
	}
	if cfg.Dataset.SchemaFile != "/etc/samarth/schema.txt" {
		t.Fatalf("Dataset.SchemaFile = %q", cfg.Dataset.SchemaFile)
	}
	if cfg.Dataset.SampleRows != 5 {
		t.Fatalf("Dataset.SampleRows = %d", cfg.Dataset.SampleRows)
	}
	if cfg.Dataset.RowLimit != 500 {
		t.Fatalf("Dataset.RowLimit = %d", cfg.Dataset.RowLimit)
	}
	if cfg.Dataset.ReadOnly {
		t.Fatal("Dataset.ReadOnly = true, want false")
	}
	if cfg.ObjectStore.Bucket != "samarth-prod" {
		t.Fatalf("ObjectStore.Bucket = %q", cfg.ObjectStore.Bucket)
	}
	if cfg.History.Backend != HistoryBackendPostgres {
		t.Fatalf("History.Backend = %q", cfg.History.Backend)
	}
	if cfg.History.DSN != "postgres://example" {
		t.Fatalf("History.DSN = %q", cfg.History.DSN)
	}
	if cfg.History.MaxOpenConns != 42 {
		t.Fatalf("History.MaxOpenConns = %d", cfg.History.MaxOpenConns)
	}
	if cfg.History.ConnMaxLifetime != time.Hour {
		t.Fatalf("History.ConnMaxLifetime = %s", cfg.History.ConnMaxLifetime)
	}
	if cfg.AI.Provider != AIProviderOpenAI {
		t.Fatalf("AI.Provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.BaseURL != "https://api.example.com/v1/" {
		t.Fatalf("AI.BaseURL = %q", cfg.AI.BaseURL)
	}
	if cfg.AI.APIKey != "secret-key" {
		t.Fatalf("AI.APIKey = %q", cfg.AI.APIKey)
	}
	if cfg.AI.Model != "gpt-4.1-mini" {
		t.Fatalf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.Temperature != 0.3 {
		t.Fatalf("AI.Temperature = %f", cfg.AI.Temperature)
	}
	if cfg.AI.Timeout != 21*time.Second {
		t.Fatalf("AI.Timeout = %s", cfg.AI.Timeout)
	}
}

func TestLoadErrorsOnInvalidValues(t *testing.T) {
	tests := []map[string]string{
		{"SAMARTH_PROFILE": "oops"},
		{"SAMARTH_HTTP_READ_TIMEOUT": "NaN"},
		{"SAMARTH_HISTORY_MAX_OPEN_CONNS": "oops"},
		{"SAMARTH_HISTORY_BACKEND": "redis"},
		{"SAMARTH_DATASET_SOURCE": "ftp"},
		{"SAMARTH_DATASET_PATH": ""},
		{"SAMARTH_DATASET_SAMPLE_ROWS": "-1"},
		{"SAMARTH_DATASET_ROW_LIMIT": "many"},
		{"SAMARTH_AI_PROVIDER": "clippy"},
		{"SAMARTH_AI_TEMPERATURE": "bad"},
		{"SAMARTH_AI_TEMPERATURE": "-0.5"},
		{"SAMARTH_AUTH_REQUIRED": "not-bool"},
		{"SAMARTH_LOG_LEVEL": "verbose"},
	}
	for _, env := range tests {
		_, err := Load("samarth-api", mapLookup(env))
		if err == nil {
			t.Fatalf("Load() expected error for env %#v", env)
		}
	}
}

func TestLoadRequiresLookup(t *testing.T) {
	if _, err := Load("samarth-api", nil); err == nil {
		t.Fatal("expected error for nil lookup")
	}
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
