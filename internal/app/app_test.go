package app

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	_ "github.com/marcboeker/go-duckdb/v2"

	"github.com/projectsamarth/samarth/internal/config"
)

type scriptedModel struct {
	mu      sync.Mutex
	prompts []string
}

func (m *scriptedModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Prompt string `json:"prompt"`
	}
	_ = json.NewDecoder(r.Body).Decode(&payload)
	m.mu.Lock()
	m.prompts = append(m.prompts, payload.Prompt)
	m.mu.Unlock()

	response := "SELECT COUNT(*) FROM rainfall;"
	if strings.Contains(payload.Prompt, "SQL Results:") {
		response = "There are 3 rainfall records."
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"response": response, "done": true})
}

func TestBootstrapAnswersQuestionEndToEnd(t *testing.T) {
	datasetPath := seedDataset(t)
	model := &scriptedModel{}
	server := httptest.NewServer(model)
	defer server.Close()

	cfg := testConfig(t, map[string]string{
		"SAMARTH_DATASET_PATH": datasetPath,
		"SAMARTH_AI_PROVIDER":  "ollama",
		"SAMARTH_AI_BASE_URL":  server.URL,
	})
	a, err := Bootstrap(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	if !strings.Contains(a.Schema(), "CREATE TABLE rainfall (") {
		t.Fatalf("Schema() = %q", a.Schema())
	}
	if err := a.Ready(context.Background()); err != nil {
		t.Fatalf("Ready() error = %v", err)
	}

	reply, err := a.Surface.Submit(context.Background(), "", "How many rainfall records are there?")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if reply.Answer != "There are 3 rainfall records." || reply.Failed {
		t.Fatalf("reply = %+v", reply)
	}
	if len(model.prompts) != 2 {
		t.Fatalf("prompts = %d", len(model.prompts))
	}
	if !strings.Contains(model.prompts[0], "Schema: CREATE TABLE rainfall (") {
		t.Fatalf("query prompt = %q", model.prompts[0])
	}
	if !strings.Contains(model.prompts[1], "SQL Results: [(3,)]") {
		t.Fatalf("answer prompt = %q", model.prompts[1])
	}
}

func TestBootstrapUsesSchemaFileOverride(t *testing.T) {
	datasetPath := seedDataset(t)
	schemaPath := filepath.Join(t.TempDir(), "schema.txt")
	writeFile(t, schemaPath, "rainfall(state, year, annual_mm)")

	cfg := testConfig(t, map[string]string{
		"SAMARTH_DATASET_PATH":        datasetPath,
		"SAMARTH_DATASET_SCHEMA_FILE": schemaPath,
		"SAMARTH_AI_PROVIDER":         "ollama",
	})
	a, err := Bootstrap(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Bootstrap() error = %v", err)
	}
	defer func() { _ = a.Close() }()

	if a.Schema() != "rainfall(state, year, annual_mm)" {
		t.Fatalf("Schema() = %q", a.Schema())
	}
}

func TestBootstrapFailsFastWithoutDataset(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"SAMARTH_DATASET_PATH": filepath.Join(t.TempDir(), "missing.db"),
		"SAMARTH_AI_PROVIDER":  "ollama",
	})
	if _, err := Bootstrap(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for missing dataset file")
	}
}

func TestBootstrapFailsOnInvalidProvider(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		"SAMARTH_DATASET_PATH": seedDataset(t),
		"SAMARTH_AI_PROVIDER":  "openai",
	})
	if _, err := Bootstrap(context.Background(), cfg, nil); err == nil {
		t.Fatal("expected error for openai provider without api key")
	}
}

func seedDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "samarth.db")
	db, err := sql.Open("duckdb", path)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()
	for _, statement := range []string{
		"CREATE TABLE rainfall (state VARCHAR, year BIGINT, annual_mm DOUBLE)",
		"INSERT INTO rainfall VALUES ('Kerala', 2019, 3012.5), ('Punjab', 2020, 649.0), ('Assam', 2021, 2818.2)",
	} {
		if _, err := db.Exec(statement); err != nil {
			t.Fatalf("seed error = %v", err)
		}
	}
	return path
}

func testConfig(t *testing.T, env map[string]string) config.Config {
	t.Helper()
	env["SAMARTH_PROFILE"] = "test"
	cfg, err := config.Load("samarth-test", func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	})
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	return cfg
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}
