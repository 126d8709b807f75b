//go:build integration

package api

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/projectsamarth/samarth/internal/conversation"
	historypostgres "github.com/projectsamarth/samarth/internal/history/postgres"
	"github.com/projectsamarth/samarth/internal/migrations"
	"github.com/projectsamarth/samarth/internal/pipeline"
)

func TestAskPersistsConversationInPostgres(t *testing.T) {
	adminDSN := strings.TrimSpace(os.Getenv("SAMARTH_TEST_HISTORY_DSN"))
	if adminDSN == "" {
		t.Skip("SAMARTH_TEST_HISTORY_DSN is not set")
	}

	testDSN, cleanup := createTemporaryDatabase(t, adminDSN)
	defer cleanup()

	db, err := sql.Open("pgx", testDSN)
	if err != nil {
		t.Fatalf("sql.Open() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if _, err := migrations.NewRunner().Up(ctx, db, 0); err != nil {
		t.Fatalf("runner.Up() error = %v", err)
	}

	store := historypostgres.NewStore(db)
	surface := conversation.NewSurface(fakeRunner{turn: pipeline.Turn{ID: "turn-1", Answer: "There are 42 rainfall records."}}, store, nil)
	h := NewHandler(loadConfig(t, map[string]string{}), Dependencies{
		Conversations: surface,
		Readiness:     store.HealthCheck,
	})

	readyResp := httptest.NewRecorder()
	h.ServeHTTP(readyResp, httptest.NewRequest(http.MethodGet, "/v1/ready", nil))
	if readyResp.Code != http.StatusOK {
		t.Fatalf("ready status = %d", readyResp.Code)
	}

	first := decodeBody(t, postAsk(h, `{"question":"How many rainfall records?"}`, ""))
	conversationID, _ := first["conversation_id"].(string)
	if conversationID == "" {
		t.Fatalf("conversation_id missing: %#v", first)
	}
	_ = postAsk(h, fmt.Sprintf(`{"question":"And now?","conversation_id":%q}`, conversationID), "")

	listResp := httptest.NewRecorder()
	h.ServeHTTP(listResp, httptest.NewRequest(http.MethodGet, "/v1/conversations/"+conversationID+"/messages?limit=3", nil))
	if listResp.Code != http.StatusOK {
		t.Fatalf("list status = %d body=%s", listResp.Code, listResp.Body.String())
	}
	var listed struct {
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(listResp.Body.Bytes(), &listed); err != nil {
		t.Fatalf("json decode failed: %v", err)
	}
	if len(listed.Messages) != 3 {
		t.Fatalf("messages = %d, want 3", len(listed.Messages))
	}
	if listed.Messages[0].Role != "assistant" || listed.Messages[1].Content != "And now?" {
		t.Fatalf("messages = %#v", listed.Messages)
	}
}

func createTemporaryDatabase(t *testing.T, adminDSN string) (string, func()) {
	t.Helper()

	parsed, err := url.Parse(adminDSN)
	if err != nil {
		t.Fatalf("url.Parse(adminDSN) error = %v", err)
	}
	if strings.TrimPrefix(parsed.Path, "/") == "" {
		t.Fatal("admin DSN must include a database name")
	}

	adminDB, err := sql.Open("pgx", adminDSN)
	if err != nil {
		t.Fatalf("sql.Open(adminDSN) error = %v", err)
	}

	name := fmt.Sprintf("samarth_api_it_%d", time.Now().UnixNano())
	if _, err := adminDB.Exec(`CREATE DATABASE ` + name); err != nil {
		t.Fatalf("CREATE DATABASE failed: %v", err)
	}

	testURL := *parsed
	testURL.Path = "/" + name

	cleanup := func() {
		defer func() { _ = adminDB.Close() }()
		if _, err := adminDB.Exec(`SELECT pg_terminate_backend(pid) FROM pg_stat_activity WHERE datname = $1`, name); err != nil {
			t.Fatalf("terminate test db sessions: %v", err)
		}
		if _, err := adminDB.Exec(`DROP DATABASE ` + name); err != nil {
			t.Fatalf("DROP DATABASE failed: %v", err)
		}
	}
	return testURL.String(), cleanup
}
