package migrations

import (
	"strings"
	"testing"
)

func TestHistoryMigrationContainsRequiredTablesAndIndexes(t *testing.T) {
	body, err := embeddedFS.ReadFile("sql/000001_conversation_message.up.sql")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	sql := string(body)
	requiredSnippets := []string{
		"CREATE TABLE conversation_message",
		"message_id BIGSERIAL PRIMARY KEY",
		"CHECK (role IN ('user', 'assistant'))",
		"CREATE INDEX idx_conversation_message_conversation_id",
	}

	for _, snippet := range requiredSnippets {
		if !strings.Contains(sql, snippet) {
			t.Fatalf("migration missing required snippet: %s", snippet)
		}
	}
}

func TestHistoryMigrationDownDropsTable(t *testing.T) {
	body, err := embeddedFS.ReadFile("sql/000001_conversation_message.down.sql")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if !strings.Contains(string(body), "DROP TABLE IF EXISTS conversation_message") {
		t.Fatalf("down migration = %q", string(body))
	}
}
