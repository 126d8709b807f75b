package history

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStoreAppendAndList(t *testing.T) {
	store := NewMemoryStore()
	fixed := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	ctx := context.Background()
	for _, message := range []Message{
		{ConversationID: "c1", Role: RoleUser, Content: "How many rainfall records?"},
		{ConversationID: "c1", Role: RoleAssistant, Content: "There are 42 rainfall records."},
		{ConversationID: "c2", Role: RoleUser, Content: "other"},
	} {
		if _, err := store.Append(ctx, message); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	messages, err := store.List(ctx, "c1", 0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d", len(messages))
	}
	if messages[0].Role != RoleUser || messages[1].Role != RoleAssistant {
		t.Fatalf("roles = %q, %q", messages[0].Role, messages[1].Role)
	}
	if messages[0].ID != 1 || !messages[1].CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected message metadata: %+v", messages[1])
	}

	latest, err := store.List(ctx, "c1", 1)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(latest) != 1 || latest[0].Content != "There are 42 rainfall records." {
		t.Fatalf("latest = %+v", latest)
	}
}

func TestMemoryStoreListUnknownConversation(t *testing.T) {
	_, err := NewMemoryStore().List(context.Background(), "missing", 0)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("List() error = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreRejectsInvalidMessages(t *testing.T) {
	store := NewMemoryStore()
	tests := []Message{
		{Role: RoleUser, Content: "no conversation"},
		{ConversationID: "c1", Role: "system", Content: "bad role"},
	}
	for _, message := range tests {
		if _, err := store.Append(context.Background(), message); err == nil {
			t.Fatalf("Append() expected error for %+v", message)
		}
	}
}
