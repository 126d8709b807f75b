// Package history keeps the display log of each conversation. Messages are
// shown back to the user; they are never fed into prompts.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

var ErrNotFound = errors.New("conversation not found")

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant
}

type Message struct {
	ID             int64     `json:"id"`
	ConversationID string    `json:"conversation_id"`
	Role           Role      `json:"role"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"created_at"`
}

// Store appends to and reads conversation logs. List returns messages oldest
// first; a positive limit keeps only the most recent limit messages.
type Store interface {
	Append(ctx context.Context, message Message) (Message, error)
	List(ctx context.Context, conversationID string, limit int) ([]Message, error)
}

func Validate(message Message) error {
	if strings.TrimSpace(message.ConversationID) == "" {
		return fmt.Errorf("conversation id is required")
	}
	if !message.Role.Valid() {
		return fmt.Errorf("invalid message role %q", message.Role)
	}
	return nil
}

type MemoryStore struct {
	mu            sync.Mutex
	nextID        int64
	conversations map[string][]Message
	now           func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		conversations: map[string][]Message{},
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Append(_ context.Context, message Message) (Message, error) {
	if err := Validate(message); err != nil {
		return Message{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	message.ID = s.nextID
	message.CreatedAt = s.now()
	s.conversations[message.ConversationID] = append(s.conversations[message.ConversationID], message)
	return message, nil
}

func (s *MemoryStore) List(_ context.Context, conversationID string, limit int) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	messages, ok := s.conversations[conversationID]
	if !ok {
		return nil, ErrNotFound
	}
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	out := make([]Message, len(messages))
	copy(out, messages)
	return out, nil
}

func (s *MemoryStore) HealthCheck(context.Context) error {
	return nil
}
