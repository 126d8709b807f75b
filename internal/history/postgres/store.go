package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/projectsamarth/samarth/internal/history"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping history db: %w", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, message history.Message) (history.Message, error) {
	if err := history.Validate(message); err != nil {
		return history.Message{}, err
	}

	query := `
INSERT INTO conversation_message (conversation_id, role, content)
VALUES ($1, $2, $3)
RETURNING message_id, created_at`
	if err := s.db.QueryRowContext(ctx, query, message.ConversationID, string(message.Role), message.Content).Scan(
		&message.ID,
		&message.CreatedAt,
	); err != nil {
		return history.Message{}, fmt.Errorf("append conversation message: %w", err)
	}
	return message, nil
}

func (s *Store) List(ctx context.Context, conversationID string, limit int) ([]history.Message, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.QueryContext(ctx, `
SELECT message_id, conversation_id, role, content, created_at
FROM (
	SELECT message_id, conversation_id, role, content, created_at
	FROM conversation_message
	WHERE conversation_id = $1
	ORDER BY message_id DESC
	LIMIT $2
) AS recent
ORDER BY message_id ASC`, conversationID, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
SELECT message_id, conversation_id, role, content, created_at
FROM conversation_message
WHERE conversation_id = $1
ORDER BY message_id ASC`, conversationID)
	}
	if err != nil {
		return nil, fmt.Errorf("list conversation messages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	messages := make([]history.Message, 0)
	for rows.Next() {
		var (
			message history.Message
			role    string
		)
		if err := rows.Scan(&message.ID, &message.ConversationID, &role, &message.Content, &message.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan conversation message row: %w", err)
		}
		message.Role = history.Role(role)
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversation message rows: %w", err)
	}
	if len(messages) == 0 {
		return nil, history.ErrNotFound
	}
	return messages, nil
}
