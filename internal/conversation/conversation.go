// Package conversation is the chat surface around the pipeline: it records
// each exchange in the display history and turns pipeline failures into an
// apology the user can read.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/projectsamarth/samarth/internal/history"
	"github.com/projectsamarth/samarth/internal/observability"
	"github.com/projectsamarth/samarth/internal/pipeline"
)

const FailurePrefix = "Sorry, I ran into an error: "

var ErrEmptyQuestion = errors.New("question is required")

// Runner runs one question through the pipeline.
type Runner interface {
	Run(ctx context.Context, question string) (pipeline.Turn, error)
}

type Reply struct {
	ConversationID string `json:"conversation_id"`
	TurnID         string `json:"turn_id,omitempty"`
	Answer         string `json:"answer"`
	Failed         bool   `json:"failed"`
	Query          string `json:"query,omitempty"`
}

type Surface struct {
	runner  Runner
	history history.Store
	logger  *slog.Logger
}

func NewSurface(runner Runner, store history.Store, logger *slog.Logger) *Surface {
	if logger == nil {
		logger = observability.DiscardLogger()
	}
	return &Surface{runner: runner, history: store, logger: logger}
}

// Submit runs a single turn. The returned error is reserved for history
// failures; a failed turn is reported through Reply.Failed.
func (s *Surface) Submit(ctx context.Context, conversationID, question string) (Reply, error) {
	// Both stages receive the question as typed.
	if strings.TrimSpace(question) == "" {
		return Reply{}, ErrEmptyQuestion
	}
	conversationID = strings.TrimSpace(conversationID)
	if conversationID == "" {
		conversationID = uuid.NewString()
	}

	if _, err := s.history.Append(ctx, history.Message{
		ConversationID: conversationID,
		Role:           history.RoleUser,
		Content:        question,
	}); err != nil {
		return Reply{}, fmt.Errorf("record question: %w", err)
	}

	reply := Reply{ConversationID: conversationID}
	turn, err := s.runner.Run(ctx, question)
	reply.TurnID = turn.ID
	reply.Query = turn.Query
	if err != nil {
		s.logger.ErrorContext(ctx, "question could not be answered",
			slog.String("conversation_id", conversationID),
			slog.String("turn_id", turn.ID),
			slog.Any("error", err),
		)
		reply.Answer = FailurePrefix + err.Error()
		reply.Failed = true
	} else {
		reply.Answer = turn.Answer
	}

	if _, err := s.history.Append(ctx, history.Message{
		ConversationID: conversationID,
		Role:           history.RoleAssistant,
		Content:        reply.Answer,
	}); err != nil {
		return reply, fmt.Errorf("record answer: %w", err)
	}
	return reply, nil
}

func (s *Surface) Messages(ctx context.Context, conversationID string, limit int) ([]history.Message, error) {
	return s.history.List(ctx, conversationID, limit)
}
