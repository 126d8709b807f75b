package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/projectsamarth/samarth/internal/auth"
	"github.com/projectsamarth/samarth/internal/conversation"
	"github.com/projectsamarth/samarth/internal/history"
)

const (
	maxAskBodyBytes     = 64 << 10
	defaultMessageLimit = 200
	maxMessageLimit     = 1000
)

type askRequest struct {
	Question       string `json:"question"`
	ConversationID string `json:"conversation_id"`
	ShowQuery      bool   `json:"show_query"`
}

type askResponse struct {
	ConversationID string `json:"conversation_id"`
	TurnID         string `json:"turn_id,omitempty"`
	Answer         string `json:"answer"`
	Failed         bool   `json:"failed"`
	Query          string `json:"query,omitempty"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Conversations == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "PIPELINE_UNAVAILABLE", "question pipeline is not configured", true, nil)
		return
	}

	var req askRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxAskBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "invalid JSON body: "+err.Error(), false, nil)
		return
	}

	reply, err := deps.Conversations.Submit(r.Context(), req.ConversationID, req.Question)
	if err != nil {
		if errors.Is(err, conversation.ErrEmptyQuestion) {
			writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "question is required", false, nil)
			return
		}
		if deps.Logger != nil {
			deps.Logger.ErrorContext(r.Context(), "conversation history write failed", slog.Any("error", err))
		}
		writeError(r.Context(), w, http.StatusInternalServerError, "HISTORY_FAILED", err.Error(), true, map[string]any{
			"conversation_id": reply.ConversationID,
		})
		return
	}

	if deps.Logger != nil {
		identity, _ := auth.IdentityFromContext(r.Context())
		deps.Logger.InfoContext(r.Context(), "question answered",
			slog.String("conversation_id", reply.ConversationID),
			slog.String("turn_id", reply.TurnID),
			slog.String("user_id", identity.UserID),
			slog.Bool("failed", reply.Failed),
		)
	}

	resp := askResponse{
		ConversationID: reply.ConversationID,
		TurnID:         reply.TurnID,
		Answer:         reply.Answer,
		Failed:         reply.Failed,
	}
	if req.ShowQuery {
		resp.Query = reply.Query
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleSchema(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if strings.TrimSpace(deps.Schema) == "" {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "SCHEMA_UNAVAILABLE", "schema description is not loaded", true, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"schema": deps.Schema})
}

func handleListMessages(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Conversations == nil {
		writeError(r.Context(), w, http.StatusServiceUnavailable, "HISTORY_UNAVAILABLE", "conversation history is not configured", true, nil)
		return
	}
	conversationID := strings.TrimSpace(r.PathValue("id"))

	limit := defaultMessageLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxMessageLimit {
			writeError(r.Context(), w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be between 1 and 1000", false, nil)
			return
		}
		limit = parsed
	}

	messages, err := deps.Conversations.Messages(r.Context(), conversationID, limit)
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			writeError(r.Context(), w, http.StatusNotFound, "NOT_FOUND", "conversation not found", false, map[string]any{
				"conversation_id": conversationID,
			})
			return
		}
		writeError(r.Context(), w, http.StatusInternalServerError, "HISTORY_FAILED", err.Error(), true, nil)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conversation_id": conversationID,
		"messages":        messages,
	})
}
