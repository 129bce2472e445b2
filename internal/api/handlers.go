package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/oklog/ulid/v2"

	"github.com/steward-ai/steward/internal/agent/graph"
)

type ChatRequest struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Message        string `json:"message"`
}

type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

type MessagesResponse struct {
	ConversationID string        `json:"conversation_id"`
	Messages       []MessageView `json:"messages"`
}

type MessageView struct {
	ID        string            `json:"id"`
	Role      string            `json:"role"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, "message is required", http.StatusBadRequest)
		return
	}

	convID := strings.TrimSpace(req.ConversationID)
	if convID == "" {
		convID = ulid.Make().String()
	}

	if !s.limiter.Allow(convID) {
		rateLimitedTotal.Inc()
		s.writeError(w, "too many requests for this conversation", http.StatusTooManyRequests)
		return
	}

	// One turn at a time per conversation
	unlock := s.turns.lock(convID)
	defer unlock()

	// The graph honors the caller's deadline; a hung model or tool call must
	// not hold the turn lock past the request budget.
	ctx := r.Context()
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(s.cfg.RequestTimeout)*time.Second)
		defer cancel()
	}

	start := time.Now()
	reply, err := s.router.HandleTurn(ctx, convID, req.Message)
	turnDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		turnsTotal.WithLabelValues(outcomeError).Inc()
		s.logger.Error().Err(err).Str("conversation_id", convID).Msg("turn error")
		s.writeError(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	if reply == graph.ServiceApologyText {
		turnsTotal.WithLabelValues(outcomeApology).Inc()
	} else {
		turnsTotal.WithLabelValues(outcomeOK).Inc()
	}

	s.writeJSON(w, http.StatusOK, ChatResponse{
		ConversationID: convID,
		Reply:          reply,
	})
}

func (s *Server) handleGetMessages(w http.ResponseWriter, r *http.Request) {
	convID := mux.Vars(r)["id"]

	history, err := s.repo.LoadHistory(r.Context(), convID)
	if err != nil {
		s.logger.Error().Err(err).Str("conversation_id", convID).Msg("failed to load history")
		s.writeError(w, "failed to load conversation", http.StatusInternalServerError)
		return
	}

	views := make([]MessageView, 0, len(history.Messages))
	for _, m := range history.Messages {
		views = append(views, MessageView{
			ID:        m.ID,
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
			Metadata:  m.Metadata,
		})
	}

	s.writeJSON(w, http.StatusOK, MessagesResponse{
		ConversationID: convID,
		Messages:       views,
	})
}

func (s *Server) handleClearConversation(w http.ResponseWriter, r *http.Request) {
	convID := mux.Vars(r)["id"]

	if err := s.repo.ClearHistory(r.Context(), convID); err != nil {
		s.logger.Error().Err(err).Str("conversation_id", convID).Msg("failed to clear history")
		s.writeError(w, "failed to clear conversation", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error().Err(err).Msg("failed to encode response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, message string, status int) {
	s.writeJSON(w, status, ErrorResponse{Error: message})
}
