package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steward-ai/steward/internal/agent/model"
	"github.com/steward-ai/steward/internal/agent/repo"
	logx "github.com/steward-ai/steward/pkg/logger"
)

// stubRouter scripts HandleTurn for handler tests.
type stubRouter struct {
	reply       string
	err         error
	calls       int
	sawDeadline bool
}

func (s *stubRouter) HandleTurn(ctx context.Context, conversationID, query string) (string, error) {
	s.calls++
	_, s.sawDeadline = ctx.Deadline()
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func newTestServer(router *stubRouter, store *repo.MemoryConversationRepository) *Server {
	return NewServer(router, store, ServerConfig{
		Port:      0,
		RateRPS:   100,
		RateBurst: 100,
	}, logx.Logger())
}

func postChat(t *testing.T, s *Server, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader(b))
	rec := httptest.NewRecorder()
	s.handleChat(rec, req)
	return rec
}

func TestHandleChatGeneratesConversationID(t *testing.T) {
	router := &stubRouter{reply: "Good morning."}
	s := newTestServer(router, repo.NewMemoryConversationRepository())

	rec := postChat(t, s, ChatRequest{Message: "hello"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ConversationID)
	assert.Equal(t, "Good morning.", resp.Reply)
	assert.Equal(t, 1, router.calls)
}

func TestHandleChatKeepsProvidedConversationID(t *testing.T) {
	router := &stubRouter{reply: "Certainly."}
	s := newTestServer(router, repo.NewMemoryConversationRepository())

	rec := postChat(t, s, ChatRequest{ConversationID: "household-1", Message: "hello again"})

	require.Equal(t, http.StatusOK, rec.Code)
	var resp ChatResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "household-1", resp.ConversationID)
}

func TestHandleChatRejectsEmptyMessage(t *testing.T) {
	router := &stubRouter{}
	s := newTestServer(router, repo.NewMemoryConversationRepository())

	rec := postChat(t, s, ChatRequest{Message: "   "})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, router.calls)
}

func TestHandleChatRejectsInvalidBody(t *testing.T) {
	s := newTestServer(&stubRouter{}, repo.NewMemoryConversationRepository())

	req := httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader([]byte("not json")))
	rec := httptest.NewRecorder()
	s.handleChat(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleChatRouterErrorIs500(t *testing.T) {
	router := &stubRouter{err: errors.New("graph exploded")}
	s := newTestServer(router, repo.NewMemoryConversationRepository())

	rec := postChat(t, s, ChatRequest{ConversationID: "c", Message: "hello"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotContains(t, resp.Error, "exploded", "internal details must not leak")
}

func TestHandleChatAppliesPerTurnDeadline(t *testing.T) {
	router := &stubRouter{reply: "ok"}
	s := NewServer(router, repo.NewMemoryConversationRepository(), ServerConfig{
		RequestTimeout: 30,
		RateRPS:        100,
		RateBurst:      100,
	}, logx.Logger())

	rec := postChat(t, s, ChatRequest{ConversationID: "c", Message: "hello"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, router.sawDeadline, "turn context must carry the request deadline")
}

func TestHandleChatRateLimitsPerConversation(t *testing.T) {
	router := &stubRouter{reply: "ok"}
	s := NewServer(router, repo.NewMemoryConversationRepository(), ServerConfig{
		RateRPS:   0.001,
		RateBurst: 1,
	}, logx.Logger())

	first := postChat(t, s, ChatRequest{ConversationID: "busy", Message: "one"})
	require.Equal(t, http.StatusOK, first.Code)

	second := postChat(t, s, ChatRequest{ConversationID: "busy", Message: "two"})
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// A different conversation has its own bucket.
	other := postChat(t, s, ChatRequest{ConversationID: "calm", Message: "three"})
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestHandleGetMessages(t *testing.T) {
	store := repo.NewMemoryConversationRepository()
	ctx := context.Background()
	seedTranscript(t, store, ctx)

	s := newTestServer(&stubRouter{}, store)

	req := httptest.NewRequest(http.MethodGet, "/v1/conversations/household-1/messages", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "household-1"})
	rec := httptest.NewRecorder()
	s.handleGetMessages(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp MessagesResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Messages, 2)
	assert.Equal(t, "user", resp.Messages[0].Role)
	assert.Equal(t, "assistant", resp.Messages[1].Role)
}

func TestHandleClearConversation(t *testing.T) {
	store := repo.NewMemoryConversationRepository()
	ctx := context.Background()
	seedTranscript(t, store, ctx)

	s := newTestServer(&stubRouter{}, store)

	req := httptest.NewRequest(http.MethodDelete, "/v1/conversations/household-1", nil)
	req = mux.SetURLVars(req, map[string]string{"id": "household-1"})
	rec := httptest.NewRecorder()
	s.handleClearConversation(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)

	n, err := store.GetMessageCount(ctx, "household-1")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(&stubRouter{}, repo.NewMemoryConversationRepository())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.handleHealth(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func seedTranscript(t *testing.T, store *repo.MemoryConversationRepository, ctx context.Context) {
	t.Helper()
	require.NoError(t, store.AddMessage(ctx, "household-1", model.NewMessage("household-1", schema.User, "hello")))
	require.NoError(t, store.AddMessage(ctx, "household-1", model.NewMessage("household-1", schema.Assistant, "good day")))
}
