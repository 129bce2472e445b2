package repo

import (
	"context"
	"testing"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steward-ai/steward/internal/agent/model"
)

func TestMemoryRepositoryAppendAndLoad(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()

	require.NoError(t, r.AddMessage(ctx, "c1", model.NewMessage("c1", schema.User, "first")))
	require.NoError(t, r.AddMessage(ctx, "c1", model.NewMessage("c1", schema.Assistant, "second")))

	history, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "first", history.Messages[0].Content)
	assert.Equal(t, "second", history.Messages[1].Content)

	n, err := r.GetMessageCount(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestMemoryRepositoryRejectsInvalidMessage(t *testing.T) {
	r := NewMemoryConversationRepository()

	err := r.AddMessage(context.Background(), "c1", model.Message{Role: "narrator"})
	require.Error(t, err)

	n, _ := r.GetMessageCount(context.Background(), "c1")
	assert.Zero(t, n)
}

func TestMemoryRepositoryIsolatesConversations(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()

	require.NoError(t, r.AddMessage(ctx, "c1", model.NewMessage("c1", schema.User, "for c1")))
	require.NoError(t, r.AddMessage(ctx, "c2", model.NewMessage("c2", schema.User, "for c2")))

	h1, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, h1.Messages, 1)
	assert.Equal(t, "for c1", h1.Messages[0].Content)

	require.NoError(t, r.ClearHistory(ctx, "c1"))
	h1, err = r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, h1.Messages)

	h2, err := r.LoadHistory(ctx, "c2")
	require.NoError(t, err)
	assert.Len(t, h2.Messages, 1)
}

func TestMemoryRepositoryLoadReturnsCopy(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryConversationRepository()
	require.NoError(t, r.AddMessage(ctx, "c1", model.NewMessage("c1", schema.User, "original")))

	history, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	history.Messages[0].Content = "mutated"

	fresh, err := r.LoadHistory(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "original", fresh.Messages[0].Content)
}
