package repo

import (
	"context"
	"sync"

	"github.com/steward-ai/steward/internal/agent/model"
)

// MemoryConversationRepository keeps transcripts in process memory. It is the
// acceptable-degrade fallback when no Redis is configured, and the test double
// for the router graph.
type MemoryConversationRepository struct {
	mu       sync.RWMutex
	messages map[string][]model.Message
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{
		messages: make(map[string][]model.Message),
	}
}

func (r *MemoryConversationRepository) AddMessage(ctx context.Context, conversationID string, message model.Message) error {
	if err := message.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[conversationID] = append(r.messages[conversationID], message)
	return nil
}

func (r *MemoryConversationRepository) LoadHistory(ctx context.Context, conversationID string) (*model.ConversationHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	src := r.messages[conversationID]
	msgs := make([]model.Message, len(src))
	copy(msgs, src)
	return &model.ConversationHistory{ConversationID: conversationID, Messages: msgs}, nil
}

func (r *MemoryConversationRepository) ClearHistory(ctx context.Context, conversationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, conversationID)
	return nil
}

func (r *MemoryConversationRepository) GetMessageCount(ctx context.Context, conversationID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages[conversationID]), nil
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)
