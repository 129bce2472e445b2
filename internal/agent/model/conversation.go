package model

import (
	"context"
)

type ConversationRepository interface {
	// AddMessage appends a message to the conversation transcript.
	AddMessage(ctx context.Context, conversationID string, message Message) error

	// LoadHistory retrieves the full transcript for a conversation.
	LoadHistory(ctx context.Context, conversationID string) (*ConversationHistory, error)

	// ClearHistory removes all transcript entries for a conversation.
	ClearHistory(ctx context.Context, conversationID string) error

	// GetMessageCount returns the number of messages in the conversation.
	GetMessageCount(ctx context.Context, conversationID string) (int, error)
}

// ConversationHistory represents loaded transcript data with metadata.
type ConversationHistory struct {
	ConversationID string
	Messages       []Message
}
