package conversations

import (
	"context"

	"github.com/cloudwego/eino/schema"

	"github.com/steward-ai/steward/internal/agent/model"
	logx "github.com/steward-ai/steward/pkg/logger"
)

// MessagesManager mediates between the router graph and the transcript store.
// The transcript is append-only: records are written once and never updated.
//
// Persistence failures on writes are logged and swallowed so a flaky store
// degrades the bot to stateless operation instead of failing user turns.
// Read failures do fail the turn, since classifying against a silently
// truncated transcript produces confidently wrong answers.
type MessagesManager struct {
	repo model.ConversationRepository
	cfg  model.ConversationConfig
}

func NewMessagesManager(repo model.ConversationRepository, cfg model.ConversationConfig) *MessagesManager {
	return &MessagesManager{repo: repo, cfg: cfg}
}

// RecordUserMessage persists the incoming user turn and returns the minted
// record regardless of store outcome.
func (m *MessagesManager) RecordUserMessage(ctx context.Context, conversationID, text string) model.Message {
	msg := model.NewMessage(conversationID, schema.User, text)
	m.append(ctx, conversationID, msg)
	return msg
}

// SaveAssistantReply persists the outgoing assistant turn.
func (m *MessagesManager) SaveAssistantReply(ctx context.Context, conversationID, text string) {
	m.append(ctx, conversationID, model.NewMessage(conversationID, schema.Assistant, text))
}

// SaveToolResult persists a tool observation, tagged with the producing tool.
func (m *MessagesManager) SaveToolResult(ctx context.Context, conversationID, toolName, content string) {
	m.append(ctx, conversationID, model.NewToolMessage(conversationID, toolName, content))
}

// SaveToolError persists a failed tool hop. The record keeps role=tool so the
// classifier sees the failure as an observation it can react to.
func (m *MessagesManager) SaveToolError(ctx context.Context, conversationID, toolName, content string) {
	msg := model.NewToolMessage(conversationID, toolName, content)
	msg.Metadata[model.MetaError] = "true"
	m.append(ctx, conversationID, msg)
}

// LoadContext loads the transcript, trims it to the configured context window
// and converts it to the wire shape the classifier consumes.
func (m *MessagesManager) LoadContext(ctx context.Context, conversationID string) ([]*schema.Message, error) {
	history, err := m.repo.LoadHistory(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	records := trimTail(history.Messages, m.cfg.Context.MaxTurns)
	out := make([]*schema.Message, 0, len(records))
	for _, rec := range records {
		out = append(out, rec.AsSchema())
	}
	return out, nil
}

func (m *MessagesManager) append(ctx context.Context, conversationID string, msg model.Message) {
	if err := msg.Validate(); err != nil {
		logx.Error().Err(err).
			Str("conversation_id", conversationID).
			Msg("refusing to persist invalid message")
		return
	}
	if err := m.repo.AddMessage(ctx, conversationID, msg); err != nil {
		logx.Error().Err(err).
			Str("conversation_id", conversationID).
			Str("role", string(msg.Role)).
			Msg("failed to persist message, continuing without")
	}
}

// trimTail keeps the newest max records. max <= 0 disables trimming.
func trimTail(msgs []model.Message, max int) []model.Message {
	if max <= 0 || len(msgs) <= max {
		return msgs
	}
	return msgs[len(msgs)-max:]
}
