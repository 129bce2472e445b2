package model

import (
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/oklog/ulid/v2"
)

// Metadata keys used by the router when it records messages.
const (
	MetaToolName = "tool_name"
	MetaError    = "error"
)

// Message is one immutable record of a conversation transcript. It is created
// by the router (user and assistant turns) or by the dispatcher (tool results),
// persisted append-only, and never mutated afterwards.
type Message struct {
	ID        string            `json:"id"`
	SessionID string            `json:"session_id"`
	Role      schema.RoleType   `json:"role"`
	Content   string            `json:"content"`
	CreatedAt time.Time         `json:"created_at"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// NewMessage mints a Message with a fresh ULID and UTC timestamp.
func NewMessage(sessionID string, role schema.RoleType, content string) Message {
	return Message{
		ID:        ulid.Make().String(),
		SessionID: sessionID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
}

// NewToolMessage mints a role=tool Message tagged with the producing tool.
func NewToolMessage(sessionID, toolName, content string) Message {
	m := NewMessage(sessionID, schema.Tool, content)
	m.Metadata = map[string]string{MetaToolName: toolName}
	return m
}

// Validate enforces the record invariants: a known role and non-empty session.
// Content may legitimately be empty only for system messages.
func (m Message) Validate() error {
	switch m.Role {
	case schema.User, schema.Assistant, schema.Tool, schema.System:
	default:
		return fmt.Errorf("invalid message role %q", m.Role)
	}
	if m.SessionID == "" {
		return fmt.Errorf("message %s has no session id", m.ID)
	}
	if m.Content == "" && m.Role != schema.System {
		return fmt.Errorf("message %s has empty content", m.ID)
	}
	return nil
}

// AsSchema converts the stored record into the wire shape the chat model
// consumes. Tool messages keep their tool name so the classifier can tell
// which capability produced the observation.
func (m Message) AsSchema() *schema.Message {
	sm := &schema.Message{
		Role:    m.Role,
		Content: m.Content,
	}
	if name, ok := m.Metadata[MetaToolName]; ok {
		sm.Name = name
	}
	return sm
}
