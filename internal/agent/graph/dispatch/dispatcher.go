package dispatch

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/steward-ai/steward/internal/agent/graph/catalog"
	"github.com/steward-ai/steward/internal/agent/graph/conversations"
	"github.com/steward-ai/steward/internal/agent/model"
	logx "github.com/steward-ai/steward/pkg/logger"
)

// Dispatcher executes tool decisions against the catalog. Failures never
// propagate as Go errors: an unknown tool or a failing tool yields a role=tool
// message describing the problem, which flows back to the classifier like any
// other observation so the model can explain or retry.
type Dispatcher struct {
	catalog  *catalog.Catalog
	messages *conversations.MessagesManager
}

func NewDispatcher(cat *catalog.Catalog, messages *conversations.MessagesManager) *Dispatcher {
	return &Dispatcher{catalog: cat, messages: messages}
}

// toolErrorPayload is the structured body of a failed tool hop.
type toolErrorPayload struct {
	Error string `json:"error"`
	Tool  string `json:"tool"`
	Cause string `json:"cause,omitempty"`
}

const (
	errUnknownTool = "unknown_tool"
	errToolFailed  = "tool_failed"
)

// Dispatch runs one tool hop for an invoke_tool decision and returns the
// resulting observation message. The decision must already be validated.
func (d *Dispatcher) Dispatch(ctx context.Context, conversationID string, decision model.Decision) *schema.Message {
	entry, err := d.catalog.Get(decision.ToolName)
	if err != nil {
		logx.Warn().
			Str("conversation_id", conversationID).
			Str("tool", decision.ToolName).
			Msg("classifier requested a tool that is not in the catalog")
		return d.failure(ctx, conversationID, decision.ToolName, errUnknownTool, "")
	}

	start := time.Now()
	result, err := entry.Tool.InvokableRun(ctx, string(decision.ToolInput))
	elapsed := time.Since(start)
	if err != nil {
		logx.Error().Err(err).
			Str("conversation_id", conversationID).
			Str("tool", decision.ToolName).
			Dur("elapsed", elapsed).
			Msg("tool execution failed")
		return d.failure(ctx, conversationID, decision.ToolName, errToolFailed, err.Error())
	}

	logx.Info().
		Str("conversation_id", conversationID).
		Str("tool", decision.ToolName).
		Dur("elapsed", elapsed).
		Int("result_len", len(result)).
		Msg("tool execution completed")

	d.messages.SaveToolResult(ctx, conversationID, decision.ToolName, result)
	return toolMessage(decision.ToolName, result)
}

func (d *Dispatcher) failure(ctx context.Context, conversationID, toolName, kind, cause string) *schema.Message {
	payload, merr := json.Marshal(toolErrorPayload{Error: kind, Tool: toolName, Cause: cause})
	if merr != nil {
		payload = []byte(`{"error":"` + kind + `"}`)
	}
	d.messages.SaveToolError(ctx, conversationID, toolName, string(payload))
	return toolMessage(toolName, string(payload))
}

func toolMessage(toolName, content string) *schema.Message {
	return &schema.Message{
		Role:    schema.Tool,
		Name:    toolName,
		Content: content,
	}
}
