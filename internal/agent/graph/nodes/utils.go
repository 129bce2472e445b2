package nodes

import (
	"github.com/steward-ai/steward/internal/agent/model"
)

// Node names used when wiring the router graph.
const (
	NodeInputConverter      = "input_converter"
	NodeClassifierChatModel = "classifier_chat_model"
	NodeDecisionParser      = "decision_parser"
	NodeToolDispatcher      = "tool_dispatcher"
	NodeReclassifyAssembler = "reclassify_assembler"
	NodeReplyEmitter        = "reply_emitter"
	NodeTurnLimitStop       = "turn_limit_stop"
)

const DefaultMaxToolCalls = 5

// Canned user-facing texts for degraded paths. These are replies, not errors:
// the turn still completes and the transcript stays consistent.
const (
	// FallbackReplyText covers classifier output that matched neither decision shape.
	FallbackReplyText = "My apologies, I did not quite follow that. Could you rephrase your request?"

	// TurnLimitReplyText covers turns that consumed the whole tool budget
	// without reaching a direct reply.
	TurnLimitReplyText = "My apologies, that request needed more steps than I allow myself in one turn. " +
		"Could you narrow it down, or ask for the pieces one at a time?"
)

// ===== Small helpers to keep handlers simple/readable =====
// normalizeMaxToolCalls returns a sane default when the provided value is invalid.
func normalizeMaxToolCalls(n int) int {
	if n <= 0 {
		return DefaultMaxToolCalls
	}
	return n
}

// budgetExhausted reports whether another tool hop would exceed the per-turn
// ceiling, marking the state the first time it trips.
func budgetExhausted(state *model.TurnState, max int) bool {
	max = normalizeMaxToolCalls(max)
	if state.ToolCallCount >= max {
		state.ToolCallLimitReached = true
		return true
	}
	return false
}
