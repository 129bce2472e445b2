package model

import (
	"github.com/cloudwego/eino/schema"
)

// TurnState stores per-turn state for the router graph.
// Concurrency model:
//   - This struct is registered as Graph Local State via compose.WithGenLocalState.
//   - All reads/writes happen only inside Eino state handlers:
//     WithStatePreHandler, WithStatePostHandler, or compose.ProcessState.
//   - Eino serializes access to state within these handlers, so no additional
//     mutex/atomic is required as long as you never touch it outside handlers.
//   - A fresh TurnState is generated per invocation, so the tool-call budget
//     resets on every user turn.
type TurnState struct {
	ConversationID       string
	History              []*schema.Message // mutated only inside Eino state handlers
	LastDecision         *Decision         // most recent parsed decision, kept for observability
	ToolCallCount        int               // tool hops consumed within this turn
	ToolCallLimitReached bool              // set once the ceiling is hit

	// Accumulated total LLM cost (USD) across classifier invocations this turn
	TotalCostUSD float64
}

// QueryInput represents one user turn entering the router.
type QueryInput struct {
	ConversationID string `json:"conversation_id"`
	Query          string `json:"query"`
}
