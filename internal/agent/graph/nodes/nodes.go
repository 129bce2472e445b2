package nodes

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/steward-ai/steward/internal/agent/graph/catalog"
	"github.com/steward-ai/steward/internal/agent/graph/conversations"
	"github.com/steward-ai/steward/internal/agent/graph/dispatch"
	"github.com/steward-ai/steward/internal/agent/graph/parsers"
	"github.com/steward-ai/steward/internal/agent/graph/prompts"
	"github.com/steward-ai/steward/internal/agent/model"
	logx "github.com/steward-ai/steward/pkg/logger"
)

// NewInputConverterPreHandler creates the pre-handler for the InputConverter node
func NewInputConverterPreHandler() func(context.Context, model.QueryInput, *model.TurnState) (model.QueryInput, error) {
	return func(ctx context.Context, in model.QueryInput, s *model.TurnState) (model.QueryInput, error) {
		s.ConversationID = in.ConversationID
		// Reset per-turn budget and accumulators for each new query
		s.History = nil
		s.LastDecision = nil
		s.ToolCallCount = 0
		s.ToolCallLimitReached = false
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewInputConverterNode builds the message list for the first classifier pass:
// rendered system prompt, trimmed transcript, then the incoming user turn.
// A transcript load failure fails the whole turn; persisting the user record
// is best-effort inside the manager.
func NewInputConverterNode(
	mm *conversations.MessagesManager,
	promptCfg model.ClassifierPromptConfig,
	cat *catalog.Catalog,
) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, input model.QueryInput) ([]*schema.Message, error) {
		history, err := mm.LoadContext(ctx, input.ConversationID)
		if err != nil {
			return nil, fmt.Errorf("load conversation context: %w", err)
		}

		mm.RecordUserMessage(ctx, input.ConversationID, input.Query)

		systemPrompt, err := prompts.RenderClassifierSystem(ctx, promptCfg, cat.Describe())
		if err != nil {
			return nil, fmt.Errorf("render classifier system prompt: %w", err)
		}

		messages := make([]*schema.Message, 0, len(history)+2)
		messages = append(messages, schema.SystemMessage(systemPrompt))
		messages = append(messages, history...)
		messages = append(messages, schema.UserMessage(input.Query))

		return messages, nil
	})
}

// NewClassifierPreHandler folds incoming messages into turn history and hands
// the full history to the model. On the first pass the input is the complete
// assembled context; on reclassify passes it is just the new tool observation.
func NewClassifierPreHandler() func(context.Context, []*schema.Message, *model.TurnState) ([]*schema.Message, error) {
	return func(ctx context.Context, in []*schema.Message, state *model.TurnState) ([]*schema.Message, error) {
		state.History = append(state.History, in...)
		logx.Debug().
			Str("conversation_id", state.ConversationID).
			Int("context_len", len(state.History)).
			Msg("AI thinking...")
		return state.History, nil
	}
}

// NewClassifierPostHandler appends the model output to turn history and
// computes and logs usage cost for the classifier call.
func NewClassifierPostHandler(modelName string) func(context.Context, *schema.Message, *model.TurnState) (*schema.Message, error) {
	return func(ctx context.Context, out *schema.Message, state *model.TurnState) (*schema.Message, error) {
		if out != nil && out.ResponseMeta != nil && out.ResponseMeta.Usage != nil {
			pricing := model.ResolvePricing(modelName)
			inC, outC, totalC := pricing.Cost(out.ResponseMeta.Usage)
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}
			out.Extra["usage_cost"] = map[string]any{
				"currency":          "USD",
				"model":             modelName,
				"prompt_tokens":     out.ResponseMeta.Usage.PromptTokens,
				"completion_tokens": out.ResponseMeta.Usage.CompletionTokens,
				"total_tokens":      out.ResponseMeta.Usage.TotalTokens,
				"input_cost":        inC,
				"output_cost":       outC,
				"total_cost":        totalC,
			}
			logx.Debug().
				Str("conversation_id", state.ConversationID).
				Str("node", NodeClassifierChatModel).
				Str("model", modelName).
				Int("prompt_tokens", out.ResponseMeta.Usage.PromptTokens).
				Int("completion_tokens", out.ResponseMeta.Usage.CompletionTokens).
				Int("total_tokens", out.ResponseMeta.Usage.TotalTokens).
				Float64("input_cost_usd", inC).
				Float64("output_cost_usd", outC).
				Float64("total_cost_usd", totalC).
				Msg("LLM usage")

			state.TotalCostUSD += totalC
			out.Extra["usage_cost_total_usd"] = state.TotalCostUSD
		}

		state.History = append(state.History, out)
		return out, nil
	}
}

// NewDecisionParserNode creates the parser node for classifier output.
// Malformed output degrades to the canned fallback reply instead of failing
// the turn; the follow-up question gives the user a way to recover.
func NewDecisionParserNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, resp *schema.Message) (model.Decision, error) {
		if resp == nil {
			return model.Decision{}, fmt.Errorf("classifier returned nil message")
		}
		decision, err := parsers.ParseDecision(resp.Content)
		if err != nil {
			if errors.Is(err, parsers.ErrMalformedDecision) {
				logx.Warn().Err(err).Msg("Malformed classifier output - falling back to canned reply")
				return model.ReplyDecision(FallbackReplyText), nil
			}
			logx.Error().Err(err).Msg("Error parsing classifier decision")
			return model.Decision{}, err
		}
		return decision, nil
	})
}

// NewDecisionParserPostHandler records the parsed decision in turn state.
func NewDecisionParserPostHandler() func(context.Context, model.Decision, *model.TurnState) (model.Decision, error) {
	return func(ctx context.Context, out model.Decision, state *model.TurnState) (model.Decision, error) {
		d := out
		state.LastDecision = &d
		logx.Debug().
			Str("conversation_id", state.ConversationID).
			Str("decision", string(out.Kind)).
			Str("tool", out.ToolName).
			Msg("Classifier decision parsed")
		return out, nil
	}
}

// NewDecisionRouteCondition routes each parsed decision: replies go straight
// to the emitter; tool requests go to the dispatcher while budget remains,
// and to the hard stop once the per-turn ceiling is hit.
func NewDecisionRouteCondition(maxToolCalls int) func(context.Context, model.Decision) (string, error) {
	return func(ctx context.Context, input model.Decision) (string, error) {
		if input.Kind == model.DecisionReply {
			return NodeReplyEmitter, nil
		}

		var exhausted bool
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.TurnState) error {
			exhausted = budgetExhausted(state, maxToolCalls)
			return nil
		})
		if err != nil {
			return "", fmt.Errorf("failed to access state: %w", err)
		}

		if exhausted {
			logx.Warn().
				Str("tool", input.ToolName).
				Int("max_tool_calls", normalizeMaxToolCalls(maxToolCalls)).
				Msg("Tool call budget exhausted - routing to turn limit stop")
			return NodeTurnLimitStop, nil
		}

		logx.Debug().Str("tool", input.ToolName).Msg("Routing to ToolDispatcher")
		return NodeToolDispatcher, nil
	}
}

// NewToolDispatcherPreHandler consumes one unit of the per-turn tool budget.
// The routing condition has already verified budget remains, so the count
// here never passes the ceiling.
func NewToolDispatcherPreHandler() func(context.Context, model.Decision, *model.TurnState) (model.Decision, error) {
	return func(ctx context.Context, in model.Decision, state *model.TurnState) (model.Decision, error) {
		state.ToolCallCount++
		logx.Debug().
			Str("conversation_id", state.ConversationID).
			Str("tool", in.ToolName).
			Int("tool_call_count", state.ToolCallCount).
			Msg("Tool execution attempt")
		return in, nil
	}
}

// NewToolDispatcherNode executes one tool hop. The dispatcher converts all
// failure modes into observation messages, so this node itself cannot fail
// the turn.
func NewToolDispatcherNode(d *dispatch.Dispatcher) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, decision model.Decision) (*schema.Message, error) {
		var conversationID string
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.TurnState) error {
			conversationID = state.ConversationID
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}
		return d.Dispatch(ctx, conversationID, decision), nil
	})
}

// NewReclassifyAssemblerNode adapts a tool observation into the message-list
// shape the classifier node consumes. History merging happens in the
// classifier pre-handler, so only the new observation travels on the edge.
func NewReclassifyAssemblerNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, toolMsg *schema.Message) ([]*schema.Message, error) {
		if toolMsg == nil {
			return nil, fmt.Errorf("dispatcher returned nil observation")
		}
		return []*schema.Message{toolMsg}, nil
	})
}

// NewReplyEmitterNode finalizes the conversational path: persist the
// assistant turn and emit it as the graph output.
func NewReplyEmitterNode(mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, decision model.Decision) (*schema.Message, error) {
		var conversationID string
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.TurnState) error {
			conversationID = state.ConversationID
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		mm.SaveAssistantReply(ctx, conversationID, decision.Text)
		return schema.AssistantMessage(decision.Text, nil), nil
	})
}

// NewTurnLimitStopNode finalizes turns that burned the whole tool budget
// without reaching a direct reply. The unexecuted tool request is logged and
// dropped; the user gets the canned wrap-up instead of a silent failure.
func NewTurnLimitStopNode(mm *conversations.MessagesManager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, decision model.Decision) (*schema.Message, error) {
		var conversationID string
		var toolCalls int
		err := compose.ProcessState(ctx, func(_ context.Context, state *model.TurnState) error {
			conversationID = state.ConversationID
			toolCalls = state.ToolCallCount
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to access state: %w", err)
		}

		logx.Warn().
			Str("conversation_id", conversationID).
			Str("dropped_tool", decision.ToolName).
			Int("tool_call_count", toolCalls).
			Msg("Turn ended at tool call ceiling")

		mm.SaveAssistantReply(ctx, conversationID, TurnLimitReplyText)
		return schema.AssistantMessage(TurnLimitReplyText, nil), nil
	})
}
