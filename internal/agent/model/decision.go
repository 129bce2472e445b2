package model

import (
	"encoding/json"
	"fmt"
)

// DecisionKind discriminates the two classifier verdicts.
type DecisionKind string

const (
	DecisionReply      DecisionKind = "reply"
	DecisionInvokeTool DecisionKind = "invoke_tool"
)

// Decision is the classifier's structured verdict for the current hop:
// either answer the user directly or invoke a named tool. Exactly one of
// Text / (ToolName, ToolInput) is populated, matching Kind.
type Decision struct {
	Kind      DecisionKind    `json:"kind"`
	Text      string          `json:"text,omitempty"`
	ToolName  string          `json:"tool_name,omitempty"`
	ToolInput json.RawMessage `json:"tool_input,omitempty"`
}

// ReplyDecision builds a conversational-path decision.
func ReplyDecision(text string) Decision {
	return Decision{Kind: DecisionReply, Text: text}
}

// InvokeToolDecision builds a tool-path decision.
func InvokeToolDecision(name string, input json.RawMessage) Decision {
	if len(input) == 0 {
		input = json.RawMessage("{}")
	}
	return Decision{Kind: DecisionInvokeTool, ToolName: name, ToolInput: input}
}

// Validate checks the exactly-one invariant between the two sides.
func (d Decision) Validate() error {
	switch d.Kind {
	case DecisionReply:
		if d.Text == "" {
			return fmt.Errorf("reply decision without text")
		}
		if d.ToolName != "" || len(d.ToolInput) > 0 {
			return fmt.Errorf("reply decision carries tool fields")
		}
	case DecisionInvokeTool:
		if d.ToolName == "" {
			return fmt.Errorf("invoke_tool decision without tool name")
		}
		if d.Text != "" {
			return fmt.Errorf("invoke_tool decision carries reply text")
		}
	default:
		return fmt.Errorf("unknown decision kind %q", d.Kind)
	}
	return nil
}
