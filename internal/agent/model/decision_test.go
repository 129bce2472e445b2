package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyDecisionValidates(t *testing.T) {
	d := ReplyDecision("hello there")

	require.NoError(t, d.Validate())
	assert.Equal(t, DecisionReply, d.Kind)
	assert.Empty(t, d.ToolName)
	assert.Empty(t, d.ToolInput)
}

func TestInvokeToolDecisionValidates(t *testing.T) {
	d := InvokeToolDecision("google_tasks", json.RawMessage(`{"action":"list"}`))

	require.NoError(t, d.Validate())
	assert.Equal(t, DecisionInvokeTool, d.Kind)
	assert.Empty(t, d.Text)
}

func TestInvokeToolDecisionDefaultsEmptyInput(t *testing.T) {
	d := InvokeToolDecision("google_tasks", nil)

	assert.JSONEq(t, `{}`, string(d.ToolInput))
	require.NoError(t, d.Validate())
}

func TestDecisionValidateRejectsMixedFields(t *testing.T) {
	cases := []struct {
		name string
		d    Decision
	}{
		{"reply without text", Decision{Kind: DecisionReply}},
		{"reply with tool name", Decision{Kind: DecisionReply, Text: "hi", ToolName: "google_mail"}},
		{"invoke without tool name", Decision{Kind: DecisionInvokeTool}},
		{"invoke with reply text", Decision{Kind: DecisionInvokeTool, ToolName: "google_mail", Text: "hi"}},
		{"unknown kind", Decision{Kind: "maybe"}},
		{"zero value", Decision{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, tc.d.Validate())
		})
	}
}
