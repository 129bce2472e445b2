package parsers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steward-ai/steward/internal/agent/model"
)

func TestParseDecisionReply(t *testing.T) {
	d, err := ParseDecision(`{"tool": "ui", "tool_input": "Good morning, how may I help?"}`)

	require.NoError(t, err)
	assert.Equal(t, model.DecisionReply, d.Kind)
	assert.Equal(t, "Good morning, how may I help?", d.Text)
	assert.Empty(t, d.ToolName)
}

func TestParseDecisionReplyUINodeAlias(t *testing.T) {
	d, err := ParseDecision(`{"tool": "ui_node", "tool_input": "Certainly."}`)

	require.NoError(t, err)
	assert.Equal(t, model.DecisionReply, d.Kind)
	assert.Equal(t, "Certainly.", d.Text)
}

func TestParseDecisionInvokeTool(t *testing.T) {
	d, err := ParseDecision(`{"tool": "google_calendar", "tool_input": {"action": "view", "date": "today"}}`)

	require.NoError(t, err)
	assert.Equal(t, model.DecisionInvokeTool, d.Kind)
	assert.Equal(t, "google_calendar", d.ToolName)
	assert.JSONEq(t, `{"action": "view", "date": "today"}`, string(d.ToolInput))
}

func TestParseDecisionEmptyToolInputDefaultsToObject(t *testing.T) {
	d, err := ParseDecision(`{"tool": "google_tasks"}`)

	require.NoError(t, err)
	assert.Equal(t, model.DecisionInvokeTool, d.Kind)
	assert.JSONEq(t, `{}`, string(d.ToolInput))
}

func TestParseDecisionStripsCodeFences(t *testing.T) {
	content := "```json\n{\"tool\": \"ui\", \"tool_input\": \"Of course.\"}\n```"

	d, err := ParseDecision(content)

	require.NoError(t, err)
	assert.Equal(t, "Of course.", d.Text)
}

func TestParseDecisionIgnoresSurroundingProse(t *testing.T) {
	content := "Here is my answer:\n{\"tool\": \"ui\", \"tool_input\": \"Done.\"} trailing commentary"

	d, err := ParseDecision(content)

	require.NoError(t, err)
	assert.Equal(t, model.DecisionReply, d.Kind)
	assert.Equal(t, "Done.", d.Text)
}

func TestParseDecisionFirstObjectWins(t *testing.T) {
	content := `{"tool": "ui", "tool_input": "first"}

{"tool": "google_mail", "tool_input": {"action": "list"}}`

	d, err := ParseDecision(content)

	require.NoError(t, err)
	assert.Equal(t, model.DecisionReply, d.Kind)
	assert.Equal(t, "first", d.Text)
}

func TestParseDecisionMalformed(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no json at all", "I think the user wants the calendar."},
		{"empty input", ""},
		{"truncated object", `{"tool": "ui", "tool_input": "unfin`},
		{"empty tool field", `{"tool": "", "tool_input": "hello"}`},
		{"dict input on reply channel", `{"tool": "ui", "tool_input": {"text": "hello"}}`},
		{"string input on tool", `{"tool": "google_mail", "tool_input": "list please"}`},
		{"array input on tool", `{"tool": "google_mail", "tool_input": [1,2]}`},
		{"null input on tool", `{"tool": "google_mail", "tool_input": null}`},
		{"empty reply text", `{"tool": "ui", "tool_input": "   "}`},
		{"wrong shape entirely", `{"answer": 42}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDecision(tc.content)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedDecision)
		})
	}
}

func TestParseDecisionIgnoresExtraFields(t *testing.T) {
	content := `{"thought": "the user wants mail", "tool": "google_mail", "tool_input": {"action": "list"}}`

	d, err := ParseDecision(content)

	require.NoError(t, err)
	assert.Equal(t, "google_mail", d.ToolName)
}

func TestParseDecisionOversizedContent(t *testing.T) {
	// A valid decision at the front survives truncation of the garbage tail.
	content := `{"tool": "ui", "tool_input": "short"}` + strings.Repeat("x", maxContentLen)

	d, err := ParseDecision(content)

	require.NoError(t, err)
	assert.Equal(t, "short", d.Text)
}
