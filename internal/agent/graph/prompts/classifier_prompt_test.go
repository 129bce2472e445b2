package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steward-ai/steward/internal/agent/graph/catalog"
	"github.com/steward-ai/steward/internal/agent/model"
)

func TestRenderClassifierSystem(t *testing.T) {
	cfg := model.ClassifierPromptConfig{
		AssistantName: "Steward",
		HouseholdName: "the O'Donnell household",
	}
	summaries := []catalog.ToolSummary{
		{Name: "google_calendar", Description: "checks the calendar"},
		{Name: "rag_search", Description: "searches household knowledge"},
	}

	out, err := RenderClassifierSystem(context.Background(), cfg, summaries)
	require.NoError(t, err)

	assert.Contains(t, out, "Steward")
	assert.Contains(t, out, "the O'Donnell household")
	assert.Contains(t, out, "google_calendar: checks the calendar")
	assert.Contains(t, out, "rag_search: searches household knowledge")

	// Template tokens must all be substituted.
	assert.NotContains(t, out, "{assistant_name}")
	assert.NotContains(t, out, "{household_name}")
	assert.NotContains(t, out, "{tool_catalog}")

	// The JSON grammar itself must survive rendering verbatim.
	assert.Contains(t, out, `{"tool": "ui", "tool_input": "<your reply text>"}`)
}

func TestRenderClassifierSystemToolOrder(t *testing.T) {
	cfg := model.ClassifierPromptConfig{AssistantName: "A", HouseholdName: "B"}
	summaries := []catalog.ToolSummary{
		{Name: "zeta", Description: "z"},
		{Name: "alpha", Description: "a"},
	}

	out, err := RenderClassifierSystem(context.Background(), cfg, summaries)
	require.NoError(t, err)

	zi := strings.Index(out, "zeta: z")
	ai := strings.Index(out, "alpha: a")
	require.GreaterOrEqual(t, zi, 0)
	require.GreaterOrEqual(t, ai, 0)
	assert.Less(t, zi, ai, "catalog order must be preserved in the prompt")
}
