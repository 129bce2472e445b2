package prompts

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/steward-ai/steward/internal/agent/graph/catalog"
	"github.com/steward-ai/steward/internal/agent/model"
)

//go:embed template/classifier_prompt.txt
var classifierSystemPrompt string

// RenderClassifierSystem renders the classifier system prompt via the Eino
// prompt component. The tool list comes straight from the catalog, so the
// vocabulary the model sees always matches what the dispatcher can execute.
func RenderClassifierSystem(ctx context.Context, cfg model.ClassifierPromptConfig, tools []catalog.ToolSummary) (string, error) {
	var toolList strings.Builder
	for _, t := range tools {
		toolList.WriteString(t.Name)
		toolList.WriteString(": ")
		toolList.WriteString(t.Description)
		toolList.WriteString("\n")
	}

	// Render known tokens only; the template's JSON grammar braces must not be
	// treated as format variables.
	content := strings.NewReplacer(
		"{assistant_name}", cfg.AssistantName,
		"{household_name}", cfg.HouseholdName,
		"{tool_catalog}", strings.TrimRight(toolList.String(), "\n"),
	).Replace(classifierSystemPrompt)

	// Wrap via Eino prompt component using a messages placeholder to emit callbacks
	tpl := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system_messages", false),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"system_messages": []*schema.Message{schema.SystemMessage(content)},
	})
	if err != nil {
		return "", fmt.Errorf("classifier prompt callbacks: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("classifier prompt callbacks: empty result")
	}
	return msgs[0].Content, nil
}
