package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type KnowledgeSearchInput struct {
	Query      string `json:"query"`
	MaxResults int    `json:"max_results,omitempty"`
}

type KnowledgeSnippet struct {
	Source string  `json:"source"`
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
}

type KnowledgeSearchOutput struct {
	Snippets []KnowledgeSnippet `json:"snippets,omitempty"`
	Message  string             `json:"message,omitempty"`
}

// Stand-in for the ingested household knowledge base. A real deployment plugs
// a vector store behind the same tool schema.
var mockKnowledgeBase = []KnowledgeSnippet{
	{Source: "household-handbook.md", Text: "Recycling is collected every second Tuesday; bins go out the night before.", Score: 0.92},
	{Source: "household-handbook.md", Text: "The boiler service contract is with Hartley Heating, renewal each October.", Score: 0.88},
	{Source: "staff-notes.md", Text: "The Hendersons are vegetarian; plan menus accordingly when they visit.", Score: 0.85},
	{Source: "vehicle-log.md", Text: "The estate car is due for inspection in March.", Score: 0.81},
}

func createKnowledgeSearchTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolRAGSearch,
			Desc: "Searches the ingested household knowledge base (handbook, staff notes, logs) and returns the most relevant passages. Use for questions about household facts, routines, and preferences.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {
					Type:     "string",
					Desc:     "Natural-language search query.",
					Required: true,
				},
				"max_results": {
					Type: "number",
					Desc: "Maximum passages to return (default 3).",
				},
			}),
		},
		func(ctx context.Context, in *KnowledgeSearchInput) (*KnowledgeSearchOutput, error) {
			q := strings.ToLower(strings.TrimSpace(in.Query))
			if q == "" {
				return nil, fmt.Errorf("query is required")
			}
			max := in.MaxResults
			if max <= 0 || max > 10 {
				max = 3
			}

			var matched []KnowledgeSnippet
			for _, s := range mockKnowledgeBase {
				for _, word := range strings.Fields(q) {
					if strings.Contains(strings.ToLower(s.Text), word) || strings.Contains(strings.ToLower(s.Source), word) {
						matched = append(matched, s)
						break
					}
				}
			}
			if len(matched) > max {
				matched = matched[:max]
			}
			if len(matched) == 0 {
				return &KnowledgeSearchOutput{Message: "Nothing relevant found in the knowledge base."}, nil
			}
			return &KnowledgeSearchOutput{Snippets: matched}, nil
		},
	)
}
