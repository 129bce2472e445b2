package tools

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

// Tool names as advertised to the classifier. These follow the vocabulary the
// household prompt uses, so the model can name them verbatim.
const (
	ToolGoogleCalendar = "google_calendar"
	ToolGoogleMail     = "google_mail"
	ToolGoogleTasks    = "google_tasks"
	ToolGoogleDrive    = "google_drive"
	ToolRAGSearch      = "rag_search"
)

// GetHouseholdTools returns all staff tools in their canonical registration
// order. The order is stable because it drives the classifier prompt.
func GetHouseholdTools() []tool.BaseTool {
	return []tool.BaseTool{
		createCalendarTool(),
		createMailTool(),
		createTasksTool(),
		createDriveTool(),
		createKnowledgeSearchTool(),
	}
}

// GetToolInfos resolves the schema for each tool.
func GetToolInfos(ctx context.Context, ts []tool.BaseTool) ([]*schema.ToolInfo, error) {
	infos := make([]*schema.ToolInfo, 0, len(ts))
	for _, t := range ts {
		info, err := t.Info(ctx)
		if err != nil {
			return nil, fmt.Errorf("get tool info: %w", err)
		}
		infos = append(infos, info)
	}
	return infos, nil
}
