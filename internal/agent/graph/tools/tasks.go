package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type TasksInput struct {
	Action string `json:"action"`
	Title  string `json:"title,omitempty"`
	ID     string `json:"id,omitempty"`
}

type TaskItem struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

type TasksOutput struct {
	Tasks   []TaskItem `json:"tasks,omitempty"`
	Message string     `json:"message,omitempty"`
}

var (
	tasksMu   sync.Mutex
	taskSeq   = 3
	mockTasks = []TaskItem{
		{ID: "task-1", Title: "Order groceries for the week", Done: false},
		{ID: "task-2", Title: "Book car service appointment", Done: false},
		{ID: "task-3", Title: "Renew library cards", Done: true},
	}
)

func createTasksTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGoogleTasks,
			Desc: "Retrieves, adds, completes, or removes items on the household to-do list. Use whenever the request mentions tasks, errands, or reminders.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"action": {
					Type:     "string",
					Desc:     "'list', 'add', 'complete', or 'remove'.",
					Required: true,
				},
				"title": {
					Type: "string",
					Desc: "Task description, required for 'add'.",
				},
				"id": {
					Type: "string",
					Desc: "Task ID from an earlier 'list', required for 'complete' and 'remove'.",
				},
			}),
		},
		func(ctx context.Context, in *TasksInput) (*TasksOutput, error) {
			tasksMu.Lock()
			defer tasksMu.Unlock()

			switch strings.ToLower(strings.TrimSpace(in.Action)) {
			case "list":
				out := make([]TaskItem, len(mockTasks))
				copy(out, mockTasks)
				return &TasksOutput{Tasks: out}, nil
			case "add":
				if strings.TrimSpace(in.Title) == "" {
					return nil, fmt.Errorf("title is required to add a task")
				}
				taskSeq++
				item := TaskItem{ID: fmt.Sprintf("task-%d", taskSeq), Title: in.Title}
				mockTasks = append(mockTasks, item)
				return &TasksOutput{Message: fmt.Sprintf("Added %q as %s.", item.Title, item.ID)}, nil
			case "complete":
				for i := range mockTasks {
					if mockTasks[i].ID == in.ID {
						mockTasks[i].Done = true
						return &TasksOutput{Message: fmt.Sprintf("Marked %s as done.", in.ID)}, nil
					}
				}
				return nil, fmt.Errorf("task not found: %s", in.ID)
			case "remove":
				for i := range mockTasks {
					if mockTasks[i].ID == in.ID {
						mockTasks = append(mockTasks[:i], mockTasks[i+1:]...)
						return &TasksOutput{Message: fmt.Sprintf("Removed %s.", in.ID)}, nil
					}
				}
				return nil, fmt.Errorf("task not found: %s", in.ID)
			default:
				return nil, fmt.Errorf("unsupported tasks action %q", in.Action)
			}
		},
	)
}
