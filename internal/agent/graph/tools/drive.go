package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type DriveInput struct {
	Action string `json:"action"`
	Query  string `json:"query,omitempty"`
	Folder string `json:"folder,omitempty"`
}

type DriveFile struct {
	Name   string `json:"name"`
	Folder string `json:"folder"`
	Kind   string `json:"kind"`
}

type DriveOutput struct {
	Files   []DriveFile `json:"files,omitempty"`
	Message string      `json:"message,omitempty"`
}

var mockDriveFiles = []DriveFile{
	{Name: "House insurance policy 2026.pdf", Folder: "Documents", Kind: "pdf"},
	{Name: "Contractor quotes - kitchen.xlsx", Folder: "Projects", Kind: "spreadsheet"},
	{Name: "Holiday itinerary draft.docx", Folder: "Travel", Kind: "document"},
	{Name: "Wine cellar inventory.xlsx", Folder: "Documents", Kind: "spreadsheet"},
}

func createDriveTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGoogleDrive,
			Desc: "Searches and lists files stored in the household drive (policies, quotes, itineraries, inventories). Use when asked to find a document or file.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"action": {
					Type:     "string",
					Desc:     "'search' with a query, or 'list' for a folder.",
					Required: true,
				},
				"query": {
					Type: "string",
					Desc: "Keywords to match against file names, required for 'search'.",
				},
				"folder": {
					Type: "string",
					Desc: "Folder name filter for 'list'.",
				},
			}),
		},
		func(ctx context.Context, in *DriveInput) (*DriveOutput, error) {
			switch strings.ToLower(strings.TrimSpace(in.Action)) {
			case "search":
				q := strings.ToLower(strings.TrimSpace(in.Query))
				if q == "" {
					return nil, fmt.Errorf("query is required to search")
				}
				var matched []DriveFile
				for _, f := range mockDriveFiles {
					if strings.Contains(strings.ToLower(f.Name), q) {
						matched = append(matched, f)
					}
				}
				if len(matched) == 0 {
					return &DriveOutput{Message: "No files matched."}, nil
				}
				return &DriveOutput{Files: matched}, nil
			case "list":
				folder := strings.TrimSpace(in.Folder)
				var matched []DriveFile
				for _, f := range mockDriveFiles {
					if folder == "" || strings.EqualFold(f.Folder, folder) {
						matched = append(matched, f)
					}
				}
				if len(matched) == 0 {
					return &DriveOutput{Message: fmt.Sprintf("No files in %s.", folder)}, nil
				}
				return &DriveOutput{Files: matched}, nil
			default:
				return nil, fmt.Errorf("unsupported drive action %q", in.Action)
			}
		},
	)
}
