package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type MailInput struct {
	Action  string `json:"action"`
	Query   string `json:"query,omitempty"`
	ID      string `json:"id,omitempty"`
	To      string `json:"to,omitempty"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body,omitempty"`
}

type MailSummary struct {
	ID      string `json:"id"`
	From    string `json:"from"`
	Subject string `json:"subject"`
}

type MailOutput struct {
	Messages []MailSummary `json:"messages,omitempty"`
	Body     string        `json:"body,omitempty"`
	Message  string        `json:"message,omitempty"`
}

var mockInbox = []struct {
	MailSummary
	Body string
}{
	{MailSummary{ID: "msg-001", From: "school@lakeside.edu", Subject: "Term dates reminder"}, "Dear parents, the spring term begins on the 6th..."},
	{MailSummary{ID: "msg-002", From: "billing@citypower.example", Subject: "Your electricity statement"}, "Your statement for last month is attached. Amount due: $182.40."},
	{MailSummary{ID: "msg-003", From: "henderson.family@example.com", Subject: "Lunch on Saturday?"}, "Would you all be free for lunch this Saturday around noon?"},
}

func createMailTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGoogleMail,
			Desc: "Retrieves email lists, reads specific emails, and sends emails from the household account. Use for any request about mail or correspondence.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"action": {
					Type:     "string",
					Desc:     "'list' to enumerate matching messages, 'read' to fetch one body, 'send' to compose.",
					Required: true,
				},
				"query": {
					Type: "string",
					Desc: "Free-text filter for 'list' (sender, subject keywords).",
				},
				"id": {
					Type: "string",
					Desc: "Message ID from an earlier 'list' call, required for 'read'.",
				},
				"to": {
					Type: "string",
					Desc: "Recipient address, required for 'send'.",
				},
				"subject": {
					Type: "string",
					Desc: "Subject line for 'send'.",
				},
				"body": {
					Type: "string",
					Desc: "Message body for 'send'.",
				},
			}),
		},
		func(ctx context.Context, in *MailInput) (*MailOutput, error) {
			switch strings.ToLower(strings.TrimSpace(in.Action)) {
			case "list":
				return listMail(in.Query), nil
			case "read":
				return readMail(in.ID)
			case "send":
				if strings.TrimSpace(in.To) == "" {
					return nil, fmt.Errorf("recipient is required to send mail")
				}
				return &MailOutput{
					Message: fmt.Sprintf("Sent %q to %s.", in.Subject, in.To),
				}, nil
			default:
				return nil, fmt.Errorf("unsupported mail action %q", in.Action)
			}
		},
	)
}

func listMail(query string) *MailOutput {
	query = strings.ToLower(strings.TrimSpace(query))
	var matched []MailSummary
	for _, m := range mockInbox {
		if query == "" ||
			strings.Contains(strings.ToLower(m.From), query) ||
			strings.Contains(strings.ToLower(m.Subject), query) {
			matched = append(matched, m.MailSummary)
		}
	}
	if len(matched) == 0 {
		return &MailOutput{Message: "No messages matched."}
	}
	return &MailOutput{Messages: matched}
}

func readMail(id string) (*MailOutput, error) {
	for _, m := range mockInbox {
		if m.ID == id {
			return &MailOutput{Messages: []MailSummary{m.MailSummary}, Body: m.Body}, nil
		}
	}
	return nil, fmt.Errorf("message not found: %s", id)
}
