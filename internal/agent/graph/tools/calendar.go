package tools

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
)

type CalendarInput struct {
	Action   string `json:"action"`
	Date     string `json:"date,omitempty"`
	Summary  string `json:"summary,omitempty"`
	Duration string `json:"duration,omitempty"`
}

type CalendarEvent struct {
	Date     string `json:"date"`
	Summary  string `json:"summary"`
	Duration string `json:"duration"`
}

type CalendarOutput struct {
	Events  []CalendarEvent `json:"events,omitempty"`
	Message string          `json:"message,omitempty"`
}

var (
	calendarMu sync.Mutex
	// Seeded household schedule; "add" appends here for the life of the process.
	householdCalendar = []CalendarEvent{
		{Date: "today 09:00", Summary: "Gardener visit", Duration: "120 minutes"},
		{Date: "today 15:30", Summary: "Piano lesson for the children", Duration: "45 minutes"},
		{Date: "tomorrow 12:00", Summary: "Lunch with the Hendersons", Duration: "90 minutes"},
	}
)

func createCalendarTool() tool.BaseTool {
	return utils.NewTool(
		&schema.ToolInfo{
			Name: ToolGoogleCalendar,
			Desc: "Checks scheduled events, appointments, and availability on the household calendar, and adds new events. Use for any question about meetings, schedules, or free time.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"action": {
					Type:     "string",
					Desc:     "Either 'view' to list events or 'add' to create one.",
					Required: true,
				},
				"date": {
					Type: "string",
					Desc: "Date filter for 'view' (e.g. today, tomorrow, 2026-03-01) or start time for 'add' (e.g. 2026-03-01 14:00).",
				},
				"summary": {
					Type: "string",
					Desc: "Event title, required for 'add'.",
				},
				"duration": {
					Type: "string",
					Desc: "Event length for 'add', e.g. '60 minutes'.",
				},
			}),
		},
		func(ctx context.Context, in *CalendarInput) (*CalendarOutput, error) {
			switch strings.ToLower(strings.TrimSpace(in.Action)) {
			case "view":
				return viewCalendar(in.Date), nil
			case "add":
				return addCalendarEvent(in)
			default:
				return nil, fmt.Errorf("unsupported calendar action %q", in.Action)
			}
		},
	)
}

func viewCalendar(date string) *CalendarOutput {
	date = strings.ToLower(strings.TrimSpace(date))
	if date == "" {
		date = "today"
	}

	calendarMu.Lock()
	defer calendarMu.Unlock()

	var matched []CalendarEvent
	for _, ev := range householdCalendar {
		if strings.HasPrefix(strings.ToLower(ev.Date), date) {
			matched = append(matched, ev)
		}
	}
	if len(matched) == 0 {
		return &CalendarOutput{Message: fmt.Sprintf("No events found for %s.", date)}
	}
	return &CalendarOutput{Events: matched}
}

func addCalendarEvent(in *CalendarInput) (*CalendarOutput, error) {
	if strings.TrimSpace(in.Summary) == "" {
		return nil, fmt.Errorf("summary is required to add an event")
	}
	date := strings.TrimSpace(in.Date)
	if date == "" {
		date = time.Now().Format("2006-01-02 15:04")
	}
	duration := strings.TrimSpace(in.Duration)
	if duration == "" {
		duration = "60 minutes"
	}

	calendarMu.Lock()
	householdCalendar = append(householdCalendar, CalendarEvent{
		Date:     date,
		Summary:  in.Summary,
		Duration: duration,
	})
	calendarMu.Unlock()

	return &CalendarOutput{
		Message: fmt.Sprintf("Added %q on %s (%s).", in.Summary, date, duration),
	}, nil
}
