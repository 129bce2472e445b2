package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/schema"
)

var (
	// ErrDuplicateTool is returned when a tool name is registered twice.
	ErrDuplicateTool = errors.New("tool already registered")
	// ErrUnknownTool is returned when a name is absent from the catalog.
	ErrUnknownTool = errors.New("unknown tool")
)

// Entry pairs a tool's advertised schema with its invocable implementation.
type Entry struct {
	Info *schema.ToolInfo
	Tool tool.InvokableTool
}

// ToolSummary is the (name, description) pair fed verbatim into the
// classifier prompt, so the model's tool vocabulary always matches what the
// dispatcher can actually execute.
type ToolSummary struct {
	Name        string
	Description string
}

// Catalog is the authoritative registry of invocable capabilities. It is
// populated once at router construction time and read-only afterwards, so it
// is safe to share across concurrent conversations without locking.
type Catalog struct {
	order   []string
	entries map[string]Entry
}

func New() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Register adds a tool under the name declared by its ToolInfo.
func (c *Catalog) Register(ctx context.Context, t tool.BaseTool) error {
	info, err := t.Info(ctx)
	if err != nil {
		return fmt.Errorf("tool info: %w", err)
	}
	if info == nil || info.Name == "" {
		return fmt.Errorf("tool info has no name")
	}
	invokable, ok := t.(tool.InvokableTool)
	if !ok {
		return fmt.Errorf("tool %q is not invokable", info.Name)
	}
	if _, exists := c.entries[info.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, info.Name)
	}
	c.entries[info.Name] = Entry{Info: info, Tool: invokable}
	c.order = append(c.order, info.Name)
	return nil
}

// RegisterAll registers tools in slice order, stopping at the first failure.
func (c *Catalog) RegisterAll(ctx context.Context, ts []tool.BaseTool) error {
	for _, t := range ts {
		if err := c.Register(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

// Get looks up a registered tool by name.
func (c *Catalog) Get(name string) (Entry, error) {
	e, ok := c.entries[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return e, nil
}

// Has reports whether name is registered.
func (c *Catalog) Has(name string) bool {
	_, ok := c.entries[name]
	return ok
}

// Describe returns tool summaries in registration order.
func (c *Catalog) Describe() []ToolSummary {
	out := make([]ToolSummary, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, ToolSummary{Name: name, Description: c.entries[name].Info.Desc})
	}
	return out
}

// Infos returns the full tool schemas in registration order.
func (c *Catalog) Infos() []*schema.ToolInfo {
	out := make([]*schema.ToolInfo, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.entries[name].Info)
	}
	return out
}

// Len returns the number of registered tools.
func (c *Catalog) Len() int {
	return len(c.order)
}
