package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/tool/utils"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steward-ai/steward/internal/agent/graph/catalog"
	"github.com/steward-ai/steward/internal/agent/graph/conversations"
	"github.com/steward-ai/steward/internal/agent/model"
	"github.com/steward-ai/steward/internal/agent/repo"
)

type lookupInput struct {
	Key string `json:"key"`
}

type lookupOutput struct {
	Value string `json:"value"`
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *repo.MemoryConversationRepository) {
	t.Helper()
	ctx := context.Background()

	cat := catalog.New()
	require.NoError(t, cat.Register(ctx, utils.NewTool(
		&schema.ToolInfo{
			Name: "lookup",
			Desc: "returns a stored value",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"key": {Type: "string", Required: true},
			}),
		},
		func(ctx context.Context, in *lookupInput) (*lookupOutput, error) {
			if in.Key == "" {
				return nil, fmt.Errorf("key is required")
			}
			return &lookupOutput{Value: "value-of-" + in.Key}, nil
		},
	)))

	store := repo.NewMemoryConversationRepository()
	mm := conversations.NewMessagesManager(store, model.ConversationConfig{})
	return NewDispatcher(cat, mm), store
}

func TestDispatchSuccess(t *testing.T) {
	ctx := context.Background()
	d, store := newTestDispatcher(t)

	msg := d.Dispatch(ctx, "conv-1", model.InvokeToolDecision("lookup", json.RawMessage(`{"key":"boiler"}`)))

	require.NotNil(t, msg)
	assert.Equal(t, schema.Tool, msg.Role)
	assert.Equal(t, "lookup", msg.Name)
	assert.Contains(t, msg.Content, "value-of-boiler")

	history, err := store.LoadHistory(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "lookup", history.Messages[0].Metadata[model.MetaToolName])
	assert.Empty(t, history.Messages[0].Metadata[model.MetaError])
}

func TestDispatchUnknownToolYieldsObservation(t *testing.T) {
	ctx := context.Background()
	d, store := newTestDispatcher(t)

	msg := d.Dispatch(ctx, "conv-1", model.InvokeToolDecision("summon_butler", json.RawMessage(`{}`)))

	require.NotNil(t, msg)
	assert.Equal(t, schema.Tool, msg.Role)
	assert.Equal(t, "summon_butler", msg.Name)

	var payload toolErrorPayload
	require.NoError(t, json.Unmarshal([]byte(msg.Content), &payload))
	assert.Equal(t, errUnknownTool, payload.Error)
	assert.Equal(t, "summon_butler", payload.Tool)

	history, err := store.LoadHistory(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "true", history.Messages[0].Metadata[model.MetaError])
}

func TestDispatchToolFailureYieldsObservation(t *testing.T) {
	ctx := context.Background()
	d, store := newTestDispatcher(t)

	// key missing -> the tool itself errors
	msg := d.Dispatch(ctx, "conv-1", model.InvokeToolDecision("lookup", json.RawMessage(`{"key":""}`)))

	require.NotNil(t, msg)
	var payload toolErrorPayload
	require.NoError(t, json.Unmarshal([]byte(msg.Content), &payload))
	assert.Equal(t, errToolFailed, payload.Error)
	assert.Contains(t, payload.Cause, "key is required")

	history, err := store.LoadHistory(ctx, "conv-1")
	require.NoError(t, err)
	require.Len(t, history.Messages, 1)
	assert.Equal(t, "true", history.Messages[0].Metadata[model.MetaError])
}

func TestDispatchMalformedArgumentsYieldObservation(t *testing.T) {
	ctx := context.Background()
	d, _ := newTestDispatcher(t)

	msg := d.Dispatch(ctx, "conv-1", model.InvokeToolDecision("lookup", json.RawMessage(`{"key": 42`)))

	require.NotNil(t, msg)
	var payload toolErrorPayload
	require.NoError(t, json.Unmarshal([]byte(msg.Content), &payload))
	assert.Equal(t, errToolFailed, payload.Error)
}
