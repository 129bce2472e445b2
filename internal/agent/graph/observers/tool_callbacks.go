package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/tool"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/steward-ai/steward/pkg/logger"
)

// newToolHandler builds a typed ToolCallbackHandler to trace tool invocations.
func newToolHandler() *callbackHelper.ToolCallbackHandler {
	return &callbackHelper.ToolCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *tool.CallbackInput) context.Context {
			ev := logx.Debug().
				Str("component", "tool").
				Str("tool", info.Name)
			if input != nil {
				ev = ev.Str("arguments", input.ArgumentsInJSON)
			}
			ev.Msg("tool call start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *tool.CallbackOutput) context.Context {
			ev := logx.Debug().
				Str("component", "tool").
				Str("tool", info.Name)
			if output != nil {
				ev = ev.Int("result_len", len(output.Response))
			}
			ev.Msg("tool call end")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().
				Str("component", "tool").
				Str("tool", info.Name).
				Err(err).
				Msg("tool call failed")
			return ctx
		},
	}
}
