package observers

import (
	"context"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/prompt"
	callbackHelper "github.com/cloudwego/eino/utils/callbacks"

	logx "github.com/steward-ai/steward/pkg/logger"
)

// newPromptHandler builds a typed PromptCallbackHandler to trace template rendering.
func newPromptHandler() *callbackHelper.PromptCallbackHandler {
	return &callbackHelper.PromptCallbackHandler{
		OnStart: func(ctx context.Context, info *einocb.RunInfo, input *prompt.CallbackInput) context.Context {
			logx.Trace().
				Str("component", "prompt").
				Str("node", info.Name).
				Msg("prompt render start")
			return ctx
		},
		OnEnd: func(ctx context.Context, info *einocb.RunInfo, output *prompt.CallbackOutput) context.Context {
			ev := logx.Trace().
				Str("component", "prompt").
				Str("node", info.Name)
			if output != nil {
				ev = ev.Int("message_count", len(output.Result))
			}
			ev.Msg("prompt render end")
			return ctx
		},
		OnError: func(ctx context.Context, info *einocb.RunInfo, err error) context.Context {
			logx.Error().
				Str("component", "prompt").
				Str("node", info.Name).
				Err(err).
				Msg("prompt render failed")
			return ctx
		},
	}
}
