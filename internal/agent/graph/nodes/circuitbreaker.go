package nodes

import (
	"context"
	"errors"
	"fmt"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/sony/gobreaker/v2"

	"github.com/steward-ai/steward/internal/agent/model"
	logx "github.com/steward-ai/steward/pkg/logger"
)

// ErrClassifierUnavailable is returned when the breaker is open and calls are
// rejected without reaching the provider.
var ErrClassifierUnavailable = errors.New("classifier temporarily unavailable")

// BreakerChatModel wraps a chat model with circuit breaker protection. When
// the provider fails repeatedly, the circuit opens and subsequent turns fail
// fast instead of stacking up timeouts against a dead upstream.
type BreakerChatModel struct {
	inner   einomodel.BaseChatModel
	breaker *gobreaker.CircuitBreaker[*schema.Message]
}

// NewBreakerChatModel wraps inner with a circuit breaker. Zero-valued config
// fields fall back to the envconfig defaults.
func NewBreakerChatModel(name string, inner einomodel.BaseChatModel, cfg model.BreakerConfig) *BreakerChatModel {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	timeout := time.Duration(cfg.TimeoutSec) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	interval := time.Duration(cfg.IntervalSec) * time.Second
	if interval <= 0 {
		interval = 60 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker[*schema.Message](gobreaker.Settings{
		Name:        "classifier:" + name,
		MaxRequests: 1, // allow 1 probe in half-open state
		Interval:    interval,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logx.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state change")
		},
		IsSuccessful: func(err error) bool {
			// A caller hanging up is not a provider failure.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerChatModel{inner: inner, breaker: cb}
}

// Generate implements model.BaseChatModel, routing the call through the breaker.
func (b *BreakerChatModel) Generate(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	out, err := b.breaker.Execute(func() (*schema.Message, error) {
		return b.inner.Generate(ctx, in, opts...)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
		}
		return nil, err
	}
	return out, nil
}

// Stream implements model.BaseChatModel. The breaker protects stream
// initiation only; errors after the stream is established do not trip it.
func (b *BreakerChatModel) Stream(ctx context.Context, in []*schema.Message, opts ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	var sr *schema.StreamReader[*schema.Message]
	_, err := b.breaker.Execute(func() (*schema.Message, error) {
		var streamErr error
		sr, streamErr = b.inner.Stream(ctx, in, opts...)
		return nil, streamErr
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
		}
		return nil, err
	}
	return sr, nil
}

// State returns the current breaker state for monitoring.
func (b *BreakerChatModel) State() gobreaker.State {
	return b.breaker.State()
}

var _ einomodel.BaseChatModel = (*BreakerChatModel)(nil)
