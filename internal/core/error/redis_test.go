package errx

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapRedisNil(t *testing.T) {
	assert.Nil(t, WrapRedis(nil))
}

func TestWrapRedisMissingKey(t *testing.T) {
	e := WrapRedis(redis.Nil)

	require.NotNil(t, e)
	assert.Equal(t, http.StatusNotFound, e.Status)
	assert.True(t, errors.Is(e, redis.Nil))
}

func TestWrapRedisContextExpiry(t *testing.T) {
	e := WrapRedis(fmt.Errorf("read: %w", context.DeadlineExceeded))

	require.NotNil(t, e)
	assert.Equal(t, http.StatusGatewayTimeout, e.Status)
	assert.Equal(t, RedisTimeoutMessage, e.Message)

	e = WrapRedis(context.Canceled)
	require.NotNil(t, e)
	assert.Equal(t, http.StatusGatewayTimeout, e.Status)
}

func TestWrapRedisOtherFailure(t *testing.T) {
	cause := errors.New("connection refused")
	e := WrapRedis(cause)

	require.NotNil(t, e)
	assert.Equal(t, http.StatusBadGateway, e.Status)
	assert.Equal(t, RedisErrorMessage, e.Message)
	assert.True(t, errors.Is(e, cause))
}
