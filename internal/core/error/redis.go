package errx

import (
	"context"
	"errors"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// WrapRedis converts a go-redis error into the unified Error type. A missing
// key is a clean 404 (an empty transcript, not a fault); a context expiry
// surfaces as a timeout so callers can tell a slow store from a broken one;
// everything else is the store misbehaving.
func WrapRedis(err error) *Error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, redis.Nil):
		return New(err, http.StatusNotFound, RedisNotFoundMessage)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return New(err, http.StatusGatewayTimeout, RedisTimeoutMessage)
	default:
		return New(err, http.StatusBadGateway, RedisErrorMessage)
	}
}
