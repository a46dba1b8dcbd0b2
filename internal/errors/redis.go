package errors

import (
	"context"
	"errors"
	"net"

	"github.com/redis/go-redis/v9"
)

// MapRedisError maps go-redis failures to AppError instances. redis.Nil is not an error
// condition for callers and maps to nil; context errors keep their Timeout/Canceled codes
// and every other failure is treated as the store being unavailable.
func MapRedisError(err error, message string) error {
	if err == nil || errors.Is(err, redis.Nil) {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: message, Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: message, Cause: err}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &AppError{Code: ErrCodeUnavailable, Message: message + " (timeout)", Cause: err}
	}
	return &AppError{Code: ErrCodeUnavailable, Message: message, Cause: err}
}
