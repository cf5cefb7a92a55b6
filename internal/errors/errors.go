package errors

import (
	"errors"
	"fmt"
)

// Common error types for the session gateway
var (
	// Session errors
	ErrNoRefreshToken = errors.New("no refresh token")
	ErrNoDeviceID     = errors.New("no device id")
	ErrNoUserID       = errors.New("no user id")

	// Refresh errors
	ErrRefreshRejected  = errors.New("refresh rejected by upstream")
	ErrMalformedPayload = errors.New("malformed upstream payload")
	ErrUpstreamDown     = errors.New("upstream unavailable")

	// Auth flow errors
	ErrUnknownProvider = errors.New("unknown oauth provider")
	ErrInvalidState    = errors.New("invalid oauth state")
	ErrStateNotFound   = errors.New("state not found")

	// Configuration errors
	ErrMissingAPIURL = errors.New("upstream api url is not configured")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}
