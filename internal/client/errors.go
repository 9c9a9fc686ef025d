package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// HTTPError represents an API error with its status code.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("HTTP error: %d", e.StatusCode)
}

// IsCanceled reports whether err stems from user-initiated cancellation.
// Cancellation is not a failure: callers report it differently and never log
// it as an error.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// IsRetryable reports whether a request should be retried.
func IsRetryable(err error, statusCode int) bool {
	switch statusCode {
	case 429, 500, 502, 503, 504:
		return true
	}

	if err == nil {
		return false
	}
	if IsCanceled(err) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return IsRetryable(nil, httpErr.StatusCode)
	}

	// String fallback for untyped errors from the transport.
	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"timeout", "connection refused", "connection reset", "no such host", "eof"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
