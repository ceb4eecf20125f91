package ghost

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("not found")
	ErrNetworkUnreachable   = errors.New("network unreachable")
	ErrTimeout              = errors.New("ghost API request timed out")
	ErrRemoteAPI            = errors.New("ghost API error")
)

// APIError is a Ghost response with status >= 400.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap classifies the error by status code.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrAuthenticationFailed
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return ErrRemoteAPI
	}
}

// NetworkError is a transport-level failure: no response was received.
type NetworkError struct {
	Op      string
	URL     string
	Err     error
	timeout bool
}

func (e *NetworkError) Error() string {
	if e.timeout {
		return ErrTimeout.Error()
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

// Unwrap exposes both the classification and the underlying cause.
func (e *NetworkError) Unwrap() []error {
	if e.timeout {
		return []error{ErrTimeout, e.Err}
	}
	return []error{ErrNetworkUnreachable, e.Err}
}

// Timeout reports whether the request timed out.
func (e *NetworkError) Timeout() bool { return e.timeout }

func newNetworkError(op, url string, err error) *NetworkError {
	return &NetworkError{Op: op, URL: url, Err: err, timeout: isTimeout(err)}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "timeout")
}

// errorBody is the Ghost error envelope.
type errorBody struct {
	Errors []struct {
		Message string `json:"message"`
		Context string `json:"context"`
		Type    string `json:"type"`
	} `json:"errors"`
}

// parseAPIError builds an APIError from a failed response body. The first
// error message wins; otherwise a generic message with the status is used.
func parseAPIError(status int, body []byte) *APIError {
	e := &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("Ghost API error (%d)", status),
		Body:       string(body),
	}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil && len(eb.Errors) > 0 && strings.TrimSpace(eb.Errors[0].Message) != "" {
		e.Message = eb.Errors[0].Message
	}
	return e
}
