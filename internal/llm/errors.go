package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type Kind string

const (
	KindAuth      Kind = "auth"
	KindRateLimit Kind = "rate_limit"
	KindUpstream  Kind = "upstream"
	KindNetwork   Kind = "network"
)

// ErrNotConfigured is returned by engines that have no API key.
var ErrNotConfigured = errors.New("model engine not configured")

// Error is a classified model-call failure.
type Error struct {
	Kind       Kind
	Engine     string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "model error"
	}
	msg := string(e.Kind)
	if e.Engine != "" {
		msg = e.Engine + " " + msg
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Err != nil {
		return msg + ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the classified kind of err, or "" when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// KindForStatus maps an upstream HTTP status to a Kind.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusTooManyRequests:
		return KindRateLimit
	default:
		return KindUpstream
	}
}

// StatusError classifies a non-2xx upstream response.
func StatusError(engine string, status int, err error) *Error {
	return &Error{Kind: KindForStatus(status), Engine: engine, StatusCode: status, Err: err}
}

// TransportError classifies a failure to reach the upstream at all:
// dial errors, timeouts and broken connections.
func TransportError(engine string, err error) *Error {
	return &Error{Kind: KindNetwork, Engine: engine, Err: err}
}

// IsTimeout reports whether err came from a deadline.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// UpstreamError wraps a malformed or empty upstream reply.
func UpstreamError(engine string, err error) *Error {
	return &Error{Kind: KindUpstream, Engine: engine, Err: err}
}
