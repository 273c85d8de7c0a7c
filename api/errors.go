package api

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Kind classifies a failed request.
type Kind int

const (
	NetworkError Kind = iota + 1
	Timeout
	Unauthorized
	Forbidden
	InvalidResponse
	APIError
)

func (k Kind) String() string {
	switch k {
	case NetworkError:
		return "network error"
	case Timeout:
		return "timeout"
	case Unauthorized:
		return "unauthorized"
	case Forbidden:
		return "forbidden"
	case InvalidResponse:
		return "invalid response"
	case APIError:
		return "api error"
	default:
		return "unknown"
	}
}

// Transient reports whether a later attempt may succeed without user action.
func (k Kind) Transient() bool {
	return k == NetworkError || k == Timeout
}

// Error is returned by every request that does not yield a payload.
type Error struct {
	Kind   Kind
	Method string
	Path   string
	Status int

	// Code and Message come from the server's error envelope.
	Code    string
	Message string

	// Body holds a truncated excerpt of an unexpected response.
	Body string

	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s: %s", e.Method, e.Path, e.Kind)
	if e.Status != 0 {
		fmt.Fprintf(&b, " (status %d)", e.Status)
	}
	if e.Code != "" || e.Message != "" {
		fmt.Fprintf(&b, ": %s %s", e.Code, e.Message)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if e.Body != "" {
		fmt.Fprintf(&b, ": %q", e.Body)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, or 0 when err did not come from this package.
func KindOf(err error) Kind {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return 0
}

// IsAuth reports whether err means the session is no longer authorized.
func IsAuth(err error) bool {
	k := KindOf(err)
	return k == Unauthorized || k == Forbidden
}

// Message returns a short user-facing description of err.
func Message(err error) string {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err.Error()
	}
	switch apiErr.Kind {
	case NetworkError:
		return "Can't reach the server. Check your connection."
	case Timeout:
		return "The server took too long to respond."
	case Unauthorized, Forbidden:
		return "Your session has ended. Please sign in again."
	case APIError:
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return "Something went wrong loading this content."
}

const maxExcerpt = 200

func excerpt(body []byte) string {
	s := strings.TrimSpace(strings.ToValidUTF8(string(body), ""))
	if len(s) <= maxExcerpt {
		return s
	}
	cut := maxExcerpt
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
