package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for backend error classification. The TUI and CLI
// branch on these with errors.Is instead of inspecting HTTP plumbing.
var (
	// ErrNetwork indicates a transport-level failure (DNS, refused
	// connection, timeout). Never retried immediately; the next
	// scheduled poll is the retry.
	ErrNetwork = errors.New("network error")

	// ErrUnauthorized indicates the backend rejected the credential
	// (401). Refreshing the token is the identity provider's job.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound indicates an unknown panel, dashboard, or tenant (404).
	ErrNotFound = errors.New("resource not found")

	// ErrRateLimited indicates the backend throttled the request (429).
	ErrRateLimited = errors.New("rate limited")
)

// StatusError carries a non-401 non-2xx response. 403 (valid
// credential, no tenant access) shows up here with the backend's
// detail message when one was provided.
type StatusError struct {
	Code   int
	Status string
	Detail string
}

func (e *StatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend returned %s: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend returned %s", e.Status)
}

// Unwrap maps well-known statuses onto the sentinels so callers can
// use errors.Is without switching on codes.
func (e *StatusError) Unwrap() error {
	switch e.Code {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusTooManyRequests:
		return ErrRateLimited
	}
	return nil
}

// IsTransient reports whether a failed request is worth retrying from
// a one-shot command: transport failures and 5xx responses qualify,
// auth and client errors do not. The interactive poller ignores this
// and waits for its next tick.
func IsTransient(err error) bool {
	if errors.Is(err, ErrNetwork) {
		return true
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return false
}
