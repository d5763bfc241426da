package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned for any upstream 401. By the time a
	// caller sees it the session has already been destroyed by the
	// interceptor in the upstream client.
	ErrUnauthenticated = errors.New("not authenticated")

	ErrForbidden = errors.New("access forbidden")
	ErrNotFound  = errors.New("not found")
)

// APIError carries a structured upstream failure. Detail holds the
// backend's human-readable message when the error body had one; callers
// use Message to get a displayable string either way.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("upstream: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("upstream: unexpected status %d", e.Status)
}

// Unwrap maps well-known statuses onto sentinel errors so call sites can
// use errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case 401:
		return ErrUnauthenticated
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	}
	return nil
}

// Message returns the backend-provided detail when present, or fallback.
func (e *APIError) Message(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// ErrorMessage extracts a displayable message from any error returned by
// the upstream client, falling back when the failure carried no detail.
// This is the single place error shapes are inspected; call sites never
// dig into response bodies themselves.
func ErrorMessage(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Message(fallback)
	}
	return fallback
}
