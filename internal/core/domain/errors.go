package domain

import (
	"context"
	"errors"
	"net"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedDrive indicates the source URL does not belong to a
	// known shared-drive provider.
	ErrUnsupportedDrive = errors.New("unsupported drive type")

	// ErrNotPending indicates Start was called on a transfer that already
	// left the pending state.
	ErrNotPending = errors.New("transfer is not pending")

	// ErrPermissionDenied indicates the provider rejected access to an
	// entry. Never retried.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrMalformedContent indicates an entry's content could not be read
	// or decoded. Never retried.
	ErrMalformedContent = errors.New("malformed content")

	// ErrRateLimited indicates the provider throttled a request. Retried
	// with backoff.
	ErrRateLimited = errors.New("rate limited")

	// ErrUnavailable indicates the provider was temporarily unreachable.
	// Retried with backoff.
	ErrUnavailable = errors.New("temporarily unavailable")
)

// FailureClass partitions per-file errors into the retry taxonomy.
type FailureClass int

const (
	// FailureTransient errors are retried until the retry budget runs out.
	FailureTransient FailureClass = iota

	// FailurePermanent errors are recorded immediately without retry.
	FailurePermanent
)

// permanentError wraps an error to force permanent classification.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as a permanent failure regardless of its underlying
// type. Connectors use this for provider responses that must not be
// retried.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Classify maps an error to its failure class. Not-found, permission and
// content errors are permanent; timeouts, rate limits and availability
// errors are transient. Unknown errors default to transient so the retry
// budget, not the classification, bounds them.
func Classify(err error) FailureClass {
	var pe *permanentError
	if errors.As(err, &pe) {
		return FailurePermanent
	}
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrPermissionDenied),
		errors.Is(err, ErrMalformedContent),
		errors.Is(err, ErrInvalidInput):
		return FailurePermanent
	case errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return FailureTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTransient
	}
	return FailureTransient
}
