package domain

import "time"

// FailurePolicy decides what a stage does about permanently failed files.
type FailurePolicy string

const (
	// FailureAllowPartial lets a stage complete with failed files recorded
	// and the transfer proceed to the next stage.
	FailureAllowPartial FailurePolicy = "allow-partial"

	// FailureAllOrNothing fails the whole transfer if any file in a stage
	// fails permanently.
	FailureAllOrNothing FailurePolicy = "all-or-nothing"
)

// Valid reports whether the policy is a known value.
func (p FailurePolicy) Valid() bool {
	return p == FailureAllowPartial || p == FailureAllOrNothing
}

// RetryPolicy controls per-file retry behaviour within a stage.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts per file, including the
	// first. Values below 1 are treated as 1.
	MaxAttempts int

	// BackoffBase is the delay before the first retry; each subsequent
	// retry doubles it up to BackoffCap.
	BackoffBase time.Duration
	BackoffCap  time.Duration
}

// Backoff returns the delay before the given retry. attempt is 1-based:
// Backoff(1) is the delay after the first failed attempt.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := p.BackoffBase
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= p.BackoffCap {
			return p.BackoffCap
		}
	}
	if p.BackoffCap > 0 && d > p.BackoffCap {
		return p.BackoffCap
	}
	return d
}

// TransferPolicy bundles the execution knobs for one transfer. Values come
// from configuration; zero fields are filled from the defaults.
type TransferPolicy struct {
	// Concurrency bounds the worker pool of each stage.
	Concurrency int

	// ChunkSize is the unit of chunked download/upload in bytes. Progress
	// is committed and cancellation observed at chunk boundaries.
	ChunkSize int64

	// AttemptTimeout bounds one attempt at one file; expiry counts as a
	// transient failure.
	AttemptTimeout time.Duration

	// CancelGrace is how long cancel waits for in-flight work to drain
	// before abandoning the run.
	CancelGrace time.Duration

	Retry   RetryPolicy
	Failure FailurePolicy
}

// DefaultPolicy returns the built-in execution policy.
func DefaultPolicy() TransferPolicy {
	return TransferPolicy{
		Concurrency:    4,
		ChunkSize:      4 * 1024 * 1024,
		AttemptTimeout: 2 * time.Minute,
		CancelGrace:    10 * time.Second,
		Retry: RetryPolicy{
			MaxAttempts: 3,
			BackoffBase: 500 * time.Millisecond,
			BackoffCap:  30 * time.Second,
		},
		Failure: FailureAllowPartial,
	}
}

// Normalise fills zero fields from the defaults so a partially specified
// policy is still usable.
func (p TransferPolicy) Normalise() TransferPolicy {
	def := DefaultPolicy()
	if p.Concurrency <= 0 {
		p.Concurrency = def.Concurrency
	}
	if p.ChunkSize <= 0 {
		p.ChunkSize = def.ChunkSize
	}
	if p.AttemptTimeout <= 0 {
		p.AttemptTimeout = def.AttemptTimeout
	}
	if p.CancelGrace <= 0 {
		p.CancelGrace = def.CancelGrace
	}
	if p.Retry.MaxAttempts < 1 {
		p.Retry.MaxAttempts = def.Retry.MaxAttempts
	}
	if p.Retry.BackoffBase <= 0 {
		p.Retry.BackoffBase = def.Retry.BackoffBase
	}
	if p.Retry.BackoffCap <= 0 {
		p.Retry.BackoffCap = def.Retry.BackoffCap
	}
	if !p.Failure.Valid() {
		p.Failure = def.Failure
	}
	return p
}
