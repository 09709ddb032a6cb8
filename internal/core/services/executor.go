package services

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ftransport/ftransport/internal/core/domain"
	"github.com/ftransport/ftransport/internal/logger"
)

// ItemFailure records one item that failed permanently within a stage.
type ItemFailure struct {
	Index int
	Err   error
}

// StageResult summarises one stage execution.
type StageResult struct {
	Completed int
	Failures  []ItemFailure
}

// Failed reports whether any item failed permanently.
func (r StageResult) Failed() bool { return len(r.Failures) > 0 }

// StageOp performs the stage's operation for one item. Implementations
// must observe ctx at chunk boundaries; an attempt that outlives its
// timeout is treated as a transient failure.
type StageOp func(ctx context.Context, index int) error

// StageExecutor runs a homogeneous per-item operation across a bounded
// worker pool with retry. A permanently failed item never aborts sibling
// items; the caller applies the failure policy to the result.
type StageExecutor struct {
	policy domain.TransferPolicy

	// onFailed is invoked once per item whose retry budget is exhausted
	// or whose error is permanent, before the item is counted failed.
	// May be nil.
	onFailed func(index int, err error)
}

// NewStageExecutor creates an executor with the given policy. The policy
// is normalised so zero values fall back to defaults.
func NewStageExecutor(policy domain.TransferPolicy, onFailed func(index int, err error)) *StageExecutor {
	return &StageExecutor{policy: policy.Normalise(), onFailed: onFailed}
}

// Run executes op for every index in [0, count) with bounded concurrency.
// It returns ctx.Err() if the run was cancelled; per-item failures are
// reported in the result, not as an error.
func (e *StageExecutor) Run(ctx context.Context, count int, op StageOp) (StageResult, error) {
	var (
		result StageResult
		g      errgroup.Group
	)
	g.SetLimit(e.policy.Concurrency)

	results := make(chan ItemFailure, count)
	completed := make(chan int, count)

	for i := 0; i < count; i++ {
		if ctx.Err() != nil {
			break
		}
		index := i
		g.Go(func() error {
			err := e.attempt(ctx, index, op)
			switch {
			case err == nil:
				completed <- index
			case ctx.Err() != nil:
				// Cancelled mid-item: neither completed nor failed.
			default:
				if e.onFailed != nil {
					e.onFailed(index, err)
				}
				results <- ItemFailure{Index: index, Err: err}
			}
			return nil
		})
	}

	_ = g.Wait()
	close(results)
	close(completed)

	for range completed {
		result.Completed++
	}
	for f := range results {
		result.Failures = append(result.Failures, f)
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	return result, nil
}

// attempt runs op for one item with the retry policy applied. Transient
// failures back off exponentially; permanent failures return immediately.
func (e *StageExecutor) attempt(ctx context.Context, index int, op StageOp) error {
	retry := e.policy.Retry

	var lastErr error
	for attempt := 1; attempt <= retry.MaxAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, e.policy.AttemptTimeout)
		err := op(attemptCtx, index)
		cancel()

		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if domain.Classify(err) == domain.FailurePermanent {
			return err
		}

		lastErr = err
		if attempt == retry.MaxAttempts {
			break
		}

		delay := retry.Backoff(attempt)
		logger.Debug("item %d attempt %d failed (%v), retrying in %s", index, attempt, err, delay)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return fmt.Errorf("retry budget exhausted after %d attempts: %w", retry.MaxAttempts, lastErr)
}
