package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ftransport/ftransport/internal/core/domain"
)

func fastPolicy() domain.TransferPolicy {
	return domain.TransferPolicy{
		Concurrency:    2,
		ChunkSize:      4,
		AttemptTimeout: time.Second,
		CancelGrace:    200 * time.Millisecond,
		Retry: domain.RetryPolicy{
			MaxAttempts: 3,
			BackoffBase: time.Millisecond,
			BackoffCap:  5 * time.Millisecond,
		},
		Failure: domain.FailureAllowPartial,
	}
}

func TestStageExecutorRunsEveryItem(t *testing.T) {
	var calls int64
	ex := NewStageExecutor(fastPolicy(), nil)

	res, err := ex.Run(context.Background(), 10, func(_ context.Context, _ int) error {
		atomic.AddInt64(&calls, 1)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 10, res.Completed)
	assert.Empty(t, res.Failures)
	assert.Equal(t, int64(10), calls)
}

func TestStageExecutorBoundsConcurrency(t *testing.T) {
	policy := fastPolicy()
	policy.Concurrency = 3

	var active, peak int64
	ex := NewStageExecutor(policy, nil)

	res, err := ex.Run(context.Background(), 20, func(_ context.Context, _ int) error {
		n := atomic.AddInt64(&active, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		atomic.AddInt64(&active, -1)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 20, res.Completed)
	assert.LessOrEqual(t, peak, int64(3))
}

func TestStageExecutorRetriesTransientFailures(t *testing.T) {
	var attempts int64
	ex := NewStageExecutor(fastPolicy(), nil)

	res, err := ex.Run(context.Background(), 1, func(_ context.Context, _ int) error {
		if atomic.AddInt64(&attempts, 1) < 3 {
			return domain.ErrUnavailable
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, res.Completed)
	assert.Empty(t, res.Failures)
	assert.Equal(t, int64(3), attempts, "two transient failures then success")
}

func TestStageExecutorExhaustsRetryBudget(t *testing.T) {
	var attempts int64
	var failedIndex int
	var failedErr error

	ex := NewStageExecutor(fastPolicy(), func(index int, err error) {
		failedIndex = index
		failedErr = err
	})

	res, err := ex.Run(context.Background(), 1, func(_ context.Context, _ int) error {
		atomic.AddInt64(&attempts, 1)
		return domain.ErrRateLimited
	})

	require.NoError(t, err, "item failures are results, not run errors")
	assert.Equal(t, 0, res.Completed)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, int64(3), attempts, "exactly MaxAttempts attempts")
	assert.Equal(t, 0, failedIndex)
	assert.ErrorIs(t, failedErr, domain.ErrRateLimited)
	assert.Contains(t, res.Failures[0].Err.Error(), "retry budget exhausted")
}

func TestStageExecutorDoesNotRetryPermanentFailures(t *testing.T) {
	var attempts int64
	ex := NewStageExecutor(fastPolicy(), nil)

	res, err := ex.Run(context.Background(), 1, func(_ context.Context, _ int) error {
		atomic.AddInt64(&attempts, 1)
		return domain.ErrPermissionDenied
	})

	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, int64(1), attempts, "permanent failures never retry")
	assert.ErrorIs(t, res.Failures[0].Err, domain.ErrPermissionDenied)
}

func TestStageExecutorFailedItemDoesNotAbortSiblings(t *testing.T) {
	ex := NewStageExecutor(fastPolicy(), nil)

	res, err := ex.Run(context.Background(), 5, func(_ context.Context, index int) error {
		if index == 2 {
			return domain.Permanent(errors.New("corrupt file"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 4, res.Completed)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, 2, res.Failures[0].Index)
}

func TestStageExecutorCancellation(t *testing.T) {
	policy := fastPolicy()
	policy.Concurrency = 1

	ctx, cancel := context.WithCancel(context.Background())

	var mu sync.Mutex
	var started int
	ex := NewStageExecutor(policy, nil)

	res, err := ex.Run(ctx, 10, func(opCtx context.Context, _ int) error {
		mu.Lock()
		started++
		if started == 2 {
			cancel()
		}
		mu.Unlock()
		select {
		case <-opCtx.Done():
			return opCtx.Err()
		case <-time.After(5 * time.Millisecond):
			return nil
		}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Less(t, res.Completed, 10, "remaining items are not started after cancel")
	assert.Empty(t, res.Failures, "cancelled items are not counted as failed")
}
