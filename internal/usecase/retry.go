package usecase

import (
	"context"
	"time"

	"github.com/eslsoft/wordpicker/internal/entity"
)

// StoreOptions bounds every storage call made by the word store and readers.
type StoreOptions struct {
	// Timeout applies to each attempt. Zero disables it.
	Timeout time.Duration
	// RetryAttempts is the number of extra attempts after a transient failure.
	RetryAttempts int
	// RetryBackoff is the first delay between attempts; it doubles each time.
	RetryBackoff time.Duration
	// ExportBatchSize is the number of records read per round trip during export.
	ExportBatchSize int
}

const (
	_defaultExportBatchSize = 100
	_maxPageSize            = 10000
)

func (o StoreOptions) exportBatchSize() int {
	if o.ExportBatchSize <= 0 {
		return _defaultExportBatchSize
	}
	return o.ExportBatchSize
}

// withRetry runs fn under the per-attempt timeout and retries transient storage
// failures with exponential backoff. fn must be idempotent.
//
// An attempt may commit and still report a transient error, so a retried write
// can observe its own earlier effect; callers resolve that themselves.
func withRetry[T any](ctx context.Context, opts StoreOptions, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		result, err := callWithTimeout(ctx, opts.Timeout, fn)
		if err == nil {
			return result, nil
		}
		if !entity.IsTransientStorageError(err) || attempt >= opts.RetryAttempts {
			return zero, err
		}

		backoff := opts.RetryBackoff << attempt
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return fn(ctx)
}
