package detection

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"

	"stackscan/pkg/detection/errs"
)

// RetryPolicy bounds the retry wrapper around fallible pipeline steps
type RetryPolicy struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

// DefaultRetryPolicy retries twice more after the first failure with capped
// exponential backoff
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     2 * time.Second,
	}
}

// withRetry runs op under the policy. Only errors the taxonomy declares
// retryable are retried; everything else fails immediately. Context
// cancellation aborts the backoff sleep.
func withRetry[T any](ctx context.Context, policy RetryPolicy, op func() (T, error)) (T, error) {
	bo := backoff.NewExponentialBackOff()
	if policy.InitialInterval > 0 {
		bo.InitialInterval = policy.InitialInterval
	}
	if policy.MaxInterval > 0 {
		bo.MaxInterval = policy.MaxInterval
	}

	attempts := policy.MaxAttempts
	if attempts == 0 {
		attempts = 1
	}

	var result T
	operation := func() error {
		v, err := op()
		if err != nil {
			if !errs.Retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		result = v
		return nil
	}

	err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(bo, attempts-1), ctx))
	return result, err
}
