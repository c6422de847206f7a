package transport

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// retryPolicy builds the backoff schedule: retry n (0-indexed) waits
// base*2^n with no jitter, capped at maxRetries retries after the initial
// attempt.
func (c *Client) retryPolicy(ctx context.Context) backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.baseDelay
	policy.RandomizationFactor = 0
	policy.Multiplier = 2
	policy.MaxInterval = c.baseDelay * time.Duration(1<<c.maxRetries)
	policy.MaxElapsedTime = 0

	return backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx)
}

func retryWithData(op func() ([]byte, error), policy backoff.BackOff, notify backoff.Notify) ([]byte, error) {
	return backoff.RetryNotifyWithData(op, policy, notify)
}

func permanent(err error) error {
	return backoff.Permanent(err)
}
