package main

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/garrettladley/whoopy/internal/client/whoop"
	"github.com/garrettladley/whoopy/internal/xslog"
)

const retryBase = 500 * time.Millisecond

// withRetry runs fn until it succeeds, fails with an error whoop.Retryable
// rejects, or attempts run out.
func withRetry(ctx context.Context, retries uint64, base time.Duration, fn func(ctx context.Context) error) error {
	backoff := retry.WithMaxRetries(retries, retry.WithJitterPercent(10, retry.NewExponential(base)))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err == nil || !whoop.Retryable(err) {
			return err
		}
		xslog.FromContext(ctx).WarnContext(ctx, "retrying",
			xslog.Attempt(attempt),
			xslog.Error(err),
		)
		return retry.RetryableError(err)
	})
}
