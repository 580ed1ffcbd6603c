package batch

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/mdclip"
)

// DefaultRetryDelays returns the backoff delays for fetch retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// FetchWithRetry fetches url, retrying transient failures after each of
// delays. EINVALID and ENOTFOUND are permanent and returned immediately.
func FetchWithRetry(ctx context.Context, f mdclip.Fetcher, url string, delays []time.Duration, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxAttempts := len(delays) + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		html, err := f.Fetch(ctx, url)
		if err == nil {
			return html, nil
		}
		lastErr = err

		if !retryable(err) || attempt >= maxAttempts-1 {
			break
		}

		if ctx.Err() != nil {
			return "", ctx.Err()
		}

		logger.Warn("retry fetch", "url", url, "attempt", attempt+2, "err", err)

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return "", lastErr
}

func retryable(err error) bool {
	switch mdclip.ErrorCode(err) {
	case mdclip.EINVALID, mdclip.ENOTFOUND:
		return false
	}
	return true
}
