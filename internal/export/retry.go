package export

import (
	"context"
	"database/sql/driver"
	"errors"
	"net"
	"strings"
	"time"

	"advisory-backend/internal/shared/telemetry"
)

const fetchRetryBaseDelay = 300 * time.Millisecond

// withFetchRetry runs fn and retries it once after a short delay when the
// failure looks transient. Missing records and cancellations are not retried.
func withFetchRetry(ctx context.Context, delay time.Duration, userID string, kind Kind, fn func(context.Context) error) error {
	err := fn(ctx)
	if err == nil || ctx.Err() != nil || !shouldRetryFetch(err) {
		return err
	}
	if delay <= 0 {
		delay = fetchRetryBaseDelay
	}

	telemetry.Warn("export.fetch.retry", map[string]any{
		"attempt": 1,
		"user_id": userID,
		"kind":    string(kind),
		"error":   err.Error(),
	})
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return ctx.Err()
	}

	return fn(ctx)
}

func shouldRetryFetch(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "connection reset") ||
		strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "broken pipe") ||
		strings.Contains(msg, "unexpected eof") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "timeout")
}
