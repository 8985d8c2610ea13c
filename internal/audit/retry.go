package audit

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

const retryBackoff = 200 * time.Millisecond

// isTransient reports whether err is in the narrow class of transport errors
// worth one retry: connection-level failures and timeouts. Anything else
// (SQL errors, constraint violations, cancellations by the caller) is not.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if pgconn.SafeToRetry(err) {
		return true
	}
	if pgconn.Timeout(err) {
		return true
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// withRetry runs op, retrying exactly once after a short backoff when the
// failure is transient. Read paths only; ingestion never retries.
func withRetry(ctx context.Context, op func(context.Context) error) error {
	err := op(ctx)
	if err == nil || !isTransient(err) {
		return err
	}

	select {
	case <-time.After(retryBackoff):
	case <-ctx.Done():
		return ctx.Err()
	}

	return op(ctx)
}
