package tiger

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Download retry policy. Census servers return sporadic 5xx under load.
var (
	downloadAttempts = 3
	downloadBackoff  = 2 * time.Second
)

// statusError is a non-200 download response.
type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return "download returned status " + strconv.Itoa(e.code)
}

// transient reports whether err is worth another attempt: 429, 5xx, network
// timeouts and connection resets.
func transient(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.code == http.StatusTooManyRequests || se.code >= 500
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNREFUSED)
}

// withRetry runs fn up to downloadAttempts times, doubling the wait after
// each transient failure. Cancellation stops it immediately.
func withRetry(ctx context.Context, url string, fn func() error) error {
	wait := downloadBackoff
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil {
			return nil
		}
		if ctx.Err() != nil || !transient(err) || attempt >= downloadAttempts {
			return err
		}

		zap.L().Warn("tiger: retrying download",
			zap.String("url", url),
			zap.Int("attempt", attempt),
			zap.Duration("wait", wait),
			zap.Error(err),
		)
		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return err
		case <-t.C:
		}
		wait *= 2
	}
}
