// Package retry provides a bounded-backoff helper for transient
// failures; registry.Lookup uses it. It never retries
// indefinitely — every call site gets a fixed attempt budget and then
// gives up and lets the caller log and move on.
package retry

import (
	"context"
	"time"
)

// Do calls fn up to attempts times, sleeping interval between tries. It
// returns the first nil error, or the last error if every attempt
// failed. It returns ctx.Err() immediately if ctx is cancelled while
// waiting between attempts.
func Do(ctx context.Context, attempts int, interval time.Duration, fn func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = fn(); err == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}
	return err
}
