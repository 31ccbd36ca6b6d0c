package repeat

import (
	"context"
	"time"
)

// Repeat calls f until it succeeds, at most attempts times, waiting delay
// between tries. It stops early when ctx is done and returns the last error.
func Repeat(ctx context.Context, f func() error, attempts int, delay time.Duration) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
	}

	return err
}
