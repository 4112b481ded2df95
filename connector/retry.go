package connector

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBaseDelay = time.Second
	defaultBackoff   = 2.0
)

// backoff returns the delay before attempt n (0-based), growing by
// opts.Backoff and capped at opts.MaxDelay.
func backoff(opts RetryConfig, n int) time.Duration {
	delay := opts.BaseDelay
	if delay <= 0 {
		delay = defaultBaseDelay
	}
	factor := opts.Backoff
	if factor < 1 {
		factor = defaultBackoff
	}
	for i := 0; i < n; i++ {
		delay = time.Duration(float64(delay) * factor)
		if opts.MaxDelay > 0 && delay > opts.MaxDelay {
			return opts.MaxDelay
		}
	}
	return delay
}

func retryConnect(ctx context.Context, opts RetryConfig, log *zap.Logger, connectFn func(context.Context) (Connection, error)) (Connection, error) {
	attempts := opts.MaxRetries
	if attempts <= 0 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		var conn Connection
		conn, err = connectFn(ctx)
		if err == nil {
			return conn, nil
		}
		if i == attempts-1 {
			break
		}

		delay := backoff(opts, i)
		log.Warn("connect failed, retrying",
			zap.Int("attempt", i+1),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, errors.Join(ctx.Err(), err)
		case <-timer.C:
		}
	}
	return nil, err
}
