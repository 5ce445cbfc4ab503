// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package lifecycle

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DialFunc opens one connection attempt to an external dependency.
type DialFunc[T any] func(ctx context.Context) (T, error)

// ConnectConfig bounds the connection attempts made by Connect.
type ConnectConfig struct {
	// MaxAttempts is the total number of dial attempts, including the first.
	MaxAttempts int `json:"max_attempts" yaml:"max_attempts" mapstructure:"maxAttempts"`
	// Delay is the fixed pause between two attempts.
	Delay time.Duration `json:"delay" yaml:"delay" mapstructure:"delay"`
}

// DefaultConnectConfig returns five attempts two seconds apart.
func DefaultConnectConfig() ConnectConfig {
	return ConnectConfig{
		MaxAttempts: 5,
		Delay:       2 * time.Second,
	}
}

// Validate checks the attempt bounds.
func (c ConnectConfig) Validate() error {
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max_attempts must be positive")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay cannot be negative")
	}
	return nil
}

// OnRetryFn is called after a failed attempt, before sleeping.
type OnRetryFn func(attempt int, err error, delay time.Duration)

// OnExhaustedFn is called once every attempt has failed.
type OnExhaustedFn func(err error, attempts int)

type connectOptions struct {
	logger      *zap.Logger
	onRetry     OnRetryFn
	onExhausted OnExhaustedFn
}

// ConnectOption customizes Connect.
type ConnectOption func(*connectOptions)

// WithConnectLogger sets the logger used to report attempts.
func WithConnectLogger(l *zap.Logger) ConnectOption {
	return func(o *connectOptions) { o.logger = l }
}

// WithOnRetry registers a callback fired before each retry delay.
func WithOnRetry(fn OnRetryFn) ConnectOption {
	return func(o *connectOptions) { o.onRetry = fn }
}

// WithOnExhausted registers a callback fired when the attempts run out.
func WithOnExhausted(fn OnExhaustedFn) ConnectOption {
	return func(o *connectOptions) { o.onExhausted = fn }
}

// Connect dials target until it succeeds or cfg.MaxAttempts attempts have
// failed, sleeping cfg.Delay between attempts. It never returns a handle
// together with an error; on failure the error is a *ConnectionError.
func Connect[T any](ctx context.Context, target string, cfg ConnectConfig, dial DialFunc[T], opts ...ConnectOption) (T, error) {
	var zero T
	if err := cfg.Validate(); err != nil {
		return zero, fmt.Errorf("invalid connect config for %s: %w", target, err)
	}

	o := connectOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	var lastErr error
	attempts := 0
	for {
		attempts++
		o.logger.Info("Connecting", zap.String("target", target), zap.Int("attempt", attempts))

		conn, err := dial(ctx)
		if err == nil {
			o.logger.Info("Connected", zap.String("target", target), zap.Int("attempts", attempts))
			return conn, nil
		}
		lastErr = err

		if attempts >= cfg.MaxAttempts {
			o.logger.Error("Giving up connecting",
				zap.String("target", target),
				zap.Int("attempts", attempts),
				zap.Error(err),
			)
			if o.onExhausted != nil {
				o.onExhausted(lastErr, attempts)
			}
			return zero, &ConnectionError{Target: target, Attempts: attempts, Cause: lastErr}
		}

		o.logger.Warn("Connection attempt failed, retrying",
			zap.String("target", target),
			zap.Int("attempt", attempts),
			zap.Int("max_attempts", cfg.MaxAttempts),
			zap.Duration("delay", cfg.Delay),
			zap.Error(err),
		)
		if o.onRetry != nil {
			o.onRetry(attempts, err, cfg.Delay)
		}

		timer := time.NewTimer(cfg.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, &ConnectionError{Target: target, Attempts: attempts, Cause: ctx.Err()}
		case <-timer.C:
		}
	}
}
