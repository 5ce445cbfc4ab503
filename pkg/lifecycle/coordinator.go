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
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Coordinator runs the graceful shutdown sequence of one process: the
// listener and every resource close concurrently and the whole run is raced
// against a deadline.
type Coordinator struct {
	listener     Listener
	listenerName string
	resources    []Resource
	timeout      time.Duration
	logger       *zap.Logger
	exit         func(int)
	onOutcome    func(Outcome)

	started atomic.Bool
}

// CoordinatorOption customizes a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithLogger sets the sink for shutdown events.
func WithLogger(l *zap.Logger) CoordinatorOption {
	return func(c *Coordinator) { c.logger = l }
}

// WithExit replaces os.Exit, mainly for tests.
func WithExit(fn func(int)) CoordinatorOption {
	return func(c *Coordinator) { c.exit = fn }
}

// WithListenerName sets the name used for the listener in log lines.
func WithListenerName(name string) CoordinatorOption {
	return func(c *Coordinator) { c.listenerName = name }
}

// WithOutcomeHook registers a callback invoked with the outcome before exit.
func WithOutcomeHook(fn func(Outcome)) CoordinatorOption {
	return func(c *Coordinator) { c.onOutcome = fn }
}

// NewCoordinator validates its inputs and builds a coordinator. The
// resources slice is copied and never mutated.
func NewCoordinator(listener Listener, resources []Resource, timeout time.Duration, opts ...CoordinatorOption) (*Coordinator, error) {
	if listener == nil {
		return nil, errors.New("listener is required")
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("shutdown timeout must be positive, got %s", timeout)
	}
	for i, r := range resources {
		if r.Name == "" {
			return nil, fmt.Errorf("resource %d has no name", i)
		}
		if r.Close == nil {
			return nil, fmt.Errorf("resource %s has no close function", r.Name)
		}
	}

	c := &Coordinator{
		listener:     listener,
		listenerName: "HTTP server",
		resources:    append([]Resource(nil), resources...),
		timeout:      timeout,
		logger:       zap.NewNop(),
		exit:         os.Exit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Handle runs the shutdown and terminates the process with the outcome's
// exit code. A second call while a run is in flight returns without exiting;
// the first run owns termination.
func (c *Coordinator) Handle(signal string) {
	outcome, err := c.Shutdown(signal)
	if errors.Is(err, ErrShutdownInProgress) {
		return
	}
	_ = c.logger.Sync()
	c.exit(outcome.ExitCode())
}

// Shutdown executes the shutdown sequence once and reports how it ended
// without terminating the process.
func (c *Coordinator) Shutdown(signal string) (Outcome, error) {
	if !c.started.CompareAndSwap(false, true) {
		c.logger.Warn("Shutdown already in progress, ignoring signal", zap.String("signal", signal))
		return Graceful, ErrShutdownInProgress
	}

	c.logger.Info(fmt.Sprintf("Received %s. Starting graceful shutdown...", signal),
		zap.String("signal", signal),
		zap.Duration("timeout", c.timeout),
		zap.Int("resources", len(c.resources)),
	)

	// cancel stops the deadline timer as soon as the run is decided.
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	listenerDone := make(chan error, 1)
	go func() {
		listenerDone <- c.closeListener(ctx)
	}()

	resourcesDone := make(chan struct{})
	go func() {
		c.closeResources(ctx)
		close(resourcesDone)
	}()

	outcome := c.await(ctx, listenerDone, resourcesDone)
	if c.onOutcome != nil {
		c.onOutcome(outcome)
	}
	return outcome, nil
}

func (c *Coordinator) await(ctx context.Context, listenerDone <-chan error, resourcesDone <-chan struct{}) Outcome {
	pending := 2
	for pending > 0 {
		select {
		case err := <-listenerDone:
			if err != nil {
				if ctx.Err() != nil {
					return c.timedOut()
				}
				c.logger.Error(fmt.Sprintf("Error during %s shutdown, forcing exit", c.listenerName),
					zap.Error(&ListenerCloseError{Cause: err}),
				)
				return ForcedByResourceError
			}
			listenerDone = nil
			pending--
		case <-resourcesDone:
			resourcesDone = nil
			pending--
		case <-ctx.Done():
			return c.timedOut()
		}
	}

	c.logger.Info("Graceful shutdown complete.")
	return Graceful
}

func (c *Coordinator) timedOut() Outcome {
	c.logger.Error("Could not close connections in time, forcefully shutting down",
		zap.Error(&ShutdownTimeoutError{Timeout: c.timeout}),
	)
	return ForcedByTimeout
}

func (c *Coordinator) closeListener(ctx context.Context) error {
	if err := c.listener.Shutdown(ctx); err != nil {
		return err
	}
	c.logger.Info(fmt.Sprintf("%s closed.", c.listenerName))
	return nil
}

// closeResources starts every close together and returns once all of them
// have settled, successfully or not.
func (c *Coordinator) closeResources(ctx context.Context) {
	var wg sync.WaitGroup
	for _, r := range c.resources {
		wg.Add(1)
		go func(r Resource) {
			defer wg.Done()
			c.closeResource(ctx, r)
		}(r)
	}
	wg.Wait()
}

func (c *Coordinator) closeResource(ctx context.Context, r Resource) {
	c.logger.Info(fmt.Sprintf("Closing %s...", r.Name), zap.String("resource", r.Name))

	if err := safeClose(ctx, r.Close); err != nil {
		c.logger.Error(fmt.Sprintf("Failed to close %s", r.Name),
			zap.String("resource", r.Name),
			zap.Error(&ResourceCloseError{Name: r.Name, Cause: err}),
		)
		return
	}
	c.logger.Info(fmt.Sprintf("%s closed.", r.Name), zap.String("resource", r.Name))
}

func safeClose(ctx context.Context, fn CloseFunc) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("close panicked: %v", r)
		}
	}()
	return fn(ctx)
}
