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

// Package lifecycle holds the process lifecycle primitives shared by the
// signup binaries: a bounded-retry connector used at startup and a
// coordinator that drives graceful shutdown under a hard deadline.
package lifecycle

import (
	"errors"
	"fmt"
	"time"
)

// ErrShutdownInProgress is returned when a coordinator is asked to shut down
// a second time.
var ErrShutdownInProgress = errors.New("shutdown already in progress")

// ConnectionError is the terminal failure of Connect after every attempt failed.
type ConnectionError struct {
	Target   string
	Attempts int
	Cause    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to %s after %d attempts: %v", e.Target, e.Attempts, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	return e.Cause
}

// ResourceCloseError reports a single resource that failed to close. It is
// logged and never changes the shutdown outcome.
type ResourceCloseError struct {
	Name  string
	Cause error
}

func (e *ResourceCloseError) Error() string {
	return fmt.Sprintf("failed to close %s: %v", e.Name, e.Cause)
}

func (e *ResourceCloseError) Unwrap() error {
	return e.Cause
}

// ListenerCloseError reports that the listener could not stop accepting
// connections.
type ListenerCloseError struct {
	Cause error
}

func (e *ListenerCloseError) Error() string {
	return fmt.Sprintf("listener close failed: %v", e.Cause)
}

func (e *ListenerCloseError) Unwrap() error {
	return e.Cause
}

// ShutdownTimeoutError is raised by the coordinator's own timer.
type ShutdownTimeoutError struct {
	Timeout time.Duration
}

func (e *ShutdownTimeoutError) Error() string {
	return fmt.Sprintf("shutdown did not complete within %s", e.Timeout)
}
