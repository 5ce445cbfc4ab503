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
	"io"
)

// Listener is the inbound endpoint that must stop accepting work first.
// *http.Server satisfies it.
type Listener interface {
	Shutdown(ctx context.Context) error
}

// Shutdowner is implemented by components with a context-aware close.
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// CloseFunc releases one resource. It may block; the coordinator runs it on
// its own goroutine.
type CloseFunc func(ctx context.Context) error

// Resource is a named external dependency closed during shutdown.
type Resource struct {
	Name  string
	Close CloseFunc
}

// CloserResource adapts an io.Closer. The context is not observed because
// io.Closer has no way to take it.
func CloserResource(name string, c io.Closer) Resource {
	return Resource{
		Name: name,
		Close: func(context.Context) error {
			return c.Close()
		},
	}
}

// ShutdownerResource adapts a component with Shutdown(ctx).
func ShutdownerResource(name string, s Shutdowner) Resource {
	return Resource{
		Name:  name,
		Close: s.Shutdown,
	}
}

// FuncResource adapts a close function that cannot fail.
func FuncResource(name string, fn func()) Resource {
	return Resource{
		Name: name,
		Close: func(context.Context) error {
			fn()
			return nil
		},
	}
}
