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

// Outcome is the terminal classification of a shutdown run.
type Outcome int

const (
	// Graceful means the listener and every resource settled before the deadline.
	Graceful Outcome = iota
	// ForcedByResourceError means the listener failed to close.
	ForcedByResourceError
	// ForcedByTimeout means the deadline fired before everything settled.
	ForcedByTimeout
)

// String returns the outcome name used in logs and metric labels.
func (o Outcome) String() string {
	switch o {
	case Graceful:
		return "graceful"
	case ForcedByResourceError:
		return "forced_by_resource_error"
	case ForcedByTimeout:
		return "forced_by_timeout"
	default:
		return "unknown"
	}
}

// ExitCode maps the outcome to the process exit status.
func (o Outcome) ExitCode() int {
	if o == Graceful {
		return 0
	}
	return 1
}
