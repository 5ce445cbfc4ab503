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

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitLogger(t *testing.T) {
	ResetLogger()
	defer ResetLogger()

	InitLogger()

	require.NotNil(t, Logger)
	assert.NotNil(t, Logger.Core())
}

func TestInitLoggerMultipleCalls(t *testing.T) {
	ResetLogger()
	defer ResetLogger()

	InitLogger()
	first := Logger
	InitLogger()

	assert.Same(t, first, Logger)
}

func TestGetLoggerInitializesLazily(t *testing.T) {
	ResetLogger()
	defer ResetLogger()

	l := GetLogger()

	require.NotNil(t, l)
	assert.Same(t, Logger, l)
}

func TestSetLevel(t *testing.T) {
	ResetLogger()
	defer ResetLogger()
	InitLogger()

	require.NoError(t, SetLevel("debug"))
	assert.Equal(t, "debug", GetLevel())
	assert.True(t, Logger.Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, SetLevel("error"))
	assert.False(t, Logger.Core().Enabled(zapcore.WarnLevel))

	assert.Error(t, SetLevel("verbose"))
	assert.Equal(t, "error", GetLevel())
}

func TestConfigure(t *testing.T) {
	ResetLogger()
	defer ResetLogger()
	InitLogger()
	before := Logger

	require.NoError(t, Configure("warn", true))

	assert.NotSame(t, before, Logger)
	assert.Equal(t, "warn", GetLevel())
	assert.False(t, Logger.Core().Enabled(zapcore.InfoLevel))

	assert.Error(t, Configure("nope", false))
}

func TestNewLogger(t *testing.T) {
	ResetLogger()
	defer ResetLogger()
	InitLogger()
	global := Logger

	l, err := NewLogger("debug", false)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.Same(t, global, Logger)
	assert.Equal(t, "info", GetLevel())

	l, err = NewLogger("", true)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = NewLogger("loud", false)
	assert.Error(t, err)
}

func TestResetLogger(t *testing.T) {
	InitLogger()
	require.NoError(t, SetLevel("debug"))

	ResetLogger()

	assert.Nil(t, Logger)
	assert.Equal(t, "info", GetLevel())
}
