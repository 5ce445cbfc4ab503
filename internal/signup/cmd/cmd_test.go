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

package cmd

import (
	"bytes"
	"testing"

	"github.com/innovationmech/signup/internal/signup/cmd/version"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRootCommand(t *testing.T) {
	execute := func(cmd *cobra.Command, args ...string) (string, error) {
		stdout := new(bytes.Buffer)
		cmd.SetOut(stdout)
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs(args)
		err := cmd.Execute()
		return stdout.String(), err
	}

	t.Run("root command properties", func(t *testing.T) {
		cmd := NewRootCommand()
		assert.Equal(t, "signup", cmd.Use)
		assert.Equal(t, "signup server application", cmd.Short)
		assert.Equal(t, version.Version, cmd.Version)
		assert.False(t, cmd.HasParent())
	})

	t.Run("subcommands", func(t *testing.T) {
		cmd := NewRootCommand()
		names := map[string]*cobra.Command{}
		for _, sub := range cmd.Commands() {
			names[sub.Name()] = sub
		}
		require.Len(t, names, 4)
		for _, name := range []string{"serve", "mail", "config", "version"} {
			sub, ok := names[name]
			require.True(t, ok, name)
			assert.Equal(t, cmd, sub.Parent())
		}
	})

	t.Run("version subcommand", func(t *testing.T) {
		out, err := execute(NewRootCommand(), "version")
		assert.NoError(t, err)
		assert.Contains(t, out, "signup version")
	})

	t.Run("unknown subcommand", func(t *testing.T) {
		_, err := execute(NewRootCommand(), "unknown")
		assert.Error(t, err)
	})
}
