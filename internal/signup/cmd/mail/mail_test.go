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

package mail

import (
	"bytes"
	"context"
	"errors"
	"testing"

	mailer "github.com/innovationmech/signup/pkg/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func stubSend(t *testing.T, fn func(context.Context, mailer.Params, *zap.Logger) (string, error)) {
	t.Helper()
	original := send
	t.Cleanup(func() { send = original })
	send = fn
}

func TestMailCmd(t *testing.T) {
	t.Chdir(t.TempDir())
	for _, k := range []string{"SIGNUP_CONFIG", "SMTP_HOST", "SMTP_PORT", "SMTP_SECURE", "MAIL_FROM", "MAIL_TO"} {
		t.Setenv(k, "")
	}
	t.Setenv("SMTP_HOST", "smtp.test")
	t.Setenv("MAIL_TO", "ops@example.com")

	var got mailer.Params
	stubSend(t, func(_ context.Context, p mailer.Params, _ *zap.Logger) (string, error) {
		got = p
		return "<id@example.com>", nil
	})

	cmd := NewMailCmd()
	out := new(bytes.Buffer)
	cmd.SetOut(out)
	cmd.SetArgs([]string{
		"--subject", "Report",
		"--text", "attached",
		"--attach", "files/report.xlsx:application/vnd.ms-excel",
		"--attach", "notes.txt",
	})

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "Message sent: <id@example.com>\n", out.String())
	assert.Equal(t, "smtp.test", got.Host)
	assert.Equal(t, 1025, got.Port)
	require.NotNil(t, got.Secure)
	assert.False(t, *got.Secure)
	assert.Equal(t, "test@example.com", got.From)
	assert.Equal(t, "ops@example.com", got.To)
	assert.Equal(t, "Report", got.Subject)
	require.Len(t, got.Attachments, 2)
	assert.Equal(t, "report.xlsx", got.Attachments[0].Filename)
	assert.Equal(t, "application/vnd.ms-excel", got.Attachments[0].ContentType)
	assert.Equal(t, "notes.txt", got.Attachments[1].Path)
}

func TestMailCmd_SendFails(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("SIGNUP_CONFIG", "")
	stubSend(t, func(context.Context, mailer.Params, *zap.Logger) (string, error) {
		return "", errors.New("connection refused")
	})

	cmd := NewMailCmd()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{"--to", "a@b.co"})

	assert.ErrorContains(t, cmd.Execute(), "connection refused")
}
