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
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gopkg.in/gomail.v2"
)

type fakeSender struct {
	from   string
	to     []string
	raw    bytes.Buffer
	closed bool
	err    error
}

func (f *fakeSender) Send(from string, to []string, msg io.WriterTo) error {
	if f.err != nil {
		return f.err
	}
	f.from = from
	f.to = to
	_, err := msg.WriteTo(&f.raw)
	return err
}

func (f *fakeSender) Close() error {
	f.closed = true
	return nil
}

func useFakeSender(t *testing.T, s *fakeSender) *TransportConfig {
	t.Helper()
	var got TransportConfig
	original := newSender
	t.Cleanup(func() { newSender = original })
	newSender = func(cfg TransportConfig) (gomail.SendCloser, error) {
		got = cfg
		return s, nil
	}
	return &got
}

func TestResolveTransport(t *testing.T) {
	yes := true

	tests := []struct {
		name   string
		env    map[string]string
		params Params
		want   TransportConfig
	}{
		{
			name: "built-in defaults",
			want: TransportConfig{Host: "localhost", Port: 1025},
		},
		{
			name: "environment",
			env:  map[string]string{"SMTP_HOST": "smtp.internal", "SMTP_PORT": "2525", "SMTP_SECURE": "true"},
			want: TransportConfig{Host: "smtp.internal", Port: 2525, Secure: true},
		},
		{
			name:   "params win over environment",
			env:    map[string]string{"SMTP_HOST": "smtp.internal", "SMTP_PORT": "2525"},
			params: Params{Host: "mail.example.com", Port: 465, Secure: &yes},
			want:   TransportConfig{Host: "mail.example.com", Port: 465, Secure: true},
		},
		{
			name: "unparsable port falls back",
			env:  map[string]string{"SMTP_PORT": "abc"},
			want: TransportConfig{Host: "localhost", Port: 1025},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"SMTP_HOST", "SMTP_PORT", "SMTP_SECURE"} {
				t.Setenv(k, tt.env[k])
			}
			assert.Equal(t, tt.want, ResolveTransport(tt.params))
		})
	}
}

func TestParseAttachment(t *testing.T) {
	a, err := ParseAttachment("files/report.xlsx:application/vnd.ms-excel")
	require.NoError(t, err)
	assert.Equal(t, Attachment{Filename: "report.xlsx", Path: "files/report.xlsx", ContentType: "application/vnd.ms-excel"}, a)

	a, err = ParseAttachment("notes.txt")
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", a.Filename)
	assert.Empty(t, a.ContentType)

	_, err = ParseAttachment("")
	assert.Error(t, err)

	_, err = ParseAttachment(":text/plain")
	assert.Error(t, err)
}

func TestParseAttachment_ColonsInPath(t *testing.T) {
	tests := []struct {
		arg  string
		want Attachment
	}{
		{
			arg:  `C:\reports\x.xlsx`,
			want: Attachment{Filename: "x.xlsx", Path: `C:\reports\x.xlsx`},
		},
		{
			arg:  `C:\reports\x.xlsx:application/vnd.ms-excel`,
			want: Attachment{Filename: "x.xlsx", Path: `C:\reports\x.xlsx`, ContentType: "application/vnd.ms-excel"},
		},
		{
			arg:  "C:/reports/x.xlsx",
			want: Attachment{Filename: "x.xlsx", Path: "C:/reports/x.xlsx"},
		},
		{
			arg:  "logs/10:30.txt:text/plain",
			want: Attachment{Filename: "10:30.txt", Path: "logs/10:30.txt", ContentType: "text/plain"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.arg, func(t *testing.T) {
			a, err := ParseAttachment(tt.arg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestSend(t *testing.T) {
	dir := t.TempDir()
	report := filepath.Join(dir, "report.xlsx")
	require.NoError(t, os.WriteFile(report, []byte("xlsx-bytes"), 0o600))

	sender := &fakeSender{}
	cfg := useFakeSender(t, sender)
	core, logs := observer.New(zap.InfoLevel)

	id, err := Send(context.Background(), Params{
		Host:    "smtp.test",
		Port:    2525,
		From:    "test@example.com",
		To:      "user@example.com, other@example.com",
		Subject: "Monthly report",
		Text:    "See attached report",
		HTML:    "<b>See attached report</b>",
		Attachments: []Attachment{{
			Filename:    "report.xlsx",
			Path:        report,
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		}},
	}, zap.New(core))

	require.NoError(t, err)
	assert.Regexp(t, `^<[0-9a-f-]{36}@example\.com>$`, id)
	assert.Equal(t, "smtp.test", cfg.Host)
	assert.Equal(t, 2525, cfg.Port)
	assert.Equal(t, "test@example.com", sender.from)
	assert.Equal(t, []string{"user@example.com", "other@example.com"}, sender.to)
	assert.True(t, sender.closed)

	raw := sender.raw.String()
	assert.Contains(t, raw, "Subject: Monthly report")
	assert.Contains(t, raw, id)
	assert.Contains(t, raw, `filename="report.xlsx"`)
	assert.Contains(t, raw, "spreadsheetml.sheet")
	assert.Contains(t, raw, "text/html")
	assert.Equal(t, 1, logs.FilterMessage("Message sent").Len())
}

func TestSend_Errors(t *testing.T) {
	t.Run("missing recipient", func(t *testing.T) {
		useFakeSender(t, &fakeSender{})
		_, err := Send(context.Background(), Params{From: "a@b.co"}, nil)
		assert.Error(t, err)
	})

	t.Run("missing attachment file", func(t *testing.T) {
		useFakeSender(t, &fakeSender{})
		_, err := Send(context.Background(), Params{
			From: "a@b.co", To: "c@d.co",
			Attachments: []Attachment{{Filename: "x", Path: filepath.Join(t.TempDir(), "missing")}},
		}, nil)
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("cancelled context", func(t *testing.T) {
		useFakeSender(t, &fakeSender{})
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Send(ctx, Params{From: "a@b.co", To: "c@d.co"}, nil)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("smtp failure", func(t *testing.T) {
		boom := errors.New("552 mailbox full")
		useFakeSender(t, &fakeSender{err: boom})
		_, err := Send(context.Background(), Params{From: "a@b.co", To: "c@d.co", Text: "hi"}, nil)
		assert.ErrorContains(t, err, "mailbox full")
	})

	t.Run("dial failure", func(t *testing.T) {
		original := newSender
		t.Cleanup(func() { newSender = original })
		refused := errors.New("connection refused")
		newSender = func(TransportConfig) (gomail.SendCloser, error) { return nil, refused }

		_, err := Send(context.Background(), Params{From: "a@b.co", To: "c@d.co"}, nil)
		assert.ErrorIs(t, err, refused)
	})
}
