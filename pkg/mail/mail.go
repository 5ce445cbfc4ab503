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

// Package mail sends SMTP messages with file attachments.
package mail

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Defaults used when neither Params nor the environment set a value.
const (
	DefaultHost = "localhost"
	DefaultPort = 1025
)

// Attachment is a file attached to a message.
type Attachment struct {
	Filename    string `json:"filename" yaml:"filename"`
	Path        string `json:"path" yaml:"path"`
	ContentType string `json:"contentType" yaml:"contentType"`
}

// TransportConfig locates the SMTP server.
type TransportConfig struct {
	Host     string
	Port     int
	Secure   bool
	Username string
	Password string
}

// Params describes one message. Zero transport fields fall back to
// SMTP_HOST, SMTP_PORT and SMTP_SECURE, then to localhost:1025 without TLS.
type Params struct {
	Host     string
	Port     int
	Secure   *bool
	Username string
	Password string

	From        string
	To          string
	Subject     string
	Text        string
	HTML        string
	Attachments []Attachment
}

// newSender opens an SMTP session.
// It's a variable so it can be replaced in tests.
var newSender = func(cfg TransportConfig) (gomail.SendCloser, error) {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.Secure
	return d.Dial()
}

// ResolveTransport applies environment and built-in defaults to p.
func ResolveTransport(p Params) TransportConfig {
	cfg := TransportConfig{
		Host:     p.Host,
		Port:     p.Port,
		Username: p.Username,
		Password: p.Password,
	}
	if cfg.Host == "" {
		cfg.Host = os.Getenv("SMTP_HOST")
	}
	if cfg.Host == "" {
		cfg.Host = DefaultHost
	}
	if cfg.Port == 0 {
		cfg.Port, _ = strconv.Atoi(os.Getenv("SMTP_PORT"))
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if p.Secure != nil {
		cfg.Secure = *p.Secure
	} else {
		cfg.Secure = os.Getenv("SMTP_SECURE") == "true"
	}
	return cfg
}

// ParseAttachment parses "path[:contentType]". The filename is the base
// name of path. Only a suffix after the last ":" that parses as a
// type/subtype media type is taken as the content type, so drive letters
// and colons inside the path are kept.
func ParseAttachment(arg string) (Attachment, error) {
	path, contentType := arg, ""
	if i := strings.LastIndex(arg, ":"); i >= 0 && isMediaType(arg[i+1:]) {
		path, contentType = arg[:i], arg[i+1:]
	}
	if path == "" {
		return Attachment{}, errors.New("attachment path is empty")
	}
	name := path
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		name = path[i+1:]
	}
	return Attachment{Filename: name, Path: path, ContentType: contentType}, nil
}

func isMediaType(s string) bool {
	if !strings.Contains(s, "/") {
		return false
	}
	_, _, err := mime.ParseMediaType(s)
	return err == nil
}

// Send delivers the message and returns its Message-ID.
func Send(ctx context.Context, p Params, log *zap.Logger) (string, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if p.From == "" || p.To == "" {
		return "", errors.New("mail: from and to are required")
	}
	for _, a := range p.Attachments {
		if _, err := os.Stat(a.Path); err != nil {
			return "", fmt.Errorf("mail: attachment %s: %w", a.Filename, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	messageID := newMessageID(p.From)
	m := buildMessage(p, messageID)

	cfg := ResolveTransport(p)
	s, err := newSender(cfg)
	if err != nil {
		return "", fmt.Errorf("mail: connect to %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	defer s.Close()

	if err := gomail.Send(s, m); err != nil {
		return "", fmt.Errorf("mail: send: %w", err)
	}

	log.Info("Message sent", zap.String("messageId", messageID))
	return messageID, nil
}

func buildMessage(p Params, messageID string) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("Message-ID", messageID)
	m.SetHeader("From", p.From)
	m.SetHeader("To", splitAddresses(p.To)...)
	m.SetHeader("Subject", p.Subject)

	switch {
	case p.Text != "" && p.HTML != "":
		m.SetBody("text/plain", p.Text)
		m.AddAlternative("text/html", p.HTML)
	case p.HTML != "":
		m.SetBody("text/html", p.HTML)
	default:
		m.SetBody("text/plain", p.Text)
	}

	for _, a := range p.Attachments {
		settings := []gomail.FileSetting{gomail.Rename(a.Filename)}
		if a.ContentType != "" {
			settings = append(settings, gomail.SetHeader(map[string][]string{
				"Content-Type": {a.ContentType},
			}))
		}
		m.Attach(a.Path, settings...)
	}
	return m
}

func newMessageID(from string) string {
	domain := "localhost"
	if i := strings.LastIndex(from, "@"); i >= 0 {
		domain = strings.Trim(from[i+1:], "> ")
	}
	return fmt.Sprintf("<%s@%s>", uuid.NewString(), domain)
}

func splitAddresses(list string) []string {
	var out []string
	for _, addr := range strings.Split(list, ",") {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
