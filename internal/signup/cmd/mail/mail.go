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
	"fmt"
	"os"

	"github.com/innovationmech/signup/internal/signup/config"
	"github.com/innovationmech/signup/pkg/logger"
	mailer "github.com/innovationmech/signup/pkg/mail"
	"github.com/spf13/cobra"
)

// send delivers the message, replaced in tests.
var send = mailer.Send

type options struct {
	configPath string
	from       string
	to         string
	subject    string
	text       string
	html       string
	attach     []string
}

// NewMailCmd creates the mail command.
func NewMailCmd() *cobra.Command {
	o := &options{}

	cmd := &cobra.Command{
		Use:   "mail",
		Short: "Send an email with attachments",
		Long: `Send an email through the configured SMTP server.

Attachments are given as path[:contentType], for example
  --attach files/report.xlsx:application/vnd.openxmlformats-officedocument.spreadsheetml.sheet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&o.configPath, "config", "c", os.Getenv("SIGNUP_CONFIG"), "path to the configuration file")
	f.StringVar(&o.from, "from", "", "sender address (default smtp.from)")
	f.StringVar(&o.to, "to", "", "comma separated recipients (default smtp.to)")
	f.StringVar(&o.subject, "subject", "", "message subject")
	f.StringVar(&o.text, "text", "", "plain text body")
	f.StringVar(&o.html, "html", "", "HTML body")
	f.StringSliceVar(&o.attach, "attach", nil, "attachment as path[:contentType], repeatable")

	return cmd
}

func (o *options) run(cmd *cobra.Command) error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}

	params := mailer.Params{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Secure:   &cfg.SMTP.Secure,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     firstNonEmpty(o.from, cfg.SMTP.From),
		To:       firstNonEmpty(o.to, cfg.SMTP.To),
		Subject:  o.subject,
		Text:     o.text,
		HTML:     o.html,
	}
	for _, arg := range o.attach {
		a, err := mailer.ParseAttachment(arg)
		if err != nil {
			return err
		}
		params.Attachments = append(params.Attachments, a)
	}

	id, err := send(cmd.Context(), params, logger.GetLogger())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Message sent: %s\n", id)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
