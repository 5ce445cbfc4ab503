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

package configcmd

import (
	"fmt"
	"os"

	"github.com/innovationmech/signup/internal/signup/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const masked = "******"

// NewConfigCmd creates the config command, which prints the effective
// configuration as YAML with secrets masked.
func NewConfigCmd() *cobra.Command {
	var (
		configPath string
		validate   bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if validate {
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}
			}

			out, err := Render(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("SIGNUP_CONFIG"), "path to the configuration file")
	cmd.Flags().BoolVar(&validate, "validate", false, "fail if the configuration is invalid")

	return cmd
}

// Render marshals a copy of cfg to YAML with passwords and DSN masked.
func Render(cfg *config.SignupConfig) ([]byte, error) {
	c := *cfg
	maskIfSet(&c.Database.Password)
	maskIfSet(&c.Database.DSN)
	maskIfSet(&c.Redis.Password)
	maskIfSet(&c.SMTP.Password)

	out, err := yaml.Marshal(&c)
	if err != nil {
		return nil, fmt.Errorf("failed to render config: %w", err)
	}
	return out, nil
}

func maskIfSet(s *string) {
	if *s != "" {
		*s = masked
	}
}
