package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

// Run executes cmd with a background context.
func Run(cmd *cobra.Command) error {
	return RunContext(context.Background(), cmd)
}

// RunContext executes cmd with ctx as the parent context of every
// subcommand.
func RunContext(ctx context.Context, cmd *cobra.Command) error {
	if cmd == nil {
		return errors.New("cli: nil command")
	}
	return cmd.ExecuteContext(ctx)
}
