// Package args holds positional argument validators that print the usage
// of the command before failing.
package args

import (
	"fmt"

	"github.com/spf13/cobra"
)

func usageError(cmd *cobra.Command, format string, a ...any) error {
	_ = cmd.Help()
	fmt.Fprintln(cmd.OutOrStdout())

	return fmt.Errorf(format, a...)
}

// MinimumNArgs works like cobra.MinimumNArgs.
func MinimumNArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usageError(cmd, "requires at least %d arg(s), only received %d", n, len(args))
		}

		return nil
	}
}

// ExactArgs works like cobra.ExactArgs.
func ExactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usageError(cmd, "accepts %d arg(s), received %d", n, len(args))
		}

		return nil
	}
}

// NoArgs works like cobra.NoArgs.
func NoArgs(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return usageError(cmd, "unknown command %q for %q", args[0], cmd.CommandPath())
	}

	return nil
}
