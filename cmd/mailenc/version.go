package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crowdsecurity/go-cs-lib/version"

	"github.com/crowdsecurity/mailenc/cmd/mailenc/args"
)

type cliVersion struct{}

func newCliVersion() *cliVersion {
	return &cliVersion{}
}

func (cli cliVersion) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "version",
		Short:             "Display version",
		Args:              args.NoArgs,
		DisableAutoGenTag: true,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.FullString())
		},
	}

	return cmd
}
