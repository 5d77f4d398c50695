package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crowdsecurity/mailenc/cmd/mailenc/args"
	"github.com/crowdsecurity/mailenc/pkg/config"
)

type cliConfig struct {
	cfg config.Getter
}

func newCliConfig(cfg config.Getter) *cliConfig {
	return &cliConfig{
		cfg: cfg,
	}
}

func (cli *cliConfig) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "config [command]",
		Short:             "Allows to view current config",
		DisableAutoGenTag: true,
		Args:              args.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	cmd.AddCommand(cli.newShowCmd())

	return cmd
}

func (cli *cliConfig) newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "show",
		Short:             "Displays the configuration in use, with the defaults",
		Args:              args.NoArgs,
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			b, err := cli.cfg().Marshal()
			if err != nil {
				return fmt.Errorf("unable to serialize configuration: %w", err)
			}

			_, err = cmd.OutOrStdout().Write(b)

			return err
		},
	}

	return cmd
}
