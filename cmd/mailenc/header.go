package main

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crowdsecurity/mailenc/cmd/mailenc/args"
	"github.com/crowdsecurity/mailenc/pkg/config"
	"github.com/crowdsecurity/mailenc/pkg/headers"
	"github.com/crowdsecurity/mailenc/pkg/metrics"
)

type cliHeader struct {
	cfg    config.Getter
	prefix string
}

func newCliHeader(cfg config.Getter) *cliHeader {
	return &cliHeader{
		cfg: cfg,
	}
}

func (cli *cliHeader) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "header [command]",
		Short:             "Encode header values",
		DisableAutoGenTag: true,
		Args:              args.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	cmd.PersistentFlags().StringVarP(&cli.prefix, "prefix", "p", "",
		"start of the header line, like 'Subject:' (default: header_offset characters)")

	cmd.AddCommand(cli.newQuotedStringCmd())
	cmd.AddCommand(cli.newRFC2047Cmd())
	cmd.AddCommand(cli.newRFC2231Cmd())

	return cmd
}

// encode writes the prefix and runs fn with a writer positioned after it.
// Without a prefix, the line is assumed to hold header_offset characters.
func (cli *cliHeader) encode(fn func(w *headers.Writer) error) (string, error) {
	var sb strings.Builder

	lineLen := cli.cfg().HeaderOffset

	if cli.prefix != "" {
		sb.WriteString(cli.prefix)
		lineLen = len(cli.prefix)
	}

	w := headers.NewWriter(&sb, lineLen)
	if cli.prefix != "" {
		w.Space()
	}

	if err := fn(w); err != nil {
		return "", err
	}

	if err := w.Close(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func (cli *cliHeader) print(cmd *cobra.Command, encoder string, strategy string, out string) {
	log.Debugf("%s: %s, %d bytes", encoder, strategy, len(out))
	metrics.ObserveHeader(encoder, strategy, len(out))
	fmt.Fprintln(cmd.OutOrStdout(), out)
}

func (cli *cliHeader) newQuotedStringCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quoted-string VALUE",
		Short: "Write a value as a word, a quoted-string or encoded-words",
		Example: `mailenc header quoted-string --prefix 'From:' 'Doe, John'
mailenc header quoted-string 'Jérôme'`,
		Args:              args.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			value := args[0]

			out, err := cli.encode(func(w *headers.Writer) error {
				return headers.EncodeQuotedString(value, w)
			})
			if err != nil {
				return err
			}

			cli.print(cmd, "quoted-string", headers.ChooseStrategy(value).String(), out)

			return nil
		},
	}

	return cmd
}

func (cli *cliHeader) newRFC2047Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "rfc2047 VALUE",
		Short:             "Write a value as RFC 2047 encoded-words",
		Example:           `mailenc header rfc2047 --prefix 'Subject:' 'Café'`,
		Args:              args.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := cli.encode(func(w *headers.Writer) error {
				return headers.EncodeRFC2047(args[0], w)
			})
			if err != nil {
				return err
			}

			cli.print(cmd, "rfc2047", "encoded-word", out)

			return nil
		},
	}

	return cmd
}

func (cli *cliHeader) newRFC2231Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rfc2231 KEY VALUE",
		Short: "Write a header parameter, with RFC 2231 continuations if needed",
		Example: `mailenc header rfc2231 --prefix 'Content-Disposition: attachment;' filename report.pdf
mailenc header rfc2231 filename 'Übersicht der Aufträge.pdf'`,
		Args:              args.ExactArgs(2),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]

			if err := headers.ValidateParameterKey(key); err != nil {
				return err
			}

			var form headers.ParameterForm

			out, err := cli.encode(func(w *headers.Writer) error {
				form = headers.ChooseParameterForm(key, value, w)
				return headers.EncodeRFC2231(key, value, w)
			})
			if err != nil {
				return err
			}

			cli.print(cmd, "rfc2231", form.String(), out)

			return nil
		},
	}

	return cmd
}
