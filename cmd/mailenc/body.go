package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/text"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crowdsecurity/mailenc/cmd/mailenc/args"
	"github.com/crowdsecurity/mailenc/cmd/mailenc/cstable"
	"github.com/crowdsecurity/mailenc/pkg/body"
	"github.com/crowdsecurity/mailenc/pkg/config"
	"github.com/crowdsecurity/mailenc/pkg/metrics"
)

const stdinName = "-"

var errStreamNeedsEncoding = errors.New("--stream requires an explicit --encoding")

type cliBody struct {
	cfg      config.Getter
	binary   bool
	smtputf8 bool
}

func newCliBody(cfg config.Getter) *cliBody {
	return &cliBody{
		cfg: cfg,
	}
}

func (cli *cliBody) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "body [command]",
		Short:             "Choose and apply the transfer encoding of message bodies",
		DisableAutoGenTag: true,
		Args:              args.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Usage()
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVar(&cli.binary, "binary", false, "treat the input as opaque bytes instead of text")
	flags.BoolVar(&cli.smtputf8, "smtputf8", false, "the server supports SMTPUTF8 (default from the configuration)")

	cmd.AddCommand(cli.newChooseCmd())
	cmd.AddCommand(cli.newEncodeCmd())
	cmd.AddCommand(cli.newBase64LenCmd())

	return cmd
}

func (cli *cliBody) supportsUTF8() bool {
	return cli.smtputf8 || cli.cfg().SMTPUTF8
}

func (cli *cliBody) open(cmd *cobra.Command, name string) (io.ReadCloser, error) {
	if name == stdinName {
		return io.NopCloser(cmd.InOrStdin()), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("unable to open body: %w", err)
	}

	return f, nil
}

func (cli *cliBody) readContent(cmd *cobra.Command, name string) (body.Content, error) {
	r, err := cli.open(cmd, name)
	if err != nil {
		return body.Content{}, err
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return body.Content{}, fmt.Errorf("unable to read %s: %w", name, err)
	}

	if cli.binary {
		return body.Bytes(b), nil
	}

	return body.Text(string(b)), nil
}

func (cli *cliBody) choose(cmd *cobra.Command, files []string) error {
	t := cstable.New(cmd.OutOrStdout(), cli.cfg().Color)
	t.SetHeaders("File", "Size", "Kind", "Long lines", "To escape", "Encoding")
	t.SetAlignment(text.AlignLeft, text.AlignRight, text.AlignLeft, text.AlignLeft, text.AlignRight)

	for _, name := range files {
		c, err := cli.readContent(cmd, name)
		if err != nil {
			return err
		}

		report := body.Inspect(c)
		enc := body.Choose(c, cli.supportsUTF8())

		t.AddRow(
			name,
			strconv.Itoa(report.Len),
			report.Kind.String(),
			strconv.FormatBool(report.LineTooLong),
			strconv.Itoa(report.NeedEscaping),
			enc.String(),
		)
	}

	t.Render()

	return nil
}

func (cli *cliBody) newChooseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "choose FILE...",
		Short:             "Show the transfer encoding chosen for each body ('-' for stdin)",
		Example:           `mailenc body choose --smtputf8 message.txt logo.png`,
		Args:              args.MinimumNArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.choose(cmd, args)
		},
	}

	return cmd
}

// countingWriter counts the bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n

	return n, err
}

func (cli *cliBody) encode(cmd *cobra.Command, name string, encoding string, header bool) error {
	c, err := cli.readContent(cmd, name)
	if err != nil {
		return err
	}

	var enc body.Encoding

	if encoding == "auto" {
		enc = body.Choose(c, cli.supportsUTF8())
	} else if enc, err = body.ParseEncoding(encoding); err != nil {
		return err
	}

	out := &countingWriter{w: cmd.OutOrStdout()}

	if header {
		fmt.Fprintf(out, "Content-Transfer-Encoding: %s\r\n\r\n", enc)
	}

	if err := body.Encode(enc, c, out); err != nil {
		return err
	}

	metrics.ObserveBody(enc.String(), out.n)

	return nil
}

// stream encodes the file as it is read, without inspecting it first.
func (cli *cliBody) stream(cmd *cobra.Command, name string, encoding string) error {
	enc, err := body.ParseEncoding(encoding)
	if err != nil {
		return err
	}

	r, err := cli.open(cmd, name)
	if err != nil {
		return err
	}
	defer r.Close()

	out := &countingWriter{w: cmd.OutOrStdout()}

	w, err := body.NewWriter(enc, out)
	if err != nil {
		return err
	}

	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("encoding %s: %w", name, err)
	}

	if err := w.Close(); err != nil {
		return err
	}

	log.Debugf("streamed %s as %s, %d bytes", name, enc, out.n)
	metrics.ObserveBody(enc.String(), out.n)

	return nil
}

func (cli *cliBody) newEncodeCmd() *cobra.Command {
	var (
		encoding string
		header   bool
		stream   bool
	)

	cmd := &cobra.Command{
		Use:   "encode FILE",
		Short: "Write a body with its transfer encoding applied ('-' for stdin)",
		Example: `mailenc body encode message.txt
mailenc body encode --encoding base64 --stream logo.png`,
		Args:              args.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stream {
				return cli.encode(cmd, args[0], encoding, header)
			}

			if encoding == "auto" {
				return errStreamNeedsEncoding
			}

			return cli.stream(cmd, args[0], encoding)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&encoding, "encoding", "e", "auto", "transfer encoding: auto, 7bit, 8bit, quoted-printable, base64")
	flags.BoolVar(&header, "header", false, "write the Content-Transfer-Encoding header first")
	flags.BoolVar(&stream, "stream", false, "encode while reading, without loading the body")

	return cmd
}

func (cli *cliBody) newBase64LenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "base64-len SIZE...",
		Short:             "Show the length of base64 bodies encoded from SIZE bytes",
		Example:           `mailenc body base64-len 57 1024`,
		Args:              args.MinimumNArgs(1),
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, arg := range args {
				n, err := strconv.Atoi(arg)
				if err != nil || n < 0 {
					return fmt.Errorf("invalid size %q", arg)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%d\n", n, body.Base64EncodedLen(n))
			}

			return nil
		},
	}

	return cmd
}
