package main

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/fatih/color"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/crowdsecurity/mailenc/cmd/mailenc/cstable"
	"github.com/crowdsecurity/mailenc/pkg/config"
	"github.com/crowdsecurity/mailenc/pkg/logging"
	"github.com/crowdsecurity/mailenc/pkg/metrics"
)

type cliRoot struct {
	cfgPath     string
	color       string
	logDebug    bool
	logTrace    bool
	showMetrics bool

	cfg      *config.Config
	registry *prometheus.Registry
}

func newCliRoot() *cliRoot {
	return &cliRoot{
		cfg: config.NewDefaultConfig(),
	}
}

func (cli *cliRoot) config() *config.Config {
	return cli.cfg
}

func (cli *cliRoot) logLevel(cfg *config.Config) log.Level {
	switch {
	case cli.logTrace:
		return log.TraceLevel
	case cli.logDebug:
		return log.DebugLevel
	default:
		return cfg.Level()
	}
}

// initialize loads the configuration and sets up logging and metrics, once
// the flags are parsed.
func (cli *cliRoot) initialize() error {
	cfg := config.NewDefaultConfig()

	if cli.cfgPath != "" {
		var err error

		cfg, err = config.NewConfig(cli.cfgPath)
		if err != nil {
			return err
		}
	}

	if cli.color != "" {
		cfg.Color = cli.color
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	if cfg.Color == "no" {
		color.NoColor = true
	}

	if err := logging.SetupStandardLogger(cfg, cli.logLevel(cfg), cfg.Color == "yes"); err != nil {
		return err
	}

	if cli.cfgPath != "" {
		log.Debugf("Using %s as configuration file", cli.cfgPath)
	}

	cli.registry = prometheus.NewRegistry()

	if err := metrics.RegisterMetricsWith(cli.registry, cfg.GetMetricsLevel()); err != nil {
		return err
	}

	metrics.GlobalInfo.Set(1)

	cli.cfg = cfg

	return nil
}

func formatLabels(labels map[string]string) string {
	pairs := make([]string, 0, len(labels))
	for _, k := range slices.Sorted(maps.Keys(labels)) {
		pairs = append(pairs, k+"="+labels[k])
	}

	return strings.Join(pairs, ",")
}

// printMetrics shows what the command recorded. It goes to stderr, stdout
// is for encoded output.
func (cli *cliRoot) printMetrics(cmd *cobra.Command) error {
	points, err := metrics.Snapshot(cli.registry)
	if err != nil {
		return err
	}

	out := cmd.ErrOrStderr()

	if len(points) == 0 {
		fmt.Fprintln(out, "No metrics recorded.")
		return nil
	}

	t := cstable.NewLight(out, cli.cfg.Color)
	t.SetHeaders("Metric", "Labels", "Value")

	for _, p := range points {
		t.AddRow(p.Name, formatLabels(p.Labels), strconv.FormatFloat(p.Value, 'f', -1, 64))
	}

	t.Render()

	return nil
}

func (cli *cliRoot) NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mailenc",
		Short: "mailenc encodes email header values and bodies",
		Long: `mailenc writes header values as quoted-strings, RFC 2047 encoded-words
or RFC 2231 parameters, folded to 76 characters, and picks and applies the
transfer encoding of message bodies.`,
		DisableAutoGenTag: true,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return cli.initialize()
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if !cli.showMetrics {
				return nil
			}

			return cli.printMetrics(cmd)
		},
	}

	cc.Init(&cc.Config{
		RootCmd:       cmd,
		Headings:      cc.Yellow,
		Commands:      cc.Green + cc.Bold,
		CmdShortDescr: cc.Cyan,
		Example:       cc.Italic,
		ExecName:      cc.Bold,
		Aliases:       cc.Bold + cc.Italic,
		FlagsDataType: cc.White,
		Flags:         cc.Green,
		FlagsDescr:    cc.Cyan,
	})

	flags := cmd.PersistentFlags()
	flags.StringVarP(&cli.cfgPath, "config", "c", "", "path to the mailenc configuration file")
	flags.StringVar(&cli.color, "color", "", "Output color: yes, no, auto (default from the configuration).")
	flags.BoolVar(&cli.logDebug, "debug", false, "Set logging to debug.")
	flags.BoolVar(&cli.logTrace, "trace", false, "Set logging to trace.")
	flags.BoolVar(&cli.showMetrics, "metrics", false, "Show the metrics recorded by the command.")

	// don't sort flags so we can enforce order
	cmd.Flags().SortFlags = false
	flags.SortFlags = false

	cmd.AddCommand(newCliHeader(cli.config).NewCommand())
	cmd.AddCommand(newCliBody(cli.config).NewCommand())
	cmd.AddCommand(newCliConfig(cli.config).NewCommand())
	cmd.AddCommand(newCliVersion().NewCommand())

	return cmd
}

func main() {
	// set the formatter asap and worry about level later
	log.SetFormatter(&log.TextFormatter{TimestampFormat: "02-01-2006 15:04:05", FullTimestamp: true})

	cmd := newCliRoot().NewCommand()
	cmd.SetOut(color.Output)

	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
