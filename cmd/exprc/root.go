package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/opal-lang/expr/internal/config"
	"github.com/opal-lang/expr/runtime/parser"
)

// globalFlags holds flag values shared by all subcommands. A flag only
// overrides the config file when it was set explicitly.
type globalFlags struct {
	configPath       string
	noColor          bool
	debug            bool
	decimalSeparator string
	maxDepth         int
	telemetry        string
	format           string // parse only

	// cfg is the configuration resolved by the last command, nil when the
	// command failed before resolving it.
	cfg *config.Config
}

func newRootCmd(g *globalFlags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "exprc",
		Short:         "Parse, check and fingerprint expressions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.configPath, "config", "", "Path to config file (default $"+config.EnvConfig+" or ./exprc.toml)")
	pf.BoolVar(&g.noColor, "no-color", false, "Disable colored output")
	pf.BoolVar(&g.debug, "debug", false, "Trace parser productions on stderr")
	pf.StringVar(&g.decimalSeparator, "decimal-separator", ".", "Separator between integer and fractional digits")
	pf.IntVar(&g.maxDepth, "max-depth", parser.DefaultMaxDepth, "Maximum expression nesting depth")
	pf.StringVar(&g.telemetry, "telemetry", "off", "Parser telemetry: off, basic or timing")

	rootCmd.AddCommand(
		newParseCmd(g),
		newCheckCmd(g),
		newWatchCmd(g),
		newDigestCmd(g),
	)
	return rootCmd
}

// session is the resolved configuration of one command run.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	useColor bool
}

func (g *globalFlags) resolve(cmd *cobra.Command) (*session, error) {
	var (
		cfg *config.Config
		err error
	)
	if g.configPath != "" {
		cfg, err = config.Load(g.configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("decimal-separator") {
		cfg.DecimalSeparator = g.decimalSeparator
	}
	if flags.Changed("max-depth") {
		cfg.MaxDepth = g.maxDepth
	}
	if flags.Changed("telemetry") {
		cfg.Telemetry = g.telemetry
	}
	if flags.Changed("format") {
		cfg.Format = g.format
	}
	if g.noColor {
		cfg.Color = false
	}

	if !slices.Contains(config.Formats, cfg.Format) {
		return nil, unknownChoice("format", cfg.Format, config.Formats)
	}
	if !slices.Contains(config.TelemetryModes, cfg.Telemetry) {
		return nil, unknownChoice("telemetry mode", cfg.Telemetry, config.TelemetryModes)
	}
	if err := cfg.Validate(); err != nil {
		return nil, &CLIError{Message: "invalid configuration", Details: err.Error()}
	}

	g.cfg = cfg

	debug := g.debug || os.Getenv("EXPRC_DEBUG") != ""
	logger := newLogger(cmd.ErrOrStderr(), debug)
	logger.Debug("config resolved",
		"path", cfg.Path,
		"decimal_separator", cfg.DecimalSeparator,
		"max_depth", cfg.MaxDepth,
		"format", cfg.Format,
		"telemetry", cfg.Telemetry)

	return &session{
		cfg:      cfg,
		logger:   logger,
		useColor: ShouldUseColor(!cfg.Color, cmd.OutOrStdout()),
	}, nil
}

// colorAllowed reports whether --no-color and the config file permit color.
// Errors raised before the config is resolved only honor the flag.
func (g *globalFlags) colorAllowed() bool {
	if g.noColor {
		return false
	}
	return g.cfg == nil || g.cfg.Color
}

// errorColor decides whether errors written to w are colored.
func (g *globalFlags) errorColor(w io.Writer) bool {
	return ShouldUseColor(!g.colorAllowed(), w)
}

func (s *session) parserOptions() []parser.ParserOpt {
	return append(s.cfg.ParserOptions(), parser.WithLogger(s.logger))
}

// newLogger builds a text handler without time and level attributes.
func newLogger(w io.Writer, debug bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if debug {
		logLevel = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: logLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
}

func unknownChoice(what, value string, choices []string) error {
	err := &CLIError{
		Message: fmt.Sprintf("unknown %s %q", what, value),
		Details: "valid values: " + joinChoices(choices),
	}
	if match := findClosestMatch(value, choices); match != "" {
		err.Hint = fmt.Sprintf("did you mean %q?", match)
	}
	return err
}
