// Package config loads the exprc configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/opal-lang/expr/runtime/lexer"
	"github.com/opal-lang/expr/runtime/parser"
)

// EnvConfig names the environment variable that points at the config file.
const EnvConfig = "EXPRC_CONFIG"

// Formats lists the output formats of `exprc parse`.
var Formats = []string{"tree", "sexpr", "json", "yaml", "cbor"}

// TelemetryModes lists the accepted values of the telemetry key.
var TelemetryModes = []string{"off", "basic", "timing"}

// ErrNotFound is returned by Load when the file does not exist.
var ErrNotFound = errors.New("config file not found")

// Config holds the exprc settings. Command-line flags override it.
type Config struct {
	DecimalSeparator string `toml:"decimal_separator"`
	MaxDepth         int    `toml:"max_depth"`
	Format           string `toml:"format"`
	Color            bool   `toml:"color"`
	Telemetry        string `toml:"telemetry"`

	// Path is the file the config was read from, empty for defaults.
	Path string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DecimalSeparator: ".",
		MaxDepth:         parser.DefaultMaxDepth,
		Format:           "tree",
		Color:            true,
		Telemetry:        "off",
	}
}

// Load reads a TOML file on top of the defaults. Unknown keys are an error.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}

	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv loads the file named by EXPRC_CONFIG, or the first default
// location that exists. Without any file it returns the defaults.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv(EnvConfig); path != "" {
		return Load(path)
	}

	for _, p := range defaultPaths() {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}
	return Default(), nil
}

func defaultPaths() []string {
	paths := []string{"./exprc.toml"}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "exprc", "config.toml"))
	}
	return paths
}

// Validate checks every field. The separator rules match
// parser.WithDecimalSeparator, which panics on what is rejected here.
func (c *Config) Validate() error {
	var errs []error

	switch {
	case c.DecimalSeparator == "":
		errs = append(errs, errors.New("decimal_separator must not be empty"))
	case lexer.IsDigit(c.DecimalSeparator[0]) || lexer.IsWhitespace(c.DecimalSeparator[0]):
		errs = append(errs, fmt.Errorf("decimal_separator %q must not start with a digit or whitespace", c.DecimalSeparator))
	}
	if c.MaxDepth <= 0 {
		errs = append(errs, fmt.Errorf("max_depth must be positive, got %d", c.MaxDepth))
	}
	if !slices.Contains(Formats, c.Format) {
		errs = append(errs, fmt.Errorf("format %q is not one of %s", c.Format, strings.Join(Formats, ", ")))
	}
	if !slices.Contains(TelemetryModes, c.Telemetry) {
		errs = append(errs, fmt.Errorf("telemetry %q is not one of %s", c.Telemetry, strings.Join(TelemetryModes, ", ")))
	}
	return errors.Join(errs...)
}

// ParserOptions translates the parser-facing settings.
func (c *Config) ParserOptions() []parser.ParserOpt {
	opts := []parser.ParserOpt{
		parser.WithDecimalSeparator(c.DecimalSeparator),
		parser.WithMaxDepth(c.MaxDepth),
	}
	switch c.Telemetry {
	case "basic":
		opts = append(opts, parser.WithTelemetryBasic())
	case "timing":
		opts = append(opts, parser.WithTelemetryTiming())
	}
	return opts
}
