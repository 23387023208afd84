package parser

import (
	"log/slog"
	"maps"
	"time"

	"github.com/opal-lang/expr/core/invariant"
	"github.com/opal-lang/expr/runtime/lexer"
)

// DefaultMaxDepth bounds how deeply sub-expressions may nest before the
// parse fails with ErrorTooDeep instead of growing the stack further.
const DefaultMaxDepth = 512

// ParserOpt represents a parser configuration option
type ParserOpt func(*ParserConfig)

// TelemetryMode controls telemetry collection
type TelemetryMode int

const (
	TelemetryOff    TelemetryMode = iota // Zero overhead (default)
	TelemetryBasic                       // Node count and depth
	TelemetryTiming                      // Basic + parse time
)

// DebugLevel controls debug tracing (development only)
type DebugLevel int

const (
	DebugOff   DebugLevel = iota // No debug info (default)
	DebugPaths                   // Production enter/match tracing
)

// ParserConfig holds parser configuration
type ParserConfig struct {
	decimalSeparator string
	maxDepth         int
	bindings         map[string]any
	logger           *slog.Logger
	telemetry        TelemetryMode
	debug            DebugLevel
}

func newConfig(opts []ParserOpt) *ParserConfig {
	config := &ParserConfig{
		decimalSeparator: ".",
		maxDepth:         DefaultMaxDepth,
		logger:           slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(config)
	}
	return config
}

// WithDecimalSeparator sets the sequence that separates the integer and
// fractional digits of a number literal. It replaces any locale lookup: the
// parser never consults process-wide culture settings.
func WithDecimalSeparator(sep string) ParserOpt {
	invariant.Precondition(sep != "", "decimal separator must not be empty")
	invariant.Precondition(!lexer.IsDigit(sep[0]) && !lexer.IsWhitespace(sep[0]),
		"decimal separator %q must not start with a digit or whitespace", sep)
	return func(c *ParserConfig) {
		c.decimalSeparator = sep
	}
}

// WithMaxDepth sets the maximum nesting depth (DefaultMaxDepth if unset).
func WithMaxDepth(n int) ParserOpt {
	invariant.Positive(n, "max depth")
	return func(c *ParserConfig) {
		c.maxDepth = n
	}
}

// WithBindings attaches external name bindings. The parser carries them on
// the Tree for the evaluator and never consults them.
func WithBindings(bindings map[string]any) ParserOpt {
	return func(c *ParserConfig) {
		c.bindings = maps.Clone(bindings)
	}
}

// WithLogger routes production tracing to logger at debug level.
func WithLogger(logger *slog.Logger) ParserOpt {
	invariant.NotNil(logger, "logger")
	return func(c *ParserConfig) {
		c.logger = logger
	}
}

// WithTelemetryBasic enables basic telemetry (node count and depth)
func WithTelemetryBasic() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryBasic
	}
}

// WithTelemetryTiming enables timing telemetry
func WithTelemetryTiming() ParserOpt {
	return func(c *ParserConfig) {
		c.telemetry = TelemetryTiming
	}
}

// WithDebugPaths records a DebugEvent for every production entered or matched
func WithDebugPaths() ParserOpt {
	return func(c *ParserConfig) {
		c.debug = DebugPaths
	}
}

// ParseTelemetry holds parser metrics
type ParseTelemetry struct {
	NodeCount int           // Nodes in the returned tree
	TreeDepth int           // Height of the returned tree
	MaxNest   int           // Deepest nesting reached while parsing
	ParseTime time.Duration // Zero unless TelemetryTiming
}

// DebugEvent holds debug tracing information (development only)
type DebugEvent struct {
	Timestamp time.Time
	Event     string // "enter_expression", "match_binary", ...
	Offset    int    // Cursor offset when the event fired
	Context   string // Operator, name or other detail
}
