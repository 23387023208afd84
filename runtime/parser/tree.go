package parser

import "github.com/opal-lang/expr/core/ast"

// Tree is the result of a successful parse.
type Tree struct {
	Source      string          // Original expression text
	Root        ast.Token       // Root of the immutable AST
	Bindings    map[string]any  // External bindings passed through for the evaluator
	Telemetry   *ParseTelemetry // Metrics (nil if disabled)
	DebugEvents []DebugEvent    // Debug events (nil if disabled)
}
