package main

import (
	"io"
	"os"

	"github.com/opal-lang/expr/core/exprfmt"
)

// Re-export color constants from exprfmt for convenience
const (
	ColorReset  = exprfmt.ColorReset
	ColorRed    = exprfmt.ColorRed
	ColorGreen  = exprfmt.ColorGreen
	ColorYellow = exprfmt.ColorYellow
	ColorGray   = exprfmt.ColorGray
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	return exprfmt.Colorize(text, color, useColor)
}

// ShouldUseColor determines if color output should be used.
// Respects --no-color, the config file and the NO_COLOR environment variable,
// and only colors terminals.
func ShouldUseColor(noColor bool, w io.Writer) bool {
	if noColor {
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fileInfo, err := f.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}
