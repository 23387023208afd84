package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// readExpression handles the 3 modes of input:
// 1. The expression as the single argument
// 2. Explicit stdin with -
// 3. Piped input when no argument is given
func readExpression(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		return args[0], nil
	}

	in := cmd.InOrStdin()
	if len(args) == 0 && isTerminal(in) {
		return "", &CLIError{
			Message: "no expression given",
			Hint:    "pass EXPR as an argument, or pipe it in and use -",
		}
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return "", fmt.Errorf("error reading stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

// openInput opens a file, or stdin for "-".
func openInput(cmd *cobra.Command, path string) (io.Reader, func() error, error) {
	if path == "-" {
		return cmd.InOrStdin(), func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("error opening file %s: %w", path, err)
	}
	return f, f.Close, nil
}

// isTerminal reports whether r is an interactive terminal rather than a pipe
// or file.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
