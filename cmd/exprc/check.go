package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opal-lang/expr/runtime/parser"
)

// errCheckFailed is returned after the failures have been reported.
var errCheckFailed = errors.New("some expressions failed to parse")

func newCheckCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "check FILE",
		Short: "Parse every expression in a file, one per line",
		Long: "Parse every expression in a file, one per line. Blank lines and lines\n" +
			"starting with # are skipped. FILE may be - for stdin. Exits with status 1\n" +
			"when any expression fails.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.resolve(cmd)
			if err != nil {
				return err
			}

			res, err := runCheck(cmd, s, args[0])
			if err != nil {
				return err
			}
			if res.Failed > 0 {
				return errCheckFailed
			}
			return nil
		},
	}
}

// checkResult counts the expressions of one check run
type checkResult struct {
	Checked int
	Failed  int
}

func runCheck(cmd *cobra.Command, s *session, path string) (checkResult, error) {
	r, closeFunc, err := openInput(cmd, path)
	if err != nil {
		return checkResult{}, err
	}
	defer func() { _ = closeFunc() }()

	name := path
	if path == "-" {
		name = "<stdin>"
	}
	return checkExpressions(r, name, cmd.OutOrStdout(), s.parserOptions(), s.useColor)
}

// checkExpressions parses each line of r and reports failures as
// name:line: message followed by the source snippet.
func checkExpressions(r io.Reader, name string, out io.Writer, opts []parser.ParserOpt, useColor bool) (checkResult, error) {
	var res checkResult

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		res.Checked++
		if _, err := parser.Parse(line, opts...); err != nil {
			res.Failed++
			location := Colorize(fmt.Sprintf("%s:%d:", name, lineNo), ColorGray, useColor)
			_, _ = fmt.Fprintf(out, "%s ", location)
			FormatError(out, err, useColor)
		}
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("error reading %s: %w", name, err)
	}

	status := Colorize("ok", ColorGreen, useColor)
	if res.Failed > 0 {
		status = Colorize("FAIL", ColorRed, useColor)
	}
	_, _ = fmt.Fprintf(out, "%s %s: %d checked, %d failed\n", status, name, res.Checked, res.Failed)
	return res, nil
}
