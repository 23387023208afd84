package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/opal-lang/expr/core/ast"
	"github.com/opal-lang/expr/core/exprfmt"
	"github.com/opal-lang/expr/internal/config"
	"github.com/opal-lang/expr/runtime/parser"
)

func newParseCmd(g *globalFlags) *cobra.Command {
	var expect string

	cmd := &cobra.Command{
		Use:   "parse [EXPR|-]",
		Short: "Parse an expression and print its syntax tree",
		Long: "Parse an expression and print its syntax tree.\n\n" +
			"The expression is read from the argument, or from stdin when the argument\n" +
			"is - or missing. Output formats: tree, sexpr, json, yaml, cbor.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := g.resolve(cmd)
			if err != nil {
				return err
			}
			input, err := readExpression(cmd, args)
			if err != nil {
				return err
			}
			return runParse(cmd, s, input, expect)
		},
	}

	cmd.Flags().StringVar(&g.format, "format", "tree", "Output format: "+strings.Join(config.Formats, ", "))
	cmd.Flags().StringVar(&expect, "expect", "", "Require the root node kind, e.g. lambda or call")
	return cmd
}

func runParse(cmd *cobra.Command, s *session, input, expect string) error {
	var want ast.Kind
	if expect != "" {
		kind, ok := ast.ParseKind(expect)
		if !ok {
			return unknownChoice("node kind", expect, ast.KindNames())
		}
		want = kind
	}

	tree, err := parser.ParseTree(input, s.parserOptions()...)
	if err != nil {
		return err
	}

	if expect != "" && tree.Root.Kind() != want {
		return &parser.ParseError{
			Kind:    parser.ErrorType,
			Message: fmt.Sprintf("expected %s, got %s", want, tree.Root.Kind()),
			Input:   input,
		}
	}

	if err := writeTree(cmd.OutOrStdout(), tree.Root, s.cfg.Format, s.useColor); err != nil {
		return err
	}

	if t := tree.Telemetry; t != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "telemetry: nodes=%d depth=%d nesting=%d time=%s\n",
			t.NodeCount, t.TreeDepth, t.MaxNest, t.ParseTime)
	}
	return nil
}

// writeTree renders root in one of the configured output formats
func writeTree(w io.Writer, root ast.Token, format string, useColor bool) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "tree":
		exprfmt.FormatTree(w, root, useColor)
		return nil
	case "sexpr":
		_, err = fmt.Fprintln(w, root.String())
		return err
	case "json":
		data, err = exprfmt.MarshalIndentJSON(root)
		data = append(data, '\n')
	case "yaml":
		data, err = exprfmt.MarshalYAML(root)
	case "cbor":
		data, err = exprfmt.EncodeCBOR(root)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
