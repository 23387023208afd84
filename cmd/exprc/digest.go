package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opal-lang/expr/core/exprfmt"
	"github.com/opal-lang/expr/runtime/parser"
)

func newDigestCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "digest [EXPR|-]",
		Short: "Print the BLAKE2b digest of an expression's syntax tree",
		Long: "Print the BLAKE2b-256 digest of the canonical encoding of an expression's\n" +
			"syntax tree. Expressions that differ only in layout share a digest.",
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

			root, err := parser.Parse(input, s.parserOptions()...)
			if err != nil {
				return err
			}
			sum, err := exprfmt.Digest(root)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), exprfmt.FormatDigest(sum))
			return err
		},
	}
}
