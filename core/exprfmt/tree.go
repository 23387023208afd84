package exprfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/opal-lang/expr/core/ast"
)

// ANSI color codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Colorize wraps text in ANSI color codes if color is enabled
func Colorize(text, color string, useColor bool) string {
	if !useColor {
		return text
	}
	return color + text + ColorReset
}

// FormatTree renders a tree one node per line:
//
//	binary +
//	├─ literal 1
//	└─ binary *
//	   ├─ literal 2
//	   └─ literal 3
func FormatTree(w io.Writer, t ast.Token, useColor bool) {
	_, _ = fmt.Fprintf(w, "%s\n", renderLabel(t, useColor))
	renderChildren(w, t, "", useColor)
}

// edge is a child with an optional role shown before its label.
type edge struct {
	role string
	tok  ast.Token
}

func renderChildren(w io.Writer, t ast.Token, indent string, useColor bool) {
	edges := childEdges(t)
	for i, e := range edges {
		isLast := i == len(edges)-1

		var prefix, next string
		if isLast {
			prefix, next = indent+"└─ ", indent+"   "
		} else {
			prefix, next = indent+"├─ ", indent+"│  "
		}

		label := renderLabel(e.tok, useColor)
		if e.role != "" {
			label = Colorize(e.role+":", ColorGray, useColor) + " " + label
		}
		_, _ = fmt.Fprintf(w, "%s%s\n", prefix, label)
		renderChildren(w, e.tok, next, useColor)
	}
}

func childEdges(t ast.Token) []edge {
	switch n := t.(type) {
	case *ast.Indexer:
		return []edge{{"target", n.Target()}, {"key", n.Key()}}
	case *ast.Call:
		edges := []edge{{"target", n.Target()}}
		for _, a := range n.Arguments() {
			edges = append(edges, edge{"arg", a})
		}
		return edges
	case *ast.Ternary:
		return []edge{{"if", n.Condition()}, {"then", n.WhenTrue()}, {"else", n.WhenFalse()}}
	default:
		children := t.Children()
		edges := make([]edge, len(children))
		for i, c := range children {
			edges[i] = edge{tok: c}
		}
		return edges
	}
}

// renderLabel renders the node kind and its scalar payload
func renderLabel(t ast.Token, useColor bool) string {
	kind := Colorize(t.Kind().String(), ColorBlue, useColor)

	switch n := t.(type) {
	case *ast.Literal:
		color := ColorGreen
		if n.Value() == nil {
			color = ColorGray
		}
		return kind + " " + Colorize(n.String(), color, useColor)
	case *ast.Variable:
		return kind + " " + Colorize(n.Name(), ColorCyan, useColor)
	case *ast.Unary:
		return kind + " " + Colorize(n.Operator(), ColorYellow, useColor)
	case *ast.Binary:
		return kind + " " + Colorize(n.Operator(), ColorYellow, useColor)
	case *ast.Assign:
		return kind + " " + Colorize(n.Name(), ColorCyan, useColor)
	case *ast.Member:
		return kind + " " + Colorize("."+n.Name(), ColorCyan, useColor)
	case *ast.Lambda:
		params := "(" + strings.Join(n.Parameters(), ", ") + ")"
		return kind + " " + Colorize(params, ColorCyan, useColor)
	default:
		return kind
	}
}
