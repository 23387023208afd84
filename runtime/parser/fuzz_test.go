package parser

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/opal-lang/expr/core/ast"
)

// Fuzz tests for parser robustness and determinism.
//
// 1. FuzzParserNoPanic - Parse returns a tree or a ParseError, never panics
// 2. FuzzParserDeterminism - Same input always produces identical output
// 3. FuzzParserErrorBounds - Error offsets stay inside the input
// 4. FuzzParserWhitespaceInvariance - Padding the input does not change the tree

func addSeedCorpus(f *testing.F) {
	// Literals
	f.Add("")
	f.Add("42")
	f.Add("3.14")
	f.Add("1.")
	f.Add(`"hello"`)
	f.Add(`'single'`)
	f.Add(`"esc\t\"aped\\"`)
	f.Add("true")
	f.Add("null")

	// Operators
	f.Add("1+2*3")
	f.Add("1*2+3")
	f.Add("a && b || c ?? d")
	f.Add("x << 2 >= y >> 1")
	f.Add("-1+2")
	f.Add("!~-+x")

	// Postfix chains
	f.Add("foo.bar(baz).qux[1]")
	f.Add("a?b:c?d:e")
	f.Add("x => x + 1")
	f.Add("(x, y) => x * y")
	f.Add("() => 0")
	f.Add("items.Where(i => i.Active).Select(i => new { i.Id, name = i.Name })")
	f.Add("@0.Name + @1")

	// Interpolation
	f.Add(`$"a{1+1}b"`)
	f.Add(`$"${x}!"`)
	f.Add(`$"{$"{x}"}"`)

	// Malformed
	f.Add(`"abc`)
	f.Add("1x")
	f.Add("1=>x")
	f.Add("f(1,")
	f.Add("new {")
	f.Add("(a, b)")
	f.Add("@")
	f.Add(`$"{`)
	f.Add("a ? b")
	f.Add(strings.Repeat("(", 600))
	f.Add("\x00\xff")
}

// FuzzParserNoPanic verifies the parser fails only through ParseError.
func FuzzParserNoPanic(f *testing.F) {
	addSeedCorpus(f)

	f.Fuzz(func(t *testing.T, input string) {
		root, err := Parse(input)
		if err != nil {
			if root != nil {
				t.Fatalf("tree returned alongside error for %q", input)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("non-ParseError %T for %q: %v", err, input, err)
			}
			_ = perr.Error()
			return
		}
		if root == nil {
			t.Fatalf("nil tree without error for %q", input)
		}
		if ast.Count(root) < 1 {
			t.Fatalf("empty tree for %q", input)
		}
	})
}

// FuzzParserDeterminism verifies that parsing is a pure function of its input.
func FuzzParserDeterminism(f *testing.F) {
	addSeedCorpus(f)

	f.Fuzz(func(t *testing.T, input string) {
		root1, err1 := Parse(input)
		root2, err2 := Parse(input)

		if (err1 == nil) != (err2 == nil) {
			t.Fatalf("error presence differs for %q: %v vs %v", input, err1, err2)
		}
		if err1 != nil {
			if err1.Error() != err2.Error() {
				t.Fatalf("errors differ for %q:\n%v\n%v", input, err1, err2)
			}
			return
		}
		if root1.String() != root2.String() {
			t.Fatalf("trees differ for %q:\n%s\n%s", input, root1, root2)
		}
	})
}

// FuzzParserErrorBounds verifies error offsets and positions are in range.
func FuzzParserErrorBounds(f *testing.F) {
	addSeedCorpus(f)

	f.Fuzz(func(t *testing.T, input string) {
		_, err := Parse(input)
		var perr *ParseError
		if !errors.As(err, &perr) {
			return
		}
		if perr.Offset < 0 || perr.Offset > len(input) {
			t.Fatalf("offset %d out of range for %q", perr.Offset, input)
		}
		if perr.Input != input {
			t.Fatalf("error carries %q, want %q", perr.Input, input)
		}
		line, column := perr.Position()
		if line < 1 || column < 1 {
			t.Fatalf("position %d:%d for %q", line, column, input)
		}
		if line > strings.Count(input, "\n")+1 {
			t.Fatalf("line %d past end of %q", line, input)
		}
	})
}

// FuzzParserWhitespaceInvariance verifies that surrounding whitespace is
// insignificant.
func FuzzParserWhitespaceInvariance(f *testing.F) {
	addSeedCorpus(f)

	f.Fuzz(func(t *testing.T, input string) {
		if !utf8.ValidString(input) {
			return
		}
		root, err := Parse(input)
		if err != nil {
			return
		}
		padded, err := Parse(" \t\n" + input + "\r\n ")
		if err != nil {
			t.Fatalf("padding broke %q: %v", input, err)
		}
		if root.String() != padded.String() {
			t.Fatalf("padding changed %q:\n%s\n%s", input, root, padded)
		}
	})
}
