package parser

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/opal-lang/expr/core/ast"
)

func TestSyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		kind    error
		offset  int
		char    rune
		message string
	}{
		{"empty", "", ErrInvalidInput, 0, 0, "expression must not be empty"},
		{"whitespace only", " \t\n ", ErrInvalidInput, 4, 0, "expression must not be empty"},
		{"no expression", ")", ErrUnexpected, 0, ')', "expected an expression"},
		{"trailing name", "a b", ErrUnexpected, 2, 'b', "unexpected input after expression"},
		{"trailing close paren", "f(x))", ErrUnexpected, 4, ')', "unexpected input after expression"},
		{"missing right operand", "1 +", ErrExpected, 3, 0, "expected right operand of '+'"},
		{"missing unary operand", "-", ErrExpected, 1, 0, "expected operand for unary '-'"},
		{"unclosed call", "f(1, 2", ErrExpected, 6, 0, "expected ')' to close argument list"},
		{"unclosed group", "(1 + 2", ErrExpected, 6, 0, "expected ')' to close parenthesized expression"},
		{"trailing comma", "f(1,)", ErrExpected, 4, ')', "expected expression in argument list"},
		{"unclosed indexer", "a[0", ErrExpected, 3, 0, "expected ']' to close indexer"},
		{"empty indexer", "a[]", ErrExpected, 2, ']', "expected index expression"},
		{"ternary without colon", "a ? b", ErrExpected, 5, 0, "expected ':' in conditional expression"},
		{"ternary without false branch", "a ? b :", ErrExpected, 7, 0, "expected expression after ':'"},
		{"new without body", "new", ErrExpected, 3, 0, "expected '{' after 'new'"},
		{"unclosed object", "new { a", ErrExpected, 7, 0, "expected '}' to close object initializer"},
		{"object member value missing", "new { a = }", ErrExpected, 10, '}', "expected value for member a"},
		{"member without name", "a.", ErrMalformedName, 2, 0, "expected member name after '.'"},
		{"member with digit", "a.1", ErrMalformedName, 2, '1', "expected member name after '.'"},
		{"positional without digits", "@x", ErrMalformedName, 1, 'x', "expected digits after '@'"},
		{"object member literal", "new {1}", ErrMalformedName, 5, '1', "expected member name in object initializer"},
		{"object member keyword", "new {true}", ErrMalformedName, 9, '}', `"true" cannot name an object member`},
		{"lambda on literal", "1=>x", ErrMalformedName, 1, '=', "lambda parameters must be a name or a parenthesized list of names, got literal"},
		{"lambda on positional", "@0 => 1", ErrMalformedName, 3, '=', "lambda parameters must be a name or a parenthesized list of names, got variable"},
		{"lambda on expression list", "(a, 1) => a", ErrMalformedName, 7, '=', "lambda parameters must be a name or a parenthesized list of names, got group"},
		{"lambda without body", "x =>", ErrExpected, 4, 0, "expected lambda body"},
		{"list is not a value", "(a, b)", ErrUnexpected, 6, 0, "parenthesized list of 2 elements is not a value"},
		{"list as operand", "(1, 2) + 3", ErrUnexpected, 7, '+', "parenthesized list of 2 elements is not a value"},
		{"empty parens", "()", ErrUnexpected, 2, 0, "parenthesized list of 0 elements is not a value"},
		{"list after unary", "-(a, b)", ErrUnexpected, 7, 0, "parenthesized list of 2 elements is not a value"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, err := Parse(tt.input)
			if root != nil {
				t.Errorf("Parse(%q) returned a tree alongside the error: %s", tt.input, root)
			}
			if !errors.Is(err, tt.kind) {
				t.Fatalf("Parse(%q) error = %v, want kind %v", tt.input, err, tt.kind)
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %T", err)
			}
			got := struct {
				Offset  int
				Char    rune
				Message string
			}{perr.Offset, perr.Char, perr.Message}
			want := struct {
				Offset  int
				Char    rune
				Message string
			}{tt.offset, tt.char, tt.message}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("Parse(%q) error mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func TestErrorKindsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrInvalidInput, ErrMalformedNumber, ErrUnterminated, ErrMalformedName,
		ErrExpected, ErrUnexpected, ErrType, ErrTooDeep,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if got := errors.Is(a, b); got != (i == j) {
				t.Errorf("errors.Is(%v, %v) = %v", a.(*ParseError).Kind, b.(*ParseError).Kind, got)
			}
		}
	}
	if errors.Is(ErrExpected, errors.New("missing")) {
		t.Error("a ParseError must not match an unrelated error")
	}
}

func TestErrorFormat(t *testing.T) {
	_, err := Parse("f(1, 2")
	if err == nil {
		t.Fatal("expected error")
	}

	want := strings.Join([]string{
		"missing: expected ')' to close argument list at offset 6, found end of input",
		"  --> 1:7",
		"   |",
		" 1 | f(1, 2",
		"   |       ^",
	}, "\n")
	if diff := cmp.Diff(want, err.Error()); diff != "" {
		t.Errorf("error format mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorFormatFoundCharacter(t *testing.T) {
	_, err := Parse("1x")
	if err == nil {
		t.Fatal("expected error")
	}
	first := strings.SplitN(err.Error(), "\n", 2)[0]
	want := "malformed number: number 1 cannot be followed by an identifier character at offset 1, found 'x'"
	if first != want {
		t.Errorf("got  %q\nwant %q", first, want)
	}
}

func TestErrorPosition(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		line   int
		column int
	}{
		{"first line", "f(1, 2", 1, 7},
		{"second line", "a +\n  (b", 2, 5},
		{"columns count characters", `"é" +`, 1, 6},
		{"error on first of three lines", "a b\nc\nd", 1, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.input)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			line, column := perr.Position()
			if line != tt.line || column != tt.column {
				t.Errorf("Position() = %d:%d, want %d:%d", line, column, tt.line, tt.column)
			}
		})
	}
}

func TestErrorSnippetMultiline(t *testing.T) {
	_, err := Parse("a +\n  (b")
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	for _, want := range []string{"  --> 2:5", " 2 |   (b", "   |     ^"} {
		if !strings.Contains(msg, want) {
			t.Errorf("error missing %q:\n%s", want, msg)
		}
	}
}

func TestKeywordSuggestion(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"nwe { a }", []string{"new"}},
		{"ne {a}", []string{"new"}},
		{"New {a}", []string{"new"}},
		{"nothing {a}", nil},
		{"nwe a", nil},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if diff := cmp.Diff(tt.want, perr.Suggestions); diff != "" {
				t.Errorf("suggestions mismatch (-want +got):\n%s", diff)
			}
		})
	}

	_, err := Parse("nwe { a }")
	if !strings.Contains(err.Error(), "(did you mean new?)") {
		t.Errorf("suggestion missing from message: %v", err)
	}
}

func TestMaxDepth(t *testing.T) {
	_, err := Parse("((((1))))", WithMaxDepth(3))
	if !errors.Is(err, ErrTooDeep) {
		t.Fatalf("expected too deep, got %v", err)
	}
	if !strings.Contains(err.Error(), "expression nests deeper than 3 levels") {
		t.Errorf("unexpected message: %v", err)
	}

	if _, err := Parse("((1))", WithMaxDepth(3)); err != nil {
		t.Errorf("depth 3 should parse: %v", err)
	}
}

func TestOperatorChainsDoNotNest(t *testing.T) {
	clauses := make([]string, 1000)
	for i := range clauses {
		clauses[i] = "id == " + strconv.Itoa(i)
	}
	filter := strings.Join(clauses, " || ")

	root, err := Parse(filter)
	if err != nil {
		t.Fatalf("1000-clause filter: %v", err)
	}
	if got := ast.Count(root); got != 3999 {
		t.Errorf("node count = %d, want 3999", got)
	}

	if _, err := Parse(strings.Repeat("1+", 600) + "1"); err != nil {
		t.Errorf("600-term sum: %v", err)
	}

	tree, err := ParseTree("a + b * c - d", WithMaxDepth(1), WithTelemetryBasic())
	if err != nil {
		t.Fatalf("flat chain under depth 1: %v", err)
	}
	if tree.Telemetry.MaxNest != 1 {
		t.Errorf("MaxNest = %d, want 1", tree.Telemetry.MaxNest)
	}

	if _, err := Parse("a + (b + (c))", WithMaxDepth(2)); !errors.Is(err, ErrTooDeep) {
		t.Errorf("groups inside a chain still nest, got %v", err)
	}
}

func TestEmptyInputReportsEndOfInput(t *testing.T) {
	_, err := Parse(" \t ")
	want := "invalid input: expression must not be empty at offset 3, found end of input"
	if err == nil || !strings.HasPrefix(err.Error(), want) {
		t.Errorf("error = %v, want prefix %q", err, want)
	}
}

func TestDefaultMaxDepthStopsRunawayNesting(t *testing.T) {
	tests := map[string]string{
		"groups":  strings.Repeat("(", 10000) + "1" + strings.Repeat(")", 10000),
		"unary":   strings.Repeat("-", 10000) + "1",
		"indexer": "a" + strings.Repeat("[a", 10000) + strings.Repeat("]", 10000),
		"lambda":  strings.Repeat("x => ", 10000) + "x",
		"chain":   strings.Repeat("1+", 20000) + "1",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(input)
			if !errors.Is(err, ErrTooDeep) {
				t.Fatalf("expected too deep, got %v", err)
			}
		})
	}
}
