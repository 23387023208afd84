package parser

import (
	"reflect"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/opal-lang/expr/core/ast"
)

// AST nodes keep their fields unexported; compare them structurally.
var astCompare = cmp.Exporter(func(reflect.Type) bool { return true })

func lit(v any) ast.Token                 { return ast.NewLiteral(v) }
func ref(name string) ast.Token           { return ast.NewVariable(name) }
func un(op string, x ast.Token) ast.Token { return ast.NewUnary(op, x) }
func bin(op string, l, r ast.Token) ast.Token {
	return ast.NewBinary(op, l, r)
}
func grp(elems ...ast.Token) ast.Token             { return ast.NewGroup(elems...) }
func mem(target ast.Token, name string) ast.Token { return ast.NewMember(target, name) }
func idx(target, key ast.Token) ast.Token         { return ast.NewIndexer(target, key) }
func call(target ast.Token, args ...ast.Token) ast.Token {
	return ast.NewCall(target, args...)
}
func tern(c, t, f ast.Token) ast.Token { return ast.NewTernary(c, t, f) }
func lam(params []string, body ast.Token) ast.Token {
	return ast.NewLambda(params, body)
}
func asg(name string, value ast.Token) *ast.Assign { return ast.NewAssign(name, value) }
func obj(members ...*ast.Assign) ast.Token         { return ast.NewObject(members...) }

// parseCase is one row of a table-driven grammar test.
type parseCase struct {
	name  string
	input string
	want  ast.Token
	opts  []ParserOpt
}

func runParseCases(t *testing.T, tests []parseCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input, tt.opts...)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.input, err)
			}
			if diff := cmp.Diff(tt.want, got, astCompare); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s\ngot: %s", tt.input, diff, got)
			}
		})
	}
}
