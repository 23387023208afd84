package parser

import "github.com/opal-lang/expr/core/ast"

// rebalance builds left op right. The right-hand side was parsed by
// unconditional recursion, so it may itself be a binary node that should
// have bound looser than op:
//
//	1 * 2 + 3   parses as   1 * (2 + 3)   and is rotated to   (1 * 2) + 3
//
// Only one level is rotated. A right-nested chain mixing three or more
// precedence levels can keep part of its right-leaning shape, and operators
// of equal precedence stay right-nested: 1 - 2 - 3 is 1 - (2 - 3).
func rebalance(op string, left, right ast.Token) *ast.Binary {
	r, ok := right.(*ast.Binary)
	if !ok {
		return ast.NewBinary(op, left, right)
	}

	p1, _ := ast.Precedence(op)
	p2, _ := ast.Precedence(r.Operator())
	if p2 < p1 {
		inner := ast.NewBinary(op, left, r.Left())
		return ast.NewBinary(r.Operator(), inner, r.Right())
	}
	return ast.NewBinary(op, left, right)
}
