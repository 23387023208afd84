package parser

import (
	"slices"
	"strings"

	"github.com/opal-lang/expr/core/ast"
)

// postfixKind names a production that extends an already parsed expression.
type postfixKind int

const (
	postfixMember  postfixKind = iota // .name
	postfixIndexer                    // [key]
	postfixLambda                     // => body
	postfixCall                       // (args)
	postfixTernary                    // ? a : b
	postfixBinary                     // op rhs
)

func (k postfixKind) String() string {
	switch k {
	case postfixMember:
		return "member"
	case postfixIndexer:
		return "indexer"
	case postfixLambda:
		return "lambda"
	case postfixCall:
		return "call"
	case postfixTernary:
		return "ternary"
	case postfixBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// Production orders. Unary operands only take the access postfixes.
var (
	fullPostfix    = []postfixKind{postfixMember, postfixIndexer, postfixLambda, postfixCall, postfixTernary, postfixBinary}
	primaryPostfix = []postfixKind{postfixMember, postfixIndexer, postfixCall}
)

// postfix extends tok with the first matching production of kinds until none
// matches. A production that does not match leaves the cursor untouched.
func (p *parser) postfix(tok ast.Token, kinds []postfixKind) (ast.Token, error) {
	for {
		p.cur.SkipWhitespace()
		if p.cur.AtEnd() {
			break
		}
		next, err := p.extend(tok, kinds)
		if err != nil {
			return nil, err
		}
		if next == nil {
			break
		}
		tok = next
	}

	if g, ok := tok.(*ast.Group); ok && !g.IsValue() {
		return nil, p.errorf(ErrorUnexpected, "parenthesized list of %d elements is not a value", g.Len())
	}
	return tok, nil
}

func (p *parser) extend(tok ast.Token, kinds []postfixKind) (ast.Token, error) {
	// A parameter list is only meaningful in front of =>.
	if g, ok := tok.(*ast.Group); ok && !g.IsValue() {
		if !slices.Contains(kinds, postfixLambda) {
			return nil, nil
		}
		return p.lambda(tok)
	}

	for _, kind := range kinds {
		var (
			next ast.Token
			err  error
		)
		switch kind {
		case postfixMember:
			next, err = p.member(tok)
		case postfixIndexer:
			next, err = p.indexer(tok)
		case postfixLambda:
			next, err = p.lambda(tok)
		case postfixCall:
			next, err = p.call(tok)
		case postfixTernary:
			next, err = p.ternary(tok)
		case postfixBinary:
			next, err = p.binary(tok)
		}
		if err != nil || next != nil {
			if next != nil {
				p.trace("match_"+kind.String(), "")
			}
			return next, err
		}
	}
	return nil, nil
}

func (p *parser) member(target ast.Token) (ast.Token, error) {
	if !p.cur.TryConsume(".") {
		return nil, nil
	}
	p.cur.SkipWhitespace()
	name := p.cur.ScanIdentifier()
	if name == "" {
		return nil, p.errorf(ErrorMalformedName, "expected member name after '.'")
	}
	return ast.NewMember(target, name), nil
}

func (p *parser) indexer(target ast.Token) (ast.Token, error) {
	if !p.cur.TryConsume("[") {
		return nil, nil
	}
	key, err := p.operand("index expression")
	if err != nil {
		return nil, err
	}
	if err := p.expect("]", "to close indexer"); err != nil {
		return nil, err
	}
	return ast.NewIndexer(target, key), nil
}

// lambda turns the expression in front of => into a parameter list: a single
// variable, or a parenthesized list of variables.
func (p *parser) lambda(target ast.Token) (ast.Token, error) {
	arrow := p.cur.Mark()
	if !p.cur.TryConsume("=>") {
		return nil, nil
	}

	params, ok := lambdaParameters(target)
	if !ok {
		return nil, p.errorAt(arrow, ErrorMalformedName,
			"lambda parameters must be a name or a parenthesized list of names, got %s", target.Kind())
	}

	body, err := p.operand("lambda body")
	if err != nil {
		return nil, err
	}
	return ast.NewLambda(params, body), nil
}

func lambdaParameters(target ast.Token) ([]string, bool) {
	var vars []ast.Token
	switch t := target.(type) {
	case *ast.Variable:
		vars = []ast.Token{t}
	case *ast.Group:
		vars = t.Elements()
	default:
		return nil, false
	}

	params := make([]string, 0, len(vars))
	for _, v := range vars {
		variable, ok := v.(*ast.Variable)
		if !ok || strings.HasPrefix(variable.Name(), "@") {
			return nil, false
		}
		params = append(params, variable.Name())
	}
	return params, true
}

func (p *parser) call(target ast.Token) (ast.Token, error) {
	if !p.cur.TryConsume("(") {
		return nil, nil
	}
	args, err := p.list(")", "argument list")
	if err != nil {
		return nil, err
	}
	return ast.NewCall(target, args...), nil
}

// ternary binds its branches by recursion, so a ? b : c ? d : e nests the
// second conditional in the false branch of the first.
func (p *parser) ternary(condition ast.Token) (ast.Token, error) {
	// "??" is the null-coalescing binary operator.
	if p.cur.Current() != '?' || p.cur.Peek(1) == '?' {
		return nil, nil
	}
	p.cur.Advance(1)

	whenTrue, err := p.operand("expression after '?'")
	if err != nil {
		return nil, err
	}
	if err := p.expect(":", "in conditional expression"); err != nil {
		return nil, err
	}
	whenFalse, err := p.operand("expression after ':'")
	if err != nil {
		return nil, err
	}
	return ast.NewTernary(condition, whenTrue, whenFalse), nil
}

// binary consumes an operator from the precedence table and parses the
// right-hand side as a full expression, then rebalances.
func (p *parser) binary(left ast.Token) (ast.Token, error) {
	op := ""
	for _, candidate := range binaryOperators {
		if p.cur.TryConsume(candidate) {
			op = candidate
			break
		}
	}
	if op == "" {
		return nil, nil
	}

	// The right operand continues the current nesting level. Only the length
	// of the operator chain bounds this recursion.
	if p.chain >= maxOperatorChain {
		return nil, p.errorf(ErrorTooDeep, "operator chain longer than %d operators", maxOperatorChain)
	}
	p.chain++
	p.depth--
	right, err := p.operand("right operand of '" + op + "'")
	p.depth++
	p.chain--
	if err != nil {
		return nil, err
	}
	return rebalance(op, left, right), nil
}

// maxOperatorChain bounds a run of binary operators such as a || b || c,
// which recurses once per operator without nesting.
const maxOperatorChain = 10000

var binaryOperators = ast.BinaryOperators()
