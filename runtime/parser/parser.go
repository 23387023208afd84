// Package parser turns expression text into an ast.Token tree.
//
// Lexing and parsing happen in one recursive-descent pass. Every
// sub-expression context (group element, argument, index key, lambda body,
// binary right-hand side, ternary branch, interpolation segment) re-enters
// the same routine, expression, which reads a prefix production and then
// extends it with postfix productions until none applies.
package parser

import (
	"fmt"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/opal-lang/expr/core/ast"
	"github.com/opal-lang/expr/core/invariant"
	"github.com/opal-lang/expr/runtime/lexer"
)

// Parse parses input and returns the root of the expression tree.
func Parse(input string, opts ...ParserOpt) (ast.Token, error) {
	tree, err := ParseTree(input, opts...)
	if err != nil {
		return nil, err
	}
	return tree.Root, nil
}

// ParseAs parses input and requires the root to be of type T, e.g.
//
//	lambda, err := parser.ParseAs[*ast.Lambda]("x => x + 1")
func ParseAs[T ast.Token](input string, opts ...ParserOpt) (T, error) {
	var zero T
	root, err := Parse(input, opts...)
	if err != nil {
		return zero, err
	}
	typed, ok := root.(T)
	if !ok {
		return zero, &ParseError{
			Kind:    ErrorType,
			Message: fmt.Sprintf("expected %T, got %s", zero, root.Kind()),
			Input:   input,
		}
	}
	return typed, nil
}

// ParseExpecting parses input and requires the root to be of the given kind.
func ParseExpecting(input string, kind ast.Kind, opts ...ParserOpt) (ast.Token, error) {
	root, err := Parse(input, opts...)
	if err != nil {
		return nil, err
	}
	if root.Kind() != kind {
		return nil, &ParseError{
			Kind:    ErrorType,
			Message: fmt.Sprintf("expected %s, got %s", kind, root.Kind()),
			Input:   input,
		}
	}
	return root, nil
}

// ParseTree parses input and returns the root together with the bindings,
// telemetry and debug events configured through opts.
func ParseTree(input string, opts ...ParserOpt) (*Tree, error) {
	config := newConfig(opts)

	var start time.Time
	if config.telemetry >= TelemetryTiming {
		start = time.Now()
	}

	p := &parser{
		cur:    lexer.NewCursor(input),
		config: config,
	}
	if config.debug > DebugOff {
		p.debugEvents = make([]DebugEvent, 0, 64)
	}

	root, err := p.parse()
	if err != nil {
		config.logger.Debug("parse failed", "error", err)
		return nil, err
	}
	invariant.Postcondition(root != nil, "successful parse must produce a root")

	tree := &Tree{
		Source:      input,
		Root:        root,
		Bindings:    config.bindings,
		DebugEvents: p.debugEvents,
	}
	if config.telemetry >= TelemetryBasic {
		tree.Telemetry = &ParseTelemetry{
			NodeCount: ast.Count(root),
			TreeDepth: ast.Depth(root),
			MaxNest:   p.maxDepth,
		}
		if config.telemetry >= TelemetryTiming {
			tree.Telemetry.ParseTime = time.Since(start)
		}
	}
	return tree, nil
}

// parser is the state of one parse. It is never shared.
type parser struct {
	cur         *lexer.Cursor
	config      *ParserConfig
	depth       int
	maxDepth    int
	chain       int
	debugEvents []DebugEvent
}

func (p *parser) parse() (ast.Token, error) {
	p.cur.SkipWhitespace()
	if p.cur.AtEnd() {
		return nil, p.errorf(ErrorInvalidInput, "expression must not be empty")
	}

	root, err := p.expression()
	if err != nil {
		return nil, err
	}
	if root == nil {
		return nil, p.errorf(ErrorUnexpected, "expected an expression")
	}

	p.cur.SkipWhitespace()
	if !p.cur.AtEnd() {
		err := p.errorf(ErrorUnexpected, "unexpected input after expression")
		err.Suggestions = suggestKeyword(root, p.cur.Current())
		return nil, err
	}
	return root, nil
}

// expression is the dispatcher: a prefix production followed by as many
// postfix productions as apply. It returns nil, nil when no expression starts
// at the cursor, which is legitimate in empty list positions.
func (p *parser) expression() (ast.Token, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.trace("enter_expression", "")
	p.cur.SkipWhitespace()

	tok, err := p.prefix()
	if err != nil || tok == nil {
		return tok, err
	}
	return p.postfix(tok, fullPostfix)
}

// prefix tries, in order: literal, identifier, positional parameter, unary
// operator, parenthesized group. Variables are then resolved against the
// keyword table.
func (p *parser) prefix() (ast.Token, error) {
	tok, err := p.literal()
	if err != nil || tok != nil {
		return tok, err
	}

	if name := p.cur.ScanIdentifier(); name != "" {
		p.trace("match_identifier", name)
		return p.resolveName(name)
	}

	if name, ok := p.cur.ScanPositional(); ok {
		if name == "" {
			return nil, p.errorf(ErrorMalformedName, "expected digits after '@'")
		}
		p.trace("match_positional", name)
		return ast.NewVariable(name), nil
	}

	if op := p.cur.Current(); ast.IsUnaryOperator(string(op)) {
		return p.unary(string(op))
	}

	if p.cur.TryConsume("(") {
		p.trace("match_group", "")
		elements, err := p.list(")", "parenthesized expression")
		if err != nil {
			return nil, err
		}
		return ast.NewGroup(elements...), nil
	}

	return nil, nil
}

// keyword folds the reserved literals; a name never reaches the tree as a
// Variable when it is listed here.
func keyword(name string) (*ast.Literal, bool) {
	switch name {
	case "true":
		return ast.NewLiteral(true), true
	case "false":
		return ast.NewLiteral(false), true
	case "null":
		return ast.NewLiteral(nil), true
	default:
		return nil, false
	}
}

const newKeyword = "new"

func isReserved(name string) bool {
	_, ok := keyword(name)
	return ok || name == newKeyword
}

func (p *parser) resolveName(name string) (ast.Token, error) {
	if lit, ok := keyword(name); ok {
		return lit, nil
	}
	if name == newKeyword {
		return p.object()
	}
	return ast.NewVariable(name), nil
}

// object parses the body of new { a, b = expr, ... }.
func (p *parser) object() (ast.Token, error) {
	if err := p.expect("{", "after 'new'"); err != nil {
		return nil, err
	}

	p.cur.SkipWhitespace()
	if p.cur.TryConsume("}") {
		return ast.NewObject(), nil
	}

	var members []*ast.Assign
	for {
		p.cur.SkipWhitespace()
		name := p.cur.ScanIdentifier()
		if name == "" {
			return nil, p.errorf(ErrorMalformedName, "expected member name in object initializer")
		}
		if isReserved(name) {
			return nil, p.errorf(ErrorMalformedName, "%q cannot name an object member", name)
		}

		var value ast.Token = ast.NewVariable(name)
		p.cur.SkipWhitespace()
		if p.cur.Current() == '=' && p.cur.Peek(1) != '=' && p.cur.Peek(1) != '>' {
			p.cur.Advance(1)
			v, err := p.operand("value for member " + name)
			if err != nil {
				return nil, err
			}
			value = v
		}
		members = append(members, ast.NewAssign(name, value))

		p.cur.SkipWhitespace()
		if p.cur.TryConsume(",") {
			continue
		}
		if err := p.expect("}", "to close object initializer"); err != nil {
			return nil, err
		}
		return ast.NewObject(members...), nil
	}
}

// unary consumes op and parses its operand. The operand is a primary with
// member, indexer and call postfixes only, so a unary operator binds tighter
// than any binary operator: -1+2 is (-1)+2.
func (p *parser) unary(op string) (ast.Token, error) {
	p.cur.Advance(len(op))
	p.trace("match_unary", op)

	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	p.cur.SkipWhitespace()
	operand, err := p.prefix()
	if err != nil {
		return nil, err
	}
	if operand == nil {
		return nil, p.errorf(ErrorExpected, "expected operand for unary '%s'", op)
	}
	operand, err = p.postfix(operand, primaryPostfix)
	if err != nil {
		return nil, err
	}
	return ast.NewUnary(op, operand), nil
}

// list parses comma-separated expressions up to closer. The opening
// delimiter has already been consumed.
func (p *parser) list(closer, context string) ([]ast.Token, error) {
	p.cur.SkipWhitespace()
	if p.cur.TryConsume(closer) {
		return nil, nil
	}

	var items []ast.Token
	for {
		item, err := p.operand("expression in " + context)
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.cur.SkipWhitespace()
		if p.cur.TryConsume(",") {
			continue
		}
		if err := p.expect(closer, "to close "+context); err != nil {
			return nil, err
		}
		return items, nil
	}
}

// operand parses a required sub-expression.
func (p *parser) operand(what string) (ast.Token, error) {
	tok, err := p.expression()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, p.errorf(ErrorExpected, "expected %s", what)
	}
	return tok, nil
}

// expect skips whitespace and requires lit at the cursor.
func (p *parser) expect(lit, context string) error {
	p.cur.SkipWhitespace()
	if p.cur.TryConsume(lit) {
		return nil
	}
	return p.errorf(ErrorExpected, "expected '%s' %s", lit, context)
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		p.maxDepth = p.depth
	}
	if p.depth > p.config.maxDepth {
		return p.errorf(ErrorTooDeep, "expression nests deeper than %d levels", p.config.maxDepth)
	}
	return nil
}

func (p *parser) leave() {
	p.depth--
	invariant.Invariant(p.depth >= 0, "unbalanced expression depth")
}

// errorf builds a ParseError at the cursor.
func (p *parser) errorf(kind ErrorKind, format string, args ...any) *ParseError {
	return &ParseError{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Offset:  p.cur.Pos(),
		Char:    p.cur.Rune(),
		Input:   p.cur.Input(),
	}
}

// errorAt builds a ParseError at a saved position.
func (p *parser) errorAt(m lexer.Mark, kind ErrorKind, format string, args ...any) *ParseError {
	here := p.cur.Mark()
	p.cur.Reset(m)
	err := p.errorf(kind, format, args...)
	p.cur.Reset(here)
	return err
}

func (p *parser) trace(event, context string) {
	p.config.logger.Debug(event, "offset", p.cur.Pos(), "context", context)
	if p.config.debug == DebugOff {
		return
	}
	p.debugEvents = append(p.debugEvents, DebugEvent{
		Timestamp: time.Now(),
		Event:     event,
		Offset:    p.cur.Pos(),
		Context:   context,
	})
}

// suggestKeyword proposes "new" when a name close to it is directly followed
// by an object body, as in "nwe { a }".
func suggestKeyword(root ast.Token, next byte) []string {
	v, ok := root.(*ast.Variable)
	if !ok || next != '{' {
		return nil
	}
	if fuzzy.LevenshteinDistance(v.Name(), newKeyword) <= 2 {
		return []string{newKeyword}
	}
	return nil
}
