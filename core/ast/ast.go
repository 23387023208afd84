// Package ast defines the immutable expression tree produced by the parser.
//
// Every node ("token") is built once through its constructor and never changes
// afterwards. Fields are unexported and accessors that expose sequences return
// copies, so a tree can be handed to any number of readers without locking.
package ast

import (
	"math"
	"strconv"
	"strings"

	"github.com/opal-lang/expr/core/invariant"
)

// Kind identifies one of the twelve node variants.
type Kind uint8

const (
	KindLiteral  Kind = iota // constant value
	KindVariable             // identifier reference
	KindUnary                // prefix operation: -x, +x, !x, ~x
	KindBinary               // infix operation
	KindGroup                // (a) or a parameter/argument list
	KindObject               // new { a, b = 1 }
	KindAssign               // member initializer inside new { }
	KindMember               // a.b
	KindIndexer              // a[b]
	KindCall                 // f(a, b)
	KindTernary              // a ? b : c
	KindLambda               // (x, y) => body
)

var kindNames = [...]string{
	KindLiteral:  "literal",
	KindVariable: "variable",
	KindUnary:    "unary",
	KindBinary:   "binary",
	KindGroup:    "group",
	KindObject:   "object",
	KindAssign:   "assign",
	KindMember:   "member",
	KindIndexer:  "indexer",
	KindCall:     "call",
	KindTernary:  "ternary",
	KindLambda:   "lambda",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind returns the Kind whose String() is name (case-insensitive).
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), true
		}
	}
	return 0, false
}

// KindNames lists the names of all node kinds in declaration order.
func KindNames() []string {
	names := make([]string, len(kindNames))
	copy(names, kindNames[:])
	return names
}

// Token is a node of the expression tree.
type Token interface {
	Kind() Kind
	// Children returns the direct child nodes in source order.
	Children() []Token
	// String renders the subtree in prefix notation, e.g. (+ 1 (* 2 3)).
	String() string

	node()
}

// Literal is a constant: nil, bool, int64, float64 or string.
type Literal struct {
	value any
}

// NewLiteral builds a literal. Plain int values are widened to int64.
func NewLiteral(value any) *Literal {
	switch v := value.(type) {
	case nil, bool, int64, float64, string:
		return &Literal{value: v}
	case int:
		return &Literal{value: int64(v)}
	default:
		invariant.Precondition(false, "unsupported literal type %T", value)
		return nil
	}
}

func (l *Literal) Value() any { return l.value }

func (l *Literal) Kind() Kind        { return KindLiteral }
func (l *Literal) Children() []Token { return nil }
func (l *Literal) node()             {}
func (l *Literal) String() string    { return FormatValue(l.value) }

// FormatValue renders a literal value the way String() prints it. Floats always
// carry a fractional part or exponent so they stay distinguishable from ints.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		s := strconv.FormatFloat(v, 'g', -1, 64)
		if !math.IsInf(v, 0) && !math.IsNaN(v) && !strings.ContainsAny(s, ".e") {
			s += ".0"
		}
		return s
	case string:
		return strconv.Quote(v)
	default:
		return "?"
	}
}

// Variable references a name: an identifier, a lambda parameter or a
// positional parameter such as "@0".
type Variable struct {
	name string
}

func NewVariable(name string) *Variable {
	invariant.Precondition(name != "", "variable name must not be empty")
	return &Variable{name: name}
}

func (v *Variable) Name() string { return v.name }

func (v *Variable) Kind() Kind        { return KindVariable }
func (v *Variable) Children() []Token { return nil }
func (v *Variable) node()             {}
func (v *Variable) String() string    { return v.name }

// Unary is a prefix operation.
type Unary struct {
	op      string
	operand Token
}

func NewUnary(op string, operand Token) *Unary {
	invariant.Precondition(IsUnaryOperator(op), "unknown unary operator %q", op)
	invariant.NotNil(operand, "unary operand")
	return &Unary{op: op, operand: operand}
}

func (u *Unary) Operator() string { return u.op }
func (u *Unary) Operand() Token   { return u.operand }

func (u *Unary) Kind() Kind        { return KindUnary }
func (u *Unary) Children() []Token { return []Token{u.operand} }
func (u *Unary) node()             {}
func (u *Unary) String() string    { return sexpr(u.op, u.operand) }

// Binary is an infix operation. Its operator is always a key of the
// precedence table.
type Binary struct {
	op          string
	left, right Token
}

func NewBinary(op string, left, right Token) *Binary {
	invariant.Precondition(IsBinaryOperator(op), "unknown binary operator %q", op)
	invariant.NotNil(left, "binary left operand")
	invariant.NotNil(right, "binary right operand")
	return &Binary{op: op, left: left, right: right}
}

func (b *Binary) Operator() string { return b.op }
func (b *Binary) Left() Token      { return b.left }
func (b *Binary) Right() Token     { return b.right }

func (b *Binary) Kind() Kind        { return KindBinary }
func (b *Binary) Children() []Token { return []Token{b.left, b.right} }
func (b *Binary) node()             {}
func (b *Binary) String() string    { return sexpr(b.op, b.left, b.right) }

// Group is a parenthesized sequence. With exactly one element it is plain
// grouping; otherwise it only has meaning as a lambda parameter list.
type Group struct {
	elements []Token
}

func NewGroup(elements ...Token) *Group {
	for i, e := range elements {
		invariant.NotNil(e, "group element "+strconv.Itoa(i))
	}
	return &Group{elements: cloneTokens(elements)}
}

func (g *Group) Elements() []Token { return cloneTokens(g.elements) }
func (g *Group) Len() int          { return len(g.elements) }

// IsValue reports whether the group denotes a value (exactly one element).
func (g *Group) IsValue() bool { return len(g.elements) == 1 }

func (g *Group) Kind() Kind        { return KindGroup }
func (g *Group) Children() []Token { return cloneTokens(g.elements) }
func (g *Group) node()             {}
func (g *Group) String() string    { return sexpr("group", g.elements...) }

// Assign is a named member initializer inside an object literal.
type Assign struct {
	name  string
	value Token
}

func NewAssign(name string, value Token) *Assign {
	invariant.Precondition(name != "", "member name must not be empty")
	invariant.NotNil(value, "member value")
	return &Assign{name: name, value: value}
}

func (a *Assign) Name() string { return a.name }
func (a *Assign) Value() Token { return a.value }

func (a *Assign) Kind() Kind        { return KindAssign }
func (a *Assign) Children() []Token { return []Token{a.value} }
func (a *Assign) node()             {}
func (a *Assign) String() string    { return sexpr("=", NewVariable(a.name), a.value) }

// Object is an object-construction literal: new { a, b = 1 }.
type Object struct {
	members []*Assign
}

func NewObject(members ...*Assign) *Object {
	for i, m := range members {
		invariant.NotNil(m, "object member "+strconv.Itoa(i))
	}
	return &Object{members: append([]*Assign(nil), members...)}
}

func (o *Object) Members() []*Assign { return append([]*Assign(nil), o.members...) }

func (o *Object) Kind() Kind { return KindObject }
func (o *Object) Children() []Token {
	out := make([]Token, len(o.members))
	for i, m := range o.members {
		out[i] = m
	}
	return out
}
func (o *Object) node()          {}
func (o *Object) String() string { return sexpr("new", o.Children()...) }

// Member is a .name access.
type Member struct {
	target Token
	name   string
}

func NewMember(target Token, name string) *Member {
	invariant.NotNil(target, "member target")
	invariant.Precondition(name != "", "member name must not be empty")
	return &Member{target: target, name: name}
}

func (m *Member) Target() Token { return m.target }
func (m *Member) Name() string  { return m.name }

func (m *Member) Kind() Kind        { return KindMember }
func (m *Member) Children() []Token { return []Token{m.target} }
func (m *Member) node()             {}
func (m *Member) String() string    { return sexpr(".", m.target, NewVariable(m.name)) }

// Indexer is a [key] access.
type Indexer struct {
	target, key Token
}

func NewIndexer(target, key Token) *Indexer {
	invariant.NotNil(target, "indexer target")
	invariant.NotNil(key, "indexer key")
	return &Indexer{target: target, key: key}
}

func (x *Indexer) Target() Token { return x.target }
func (x *Indexer) Key() Token    { return x.key }

func (x *Indexer) Kind() Kind        { return KindIndexer }
func (x *Indexer) Children() []Token { return []Token{x.target, x.key} }
func (x *Indexer) node()             {}
func (x *Indexer) String() string    { return sexpr("[]", x.target, x.key) }

// Call is an invocation of target with arguments.
type Call struct {
	target    Token
	arguments []Token
}

func NewCall(target Token, arguments ...Token) *Call {
	invariant.NotNil(target, "call target")
	for i, a := range arguments {
		invariant.NotNil(a, "call argument "+strconv.Itoa(i))
	}
	return &Call{target: target, arguments: cloneTokens(arguments)}
}

func (c *Call) Target() Token      { return c.target }
func (c *Call) Arguments() []Token { return cloneTokens(c.arguments) }

func (c *Call) Kind() Kind { return KindCall }
func (c *Call) Children() []Token {
	return append([]Token{c.target}, c.arguments...)
}
func (c *Call) node()          {}
func (c *Call) String() string { return sexpr("call", c.Children()...) }

// Ternary is a conditional expression.
type Ternary struct {
	condition, whenTrue, whenFalse Token
}

func NewTernary(condition, whenTrue, whenFalse Token) *Ternary {
	invariant.NotNil(condition, "ternary condition")
	invariant.NotNil(whenTrue, "ternary true branch")
	invariant.NotNil(whenFalse, "ternary false branch")
	return &Ternary{condition: condition, whenTrue: whenTrue, whenFalse: whenFalse}
}

func (t *Ternary) Condition() Token { return t.condition }
func (t *Ternary) WhenTrue() Token  { return t.whenTrue }
func (t *Ternary) WhenFalse() Token { return t.whenFalse }

func (t *Ternary) Kind() Kind        { return KindTernary }
func (t *Ternary) Children() []Token { return []Token{t.condition, t.whenTrue, t.whenFalse} }
func (t *Ternary) node()             {}
func (t *Ternary) String() string    { return sexpr("?", t.condition, t.whenTrue, t.whenFalse) }

// Lambda is an anonymous function.
type Lambda struct {
	params []string
	body   Token
}

func NewLambda(params []string, body Token) *Lambda {
	for _, p := range params {
		invariant.Precondition(p != "", "lambda parameter name must not be empty")
	}
	invariant.NotNil(body, "lambda body")
	return &Lambda{params: append([]string(nil), params...), body: body}
}

func (l *Lambda) Parameters() []string { return append([]string(nil), l.params...) }
func (l *Lambda) Body() Token          { return l.body }

func (l *Lambda) Kind() Kind        { return KindLambda }
func (l *Lambda) Children() []Token { return []Token{l.body} }
func (l *Lambda) node()             {}
func (l *Lambda) String() string {
	return "(=> (" + strings.Join(l.params, " ") + ") " + l.body.String() + ")"
}

func sexpr(head string, args ...Token) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(head)
	for _, a := range args {
		b.WriteByte(' ')
		b.WriteString(a.String())
	}
	b.WriteByte(')')
	return b.String()
}

func cloneTokens(tokens []Token) []Token {
	if len(tokens) == 0 {
		return nil
	}
	return append([]Token(nil), tokens...)
}
