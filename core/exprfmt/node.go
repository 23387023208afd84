// Package exprfmt serializes expression trees.
//
// Trees are converted to a canonical Node form that carries one tag set for
// CBOR, JSON and YAML. Decoding always rebuilds the tree through the ast
// constructors, so a decoded tree satisfies the same invariants as a parsed
// one.
package exprfmt

import (
	"errors"
	"fmt"

	"github.com/opal-lang/expr/core/ast"
)

// Value kinds of a literal.
const (
	ValueNull   = "null"
	ValueBool   = "bool"
	ValueInt    = "int"
	ValueFloat  = "float"
	ValueString = "string"
)

// Node is the canonical form of an ast.Token. Only the fields of the
// variant named by Type are set.
type Node struct {
	Type string `cbor:"type" json:"type" yaml:"type"`

	Op    string `cbor:"op,omitempty" json:"op,omitempty" yaml:"op,omitempty"`
	Name  string `cbor:"name,omitempty" json:"name,omitempty" yaml:"name,omitempty"`
	Value *Value `cbor:"value,omitempty" json:"value,omitempty" yaml:"value,omitempty"`

	// Unary/Binary/Assign
	Operand *Node `cbor:"operand,omitempty" json:"operand,omitempty" yaml:"operand,omitempty"`
	Left    *Node `cbor:"left,omitempty" json:"left,omitempty" yaml:"left,omitempty"`
	Right   *Node `cbor:"right,omitempty" json:"right,omitempty" yaml:"right,omitempty"`

	// Member/Indexer/Call
	Target    *Node   `cbor:"target,omitempty" json:"target,omitempty" yaml:"target,omitempty"`
	Key       *Node   `cbor:"key,omitempty" json:"key,omitempty" yaml:"key,omitempty"`
	Arguments []*Node `cbor:"arguments,omitempty" json:"arguments,omitempty" yaml:"arguments,omitempty"`

	// Ternary
	Condition *Node `cbor:"condition,omitempty" json:"condition,omitempty" yaml:"condition,omitempty"`
	WhenTrue  *Node `cbor:"when_true,omitempty" json:"when_true,omitempty" yaml:"when_true,omitempty"`
	WhenFalse *Node `cbor:"when_false,omitempty" json:"when_false,omitempty" yaml:"when_false,omitempty"`

	// Group/Object
	Elements []*Node `cbor:"elements,omitempty" json:"elements,omitempty" yaml:"elements,omitempty"`
	Members  []*Node `cbor:"members,omitempty" json:"members,omitempty" yaml:"members,omitempty"`

	// Lambda
	Params []string `cbor:"params,omitempty" json:"params,omitempty" yaml:"params,omitempty"`
	Body   *Node    `cbor:"body,omitempty" json:"body,omitempty" yaml:"body,omitempty"`
}

// Value is a literal value tagged with its kind.
type Value struct {
	Kind  string  `cbor:"kind" json:"kind" yaml:"kind"`
	Bool  bool    `cbor:"bool,omitempty" json:"bool,omitempty" yaml:"bool,omitempty"`
	Int   int64   `cbor:"int,omitempty" json:"int,omitempty" yaml:"int,omitempty"`
	Float float64 `cbor:"float,omitempty" json:"float,omitempty" yaml:"float,omitempty"`
	Str   string  `cbor:"str,omitempty" json:"str,omitempty" yaml:"str,omitempty"`
}

// FromToken converts a tree to canonical form.
func FromToken(t ast.Token) *Node {
	switch n := t.(type) {
	case *ast.Literal:
		return &Node{Type: n.Kind().String(), Value: valueOf(n.Value())}
	case *ast.Variable:
		return &Node{Type: n.Kind().String(), Name: n.Name()}
	case *ast.Unary:
		return &Node{Type: n.Kind().String(), Op: n.Operator(), Operand: FromToken(n.Operand())}
	case *ast.Binary:
		return &Node{
			Type:  n.Kind().String(),
			Op:    n.Operator(),
			Left:  FromToken(n.Left()),
			Right: FromToken(n.Right()),
		}
	case *ast.Group:
		return &Node{Type: n.Kind().String(), Elements: fromTokens(n.Elements())}
	case *ast.Assign:
		return &Node{Type: n.Kind().String(), Name: n.Name(), Operand: FromToken(n.Value())}
	case *ast.Object:
		members := make([]*Node, 0, len(n.Members()))
		for _, m := range n.Members() {
			members = append(members, FromToken(m))
		}
		return &Node{Type: n.Kind().String(), Members: members}
	case *ast.Member:
		return &Node{Type: n.Kind().String(), Target: FromToken(n.Target()), Name: n.Name()}
	case *ast.Indexer:
		return &Node{Type: n.Kind().String(), Target: FromToken(n.Target()), Key: FromToken(n.Key())}
	case *ast.Call:
		return &Node{Type: n.Kind().String(), Target: FromToken(n.Target()), Arguments: fromTokens(n.Arguments())}
	case *ast.Ternary:
		return &Node{
			Type:      n.Kind().String(),
			Condition: FromToken(n.Condition()),
			WhenTrue:  FromToken(n.WhenTrue()),
			WhenFalse: FromToken(n.WhenFalse()),
		}
	case *ast.Lambda:
		return &Node{Type: n.Kind().String(), Params: n.Parameters(), Body: FromToken(n.Body())}
	default:
		panic(fmt.Sprintf("exprfmt: unknown token type %T", t))
	}
}

func fromTokens(tokens []ast.Token) []*Node {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]*Node, len(tokens))
	for i, t := range tokens {
		out[i] = FromToken(t)
	}
	return out
}

func valueOf(v any) *Value {
	switch x := v.(type) {
	case nil:
		return &Value{Kind: ValueNull}
	case bool:
		return &Value{Kind: ValueBool, Bool: x}
	case int64:
		return &Value{Kind: ValueInt, Int: x}
	case float64:
		return &Value{Kind: ValueFloat, Float: x}
	case string:
		return &Value{Kind: ValueString, Str: x}
	default:
		panic(fmt.Sprintf("exprfmt: unknown literal type %T", v))
	}
}

// Token rebuilds the tree. Unlike the ast constructors it reports malformed
// input as an error instead of panicking.
func (n *Node) Token() (ast.Token, error) {
	return n.token("root", 0)
}

// maxNodeDepth bounds recursion when rebuilding untrusted input.
const maxNodeDepth = 10000

func (n *Node) token(path string, depth int) (ast.Token, error) {
	if n == nil {
		return nil, fmt.Errorf("%s: missing node", path)
	}
	if depth > maxNodeDepth {
		return nil, fmt.Errorf("%s: tree deeper than %d levels", path, maxNodeDepth)
	}
	kind, ok := ast.ParseKind(n.Type)
	if !ok {
		return nil, fmt.Errorf("%s: unknown node type %q", path, n.Type)
	}

	child := func(c *Node, field string) (ast.Token, error) {
		return c.token(path+"."+field, depth+1)
	}
	children := func(cs []*Node, field string) ([]ast.Token, error) {
		out := make([]ast.Token, len(cs))
		for i, c := range cs {
			t, err := c.token(fmt.Sprintf("%s.%s[%d]", path, field, i), depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = t
		}
		return out, nil
	}

	switch kind {
	case ast.KindLiteral:
		v, err := n.Value.literal()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return ast.NewLiteral(v), nil

	case ast.KindVariable:
		if n.Name == "" {
			return nil, fmt.Errorf("%s: variable without name", path)
		}
		return ast.NewVariable(n.Name), nil

	case ast.KindUnary:
		if !ast.IsUnaryOperator(n.Op) {
			return nil, fmt.Errorf("%s: unknown unary operator %q", path, n.Op)
		}
		operand, err := child(n.Operand, "operand")
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(n.Op, operand), nil

	case ast.KindBinary:
		if !ast.IsBinaryOperator(n.Op) {
			return nil, fmt.Errorf("%s: unknown binary operator %q", path, n.Op)
		}
		left, err := child(n.Left, "left")
		if err != nil {
			return nil, err
		}
		right, err := child(n.Right, "right")
		if err != nil {
			return nil, err
		}
		return ast.NewBinary(n.Op, left, right), nil

	case ast.KindGroup:
		elements, err := children(n.Elements, "elements")
		if err != nil {
			return nil, err
		}
		return ast.NewGroup(elements...), nil

	case ast.KindAssign:
		a, err := n.assign(path, depth)
		if err != nil {
			return nil, err
		}
		return a, nil

	case ast.KindObject:
		members := make([]*ast.Assign, len(n.Members))
		for i, m := range n.Members {
			memberPath := fmt.Sprintf("%s.members[%d]", path, i)
			if m == nil || m.Type != ast.KindAssign.String() {
				return nil, fmt.Errorf("%s: object member must be an assign node", memberPath)
			}
			a, err := m.assign(memberPath, depth+1)
			if err != nil {
				return nil, err
			}
			members[i] = a
		}
		return ast.NewObject(members...), nil

	case ast.KindMember:
		if n.Name == "" {
			return nil, fmt.Errorf("%s: member access without name", path)
		}
		target, err := child(n.Target, "target")
		if err != nil {
			return nil, err
		}
		return ast.NewMember(target, n.Name), nil

	case ast.KindIndexer:
		target, err := child(n.Target, "target")
		if err != nil {
			return nil, err
		}
		key, err := child(n.Key, "key")
		if err != nil {
			return nil, err
		}
		return ast.NewIndexer(target, key), nil

	case ast.KindCall:
		target, err := child(n.Target, "target")
		if err != nil {
			return nil, err
		}
		args, err := children(n.Arguments, "arguments")
		if err != nil {
			return nil, err
		}
		return ast.NewCall(target, args...), nil

	case ast.KindTernary:
		condition, err := child(n.Condition, "condition")
		if err != nil {
			return nil, err
		}
		whenTrue, err := child(n.WhenTrue, "when_true")
		if err != nil {
			return nil, err
		}
		whenFalse, err := child(n.WhenFalse, "when_false")
		if err != nil {
			return nil, err
		}
		return ast.NewTernary(condition, whenTrue, whenFalse), nil

	case ast.KindLambda:
		for i, p := range n.Params {
			if p == "" {
				return nil, fmt.Errorf("%s.params[%d]: empty parameter name", path, i)
			}
		}
		body, err := child(n.Body, "body")
		if err != nil {
			return nil, err
		}
		return ast.NewLambda(n.Params, body), nil
	}
	return nil, fmt.Errorf("%s: unhandled node type %q", path, n.Type)
}

func (n *Node) assign(path string, depth int) (*ast.Assign, error) {
	if n.Name == "" {
		return nil, fmt.Errorf("%s: assign without name", path)
	}
	value, err := n.Operand.token(path+".operand", depth+1)
	if err != nil {
		return nil, err
	}
	return ast.NewAssign(n.Name, value), nil
}

func (v *Value) literal() (any, error) {
	if v == nil {
		return nil, errors.New("literal without value")
	}
	switch v.Kind {
	case ValueNull:
		return nil, nil
	case ValueBool:
		return v.Bool, nil
	case ValueInt:
		return v.Int, nil
	case ValueFloat:
		return v.Float, nil
	case ValueString:
		return v.Str, nil
	default:
		return nil, fmt.Errorf("unknown literal kind %q", v.Kind)
	}
}
