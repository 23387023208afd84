package parser

import (
	"strconv"
	"strings"

	"github.com/opal-lang/expr/core/ast"
	"github.com/opal-lang/expr/runtime/lexer"
)

// literal reads a number or string literal, or returns nil, nil.
func (p *parser) literal() (ast.Token, error) {
	ch := p.cur.Current()
	switch {
	case lexer.IsDigit(ch):
		return p.number()
	case isQuote(ch), ch == '$' && isQuote(p.cur.Peek(1)):
		return p.stringLiteral()
	default:
		return nil, nil
	}
}

func isQuote(ch byte) bool {
	return ch == '"' || ch == '\''
}

// number reads an integer (int64) or, when the configured decimal separator
// follows the first digit run, a float64.
func (p *parser) number() (ast.Token, error) {
	start := p.cur.Mark()
	sep := p.config.decimalSeparator
	text, isFloat := p.cur.ScanNumber(sep)

	if lexer.IsIdentStart(p.cur.Current()) {
		return nil, p.errorf(ErrorMalformedNumber, "number %s cannot be followed by an identifier character", text)
	}

	if isFloat {
		v, err := strconv.ParseFloat(strings.Replace(text, sep, ".", 1), 64)
		if err != nil {
			return nil, p.errorAt(start, ErrorMalformedNumber, "float literal %s is out of range", text)
		}
		p.trace("match_float", text)
		return ast.NewLiteral(v), nil
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return nil, p.errorAt(start, ErrorMalformedNumber, "integer literal %s is out of range", text)
	}
	p.trace("match_integer", text)
	return ast.NewLiteral(v), nil
}

// stringLiteral reads a quoted string. With a leading '$' the string is
// interpolated: each {expr} (or ${expr}) segment is parsed as a full
// expression and the pieces are folded into a left-associative '+' chain
// seeded with "".
func (p *parser) stringLiteral() (ast.Token, error) {
	open := p.cur.Mark()
	interpolated := p.cur.TryConsume("$")
	quote := p.cur.Current()
	p.cur.Advance(1)

	var (
		text     strings.Builder
		segments []ast.Token
	)
	flush := func() {
		if text.Len() > 0 {
			segments = append(segments, ast.NewLiteral(text.String()))
			text.Reset()
		}
	}

	for {
		if p.cur.AtEnd() {
			return nil, p.errorf(ErrorUnterminated, "unclosed string literal (opened at offset %d)", open.Offset())
		}

		ch := p.cur.Current()
		switch {
		case ch == quote:
			p.cur.Advance(1)
			if len(segments) == 0 {
				p.trace("match_string", "")
				return ast.NewLiteral(text.String()), nil
			}
			flush()
			p.trace("match_interpolation", strconv.Itoa(len(segments)))
			var chain ast.Token = ast.NewLiteral("")
			for _, s := range segments {
				chain = ast.NewBinary("+", chain, s)
			}
			return chain, nil

		case ch == '\\':
			p.cur.Advance(1)
			if p.cur.AtEnd() {
				return nil, p.errorf(ErrorUnterminated, "unclosed string literal (opened at offset %d)", open.Offset())
			}
			esc := p.cur.Current()
			if s, ok := lexer.Unescape(esc); ok {
				text.WriteString(s)
			} else {
				text.WriteByte('\\')
				text.WriteByte(esc)
			}
			p.cur.Advance(1)

		case interpolated && (p.cur.TryConsume("${") || p.cur.TryConsume("{")):
			flush()
			segment, err := p.operand("expression in interpolation")
			if err != nil {
				return nil, err
			}
			p.cur.SkipWhitespace()
			if !p.cur.TryConsume("}") {
				return nil, p.errorf(ErrorUnterminated, "expected '}' to close interpolation")
			}
			segments = append(segments, segment)

		default:
			text.WriteByte(ch)
			p.cur.Advance(1)
		}
	}
}
