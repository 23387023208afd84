// Package lexer holds the character-level scanning primitives of the
// expression parser. Nothing here builds AST nodes or reports errors: scanners
// either consume input and return what they read, or leave the cursor where
// it was.
package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/opal-lang/expr/core/invariant"
)

// EOF is the sentinel returned by Current once the input is exhausted.
const EOF byte = 0

// Cursor is the scan state over one input string. Offsets are byte offsets.
type Cursor struct {
	input string
	pos   int
	ch    byte
}

// Mark is a saved cursor position, restored with Reset.
type Mark struct {
	pos int
}

// Offset returns the byte offset the mark was taken at.
func (m Mark) Offset() int { return m.pos }

func NewCursor(input string) *Cursor {
	c := &Cursor{input: input}
	c.sync()
	return c
}

func (c *Cursor) sync() {
	if c.pos < len(c.input) {
		c.ch = c.input[c.pos]
	} else {
		c.ch = EOF
	}
}

// Advance moves the cursor forward n bytes, stopping at the end of input.
func (c *Cursor) Advance(n int) {
	invariant.Invariant(n >= 0, "cursor cannot move backwards (n=%d)", n)
	c.pos += n
	if c.pos > len(c.input) {
		c.pos = len(c.input)
	}
	c.sync()
}

func (c *Cursor) AtEnd() bool   { return c.pos >= len(c.input) }
func (c *Cursor) Pos() int      { return c.pos }
func (c *Cursor) Input() string { return c.input }

// Current returns the byte under the cursor, or EOF.
func (c *Cursor) Current() byte { return c.ch }

// Peek returns the byte offset bytes ahead of the cursor, or EOF.
func (c *Cursor) Peek(offset int) byte {
	if i := c.pos + offset; i >= 0 && i < len(c.input) {
		return c.input[i]
	}
	return EOF
}

// Rune decodes the character under the cursor for diagnostics. It returns 0
// at the end of input.
func (c *Cursor) Rune() rune {
	if c.AtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(c.input[c.pos:])
	return r
}

// HasPrefix reports whether the remaining input starts with lit.
func (c *Cursor) HasPrefix(lit string) bool {
	return strings.HasPrefix(c.input[c.pos:], lit)
}

// TryConsume advances past lit if the remaining input starts with it exactly.
// Otherwise the cursor is left untouched.
func (c *Cursor) TryConsume(lit string) bool {
	if lit == "" || !c.HasPrefix(lit) {
		return false
	}
	c.Advance(len(lit))
	return true
}

func (c *Cursor) SkipWhitespace() {
	for !c.AtEnd() && IsWhitespace(c.ch) {
		c.pos++
		c.sync()
	}
}

func (c *Cursor) Mark() Mark { return Mark{pos: c.pos} }

// Reset returns the cursor to a position saved by Mark.
func (c *Cursor) Reset(m Mark) {
	invariant.InRange(m.pos, 0, len(c.input), "mark")
	c.pos = m.pos
	c.sync()
}

// Since returns the input consumed since m.
func (c *Cursor) Since(m Mark) string {
	return c.input[m.pos:c.pos]
}
