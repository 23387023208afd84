package lexer

// ScanIdentifier consumes [_A-Za-z][_A-Za-z0-9]* and returns it. It returns ""
// and leaves the cursor alone when the current byte cannot start an identifier.
func (c *Cursor) ScanIdentifier() string {
	if !IsIdentStart(c.ch) {
		return ""
	}
	start := c.Mark()
	for !c.AtEnd() && IsIdentPart(c.ch) {
		c.Advance(1)
	}
	return c.Since(start)
}

// ScanPositional reads a positional parameter marker "@<digits>".
//
// matched is false, with the cursor untouched, when the current byte is not
// '@'. When '@' is present but no digits follow, matched is true, name is ""
// and the cursor rests on the byte after '@' so the caller can report it.
func (c *Cursor) ScanPositional() (name string, matched bool) {
	if c.ch != '@' || c.AtEnd() {
		return "", false
	}
	start := c.Mark()
	c.Advance(1)
	if c.skipDigits() == 0 {
		return "", true
	}
	return c.Since(start), true
}

// ScanNumber consumes a greedy digit run. If sep follows, it is consumed too
// along with a second, possibly empty, digit run and the literal is a float.
// The returned text includes sep verbatim. It returns "" and leaves the cursor
// alone when the current byte is not a digit.
func (c *Cursor) ScanNumber(sep string) (text string, isFloat bool) {
	if !IsDigit(c.ch) {
		return "", false
	}
	start := c.Mark()
	c.skipDigits()
	if c.TryConsume(sep) {
		c.skipDigits()
		isFloat = true
	}
	return c.Since(start), isFloat
}

func (c *Cursor) skipDigits() int {
	n := 0
	for !c.AtEnd() && IsDigit(c.ch) {
		c.Advance(1)
		n++
	}
	return n
}

// Unescape maps the character following a backslash to the text it stands
// for. ok is false for characters without a special meaning; callers keep
// those verbatim, backslash included.
func Unescape(ch byte) (string, bool) {
	switch ch {
	case 'a':
		return "\a", true
	case 'b':
		return "\b", true
	case 'f':
		return "\f", true
	case 'n':
		return "\n", true
	case 'r':
		return "\r", true
	case 't':
		return "\t", true
	case 'v':
		return "\v", true
	case '0':
		return "\x00", true
	case '\\':
		return "\\", true
	case '"':
		return "\"", true
	default:
		return "", false
	}
}
