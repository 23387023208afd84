package lexer

// ASCII character lookup tables. Bytes >= 128 never classify as anything, so
// identifiers and numbers are ASCII-only while string literals may carry any
// UTF-8 content.
//
//	if ch < 128 && isDigit[ch] { ... }
var (
	isWhitespace [128]bool // space, \t, \n, \r, \f, \v
	isLetter     [128]bool // a-z, A-Z
	isDigit      [128]bool // 0-9
	isIdentStart [128]bool // letter or _
	isIdentPart  [128]bool // letter, digit or _
)

func init() {
	for i := 0; i < 128; i++ {
		ch := byte(i)

		isWhitespace[i] = ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
		isLetter[i] = ('a' <= ch && ch <= 'z') || ('A' <= ch && ch <= 'Z')
		isDigit[i] = '0' <= ch && ch <= '9'
		isIdentStart[i] = isLetter[i] || ch == '_'
		isIdentPart[i] = isIdentStart[i] || isDigit[i]
	}
}

func IsWhitespace(ch byte) bool { return ch < 128 && isWhitespace[ch] }
func IsDigit(ch byte) bool      { return ch < 128 && isDigit[ch] }
func IsIdentStart(ch byte) bool { return ch < 128 && isIdentStart[ch] }
func IsIdentPart(ch byte) bool  { return ch < 128 && isIdentPart[ch] }

// IsValidIdentifier reports whether s matches [_A-Za-z][_A-Za-z0-9]*.
func IsValidIdentifier(s string) bool {
	if s == "" || !IsIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !IsIdentPart(s[i]) {
			return false
		}
	}
	return true
}
