package parser

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrorKind categorizes parse failures.
type ErrorKind int

const (
	ErrorInvalidInput    ErrorKind = iota // empty or all-whitespace expression
	ErrorMalformedNumber                  // 1x, integer out of range
	ErrorUnterminated                     // unclosed string or interpolation
	ErrorMalformedName                    // a., @x, 1 => x
	ErrorExpected                         // required delimiter or operand missing
	ErrorUnexpected                       // input left over, or no expression at all
	ErrorType                             // root variant differs from the requested one
	ErrorTooDeep                          // nesting exceeds the configured maximum
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorInvalidInput:
		return "invalid input"
	case ErrorMalformedNumber:
		return "malformed number"
	case ErrorUnterminated:
		return "unterminated literal"
	case ErrorMalformedName:
		return "malformed name"
	case ErrorExpected:
		return "missing"
	case ErrorUnexpected:
		return "unexpected input"
	case ErrorType:
		return "type mismatch"
	case ErrorTooDeep:
		return "nesting too deep"
	default:
		return "error"
	}
}

// ParseError is the single failure value of a parse. There is no partial
// tree alongside it.
type ParseError struct {
	Kind        ErrorKind
	Message     string
	Offset      int      // byte offset into Input
	Char        rune     // offending character, 0 at end of input
	Input       string   // the full expression text
	Suggestions []string // possible fixes, may be empty
}

// Sentinels for errors.Is. A ParseError matches a sentinel of the same kind.
var (
	ErrInvalidInput    = &ParseError{Kind: ErrorInvalidInput}
	ErrMalformedNumber = &ParseError{Kind: ErrorMalformedNumber}
	ErrUnterminated    = &ParseError{Kind: ErrorUnterminated}
	ErrMalformedName   = &ParseError{Kind: ErrorMalformedName}
	ErrExpected        = &ParseError{Kind: ErrorExpected}
	ErrUnexpected      = &ParseError{Kind: ErrorUnexpected}
	ErrType            = &ParseError{Kind: ErrorType}
	ErrTooDeep         = &ParseError{Kind: ErrorTooDeep}
)

func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

// Error returns the message, the offending character and a caret snippet:
//
//	missing: expected ')' to close argument list at offset 6, found end of input
//	  --> 1:7
//	   |
//	 1 | f(1, 2
//	   |       ^
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("%s: %s at offset %d, found %s", e.Kind, e.Message, e.Offset, e.found())
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, " or "))
	}
	if snippet := e.createCodeSnippet(); snippet != "" {
		msg += "\n" + snippet
	}
	return msg
}

func (e *ParseError) found() string {
	if e.Char == 0 && e.Offset >= len(e.Input) {
		return "end of input"
	}
	return strconv.QuoteRune(e.Char)
}

// Position converts Offset to a 1-based line and column. Columns count
// characters, not bytes.
func (e *ParseError) Position() (line, column int) {
	offset := e.Offset
	if offset > len(e.Input) {
		offset = len(e.Input)
	}
	before := e.Input[:offset]
	line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	column = utf8.RuneCountInString(before[lineStart:]) + 1
	return line, column
}

func (e *ParseError) createCodeSnippet() string {
	if e.Input == "" {
		return ""
	}

	line, column := e.Position()
	lines := strings.Split(e.Input, "\n")
	lineContent := lines[line-1]

	var snippet strings.Builder
	snippet.WriteString(fmt.Sprintf("  --> %d:%d\n", line, column))
	snippet.WriteString("   |\n")
	snippet.WriteString(fmt.Sprintf("%2d | %s\n", line, lineContent))
	snippet.WriteString("   | ")
	snippet.WriteString(strings.Repeat(" ", column-1) + "^")
	return snippet.String()
}
