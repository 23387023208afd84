// Package invariant provides contract assertions for the expression packages.
//
// A violated assertion is a bug in this repository or in a caller that builds
// AST nodes by hand, never a problem with user input. User input problems are
// reported as errors by the parser; assertions panic.
package invariant

import (
	"fmt"
	"reflect"
	"runtime"
)

// Precondition checks a caller contract at function entry.
// Panics with PRECONDITION VIOLATION if condition is false.
//
// Example:
//
//	func NewBinary(op string, left, right Token) *Binary {
//	    invariant.Precondition(IsBinaryOperator(op), "unknown binary operator %q", op)
//	    ...
//	}
func Precondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks a result contract before return.
// Panics with POSTCONDITION VIOLATION if condition is false.
func Postcondition(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks internal consistency while a function runs, typically
// that a scanning loop made progress.
// Panics with INVARIANT VIOLATION if condition is false.
//
// Example:
//
//	start := c.Pos()
//	c.SkipDigits()
//	invariant.Invariant(c.Pos() >= start, "cursor moved backwards")
func Invariant(condition bool, format string, args ...interface{}) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// NotNil panics if value is nil, including typed nils such as (*Binary)(nil)
// stored in an interface.
func NotNil(value interface{}, name string) {
	if isNilValue(value) {
		fail("PRECONDITION", "%s must not be nil", name)
	}
}

func isNilValue(value interface{}) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// InRange panics if value is outside [minVal, maxVal].
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail("PRECONDITION", "%s must be in range [%d, %d], got %d",
			name, minVal, maxVal, value)
	}
}

// Positive panics if value <= 0.
func Positive(value int, name string) {
	if value <= 0 {
		fail("PRECONDITION", "%s must be positive, got %d", name, value)
	}
}

// fail panics with a formatted message and the file:line of the violation.
func fail(kind, format string, args ...interface{}) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]interface{}{kind}, args...)...)

	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
