package invariant_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/opal-lang/expr/core/invariant"
)

// expectPanic runs fn and returns the recovered panic message.
func expectPanic(t *testing.T, fn func()) (msg string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		msg = fmt.Sprintf("%v", r)
	}()
	fn()
	return ""
}

func TestPreconditionPass(t *testing.T) {
	invariant.Precondition(true, "this should pass")
	invariant.Precondition(len("+") == 1, "operator has one byte")
}

func TestPreconditionFail(t *testing.T) {
	msg := expectPanic(t, func() {
		invariant.Precondition(false, "unknown binary operator %q", "===")
	})
	if !strings.Contains(msg, "PRECONDITION VIOLATION") {
		t.Errorf("expected PRECONDITION VIOLATION, got: %s", msg)
	}
	if !strings.Contains(msg, `unknown binary operator "==="`) {
		t.Errorf("expected formatted message, got: %s", msg)
	}
	if !strings.Contains(msg, "at ") {
		t.Errorf("expected caller location, got: %s", msg)
	}
}

func TestPostconditionFail(t *testing.T) {
	msg := expectPanic(t, func() {
		invariant.Postcondition(false, "root must not be nil")
	})
	if !strings.Contains(msg, "POSTCONDITION VIOLATION") {
		t.Errorf("expected POSTCONDITION VIOLATION, got: %s", msg)
	}
}

func TestInvariantFail(t *testing.T) {
	invariant.Invariant(true, "this should pass")

	msg := expectPanic(t, func() {
		invariant.Invariant(false, "cursor must advance")
	})
	if !strings.Contains(msg, "INVARIANT VIOLATION") {
		t.Errorf("expected INVARIANT VIOLATION, got: %s", msg)
	}
	if !strings.Contains(msg, "cursor must advance") {
		t.Errorf("expected custom message, got: %s", msg)
	}
}

func TestNotNil(t *testing.T) {
	s := "x"
	invariant.NotNil(s, "s")
	invariant.NotNil(&s, "ptr")
	invariant.NotNil([]int{1}, "slice")

	tests := []struct {
		name  string
		value interface{}
	}{
		{"untyped nil", nil},
		{"typed nil pointer", (*string)(nil)},
		{"nil slice", []int(nil)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := expectPanic(t, func() { invariant.NotNil(tt.value, "operand") })
			if !strings.Contains(msg, "operand must not be nil") {
				t.Errorf("expected 'operand must not be nil', got: %s", msg)
			}
		})
	}
}

func TestPositive(t *testing.T) {
	invariant.Positive(1, "max depth")

	for _, v := range []int{0, -1} {
		msg := expectPanic(t, func() { invariant.Positive(v, "max depth") })
		if !strings.Contains(msg, fmt.Sprintf("got %d", v)) {
			t.Errorf("expected value %d in message, got: %s", v, msg)
		}
	}
}

func TestInRange(t *testing.T) {
	invariant.InRange(0, 0, 3, "mark")
	invariant.InRange(3, 0, 3, "mark")

	for _, v := range []int{-1, 4} {
		msg := expectPanic(t, func() { invariant.InRange(v, 0, 3, "mark") })
		if !strings.Contains(msg, "mark must be in range [0, 3]") {
			t.Errorf("unexpected message: %s", msg)
		}
	}
}
