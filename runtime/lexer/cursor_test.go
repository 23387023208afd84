package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCursorAdvance(t *testing.T) {
	c := NewCursor("ab")
	if c.Current() != 'a' || c.AtEnd() {
		t.Fatalf("fresh cursor: current=%q atEnd=%v", c.Current(), c.AtEnd())
	}

	c.Advance(1)
	if c.Current() != 'b' || c.Pos() != 1 {
		t.Fatalf("after Advance(1): current=%q pos=%d", c.Current(), c.Pos())
	}

	c.Advance(5)
	if !c.AtEnd() || c.Current() != EOF || c.Pos() != 2 {
		t.Fatalf("past end: current=%q pos=%d atEnd=%v", c.Current(), c.Pos(), c.AtEnd())
	}
}

func TestCursorTryConsume(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		lit     string
		want    bool
		wantPos int
	}{
		{"exact match", "=>x", "=>", true, 2},
		{"prefix only", "=x", "=>", false, 0},
		{"case sensitive", "New", "new", false, 0},
		{"whole input", "??", "??", true, 2},
		{"longer than input", "?", "??", false, 0},
		{"empty literal never matches", "x", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.input)
			if got := c.TryConsume(tt.lit); got != tt.want {
				t.Errorf("TryConsume(%q) = %v, want %v", tt.lit, got, tt.want)
			}
			if c.Pos() != tt.wantPos {
				t.Errorf("pos = %d, want %d", c.Pos(), tt.wantPos)
			}
		})
	}
}

func TestCursorSkipWhitespace(t *testing.T) {
	c := NewCursor(" \t\r\n\f\vx ")
	c.SkipWhitespace()
	if c.Current() != 'x' || c.Pos() != 6 {
		t.Errorf("current=%q pos=%d, want 'x' at 6", c.Current(), c.Pos())
	}
	c.Advance(1)
	c.SkipWhitespace()
	if !c.AtEnd() {
		t.Error("expected end of input after trailing whitespace")
	}
}

func TestCursorMarkReset(t *testing.T) {
	c := NewCursor("hello world")
	m := c.Mark()
	c.Advance(5)
	if got := c.Since(m); got != "hello" {
		t.Errorf("Since() = %q, want hello", got)
	}
	c.Reset(m)
	if c.Pos() != 0 || c.Current() != 'h' {
		t.Errorf("after Reset: pos=%d current=%q", c.Pos(), c.Current())
	}
}

func TestCursorRune(t *testing.T) {
	c := NewCursor("é")
	if c.Rune() != 'é' {
		t.Errorf("Rune() = %q, want é", c.Rune())
	}
	c.Advance(2)
	if c.Rune() != 0 {
		t.Errorf("Rune() at end = %q, want 0", c.Rune())
	}
}

func TestScanIdentifier(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantPos int
	}{
		{"abc", "abc", 3},
		{"_a1 + b", "_a1", 3},
		{"A_b_9.c", "A_b_9", 5},
		{"9abc", "", 0},
		{"-x", "", 0},
		{"héllo", "h", 1},
		{"", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := NewCursor(tt.input)
			got := c.ScanIdentifier()
			if got != tt.want || c.Pos() != tt.wantPos {
				t.Errorf("ScanIdentifier() = %q at %d, want %q at %d", got, c.Pos(), tt.want, tt.wantPos)
			}
		})
	}
}

func TestScanPositional(t *testing.T) {
	tests := []struct {
		input       string
		wantName    string
		wantMatched bool
		wantPos     int
	}{
		{"@0", "@0", true, 2},
		{"@12+1", "@12", true, 3},
		{"@x", "", true, 1},
		{"@", "", true, 1},
		{"x", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			c := NewCursor(tt.input)
			name, matched := c.ScanPositional()
			got := []any{name, matched, c.Pos()}
			want := []any{tt.wantName, tt.wantMatched, tt.wantPos}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("ScanPositional mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanNumber(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		sep       string
		wantText  string
		wantFloat bool
		wantPos   int
	}{
		{"integer", "123+", ".", "123", false, 3},
		{"float", "1.5)", ".", "1.5", true, 3},
		{"trailing separator", "1.", ".", "1.", true, 2},
		{"comma separator", "3,25", ",", "3,25", true, 4},
		{"dot is not the separator", "3.25", ",", "3", false, 1},
		{"multi byte separator", "1<>5", "<>", "1<>5", true, 4},
		{"stops before identifier", "12x", ".", "12", false, 2},
		{"not a number", "x1", ".", "", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCursor(tt.input)
			text, isFloat := c.ScanNumber(tt.sep)
			if text != tt.wantText || isFloat != tt.wantFloat || c.Pos() != tt.wantPos {
				t.Errorf("ScanNumber(%q) = (%q, %v) at %d, want (%q, %v) at %d",
					tt.sep, text, isFloat, c.Pos(), tt.wantText, tt.wantFloat, tt.wantPos)
			}
		})
	}
}

func TestUnescape(t *testing.T) {
	want := map[byte]string{
		'a': "\a", 'b': "\b", 'f': "\f", 'n': "\n", 'r': "\r",
		't': "\t", 'v': "\v", '0': "\x00", '\\': "\\", '"': "\"",
	}
	for ch, w := range want {
		got, ok := Unescape(ch)
		if !ok || got != w {
			t.Errorf("Unescape(%q) = %q, %v; want %q", ch, got, ok, w)
		}
	}
	for _, ch := range []byte{'x', '\'', '{', 'u'} {
		if _, ok := Unescape(ch); ok {
			t.Errorf("Unescape(%q) should pass through", ch)
		}
	}
}

func TestIsValidIdentifier(t *testing.T) {
	for _, s := range []string{"a", "_", "_a9", "Abc_1"} {
		if !IsValidIdentifier(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "1a", "a-b", "a b", "é"} {
		if IsValidIdentifier(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}
