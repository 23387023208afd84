package ast

// Walk visits t and its descendants depth-first in source order. Children of
// a node are skipped when fn returns false for it.
func Walk(t Token, fn func(Token) bool) {
	if t == nil || !fn(t) {
		return
	}
	for _, c := range t.Children() {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the subtree rooted at t.
func Count(t Token) int {
	n := 0
	Walk(t, func(Token) bool {
		n++
		return true
	})
	return n
}

// Depth returns the height of the subtree rooted at t; a leaf has depth 1.
func Depth(t Token) int {
	if t == nil {
		return 0
	}
	deepest := 0
	for _, c := range t.Children() {
		if d := Depth(c); d > deepest {
			deepest = d
		}
	}
	return deepest + 1
}
