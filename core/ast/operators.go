package ast

// Binary operator precedence, higher binds tighter:
//
//	6  * / %
//	5  + -
//	4  << >>
//	3  <= >= < >
//	2  == !=
//	1  | ^ &
//	0  && || ??
//
// The table is expressed as a switch so it cannot be modified at runtime.
func Precedence(op string) (int, bool) {
	switch op {
	case "*", "/", "%":
		return 6, true
	case "+", "-":
		return 5, true
	case "<<", ">>":
		return 4, true
	case "<=", ">=", "<", ">":
		return 3, true
	case "==", "!=":
		return 2, true
	case "|", "^", "&":
		return 1, true
	case "&&", "||", "??":
		return 0, true
	default:
		return 0, false
	}
}

// IsBinaryOperator reports whether op is a key of the precedence table.
func IsBinaryOperator(op string) bool {
	_, ok := Precedence(op)
	return ok
}

// IsUnaryOperator reports whether op is one of - + ! ~.
func IsUnaryOperator(op string) bool {
	switch op {
	case "-", "+", "!", "~":
		return true
	default:
		return false
	}
}

// scanOrder lists every binary operator with two-character operators first,
// so "<=" is never read as "<" followed by "=".
var scanOrder = [...]string{
	"&&", "||", "??", "==", "!=", "<=", ">=", "<<", ">>",
	"|", "^", "&", "<", ">", "+", "-", "*", "/", "%",
}

// BinaryOperators returns the binary operators in the order a scanner should
// try them. The returned slice is a fresh copy.
func BinaryOperators() []string {
	ops := make([]string, len(scanOrder))
	copy(ops, scanOrder[:])
	return ops
}
