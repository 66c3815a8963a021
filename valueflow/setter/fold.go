package setter

import "math"

// evalBinaryInt evaluates op over two known integer payloads, returning the resulting payload
// and whether the combination is well-defined (false for e.g. division by zero, which the caller
// must treat as a dropped combination).
func evalBinaryInt(op string, lhs, rhs int64) (int64, bool) {
	switch op {
	case "+":
		return lhs + rhs, true
	case "-":
		return lhs - rhs, true
	case "*":
		return lhs * rhs, true
	case "/":
		if rhs == 0 {
			return 0, false
		}
		return lhs / rhs, true
	case "%":
		if rhs == 0 {
			return 0, false
		}
		return lhs % rhs, true
	case "&":
		return lhs & rhs, true
	case "|":
		return lhs | rhs, true
	case "^":
		return lhs ^ rhs, true
	case "<<":
		if rhs < 0 || rhs >= 64 {
			return 0, false
		}
		return lhs << uint(rhs), true
	case ">>":
		if rhs < 0 || rhs >= 64 {
			return 0, false
		}
		return lhs >> uint(rhs), true
	case "==":
		return boolInt(lhs == rhs), true
	case "!=":
		return boolInt(lhs != rhs), true
	case "<":
		return boolInt(lhs < rhs), true
	case "<=":
		return boolInt(lhs <= rhs), true
	case ">":
		return boolInt(lhs > rhs), true
	case ">=":
		return boolInt(lhs >= rhs), true
	case "&&":
		return boolInt(lhs != 0 && rhs != 0), true
	case "||":
		return boolInt(lhs != 0 || rhs != 0), true
	default:
		return 0, false
	}
}

// evalBinaryFloat is the floating-point counterpart of [evalBinaryInt]. Comparison operators
// still yield an INT-shaped 0/1 result, handled by the caller via resultIsComparison.
func evalBinaryFloat(op string, lhs, rhs float64) (float64, bool) {
	switch op {
	case "+":
		return lhs + rhs, true
	case "-":
		return lhs - rhs, true
	case "*":
		return lhs * rhs, true
	case "/":
		if rhs == 0 {
			return 0, false
		}
		return lhs / rhs, true
	default:
		return 0, false
	}
}

func evalFloatComparison(op string, lhs, rhs float64) (int64, bool) {
	switch op {
	case "==":
		return boolInt(lhs == rhs), true
	case "!=":
		return boolInt(lhs != rhs), true
	case "<":
		return boolInt(lhs < rhs), true
	case "<=":
		return boolInt(lhs <= rhs), true
	case ">":
		return boolInt(lhs > rhs), true
	case ">=":
		return boolInt(lhs >= rhs), true
	default:
		return 0, false
	}
}

func boolInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// IsComparisonOp reports whether op always yields a 0/1 INT result regardless of its operands'
// type.
func IsComparisonOp(op string) bool {
	switch op {
	case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
		return true
	default:
		return false
	}
}

// evalUnaryInt evaluates a unary operator. Negating math.MinInt64 is left undefined (the second
// return is false) boundary behaviour: "Casting INT_MIN under unary minus must
// not invert (it is unrepresentable); the value is dropped."
func evalUnaryInt(op string, v int64, width int) (int64, bool) {
	switch op {
	case "-":
		if v == math.MinInt64 {
			return 0, false
		}
		if width > 0 && width < 64 {
			minForWidth := -(int64(1) << uint(width-1))
			if v == minForWidth {
				return 0, false
			}
		}
		return -v, true
	case "!":
		return boolInt(v == 0), true
	case "~":
		return ^v, true
	case "++":
		return v + 1, true
	case "--":
		return v - 1, true
	default:
		return 0, false
	}
}
