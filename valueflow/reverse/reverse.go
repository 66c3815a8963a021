// Package reverse implements the reverse variable walker: the dual of [go.uber.org/c2goflow/valueflow/forward] —
// instead of propagating a value set forward from a known point, it walks backward from a use
// site, inverting each assignment/increment it passes through the tracked variable, so a fact
// learned at the use site can be attributed to an earlier point in the same block.
package reverse

import (
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/value"
)

// Walk propagates values for varID backward from start down to (but not including) end, inverting
// each modification of the variable it passes through. It returns the inferred value set at end
// and whether the walk reached end without an unresolved bailout.
func Walk(start, end token.Node, varID token.VarID, values []value.Value) ([]value.Value, bool) {
	values = append([]value.Value{}, values...)
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Prev() {
		switch {
		case tok.Str() == "{" || tok.Str() == "}":
			// A brace crossed while walking backward marks a scope boundary this simple walker
			// does not reason about precisely (which branch of an if/else the use site was even
			// in is not recoverable by a backward token scan alone); bail out rather than guess.
			return values, false

		case isGotoLabel(tok):
			return values, false

		case tok.VarID() != 0 && tok.VarID() == varID:
			next, outValues, ok := handleVarOccurrence(tok, values)
			if !ok {
				return values, false
			}
			tok = next
			values = outValues
			continue
		}
	}
	return values, true
}

func sameTok(a, b token.Node) bool {
	return !a.IsNil() && !b.IsNil() && a.List() == b.List() && a.Index() == b.Index()
}

func isGotoLabel(tok token.Node) bool {
	if tok.Tag() != token.Name {
		return false
	}
	next := tok.Next()
	if next.IsNil() || next.Str() != ":" {
		return false
	}
	prev := tok.Prev()
	return prev.IsNil() || prev.Str() != "?"
}

// handleVarOccurrence inverts whatever modification of the tracked variable tok participates in,
// continuing the backward walk from the token preceding the whole statement. It returns the token
// the outer loop should resume from (so its own tok.Prev() step lands one past the inverted
// statement) and whether the inversion was one this walker knows how to undo.
func handleVarOccurrence(tok token.Node, values []value.Value) (token.Node, []value.Value, bool) {
	if prev := tok.Prev(); !prev.IsNil() {
		switch prev.Str() {
		case "&":
			return token.Node{}, values, false
		case "++", "--":
			updated, ok := invertDelta(values, prev.Str())
			if !ok {
				return token.Node{}, values, false
			}
			return prev, updated, true
		}
	}
	if next := tok.Next(); !next.IsNil() {
		switch next.Str() {
		case "=":
			// A plain reassignment severs the history: whatever the variable held before this
			// point is unrelated to what it holds after, so nothing can be inverted through it.
			return token.Node{}, values, false
		case "+=", "-=", "*=":
			rhs := next.Next()
			if rhs.IsNil() {
				return token.Node{}, values, false
			}
			amount, ok := parseIntLiteral(rhs.Str())
			if !ok {
				return token.Node{}, values, false
			}
			updated, ok := invertCompound(values, next.Str(), amount)
			if !ok {
				return token.Node{}, values, false
			}
			return tok, updated, true
		case "++", "--":
			updated, ok := invertDelta(values, next.Str())
			if !ok {
				return token.Node{}, values, false
			}
			return tok, updated, true
		}
	}
	if _, _, inCall := enclosingCall(tok); inCall {
		// A call that might write through the variable (by reference or pointer) makes its prior
		// value opaque from this walker's perspective; the forward walker's
		// valueflow.Library-driven conservatism belongs at the point of the call, not in a
		// backward scan that has no settings to consult.
		return token.Node{}, values, false
	}
	return tok, values, true
}

func invertDelta(values []value.Value, op string) ([]value.Value, bool) {
	amount := int64(1)
	if op == "--" {
		amount = -1
	}
	return invertCompound(values, "+=", amount)
}

// invertCompound undoes the effect op/amount had going forward: `x += k` going forward means x
// was `x - k` before, so the inverse of `+=` is subtraction, the inverse of `-=` is addition, and
// the inverse of `*=` is division (dropped when it wouldn't be exact, since reconstructing a
// non-exact prior value would assert a fact that isn't actually known).
func invertCompound(values []value.Value, op string, amount int64) ([]value.Value, bool) {
	out := make([]value.Value, 0, len(values))
	for _, v := range values {
		if v.Type != value.INT {
			continue
		}
		nv := v
		switch op {
		case "+=":
			nv.Int = v.Int - amount
		case "-=":
			nv.Int = v.Int + amount
		case "*=":
			if amount == 0 || v.Int%amount != 0 {
				continue
			}
			nv.Int = v.Int / amount
		default:
			return nil, false
		}
		out = append(out, nv)
	}
	return out, true
}

func parseIntLiteral(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	neg := false
	i := 0
	if s[0] == '-' {
		neg = true
		i = 1
	}
	if i >= len(s) {
		return 0, false
	}
	var n int64
	for ; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int64(c-'0')
	}
	if neg {
		n = -n
	}
	return n, true
}

// enclosingCall reports whether tok sits directly inside a call's argument list by scanning
// backward for an unmatched "(" whose preceding token is tagged as a function.
func enclosingCall(tok token.Node) (callee token.Node, argIndex int, ok bool) {
	depth := 0
	for cur := tok.Prev(); !cur.IsNil(); cur = cur.Prev() {
		switch cur.Str() {
		case ")", "]":
			depth++
		case "(", "[":
			if depth > 0 {
				depth--
				continue
			}
			prev := cur.Prev()
			if !prev.IsNil() && prev.Tag() == token.Function {
				return prev, 0, true
			}
			return token.Node{}, 0, false
		case ";", "{", "}":
			return token.Node{}, 0, false
		}
	}
	return token.Node{}, 0, false
}
