// Package forward implements the forward variable walker: propagating a running value set for
// one variable through a stretch of the token graph, splitting and merging across if/while/for
// branches and bailing out wherever aliasing or an opaque external write would destroy precision.
package forward

import (
	"go.uber.org/c2goflow/ast"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/value"
	"go.uber.org/c2goflow/valueflow"
)

// Walk propagates values for varID forward from start up to (but not including) end. It returns
// the surviving value set and whether the walk reached end without an unresolved bailout; false
// means "values beyond this point are unknown" and callers must treat the variable as having no
// further facts from here on.
func Walk(settings valueflow.Settings, start, end token.Node, varID token.VarID, values []value.Value) ([]value.Value, bool) {
	w := &walker{settings: settings, varID: varID, end: end}
	return w.run(start, append([]value.Value{}, values...))
}

type walker struct {
	settings valueflow.Settings
	varID    token.VarID
	end      token.Node
}

func (w *walker) run(tok token.Node, values []value.Value) ([]value.Value, bool) {
	for !tok.IsNil() && !sameTok(tok, w.end) {
		switch {
		case tok.Str() == "{":
			closeBrace := tok.Link()
			if closeBrace.IsNil() {
				return values, false
			}
			var ok bool
			values, ok = w.run(tok.Next(), values)
			if !ok {
				return values, false
			}
			tok = closeBrace.Next()

		case tok.Str() == "}":
			return values, true

		case isLabelToken(tok):
			values = demoteAllToPossible(values)
			tok = tok.Next()

		case tok.Str() == "return" || tok.Str() == "break" || tok.Str() == "continue" || tok.Str() == "throw":
			// Scope exit: nothing past this point within the current brace is reachable from
			// here, so stop without consuming the rest of the scope. The caller (the enclosing
			// brace handler or an if/while/for header) decides how this interacts with the
			// branch it belongs to.
			return values, true

		case tok.Str() == "assert" && !tok.Next().IsNil() && tok.Next().Str() == "(":
			next, ok := w.handleAssert(tok, values)
			if !ok {
				return values, false
			}
			tok, values = next, filterByAssert(values, tok, w.varID)

		case isHeaderKeyword(tok):
			next, outValues, ok := w.handleHeader(tok, values)
			if !ok {
				return values, false
			}
			tok, values = next, outValues

		case tok.VarID() != 0 && tok.VarID() == w.varID:
			next, outValues, ok := w.handleVarOccurrence(tok, values)
			if !ok {
				return values, false
			}
			tok, values = next, outValues

		default:
			tok = tok.Next()
		}
	}
	return values, true
}

func sameTok(a, b token.Node) bool {
	return !a.IsNil() && !b.IsNil() && a.List() == b.List() && a.Index() == b.Index()
}

func demoteAllToPossible(values []value.Value) []value.Value {
	out := make([]value.Value, len(values))
	for i, v := range values {
		v.Kind = value.Possible
		out[i] = v
	}
	return out
}

func isLabelToken(tok token.Node) bool {
	if tok.Str() == "case" || tok.Str() == "default" {
		return true
	}
	// A bare `name:` not part of a ternary or bitfield is a goto label. Approximated here as
	// "a Name-tagged token directly followed by a ':' token and not directly preceded by '?'"
	// -- good enough for the straight-line label case this walker needs to demote on.
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

func isHeaderKeyword(tok token.Node) bool {
	switch tok.Str() {
	case "if", "while", "for":
		return true
	}
	return false
}

// handleAssert treats `assert(cond)` as `if (!cond) return;`: it returns the token after the full
// `assert( ... );` statement, and the caller narrows the running values with filterByAssert,
// which re-uses the same simple-comparison evaluator the if/while header uses.
func (w *walker) handleAssert(assertTok token.Node, _ []value.Value) (token.Node, bool) {
	open := assertTok.Next()
	closeParen, ok := ast.FindMatchingBracket(open)
	if !ok {
		return token.Node{}, false
	}
	after := closeParen.Next()
	if !after.IsNil() && after.Str() == ";" {
		after = after.Next()
	}
	return after, true
}

// filterByAssert keeps only the values consistent with the condition of the assert at assertTok
// holding, using the same partition the if/while header uses; values the condition can't be
// evaluated against pass through unchanged.
func filterByAssert(values []value.Value, assertTok token.Node, varID token.VarID) []value.Value {
	trueVals, _ := partitionByCondition(assertTok.Next().Next(), varID, values)
	return trueVals
}

// handleHeader processes an `if`/`while`/`for` header: detect in-header modification of the
// tracked variable, partition the running value set into true/false subsets by evaluating the
// condition against each value, walk each branch with its subset, and merge the results.
func (w *walker) handleHeader(tok token.Node, values []value.Value) (token.Node, []value.Value, bool) {
	openParen := tok.Next()
	if openParen.IsNil() || openParen.Str() != "(" {
		return tok.Next(), values, true
	}
	closeParen, ok := ast.FindMatchingBracket(openParen)
	if !ok {
		return token.Node{}, values, false
	}
	condStart := openParen.Next()

	if headerModifiesVar(condStart, closeParen, w.varID) {
		values = demoteAllToPossible(values)
	}

	trueVals, falseVals := partitionByCondition(condStart, w.varID, values)

	brace := closeParen.Next()
	if brace.IsNil() || brace.Str() != "{" {
		// No compound body (a single bare statement): fall through without branching, since this
		// walker only descends into brace-delimited scopes.
		return closeParen.Next(), values, true
	}
	braceClose := brace.Link()
	if braceClose.IsNil() {
		return token.Node{}, values, false
	}

	trueOut, ok := w.run(brace.Next(), trueVals)
	if !ok {
		return token.Node{}, values, false
	}

	after := braceClose.Next()
	falseOut := falseVals
	if !after.IsNil() && after.Str() == "else" {
		elseNext := after.Next()
		if !elseNext.IsNil() && elseNext.Str() == "{" {
			elseClose := elseNext.Link()
			if elseClose.IsNil() {
				return token.Node{}, values, false
			}
			falseOut, ok = w.run(elseNext.Next(), falseVals)
			if !ok {
				return token.Node{}, values, false
			}
			after = elseClose.Next()
		} else {
			after = elseNext
		}
	}

	return after, mergeValues(trueOut, falseOut), true
}

func headerModifiesVar(start, end token.Node, varID token.VarID) bool {
	if varID == 0 {
		return false
	}
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.VarID() != varID {
			continue
		}
		if nxt := tok.Next(); !nxt.IsNil() {
			switch nxt.Str() {
			case "=", "+=", "-=", "*=", "/=", "++", "--":
				return true
			}
		}
		if prv := tok.Prev(); !prv.IsNil() {
			switch prv.Str() {
			case "++", "--":
				return true
			}
		}
	}
	return false
}

// partitionByCondition splits values into the subset consistent with the condition evaluating
// true and the subset consistent with it evaluating false, using a direct (non-AST) reading of
// the condition's leading tokens: either a bare `%varid%` (truthiness) or `%varid% OP literal`.
// Values the comparison can't be evaluated against pass into both subsets unchanged.
func partitionByCondition(condStart token.Node, varID token.VarID, values []value.Value) (trueVals, falseVals []value.Value) {
	for _, v := range values {
		matched, isTrue := evalSimpleComparison(condStart, varID, v)
		if !matched {
			trueVals = append(trueVals, v)
			falseVals = append(falseVals, v)
			continue
		}
		if isTrue {
			trueVals = append(trueVals, v)
		} else {
			falseVals = append(falseVals, v)
		}
	}
	return trueVals, falseVals
}

func evalSimpleComparison(cond token.Node, varID token.VarID, v value.Value) (matched, isTrue bool) {
	if cond.IsNil() || cond.VarID() != varID || varID == 0 || v.Type != value.INT {
		return false, false
	}
	op := cond.Next()
	if op.IsNil() || op.Str() == ")" {
		// Bare `if (var)`: truthiness check.
		return true, v.Int != 0
	}
	rhs := op.Next()
	if rhs.IsNil() {
		return false, false
	}
	rhsInt, ok := parseIntLiteral(rhs.Str())
	if !ok {
		return false, false
	}
	switch op.Str() {
	case "==":
		return true, v.Int == rhsInt
	case "!=":
		return true, v.Int != rhsInt
	case "<":
		return true, v.Int < rhsInt
	case "<=":
		return true, v.Int <= rhsInt
	case ">":
		return true, v.Int > rhsInt
	case ">=":
		return true, v.Int >= rhsInt
	default:
		return false, false
	}
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

// mergeValues unions two branch-exit value sets: a fact present with the same payload in both
// becomes Known only if it was Known in both, otherwise Possible; a fact present in only one
// carries over as-is, keeping its kind.
func mergeValues(a, b []value.Value) []value.Value {
	out := append([]value.Value{}, a...)
	for _, bv := range b {
		found := false
		for i, ov := range out {
			if ov.Type == bv.Type && ov.Bound == bv.Bound && ov.Int == bv.Int {
				found = true
				if ov.Kind != bv.Kind {
					out[i].Kind = value.Possible
				}
				break
			}
		}
		if !found {
			out = append(out, bv)
		}
	}
	return out
}

// handleVarOccurrence processes a direct reference to the tracked variable outside a header:
// address-of (`&`) and stream-read (`>>`) bailout, reassignment, compound assignment and ++/--,
// and call-argument exposure. Binding the variable to a reference does not bail out.
func (w *walker) handleVarOccurrence(tok token.Node, values []value.Value) (token.Node, []value.Value, bool) {
	if prev := tok.Prev(); !prev.IsNil() {
		switch prev.Str() {
		case "&":
			return token.Node{}, values, false
		case ">>":
			return token.Node{}, values, false
		case "++", "--":
			updated, ok := applyDelta(values, prev.Str())
			if !ok {
				return token.Node{}, values, false
			}
			return tok.Next(), updated, true
		}
	}
	if next := tok.Next(); !next.IsNil() {
		switch next.Str() {
		case "=":
			// Plain reassignment: whatever was known before is gone; the setter/folder is
			// responsible for seeding the new fact from the RHS, so this walker simply drops its
			// own running set from this point on (the caller restarts tracking with a fresh value
			// from the assignment if it wants to keep following the variable).
			return next.Next(), nil, true
		case "+=", "-=", "*=", "/=":
			rhs := next.Next()
			if rhs.IsNil() {
				return token.Node{}, values, false
			}
			amount, ok := parseIntLiteral(rhs.Str())
			if !ok {
				return token.Node{}, values, false
			}
			updated, ok := applyCompound(values, next.Str(), amount)
			if !ok {
				return token.Node{}, values, false
			}
			return rhs.Next(), updated, true
		case "++", "--":
			updated, ok := applyDelta(values, next.Str())
			if !ok {
				return token.Node{}, values, false
			}
			return next.Next(), updated, true
		}
	}
	if callee, argIdx, inCall := enclosingCall(tok); inCall {
		name := callee.Str()
		if w.settings.Library != nil && !w.settings.Library.IsNotLibraryFunction(name) {
			return tok.Next(), values, true
		}
		_ = argIdx
		return tok.Next(), demoteToInconclusive(values), true
	}
	return tok.Next(), values, true
}

func applyDelta(values []value.Value, op string) ([]value.Value, bool) {
	delta := int64(1)
	if op == "--" {
		delta = -1
	}
	return applyCompound(values, "+=", delta)
}

func applyCompound(values []value.Value, op string, amount int64) ([]value.Value, bool) {
	out := make([]value.Value, 0, len(values))
	for _, v := range values {
		if v.Type != value.INT {
			continue
		}
		nv := v
		switch op {
		case "+=":
			nv.Int = v.Int + amount
		case "-=":
			nv.Int = v.Int - amount
		case "*=":
			nv.Int = v.Int * amount
		case "/=":
			if amount == 0 {
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

func demoteToInconclusive(values []value.Value) []value.Value {
	out := make([]value.Value, 0, len(values))
	for _, v := range values {
		if v.Kind == value.Known {
			v.Kind = value.Possible
			v.Inconclusive = true
			out = append(out, v)
		}
	}
	return out
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
