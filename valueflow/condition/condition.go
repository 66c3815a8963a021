// Package condition implements the condition handler: a reusable driver over control-flow
// conditions (if, while, for, &&, ||, ?) that parses a condition into a (vartok, true_values,
// false_values) triple and hands the then/else regions off to a caller-supplied forward hook, so
// the same alias-detection, negation, impossibility-insertion, and arm-merge logic isn't
// duplicated by every pass that needs to reason about a branch.
package condition

import (
	"go.uber.org/c2goflow/ast"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/value"
)

// ValueParser evaluates whether v is consistent with cond (a condition's leading token) holding
// true or false for the variable identified by varID. matched reports whether the condition could
// be evaluated against v at all; when matched is false, v passes into both branches unpartitioned.
type ValueParser func(cond token.Node, varID token.VarID, v value.Value) (matched, isTrue bool)

// ForwardHook runs a forward walk over [start, end) for varID with the given incoming values,
// matching the signature of [go.uber.org/c2goflow/valueflow/forward.Walk] so that function can be
// passed directly.
type ForwardHook func(start, end token.Node, varID token.VarID, values []value.Value) ([]value.Value, bool)

// Handler drives condition processing with a pluggable parser and forward hook.
type Handler struct {
	Parser  ValueParser
	Forward ForwardHook
}

// NewHandler builds a Handler, defaulting Parser to [EvaluateCondition] when nil.
func NewHandler(parser ValueParser, fwd ForwardHook) *Handler {
	if parser == nil {
		parser = EvaluateCondition
	}
	return &Handler{Parser: parser, Forward: fwd}
}

// ProcessIf drives an `if`/`while` header (ifTok is the keyword token) and its optional `else`
// clause: it partitions values by the condition (unless an alias of vartok was taken earlier in
// the enclosing scope, in which case the condition is not trusted and both branches see the full
// set), recurses into each branch via h.Forward, inserts the condition's own complementary fact
// into whichever branch it's definitively known for, and merges the branches back together,
// following whichever arm didn't escape (return/break/continue/throw) when only one did.
//
// scopeStart bounds the backward alias scan; pass the token at the start of the enclosing brace
// (or the translation unit) if no tighter bound is known. It returns the token following the whole
// construct (including any else clause) and the merged value set.
func (h *Handler) ProcessIf(scopeStart, ifTok token.Node, varID token.VarID, values []value.Value) (token.Node, []value.Value, bool) {
	openParen := ifTok.Next()
	if openParen.IsNil() || openParen.Str() != "(" {
		return ifTok.Next(), values, true
	}
	closeParen, ok := ast.FindMatchingBracket(openParen)
	if !ok {
		return token.Node{}, values, false
	}
	condStart := openParen.Next()
	negated := isNegatedCondition(condStart)
	target := condStart
	if negated {
		target = stripNegation(condStart)
	}

	trueVals, falseVals := values, values
	if !aliasTaken(scopeStart, ifTok, varID) {
		trueVals, falseVals = partition(h.Parser, target, varID, values)
		if negated {
			trueVals, falseVals = falseVals, trueVals
		}
		// The branch that definitely did NOT take a `%varid% == literal`/`!= literal` comparison
		// learns that the complementary literal is impossible for it.
		falseVals = insertImpossible(falseVals, target, varID, "==")
		trueVals = insertImpossible(trueVals, target, varID, "!=")
	}

	brace := closeParen.Next()
	if brace.IsNil() || brace.Str() != "{" {
		return closeParen.Next(), values, true
	}
	braceClose := brace.Link()
	if braceClose.IsNil() {
		return token.Node{}, values, false
	}

	trueOut, ok := h.Forward(brace.Next(), braceClose, varID, trueVals)
	if !ok {
		return token.Node{}, values, false
	}
	thenEscapes := isEscapingBlock(brace, braceClose)

	after := braceClose.Next()
	falseOut := falseVals
	elseEscapes := false
	hasElse := false
	if !after.IsNil() && after.Str() == "else" {
		hasElse = true
		elseNext := after.Next()
		if !elseNext.IsNil() && elseNext.Str() == "{" {
			elseClose := elseNext.Link()
			if elseClose.IsNil() {
				return token.Node{}, values, false
			}
			falseOut, ok = h.Forward(elseNext.Next(), elseClose, varID, falseVals)
			if !ok {
				return token.Node{}, values, false
			}
			elseEscapes = isEscapingBlock(elseNext, elseClose)
			after = elseClose.Next()
		} else {
			after = elseNext
		}
	}

	switch {
	case thenEscapes && (!hasElse || !elseEscapes):
		return after, falseOut, true
	case elseEscapes && !thenEscapes:
		return after, trueOut, true
	default:
		return after, mergeValues(trueOut, falseOut), true
	}
}

// ProcessTernary drives a `cond ? then : else` expression given the already-located `?` token. It
// evaluates each operand value against the condition the same way ProcessIf does, but has no
// statement regions to recurse into -- the caller already has values for the then/else operand
// tokens from ordinary value-flow folding, so this just tells the caller which of those values
// survive. It inserts no Impossible values.
func (h *Handler) ProcessTernary(qTok token.Node, varID token.VarID, thenValues, elseValues []value.Value) (survivingThen, survivingElse []value.Value) {
	cond := qTok.AstOperand1()
	if cond.IsNil() {
		return thenValues, elseValues
	}
	negated := isNegatedCondition(cond)
	target := cond
	if negated {
		target = stripNegation(cond)
	}
	trueThen, _ := partition(h.Parser, target, varID, thenValues)
	_, falseElse := partition(h.Parser, target, varID, elseValues)
	if negated {
		return falseElse, trueThen
	}
	return trueThen, falseElse
}

func partition(parser ValueParser, cond token.Node, varID token.VarID, values []value.Value) (trueVals, falseVals []value.Value) {
	for _, v := range values {
		matched, isTrue := parser(cond, varID, v)
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

// insertImpossible adds a fact to branch recording that `%varid% == literal`/`!= literal` is
// impossible on that branch, when cond has exactly the shape `%varid% wantOp literal`: a branch
// that's reached only because that comparison did NOT hold this way learns the literal is
// impossible for varid. Only applied for the "==" and "!=" shapes, since those are the cases where
// "impossible" has an unambiguous single-value meaning; ordering conditions are left alone.
func insertImpossible(branch []value.Value, cond token.Node, varID token.VarID, wantOp string) []value.Value {
	if cond.IsNil() || cond.VarID() != varID || varID == 0 {
		return branch
	}
	op := cond.Next()
	if op.IsNil() || op.Str() != wantOp {
		return branch
	}
	rhs := op.Next()
	if rhs.IsNil() {
		return branch
	}
	lit, ok := parseIntLiteral(rhs.Str())
	if !ok {
		return branch
	}
	return append(append([]value.Value{}, branch...), value.Value{
		Type: value.INT, Kind: value.Impossible, Bound: value.Point, Int: lit, VarID: value.VarID(varID),
	})
}

// aliasTaken reports whether `&name` (for the variable identified by varID) appears anywhere
// between scopeStart and ifTok, which per the write-up means the condition can no longer be
// trusted to describe varID precisely (it may have been mutated through the alias).
func aliasTaken(scopeStart, ifTok token.Node, varID token.VarID) bool {
	if varID == 0 {
		return false
	}
	for tok := scopeStart; !tok.IsNil() && !sameTok(tok, ifTok); tok = tok.Next() {
		if tok.Str() != "&" {
			continue
		}
		next := tok.Next()
		if !next.IsNil() && next.VarID() == varID {
			return true
		}
	}
	return false
}

func sameTok(a, b token.Node) bool {
	return !a.IsNil() && !b.IsNil() && a.List() == b.List() && a.Index() == b.Index()
}

// isNegatedCondition reports whether cond is a leading "!" composed on the outside of the
// condition that this package otherwise evaluates directly. A trailing `== false` is not
// recognized as a negation.
func isNegatedCondition(cond token.Node) bool {
	return !cond.IsNil() && cond.Str() == "!"
}

func stripNegation(cond token.Node) token.Node {
	return cond.Next()
}

// isEscapingBlock reports whether the brace-delimited block (open, close) contains a top-level
// (not nested in a further brace) return/break/continue/throw, making it an escape arm whose
// facts don't flow into the tail after the conditional.
func isEscapingBlock(open, closeTok token.Node) bool {
	depth := 0
	for tok := open.Next(); !tok.IsNil() && !sameTok(tok, closeTok); tok = tok.Next() {
		switch tok.Str() {
		case "{":
			depth++
		case "}":
			depth--
		case "return", "break", "continue", "throw":
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// mergeValues unions two branch-exit value sets: a fact present with the same payload in both
// becomes Known only if it was Known in both, otherwise Possible; a fact present in only one
// carries over as-is.
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

// EvaluateCondition is the default [ValueParser]: it understands a bare `%varid%` (truthiness),
// `%varid% OP literal`, and a leading "!" or top-level "&&"/"||" composed over sub-conditions of
// the same shape, splitting at the shallowest-depth occurrence of the operator. This is not a
// general C/C++ expression evaluator -- see [go.uber.org/c2goflow/valueflow/forward]'s equivalent
// evaluator for the same documented narrowing -- but composing "!" and "&&"/"||" on top of the
// single-comparison base case covers the condition shapes the write-up calls out by name.
func EvaluateCondition(cond token.Node, varID token.VarID, v value.Value) (matched, isTrue bool) {
	if cond.IsNil() {
		return false, false
	}
	// A top-level "&&"/"||" splits into a left operand (evaluated as a single, non-splitting
	// comparison -- the left side is always just "cond" again, so recursing through
	// EvaluateCondition here would rediscover the same split and loop forever) and a right operand
	// that may itself contain further chained "&&"/"||", so the right side does recurse.
	if left, right, op, ok := splitTopLevelLogical(cond); ok {
		lm, lt := evaluateSimple(left, varID, v)
		rm, rt := EvaluateCondition(right, varID, v)
		if !lm || !rm {
			return false, false
		}
		if op == "&&" {
			return true, lt && rt
		}
		return true, lt || rt
	}
	return evaluateSimple(cond, varID, v)
}

func evaluateSimple(cond token.Node, varID token.VarID, v value.Value) (matched, isTrue bool) {
	if cond.IsNil() {
		return false, false
	}
	if cond.Str() == "!" {
		m, t := evaluateSimple(cond.Next(), varID, v)
		if !m {
			return false, false
		}
		return true, !t
	}
	return evalComparison(cond, varID, v)
}

// splitTopLevelLogical finds the first "&&" or "||" at parenthesis depth 0 starting from cond and
// returns the token ranges to its left and right. cond itself is taken as the left range's sole
// start (this package only ever evaluates single-comparison left operands, matching the shapes
// this driver is documented to parse), so left is just cond and right is the token after the
// operator.
func splitTopLevelLogical(cond token.Node) (left, right token.Node, op string, ok bool) {
	depth := 0
	for tok := cond; !tok.IsNil(); tok = tok.Next() {
		switch tok.Str() {
		case "(", "[":
			depth++
		case ")", "]":
			if depth == 0 {
				return token.Node{}, token.Node{}, "", false
			}
			depth--
		case "&&", "||":
			if depth == 0 {
				return cond, tok.Next(), tok.Str(), true
			}
		}
	}
	return token.Node{}, token.Node{}, "", false
}

func evalComparison(cond token.Node, varID token.VarID, v value.Value) (matched, isTrue bool) {
	if cond.VarID() != varID || varID == 0 || v.Type != value.INT {
		return false, false
	}
	op := cond.Next()
	if op.IsNil() || op.Str() == ")" || op.Str() == "&&" || op.Str() == "||" {
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
