// Package setter implements the value setter and folder of : the single point
// through which every value-flow fact enters the token graph, performing constant folding as an
// upward sweep through the AST.
package setter

import (
	"go.uber.org/c2goflow/platform"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/value"
	"go.uber.org/c2goflow/valueflow"
)

// SetTokenValue is the single entry point for adding a value-flow fact to a token, implementing
// steps 1-4: early rejection, implicit-conversion truncation (handled inline where
// the binary-operator combination has enough context to need it, see combineBinary), storage via
// the token's own [token.Node.Values] list, and upward propagation through the AST dispatching
// on the parent token's operator.
func SetTokenValue(settings valueflow.Settings, tok token.Node, v value.Value) {
	if earlyReject(settings, tok, v) {
		return
	}
	if !tok.Values().Add(v) {
		// Either an exact duplicate (the no-duplicate rule) or the list was already at cap (invariant
		// V4): either way, step 3 says "return without propagating".
		return
	}
	applyContradictionRules(tok.Values())
	propagateUpward(settings, tok, v)
}

// earlyReject implements step 1: a negative INT value assigned to an unsigned
// token whose declared width equals the host word size is ambiguous (it could represent either
// a huge unsigned value or a folding mistake) and is dropped outright.
func earlyReject(settings valueflow.Settings, tok token.Node, v value.Value) bool {
	if v.Type != value.INT || v.Int >= 0 {
		return false
	}
	vt := tok.ValueType()
	if vt == nil || vt.Sign != token.SignUnsigned {
		return false
	}
	return vt.Width == settings.Platform.IntBit
}

// propagateUpward implements step 4: dispatch on tok's AST parent to decide whether
// and how v should be folded into a new value on the parent.
func propagateUpward(settings valueflow.Settings, tok token.Node, v value.Value) {
	parent := tok.AstParent()
	if parent.IsNil() {
		return
	}

	switch {
	case v.Type == value.UNINIT:
		propagateUninit(settings, parent, tok, v)
		return
	case v.Type == value.LIFETIME:
		propagateLifetime(settings, parent, tok, v)
		return
	case v.Type == value.CONTAINER_SIZE:
		propagateContainerSize(settings, parent, tok, v)
		return
	}

	switch {
	case parent.Str() == "," && !isInitializerOrCallComma(parent):
		SetTokenValue(settings, parent, v)

	case parent.Tag() == token.AssignmentOp:
		if sameNode(parent.AstOperand2(), tok) {
			SetTokenValue(settings, parent, v)
		}

	case isCast(parent):
		propagateCast(settings, parent, tok, v)

	case parent.Str() == "?":
		propagateTernaryCondition(settings, parent, tok, v)

	case parent.Str() == ":" && !parent.AstParent().IsNil() && parent.AstParent().Str() == "?":
		propagateTernaryBranch(settings, parent, tok, v)

	case parent.Str() == "::":
		if sameNode(parent.AstOperand2(), tok) {
			SetTokenValue(settings, parent, v)
		}

	case isBinaryOperator(parent):
		propagateBinary(settings, parent, tok, v)

	case isUnaryOperator(parent):
		propagateUnary(settings, parent, tok, v)

	case parent.Str() == "{" && isAggregateInitTarget(parent):
		propagateAggregateInit(settings, parent, tok, v)
	}
}

func sameNode(a, b token.Node) bool {
	return !a.IsNil() && !b.IsNil() && a.List() == b.List() && a.Index() == b.Index()
}

// isInitializerOrCallComma reports whether a "," token separates initializer-list or
// call-argument elements rather than forming a genuine comma-operator expression. We approximate
// this the way a simplified token graph can: a comma whose AST parent is itself (i.e. it has no
// further AST parent feeding a comma-operator value) inside a "("... ")" or "{"... "}" region
// is treated as a separator.
func isInitializerOrCallComma(comma token.Node) bool {
	for tok := comma.Prev(); !tok.IsNil(); tok = tok.Prev() {
		switch tok.Str() {
		case "(", "{", "[":
			return true
		case ";", "}":
			return false
		}
	}
	return false
}

func isCast(parent token.Node) bool {
	return parent.Str() == "(cast)"
}

func isBinaryOperator(tok token.Node) bool {
	if tok.AstOperand1().IsNil() || tok.AstOperand2().IsNil() {
		return false
	}
	switch tok.Tag() {
	case token.ArithmeticOp, token.BitOp, token.ComparisonOp, token.LogicalOp:
		return true
	}
	return false
}

func isUnaryOperator(tok token.Node) bool {
	if !tok.AstOperand1().IsNil() && tok.AstOperand2().IsNil() {
		switch tok.Tag() {
		case token.ArithmeticOp, token.BitOp, token.LogicalOp, token.IncDecOp:
			return true
		}
	}
	return false
}

func isAggregateInitTarget(brace token.Node) bool {
	lhs := brace.Prev()
	if lhs.IsNil() {
		return false
	}
	return lhs.Str() == "=" || lhs.Tag() == token.Variable
}

// propagateCast implements this package's cast case: parse the cast destination type (carried on
// the synthetic "(cast)" token's ValueType, since this module does not implement a C/C++ type
// parser) and truncate per target width/sign using the platform's bit widths.
func propagateCast(settings valueflow.Settings, castTok, operand token.Node, v value.Value) {
	vt := castTok.ValueType()
	if vt == nil || v.Type != value.INT {
		SetTokenValue(settings, castTok, v)
		return
	}
	out := v
	if vt.Width > 0 && vt.Width < 64 {
		wide := v.Int
		masked := platform.MaskWidth(v.Int, vt.Width)
		if vt.Sign == token.SignUnsigned {
			out.Int = int64(masked)
		} else {
			out.Int = platform.SignExtend(masked, vt.Width)
		}
		if out.Int != wide {
			out.WideIntValue = &wide
		}
	}
	SetTokenValue(settings, castTok, out)
}

// propagateTernaryCondition handles a value arriving on a ternary's condition operand: the AST
// shape is `?`.Operand1 = cond, `?`.Operand2 = `:`, `:`.Operand1/Operand2 = then/else. If the
// condition just became Known, re-propagate whatever the chosen branch already knows (the branch
// may have resolved before the condition did).
func propagateTernaryCondition(settings valueflow.Settings, ternary, cond token.Node, v value.Value) {
	if v.Type != value.INT || v.Kind != value.Known {
		return
	}
	colon := ternary.AstOperand2()
	if colon.IsNil() || colon.Str() != ":" {
		return
	}
	chosen := colon.AstOperand2()
	if v.Int != 0 {
		chosen = colon.AstOperand1()
	}
	if chosen.IsNil() {
		return
	}
	for _, bv := range chosen.Values().All() {
		SetTokenValue(settings, ternary, bv)
	}
}

// propagateTernaryBranch handles a value arriving on one of a ternary's branch operands (a child
// of the `:` token). If the condition is already Known, fold through to the ternary only when tok
// is the selected branch; otherwise demote to Possible/Conditional and propagate both branches
// through, unless the condition is too complex to split on.
func propagateTernaryBranch(settings valueflow.Settings, colon, tok token.Node, v value.Value) {
	ternary := colon.AstParent()
	if ternary.IsNil() {
		return
	}
	cond := ternary.AstOperand1()
	if cond.IsNil() {
		return
	}
	isThen := sameNode(colon.AstOperand1(), tok)
	isElse := sameNode(colon.AstOperand2(), tok)
	if !isThen && !isElse {
		return
	}

	if condInt, ok := cond.Values().HasKnownInt(); ok {
		if (condInt != 0 && isThen) || (condInt == 0 && isElse) {
			SetTokenValue(settings, ternary, v)
		}
		return
	}

	if conditionTooComplexToSplit(cond) {
		return
	}

	demoted := v
	demoted.Kind = value.Possible
	demoted.Conditional = true
	SetTokenValue(settings, ternary, demoted)
}

func conditionTooComplexToSplit(cond token.Node) bool {
	vars := map[token.VarID]bool{}
	hasCall := false
	var walk func(tok token.Node)
	walk = func(tok token.Node) {
		if tok.IsNil() {
			return
		}
		if tok.VarID() != 0 {
			vars[tok.VarID()] = true
		}
		if tok.Tag() == token.Function {
			hasCall = true
		}
		walk(tok.AstOperand1())
		walk(tok.AstOperand2())
	}
	walk(cond)
	return hasCall || len(vars) > 1
}

// propagateUnary implements this package's unary `!`, `~`, `-`, `++`, `--` case.
func propagateUnary(settings valueflow.Settings, op, operand token.Node, v value.Value) {
	if v.Type != value.INT {
		return
	}
	width := 0
	if vt := op.ValueType(); vt != nil {
		width = vt.Width
	}
	result, ok := evalUnaryInt(op.Str(), v.Int, width)
	if !ok {
		return
	}
	out := v
	out.Int = result
	if op.Str() == "~" {
		if vt := op.ValueType(); vt != nil && vt.Sign == token.SignUnsigned && vt.Width > 0 {
			out.Int = int64(platform.MaskWidth(result, vt.Width))
		}
	}
	SetTokenValue(settings, op, out)
}

// propagateBinary implements this package's binary arithmetic/comparison/bitwise/logical case:
// cross-product the operand value lists, filter by compatible types and matching path, combine
// the resulting properties, evaluate the operator, and record contradictions.
func propagateBinary(settings valueflow.Settings, op, changed token.Node, v value.Value) {
	lhs, rhs := op.AstOperand1(), op.AstOperand2()
	var otherSide token.Node
	var changedIsLHS bool
	if sameNode(lhs, changed) {
		otherSide, changedIsLHS = rhs, true
	} else if sameNode(rhs, changed) {
		otherSide, changedIsLHS = lhs, false
	} else {
		return
	}

	// Short-circuit folding: if this is a known-false && or known-true || on the already-known
	// side, the result is determined without needing the other operand at all.
	if result, ok := shortCircuit(op.Str(), changedIsLHS, v); ok {
		SetTokenValue(settings, op, result)
		return
	}

	for _, other := range otherSide.Values().All() {
		if other.Path != v.Path {
			continue
		}
		var lv, rv value.Value
		if changedIsLHS {
			lv, rv = v, other
		} else {
			lv, rv = other, v
		}
		combineAndStore(settings, op, lv, rv)
	}
}

func shortCircuit(op string, changedIsLHS bool, v value.Value) (value.Value, bool) {
	if v.Type != value.INT || v.Kind != value.Known {
		return value.Value{}, false
	}
	switch op {
	case "&&":
		if v.Int == 0 {
			return value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 0, Path: v.Path}, true
		}
	case "||":
		if v.Int != 0 {
			return value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 1, Path: v.Path}, true
		}
	}
	return value.Value{}, false
}

func combineAndStore(settings valueflow.Settings, op token.Node, lv, rv value.Value) {
	if lv.Type != rv.Type {
		return
	}
	kind := combineKind(lv.Kind, rv.Kind)
	if kind == skipKind {
		return
	}

	var result value.Value
	switch lv.Type {
	case value.INT:
		r, ok := evalBinaryInt(op.Str(), lv.Int, rv.Int)
		if !ok {
			return // e.g. division by zero: drop this combination
		}
		result = value.Value{Type: value.INT, Int: r}
	case value.FLOAT:
		if IsComparisonOp(op.Str()) {
			r, ok := evalFloatComparison(op.Str(), lv.Float, rv.Float)
			if !ok {
				return
			}
			result = value.Value{Type: value.INT, Int: r}
		} else {
			r, ok := evalBinaryFloat(op.Str(), lv.Float, rv.Float)
			if !ok {
				return
			}
			result = value.Value{Type: value.FLOAT, Float: r}
		}
	default:
		return
	}

	result.Kind = kind
	result.Bound = value.Point
	result.Path = lv.Path
	result.Inconclusive = lv.Inconclusive || rv.Inconclusive
	result.ErrorPath = append(append([]value.ErrorStep{}, lv.ErrorPath...), rv.ErrorPath...)

	applyImplicitTruncation(op, &result)

	SetTokenValue(settings, op, result)
}

const skipKind = value.Kind(255)

// combineKind merges two operand Kinds into the result Kind, implementing "Known values override
// and erase Possible ones of the same type" transitively: Known+Known=Known,
// Known/Possible mixed = Possible, anything with Impossible on either side cannot be combined
// into a definite arithmetic result (arithmetic on "never this value" facts is not meaningful),
// and Inconclusive taints the result to Inconclusive... no wait, Inconclusive is carried via the
// Inconclusive flag rather than the Kind, so Inconclusive Kind inputs are skipped here (an
// Inconclusive-kind fact is a placeholder, not a combinable value).
func combineKind(a, b value.Kind) value.Kind {
	if a == value.Impossible || b == value.Impossible {
		return skipKind
	}
	if a == value.Inconclusive || b == value.Inconclusive {
		return skipKind
	}
	if a == value.Known && b == value.Known {
		return value.Known
	}
	return value.Possible
}

// applyImplicitTruncation implements step 2: when the operator's ValueType
// indicates a narrower result width than 64 bits (the widest this module computes in), narrow
// the payload and record the pre-truncation integer.
func applyImplicitTruncation(op token.Node, result *value.Value) {
	if result.Type != value.INT {
		return
	}
	vt := op.ValueType()
	if vt == nil || vt.Width <= 0 || vt.Width >= 64 {
		return
	}
	wide := result.Int
	masked := platform.MaskWidth(result.Int, vt.Width)
	if vt.Sign == token.SignUnsigned {
		result.Int = int64(masked)
	} else {
		result.Int = platform.SignExtend(masked, vt.Width)
	}
	if result.Int != wide {
		result.WideIntValue = &wide
	}
}

// propagateAggregateInit implements this package's aggregate-init case for a scalar (integral or
// pointer) LHS: `T x = { v };` propagates v's value onto x by propagating the brace token's own
// value upward, mirroring the assignment-rhs case. It does not inspect the LHS type, and no
// separate union zero-initialization is performed.
func propagateAggregateInit(settings valueflow.Settings, brace, operand token.Node, v value.Value) {
	if !sameNode(brace.AstOperand1(), operand) && !sameNode(brace.AstOperand2(), operand) {
		return
	}
	SetTokenValue(settings, brace, v)
}

// propagateUninit implements this package's uninit case: follow member access restricted to the
// recorded subexpressions, dereference adjustment on `&`/`*`, and propagate.
func propagateUninit(settings valueflow.Settings, parent, tok token.Node, v value.Value) {
	switch parent.Str() {
	case ".", "->":
		if sameNode(parent.AstOperand1(), tok) {
			SetTokenValue(settings, parent, v)
		}
	case "&":
		out := v
		out.Indirect++
		SetTokenValue(settings, parent, out)
	case "*":
		if v.Indirect > 0 {
			out := v
			out.Indirect--
			SetTokenValue(settings, parent, out)
		}
	}
}

// propagateLifetime implements this package's lifetime case: recurse only if the lifetime
// remains "borrowed" (i.e. propagation hasn't crossed out of the scope that owns the referent,
// approximated here by the value's Indirect level staying non-negative after a dereference).
func propagateLifetime(settings valueflow.Settings, parent, tok token.Node, v value.Value) {
	switch parent.Str() {
	case "=":
		if sameNode(parent.AstOperand2(), tok) {
			SetTokenValue(settings, parent, v)
		}
	case "&":
		out := v
		out.Indirect++
		SetTokenValue(settings, parent, out)
	case "*":
		if v.Indirect > 0 {
			out := v
			out.Indirect--
			SetTokenValue(settings, parent, out)
		}
	}
}

// propagateContainerSize implements this package's container-size case: when the parent is
// `+`/`==`/`!=` and both operands carry container sizes or strings, compute the resulting
// size/int and recurse; when the parent is `.size()`/`.empty()`, lift to a plain INT value.
func propagateContainerSize(settings valueflow.Settings, parent, tok token.Node, v value.Value) {
	switch parent.Str() {
	case "+", "==", "!=":
		propagateBinary(settings, parent, tok, v)
	case ".":
		// `.size()`/`.empty()` yields: look at the grandparent call to decide which.
		call := parent.AstParent()
		if call.IsNil() {
			return
		}
		method := parent.AstOperand2()
		if method.IsNil() {
			return
		}
		switch method.Str() {
		case "size":
			SetTokenValue(settings, call, value.Value{Type: value.INT, Kind: v.Kind, Bound: v.Bound, Int: v.Int, Path: v.Path})
		case "empty":
			SetTokenValue(settings, call, value.Value{Type: value.INT, Kind: v.Kind, Bound: value.Point, Int: boolInt(v.Int == 0 && v.Bound == value.Point), Path: v.Path})
		}
	}
}

// ApplyContradictionRules re-exports [applyContradictionRules] for callers (the orchestrator,
// tests) that need to re-run the sweep without going through SetTokenValue, e.g. after a reverse
// walker mutates a token's value list directly.
func ApplyContradictionRules(list *value.List) { applyContradictionRules(list) }
