package orchestrator

import (
	"go.uber.org/c2goflow/ast"
	"go.uber.org/c2goflow/internal/symtab"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/value"
	"go.uber.org/c2goflow/valueflow"
	"go.uber.org/c2goflow/valueflow/condition"
	"go.uber.org/c2goflow/valueflow/forward"
	"go.uber.org/c2goflow/valueflow/reverse"
	"go.uber.org/c2goflow/valueflow/setter"
)

// threadAndStamp walks [start, end) for varID starting from seed, and for every unstamped
// occurrence of varID in that range, records the value set forward.Walk computes as surviving up
// to that occurrence. forward.Walk itself never writes into the graph (it only returns the value
// set at its end argument), so every pass below that wants per-occurrence facts -- not just the
// value at the far end of a region -- calls it once per occurrence through this helper.
func threadAndStamp(settings valueflow.Settings, start, end token.Node, varID token.VarID, seed []value.Value) ([]value.Value, bool) {
	for occ := start; !occ.IsNil() && !sameTok(occ, end); occ = occ.Next() {
		if occ.VarID() != varID || occ.HasValues() {
			continue
		}
		values, ok := forward.Walk(settings, start, occ, varID, seed)
		if !ok {
			continue
		}
		for _, v := range values {
			v.VarID = value.VarID(varID)
			setter.SetTokenValue(settings, occ, v)
		}
	}
	return forward.Walk(settings, start, end, varID, seed)
}

// passAfterAssign seeds the value a plain `var = <folded literal>;` assignment establishes and
// threads it forward to every later occurrence of var up to end, stopping at whatever reassigns,
// aliases, or otherwise demotes it (forward.Walk's own job).
func passAfterAssign(settings valueflow.Settings, _ symtab.SymTab, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.VarID() == 0 {
			continue
		}
		eq := tok.Next()
		if eq.IsNil() || eq.Str() != "=" {
			continue
		}
		rhs := eq.Next()
		if rhs.IsNil() {
			continue
		}
		seedVal, ok := rhs.Values().GetKnown(value.INT)
		if !ok {
			continue
		}
		varID := tok.VarID()
		seedVal.VarID = value.VarID(varID)
		threadAndStamp(settings, eq.Next(), end, varID, []value.Value{seedVal})
	}
}

// passBeforeConditionReverse recovers, for a bare `if (var ...)`/`while (var ...)` header whose
// condition variable carries no value yet, whatever facts a backward walk from the header can
// attribute to it -- useful when the variable was set earlier in the same block but passAfterAssign
// hasn't threaded that far forward (e.g. the assignment is behind a branch this pass doesn't
// re-walk).
func passBeforeConditionReverse(settings valueflow.Settings, _ symtab.SymTab, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != "if" && tok.Str() != "while" {
			continue
		}
		openParen := tok.Next()
		if openParen.IsNil() || openParen.Str() != "(" {
			continue
		}
		condStart := openParen.Next()
		if condStart.IsNil() || condStart.VarID() == 0 || condStart.HasValues() {
			continue
		}
		recovered, ok := reverse.Walk(tok.Prev(), start, condStart.VarID(), nil)
		if !ok || len(recovered) == 0 {
			continue
		}
		for _, v := range recovered {
			v.VarID = value.VarID(condStart.VarID())
			setter.SetTokenValue(settings, condStart, v)
		}
	}
}

// passAfterCondition threads whatever facts are already known about a condition's variable
// through both branches of the if/while it guards, using condition.Handler to share the
// alias-detection, partitioning, and branch-merge logic.
func passAfterCondition(settings valueflow.Settings, _ symtab.SymTab, start, end token.Node) {
	fwd := func(s, e token.Node, varID token.VarID, values []value.Value) ([]value.Value, bool) {
		return threadAndStamp(settings, s, e, varID, values)
	}
	handler := condition.NewHandler(nil, fwd)
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != "if" && tok.Str() != "while" {
			continue
		}
		openParen := tok.Next()
		if openParen.IsNil() || openParen.Str() != "(" {
			continue
		}
		condStart := openParen.Next()
		if condStart.IsNil() || condStart.VarID() == 0 {
			continue
		}
		varID := condStart.VarID()
		incoming := knownValuesBefore(tok, varID)
		if len(incoming) == 0 {
			continue
		}
		handler.ProcessIf(start, tok, varID, incoming)
	}
}

func knownValuesBefore(before token.Node, varID token.VarID) []value.Value {
	for cur := before.Prev(); !cur.IsNil(); cur = cur.Prev() {
		if cur.VarID() == varID && cur.HasValues() {
			return cur.Values().All()
		}
	}
	return nil
}

// passInferCondition seeds the fact a condition's own shape establishes about its variable inside
// the branch that took it: `x == N` makes x Known N in the true branch, `x != N` makes N
// Impossible for x there. This is independent of whatever passAfterCondition threads in from
// earlier in the block -- it is a fact about the condition itself, not about x's prior history.
func passInferCondition(settings valueflow.Settings, _ symtab.SymTab, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != "if" && tok.Str() != "while" {
			continue
		}
		openParen := tok.Next()
		if openParen.IsNil() || openParen.Str() != "(" {
			continue
		}
		closeParen, ok := ast.FindMatchingBracket(openParen)
		if !ok {
			continue
		}
		condStart := openParen.Next()
		if condStart.IsNil() || condStart.VarID() == 0 {
			continue
		}
		op := condStart.Next()
		if op.IsNil() {
			continue
		}
		rhs := op.Next()
		if rhs.IsNil() {
			continue
		}
		lit, ok := rhs.Values().HasKnownInt()
		if !ok {
			continue
		}
		varID := condStart.VarID()

		brace := closeParen.Next()
		if brace.IsNil() || brace.Str() != "{" {
			continue
		}
		braceClose := brace.Link()
		if braceClose.IsNil() {
			continue
		}

		switch op.Str() {
		case "==":
			threadAndStamp(settings, brace.Next(), braceClose, varID,
				[]value.Value{{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: lit, VarID: value.VarID(varID)}})
		case "!=":
			threadAndStamp(settings, brace.Next(), braceClose, varID,
				[]value.Value{{Type: value.INT, Kind: value.Impossible, Bound: value.Point, Int: lit, VarID: value.VarID(varID)}})
		}
	}
}

// passAfterMove seeds a MOVED fact on std::move's argument: the variable is left in a
// valid-but-unspecified state the caller should not read again without reassigning it first.
func passAfterMove(settings valueflow.Settings, _ symtab.SymTab, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != "move" {
			continue
		}
		qualifier := tok.Prev()
		if qualifier.IsNil() || qualifier.Str() != "::" {
			continue
		}
		open := tok.Next()
		if open.IsNil() || open.Str() != "(" {
			continue
		}
		arg := open.Next()
		if arg.IsNil() || arg.VarID() == 0 {
			continue
		}
		closeParen := arg.Next()
		if closeParen.IsNil() || closeParen.Str() != ")" {
			continue
		}
		setter.SetTokenValue(settings, arg, value.Value{
			Type: value.MOVED, Kind: value.Known, Bound: value.Point,
			Move: value.MovedVariable, VarID: value.VarID(arg.VarID()),
		})
	}
}

// passSwitchVariable seeds each case label's known value onto the switched variable's first
// occurrence inside that case's body, the way an if-chain equivalent to the switch would.
func passSwitchVariable(settings valueflow.Settings, _ symtab.SymTab, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != "switch" {
			continue
		}
		open := tok.Next()
		if open.IsNil() || open.Str() != "(" {
			continue
		}
		closeParen, ok := ast.FindMatchingBracket(open)
		if !ok {
			continue
		}
		exprStart := open.Next()
		if exprStart.IsNil() || exprStart.VarID() == 0 || !sameTok(exprStart.Next(), closeParen) {
			continue
		}
		varID := exprStart.VarID()
		brace := closeParen.Next()
		if brace.IsNil() || brace.Str() != "{" {
			continue
		}
		braceClose := brace.Link()
		if braceClose.IsNil() {
			continue
		}
		seedSwitchCases(settings, brace.Next(), braceClose, varID)
	}
}

func seedSwitchCases(settings valueflow.Settings, start, end token.Node, varID token.VarID) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != "case" {
			continue
		}
		lit := tok.Next()
		if lit.IsNil() {
			continue
		}
		n, ok := lit.Values().HasKnownInt()
		colon := lit.Next()
		if !ok || colon.IsNil() || colon.Str() != ":" {
			continue
		}
		for body := colon.Next(); !body.IsNil() && !sameTok(body, end); body = body.Next() {
			if body.Str() == "case" || body.Str() == "default" {
				break
			}
			if body.VarID() == varID && !body.HasValues() {
				setter.SetTokenValue(settings, body, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: n, VarID: value.VarID(varID)})
				break
			}
		}
	}
}

// passUninitializedVariable seeds UNINIT on a bare `Type name;` local declaration (no
// initializer) and threads it forward until whatever first assigns or otherwise clears it.
func passUninitializedVariable(settings valueflow.Settings, symbols symtab.SymTab, start, end token.Node) {
	if symbols == nil {
		return
	}
	seenDecl := make(map[token.VarID]bool)
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		id := tok.VarID()
		if id == 0 || seenDecl[id] {
			continue
		}
		seenDecl[id] = true
		v, ok := symbols.Variable(id)
		if !ok || !v.IsLocal || v.IsArgument {
			continue
		}
		semi := tok.Next()
		if semi.IsNil() || semi.Str() != ";" {
			continue
		}
		seedVal := value.Value{Type: value.UNINIT, Kind: value.Known, Bound: value.Point, VarID: value.VarID(id)}
		setter.SetTokenValue(settings, tok, seedVal)
		threadAndStamp(settings, semi.Next(), end, id, []value.Value{seedVal})
	}
}

// passSmartPointer tracks std::unique_ptr/shared_ptr/weak_ptr ownership at a coarse grain:
// ptr.reset() makes it known-null, a direct make_unique/make_shared assignment makes it
// known-non-null.
func passSmartPointer(settings valueflow.Settings, symbols symtab.SymTab, start, end token.Node) {
	if symbols == nil {
		return
	}
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.VarID() == 0 {
			continue
		}
		v, ok := symbols.Variable(tok.VarID())
		if !ok || !isSmartPointerType(v) {
			continue
		}
		if dot := tok.Next(); !dot.IsNil() && dot.Str() == "." {
			if method := dot.Next(); !method.IsNil() && method.Str() == "reset" {
				setter.SetTokenValue(settings, tok, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 0, VarID: value.VarID(tok.VarID())})
			}
			continue
		}
		eq := tok.Next()
		if eq.IsNil() || eq.Str() != "=" {
			continue
		}
		rhs := eq.Next()
		if !rhs.IsNil() && (rhs.Str() == "make_unique" || rhs.Str() == "make_shared") {
			setter.SetTokenValue(settings, tok, value.Value{
				Type: value.LIFETIME, Kind: value.Known, Bound: value.Point,
				LifeKind: value.LifetimeObject, LifeScope: value.ScopeLocal, VarID: value.VarID(tok.VarID()),
			})
		}
	}
}

func isSmartPointerType(v *symtab.Variable) bool {
	for t := v.TypeStart; !t.IsNil(); t = t.Next() {
		switch t.Str() {
		case "unique_ptr", "shared_ptr", "weak_ptr":
			return true
		}
		if sameTok(t, v.TypeEnd) {
			break
		}
	}
	return false
}

// passContainerSize seeds a Known CONTAINER_SIZE of 0 right after a container's default-initialized
// declaration, and threads it forward through push/pop/clear/erase actions the library describes.
func passContainerSize(settings valueflow.Settings, symbols symtab.SymTab, start, end token.Node) {
	if symbols == nil || settings.Library == nil {
		return
	}
	seenDecl := make(map[token.VarID]bool)
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		id := tok.VarID()
		if id == 0 || seenDecl[id] {
			continue
		}
		seenDecl[id] = true
		v, ok := symbols.Variable(id)
		if !ok || !v.IsLocal {
			continue
		}
		typeName := v.TypeStart.Str()
		semi := tok.Next()
		if semi.IsNil() || semi.Str() != ";" {
			continue
		}
		size := int64(0)
		seedVal := value.Value{Type: value.CONTAINER_SIZE, Kind: value.Known, Bound: value.Point, Int: size, VarID: value.VarID(id)}
		setter.SetTokenValue(settings, tok, seedVal)
		threadContainerSize(settings, semi.Next(), end, id, typeName, settings.Library, size)
	}
}

func threadContainerSize(settings valueflow.Settings, start, end token.Node, varID token.VarID, typeName string, lib valueflow.Library, size int64) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.VarID() != varID {
			continue
		}
		dot := tok.Next()
		if dot.IsNil() || dot.Str() != "." {
			continue
		}
		method := dot.Next()
		if method.IsNil() {
			continue
		}
		switch lib.ContainerAction(typeName, method.Str()) {
		case valueflow.Push:
			size++
		case valueflow.Pop, valueflow.Erase:
			if size > 0 {
				size--
			}
		case valueflow.Clear:
			size = 0
		default:
			continue
		}
		if !tok.HasValues() {
			setter.SetTokenValue(settings, tok, value.Value{Type: value.CONTAINER_SIZE, Kind: value.Known, Bound: value.Point, Int: size, VarID: value.VarID(varID)})
		}
	}
}

// passContainerAfterCondition seeds a CONTAINER_SIZE fact from a guard of the shape
// `if (!container.empty())`/`if (container.size() == N)`, the narrowing a later `.front()`/`[0]`
// access inside the branch relies on to be known safe.
func passContainerAfterCondition(settings valueflow.Settings, _ symtab.SymTab, start, end token.Node) {
	if settings.Library == nil {
		return
	}
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != "if" && tok.Str() != "while" {
			continue
		}
		openParen := tok.Next()
		if openParen.IsNil() || openParen.Str() != "(" {
			continue
		}
		closeParen, ok := ast.FindMatchingBracket(openParen)
		if !ok {
			continue
		}
		brace := closeParen.Next()
		if brace.IsNil() || brace.Str() != "{" {
			continue
		}
		braceClose := brace.Link()
		if braceClose.IsNil() {
			continue
		}

		cond := openParen.Next()
		negated := !cond.IsNil() && cond.Str() == "!"
		varTok := cond
		if negated {
			varTok = cond.Next()
		}
		if varTok.IsNil() || varTok.VarID() == 0 {
			continue
		}
		dot := varTok.Next()
		if dot.IsNil() || dot.Str() != "." {
			continue
		}
		method := dot.Next()
		if method.IsNil() {
			continue
		}

		switch method.Str() {
		case "empty":
			if !negated {
				continue // `if (container.empty())` tells us nothing new inside the true branch
			}
			threadAndStamp(settings, brace.Next(), braceClose, varTok.VarID(),
				[]value.Value{{Type: value.CONTAINER_SIZE, Kind: value.Impossible, Bound: value.Point, Int: 0, VarID: value.VarID(varTok.VarID())}})
		}
	}
}

// passSubFunctionParameterInjection threads each actual argument's known value onto the called
// function's corresponding parameter for the duration of the callee body, approximating
// interprocedural flow with the one thing this module has: the call site's folded argument
// values and the callee's symbol-table argument list.
func passSubFunctionParameterInjection(settings valueflow.Settings, symbols symtab.SymTab, start, end token.Node) {
	if symbols == nil {
		return
	}
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Tag() != token.Function {
			continue
		}
		open := tok.Next()
		if open.IsNil() || open.Str() != "(" {
			continue
		}
		closeParen, ok := ast.FindMatchingBracket(open)
		if !ok {
			continue
		}
		fn, ok := symbols.FunctionByName(tok.Str())
		if !ok || fn.Scope == nil {
			continue
		}
		args := splitArgTokens(open.Next(), closeParen)
		bodyStart, bodyEnd := fn.Scope.Start, fn.Scope.End
		if bodyStart.IsNil() || bodyEnd.IsNil() {
			continue
		}
		for i, argTok := range args {
			param := fn.ArgVariable(i)
			if param == nil || param.DeclID == 0 {
				continue
			}
			seedVal, ok := argTok.Values().GetKnown(value.INT)
			if !ok {
				continue
			}
			seedVal.VarID = value.VarID(param.DeclID)
			threadAndStamp(settings, bodyStart.Next(), bodyEnd, param.DeclID, []value.Value{seedVal})
		}
	}
}

func splitArgTokens(start, end token.Node) []token.Node {
	var args []token.Node
	depth := 0
	argStart := start
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		switch tok.Str() {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ",":
			if depth == 0 {
				if !sameTok(argStart, tok) {
					args = append(args, argStart)
				}
				argStart = tok.Next()
			}
		}
	}
	if !argStart.IsNil() && !sameTok(argStart, end) {
		args = append(args, argStart)
	}
	return args
}

// passPointerAlias seeds a LIFETIME fact on `p = &x;`: p refers to x for as long as nothing
// reassigns p.
func passPointerAlias(settings valueflow.Settings, _ symtab.SymTab, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != "=" || tok.HasValues() {
			continue
		}
		lhs, rhs := tok.AstOperand1(), tok.AstOperand2()
		if lhs.IsNil() || rhs.IsNil() || lhs.VarID() == 0 || rhs.Str() != "&" {
			continue
		}
		referent := rhs.AstOperand1()
		if referent.IsNil() || referent.VarID() == 0 {
			continue
		}
		setter.SetTokenValue(settings, lhs, value.Value{
			Type: value.LIFETIME, Kind: value.Known, Bound: value.Point,
			LifeKind: value.LifetimeObject, LifeScope: value.ScopeLocal,
			VarID: value.VarID(referent.VarID()),
		})
	}
}

type exprSignature struct {
	op                string
	leftVar, rightVar token.VarID
	leftLit, rightLit string
}

// passSameExpression dedups a repeated pure binary subexpression (same operator, same operands,
// neither operand reassigned in between): the second occurrence gets whatever value the first
// folded to.
func passSameExpression(settings valueflow.Settings, _ symtab.SymTab, start, end token.Node) {
	seen := make(map[exprSignature]token.Node)
	written := make(map[token.VarID]bool)
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if id := tok.VarID(); id != 0 {
			if nxt := tok.Next(); !nxt.IsNil() {
				switch nxt.Str() {
				case "=", "+=", "-=", "*=", "/=", "++", "--":
					written[id] = true
				}
			}
			continue
		}
		if !isFoldableBinary(tok) {
			continue
		}
		left, right := tok.AstOperand1(), tok.AstOperand2()
		sig, ok := signatureOf(tok.Str(), left, right)
		if !ok {
			continue
		}
		if (sig.leftVar != 0 && written[sig.leftVar]) || (sig.rightVar != 0 && written[sig.rightVar]) {
			delete(seen, sig)
			continue
		}
		if earlier, ok := seen[sig]; ok {
			if !earlier.HasValues() || tok.HasValues() {
				continue
			}
			for _, v := range earlier.Values().All() {
				setter.SetTokenValue(settings, tok, v)
			}
			continue
		}
		seen[sig] = tok
	}
}

func isFoldableBinary(tok token.Node) bool {
	if tok.AstOperand1().IsNil() || tok.AstOperand2().IsNil() {
		return false
	}
	switch tok.Tag() {
	case token.ArithmeticOp, token.BitOp:
		return true
	}
	return false
}

func signatureOf(op string, left, right token.Node) (exprSignature, bool) {
	sig := exprSignature{op: op}
	switch {
	case left.VarID() != 0:
		sig.leftVar = left.VarID()
	case left.Tag() == token.Number:
		sig.leftLit = left.Str()
	default:
		return sig, false
	}
	switch {
	case right.VarID() != 0:
		sig.rightVar = right.VarID()
	case right.Tag() == token.Number:
		sig.rightLit = right.Str()
	default:
		return sig, false
	}
	return sig, true
}

// passBitAnd seeds a [0, mask] bound on `x & MASK` when only one operand is known: an AND can
// never exceed whichever operand is known, regardless of the other.
func passBitAnd(settings valueflow.Settings, _ symtab.SymTab, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Tag() != token.BitOp || tok.Str() != "&" || tok.HasValues() {
			continue
		}
		left, right := tok.AstOperand1(), tok.AstOperand2()
		if left.IsNil() || right.IsNil() {
			continue
		}
		leftKnown, leftOK := left.Values().HasKnownInt()
		rightKnown, rightOK := right.Values().HasKnownInt()
		var mask int64
		switch {
		case leftOK && !rightOK:
			mask = leftKnown
		case rightOK && !leftOK:
			mask = rightKnown
		default:
			continue
		}
		if mask < 0 {
			continue
		}
		setter.SetTokenValue(settings, tok, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Upper, Int: mask})
		setter.SetTokenValue(settings, tok, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Lower, Int: 0})
	}
}

// passRightShiftSaturation seeds a [0, max>>N] bound on `x >> N` when x's maximum is known and N
// is a known literal shift count.
func passRightShiftSaturation(settings valueflow.Settings, _ symtab.SymTab, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != ">>" || tok.HasValues() {
			continue
		}
		left, right := tok.AstOperand1(), tok.AstOperand2()
		if left.IsNil() || right.IsNil() {
			continue
		}
		shift, ok := right.Values().HasKnownInt()
		if !ok || shift < 0 || shift >= 63 {
			continue
		}
		maxVal, ok := left.Values().GetMaxValue()
		if !ok || maxVal.Int < 0 {
			continue
		}
		setter.SetTokenValue(settings, tok, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Upper, Int: maxVal.Int >> uint(shift)})
		setter.SetTokenValue(settings, tok, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Lower, Int: 0})
	}
}

// passArrayAsBool seeds a known-truthy fact on a bare array variable used directly as an
// `if`/`while` condition: an array decays to a non-null pointer, so it is always truthy.
func passArrayAsBool(settings valueflow.Settings, symbols symtab.SymTab, start, end token.Node) {
	if symbols == nil {
		return
	}
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.VarID() == 0 || tok.HasValues() {
			continue
		}
		open, closeParen := tok.Prev(), tok.Next()
		if open.IsNil() || closeParen.IsNil() || open.Str() != "(" || closeParen.Str() != ")" {
			continue
		}
		kw := open.Prev()
		if kw.IsNil() || (kw.Str() != "if" && kw.Str() != "while") {
			continue
		}
		v, ok := symbols.Variable(tok.VarID())
		if !ok || !v.IsArray {
			continue
		}
		setter.SetTokenValue(settings, tok, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 1, VarID: value.VarID(tok.VarID())})
	}
}

type arraySlot struct {
	arr token.VarID
	idx int64
}

// passArrayElementAccess remembers the value last written to `arr[C]` for a literal index C, and
// seeds that same value onto a later read of `arr[C]` with the identical literal index.
func passArrayElementAccess(settings valueflow.Settings, _ symtab.SymTab, start, end token.Node) {
	known := make(map[arraySlot]value.Value)
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != "[" {
			continue
		}
		arr, idxTok, closeBr := tok.Prev(), tok.Next(), tok.Link()
		if arr.IsNil() || arr.VarID() == 0 || idxTok.IsNil() || closeBr.IsNil() {
			continue
		}
		idx, ok := idxTok.Values().HasKnownInt()
		if !ok {
			continue
		}
		slot := arraySlot{arr.VarID(), idx}

		if after := closeBr.Next(); !after.IsNil() && after.Str() == "=" {
			if rhs := after.Next(); !rhs.IsNil() {
				if v, ok := rhs.Values().GetKnown(value.INT); ok {
					known[slot] = v
				}
			}
			continue
		}
		if v, ok := known[slot]; ok && !tok.HasValues() {
			setter.SetTokenValue(settings, tok, v)
		}
	}
}
