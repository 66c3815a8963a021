package condition_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/value"
	"go.uber.org/c2goflow/valueflow"
	"go.uber.org/c2goflow/valueflow/condition"
	"go.uber.org/c2goflow/valueflow/forward"
)

func known(i int64) value.Value {
	return value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: i}
}

func forwardHook(start, end token.Node, varID token.VarID, values []value.Value) ([]value.Value, bool) {
	return forward.Walk(valueflow.DefaultSettings(), start, end, varID, values)
}

// buildIfElseReassign builds: if (x == 5) { x = 1; } else { x = 2; } and returns the if token.
func buildIfElseReassign(l *token.List, varID token.VarID) token.Node {
	ifTok := l.PushBack("if")
	open := l.PushBack("(")
	xTok := l.PushBack("x")
	xTok.SetVarID(varID)
	l.PushBack("==")
	l.PushBack("5")
	closeParen := l.PushBack(")")
	l.LinkTokens(open, closeParen)
	openBrace := l.PushBack("{")
	x2 := l.PushBack("x")
	x2.SetVarID(varID)
	l.PushBack("=")
	l.PushBack("1")
	l.PushBack(";")
	closeBrace := l.PushBack("}")
	l.LinkTokens(openBrace, closeBrace)
	l.PushBack("else")
	openBrace2 := l.PushBack("{")
	x3 := l.PushBack("x")
	x3.SetVarID(varID)
	l.PushBack("=")
	l.PushBack("2")
	l.PushBack(";")
	closeBrace2 := l.PushBack("}")
	l.LinkTokens(openBrace2, closeBrace2)
	return ifTok
}

func TestProcessIfPartitionsAndReassignsBothArms(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	const varID = token.VarID(1)
	ifTok := buildIfElseReassign(l, varID)

	h := condition.NewHandler(nil, forwardHook)
	_, got, ok := h.ProcessIf(l.Front(), ifTok, varID, []value.Value{known(5)})
	require.True(t, ok)
	require.Empty(t, got)
}

// buildIfReturnNoElse builds: if (x == 0) { return; } use(x);
func buildIfReturnNoElse(l *token.List, varID token.VarID) token.Node {
	ifTok := l.PushBack("if")
	open := l.PushBack("(")
	xTok := l.PushBack("x")
	xTok.SetVarID(varID)
	l.PushBack("==")
	l.PushBack("0")
	closeParen := l.PushBack(")")
	l.LinkTokens(open, closeParen)
	openBrace := l.PushBack("{")
	l.PushBack("return")
	l.PushBack(";")
	closeBrace := l.PushBack("}")
	l.LinkTokens(openBrace, closeBrace)
	return ifTok
}

func TestProcessIfEscapingThenPropagatesFalseArm(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	const varID = token.VarID(1)
	ifTok := buildIfReturnNoElse(l, varID)

	h := condition.NewHandler(nil, forwardHook)
	_, got, ok := h.ProcessIf(l.Front(), ifTok, varID, []value.Value{known(0), known(7)})
	require.True(t, ok)
	// After the if, only the false-branch (x != 0) survives: known(0) took the escaping then-arm
	// and is gone, known(7) took the false arm and falls through, and the false arm additionally
	// learned that x == 0 is impossible there.
	require.Len(t, got, 2)
	var sawSeven, sawImpossibleZero bool
	for _, v := range got {
		if v.Kind == value.Known && v.Int == 7 {
			sawSeven = true
		}
		if v.Kind == value.Impossible && v.Int == 0 {
			sawImpossibleZero = true
		}
	}
	require.True(t, sawSeven)
	require.True(t, sawImpossibleZero)
}

func TestEvaluateConditionHandlesNegation(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	const varID = token.VarID(1)
	not := l.PushBack("!")
	xTok := l.PushBack("x")
	xTok.SetVarID(varID)
	eq := l.PushBack("==")
	zero := l.PushBack("0")
	_ = eq
	_ = zero

	matched, isTrue := condition.EvaluateCondition(not, varID, known(0))
	require.True(t, matched)
	require.False(t, isTrue) // !(0 == 0) is false
}

func TestEvaluateConditionTopLevelAnd(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	const varID = token.VarID(1)
	xTok := l.PushBack("x")
	xTok.SetVarID(varID)
	l.PushBack(">")
	l.PushBack("0")
	l.PushBack("&&")
	yTok := l.PushBack("x")
	yTok.SetVarID(varID)
	l.PushBack("<")
	l.PushBack("10")

	matched, isTrue := condition.EvaluateCondition(xTok, varID, known(5))
	require.True(t, matched)
	require.True(t, isTrue)

	matched2, isTrue2 := condition.EvaluateCondition(xTok, varID, known(20))
	require.True(t, matched2)
	require.False(t, isTrue2)
}
