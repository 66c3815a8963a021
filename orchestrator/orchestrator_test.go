package orchestrator_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/ast"
	"go.uber.org/c2goflow/internal/symtab"
	"go.uber.org/c2goflow/orchestrator"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/value"
	"go.uber.org/c2goflow/valueflow"
)

type spec struct {
	str   string
	varID token.VarID
	tag   token.Tag
}

func build(l *token.List, specs []spec) []token.Node {
	toks := make([]token.Node, len(specs))
	for i, s := range specs {
		tok := l.PushBack(s.str)
		if s.varID != 0 {
			tok.SetVarID(s.varID)
		}
		if s.tag != token.None {
			tok.SetTag(s.tag)
		}
		toks[i] = tok
	}
	return toks
}

func hasKnownInt(t *testing.T, tok token.Node, typ value.Type, want int64) bool {
	t.Helper()
	for _, v := range tok.Values().All() {
		if v.Type == typ && v.Kind == value.Known && v.Bound == value.Point && v.Int == want {
			return true
		}
	}
	return false
}

func TestOrchestrateThreadsAssignmentToLaterOccurrence(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	toks := build(l, []spec{
		{str: "x", varID: 1}, {str: "="}, {str: "5", tag: token.Number}, {str: ";"},
		{str: "y", varID: 2}, {str: "="}, {str: "x", varID: 1}, {str: "+"}, {str: "1", tag: token.Number}, {str: ";"},
	})

	result := orchestrator.Orchestrate(l, valueflow.DefaultSettings(), nil)
	require.GreaterOrEqual(t, result.Rounds, 1)
	require.False(t, result.TimedOut)
	require.True(t, hasKnownInt(t, toks[6], value.INT, 5))
}

func TestResetClearsValuesForARerun(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	toks := build(l, []spec{
		{str: "x", varID: 1}, {str: "="}, {str: "5", tag: token.Number}, {str: ";"},
		{str: "y", varID: 2}, {str: "="}, {str: "x", varID: 1}, {str: "+"}, {str: "1", tag: token.Number}, {str: ";"},
	})

	orchestrator.Orchestrate(l, valueflow.DefaultSettings(), nil)
	require.True(t, hasKnownInt(t, toks[6], value.INT, 5))

	orchestrator.Reset(l)
	for _, tok := range toks {
		require.Zero(t, tok.Values().Len())
	}

	orchestrator.Orchestrate(l, valueflow.DefaultSettings(), nil)
	require.True(t, hasKnownInt(t, toks[6], value.INT, 5))
}

func TestOrchestrateInfersEqualityInsideTrueBranch(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	toks := build(l, []spec{
		{str: "if"}, {str: "("}, {str: "x", varID: 1}, {str: "=="}, {str: "5", tag: token.Number}, {str: ")"},
		{str: "{"}, {str: "y", varID: 2}, {str: "="}, {str: "x", varID: 1}, {str: ";"}, {str: "}"},
	})
	l.LinkTokens(toks[6], toks[11])

	orchestrator.Orchestrate(l, valueflow.DefaultSettings(), nil)
	require.True(t, hasKnownInt(t, toks[9], value.INT, 5))
}

func TestOrchestrateSeedsSwitchCaseVariable(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	toks := build(l, []spec{
		{str: "switch"}, {str: "("}, {str: "x", varID: 1}, {str: ")"}, {str: "{"},
		{str: "case"}, {str: "1", tag: token.Number}, {str: ":"},
		{str: "y", varID: 2}, {str: "="}, {str: "x", varID: 1}, {str: ";"},
		{str: "break"}, {str: ";"}, {str: "}"},
	})
	l.LinkTokens(toks[4], toks[14])

	orchestrator.Orchestrate(l, valueflow.DefaultSettings(), nil)
	require.True(t, hasKnownInt(t, toks[10], value.INT, 1))
}

func TestOrchestrateSeedsUninitializedLocalAndThreadsIt(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	toks := build(l, []spec{
		{str: "int"}, {str: "x", varID: 1}, {str: ";"},
		{str: "y", varID: 2}, {str: "="}, {str: "x", varID: 1}, {str: ";"},
	})

	symbols := symtab.NewTable()
	symbols.AddVariable(&symtab.Variable{DeclID: 1, Name: "x", IsLocal: true})

	orchestrator.Orchestrate(l, valueflow.DefaultSettings(), symbols)
	require.True(t, hasKnownInt(t, toks[1], value.UNINIT, 0))
	require.True(t, hasKnownInt(t, toks[5], value.UNINIT, 0))
}

func TestOrchestrateBoundsBitAndByTheKnownOperand(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	toks := build(l, []spec{
		{str: "x", varID: 1}, {str: "&", tag: token.BitOp}, {str: "255", tag: token.Number}, {str: ";"},
	})
	require.NoError(t, ast.SetOperand1(toks[1], toks[0]))
	require.NoError(t, ast.SetOperand2(toks[1], toks[2]))

	orchestrator.Orchestrate(l, valueflow.DefaultSettings(), nil)
	and := toks[1]
	foundUpper, foundLower := false, false
	for _, v := range and.Values().All() {
		if v.Type == value.INT && v.Kind == value.Known && v.Bound == value.Upper && v.Int == 255 {
			foundUpper = true
		}
		if v.Type == value.INT && v.Kind == value.Known && v.Bound == value.Lower && v.Int == 0 {
			foundLower = true
		}
	}
	require.True(t, foundUpper)
	require.True(t, foundLower)
}

func TestOrchestrateSeedsPointerAliasLifetime(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	toks := build(l, []spec{
		{str: "p", varID: 2}, {str: "="}, {str: "&"}, {str: "x", varID: 1}, {str: ";"},
	})
	require.NoError(t, ast.SetOperand1(toks[1], toks[0]))
	require.NoError(t, ast.SetOperand2(toks[1], toks[2]))
	require.NoError(t, ast.SetOperand1(toks[2], toks[3]))

	orchestrator.Orchestrate(l, valueflow.DefaultSettings(), nil)
	p := toks[0]
	found := false
	for _, v := range p.Values().All() {
		if v.Type == value.LIFETIME && v.Kind == value.Known && v.VarID == value.VarID(1) {
			found = true
		}
	}
	require.True(t, found)
}
