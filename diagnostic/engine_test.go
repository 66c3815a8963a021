package diagnostic_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/diagnostic"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/valueflow"
)

func newTok(list *token.List, str string, line int) token.Node {
	n := list.PushBack(str)
	n.SetPosition(0, line, 1)
	return n
}

func TestDiagnosticsAreSortedByPosition(t *testing.T) {
	t.Parallel()
	list := token.NewList(token.Cpp)
	later := newTok(list, "b", 10)
	earlier := newTok(list, "a", 2)

	e := diagnostic.NewEngine(false)
	e.AddBailout(later, valueflow.NewBailout("valueFlowBailout", "too complex"))
	e.AddBailout(earlier, valueflow.NewBailout("valueFlowBailout", "too complex"))

	diags := e.Diagnostics()
	require.Len(t, diags, 2)
	require.Equal(t, earlier.StableKey(), diags[0].At.StableKey())
	require.Equal(t, later.StableKey(), diags[1].At.StableKey())
}

func TestUngroupedBailoutsStayDistinct(t *testing.T) {
	t.Parallel()
	list := token.NewList(token.Cpp)
	a := newTok(list, "a", 1)
	b := newTok(list, "b", 2)

	e := diagnostic.NewEngine(false)
	e.AddBailout(a, valueflow.NewBailout("valueFlowBailout", "too complex"))
	e.AddBailout(b, valueflow.NewBailout("valueFlowBailout", "too complex"))

	diags := e.Diagnostics()
	require.Len(t, diags, 2)
}

func TestGroupedBailoutsCollapseWithCount(t *testing.T) {
	t.Parallel()
	list := token.NewList(token.Cpp)
	a := newTok(list, "a", 1)
	b := newTok(list, "b", 2)

	e := diagnostic.NewEngine(true)
	e.AddBailout(a, valueflow.NewBailout("valueFlowBailout", "too complex"))
	e.AddBailout(b, valueflow.NewBailout("valueFlowBailout", "too complex"))

	diags := e.Diagnostics()
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "1 other location")
	require.Contains(t, diags[0].Message, b.StableKey())
}

func TestInternalErrorSeverityRendersDistinctly(t *testing.T) {
	t.Parallel()
	list := token.NewList(token.Cpp)
	tok := newTok(list, "x", 1)

	e := diagnostic.NewEngine(false)
	e.AddInternalError(tok, &valueflow.InternalError{Reason: "broken link partner"})

	diags := e.Diagnostics()
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "internal error")
	require.Contains(t, diags[0].Message, "broken link partner")
}

func TestFlowStepsAreRenderedInOrder(t *testing.T) {
	t.Parallel()
	list := token.NewList(token.Cpp)
	source := newTok(list, "src", 1)
	sink := newTok(list, "sink", 2)
	at := newTok(list, "at", 3)

	e := diagnostic.NewEngine(false)
	e.AddFlow(at, "contradiction", "conflicting bounds", []diagnostic.FlowStep{
		{Text: "assigned here", At: source},
		{Text: "compared here", At: sink},
	})

	diags := e.Diagnostics()
	require.Len(t, diags, 1)
	require.Contains(t, diags[0].Message, "assigned here at")
	require.Contains(t, diags[0].Message, "compared here at")
	require.Less(t, strings.Index(diags[0].Message, "assigned here at"), strings.Index(diags[0].Message, "compared here at"))
}
