package reverse_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/value"
	"go.uber.org/c2goflow/valueflow/reverse"
)

func known(i int64) value.Value {
	return value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: i}
}

func push(l *token.List, varID token.VarID, words ...string) (first, last token.Node) {
	for i, w := range words {
		tok := l.PushBack(w)
		if w == "x" {
			tok.SetVarID(varID)
		}
		if i == 0 {
			first = tok
		}
		last = tok
	}
	return first, last
}

func TestPostfixIncrementInvertsBackward(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	const varID = token.VarID(1)
	_, last := push(l, varID, "use", "(", "x", ")", ";")
	_ = last
	// Walk backward from the use site's "x" at position 6, through "x ++" inserted before it.
	l2 := token.NewList(token.Cpp)
	_, _ = push(l2, varID, "x", "++", ";", "use", "(", "x", ")", ";")
	start := l2.Back().Prev().Prev() // the second "x" (the use)
	var begin token.Node
	for cur := l2.Front(); !cur.IsNil(); cur = cur.Next() {
		begin = cur
		break
	}

	got, ok := reverse.Walk(start, token.Node{}, varID, []value.Value{known(6)})
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, int64(5), got[0].Int)
	_ = begin
}

func TestCompoundAssignInvertsBackward(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	const varID = token.VarID(1)
	_, _ = push(l, varID, "x", "+=", "3", ";", "use", "(", "x", ")", ";")
	start := l.Back().Prev().Prev()

	got, ok := reverse.Walk(start, token.Node{}, varID, []value.Value{known(8)})
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, int64(5), got[0].Int)
}

func TestPlainReassignmentSeversHistory(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	const varID = token.VarID(1)
	_, _ = push(l, varID, "x", "=", "5", ";", "use", "(", "x", ")", ";")
	start := l.Back().Prev().Prev()

	_, ok := reverse.Walk(start, token.Node{}, varID, []value.Value{known(5)})
	require.False(t, ok)
}

func TestAddressOfBailsOutBackward(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	const varID = token.VarID(1)
	_, _ = push(l, varID, "foo", "(", "&", "x", ")", ";", "use", "(", "x", ")", ";")
	start := l.Back().Prev().Prev()

	_, ok := reverse.Walk(start, token.Node{}, varID, []value.Value{known(5)})
	require.False(t, ok)
}

func TestBraceCrossingBailsOut(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	const varID = token.VarID(1)
	l.PushBack("{")
	xTok := l.PushBack("x")
	xTok.SetVarID(varID)
	l.PushBack("++")
	l.PushBack(";")
	closeBrace := l.PushBack("}")
	l.PushBack("use")
	l.PushBack("(")
	x2 := l.PushBack("x")
	x2.SetVarID(varID)
	l.PushBack(")")
	l.PushBack(";")
	_ = closeBrace

	_, ok := reverse.Walk(x2, token.Node{}, varID, []value.Value{known(6)})
	require.False(t, ok)
}
