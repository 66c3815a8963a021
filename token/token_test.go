package token_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/token"
)

func buildList(t *testing.T, words ...string) *token.List {
	t.Helper()
	l := token.NewList(token.Cpp)
	for _, w := range words {
		l.PushBack(w)
	}
	return l
}

func collect(l *token.List) []string {
	var out []string
	for tok := l.Front(); !tok.IsNil(); tok = tok.Next() {
		out = append(out, tok.Str())
	}
	return out
}

func TestPushFrontBack(t *testing.T) {
	t.Parallel()
	l := buildList(t, "int", "x", ";")
	require.Equal(t, []string{"int", "x", ";"}, collect(l))
	require.Equal(t, "int", l.Front().Str())
	require.Equal(t, ";", l.Back().Str())

	l.PushFront("static")
	require.Equal(t, []string{"static", "int", "x", ";"}, collect(l))
	require.Equal(t, "static", l.Front().Str())
}

// TestInvariantI1 checks that every adjacent pair satisfies a.next == b && b.prev == a after a
// sequence of mutations ( invariant 1).
func TestInvariantI1(t *testing.T) {
	t.Parallel()
	l := buildList(t, "a", "b", "c", "d")
	mid := l.Front().Next()
	l.Insert(mid, "x", true)
	l.DeleteNext(l.Front(), 1)

	for tok := l.Front(); !tok.IsNil(); tok = tok.Next() {
		if nxt := tok.Next(); !nxt.IsNil() {
			require.True(t, nxt.Prev().Index() == tok.Index(), "broken I1 link at %q -> %q", tok.Str(), nxt.Str())
		}
	}
}

func TestInsertEmptyStringReplacesInPlace(t *testing.T) {
	t.Parallel()
	l := buildList(t, "a", "", "c")
	mid := l.Front().Next()
	replaced := l.Insert(mid, "b", false)
	require.Equal(t, mid.Index(), replaced.Index())
	require.Equal(t, []string{"a", "b", "c"}, collect(l))
}

func TestDeleteNextPrev(t *testing.T) {
	t.Parallel()
	l := buildList(t, "a", "b", "c", "d", "e")
	l.DeleteNext(l.Front(), 2) // removes b, c
	require.Equal(t, []string{"a", "d", "e"}, collect(l))

	last := l.Back()
	l.DeletePrev(last, 1) // removes d
	require.Equal(t, []string{"a", "e"}, collect(l))
}

func TestLinkTokensInvariantI2(t *testing.T) {
	t.Parallel()
	l := buildList(t, "(", "x", ")")
	open, _, close := l.Front(), l.Front().Next(), l.Back()
	l.LinkTokens(open, close)
	require.Equal(t, close.Index(), open.Link().Index())
	require.Equal(t, open.Index(), close.Link().Index())

	// Deleting one side of a link must null the other (the link-pointer rule: a.link==b implies
	// b.link==a or b.link==nil).
	l.DeleteNext(l.Front().Next(), 1) // deletes close (the token after "x")
	require.True(t, open.Link().IsNil())
}

func TestSwapWithNextPreservesExternalReferences(t *testing.T) {
	t.Parallel()
	l := buildList(t, "a", "b", "c")
	a := l.Front()
	b := a.Next()
	l.SwapWithNext(a)
	require.Equal(t, []string{"b", "a", "c"}, collect(l))
	// The handle `a` still refers to the first slot, which now holds "b"'s old data.
	require.Equal(t, "b", a.Str())
	require.Equal(t, "a", b.Str())
}

func TestDeleteThisPreservesExternalHandle(t *testing.T) {
	t.Parallel()
	l := buildList(t, "a", "b", "c")
	a := l.Front()
	l.DeleteThis(a)
	require.Equal(t, []string{"b", "c"}, collect(l))
	// `a`'s handle now carries "b"'s data in place, so external references to the original slot
	// remain valid Delete-this.
	require.Equal(t, "b", a.Str())
}

func TestMove(t *testing.T) {
	t.Parallel()
	l := buildList(t, "a", "b", "c", "d", "e")
	b, c, e := l.Front().Next(), l.Front().Next().Next(), l.Back()
	l.Move(b, c, e)
	require.Equal(t, []string{"a", "d", "e", "b", "c"}, collect(l))
}

func TestReplace(t *testing.T) {
	t.Parallel()
	l := buildList(t, "a", "victim", "d", "b", "c")
	victim := l.Front().Next()
	l.Replace(victim, l.Back().Prev(), l.Back())
	require.Equal(t, []string{"a", "b", "c", "d"}, collect(l))
}

func TestValuesLazyAllocation(t *testing.T) {
	t.Parallel()
	l := buildList(t, "x")
	tok := l.Front()
	require.False(t, tok.HasValues())

	vs := tok.Values()
	require.NotNil(t, vs)
	require.False(t, tok.HasValues()) // still empty until something is added
}

func TestStableKeyUsesFileTableAndFallsBackToIndex(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	l.Files = []string{"main.c"}
	tok := l.PushBack("x")
	tok.SetPosition(0, 12, 3)
	require.Equal(t, "main.c:12:3:x", tok.StableKey())

	tok2 := l.PushBack("y")
	tok2.SetPosition(5, 1, 1)
	require.Equal(t, "#5:1:1:y", tok2.StableKey())
}
