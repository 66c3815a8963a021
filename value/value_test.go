package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/value"
)

func TestAddDeduplicates(t *testing.T) {
	t.Parallel()
	l := value.NewList()
	v := value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 42}
	require.True(t, l.Add(v))
	require.False(t, l.Add(v)) // the no-duplicate rule: identical tuple is rejected
	require.Equal(t, 1, l.Len())
}

func TestAddEnforcesCap(t *testing.T) {
	t.Parallel()
	l := value.NewList()
	for i := 0; i < value.Cap; i++ {
		require.True(t, l.Add(value.Value{Type: value.INT, Kind: value.Possible, Bound: value.Point, Int: int64(i)}))
	}
	require.Equal(t, value.Cap, l.Len())
	// One more addition, even of a non-duplicate value, must be silently dropped (the per-token cap).
	require.False(t, l.Add(value.Value{Type: value.INT, Kind: value.Possible, Bound: value.Point, Int: 999}))
	require.Equal(t, value.Cap, l.Len())
}

func TestHasKnownInt(t *testing.T) {
	t.Parallel()
	l := value.NewList()
	_, ok := l.HasKnownInt()
	require.False(t, ok)

	l.Add(value.Value{Type: value.INT, Kind: value.Possible, Bound: value.Point, Int: 1})
	_, ok = l.HasKnownInt()
	require.False(t, ok, "a Possible value must not be reported as known")

	l.Add(value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 42})
	got, ok := l.HasKnownInt()
	require.True(t, ok)
	require.Equal(t, int64(42), got)
}

func TestGetValueLEGE(t *testing.T) {
	t.Parallel()
	l := value.NewList()
	l.Add(value.Value{Type: value.INT, Kind: value.Possible, Bound: value.Point, Int: 0})
	l.Add(value.Value{Type: value.INT, Kind: value.Possible, Bound: value.Point, Int: 9})

	le, ok := l.GetValueLE(9)
	require.True(t, ok)
	require.Equal(t, int64(9), le.Int)

	ge, ok := l.GetValueGE(0)
	require.True(t, ok)
	require.Equal(t, int64(0), ge.Int)

	_, ok = l.GetValueGE(100)
	require.False(t, ok)
}

func TestGetMaxMinValue(t *testing.T) {
	t.Parallel()
	l := value.NewList()
	l.Add(value.Value{Type: value.INT, Kind: value.Possible, Bound: value.Point, Int: -3})
	l.Add(value.Value{Type: value.INT, Kind: value.Possible, Bound: value.Point, Int: 7})
	l.Add(value.Value{Type: value.INT, Kind: value.Impossible, Bound: value.Point, Int: 1000})

	maxV, ok := l.GetMaxValue()
	require.True(t, ok)
	require.Equal(t, int64(7), maxV.Int, "Impossible values must not count toward the max")

	minV, ok := l.GetMinValue()
	require.True(t, ok)
	require.Equal(t, int64(-3), minV.Int)
}

func TestWithErrorStepAppendsWithoutMutatingOriginal(t *testing.T) {
	t.Parallel()
	v := value.Value{Type: value.INT, Kind: value.Known, Int: 1}
	v2 := v.WithErrorStep(value.Position{Line: 10}, "assigned here")
	require.Empty(t, v.ErrorPath)
	require.Len(t, v2.ErrorPath, 1)
	require.Equal(t, "assigned here", v2.ErrorPath[0].Message)
}

func TestDebugStringIncludesKindTypeBoundAndPayload(t *testing.T) {
	t.Parallel()
	v := value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 42, VarID: 7}
	require.Equal(t, "known int(point)=42 var=7", v.DebugString())

	f := value.Value{Type: value.FLOAT, Kind: value.Possible, Bound: value.Lower, Float: 1.5}
	require.Equal(t, "possible float(lower)=1.5", f.DebugString())
}
