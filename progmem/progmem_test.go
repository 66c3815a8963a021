package progmem_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/progmem"
	"go.uber.org/c2goflow/value"
)

func TestSetGetUnset(t *testing.T) {
	t.Parallel()
	m := progmem.New()
	_, ok := m.Get(1)
	require.False(t, ok)

	m.Set(1, value.Value{Type: value.INT, Kind: value.Known, Int: 10})
	v, ok := m.Get(1)
	require.True(t, ok)
	require.Equal(t, int64(10), v.Int)

	m.Unset(1)
	_, ok = m.Get(1)
	require.False(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	m := progmem.New()
	m.Set(1, value.Value{Type: value.INT, Kind: value.Known, Int: 1})

	clone := m.Clone()
	clone.Set(1, value.Value{Type: value.INT, Kind: value.Known, Int: 2})
	clone.Set(2, value.Value{Type: value.INT, Kind: value.Known, Int: 3})

	orig, _ := m.Get(1)
	require.Equal(t, int64(1), orig.Int)
	_, ok := m.Get(2)
	require.False(t, ok)
}
