package library_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/internal/library"
	"go.uber.org/c2goflow/valueflow"
)

func TestMallocIsKnownAllocFunc(t *testing.T) {
	t.Parallel()
	lib := library.New()
	info, ok := lib.AllocFuncInfo("malloc")
	require.True(t, ok)
	require.Equal(t, 0, info.ArgIndex)
}

func TestCallocIsDeliberatelyUnregistered(t *testing.T) {
	t.Parallel()
	lib := library.New()
	_, ok := lib.AllocFuncInfo("calloc")
	require.False(t, ok)
}

func TestQualifiedNamesAreUnqualifiedBeforeLookup(t *testing.T) {
	t.Parallel()
	lib := library.New()
	_, ok := lib.ReallocFuncInfo("::realloc")
	require.True(t, ok)
}

func TestContainerYieldAndActionForVector(t *testing.T) {
	t.Parallel()
	lib := library.New()
	require.Equal(t, valueflow.YieldSize, lib.ContainerYield("std::vector", "size"))
	require.Equal(t, valueflow.Push, lib.ContainerAction("std::vector", "push_back"))
	require.True(t, lib.StdStringLike("std::string"))
	require.True(t, lib.StdAssociativeLike("std::map"))
	require.False(t, lib.StdAssociativeLike("std::vector"))
}

func TestExitIsNoReturn(t *testing.T) {
	t.Parallel()
	lib := library.New()
	require.True(t, lib.IsScopeNoReturn("exit"))
	require.False(t, lib.IsScopeNoReturn("printf"))
}
