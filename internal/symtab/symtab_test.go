package symtab_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/internal/symtab"
	"go.uber.org/c2goflow/token"
)

func TestTableRoundTripsScopeVariableAndFunction(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	start := l.PushBack("{")
	end := l.PushBack("}")
	l.LinkTokens(start, end)

	table := symtab.NewTable()
	scope := &symtab.Scope{Start: start, End: end, Type: symtab.ScopeFunction}
	table.AddScope(scope)

	v := &symtab.Variable{DeclID: 1, Name: "x", IsLocal: true}
	table.AddVariable(v)

	fn := &symtab.Function{Name: "f", Scope: scope, Args: []*symtab.Variable{v}}
	table.AddFunction(fn)

	gotScope, ok := table.ScopeOf(start)
	require.True(t, ok)
	require.Same(t, scope, gotScope)

	gotVar, ok := table.Variable(1)
	require.True(t, ok)
	require.Same(t, v, gotVar)

	gotFn, ok := table.FunctionOf(scope)
	require.True(t, ok)
	require.Same(t, fn, gotFn)
	require.Same(t, v, gotFn.ArgVariable(0))
	require.Nil(t, gotFn.ArgVariable(5))

	byName, ok := table.FunctionByName("f")
	require.True(t, ok)
	require.Same(t, fn, byName)

	_, ok = table.FunctionByName("nope")
	require.False(t, ok)
}
