package orchestrator_test

import (
	"bytes"
	"encoding/gob"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/internal/symtab"
	"go.uber.org/c2goflow/orchestrator"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/value"
)

func TestCollectRecordsGlobalAndStaticVariablesByName(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	toks := build(l, []spec{
		{str: "g", varID: 1}, {str: "="}, {str: "7", tag: token.Number}, {str: ";"},
		{str: "local", varID: 2}, {str: "="}, {str: "9", tag: token.Number}, {str: ";"},
	})

	symbols := symtab.NewTable()
	symbols.AddVariable(&symtab.Variable{DeclID: 1, Name: "g", IsGlobal: true})
	symbols.AddVariable(&symtab.Variable{DeclID: 2, Name: "local", IsLocal: true})

	toks[0].Values().Add(value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 7})
	toks[4].Values().Add(value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 9})

	facts := orchestrator.Collect(symbols, l.Front(), token.Node{})
	require.Equal(t, 1, facts.Len())

	got, ok := facts.Lookup("g")
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, int64(7), got[0].Int)

	_, ok = facts.Lookup("local")
	require.False(t, ok)
}

func TestCollectMergesDistinctFactsAcrossOccurrences(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	toks := build(l, []spec{
		{str: "g", varID: 1}, {str: ";"},
		{str: "g", varID: 1}, {str: ";"},
	})
	toks[0].Values().Add(value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 1})
	toks[2].Values().Add(value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 2})

	symbols := symtab.NewTable()
	symbols.AddVariable(&symtab.Variable{DeclID: 1, Name: "g", IsGlobal: true})

	facts := orchestrator.Collect(symbols, l.Front(), token.Node{})
	got, ok := facts.Lookup("g")
	require.True(t, ok)
	require.Len(t, got, 2)
}

func TestApplySeedsRecordedFactsOntoAnotherGraph(t *testing.T) {
	t.Parallel()
	src := token.NewList(token.Cpp)
	srcToks := build(src, []spec{{str: "g", varID: 1}, {str: ";"}})
	srcToks[0].Values().Add(value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 42})
	srcSymbols := symtab.NewTable()
	srcSymbols.AddVariable(&symtab.Variable{DeclID: 1, Name: "g", IsGlobal: true})
	facts := orchestrator.Collect(srcSymbols, src.Front(), token.Node{})

	dst := token.NewList(token.Cpp)
	dstToks := build(dst, []spec{{str: "g", varID: 9}, {str: ";"}})
	dstSymbols := symtab.NewTable()
	dstSymbols.AddVariable(&symtab.Variable{DeclID: 9, Name: "g", IsGlobal: true})

	orchestrator.Apply(facts, dstSymbols, dst.Front(), token.Node{})

	found := false
	for _, v := range dstToks[0].Values().All() {
		if v.Type == value.INT && v.Kind == value.Known && v.Int == 42 {
			found = true
		}
	}
	require.True(t, found)
}

func TestSeedFactsGobRoundTrip(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	toks := build(l, []spec{{str: "g", varID: 1}, {str: ";"}})
	toks[0].Values().Add(value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 3})
	symbols := symtab.NewTable()
	symbols.AddVariable(&symtab.Variable{DeclID: 1, Name: "g", IsGlobal: true})
	facts := orchestrator.Collect(symbols, l.Front(), token.Node{})

	var buf bytes.Buffer
	require.NoError(t, gob.NewEncoder(&buf).Encode(facts))

	decoded := orchestrator.NewSeedFacts()
	require.NoError(t, gob.NewDecoder(&buf).Decode(decoded))

	got, ok := decoded.Lookup("g")
	require.True(t, ok)
	require.Len(t, got, 1)
	require.Equal(t, int64(3), got[0].Int)
}
