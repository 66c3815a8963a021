package checkerstub_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/diagnostic"
	"go.uber.org/c2goflow/internal/checkerstub"
	"go.uber.org/c2goflow/internal/symtab"
	"go.uber.org/c2goflow/token"
)

func TestRegistryRunsChecksInRegistrationOrder(t *testing.T) {
	t.Parallel()
	r := checkerstub.NewRegistry()
	var order []string
	r.Register("first", func(*token.List, symtab.SymTab) []diagnostic.Diagnostic {
		order = append(order, "first")
		return nil
	})
	r.Register("second", func(*token.List, symtab.SymTab) []diagnostic.Diagnostic {
		order = append(order, "second")
		return nil
	})

	require.Equal(t, []string{"first", "second"}, r.Names())
	r.Run(token.NewList(token.Cpp), nil)
	require.Equal(t, []string{"first", "second"}, order)
}

func TestRegistryRunConcatenatesDiagnostics(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	tok := l.PushBack("x")

	r := checkerstub.NewRegistry()
	r.Register("flag-every-token", func(list *token.List, _ symtab.SymTab) []diagnostic.Diagnostic {
		var out []diagnostic.Diagnostic
		for t := list.Front(); !t.IsNil(); t = t.Next() {
			out = append(out, diagnostic.Diagnostic{At: t, Message: "demo finding"})
		}
		return out
	})

	got := r.Run(l, nil)
	require.Len(t, got, 1)
	require.Equal(t, "demo finding", got[0].Message)
	require.Equal(t, tok.StableKey(), got[0].At.StableKey())
}

func TestRegisterPanicsOnDuplicateName(t *testing.T) {
	t.Parallel()
	r := checkerstub.NewRegistry()
	r.Register("dup", func(*token.List, symtab.SymTab) []diagnostic.Diagnostic { return nil })
	require.Panics(t, func() {
		r.Register("dup", func(*token.List, symtab.SymTab) []diagnostic.Diagnostic { return nil })
	})
}
