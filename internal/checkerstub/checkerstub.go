// Package checkerstub demonstrates the registry interface a rule-based checker would plug into,
// without implementing any concrete check: individual checkers (buffer overflow, use-after-free,
// exception-safety, STL container misuse, and the like) are an external collaborator, the same way
// the preprocessor and library configuration are (see internal/library, internal/symtab). The
// original design behind this registry populated it via process-wide static initializers; this
// package replaces that with an explicit Registry value constructed at program start and passed
// by reference into the analyzer entry point, so registration has no global mutable state and
// tests can build a Registry with exactly the checks they want to exercise.
package checkerstub

import (
	"go.uber.org/c2goflow/diagnostic"
	"go.uber.org/c2goflow/internal/symtab"
	"go.uber.org/c2goflow/token"
)

// CheckFunc is the shape a rule-based checker implements: given a settled token graph (one on
// which Orchestrate has already run the value-flow fixed point) and the symbol records for it,
// return the diagnostics it found. A checker reads facts through the same surface §6 names as
// "exported to checkers" -- token.Node.Values(), value.List.GetKnown/GetValueLE/GetValueGE,
// token.Node.StableKey() for the debug dump -- it never mutates the graph.
type CheckFunc func(list *token.List, symbols symtab.SymTab) []diagnostic.Diagnostic

// Registry holds the checks a run will execute, keyed by name for stable reporting (re-running a
// checker under the same name twice is a registration bug, not a silent overwrite, so Register
// refuses it).
type Registry struct {
	order []string
	byName map[string]CheckFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]CheckFunc)}
}

// Register adds a named check. It panics on a duplicate name, since two checks silently sharing
// one name would make Run's output ambiguous about which check produced which diagnostic --
// exactly the kind of static-initializer surprise an explicit registry exists to avoid.
func (r *Registry) Register(name string, fn CheckFunc) {
	if _, exists := r.byName[name]; exists {
		panic("checkerstub: duplicate check name " + name)
	}
	r.byName[name] = fn
	r.order = append(r.order, name)
}

// Names returns the registered check names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Run executes every registered check, in registration order, over list and symbols, and
// concatenates their diagnostics. A registry with no registered checks (the only shape this
// module ships, since concrete checks are out of scope) returns no diagnostics.
func (r *Registry) Run(list *token.List, symbols symtab.SymTab) []diagnostic.Diagnostic {
	var out []diagnostic.Diagnostic
	for _, name := range r.order {
		out = append(out, r.byName[name](list, symbols)...)
	}
	return out
}
