// Package symtab defines the shape of the symbol database consumed from an upstream,
// pre-existing collaborator (the external interfaces section): scopes, variable
// records, and function records built by a preprocessing stage this module does not implement.
// Table is a minimal in-memory implementation of that shape good enough to drive tests and the
// orchestrator's sub-function-parameter-injection pass; a real deployment wires a preprocessor's
// own symbol-database builder behind the same interfaces instead.
package symtab

import "go.uber.org/c2goflow/token"

// ScopeType classifies what kind of lexical scope a Scope represents.
type ScopeType uint8

const (
	ScopeFunction ScopeType = iota
	ScopeClass
	ScopeStruct
	ScopeNamespace
	ScopeIf
	ScopeElse
	ScopeFor
	ScopeWhile
	ScopeSwitch
	ScopeCase
	ScopeLambda
	ScopeEnum
)

// Scope records one lexical scope's bracket range and lineage, per the symbol-database shape
// `{ start, end, type, function, enclosing-scope }`.
type Scope struct {
	Start, End token.Node
	Type ScopeType
	Function *Function // nil unless Type == ScopeFunction
	Enclosing *Scope
}

// Variable is a symbol-database variable record: `{ declaration_id, name, type-start/end tokens,
// is-local/global/argument/static/const/reference/pointer/array, dimensions, value-type }`.
type Variable struct {
	DeclID token.VarID
	Name string
	TypeStart, TypeEnd token.Node

	IsLocal bool
	IsGlobal bool
	IsArgument bool
	IsStatic bool
	IsConst bool
	IsReference bool
	IsPointer bool
	IsArray bool

	Dimensions []int // one entry per array dimension, -1 for an unsized dimension
	ValueType token.ValueType

	// DefaultStart/DefaultEnd bound an argument's default-value expression (`int x = 3`
	// in a parameter list); both are the nil Node when the parameter has no default.
	DefaultStart, DefaultEnd token.Node
}

// Function is a symbol-database function record: `{ return-def, return-def-end, argument-var
// lookup, function-scope }`.
type Function struct {
	Name string
	ReturnDefStart, ReturnDefEnd token.Node
	Args []*Variable
	Scope *Scope
}

// ArgVariable returns the i'th argument's Variable record, or nil if out of range.
func (f *Function) ArgVariable(i int) *Variable {
	if i < 0 || i >= len(f.Args) {
		return nil
	}
	return f.Args[i]
}

// SymTab is the external interface this module consumes from the symbol database: scope lookup
// by enclosing token, variable lookup by declaration id, and function lookup by its defining
// scope. Passes that need symbol information (sub-function parameter injection,
// uninitialized-variable seeding) take a SymTab rather than a concrete *Table so a real
// preprocessor-backed implementation can be substituted without touching this module's logic.
type SymTab interface {
	ScopeOf(tok token.Node) (*Scope, bool)
	Variable(id token.VarID) (*Variable, bool)
	FunctionOf(scope *Scope) (*Function, bool)
	// FunctionByName looks up a function record by its unqualified name, the lookup a call
	// site needs (sub-function parameter injection, default-argument filling) when all it has
	// is the callee's spelling, not its defining scope.
	FunctionByName(name string) (*Function, bool)
}

// Table is a minimal in-memory SymTab: scopes keyed by their start token's Index, variables keyed
// by declaration id. It is populated directly by tests and by callers driving this module outside
// of a real preprocessor pipeline.
type Table struct {
	scopes map[token.Index]*Scope
	vars map[token.VarID]*Variable
	funcs map[*Scope]*Function
	funcsByName map[string]*Function
}

// NewTable returns an empty Table ready for AddScope/AddVariable/AddFunction calls.
func NewTable() *Table {
	return &Table{
		scopes: make(map[token.Index]*Scope),
		vars: make(map[token.VarID]*Variable),
		funcs: make(map[*Scope]*Function),
		funcsByName: make(map[string]*Function),
	}
}

// AddScope registers a scope, keyed by its start token.
func (t *Table) AddScope(s *Scope) {
	t.scopes[s.Start.Index()] = s
}

// AddVariable registers a variable record, keyed by its declaration id.
func (t *Table) AddVariable(v *Variable) {
	t.vars[v.DeclID] = v
}

// AddFunction registers a function record under its own scope and name. A later registration
// under the same name wins, matching how an overload set resolves to "whichever declaration was
// seen last" absent real overload resolution.
func (t *Table) AddFunction(f *Function) {
	if f.Scope != nil {
		t.funcs[f.Scope] = f
	}
	t.funcsByName[f.Name] = f
}

// ScopeOf returns the scope whose Start token is tok.
func (t *Table) ScopeOf(tok token.Node) (*Scope, bool) {
	s, ok := t.scopes[tok.Index()]
	return s, ok
}

// Variable looks up a variable record by declaration id.
func (t *Table) Variable(id token.VarID) (*Variable, bool) {
	v, ok := t.vars[id]
	return v, ok
}

// FunctionOf returns the function record owning scope, if any.
func (t *Table) FunctionOf(scope *Scope) (*Function, bool) {
	f, ok := t.funcs[scope]
	return f, ok
}

// FunctionByName looks up a function record by its unqualified name.
func (t *Table) FunctionByName(name string) (*Function, bool) {
	f, ok := t.funcsByName[name]
	return f, ok
}
