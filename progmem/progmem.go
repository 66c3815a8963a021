// Package progmem implements program memory: a small, copy-cheap mapping from variable
// identifier to a single assumed [value.Value], used by the condition handler and the
// setter/folder to evaluate a condition under an assumption without mutating the real token
// graph. It is not shared across analysis threads.
package progmem

import "go.uber.org/c2goflow/value"

// Memory maps a variable id to the single value assumed for it along one analysis path.
type Memory map[value.VarID]value.Value

// New returns an empty Memory.
func New() Memory { return make(Memory) }

// Clone returns a shallow copy of m, safe to mutate independently. Memory is small enough
// (typically a handful of entries per condition evaluation) that a plain map copy is cheap.
func (m Memory) Clone() Memory {
	out := make(Memory, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Set assumes v for variable id within this Memory.
func (m Memory) Set(id value.VarID, v value.Value) { m[id] = v }

// Get returns the assumed value for id, if any.
func (m Memory) Get(id value.VarID) (value.Value, bool) {
	v, ok := m[id]
	return v, ok
}

// Unset removes any assumption about id.
func (m Memory) Unset(id value.VarID) { delete(m, id) }
