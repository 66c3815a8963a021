// Package library implements the library-configuration external interface (§6): a small
// built-in table describing the behaviour of common libc allocation functions and STL-like
// container methods, concrete enough to exercise valueflow/seed.DynamicBufferSize and the
// orchestrator's container-size passes without requiring a real library-database deployment. A
// production deployment replaces Table with one built from an actual library configuration file
// (cppcheck's own library.cfg format is the precedent this module does not reimplement).
package library

import (
	"strings"

	"go.uber.org/c2goflow/valueflow"
)

// Table is a concrete, built-in valueflow.Library. The zero value has no knowledge of any
// function or container; use New for the populated defaults.
type Table struct {
	allocFuncs map[string]valueflow.AllocFuncInfo
	reallocFuncs map[string]valueflow.ReallocFuncInfo
	noReturnFuncs map[string]bool
	returnValues map[string]int64
	notLibraryFuncs map[string]bool

	containerYields map[containerMethod]valueflow.ContainerYield
	containerActions map[containerMethod]valueflow.ContainerAction
	associativeLike map[string]bool
	stringLike map[string]bool
}

type containerMethod struct {
	typeName, methodName string
}

// New returns a Table pre-populated with the common libc allocation functions and STL-like
// container vocabulary named in the library-configuration section of the external interfaces:
// malloc and realloc (calloc and free are not registered), and vector/string/map-shaped
// size/empty/push/pop/clear/insert/erase methods.
func New() *Table {
	t := &Table{
		// calloc(n, size) allocates the product of two arguments, which AllocFuncInfo (a single
		// arg index or a single fixed size) cannot express; it is deliberately left unregistered
		// rather than registered with a wrong size.
		allocFuncs: map[string]valueflow.AllocFuncInfo{
			"malloc": {ArgIndex: 0},
		},
		reallocFuncs: map[string]valueflow.ReallocFuncInfo{
			"realloc": {PtrArgIndex: 0, SizeArgIndex: 1},
		},
		noReturnFuncs: map[string]bool{
			"exit": true, "abort": true, "_Exit": true, "std::terminate": true, "longjmp": true,
		},
		returnValues: map[string]int64{
			"strlen": -1, // -1 means "unknown, non-negative"; callers must treat absence as unknown
		},
		notLibraryFuncs: map[string]bool{},
		containerYields: map[containerMethod]valueflow.ContainerYield{
			{"std::vector", "size"}: valueflow.YieldSize,
			{"std::vector", "empty"}: valueflow.YieldEmpty,
			{"std::vector", "at"}: valueflow.YieldAtIndex,
			{"std::vector", "begin"}: valueflow.YieldStartIterator,
			{"std::vector", "end"}: valueflow.YieldEndIterator,
			{"std::string", "size"}: valueflow.YieldSize,
			{"std::string", "length"}: valueflow.YieldSize,
			{"std::string", "empty"}: valueflow.YieldEmpty,
			{"std::map", "size"}: valueflow.YieldSize,
			{"std::map", "empty"}: valueflow.YieldEmpty,
		},
		containerActions: map[containerMethod]valueflow.ContainerAction{
			{"std::vector", "push_back"}: valueflow.Push,
			{"std::vector", "pop_back"}: valueflow.Pop,
			{"std::vector", "clear"}: valueflow.Clear,
			{"std::vector", "resize"}: valueflow.Resize,
			{"std::vector", "insert"}: valueflow.Insert,
			{"std::vector", "erase"}: valueflow.Erase,
			{"std::vector", "at"}: valueflow.NoAction,
			{"std::vector", "operator[]"}: valueflow.NoAction,
			{"std::map", "insert"}: valueflow.Insert,
			{"std::map", "erase"}: valueflow.Erase,
			{"std::map", "clear"}: valueflow.Clear,
		},
		associativeLike: map[string]bool{
			"std::map": true, "std::unordered_map": true, "std::set": true, "std::unordered_set": true,
		},
		stringLike: map[string]bool{
			"std::string": true, "std::wstring": true,
		},
	}
	return t
}

func unqualify(name string) string {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		return name[i+2:]
	}
	return name
}

// IsNotLibraryFunction reports whether qualifiedName is known to NOT be a library function (i.e.
// it is safe to assume user-defined semantics apply). The default built-in table only lists
// functions it DOES know about, so absence means "no information", not "not a library function";
// this method only returns true for names explicitly marked as such.
func (t *Table) IsNotLibraryFunction(qualifiedName string) bool {
	return t.notLibraryFuncs[qualifiedName]
}

// AllocFuncInfo reports malloc-style allocation behaviour for qualifiedName.
func (t *Table) AllocFuncInfo(qualifiedName string) (valueflow.AllocFuncInfo, bool) {
	info, ok := t.allocFuncs[unqualify(qualifiedName)]
	return info, ok
}

// ReallocFuncInfo reports realloc-style reallocation behaviour for qualifiedName.
func (t *Table) ReallocFuncInfo(qualifiedName string) (valueflow.ReallocFuncInfo, bool) {
	info, ok := t.reallocFuncs[unqualify(qualifiedName)]
	return info, ok
}

// IsScopeNoReturn reports whether a call to qualifiedName never returns (exit, abort, longjmp).
func (t *Table) IsScopeNoReturn(qualifiedName string) bool {
	return t.noReturnFuncs[unqualify(qualifiedName)]
}

// ReturnValue reports a known fixed return value for qualifiedName, if any.
func (t *Table) ReturnValue(qualifiedName string) (int64, bool) {
	v, ok := t.returnValues[unqualify(qualifiedName)]
	if !ok || v < 0 {
		return 0, false
	}
	return v, true
}

// ContainerYield reports what methodName on typeName yields (size/empty/at-index/iterator).
func (t *Table) ContainerYield(typeName, methodName string) valueflow.ContainerYield {
	return t.containerYields[containerMethod{typeName, methodName}]
}

// ContainerAction reports what methodName on typeName does to the container's tracked size.
func (t *Table) ContainerAction(typeName, methodName string) valueflow.ContainerAction {
	return t.containerActions[containerMethod{typeName, methodName}]
}

// StdAssociativeLike reports whether typeName behaves like std::map/std::set for value-flow
// purposes (key-based yield/action semantics rather than index-based).
func (t *Table) StdAssociativeLike(typeName string) bool {
	return t.associativeLike[typeName]
}

// StdStringLike reports whether typeName behaves like std::string.
func (t *Table) StdStringLike(typeName string) bool {
	return t.stringLike[typeName]
}

// IsIntArgValid reports whether v is a valid value for the argIndex'th argument of qualifiedName.
// The built-in table has no per-argument range database, so every value is conservatively valid
// (license to make the safest assumption, as valueflow.Settings' Library doc requires of a nil
// Library -- a populated-but-incomplete Library must fail the same safe way for names it doesn't
// recognize).
func (t *Table) IsIntArgValid(string, int, int64) bool { return true }

// IsFloatArgValid reports whether v is a valid value for the argIndex'th argument of
// qualifiedName. See IsIntArgValid.
func (t *Table) IsFloatArgValid(string, int, float64) bool { return true }
