// Package value implements the discriminated Value record carried on tokens by the value-flow
// engine, along with the per-token [List] that owns a token's value set and enforces its
// size cap. The pairwise non-contradiction sweep over a List runs in valueflow/setter.
package value

import "fmt"

func (t Type) String() string {
	switch t {
	case INT:
		return "int"
	case FLOAT:
		return "float"
	case TOK:
		return "tok"
	case MOVED:
		return "moved"
	case UNINIT:
		return "uninit"
	case BUFFER_SIZE:
		return "buffer_size"
	case CONTAINER_SIZE:
		return "container_size"
	case ITERATOR_START:
		return "iterator_start"
	case ITERATOR_END:
		return "iterator_end"
	case LIFETIME:
		return "lifetime"
	case SYMBOLIC:
		return "symbolic"
	default:
		return "unknown"
	}
}

func (b Bound) String() string {
	switch b {
	case Point:
		return "point"
	case Lower:
		return "lower"
	case Upper:
		return "upper"
	default:
		return "unknown"
	}
}

// Kind classifies how certain a Value is.
type Kind uint8

const (
	// Possible indicates the token may hold this value along some path.
	Possible Kind = iota
	// Known indicates the token definitely holds this value on every path reaching it; a Known
	// value overrides and erases a Possible value of the same type.
	Known
	// Impossible records a fact of the form "value != x" or "value is outside bound".
	Impossible
	// Inconclusive indicates the analysis could not fully determine this value but still has
	// partial information worth reporting (with reduced confidence).
	Inconclusive
)

func (k Kind) String() string {
	switch k {
	case Possible:
		return "possible"
	case Known:
		return "known"
	case Impossible:
		return "impossible"
	case Inconclusive:
		return "inconclusive"
	default:
		return "unknown"
	}
}

// Type is the domain a Value's payload belongs to.
type Type uint8

const (
	INT Type = iota
	FLOAT
	TOK
	MOVED
	UNINIT
	BUFFER_SIZE
	CONTAINER_SIZE
	ITERATOR_START
	// ITERATOR_END marks an end-iterator value. No code in this module creates ITERATOR_START or
	// ITERATOR_END values.
	ITERATOR_END
	LIFETIME
	SYMBOLIC
)

// Bound is whether an integer Value is an exact point, a lower bound, or an upper bound.
type Bound uint8

const (
	Point Bound = iota
	Lower
	Upper
)

// MoveKind classifies a MOVED value.
type MoveKind uint8

const (
	NotMoved MoveKind = iota
	MovedVariable
	ForwardedVariable
)

// LifetimeKind classifies what a LIFETIME value's referent is.
type LifetimeKind uint8

const (
	LifetimeObject LifetimeKind = iota
	LifetimeSubObject
	LifetimeLambda
	LifetimeIterator
	LifetimeArgument
)

// LifetimeScope classifies the scope a LIFETIME value's referent lives in.
type LifetimeScope uint8

const (
	ScopeLocal LifetimeScope = iota
	ScopeArgument
	ScopeThisValue
	ScopeSubObject
)

// VarID identifies a variable in the value model. It deliberately does not share a type with
// token.VarID: the two packages must not import each other (the token graph owns value lists,
// not the reverse), so call sites convert explicitly at the boundary.
type VarID uint32

// Position is a minimal, import-free source location used by ErrorPath entries and Condition
// references, so this package does not need to depend on the token package.
type Position struct {
	FileIndex, Line, Col int
}

// ErrorStep is one entry of a Value's error path: an ordered trail of (location, message) used
// to explain to the end user how a value-flow fact was derived.
type ErrorStep struct {
	Pos Position
	Message string
}

// Condition references the token (by stable text + position, to stay import-free) that a Value's
// derivation was conditioned on, e.g. the `if (x)` that caused `x` to carry an Impossible 0 in
// the then-branch.
type Condition struct {
	Pos Position
	Text string
}

// Value is the tagged record of : a fact about the set of runtime values a token's
// expression may hold.
type Value struct {
	Kind Kind
	Type Type
	Bound Bound

	Int int64 // integer payload, also used as symbolic delta for SYMBOLIC
	Float float64 // float payload
	Tok string // token payload: string/array/symbolic referent spelling

	Move MoveKind
	LifeKind LifetimeKind
	LifeScope LifetimeScope

	VarID VarID // the variable this value is asserted about (0 = none)
	VarValue int64 // concrete value when compound, e.g. "x == 3" paired with VarID(x)

	Indirect int // 0 = value itself, 1 = one level of dereference,...
	Path int // distinguishes mutually exclusive analysis paths (see above)

	Condition *Condition
	ErrorPath []ErrorStep

	Inconclusive bool
	DefaultArg bool
	Safe bool

	// Conditional marks a value derived from a ternary whose condition could not be statically
	// resolved; such values are demoted to Possible before being propagated further.
	Conditional bool

	// WideIntValue records the pre-truncation integer when an implicit-conversion truncation
	// narrowed Int to a smaller width. Nil unless a truncation occurred.
	WideIntValue *int64
}

// dedupeKey is the tuple the no-duplicate rule requires to be unique per token: no two values may share
// (Type, Kind, Bound, Int, VarID, Path).
type dedupeKey struct {
	typ Type
	kind Kind
	bound Bound
	i int64
	varID VarID
	path int
}

func (v Value) key() dedupeKey {
	return dedupeKey{typ: v.Type, kind: v.Kind, bound: v.Bound, i: v.Int, varID: v.VarID, path: v.Path}
}

// ContradictsPoint reports whether v and other are in direct contradiction under the
// point-contradiction rule used by the contradiction sweep: two Point values of the same Type
// with the same payload, one Impossible and one Known.
func (v Value) ContradictsPoint(other Value) bool {
	if v.Type != other.Type || v.Bound != Point || other.Bound != Point {
		return false
	}
	if v.Int != other.Int {
		return false
	}
	return (v.Kind == Impossible && other.Kind == Known) || (v.Kind == Known && other.Kind == Impossible)
}

// DebugString renders v as a single-line human-readable fact, the per-value half of the
// "debug dump of every token's value set, keyed by a stable id string" ( exported-to-
// checkers interface): kind, type, bound, and whichever payload field that type actually uses.
func (v Value) DebugString() string {
	payload := ""
	switch v.Type {
	case FLOAT:
		payload = fmt.Sprintf("%g", v.Float)
	case TOK, SYMBOLIC:
		payload = v.Tok
	case MOVED:
		payload = fmt.Sprintf("move=%d", v.Move)
	default:
		payload = fmt.Sprintf("%d", v.Int)
	}
	s := fmt.Sprintf("%s %s(%s)=%s", v.Kind, v.Type, v.Bound, payload)
	if v.VarID != 0 {
		s += fmt.Sprintf(" var=%d", v.VarID)
	}
	if v.Path != 0 {
		s += fmt.Sprintf(" path=%d", v.Path)
	}
	if v.Inconclusive {
		s += " inconclusive"
	}
	return s
}

// WithErrorStep returns a copy of v with an additional error-path entry appended, used by the
// forward/reverse walkers and the setter to build up a diagnostic trail as a value propagates.
func (v Value) WithErrorStep(pos Position, msg string) Value {
	steps := make([]ErrorStep, len(v.ErrorPath), len(v.ErrorPath)+1)
	copy(steps, v.ErrorPath)
	v.ErrorPath = append(steps, ErrorStep{Pos: pos, Message: msg})
	return v
}
