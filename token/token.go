// Package token implements the token graph: a doubly linked list of lexical tokens enriched
// with a parallel AST overlay, mutual-link pointers for matched brackets, variable identifiers,
// value-type metadata, and per-token value lists.
//
// Every token is addressed by a [Index] into the owning [List]'s arena rather than by a native
// pointer. This keeps the token graph's many pointer cycles (AST parent/child, matched-bracket
// partners) trivially copyable and representable without unsafe code, at the cost of routing all
// navigation back through the owning list.
package token

import (
	"fmt"

	"go.uber.org/c2goflow/value"
)

// Index addresses a single token within the arena of its owning [List]. The zero value addresses
// the arena's first slot; [NoToken] means "no token here".
type Index int32

// NoToken is the sentinel Index meaning "this link is absent".
const NoToken Index = -1

// Valid reports whether idx refers to a real slot.
func (idx Index) Valid() bool { return idx != NoToken }

// Tag classifies a token's lexical role. The set is closed: every token has exactly one tag.
type Tag uint8

const (
	// None is the zero Tag; a freshly allocated token has no classification yet.
	None Tag = iota
	Name
	Keyword
	Type
	Variable
	Function
	Lambda
	Number
	Boolean
	String
	Char
	AssignmentOp
	ArithmeticOp
	BitOp
	LogicalOp
	ComparisonOp
	IncDecOp
	ExtendedOp
	Bracket
	Ellipsis
	Other
)

// Flags is a bitset of secondary lexical properties that don't warrant their own Tag.
type Flags uint32

const (
	FlagUnsigned Flags = 1 << iota
	FlagSigned
	FlagLong
	FlagComplex
	FlagLiteral
	FlagStandardType
	FlagExpandedMacro
	FlagControlFlowKeyword
	FlagTemplateArg
)

// Has reports whether all bits in want are set.
func (f Flags) Has(want Flags) bool { return f&want == want }

// VarID identifies a variable; zero means "not a variable reference".
type VarID uint32

// ExprID identifies an expression for same-expression correlation across the token graph; zero
// means "no expression id assigned".
type ExprID uint32

// ValueType is a lightweight descriptor of a token's static type, enough for the setter/folder
// to reason about width, signedness, and pointer-ness without a full symbol-database lookup.
type ValueType struct {
	Sign Sign
	Width int // in bits; 0 means unknown/non-integral
	Pointer bool
	PointerLvl int
	Container bool // std::vector/map/etc-like container
}

// Sign is the signedness of an integral ValueType.
type Sign uint8

const (
	SignUnknown Sign = iota
	SignSigned
	SignUnsigned
)

// node is the arena-resident payload for one token. It is never referenced directly outside this
// package; external code holds a [Node] handle (list + index) instead.
type node struct {
	str string
	tag Tag
	flags Flags

	varID VarID
	exprID ExprID

	fileIndex int
	line int
	col int

	prev, next Index
	link Index // matched-bracket partner
	astParent Index
	astOp1 Index
	astOp2 Index

	valueType *ValueType
	values *value.List

	originalName string
	scopeInfo any // opaque handle into the external symbol database
	free bool
}

// Node is a handle to one token living in a [List]'s arena. It is a small value type, cheap to
// copy and compare, and is the unit external packages traverse the token graph with.
type Node struct {
	list *List
	idx Index
}

// List returns the owning list.
func (n Node) List() *List { return n.list }

// Index returns the arena index backing this handle.
func (n Node) Index() Index { return n.idx }

// IsNil reports whether this handle refers to no token.
func (n Node) IsNil() bool { return n.list == nil || !n.idx.Valid() }

func (n Node) get() *node { return &n.list.arena[n.idx] }

// Str returns the token's textual form.
func (n Node) Str() string { return n.get().str }

// SetStr sets the token's textual form.
func (n Node) SetStr(s string) { n.get().str = s }

// Tag returns the token's lexical tag.
func (n Node) Tag() Tag { return n.get().tag }

// SetTag sets the token's lexical tag.
func (n Node) SetTag(t Tag) { n.get().tag = t }

// Flags returns the token's flag bitset.
func (n Node) Flags() Flags { return n.get().flags }

// SetFlags replaces the token's flag bitset.
func (n Node) SetFlags(f Flags) { n.get().flags = f }

// AddFlags ORs additional flags into the token's flag bitset.
func (n Node) AddFlags(f Flags) { n.get().flags |= f }

// VarID returns the variable identifier, or 0 if this token is not a variable reference.
func (n Node) VarID() VarID { return n.get().varID }

// SetVarID sets the variable identifier.
func (n Node) SetVarID(id VarID) { n.get().varID = id }

// ExprID returns the expression identifier, or 0 if none assigned.
func (n Node) ExprID() ExprID { return n.get().exprID }

// SetExprID sets the expression identifier.
func (n Node) SetExprID(id ExprID) { n.get().exprID = id }

// FileIndex, Line, Col return source location metadata.
func (n Node) FileIndex() int { return n.get().fileIndex }
func (n Node) Line() int { return n.get().line }
func (n Node) Col() int { return n.get().col }

// SetPosition sets source location metadata in one call.
func (n Node) SetPosition(fileIndex, line, col int) {
	d := n.get()
	d.fileIndex, d.line, d.col = fileIndex, line, col
}

// StableKey returns a debug identifier for this token that stays meaningful across runs and
// across tools reading the exported value dump (file:line:col + normalized text): the basis for
// the "debug dump ... keyed by a stable id string" described in the symbol-database/external-
// interfaces section. File is resolved against the owning list's file table; an out-of-range
// FileIndex (no file table attached, e.g. a synthetic test token) falls back to the bare index.
func (n Node) StableKey() string {
	d := n.get()
	file := fmt.Sprintf("#%d", d.fileIndex)
	if files := n.list.Files; d.fileIndex >= 0 && d.fileIndex < len(files) {
		file = files[d.fileIndex]
	}
	return fmt.Sprintf("%s:%d:%d:%s", file, d.line, d.col, d.str)
}

// ValueType returns the value-type descriptor, or nil if unknown.
func (n Node) ValueType() *ValueType { return n.get().valueType }

// SetValueType sets the value-type descriptor.
func (n Node) SetValueType(vt *ValueType) { n.get().valueType = vt }

// OriginalName returns the pre-macro-expansion spelling, if recorded.
func (n Node) OriginalName() string { return n.get().originalName }

// SetOriginalName records the pre-macro-expansion spelling.
func (n Node) SetOriginalName(s string) { n.get().originalName = s }

// ScopeInfo returns the opaque scope handle attached by the symbol-database stage.
func (n Node) ScopeInfo() any { return n.get().scopeInfo }

// SetScopeInfo attaches an opaque scope handle.
func (n Node) SetScopeInfo(v any) { n.get().scopeInfo = v }

// Values returns this token's value list, creating an empty one on first access so callers can
// append without a nil check. A token that has never been touched by value-flow has a nil list
// internally ("absent == no facts known" per the data model), but callers almost always want to
// mutate it, so we allocate lazily here rather than forcing every caller to do so.
func (n Node) Values() *value.List {
	d := n.get()
	if d.values == nil {
		d.values = value.NewList()
	}
	return d.values
}

// HasValues reports whether any value-flow facts have been recorded on this token, without
// allocating a list as a side effect (unlike [Node.Values]).
func (n Node) HasValues() bool {
	d := n.get()
	return d.values != nil && d.values.Len() > 0
}

// ClearValues discards all value-flow facts recorded on this token.
func (n Node) ClearValues() { n.get().values = nil }

// Next returns the next token in the list, or a nil Node at the end.
func (n Node) Next() Node { return n.list.at(n.get().next) }

// Prev returns the previous token in the list, or a nil Node at the start.
func (n Node) Prev() Node { return n.list.at(n.get().prev) }

// Link returns the matched-bracket partner, or a nil Node if unset.
func (n Node) Link() Node { return n.list.at(n.get().link) }

// SetLink sets the matched-bracket partner pointer on this token only (see [List.LinkTokens] to
// set both sides atomically, which is almost always what callers want per the link-pointer rule).
func (n Node) SetLink(to Node) { n.get().link = idxOf(to) }

// AstParent returns the AST parent, or a nil Node at an expression root.
func (n Node) AstParent() Node { return n.list.at(n.get().astParent) }

// AstOperand1 returns the first AST child (left operand / sole operand of a unary op).
func (n Node) AstOperand1() Node { return n.list.at(n.get().astOp1) }

// AstOperand2 returns the second AST child (right operand of a binary op).
func (n Node) AstOperand2() Node { return n.list.at(n.get().astOp2) }

// SetAstParentRaw sets the AST parent link without any of the cycle-checking or re-parenting
// bookkeeping the [go.uber.org/c2goflow/ast] package's guarded setters perform. Only that
// package (and tests of it) should call this; everyone else must go through
// ast.SetOperand1/ast.SetOperand2.
func (n Node) SetAstParentRaw(p Node) { n.get().astParent = idxOf(p) }

// SetAstOperand1Raw is the unchecked counterpart of [Node.SetAstParentRaw] for the first operand
// slot.
func (n Node) SetAstOperand1Raw(child Node) { n.get().astOp1 = idxOf(child) }

// SetAstOperand2Raw is the unchecked counterpart of [Node.SetAstParentRaw] for the second operand
// slot.
func (n Node) SetAstOperand2Raw(child Node) { n.get().astOp2 = idxOf(child) }

func idxOf(n Node) Index {
	if n.list == nil {
		return NoToken
	}
	return n.idx
}
