// Package diagnostic collects bailouts and internal errors surfaced while analyzing one
// translation unit and turns them into user-facing text. Callers never see a value-flow pass's
// raw error return -- they call Engine.Add* while a pass runs and ask for Diagnostics once the
// orchestrator has finished the unit.
package diagnostic

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/valueflow"
)

// Severity classifies an Entry for sorting and for which messages grouping can safely collapse.
type Severity uint8

const (
	// SeverityBailout is a conservative give-up: a pass stopped reasoning precisely past some
	// construct, not a defect.
	SeverityBailout Severity = iota
	// SeverityInternal is a recovered invariant violation (broken link partner, AST cycle,
	// pattern-matcher misuse).
	SeverityInternal
)

func (s Severity) String() string {
	switch s {
	case SeverityInternal:
		return "internal error"
	default:
		return "bailout"
	}
}

// Entry is one collected bailout or internal error, anchored to the token where it was raised.
type Entry struct {
	At       token.Node
	ID       string
	Reason   string
	Severity Severity
	// Flow optionally records the path from a nilable-equivalent source to the point of
	// conflict, each step a located piece of text. Most bailouts carry no flow at all --
	// only the richer contradiction/overconstraint-style entries populate it.
	Flow []FlowStep

	// similar collects tokens where an entry grouped into this one also occurred. Populated by
	// groupEntries, not by callers.
	similar []token.Node
}

// Diagnostic is one finished, user-facing message tied to a reporting position.
type Diagnostic struct {
	At      token.Node
	Message string
}

// Engine accumulates Entry values during analysis of one translation unit.
type Engine struct {
	groupBailouts bool
	entries       []Entry
}

// NewEngine creates an empty Engine. groupBailouts mirrors Config.GroupBailoutMessages: when
// true, Diagnostics collapses entries that share the same ID and Reason into a single message
// with a trailing count of the other locations, the way repeated instances of the same
// conservative give-up clutter output otherwise.
func NewEngine(groupBailouts bool) *Engine {
	return &Engine{groupBailouts: groupBailouts}
}

// AddBailout records a conservative give-up at the given token.
func (e *Engine) AddBailout(at token.Node, b *valueflow.Bailout) {
	e.entries = append(e.entries, Entry{At: at, ID: b.ID, Reason: b.Reason, Severity: SeverityBailout})
}

// AddInternalError records a recovered invariant violation at the given token.
func (e *Engine) AddInternalError(at token.Node, err *valueflow.InternalError) {
	e.entries = append(e.entries, Entry{At: at, ID: "internalError", Reason: err.Reason, Severity: SeverityInternal})
}

// AddFlow records an entry that additionally carries a located flow trail, e.g. the chain of
// assignments and folds that produced a contradictory pair of facts on the same token.
func (e *Engine) AddFlow(at token.Node, id, reason string, flow []FlowStep) {
	e.entries = append(e.entries, Entry{At: at, ID: id, Reason: reason, Severity: SeverityBailout, Flow: flow})
}

// Diagnostics returns the collected entries as sorted, user-facing Diagnostics. Entries are
// ordered by file index, then line, then column so output is stable across runs that visit
// tokens in varying orders (e.g. parallel seeding passes).
func (e *Engine) Diagnostics() []Diagnostic {
	entries := slices.Clone(e.entries)
	slices.SortFunc(entries, func(a, b Entry) int {
		if n := cmp.Compare(a.At.FileIndex(), b.At.FileIndex()); n != 0 {
			return n
		}
		if n := cmp.Compare(a.At.Line(), b.At.Line()); n != 0 {
			return n
		}
		return cmp.Compare(a.At.Col(), b.At.Col())
	})

	if e.groupBailouts {
		entries = groupEntries(entries)
	}

	diagnostics := make([]Diagnostic, 0, len(entries))
	for _, entry := range entries {
		diagnostics = append(diagnostics, Diagnostic{At: entry.At, Message: entry.String()})
	}
	return diagnostics
}

// String renders one Entry as the message text Diagnostics exposes.
func (e Entry) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s: %s", e.Severity, e.ID, e.Reason)
	for _, step := range e.Flow {
		b.WriteString("\n\t- ")
		b.WriteString(step.String())
	}
	if n := len(e.similar); n > 0 {
		locs := make([]string, n)
		for i, at := range e.similar {
			locs[i] = stableKeyOf(at)
		}
		fmt.Fprintf(&b, "\n(same %s also raised at %d other location(s): %s.)", e.Severity, n, strings.Join(locs, ", "))
	}
	return b.String()
}

func stableKeyOf(n token.Node) string {
	if n.IsNil() {
		return "<no position>"
	}
	return n.StableKey()
}

// groupEntries collapses entries sharing the same (Severity, ID, Reason) key into the first
// occurrence, recording the remaining locations as similar. Mirrors the teacher's conflict
// grouping, keyed on the nil-path string there and on the bailout identity here since this
// layer has no per-conflict flow graph to derive a richer key from.
func groupEntries(entries []Entry) []Entry {
	index := make(map[groupKey]int, len(entries))
	grouped := make([]Entry, 0, len(entries))
	for _, entry := range entries {
		key := groupKey{entry.Severity, entry.ID, entry.Reason}
		if i, ok := index[key]; ok {
			grouped[i].similar = append(grouped[i].similar, entry.At)
			continue
		}
		index[key] = len(grouped)
		grouped = append(grouped, entry)
	}
	return grouped
}

type groupKey struct {
	severity Severity
	id       string
	reason   string
}
