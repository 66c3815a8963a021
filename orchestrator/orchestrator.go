// Package orchestrator drives the value-flow fixed-point loop: seed constants once, then run the
// named pass list repeatedly until a round adds no new facts (or the iteration/time budget runs
// out), and finally seed dynamic buffer sizes once the rest of the graph has settled.
package orchestrator

import (
	"io"
	"time"

	"go.uber.org/c2goflow/internal/symtab"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/valueflow"
	"go.uber.org/c2goflow/valueflow/seed"
)

// Result summarizes one call to Orchestrate: how many rounds it took to settle, whether the
// wall-clock cap cut the run short, and a per-round trace (fact count after each round) suitable
// for WriteTrace when a fixed point won't converge and needs offline inspection. Orchestrate
// does not fill Bailouts.
type Result struct {
	Rounds   int
	Bailouts []valueflow.Bailout
	TimedOut bool
	Trace    []RoundTrace
}

// WriteTrace persists this result's per-round trace via WriteTrace(io.Writer, []RoundTrace).
func (r Result) WriteTrace(w io.Writer) error {
	return WriteTrace(w, r.Trace)
}

// pass is the uniform shape every named pass in passes.go implements: walk [start, end), adding
// facts to the graph via valueflow/setter. symbols may be nil (a pass that needs declaration
// records degrades to a no-op rather than panicking).
type pass func(settings valueflow.Settings, symbols symtab.SymTab, start, end token.Node)

// passes is the fixed-point pass list, run in this order every round. Order matters only for how
// quickly the loop converges, not for correctness -- each pass is independently monotonic (it
// only adds facts, never removes one), so running them in any order eventually reaches the same
// fixed point.
var passes = []pass{
	passAfterAssign,
	passAfterCondition,
	passBeforeConditionReverse,
	passInferCondition,
	passAfterMove,
	passSwitchVariable,
	passUninitializedVariable,
	passSmartPointer,
	passContainerSize,
	passContainerAfterCondition,
	passSubFunctionParameterInjection,
}

// seedingPasses run exactly once, before the fixed-point loop: they establish facts from pure
// syntax (constant folding, aliasing, same-subexpression dedup) that later passes refine but
// never need to re-derive.
var seedingPasses = []pass{
	passPointerAlias,
	passSameExpression,
	passBitAnd,
	passRightShiftSaturation,
	passArrayAsBool,
	passArrayElementAccess,
}

const _wallClockCap = 10 * time.Second

// Orchestrate runs constant seeding, the fixed-point loop, and dynamic buffer size seeding over
// the whole list, using symbols if non-nil for the passes that need declaration records.
func Orchestrate(list *token.List, settings valueflow.Settings, symbols symtab.SymTab) Result {
	if settings.FixedPointRounds <= 0 {
		settings.FixedPointRounds = 4
	}
	return orchestrate(list, settings, symbols, time.Now, _wallClockCap)
}

func orchestrate(list *token.List, settings valueflow.Settings, symbols symtab.SymTab, now func() time.Time, budget time.Duration) Result {
	start, end := list.Front(), token.Node{}

	seed.Literals(settings, start, end)
	seed.Sizeof(settings, start, end)
	seed.Enumerators(settings, start, end)
	seed.DefaultInit(settings, start, end)
	seed.ConstStatic(settings, start, end)

	for _, p := range seedingPasses {
		p(settings, symbols, start, end)
	}

	deadline := now().Add(budget)
	result := Result{}
	prevCount := countValues(start, end)
	for round := 0; round < settings.FixedPointRounds; round++ {
		if now().After(deadline) {
			result.TimedOut = true
			break
		}
		for _, p := range passes {
			p(settings, symbols, start, end)
		}
		result.Rounds = round + 1
		count := countValues(start, end)
		result.Trace = append(result.Trace, RoundTrace{Round: round, ValueCount: count})
		if count == prevCount {
			break
		}
		prevCount = count
	}

	seed.DynamicBufferSize(settings, start, end)
	return result
}

func countValues(start, end token.Node) int {
	n := 0
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		n += tok.Values().Len()
	}
	return n
}

func clearAllValues(start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		tok.ClearValues()
	}
}

// Reset clears every token's value set over the whole list, so a caller can re-run Orchestrate
// from scratch (e.g., after editing the underlying source and re-tokenizing in place) without
// carrying over stale facts from the previous run.
func Reset(list *token.List) {
	clearAllValues(list.Front(), token.Node{})
}

func sameTok(a, b token.Node) bool {
	return !a.IsNil() && !b.IsNil() && a.List() == b.List() && a.Index() == b.Index()
}
