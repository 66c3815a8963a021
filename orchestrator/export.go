package orchestrator

import (
	"bytes"
	"encoding/gob"
	"errors"

	"github.com/klauspost/compress/s2"
	"go.uber.org/c2goflow/internal/symtab"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/util/orderedmap"
	"go.uber.org/c2goflow/value"
)

// SeedFacts holds the subset of a settled run's facts worth carrying into the next translation
// unit without rederiving them: the known value sets of global and static-storage variables,
// keyed by name rather than by token position (a global's name, not its declaration site, is what
// another translation unit sees). It is the cross-run equivalent of what seed.ConstStatic derives
// from pure syntax within one unit.
type SeedFacts struct {
	mapping *orderedmap.OrderedMap[string, []value.Value]
}

// NewSeedFacts returns an empty fact set.
func NewSeedFacts() *SeedFacts {
	return &SeedFacts{mapping: orderedmap.New[string, []value.Value]()}
}

// Len returns the number of named variables with exported facts.
func (s *SeedFacts) Len() int {
	return len(s.mapping.Pairs)
}

// Lookup returns the exported value set for a global or static variable name, if present.
func (s *SeedFacts) Lookup(name string) ([]value.Value, bool) {
	return s.mapping.Load(name)
}

// Collect walks [start, end) after a settled Orchestrate run and records the known value sets of
// every global or static variable occurrence symbols resolves, so a later Apply over a different
// translation unit's token graph can seed the same facts without re-running the pass list over
// this unit's source again.
func Collect(symbols symtab.SymTab, start, end token.Node) *SeedFacts {
	facts := NewSeedFacts()
	if symbols == nil {
		return facts
	}
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		id := tok.VarID()
		if id == 0 {
			continue
		}
		v, ok := symbols.Variable(id)
		if !ok || !(v.IsGlobal || v.IsStatic) {
			continue
		}
		values := tok.Values().All()
		if len(values) == 0 {
			continue
		}
		if existing, ok := facts.mapping.Load(v.Name); ok {
			facts.mapping.Store(v.Name, mergeDistinct(existing, values))
			continue
		}
		facts.mapping.Store(v.Name, append([]value.Value(nil), values...))
	}
	return facts
}

// Apply seeds the recorded value sets onto every occurrence of a matching global or static
// variable in [start, end), ahead of running the pass list, so the new unit starts from what a
// prior run already established instead of rediscovering it.
func Apply(facts *SeedFacts, symbols symtab.SymTab, start, end token.Node) {
	if facts == nil || symbols == nil {
		return
	}
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		id := tok.VarID()
		if id == 0 {
			continue
		}
		v, ok := symbols.Variable(id)
		if !ok || !(v.IsGlobal || v.IsStatic) {
			continue
		}
		seeded, ok := facts.Lookup(v.Name)
		if !ok {
			continue
		}
		for _, sv := range seeded {
			tok.Values().Add(sv)
		}
	}
}

// mergeDistinct appends values from fresh not already present in existing, comparing by the same
// (Type, Kind, Bound, Int, VarID, Path) tuple value.List's own no-duplicate rule uses -- Value
// itself isn't comparable with == (ErrorPath is a slice).
func mergeDistinct(existing, fresh []value.Value) []value.Value {
	out := append([]value.Value(nil), existing...)
	for _, v := range fresh {
		dup := false
		for _, have := range out {
			if sameFact(have, v) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, v)
		}
	}
	return out
}

func sameFact(a, b value.Value) bool {
	return a.Type == b.Type && a.Kind == b.Kind && a.Bound == b.Bound &&
		a.Int == b.Int && a.VarID == b.VarID && a.Path == b.Path
}

// GobEncode s2-compresses the gob encoding of the underlying ordered map, the same two-layer
// shape (stable ordering for determinism, compression for the on-disk/export size) used for
// cross-package fact export elsewhere in this codebase's ancestry.
func (s *SeedFacts) GobEncode() (b []byte, err error) {
	var buf bytes.Buffer
	writer := s2.NewWriter(&buf)
	defer func() {
		if cerr := writer.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()

	if err := gob.NewEncoder(writer).Encode(s.mapping); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GobDecode decodes a SeedFacts value previously produced by GobEncode.
func (s *SeedFacts) GobDecode(input []byte) error {
	s.mapping = orderedmap.New[string, []value.Value]()
	return gob.NewDecoder(s2.NewReader(bytes.NewReader(input))).Decode(&s.mapping)
}
