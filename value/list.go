package value

// Cap is the maximum number of values a single token may carry: a value list reaching this size
// rejects further additions without error.
const Cap = 10

// List is the value set owned by a single token. A nil *List (the zero value of the pointer, as
// stored on an untouched token) means "no facts known"; call [NewList] to get a usable empty one.
type List struct {
	values []Value
}

// NewList returns an empty value list.
func NewList() *List { return &List{} }

// Len returns the number of values currently recorded.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.values)
}

// All returns the (unordered) sequence of values currently recorded. The returned slice aliases
// internal storage and must not be mutated by the caller.
func (l *List) All() []Value {
	if l == nil {
		return nil
	}
	return l.values
}

// Add inserts v, enforcing the no-duplicate rule (no duplicate (type,kind,bound,int,var_id,path) tuple)
// and the per-token cap (size cap). It reports whether v was actually added: false means v was an
// exact duplicate of an existing entry, or the list was already at [Cap].
//
// Add does NOT run the fuller contradiction sweep (overlap removal across non-identical but
// subsuming values, impossible/known elimination, adjacency merge) -- that cross-value reasoning
// needs operator-level context the value package does not have, and lives in
// valueflow/setter.ApplyContradictionRules, which calls [List.RemoveAt] to enact its decisions.
func (l *List) Add(v Value) bool {
	key := v.key()
	for _, existing := range l.values {
		if existing.key() == key {
			return false
		}
	}
	if len(l.values) >= Cap {
		return false
	}
	l.values = append(l.values, v)
	return true
}

// RemoveAt deletes the value at position i (as returned by iterating [List.All]'s indices before
// any other removal in the same pass -- callers doing multiple removals should remove from the
// highest index down, or re-fetch indices after each call).
func (l *List) RemoveAt(i int) {
	l.values = append(l.values[:i], l.values[i+1:]...)
}

// Replace overwrites the value at position i.
func (l *List) Replace(i int, v Value) { l.values[i] = v }

// Clear discards every recorded value.
func (l *List) Clear() {
	if l != nil {
		l.values = nil
	}
}

// HasKnownInt reports whether the list contains a Known, Point INT value, returning it if so.
func (l *List) HasKnownInt() (int64, bool) {
	for _, v := range l.All() {
		if v.Type == INT && v.Kind == Known && v.Bound == Point {
			return v.Int, true
		}
	}
	return 0, false
}

// GetKnown returns the Known, Point value of the given type, if present.
func (l *List) GetKnown(t Type) (Value, bool) {
	for _, v := range l.All() {
		if v.Type == t && v.Kind == Known && v.Bound == Point {
			return v, true
		}
	}
	return Value{}, false
}

// GetValueLE returns the largest non-Impossible INT Point value that is <= k, i.e. the tightest
// Known/Possible fact the list carries that is consistent with the token's value being at most k.
// Mirrors `get_value_le`.
func (l *List) GetValueLE(k int64) (Value, bool) {
	var best Value
	found := false
	for _, v := range l.All() {
		if v.Type != INT || v.Kind == Impossible {
			continue
		}
		if v.Bound == Point && v.Int <= k {
			if !found || v.Int > best.Int {
				best, found = v, true
			}
		}
	}
	return best, found
}

// GetValueGE is the dual of [List.GetValueLE] for a lower bound k. Mirrors
// `get_value_ge`.
func (l *List) GetValueGE(k int64) (Value, bool) {
	var best Value
	found := false
	for _, v := range l.All() {
		if v.Type != INT || v.Kind == Impossible {
			continue
		}
		if v.Bound == Point && v.Int >= k {
			if !found || v.Int < best.Int {
				best, found = v, true
			}
		}
	}
	return best, found
}

// GetMaxValue returns the largest INT Point value of any non-Impossible kind known for the
// token. Mirrors `get_max_value`.
func (l *List) GetMaxValue() (Value, bool) {
	var best Value
	found := false
	for _, v := range l.All() {
		if v.Type != INT || v.Kind == Impossible || v.Bound != Point {
			continue
		}
		if !found || v.Int > best.Int {
			best, found = v, true
		}
	}
	return best, found
}

// GetMinValue is the dual of [List.GetMaxValue]. Mirrors `get_min_value`.
func (l *List) GetMinValue() (Value, bool) {
	var best Value
	found := false
	for _, v := range l.All() {
		if v.Type != INT || v.Kind == Impossible || v.Bound != Point {
			continue
		}
		if !found || v.Int < best.Int {
			best, found = v, true
		}
	}
	return best, found
}
