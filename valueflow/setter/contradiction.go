package setter

import "go.uber.org/c2goflow/value"

// maxContradictionPasses bounds the iteration of the contradiction-removal rules. Full
// contradiction removal is NP-hard in general, so the implementation stops after a fixed number
// of passes rather than iterating to an exhaustive fixed point.
const maxContradictionPasses = 4

// applyContradictionRules runs the three contradiction-removal rules -- overlap removal, the
// contradiction sweep, and adjacency merge -- repeatedly (up to [maxContradictionPasses] times)
// until no rule fires, preserving the list's dedup and no-conflicting-facts properties.
func applyContradictionRules(list *value.List) {
	for i := 0; i < maxContradictionPasses; i++ {
		changed := removeOverlaps(list)
		changed = sweepContradictions(list) || changed
		changed = mergeAdjacent(list) || changed
		if !changed {
			return
		}
	}
}

// removeOverlaps drops exact duplicates. In practice [value.List.Add] already prevents exact
// duplicates from the no-duplicate rule's tuple from entering the list, but a fold can still produce two
// values that are identical in every field relevant to V1 yet differ in, say, their ErrorPath; we
// keep the first and discard the rest.
func removeOverlaps(list *value.List) bool {
	changed := false
	values := list.All()
	for i := 0; i < len(values); i++ {
		for j := len(values) - 1; j > i; j-- {
			if sameFact(values[i], values[j]) {
				list.RemoveAt(j)
				values = list.All()
				changed = true
			}
		}
	}
	return changed
}

func sameFact(a, b value.Value) bool {
	return a.Type == b.Type && a.Kind == b.Kind && a.Bound == b.Bound && a.Int == b.Int && a.VarID == b.VarID && a.Path == b.Path
}

// sweepContradictions implements the point-contradiction rule/V3: for any pair of the same Type, if one is
// Impossible and the other is its complement on the same bound, eliminate the redundant one. An
// Impossible Point that meets a Known Point with the same payload is dropped; of two
// non-Impossible Points with distinct payloads, the weaker one (or the second, if both are
// equally certain) is dropped.
func sweepContradictions(list *value.List) bool {
	changed := false
	values := list.All()
	for i := 0; i < len(values); i++ {
		for j := len(values) - 1; j >= 0; j-- {
			if i == j || j >= len(values) {
				continue
			}
			a, b := values[i], values[j]
			if a.Type != b.Type || a.Path != b.Path {
				continue
			}
			if a.ContradictsPoint(b) {
				// the point-contradiction rule: a Point Impossible and a Point Known with the same payload
				// cannot coexist -- the Known fact is authoritative, drop the Impossible one.
				if a.Kind == value.Impossible {
					list.RemoveAt(i)
				} else {
					list.RemoveAt(j)
				}
				changed = true
				values = list.All()
				if j < i {
					i--
				}
				break
			}
			if a.Bound == value.Point && b.Bound == value.Point && a.Kind != value.Impossible && b.Kind != value.Impossible && a.Int != b.Int {
				// the point-conflict rule: two non-Impossible values of the same type with distinct Point
				// payloads on the same token contradict each other (the token cannot
				// simultaneously equal two different constants on the same path) -- drop the
				// weaker (Possible) of the two, or the second if both are equally certain.
				switch {
				case a.Kind == value.Known && b.Kind != value.Known:
					list.RemoveAt(j)
				case b.Kind == value.Known && a.Kind != value.Known:
					list.RemoveAt(i)
				default:
					list.RemoveAt(j)
				}
				changed = true
				values = list.All()
				if j < i {
					i--
				}
				break
			}
		}
	}
	return changed
}

// mergeAdjacent collapses `Lower >= k` with `Point = k-1` into a single `Lower >= k-1`, and the
// mirror image for Upper. Per this special-cases floats conservatively (never
// attempting to merge an integer bound adjacent to a float Point), which may miss some legitimate
// integer merges -- a documented known imprecision, not a bug to "fix" here.
func mergeAdjacent(list *value.List) bool {
	changed := false
	values := list.All()
	for i := 0; i < len(values); i++ {
		for j := 0; j < len(values); j++ {
			if i == j {
				continue
			}
			lower, point := values[i], values[j]
			if lower.Type != value.INT || point.Type != value.INT || lower.Path != point.Path {
				continue
			}
			if lower.Bound == value.Lower && point.Bound == value.Point && point.Int == lower.Int-1 {
				merged := lower
				merged.Int = point.Int
				list.Replace(i, merged)
				list.RemoveAt(j)
				return mergeAdjacent(list) || true
			}
			if lower.Bound == value.Upper && point.Bound == value.Point && point.Int == lower.Int+1 {
				merged := lower
				merged.Int = point.Int
				list.Replace(i, merged)
				list.RemoveAt(j)
				return mergeAdjacent(list) || true
			}
		}
	}
	return changed
}
