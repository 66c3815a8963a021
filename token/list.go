package token

// Mode selects the source language dialect a [List] was tokenized under. It affects pattern
// matching and folding decisions that differ between C and C++ (e.g. `template<>` bracket
// disambiguation only applies in Cpp mode).
type Mode uint8

const (
	// C is plain C.
	C Mode = iota
	// Cpp is C++.
	Cpp
)

// List owns a doubly linked chain of tokens plus the per-translation-unit metadata (language
// mode, file table) that the pattern matcher and folder consult. It is the sole owner of every
// token it contains (RAII-style: tokens die with the list).
type List struct {
	arena []node
	free []Index // recycled slots from deleted tokens, reused by future inserts

	front, back Index

	Mode Mode
	Files []string // file table; a token's FileIndex indexes into this slice
}

// NewList creates an empty token list for the given language mode.
func NewList(mode Mode) *List {
	return &List{front: NoToken, back: NoToken, Mode: mode}
}

// Front returns the first token, or a nil Node if the list is empty.
func (l *List) Front() Node { return l.at(l.front) }

// Back returns the last token, or a nil Node if the list is empty.
func (l *List) Back() Node { return l.at(l.back) }

// Empty reports whether the list has no tokens.
func (l *List) Empty() bool { return l.front == NoToken }

func (l *List) at(idx Index) Node {
	if !idx.Valid() {
		return Node{}
	}
	return Node{list: l, idx: idx}
}

// alloc returns a fresh, unlinked token holding str, reusing a deleted slot if one is available.
func (l *List) alloc(str string) Index {
	n := node{str: str, prev: NoToken, next: NoToken, link: NoToken, astParent: NoToken, astOp1: NoToken, astOp2: NoToken}
	if k := len(l.free); k > 0 {
		idx := l.free[k-1]
		l.free = l.free[:k-1]
		l.arena[idx] = n
		return idx
	}
	l.arena = append(l.arena, n)
	return Index(len(l.arena) - 1)
}

// PushBack appends a brand-new token holding str to the end of the list and returns it.
func (l *List) PushBack(str string) Node {
	idx := l.alloc(str)
	return l.insertAfter(l.back, idx)
}

// PushFront prepends a brand-new token holding str to the start of the list and returns it.
func (l *List) PushFront(str string) Node {
	idx := l.alloc(str)
	return l.insertBefore(l.front, idx)
}

// Insert splices a new token holding text either immediately before or immediately after tok,
// fixing front/back if an end is displaced. If tok's string is empty, the new token replaces tok
// in place instead of being spliced alongside it.
func (l *List) Insert(tok Node, text string, prepend bool) Node {
	if tok.Str() == "" {
		tok.SetStr(text)
		return tok
	}
	idx := l.alloc(text)
	if prepend {
		return l.insertBefore(tok.idx, idx)
	}
	return l.insertAfter(tok.idx, idx)
}

// insertAfter splices idx immediately after anchor (anchor may be NoToken, meaning "the list is
// empty, idx becomes the sole element").
func (l *List) insertAfter(anchor, idx Index) Node {
	if !anchor.Valid() {
		l.arena[idx].prev, l.arena[idx].next = NoToken, NoToken
		l.front, l.back = idx, idx
		return l.at(idx)
	}
	nextIdx := l.arena[anchor].next
	l.arena[idx].prev = anchor
	l.arena[idx].next = nextIdx
	l.arena[anchor].next = idx
	if nextIdx.Valid() {
		l.arena[nextIdx].prev = idx
	} else {
		l.back = idx
	}
	return l.at(idx)
}

// insertBefore splices idx immediately before anchor.
func (l *List) insertBefore(anchor, idx Index) Node {
	if !anchor.Valid() {
		l.arena[idx].prev, l.arena[idx].next = NoToken, NoToken
		l.front, l.back = idx, idx
		return l.at(idx)
	}
	prevIdx := l.arena[anchor].prev
	l.arena[idx].next = anchor
	l.arena[idx].prev = prevIdx
	l.arena[anchor].prev = idx
	if prevIdx.Valid() {
		l.arena[prevIdx].next = idx
	} else {
		l.front = idx
	}
	return l.at(idx)
}

// unlink removes idx from the chain without freeing its slot, fixing front/back and neighbours.
func (l *List) unlink(idx Index) {
	d := &l.arena[idx]
	if d.prev.Valid() {
		l.arena[d.prev].next = d.next
	} else {
		l.front = d.next
	}
	if d.next.Valid() {
		l.arena[d.next].prev = d.prev
	} else {
		l.back = d.prev
	}
	// Preserve the link-pointer rule: a deleted token's link partner must stop pointing back to it.
	if d.link.Valid() && l.arena[d.link].link == idx {
		l.arena[d.link].link = NoToken
	}
	d.prev, d.next = NoToken, NoToken
}

// release frees idx's slot for reuse. Callers must have already unlinked idx.
func (l *List) release(idx Index) {
	l.arena[idx] = node{prev: NoToken, next: NoToken, link: NoToken, astParent: NoToken, astOp1: NoToken, astOp2: NoToken, free: true}
	l.free = append(l.free, idx)
}

// DeleteNext unlinks the n tokens following tok (not including tok itself).
func (l *List) DeleteNext(tok Node, n int) {
	cur := l.arena[tok.idx].next
	for i := 0; i < n && cur.Valid(); i++ {
		next := l.arena[cur].next
		l.unlink(cur)
		l.release(cur)
		cur = next
	}
}

// DeletePrev unlinks the n tokens preceding tok (not including tok itself).
func (l *List) DeletePrev(tok Node, n int) {
	cur := l.arena[tok.idx].prev
	for i := 0; i < n && cur.Valid(); i++ {
		prev := l.arena[cur].prev
		l.unlink(cur)
		l.release(cur)
		cur = prev
	}
}

// SwapWithNext exchanges the data of tok and tok.Next(), preserving every external reference to
// either token (link partners that pointed at one now correctly point at the other, since the
// data - not the slot identity - moved).
func (l *List) SwapWithNext(tok Node) {
	a := tok.idx
	b := l.arena[a].next
	if !b.Valid() {
		return
	}
	aPrev, aNext := l.arena[a].prev, l.arena[a].next
	bPrev, bNext := l.arena[b].prev, l.arena[b].next
	_ = aNext
	_ = bPrev

	l.arena[a], l.arena[b] = l.arena[b], l.arena[a]
	// Restore chain shape: a and b swapped data, but a must still sit where a sat and link to
	// where a linked, with the same applying to b.
	l.arena[a].prev, l.arena[a].next = aPrev, b
	l.arena[b].prev, l.arena[b].next = a, bNext

	// Retarget any link partner that pointed at a or b (their partners' `.link` still point at
	// the slot index, which now holds the other token's data, so anything that looked up "the
	// bracket at slot a" now incorrectly sees b's data and vice versa -- fix by swapping the
	// partners' back-pointers too).
	if l.arena[a].link.Valid() {
		l.arena[l.arena[a].link].link = a
	}
	if l.arena[b].link.Valid() {
		l.arena[l.arena[b].link].link = b
	}
}

// DeleteThis erases tok from the chain by copying its successor's data into tok's slot and
// deleting the successor, so external pointers to tok remain valid. tok must not be the last
// token in the list.
func (l *List) DeleteThis(tok Node) {
	next := l.arena[tok.idx].next
	if !next.Valid() {
		// Nothing to pull forward; fall back to an ordinary unlink+release.
		l.unlink(tok.idx)
		l.release(tok.idx)
		return
	}
	nextNext := l.arena[next].next
	prev := l.arena[tok.idx].prev

	l.arena[tok.idx] = l.arena[next]
	l.arena[tok.idx].prev = prev
	l.arena[tok.idx].next = nextNext
	if nextNext.Valid() {
		l.arena[nextNext].prev = tok.idx
	} else {
		l.back = tok.idx
	}
	if l.arena[tok.idx].link.Valid() {
		l.arena[l.arena[tok.idx].link].link = tok.idx
	}
	l.release(next)
}

// Move splices the inclusive range [first, last] to just after target.
func (l *List) Move(first, last, target Node) {
	fi, li, ti := first.idx, last.idx, target.idx

	fPrev := l.arena[fi].prev
	lNext := l.arena[li].next

	// Detach [first, last].
	if fPrev.Valid() {
		l.arena[fPrev].next = lNext
	} else {
		l.front = lNext
	}
	if lNext.Valid() {
		l.arena[lNext].prev = fPrev
	} else {
		l.back = fPrev
	}

	// Splice in after target.
	tNext := l.arena[ti].next
	l.arena[ti].next = fi
	l.arena[fi].prev = ti
	l.arena[li].next = tNext
	if tNext.Valid() {
		l.arena[tNext].prev = li
	} else {
		l.back = li
	}
}

// Replace splices [first, last], which must be tokens of l, in place of victim, deleting victim.
// The range is detached from its current position first, as in [List.Move].
func (l *List) Replace(victim, first, last Node) {
	vi := victim.idx
	fi, li := first.idx, last.idx

	// Detach [first, last].
	fPrev, lNext := l.arena[fi].prev, l.arena[li].next
	if fPrev.Valid() {
		l.arena[fPrev].next = lNext
	} else {
		l.front = lNext
	}
	if lNext.Valid() {
		l.arena[lNext].prev = fPrev
	} else {
		l.back = fPrev
	}

	prev, next := l.arena[vi].prev, l.arena[vi].next
	l.arena[fi].prev = prev
	l.arena[li].next = next
	if prev.Valid() {
		l.arena[prev].next = fi
	} else {
		l.front = fi
	}
	if next.Valid() {
		l.arena[next].prev = li
	} else {
		l.back = li
	}
	l.release(vi)
}

// LinkTokens sets a's and b's link (matched-bracket) pointers to each other atomically,
// preserving the link-pointer rule (`a.link == b` implies `b.link == a`).
func (l *List) LinkTokens(a, b Node) {
	l.arena[a.idx].link = b.idx
	l.arena[b.idx].link = a.idx
}
