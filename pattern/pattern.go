// Package pattern implements the mini-DSL used throughout the analysis core to match sequences
// of tokens against meta-patterns : `%var%`, `%num%`, `int|void|char`, `!!else`,
// `[abc]`, and friends. No other package of this module imports it; the valueflow passes
// compare token text directly.
//
// Patterns are matched directly against a space-separated pattern string with no precompilation
// step, because the spec explicitly allows on-the-fly compilation provided the inner comparison
// loop stays branch-predictor-friendly; we keep each word's match test a small switch over its
// first couple of bytes rather than building an intermediate representation.
package pattern

import (
	"fmt"
	"strings"

	"go.uber.org/c2goflow/token"
)

// Tokens is the minimal read-only view the matcher needs of a token, so this package does not
// need to import the full token API surface and can be driven directly against a [token.Node].
type Tokens interface {
	Str() string
	VarID() token.VarID
	Tag() token.Tag
	Next() (Tokens, bool)
}

// nodeAdapter adapts a token.Node to [Tokens].
type nodeAdapter struct{ n token.Node }

func (a nodeAdapter) Str() string { return a.n.Str() }
func (a nodeAdapter) VarID() token.VarID { return a.n.VarID() }
func (a nodeAdapter) Tag() token.Tag { return a.n.Tag() }
func (a nodeAdapter) Next() (Tokens, bool) {
	nxt := a.n.Next()
	if nxt.IsNil() {
		return nil, false
	}
	return nodeAdapter{nxt}, true
}

// Adapt wraps a token.Node for use with [Match] and [MatchVarID]. A nil Node yields a nil
// [Tokens], which the matcher treats as being past the end of the token sequence.
func Adapt(n token.Node) Tokens {
	if n.IsNil() {
		return nil
	}
	return nodeAdapter{n}
}

// Error is raised when a pattern string contains a malformed meta-command. This must abort
// analysis of the current translation unit -- callers at the pass boundary should treat it the
// same as any other internal error.
type Error struct {
	Pattern string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("pattern: malformed meta-command in %q: %s", e.Pattern, e.Reason)
}

// Match reports whether the sequence of tokens starting at start matches pattern, and N (the
// number of space-separated words) tokens are compared. Match supplies no variable id, so a
// pattern containing `%varid%` panics under Match (a bug in the caller's pattern, not in
// analyzed source); use [MatchVarID] for such patterns.
func Match(start Tokens, pattern string) bool {
	return match(start, pattern, 0)
}

// MatchVarID is like [Match] but supplies the caller's variable id for `%varid%` words.
func MatchVarID(start Tokens, pattern string, varID token.VarID) bool {
	return match(start, pattern, varID)
}

func match(start Tokens, pattern string, varID token.VarID) bool {
	words := strings.Fields(pattern)
	cur := start
	for _, word := range words {
		ok, consumed := matchWord(cur, word, varID)
		if !ok {
			return false
		}
		if consumed {
			if cur == nil {
				return false
			}
			nxt, has := cur.Next()
			if !has {
				cur = nil
			} else {
				cur = nxt
			}
		}
	}
	return true
}

// matchWord matches a single pattern word against cur (which may be nil, meaning "past the end
// of the token sequence"). It returns whether the word matched and whether a token was consumed
// (alternatives with an empty branch, e.g. `a||b`, can match without consuming one).
func matchWord(cur Tokens, word string, varID token.VarID) (ok bool, consumed bool) {
	switch {
	case strings.HasPrefix(word, "!!"):
		want := word[2:]
		if want == "" {
			panic(&Error{Pattern: word, Reason: "!! must be followed by a literal"})
		}
		if cur == nil {
			return false, false
		}
		if cur.Str() == want {
			return false, false
		}
		return true, true

	case strings.HasPrefix(word, "[") && strings.HasSuffix(word, "]") && len(word) >= 2:
		class := word[1 : len(word)-1]
		if cur == nil {
			return false, false
		}
		s := cur.Str()
		if len(s) != 1 || !strings.ContainsRune(class, rune(s[0])) {
			return false, false
		}
		return true, true

	case strings.HasPrefix(word, "%") && strings.HasSuffix(word, "%") && len(word) >= 2:
		return matchMeta(cur, word, varID), true

	case strings.Contains(word, "|"):
		return matchAlternatives(cur, word, varID)

	default:
		if cur == nil {
			return false, false
		}
		return cur.Str() == word, true
	}
}

// matchAlternatives handles `a|b|c`, where any alternative (including the meta-commands handled
// by matchWord) may match, and an empty alternative (`a||b`) matches without consuming a token.
func matchAlternatives(cur Tokens, word string, varID token.VarID) (ok bool, consumed bool) {
	for _, alt := range strings.Split(word, "|") {
		if alt == "" {
			// An empty alternative always matches, without consuming a token.
			return true, false
		}
		if altOK, altConsumed := matchWord(cur, alt, varID); altOK {
			return true, altConsumed
		}
	}
	return false, false
}

// matchMeta handles the `%...%` meta-command family.
func matchMeta(cur Tokens, word string, varID token.VarID) bool {
	if cur == nil {
		return false
	}
	switch word {
	case "%var%":
		return cur.VarID() != 0
	case "%varid%":
		if varID == 0 {
			panic(&Error{Pattern: word, Reason: "%varid% requires a non-zero caller-supplied id"})
		}
		return cur.VarID() == varID
	case "%type%":
		return cur.Tag() == token.Name && cur.VarID() == 0
	case "%name%":
		return cur.Tag() == token.Name || cur.Tag() == token.Variable || cur.Tag() == token.Function || cur.Tag() == token.Type
	case "%num%":
		return cur.Tag() == token.Number
	case "%bool%":
		return cur.Tag() == token.Boolean
	case "%str%":
		return cur.Tag() == token.String
	case "%char%":
		return cur.Tag() == token.Char
	case "%any%":
		return true
	case "%op%":
		return isOperatorTag(cur.Tag())
	case "%cop%":
		// A "constant operator": any operator that could participate in constant folding --
		// arithmetic, bitwise, comparison, logical.
		switch cur.Tag() {
		case token.ArithmeticOp, token.BitOp, token.ComparisonOp, token.LogicalOp:
			return true
		default:
			return false
		}
	case "%comp%":
		return cur.Tag() == token.ComparisonOp
	case "%or%":
		return cur.Tag() == token.BitOp && cur.Str() == "|"
	case "%oror%":
		return cur.Tag() == token.LogicalOp && cur.Str() == "||"
	case "%assign%":
		return cur.Tag() == token.AssignmentOp
	default:
		panic(&Error{Pattern: word, Reason: "unknown meta-command"})
	}
}

func isOperatorTag(t token.Tag) bool {
	switch t {
	case token.AssignmentOp, token.ArithmeticOp, token.BitOp, token.LogicalOp, token.ComparisonOp, token.IncDecOp, token.ExtendedOp:
		return true
	default:
		return false
	}
}
