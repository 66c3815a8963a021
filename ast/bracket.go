package ast

import "go.uber.org/c2goflow/token"

// FindMatchingBracket finds the matching bracket for open, which must hold one of "(", "[",
// "{", or "<". For "<" the search must distinguish a template-open angle bracket from a
// less-than operator: it inspects the token preceding open (a name, an operator token that
// follows the `operator` keyword, or a closing bracket suggest a type context where "<" opens a
// template argument list), then scans forward treating ">>"/">>=" as two closing angle brackets.
// Every other "<" and ">" in the scan changes the depth count; only "(", "[" and "{"
// sub-expressions are skipped whole.
//
// It returns the matching token and true, or a nil Node and false if no consistent match is
// found (the caller should treat this as a malformed-input bailout).
func FindMatchingBracket(open token.Node) (token.Node, bool) {
	switch open.Str() {
	case "(", "[", "{":
		return findSimpleBracket(open, open.Str(), closeOf(open.Str()))
	case "<":
		if !precedingSuggestsTypeContext(open) {
			return token.Node{}, false
		}
		return findAngleBracket(open)
	default:
		return token.Node{}, false
	}
}

func closeOf(open string) string {
	switch open {
	case "(":
		return ")"
	case "[":
		return "]"
	case "{":
		return "}"
	default:
		return ""
	}
}

func findSimpleBracket(open token.Node, o, c string) (token.Node, bool) {
	depth := 0
	for tok := open; !tok.IsNil(); tok = tok.Next() {
		switch tok.Str() {
		case o:
			depth++
		case c:
			depth--
			if depth == 0 {
				return tok, true
			}
		}
	}
	return token.Node{}, false
}

// precedingSuggestsTypeContext inspects the token preceding a candidate "<" to guess whether it
// opens a template argument list: a preceding name, the closing bracket of a call/subscript, or
// an operator token that follows the `operator` keyword all suggest a type context.
func precedingSuggestsTypeContext(lt token.Node) bool {
	prev := lt.Prev()
	if prev.IsNil() {
		return false
	}
	if pp := prev.Prev(); !pp.IsNil() && pp.Str() == "operator" {
		return true
	}
	switch prev.Tag() {
	case token.Name, token.Type, token.Function, token.Variable:
		return true
	}
	switch prev.Str() {
	case ")", "]":
		return true
	}
	return false
}

// findAngleBracket scans forward from a "<" known to open a template argument list, treating
// ">>"/">>=" as two closing angle brackets. Every other "<" raises and every ">" lowers the
// depth, whether or not it is a comparison; only "(", "[" and "{" sub-expressions are skipped
// whole. namedParam marks the name right after "<" or ","; it does not affect the depth count.
func findAngleBracket(open token.Node) (token.Node, bool) {
	depth := 1
	namedParam := true // true immediately after '<' or ',': the next name is a template parameter
	for tok := open.Next(); !tok.IsNil(); tok = tok.Next() {
		switch tok.Str() {
		case "<":
			depth++
			namedParam = true
			continue
		case ">":
			depth--
			if depth == 0 {
				return tok, true
			}
			namedParam = false
			continue
		case ">>", ">>=":
			// Each of these spellings closes two nested angle brackets at once.
			depth -= 2
			if depth <= 0 {
				return tok, depth == 0
			}
			namedParam = false
			continue
		case ",":
			namedParam = true
			continue
		case "(", "[", "{":
			// A template argument may itself contain an expression with parens; skip over it
			// wholesale rather than letting its internal "<"/">" (if any, e.g. from a nested
			// call) perturb our depth count.
			if closer, ok := findSimpleBracket(tok, tok.Str(), closeOf(tok.Str())); ok {
				tok = closer
			}
			namedParam = false
			continue
		}
		if namedParam {
			namedParam = false
			continue
		}
	}
	return token.Node{}, false
}
