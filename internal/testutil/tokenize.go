// Package testutil provides the fixture-building helpers shared by this module's tests: a small
// hand-rolled lexer that turns a line of C/C++-ish source text into a [token.List] (standing in
// for the real, out-of-scope tokenizer named as an external collaborator), and a scanner that
// pulls "// want ..." expectation comments keyed to the token that precedes them, for
// table-driven end-to-end scenario tests in the style of the teacher's analysistest-based
// checks.
package testutil

import (
	"strings"
	"unicode"

	"go.uber.org/c2goflow/token"
)

var keywords = map[string]bool{
	"if": true, "else": true, "for": true, "while": true, "switch": true, "case": true,
	"return": true, "break": true, "continue": true, "sizeof": true, "enum": true,
	"struct": true, "union": true, "class": true, "namespace": true, "const": true,
	"static": true, "nullptr": true, "true": true, "false": true, "NULL": true,
	"int": true, "char": true, "float": true, "double": true, "long": true, "short": true,
	"unsigned": true, "signed": true, "void": true, "bool": true, "auto": true,
}

// multi-character operators, longest first so the lexer's greedy match never splits one apart.
var operators = []string{
	"<<=", ">>=",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--", "->", "::",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<", ">>",
	"+", "-", "*", "/", "%", "=", "<", ">", "!", "&", "|", "^", "~",
	".", ",", ";", ":", "?",
}

var brackets = map[byte]byte{'(': ')', '[': ']', '{': '}'}

// Tokenize lexes src into a fresh token.List under the given mode. It is a minimal stand-in for
// the real preprocessor/tokenizer (an external, pre-existing collaborator per the symbol-
// database section) -- good enough to build test fixtures without constructing every token by
// hand, not a general C/C++ lexer.
func Tokenize(mode token.Mode, src string) *token.List {
	l := token.NewList(mode)
	var openStack []token.Node

	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++

		case strings.HasPrefix(src[i:], "//"):
			j := strings.IndexByte(src[i:], '\n')
			if j < 0 {
				emitComment(l, src[i:])
				i = len(src)
			} else {
				emitComment(l, src[i:i+j])
				i += j
			}

		case c == '"':
			end := closingQuote(src, i, '"')
			tok := l.PushBack(src[i:end])
			tok.SetTag(token.String)
			i = end

		case c == '\'' || (c == 'L' && i+1 < len(src) && src[i+1] == '\''):
			start := i
			if c == 'L' {
				i++
			}
			end := closingQuote(src, i, '\'')
			tok := l.PushBack(src[start:end])
			tok.SetTag(token.Char)
			i = end

		case unicode.IsDigit(rune(c)):
			j := i
			for j < len(src) && isNumberByte(src[j]) {
				j++
			}
			tok := l.PushBack(src[i:j])
			tok.SetTag(token.Number)
			i = j

		case isIdentStart(c):
			j := i
			for j < len(src) && isIdentByte(src[j]) {
				j++
			}
			name := src[i:j]
			tok := l.PushBack(name)
			switch {
			case keywords[name]:
				tok.SetTag(token.Keyword)
			case j < len(src) && src[j] == '(':
				tok.SetTag(token.Function)
			default:
				tok.SetTag(token.Name)
			}
			i = j

		case brackets[c] != 0:
			tok := l.PushBack(string(c))
			tok.SetTag(token.Bracket)
			openStack = append(openStack, tok)
			i++

		case isCloseBracket(c):
			tok := l.PushBack(string(c))
			tok.SetTag(token.Bracket)
			if n := len(openStack); n > 0 {
				open := openStack[n-1]
				openStack = openStack[:n-1]
				l.LinkTokens(open, tok)
			}
			i++

		default:
			matched := false
			for _, op := range operators {
				if strings.HasPrefix(src[i:], op) {
					tok := l.PushBack(op)
					tok.SetTag(classifyOperator(op))
					i += len(op)
					matched = true
					break
				}
			}
			if !matched {
				l.PushBack(string(c))
				i++
			}
		}
	}
	return l
}

func emitComment(l *token.List, text string) {
	tok := l.PushBack(strings.TrimRight(text, " \t\r"))
	tok.SetTag(token.Other)
}

func classifyOperator(op string) token.Tag {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=", "<<=", ">>=":
		return token.AssignmentOp
	case "+", "-", "*", "/", "%":
		return token.ArithmeticOp
	case "&", "|", "^", "~", "<<", ">>":
		return token.BitOp
	case "&&", "||", "!":
		return token.LogicalOp
	case "==", "!=", "<", ">", "<=", ">=":
		return token.ComparisonOp
	case "++", "--":
		return token.IncDecOp
	default:
		return token.Other
	}
}

func closingQuote(src string, i int, quote byte) int {
	j := i + 1
	for j < len(src) {
		if src[j] == '\\' {
			j += 2
			continue
		}
		if src[j] == quote {
			return j + 1
		}
		j++
	}
	return len(src)
}

func isNumberByte(c byte) bool {
	return unicode.IsDigit(rune(c)) || c == '.' || c == 'x' || c == 'X' ||
		c == 'e' || c == 'E' || c == 'u' || c == 'U' || c == 'l' || c == 'L' ||
		c == 'f' || c == 'F' || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') || c == '\''
}

func isIdentStart(c byte) bool {
	return unicode.IsLetter(rune(c)) || c == '_'
}

func isIdentByte(c byte) bool {
	return unicode.IsLetter(rune(c)) || unicode.IsDigit(rune(c)) || c == '_'
}

func isCloseBracket(c byte) bool {
	return c == ')' || c == ']' || c == '}'
}

// AssignVarIDs walks l and promotes every Name-tagged token whose text appears in names to
// Variable, giving every occurrence of the same name the same token.VarID. It returns the
// name-to-id mapping so a test can refer to "the VarID for x" without hardcoding the allocation
// order.
func AssignVarIDs(l *token.List, names ...string) map[string]token.VarID {
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	ids := make(map[string]token.VarID)
	var next token.VarID = 1
	for tok := l.Front(); !tok.IsNil(); tok = tok.Next() {
		if tok.Tag() != token.Name || !want[tok.Str()] {
			continue
		}
		id, ok := ids[tok.Str()]
		if !ok {
			id = next
			next++
			ids[tok.Str()] = id
		}
		tok.SetTag(token.Variable)
		tok.SetVarID(id)
	}
	return ids
}

// ExpectedValues scans l for "// want ..." comment tokens (emitted by Tokenize for any `//`
// line) and returns, for each such comment, the nearest preceding non-comment token and the
// whitespace-split fields after the "want" marker. This mirrors the teacher's
// FindExpectedValues comment-scanning idiom, adapted to a flat token stream instead of a Go AST:
// there is no enclosing function/closure to key by, so the key is simply "the token the
// annotation trails".
func ExpectedValues(l *token.List, marker string) map[token.Node][]string {
	results := make(map[token.Node][]string)
	var last token.Node
	for tok := l.Front(); !tok.IsNil(); tok = tok.Next() {
		if tok.Tag() != token.Other || !strings.HasPrefix(tok.Str(), "//") {
			last = tok
			continue
		}
		text := strings.TrimSpace(strings.TrimPrefix(tok.Str(), "//"))
		if !strings.HasPrefix(text, marker) {
			continue
		}
		text = strings.TrimSpace(strings.TrimPrefix(text, marker))
		if last.IsNil() {
			continue
		}
		if len(text) == 0 {
			results[last] = nil
		} else {
			results[last] = strings.Fields(text)
		}
	}
	return results
}
