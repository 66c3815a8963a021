// Package seed implements constant-value seeding: the single forward pass that runs before the
// value-flow fixed-point loop begins, stamping Known values onto literals, sizeof expressions,
// default-initialized scalars, enumerators, and write-stable const/static initializers so the
// iterative passes have a starting fact base to refine rather than an empty graph.
package seed

import (
	"strconv"
	"strings"

	"go.uber.org/c2goflow/ast"
	"go.uber.org/c2goflow/platform"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/value"
	"go.uber.org/c2goflow/valueflow"
	"go.uber.org/c2goflow/valueflow/setter"
)

func sameTok(a, b token.Node) bool {
	return !a.IsNil() && !b.IsNil() && a.List() == b.List() && a.Index() == b.Index()
}

// Literals walks [start, end) seeding every integer, floating-point, character, NULL/nullptr,
// and true/false literal it finds. Each literal is seeded independently of the others.
func Literals(settings valueflow.Settings, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		switch {
		case tok.Tag() == token.Number:
			seedNumber(settings, tok)
		case tok.Tag() == token.Char:
			seedChar(settings, tok)
		case tok.Str() == "true" || tok.Str() == "false":
			seedBoolean(settings, tok)
		case tok.Str() == "NULL" || tok.Str() == "nullptr":
			setter.SetTokenValue(settings, tok, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 0})
		}
	}
}

func seedNumber(settings valueflow.Settings, tok token.Node) {
	s := tok.Str()
	if looksLikeFloat(s) {
		if f, ok := parseFloatLiteral(s); ok {
			setter.SetTokenValue(settings, tok, value.Value{Type: value.FLOAT, Kind: value.Known, Bound: value.Point, Float: f})
		}
		return
	}
	if n, ok := parseIntLiteral(s); ok {
		seedTruncatedInt(settings, tok, n)
	}
}

func seedChar(settings valueflow.Settings, tok token.Node) {
	cp, _, ok := decodeCharLiteral(tok.Str(), settings.Platform)
	if !ok {
		return
	}
	seedTruncatedInt(settings, tok, cp)
}

func seedBoolean(settings valueflow.Settings, tok token.Node) {
	n := int64(0)
	if tok.Str() == "true" {
		n = 1
	}
	setter.SetTokenValue(settings, tok, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: n})
}

// seedTruncatedInt applies the literal token's own declared-type truncation (when narrower than
// the host word, mirroring setter's cast-propagation logic) before handing the fact to the
// setter: a seeded literal is the one place a too-wide value enters the graph directly from
// source text rather than through an assignment or cast the setter already narrows.
func seedTruncatedInt(settings valueflow.Settings, tok token.Node, n int64) {
	v := value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: n}
	if vt := tok.ValueType(); vt != nil && vt.Width > 0 && vt.Width < 64 {
		wide := n
		masked := platform.MaskWidth(n, vt.Width)
		if vt.Sign == token.SignUnsigned {
			v.Int = int64(masked)
		} else {
			v.Int = platform.SignExtend(masked, vt.Width)
		}
		if v.Int != wide {
			v.WideIntValue = &wide
		}
	}
	setter.SetTokenValue(settings, tok, v)
}

// DefaultInit seeds a zero value for a variable default-initialized with empty braces (`T x{};`
// or `T x = {};`): it walks [start, end) for a Variable-tagged declaration token immediately
// followed (optionally through a plain "=") by an empty "{" "}" pair. The declared type is not
// inspected, so aggregates are seeded with zero the same way scalars are.
func DefaultInit(settings valueflow.Settings, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Tag() != token.Variable {
			continue
		}
		next := tok.Next()
		if !next.IsNil() && next.Str() == "=" {
			next = next.Next()
		}
		if next.IsNil() || next.Str() != "{" {
			continue
		}
		closeBrace := next.Next()
		if closeBrace.IsNil() || closeBrace.Str() != "}" {
			continue
		}
		setter.SetTokenValue(settings, tok, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: 0})
	}
}

// ConstStatic seeds `const T x = N;` / `static T x = N;` declarations with the initializer's
// folded literal value, skipping the seed entirely if a later write to the same variable is
// observed anywhere in [start, end) -- a flat, whole-range write scan rather than a real
// reaching-definitions analysis, since no control-flow graph exists yet at seeding time.
func ConstStatic(settings valueflow.Settings, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != "const" && tok.Str() != "static" {
			continue
		}
		varTok, litTok, ok := findConstInit(tok, end)
		if !ok {
			continue
		}
		if isWrittenAfter(varTok.VarID(), varTok.Next(), end) {
			continue
		}
		if n, ok := foldedIntLiteral(litTok); ok {
			setter.SetTokenValue(settings, varTok, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: n})
		}
	}
}

// findConstInit scans forward from a const/static keyword for the declared variable and a
// directly-literal initializer (`= literal`), stopping at the statement's own semicolon.
func findConstInit(kw, end token.Node) (varTok, litTok token.Node, ok bool) {
	for tok := kw.Next(); !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() == ";" {
			return token.Node{}, token.Node{}, false
		}
		if tok.Tag() != token.Variable {
			continue
		}
		eq := tok.Next()
		if eq.IsNil() || eq.Str() != "=" {
			return token.Node{}, token.Node{}, false
		}
		lit := eq.Next()
		if lit.IsNil() {
			return token.Node{}, token.Node{}, false
		}
		return tok, lit, true
	}
	return token.Node{}, token.Node{}, false
}

func isWrittenAfter(varID token.VarID, from, to token.Node) bool {
	if varID == 0 {
		return false
	}
	for tok := from; !tok.IsNil() && !sameTok(tok, to); tok = tok.Next() {
		if tok.VarID() != varID {
			continue
		}
		if prev := tok.Prev(); !prev.IsNil() {
			switch prev.Str() {
			case "&", "++", "--":
				return true
			}
		}
		if next := tok.Next(); !next.IsNil() {
			switch next.Str() {
			case "=", "+=", "-=", "*=", "/=", "++", "--":
				return true
			}
		}
	}
	return false
}

func foldedIntLiteral(tok token.Node) (int64, bool) {
	if tok.IsNil() {
		return 0, false
	}
	if v, ok := tok.Values().GetKnown(value.INT); ok {
		return v.Int, true
	}
	if tok.Tag() == token.Number {
		return parseIntLiteral(tok.Str())
	}
	return 0, false
}

// looksLikeFloat reports whether an already Number-tagged token's text denotes a floating
// literal rather than an integer one. Hex integers commonly contain the letters a-f (including
// 'e'), so the exponent-letter check only applies to non-hex spellings; hex floating literals
// use 'p'/'P' for their exponent instead of 'e'/'E', which this also accounts for.
func looksLikeFloat(s string) bool {
	lower := strings.ToLower(s)
	if strings.HasPrefix(lower, "0x") {
		return strings.ContainsAny(s, ".pP")
	}
	return strings.ContainsAny(s, ".eE")
}

func parseFloatLiteral(s string) (float64, bool) {
	body := s
	if body == "" {
		return 0, false
	}
	if c := body[len(body)-1]; c == 'f' || c == 'F' || c == 'l' || c == 'L' {
		body = body[:len(body)-1]
	}
	f, err := strconv.ParseFloat(body, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// parseIntLiteral parses a C/C++ integer literal: decimal, "0x"/"0X" hex, "0b"/"0B" binary, and
// leading-zero octal, with digit-separator quotes and u/U/l/L suffixes stripped.
func parseIntLiteral(s string) (int64, bool) {
	body := strings.ReplaceAll(s, "'", "")
	end := len(body)
	for end > 0 {
		switch body[end-1] {
		case 'u', 'U', 'l', 'L':
			end--
			continue
		}
		break
	}
	body = body[:end]
	if body == "" {
		return 0, false
	}
	neg := false
	i := 0
	if body[0] == '-' {
		neg = true
		i = 1
	}
	if i >= len(body) {
		return 0, false
	}
	rest := body[i:]
	base := 10
	switch {
	case strings.HasPrefix(rest, "0x") || strings.HasPrefix(rest, "0X"):
		base, rest = 16, rest[2:]
	case strings.HasPrefix(rest, "0b") || strings.HasPrefix(rest, "0B"):
		base, rest = 2, rest[2:]
	case len(rest) > 1 && rest[0] == '0':
		base, rest = 8, rest[1:]
	}
	if rest == "" {
		return 0, false
	}
	var n int64
	for i := 0; i < len(rest); i++ {
		d, ok := digitValue(rest[i], base)
		if !ok {
			return 0, false
		}
		n = n*int64(base) + int64(d)
	}
	if neg {
		n = -n
	}
	return n, true
}

func digitValue(c byte, base int) (int, bool) {
	var d int
	switch {
	case c >= '0' && c <= '9':
		d = int(c - '0')
	case c >= 'a' && c <= 'f':
		d = int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		d = int(c-'A') + 10
	default:
		return 0, false
	}
	if d >= base {
		return 0, false
	}
	return d, true
}

// decodeCharLiteral parses a character literal's textual form (narrow 'a', wide L'a', UTF-16
// u'a', UTF-32 U'a', UTF-8 u8'a', or a multi-character constant like 'ab') into its numeric value
// and the byte width that value is expressed in. Multi-character constants are folded the common
// (if technically implementation-defined) way: each successive character shifts the accumulator
// left by a byte.
func decodeCharLiteral(s string, c platform.Constants) (int64, int, bool) {
	prefixLen, width := 0, 1
	switch {
	case strings.HasPrefix(s, "u8"):
		prefixLen, width = 2, 1
	case strings.HasPrefix(s, "u"):
		prefixLen, width = 1, 2
	case strings.HasPrefix(s, "U"):
		prefixLen, width = 1, 4
	case strings.HasPrefix(s, "L"):
		prefixLen, width = 1, c.SizeofWcharT
	}
	if len(s) < prefixLen {
		return 0, 0, false
	}
	body := s[prefixLen:]
	if len(body) < 2 || body[0] != '\'' || body[len(body)-1] != '\'' {
		return 0, 0, false
	}
	runes := decodeEscapes(body[1 : len(body)-1])
	if len(runes) == 0 {
		return 0, 0, false
	}
	if len(runes) == 1 {
		return int64(runes[0]), width, true
	}
	var acc int64
	for _, r := range runes {
		acc = acc<<8 | int64(byte(r))
	}
	return acc, width, true
}

// decodeEscapes expands the handful of backslash escapes character and string literal bodies
// commonly use; anything else passes through as a literal rune.
func decodeEscapes(s string) []rune {
	var out []rune
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' && i+1 < len(s) {
			i++
			switch s[i] {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case 'r':
				out = append(out, '\r')
			case '0':
				out = append(out, 0)
			case '\\':
				out = append(out, '\\')
			case '\'':
				out = append(out, '\'')
			case '"':
				out = append(out, '"')
			default:
				out = append(out, rune(s[i]))
			}
			continue
		}
		out = append(out, rune(c))
	}
	return out
}

// Sizeof walks [start, end) evaluating every `sizeof(...)` it finds, seeding the "sizeof"
// keyword token itself with a Known byte count, which setter.SetTokenValue then propagates
// upward like any other folded value.
func Sizeof(settings valueflow.Settings, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != "sizeof" {
			continue
		}
		open := tok.Next()
		if open.IsNil() || open.Str() != "(" {
			continue
		}
		closeParen, ok := ast.FindMatchingBracket(open)
		if !ok {
			continue
		}
		if n, ok := evalSizeof(settings, open.Next(), closeParen); ok {
			setter.SetTokenValue(settings, tok, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: n})
		}
	}
}

func evalSizeof(settings valueflow.Settings, start, end token.Node) (int64, bool) {
	c := settings.Platform

	// sizeof(*p): pointee width of a tracked pointer variable.
	if !start.IsNil() && start.Str() == "*" {
		operand := start.Next()
		if !operand.IsNil() && sameTok(operand.Next(), end) {
			if vt := operand.ValueType(); vt != nil && vt.Pointer && vt.Width > 0 {
				return int64(vt.Width / 8), true
			}
		}
	}

	if !start.IsNil() && start.Tag() == token.Variable {
		next := start.Next()
		// sizeof(var[0]): element width of an array/pointer variable.
		if !next.IsNil() && next.Str() == "[" {
			if closeBr, ok := ast.FindMatchingBracket(next); ok && sameTok(closeBr.Next(), end) {
				if vt := start.ValueType(); vt != nil && vt.Width > 0 {
					return int64(vt.Width / 8), true
				}
			}
		}
		// sizeof(var): whole-variable size, from its own type width, or (for an array/allocation
		// this module has no type-system length for) a previously seeded BUFFER_SIZE fact.
		if sameTok(next, end) {
			if vt := start.ValueType(); vt != nil {
				if vt.Pointer {
					return int64(c.SizeofPointer), true
				}
				if vt.Width > 0 {
					return int64(vt.Width / 8), true
				}
			}
			if bv, ok := start.Values().GetKnown(value.BUFFER_SIZE); ok {
				return bv.Int, true
			}
		}
	}

	// sizeof(str_literal).
	if !start.IsNil() && start.Tag() == token.String && sameTok(start.Next(), end) {
		return stringLiteralSize(start.Str(), c), true
	}

	// sizeof(T) / sizeof(T*...): an explicit type-declaration, possibly followed by one or more
	// '*' for a pointer type.
	var words []string
	stars := 0
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() == "*" {
			stars++
			continue
		}
		words = append(words, tok.Str())
	}
	if stars > 0 {
		return int64(c.SizeofPointer), true
	}
	if len(words) > 0 {
		if n, ok := primitiveTypeSize(strings.Join(words, " "), c); ok {
			return n, true
		}
	}
	return 0, false
}

func primitiveTypeSize(name string, c platform.Constants) (int64, bool) {
	switch name {
	case "char", "signed char", "unsigned char", "bool", "_Bool":
		return int64(c.CharBit / 8), true
	case "short", "short int", "unsigned short":
		return int64(c.ShortBit / 8), true
	case "int", "unsigned int", "unsigned", "signed", "signed int":
		return int64(c.SizeofInt), true
	case "long", "unsigned long", "long int":
		return int64(c.LongBit / 8), true
	case "long long", "unsigned long long":
		return int64(c.LongLongBit / 8), true
	case "float":
		return 4, true
	case "double":
		return 8, true
	case "long double":
		return 16, true
	case "wchar_t":
		return int64(c.SizeofWcharT), true
	default:
		return 0, false
	}
}

func stringLiteralSize(s string, c platform.Constants) int64 {
	prefixLen := 0
	unit := int64(1)
	switch {
	case strings.HasPrefix(s, "u8"):
		prefixLen, unit = 2, 1
	case strings.HasPrefix(s, "u"):
		prefixLen, unit = 1, 2
	case strings.HasPrefix(s, "U"):
		prefixLen, unit = 1, 4
	case strings.HasPrefix(s, "L"):
		prefixLen, unit = 1, int64(c.SizeofWcharT)
	}
	if len(s) < prefixLen {
		return 0
	}
	body := s[prefixLen:]
	if len(body) >= 2 && body[0] == '"' && body[len(body)-1] == '"' {
		body = body[1 : len(body)-1]
	}
	chars := int64(len(decodeEscapes(body)))
	return (chars + 1) * unit
}

// Enumerators seeds each enumerator declared within [start, end) with its value computed in
// declaration order, honoring an explicit `= literal` initializer (which must already be a plain
// literal or an already-seeded Known INT, per the write-up's "must themselves be already
// folded") and resuming the +1 count from there.
func Enumerators(settings valueflow.Settings, start, end token.Node) {
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Str() != "enum" {
			continue
		}
		brace := findEnumBrace(tok, end)
		if brace.IsNil() {
			continue
		}
		braceClose := brace.Link()
		if braceClose.IsNil() {
			continue
		}
		seedEnumBody(settings, brace.Next(), braceClose)
		tok = braceClose
	}
}

func findEnumBrace(enumTok, end token.Node) token.Node {
	for tok := enumTok.Next(); !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		switch tok.Str() {
		case "{":
			return tok
		case ";":
			return token.Node{}
		}
	}
	return token.Node{}
}

func seedEnumBody(settings valueflow.Settings, start, end token.Node) {
	next := int64(0)
	tok := start
	for !tok.IsNil() && !sameTok(tok, end) {
		if tok.Tag() != token.Name && tok.Tag() != token.Variable {
			tok = tok.Next()
			continue
		}
		enumerator := tok
		tok = tok.Next()
		if !tok.IsNil() && tok.Str() == "=" {
			if v, ok := foldedIntLiteral(tok.Next()); ok {
				next = v
			}
			for !tok.IsNil() && tok.Str() != "," && !sameTok(tok, end) {
				tok = tok.Next()
			}
		}
		setter.SetTokenValue(settings, enumerator, value.Value{Type: value.INT, Kind: value.Known, Bound: value.Point, Int: next})
		next++
		if !tok.IsNil() && tok.Str() == "," {
			tok = tok.Next()
		}
	}
}

// DynamicBufferSize implements the post-loop pass (grounded on cppcheck's
// valueFlowDynamicBufferSize): it walks [start, end) for calls to allocation/reallocation
// functions named by settings.Library and seeds the call expression with a Known BUFFER_SIZE
// fact reflecting the bytes allocated.
func DynamicBufferSize(settings valueflow.Settings, start, end token.Node) {
	if settings.Library == nil {
		return
	}
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if tok.Tag() != token.Function {
			continue
		}
		open := tok.Next()
		if open.IsNil() || open.Str() != "(" {
			continue
		}
		closeParen, ok := ast.FindMatchingBracket(open)
		if !ok {
			continue
		}
		args := splitArgs(open.Next(), closeParen)
		name := tok.Str()

		if info, ok := settings.Library.AllocFuncInfo(name); ok {
			if size, ok := allocSize(info, args); ok {
				setter.SetTokenValue(settings, tok, value.Value{Type: value.BUFFER_SIZE, Kind: value.Known, Bound: value.Point, Int: size})
			}
			continue
		}
		if info, ok := settings.Library.ReallocFuncInfo(name); ok {
			if size, ok := argKnownInt(args, info.SizeArgIndex); ok {
				setter.SetTokenValue(settings, tok, value.Value{Type: value.BUFFER_SIZE, Kind: value.Known, Bound: value.Point, Int: size})
			}
		}
	}
}

func allocSize(info valueflow.AllocFuncInfo, args []token.Node) (int64, bool) {
	if info.ArgIndex < 0 {
		return info.Size, true
	}
	return argKnownInt(args, info.ArgIndex)
}

func argKnownInt(args []token.Node, idx int) (int64, bool) {
	if idx < 0 || idx >= len(args) {
		return 0, false
	}
	arg := args[idx]
	if arg.IsNil() {
		return 0, false
	}
	if v, ok := arg.Values().GetKnown(value.INT); ok {
		return v.Int, true
	}
	return parseIntLiteral(arg.Str())
}

// splitArgs returns the first token of each top-level comma-separated argument between start and
// end (exclusive) of a call's "(" ... ")" argument list.
func splitArgs(start, end token.Node) []token.Node {
	var args []token.Node
	depth := 0
	expectNext := true
	for tok := start; !tok.IsNil() && !sameTok(tok, end); tok = tok.Next() {
		if expectNext {
			args = append(args, tok)
			expectNext = false
		}
		switch tok.Str() {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ",":
			if depth == 0 {
				expectNext = true
			}
		}
	}
	return args
}
