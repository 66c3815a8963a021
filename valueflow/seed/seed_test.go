package seed_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/token"
	"go.uber.org/c2goflow/value"
	"go.uber.org/c2goflow/valueflow"
	"go.uber.org/c2goflow/valueflow/seed"
)

func settings() valueflow.Settings {
	return valueflow.DefaultSettings()
}

func seedOneLiteral(t *testing.T, text string, tag token.Tag) token.Node {
	t.Helper()
	l := token.NewList(token.Cpp)
	tok := l.PushBack(text)
	tok.SetTag(tag)
	seed.Literals(settings(), l.Front(), token.Node{})
	return tok
}

func TestSeedDecimalIntLiteral(t *testing.T) {
	t.Parallel()
	tok := seedOneLiteral(t, "42", token.Number)
	v, ok := tok.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(42), v.Int)
}

func TestSeedHexLiteral(t *testing.T) {
	t.Parallel()
	tok := seedOneLiteral(t, "0x2A", token.Number)
	v, ok := tok.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(42), v.Int)
}

func TestSeedOctalLiteral(t *testing.T) {
	t.Parallel()
	tok := seedOneLiteral(t, "010", token.Number)
	v, ok := tok.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(8), v.Int)
}

func TestSeedFloatLiteral(t *testing.T) {
	t.Parallel()
	tok := seedOneLiteral(t, "3.5f", token.Number)
	v, ok := tok.Values().GetKnown(value.FLOAT)
	require.True(t, ok)
	require.InDelta(t, 3.5, v.Float, 0.0001)
}

func TestSeedCharLiteral(t *testing.T) {
	t.Parallel()
	tok := seedOneLiteral(t, "'A'", token.Char)
	v, ok := tok.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(65), v.Int)
}

func TestSeedWideCharLiteral(t *testing.T) {
	t.Parallel()
	tok := seedOneLiteral(t, "L'A'", token.Char)
	v, ok := tok.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(65), v.Int)
}

func TestSeedMultiCharLiteral(t *testing.T) {
	t.Parallel()
	tok := seedOneLiteral(t, "'ab'", token.Char)
	v, ok := tok.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64('a')<<8|int64('b'), v.Int)
}

func TestSeedNullAndBooleanKeywords(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	nullTok := l.PushBack("NULL")
	nullptrTok := l.PushBack("nullptr")
	trueTok := l.PushBack("true")
	falseTok := l.PushBack("false")
	seed.Literals(settings(), l.Front(), token.Node{})

	for _, want := range []struct {
		tok  token.Node
		want int64
	}{
		{nullTok, 0},
		{nullptrTok, 0},
		{trueTok, 1},
		{falseTok, 0},
	} {
		v, ok := want.tok.Values().GetKnown(value.INT)
		require.True(t, ok)
		require.Equal(t, want.want, v.Int)
	}
}

func TestSizeofPrimitiveType(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	sizeofTok := l.PushBack("sizeof")
	open := l.PushBack("(")
	l.PushBack("int")
	closeParen := l.PushBack(")")
	l.LinkTokens(open, closeParen)

	seed.Sizeof(settings(), l.Front(), token.Node{})
	v, ok := sizeofTok.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(4), v.Int)
}

func TestSizeofPointerType(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	sizeofTok := l.PushBack("sizeof")
	open := l.PushBack("(")
	l.PushBack("int")
	l.PushBack("*")
	closeParen := l.PushBack(")")
	l.LinkTokens(open, closeParen)

	seed.Sizeof(settings(), l.Front(), token.Node{})
	v, ok := sizeofTok.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(8), v.Int)
}

func TestSizeofVariableUsesValueType(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	sizeofTok := l.PushBack("sizeof")
	open := l.PushBack("(")
	varTok := l.PushBack("x")
	varTok.SetTag(token.Variable)
	varTok.SetValueType(&token.ValueType{Width: 32})
	closeParen := l.PushBack(")")
	l.LinkTokens(open, closeParen)

	seed.Sizeof(settings(), l.Front(), token.Node{})
	v, ok := sizeofTok.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(4), v.Int)
}

func TestSizeofStringLiteral(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	sizeofTok := l.PushBack("sizeof")
	open := l.PushBack("(")
	strTok := l.PushBack(`"abc"`)
	strTok.SetTag(token.String)
	closeParen := l.PushBack(")")
	l.LinkTokens(open, closeParen)

	seed.Sizeof(settings(), l.Front(), token.Node{})
	v, ok := sizeofTok.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(4), v.Int) // 3 chars + null terminator
}

func TestEnumeratorsSequentialAndExplicit(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	l.PushBack("enum")
	open := l.PushBack("{")
	a := l.PushBack("A")
	a.SetTag(token.Name)
	l.PushBack(",")
	b := l.PushBack("B")
	b.SetTag(token.Name)
	l.PushBack("=")
	five := l.PushBack("5")
	five.SetTag(token.Number)
	l.PushBack(",")
	c := l.PushBack("C")
	c.SetTag(token.Name)
	closeBrace := l.PushBack("}")
	l.LinkTokens(open, closeBrace)
	l.PushBack(";")

	seed.Enumerators(settings(), l.Front(), token.Node{})

	av, ok := a.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(0), av.Int)

	bv, ok := b.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(5), bv.Int)

	cv, ok := c.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(6), cv.Int)
}

func TestDefaultInitZeroesVariable(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	varTok := l.PushBack("x")
	varTok.SetTag(token.Variable)
	l.PushBack("{")
	l.PushBack("}")
	l.PushBack(";")

	seed.DefaultInit(settings(), l.Front(), token.Node{})
	v, ok := varTok.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(0), v.Int)
}

func buildConstDecl(l *token.List, varID token.VarID) (varTok token.Node) {
	l.PushBack("const")
	l.PushBack("int")
	varTok = l.PushBack("x")
	varTok.SetTag(token.Variable)
	varTok.SetVarID(varID)
	l.PushBack("=")
	lit := l.PushBack("7")
	lit.SetTag(token.Number)
	l.PushBack(";")
	return varTok
}

func TestConstStaticSeedsWhenNotWritten(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	const varID = token.VarID(1)
	varTok := buildConstDecl(l, varID)
	l.PushBack("use")
	l.PushBack("(")
	use := l.PushBack("x")
	use.SetVarID(varID)
	l.PushBack(")")
	l.PushBack(";")

	seed.ConstStatic(settings(), l.Front(), token.Node{})
	v, ok := varTok.Values().GetKnown(value.INT)
	require.True(t, ok)
	require.Equal(t, int64(7), v.Int)
}

func TestConstStaticSkipsWhenWritten(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	const varID = token.VarID(1)
	varTok := buildConstDecl(l, varID)
	later := l.PushBack("x")
	later.SetVarID(varID)
	l.PushBack("=")
	l.PushBack("9")
	l.PushBack(";")

	seed.ConstStatic(settings(), l.Front(), token.Node{})
	_, ok := varTok.Values().GetKnown(value.INT)
	require.False(t, ok)
}

type fakeLibrary struct {
	allocArgIndex int
}

func (f fakeLibrary) IsNotLibraryFunction(string) bool { return false }
func (f fakeLibrary) AllocFuncInfo(name string) (valueflow.AllocFuncInfo, bool) {
	if name != "malloc" {
		return valueflow.AllocFuncInfo{}, false
	}
	return valueflow.AllocFuncInfo{ArgIndex: f.allocArgIndex}, true
}
func (f fakeLibrary) ReallocFuncInfo(string) (valueflow.ReallocFuncInfo, bool) {
	return valueflow.ReallocFuncInfo{}, false
}
func (f fakeLibrary) IsScopeNoReturn(string) bool                 { return false }
func (f fakeLibrary) ReturnValue(string) (int64, bool)            { return 0, false }
func (f fakeLibrary) ContainerYield(string, string) valueflow.ContainerYield {
	return valueflow.YieldNone
}
func (f fakeLibrary) ContainerAction(string, string) valueflow.ContainerAction {
	return valueflow.NoAction
}
func (f fakeLibrary) StdAssociativeLike(string) bool         { return false }
func (f fakeLibrary) StdStringLike(string) bool              { return false }
func (f fakeLibrary) IsIntArgValid(string, int, int64) bool  { return true }
func (f fakeLibrary) IsFloatArgValid(string, int, float64) bool { return true }

func TestDynamicBufferSizeFromMalloc(t *testing.T) {
	t.Parallel()
	l := token.NewList(token.Cpp)
	mallocTok := l.PushBack("malloc")
	mallocTok.SetTag(token.Function)
	open := l.PushBack("(")
	l.PushBack("10")
	closeParen := l.PushBack(")")
	l.LinkTokens(open, closeParen)
	l.PushBack(";")

	s := settings()
	s.Library = fakeLibrary{allocArgIndex: 0}

	seed.DynamicBufferSize(s, l.Front(), token.Node{})
	v, ok := mallocTok.Values().GetKnown(value.BUFFER_SIZE)
	require.True(t, ok)
	require.Equal(t, int64(10), v.Int)
}
