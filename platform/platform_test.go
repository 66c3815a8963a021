package platform_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/c2goflow/platform"
)

func TestMaskWidth(t *testing.T) {
	t.Parallel()
	require.Equal(t, uint64(0xff), platform.MaskWidth(-1, 8))
	require.Equal(t, uint64(0xffff), platform.MaskWidth(-1, 16))
}

func TestSignExtend(t *testing.T) {
	t.Parallel()
	// 0xff as an 8-bit signed value is -1.
	require.Equal(t, int64(-1), platform.SignExtend(0xff, 8))
	require.Equal(t, int64(127), platform.SignExtend(0x7f, 8))
}

func TestNativeConstants(t *testing.T) {
	t.Parallel()
	c := platform.Native()
	require.Equal(t, 8, c.SizeofPointer)
	require.Equal(t, 64, c.LongBit)
}

func TestWin64HasLLP64Long(t *testing.T) {
	t.Parallel()
	c := platform.Win64Constants()
	require.Equal(t, 32, c.LongBit)
	require.Equal(t, 8, c.SizeofPointer)
}
