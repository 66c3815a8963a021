// Package platform hosts the platform/ABI constants consumed from the external library
// configuration: bit widths, pointer size, and signed-char range. These are read-only for the
// duration of an analysis run and may be shared across translation units analyzed in parallel.
package platform

// Kind identifies a target platform preset.
type Kind uint8

const (
	Unspecified Kind = iota
	Win32
	Win64
	Unix32
	Unix64
)

// Constants bundles the ABI facts the setter/folder and pattern-driven type classification need.
type Constants struct {
	Kind Kind

	CharBit int
	ShortBit int
	IntBit int
	LongBit int
	LongLongBit int

	SizeofInt int
	SizeofPointer int
	SizeofWcharT int

	SignedCharMax int64
	SignedCharMin int64
}

// Native returns the constants for a typical 64-bit little-endian Unix target (LP64), used as
// the default when no explicit platform is configured.
func Native() Constants {
	return Constants{
		Kind: Unix64,
		CharBit: 8,
		ShortBit: 16,
		IntBit: 32,
		LongBit: 64,
		LongLongBit: 64,
		SizeofInt: 4,
		SizeofPointer: 8,
		SizeofWcharT: 4,
		SignedCharMax: 127,
		SignedCharMin: -128,
	}
}

// Win64Constants returns the constants for an LLP64 Windows 64-bit target, where long stays 32-bit.
func Win64Constants() Constants {
	c := Native()
	c.Kind = Win64
	c.LongBit = 32
	c.SizeofWcharT = 2
	return c
}

// Win32Constants returns the constants for a 32-bit Windows target.
func Win32Constants() Constants {
	c := Win64Constants()
	c.Kind = Win32
	c.SizeofPointer = 4
	return c
}

// Unix32Constants returns the constants for a 32-bit Unix (ILP32) target.
func Unix32Constants() Constants {
	c := Native()
	c.Kind = Unix32
	c.LongBit = 32
	c.SizeofPointer = 4
	return c
}

// MaskWidth returns v truncated to the low `width` bits, reinterpreted as unsigned. Used by the
// setter's bitwise-not and cast truncation logic.
func MaskWidth(v int64, width int) uint64 {
	if width <= 0 || width >= 64 {
		return uint64(v)
	}
	mask := uint64(1)<<uint(width) - 1
	return uint64(v) & mask
}

// SignExtend reinterprets the low `width` bits of v as a signed integer of that width.
func SignExtend(v uint64, width int) int64 {
	if width <= 0 || width >= 64 {
		return int64(v)
	}
	signBit := uint64(1) << uint(width-1)
	masked := v & (uint64(1)<<uint(width) - 1)
	if masked&signBit != 0 {
		return int64(masked) - int64(uint64(1)<<uint(width))
	}
	return int64(masked)
}
