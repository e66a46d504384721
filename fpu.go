// Package fpu implements a bit-exact IEEE 754 binary32/binary64 execution
// core with the RISC-V F and D extension semantics: canonical NaNs, NaN
// boxing, five rounding modes and sticky exception flags.
//
// Every operation is available as a pure function working on raw bit
// patterns. [Dispatcher] wraps the same engines behind a submit/advance
// scheduling contract with per-engine busy tracking.
package fpu

import (
	"fmt"
	"math/bits"
)

// Format is an IEEE 754 binary interchange format.
type Format uint8

const (
	Single Format = iota // binary32
	Double               // binary64
)

// Valid reports whether f is one of the supported formats.
func (f Format) Valid() bool {
	return f == Single || f == Double
}

func (f Format) String() string {
	switch f {
	case Single:
		return "s"
	case Double:
		return "d"
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// Width returns the number of bits of f.
func (f Format) Width() int {
	if f == Single {
		return 32
	}
	return 64
}

// ExpBits returns the width of the exponent field.
func (f Format) ExpBits() int {
	if f == Single {
		return 8
	}
	return 11
}

// FracBits returns the width of the fraction field.
func (f Format) FracBits() int {
	if f == Single {
		return 23
	}
	return 52
}

// precision is the number of significant bits including the implicit one.
func (f Format) precision() int {
	return f.FracBits() + 1
}

func (f Format) bias() int {
	return 1<<(f.ExpBits()-1) - 1
}

// maxExp is the all-ones biased exponent used by infinities and NaNs.
func (f Format) maxExp() int {
	return 1<<f.ExpBits() - 1
}

func (f Format) mask() uint64 {
	if f == Single {
		return 0xffff_ffff
	}
	return 0xffff_ffff_ffff_ffff
}

func (f Format) signMask() uint64 {
	return 1 << (f.Width() - 1)
}

func (f Format) fracMask() uint64 {
	return 1<<f.FracBits() - 1
}

// CanonicalNaN returns the quiet NaN produced whenever an operation has to
// manufacture a NaN: positive sign, all-ones exponent and only the most
// significant fraction bit set.
func (f Format) CanonicalNaN() uint64 {
	return uint64(f.maxExp())<<f.FracBits() | 1<<(f.FracBits()-1)
}

// Inf returns the infinity of the given sign.
func (f Format) Inf(neg bool) uint64 {
	return f.pack(neg, f.maxExp(), 0)
}

// Zero returns the zero of the given sign.
func (f Format) Zero(neg bool) uint64 {
	return f.pack(neg, 0, 0)
}

// MaxFinite returns the largest finite magnitude of the given sign.
func (f Format) MaxFinite(neg bool) uint64 {
	return f.pack(neg, f.maxExp()-1, f.fracMask())
}

func (f Format) pack(neg bool, exp int, frac uint64) uint64 {
	var sign uint64
	if neg {
		sign = f.signMask()
	}
	return sign | uint64(exp)<<f.FracBits() | frac&f.fracMask()
}

// Class is the IEEE 754 classification of a bit pattern.
type Class uint8

const (
	PositiveZero Class = iota
	NegativeZero
	Subnormal
	Normal
	Infinity
	QuietNaN
	SignalingNaN
)

var classNames = [...]string{
	PositiveZero: "+0",
	NegativeZero: "-0",
	Subnormal:    "subnormal",
	Normal:       "normal",
	Infinity:     "inf",
	QuietNaN:     "qnan",
	SignalingNaN: "snan",
}

func (c Class) String() string {
	if int(c) < len(classNames) {
		return classNames[c]
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// IsNaN reports whether c is either kind of NaN.
func (c Class) IsNaN() bool {
	return c == QuietNaN || c == SignalingNaN
}

// IsZero reports whether c is a zero of either sign.
func (c Class) IsZero() bool {
	return c == PositiveZero || c == NegativeZero
}

// ClassOf classifies the bit pattern x of format f.
func ClassOf(f Format, x uint64) Class {
	return unpack(f, x).class
}

// operand is an unpacked floating-point value.
type operand struct {
	sign  bool
	class Class
	exp   int    // biased exponent, 1 for subnormals and zeros
	mant  uint64 // significand with the implicit bit injected for normals
}

func unpack(f Format, x uint64) operand {
	x &= f.mask()
	sign := x&f.signMask() != 0
	exp := int(x>>f.FracBits()) & f.maxExp()
	frac := x & f.fracMask()

	op := operand{sign: sign, exp: exp, mant: frac}
	switch {
	case exp == f.maxExp():
		switch {
		case frac == 0:
			op.class = Infinity
		case frac>>(f.FracBits()-1) != 0:
			op.class = QuietNaN
		default:
			op.class = SignalingNaN
		}
	case exp == 0:
		op.exp = 1
		switch {
		case frac != 0:
			op.class = Subnormal
		case sign:
			op.class = NegativeZero
		default:
			op.class = PositiveZero
		}
	default:
		op.class = Normal
		op.mant |= 1 << f.FracBits()
	}
	return op
}

func (op operand) isNaN() bool { return op.class.IsNaN() }
func (op operand) isSNaN() bool { return op.class == SignalingNaN }
func (op operand) isInf() bool { return op.class == Infinity }
func (op operand) isZero() bool { return op.class.IsZero() }

// normalize shifts a subnormal significand up until the implicit bit
// position is occupied, lowering the exponent below 1 accordingly.
// Zeros are returned unchanged.
func (op operand) normalize(f Format) operand {
	if op.mant == 0 {
		return op
	}
	shift := bits.LeadingZeros64(op.mant) - (63 - f.FracBits())
	if shift > 0 {
		op.mant <<= shift
		op.exp -= shift
	}
	return op
}
