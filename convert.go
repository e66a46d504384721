package fpu

import (
	"fmt"
	"math"
)

// IntKind is the integer type of a conversion.
type IntKind uint8

const (
	Int32  IntKind = iota // W
	Uint32                // WU
	Int64                 // L
	Uint64                // LU
)

func (k IntKind) String() string {
	switch k {
	case Int32:
		return "w"
	case Uint32:
		return "wu"
	case Int64:
		return "l"
	case Uint64:
		return "lu"
	}
	return fmt.Sprintf("IntKind(%d)", uint8(k))
}

// Bits returns the width of the integer type.
func (k IntKind) Bits() int {
	if k == Int32 || k == Uint32 {
		return 32
	}
	return 64
}

// Signed reports whether the integer type is signed.
func (k IntKind) Signed() bool {
	return k == Int32 || k == Int64
}

// maxValue is the saturated result for positive overflow and NaN.
func (k IntKind) maxValue() uint64 {
	switch k {
	case Int32:
		return math.MaxInt32
	case Uint32:
		return k.extend(math.MaxUint32)
	case Int64:
		return math.MaxInt64
	}
	return math.MaxUint64
}

// minValue is the saturated result for negative overflow.
func (k IntKind) minValue() uint64 {
	switch k {
	case Int32:
		return k.extend(1 << 31)
	case Int64:
		return 1 << 63
	}
	return 0
}

// extend sign-extends 32-bit results into a 64-bit register.
func (k IntKind) extend(x uint64) uint64 {
	if k.Bits() == 32 {
		return uint64(int64(int32(uint32(x))))
	}
	return x
}

// ToInt converts a to an integer of kind k, rounding with rm. NaNs and
// out of range values raise invalid and saturate; NaNs saturate to the
// largest positive value. 32-bit results are sign-extended.
func ToInt(f Format, a uint64, k IntKind, rm RoundingMode) (uint64, Flags) {
	x := unpack(f, a)
	switch {
	case x.isNaN():
		return k.maxValue(), Invalid
	case x.isInf():
		if x.sign {
			return k.minValue(), Invalid
		}
		return k.maxValue(), Invalid
	}
	overflow := func() (uint64, Flags) {
		if x.sign {
			return k.minValue(), Invalid
		}
		return k.maxValue(), Invalid
	}

	// x is mant * 2^shift
	shift := x.exp - f.bias() - f.FracBits()
	var mag uint64
	var rb roundBits
	switch {
	case x.mant == 0:
	case shift >= 0:
		if x.exp-f.bias() >= 64 {
			return overflow()
		}
		mag = x.mant << shift
	default:
		mag, rb = shiftRightRound(x.mant, -shift)
		if roundUp(rm, rb, mag&1 != 0, x.sign) {
			mag++
		}
	}

	n := k.Bits()
	if k.Signed() {
		limit := uint64(1) << (n - 1)
		if mag > limit || mag == limit && !x.sign {
			return overflow()
		}
		if x.sign {
			mag = -mag
		}
	} else {
		if x.sign && mag != 0 {
			return overflow()
		}
		if n == 32 && mag > math.MaxUint32 {
			return overflow()
		}
	}

	var flags Flags
	if rb.any() {
		flags = Inexact
	}
	return k.extend(mag), flags
}

// FromInt converts the integer x of kind k to format f, rounding with rm.
// Only the low 32 bits of x are used for 32-bit kinds.
func FromInt(f Format, x uint64, k IntKind, rm RoundingMode) (uint64, Flags) {
	var sign bool
	mag := x
	switch k {
	case Int32:
		v := int64(int32(uint32(x)))
		sign = v < 0
		mag = uint64(v)
	case Uint32:
		mag = uint64(uint32(x))
	case Int64:
		sign = int64(x) < 0
	}
	if sign {
		mag = -mag
	}
	if mag == 0 {
		return f.assemble(assembly{exactZero: true})
	}

	top := 63 - leadingZeros(mag, 64)
	m, rb := f.splitWide(mag, top)
	return f.roundPack(sign, top+f.bias(), m, rb, rm)
}
