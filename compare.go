package fpu

import "math"

// orderKey maps a non-NaN bit pattern to an integer with the same
// ordering as the value it encodes. ±0 share the key 0.
func orderKey(f Format, x uint64) int64 {
	v := int64(x << (64 - f.Width()))
	k := v ^ ((v >> 63) & math.MaxInt64)
	return k + int64(uint64(v)>>63)
}

// Eq reports whether a == b. Only signaling NaNs raise invalid.
func Eq(f Format, a, b uint64) (bool, Flags) {
	x := unpack(f, a)
	y := unpack(f, b)
	if x.isNaN() || y.isNaN() {
		if x.isSNaN() || y.isSNaN() {
			return false, Invalid
		}
		return false, 0
	}
	return orderKey(f, a) == orderKey(f, b), 0
}

// Lt reports whether a < b. Any NaN raises invalid.
func Lt(f Format, a, b uint64) (bool, Flags) {
	if ClassOf(f, a).IsNaN() || ClassOf(f, b).IsNaN() {
		return false, Invalid
	}
	return orderKey(f, a) < orderKey(f, b), 0
}

// Le reports whether a <= b. Any NaN raises invalid.
func Le(f Format, a, b uint64) (bool, Flags) {
	if ClassOf(f, a).IsNaN() || ClassOf(f, b).IsNaN() {
		return false, Invalid
	}
	return orderKey(f, a) <= orderKey(f, b), 0
}

// Min returns the smaller of a and b following IEEE 754-2008 minNum:
// a single NaN operand is ignored and -0 is smaller than +0.
func Min(f Format, a, b uint64) (uint64, Flags) {
	return minMax(f, a, b, false)
}

// Max returns the larger of a and b following IEEE 754-2008 maxNum:
// a single NaN operand is ignored and +0 is larger than -0.
func Max(f Format, a, b uint64) (uint64, Flags) {
	return minMax(f, a, b, true)
}

func minMax(f Format, a, b uint64, isMax bool) (uint64, Flags) {
	a &= f.mask()
	b &= f.mask()
	x := unpack(f, a)
	y := unpack(f, b)

	var flags Flags
	if x.isSNaN() || y.isSNaN() {
		flags = Invalid
	}
	switch {
	case x.isNaN() && y.isNaN():
		return f.CanonicalNaN(), flags
	case x.isNaN():
		return b, flags
	case y.isNaN():
		return a, flags
	}

	ka, kb := orderKey(f, a), orderKey(f, b)
	switch {
	case ka < kb:
		if isMax {
			return b, flags
		}
		return a, flags
	case ka > kb:
		if isMax {
			return a, flags
		}
		return b, flags
	}
	// equal values differ at most in the sign of zero
	if isMax {
		return a & b, flags
	}
	return a | b, flags
}
