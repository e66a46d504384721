package fpu

const boxMask = 0xffff_ffff_0000_0000

// Box stores a binary32 value in a 64-bit register by setting all the
// upper bits.
func Box(x uint32) uint64 {
	return boxMask | uint64(x)
}

// Unbox extracts a binary32 value from a 64-bit register. Values that are
// not properly boxed read as the canonical NaN.
func Unbox(x uint64) uint32 {
	if x&boxMask != boxMask {
		return uint32(Single.CanonicalNaN())
	}
	return uint32(x)
}

// IsBoxed reports whether x holds a properly NaN-boxed binary32 value.
func IsBoxed(x uint64) bool {
	return x&boxMask == boxMask
}

// unbox reads an operand of format f from a 64-bit register.
func (f Format) unbox(x uint64) uint64 {
	if f == Single {
		return uint64(Unbox(x))
	}
	return x
}

// box writes a result of format f into a 64-bit register.
func (f Format) box(x uint64) uint64 {
	if f == Single {
		return Box(uint32(x))
	}
	return x
}
