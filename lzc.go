package fpu

import (
	"math/bits"

	"github.com/shogo82148/int128"
	"golang.org/x/exp/constraints"
)

// leadingZeros counts the leading zero bits of the low width bits of x.
// It returns width when they are all zero.
func leadingZeros[T constraints.Unsigned](x T, width int) int {
	n := bits.LeadingZeros64(uint64(x)) - (64 - width)
	if n < 0 {
		// x has bits above width; they are ignored
		x &= T(1)<<width - 1
		n = bits.LeadingZeros64(uint64(x)) - (64 - width)
	}
	return n
}

// leadingZeros128 is leadingZeros for a full 128-bit value.
func leadingZeros128(x int128.Uint128) int {
	if x.H != 0 {
		return bits.LeadingZeros64(x.H)
	}
	return 64 + bits.LeadingZeros64(x.L)
}

// bitLen128 returns the minimum number of bits needed to represent x.
func bitLen128(x int128.Uint128) int {
	return 128 - leadingZeros128(x)
}
