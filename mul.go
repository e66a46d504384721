package fpu

import (
	"math/bits"

	"github.com/shogo82148/int128"
)

// Mul returns the IEEE 754 product of a and b.
func Mul(f Format, a, b uint64, rm RoundingMode) (uint64, Flags) {
	x := unpack(f, a)
	y := unpack(f, b)
	sign := x.sign != y.sign

	switch {
	case x.isNaN() || y.isNaN():
		// anything * NaN = NaN
		return f.assemble(assembly{special: f.nanResult(x, y)})
	case x.isInf() && y.isZero(), x.isZero() && y.isInf():
		// ±inf * ±0 = NaN
		return f.assemble(assembly{special: f.invalid()})
	case x.isInf() || y.isInf():
		return f.Inf(sign), 0
	case x.isZero() || y.isZero():
		return f.Zero(sign), 0
	}

	prod := mul128(x.mant, y.mant)

	// bit 0 of the product weighs 2^(lsb-bias)
	lsb := x.exp + y.exp - f.bias() - 2*f.FracBits()
	top := bitLen128(prod) - 1
	mant, rb := f.splitWide128(prod, top)
	return f.roundPack(sign, lsb+top, mant, rb, rm)
}

// mul128 returns the full 128-bit product of x and y.
func mul128(x, y uint64) int128.Uint128 {
	hi, lo := bits.Mul64(x, y)
	return int128.Uint128{H: hi, L: lo}
}

// splitWide128 is splitWide for a 128-bit value whose most significant
// set bit is at position top.
func (f Format) splitWide128(x int128.Uint128, top int) (uint64, roundBits) {
	low := top - f.FracBits()
	if low <= 2 {
		return f.splitWide(x.L, top)
	}
	return x.Rsh(uint(low)).L, roundBits{
		guard:  x.Rsh(uint(low-1)).L&1 != 0,
		round:  x.Rsh(uint(low-2)).L&1 != 0,
		sticky: x.Lsh(uint(128-(low-2))) != int128.Uint128{},
	}
}
