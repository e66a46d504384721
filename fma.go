package fpu

import "github.com/shogo82148/int128"

// fmaTop is the bit position both the product and the addend are aligned
// to inside the 128-bit window. Two bits of headroom absorb the carry.
const fmaTop = 125

// FMA returns (±a*b)±c computed with a single rounding. negProduct negates
// a*b and negAddend negates c, which gives the RISC-V FMADD, FMSUB,
// FNMSUB and FNMADD variants.
func FMA(f Format, a, b, c uint64, negProduct, negAddend bool, rm RoundingMode) (uint64, Flags) {
	x := unpack(f, a)
	y := unpack(f, b)
	z := unpack(f, c)
	psign := x.sign != y.sign != negProduct
	zsign := z.sign != negAddend
	infTimesZero := x.isInf() && y.isZero() || x.isZero() && y.isInf()

	switch {
	case x.isNaN() || y.isNaN() || z.isNaN():
		s := f.nanResult(x, y, z)
		if infTimesZero {
			// invalid even when the addend is a quiet NaN
			s.flags |= Invalid
		}
		return f.assemble(assembly{special: s})
	case infTimesZero:
		return f.assemble(assembly{special: f.invalid()})
	case (x.isInf() || y.isInf()) && z.isInf() && psign != zsign:
		// ±inf + ∓inf = NaN
		return f.assemble(assembly{special: f.invalid()})
	case x.isInf() || y.isInf():
		return f.Inf(psign), 0
	case z.isInf():
		return f.Inf(zsign), 0
	}

	if x.isZero() || y.isZero() {
		if z.isZero() {
			sign := psign && zsign || psign != zsign && rm == TowardNegative
			return f.assemble(assembly{sign: sign, exactZero: true})
		}
		// the addend is exact
		return f.pack(zsign, 0, 0) | c&^f.signMask()&f.mask(), 0
	}

	x = x.normalize(f)
	y = y.normalize(f)
	prod := mul128(x.mant, y.mant)

	// bit 0 of each term weighs 2^(lsb-bias)
	pShift := fmaTop - (bitLen128(prod) - 1)
	p := term{
		sign: psign,
		sig:  prod.Lsh(uint(pShift)),
		lsb:  x.exp + y.exp - f.bias() - 2*f.FracBits() - pShift,
	}
	if z.isZero() {
		mant, rb := f.splitWide128(p.sig, fmaTop)
		return f.roundPack(p.sign, p.lsb+fmaTop, mant, rb, rm)
	}

	z = z.normalize(f)
	zShift := fmaTop - f.FracBits()
	q := term{
		sign: zsign,
		sig:  int128.Uint128{L: z.mant}.Lsh(uint(zShift)),
		lsb:  z.exp - f.FracBits() - zShift,
	}

	// both terms now have their leading bit at fmaTop; the one with the
	// larger exponent (or larger significand on a tie) is the large one.
	large, small := p, q
	if q.lsb > p.lsb || q.lsb == p.lsb && q.sig.Cmp(p.sig) > 0 {
		large, small = q, p
	}
	aligned, sticky := shiftRightSticky128(small.sig, large.lsb-small.lsb)

	var sum int128.Uint128
	if large.sign == small.sign {
		sum = large.sig.Add(aligned)
	} else {
		sum = large.sig.Sub(aligned)
		if sticky {
			// the discarded part of the subtrahend borrows one unit
			// from the bottom of the window; the bits below it are
			// then all ones and the sticky stays set.
			sum = sum.Sub(int128.Uint128{L: 1})
		}
	}
	if sum == (int128.Uint128{}) && !sticky {
		sign := rm == TowardNegative
		return f.assemble(assembly{sign: sign, exactZero: true})
	}

	top := bitLen128(sum) - 1
	mant, rb := f.splitWide128(sum, top)
	rb.sticky = rb.sticky || sticky
	return f.roundPack(large.sign, large.lsb+top, mant, rb, rm)
}

// term is one addend of the fused sum.
type term struct {
	sign bool
	sig  int128.Uint128
	lsb  int
}

// shiftRightSticky128 shifts x right by n bits and reports whether any
// set bit was shifted out.
func shiftRightSticky128(x int128.Uint128, n int) (int128.Uint128, bool) {
	if n <= 0 {
		return x, false
	}
	if n >= 128 {
		return int128.Uint128{}, x != int128.Uint128{}
	}
	lost := x.Lsh(uint(128-n)) != int128.Uint128{}
	return x.Rsh(uint(n)), lost
}
