// Package softref is an arbitrary-precision reference model of the fpu
// operations. Values are decoded into exact big.Float magnitudes, combined
// exactly (or truncated with a sticky bit for division and square root)
// and rounded once by Round. It shares no arithmetic with package fpu.
package softref

import (
	"math"
	"math/big"

	"github.com/shogo82148/fpu"
)

// workPrec is large enough to hold any sum or product of two binary64
// values exactly.
const workPrec = 4096

// params of an IEEE binary format.
type params struct {
	prec int // significant bits including the implicit one
	emin int // exponent of the smallest normal
	emax int // exponent of the largest finite value
	bias int
	frac int
}

func paramsOf(f fpu.Format) params {
	if f == fpu.Single {
		return params{prec: 24, emin: -126, emax: 127, bias: 127, frac: 23}
	}
	return params{prec: 53, emin: -1022, emax: 1023, bias: 1023, frac: 52}
}

func newFloat() *big.Float {
	return new(big.Float).SetPrec(workPrec)
}

// roundInt rounds x*2^shift to an integer with rm. x must be finite and
// non-negative. sticky adds an infinitesimal to x. The second result
// reports whether the rounding was inexact.
func roundInt(x *big.Float, shift int, sticky, neg bool, rm fpu.RoundingMode) (*big.Int, bool) {
	scaled := newFloat().SetMantExp(x, shift)
	n, _ := scaled.Int(nil) // truncates toward zero
	rem := newFloat().Sub(scaled, newFloat().SetInt(n))

	half := rem.Cmp(big.NewFloat(0.5))
	inexact := rem.Sign() != 0 || sticky
	above := half > 0 || half == 0 && sticky
	tie := half == 0 && !sticky

	var up bool
	switch rm {
	case fpu.TowardZero:
	case fpu.TowardNegative:
		up = neg && inexact
	case fpu.TowardPositive:
		up = !neg && inexact
	case fpu.ToNearestMaxMagnitude:
		up = above || tie
	default:
		up = above || tie && n.Bit(0) == 1
	}
	if up {
		n.Add(n, big.NewInt(1))
	}
	return n, inexact
}

// ilog2 returns floor(log2(x)) for a finite positive x.
func ilog2(x *big.Float) int {
	return x.MantExp(nil) - 1
}

// Round rounds the magnitude x, with sign neg, to format f. sticky
// reports that the true magnitude is infinitesimally larger than x.
// Tininess is detected after rounding. x must be finite and non-zero.
func Round(f fpu.Format, neg bool, x *big.Float, sticky bool, rm fpu.RoundingMode) (uint64, fpu.Flags) {
	p := paramsOf(f)

	// round with an unbounded exponent range to detect tininess
	e := ilog2(x)
	n, _ := roundInt(x, p.prec-1-e, sticky, neg, rm)
	if n.BitLen() > p.prec {
		e++
	}
	tiny := e < p.emin

	e = max(ilog2(x), p.emin)
	n, inexact := roundInt(x, p.prec-1-e, sticky, neg, rm)
	if n.BitLen() > p.prec {
		n.Rsh(n, 1)
		e++
	}

	var flags fpu.Flags
	if e > p.emax {
		flags = fpu.Overflow | fpu.Inexact
		if overflowsToInf(rm, neg) {
			return f.Inf(neg), flags
		}
		return f.MaxFinite(neg), flags
	}
	if inexact {
		flags |= fpu.Inexact
		if tiny {
			flags |= fpu.Underflow
		}
	}

	m := n.Uint64()
	var exp uint64
	if n.BitLen() == p.prec {
		exp = uint64(e + p.bias)
		m &^= 1 << p.frac
	}
	bits := exp<<p.frac | m
	if neg {
		bits |= 1 << (f.Width() - 1)
	}
	return bits, flags
}

func overflowsToInf(rm fpu.RoundingMode, neg bool) bool {
	switch rm {
	case fpu.TowardZero:
		return false
	case fpu.TowardNegative:
		return neg
	case fpu.TowardPositive:
		return !neg
	}
	return true
}

type kind uint8

const (
	finite kind = iota
	zero
	inf
	qnan
	snan
)

// num is a decoded operand. mag is nil unless kind is finite.
type num struct {
	kind kind
	neg  bool
	mag  *big.Float
}

func (x num) isNaN() bool { return x.kind == qnan || x.kind == snan }

func decode(f fpu.Format, bits uint64) num {
	var v float64
	if f == fpu.Single {
		b := uint32(bits)
		v = float64(math.Float32frombits(b))
		if v != v {
			if b&(1<<22) != 0 {
				return num{kind: qnan}
			}
			return num{kind: snan}
		}
	} else {
		v = math.Float64frombits(bits)
		if v != v {
			if bits&(1<<51) != 0 {
				return num{kind: qnan}
			}
			return num{kind: snan}
		}
	}
	neg := math.Signbit(v)
	switch {
	case math.IsInf(v, 0):
		return num{kind: inf, neg: neg}
	case v == 0:
		return num{kind: zero, neg: neg}
	}
	return num{kind: finite, neg: neg, mag: newFloat().SetFloat64(math.Abs(v))}
}

// signed returns x as a signed big.Float.
func (x num) signed() *big.Float {
	if x.kind == zero {
		return newFloat()
	}
	v := newFloat().Set(x.mag)
	if x.neg {
		v.Neg(v)
	}
	return v
}

// fromSigned rounds a signed exact value. A zero value takes the sign
// zeroSign.
func fromSigned(f fpu.Format, v *big.Float, sticky, zeroSign bool, rm fpu.RoundingMode) (uint64, fpu.Flags) {
	if v.Sign() == 0 {
		return f.Zero(zeroSign), 0
	}
	neg := v.Sign() < 0
	return Round(f, neg, newFloat().Abs(v), sticky, rm)
}
