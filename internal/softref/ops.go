package softref

import (
	"math"
	"math/big"

	"github.com/shogo82148/fpu"
)

func canonicalNaN(f fpu.Format, signal bool) (uint64, fpu.Flags) {
	var flags fpu.Flags
	if signal {
		flags = fpu.Invalid
	}
	if f == fpu.Single {
		return 0x7fc00000, flags
	}
	return 0x7ff8000000000000, flags
}

func anySNaN(xs ...num) bool {
	for _, x := range xs {
		if x.kind == snan {
			return true
		}
	}
	return false
}

// Add returns a + b.
func Add(f fpu.Format, a, b uint64, rm fpu.RoundingMode) (uint64, fpu.Flags) {
	return add(f, decode(f, a), decode(f, b), rm)
}

// Sub returns a - b.
func Sub(f fpu.Format, a, b uint64, rm fpu.RoundingMode) (uint64, fpu.Flags) {
	y := decode(f, b)
	if !y.isNaN() {
		y.neg = !y.neg
	}
	return add(f, decode(f, a), y, rm)
}

func add(f fpu.Format, x, y num, rm fpu.RoundingMode) (uint64, fpu.Flags) {
	switch {
	case x.isNaN() || y.isNaN():
		return canonicalNaN(f, anySNaN(x, y))
	case x.kind == inf && y.kind == inf:
		if x.neg != y.neg {
			return canonicalNaN(f, true)
		}
		return f.Inf(x.neg), 0
	case x.kind == inf:
		return f.Inf(x.neg), 0
	case y.kind == inf:
		return f.Inf(y.neg), 0
	case x.kind == zero && y.kind == zero:
		return f.Zero(zeroSum(x.neg, y.neg, rm)), 0
	}
	sum := newFloat().Add(x.signed(), y.signed())
	return fromSigned(f, sum, false, rm == fpu.TowardNegative, rm)
}

// zeroSum is the sign of an exact zero sum of two zeros.
func zeroSum(a, b bool, rm fpu.RoundingMode) bool {
	if a == b {
		return a
	}
	return rm == fpu.TowardNegative
}

// Mul returns a * b.
func Mul(f fpu.Format, a, b uint64, rm fpu.RoundingMode) (uint64, fpu.Flags) {
	x, y := decode(f, a), decode(f, b)
	neg := x.neg != y.neg
	switch {
	case x.isNaN() || y.isNaN():
		return canonicalNaN(f, anySNaN(x, y))
	case x.kind == inf && y.kind == zero, x.kind == zero && y.kind == inf:
		return canonicalNaN(f, true)
	case x.kind == inf || y.kind == inf:
		return f.Inf(neg), 0
	case x.kind == zero || y.kind == zero:
		return f.Zero(neg), 0
	}
	return Round(f, neg, newFloat().Mul(x.mag, y.mag), false, rm)
}

// Div returns a / b.
func Div(f fpu.Format, a, b uint64, rm fpu.RoundingMode) (uint64, fpu.Flags) {
	x, y := decode(f, a), decode(f, b)
	neg := x.neg != y.neg
	switch {
	case x.isNaN() || y.isNaN():
		return canonicalNaN(f, anySNaN(x, y))
	case x.kind == inf && y.kind == inf, x.kind == zero && y.kind == zero:
		return canonicalNaN(f, true)
	case x.kind == inf:
		return f.Inf(neg), 0
	case y.kind == inf:
		return f.Zero(neg), 0
	case y.kind == zero:
		return f.Inf(neg), fpu.DivideByZero
	case x.kind == zero:
		return f.Zero(neg), 0
	}
	q := newFloat().SetMode(big.ToZero).Quo(x.mag, y.mag)
	back := new(big.Float).SetPrec(2 * workPrec).Mul(q, y.mag)
	return Round(f, neg, q, back.Cmp(x.mag) != 0, rm)
}

// sqrtGuard is the number of extra root bits computed beyond the
// operand's own.
const sqrtGuard = 128

// Sqrt returns the square root of a.
func Sqrt(f fpu.Format, a uint64, rm fpu.RoundingMode) (uint64, fpu.Flags) {
	x := decode(f, a)
	switch {
	case x.isNaN():
		return canonicalNaN(f, x.kind == snan)
	case x.kind == zero:
		return f.Zero(x.neg), 0
	case x.neg:
		return canonicalNaN(f, true)
	case x.kind == inf:
		return f.Inf(false), 0
	}
	// x = m * 2^e with an integer m; scale m so the integer square root
	// carries far more bits than any format needs
	mant := new(big.Float)
	e := x.mag.MantExp(mant) - 64
	m, _ := mant.SetMantExp(mant, 64).Int(nil)
	m.Lsh(m, 2*sqrtGuard)
	e -= 2 * sqrtGuard
	if e%2 != 0 {
		m.Lsh(m, 1)
		e--
	}
	root := new(big.Int).Sqrt(m)
	sticky := new(big.Int).Mul(root, root).Cmp(m) != 0
	r := newFloat().SetMantExp(newFloat().SetInt(root), e/2)
	return Round(f, false, r, sticky, rm)
}

// FMA returns (±a*b) ± c rounded once. negProduct negates the product and
// negAddend negates c.
func FMA(f fpu.Format, a, b, c uint64, negProduct, negAddend bool, rm fpu.RoundingMode) (uint64, fpu.Flags) {
	x, y, z := decode(f, a), decode(f, b), decode(f, c)
	if (x.kind == inf && y.kind == zero) || (x.kind == zero && y.kind == inf) {
		return canonicalNaN(f, true)
	}
	if x.isNaN() || y.isNaN() || z.isNaN() {
		return canonicalNaN(f, anySNaN(x, y, z))
	}
	pneg := x.neg != y.neg != negProduct
	zneg := z.neg != negAddend
	switch {
	case x.kind == inf || y.kind == inf:
		if z.kind == inf && zneg != pneg {
			return canonicalNaN(f, true)
		}
		return f.Inf(pneg), 0
	case z.kind == inf:
		return f.Inf(zneg), 0
	}

	prod := newFloat()
	if x.kind != zero && y.kind != zero {
		prod.Mul(x.mag, y.mag)
	}
	if pneg {
		prod.Neg(prod)
	}
	addend := newFloat()
	if z.kind != zero {
		addend.Set(z.mag)
	}
	if zneg {
		addend.Neg(addend)
	}
	sum := newFloat().Add(prod, addend)
	if sum.Sign() == 0 {
		if prod.Sign() == 0 && z.kind == zero {
			return f.Zero(zeroSum(pneg, zneg, rm)), 0
		}
		return f.Zero(rm == fpu.TowardNegative), 0
	}
	return fromSigned(f, sum, false, false, rm)
}

// Widen converts a binary32 value to binary64.
func Widen(a uint64) (uint64, fpu.Flags) {
	x := decode(fpu.Single, a)
	switch x.kind {
	case qnan, snan:
		return canonicalNaN(fpu.Double, x.kind == snan)
	}
	return math.Float64bits(float64(math.Float32frombits(uint32(a)))), 0
}

// Narrow converts a binary64 value to binary32.
func Narrow(a uint64, rm fpu.RoundingMode) (uint64, fpu.Flags) {
	x := decode(fpu.Double, a)
	switch x.kind {
	case qnan, snan:
		return canonicalNaN(fpu.Single, x.kind == snan)
	case inf:
		return fpu.Single.Inf(x.neg), 0
	case zero:
		return fpu.Single.Zero(x.neg), 0
	}
	return Round(fpu.Single, x.neg, x.mag, false, rm)
}

func intRange(k fpu.IntKind) (lo, hi *big.Int) {
	switch k {
	case fpu.Int32:
		return big.NewInt(math.MinInt32), big.NewInt(math.MaxInt32)
	case fpu.Uint32:
		return big.NewInt(0), big.NewInt(math.MaxUint32)
	case fpu.Int64:
		return big.NewInt(math.MinInt64), big.NewInt(math.MaxInt64)
	}
	return big.NewInt(0), new(big.Int).SetUint64(math.MaxUint64)
}

// register returns the 64-bit register form of an in-range integer, with
// 32-bit values sign-extended.
func register(k fpu.IntKind, n *big.Int) uint64 {
	var v uint64
	if n.Sign() < 0 {
		v = uint64(n.Int64())
	} else {
		v = n.Uint64()
	}
	if k.Bits() == 32 {
		return uint64(int64(int32(uint32(v))))
	}
	return v
}

// ToInt converts a to an integer of kind k.
func ToInt(f fpu.Format, a uint64, k fpu.IntKind, rm fpu.RoundingMode) (uint64, fpu.Flags) {
	lo, hi := intRange(k)
	x := decode(f, a)
	switch x.kind {
	case qnan, snan:
		return register(k, hi), fpu.Invalid
	case inf:
		if x.neg {
			return register(k, lo), fpu.Invalid
		}
		return register(k, hi), fpu.Invalid
	case zero:
		return 0, 0
	}
	n, inexact := roundInt(x.mag, 0, false, x.neg, rm)
	if x.neg {
		n.Neg(n)
	}
	switch {
	case n.Cmp(lo) < 0:
		return register(k, lo), fpu.Invalid
	case n.Cmp(hi) > 0:
		return register(k, hi), fpu.Invalid
	}
	var flags fpu.Flags
	if inexact {
		flags = fpu.Inexact
	}
	return register(k, n), flags
}

// FromInt converts the integer register value x of kind k to format f.
func FromInt(f fpu.Format, x uint64, k fpu.IntKind, rm fpu.RoundingMode) (uint64, fpu.Flags) {
	n := new(big.Int)
	switch k {
	case fpu.Int32:
		n.SetInt64(int64(int32(uint32(x))))
	case fpu.Uint32:
		n.SetUint64(uint64(uint32(x)))
	case fpu.Int64:
		n.SetInt64(int64(x))
	default:
		n.SetUint64(x)
	}
	return fromSigned(f, newFloat().SetInt(n), false, false, rm)
}
