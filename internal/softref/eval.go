package softref

import (
	"math"

	"github.com/shogo82148/fpu"
)

func unbox(f fpu.Format, x uint64) uint64 {
	if f == fpu.Single {
		if x>>32 != 0xffffffff {
			return 0x7fc00000
		}
		return x & 0xffffffff
	}
	return x
}

func box(f fpu.Format, x uint64) uint64 {
	if f == fpu.Single {
		return 0xffffffff00000000 | x
	}
	return x
}

// host returns x as a float64 for ordering. NaNs are reported separately.
func host(f fpu.Format, x uint64) float64 {
	if f == fpu.Single {
		return float64(math.Float32frombits(uint32(x)))
	}
	return math.Float64frombits(x)
}

func compare(f fpu.Format, a, b uint64, signaling bool, pred func(x, y float64) bool) (uint64, fpu.Flags) {
	x, y := decode(f, a), decode(f, b)
	if x.isNaN() || y.isNaN() {
		if signaling || anySNaN(x, y) {
			return 0, fpu.Invalid
		}
		return 0, 0
	}
	if pred(host(f, a), host(f, b)) {
		return 1, 0
	}
	return 0, 0
}

func minMax(f fpu.Format, a, b uint64, isMax bool) (uint64, fpu.Flags) {
	x, y := decode(f, a), decode(f, b)
	var flags fpu.Flags
	if anySNaN(x, y) {
		flags = fpu.Invalid
	}
	switch {
	case x.isNaN() && y.isNaN():
		bits, _ := canonicalNaN(f, false)
		return bits, flags
	case x.isNaN():
		return b, flags
	case y.isNaN():
		return a, flags
	}
	hx, hy := host(f, a), host(f, b)
	if hx == hy {
		// only zeros of opposite signs differ here
		if isMax == math.Signbit(hx) {
			return b, flags
		}
		return a, flags
	}
	if (hx > hy) == isMax {
		return a, flags
	}
	return b, flags
}

func classify(f fpu.Format, a uint64) uint64 {
	x := decode(f, a)
	switch x.kind {
	case snan:
		return 1 << 8
	case qnan:
		return 1 << 9
	case inf:
		if x.neg {
			return 1 << 0
		}
		return 1 << 7
	case zero:
		if x.neg {
			return 1 << 3
		}
		return 1 << 4
	}
	p := paramsOf(f)
	sub := x.mag.MantExp(nil)-1 < p.emin
	switch {
	case x.neg && sub:
		return 1 << 2
	case x.neg:
		return 1 << 1
	case sub:
		return 1 << 5
	}
	return 1 << 6
}

func inject(f fpu.Format, a, b uint64, op fpu.Opcode) uint64 {
	sm := uint64(1) << (f.Width() - 1)
	var sign uint64
	switch op {
	case fpu.OpSgnJ:
		sign = b & sm
	case fpu.OpSgnJN:
		sign = ^b & sm
	default:
		sign = (a ^ b) & sm
	}
	return a&^sm | sign
}

// Evaluate computes op with the reference model. It follows the register
// conventions of fpu.Evaluate.
func Evaluate(op fpu.Operation) (uint64, fpu.Flags) {
	f := op.Format
	rm := op.Rounding
	if rm == fpu.Dynamic {
		rm = fpu.ToNearestEven
	}
	a := unbox(f, op.Operands[0])
	b := unbox(f, op.Operands[1])
	c := unbox(f, op.Operands[2])
	fp := func(x uint64, flags fpu.Flags) (uint64, fpu.Flags) {
		return box(f, x), flags
	}

	switch op.Op {
	case fpu.OpAdd:
		return fp(Add(f, a, b, rm))
	case fpu.OpSub:
		return fp(Sub(f, a, b, rm))
	case fpu.OpMul:
		return fp(Mul(f, a, b, rm))
	case fpu.OpDiv:
		return fp(Div(f, a, b, rm))
	case fpu.OpSqrt:
		return fp(Sqrt(f, a, rm))
	case fpu.OpMAdd:
		return fp(FMA(f, a, b, c, false, false, rm))
	case fpu.OpMSub:
		return fp(FMA(f, a, b, c, false, true, rm))
	case fpu.OpNMSub:
		return fp(FMA(f, a, b, c, true, false, rm))
	case fpu.OpNMAdd:
		return fp(FMA(f, a, b, c, true, true, rm))
	case fpu.OpSgnJ, fpu.OpSgnJN, fpu.OpSgnJX:
		return box(f, inject(f, a, b, op.Op)), 0
	case fpu.OpMin:
		return fp(minMax(f, a, b, false))
	case fpu.OpMax:
		return fp(minMax(f, a, b, true))
	case fpu.OpEq:
		return compare(f, a, b, false, func(x, y float64) bool { return x == y })
	case fpu.OpLt:
		return compare(f, a, b, true, func(x, y float64) bool { return x < y })
	case fpu.OpLe:
		return compare(f, a, b, true, func(x, y float64) bool { return x <= y })
	case fpu.OpClass:
		return classify(f, a), 0
	case fpu.OpCvtW:
		return ToInt(f, a, fpu.Int32, rm)
	case fpu.OpCvtWU:
		return ToInt(f, a, fpu.Uint32, rm)
	case fpu.OpCvtL:
		return ToInt(f, a, fpu.Int64, rm)
	case fpu.OpCvtLU:
		return ToInt(f, a, fpu.Uint64, rm)
	case fpu.OpCvtFromW:
		return fp(FromInt(f, op.Operands[0], fpu.Int32, rm))
	case fpu.OpCvtFromWU:
		return fp(FromInt(f, op.Operands[0], fpu.Uint32, rm))
	case fpu.OpCvtFromL:
		return fp(FromInt(f, op.Operands[0], fpu.Int64, rm))
	case fpu.OpCvtFromLU:
		return fp(FromInt(f, op.Operands[0], fpu.Uint64, rm))
	case fpu.OpCvtSD:
		x, flags := Narrow(op.Operands[0], rm)
		return box(fpu.Single, x), flags
	case fpu.OpCvtDS:
		return Widen(unbox(fpu.Single, op.Operands[0]))
	case fpu.OpMvX:
		if f == fpu.Single {
			return uint64(int64(int32(uint32(op.Operands[0])))), 0
		}
		return op.Operands[0], 0
	case fpu.OpMvF:
		if f == fpu.Single {
			return box(f, op.Operands[0]&0xffffffff), 0
		}
		return op.Operands[0], 0
	}
	return 0, 0
}
