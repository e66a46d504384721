package fpu

// addExtra is the number of guard positions kept below the significand
// while aligning: guard, round and a jammed sticky bit.
const addExtra = 3

// Add returns the IEEE 754 sum of a and b.
func Add(f Format, a, b uint64, rm RoundingMode) (uint64, Flags) {
	return addSub(f, a, b, false, rm)
}

// Sub returns the IEEE 754 difference of a and b.
func Sub(f Format, a, b uint64, rm RoundingMode) (uint64, Flags) {
	return addSub(f, a, b, true, rm)
}

func addSub(f Format, a, b uint64, sub bool, rm RoundingMode) (uint64, Flags) {
	x := unpack(f, a)
	y := unpack(f, b)
	y.sign = y.sign != sub // effective sign of the second operand

	switch {
	case x.isNaN() || y.isNaN():
		// anything + NaN = NaN
		return f.assemble(assembly{special: f.nanResult(x, y)})
	case x.isInf() && y.isInf():
		if x.sign != y.sign {
			// ±inf + ∓inf = NaN
			return f.assemble(assembly{special: f.invalid()})
		}
		return f.Inf(x.sign), 0
	case x.isInf():
		return f.Inf(x.sign), 0
	case y.isInf():
		return f.Inf(y.sign), 0
	}

	// the large operand is never shifted, so the raw subtraction below
	// can't go negative.
	large, small := x, y
	if y.exp > x.exp || y.exp == x.exp && y.mant > x.mant {
		large, small = y, x
	}

	ml := large.mant << addExtra
	ms := small.mant << addExtra
	if d := large.exp - small.exp; d > 0 {
		if d >= f.precision()+addExtra {
			ms = b2u(ms != 0)
		} else {
			lost := ms&(1<<d-1) != 0
			ms = ms>>d | b2u(lost)
		}
	}

	var sum uint64
	if large.sign == small.sign {
		sum = ml + ms
	} else {
		sum = ml - ms
	}
	if sum == 0 {
		// exact cancellation: -0 only when both operands are negative,
		// or under round toward negative.
		sign := x.sign && y.sign || x.sign != y.sign && rm == TowardNegative
		return f.assemble(assembly{sign: sign, exactZero: true})
	}

	// normalize so that the implicit bit sits at FracBits+addExtra
	width := f.precision() + addExtra + 1
	top := width - 1 - leadingZeros(sum, width)
	want := f.FracBits() + addExtra
	exp := large.exp
	switch {
	case top > want:
		// carry out of the significand
		sum = sum>>1 | sum&1
		exp++
	case top < want:
		sum <<= want - top
		exp -= want - top
	}

	mant, rb := f.splitWide(sum, want)
	return f.roundPack(large.sign, exp, mant, rb, rm)
}
