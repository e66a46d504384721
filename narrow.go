package fpu

// Widen converts the binary32 value a to binary64. The conversion is
// always exact; only a signaling NaN raises a flag.
func Widen(a uint64) (uint64, Flags) {
	x := unpack(Single, a)
	switch {
	case x.isNaN():
		s := Double.nanResult(x)
		return s.bits, s.flags
	case x.isInf():
		return Double.Inf(x.sign), 0
	case x.isZero():
		return Double.Zero(x.sign), 0
	}

	x = x.normalize(Single)
	exp := x.exp - Single.bias() + Double.bias()
	return Double.pack(x.sign, exp, x.mant<<(Double.FracBits()-Single.FracBits())), 0
}

// Narrow converts the binary64 value a to binary32, rounding with rm.
func Narrow(a uint64, rm RoundingMode) (uint64, Flags) {
	x := unpack(Double, a)
	switch {
	case x.isNaN():
		return Single.assemble(assembly{special: Single.nanResult(x)})
	case x.isInf():
		return Single.Inf(x.sign), 0
	case x.isZero():
		return Single.Zero(x.sign), 0
	}

	x = x.normalize(Double)
	exp := x.exp - Double.bias() + Single.bias()
	mant, rb := shiftRightRound(x.mant, Double.FracBits()-Single.FracBits())
	return Single.roundPack(x.sign, exp, mant, rb, rm)
}
