package fpu

// SignOp selects a sign-injection variant.
type SignOp uint8

const (
	SignCopy   SignOp = iota // FSGNJ: sign of b
	SignNegate               // FSGNJN: opposite of the sign of b
	SignXor                  // FSGNJX: sign of a xor sign of b
)

// SignInject returns the magnitude of a with a sign derived from b.
// It never raises flags, even for NaNs.
func SignInject(f Format, a, b uint64, op SignOp) uint64 {
	sm := f.signMask()
	sign := b & sm
	switch op {
	case SignNegate:
		sign ^= sm
	case SignXor:
		sign ^= a & sm
	}
	return a&f.mask()&^sm | sign
}

// Classification bits returned by Classify. Exactly one is set.
const (
	ClassNegInf       = 1 << iota // -inf
	ClassNegNormal                // negative normal number
	ClassNegSubnormal             // negative subnormal number
	ClassNegZero                  // -0
	ClassPosZero                  // +0
	ClassPosSubnormal             // positive subnormal number
	ClassPosNormal                // positive normal number
	ClassPosInf                   // +inf
	ClassSignalingNaN             // signaling NaN
	ClassQuietNaN                 // quiet NaN
)

// Classify returns the one-hot FCLASS mask of a.
func Classify(f Format, a uint64) uint64 {
	x := unpack(f, a)
	switch x.class {
	case SignalingNaN:
		return ClassSignalingNaN
	case QuietNaN:
		return ClassQuietNaN
	case PositiveZero:
		return ClassPosZero
	case NegativeZero:
		return ClassNegZero
	case Infinity:
		if x.sign {
			return ClassNegInf
		}
		return ClassPosInf
	case Subnormal:
		if x.sign {
			return ClassNegSubnormal
		}
		return ClassPosSubnormal
	}
	if x.sign {
		return ClassNegNormal
	}
	return ClassPosNormal
}
