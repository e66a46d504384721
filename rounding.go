package fpu

import (
	"errors"
	"fmt"
	"strings"
)

// RoundingMode selects how inexact results are rounded. The values follow
// the RISC-V rm encoding.
type RoundingMode uint8

const (
	ToNearestEven         RoundingMode = 0 // RNE
	TowardZero            RoundingMode = 1 // RTZ
	TowardNegative        RoundingMode = 2 // RDN
	TowardPositive        RoundingMode = 3 // RUP
	ToNearestMaxMagnitude RoundingMode = 4 // RMM

	// Dynamic selects the rounding mode configured on the Dispatcher.
	Dynamic RoundingMode = 7
)

// ErrInvalidRoundingMode is returned when a reserved rm encoding is used
// where a concrete mode is required.
var ErrInvalidRoundingMode = errors.New("fpu: invalid rounding mode")

var roundingModeNames = map[RoundingMode]string{
	ToNearestEven:         "rne",
	TowardZero:            "rtz",
	TowardNegative:        "rdn",
	TowardPositive:        "rup",
	ToNearestMaxMagnitude: "rmm",
	Dynamic:               "dyn",
}

// RoundingModes lists the static rounding modes.
var RoundingModes = []RoundingMode{
	ToNearestEven,
	TowardZero,
	TowardNegative,
	TowardPositive,
	ToNearestMaxMagnitude,
}

func (rm RoundingMode) String() string {
	if s, ok := roundingModeNames[rm]; ok {
		return s
	}
	return fmt.Sprintf("rm(%d)", uint8(rm))
}

// Static reports whether rm is one of the five concrete rounding modes.
func (rm RoundingMode) Static() bool {
	return rm <= ToNearestMaxMagnitude
}

// ParseRoundingMode parses the assembler mnemonic of a rounding mode.
func ParseRoundingMode(s string) (RoundingMode, error) {
	s = strings.ToLower(s)
	for rm, name := range roundingModeNames {
		if name == s {
			return rm, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidRoundingMode, s)
}

// roundBits are the guard, round and sticky bits below the retained
// significand.
type roundBits struct {
	guard, round, sticky bool
}

func (rb roundBits) any() bool {
	return rb.guard || rb.round || rb.sticky
}

func b2u(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// roundUp decides whether the retained significand is incremented.
// Unrecognised modes round to nearest even.
func roundUp(rm RoundingMode, rb roundBits, lsb, sign bool) bool {
	switch rm {
	case TowardZero:
		return false
	case TowardNegative:
		return sign && rb.any()
	case TowardPositive:
		return !sign && rb.any()
	case ToNearestMaxMagnitude:
		return rb.guard
	default:
		return rb.guard && (rb.round || rb.sticky || lsb)
	}
}

// overflowsToInf reports whether an overflowing result becomes an
// infinity; otherwise it saturates at the largest finite magnitude.
func overflowsToInf(rm RoundingMode, sign bool) bool {
	switch rm {
	case TowardZero:
		return false
	case TowardNegative:
		return sign
	case TowardPositive:
		return !sign
	default:
		return true
	}
}

// subnormalShift denormalizes a significand of width bits whose working
// exponent is not positive. The significand, guard, round and sticky bits
// are shifted right by 1-exp as one bundle, everything shifted out is
// folded into the new sticky bit and the exponent becomes 0.
func subnormalShift(mant uint64, rb roundBits, exp, width int) (uint64, roundBits, int) {
	if exp > 0 {
		return mant, rb, exp
	}
	bundle := mant<<3 | b2u(rb.guard)<<2 | b2u(rb.round)<<1 | b2u(rb.sticky)
	shift := 1 - exp
	if shift >= width+3 {
		return 0, roundBits{sticky: bundle != 0}, 0
	}
	lost := bundle&(1<<shift-1) != 0
	bundle >>= shift
	return bundle >> 3, roundBits{
		guard:  bundle&4 != 0,
		round:  bundle&2 != 0,
		sticky: bundle&1 != 0 || lost,
	}, 0
}

// special is a result decided before any rounding took place.
type special struct {
	bits  uint64
	flags Flags
}

// assembly is the input of the result assembler.
type assembly struct {
	sign    bool
	exp     int    // biased exponent after subnormalShift
	mant    uint64 // retained significand, precision bits wide
	roundUp bool
	inexact bool
	tiny    bool // the unbounded-exponent result is below the normal range
	rm      RoundingMode

	special   *special
	exactZero bool
}

// assemble packs the final bit pattern and flags. Priority is special,
// exact zero, overflow, underflow, normal.
func (f Format) assemble(a assembly) (uint64, Flags) {
	if a.special != nil {
		return a.special.bits, a.special.flags
	}
	if a.exactZero {
		return f.Zero(a.sign), 0
	}

	mant, exp := a.mant, a.exp
	if a.roundUp {
		mant++
		if mant>>f.precision() != 0 {
			mant >>= 1
			exp++
		}
	}
	if exp == 0 && mant>>f.FracBits() != 0 {
		// rounded up from subnormal to the smallest normal
		exp = 1
	}

	if exp >= f.maxExp() {
		if overflowsToInf(a.rm, a.sign) {
			return f.Inf(a.sign), Overflow | Inexact
		}
		return f.MaxFinite(a.sign), Overflow | Inexact
	}

	var flags Flags
	if a.inexact {
		flags |= Inexact
		if a.tiny {
			flags |= Underflow
		}
	}
	return f.pack(a.sign, exp, mant), flags
}

// roundPack rounds a normalized significand (implicit bit at FracBits, or
// zero) with its guard, round and sticky bits and packs the result.
// exp is the biased exponent and may be zero or negative.
func (f Format) roundPack(sign bool, exp int, mant uint64, rb roundBits, rm RoundingMode) (uint64, Flags) {
	// tininess is detected after rounding: a value just below the
	// smallest normal that rounds up to it at full precision is not tiny.
	tiny := exp < 0 || exp == 0 && !(mant == 1<<f.precision()-1 && roundUp(rm, rb, true, sign))

	mant, rb, exp = subnormalShift(mant, rb, exp, f.precision())
	return f.assemble(assembly{
		sign:    sign,
		exp:     exp,
		mant:    mant,
		roundUp: roundUp(rm, rb, mant&1 != 0, sign),
		inexact: rb.any(),
		tiny:    tiny,
		rm:      rm,
	})
}

// splitWide extracts a precision-bit significand plus guard, round and
// sticky from x whose most significant set bit is at position top.
func (f Format) splitWide(x uint64, top int) (uint64, roundBits) {
	return shiftRightRound(x, top-f.FracBits())
}

// shiftRightRound shifts x right by n bits and returns the bits shifted
// out as guard, round and sticky. A non-positive n shifts left.
func shiftRightRound(x uint64, n int) (uint64, roundBits) {
	switch {
	case n <= 0:
		return x << -n, roundBits{}
	case n == 1:
		return x >> 1, roundBits{guard: x&1 != 0}
	case n > 65:
		return 0, roundBits{sticky: x != 0}
	case n == 65:
		return 0, roundBits{round: x>>63 != 0, sticky: x<<1 != 0}
	case n == 64:
		return 0, roundBits{guard: x>>63 != 0, round: x>>62&1 != 0, sticky: x<<2 != 0}
	}
	return x >> n, roundBits{
		guard:  x>>(n-1)&1 != 0,
		round:  x>>(n-2)&1 != 0,
		sticky: x<<(66-n) != 0,
	}
}

// nanResult is the canonical NaN result, invalid when any input signals.
func (f Format) nanResult(ops ...operand) *special {
	s := &special{bits: f.CanonicalNaN()}
	for _, op := range ops {
		if op.isSNaN() {
			s.flags = Invalid
		}
	}
	return s
}

func (f Format) invalid() *special {
	return &special{bits: f.CanonicalNaN(), flags: Invalid}
}

func (f Format) exact(bits uint64) *special {
	return &special{bits: bits}
}
