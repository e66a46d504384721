package fpu

import "github.com/shogo82148/int128"

// Sqrt returns the square root of x.
//
// Special cases are:
//
//	Sqrt(+Inf) = +Inf
//	Sqrt(±0) = ±0
//	Sqrt(x < 0) = NaN, invalid
//	Sqrt(NaN) = NaN
func Sqrt(f Format, x uint64, rm RoundingMode) (uint64, Flags) {
	var s sqrter
	s.reset(f, x, rm)
	for !s.step() {
	}
	return s.result()
}

// sqrter generates the square root bit by bit, bringing down two radicand
// bits per step, like the paper and pencil method.
type sqrter struct {
	f  Format
	rm RoundingMode
	x  uint64

	state      recState
	settled    bool
	exp        int
	radicand   int128.Uint128
	root, rem  uint64
	iterations int

	out   uint64
	flags Flags
}

func (s *sqrter) reset(f Format, x uint64, rm RoundingMode) {
	*s = sqrter{f: f, rm: rm, x: x}
}

func (s *sqrter) latency() int {
	return s.f.FracBits() + 5
}

func (s *sqrter) step() bool {
	switch s.state {
	case recSetup:
		s.setup()
		s.state = recIterate
	case recIterate:
		s.iterations--
		if !s.settled {
			pair := s.radicand.Rsh(uint(2*s.iterations)).L & 3
			s.rem = s.rem<<2 | pair
			trial := s.root<<2 | 1
			s.root <<= 1
			if s.rem >= trial {
				s.rem -= trial
				s.root |= 1
			}
		}
		if s.iterations == 0 {
			s.state = recFinish
		}
	case recFinish:
		if !s.settled {
			s.finish()
		}
		s.state = recDone
	}
	return s.state == recDone
}

func (s *sqrter) result() (uint64, Flags) {
	return s.out, s.flags
}

func (s *sqrter) setup() {
	f := s.f
	x := unpack(f, s.x)
	s.iterations = f.FracBits() + 3

	var sp *special
	switch {
	case x.isNaN():
		sp = f.nanResult(x)
	case x.isZero():
		sp = f.exact(f.Zero(x.sign))
	case x.sign:
		sp = f.invalid()
	case x.isInf():
		sp = f.exact(f.Inf(false))
	}
	if sp != nil {
		s.settled = true
		s.out, s.flags = f.assemble(assembly{special: sp})
		return
	}

	x = x.normalize(f)
	exp := x.exp - f.bias()
	mant := x.mant
	if exp%2 != 0 { // odd exp, double x to make it even
		mant <<= 1
		exp--
	}
	s.exp = exp/2 + f.bias()

	// the radicand has 2*(FracBits+3) bits so that the root has
	// FracBits+3 bits: the significand, guard and round.
	s.radicand = int128.Uint128{L: mant}.Lsh(uint(f.FracBits() + 4))
}

func (s *sqrter) finish() {
	f := s.f
	root, exp := s.root, s.exp
	want := f.FracBits() + 2
	if top := 63 - leadingZeros(root, 64); top < want {
		root <<= want - top
		exp -= want - top
	}
	mant, rb := f.splitWide(root, want)
	rb.sticky = rb.sticky || s.rem != 0
	s.out, s.flags = f.roundPack(false, exp, mant, rb, s.rm)
}
