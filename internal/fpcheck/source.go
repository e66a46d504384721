package fpcheck

import "github.com/shogo82148/fpu"

// Source is a xorshift64 generator of operand bit patterns.
type Source struct {
	x uint64
}

// NewSource returns a Source. A zero seed is replaced by a fixed one.
func NewSource(seed uint64) *Source {
	if seed == 0 {
		seed = 88172645463325252
	}
	return &Source{x: seed}
}

func (s *Source) Uint64() uint64 {
	s.x ^= s.x << 13
	s.x ^= s.x >> 7
	s.x ^= s.x << 17
	return s.x
}

// edges returns the interesting bit patterns of f.
func edges(f fpu.Format) []uint64 {
	frac := uint64(1)<<f.FracBits() - 1
	minNormal := uint64(1) << f.FracBits()
	one := uint64(1<<(f.ExpBits()-1)-1) << f.FracBits()
	sign := uint64(1) << (f.Width() - 1)
	return []uint64{
		f.Zero(false),
		f.Zero(true),
		f.Inf(false),
		f.Inf(true),
		f.CanonicalNaN(),
		f.Inf(false) | 1, // signaling
		1,                // smallest subnormal
		frac,             // largest subnormal
		minNormal,
		minNormal | sign,
		f.MaxFinite(false),
		f.MaxFinite(true),
		one,
		one | sign,
		one | 1,
		one - 1,
	}
}

// Operand returns a random bit pattern of format f. One draw in four is
// an edge value and one in four is a subnormal; the rest are uniform over
// all patterns.
func (s *Source) Operand(f fpu.Format) uint64 {
	x := s.Uint64()
	mask := uint64(1)<<(f.Width()-1)<<1 - 1
	switch x >> 62 {
	case 0:
		e := edges(f)
		return e[int(x%uint64(len(e)))]
	case 1:
		sign := x & (1 << (f.Width() - 1))
		return sign | s.Uint64()&(1<<f.FracBits()-1)
	case 2:
		// operands with nearby exponents exercise cancellation
		one := uint64(1<<(f.ExpBits()-1)-1) << f.FracBits()
		spread := uint64(4) << f.FracBits()
		return (one - spread/2 + s.Uint64()%spread) | x&(1<<(f.Width()-1))
	}
	return s.Uint64() & mask
}

// Register returns a random register value for an operand of op. Integer
// operands are uniform; binary32 operands are NaN-boxed, except for one
// draw in sixty-four.
func (s *Source) Register(op fpu.Opcode, f fpu.Format) uint64 {
	if op.ReadsInt() {
		if s.Uint64()%4 == 0 {
			// small integers
			return s.Uint64()%2048 - 1024
		}
		return s.Uint64()
	}
	f = op.SourceFormat(f)
	x := s.Operand(f)
	if f == fpu.Single {
		if s.Uint64()%64 == 0 {
			return x
		}
		return fpu.Box(uint32(x))
	}
	return x
}
