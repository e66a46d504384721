package fpu

import "math"

type xorshift64 struct {
	x uint64
}

func newXorshift64() *xorshift64 {
	return &xorshift64{x: 88172645463325252}
}

func (r *xorshift64) Uint64() uint64 {
	r.x ^= r.x << 13
	r.x ^= r.x >> 7
	r.x ^= r.x << 17
	return r.x
}

// Float64Pair returns two random finite binary64 bit patterns.
func (r *xorshift64) Float64Pair() (uint64, uint64) {
	for {
		a, b := r.Uint64(), r.Uint64()
		if !math.IsNaN(math.Float64frombits(a)) && !math.IsNaN(math.Float64frombits(b)) {
			return a, b
		}
	}
}

// Float32Pair returns two random finite binary32 bit patterns.
func (r *xorshift64) Float32Pair() (uint64, uint64) {
	for {
		x := r.Uint64()
		a, b := x&0xffffffff, x>>32
		if ClassOf(Single, a) != QuietNaN && ClassOf(Single, a) != SignalingNaN &&
			ClassOf(Single, b) != QuietNaN && ClassOf(Single, b) != SignalingNaN {
			return a, b
		}
	}
}
