package fpu

import (
	"math"
	"runtime"
	"testing"
)

func TestSqrt(t *testing.T) {
	tests := []struct {
		x float64
		y float64
	}{
		// special cases
		{0, 0},
		{negZero, negZero},
		{math.Inf(1), math.Inf(1)},
		{-1, math.NaN()},
		{math.Inf(-1), math.NaN()},

		// normal numbers
		{1, 1},
		{2, math.Sqrt2},
		{3, 0x1.bb67ae8584caap+00},
		{4, 2},
		{0x1p-1022, 0x1p-511},

		// subnormal numbers
		{0x1p-1074, 0x1p-537},
		{0x1p-1073, 0x1.6a09e667f3bcdp-537},
	}

	for _, tt := range tests {
		y, flags := Sqrt(Double, f64(tt.x), ToNearestEven)
		if math.IsNaN(tt.y) {
			if y != Double.CanonicalNaN() || flags != Invalid {
				t.Errorf("sqrt(%x): expected NaN (NV), got %#x (%s)", tt.x, y, flags)
			}
			continue
		}
		if y != f64(tt.y) {
			t.Errorf("sqrt(%x): expected %x, got %x", tt.x, tt.y, math.Float64frombits(y))
		}
	}
}

func TestSqrt_Single(t *testing.T) {
	tests := []struct {
		x     uint64
		rm    RoundingMode
		want  uint64
		flags Flags
	}{
		{f32(2), ToNearestEven, 0x3fb504f3, Inexact},
		{f32(2), TowardZero, 0x3fb504f3, Inexact},
		{f32(2), TowardPositive, 0x3fb504f4, Inexact},
		{f32(3), ToNearestEven, 0x3fddb3d7, Inexact},
		{f32(16), ToNearestEven, f32(4), 0},
		{f32(-1), ToNearestEven, Single.CanonicalNaN(), Invalid},
		{0x7f800001, ToNearestEven, Single.CanonicalNaN(), Invalid},
		{0x7fc00000, ToNearestEven, Single.CanonicalNaN(), 0},
	}
	for _, tt := range tests {
		got, flags := Sqrt(Single, tt.x, tt.rm)
		if got != tt.want || flags != tt.flags {
			t.Errorf("sqrt(%#x) (%s): expected %#x (%s), got %#x (%s)", tt.x, tt.rm, tt.want, tt.flags, got, flags)
		}
	}
}

func TestSqrt_Steps(t *testing.T) {
	for _, f := range []Format{Single, Double} {
		var s sqrter
		s.reset(f, f.Inf(false)>>1, ToNearestEven)
		steps := 1
		for !s.step() {
			steps++
		}
		if steps != s.latency() || steps != f.FracBits()+5 {
			t.Errorf("%s: expected %d steps, got %d", f, f.FracBits()+5, steps)
		}
	}
}

func BenchmarkSqrt(b *testing.B) {
	r := newXorshift64()
	for i := 0; i < b.N; i++ {
		x, _ := r.Float64Pair()
		out, flags := Sqrt(Double, x, ToNearestEven)
		runtime.KeepAlive(out)
		runtime.KeepAlive(flags)
	}
}

func FuzzSqrt(f *testing.F) {
	f.Add(uint64(0x4000000000000000))

	f.Fuzz(func(t *testing.T, a uint64) {
		x := math.Float64frombits(a)
		got, _ := Sqrt(Double, a, ToNearestEven)
		want := math.Sqrt(x)
		if math.IsNaN(want) {
			if got != Double.CanonicalNaN() {
				t.Errorf("sqrt(%x): expected NaN, got %#x", x, got)
			}
			return
		}
		if got != math.Float64bits(want) {
			t.Errorf("sqrt(%x): expected %x, got %x", x, want, math.Float64frombits(got))
		}
	})
}

func FuzzSqrt32(f *testing.F) {
	f.Add(uint32(0x40000000))

	f.Fuzz(func(t *testing.T, a uint32) {
		x := math.Float32frombits(a)
		got, _ := Sqrt(Single, uint64(a), ToNearestEven)
		want := float32(math.Sqrt(float64(x)))
		if want != want {
			if got != Single.CanonicalNaN() {
				t.Errorf("sqrt(%x): expected NaN, got %#x", x, got)
			}
			return
		}
		if got != f32(want) {
			t.Errorf("sqrt(%x): expected %x, got %x", x, want, math.Float32frombits(uint32(got)))
		}
	})
}
