package fpu

import (
	"math"
	"runtime"
	"testing"
)

func TestDiv(t *testing.T) {
	tests := []struct {
		f     Format
		a, b  uint64
		rm    RoundingMode
		want  uint64
		flags Flags
	}{
		{Double, f64(1), f64(0), ToNearestEven, f64(math.Inf(1)), DivideByZero},
		{Double, f64(-1), f64(0), ToNearestEven, f64(math.Inf(-1)), DivideByZero},
		{Double, f64(0), f64(0), ToNearestEven, Double.CanonicalNaN(), Invalid},
		{Double, f64(math.Inf(1)), f64(math.Inf(-1)), ToNearestEven, Double.CanonicalNaN(), Invalid},
		{Double, f64(math.Inf(1)), f64(-2), ToNearestEven, f64(math.Inf(-1)), 0},
		{Double, f64(2), f64(math.Inf(-1)), ToNearestEven, f64(negZero), 0},
		{Double, f64(negZero), f64(3), ToNearestEven, f64(negZero), 0},
		{Double, f64(6), f64(3), ToNearestEven, f64(2), 0},
		{Double, f64(1), f64(3), ToNearestEven, 0x3fd5555555555555, Inexact},
		{Double, f64(1), f64(3), TowardPositive, 0x3fd5555555555556, Inexact},
		{Double, f64(-1), f64(3), TowardZero, 0xbfd5555555555555, Inexact},
		{Double, f64(0x1p-1022), f64(4), ToNearestEven, f64(0x1p-1024), 0},
		{Double, f64(0x1p-1074), f64(3), ToNearestEven, 0, Underflow | Inexact},
		{Double, f64(0x1p-1074), f64(3), TowardPositive, 1, Underflow | Inexact},
		{Double, f64(0x1p+1000), f64(0x1p-100), ToNearestEven, f64(math.Inf(1)), Overflow | Inexact},
		{Single, f32(1), f32(3), ToNearestEven, 0x3eaaaaab, Inexact},
		{Single, f32(1), f32(3), TowardNegative, 0x3eaaaaaa, Inexact},
		{Single, f32(10), f32(4), ToNearestEven, f32(2.5), 0},
		{Single, 0x7f800001, f32(1), ToNearestEven, Single.CanonicalNaN(), Invalid},
	}
	for _, tt := range tests {
		got, flags := Div(tt.f, tt.a, tt.b, tt.rm)
		if got != tt.want || flags != tt.flags {
			t.Errorf("%s %#x / %#x (%s): expected %#x (%s), got %#x (%s)", tt.f, tt.a, tt.b, tt.rm, tt.want, tt.flags, got, flags)
		}
	}
}

func TestDiv_Steps(t *testing.T) {
	for _, f := range []Format{Single, Double} {
		for _, b := range []uint64{f.Zero(false), f.Inf(false), 3 << f.FracBits()} {
			var d divider
			d.reset(f, f.Inf(false)>>1, b, ToNearestEven)
			steps := 1
			for !d.step() {
				steps++
			}
			if steps != d.latency() || steps != f.FracBits()+5 {
				t.Errorf("%s / %#x: expected %d steps, got %d", f, b, f.FracBits()+5, steps)
			}
		}
	}
}

func BenchmarkDiv(b *testing.B) {
	r := newXorshift64()
	for i := 0; i < b.N; i++ {
		x, y := r.Float64Pair()
		out, flags := Div(Double, x, y, ToNearestEven)
		runtime.KeepAlive(out)
		runtime.KeepAlive(flags)
	}
}

func FuzzDiv(f *testing.F) {
	f.Add(uint64(0x3ff0000000000000), uint64(0x4008000000000000))

	f.Fuzz(func(t *testing.T, a, b uint64) {
		x, y := math.Float64frombits(a), math.Float64frombits(b)
		got, _ := Div(Double, a, b, ToNearestEven)
		want := x / y
		if math.IsNaN(want) {
			if got != Double.CanonicalNaN() {
				t.Errorf("%x / %x: expected NaN, got %#x", x, y, got)
			}
			return
		}
		if got != math.Float64bits(want) {
			t.Errorf("%x / %x: expected %x, got %x", x, y, want, math.Float64frombits(got))
		}
	})
}

func FuzzDiv32(f *testing.F) {
	f.Add(uint32(0x3f800000), uint32(0x40400000))

	f.Fuzz(func(t *testing.T, a, b uint32) {
		x, y := math.Float32frombits(a), math.Float32frombits(b)
		got, _ := Div(Single, uint64(a), uint64(b), ToNearestEven)
		want := x / y
		if want != want {
			if got != Single.CanonicalNaN() {
				t.Errorf("%x / %x: expected NaN, got %#x", x, y, got)
			}
			return
		}
		if got != f32(want) {
			t.Errorf("%x / %x: expected %x, got %x", x, y, want, math.Float32frombits(uint32(got)))
		}
	})
}
