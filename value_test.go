package fpu

import (
	"math"
	"testing"
)

func TestValueOf(t *testing.T) {
	tests := []struct {
		f    Format
		reg  uint64
		want Value
	}{
		{Single, Box(0x3f800000), Value{Single, 0x3f800000}},
		{Single, 0x3f800000, Value{Single, 0x7fc00000}},
		{Double, 0x3ff0000000000000, Value{Double, 0x3ff0000000000000}},
		{Double, Box(0x3f800000), Value{Double, 0xffffffff3f800000}},
	}
	for _, tt := range tests {
		got := ValueOf(tt.f, tt.reg)
		if got != tt.want {
			t.Errorf("ValueOf(%s, %#x): expected %v, got %v", tt.f, tt.reg, tt.want, got)
		}
	}
}

func TestValue_Register(t *testing.T) {
	if got := FromFloat32(1).Register(); got != 0xffffffff3f800000 {
		t.Errorf("single: got %#x", got)
	}
	if got := FromFloat64(1).Register(); got != 0x3ff0000000000000 {
		t.Errorf("double: got %#x", got)
	}
}

func TestValue_Float(t *testing.T) {
	r := newXorshift64()
	for i := 0; i < 10000; i++ {
		a, _ := r.Float64Pair()
		x := Value{Double, a}
		want64 := math.Float64frombits(a)
		if got := x.Float64(); got != want64 {
			t.Fatalf("Float64(%#x): got %x", a, got)
		}
		if got, want := x.Float32(), float32(want64); got != want {
			t.Fatalf("Float32(%#x): expected %x, got %x", a, want, got)
		}

		c, _ := r.Float32Pair()
		y := Value{Single, c}
		want32 := math.Float32frombits(uint32(c))
		if got := y.Float64(); got != float64(want32) {
			t.Fatalf("Float64(%#x): got %x", c, got)
		}
		if got := y.Float32(); got != want32 {
			t.Fatalf("Float32(%#x): got %x", c, got)
		}
	}
}

func TestValue_Class(t *testing.T) {
	tests := []struct {
		v       Value
		nan     bool
		inf     int
		signbit bool
	}{
		{FromFloat64(1), false, 0, false},
		{FromFloat64(negZero), false, 0, true},
		{FromFloat64(math.Inf(1)), false, 1, false},
		{FromFloat32(float32(math.Inf(-1))), false, -1, true},
		{Value{Single, qnan32}, true, 0, false},
		{Value{Double, snan64 | 1<<63}, true, 0, true},
	}
	for _, tt := range tests {
		if got := tt.v.IsNaN(); got != tt.nan {
			t.Errorf("%s: IsNaN = %t", tt.v.AppendBits(nil), got)
		}
		if got := tt.v.Signbit(); got != tt.signbit {
			t.Errorf("%s: Signbit = %t", tt.v.AppendBits(nil), got)
		}
		if tt.inf != 0 {
			if !tt.v.IsInf(0) || !tt.v.IsInf(tt.inf) || tt.v.IsInf(-tt.inf) {
				t.Errorf("%s: unexpected IsInf", tt.v.AppendBits(nil))
			}
		} else if tt.v.IsInf(0) {
			t.Errorf("%s: unexpected IsInf", tt.v.AppendBits(nil))
		}
		if tt.v.Abs().Signbit() {
			t.Errorf("%s: Abs keeps the sign", tt.v.AppendBits(nil))
		}
	}
	if c := FromFloat32(1e-40).Class(); c != Subnormal {
		t.Errorf("unexpected class %s", c)
	}
}
