package fpu

import "testing"

func TestFormat_Params(t *testing.T) {
	tests := []struct {
		f            Format
		width        int
		exp, frac    int
		bias, maxExp int
		nan          uint64
	}{
		{Single, 32, 8, 23, 127, 255, 0x7fc00000},
		{Double, 64, 11, 52, 1023, 2047, 0x7ff8000000000000},
	}
	for _, tt := range tests {
		if got := tt.f.Width(); got != tt.width {
			t.Errorf("%s: width: expected %d, got %d", tt.f, tt.width, got)
		}
		if got := tt.f.ExpBits(); got != tt.exp {
			t.Errorf("%s: exponent bits: expected %d, got %d", tt.f, tt.exp, got)
		}
		if got := tt.f.FracBits(); got != tt.frac {
			t.Errorf("%s: fraction bits: expected %d, got %d", tt.f, tt.frac, got)
		}
		if got := tt.f.bias(); got != tt.bias {
			t.Errorf("%s: bias: expected %d, got %d", tt.f, tt.bias, got)
		}
		if got := tt.f.maxExp(); got != tt.maxExp {
			t.Errorf("%s: max exponent: expected %d, got %d", tt.f, tt.maxExp, got)
		}
		if got := tt.f.CanonicalNaN(); got != tt.nan {
			t.Errorf("%s: canonical NaN: expected %#x, got %#x", tt.f, tt.nan, got)
		}
	}
	if Format(2).Valid() {
		t.Error("Format(2) must not be valid")
	}
}

func TestFormat_Constants(t *testing.T) {
	tests := []struct {
		got, want uint64
	}{
		{Single.Inf(false), 0x7f800000},
		{Single.Inf(true), 0xff800000},
		{Single.Zero(true), 0x80000000},
		{Single.MaxFinite(false), 0x7f7fffff},
		{Double.Inf(false), 0x7ff0000000000000},
		{Double.Zero(true), 0x8000000000000000},
		{Double.MaxFinite(true), 0xffefffffffffffff},
	}
	for i, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%d: expected %#x, got %#x", i, tt.want, tt.got)
		}
	}
}

func TestClassOf(t *testing.T) {
	tests := []struct {
		f Format
		x uint64
		c Class
	}{
		{Single, 0x00000000, PositiveZero},
		{Single, 0x80000000, NegativeZero},
		{Single, 0x00000001, Subnormal},
		{Single, 0x807fffff, Subnormal},
		{Single, 0x00800000, Normal},
		{Single, 0x3f800000, Normal},
		{Single, 0xff800000, Infinity},
		{Single, 0x7fc00000, QuietNaN},
		{Single, 0xffc00001, QuietNaN},
		{Single, 0x7f800001, SignalingNaN},
		{Single, 0x7fbfffff, SignalingNaN},
		{Double, 0x0000000000000000, PositiveZero},
		{Double, 0x8000000000000000, NegativeZero},
		{Double, 0x000fffffffffffff, Subnormal},
		{Double, 0x3ff0000000000000, Normal},
		{Double, 0x7ff0000000000000, Infinity},
		{Double, 0x7ff8000000000000, QuietNaN},
		{Double, 0x7ff0000000000001, SignalingNaN},
	}
	for _, tt := range tests {
		if got := ClassOf(tt.f, tt.x); got != tt.c {
			t.Errorf("%s %#x: expected %s, got %s", tt.f, tt.x, tt.c, got)
		}
	}
}

func TestUnpack(t *testing.T) {
	// 1.0
	x := unpack(Single, 0x3f800000)
	if x.sign || x.exp != 127 || x.mant != 1<<23 {
		t.Errorf("1.0: unexpected %+v", x)
	}

	// the smallest subnormal uses exponent 1 without the implicit bit
	x = unpack(Double, 1)
	if x.exp != 1 || x.mant != 1 {
		t.Errorf("min subnormal: unexpected %+v", x)
	}

	x = x.normalize(Double)
	if x.mant != 1<<52 || x.exp != 1-52 {
		t.Errorf("normalized min subnormal: unexpected %+v", x)
	}
}

func TestLeadingZeros(t *testing.T) {
	tests := []struct {
		x     uint64
		width int
		want  int
	}{
		{0, 27, 27},
		{1, 27, 26},
		{1 << 26, 27, 0},
		{0, 64, 64},
		{1 << 63, 64, 0},
		{0xff, 8, 0},
		{0x1ff, 8, 0}, // bits above the width are ignored
		{0x100, 8, 8},
	}
	for _, tt := range tests {
		if got := leadingZeros(tt.x, tt.width); got != tt.want {
			t.Errorf("leadingZeros(%#x, %d): expected %d, got %d", tt.x, tt.width, tt.want, got)
		}
	}
	if got := leadingZeros(uint32(1), 32); got != 31 {
		t.Errorf("leadingZeros(uint32(1), 32): expected 31, got %d", got)
	}
}
