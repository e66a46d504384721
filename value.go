package fpu

import "math"

// Value is a bit pattern tagged with its format.
type Value struct {
	Fmt  Format
	Bits uint64
}

// ValueOf returns the value of format f held in the 64-bit register x.
// Binary32 values are unboxed.
func ValueOf(f Format, x uint64) Value {
	return Value{Fmt: f, Bits: f.unbox(x)}
}

// FromFloat32 returns the binary32 value of x.
func FromFloat32(x float32) Value {
	return Value{Fmt: Single, Bits: uint64(math.Float32bits(x))}
}

// FromFloat64 returns the binary64 value of x.
func FromFloat64(x float64) Value {
	return Value{Fmt: Double, Bits: math.Float64bits(x)}
}

// Register returns the 64-bit register form of v.
func (v Value) Register() uint64 {
	return v.Fmt.box(v.Bits)
}

// Float64 returns the float64 representation of v.
// Binary32 values convert exactly.
func (v Value) Float64() float64 {
	if v.Fmt == Single {
		return float64(math.Float32frombits(uint32(v.Bits)))
	}
	return math.Float64frombits(v.Bits)
}

// Float32 returns the float32 representation of v, rounding binary64
// values to nearest even.
func (v Value) Float32() float32 {
	if v.Fmt == Single {
		return math.Float32frombits(uint32(v.Bits))
	}
	b, _ := Narrow(v.Bits, ToNearestEven)
	return math.Float32frombits(uint32(b))
}

// Class returns the classification of v.
func (v Value) Class() Class {
	return ClassOf(v.Fmt, v.Bits)
}

// IsNaN reports whether v is a NaN.
func (v Value) IsNaN() bool {
	return v.Class().IsNaN()
}

// IsInf reports whether v is an infinity, according to sign.
// If sign > 0, IsInf reports whether v is positive infinity.
// If sign < 0, IsInf reports whether v is negative infinity.
// If sign == 0, IsInf reports whether v is either infinity.
func (v Value) IsInf(sign int) bool {
	if v.Class() != Infinity {
		return false
	}
	neg := v.Signbit()
	return sign == 0 || sign > 0 && !neg || sign < 0 && neg
}

// Signbit reports whether the sign bit of v is set.
func (v Value) Signbit() bool {
	return v.Bits&v.Fmt.signMask() != 0
}

// Abs returns v with the sign bit cleared.
func (v Value) Abs() Value {
	v.Bits &^= v.Fmt.signMask()
	return v
}
