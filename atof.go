// convert string to Value

package fpu

import (
	"math"
	"strconv"
	"strings"
)

// lower folds an ASCII letter to lower case.
func lower(c byte) byte {
	return c | ('x' - 'X')
}

// commonPrefixLenIgnoreCase returns the length of the common
// prefix of s and prefix, with the character case of s ignored.
// The prefix argument must be all lower-case.
func commonPrefixLenIgnoreCase(s, prefix string) int {
	n := min(len(prefix), len(s))
	for i := 0; i < n; i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			c += 'a' - 'A'
		}
		if c != prefix[i] {
			return i
		}
	}
	return n
}

// parseSpecial parses infinities and NaNs. "snan" yields the signaling
// NaN with only the lowest fraction bit set.
func parseSpecial(f Format, s string) (bits uint64, ok bool) {
	if len(s) == 0 {
		return 0, false
	}

	neg := false
	switch s[0] {
	case '+', '-':
		neg = s[0] == '-'
		s = s[1:]
	}
	switch len(s) {
	case 3, 8:
		if commonPrefixLenIgnoreCase(s, "infinity") == len(s) {
			return f.Inf(neg), true
		}
		if len(s) == 3 && commonPrefixLenIgnoreCase(s, "nan") == 3 {
			return f.CanonicalNaN() | b2u(neg)<<(f.Width()-1), true
		}
	case 4:
		if commonPrefixLenIgnoreCase(s, "snan") == 4 {
			return uint64(f.maxExp())<<f.FracBits() | 1 | b2u(neg)<<(f.Width()-1), true
		}
	}
	return 0, false
}

// isRawBits reports whether s is a hexadecimal bit pattern: a 0x prefix
// without a binary exponent.
func isRawBits(s string) bool {
	return len(s) > 2 && s[0] == '0' && lower(s[1]) == 'x' && !strings.ContainsAny(s, "pP")
}

// ParseValue parses s as a value of format f. Accepted forms are decimal
// and hexadecimal floating-point literals, "inf", "infinity", "nan" and
// "snan" with an optional sign, and raw bit patterns written as 0x
// followed by hex digits without a 'p' exponent.
//
// Decimal and hexadecimal literals are rounded to nearest even. If s is
// too large for f the result is the infinity of the right sign and the
// error's Err field is [strconv.ErrRange].
func ParseValue(f Format, s string) (Value, error) {
	if !f.Valid() {
		return Value{}, ErrInvalidFormat
	}
	if bits, ok := parseSpecial(f, s); ok {
		return Value{Fmt: f, Bits: bits}, nil
	}

	if isRawBits(s) {
		bits, err := strconv.ParseUint(s[2:], 16, f.Width())
		if err != nil {
			return Value{}, &strconv.NumError{Func: "fpu.ParseValue", Num: s, Err: err.(*strconv.NumError).Err}
		}
		return Value{Fmt: f, Bits: bits}, nil
	}

	x, err := strconv.ParseFloat(s, f.Width())
	if err != nil {
		ne := err.(*strconv.NumError)
		if ne.Err != strconv.ErrRange {
			return Value{}, &strconv.NumError{Func: "fpu.ParseValue", Num: s, Err: ne.Err}
		}
		err = &strconv.NumError{Func: "fpu.ParseValue", Num: s, Err: ne.Err}
	}
	if f == Single {
		return Value{Fmt: f, Bits: uint64(math.Float32bits(float32(x)))}, err
	}
	return Value{Fmt: f, Bits: math.Float64bits(x)}, err
}
