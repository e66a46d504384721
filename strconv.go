package fpu

import "strconv"

func (v Value) String() string {
	return v.Text('g', -1)
}

// Text converts v to a string, according to the format fmt and precision
// prec. The formats are the ones of [strconv.FormatFloat].
func (v Value) Text(fmt byte, prec int) string {
	return string(v.Append(make([]byte, 0, 24), fmt, prec))
}

// Append appends the string form of v, as generated by Text, to buf.
// Signaling NaNs print as "sNaN".
func (v Value) Append(buf []byte, fmt byte, prec int) []byte {
	switch v.Class() {
	case QuietNaN:
		return append(buf, "NaN"...)
	case SignalingNaN:
		return append(buf, "sNaN"...)
	case Infinity:
		if v.Signbit() {
			return append(buf, "-Inf"...)
		}
		return append(buf, "+Inf"...)
	}
	return strconv.AppendFloat(buf, v.Float64(), fmt, prec, v.Fmt.Width())
}

// AppendBits appends the raw bit pattern of v in hexadecimal, padded to
// the width of its format.
func (v Value) AppendBits(buf []byte) []byte {
	buf = append(buf, '0', 'x')
	for i := v.Fmt.Width()/4 - 1; i >= 0; i-- {
		buf = append(buf, nibble('x', v.Bits>>(4*i)))
	}
	return buf
}

func nibble(fmt byte, x uint64) byte {
	x &= 0xf
	if x < 10 {
		return '0' + byte(x)
	}
	return ('A' + byte(x-10)) | (fmt & ('a' - 'A'))
}
