package fpu

import "fmt"

var _ fmt.Formatter = Value{}

// Format implements [fmt.Formatter]. It accepts the floating-point verbs
// and 'v'. The 's' verb prints the raw bit pattern.
func (v Value) Format(s fmt.State, verb rune) {
	if v.IsNaN() {
		s.Write(v.Append(nil, 'g', -1))
		return
	}
	if verb == 's' {
		pad(s, nil, v.AppendBits(nil))
		return
	}

	var prefix []byte
	var data []byte

	// sign
	if v.Signbit() {
		prefix = append(prefix, '-')
		v = v.Abs()
	} else {
		if s.Flag('+') {
			prefix = append(prefix, '+')
		} else if s.Flag(' ') {
			prefix = append(prefix, ' ')
		}
	}

	if v.Class() == Infinity && len(prefix) == 0 {
		prefix = append(prefix, '+')
	}

	switch verb {
	case 'b', 'e', 'E', 'f', 'F', 'g', 'G', 'x', 'X':
		prec, ok := s.Precision()
		if !ok || verb == 'b' {
			prec = -1
		}
		if v.Class() == Infinity {
			data = append(data, "Inf"...)
		} else {
			data = v.Append(data, byte(verb), prec)
		}
	case 'v':
		if v.Class() == Infinity {
			data = append(data, "Inf"...)
		} else {
			data = v.Append(data, 'g', -1)
		}
	default:
		fmt.Fprintf(s, "%%!%c(fpu.Value=%s)", verb, v.Text('g', -1))
		return
	}
	pad(s, prefix, data)
}

func pad(s fmt.State, prefix, data []byte) {
	if w, ok := s.Width(); ok {
		var buf [1]byte
		n := len(prefix) + len(data)
		if s.Flag('-') {
			s.Write(prefix)
			s.Write(data)
			buf[0] = ' '
			for i := n; i < w; i++ {
				s.Write(buf[:1])
			}
		} else {
			buf[0] = ' '
			for i := n; i < w; i++ {
				s.Write(buf[:1])
			}
			s.Write(prefix)
			s.Write(data)
		}
		return
	}

	if len(prefix) > 0 {
		s.Write(prefix)
	}
	s.Write(data)
}
