package fpu

// Div returns the IEEE 754 quotient of a and b.
func Div(f Format, a, b uint64, rm RoundingMode) (uint64, Flags) {
	var d divider
	d.reset(f, a, b, rm)
	for !d.step() {
	}
	return d.result()
}

// recurrence states shared by the divider and the square root unit.
type recState uint8

const (
	recSetup recState = iota
	recIterate
	recFinish
	recDone
)

// divider is a radix-2 restoring division unit. Each step is one
// scheduling tick: a setup tick, FracBits+3 recurrence ticks producing one
// quotient bit each, and a final rounding tick.
type divider struct {
	f    Format
	rm   RoundingMode
	a, b uint64

	state      recState
	settled    bool // the result was decided during setup
	sign       bool
	exp        int
	quo, rem   uint64
	divisor    uint64
	iterations int

	out   uint64
	flags Flags
}

func (d *divider) reset(f Format, a, b uint64, rm RoundingMode) {
	*d = divider{f: f, rm: rm, a: a, b: b}
}

// latency is the number of steps from reset to completion.
func (d *divider) latency() int {
	return d.f.FracBits() + 5
}

func (d *divider) step() bool {
	switch d.state {
	case recSetup:
		d.setup()
		d.state = recIterate
	case recIterate:
		if !d.settled {
			d.rem <<= 1
			d.quo <<= 1
			if d.rem >= d.divisor {
				d.rem -= d.divisor
				d.quo |= 1
			}
		}
		d.iterations--
		if d.iterations == 0 {
			d.state = recFinish
		}
	case recFinish:
		if !d.settled {
			d.finish()
		}
		d.state = recDone
	}
	return d.state == recDone
}

func (d *divider) result() (uint64, Flags) {
	return d.out, d.flags
}

func (d *divider) setup() {
	f := d.f
	x := unpack(f, d.a)
	y := unpack(f, d.b)
	d.sign = x.sign != y.sign
	d.iterations = f.FracBits() + 3 // mantissa bits + 2

	var s *special
	switch {
	case x.isNaN() || y.isNaN():
		s = f.nanResult(x, y)
	case x.isInf() && y.isInf(), x.isZero() && y.isZero():
		// ±inf / ±inf = NaN
		// ±0 / ±0 = NaN
		s = f.invalid()
	case x.isInf():
		s = f.exact(f.Inf(d.sign))
	case y.isInf():
		s = f.exact(f.Zero(d.sign))
	case y.isZero():
		s = &special{bits: f.Inf(d.sign), flags: DivideByZero}
	case x.isZero():
		s = f.exact(f.Zero(d.sign))
	}
	if s != nil {
		d.settled = true
		d.out, d.flags = f.assemble(assembly{special: s})
		return
	}

	x = x.normalize(f)
	y = y.normalize(f)
	d.exp = x.exp - y.exp + f.bias()
	d.divisor = y.mant

	// trial subtraction for the integer bit of the quotient
	if x.mant >= y.mant {
		d.quo = 1
		d.rem = x.mant - y.mant
	} else {
		d.quo = 0
		d.rem = x.mant
	}
}

func (d *divider) finish() {
	f := d.f

	// the quotient has precision+3 bits; its integer bit may be zero
	width := f.precision() + 3
	top := width - 1 - leadingZeros(d.quo, width)
	exp := d.exp + top - (width - 1)

	mant, rb := f.splitWide(d.quo, top)
	rb.sticky = rb.sticky || d.rem != 0
	d.out, d.flags = f.roundPack(d.sign, exp, mant, rb, d.rm)
}
