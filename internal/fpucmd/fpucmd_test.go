package fpucmd

import (
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shogo82148/fpu"
	"github.com/shogo82148/fpu/internal/testutil"
)

func newDispatcher(t *testing.T, rm fpu.RoundingMode) *fpu.Dispatcher {
	d, err := fpu.New(fpu.WithLogger(testutil.Logger(t)), fpu.WithRoundingMode(rm))
	require.NoError(t, err)
	return d
}

func TestEval(t *testing.T) {
	tests := []struct {
		mnemonic string
		rm       fpu.RoundingMode
		args     []string
		want     string
	}{
		{"fadd.d", fpu.Dynamic, []string{"1", "2"}, "0x4008000000000000 3 flags=-"},
		{"fadd.s", fpu.Dynamic, []string{"0.1", "0.2"}, "0x3e99999a 0.3 flags=NX"},
		{"fdiv.d", fpu.ToNearestEven, []string{"1", "0"}, "0x7ff0000000000000 +Inf flags=DZ"},
		{"fsqrt.s", fpu.ToNearestEven, []string{"-1"}, "0x7fc00000 NaN flags=NV"},
		{"fmin.d", fpu.ToNearestEven, []string{"snan", "5"}, "0x4014000000000000 5 flags=NV"},
		{"fcvt.w.d", fpu.TowardZero, []string{"-2.5"}, "0xfffffffffffffffe -2 flags=NX"},
		{"fcvt.s.w", fpu.Dynamic, []string{"-7"}, "0xc0e00000 -7 flags=-"},
		{"fcvt.d.lu", fpu.Dynamic, []string{"0xffffffffffffffff"}, "0x43f0000000000000 1.8446744073709552e+19 flags=NX"},
		{"fcvt.s.d", fpu.Dynamic, []string{"1e300"}, "0x7f800000 +Inf flags=OF|NX"},
		{"fmv.x.w", fpu.Dynamic, []string{"-1"}, "0xffffffffbf800000 -1082130432 flags=-"},
		{"feq.s", fpu.Dynamic, []string{"nan", "nan"}, "0x0000000000000000 0 flags=-"},
		{"fclass.d", fpu.Dynamic, []string{"-inf"}, "0x0000000000000001 1 flags=-"},
		{"fmadd.d", fpu.Dynamic, []string{"2", "3", "0x3ff0000000000000"}, "0x401c000000000000 7 flags=-"},
	}
	for _, tt := range tests {
		t.Run(tt.mnemonic, func(t *testing.T) {
			d := newDispatcher(t, fpu.ToNearestEven)
			res, err := Eval(testutil.Context(t), d, tt.mnemonic, tt.rm, tt.args)
			require.NoError(t, err)
			require.Equal(t, tt.want, res.String())
		})
	}
}

func TestEval_DynamicMode(t *testing.T) {
	d := newDispatcher(t, fpu.TowardZero)
	res, err := Eval(testutil.Context(t), d, "fdiv.s", fpu.Dynamic, []string{"2", "3"})
	require.NoError(t, err)
	require.Equal(t, "0x3f2aaaaa 0.6666666 flags=NX", res.String())
}

func TestEval_Errors(t *testing.T) {
	ctx := testutil.Context(t)
	d := newDispatcher(t, fpu.ToNearestEven)

	_, err := Eval(ctx, d, "fadd.q", fpu.Dynamic, []string{"1", "2"})
	require.ErrorIs(t, err, fpu.ErrUnknownOpcode)

	_, err = Eval(ctx, d, "fadd.d", fpu.Dynamic, []string{"1"})
	require.ErrorContains(t, err, "takes 2 operands")

	_, err = Eval(ctx, d, "fadd.d", fpu.Dynamic, []string{"1", "x"})
	require.ErrorContains(t, err, "operand 1")

	_, err = Eval(ctx, d, "fcvt.d.l", fpu.Dynamic, []string{"1.5"})
	require.Error(t, err)
}

func TestListing(t *testing.T) {
	lines := Listing()
	require.Len(t, lines, len(fpu.Mnemonics()))
	require.True(t, slices.IsSorted(lines))
	require.True(t, strings.HasPrefix(lines[0], "fadd.d"))

	var div string
	for _, l := range lines {
		if strings.HasPrefix(l, "fdiv.s ") {
			div = l
		}
	}
	require.Equal(t, []string{"fdiv.s", "div", "28"}, strings.Fields(div))
}
