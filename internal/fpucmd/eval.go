package fpucmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"

	"github.com/shogo82148/fpu"
)

// Result is the outcome of Eval.
type Result struct {
	Op         fpu.Opcode
	Format     fpu.Format
	Completion fpu.Completion
}

func (r Result) String() string {
	var sb strings.Builder
	x := r.Completion.Result
	if r.Op.WritesInt() {
		fmt.Fprintf(&sb, "%#016x %d", x, int64(x))
	} else {
		f := r.Format
		if r.Op == fpu.OpCvtSD {
			f = fpu.Single
		}
		v := fpu.ValueOf(f, x)
		fmt.Fprintf(&sb, "%s %v", v.AppendBits(nil), v)
	}
	fmt.Fprintf(&sb, " flags=%s", r.Completion.Flags)
	return sb.String()
}

// Eval parses an assembler mnemonic and its operands, runs the operation
// on d and waits for the result. Floating-point operands are parsed with
// fpu.ParseValue; integer operands accept any base prefix.
func Eval(ctx context.Context, d *fpu.Dispatcher, mnemonic string, rm fpu.RoundingMode, args []string) (Result, error) {
	op, f, err := fpu.ParseOpcode(mnemonic)
	if err != nil {
		return Result{}, err
	}
	if len(args) != op.Args() {
		return Result{}, fmt.Errorf("%s takes %d operands, have %d", mnemonic, op.Args(), len(args))
	}

	o := fpu.Operation{Op: op, Format: f, Rounding: rm}
	for i, arg := range args {
		x, err := parseOperand(op, f, arg)
		if err != nil {
			return Result{}, fmt.Errorf("operand %d: %w", i, err)
		}
		o.Operands[i] = x
	}
	logctx.Debug(ctx, "eval", zap.Stringer("op", o), zap.Uint64s("operands", o.Operands[:op.Args()]))

	c, err := d.Execute(ctx, o)
	if err != nil {
		return Result{}, err
	}
	return Result{Op: op, Format: f, Completion: c}, nil
}

func parseOperand(op fpu.Opcode, f fpu.Format, s string) (uint64, error) {
	if op.ReadsInt() {
		if strings.HasPrefix(s, "-") {
			x, err := strconv.ParseInt(s, 0, 64)
			return uint64(x), err
		}
		return strconv.ParseUint(s, 0, 64)
	}
	v, err := fpu.ParseValue(op.SourceFormat(f), s)
	if err != nil {
		return 0, err
	}
	return v.Register(), nil
}
