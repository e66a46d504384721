// Package fpcheck runs randomized differential checks of package fpu
// against the arbitrary-precision reference in softref.
package fpcheck

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/shogo82148/fpu"
	"github.com/shogo82148/fpu/internal/softref"
)

// Config selects what Run checks.
type Config struct {
	Formats []fpu.Format
	Ops     []fpu.Opcode
	Modes   []fpu.RoundingMode
	// N is the number of random operations per format, opcode and mode.
	N       int
	Seed    uint64
	Workers int
}

// DefaultConfig checks every opcode in both formats under every static
// rounding mode.
func DefaultConfig() Config {
	ops := make([]fpu.Opcode, 0, 32)
	for op := fpu.Opcode(0); op.Valid(); op++ {
		ops = append(ops, op)
	}
	return Config{
		Formats: []fpu.Format{fpu.Single, fpu.Double},
		Ops:     ops,
		Modes:   slices.Clone(fpu.RoundingModes),
		N:       1000,
		Seed:    1,
		Workers: 4,
	}
}

// Mismatch is an operation on which fpu and the reference disagree.
type Mismatch struct {
	Op        fpu.Operation
	Got       uint64
	GotFlags  fpu.Flags
	Want      uint64
	WantFlags fpu.Flags
}

func (m Mismatch) String() string {
	return fmt.Sprintf("%s %#x %#x %#x: got %#x (%s), want %#x (%s)",
		m.Op.Op.Mnemonic(m.Op.Format), m.Op.Operands[0], m.Op.Operands[1], m.Op.Operands[2],
		m.Got, m.GotFlags, m.Want, m.WantFlags)
}

// Report summarizes a Run.
type Report struct {
	Checked    int
	Mismatches []Mismatch
}

// Check evaluates op with both models.
func Check(op fpu.Operation) (Mismatch, bool) {
	got, gotFlags := fpu.Evaluate(op)
	want, wantFlags := softref.Evaluate(op)
	m := Mismatch{Op: op, Got: got, GotFlags: gotFlags, Want: want, WantFlags: wantFlags}
	return m, got == want && gotFlags == wantFlags
}

type job struct {
	f    fpu.Format
	op   fpu.Opcode
	rm   fpu.RoundingMode
	seed uint64
}

// maxMismatches caps the mismatches kept per job.
const maxMismatches = 16

// Run checks cfg.N random operations for every combination of format,
// opcode and rounding mode, spread over cfg.Workers goroutines.
func Run(ctx context.Context, cfg Config) (Report, error) {
	var jobs []job
	for _, f := range cfg.Formats {
		if !f.Valid() {
			return Report{}, fmt.Errorf("%w: %v", fpu.ErrInvalidFormat, f)
		}
		for _, op := range cfg.Ops {
			if !op.Valid() {
				return Report{}, fmt.Errorf("%w: %v", fpu.ErrUnknownOpcode, op)
			}
			for _, rm := range cfg.Modes {
				if !rm.Static() {
					return Report{}, fmt.Errorf("%w: %v", fpu.ErrInvalidRoundingMode, rm)
				}
				jobs = append(jobs, job{f: f, op: op, rm: rm, seed: cfg.Seed + uint64(len(jobs))*0x9e3779b97f4a7c15})
			}
		}
	}
	logctx.Infof(ctx, "checking %d combinations of %d operations", len(jobs), cfg.N)

	var mu sync.Mutex
	var report Report
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(max(cfg.Workers, 1))
	for _, j := range jobs {
		eg.Go(func() error {
			mismatches, err := runJob(ctx, j, cfg.N)
			if err != nil {
				return err
			}
			if len(mismatches) > 0 {
				logctx.Warnf(ctx, "%s rm=%s: %d mismatches", j.op.Mnemonic(j.f), j.rm, len(mismatches))
			}
			mu.Lock()
			defer mu.Unlock()
			report.Checked += cfg.N
			report.Mismatches = append(report.Mismatches, mismatches...)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return report, err
	}
	logctx.Info(ctx, "check complete",
		zap.Int("checked", report.Checked),
		zap.Int("mismatches", len(report.Mismatches)),
	)
	return report, nil
}

func runJob(ctx context.Context, j job, n int) ([]Mismatch, error) {
	src := NewSource(j.seed)
	var ret []Mismatch
	for i := 0; i < n; i++ {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		op := fpu.Operation{Op: j.op, Format: j.f, Rounding: j.rm, Tag: uint64(i)}
		for k := range op.Operands {
			op.Operands[k] = src.Register(j.op, j.f)
		}
		if m, ok := Check(op); !ok && len(ret) < maxMismatches {
			ret = append(ret, m)
		}
	}
	return ret, nil
}
