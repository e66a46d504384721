// package fpucmd implements the fpu command line tool.
package fpucmd

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"go.brendoncarroll.net/star"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/exp/maps"

	"github.com/shogo82148/fpu"
	"github.com/shogo82148/fpu/internal/fpcheck"
)

func Root() star.Command {
	return root
}

var root = star.NewDir(star.Metadata{
	Short: "IEEE 754 floating-point execution core",
}, map[star.Symbol]star.Command{
	"eval":   eval,
	"verify": verify,
	"ops":    ops,
})

var eval = star.Command{
	Metadata: star.Metadata{
		Short: "evaluate one operation, e.g. eval fadd.s 1 2",
	},
	Flags: []star.IParam{rmParam, defaultRMParam, logLevelParam},
	Pos:   []star.IParam{opParam, operandsParam},
	F: func(c star.Context) error {
		ctx, l, err := setup(c)
		if err != nil {
			return err
		}
		defer l.Sync()
		d, err := fpu.New(fpu.WithLogger(l), fpu.WithRoundingMode(defaultRMParam.Load(c)))
		if err != nil {
			return err
		}
		res, err := Eval(ctx, d, opParam.Load(c), rmParam.Load(c), operandsParam.LoadAll(c))
		if err != nil {
			return err
		}
		c.Printf("%s\n", res)
		return nil
	},
}

var verify = star.Command{
	Metadata: star.Metadata{
		Short: "compare every operation against the arbitrary-precision reference",
	},
	Flags: []star.IParam{nParam, seedParam, workersParam, logLevelParam},
	F: func(c star.Context) error {
		ctx, l, err := setup(c)
		if err != nil {
			return err
		}
		defer l.Sync()
		cfg := fpcheck.DefaultConfig()
		cfg.N = nParam.Load(c)
		cfg.Seed = seedParam.Load(c)
		cfg.Workers = workersParam.Load(c)
		report, err := fpcheck.Run(ctx, cfg)
		if err != nil {
			logctx.Error(ctx, "verify", zap.Error(err))
			return err
		}
		for _, m := range report.Mismatches {
			c.Printf("%s\n", m)
		}
		c.Printf("checked %d operations, %d mismatches\n", report.Checked, len(report.Mismatches))
		if len(report.Mismatches) > 0 {
			return fmt.Errorf("%d mismatches", len(report.Mismatches))
		}
		return nil
	},
}

var ops = star.Command{
	Metadata: star.Metadata{
		Short: "list the supported operations",
	},
	F: func(c star.Context) error {
		for _, line := range Listing() {
			c.Printf("%s\n", line)
		}
		return nil
	},
}

// Listing returns one line per mnemonic with its engine and latency.
func Listing() []string {
	m := fpu.Mnemonics()
	names := maps.Keys(m)
	slices.Sort(names)
	var ret []string
	for _, name := range names {
		op, f, err := fpu.ParseOpcode(name)
		if err != nil {
			continue
		}
		e := op.Engine()
		ret = append(ret, fmt.Sprintf("%-12s %-8s %d", name, e, e.Latency(f)))
	}
	return ret
}

func setup(c star.Context) (context.Context, *zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(logLevelParam.Load(c))
	l, err := cfg.Build()
	if err != nil {
		return nil, nil, err
	}
	return logctx.NewContext(c.Context, l), l, nil
}

var opParam = star.Param[string]{
	Name:  "op",
	Parse: star.ParseString,
}

var operandsParam = star.Param[string]{
	Name:     "operands",
	Repeated: true,
	Parse:    star.ParseString,
}

var rmParam = star.Param[fpu.RoundingMode]{
	Name:    "rm",
	Default: star.Ptr("dyn"),
	Parse:   fpu.ParseRoundingMode,
}

var defaultRMParam = star.Param[fpu.RoundingMode]{
	Name:    "frm",
	Default: star.Ptr("rne"),
	Parse:   fpu.ParseRoundingMode,
}

var logLevelParam = star.Param[zapcore.Level]{
	Name:    "log",
	Default: star.Ptr("warn"),
	Parse:   zapcore.ParseLevel,
}

var nParam = star.Param[int]{
	Name:    "n",
	Default: star.Ptr("1000"),
	Parse:   strconv.Atoi,
}

var seedParam = star.Param[uint64]{
	Name:    "seed",
	Default: star.Ptr("1"),
	Parse: func(x string) (uint64, error) {
		return strconv.ParseUint(x, 0, 64)
	},
}

var workersParam = star.Param[int]{
	Name:    "workers",
	Default: star.Ptr("4"),
	Parse:   strconv.Atoi,
}
