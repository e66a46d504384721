package fpu

import (
	"errors"
	"fmt"
	"strings"
)

// Opcode identifies a floating-point operation. The set follows the
// RISC-V F and D extensions.
type Opcode uint8

const (
	OpAdd Opcode = iota
	OpSub
	OpMul
	OpDiv
	OpSqrt
	OpMAdd  // a*b + c
	OpMSub  // a*b - c
	OpNMSub // -(a*b) + c
	OpNMAdd // -(a*b) - c
	OpSgnJ
	OpSgnJN
	OpSgnJX
	OpMin
	OpMax
	OpEq
	OpLt
	OpLe
	OpClass
	OpCvtW      // float to int32
	OpCvtWU     // float to uint32
	OpCvtL      // float to int64
	OpCvtLU     // float to uint64
	OpCvtFromW  // int32 to float
	OpCvtFromWU // uint32 to float
	OpCvtFromL  // int64 to float
	OpCvtFromLU // uint64 to float
	OpCvtSD     // binary64 to binary32
	OpCvtDS     // binary32 to binary64
	OpMvX       // float register bits to integer register
	OpMvF       // integer register bits to float register

	numOpcodes
)

var (
	// ErrUnknownOpcode is returned for opcodes outside the table.
	ErrUnknownOpcode = errors.New("fpu: unknown opcode")

	// ErrInvalidFormat is returned for formats other than Single and Double.
	ErrInvalidFormat = errors.New("fpu: invalid format")
)

type opInfo struct {
	name   string
	engine Engine
	args   int
}

var opTable = [numOpcodes]opInfo{
	OpAdd:       {"fadd", EngineAdd, 2},
	OpSub:       {"fsub", EngineAdd, 2},
	OpMul:       {"fmul", EngineMul, 2},
	OpDiv:       {"fdiv", EngineDiv, 2},
	OpSqrt:      {"fsqrt", EngineSqrt, 1},
	OpMAdd:      {"fmadd", EngineFMA, 3},
	OpMSub:      {"fmsub", EngineFMA, 3},
	OpNMSub:     {"fnmsub", EngineFMA, 3},
	OpNMAdd:     {"fnmadd", EngineFMA, 3},
	OpSgnJ:      {"fsgnj", EngineSign, 2},
	OpSgnJN:     {"fsgnjn", EngineSign, 2},
	OpSgnJX:     {"fsgnjx", EngineSign, 2},
	OpMin:       {"fmin", EngineCompare, 2},
	OpMax:       {"fmax", EngineCompare, 2},
	OpEq:        {"feq", EngineCompare, 2},
	OpLt:        {"flt", EngineCompare, 2},
	OpLe:        {"fle", EngineCompare, 2},
	OpClass:     {"fclass", EngineSign, 1},
	OpCvtW:      {"fcvt.w", EngineConvert, 1},
	OpCvtWU:     {"fcvt.wu", EngineConvert, 1},
	OpCvtL:      {"fcvt.l", EngineConvert, 1},
	OpCvtLU:     {"fcvt.lu", EngineConvert, 1},
	OpCvtFromW:  {"fcvt.w", EngineConvert, 1},
	OpCvtFromWU: {"fcvt.wu", EngineConvert, 1},
	OpCvtFromL:  {"fcvt.l", EngineConvert, 1},
	OpCvtFromLU: {"fcvt.lu", EngineConvert, 1},
	OpCvtSD:     {"fcvt.s.d", EngineConvert, 1},
	OpCvtDS:     {"fcvt.d.s", EngineConvert, 1},
	OpMvX:       {"fmv.x", EngineSign, 1},
	OpMvF:       {"fmv", EngineSign, 1},
}

// Valid reports whether op is a known opcode.
func (op Opcode) Valid() bool {
	return op < numOpcodes
}

// Engine returns the execution engine op is dispatched to, or an invalid
// Engine if op is unknown.
func (op Opcode) Engine() Engine {
	if !op.Valid() {
		return numEngines
	}
	return opTable[op].engine
}

// Args returns the number of operands op reads, or 0 if op is unknown.
func (op Opcode) Args() int {
	if !op.Valid() {
		return 0
	}
	return opTable[op].args
}

// ReadsInt reports whether op reads its operand from an integer register.
func (op Opcode) ReadsInt() bool {
	switch op {
	case OpCvtFromW, OpCvtFromWU, OpCvtFromL, OpCvtFromLU, OpMvF:
		return true
	}
	return false
}

// WritesInt reports whether op writes an integer register.
func (op Opcode) WritesInt() bool {
	switch op {
	case OpEq, OpLt, OpLe, OpClass, OpCvtW, OpCvtWU, OpCvtL, OpCvtLU, OpMvX:
		return true
	}
	return false
}

// SourceFormat returns the format of the floating-point operands of op
// when it operates on format f. Only the conversions between formats
// read a different one.
func (op Opcode) SourceFormat(f Format) Format {
	switch op {
	case OpCvtSD:
		return Double
	case OpCvtDS:
		return Single
	}
	return f
}

func (op Opcode) String() string {
	if !op.Valid() {
		return fmt.Sprintf("Opcode(%d)", uint8(op))
	}
	return opTable[op].name
}

// Mnemonic returns the assembler mnemonic of op operating on format f,
// for example "fadd.s", "fcvt.w.d" or "fmv.x.w".
func (op Opcode) Mnemonic(f Format) string {
	if !op.Valid() {
		return op.String()
	}
	name := opTable[op].name
	switch op {
	case OpCvtSD, OpCvtDS:
		return name
	case OpCvtFromW, OpCvtFromWU, OpCvtFromL, OpCvtFromLU:
		// fcvt.<fmt>.<int>
		return "fcvt." + f.String() + strings.TrimPrefix(name, "fcvt")
	case OpMvX:
		return name + "." + f.moveSuffix()
	case OpMvF:
		return name + "." + f.moveSuffix() + ".x"
	}
	return name + "." + f.String()
}

func (f Format) moveSuffix() string {
	if f == Single {
		return "w"
	}
	return "d"
}

type opFormat struct {
	op Opcode
	f  Format
}

var mnemonics = func() map[string]opFormat {
	m := make(map[string]opFormat)
	for op := Opcode(0); op < numOpcodes; op++ {
		for _, f := range []Format{Single, Double} {
			m[op.Mnemonic(f)] = opFormat{op, f}
		}
	}
	// the format of the conversions between formats is the destination
	m["fcvt.s.d"] = opFormat{OpCvtSD, Single}
	m["fcvt.d.s"] = opFormat{OpCvtDS, Double}
	return m
}()

// ParseOpcode parses an assembler mnemonic such as "fmadd.d".
func ParseOpcode(s string) (Opcode, Format, error) {
	of, ok := mnemonics[strings.ToLower(s)]
	if !ok {
		return 0, 0, fmt.Errorf("%w: %q", ErrUnknownOpcode, s)
	}
	return of.op, of.f, nil
}

// Mnemonics returns the mnemonic of every supported operation.
func Mnemonics() map[string]Opcode {
	ret := make(map[string]Opcode, len(mnemonics))
	for name, of := range mnemonics {
		ret[name] = of.op
	}
	return ret
}

// Operation is one request to the floating-point core. Operands are
// 64-bit register values: binary32 operands are NaN-boxed, integer
// operands are read from the low bits.
type Operation struct {
	Op       Opcode
	Format   Format
	Operands [3]uint64
	Rounding RoundingMode
	Tag      uint64
}

// Validate reports programmer errors in the static shape of op.
func (op Operation) Validate() error {
	if !op.Op.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownOpcode, op.Op)
	}
	if !op.Format.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidFormat, op.Format)
	}
	return nil
}

func (op Operation) String() string {
	return fmt.Sprintf("%s rm=%s tag=%d", op.Op.Mnemonic(op.Format), op.Rounding, op.Tag)
}

// fp returns operand i as a bit pattern of the operation's format.
func (op Operation) fp(i int) uint64 {
	return op.Format.unbox(op.Operands[i])
}

// Evaluate computes op synchronously and returns the 64-bit register
// value of the result. Floating-point results of binary32 operations are
// NaN-boxed; integer results are sign-extended. A Dynamic rounding mode is
// treated as round to nearest even; use a Dispatcher to resolve it.
func Evaluate(op Operation) (uint64, Flags) {
	f := op.Format
	rm := op.Rounding
	fpResult := func(x uint64, flags Flags) (uint64, Flags) {
		return f.box(x), flags
	}
	boolResult := func(b bool, flags Flags) (uint64, Flags) {
		return b2u(b), flags
	}

	switch op.Op {
	case OpAdd:
		return fpResult(Add(f, op.fp(0), op.fp(1), rm))
	case OpSub:
		return fpResult(Sub(f, op.fp(0), op.fp(1), rm))
	case OpMul:
		return fpResult(Mul(f, op.fp(0), op.fp(1), rm))
	case OpDiv:
		return fpResult(Div(f, op.fp(0), op.fp(1), rm))
	case OpSqrt:
		return fpResult(Sqrt(f, op.fp(0), rm))
	case OpMAdd, OpMSub, OpNMSub, OpNMAdd:
		negProduct := op.Op == OpNMSub || op.Op == OpNMAdd
		negAddend := op.Op == OpMSub || op.Op == OpNMAdd
		return fpResult(FMA(f, op.fp(0), op.fp(1), op.fp(2), negProduct, negAddend, rm))
	case OpSgnJ:
		return f.box(SignInject(f, op.fp(0), op.fp(1), SignCopy)), 0
	case OpSgnJN:
		return f.box(SignInject(f, op.fp(0), op.fp(1), SignNegate)), 0
	case OpSgnJX:
		return f.box(SignInject(f, op.fp(0), op.fp(1), SignXor)), 0
	case OpMin:
		return fpResult(Min(f, op.fp(0), op.fp(1)))
	case OpMax:
		return fpResult(Max(f, op.fp(0), op.fp(1)))
	case OpEq:
		return boolResult(Eq(f, op.fp(0), op.fp(1)))
	case OpLt:
		return boolResult(Lt(f, op.fp(0), op.fp(1)))
	case OpLe:
		return boolResult(Le(f, op.fp(0), op.fp(1)))
	case OpClass:
		return Classify(f, op.fp(0)), 0
	case OpCvtW:
		return ToInt(f, op.fp(0), Int32, rm)
	case OpCvtWU:
		return ToInt(f, op.fp(0), Uint32, rm)
	case OpCvtL:
		return ToInt(f, op.fp(0), Int64, rm)
	case OpCvtLU:
		return ToInt(f, op.fp(0), Uint64, rm)
	case OpCvtFromW:
		return fpResult(FromInt(f, op.Operands[0], Int32, rm))
	case OpCvtFromWU:
		return fpResult(FromInt(f, op.Operands[0], Uint32, rm))
	case OpCvtFromL:
		return fpResult(FromInt(f, op.Operands[0], Int64, rm))
	case OpCvtFromLU:
		return fpResult(FromInt(f, op.Operands[0], Uint64, rm))
	case OpCvtSD:
		x, flags := Narrow(op.Operands[0], rm)
		return Single.box(x), flags
	case OpCvtDS:
		return Widen(Single.unbox(op.Operands[0]))
	case OpMvX:
		if f == Single {
			return Int32.extend(op.Operands[0]), 0
		}
		return op.Operands[0], 0
	case OpMvF:
		return f.box(op.Operands[0]), 0
	}
	return 0, 0
}
