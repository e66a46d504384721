package fpu

import "fmt"

// Engine identifies an execution engine. Each engine holds at most one
// operation in flight.
type Engine uint8

const (
	EngineAdd Engine = iota
	EngineMul
	EngineDiv
	EngineSqrt
	EngineFMA
	EngineCompare
	EngineConvert
	EngineSign

	numEngines
)

var engineNames = [numEngines]string{
	EngineAdd:     "add",
	EngineMul:     "mul",
	EngineDiv:     "div",
	EngineSqrt:    "sqrt",
	EngineFMA:     "fma",
	EngineCompare: "compare",
	EngineConvert: "convert",
	EngineSign:    "sign",
}

func (e Engine) String() string {
	if e < numEngines {
		return engineNames[e]
	}
	return fmt.Sprintf("Engine(%d)", uint8(e))
}

// Engines lists every engine in completion priority order.
var Engines = []Engine{
	EngineSqrt,
	EngineDiv,
	EngineFMA,
	EngineMul,
	EngineAdd,
	EngineConvert,
	EngineCompare,
	EngineSign,
}

// Latency returns the number of Advance calls an operation of format f
// spends in engine e when no other engine completes on the same tick.
func (e Engine) Latency(f Format) int {
	switch e {
	case EngineAdd, EngineMul:
		return 3
	case EngineFMA:
		return 5
	case EngineConvert:
		return 2
	case EngineDiv, EngineSqrt:
		return f.FracBits() + 5
	}
	return 1
}

// State is the state of an engine's in-flight slot.
type State uint8

const (
	Idle State = iota
	Busy       // computing
	Done       // finished, waiting to be delivered
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Busy:
		return "busy"
	case Done:
		return "done"
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// unit is the step function behind an engine.
type unit interface {
	start(op Operation)
	// step advances one tick and reports whether the result is ready.
	step() bool
	result() (uint64, Flags)
}

// pipeline is a fixed latency unit. The result is computed on entry and
// released after latency steps.
type pipeline struct {
	engine    Engine
	remaining int
	out       uint64
	flags     Flags
}

func (p *pipeline) start(op Operation) {
	p.out, p.flags = Evaluate(op)
	p.remaining = p.engine.Latency(op.Format)
}

func (p *pipeline) step() bool {
	if p.remaining > 0 {
		p.remaining--
	}
	return p.remaining == 0
}

func (p *pipeline) result() (uint64, Flags) {
	return p.out, p.flags
}

// divUnit runs the division recurrence one iteration per step.
type divUnit struct {
	f Format
	d divider
}

func (u *divUnit) start(op Operation) {
	u.f = op.Format
	u.d.reset(op.Format, op.fp(0), op.fp(1), op.Rounding)
}

func (u *divUnit) step() bool {
	return u.d.step()
}

func (u *divUnit) result() (uint64, Flags) {
	out, flags := u.d.result()
	return u.f.box(out), flags
}

// sqrtUnit runs the square root recurrence one iteration per step.
type sqrtUnit struct {
	f Format
	s sqrter
}

func (u *sqrtUnit) start(op Operation) {
	u.f = op.Format
	u.s.reset(op.Format, op.fp(0), op.Rounding)
}

func (u *sqrtUnit) step() bool {
	return u.s.step()
}

func (u *sqrtUnit) result() (uint64, Flags) {
	out, flags := u.s.result()
	return u.f.box(out), flags
}

func newUnit(e Engine) unit {
	switch e {
	case EngineDiv:
		return &divUnit{}
	case EngineSqrt:
		return &sqrtUnit{}
	}
	return &pipeline{engine: e}
}
