package fpu

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// ErrBusy is returned by Execute when an engine still holds an operation.
var ErrBusy = errors.New("fpu: dispatcher busy")

// Completion is a delivered result.
type Completion struct {
	Tag    uint64
	Op     Opcode
	Engine Engine
	Result uint64 // 64-bit register value, singles are NaN-boxed
	Flags  Flags
}

func (c Completion) String() string {
	return fmt.Sprintf("tag=%d %s result=%#016x flags=%s", c.Tag, c.Engine, c.Result, c.Flags)
}

type slot struct {
	state State
	unit  unit
	op    Operation
}

// Dispatcher routes operations to the engines and tracks their in-flight
// slots. A Dispatcher is not safe for concurrent use.
type Dispatcher struct {
	logger   *zap.Logger
	rounding RoundingMode
	ticks    uint64
	slots    [numEngines]slot
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

// WithRoundingMode sets the mode used for operations submitted with
// Dynamic rounding. The default is ToNearestEven.
func WithRoundingMode(rm RoundingMode) Option {
	return func(d *Dispatcher) {
		d.rounding = rm
	}
}

// New returns an idle Dispatcher.
func New(opts ...Option) (*Dispatcher, error) {
	d := &Dispatcher{
		logger:   zap.NewNop(),
		rounding: ToNearestEven,
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.logger == nil {
		d.logger = zap.NewNop()
	}
	if !d.rounding.Static() {
		return nil, fmt.Errorf("%w: %s cannot be the default mode", ErrInvalidRoundingMode, d.rounding)
	}
	for e := range d.slots {
		d.slots[e].unit = newUnit(Engine(e))
	}
	return d, nil
}

// RoundingMode returns the mode that resolves Dynamic.
func (d *Dispatcher) RoundingMode() RoundingMode {
	return d.rounding
}

// SetRoundingMode changes the mode that resolves Dynamic. Operations
// already accepted keep the mode they were submitted with.
func (d *Dispatcher) SetRoundingMode(rm RoundingMode) error {
	if !rm.Static() {
		return fmt.Errorf("%w: %s cannot be the default mode", ErrInvalidRoundingMode, rm)
	}
	d.rounding = rm
	return nil
}

// Submit hands op to its engine. It returns false when the engine still
// holds an operation, or when op is malformed.
func (d *Dispatcher) Submit(op Operation) bool {
	if err := op.Validate(); err != nil {
		d.logger.Warn("rejecting operation", zap.Error(err), zap.Uint64("tag", op.Tag))
		return false
	}
	e := op.Op.Engine()
	s := &d.slots[e]
	if s.state != Idle {
		d.logger.Debug("engine busy",
			zap.Stringer("engine", e),
			zap.Stringer("op", op),
			zap.Uint64("holding", s.op.Tag),
		)
		return false
	}
	if op.Rounding == Dynamic {
		op.Rounding = d.rounding
	}

	s.op = op
	s.state = Busy
	s.unit.start(op)
	d.logger.Debug("accepted",
		zap.Stringer("engine", e),
		zap.Stringer("op", op),
		zap.Uint64("tick", d.ticks),
	)
	return true
}

// Advance runs one scheduling tick: every busy engine takes one step, then
// at most one finished engine delivers its result and becomes idle.
// Finished engines are delivered in the order of Engines.
func (d *Dispatcher) Advance() (Completion, bool) {
	d.ticks++
	for e := range d.slots {
		s := &d.slots[e]
		if s.state == Busy && s.unit.step() {
			s.state = Done
		}
	}

	for _, e := range Engines {
		s := &d.slots[e]
		if s.state != Done {
			continue
		}
		result, flags := s.unit.result()
		c := Completion{
			Tag:    s.op.Tag,
			Op:     s.op.Op,
			Engine: e,
			Result: result,
			Flags:  flags,
		}
		s.state = Idle
		s.op = Operation{}
		d.logger.Debug("completed",
			zap.Stringer("engine", e),
			zap.Uint64("tag", c.Tag),
			zap.Uint64("result", c.Result),
			zap.Stringer("flags", c.Flags),
			zap.Uint64("tick", d.ticks),
		)
		return c, true
	}
	return Completion{}, false
}

// IsBusy reports whether e holds an operation, finished or not.
func (d *Dispatcher) IsBusy(e Engine) bool {
	return e < numEngines && d.slots[e].state != Idle
}

// State returns the state of e's in-flight slot.
func (d *Dispatcher) State(e Engine) State {
	if e >= numEngines {
		return Idle
	}
	return d.slots[e].state
}

// Idle reports whether no engine holds an operation.
func (d *Dispatcher) Idle() bool {
	for e := range d.slots {
		if d.slots[e].state != Idle {
			return false
		}
	}
	return true
}

// Ticks returns the number of Advance calls so far.
func (d *Dispatcher) Ticks() uint64 {
	return d.ticks
}

// Drain advances until every engine is idle and returns the completions
// in delivery order.
func (d *Dispatcher) Drain() []Completion {
	var ret []Completion
	for !d.Idle() {
		if c, ok := d.Advance(); ok {
			ret = append(ret, c)
		}
	}
	return ret
}

// Execute submits op to an idle dispatcher and advances until its result
// is delivered. The context is only consulted before the operation is
// accepted; accepted operations always run to completion.
func (d *Dispatcher) Execute(ctx context.Context, op Operation) (Completion, error) {
	if err := op.Validate(); err != nil {
		return Completion{}, err
	}
	if err := ctx.Err(); err != nil {
		return Completion{}, err
	}
	if !d.Idle() {
		return Completion{}, ErrBusy
	}
	if !d.Submit(op) {
		return Completion{}, ErrBusy
	}
	for {
		if c, ok := d.Advance(); ok {
			return c, nil
		}
	}
}
