// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package symbolic connects a co-simulation run to a path-exploration
// engine.
//
// An engine supplies three primitives: make a value unconstrained, assert a
// property along the current path, and observe a value for classifying
// paths. The harness only ever talks to an Engine; Concrete, Replay and
// Explorer are the in-process implementations.
package symbolic

import (
	"github.com/ezrec/cosim/model"
)

// Policy selects which observations an engine records on a channel.
type Policy int

const (
	ObserveChange = Policy(iota) // Record a value only when it differs from the last one.
	ObserveEvery                 // Record every value.
)

// Engine is the path-exploration engine boundary.
type Engine interface {
	// Symbolic returns the value of an unconstrained input of width bits
	// along the current path.
	Symbolic(name string, width uint) uint64
	// Assert records a safety property. A nil return means the path may
	// continue; an *AssertionError means the path is a counterexample and
	// must not advance further.
	Assert(cond bool, message string) error
	// Subscribe registers an observation channel.
	Subscribe(channel string, policy Policy)
	// Observe reports the current value of a subscribed channel.
	Observe(channel string, value uint64)
}

// Observation is one recorded value of an observation channel.
type Observation struct {
	Channel string
	Value   uint64
}

// Environment is the set of environment-facing pins made unconstrained
// when no program is loaded: the host interface, reset, id, and both buses'
// ready, response and read-data signals.
var Environment = []string{
	model.PIN_IPI_REQ_READY,
	model.PIN_IPI_RESP_VALID,
	model.PIN_IPI_RESP_DATA,
	model.PIN_PCR_REQ_RW,
	model.PIN_PCR_REQ_VALID,
	model.PIN_PCR_RESP_READY,
	model.PIN_PCR_REQ_ADDR,
	model.PIN_PCR_REQ_DATA,
	model.PIN_IMEM_HREADY,
	model.PIN_IMEM_HRESP,
	model.PIN_IMEM_HRDATA,
	model.PIN_DMEM_HREADY,
	model.PIN_DMEM_HRESP,
	model.PIN_DMEM_HRDATA,
	model.PIN_RESET,
	model.PIN_ID,
}

// ProgramEnvironment is Environment without the read-data pins, which are
// supplied by the bus relay from a loaded program.
var ProgramEnvironment = []string{
	model.PIN_IPI_REQ_READY,
	model.PIN_IPI_RESP_VALID,
	model.PIN_IPI_RESP_DATA,
	model.PIN_PCR_REQ_RW,
	model.PIN_PCR_REQ_VALID,
	model.PIN_PCR_RESP_READY,
	model.PIN_PCR_REQ_ADDR,
	model.PIN_PCR_REQ_DATA,
	model.PIN_IMEM_HREADY,
	model.PIN_IMEM_HRESP,
	model.PIN_DMEM_HREADY,
	model.PIN_DMEM_HRESP,
	model.PIN_RESET,
	model.PIN_ID,
}

// Bind makes each named input pin unconstrained: its driven value becomes
// the engine's symbolic value of the pin's width. Binding is a one-time
// setup step and must precede the first model evaluation.
func Bind(e Engine, pins *model.PinSet, names []string) (err error) {
	for _, name := range names {
		err = pins.Expect(name, model.Input)
		if err != nil {
			return
		}
		pin, _ := pins.Lookup(name)
		err = pins.Set(name, e.Symbolic(name, pin.Width))
		if err != nil {
			return
		}
	}
	return
}

// recorder keeps the observation trace of one path.
type recorder struct {
	policy map[string]Policy
	last   map[string]uint64
	trace  []Observation
}

func (rec *recorder) subscribe(channel string, policy Policy) {
	if rec.policy == nil {
		rec.policy = make(map[string]Policy)
		rec.last = make(map[string]uint64)
	}
	rec.policy[channel] = policy
}

func (rec *recorder) observe(channel string, value uint64) {
	policy, ok := rec.policy[channel]
	if !ok {
		return
	}

	last, seen := rec.last[channel]
	if policy == ObserveChange && seen && last == value {
		return
	}

	rec.last[channel] = value
	rec.trace = append(rec.trace, Observation{Channel: channel, Value: value})
}
