// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package harness runs a model through clock cycles against its bus stores,
// invariant checker and exploration engine.
package harness

import (
	"log"

	"github.com/ezrec/cosim/bus"
	"github.com/ezrec/cosim/invariant"
	"github.com/ezrec/cosim/memory"
	"github.com/ezrec/cosim/model"
	"github.com/ezrec/cosim/symbolic"
)

// Phase is one half of a clock cycle.
type Phase int

const (
	PhaseLow  = Phase(iota) // clk driven to 0.
	PhaseHigh               // clk driven to 1, the rising edge.
)

func (phase Phase) String() string {
	switch phase {
	case PhaseLow:
		return "low"
	case PhaseHigh:
		return "high"
	}
	return f("phase(%d)", int(phase))
}

var phases = [...]Phase{PhaseLow, PhaseHigh}

// Options configure a harness.
type Options struct {
	Verbose bool
	Policy  bus.Policy // Instruction redrive policy.

	Checker     *invariant.Checker // If nil, no invariants are checked.
	Engine      symbolic.Engine    // If nil, assertions are only counted.
	Observation *Observation       // If nil, nothing is observed.
}

// Harness is the clocked co-simulation loop. Each cycle is a low phase
// followed by a high phase; after each phase's evaluation the bus relay
// services both memories and the observation is refreshed. The invariant
// checker runs once per cycle, after the high phase.
//
// The first failure halts the harness; every later Tick returns ErrHalted
// without evaluating the model again.
type Harness[W memory.Word] struct {
	Verbose bool

	Model model.Model
	Pins  *model.PinSet
	IMem  *memory.Store[W]
	DMem  *memory.Store[W]
	Relay *bus.Relay[W]

	Checker     *invariant.Checker
	Engine      symbolic.Engine
	Observation *Observation

	cycles    int
	reset     bool
	evaluated bool
	halted    error
}

// New creates a harness around m with fresh, empty instruction and data
// stores.
func New[W memory.Word](m model.Model, pins *model.PinSet, opts Options) (h *Harness[W], err error) {
	h = &Harness[W]{
		Verbose:     opts.Verbose,
		Model:       m,
		Pins:        pins,
		IMem:        memory.NewStore[W]("imem"),
		DMem:        memory.NewStore[W]("dmem"),
		Checker:     opts.Checker,
		Engine:      opts.Engine,
		Observation: opts.Observation,
	}

	h.Relay, err = bus.NewRelay(h.IMem, h.DMem, pins, opts.Policy)
	if err != nil {
		return nil, err
	}
	h.Relay.Verbose = opts.Verbose
	if h.Checker != nil && opts.Verbose {
		h.Checker.Verbose = true
	}

	return
}

// Load places program words into the instruction store.
func (h *Harness[W]) Load(base W, stride W, words []W) {
	h.IMem.Load(base, stride, words)
}

// Bind makes the named input pins unconstrained through the harness engine.
// It must be called before the first evaluation. Bound bus read-data pins
// are held: the relay no longer drives them from the stores.
func (h *Harness[W]) Bind(names []string) (err error) {
	if h.evaluated {
		err = ErrBound
		return
	}
	if h.Engine == nil {
		err = ErrNoEngine
		return
	}

	err = symbolic.Bind(h.Engine, h.Pins, names)
	if err != nil {
		return
	}
	h.Relay.Hold(names...)

	if h.reset {
		h.Pins.Apply(h.Model)
	}
	return
}

// Reset drives the clock low and pushes every input pin into the model,
// then registers the observation channel. Tick calls Reset on first use.
func (h *Harness[W]) Reset() (err error) {
	err = h.Pins.Set(model.PIN_CLK, 0)
	if err != nil {
		return
	}
	h.Pins.Apply(h.Model)

	if h.Observation != nil {
		h.Observation.Subscribe(h.Engine)
	}

	h.reset = true
	return
}

// Cycles returns the number of completed cycles.
func (h *Harness[W]) Cycles() int {
	return h.cycles
}

// Halted returns the failure that stopped the harness, or nil.
func (h *Harness[W]) Halted() error {
	return h.halted
}

func (h *Harness[W]) settle(phase Phase) (err error) {
	clk := uint64(0)
	if phase == PhaseHigh {
		clk = 1
	}

	err = h.Pins.Drive(h.Model, model.PIN_CLK, clk)
	if err != nil {
		return
	}

	h.Model.Eval()
	h.evaluated = true
	if fm, ok := h.Model.(model.Faulter); ok {
		err = fm.Err()
		if err != nil {
			return
		}
	}

	err = h.Relay.Service(h.Model, h.Pins)
	if err != nil {
		return
	}

	if h.Observation != nil {
		err = h.Observation.Refresh(h.Model, h.Engine)
	}
	return
}

// Tick runs one full clock cycle.
func (h *Harness[W]) Tick() (err error) {
	if h.halted != nil {
		err = ErrHalted
		return
	}

	phase := PhaseLow
	defer func() {
		if err != nil {
			h.halted = err
			err = &ErrCycle{Cycle: h.cycles + 1, Phase: phase, Err: err}
		}
	}()

	if !h.reset {
		err = h.Reset()
		if err != nil {
			return
		}
	}

	for _, phase = range phases {
		err = h.settle(phase)
		if err != nil {
			return
		}
	}

	if h.Checker != nil {
		err = h.Checker.Check(h.Model, h.Engine)
		if err != nil {
			return
		}
	}

	h.cycles++

	if h.Verbose {
		var mode uint64
		var ok bool
		if h.Checker != nil {
			mode, ok = h.Checker.Mode()
		}
		if ok {
			log.Printf("cycle %d: mode %03b", h.cycles, mode)
		} else {
			log.Printf("cycle %d", h.cycles)
		}
	}

	return
}

// Run ticks the harness clks times, stopping at the first failure.
func (h *Harness[W]) Run(clks int) (err error) {
	for range clks {
		err = h.Tick()
		if err != nil {
			return
		}
	}
	return
}

// Close disposes of the model.
func (h *Harness[W]) Close() (err error) {
	err = h.Model.Close()
	return
}
