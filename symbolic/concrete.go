package symbolic

import (
	"io"
	"log"
)

// Concrete is an engine with a single, fixed path. Symbolic inputs take
// their value from Values, or zero when absent.
//
// A non-strict Concrete engine has no assertion channel: failures are
// counted and logged, and the run continues.
type Concrete struct {
	Verbose bool
	Strict  bool       // If set, a failed assertion ends the run.
	Values  Assignment // Fixed values of the symbolic inputs.

	Failures []string // Messages of failed assertions, in order.

	recorder
	halted *AssertionError
}

var _ Engine = (*Concrete)(nil)

// NewConcrete creates a concrete engine over the given values.
func NewConcrete(values Assignment) *Concrete {
	if values == nil {
		values = Assignment{}
	}
	return &Concrete{Values: values}
}

// Replay creates a strict concrete engine from a saved path, reproducing
// exactly the inputs that path explored.
func Replay(r io.Reader) (engine *Concrete, err error) {
	values, err := ReadAssignment(r)
	if err != nil {
		return
	}

	engine = NewConcrete(values)
	engine.Strict = true
	return
}

func (ce *Concrete) Symbolic(name string, width uint) (value uint64) {
	value = ce.Values[name]
	if width < 64 {
		value &= (uint64(1) << width) - 1
	}
	if ce.Verbose {
		log.Printf("concrete: %v = %#x", name, value)
	}
	return
}

func (ce *Concrete) Assert(cond bool, message string) (err error) {
	if ce.halted != nil {
		return ce.halted
	}
	if cond {
		return
	}

	ce.Failures = append(ce.Failures, message)
	if ce.Verbose || ce.Strict {
		log.Printf("concrete: %v", message)
	}
	if ce.Strict {
		ce.halted = &AssertionError{Message: message}
		err = ce.halted
	}
	return
}

func (ce *Concrete) Subscribe(channel string, policy Policy) {
	ce.recorder.subscribe(channel, policy)
}

func (ce *Concrete) Observe(channel string, value uint64) {
	ce.recorder.observe(channel, value)
}

// Trace returns the observations recorded so far.
func (ce *Concrete) Trace() []Observation {
	return ce.recorder.trace
}
