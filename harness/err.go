package harness

import (
	"errors"

	"github.com/ezrec/cosim/translate"
)

var f = translate.From

var (
	ErrHalted   = errors.New(f("harness halted"))
	ErrBound    = errors.New(f("symbolic binding after first evaluation"))
	ErrNoEngine = errors.New(f("no exploration engine"))
)

// ErrCycle locates a failure in the simulated timeline.
type ErrCycle struct {
	Cycle int
	Phase Phase
	Err   error
}

func (err *ErrCycle) Error() string {
	return f("cycle %d %v: %v", err.Cycle, err.Phase, err.Err)
}

func (err *ErrCycle) Unwrap() error {
	return err.Err
}
