package symbolic

import (
	"errors"

	"github.com/ezrec/cosim/translate"
)

var f = translate.From

var (
	ErrAssignmentValue = errors.New(f("assignment value is not a number"))
	ErrNoPaths         = errors.New(f("no paths to explore"))
)

// AssertionError is a failed path assertion. The path it names is a
// counterexample.
type AssertionError struct {
	Message string
	Path    int
}

func (err *AssertionError) Error() string {
	return f("path %d: assertion failed: %v", err.Path, err.Message)
}
