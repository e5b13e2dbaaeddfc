package invariant

import (
	"errors"

	"github.com/ezrec/cosim/translate"
)

var f = translate.From

var (
	ErrProbeMissing = errors.New(f("probe not exposed by model"))
	ErrExprResult   = errors.New(f("expression is not a bool"))
)

// ErrProbe reports a probe that a predicate could not read.
type ErrProbe struct {
	Probe string
	Err   error
}

func (err *ErrProbe) Error() string {
	return f("probe %v: %v", err.Probe, err.Err)
}

func (err *ErrProbe) Unwrap() error {
	return err.Err
}

// ErrExpr reports an invariant expression that failed to compile or run.
type ErrExpr struct {
	Expr string
	Err  error
}

func (err *ErrExpr) Error() string {
	return f("invariant %q: %v", err.Expr, err.Err)
}

func (err *ErrExpr) Unwrap() error {
	return err.Err
}
