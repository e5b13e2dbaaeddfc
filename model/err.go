package model

import (
	"errors"

	"github.com/ezrec/cosim/translate"
)

var f = translate.From

var (
	ErrPinUnknown   = errors.New(f("pin unknown"))
	ErrPinDirection = errors.New(f("pin direction"))
	ErrPinDuplicate = errors.New(f("pin duplicated"))
	ErrPinWidth     = errors.New(f("pin width"))
	ErrScriptEval   = errors.New(f("script has no eval function"))
	ErrScriptResult = errors.New(f("script eval must return a dict"))
	ErrScriptValue  = errors.New(f("script value is not an int or bool"))
	ErrModelClosed  = errors.New(f("model closed"))
)

// ErrPin reports a pin access error.
type ErrPin struct {
	Pin string
	Err error
}

func (err *ErrPin) Error() string {
	return f("pin %v: %v", err.Pin, err.Err)
}

func (err *ErrPin) Unwrap() error {
	return err.Err
}

// ErrScript reports a failure raised while running a model script.
type ErrScript struct {
	Name string
	Err  error
}

func (err *ErrScript) Error() string {
	return f("model %v: %v", err.Name, err.Err)
}

func (err *ErrScript) Unwrap() error {
	return err.Err
}
