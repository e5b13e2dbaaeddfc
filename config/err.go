package config

import (
	"errors"

	"github.com/ezrec/cosim/translate"
)

var f = translate.From

var (
	ErrUnknownKey = errors.New(f("unknown configuration key"))
	ErrCycles     = errors.New(f("cycle count negative"))
	ErrWidth      = errors.New(f("bus width must be 32 or 64"))
	ErrStride     = errors.New(f("program stride zero"))
	ErrInvariant  = errors.New(f("invariant expression empty"))
)
