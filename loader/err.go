package loader

import (
	"errors"

	"github.com/ezrec/cosim/translate"
)

var f = translate.From

var (
	ErrWordSyntax = errors.New(f("word literal invalid"))
	ErrWordRange  = errors.New(f("word exceeds bus width"))
	ErrBraces     = errors.New(f("unbalanced initializer braces"))
)
