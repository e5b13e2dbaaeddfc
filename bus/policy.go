package bus

import (
	"errors"

	"github.com/ezrec/cosim/translate"
)

var f = translate.From

var (
	ErrPolicyUnknown = errors.New(f("redrive policy unknown"))
)

// Policy selects when a fetched instruction word is redriven.
type Policy int

const (
	// RedriveNonZero only redrives non-zero instruction words. A zero word
	// at a fetched address reads as "nothing to fetch", so a legitimate
	// all-zero instruction cannot be supplied. This matches the reference
	// traces.
	RedriveNonZero = Policy(iota)
	// RedriveAlways redrives every fetched word, zero included.
	RedriveAlways
)

func (policy Policy) String() string {
	switch policy {
	case RedriveNonZero:
		return "nonzero"
	case RedriveAlways:
		return "always"
	}
	return f("Policy(%d)", int(policy))
}

// ParsePolicy converts a policy name to a Policy.
func ParsePolicy(name string) (policy Policy, err error) {
	switch name {
	case "", "nonzero":
		policy = RedriveNonZero
	case "always":
		policy = RedriveAlways
	default:
		err = ErrPolicyUnknown
	}
	return
}
