// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package invariant checks architectural safety properties of a model once
// per clock cycle.
package invariant

import (
	"log"

	"github.com/ezrec/cosim/model"
	"github.com/ezrec/cosim/symbolic"
)

// MODE_MASK selects the two mode designator bits of the privilege stack.
const MODE_MASK = 0b110

// Predicate is a safety property over a model's probed state.
type Predicate interface {
	// Message names the property in failure reports.
	Message() string
	// Holds evaluates the property against the model's current state.
	Holds(m model.Model) (ok bool, err error)
}

// ReservedMode forbids one encoding of the privilege mode bits.
type ReservedMode struct {
	Mode uint64 // Forbidden value of priv_stack & MODE_MASK.
	Text string
}

var (
	// ReservedMode2 is never a legal mode encoding.
	ReservedMode2 = ReservedMode{Mode: 0b100, Text: "Undefined privilege level 2"}
	// ReservedMode1 is the unimplemented supervisor level.
	ReservedMode1 = ReservedMode{Mode: 0b010, Text: "Supervisor privilege level is not implemented"}
)

func (rm ReservedMode) Message() string {
	return rm.Text
}

func (rm ReservedMode) Holds(m model.Model) (ok bool, err error) {
	priv, found := m.Probe(model.PROBE_PRIVILEGE)
	if !found {
		err = &ErrProbe{Probe: model.PROBE_PRIVILEGE, Err: ErrProbeMissing}
		return
	}

	ok = priv&MODE_MASK != rm.Mode
	return
}

// Checker evaluates its predicates once per cycle.
type Checker struct {
	Verbose    bool
	Predicates []Predicate

	Violations int // Failed predicate evaluations so far.

	mode    uint64
	sampled bool
}

// NewChecker creates a checker for the architectural invariants. The
// reserved mode 2 is always checked; strict adds the unimplemented
// supervisor mode. extra predicates are checked after the built-in ones.
func NewChecker(strict bool, extra ...Predicate) (checker *Checker) {
	checker = &Checker{
		Predicates: []Predicate{ReservedMode2},
	}
	if strict {
		checker.Predicates = append(checker.Predicates, ReservedMode1)
	}
	checker.Predicates = append(checker.Predicates, extra...)
	return
}

// Mode returns the most recently sampled mode bits. ok is false before the
// first check or if the model has no privilege probe.
func (checker *Checker) Mode() (mode uint64, ok bool) {
	return checker.mode, checker.sampled
}

// Check evaluates every predicate and reports each result through e. The
// first error returned by e ends the check; with a nil engine, failures are
// only counted and logged.
func (checker *Checker) Check(m model.Model, e symbolic.Engine) (err error) {
	if priv, ok := m.Probe(model.PROBE_PRIVILEGE); ok {
		checker.mode = priv & MODE_MASK
		checker.sampled = true
	}

	for _, pred := range checker.Predicates {
		var ok bool
		ok, err = pred.Holds(m)
		if err != nil {
			return
		}
		if !ok {
			checker.Violations++
			if checker.Verbose {
				log.Printf("invariant: %v", pred.Message())
			}
		}
		if e != nil {
			err = e.Assert(ok, pred.Message())
			if err != nil {
				return
			}
		}
	}

	return
}
