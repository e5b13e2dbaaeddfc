// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package model defines the pin-level boundary of a clocked hardware model
// and the pin set a harness drives across it.
//
// A model is opaque: the harness sets input pins, calls Eval to advance the
// model's state exactly once, and reads output pins back. Internal state is
// only reachable through named probes (the introspection contract), never
// through the model's internal layout.
package model

// Model is a clocked digital model with pin-level state.
type Model interface {
	// Set drives an input pin. The value takes effect on the next Eval.
	Set(pin string, value uint64)
	// Get samples an output pin as of the last Eval.
	Get(pin string) uint64
	// Eval advances the model given the current input pins.
	Eval()
	// Probe reads a named internal signal. ok is false if the model does
	// not expose it.
	Probe(name string) (value uint64, ok bool)
	// Close disposes of the model.
	Close() error
}

// Faulter is implemented by models whose evaluation can fail. Err returns
// the first failure since the model was created.
type Faulter interface {
	Err() error
}
