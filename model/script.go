package model

import (
	"log"
	"maps"
	"math/big"
	"slices"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Script is a model whose evaluation function is written in Starlark.
//
// The script must define
//
//	def eval(inputs, state):
//	    ...
//	    return {"imem_haddr": pc, ...}
//
// inputs is a fresh dict of input pin values on every call. state is a dict
// the script owns and mutates across calls; probes read from it. An optional
// top-level STATE dict seeds the initial state. Output pins missing from the
// returned dict keep their previous value.
type Script struct {
	Name    string // Script name, used in errors and thread names.
	Verbose bool   // If set, script print() output is logged.

	thread  *starlark.Thread
	eval    starlark.Callable
	state   *starlark.Dict
	inputs  map[string]uint64
	outputs map[string]uint64
	closed  bool
	err     error
}

var _ Model = (*Script)(nil)
var _ Faulter = (*Script)(nil)

// NewScript compiles a Starlark model. src may be a string, []byte or nil,
// in which case the script is read from the file name.
func NewScript(name string, src any) (sm *Script, err error) {
	sm = &Script{
		Name:    name,
		inputs:  make(map[string]uint64),
		outputs: make(map[string]uint64),
		state:   starlark.NewDict(8),
	}

	sm.thread = &starlark.Thread{
		Name: name,
		Print: func(_ *starlark.Thread, msg string) {
			if sm.Verbose {
				log.Printf("%v: %v", name, msg)
			}
		},
	}

	opts := syntax.FileOptions{
		While:           true,
		TopLevelControl: true,
	}
	globals, err := starlark.ExecFileOptions(&opts, sm.thread, name, src, nil)
	if err != nil {
		return nil, &ErrScript{Name: name, Err: err}
	}

	eval, ok := globals["eval"].(starlark.Callable)
	if !ok {
		return nil, &ErrScript{Name: name, Err: ErrScriptEval}
	}
	sm.eval = eval

	if initial, ok := globals["STATE"].(*starlark.Dict); ok {
		for _, item := range initial.Items() {
			err = sm.state.SetKey(item[0], item[1])
			if err != nil {
				return nil, &ErrScript{Name: name, Err: err}
			}
		}
	}

	return
}

// Set drives an input pin.
func (sm *Script) Set(pin string, value uint64) {
	sm.inputs[pin] = value
}

// Get samples an output pin.
func (sm *Script) Get(pin string) uint64 {
	return sm.outputs[pin]
}

// Eval calls the script's eval function once. After the first failure the
// model stops evaluating; see Err.
func (sm *Script) Eval() {
	if sm.err != nil {
		return
	}
	if sm.closed {
		sm.err = ErrModelClosed
		return
	}

	inputs := starlark.NewDict(len(sm.inputs))
	for _, pin := range slices.Sorted(maps.Keys(sm.inputs)) {
		err := inputs.SetKey(starlark.String(pin), starlark.MakeUint64(sm.inputs[pin]))
		if err != nil {
			sm.err = &ErrScript{Name: sm.Name, Err: err}
			return
		}
	}

	rc, err := starlark.Call(sm.thread, sm.eval, starlark.Tuple{inputs, sm.state}, nil)
	if err != nil {
		sm.err = &ErrScript{Name: sm.Name, Err: err}
		return
	}

	switch rc := rc.(type) {
	case starlark.NoneType:
	case *starlark.Dict:
		for _, item := range rc.Items() {
			pin, ok := starlark.AsString(item[0])
			if !ok {
				sm.err = &ErrScript{Name: sm.Name, Err: ErrScriptResult}
				return
			}
			value, err := toUint64(item[1])
			if err != nil {
				sm.err = &ErrScript{Name: sm.Name, Err: &ErrPin{Pin: pin, Err: err}}
				return
			}
			sm.outputs[pin] = value
		}
	default:
		sm.err = &ErrScript{Name: sm.Name, Err: ErrScriptResult}
	}
}

// Probe reads a named value from the script state.
func (sm *Script) Probe(name string) (value uint64, ok bool) {
	v, found, err := sm.state.Get(starlark.String(name))
	if err != nil || !found {
		return
	}

	value, err = toUint64(v)
	ok = err == nil
	return
}

// Err returns the first evaluation failure.
func (sm *Script) Err() error {
	return sm.err
}

// Close disposes of the model.
func (sm *Script) Close() (err error) {
	sm.closed = true
	return
}

var mask64 = new(big.Int).SetUint64(^uint64(0))

// toUint64 converts a Starlark int or bool to a pin value. Negative and
// oversized ints are truncated to their low 64 bits, two's complement.
func toUint64(v starlark.Value) (value uint64, err error) {
	switch v := v.(type) {
	case starlark.Bool:
		if v {
			value = 1
		}
	case starlark.Int:
		if u, ok := v.Uint64(); ok {
			value = u
			return
		}
		if i, ok := v.Int64(); ok {
			value = uint64(i)
			return
		}
		value = new(big.Int).And(v.BigInt(), mask64).Uint64()
	default:
		err = ErrScriptValue
	}
	return
}
