// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package config loads the TOML description of a co-simulation run.
//
//	cycles = 4
//	width = 32
//	program_base = 4
//	program_stride = 4
//	redrive = "nonzero"
//	strict = false
//	observe = "mepc"
//	print = ["mepc", "priv_stack", "x1", "x2"]
//
//	[pins]
//	htif_reset = 0
//
//	[[invariant]]
//	message = "pc aligned"
//	expr = "mepc & 3 == 0"
package config

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/ezrec/cosim/bus"
	"github.com/ezrec/cosim/internal"
	"github.com/ezrec/cosim/invariant"
	"github.com/ezrec/cosim/model"
)

// Invariant is a user predicate over probes.
type Invariant struct {
	Message string `toml:"message"`
	Expr    string `toml:"expr"`
}

// Config describes a run.
type Config struct {
	Cycles        int               `toml:"cycles"`         // Clock cycles per run.
	Width         uint              `toml:"width"`          // Bus width, 32 or 64.
	ProgramBase   uint64            `toml:"program_base"`   // Address of program word 0.
	ProgramStride uint64            `toml:"program_stride"` // Address step between words.
	Redrive       string            `toml:"redrive"`        // Instruction redrive policy.
	Strict        bool              `toml:"strict"`         // Check the supervisor mode; concrete failures are fatal.
	Observe       string            `toml:"observe"`        // Probe sent to the observation channel.
	Print         []string          `toml:"print"`          // Probes printed by concrete runs.
	Pins          map[string]uint64 `toml:"pins"`           // Concrete input pin values.
	Invariants    []Invariant       `toml:"invariant"`
}

// Default returns the configuration of the reference harness.
func Default() *Config {
	return &Config{
		Cycles:        4,
		Width:         32,
		ProgramBase:   4,
		ProgramStride: 4,
		Redrive:       bus.RedriveNonZero.String(),
		Observe:       model.PROBE_EPC,
		Print: []string{
			model.PROBE_EPC,
			model.PROBE_PRIVILEGE,
			"x1",
			"x2",
		},
	}
}

// Decode reads a configuration over the defaults. Keys it does not know are
// an error.
func Decode(r io.Reader) (cfg *Config, err error) {
	cfg = Default()

	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, errors.Wrap(err, f("config"))
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for n, key := range undecoded {
			keys[n] = key.String()
		}
		return nil, errors.Wrap(ErrUnknownKey, strings.Join(keys, ", "))
	}

	err = cfg.Validate()
	if err != nil {
		return nil, err
	}

	return
}

// Load reads a configuration file.
func Load(path string) (cfg *Config, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	cfg, err = Decode(inf)
	if err != nil {
		err = errors.Wrap(err, path)
	}
	return
}

// Validate checks the configuration for consistency.
func (cfg *Config) Validate() (err error) {
	switch {
	case cfg.Cycles < 0:
		err = errors.Wrapf(ErrCycles, "%d", cfg.Cycles)
	case cfg.Width != 32 && cfg.Width != 64:
		err = errors.Wrapf(ErrWidth, "%d", cfg.Width)
	case cfg.ProgramStride == 0:
		err = ErrStride
	}
	if err != nil {
		return
	}

	_, err = cfg.Policy()
	if err != nil {
		return
	}

	for n, inv := range cfg.Invariants {
		if strings.TrimSpace(inv.Expr) == "" {
			return errors.Wrapf(ErrInvariant, "invariant %d", n+1)
		}
	}

	return
}

// Policy returns the instruction redrive policy.
func (cfg *Config) Policy() (bus.Policy, error) {
	return bus.ParsePolicy(cfg.Redrive)
}

// Checker compiles the invariant checker: the built-in architectural
// invariants followed by the configured expressions.
func (cfg *Config) Checker() (checker *invariant.Checker, err error) {
	var preds []invariant.Predicate
	for _, inv := range cfg.Invariants {
		var ex *invariant.Expr
		ex, err = invariant.NewExpr(inv.Message, inv.Expr)
		if err != nil {
			return
		}
		preds = append(preds, ex)
	}

	checker = invariant.NewChecker(cfg.Strict, preds...)
	return
}

// Drive sets the configured pin values, in pin name order.
func (cfg *Config) Drive(pins *model.PinSet) (err error) {
	for name, value := range internal.IterSorted(cfg.Pins) {
		err = pins.Set(name, value)
		if err != nil {
			return
		}
	}
	return
}
