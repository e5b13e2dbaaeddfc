package main

import (
	"errors"
	"log"

	"github.com/spf13/cobra"

	"github.com/ezrec/cosim/config"
	"github.com/ezrec/cosim/harness"
	"github.com/ezrec/cosim/loader"
	"github.com/ezrec/cosim/memory"
	"github.com/ezrec/cosim/model"
	"github.com/ezrec/cosim/symbolic"
	"github.com/ezrec/cosim/translate"
)

var f = translate.From

var (
	ErrCounterexample = errors.New(f("counterexamples found"))
)

// session is the state shared by the run commands.
type session struct {
	Verbose bool
	Config  string // Configuration file; empty for defaults.
	Program string // Program image; empty for none.

	cfg   *config.Config
	words []uint64
}

func newRootCmd() *cobra.Command {
	s := &session{}

	root := &cobra.Command{
		Use:   "cosim",
		Short: "Clocked bus co-simulation harness",
		Long: `cosim drives a Starlark processor model over its instruction and
data buses, supplying words from a program image and checking the
architectural privilege invariants on every clock cycle.
`,
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&s.Verbose, "verbose", "v", false, "Verbose mode")
	root.PersistentFlags().StringVarP(&s.Config, "config", "c", "", "TOML configuration file")
	root.PersistentFlags().StringVarP(&s.Program, "program", "p", "", "Program image to load")

	root.AddCommand(newConcreteCmd(s), newSymbolicCmd(s))

	return root
}

// load reads the configuration and program image.
func (s *session) load() (err error) {
	s.cfg = config.Default()
	if s.Config != "" {
		s.cfg, err = config.Load(s.Config)
		if err != nil {
			return
		}
	}

	s.words = nil
	if s.Program != "" {
		s.words, err = loader.Load(s.Program)
		if err != nil {
			return
		}
	}

	if s.Verbose {
		log.Printf("%d cycles, %d-bit bus, %d program words", s.cfg.Cycles, s.cfg.Width, len(s.words))
	}
	return
}

// newHarness builds a fresh model, pin set and harness for one run.
func newHarness[W memory.Word](s *session, script string, e symbolic.Engine) (h *harness.Harness[W], err error) {
	cfg := s.cfg

	words, err := loader.Words[W](s.words)
	if err != nil {
		return
	}

	pins, err := model.Standard(cfg.Width)
	if err != nil {
		return
	}
	err = cfg.Drive(pins)
	if err != nil {
		return
	}

	policy, err := cfg.Policy()
	if err != nil {
		return
	}

	checker, err := cfg.Checker()
	if err != nil {
		return
	}

	var obs *harness.Observation
	if cfg.Observe != "" {
		obs = harness.NewObservation(harness.DEFAULT_CHANNEL, cfg.Observe, symbolic.ObserveChange)
	}

	sm, err := model.NewScript(script, nil)
	if err != nil {
		return
	}
	sm.Verbose = s.Verbose

	h, err = harness.New[W](sm, pins, harness.Options{
		Verbose:     s.Verbose,
		Policy:      policy,
		Checker:     checker,
		Engine:      e,
		Observation: obs,
	})
	if err != nil {
		return
	}

	h.Load(W(cfg.ProgramBase), W(cfg.ProgramStride), words)
	return
}
