package main

import (
	"fmt"
	"io"
	"log"
	"maps"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/ezrec/cosim/internal"
	"github.com/ezrec/cosim/memory"
	"github.com/ezrec/cosim/model"
	"github.com/ezrec/cosim/symbolic"
	"github.com/ezrec/cosim/translate"
)

func newConcreteCmd(s *session) *cobra.Command {
	var replay string
	var extra []string

	cmd := &cobra.Command{
		Use:   "concrete MODEL.star",
		Short: "Run the model with fixed inputs",
		Long: `Concrete runs the model for the configured number of cycles,
printing the configured probes after every cycle (prefixed "(m)") and
once more after the run. With --ktest, the inputs of a saved exploration
path are replayed and any invariant failure is fatal.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			err = s.load()
			if err != nil {
				return
			}

			out := cmd.OutOrStdout()
			if s.cfg.Width == 64 {
				return runConcrete[uint64](s, out, args[0], replay, extra)
			}
			return runConcrete[uint32](s, out, args[0], replay, extra)
		},
	}

	cmd.Flags().StringVarP(&replay, "ktest", "k", "", "Replay a saved path assignment")
	cmd.Flags().StringSliceVar(&extra, "print", nil, "Additional probes to print")

	return cmd
}

func runConcrete[W memory.Word](s *session, out io.Writer, script string, replay string, extra []string) (err error) {
	engine := symbolic.NewConcrete(nil)
	engine.Strict = s.cfg.Strict
	if replay != "" {
		engine, err = replayEngine(replay)
		if err != nil {
			return
		}
	}
	engine.Verbose = s.Verbose

	h, err := newHarness[W](s, script, engine)
	if err != nil {
		return
	}
	defer h.Close()

	if replay != "" {
		err = h.Bind(slices.Sorted(maps.Keys(engine.Values)))
		if err != nil {
			return
		}
	}

	probes := slices.Collect(internal.IterSeqConcat(slices.Values(s.cfg.Print), slices.Values(extra)))

	for range s.cfg.Cycles {
		err = h.Tick()
		if err != nil {
			break
		}
		printProbes(out, h.Model, probes, "(m)", s.cfg.Width)
	}

	printProbes(out, h.Model, probes, "", s.cfg.Width)
	if s.Verbose {
		log.Printf("%v: %d words written", h.DMem.Name, h.DMem.Len())
		for addr, value := range h.DMem.Contents() {
			log.Printf("%v: %#x = %#x", h.DMem.Name, addr, value)
		}
	}
	fmt.Fprintln(out, f("%d cycles, %d violations", h.Cycles(), len(engine.Failures)))

	return
}

func replayEngine(path string) (engine *symbolic.Concrete, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	engine, err = symbolic.Replay(inf)
	return
}

// printProbes writes each exposed probe as a binary string. Probes the
// model does not expose are skipped.
func printProbes(out io.Writer, m model.Model, probes []string, prefix string, width uint) {
	for _, name := range probes {
		value, ok := m.Probe(name)
		if !ok {
			log.Printf("%v: not exposed", name)
			continue
		}
		fmt.Fprintf(out, "%v%v: %v\n", prefix, name, translate.Bits(value, width))
	}
}
