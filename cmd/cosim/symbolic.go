package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ezrec/cosim/memory"
	"github.com/ezrec/cosim/symbolic"
)

func newSymbolicCmd(s *session) *cobra.Command {
	ex := &symbolic.Explorer{Corners: true}
	var outdir string
	var full bool

	cmd := &cobra.Command{
		Use:   "symbolic MODEL.star",
		Short: "Explore the model with unconstrained environment inputs",
		Long: `Symbolic runs many paths of the model, each with its own values for
the environment-facing input pins. With a program image loaded, the bus
read-data pins are supplied from the program; otherwise (or with --full)
they are unconstrained too. Every path that fails an invariant is saved
as path-NNNN.toml in the output directory, and the command fails.
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			err = s.load()
			if err != nil {
				return
			}
			ex.Verbose = s.Verbose

			out := cmd.OutOrStdout()
			if s.cfg.Width == 64 {
				return runSymbolic[uint64](s, ex, out, args[0], outdir, full)
			}
			return runSymbolic[uint32](s, ex, out, args[0], outdir, full)
		},
	}

	cmd.Flags().IntVarP(&ex.Paths, "paths", "n", 64, "Number of paths to explore")
	cmd.Flags().Uint64VarP(&ex.Seed, "seed", "s", 1, "Exploration seed")
	cmd.Flags().StringVarP(&outdir, "output", "o", ".", "Directory for counterexample paths")
	cmd.Flags().BoolVar(&full, "full", false, "Leave bus read data unconstrained even with a program")

	return cmd
}

func runSymbolic[W memory.Word](s *session, ex *symbolic.Explorer, out io.Writer, script string, outdir string, full bool) (err error) {
	names := symbolic.Environment
	if len(s.words) > 0 && !full {
		names = symbolic.ProgramEnvironment
	}

	report, err := ex.Explore(func(e symbolic.Engine) (err error) {
		h, err := newHarness[W](s, script, e)
		if err != nil {
			return
		}
		defer h.Close()

		err = h.Bind(names)
		if err != nil {
			return
		}
		return h.Run(s.cfg.Cycles)
	})
	if err != nil {
		return
	}

	failed := report.Counterexamples()
	if len(failed) > 0 {
		err = os.MkdirAll(outdir, 0o755)
		if err != nil {
			return
		}
	}

	for _, path := range failed {
		name := filepath.Join(outdir, fmt.Sprintf("path-%04d.toml", path.ID))
		err = writePath(name, path)
		if err != nil {
			return
		}
		fmt.Fprintf(out, "%v: %v\n", name, path.Failure.Message)
	}

	fmt.Fprintln(out, f("%d paths, %d counterexamples, %d observation classes",
		len(report.Paths), len(failed), len(report.Classes())))

	if len(failed) > 0 {
		err = ErrCounterexample
	}
	return
}

func writePath(name string, path *symbolic.Path) (err error) {
	ouf, err := os.Create(name)
	if err != nil {
		return
	}
	defer func() {
		if cerr := ouf.Close(); err == nil {
			err = cerr
		}
	}()

	err = path.Assignment.Write(ouf, path.ID, path.Failure.Message)
	return
}
