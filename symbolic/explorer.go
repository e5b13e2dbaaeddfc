package symbolic

import (
	"errors"
	"log"
	"math/rand/v2"
	"strconv"
	"strings"
)

// Explorer enumerates paths by sampling. Each path is an independent run
// whose symbolic inputs are drawn from a generator seeded by (Seed, path),
// so any path can be regenerated from its number alone.
type Explorer struct {
	Verbose bool
	Seed    uint64
	Paths   int  // Number of paths to run.
	Corners bool // If set, path 0 binds all zeros and path 1 all ones.
}

// Path is the outcome of one explored path.
type Path struct {
	ID         int
	Assignment Assignment
	Trace      []Observation
	Failure    *AssertionError // Set if the path is a counterexample.
}

// Report collects the explored paths.
type Report struct {
	Paths []*Path
}

// Counterexamples returns the paths that failed an assertion.
func (report *Report) Counterexamples() (paths []*Path) {
	for _, path := range report.Paths {
		if path.Failure != nil {
			paths = append(paths, path)
		}
	}
	return
}

// Classes groups path IDs by observation trace. Paths in the same class
// were indistinguishable to the observer.
func (report *Report) Classes() (classes map[string][]int) {
	classes = make(map[string][]int)
	for _, path := range report.Paths {
		key := traceKey(path.Trace)
		classes[key] = append(classes[key], path.ID)
	}
	return
}

func traceKey(trace []Observation) string {
	var sb strings.Builder
	for n, obs := range trace {
		if n > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(obs.Channel)
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatUint(obs.Value, 16))
	}
	return sb.String()
}

// Explore runs Paths independent paths. run must build a fresh model and
// stores for every call and drive them with the engine it is given. A run
// that ends with an *AssertionError is recorded as a counterexample; any
// other error stops the exploration.
func (ex *Explorer) Explore(run func(e Engine) error) (report *Report, err error) {
	if ex.Paths <= 0 {
		err = ErrNoPaths
		return
	}

	report = &Report{}
	for id := range ex.Paths {
		pe := &pathEngine{
			path: &Path{ID: id, Assignment: Assignment{}},
			rng:  rand.New(rand.NewPCG(ex.Seed, uint64(id))),
		}
		if ex.Corners {
			switch id {
			case 0:
				pe.corner = cornerZero
			case 1:
				pe.corner = cornerOnes
			}
		}

		rc := run(pe)
		pe.path.Trace = pe.recorder.trace

		var ae *AssertionError
		switch {
		case errors.As(rc, &ae):
			pe.path.Failure = ae
		case rc != nil:
			err = rc
			return
		}

		if pe.path.Failure == nil {
			pe.path.Failure = pe.failure
		}
		if ex.Verbose {
			if pe.path.Failure != nil {
				log.Printf("explore: path %d: %v", id, pe.path.Failure.Message)
			} else {
				log.Printf("explore: path %d: ok", id)
			}
		}

		report.Paths = append(report.Paths, pe.path)
	}

	return
}

type corner int

const (
	cornerNone = corner(iota)
	cornerZero
	cornerOnes
)

// pathEngine is the engine handed to a single explored path.
type pathEngine struct {
	path    *Path
	rng     *rand.Rand
	corner  corner
	failure *AssertionError
	recorder
}

var _ Engine = (*pathEngine)(nil)

func (pe *pathEngine) Symbolic(name string, width uint) (value uint64) {
	if value, ok := pe.path.Assignment[name]; ok {
		return value
	}

	switch pe.corner {
	case cornerZero:
		value = 0
	case cornerOnes:
		value = ^uint64(0)
	default:
		value = pe.rng.Uint64()
	}
	if width < 64 {
		value &= (uint64(1) << width) - 1
	}

	pe.path.Assignment[name] = value
	return
}

func (pe *pathEngine) Assert(cond bool, message string) (err error) {
	if pe.failure != nil {
		return pe.failure
	}
	if !cond {
		pe.failure = &AssertionError{Message: message, Path: pe.path.ID}
		err = pe.failure
	}
	return
}

func (pe *pathEngine) Subscribe(channel string, policy Policy) {
	pe.recorder.subscribe(channel, policy)
}

func (pe *pathEngine) Observe(channel string, value uint64) {
	pe.recorder.observe(channel, value)
}
