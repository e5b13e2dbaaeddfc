package harness

import (
	"github.com/ezrec/cosim/invariant"
	"github.com/ezrec/cosim/model"
	"github.com/ezrec/cosim/symbolic"
)

// DEFAULT_CHANNEL is the observation channel name used by the CLI.
const DEFAULT_CHANNEL = "subscription"

// Observation exposes one probed register to the exploration engine for
// path classification. It is refreshed by polling after every half-cycle
// and never influences the simulation.
type Observation struct {
	Channel string
	Probe   string
	Policy  symbolic.Policy

	value uint64
	trace []uint64
}

// NewObservation creates an observation of a model probe.
func NewObservation(channel string, probe string, policy symbolic.Policy) *Observation {
	return &Observation{
		Channel: channel,
		Probe:   probe,
		Policy:  policy,
	}
}

// Subscribe registers the channel with the engine.
func (obs *Observation) Subscribe(e symbolic.Engine) {
	if e != nil {
		e.Subscribe(obs.Channel, obs.Policy)
	}
}

// Refresh samples the probe and forwards it to the engine.
func (obs *Observation) Refresh(m model.Model, e symbolic.Engine) (err error) {
	value, ok := m.Probe(obs.Probe)
	if !ok {
		err = &invariant.ErrProbe{Probe: obs.Probe, Err: invariant.ErrProbeMissing}
		return
	}

	obs.value = value
	obs.trace = append(obs.trace, value)
	if e != nil {
		e.Observe(obs.Channel, value)
	}
	return
}

// Value returns the most recent sample.
func (obs *Observation) Value() uint64 {
	return obs.value
}

// Trace returns every sample of the run, one per half-cycle.
func (obs *Observation) Trace() []uint64 {
	return obs.trace
}
