package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/cosim/memory"
	"github.com/ezrec/cosim/model"
)

// busModel exposes whatever outputs the test sets and records inputs.
type busModel struct {
	in  map[string]uint64
	out map[string]uint64
	set []string
}

func newBusModel() *busModel {
	return &busModel{in: map[string]uint64{}, out: map[string]uint64{}}
}

func (bm *busModel) Set(pin string, value uint64) {
	bm.in[pin] = value
	bm.set = append(bm.set, pin)
}

func (bm *busModel) Get(pin string) uint64 {
	return bm.out[pin]
}

func (bm *busModel) Eval() {}

func (bm *busModel) Probe(name string) (uint64, bool) {
	return 0, false
}

func (bm *busModel) Close() error {
	return nil
}

func newRelay(t *testing.T, policy Policy) (*Relay[uint32], *model.PinSet) {
	ps, err := model.Standard(32)
	require.NoError(t, err)

	relay, err := NewRelay(memory.NewStore[uint32]("imem"), memory.NewStore[uint32]("dmem"), ps, policy)
	require.NoError(t, err)

	return relay, ps
}

func TestRelay_FetchRedrive(t *testing.T) {
	assert := assert.New(t)

	relay, ps := newRelay(t, RedriveNonZero)
	relay.IMem.Write(8, 0x00100093)

	bm := newBusModel()
	bm.out[model.PIN_IMEM_HADDR] = 8

	assert.NoError(relay.Service(bm, ps))
	assert.Equal(uint64(0x00100093), bm.in[model.PIN_IMEM_HRDATA])
	assert.Equal(uint64(0x00100093), ps.Value(model.PIN_IMEM_HRDATA))
	assert.Equal(1, relay.Stats.Fetches)
	assert.Equal(0, relay.Stats.FetchMiss)
}

func TestRelay_FetchZeroNotRedriven(t *testing.T) {
	assert := assert.New(t)

	relay, ps := newRelay(t, RedriveNonZero)
	relay.IMem.Write(8, 0x00100093)

	bm := newBusModel()
	bm.out[model.PIN_IMEM_HADDR] = 8
	assert.NoError(relay.Service(bm, ps))

	// Fetch an address never written; the previous word stays on the pin.
	bm.out[model.PIN_IMEM_HADDR] = 0x40
	bm.set = nil
	assert.NoError(relay.Service(bm, ps))

	assert.NotContains(bm.set, model.PIN_IMEM_HRDATA)
	assert.Equal(uint64(0x00100093), bm.in[model.PIN_IMEM_HRDATA])
	assert.Equal(1, relay.Stats.FetchMiss)
}

func TestRelay_FetchAlways(t *testing.T) {
	assert := assert.New(t)

	relay, ps := newRelay(t, RedriveAlways)
	relay.IMem.Write(8, 0x00100093)

	bm := newBusModel()
	bm.out[model.PIN_IMEM_HADDR] = 8
	assert.NoError(relay.Service(bm, ps))

	bm.out[model.PIN_IMEM_HADDR] = 0x40
	assert.NoError(relay.Service(bm, ps))

	assert.Equal(uint64(0), bm.in[model.PIN_IMEM_HRDATA])
	assert.Equal(2, relay.Stats.Fetches)
	assert.Equal(0, relay.Stats.FetchMiss)
}

func TestRelay_DataReadUnconditional(t *testing.T) {
	assert := assert.New(t)

	relay, ps := newRelay(t, RedriveNonZero)
	relay.DMem.Write(0x100, 0x55)

	bm := newBusModel()
	bm.out[model.PIN_IMEM_HADDR] = 0x40 // never written
	bm.out[model.PIN_DMEM_HADDR] = 0x100

	assert.NoError(relay.Service(bm, ps))
	assert.Equal(uint64(0x55), bm.in[model.PIN_DMEM_HRDATA])

	bm.out[model.PIN_DMEM_HADDR] = 0x104
	assert.NoError(relay.Service(bm, ps))
	assert.Contains(bm.set, model.PIN_DMEM_HRDATA)
	assert.Equal(uint64(0), bm.in[model.PIN_DMEM_HRDATA])
	assert.Equal(2, relay.Stats.Reads)
}

func TestRelay_WriteVisibleNextHalfCycle(t *testing.T) {
	assert := assert.New(t)

	relay, ps := newRelay(t, RedriveNonZero)

	bm := newBusModel()
	bm.out[model.PIN_DMEM_HADDR] = 0x100
	bm.out[model.PIN_DMEM_HWRITE] = 1
	bm.out[model.PIN_DMEM_HWDATA] = 7

	// The write's own half-cycle redrives the old contents.
	assert.NoError(relay.Service(bm, ps))
	assert.Equal(uint64(0), bm.in[model.PIN_DMEM_HRDATA])
	assert.Equal(uint32(7), relay.DMem.Read(0x100))
	assert.Equal(1, relay.Stats.Writes)

	bm.out[model.PIN_DMEM_HWRITE] = 0
	bm.out[model.PIN_DMEM_HWDATA] = 9
	assert.NoError(relay.Service(bm, ps))
	assert.Equal(uint64(7), bm.in[model.PIN_DMEM_HRDATA])
	assert.Equal(uint32(7), relay.DMem.Read(0x100))
	assert.Equal(1, relay.Stats.Writes)
}

func TestRelay_AddressTruncated(t *testing.T) {
	assert := assert.New(t)

	ps, err := model.Standard(32)
	require.NoError(t, err)

	relay, err := NewRelay(memory.NewStore[uint32]("imem"), memory.NewStore[uint32]("dmem"), ps, RedriveNonZero)
	require.NoError(t, err)
	relay.IMem.Write(4, 0x13)

	bm := newBusModel()
	bm.out[model.PIN_IMEM_HADDR] = 0x1_0000_0004

	assert.NoError(relay.Service(bm, ps))
	assert.Equal(uint64(0x13), bm.in[model.PIN_IMEM_HRDATA])
}

func TestNewRelay_Check(t *testing.T) {
	assert := assert.New(t)

	ps, err := model.NewPinSet(
		model.Pin{Name: model.PIN_IMEM_HADDR, Dir: model.Input, Width: 32},
	)
	require.NoError(t, err)

	_, err = NewRelay(memory.NewStore[uint32]("imem"), memory.NewStore[uint32]("dmem"), ps, RedriveNonZero)
	assert.ErrorIs(err, model.ErrPinDirection)

	ps, err = model.NewPinSet()
	require.NoError(t, err)

	_, err = NewRelay(memory.NewStore[uint32]("imem"), memory.NewStore[uint32]("dmem"), ps, RedriveNonZero)
	assert.ErrorIs(err, model.ErrPinUnknown)
}

func TestParsePolicy(t *testing.T) {
	assert := assert.New(t)

	policy, err := ParsePolicy("")
	assert.NoError(err)
	assert.Equal(RedriveNonZero, policy)

	policy, err = ParsePolicy("always")
	assert.NoError(err)
	assert.Equal(RedriveAlways, policy)
	assert.Equal("always", policy.String())

	_, err = ParsePolicy("sometimes")
	assert.ErrorIs(err, ErrPolicyUnknown)
}

func TestRelay_Hold(t *testing.T) {
	assert := assert.New(t)

	relay, ps := newRelay(t, RedriveAlways)
	relay.IMem.Write(8, 0x00100093)
	relay.DMem.Write(0x100, 0x55)
	relay.Hold(model.PIN_IMEM_HRDATA, model.PIN_DMEM_HRDATA)
	assert.True(relay.Held(model.PIN_DMEM_HRDATA))
	assert.False(relay.Held(model.PIN_DMEM_HADDR))

	bm := newBusModel()
	bm.out[model.PIN_IMEM_HADDR] = 8
	bm.out[model.PIN_DMEM_HADDR] = 0x100
	bm.out[model.PIN_DMEM_HWRITE] = 1
	bm.out[model.PIN_DMEM_HWDATA] = 9

	assert.NoError(relay.Service(bm, ps))
	assert.NotContains(bm.set, model.PIN_IMEM_HRDATA)
	assert.NotContains(bm.set, model.PIN_DMEM_HRDATA)
	assert.Equal(Stats{Writes: 1}, relay.Stats)

	// Writes still reach the store.
	assert.Equal(uint32(9), relay.DMem.Read(0x100))
}
