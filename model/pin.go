package model

import (
	"iter"
	"slices"

	"github.com/ezrec/cosim/internal"
)

// Direction of a pin, as seen from the model.
type Direction int

const (
	Input  = Direction(iota) // Driven by the harness.
	Output                   // Driven by the model.
)

func (dir Direction) String() string {
	switch dir {
	case Input:
		return "input"
	case Output:
		return "output"
	}
	return f("Direction(%d)", int(dir))
}

// Pin declares one signal on the model boundary.
type Pin struct {
	Name  string
	Dir   Direction
	Width uint // Width in bits, 1 to 64.
}

// Mask returns the all-ones value of the pin's width.
func (pin Pin) Mask() uint64 {
	if pin.Width >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << pin.Width) - 1
}

// Standard pin names of the core boundary.
const (
	PIN_CLK = "clk"

	PIN_RESET = "htif_reset"
	PIN_ID    = "htif_id"

	PIN_IPI_REQ_READY  = "htif_ipi_req_ready"
	PIN_IPI_RESP_VALID = "htif_ipi_resp_valid"
	PIN_IPI_RESP_DATA  = "htif_ipi_resp_data"

	PIN_PCR_REQ_RW     = "htif_pcr_req_rw"
	PIN_PCR_REQ_VALID  = "htif_pcr_req_valid"
	PIN_PCR_REQ_ADDR   = "htif_pcr_req_addr"
	PIN_PCR_REQ_DATA   = "htif_pcr_req_data"
	PIN_PCR_RESP_READY = "htif_pcr_resp_ready"

	PIN_IMEM_HADDR  = "imem_haddr"
	PIN_IMEM_HWRITE = "imem_hwrite"
	PIN_IMEM_HWDATA = "imem_hwdata"
	PIN_IMEM_HRDATA = "imem_hrdata"
	PIN_IMEM_HREADY = "imem_hready"
	PIN_IMEM_HRESP  = "imem_hresp"

	PIN_DMEM_HADDR  = "dmem_haddr"
	PIN_DMEM_HWRITE = "dmem_hwrite"
	PIN_DMEM_HWDATA = "dmem_hwdata"
	PIN_DMEM_HRDATA = "dmem_hrdata"
	PIN_DMEM_HREADY = "dmem_hready"
	PIN_DMEM_HRESP  = "dmem_hresp"
)

// Probe names of the introspection contract.
const (
	PROBE_PRIVILEGE = "priv_stack" // Privilege mode stack register.
	PROBE_EPC       = "mepc"       // Machine exception program counter.
)

// StandardPins returns the pin declarations of the core boundary for a bus
// of the given width.
func StandardPins(width uint) []Pin {
	return []Pin{
		{PIN_CLK, Input, 1},
		{PIN_RESET, Input, 1},
		{PIN_ID, Input, 1},
		{PIN_IPI_REQ_READY, Input, 1},
		{PIN_IPI_RESP_VALID, Input, 1},
		{PIN_IPI_RESP_DATA, Input, 1},
		{PIN_PCR_REQ_RW, Input, 1},
		{PIN_PCR_REQ_VALID, Input, 1},
		{PIN_PCR_REQ_ADDR, Input, 12},
		{PIN_PCR_REQ_DATA, Input, 64},
		{PIN_PCR_RESP_READY, Input, 1},
		{PIN_IMEM_HRDATA, Input, width},
		{PIN_IMEM_HREADY, Input, 1},
		{PIN_IMEM_HRESP, Input, 1},
		{PIN_DMEM_HRDATA, Input, width},
		{PIN_DMEM_HREADY, Input, 1},
		{PIN_DMEM_HRESP, Input, 1},
		{PIN_IMEM_HADDR, Output, width},
		{PIN_IMEM_HWRITE, Output, 1},
		{PIN_IMEM_HWDATA, Output, width},
		{PIN_DMEM_HADDR, Output, width},
		{PIN_DMEM_HWRITE, Output, 1},
		{PIN_DMEM_HWDATA, Output, width},
	}
}

// PinSet is the set of pins on a model boundary together with the values the
// harness drives onto the input pins. The harness owns the input values; the
// model owns its outputs. A PinSet belongs to exactly one run.
type PinSet struct {
	pins   []Pin
	index  map[string]int
	driven []uint64
}

// NewPinSet creates a pin set from declarations. All inputs start at zero.
func NewPinSet(pins ...Pin) (ps *PinSet, err error) {
	ps = &PinSet{
		pins:   slices.Clone(pins),
		index:  make(map[string]int, len(pins)),
		driven: make([]uint64, len(pins)),
	}

	for n, pin := range ps.pins {
		if pin.Width == 0 || pin.Width > 64 {
			err = &ErrPin{Pin: pin.Name, Err: ErrPinWidth}
			return nil, err
		}
		if _, ok := ps.index[pin.Name]; ok {
			err = &ErrPin{Pin: pin.Name, Err: ErrPinDuplicate}
			return nil, err
		}
		ps.index[pin.Name] = n
	}

	return
}

// Standard creates the standard pin set with the bus idle defaults: both
// buses ready with no error response, clock low.
func Standard(width uint) (ps *PinSet, err error) {
	ps, err = NewPinSet(StandardPins(width)...)
	if err != nil {
		return
	}

	ps.driven[ps.index[PIN_IMEM_HREADY]] = 1
	ps.driven[ps.index[PIN_DMEM_HREADY]] = 1

	return
}

// Lookup returns the declaration of a named pin.
func (ps *PinSet) Lookup(name string) (pin Pin, ok bool) {
	n, ok := ps.index[name]
	if ok {
		pin = ps.pins[n]
	}
	return
}

// Expect checks that name is declared with the given direction.
func (ps *PinSet) Expect(name string, dir Direction) (err error) {
	pin, ok := ps.Lookup(name)
	switch {
	case !ok:
		err = &ErrPin{Pin: name, Err: ErrPinUnknown}
	case pin.Dir != dir:
		err = &ErrPin{Pin: name, Err: ErrPinDirection}
	}
	return
}

// Set records the value to drive on an input pin, masked to the pin width.
// It does not touch the model; see Drive and Apply.
func (ps *PinSet) Set(name string, value uint64) (err error) {
	err = ps.Expect(name, Input)
	if err != nil {
		return
	}

	n := ps.index[name]
	ps.driven[n] = value & ps.pins[n].Mask()
	return
}

// Drive records value for an input pin and presents it to the model.
func (ps *PinSet) Drive(m Model, name string, value uint64) (err error) {
	err = ps.Set(name, value)
	if err != nil {
		return
	}

	m.Set(name, ps.driven[ps.index[name]])
	return
}

// Value returns the value currently driven on an input pin.
func (ps *PinSet) Value(name string) (value uint64) {
	n, ok := ps.index[name]
	if ok && ps.pins[n].Dir == Input {
		value = ps.driven[n]
	}
	return
}

// Sample reads an output pin from the model, masked to the pin width.
func (ps *PinSet) Sample(m Model, name string) (value uint64, err error) {
	err = ps.Expect(name, Output)
	if err != nil {
		return
	}

	value = m.Get(name) & ps.pins[ps.index[name]].Mask()
	return
}

// Apply presents every driven input value to the model.
func (ps *PinSet) Apply(m Model) {
	for n, pin := range ps.pins {
		if pin.Dir == Input {
			m.Set(pin.Name, ps.driven[n])
		}
	}
}

// All iterates over the pin declarations, in declaration order.
func (ps *PinSet) All() iter.Seq[Pin] {
	return slices.Values(ps.pins)
}

// Inputs iterates over the input pins.
func (ps *PinSet) Inputs() iter.Seq[Pin] {
	return internal.IterFilter(ps.All(), func(pin Pin) bool { return pin.Dir == Input })
}

// Outputs iterates over the output pins.
func (ps *PinSet) Outputs() iter.Seq[Pin] {
	return internal.IterFilter(ps.All(), func(pin Pin) bool { return pin.Dir == Output })
}
