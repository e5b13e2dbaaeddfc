// Package bus relays memory-mapped bus requests from a model's pins to the
// backing instruction and data stores.
package bus

import (
	"log"

	"github.com/ezrec/cosim/memory"
	"github.com/ezrec/cosim/model"
)

// Interface names the pins of one bus side.
type Interface struct {
	Addr  string // Request address, model output.
	Write string // Write enable, model output.
	WData string // Write data, model output.
	RData string // Read data, model input.
	Ready string // Ready, model input.
	Resp  string // Response/error, model input.
}

// Instruction is the standard instruction-side bus.
var Instruction = Interface{
	Addr:  model.PIN_IMEM_HADDR,
	Write: model.PIN_IMEM_HWRITE,
	WData: model.PIN_IMEM_HWDATA,
	RData: model.PIN_IMEM_HRDATA,
	Ready: model.PIN_IMEM_HREADY,
	Resp:  model.PIN_IMEM_HRESP,
}

// Data is the standard data-side bus.
var Data = Interface{
	Addr:  model.PIN_DMEM_HADDR,
	Write: model.PIN_DMEM_HWRITE,
	WData: model.PIN_DMEM_HWDATA,
	RData: model.PIN_DMEM_HRDATA,
	Ready: model.PIN_DMEM_HREADY,
	Resp:  model.PIN_DMEM_HRESP,
}

// Check verifies that the interface's pins exist with the right directions.
func (bi Interface) Check(pins *model.PinSet) (err error) {
	for _, name := range []string{bi.Addr, bi.Write, bi.WData} {
		err = pins.Expect(name, model.Output)
		if err != nil {
			return
		}
	}
	for _, name := range []string{bi.RData, bi.Ready, bi.Resp} {
		err = pins.Expect(name, model.Input)
		if err != nil {
			return
		}
	}
	return
}

// Stats counts relay activity.
type Stats struct {
	Fetches   int // Instruction words redriven.
	FetchMiss int // Fetches of a zero word that were not redriven.
	Reads     int // Data words redriven.
	Writes    int // Data words written.
}

// Relay services one transaction per bus side per half-cycle. Every request
// completes in the half-cycle it is seen; the relay never stalls.
type Relay[W memory.Word] struct {
	Verbose bool
	Policy  Policy

	IMem *memory.Store[W]
	DMem *memory.Store[W]

	Instruction Interface
	Data        Interface

	Stats Stats

	held map[string]bool
}

// NewRelay creates a relay for the standard bus interfaces, checking them
// against pins.
func NewRelay[W memory.Word](imem, dmem *memory.Store[W], pins *model.PinSet, policy Policy) (relay *Relay[W], err error) {
	relay = &Relay[W]{
		Policy:      policy,
		IMem:        imem,
		DMem:        dmem,
		Instruction: Instruction,
		Data:        Data,
	}

	err = relay.Instruction.Check(pins)
	if err != nil {
		return nil, err
	}
	err = relay.Data.Check(pins)
	if err != nil {
		return nil, err
	}

	return
}

// Hold stops the relay from driving the named read-data pins. A held pin
// keeps whatever value was bound to it; writes still reach the store.
func (relay *Relay[W]) Hold(pins ...string) {
	if relay.held == nil {
		relay.held = make(map[string]bool)
	}
	for _, pin := range pins {
		relay.held[pin] = true
	}
}

// Held reports whether a pin is held.
func (relay *Relay[W]) Held(pin string) bool {
	return relay.held[pin]
}

// Service runs the relay for one half-cycle settle point.
//
// The instruction word at the requested address is redriven subject to the
// policy. The data word at the requested address is always redriven. Held
// read-data pins are never driven. A
// pending data write is then applied with the current address and data, so
// it is visible from the next half-cycle on, never to this half-cycle's
// redrive.
func (relay *Relay[W]) Service(m model.Model, pins *model.PinSet) (err error) {
	iaddr, err := pins.Sample(m, relay.Instruction.Addr)
	if err != nil {
		return
	}
	word := relay.IMem.Read(W(iaddr))
	switch {
	case relay.held[relay.Instruction.RData]:
	case word != 0 || relay.Policy == RedriveAlways:
		err = pins.Drive(m, relay.Instruction.RData, uint64(word))
		if err != nil {
			return
		}
		relay.Stats.Fetches++
	default:
		relay.Stats.FetchMiss++
		if relay.Verbose {
			log.Printf("%v: %#x: empty, not redriven", relay.IMem.Name, iaddr)
		}
	}

	daddr, err := pins.Sample(m, relay.Data.Addr)
	if err != nil {
		return
	}
	if !relay.held[relay.Data.RData] {
		err = pins.Drive(m, relay.Data.RData, uint64(relay.DMem.Read(W(daddr))))
		if err != nil {
			return
		}
		relay.Stats.Reads++
	}

	write, err := pins.Sample(m, relay.Data.Write)
	if err != nil {
		return
	}
	if write != 0 {
		var wdata uint64
		wdata, err = pins.Sample(m, relay.Data.WData)
		if err != nil {
			return
		}
		relay.DMem.Write(W(daddr), W(wdata))
		relay.Stats.Writes++
		if relay.Verbose {
			log.Printf("%v: %#x <- %#x", relay.DMem.Name, daddr, wdata)
		}
	}

	return
}
