// Package dma implements the OAM and DMC bus-mastering state machines that
// steal cycles from the CPU. Both channels run as pure state machines over
// the shared pinout; the controller never touches the CPU's internal
// registers, only its bus lines (Address/Data/RW) and its RDY input.
package dma

import (
	"github.com/n-ulricksen/nes-emulator/bus"
	"github.com/n-ulricksen/nes-emulator/pinout"
)

// OamStatus is the OAM DMA ($4014) channel's state.
type OamStatus int

const (
	OamIdle OamStatus = iota
	OamHalt
	OamAlign
	OamRead
	OamWrite
)

// DmcStatus is the delta-modulation-channel sample-fetch state.
type DmcStatus int

const (
	DmcIdle DmcStatus = iota
	DmcHalt
	DmcDummy
	DmcAlign
	DmcFetch
)

// Controller is the DMA bus-mastering logic sitting between cpu.Tick and
// ppu.Tick in the master-clock loop. Writing $4014 starts an OAM transfer;
// RequestDmcSample starts a single DMC byte fetch. DMC takes priority over
// OAM whenever both want the bus on the same cycle, so a DMC request made
// while OAM is mid-transfer pauses the OAM copy until the DMC fetch is done.
type Controller struct {
	oamState       OamStatus
	oamPage        uint8
	oamIndex       uint16
	oamByte        uint8
	oamAlignCycles int // dummy cycles remaining before the first read, set when halting

	dmcState   DmcStatus
	dmcPending bool
	dmcAddr    uint16
	apu        bus.ApuDmaInterconnect

	cycle uint64 // master-clock cycle counter, for get/put alignment
}

// NewController returns an idle DMA controller. apu may be nil if DMC
// sample delivery is not wired up by the caller.
func NewController(apu bus.ApuDmaInterconnect) *Controller {
	return &Controller{apu: apu}
}

// StartOamDma begins copying 256 bytes from page*0x100 into OAM via $2004.
func (d *Controller) StartOamDma(page uint8) {
	d.oamState = OamHalt
	d.oamPage = page
	d.oamIndex = 0
}

// RequestDmcSample asks the controller to steal four cycles (halt, dummy,
// align, then the read itself) to fetch a DMC sample byte from addr on
// behalf of the APU.
func (d *Controller) RequestDmcSample(addr uint16) {
	d.dmcPending = true
	d.dmcAddr = addr
	if d.dmcState == DmcIdle {
		d.dmcState = DmcHalt
	}
}

// Idle reports whether neither channel currently wants the bus.
func (d *Controller) Idle() bool {
	return d.oamState == OamIdle && d.dmcState == DmcIdle
}

// Tick runs one master-clock cycle of DMA logic between the CPU and PPU
// ticks. It observes (and may override) the CPU-side pinout: RDY is pulled
// low while either channel needs the bus, and Address/Data/RW are driven
// directly onto the pinout during the cycles this controller is mastering
// the bus, exactly as cpu.Tick does for its own transactions.
func (d *Controller) Tick(b bus.CpuBus, pin pinout.CpuPinout) pinout.CpuPinout {
	cycle := d.cycle
	d.cycle++

	wantsBus := d.oamState != OamIdle || d.dmcState != DmcIdle
	if !wantsBus {
		pin.RDY = true
		return pin
	}

	// DMA can only begin halting the CPU once it is sitting on a read
	// cycle; the real chip can't interrupt a write in progress.
	if (d.oamState == OamHalt || d.dmcState == DmcHalt) && !pin.RW {
		pin.RDY = true
		return pin
	}

	pin.RDY = false

	// DMC has priority over OAM whenever both are ready to use the same
	// cycle.
	if d.dmcState != DmcIdle {
		pin = d.tickDmc(b, pin)
	} else {
		pin = d.tickOam(b, pin, cycle)
	}

	return pin
}

func (d *Controller) tickOam(b bus.CpuBus, pin pinout.CpuPinout, cycle uint64) pinout.CpuPinout {
	switch d.oamState {
	case OamHalt:
		// The halt cycle is the first dummy cycle. Landing it on an even
		// (put) master-clock count needs one more alignment cycle before
		// the first read; landing on an odd (get) count needs none. This
		// is what produces the well-known 513-vs-514-cycle difference
		// depending on when $4014 was hit.
		if cycle%2 == 0 {
			d.oamState = OamAlign
			d.oamAlignCycles = 1
		} else {
			d.oamState = OamRead
		}
	case OamAlign:
		d.oamAlignCycles--
		if d.oamAlignCycles == 0 {
			d.oamState = OamRead
		}
	case OamRead:
		addr := uint16(d.oamPage)<<8 | d.oamIndex
		pin.Address = addr
		pin.RW = true
		d.oamByte = b.Read(addr)
		pin.Data = d.oamByte
		d.oamState = OamWrite
	case OamWrite:
		pin.Address = 0x2004
		pin.RW = false
		pin.Data = d.oamByte
		b.Write(0x2004, d.oamByte)
		d.oamIndex++
		if d.oamIndex == 256 {
			d.oamState = OamIdle
		} else {
			d.oamState = OamRead
		}
	}
	return pin
}

func (d *Controller) tickDmc(b bus.CpuBus, pin pinout.CpuPinout) pinout.CpuPinout {
	switch d.dmcState {
	case DmcHalt:
		d.dmcState = DmcDummy
	case DmcDummy:
		d.dmcState = DmcAlign
	case DmcAlign:
		d.dmcState = DmcFetch
	case DmcFetch:
		pin.Address = d.dmcAddr
		pin.RW = true
		sample := b.Read(d.dmcAddr)
		pin.Data = sample
		if d.apu != nil {
			d.apu.UpdateDmcSample(sample)
		}
		d.dmcPending = false
		d.dmcState = DmcIdle
	}
	return pin
}
