// Package pinout defines the bus-line snapshots passed by value between the
// CPU, the DMA controller, and the PPU once per clock edge. Nothing in this
// package owns state; a pinout is produced fresh by whichever component last
// drove the bus and handed on to the next.
package pinout

// CpuPinout is the CPU-side bus snapshot threaded through cpu.Tick,
// dma.Tick, and ppu.Tick each master-clock iteration. Control lines follow
// hardware polarity: IRQn/NMIn/RDY/HALTn are asserted when false (the pin is
// pulled low).
type CpuPinout struct {
	Address uint16
	Data    uint8

	RW   bool // true == read cycle, false == write cycle
	Sync bool // true only on the opcode-fetch cycle of an instruction

	IRQn  bool // false == IRQ requested
	NMIn  bool // false == NMI requested (edge, sampled once per tick)
	RDY   bool // false == CPU halted on its next read
	HALTn bool // false == CPU bus-mastering suspended (DMA owns the bus)
}

// NewCpuPinout returns a pinout with every control line in its inactive
// (high) state and a read cycle selected, the reset condition of the bus.
func NewCpuPinout() CpuPinout {
	return CpuPinout{
		RW:    true,
		IRQn:  true,
		NMIn:  true,
		RDY:   true,
		HALTn: true,
	}
}

// PpuPinout is the PPU-side memory bus snapshot used by the address-latch
// multiplexer in package ppu. ALE pulses true exactly when the low byte of a
// new 14-bit PPU address is placed on the multiplexed bus.
type PpuPinout struct {
	Address uint16 // 14-bit
	Data    uint8

	RDn bool
	WRn bool
	ALE bool
}

// NewPpuPinout returns a pinout with both strobes inactive.
func NewPpuPinout() PpuPinout {
	return PpuPinout{RDn: true, WRn: true}
}
