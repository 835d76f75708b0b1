// Package bus defines the capability interfaces the CPU and PPU see of the
// rest of the machine. Every implementation (system RAM, the PPU's MMIO
// ports, the cartridge mapper, the controller shift registers) is a
// narrow-contract collaborator plugged in behind one of these interfaces;
// nothing in cpu or ppu imports a concrete peripheral type.
package bus

// CpuBus is everything the 6502 micro-sequencer can see on its 16-bit
// address space: work RAM, PPU MMIO mirrors, APU/IO registers, and whatever
// the cartridge maps into $4020-$FFFF. A read of an unmapped address must
// return the last value driven on the bus (open-bus), never an error.
type CpuBus interface {
	Read(addr uint16) uint8
	Write(addr uint16, data uint8)
}

// Mapper is the cartridge capability surface. It is split by CPU address
// range and PPU address range rather than by a single Read/Write pair so a
// mapper can apply completely different logic (bank switching, IRQ
// counters) to each without string-typing the caller.
type Mapper interface {
	// ReadCpu/WriteCpu cover $4020-$FFFF, including the reset/IRQ/NMI
	// vectors at the top of the address space.
	ReadCpu(addr uint16) uint8
	WriteCpu(addr uint16, data uint8)

	// ReadPpuChr/WritePpuChr cover $0000-$1FFF (pattern tables).
	ReadPpuChr(addr uint16) uint8
	WritePpuChr(addr uint16, data uint8)

	// ReadPpuNt/WritePpuNt cover $2000-$2FFF (nametables), with mirroring
	// resolved internally by the mapper.
	ReadPpuNt(addr uint16) uint8
	WritePpuNt(addr uint16, data uint8)

	// PeekPpu/PokePpu are side-effect-free variants of the PPU-range
	// accessors for debuggers; addr is the full, unmirrored PPU address
	// ($0000-$3EFF).
	PeekPpu(addr uint16) uint8
	PokePpu(addr uint16, data uint8)

	// TickCpu/TickPpu let scanline-counter mappers (MMC3-style) observe
	// the clock without being bus masters themselves.
	TickCpu()
	TickPpu(scanline int, dot int, renderingEnabled bool)

	// IRQAsserted reports whether the mapper currently wants the CPU's
	// IRQn line pulled low.
	IRQAsserted() bool
}

// ApuDmaInterconnect is the narrow slice of the APU the DMA controller
// needs: a place to deposit DMC sample bytes it fetches as a bus master.
// The rest of the APU (mixing, envelopes, sweep) is out of scope.
type ApuDmaInterconnect interface {
	UpdateDmcSample(data uint8)
}
