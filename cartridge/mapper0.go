package cartridge

// mapper0 implements iNES mapper 0 (NROM): no bank switching, 16KB or
// 32KB of PRG-ROM mirrored to fill $8000-$FFFF, and either CHR-ROM or, if
// the ROM image carries no CHR data, 8KB of CHR-RAM.
type mapper0 struct {
	prg []uint8
	chr []uint8

	chrIsRam bool
}

func newMapper0(prg, chr []uint8) *mapper0 {
	m := &mapper0{prg: prg}
	if len(chr) == 0 {
		m.chr = make([]uint8, 8192)
		m.chrIsRam = true
	} else {
		m.chr = chr
	}
	return m
}

func (m *mapper0) ReadPrg(addr uint16) uint8 {
	return m.prg[int(addr-0x8000)%len(m.prg)]
}

func (m *mapper0) WritePrg(addr uint16, val uint8) {
	// NROM carries no PRG-RAM or bank registers at $8000+; writes are
	// simply ignored the way real NROM cartridges ignore bus writes to
	// the ROM socket.
}

func (m *mapper0) ReadChr(addr uint16) uint8 {
	return m.chr[int(addr)%len(m.chr)]
}

func (m *mapper0) WriteChr(addr uint16, val uint8) {
	if m.chrIsRam {
		m.chr[int(addr)%len(m.chr)] = val
	}
}

func (m *mapper0) TickCpu()                                      {}
func (m *mapper0) TickPpu(scanline, dot int, renderingEnabled bool) {}
func (m *mapper0) IRQAsserted() bool                              { return false }
