// Package ppu implements the RP2C02 picture processing unit: the nine
// CPU-visible MMIO ports, the PPU-side memory bus decode used by CPU port
// accesses (recorded as address-latch pinout snapshots; rendering fetches
// read the mapper directly and are not multiplexed with them), the background and
// sprite pixel pipelines, and the 262x341 scanline/dot dispatcher that
// drives all of them.
package ppu

import (
	"github.com/n-ulricksen/nes-emulator/bus"
	"github.com/n-ulricksen/nes-emulator/pinout"
)

// PPUCTRL bits.
const (
	ctrlNametableMask  = 0x03
	ctrlIncrement32    = 0x04
	ctrlSpritePattern  = 0x08
	ctrlBgPattern      = 0x10
	ctrlSpriteSize8x16 = 0x20
	ctrlMasterSlave    = 0x40
	ctrlNmiEnable      = 0x80
)

// PPUMASK bits.
const (
	maskGreyscale     = 0x01
	maskShowBgLeft    = 0x02
	maskShowSpriteLft = 0x04
	maskShowBg        = 0x08
	maskShowSprites   = 0x10
	maskEmphasizeR    = 0x20
	maskEmphasizeG    = 0x40
	maskEmphasizeB    = 0x80
)

// PPUSTATUS bits.
const (
	statusSpriteOverflow = 0x20
	statusSprite0Hit     = 0x40
	statusVBlank         = 0x80
)

// writeBlockCycles is how many PPU dots after power-on (NewChip) that writes
// to the scroll/control/mask/address registers are ignored, matching the
// real chip's warm-up period (roughly one full frame, ~29658 CPU cycles).
const writeBlockCycles = 29658 * 3

// Chip is one PPU core.
type Chip struct {
	ctrl   uint8
	mask   uint8
	status uint8

	oamAddr      uint8
	oam          [256]uint8
	secondaryOam [32]uint8
	spriteCount  int

	v, t uint16
	x    uint8
	w    bool

	ioDb        uint8
	readBuffer  uint8
	dotsElapsed uint64

	ntLatch, atLatch   uint8
	ptLoLatch, ptHiLatch uint8

	bgPatternLo, bgPatternHi uint16
	bgAttrLo, bgAttrHi       uint16

	spritePatternLo, spritePatternHi [8]uint8
	spriteX                          [8]uint8
	spriteAttr                       [8]uint8
	spriteIsZero                     [8]bool

	palette [32]uint8

	scanline int
	dot      int
	oddFrame bool

	suppressVblankSet bool
	suppressNmi       bool
	nmiLine           bool // true while the PPU wants the CPU's NMIn pulled low

	mapper bus.Mapper
	fb     *FrameBuffer

	lastBusPin pinout.PpuPinout
}

// NewChip returns a PPU wired to mapper (CHR/nametable access) and writing
// into fb each frame.
func NewChip(mapper bus.Mapper, fb *FrameBuffer) *Chip {
	return &Chip{
		mapper:   mapper,
		fb:       fb,
		scanline: -1,
	}
}

// Scanline and Dot expose the dispatcher's position, useful for debug
// overlays and for the mapper's scanline-counter IRQ hook.
func (c *Chip) Scanline() int { return c.scanline }
func (c *Chip) Dot() int      { return c.dot }

func (c *Chip) renderingEnabled() bool {
	return c.mask&(maskShowBg|maskShowSprites) != 0
}

// Tick runs one PPU dot. It is called three times per CPU cycle from the
// master-clock loop; the pinout it returns carries NMIn low whenever the
// PPU currently wants to interrupt the CPU (VBlank entry with NMI
// enabled) and NMIn high otherwise; every other line is passed through
// unchanged.
func (c *Chip) Tick(pin pinout.CpuPinout) pinout.CpuPinout {
	c.dotsElapsed++
	c.mapper.TickPpu(c.scanline, c.dot, c.renderingEnabled())

	c.runScanline()

	c.advanceDot()

	pin.NMIn = !c.nmiLine
	return pin
}

func (c *Chip) advanceDot() {
	c.dot++
	lastDot := 340
	if c.scanline == -1 && c.oddFrame && c.renderingEnabled() {
		// Odd-frame skip: the idle cycle at (−1, 340) is cut short.
		lastDot = 339
	}
	if c.dot > lastDot {
		c.dot = 0
		c.scanline++
		if c.scanline > 260 {
			c.scanline = -1
			c.oddFrame = !c.oddFrame
			c.suppressVblankSet = false
			c.suppressNmi = false
		}
	}
}

// ReadRegister services a CPU read of $2000-$2007 (addr already reduced
// mod 8 by the caller's address decode).
func (c *Chip) ReadRegister(reg uint16) uint8 {
	switch reg & 7 {
	case 2:
		result := (c.status & 0xE0) | (c.ioDb & 0x1F)
		if c.scanline == 241 && c.dot == 0 {
			c.suppressVblankSet = true
			result &^= statusVBlank
		} else if c.scanline == 241 && c.dot == 1 {
			c.suppressNmi = true
		}
		c.status &^= statusVBlank
		c.w = false
		c.nmiLine = false
		c.ioDb = result
		return result
	case 4:
		v := c.readOamData()
		c.ioDb = v
		return v
	case 7:
		v := c.ppuDataRead()
		c.ioDb = v
		return v
	default:
		return c.ioDb
	}
}

// WriteRegister services a CPU write to $2000-$2007.
func (c *Chip) WriteRegister(reg uint16, val uint8) {
	c.ioDb = val
	if c.dotsElapsed < writeBlockCycles {
		switch reg & 7 {
		case 0, 1, 5, 6:
			return
		}
	}
	switch reg & 7 {
	case 0:
		prevNmiEnable := c.ctrl&ctrlNmiEnable != 0
		c.ctrl = val
		c.t = (c.t &^ 0x0C00) | (uint16(val&ctrlNametableMask) << 10)
		if !prevNmiEnable && c.ctrl&ctrlNmiEnable != 0 && c.status&statusVBlank != 0 {
			// 0->1 transition of NMI enable while VBlank is already
			// flagged re-raises NMI immediately.
			c.nmiLine = true
		}
	case 1:
		c.mask = val
	case 3:
		c.oamAddr = val
	case 4:
		c.writeOamData(val)
	case 5:
		if !c.w {
			c.t = (c.t &^ 0x001F) | uint16(val>>3)
			c.x = val & 0x07
		} else {
			c.t = (c.t &^ 0x73E0) | (uint16(val&0x07) << 12) | (uint16(val&0xF8) << 2)
		}
		c.w = !c.w
	case 6:
		if !c.w {
			c.t = (c.t &^ 0xFF00) | (uint16(val&0x3F) << 8)
		} else {
			c.t = (c.t &^ 0x00FF) | uint16(val)
			c.v = c.t
		}
		c.w = !c.w
	case 7:
		c.ppuDataWrite(val)
	}
}

func (c *Chip) ppuDataRead() uint8 {
	addr := c.v & 0x3FFF
	var result uint8
	if addr >= 0x3F00 {
		result = c.readPalette(addr)
		c.readBuffer = c.busRead(addr - 0x1000)
	} else {
		result = c.readBuffer
		c.readBuffer = c.busRead(addr)
	}
	c.incrementV()
	return result
}

func (c *Chip) ppuDataWrite(val uint8) {
	addr := c.v & 0x3FFF
	if addr >= 0x3F00 {
		c.writePalette(addr, val)
	} else {
		c.busWrite(addr, val)
	}
	c.incrementV()
}

// incrementV applies the documented corruption: touching $2007 while
// rendering is active doesn't do the normal +1/+32 increment, it instead
// glitches coarse X and Y forward the way the render pipeline's own
// address generator would that cycle.
func (c *Chip) incrementV() {
	if c.renderingEnabled() && (c.scanline == -1 || c.scanline < 240) {
		c.incrementCoarseX()
		c.incrementY()
		return
	}
	if c.ctrl&ctrlIncrement32 != 0 {
		c.v += 32
	} else {
		c.v++
	}
}

// busRead and busWrite are the PPU's own 14-bit address space decode. Real
// silicon multiplexes the low 8 address bits onto the same pins as the
// data byte, latching them with an ALE pulse before the read/write strobe;
// lastBusPin records that handshake for every access so a caller (see
// LastBusPin) can trace PPU bus activity the way the CPU's exported
// registers let a caller trace its activity.
func (c *Chip) busRead(addr uint16) uint8 {
	addr &= 0x3FFF
	var v uint8
	switch {
	case addr < 0x2000:
		v = c.mapper.ReadPpuChr(addr)
	case addr < 0x3F00:
		v = c.mapper.ReadPpuNt((addr - 0x2000) % 0x1000 + 0x2000)
	default:
		v = c.readPalette(addr)
	}
	c.lastBusPin = pinout.PpuPinout{Address: addr, Data: v, RDn: false, WRn: true, ALE: true}
	return v
}

func (c *Chip) busWrite(addr uint16, val uint8) {
	addr &= 0x3FFF
	switch {
	case addr < 0x2000:
		c.mapper.WritePpuChr(addr, val)
	case addr < 0x3F00:
		c.mapper.WritePpuNt((addr-0x2000)%0x1000+0x2000, val)
	default:
		c.writePalette(addr, val)
	}
	c.lastBusPin = pinout.PpuPinout{Address: addr, Data: val, RDn: true, WRn: false, ALE: true}
}

// LastBusPin exposes the bus-line snapshot of the most recent PPU memory
// access, for tracing/debugging tools.
func (c *Chip) LastBusPin() pinout.PpuPinout { return c.lastBusPin }

func palettIndex(addr uint16) uint16 {
	i := (addr - 0x3F00) % 32
	if i >= 16 && i%4 == 0 {
		i -= 16
	}
	return i
}

func (c *Chip) readPalette(addr uint16) uint8 {
	v := c.palette[palettIndex(addr)]
	if c.mask&maskGreyscale != 0 {
		v &= 0x30
	}
	return v
}

func (c *Chip) writePalette(addr uint16, val uint8) {
	c.palette[palettIndex(addr)] = val & 0x3F
}

// Peek gives a debugger side-effect-free access to the full PPU address
// space, matching the Mapper interface's own PeekPpu contract.
func (c *Chip) Peek(addr uint16) uint8 {
	addr &= 0x3FFF
	if addr >= 0x3F00 {
		return c.palette[palettIndex(addr)]
	}
	return c.mapper.PeekPpu(addr)
}
