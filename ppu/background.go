package ppu

// This file implements the "loopy" scroll-register arithmetic and the
// 8-dot tile fetch / 16-bit shift-register pipeline that produces one
// background pixel per dot.

func (c *Chip) incrementCoarseX() {
	if c.v&0x001F == 31 {
		c.v &^= 0x001F
		c.v ^= 0x0400
	} else {
		c.v++
	}
}

func (c *Chip) incrementY() {
	if c.v&0x7000 != 0x7000 {
		c.v += 0x1000
		return
	}
	c.v &^= 0x7000
	coarseY := (c.v & 0x03E0) >> 5
	switch coarseY {
	case 29:
		coarseY = 0
		c.v ^= 0x0800
	case 31:
		coarseY = 0
	default:
		coarseY++
	}
	c.v = (c.v &^ 0x03E0) | (coarseY << 5)
}

func (c *Chip) transferAddressX() {
	c.v = (c.v &^ 0x041F) | (c.t & 0x041F)
}

func (c *Chip) transferAddressY() {
	c.v = (c.v &^ 0x7BE0) | (c.t & 0x7BE0)
}

func (c *Chip) loadBackgroundShifters() {
	c.bgPatternLo = (c.bgPatternLo &^ 0x00FF) | uint16(c.ptLoLatch)
	c.bgPatternHi = (c.bgPatternHi &^ 0x00FF) | uint16(c.ptHiLatch)

	var lo, hi uint16
	if c.atLatch&0x01 != 0 {
		lo = 0x00FF
	}
	if c.atLatch&0x02 != 0 {
		hi = 0x00FF
	}
	c.bgAttrLo = (c.bgAttrLo &^ 0x00FF) | lo
	c.bgAttrHi = (c.bgAttrHi &^ 0x00FF) | hi
}

func (c *Chip) shiftBackgroundRegisters() {
	if !c.renderingEnabled() {
		return
	}
	c.bgPatternLo <<= 1
	c.bgPatternHi <<= 1
	c.bgAttrLo <<= 1
	c.bgAttrHi <<= 1
}

// backgroundFetchCycle runs the NT/AT/pattern-low/pattern-high fetch
// sequence during the visible and prefetch dot ranges, matching the real
// chip's 2-cycles-per-byte cadence collapsed here to one Tick per byte
// (equivalent end-to-end, since nothing observes the half-fetched state).
func (c *Chip) backgroundFetchCycle() {
	switch c.dot % 8 {
	case 1:
		c.loadBackgroundShifters()
		ntAddr := 0x2000 | (c.v & 0x0FFF)
		c.ntLatch = c.mapper.ReadPpuNt(ntAddr)
	case 3:
		atAddr := 0x23C0 | (c.v & 0x0C00) | ((c.v >> 4) & 0x38) | ((c.v >> 2) & 0x07)
		at := c.mapper.ReadPpuNt(atAddr)
		shift := ((c.v >> 4) & 0x04) | (c.v & 0x02)
		c.atLatch = (at >> shift) & 0x03
	case 5:
		table := uint16(0)
		if c.ctrl&ctrlBgPattern != 0 {
			table = 0x1000
		}
		fineY := (c.v >> 12) & 0x07
		addr := table + uint16(c.ntLatch)*16 + fineY
		c.ptLoLatch = c.mapper.ReadPpuChr(addr)
	case 7:
		table := uint16(0)
		if c.ctrl&ctrlBgPattern != 0 {
			table = 0x1000
		}
		fineY := (c.v >> 12) & 0x07
		addr := table + uint16(c.ntLatch)*16 + fineY + 8
		c.ptHiLatch = c.mapper.ReadPpuChr(addr)
	case 0:
		if c.renderingEnabled() {
			c.incrementCoarseX()
		}
	}
}

// backgroundPixel returns the 4-bit pattern+attribute value (0 means
// transparent) selected by the fine-X scroll out of the shift registers.
func (c *Chip) backgroundPixel() uint8 {
	if c.mask&maskShowBg == 0 {
		return 0
	}
	mux := uint16(0x8000) >> c.x
	p0 := uint8(0)
	if c.bgPatternLo&mux != 0 {
		p0 = 1
	}
	p1 := uint8(0)
	if c.bgPatternHi&mux != 0 {
		p1 = 1
	}
	pattern := (p1 << 1) | p0
	if pattern == 0 {
		return 0
	}

	a0 := uint8(0)
	if c.bgAttrLo&mux != 0 {
		a0 = 1
	}
	a1 := uint8(0)
	if c.bgAttrHi&mux != 0 {
		a1 = 1
	}
	return (a1 << 3) | (a0 << 2) | pattern
}
