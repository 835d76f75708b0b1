package ppu

// This file is the scanline/dot dispatcher: it decides, for the current
// (scanline, dot), which of the background/sprite pipeline steps in
// background.go and sprite.go to run, when to set and clear VBlank and
// sprite-0 hit, and when to composite a pixel into the frame buffer.

func (c *Chip) runScanline() {
	switch {
	case c.scanline == -1:
		c.runPreRenderScanline()
	case c.scanline >= 0 && c.scanline <= 239:
		c.runVisibleScanline()
	case c.scanline == 241 && c.dot == 1:
		if !c.suppressVblankSet {
			c.status |= statusVBlank
			if c.ctrl&ctrlNmiEnable != 0 && !c.suppressNmi {
				c.nmiLine = true
			}
		}
	}
}

func (c *Chip) runPreRenderScanline() {
	if c.dot == 1 {
		c.status &^= statusVBlank | statusSprite0Hit | statusSpriteOverflow
		c.nmiLine = false
	}
	if c.dot >= 280 && c.dot <= 304 && c.renderingEnabled() {
		c.transferAddressY()
	}
	c.runBackgroundDots()

	// The pre-render line mirrors the visible lines' sprite pipeline: it
	// fills secondary OAM and fetches sprite patterns for scanline 0
	// exactly as a visible line does for its successor. Skipping this
	// would leave scanline 0 rendering with sprite registers stale from
	// scanline 239's evaluation (which targeted the off-screen scanline
	// 240).
	switch c.dot {
	case 64:
		c.clearSecondaryOam()
	case 256:
		if c.renderingEnabled() {
			c.evaluateSprites()
		}
	case 320:
		if c.renderingEnabled() {
			c.fetchSprites()
		}
	}
	c.forceOamAddrDuringFetch()
}

func (c *Chip) runVisibleScanline() {
	if c.dot >= 1 && c.dot <= 256 {
		c.renderPixel()
	}
	c.runBackgroundDots()

	switch c.dot {
	case 64:
		c.clearSecondaryOam()
	case 256:
		if c.renderingEnabled() {
			c.evaluateSprites()
		}
	case 320:
		if c.renderingEnabled() {
			c.fetchSprites()
		}
	}
	c.forceOamAddrDuringFetch()

	if c.dot >= 1 && c.dot <= 256 {
		c.shiftSpriteRegisters()
	}
}

// runBackgroundDots drives the fetch/shift pipeline across the dot ranges
// that feed the current scanline's pixels (1-256) and the first two tiles
// of the following scanline (321-336), plus the horizontal-scroll reload
// at dot 257 shared by every rendered scanline including the pre-render
// one.
func (c *Chip) runBackgroundDots() {
	inFetchRange := (c.dot >= 1 && c.dot <= 256) || (c.dot >= 321 && c.dot <= 336)
	if inFetchRange {
		c.shiftBackgroundRegisters()
		c.backgroundFetchCycle()
	}
	if c.dot == 256 && c.renderingEnabled() {
		c.incrementY()
	}
	if c.dot == 257 && c.renderingEnabled() {
		c.transferAddressX()
	}
}

func (c *Chip) renderPixel() {
	bg := c.backgroundPixel()
	sprite, spriteZero, spriteBehind := c.spritePixel()

	x := c.dot - 1
	if x < 8 {
		if c.mask&maskShowBgLeft == 0 {
			bg = 0
		}
		if c.mask&maskShowSpriteLft == 0 {
			sprite = 0
		}
	}

	if bg != 0 && sprite != 0 && spriteZero && x != 255 && c.renderingEnabled() {
		c.status |= statusSprite0Hit
	}

	var value uint8
	switch {
	case sprite != 0 && (bg == 0 || !spriteBehind):
		value = sprite
	case bg != 0:
		value = bg
	default:
		value = 0
	}

	// The emphasis bits (PPUMASK 5-7) ride along in the upper bits of the
	// stored pixel; a front end that wants composite-accurate color needs
	// them, but the 6-bit palette index in the low bits is a complete
	// picture on its own.
	emphasis := uint16(c.mask&0xE0) << 1
	c.fb.Set(x, c.scanline, uint16(c.readPalette(0x3F00+uint16(value)))|emphasis)
}
