package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderPixelSetsSprite0Hit(t *testing.T) {
	c, _ := newTestChip()
	c.mask = maskShowBg | maskShowSprites
	c.scanline = 10
	c.dot = 100 // x = 99, clear of the left-edge mask and x==255 exclusion

	c.bgPatternLo = 0x8000
	c.spriteCount = 1
	c.spriteX[0] = 0
	c.spritePatternLo[0] = 0x80
	c.spriteIsZero[0] = true

	c.renderPixel()
	require.NotZero(t, c.status&statusSprite0Hit)
}

func TestRenderPixelLeftEdgeMaskHidesBackground(t *testing.T) {
	c, _ := newTestChip()
	c.mask = maskShowBg // left-edge bits not set: bg hidden in columns 0-7
	c.scanline = 10
	c.dot = 5 // x = 4
	c.bgPatternLo = 0x8000
	c.palette[1] = 0x22

	c.renderPixel()
	require.Equal(t, uint16(c.palette[0]), c.fb.Get(4, 10))
}

func TestRenderPixelSpriteBehindBackgroundLosesToOpaqueBg(t *testing.T) {
	c, _ := newTestChip()
	c.mask = maskShowBg | maskShowSprites | maskShowBgLeft | maskShowSpriteLft
	c.scanline = 10
	c.dot = 1

	c.bgPatternLo = 0x8000
	c.spriteCount = 1
	c.spriteX[0] = 0
	c.spritePatternLo[0] = 0x80
	c.spriteAttr[0] = 0x20 // behind background

	c.palette[1] = 0x11    // background color
	c.palette[0x11] = 0x22 // sprite color

	c.renderPixel()
	require.Equal(t, uint16(c.palette[1]), c.fb.Get(0, 10))
}

func TestPreRenderScanlineClearsStatusAtDotOne(t *testing.T) {
	c, _ := newTestChip()
	c.scanline = -1
	c.dot = 1
	c.status = statusVBlank | statusSprite0Hit | statusSpriteOverflow
	c.runPreRenderScanline()
	require.Zero(t, c.status)
}

func TestPreRenderScanlineTransfersAddressY(t *testing.T) {
	c, _ := newTestChip()
	c.mask = maskShowBg
	c.scanline = -1
	c.dot = 280
	c.t = 0x7BE0
	c.v = 0
	c.runPreRenderScanline()
	require.Equal(t, uint16(0x7BE0), c.v&0x7BE0)
}
