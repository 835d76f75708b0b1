package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEvaluateSpritesFindsUpToEight(t *testing.T) {
	c, _ := newTestChip()
	c.scanline = 9
	for i := 0; i < 10; i++ {
		c.oam[i*4] = 9 // OAM Y is top-row-minus-one, so row 0 lands on scanline 10
		c.oam[i*4+1] = uint8(i)
	}
	c.evaluateSprites()
	require.Equal(t, 8, c.spriteCount)
	require.NotZero(t, c.status&statusSpriteOverflow)
}

func TestEvaluateSpritesFlagsSpriteZero(t *testing.T) {
	c, _ := newTestChip()
	c.scanline = 9
	c.oam[0] = 9
	c.evaluateSprites()
	require.True(t, c.spriteIsZero[0])
}

func TestFetchSpritesReadsPatternFromChr(t *testing.T) {
	c, m := newTestChip()
	m.chr[5*16] = 0xAA
	c.scanline = 9
	c.oam[0], c.oam[1], c.oam[2], c.oam[3] = 9, 5, 0, 20
	c.evaluateSprites()
	c.fetchSprites()
	require.Equal(t, uint8(0xAA), c.spritePatternLo[0])
	require.Equal(t, uint8(20), c.spriteX[0])
}

func TestSpritePixelRespectsXCountdown(t *testing.T) {
	c, _ := newTestChip()
	c.mask = maskShowSprites
	c.spriteCount = 1
	c.spriteX[0] = 3
	c.spritePatternLo[0] = 0x80
	v, _, _ := c.spritePixel()
	require.Equal(t, uint8(0), v, "sprite not active until its X countdown reaches zero")
}

func TestSpritePixelOpaqueWhenActive(t *testing.T) {
	c, _ := newTestChip()
	c.mask = maskShowSprites
	c.spriteCount = 1
	c.spriteX[0] = 0
	c.spritePatternLo[0] = 0x80
	c.spriteAttr[0] = 0x01
	v, _, behind := c.spritePixel()
	require.Equal(t, uint8(0x15), v)
	require.False(t, behind)
}

func TestReverseBits(t *testing.T) {
	require.Equal(t, uint8(0x01), reverseBits(0x80))
	require.Equal(t, uint8(0xF0), reverseBits(0x0F))
}
