package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIncrementCoarseXWrapsAndTogglesNametable(t *testing.T) {
	c, _ := newTestChip()
	c.v = 0x001F
	c.incrementCoarseX()
	require.Equal(t, uint16(0), c.v&0x001F)
	require.NotZero(t, c.v&0x0400)
}

func TestIncrementYRollsFineYIntoCoarseY(t *testing.T) {
	c, _ := newTestChip()
	c.v = 0x7000 // fine Y = 7, coarse Y = 0
	c.incrementY()
	require.Equal(t, uint16(0), c.v&0x7000)
	require.Equal(t, uint16(1), (c.v&0x03E0)>>5)
}

func TestIncrementYWrapsCoarseYAt29AndTogglesNametable(t *testing.T) {
	c, _ := newTestChip()
	c.v = 0x7000 | (29 << 5)
	c.incrementY()
	require.Equal(t, uint16(0), (c.v&0x03E0)>>5)
	require.NotZero(t, c.v&0x0800)
}

func TestBackgroundPixelZeroWhenPatternTransparent(t *testing.T) {
	c, _ := newTestChip()
	c.mask = maskShowBg
	c.bgPatternLo = 0
	c.bgPatternHi = 0
	c.bgAttrLo = 0xFFFF
	c.bgAttrHi = 0xFFFF
	require.Equal(t, uint8(0), c.backgroundPixel())
}

func TestBackgroundPixelUsesFineXMux(t *testing.T) {
	c, _ := newTestChip()
	c.mask = maskShowBg
	c.x = 0
	c.bgPatternLo = 0x8000
	c.bgPatternHi = 0
	c.bgAttrLo = 0
	c.bgAttrHi = 0
	require.Equal(t, uint8(1), c.backgroundPixel())
}
