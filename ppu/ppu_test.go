package ppu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n-ulricksen/nes-emulator/pinout"
)

// fakeMapper is a minimal bus.Mapper good enough to drive the PPU in
// isolation: flat CHR RAM, flat nametable RAM with no mirroring.
type fakeMapper struct {
	chr [0x2000]uint8
	nt  [0x1000]uint8
}

func (m *fakeMapper) ReadCpu(addr uint16) uint8      { return 0 }
func (m *fakeMapper) WriteCpu(addr uint16, d uint8)  {}
func (m *fakeMapper) ReadPpuChr(addr uint16) uint8   { return m.chr[addr%0x2000] }
func (m *fakeMapper) WritePpuChr(addr uint16, d uint8) { m.chr[addr%0x2000] = d }
func (m *fakeMapper) ReadPpuNt(addr uint16) uint8    { return m.nt[(addr-0x2000)%0x1000] }
func (m *fakeMapper) WritePpuNt(addr uint16, d uint8) { m.nt[(addr-0x2000)%0x1000] = d }
func (m *fakeMapper) PeekPpu(addr uint16) uint8      { return 0 }
func (m *fakeMapper) PokePpu(addr uint16, d uint8)   {}
func (m *fakeMapper) TickCpu()                       {}
func (m *fakeMapper) TickPpu(scanline, dot int, renderingEnabled bool) {}
func (m *fakeMapper) IRQAsserted() bool              { return false }

func newTestChip() (*Chip, *fakeMapper) {
	m := &fakeMapper{}
	fb := NewFrameBuffer()
	c := NewChip(m, fb)
	c.dotsElapsed = writeBlockCycles // skip the startup write-block for register tests
	return c, m
}

func TestWriteRegisterBlockedDuringWarmup(t *testing.T) {
	c, _ := newTestChip()
	c.dotsElapsed = 0
	c.WriteRegister(0, 0xFF)
	require.Equal(t, uint8(0), c.ctrl)
}

func TestPPUCTRLWriteSetsNametableBitsInT(t *testing.T) {
	c, _ := newTestChip()
	c.WriteRegister(0, 0x03)
	require.Equal(t, uint16(0x0C00), c.t&0x0C00)
}

func TestPPUSTATUSReadClearsVBlankAndLatch(t *testing.T) {
	c, _ := newTestChip()
	c.status |= statusVBlank
	c.w = true
	v := c.ReadRegister(2)
	require.NotZero(t, v&statusVBlank)
	require.Zero(t, c.status&statusVBlank)
	require.False(t, c.w)
}

func TestScrollWriteTwoStepToggle(t *testing.T) {
	c, _ := newTestChip()
	c.WriteRegister(5, 0x7D) // coarse X = 15, fine X = 5
	require.True(t, c.w)
	require.Equal(t, uint16(15), c.t&0x1F)
	require.Equal(t, uint8(5), c.x)

	c.WriteRegister(5, 0x5E)
	require.False(t, c.w)
}

func TestAddrWriteLoadsVOnSecondWrite(t *testing.T) {
	c, _ := newTestChip()
	c.WriteRegister(6, 0x21)
	require.Equal(t, uint16(0), c.v)
	c.WriteRegister(6, 0x08)
	require.Equal(t, uint16(0x2108), c.v)
}

func TestPaletteMirroring(t *testing.T) {
	c, _ := newTestChip()
	c.writePalette(0x3F00, 0x0F)
	require.Equal(t, uint8(0x0F), c.readPalette(0x3F10))
}

func TestOddFrameSkipsLastPreRenderDot(t *testing.T) {
	c, _ := newTestChip()
	c.mask = maskShowBg
	c.scanline = -1
	c.dot = 339
	c.oddFrame = true
	c.advanceDot()
	require.Equal(t, 0, c.dot)
	require.Equal(t, 0, c.scanline)
}

func TestVBlankSetAtScanline241Dot1(t *testing.T) {
	c, _ := newTestChip()
	c.ctrl = ctrlNmiEnable
	c.scanline = 241
	c.dot = 1
	pin := pinout.NewCpuPinout()
	pin = c.Tick(pin)
	require.NotZero(t, c.status&statusVBlank)
	require.False(t, pin.NMIn)
}
