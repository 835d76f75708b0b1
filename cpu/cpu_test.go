package cpu

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/require"

	"github.com/n-ulricksen/nes-emulator/pinout"
)

// flatBus is a 64K byte array behind the bus.CpuBus interface, enough to
// drive the micro-sequencer in isolation without a cartridge or PPU.
type flatBus struct {
	mem [65536]uint8
}

func (b *flatBus) Read(addr uint16) uint8        { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, data uint8) { b.mem[addr] = data }

func newTestChip(t *testing.T, resetVector uint16) (*Chip, *flatBus) {
	t.Helper()
	b := &flatBus{}
	b.mem[RESET_VECTOR] = uint8(resetVector)
	b.mem[RESET_VECTOR+1] = uint8(resetVector >> 8)
	c := NewChip()
	pin := pinout.NewCpuPinout()
	for i := 0; i < 9; i++ {
		pin = c.Tick(b, pin)
	}
	require.Equal(t, resetVector, c.PC, "spew: %s", spew.Sdump(c))
	return c, b
}

func runCycles(c *Chip, b *flatBus, pin pinout.CpuPinout, n int) pinout.CpuPinout {
	for i := 0; i < n; i++ {
		pin = c.Tick(b, pin)
	}
	return pin
}

func TestResetSequence(t *testing.T) {
	c, _ := newTestChip(t, 0x8000)
	require.Equal(t, uint8(0xFD), c.S)
	require.NotZero(t, c.P&P_INTERRUPT)
	require.EqualValues(t, 9, c.Cycles())
}

func TestLDAImmediateSetsFlags(t *testing.T) {
	c, b := newTestChip(t, 0x8000)
	b.mem[0x8000] = 0xA9
	b.mem[0x8001] = 0x00
	pin := pinout.NewCpuPinout()
	runCycles(c, b, pin, 2)
	require.Zero(t, c.A)
	require.NotZero(t, c.P&P_ZERO)
	require.Zero(t, c.P&P_NEGATIVE)
}

func TestAbsoluteXPageCrossAddsCycle(t *testing.T) {
	c, b := newTestChip(t, 0x8000)
	b.mem[0x8000] = 0xBD // LDA abs,X
	b.mem[0x8001] = 0xFF
	b.mem[0x8002] = 0x20
	c.X = 0x01
	b.mem[0x2100] = 0x42
	pin := pinout.NewCpuPinout()
	runCycles(c, b, pin, 4)
	require.NotEqual(t, uint8(0x42), c.A, "should not have completed without the extra cycle")
	runCycles(c, b, pin, 1)
	require.Equal(t, uint8(0x42), c.A)
}

func TestAbsoluteXNoCrossIsFourCycles(t *testing.T) {
	c, b := newTestChip(t, 0x8000)
	b.mem[0x8000] = 0xBD
	b.mem[0x8001] = 0x00
	b.mem[0x8002] = 0x20
	c.X = 0x01
	b.mem[0x2001] = 0x7F
	pin := pinout.NewCpuPinout()
	runCycles(c, b, pin, 4)
	require.Equal(t, uint8(0x7F), c.A)
}

func TestBRKPushesPCAndStatusThenLoadsIrqVector(t *testing.T) {
	c, b := newTestChip(t, 0x8000)
	b.mem[0x8000] = 0x00 // BRK
	b.mem[IRQ_VECTOR] = 0x00
	b.mem[IRQ_VECTOR+1] = 0x90
	pin := pinout.NewCpuPinout()
	pin.IRQn = true
	runCycles(c, b, pin, 7)
	require.Equal(t, uint16(0x9000), c.PC)
	require.NotZero(t, c.P&P_INTERRUPT)
	pushedP := b.mem[0x0100+int(c.S)+1]
	require.NotZero(t, pushedP&P_B, "BRK's pushed status must carry the B flag")
}

func TestNMIHijacksInProgressBRK(t *testing.T) {
	c, b := newTestChip(t, 0x8000)
	b.mem[0x8000] = 0x00 // BRK
	b.mem[IRQ_VECTOR] = 0x00
	b.mem[IRQ_VECTOR+1] = 0x90
	b.mem[NMI_VECTOR] = 0x00
	b.mem[NMI_VECTOR+1] = 0xA0
	pin := pinout.NewCpuPinout()
	// Fetch + padding byte cycles, then assert NMI before the status push.
	pin = runCycles(c, b, pin, 3)
	pin.NMIn = false
	pin = c.Tick(b, pin)
	pin.NMIn = true
	runCycles(c, b, pin, 3)
	require.Equal(t, uint16(0xA000), c.PC, "BRK should have been hijacked onto the NMI vector")
}

func TestBranchNotTakenIsTwoCycles(t *testing.T) {
	c, b := newTestChip(t, 0x8000)
	b.mem[0x8000] = 0xF0 // BEQ
	b.mem[0x8001] = 0x10
	pin := pinout.NewCpuPinout()
	runCycles(c, b, pin, 2)
	require.Equal(t, uint16(0x8002), c.PC)
}

func TestJMPIndirectPageWrapBug(t *testing.T) {
	c, b := newTestChip(t, 0x8000)
	b.mem[0x8000] = 0x6C
	b.mem[0x8001] = 0xFF
	b.mem[0x8002] = 0x30
	b.mem[0x30FF] = 0x34
	b.mem[0x3000] = 0x12 // wrapped-around high byte fetch, not 0x3100
	b.mem[0x3100] = 0xFF
	pin := pinout.NewCpuPinout()
	runCycles(c, b, pin, 5)
	require.Equal(t, uint16(0x1234), c.PC)
}

func TestUndocumentedLAXLoadsBothRegisters(t *testing.T) {
	c, b := newTestChip(t, 0x8000)
	b.mem[0x8000] = 0xA7 // LAX zp
	b.mem[0x8001] = 0x10
	b.mem[0x0010] = 0x55
	pin := pinout.NewCpuPinout()
	runCycles(c, b, pin, 3)
	require.Equal(t, uint8(0x55), c.A)
	require.Equal(t, uint8(0x55), c.X)
}

func TestJAMHaltsAndKeepsReadingUndefinedAddress(t *testing.T) {
	c, b := newTestChip(t, 0x8000)
	b.mem[0x8000] = 0x02 // JAM
	pin := pinout.NewCpuPinout()
	runCycles(c, b, pin, 2)
	require.True(t, c.Halted())
	before := c.Cycles()
	pin = runCycles(c, b, pin, 5)
	require.Equal(t, before+5, c.Cycles())
	require.Equal(t, uint16(0xFFFF), pin.Address)
}
