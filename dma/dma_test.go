package dma

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n-ulricksen/nes-emulator/pinout"
)

type fakeBus struct {
	mem     [65536]uint8
	writes  []uint16
	oam2004 []uint8
}

func (b *fakeBus) Read(addr uint16) uint8 { return b.mem[addr] }
func (b *fakeBus) Write(addr uint16, data uint8) {
	b.writes = append(b.writes, addr)
	if addr == 0x2004 {
		b.oam2004 = append(b.oam2004, data)
	}
}

func TestOamDmaCopies256Bytes(t *testing.T) {
	b := &fakeBus{}
	for i := 0; i < 256; i++ {
		b.mem[0x0200+i] = uint8(i)
	}
	d := NewController(nil)
	d.StartOamDma(0x02)

	pin := pinout.NewCpuPinout()
	cycles := 0
	for !d.Idle() {
		pin = d.Tick(b, pin)
		cycles++
		require.Less(t, cycles, 1000, "DMA never completed")
	}
	require.Len(t, b.oam2004, 256)
	for i, v := range b.oam2004 {
		require.Equal(t, uint8(i), v)
	}
}

func TestOamDmaTakes514CyclesWhenTriggeredOnEvenCycle(t *testing.T) {
	b := &fakeBus{}
	d := NewController(nil)
	d.StartOamDma(0x02)

	pin := pinout.NewCpuPinout()
	cycles := 0
	for !d.Idle() {
		pin = d.Tick(b, pin)
		cycles++
	}
	require.Equal(t, 514, cycles)
}

func TestOamDmaTakes513CyclesWhenTriggeredOnOddCycle(t *testing.T) {
	b := &fakeBus{}
	d := NewController(nil)
	pin := pinout.NewCpuPinout()

	// Burn one idle cycle so the halt cycle lands on an odd (get) count.
	pin = d.Tick(b, pin)
	d.StartOamDma(0x02)

	cycles := 0
	for !d.Idle() {
		pin = d.Tick(b, pin)
		cycles++
	}
	require.Equal(t, 513, cycles)
}

func TestDmcTakesPriorityOverOam(t *testing.T) {
	b := &fakeBus{}
	b.mem[0x4000] = 0xAB
	var delivered uint8
	apu := apuStub{deliver: func(v uint8) { delivered = v }}
	d := NewController(apu)
	d.StartOamDma(0x02)
	d.RequestDmcSample(0x4000)

	pin := pinout.NewCpuPinout()
	for d.dmcState != DmcIdle {
		pin = d.Tick(b, pin)
	}
	require.Equal(t, uint8(0xAB), delivered)
	require.NotEqual(t, OamIdle, d.oamState, "OAM transfer should still be pending after the DMC fetch finishes")
}

type apuStub struct {
	deliver func(uint8)
}

func (a apuStub) UpdateDmcSample(v uint8) { a.deliver(v) }
