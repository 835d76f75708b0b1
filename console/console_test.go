package console

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n-ulricksen/nes-emulator/cartridge"
)

func buildNromCart(t *testing.T, resetVector uint16, program []byte) *cartridge.Cartridge {
	header := []byte{'N', 'E', 'S', 0x1A, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
	prg := make([]byte, 16*1024)
	copy(prg, program)
	prg[0x3FFC] = byte(resetVector)
	prg[0x3FFD] = byte(resetVector >> 8)
	chr := make([]byte, 8*1024)

	data := append(header, prg...)
	data = append(data, chr...)

	cart, err := cartridge.Load(data)
	require.NoError(t, err)
	return cart
}

func TestResetLoadsPCFromVector(t *testing.T) {
	cart := buildNromCart(t, 0x8000, []byte{0xEA, 0xEA, 0xEA})
	nes := New(cart)

	for i := 0; i < 9; i++ {
		nes.Step()
	}
	require.Equal(t, uint16(0x8000), nes.Cpu.PC)
}

func TestWorkRamReadWriteThroughBus(t *testing.T) {
	cart := buildNromCart(t, 0x8000, []byte{0xEA})
	nes := New(cart)

	nes.Write(0x0000, 0x42)
	require.Equal(t, uint8(0x42), nes.Read(0x0000))
	// Work RAM is mirrored every 2KB through $1FFF.
	require.Equal(t, uint8(0x42), nes.Read(0x0800))
}

func TestOamDmaDeliversThroughConsoleBus(t *testing.T) {
	cart := buildNromCart(t, 0x8000, []byte{0xEA})
	nes := New(cart)
	for i := 0; i < 256; i++ {
		nes.ram[0x0200+i] = uint8(i)
	}

	nes.Write(0x4014, 0x02)
	for i := 0; i < 600 && !nes.Dma.Idle(); i++ {
		nes.Step()
	}
	require.True(t, nes.Dma.Idle())

	nes.Write(0x2003, 200) // OAMADDR
	require.Equal(t, uint8(200), nes.Read(0x2004))
}
