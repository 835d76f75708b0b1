// Package console wires the CPU, DMA controller, PPU, cartridge mapper,
// and controller ports behind the shared CpuBus and pinout-passing
// protocol, and drives the master clock that ticks them in lockstep.
package console

import (
	"github.com/n-ulricksen/nes-emulator/bus"
	"github.com/n-ulricksen/nes-emulator/cartridge"
	"github.com/n-ulricksen/nes-emulator/controller"
	"github.com/n-ulricksen/nes-emulator/cpu"
	"github.com/n-ulricksen/nes-emulator/dma"
	"github.com/n-ulricksen/nes-emulator/pinout"
	"github.com/n-ulricksen/nes-emulator/ppu"
)

// nullApu discards DMC samples. Audio synthesis is out of scope for this
// console; only the DMC channel's bus-mastering behavior is modeled, so
// the byte it fetches needs somewhere to land.
type nullApu struct {
	lastDmcSample uint8
}

func (a *nullApu) UpdateDmcSample(data uint8) { a.lastDmcSample = data }

// Console is a fully wired NES: CPU work RAM, the PPU, a DMA controller,
// an inserted cartridge, and two controller ports, all reachable from the
// CPU's 16-bit address space through Read/Write.
type Console struct {
	ram [2048]uint8

	Cpu  *cpu.Chip
	Ppu  *ppu.Chip
	Dma  *dma.Controller
	Cart *cartridge.Cartridge
	Pad1 *controller.Pad
	Pad2 *controller.Pad

	apu *nullApu
	fb  *ppu.FrameBuffer

	pin pinout.CpuPinout
}

// New returns a Console with a cartridge already inserted. It does not run
// the reset sequence; call Reset (or just start calling Step, since a
// fresh cpu.Chip already powers up mid reset) before relying on PC.
func New(cart *cartridge.Cartridge) *Console {
	fb := ppu.NewFrameBuffer()
	apu := &nullApu{}

	c := &Console{
		Cpu:  cpu.NewChip(),
		Cart: cart,
		Pad1: controller.NewPad(),
		Pad2: controller.NewPad(),
		apu:  apu,
		fb:   fb,
		pin:  pinout.NewCpuPinout(),
	}
	c.Ppu = ppu.NewChip(cart, fb)
	c.Dma = dma.NewController(apu)
	return c
}

// FrameBuffer exposes the PPU's output for a front end to blit.
func (c *Console) FrameBuffer() *ppu.FrameBuffer { return c.fb }

// Reset pulses the CPU's reset line: the CPU re-enters its 9-cycle reset
// sequence. The PPU is not reset; its write-block warmup timer counts from
// power-on only and does not restart here.
func (c *Console) Reset() {
	c.Cpu.Reset()
}

// Step runs one master-clock cycle: the CPU runs first against whatever
// RDY state DMA left on the pinout from the previous cycle, then the DMA
// controller updates RDY (and drives the bus itself, if it owns it) for
// the cycle that follows, then three PPU dots, matching the 1:1:3
// CPU:DMA:PPU clock ratio. A DMA-asserted RDY this cycle therefore halts
// the CPU starting next cycle, not this one.
func (c *Console) Step() {
	c.pin.IRQn = !c.Cart.IRQAsserted()

	c.pin = c.Cpu.Tick(c, c.pin)
	c.pin = c.Dma.Tick(c, c.pin)
	c.Cart.TickCpu()

	for i := 0; i < 3; i++ {
		c.pin = c.Ppu.Tick(c.pin)
	}
}

// RunFrame steps the console until the PPU completes one frame (a
// pre-render scanline boundary), matching the teacher's Bus.Run
// frame-at-a-time pacing.
func (c *Console) RunFrame() {
	for {
		prev := c.Ppu.Scanline()
		c.Step()
		if prev != -1 && c.Ppu.Scanline() == -1 {
			return
		}
	}
}

var _ bus.CpuBus = (*Console)(nil)

// Read services a CPU (or DMA, while bus-mastering) read of the 16-bit
// address space: 2KB work RAM mirrored through $1FFF, PPU registers
// mirrored every 8 bytes through $3FFF, the controller ports at $4016 and
// $4017, and the cartridge's PRG space at $4020 and up.
func (c *Console) Read(addr uint16) uint8 {
	switch {
	case addr < 0x2000:
		return c.ram[addr&0x07FF]
	case addr < 0x4000:
		return c.Ppu.ReadRegister(addr & 7)
	case addr == 0x4016:
		return c.Pad1.Read()
	case addr == 0x4017:
		return c.Pad2.Read()
	case addr < 0x4020:
		// APU and remaining IO registers: audio synthesis is out of
		// scope, so these read back as open bus, the last byte driven on
		// the bus.
		return c.pin.Data
	default:
		return c.Cart.ReadCpu(addr)
	}
}

// Write services a CPU (or DMA) write to the 16-bit address space.
func (c *Console) Write(addr uint16, data uint8) {
	switch {
	case addr < 0x2000:
		c.ram[addr&0x07FF] = data
	case addr < 0x4000:
		c.Ppu.WriteRegister(addr&7, data)
	case addr == 0x4014:
		c.Dma.StartOamDma(data)
	case addr == 0x4016:
		c.Pad1.Write(data)
		c.Pad2.Write(data)
	case addr < 0x4020:
		// Remaining APU registers, out of scope.
	default:
		c.Cart.WriteCpu(addr, data)
	}
}
