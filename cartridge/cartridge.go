// Package cartridge parses iNES ROM images and implements the bus.Mapper
// capability interface on top of a per-mapper-number bank-switching chip.
package cartridge

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
)

// iNES v1 header, reference: https://wiki.nesdev.org/w/index.php/INES
type header struct {
	Magic        [4]byte
	PrgRomChunks uint8
	ChrRomChunks uint8
	Flags6       uint8
	Flags7       uint8
	PrgRamSize   uint8
	Flags9       uint8
	Flags10      uint8
	Unused       [5]byte
}

// RomFormatError reports a malformed or truncated ROM image.
type RomFormatError struct {
	Reason string
}

func (e *RomFormatError) Error() string {
	return fmt.Sprintf("malformed ROM image: %s", e.Reason)
}

// UnsupportedMapperError reports an iNES mapper number this console
// doesn't implement.
type UnsupportedMapperError struct {
	ID int
}

func (e *UnsupportedMapperError) Error() string {
	return fmt.Sprintf("mapper %d is not supported", e.ID)
}

// Cartridge is a loaded ROM image: the CPU/PPU-visible bus.Mapper surface
// plus cartridge RAM ($6000-$7FFF) and nametable RAM, layered over a
// mapper-specific bank-switching chip.
type Cartridge struct {
	chip      mapperChip
	mirroring Mirroring

	prgRam [8192]uint8
	vram   [2048]uint8
}

// Load parses an iNES v1 ROM image and returns a Cartridge wired to the
// appropriate mapper chip.
func Load(data []byte) (*Cartridge, error) {
	if len(data) < 16 {
		return nil, errors.WithStack(&RomFormatError{Reason: "file shorter than an iNES header"})
	}

	var h header
	if err := binary.Read(bytes.NewReader(data[:16]), binary.BigEndian, &h); err != nil {
		return nil, errors.Wrap(err, "reading iNES header")
	}
	if h.Magic[0] != 'N' || h.Magic[1] != 'E' || h.Magic[2] != 'S' || h.Magic[3] != 0x1A {
		return nil, errors.WithStack(&RomFormatError{Reason: "missing \"NES\\x1a\" magic"})
	}

	offset := 16
	if h.Flags6&0x04 != 0 {
		offset += 512 // 512-byte trainer, unused by this console.
	}

	prgSize := int(h.PrgRomChunks) * 16 * 1024
	chrSize := int(h.ChrRomChunks) * 8 * 1024
	if offset+prgSize+chrSize > len(data) {
		return nil, errors.WithStack(&RomFormatError{Reason: "PRG/CHR data truncated"})
	}

	prg := data[offset : offset+prgSize]
	offset += prgSize
	var chr []byte
	if chrSize > 0 {
		chr = data[offset : offset+chrSize]
	}

	mirroring := MirrorHorizontal
	if h.Flags6&0x01 != 0 {
		mirroring = MirrorVertical
	}
	if h.Flags6&0x08 != 0 {
		mirroring = MirrorFourScreen
	}

	mapperID := int(h.Flags7&0xF0) | int(h.Flags6>>4)

	var chip mapperChip
	switch mapperID {
	case 0:
		chip = newMapper0(prg, chr)
	case 2:
		chip = newMapper2(prg, chr)
	default:
		return nil, errors.WithStack(&UnsupportedMapperError{ID: mapperID})
	}

	return &Cartridge{chip: chip, mirroring: mirroring}, nil
}

func (c *Cartridge) ReadCpu(addr uint16) uint8 {
	if addr >= 0x6000 && addr < 0x8000 {
		return c.prgRam[addr-0x6000]
	}
	if addr >= 0x8000 {
		return c.chip.ReadPrg(addr)
	}
	return 0
}

func (c *Cartridge) WriteCpu(addr uint16, data uint8) {
	if addr >= 0x6000 && addr < 0x8000 {
		c.prgRam[addr-0x6000] = data
		return
	}
	if addr >= 0x8000 {
		c.chip.WritePrg(addr, data)
	}
}

func (c *Cartridge) ReadPpuChr(addr uint16) uint8 {
	return c.chip.ReadChr(addr)
}

func (c *Cartridge) WritePpuChr(addr uint16, data uint8) {
	c.chip.WriteChr(addr, data)
}

func (c *Cartridge) ReadPpuNt(addr uint16) uint8 {
	return c.vram[nametableIndex(addr, c.mirroring)]
}

func (c *Cartridge) WritePpuNt(addr uint16, data uint8) {
	c.vram[nametableIndex(addr, c.mirroring)] = data
}

func (c *Cartridge) PeekPpu(addr uint16) uint8 {
	if addr < 0x2000 {
		return c.chip.ReadChr(addr)
	}
	return c.vram[nametableIndex(addr, c.mirroring)]
}

func (c *Cartridge) PokePpu(addr uint16, data uint8) {
	if addr < 0x2000 {
		c.chip.WriteChr(addr, data)
		return
	}
	c.vram[nametableIndex(addr, c.mirroring)] = data
}

func (c *Cartridge) TickCpu() { c.chip.TickCpu() }
func (c *Cartridge) TickPpu(scanline, dot int, renderingEnabled bool) {
	c.chip.TickPpu(scanline, dot, renderingEnabled)
}
func (c *Cartridge) IRQAsserted() bool { return c.chip.IRQAsserted() }
