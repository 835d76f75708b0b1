// Command nestrace runs a ROM headlessly for a fixed number of master
// clock cycles and prints CPU state, useful for driving instruction-level
// test ROMs (nestest and similar) without a display.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"

	"github.com/n-ulricksen/nes-emulator/cartridge"
	"github.com/n-ulricksen/nes-emulator/console"
)

func main() {
	romPath := flag.String("rom", "", "path to an iNES ROM image")
	cycles := flag.Uint64("cycles", 100000, "number of master clock cycles to run")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("nestrace: -rom is required")
	}

	nes, err := load(*romPath)
	if err != nil {
		log.Fatalf("nestrace: %+v", err)
	}

	for i := uint64(0); i < *cycles && !nes.Cpu.Halted(); i++ {
		nes.Step()
	}

	fmt.Printf("PC=%04X A=%02X X=%02X Y=%02X S=%02X P=%02X cycles=%d halted=%v\n",
		nes.Cpu.PC, nes.Cpu.A, nes.Cpu.X, nes.Cpu.Y, nes.Cpu.S, nes.Cpu.P,
		nes.Cpu.Cycles(), nes.Cpu.Halted())
}

func load(path string) (*console.Console, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	cart, err := cartridge.Load(data)
	if err != nil {
		return nil, errors.Wrapf(err, "loading cartridge from %s", path)
	}
	return console.New(cart), nil
}
