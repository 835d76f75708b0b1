// Command display runs a ROM with a window, rendering the PPU's frame
// buffer at 3x scale and reading player input from the keyboard.
package main

import (
	"flag"
	"image"
	"image/color"
	"log"
	"os"

	"github.com/faiface/pixel"
	"github.com/faiface/pixel/pixelgl"
	"github.com/pkg/errors"
	"golang.org/x/image/colornames"

	"github.com/n-ulricksen/nes-emulator/cartridge"
	"github.com/n-ulricksen/nes-emulator/console"
)

const (
	nesResW float64 = 256
	nesResH float64 = 240
	scale   float64 = 3
)

func main() {
	romPath := flag.String("rom", "", "path to an iNES ROM image")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("display: -rom is required")
	}

	nes, err := load(*romPath)
	if err != nil {
		log.Fatalf("display: %+v", err)
	}

	pixelgl.Run(func() { run(nes) })
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

func run(nes *console.Console) {
	cfg := pixelgl.WindowConfig{
		Title:  "NES Emulator",
		Bounds: pixel.R(0, 0, nesResW*scale, nesResH*scale),
		VSync:  true,
	}
	win, err := pixelgl.NewWindow(cfg)
	if err != nil {
		log.Fatal("display: unable to create window\n", err)
	}

	rgba := image.NewRGBA(image.Rect(0, 0, int(nesResW), int(nesResH)))
	center := pixel.PictureDataFromImage(rgba).Bounds().Center().Scaled(scale)
	matrix := pixel.IM.Moved(center).Scaled(center, scale)

	for !win.Closed() {
		nes.RunFrame()
		updateControllerInput(win, nes.Pad1)

		blit(rgba, nes)
		win.Clear(colornames.Black)
		sprite := pixel.NewSprite(pixel.PictureDataFromImage(rgba), rgba.Bounds())
		sprite.Draw(win, matrix)
		win.Update()
	}
}

func blit(rgba *image.RGBA, nes *console.Console) {
	fb := nes.FrameBuffer()
	for y := 0; y < int(nesResH); y++ {
		for x := 0; x < int(nesResW); x++ {
			v := fb.Get(x, y)
			idx := v & 0x3F
			emphasis := uint8(v >> 6)
			rgba.SetRGBA(x, int(nesResH)-1-y, emphasize(hardwarePalette[idx], emphasis))
		}
	}
}

// emphasize approximates the PPU's color-emphasis bits: on real NTSC
// hardware they shift the composite signal's gain, which in RGB terms
// roughly dims the two channels NOT being emphasized.
func emphasize(c color.RGBA, bits uint8) color.RGBA {
	if bits == 0 {
		return c
	}
	const dim = 0.75
	r, g, b := float64(c.R), float64(c.G), float64(c.B)
	if bits&0x01 != 0 { // red emphasized
		g *= dim
		b *= dim
	}
	if bits&0x02 != 0 { // green emphasized
		r *= dim
		b *= dim
	}
	if bits&0x04 != 0 { // blue emphasized
		r *= dim
		g *= dim
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: c.A}
}
