package main

import (
	"github.com/faiface/pixel/pixelgl"

	"github.com/n-ulricksen/nes-emulator/controller"
)

// keymap binds keyboard keys to the first controller port's buttons.
var keymap = map[int]pixelgl.Button{
	controller.ButtonA:      pixelgl.KeyJ,
	controller.ButtonB:      pixelgl.KeyK,
	controller.ButtonSelect: pixelgl.KeyRightShift,
	controller.ButtonStart:  pixelgl.KeyEnter,
	controller.ButtonUp:     pixelgl.KeyW,
	controller.ButtonDown:   pixelgl.KeyS,
	controller.ButtonLeft:   pixelgl.KeyA,
	controller.ButtonRight:  pixelgl.KeyD,
}

func updateControllerInput(win *pixelgl.Window, pad *controller.Pad) {
	for button, key := range keymap {
		if win.Pressed(key) {
			pad.SetButton(button, true)
		} else if win.JustReleased(key) {
			pad.SetButton(button, false)
		}
	}
}
