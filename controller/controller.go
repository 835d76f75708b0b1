// Package controller implements the NES controller's $4016/$4017 shift
// register protocol, decoupled from any particular input source; a front
// end (see cmd/display) owns the keymap and calls SetButton.
package controller

// Button indices match the order buttons shift out of the controller:
// A, B, Select, Start, Up, Down, Left, Right.
const (
	ButtonA = iota
	ButtonB
	ButtonSelect
	ButtonStart
	ButtonUp
	ButtonDown
	ButtonLeft
	ButtonRight
)

// Pad is one NES controller port: an 8-bit parallel-in/serial-out shift
// register. While the strobe line is held high the register continuously
// latches live button state; on the falling edge it freezes, and each
// subsequent Read shifts one bit out, low bit first.
type Pad struct {
	buttons [8]bool
	shift   uint8
	strobe  bool
}

// NewPad returns a controller with no buttons held.
func NewPad() *Pad {
	return &Pad{}
}

// SetButton records the live pressed state of one button.
func (p *Pad) SetButton(button int, pressed bool) {
	p.buttons[button] = pressed
}

func (p *Pad) latch() uint8 {
	var v uint8
	for i, pressed := range p.buttons {
		if pressed {
			v |= 1 << uint(i)
		}
	}
	return v
}

// Write handles a CPU write to $4016, the strobe line shared by both
// controller ports.
func (p *Pad) Write(val uint8) {
	p.strobe = val&0x01 != 0
	if p.strobe {
		p.shift = p.latch()
	}
}

// Read handles a CPU read of $4016 or $4017. Bit 0 carries the next
// button state; the upper bits mimic the real controller's open-bus
// behavior, which idles high once polled past button 7.
func (p *Pad) Read() uint8 {
	if p.strobe {
		p.shift = p.latch()
	}
	bit := p.shift & 0x01
	p.shift = (p.shift >> 1) | 0x80
	return bit | 0x40
}
