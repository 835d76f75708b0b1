package controller

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShiftsOutButtonsInOrder(t *testing.T) {
	p := NewPad()
	p.SetButton(ButtonA, true)
	p.SetButton(ButtonUp, true)

	p.Write(0x01)
	p.Write(0x00)

	var bits [8]uint8
	for i := range bits {
		bits[i] = p.Read() & 0x01
	}
	require.Equal(t, uint8(1), bits[ButtonA])
	require.Equal(t, uint8(1), bits[ButtonUp])
	require.Equal(t, uint8(0), bits[ButtonB])
}

func TestReadPastEighthBitReturnsOne(t *testing.T) {
	p := NewPad()
	p.Write(0x01)
	p.Write(0x00)
	for i := 0; i < 8; i++ {
		p.Read()
	}
	require.Equal(t, uint8(1), p.Read()&0x01)
}

func TestStrobeHighContinuouslyLatchesButtonA(t *testing.T) {
	p := NewPad()
	p.Write(0x01)
	p.SetButton(ButtonA, true)
	require.Equal(t, uint8(1), p.Read()&0x01)
	p.SetButton(ButtonA, false)
	require.Equal(t, uint8(0), p.Read()&0x01)
}
