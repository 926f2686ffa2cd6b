// Package joypad models the 2x4 button matrix and its select lines.
package joypad

import "github.com/tamberwick/goboycore/internal/addr"

// Button identifies one of the 8 physical inputs, in the canonical bit
// order of the external SetButtons mask: Right, Left, Up, Down, A, B,
// Select, Start.
type Button uint8

const (
	Right Button = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Joypad holds the latched button state (active-low: 0 means held) and the
// two select lines that choose which nibble a register read exposes.
type Joypad struct {
	buttons uint8 // low nibble: Start,Select,B,A from bit3..0, active low
	dpad    uint8 // low nibble: Down,Up,Left,Right from bit3..0, active low

	selectButtons bool // P1 bit 5, active low
	selectDpad    bool // P1 bit 4, active low
}

// New returns a Joypad with nothing pressed.
func New() *Joypad {
	return &Joypad{buttons: 0x0F, dpad: 0x0F, selectButtons: true, selectDpad: true}
}

// Read returns the P1 register value: select bits plus the OR of whichever
// rows are selected (both rows OR together if both lines are active).
func (j *Joypad) Read() uint8 {
	result := uint8(0x0F)
	if !j.selectDpad {
		result &= j.dpad
	}
	if !j.selectButtons {
		result &= j.buttons
	}

	v := result & 0x0F
	if j.selectButtons {
		v |= 0x20
	}
	if j.selectDpad {
		v |= 0x10
	}
	return v | 0xC0
}

// Write updates only the two select bits; the data nibble is read-only.
func (j *Joypad) Write(value uint8) {
	j.selectButtons = value&0x20 != 0
	j.selectDpad = value&0x10 != 0
}

// SetState applies a full active-low 8-bit mask in the canonical bit order
// documented for the external SetButtons operation, returning any newly
// raised interrupt from 1->0 transitions of a currently-selected bit.
func (j *Joypad) SetState(mask uint8) uint8 {
	newDpad := uint8(0x0F)
	if mask&(1<<Right) == 0 {
		newDpad &^= 0x01
	}
	if mask&(1<<Left) == 0 {
		newDpad &^= 0x02
	}
	if mask&(1<<Up) == 0 {
		newDpad &^= 0x04
	}
	if mask&(1<<Down) == 0 {
		newDpad &^= 0x08
	}

	newButtons := uint8(0x0F)
	if mask&(1<<A) == 0 {
		newButtons &^= 0x01
	}
	if mask&(1<<B) == 0 {
		newButtons &^= 0x02
	}
	if mask&(1<<Select) == 0 {
		newButtons &^= 0x04
	}
	if mask&(1<<Start) == 0 {
		newButtons &^= 0x08
	}

	before := j.Read()
	j.dpad = newDpad
	j.buttons = newButtons
	after := j.Read()

	// Any bit that was 1 and is now 0 in the visible register triggers the
	// interrupt, regardless of which row it came from.
	if before&^after&0x0F != 0 {
		return uint8(addr.Joypad)
	}
	return 0
}
