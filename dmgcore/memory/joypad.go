package memory

import "github.com/example/dmgcore/bit"

// JoypadKey identifies one of the eight physical buttons.
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// Joypad models the input matrix: an active-low selector (P14/P15) and an
// active-low key-state byte, per spec §4.6. Pressing a key that was not
// already held requests a Joypad IRQ, whichever row is selected.
type Joypad struct {
	selector uint8 // bits 4-5 of P1, as last written
	buttons  uint8 // A,B,Select,Start in bits 0-3, active-low
	dpad     uint8 // Right,Left,Up,Down in bits 0-3, active-low

	InterruptHandler func()
}

// NewJoypad returns a joypad with no keys pressed.
func NewJoypad() *Joypad {
	return &Joypad{
		selector: 0x30,
		buttons:  0x0F,
		dpad:     0x0F,
	}
}

// Read assembles the P1 register byte from the selector and key state.
func (j *Joypad) Read() uint8 {
	result := uint8(0xC0) | j.selector

	selectDpad := !bit.IsSet(4, j.selector)
	selectButtons := !bit.IsSet(5, j.selector)

	switch {
	case selectButtons && selectDpad:
		result |= j.buttons & j.dpad
	case selectButtons:
		result |= j.buttons
	case selectDpad:
		result |= j.dpad
	default:
		result |= 0x0F
	}

	return result
}

// Write updates the row selector bits (4-5); the rest of P1 is read-only.
func (j *Joypad) Write(value uint8) {
	j.selector = value & 0x30
}

// Press marks a key as held down, requesting a Joypad IRQ if this causes a
// high-to-low transition on the relevant nibble.
func (j *Joypad) Press(key JoypadKey) {
	beforeButtons, beforeDpad := j.buttons, j.dpad
	j.setKey(key, false)
	fell := beforeButtons&^j.buttons | beforeDpad&^j.dpad

	if fell != 0 && j.InterruptHandler != nil {
		j.InterruptHandler()
	}
}

// Release marks a key as no longer held.
func (j *Joypad) Release(key JoypadKey) {
	j.setKey(key, true)
}

func (j *Joypad) setKey(key JoypadKey, released bool) {
	var target *uint8
	var idx uint8

	switch key {
	case JoypadRight:
		target, idx = &j.dpad, 0
	case JoypadLeft:
		target, idx = &j.dpad, 1
	case JoypadUp:
		target, idx = &j.dpad, 2
	case JoypadDown:
		target, idx = &j.dpad, 3
	case JoypadA:
		target, idx = &j.buttons, 0
	case JoypadB:
		target, idx = &j.buttons, 1
	case JoypadSelect:
		target, idx = &j.buttons, 2
	case JoypadStart:
		target, idx = &j.buttons, 3
	default:
		return
	}

	if released {
		*target = bit.Set(idx, *target)
	} else {
		*target = bit.Reset(idx, *target)
	}
}
