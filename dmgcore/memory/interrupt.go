package memory

import "github.com/example/dmgcore/addr"

// InterruptController holds the Interrupt Enable (IE) and Interrupt Flag
// (IF) masks plus the master interrupt-enable flag (IME). IME lives here
// rather than on the CPU: the CPU only ever asks the controller whether an
// ISR should be dispatched and what vector to jump to.
type InterruptController struct {
	ie   uint8
	iff  uint8
	ime  bool
}

// NewInterruptController returns a controller with IME off and both masks
// clear, matching power-on state.
func NewInterruptController() *InterruptController {
	return &InterruptController{}
}

// SetIRQ marks the given interrupt as pending in IF.
func (c *InterruptController) SetIRQ(kind addr.Interrupt) {
	c.iff = bitSet(c.iff, kind.Bit())
}

// RemoveIRQ clears the given interrupt's pending bit in IF.
func (c *InterruptController) RemoveIRQ(kind addr.Interrupt) {
	c.iff = bitReset(c.iff, kind.Bit())
}

// Enable sets IME (used by EI/RETI).
func (c *InterruptController) Enable() { c.ime = true }

// Disable clears IME (used by DI and on interrupt dispatch).
func (c *InterruptController) Disable() { c.ime = false }

// IME reports the current state of the master interrupt-enable flag.
func (c *InterruptController) IME() bool { return c.ime }

// HasIRQ reports whether any interrupt is currently pending, independent
// of IME or IE. (HALT's wake check uses PendingUnmasked, which also looks
// at IE.)
func (c *InterruptController) HasIRQ() bool {
	return c.iff != 0
}

// Pending reports whether IME is set and at least one bit is common to both
// IE and IF — i.e. whether an interrupt should be serviced right now.
func (c *InterruptController) Pending() bool {
	return c.ime && (c.ie&c.iff) != 0
}

// PendingUnmasked reports whether any enabled interrupt is pending,
// regardless of IME. Used to detect the HALT wake condition and the halt
// bug, both of which only look at IE & IF.
func (c *InterruptController) PendingUnmasked() bool {
	return (c.ie & c.iff) != 0
}

// ISRVector returns the vector of the highest-priority pending, enabled
// interrupt and true, clearing its IF bit as a side effect. If IME is off
// or nothing is pending it returns (0, false) and leaves state untouched.
func (c *InterruptController) ISRVector() (uint16, bool) {
	if !c.ime {
		return 0, false
	}
	common := c.ie & c.iff
	if common == 0 {
		return 0, false
	}
	for bitPos := uint8(0); bitPos < 5; bitPos++ {
		if common&(1<<bitPos) != 0 {
			kind := addr.Interrupt(bitPos)
			c.RemoveIRQ(kind)
			return kind.Vector(), true
		}
	}
	return 0, false
}

// ReadIE returns the raw IE register byte.
func (c *InterruptController) ReadIE() uint8 { return c.ie }

// WriteIE sets the IE register byte (only the low 5 bits are meaningful).
func (c *InterruptController) WriteIE(value uint8) { c.ie = value }

// ReadIF returns the IF register byte with the unused upper 3 bits read
// back as 0.
func (c *InterruptController) ReadIF() uint8 { return c.iff & 0x1F }

// WriteIF sets the IF register's low 5 bits.
func (c *InterruptController) WriteIF(value uint8) { c.iff = value & 0x1F }

func bitSet(value, index uint8) uint8   { return value | (1 << index) }
func bitReset(value, index uint8) uint8 { return value &^ (1 << index) }
