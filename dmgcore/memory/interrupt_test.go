package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/dmgcore/addr"
)

func TestInterruptControllerSetAndISRVector(t *testing.T) {
	c := NewInterruptController()
	c.Enable()
	c.WriteIE(0xFF)

	c.SetIRQ(addr.Timer)
	vector, ok := c.ISRVector()
	assert.True(t, ok)
	assert.Equal(t, addr.Timer.Vector(), vector)

	// servicing the ISR clears the IF bit.
	assert.False(t, c.PendingUnmasked())
}

func TestInterruptControllerPriorityOrder(t *testing.T) {
	c := NewInterruptController()
	c.Enable()
	c.WriteIE(0xFF)

	c.SetIRQ(addr.Joypad)
	c.SetIRQ(addr.VBlank)

	vector, ok := c.ISRVector()
	assert.True(t, ok)
	assert.Equal(t, addr.VBlank.Vector(), vector, "VBlank has higher priority than Joypad")
}

func TestInterruptControllerRequiresIME(t *testing.T) {
	c := NewInterruptController()
	c.WriteIE(0xFF)
	c.SetIRQ(addr.VBlank)

	_, ok := c.ISRVector()
	assert.False(t, ok, "no ISR dispatch while IME is off")
	assert.True(t, c.PendingUnmasked(), "still observably pending for the halt-wake check")
}

func TestInterruptControllerIFReadBack(t *testing.T) {
	c := NewInterruptController()
	c.WriteIF(0x01)
	assert.Equal(t, uint8(0x01), c.ReadIF(), "upper 3 bits always read as 0")

	c.WriteIF(0x00)
	assert.Equal(t, uint8(0x00), c.ReadIF(), "a write of 0 round-trips to 0")
}
