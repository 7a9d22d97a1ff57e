package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/example/dmgcore/addr"
)

func TestNewCPUPowerOnState(t *testing.T) {
	c := newTestCPU()
	assert.Equal(t, uint16(0x0100), c.pc)
	assert.Equal(t, uint16(0xFFFE), c.sp)
	assert.Equal(t, uint16(0x0013), c.bc())
	assert.Equal(t, uint16(0x00D8), c.de())
	assert.Equal(t, uint16(0x014D), c.hl())
}

func TestStepFetchesAndExecutesNOP(t *testing.T) {
	c := newTestCPU()
	cycles := c.Step()
	assert.Equal(t, 4, cycles)
	assert.Equal(t, uint16(0x0101), c.pc)
}

func TestInterruptDispatchTakesTwentyCyclesAndVectors(t *testing.T) {
	c := newTestCPU()
	c.bus.Interrupts.Enable()
	c.bus.Interrupts.WriteIE(0xFF)
	c.requestInterrupt(addr.VBlank)

	cycles := c.Step()
	assert.Equal(t, 20, cycles)
	assert.Equal(t, addr.VBlank.Vector(), c.pc)
	assert.False(t, c.bus.Interrupts.IME(), "dispatch disables IME")
}

func TestInterruptPriorityOrderDuringDispatch(t *testing.T) {
	c := newTestCPU()
	c.bus.Interrupts.Enable()
	c.bus.Interrupts.WriteIE(0xFF)
	c.requestInterrupt(addr.Joypad)
	c.requestInterrupt(addr.VBlank)

	c.Step()
	assert.Equal(t, addr.VBlank.Vector(), c.pc, "VBlank has higher priority")
}

func TestEIDelaysIMEByOneInstruction(t *testing.T) {
	c := loadProgram(0xFB, 0x00) // EI ; NOP

	c.Step() // executes EI, sets eiPending
	assert.False(t, c.bus.Interrupts.IME(), "IME does not take effect until after the next instruction")

	c.Step() // executes the NOP; eiPending is consumed at the top of this Step
	assert.True(t, c.bus.Interrupts.IME())
}

func TestRETIEnablesIMEImmediately(t *testing.T) {
	c := loadProgram(0xD9) // RETI
	c.sp = 0xFFFC
	c.bus.Write(0xFFFC, 0x00)
	c.bus.Write(0xFFFD, 0x01) // return address 0x0100

	c.Step()
	assert.True(t, c.bus.Interrupts.IME())
}

func TestHaltWaitsForInterruptAndWakesOnPending(t *testing.T) {
	c := loadProgram(0x76) // HALT
	c.bus.Interrupts.Enable()
	c.bus.Interrupts.WriteIE(0xFF)

	c.Step() // executes HALT
	assert.True(t, c.halted)

	c.requestInterrupt(addr.VBlank)
	c.Step() // services the interrupt, waking the CPU
	assert.False(t, c.halted)
	assert.Equal(t, addr.VBlank.Vector(), c.pc)
}

func TestHaltBugReExecutesNextByteWhenIMEOffWithPendingIRQ(t *testing.T) {
	c := loadProgram(0x76, 0x3C) // HALT ; INC A
	c.bus.Interrupts.Disable()
	c.bus.Interrupts.WriteIE(0xFF)
	c.requestInterrupt(addr.VBlank)

	c.Step() // HALT triggers the halt bug instead of actually halting
	assert.False(t, c.halted)
	assert.True(t, c.haltBug)
	assert.Equal(t, uint16(0x0101), c.pc)

	startA := c.a
	c.Step() // INC A executed once, but PC fails to advance past it
	assert.Equal(t, startA+1, c.a)
	assert.Equal(t, uint16(0x0101), c.pc, "PC did not advance: the next byte is read again")
	assert.False(t, c.haltBug)

	c.Step() // INC A executed a second time from the same address
	assert.Equal(t, startA+2, c.a)
	assert.Equal(t, uint16(0x0102), c.pc)
}
