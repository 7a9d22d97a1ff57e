// Package cpu implements the Sharp LR35902 instruction set: fetch/decode/
// execute, the flag-computing ALU, and interrupt dispatch. Opcode dispatch
// is built from bit-field decomposition of the encoding (see decode.go)
// rather than a 256-entry function table, since the unprefixed opcode page
// is itself laid out as a small number of repeating bit fields.
package cpu

import (
	"fmt"

	"github.com/example/dmgcore/addr"
	"github.com/example/dmgcore/memory"
)

// CPU is the Sharp LR35902 core. IME lives in the bus's interrupt
// controller, not here: the CPU only asks it whether an interrupt is
// pending and acknowledges the one it services.
type CPU struct {
	bus *memory.Bus

	a, b, c, d, e, h, l, f uint8
	sp, pc                 uint16

	cycles uint64

	eiPending bool
	halted    bool
	haltBug   bool
	stopped   bool

	currentOpcode uint16
}

// New returns a CPU wired to bus, in the post-boot-ROM power-on state.
func New(bus *memory.Bus) *CPU {
	c := &CPU{bus: bus}
	c.a, c.f = 0x01, 0xB0
	c.setBC(0x0013)
	c.setDE(0x00D8)
	c.setHL(0x014D)
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

// PC returns the program counter, mostly useful for tests and tracing.
func (c *CPU) PC() uint16 { return c.pc }

// Cycles returns the total number of T-cycles executed so far.
func (c *CPU) Cycles() uint64 { return c.cycles }

// tick advances the bus by mCycles M-cycles (4 T-cycles each).
func (c *CPU) tick(mCycles int) {
	for i := 0; i < mCycles*4; i++ {
		c.bus.Tick()
		c.cycles++
	}
}

func (c *CPU) fetch8() uint8 {
	v := c.bus.Read(c.pc)
	c.pc++
	c.tick(1)
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(value uint16) {
	c.sp--
	c.bus.Write(c.sp, uint8(value>>8))
	c.tick(1)
	c.sp--
	c.bus.Write(c.sp, uint8(value))
	c.tick(1)
}

func (c *CPU) pop16() uint16 {
	lo := c.bus.Read(c.sp)
	c.tick(1)
	c.sp++
	hi := c.bus.Read(c.sp)
	c.tick(1)
	c.sp++
	return uint16(hi)<<8 | uint16(lo)
}

// Step services any pending OAM DMA, then does exactly one of: dispatch one
// pending interrupt (waking a halted CPU), idle for one M-cycle while
// halted, or fetch and execute one instruction. It returns the number of
// T-cycles the step consumed.
func (c *CPU) Step() int {
	before := c.cycles

	c.bus.ServiceDMA()

	serviced := c.handleInterrupts()
	if serviced {
		return int(c.cycles - before)
	}

	if c.halted {
		c.tick(1)
		return int(c.cycles - before)
	}

	if c.eiPending {
		c.eiPending = false
		c.bus.Interrupts.Enable()
	}

	c.execute()

	return int(c.cycles - before)
}

// handleInterrupts services the highest-priority pending, enabled
// interrupt, per spec §9: two internal M-cycles, two stack pushes, then one
// M-cycle to jump to the vector, for a total of 20 cycles (5 M-cycles). If the CPU
// is halted it wakes regardless of IME, but only dispatches if IME is set.
func (c *CPU) handleInterrupts() bool {
	if c.halted && c.bus.Interrupts.PendingUnmasked() {
		c.halted = false
	}

	if !c.bus.Interrupts.IME() {
		return false
	}

	vector, ok := c.bus.Interrupts.ISRVector()
	if !ok {
		return false
	}

	c.bus.Interrupts.Disable()
	c.tick(2) // two internal M-cycles before the pushes begin
	c.push16(c.pc)
	c.pc = vector
	c.tick(1) // one more to load the vector into PC

	return true
}

// execute fetches the next opcode and dispatches it. Decoding an opcode
// this core does not implement is a programming error, not a runtime
// condition a caller can recover from, so it panics.
func (c *CPU) execute() {
	opcode := c.fetch8()
	if c.haltBug {
		// The halt bug: PC failed to advance past this opcode, so the next
		// fetch reads the same byte again.
		c.pc--
		c.haltBug = false
	}
	c.currentOpcode = uint16(opcode)

	if opcode == 0xCB {
		cb := c.fetch8()
		c.currentOpcode = 0xCB00 | uint16(cb)
		c.executeCB(cb)
		return
	}

	if !c.dispatch(opcode) {
		panic(fmt.Sprintf("cpu: unimplemented opcode 0x%02X at 0x%04X", opcode, c.pc-1))
	}
}

// jumpRelative implements the displacement shared by JR and JR cc.
func (c *CPU) jumpRelative(e int8) {
	c.pc = uint16(int32(c.pc) + int32(e))
}

// conditionMet evaluates the 2-bit condition field used by JR/JP/CALL/RET:
// NZ,Z,NC,C.
func (c *CPU) conditionMet(cc uint8) bool {
	switch cc & 0x03 {
	case 0:
		return !c.flag(flagZ)
	case 1:
		return c.flag(flagZ)
	case 2:
		return !c.flag(flagC)
	default:
		return c.flag(flagC)
	}
}

// requestInterrupt is a convenience passthrough used by tests.
func (c *CPU) requestInterrupt(kind addr.Interrupt) {
	c.bus.Interrupts.SetIRQ(kind)
}
