package cpu

// executeCB decomposes a CB-prefixed opcode the same way dispatch does: x =
// bits 6-7 selects the operation group (rotate/shift, BIT, RES, SET), y =
// bits 3-5 selects the sub-operation or bit index, z = bits 0-2 selects the
// 3-bit register operand (with 6 routed through (HL)).
func (c *CPU) executeCB(opcode uint8) {
	x := opcode >> 6
	y := (opcode >> 3) & 0x07
	z := opcode & 0x07

	switch x {
	case 0:
		value := c.readR8(z)
		result, flags := c.shiftOp(y, value)
		c.writeR8(z, result)
		c.f = flags
	case 1: // BIT y,r
		value := c.readR8(z)
		flags := bitTest(value, y)
		c.f = (c.f & flagC) | flags
	case 2: // RES y,r
		value := c.readR8(z)
		c.writeR8(z, resBit(value, y))
	case 3: // SET y,r
		value := c.readR8(z)
		c.writeR8(z, setBit(value, y))
	}
}

// shiftOp dispatches the eight rotate/shift operations selected by CB's y
// field when x == 0: RLC,RRC,RL,RR,SLA,SRA,SWAP,SRL. RL/RR fold in the
// CPU's current carry flag; the rest ignore it.
func (c *CPU) shiftOp(y uint8, value uint8) (uint8, uint8) {
	switch y {
	case 0:
		return rlc8(value)
	case 1:
		return rrc8(value)
	case 2:
		return rl8(value, c.flag(flagC))
	case 3:
		return rr8(value, c.flag(flagC))
	case 4:
		return sla8(value)
	case 5:
		return sra8(value)
	case 6:
		return swap8(value)
	default:
		return srl8(value)
	}
}
