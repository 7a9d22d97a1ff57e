package cpu

// dispatch decomposes an unprefixed opcode byte into the x/y/z/p/q bit
// fields used throughout the Sharp LR35902 encoding (x = bits 6-7, y = bits
// 3-5, z = bits 0-2, p = y>>1, q = y&1) and executes the operation those
// fields select. It returns false for the handful of byte values with no
// defined instruction (0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED,
// 0xF4, 0xFC, 0xFD).
func (c *CPU) dispatch(opcode uint8) bool {
	x := opcode >> 6
	y := (opcode >> 3) & 0x07
	z := opcode & 0x07
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.dispatchX0(y, z, p, q)
	case 1:
		return c.dispatchX1(y, z)
	case 2:
		c.aluOp(y, c.readR8(z))
		return true
	case 3:
		return c.dispatchX3(y, z, p, q)
	}
	return false
}

func (c *CPU) dispatchX0(y, z, p, q uint8) bool {
	switch z {
	case 0:
		switch {
		case y == 0: // NOP
		case y == 1: // LD (nn),SP
			address := c.fetch16()
			c.bus.Write(address, uint8(c.sp))
			c.tick(1)
			c.bus.Write(address+1, uint8(c.sp>>8))
			c.tick(1)
		case y == 2: // STOP
			c.fetch8()
			c.stopped = true
		case y == 3: // JR d
			e := int8(c.fetch8())
			c.tick(1)
			c.jumpRelative(e)
		default: // JR cc,d
			e := int8(c.fetch8())
			if c.conditionMet(y - 4) {
				c.tick(1)
				c.jumpRelative(e)
			}
		}
		return true
	case 1:
		if q == 0 {
			c.setRP16(p, c.fetch16())
		} else {
			result, flags := add16(c.hl(), c.rp16(p))
			c.tick(1)
			c.setHL(result)
			c.f = (c.f & flagZ) | flags
		}
		return true
	case 2:
		c.dispatchIndirectLoad(p, q)
		return true
	case 3:
		if q == 0 {
			c.setRP16(p, c.rp16(p)+1)
		} else {
			c.setRP16(p, c.rp16(p)-1)
		}
		c.tick(1)
		return true
	case 4:
		value := c.readR8(y)
		result, flags := inc8(value)
		c.writeR8(y, result)
		c.f = (c.f & flagC) | flags
		return true
	case 5:
		value := c.readR8(y)
		result, flags := dec8(value)
		c.writeR8(y, result)
		c.f = (c.f & flagC) | flags
		return true
	case 6:
		c.writeR8(y, c.fetch8())
		return true
	case 7:
		c.dispatchAccumulatorOp(y)
		return true
	}
	return false
}

func (c *CPU) dispatchIndirectLoad(p, q uint8) {
	if q == 0 {
		switch p {
		case 0:
			c.bus.Write(c.bc(), c.a)
		case 1:
			c.bus.Write(c.de(), c.a)
		case 2:
			addr := c.hl()
			c.bus.Write(addr, c.a)
			c.setHL(addr + 1)
		case 3:
			addr := c.hl()
			c.bus.Write(addr, c.a)
			c.setHL(addr - 1)
		}
		c.tick(1)
		return
	}

	switch p {
	case 0:
		c.a = c.bus.Read(c.bc())
	case 1:
		c.a = c.bus.Read(c.de())
	case 2:
		addr := c.hl()
		c.a = c.bus.Read(addr)
		c.setHL(addr + 1)
	case 3:
		addr := c.hl()
		c.a = c.bus.Read(addr)
		c.setHL(addr - 1)
	}
	c.tick(1)
}

func (c *CPU) dispatchAccumulatorOp(y uint8) {
	switch y {
	case 0: // RLCA
		result, flags := rlc8(c.a)
		c.a = result
		c.f = flags &^ flagZ
	case 1: // RRCA
		result, flags := rrc8(c.a)
		c.a = result
		c.f = flags &^ flagZ
	case 2: // RLA
		result, flags := rl8(c.a, c.flag(flagC))
		c.a = result
		c.f = flags &^ flagZ
	case 3: // RRA
		result, flags := rr8(c.a, c.flag(flagC))
		c.a = result
		c.f = flags &^ flagZ
	case 4: // DAA
		result, flags := daa(c.a, c.f)
		c.a = result
		c.f = flags
	case 5: // CPL
		c.a = ^c.a
		c.f |= flagN | flagH
	case 6: // SCF
		c.f = (c.f & flagZ) | flagC
	case 7: // CCF
		newCarry := !c.flag(flagC)
		c.f &= flagZ
		if newCarry {
			c.f |= flagC
		}
	}
}

func (c *CPU) dispatchX1(y, z uint8) bool {
	if y == 6 && z == 6 {
		// HALT, or the halt bug if IME is off but an interrupt is already
		// pending and enabled: the CPU doesn't actually halt, and the next
		// opcode byte gets fetched twice.
		if !c.bus.Interrupts.IME() && c.bus.Interrupts.PendingUnmasked() {
			c.haltBug = true
		} else {
			c.halted = true
		}
		return true
	}

	c.writeR8(y, c.readR8(z))
	return true
}

func (c *CPU) aluOp(y uint8, operand uint8) {
	var result, flags uint8
	switch y {
	case 0:
		result, flags = add8(c.a, operand, false)
	case 1:
		result, flags = add8(c.a, operand, c.flag(flagC))
	case 2:
		result, flags = sub8(c.a, operand, false)
	case 3:
		result, flags = sub8(c.a, operand, c.flag(flagC))
	case 4:
		result, flags = and8(c.a, operand)
	case 5:
		result, flags = xor8(c.a, operand)
	case 6:
		result, flags = or8(c.a, operand)
	case 7: // CP: compute flags only, A is unchanged
		_, flags = sub8(c.a, operand, false)
		c.f = flags
		return
	}
	c.a = result
	c.f = flags
}

func (c *CPU) dispatchX3(y, z, p, q uint8) bool {
	switch z {
	case 0:
		return c.dispatchX3Z0(y)
	case 1:
		return c.dispatchX3Z1(p, q)
	case 2:
		return c.dispatchX3Z2(y)
	case 3:
		return c.dispatchX3Z3(y)
	case 4:
		if y > 3 {
			return false
		}
		address := c.fetch16()
		if c.conditionMet(y) {
			c.tick(1)
			c.push16(c.pc)
			c.pc = address
		}
		return true
	case 5:
		if q == 0 {
			c.tick(1)
			c.push16(c.rp16Stack(p))
			return true
		}
		if p != 0 {
			return false
		}
		address := c.fetch16()
		c.tick(1)
		c.push16(c.pc)
		c.pc = address
		return true
	case 6:
		c.aluOp(y, c.fetch8())
		return true
	case 7:
		c.tick(1)
		c.push16(c.pc)
		c.pc = uint16(y) * 8
		return true
	}
	return false
}

func (c *CPU) dispatchX3Z0(y uint8) bool {
	switch {
	case y <= 3: // RET cc
		c.tick(1)
		if c.conditionMet(y) {
			c.pc = c.pop16()
			c.tick(1)
		}
	case y == 4: // LDH (n),A
		n := c.fetch8()
		c.bus.Write(0xFF00+uint16(n), c.a)
		c.tick(1)
	case y == 5: // ADD SP,e
		e := int8(c.fetch8())
		result, flags := addSP8(c.sp, e)
		c.tick(2)
		c.sp = result
		c.f = flags
	case y == 6: // LDH A,(n)
		n := c.fetch8()
		c.a = c.bus.Read(0xFF00 + uint16(n))
		c.tick(1)
	case y == 7: // LD HL,SP+e
		e := int8(c.fetch8())
		result, flags := addSP8(c.sp, e)
		c.tick(1)
		c.setHL(result)
		c.f = flags
	}
	return true
}

func (c *CPU) dispatchX3Z1(p, q uint8) bool {
	if q == 0 {
		c.setRP16Stack(p, c.pop16())
		return true
	}
	switch p {
	case 0: // RET
		c.pc = c.pop16()
		c.tick(1)
	case 1: // RETI
		c.pc = c.pop16()
		c.tick(1)
		c.bus.Interrupts.Enable()
	case 2: // JP HL
		c.pc = c.hl()
	case 3: // LD SP,HL
		c.sp = c.hl()
		c.tick(1)
	}
	return true
}

func (c *CPU) dispatchX3Z2(y uint8) bool {
	switch {
	case y <= 3: // JP cc,nn
		address := c.fetch16()
		if c.conditionMet(y) {
			c.pc = address
			c.tick(1)
		}
	case y == 4: // LD (C),A
		c.bus.Write(0xFF00+uint16(c.c), c.a)
		c.tick(1)
	case y == 5: // LD (nn),A
		address := c.fetch16()
		c.bus.Write(address, c.a)
		c.tick(1)
	case y == 6: // LD A,(C)
		c.a = c.bus.Read(0xFF00 + uint16(c.c))
		c.tick(1)
	case y == 7: // LD A,(nn)
		address := c.fetch16()
		c.a = c.bus.Read(address)
		c.tick(1)
	}
	return true
}

func (c *CPU) dispatchX3Z3(y uint8) bool {
	switch y {
	case 0: // JP nn
		address := c.fetch16()
		c.pc = address
		c.tick(1)
	case 6: // DI
		c.bus.Interrupts.Disable()
	case 7: // EI
		c.eiPending = true
	default:
		return false
	}
	return true
}
