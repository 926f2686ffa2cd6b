package cpu

// execute decodes and runs the unprefixed opcode fetched by Step, returning
// the number of M-cycles it consumed. The top two bits of the opcode select
// one of four blocks, as described by the Game Boy's opcode table; within a
// block, sub-fields pick the operand registers via the r8/r16/r16stk/
// r16mem/cc index families defined in registers.go.
func (c *CPU) execute(b Bus, opcode uint8) int {
	switch opcode >> 6 {
	case 0:
		return c.execBlock0(b, opcode)
	case 1:
		return c.execBlock1(b, opcode)
	case 2:
		return c.execBlock2(b, opcode)
	default:
		return c.execBlock3(b, opcode)
	}
}

func (c *CPU) execBlock0(b Bus, opcode uint8) int {
	switch {
	case opcode == 0x00: // nop
		return 1
	case opcode == 0x10: // stop
		c.readImm8(b)
		c.Stopped = true
		return 1
	case opcode&0xCF == 0x01: // ld r16, imm16
		c.setR16(opcode>>4&3, c.readImm16(b))
		return 3
	case opcode&0xCF == 0x02: // ld [r16mem], a
		b.Write(c.getR16Mem(opcode>>4&3), c.A)
		return 2
	case opcode&0xCF == 0x0A: // ld a, [r16mem]
		c.A = b.Read(c.getR16Mem(opcode>>4&3))
		return 2
	case opcode == 0x08: // ld [imm16], sp
		addr := c.readImm16(b)
		b.Write(addr, uint8(c.SP))
		b.Write(addr+1, uint8(c.SP>>8))
		return 5
	case opcode&0xCF == 0x03: // inc r16
		c.setR16(opcode>>4&3, c.getR16(opcode>>4&3)+1)
		return 2
	case opcode&0xCF == 0x0B: // dec r16
		c.setR16(opcode>>4&3, c.getR16(opcode>>4&3)-1)
		return 2
	case opcode&0xCF == 0x09: // add hl, r16
		c.addHL(c.getR16(opcode >> 4 & 3))
		return 2
	case opcode&0xC7 == 0x04: // inc r8
		idx := opcode >> 3 & 7
		v := c.getR8(b, idx)
		c.setR8(b, idx, c.inc8(v))
		if idx == r8HLInd {
			return 3
		}
		return 1
	case opcode&0xC7 == 0x05: // dec r8
		idx := opcode >> 3 & 7
		v := c.getR8(b, idx)
		c.setR8(b, idx, c.dec8(v))
		if idx == r8HLInd {
			return 3
		}
		return 1
	case opcode&0xC7 == 0x06: // ld r8, imm8
		idx := opcode >> 3 & 7
		c.setR8(b, idx, c.readImm8(b))
		if idx == r8HLInd {
			return 3
		}
		return 2
	case opcode == 0x07: // rlca
		c.A = c.rlc(c.A, false)
		return 1
	case opcode == 0x0F: // rrca
		c.A = c.rrc(c.A, false)
		return 1
	case opcode == 0x17: // rla
		c.A = c.rl(c.A, false)
		return 1
	case opcode == 0x1F: // rra
		c.A = c.rr(c.A, false)
		return 1
	case opcode == 0x27: // daa
		c.daa()
		return 1
	case opcode == 0x2F: // cpl
		c.cpl()
		return 1
	case opcode == 0x37: // scf
		c.scf()
		return 1
	case opcode == 0x3F: // ccf
		c.ccf()
		return 1
	case opcode == 0x18: // jr e8
		offset := int8(c.readImm8(b))
		c.PC = uint16(int32(c.PC) + int32(offset))
		return 3
	case opcode&0xE7 == 0x20: // jr cc, e8
		offset := int8(c.readImm8(b))
		if c.condition(opcode >> 3 & 3) {
			c.PC = uint16(int32(c.PC) + int32(offset))
			return 3
		}
		return 2
	}
	panic("cpu: illegal opcode in block 0")
}

// execBlock1 covers the 0x40-0x7F load-register matrix, with 0x76 (which
// would be ld [hl],[hl]) repurposed as halt.
func (c *CPU) execBlock1(b Bus, opcode uint8) int {
	dst := opcode >> 3 & 7
	src := opcode & 7

	if dst == r8HLInd && src == r8HLInd {
		c.halt(b)
		return 1
	}

	c.setR8(b, dst, c.getR8(b, src))
	if dst == r8HLInd || src == r8HLInd {
		return 2
	}
	return 1
}

func (c *CPU) halt(b Bus) {
	pending := b.InterruptEnable() & b.InterruptFlag() & 0x1F
	if !c.IME && pending != 0 {
		// HALT bug: PC fails to advance past the next fetch.
		c.haltBug = true
		return
	}
	c.Halted = true
}

// execBlock2 covers 8-bit ALU ops against A with a register operand.
func (c *CPU) execBlock2(b Bus, opcode uint8) int {
	op := opcode >> 3 & 7
	src := opcode & 7
	value := c.getR8(b, src)

	c.aluOp(op, value)

	if src == r8HLInd {
		return 2
	}
	return 1
}

func (c *CPU) aluOp(op uint8, value uint8) {
	switch op {
	case 0:
		c.add(value)
	case 1:
		c.adc(value)
	case 2:
		c.sub(value)
	case 3:
		c.sbc(value)
	case 4:
		c.and(value)
	case 5:
		c.xor(value)
	case 6:
		c.or(value)
	case 7:
		c.cp(value)
	}
}

func (c *CPU) execBlock3(b Bus, opcode uint8) int {
	switch {
	case opcode == 0xCB:
		return c.executeCB(b, c.readImm8(b))
	case opcode&0xE7 == 0xC0: // ret cc
		if c.condition(opcode >> 3 & 3) {
			c.PC = c.popStack(b)
			return 5
		}
		return 2
	case opcode == 0xC9: // ret
		c.PC = c.popStack(b)
		return 4
	case opcode == 0xD9: // reti
		c.PC = c.popStack(b)
		c.IME = true
		return 4
	case opcode&0xE7 == 0xC2: // jp cc, imm16
		target := c.readImm16(b)
		if c.condition(opcode >> 3 & 3) {
			c.PC = target
			return 4
		}
		return 3
	case opcode == 0xC3: // jp imm16
		c.PC = c.readImm16(b)
		return 4
	case opcode == 0xE9: // jp hl
		c.PC = c.HL()
		return 1
	case opcode&0xE7 == 0xC4: // call cc, imm16
		target := c.readImm16(b)
		if c.condition(opcode >> 3 & 3) {
			c.pushStack(b, c.PC)
			c.PC = target
			return 6
		}
		return 3
	case opcode == 0xCD: // call imm16
		target := c.readImm16(b)
		c.pushStack(b, c.PC)
		c.PC = target
		return 6
	case opcode&0xCF == 0xC1: // pop r16stk
		c.setR16Stk(opcode>>4&3, c.popStack(b))
		return 3
	case opcode&0xCF == 0xC5: // push r16stk
		c.pushStack(b, c.getR16Stk(opcode>>4&3))
		return 4
	case opcode&0xC7 == 0xC7: // rst tgt
		target := uint16(opcode & 0x38)
		c.pushStack(b, c.PC)
		c.PC = target
		return 4
	case opcode == 0xE0: // ldh [imm8], a
		b.Write(0xFF00+uint16(c.readImm8(b)), c.A)
		return 3
	case opcode == 0xF0: // ldh a, [imm8]
		c.A = b.Read(0xFF00 + uint16(c.readImm8(b)))
		return 3
	case opcode == 0xE2: // ldh [c], a
		b.Write(0xFF00+uint16(c.C), c.A)
		return 2
	case opcode == 0xF2: // ldh a, [c]
		c.A = b.Read(0xFF00 + uint16(c.C))
		return 2
	case opcode == 0xEA: // ld [imm16], a
		b.Write(c.readImm16(b), c.A)
		return 4
	case opcode == 0xFA: // ld a, [imm16]
		c.A = b.Read(c.readImm16(b))
		return 4
	case opcode == 0xE8: // add sp, e8
		offset := int8(c.readImm8(b))
		c.SP = c.addSPSigned(offset)
		return 4
	case opcode == 0xF8: // ld hl, sp+e8
		offset := int8(c.readImm8(b))
		c.SetHL(c.addSPSigned(offset))
		return 3
	case opcode == 0xF9: // ld sp, hl
		c.SP = c.HL()
		return 2
	case opcode == 0xF3: // di
		c.IME = false
		c.imeEnable = -1
		return 1
	case opcode == 0xFB: // ei
		c.requestEI()
		return 1
	}
	panic("cpu: illegal opcode in block 3")
}
