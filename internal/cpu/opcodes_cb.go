package cpu

// executeCB decodes and runs a CB-prefixed opcode. The top two bits select
// rotate/shift (00), bit-test (01), bit-reset (10) or bit-set (11); the
// remaining bits select the 3-bit sub-operation (or bit index) and the r8
// operand.
func (c *CPU) executeCB(b Bus, opcode uint8) int {
	group := opcode >> 6
	r8 := opcode & 7

	if group == 0 {
		sub := opcode >> 3 & 7
		value := c.getR8(b, r8)
		result := c.rotateShift(sub, value)
		c.setR8(b, r8, result)
		if r8 == r8HLInd {
			return 4
		}
		return 2
	}

	bitIndex := opcode >> 3 & 7

	switch group {
	case 1: // BIT
		c.bitTest(bitIndex, c.getR8(b, r8))
		if r8 == r8HLInd {
			return 3
		}
		return 2
	case 2: // RES
		c.setR8(b, r8, c.getR8(b, r8)&^(1<<bitIndex))
	case 3: // SET
		c.setR8(b, r8, c.getR8(b, r8)|(1<<bitIndex))
	}

	if r8 == r8HLInd {
		return 4
	}
	return 2
}

func (c *CPU) rotateShift(sub uint8, value uint8) uint8 {
	switch sub {
	case 0:
		return c.rlc(value, true)
	case 1:
		return c.rrc(value, true)
	case 2:
		return c.rl(value, true)
	case 3:
		return c.rr(value, true)
	case 4:
		return c.sla(value)
	case 5:
		return c.sra(value)
	case 6:
		return c.swap(value)
	default:
		return c.srl(value)
	}
}
