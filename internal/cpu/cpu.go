// Package cpu implements the Sharp SM83 instruction-level core: registers,
// fetch/decode/execute over the full unprefixed and CB-prefixed opcode
// tables, and interrupt dispatch. The CPU never stores a reference to the
// bus between steps; it is handed one for the duration of each Step call.
package cpu

import "github.com/tamberwick/goboycore/internal/addr"

// Bus is the minimal surface the CPU needs from its owner to execute a
// step: byte-addressed reads/writes and the pending/enabled interrupt bits.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	InterruptEnable() uint8
	InterruptFlag() uint8
	ClearInterruptFlag(bit addr.Interrupt)
}

// CPU is the Sharp SM83 register file plus control state. It holds no
// pointer to the bus; every Step call takes one as a parameter.
type CPU struct {
	Registers

	IME        bool
	imeEnable  int // instructions remaining until EI takes effect, -1 if none pending
	Halted     bool
	haltBug    bool
	Stopped    bool
	DoubleSpeed bool
}

// New returns a CPU with all registers zeroed; callers that don't overlay
// a boot ROM should call SetPostBootState afterward.
func New() *CPU {
	return &CPU{imeEnable: -1}
}

// SetPostBootState initializes registers to the values the real hardware
// leaves behind after the boot ROM hands off control, for the DMG model.
func (c *CPU) SetPostBootState() {
	c.SetAF(0x01B0)
	c.SetBC(0x0013)
	c.SetDE(0x00D8)
	c.SetHL(0x014D)
	c.SP = 0xFFFE
	c.PC = 0x0100
}

// ResetForBootROM zeroes every register so the boot ROM overlay can run
// from its real hardware entry point (PC=0x0000) instead of the post-boot
// snapshot SetPostBootState/SetPostBootStateCGB install.
func (c *CPU) ResetForBootROM() {
	c.Registers = Registers{}
	c.IME = false
	c.imeEnable = -1
	c.Halted = false
	c.haltBug = false
	c.Stopped = false
}

// SetPostBootStateCGB initializes registers to the CGB post-boot state.
func (c *CPU) SetPostBootStateCGB() {
	c.SetAF(0x1180)
	c.SetBC(0x0000)
	c.SetDE(0xFF56)
	c.SetHL(0x000D)
	c.SP = 0xFFFE
	c.PC = 0x0100
}

// Step executes one instruction, or services a pending interrupt if IME is
// set and one is latched, and returns the number of M-cycles consumed.
func (c *CPU) Step(b Bus) int {
	pending := b.InterruptEnable() & b.InterruptFlag() & addr.InterruptMask

	if c.Halted {
		if pending != 0 {
			c.Halted = false
		} else {
			return 1
		}
	}

	if c.IME && pending != 0 {
		return c.dispatchInterrupt(b, pending)
	}

	opcode := c.fetch(b)

	if c.haltBug {
		c.haltBug = false
		c.PC--
	}

	cycles := c.execute(b, opcode)
	if c.imeEnable > 0 {
		c.imeEnable--
		if c.imeEnable == 0 {
			c.IME = true
			c.imeEnable = -1
		}
	}
	return cycles
}

func (c *CPU) dispatchInterrupt(b Bus, pending uint8) int {
	for _, i := range addr.Priority {
		if pending&uint8(i) == 0 {
			continue
		}
		c.IME = false
		c.pushStack(b, c.PC)
		b.ClearInterruptFlag(i)
		c.PC = addr.Vector(i)
		return 5
	}
	panic("cpu: dispatchInterrupt called with no pending bits")
}

func (c *CPU) fetch(b Bus) uint8 {
	opcode := b.Read(c.PC)
	c.PC++
	return opcode
}

func (c *CPU) readImm8(b Bus) uint8 {
	v := b.Read(c.PC)
	c.PC++
	return v
}

func (c *CPU) readImm16(b Bus) uint16 {
	lo := c.readImm8(b)
	hi := c.readImm8(b)
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) pushStack(b Bus, v uint16) {
	c.SP--
	b.Write(c.SP, uint8(v>>8))
	c.SP--
	b.Write(c.SP, uint8(v))
}

func (c *CPU) popStack(b Bus) uint16 {
	lo := b.Read(c.SP)
	c.SP++
	hi := b.Read(c.SP)
	c.SP++
	return uint16(hi)<<8 | uint16(lo)
}

// requestEI latches IME to flip on after the next instruction completes,
// matching the one-instruction delay of the real EI opcode.
func (c *CPU) requestEI() {
	c.imeEnable = 2
}

// getR8 resolves a r8-encoded operand, reading through the bus for index 6.
func (c *CPU) getR8(b Bus, index uint8) uint8 {
	if index == r8HLInd {
		return b.Read(c.HL())
	}
	return *c.r8(index)
}

func (c *CPU) setR8(b Bus, index uint8, v uint8) {
	if index == r8HLInd {
		b.Write(c.HL(), v)
		return
	}
	*c.r8(index) = v
}
