package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tamberwick/goboycore/internal/addr"
)

// fakeBus is a minimal in-memory Bus used to unit-test CPU decoding in
// isolation from the MMU and its peripherals.
type fakeBus struct {
	mem [0x10000]uint8
	ie  uint8
	ifl uint8
}

func (f *fakeBus) Read(a uint16) uint8  { return f.mem[a] }
func (f *fakeBus) Write(a uint16, v uint8) { f.mem[a] = v }
func (f *fakeBus) InterruptEnable() uint8  { return f.ie }
func (f *fakeBus) InterruptFlag() uint8    { return f.ifl }
func (f *fakeBus) ClearInterruptFlag(bit addr.Interrupt) {
	f.ifl &^= uint8(bit)
}

func newTestCPU() (*CPU, *fakeBus) {
	return New(), &fakeBus{}
}

func TestResetForBootROMZeroesStateAfterPostBoot(t *testing.T) {
	c := New()
	c.SetPostBootState()
	c.IME = true

	c.ResetForBootROM()

	assert.Equal(t, uint16(0x0000), c.PC)
	assert.Equal(t, uint16(0x0000), c.AF())
	assert.Equal(t, uint16(0x0000), c.SP)
	assert.False(t, c.IME)
}

func TestStack(t *testing.T) {
	c, b := newTestCPU()
	c.SP = 0xFFFE

	c.pushStack(b, 0x1234)
	assert.Equal(t, uint16(0xFFFC), c.SP)

	popped := c.popStack(b)
	assert.Equal(t, uint16(0x1234), popped)
	assert.Equal(t, uint16(0xFFFE), c.SP)
}

func TestIncLowNibbleAlwaysZero(t *testing.T) {
	c, _ := newTestCPU()
	c.F = 0xFF
	c.inc8(1)
	assert.Zero(t, c.F&0x0F, "low nibble of F must always be zero")
}

func TestIncSetsHalfCarryAndZero(t *testing.T) {
	c, _ := newTestCPU()
	result := c.inc8(0xFF)
	assert.Equal(t, uint8(0), result)
	assert.True(t, c.Flag(FlagZ))
	assert.True(t, c.Flag(FlagH))
}

func TestAddLoop256Iterations(t *testing.T) {
	// `inc a` looped 256 times from A=0 should land back on A=0 with Z set
	// and H clear, consuming 1 M-cycle per inc (256 M-cycles = 1024 T-cycles).
	c, b := newTestCPU()
	c.PC = 0x0100
	b.mem[0x0100] = 0x3C // inc a
	cycles := 0
	for i := 0; i < 256; i++ {
		c.PC = 0x0100
		cycles += c.Step(b)
	}
	assert.Equal(t, uint8(0), c.A)
	assert.True(t, c.Flag(FlagZ))
	assert.False(t, c.Flag(FlagH))
	assert.Equal(t, 256, cycles)
}

func TestDAAAfterAdd(t *testing.T) {
	c, _ := newTestCPU()
	c.A = 0x45
	c.add(0x38) // 0x7D
	c.daa()
	assert.Equal(t, uint8(0x83), c.A) // BCD 45+38=83
}

func TestHaltExitsOnPendingInterruptRegardlessOfIME(t *testing.T) {
	c, b := newTestCPU()
	c.IME = false
	c.Halted = true
	b.ie = uint8(addr.Timer)
	b.ifl = uint8(addr.Timer)

	c.Step(b)
	assert.False(t, c.Halted)
}

func TestEILatency(t *testing.T) {
	c, b := newTestCPU()
	c.PC = 0
	b.mem[0] = 0xFB // ei
	b.mem[1] = 0x00 // nop
	c.Step(b)
	assert.False(t, c.IME, "IME should not be set immediately after EI")
	c.Step(b)
	assert.True(t, c.IME, "IME should be set after the instruction following EI")
}

func TestInterruptDispatchPriorityAndVector(t *testing.T) {
	c, b := newTestCPU()
	c.IME = true
	c.PC = 0x1000
	c.SP = 0xFFFE
	b.ie = uint8(addr.VBlank) | uint8(addr.Timer)
	b.ifl = uint8(addr.VBlank) | uint8(addr.Timer)

	cycles := c.Step(b)

	assert.Equal(t, 5, cycles)
	assert.Equal(t, uint16(0x40), c.PC)
	assert.False(t, c.IME)
	assert.Zero(t, b.ifl&uint8(addr.VBlank))
	assert.NotZero(t, b.ifl&uint8(addr.Timer))
}

func TestAddHLPreservesZero(t *testing.T) {
	c, _ := newTestCPU()
	c.SetFlag(FlagZ, true)
	c.SetHL(0x0FFF)
	c.addHL(0x0001)
	assert.True(t, c.Flag(FlagZ))
	assert.True(t, c.Flag(FlagH))
}

func TestR16MemHLIncrementDecrement(t *testing.T) {
	c, _ := newTestCPU()
	c.SetHL(0x1000)
	assert.Equal(t, uint16(0x1000), c.getR16Mem(2))
	assert.Equal(t, uint16(0x1001), c.HL())

	c.SetHL(0x1000)
	assert.Equal(t, uint16(0x1000), c.getR16Mem(3))
	assert.Equal(t, uint16(0x0FFF), c.HL())
}
