package disasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type flatMemory []byte

func (m flatMemory) Read(address uint16) uint8 {
	if int(address) >= len(m) {
		return 0xFF
	}
	return m[address]
}

func TestAtDecodesSimpleOpcode(t *testing.T) {
	mem := flatMemory{0x00}
	line := At(mem, 0)
	assert.Equal(t, "nop", line.Text)
	assert.Equal(t, uint16(1), line.Length)
}

func TestAtDecodesImmediate16Operand(t *testing.T) {
	mem := flatMemory{0x21, 0x34, 0x12} // ld hl,0x1234
	line := At(mem, 0)
	assert.Equal(t, "ld hl,0x1234", line.Text)
	assert.Equal(t, uint16(3), line.Length)
}

func TestAtDecodesRegisterLoad(t *testing.T) {
	mem := flatMemory{0x78} // ld a,b
	line := At(mem, 0)
	assert.Equal(t, "ld a,b", line.Text)
}

func TestAtDecodesHaltException(t *testing.T) {
	mem := flatMemory{0x76}
	line := At(mem, 0)
	assert.Equal(t, "halt", line.Text)
}

func TestAtDecodesCBPrefixed(t *testing.T) {
	mem := flatMemory{0xCB, 0x7C} // bit 7,h
	line := At(mem, 0)
	assert.Equal(t, "bit 7,h", line.Text)
	assert.Equal(t, uint16(2), line.Length)
}

func TestRangeWalksSequentialInstructions(t *testing.T) {
	mem := flatMemory{0x00, 0x3E, 0x42, 0x76} // nop; ld a,0x42; halt
	lines := Range(mem, 0, 3)
	assert.Equal(t, "nop", lines[0].Text)
	assert.Equal(t, "ld a,0x42", lines[1].Text)
	assert.Equal(t, uint16(1), lines[1].Address)
	assert.Equal(t, "halt", lines[2].Text)
	assert.Equal(t, uint16(3), lines[2].Address)
}
