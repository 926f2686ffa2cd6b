// Package disasm turns bus-resident bytes back into SM83 mnemonics, for
// tools that want to show what the CPU is about to execute rather than run
// it. It mirrors the instruction-block structure of internal/cpu's decoder
// instead of a generated opcode table, so the two can't drift apart.
package disasm

import "fmt"

// Reader is the minimal byte-addressable source disassembly walks. *bus.Bus
// satisfies it; so does any flat byte slice wrapped by a small adapter.
type Reader interface {
	Read(address uint16) uint8
}

// Line is one decoded instruction: its address, the number of bytes it
// occupies, and its textual form.
type Line struct {
	Address uint16
	Length  uint16
	Text    string
}

var r8Names = [8]string{"b", "c", "d", "e", "h", "l", "[hl]", "a"}
var r16Names = [4]string{"bc", "de", "hl", "sp"}
var r16StkNames = [4]string{"bc", "de", "hl", "af"}
var r16MemNames = [4]string{"[bc]", "[de]", "[hl+]", "[hl-]"}
var ccNames = [4]string{"nz", "z", "nc", "c"}
var aluNames = [8]string{"add a,", "adc a,", "sub a,", "sbc a,", "and a,", "xor a,", "or a,", "cp a,"}

// At disassembles the single instruction starting at pc.
func At(r Reader, pc uint16) Line {
	opcode := r.Read(pc)
	if opcode == 0xCB {
		cb := r.Read(pc + 1)
		return Line{Address: pc, Length: 2, Text: cbText(cb)}
	}

	text, length := mainText(r, pc, opcode)
	return Line{Address: pc, Length: length, Text: text}
}

// Range disassembles count consecutive instructions starting at pc.
func Range(r Reader, pc uint16, count int) []Line {
	lines := make([]Line, 0, count)
	for i := 0; i < count; i++ {
		line := At(r, pc)
		lines = append(lines, line)
		pc += line.Length
	}
	return lines
}

func imm8(r Reader, pc uint16) uint8  { return r.Read(pc + 1) }
func imm16(r Reader, pc uint16) uint16 {
	return uint16(r.Read(pc+1)) | uint16(r.Read(pc+2))<<8
}

func mainText(r Reader, pc uint16, opcode uint8) (string, uint16) {
	switch opcode >> 6 {
	case 0:
		return block0Text(r, pc, opcode)
	case 1:
		return block1Text(opcode)
	case 2:
		return block2Text(opcode)
	default:
		return block3Text(r, pc, opcode)
	}
}

func block0Text(r Reader, pc uint16, opcode uint8) (string, uint16) {
	switch {
	case opcode == 0x00:
		return "nop", 1
	case opcode == 0x10:
		return "stop", 2
	case opcode&0xCF == 0x01:
		return fmt.Sprintf("ld %s,0x%04X", r16Names[opcode>>4&3], imm16(r, pc)), 3
	case opcode&0xCF == 0x02:
		return fmt.Sprintf("ld %s,a", r16MemNames[opcode>>4&3]), 1
	case opcode&0xCF == 0x0A:
		return fmt.Sprintf("ld a,%s", r16MemNames[opcode>>4&3]), 1
	case opcode == 0x08:
		return fmt.Sprintf("ld [0x%04X],sp", imm16(r, pc)), 3
	case opcode&0xCF == 0x03:
		return fmt.Sprintf("inc %s", r16Names[opcode>>4&3]), 1
	case opcode&0xCF == 0x0B:
		return fmt.Sprintf("dec %s", r16Names[opcode>>4&3]), 1
	case opcode&0xCF == 0x09:
		return fmt.Sprintf("add hl,%s", r16Names[opcode>>4&3]), 1
	case opcode&0xC7 == 0x04:
		return fmt.Sprintf("inc %s", r8Names[opcode>>3&7]), 1
	case opcode&0xC7 == 0x05:
		return fmt.Sprintf("dec %s", r8Names[opcode>>3&7]), 1
	case opcode&0xC7 == 0x06:
		return fmt.Sprintf("ld %s,0x%02X", r8Names[opcode>>3&7], imm8(r, pc)), 2
	case opcode == 0x07:
		return "rlca", 1
	case opcode == 0x0F:
		return "rrca", 1
	case opcode == 0x17:
		return "rla", 1
	case opcode == 0x1F:
		return "rra", 1
	case opcode == 0x27:
		return "daa", 1
	case opcode == 0x2F:
		return "cpl", 1
	case opcode == 0x37:
		return "scf", 1
	case opcode == 0x3F:
		return "ccf", 1
	case opcode == 0x18:
		return fmt.Sprintf("jr %d", int8(imm8(r, pc))), 2
	case opcode&0xE7 == 0x20:
		return fmt.Sprintf("jr %s,%d", ccNames[opcode>>3&3], int8(imm8(r, pc))), 2
	}
	return "??", 1
}

func block1Text(opcode uint8) (string, uint16) {
	dst := opcode >> 3 & 7
	src := opcode & 7
	if dst == 6 && src == 6 {
		return "halt", 1
	}
	return fmt.Sprintf("ld %s,%s", r8Names[dst], r8Names[src]), 1
}

func block2Text(opcode uint8) (string, uint16) {
	op := opcode >> 3 & 7
	src := opcode & 7
	return fmt.Sprintf("%s%s", aluNames[op], r8Names[src]), 1
}

func block3Text(r Reader, pc uint16, opcode uint8) (string, uint16) {
	switch {
	case opcode&0xE7 == 0xC0:
		return fmt.Sprintf("ret %s", ccNames[opcode>>3&3]), 1
	case opcode == 0xC9:
		return "ret", 1
	case opcode == 0xD9:
		return "reti", 1
	case opcode&0xE7 == 0xC2:
		return fmt.Sprintf("jp %s,0x%04X", ccNames[opcode>>3&3], imm16(r, pc)), 3
	case opcode == 0xC3:
		return fmt.Sprintf("jp 0x%04X", imm16(r, pc)), 3
	case opcode == 0xE9:
		return "jp hl", 1
	case opcode&0xE7 == 0xC4:
		return fmt.Sprintf("call %s,0x%04X", ccNames[opcode>>3&3], imm16(r, pc)), 3
	case opcode == 0xCD:
		return fmt.Sprintf("call 0x%04X", imm16(r, pc)), 3
	case opcode&0xCF == 0xC1:
		return fmt.Sprintf("pop %s", r16StkNames[opcode>>4&3]), 1
	case opcode&0xCF == 0xC5:
		return fmt.Sprintf("push %s", r16StkNames[opcode>>4&3]), 1
	case opcode&0xC7 == 0xC7:
		return fmt.Sprintf("rst 0x%02X", opcode&0x38), 1
	case opcode == 0xE0:
		return fmt.Sprintf("ldh [0xFF00+0x%02X],a", imm8(r, pc)), 2
	case opcode == 0xF0:
		return fmt.Sprintf("ldh a,[0xFF00+0x%02X]", imm8(r, pc)), 2
	case opcode == 0xE2:
		return "ldh [c],a", 1
	case opcode == 0xF2:
		return "ldh a,[c]", 1
	case opcode == 0xEA:
		return fmt.Sprintf("ld [0x%04X],a", imm16(r, pc)), 3
	case opcode == 0xFA:
		return fmt.Sprintf("ld a,[0x%04X]", imm16(r, pc)), 3
	case opcode == 0xE8:
		return fmt.Sprintf("add sp,%d", int8(imm8(r, pc))), 2
	case opcode == 0xF8:
		return fmt.Sprintf("ld hl,sp+%d", int8(imm8(r, pc))), 2
	case opcode == 0xF9:
		return "ld sp,hl", 1
	case opcode == 0xF3:
		return "di", 1
	case opcode == 0xFB:
		return "ei", 1
	}
	return "??", 1
}

var cbOpNames = [8]string{"rlc", "rrc", "rl", "rr", "sla", "sra", "swap", "srl"}

func cbText(opcode uint8) string {
	reg := r8Names[opcode&7]
	bitIdx := opcode >> 3 & 7
	switch opcode >> 6 {
	case 0:
		return fmt.Sprintf("%s %s", cbOpNames[bitIdx], reg)
	case 1:
		return fmt.Sprintf("bit %d,%s", bitIdx, reg)
	case 2:
		return fmt.Sprintf("res %d,%s", bitIdx, reg)
	default:
		return fmt.Sprintf("set %d,%s", bitIdx, reg)
	}
}
