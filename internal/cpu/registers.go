package cpu

import "github.com/tamberwick/goboycore/internal/bit"

// Flag identifies one of the four bits of the F register that carry meaning;
// the low nibble of F is always zero.
type Flag uint8

const (
	FlagZ Flag = 1 << 7
	FlagN Flag = 1 << 6
	FlagH Flag = 1 << 5
	FlagC Flag = 1 << 4
)

// Registers holds the Z80-derived register file: eight 8-bit registers
// addressed individually or as big-endian pairs, plus SP and PC.
type Registers struct {
	A, F       uint8
	B, C       uint8
	D, E       uint8
	H, L       uint8
	SP, PC     uint16
}

func (r *Registers) AF() uint16 { return bit.Combine(r.A, r.F&0xF0) }
func (r *Registers) BC() uint16 { return bit.Combine(r.B, r.C) }
func (r *Registers) DE() uint16 { return bit.Combine(r.D, r.E) }
func (r *Registers) HL() uint16 { return bit.Combine(r.H, r.L) }

func (r *Registers) SetAF(v uint16) {
	r.A = bit.High(v)
	r.F = bit.Low(v) & 0xF0
}
func (r *Registers) SetBC(v uint16) { r.B, r.C = bit.High(v), bit.Low(v) }
func (r *Registers) SetDE(v uint16) { r.D, r.E = bit.High(v), bit.Low(v) }
func (r *Registers) SetHL(v uint16) { r.H, r.L = bit.High(v), bit.Low(v) }

func (r *Registers) Flag(f Flag) bool { return r.F&uint8(f) != 0 }

func (r *Registers) SetFlag(f Flag, on bool) {
	if on {
		r.F |= uint8(f)
	} else {
		r.F &^= uint8(f)
	}
	r.F &= 0xF0
}

// r8 returns a pointer family for the 8 single-register ALU operands.
// Index 6, (HL), is resolved by the caller since it needs bus access.
const (
	r8B = iota
	r8C
	r8D
	r8E
	r8H
	r8L
	r8HLInd
	r8A
)

func (r *Registers) r8(index uint8) *uint8 {
	switch index {
	case r8B:
		return &r.B
	case r8C:
		return &r.C
	case r8D:
		return &r.D
	case r8E:
		return &r.E
	case r8H:
		return &r.H
	case r8L:
		return &r.L
	case r8A:
		return &r.A
	}
	panic("cpu: r8 index 6 must be handled by the caller via the bus")
}

// r16 indices: BC, DE, HL, SP.
const (
	r16BC = iota
	r16DE
	r16HL
	r16SP
)

func (r *Registers) getR16(index uint8) uint16 {
	switch index {
	case r16BC:
		return r.BC()
	case r16DE:
		return r.DE()
	case r16HL:
		return r.HL()
	case r16SP:
		return r.SP
	}
	panic("cpu: invalid r16 index")
}

func (r *Registers) setR16(index uint8, v uint16) {
	switch index {
	case r16BC:
		r.SetBC(v)
	case r16DE:
		r.SetDE(v)
	case r16HL:
		r.SetHL(v)
	case r16SP:
		r.SP = v
	}
}

// r16stk indices: BC, DE, HL, AF (used by push/pop).
func (r *Registers) getR16Stk(index uint8) uint16 {
	if index == 3 {
		return r.AF()
	}
	return r.getR16(index)
}

func (r *Registers) setR16Stk(index uint8, v uint16) {
	if index == 3 {
		r.SetAF(v)
		return
	}
	r.setR16(index, v)
}

// r16mem indices: BC, DE, HL+, HL-  (used by ld [r16mem], a and friends).
func (r *Registers) getR16Mem(index uint8) uint16 {
	switch index {
	case 0:
		return r.BC()
	case 1:
		return r.DE()
	case 2:
		v := r.HL()
		r.SetHL(v + 1)
		return v
	case 3:
		v := r.HL()
		r.SetHL(v - 1)
		return v
	}
	panic("cpu: invalid r16mem index")
}

// cc indices: NZ, Z, NC, C.
func (r *Registers) condition(index uint8) bool {
	switch index {
	case 0:
		return !r.Flag(FlagZ)
	case 1:
		return r.Flag(FlagZ)
	case 2:
		return !r.Flag(FlagC)
	case 3:
		return r.Flag(FlagC)
	}
	panic("cpu: invalid condition index")
}
