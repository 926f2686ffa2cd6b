// Package cartridge models the ROM/RAM storage of a Game Boy cartridge and
// its bank-switching mapper, parsed from the cartridge header the way the
// real hardware's boot ROM does.
package cartridge

import "fmt"

const (
	cgbFlagAddr    = 0x0143
	mapperAddr     = 0x0147
	romSizeAddr    = 0x0148
	ramSizeAddr    = 0x0149
	headerMinBytes = 0x0150
)

// MapperKind identifies which mapper a ROM declares.
type MapperKind int

const (
	MapperNone MapperKind = iota
	MapperMBC1
	MapperMBC3
	MapperMBC5
)

// mapperInfo captures what a raw cartridge-type byte implies.
type mapperInfo struct {
	kind       MapperKind
	hasRAM     bool
	hasBattery bool
	hasRTC     bool
}

// supportedMappers enumerates the cartridge-type byte values this emulator
// understands. Anything outside this set degrades to MapperNone per the
// error-handling policy: an unsupported mapper is a warning, not a failure.
var supportedMappers = map[uint8]mapperInfo{
	0x00: {kind: MapperNone},
	0x01: {kind: MapperMBC1},
	0x02: {kind: MapperMBC1, hasRAM: true},
	0x03: {kind: MapperMBC1, hasRAM: true, hasBattery: true},
	0x0F: {kind: MapperMBC3, hasRTC: true, hasBattery: true},
	0x10: {kind: MapperMBC3, hasRAM: true, hasRTC: true, hasBattery: true},
	0x11: {kind: MapperMBC3},
	0x12: {kind: MapperMBC3, hasRAM: true},
	0x13: {kind: MapperMBC3, hasRAM: true, hasBattery: true},
	0x19: {kind: MapperMBC5},
	0x1A: {kind: MapperMBC5, hasRAM: true},
	0x1B: {kind: MapperMBC5, hasRAM: true, hasBattery: true},
	0x1C: {kind: MapperMBC5},
	0x1D: {kind: MapperMBC5, hasRAM: true},
	0x1E: {kind: MapperMBC5, hasRAM: true, hasBattery: true},
}

// romBankCount returns the number of 16KiB ROM banks declared by the header
// byte, per the documented 2^(value+1) rule.
func romBankCount(value uint8) int {
	return 2 << value
}

// ramBankCount returns the number of 8KiB RAM banks declared by the header byte.
func ramBankCount(value uint8) (int, error) {
	table := map[uint8]int{0: 0, 1: 0, 2: 1, 3: 4, 4: 16, 5: 8}
	banks, ok := table[value]
	if !ok {
		return 0, fmt.Errorf("cartridge: undeclared RAM size code 0x%02X", value)
	}
	return banks, nil
}

// CGBSupport describes the color-mode bits declared by the header.
type CGBSupport int

const (
	CGBUnsupported CGBSupport = iota
	CGBCompatible             // bit 6: works on both DMG and CGB
	CGBOnly                   // bit 7: requires CGB
)

func parseCGBFlag(value uint8) CGBSupport {
	switch {
	case value&0x80 != 0:
		return CGBOnly
	case value&0x40 != 0:
		return CGBCompatible
	default:
		return CGBUnsupported
	}
}

// Header holds the parsed, validated subset of the cartridge header this
// emulator cares about.
type Header struct {
	MapperCode   uint8
	Mapper       mapperInfo
	DeclaredROM  int // bytes
	RAMBanks     int
	CGB          CGBSupport
	UnsupportedMapper bool
}

// ParseHeader validates rom against the header-declared size and mapper
// code, returning a descriptive error for malformed images.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < headerMinBytes {
		return Header{}, fmt.Errorf("cartridge: ROM too small to contain a header (%d bytes)", len(rom))
	}

	sizeCode := rom[romSizeAddr]
	declaredBanks := romBankCount(sizeCode)
	declaredSize := declaredBanks * 0x4000
	if len(rom) != declaredSize {
		return Header{}, fmt.Errorf("cartridge: ROM length %d does not match header-declared size %d (code 0x%02X)", len(rom), declaredSize, sizeCode)
	}

	ramBanks, err := ramBankCount(rom[ramSizeAddr])
	if err != nil {
		return Header{}, err
	}

	mapperCode := rom[mapperAddr]
	info, ok := supportedMappers[mapperCode]
	h := Header{
		MapperCode:  mapperCode,
		DeclaredROM: declaredSize,
		RAMBanks:    ramBanks,
		CGB:         parseCGBFlag(rom[cgbFlagAddr]),
	}
	if !ok {
		h.UnsupportedMapper = true
		h.Mapper = mapperInfo{kind: MapperNone}
		return h, nil
	}
	h.Mapper = info
	return h, nil
}
