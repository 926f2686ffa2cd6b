package cartridge

import "log/slog"

// Cartridge owns the immutable ROM image and the mapper that decodes
// accesses to it, including whatever battery-backed RAM and RTC the
// mapper variant provides.
type Cartridge struct {
	Header Header
	mapper Mapper
}

// New parses rom's header and constructs the matching mapper. Malformed
// ROMs (wrong length, missing header) fail here; an undeclared mapper code
// degrades to MapperNone with a logged warning rather than failing.
func New(rom []byte) (*Cartridge, error) {
	header, err := ParseHeader(rom)
	if err != nil {
		return nil, err
	}
	if header.UnsupportedMapper {
		slog.Warn("cartridge: unsupported mapper code, degrading to no-mapper", "code", header.MapperCode)
	}

	romBanks := len(rom) / 0x4000

	var mapper Mapper
	switch header.Mapper.kind {
	case MapperMBC1:
		mapper = newMBC1(rom, romBanks, header.RAMBanks)
	case MapperMBC3:
		mapper = newMBC3(rom, header.RAMBanks, header.Mapper.hasRTC)
	case MapperMBC5:
		mapper = newMBC5(rom, romBanks, header.RAMBanks)
	default:
		mapper = newNoneMapper(rom, header.RAMBanks)
	}

	return &Cartridge{Header: header, mapper: mapper}, nil
}

func (c *Cartridge) ReadROM(addr uint16) uint8        { return c.mapper.ReadROM(addr) }
func (c *Cartridge) WriteROM(addr uint16, value uint8) { c.mapper.WriteROM(addr, value) }
func (c *Cartridge) ReadRAM(addr uint16) uint8        { return c.mapper.ReadRAM(addr) }
func (c *Cartridge) WriteRAM(addr uint16, value uint8) { c.mapper.WriteRAM(addr, value) }

// SaveData returns the persisted form of this cartridge's battery-backed
// RAM (and RTC trailer, for MBC3), or nil if the cartridge has no battery.
func (c *Cartridge) SaveData() []byte {
	if !c.Header.Mapper.hasBattery {
		return nil
	}
	return c.mapper.SaveData()
}

// LoadSave restores RAM (and RTC) from a previous SaveData call's output.
func (c *Cartridge) LoadSave(data []byte) {
	c.mapper.LoadSave(data)
}

// CGBEnabled reports whether the header's CGB flag has bit 7 set, which
// selects CGB mode; a flag with only bit 6 set runs as DMG.
func (c *Cartridge) CGBEnabled() bool {
	return c.Header.CGB == CGBOnly
}
