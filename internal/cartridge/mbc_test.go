package cartridge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func makeROM(mapperCode uint8, romSizeCode uint8, ramSizeCode uint8) []byte {
	rom := make([]byte, romBankCount(romSizeCode)*0x4000)
	rom[mapperAddr] = mapperCode
	rom[romSizeAddr] = romSizeCode
	rom[ramSizeAddr] = ramSizeCode
	return rom
}

func TestParseHeaderRejectsLengthMismatch(t *testing.T) {
	rom := makeROM(0x00, 0x00, 0x00)
	rom = append(rom, 0x00) // now longer than declared
	_, err := ParseHeader(rom)
	assert.Error(t, err)
}

func TestParseHeaderAcceptsTrivialNoMBC(t *testing.T) {
	rom := makeROM(0x00, 0x00, 0x00)
	h, err := ParseHeader(rom)
	assert.NoError(t, err)
	assert.Equal(t, MapperNone, h.Mapper.kind)
}

func TestUnsupportedMapperDegradesInsteadOfFailing(t *testing.T) {
	rom := makeROM(0xFE, 0x00, 0x00)
	h, err := ParseHeader(rom)
	assert.NoError(t, err)
	assert.True(t, h.UnsupportedMapper)
	assert.Equal(t, MapperNone, h.Mapper.kind)
}

func TestMBC1BankZeroPromotedToOne(t *testing.T) {
	rom := make([]byte, 4*0x4000)
	for bank := 0; bank < 4; bank++ {
		for i := 0; i < 0x4000; i++ {
			rom[bank*0x4000+i] = uint8(bank)
		}
	}
	m := newMBC1(rom, 4, 0)
	m.WriteROM(0x2000, 0x00) // select bank 0, should be promoted to 1
	assert.Equal(t, uint8(1), m.ReadROM(0x4000))
}

func TestMBC1BankSwitching(t *testing.T) {
	rom := make([]byte, 8*0x4000)
	for bank := 0; bank < 8; bank++ {
		for i := 0; i < 0x4000; i++ {
			rom[bank*0x4000+i] = uint8(bank)
		}
	}
	m := newMBC1(rom, 8, 0)
	m.WriteROM(0x2000, 0x05)
	assert.Equal(t, uint8(5), m.ReadROM(0x4000))
}

func TestRAMEnableGate(t *testing.T) {
	rom := make([]byte, 2*0x4000)
	m := newMBC1(rom, 2, 1)

	m.WriteROM(0x0000, 0x0A)
	m.WriteRAM(0xA000, 0x55)
	assert.Equal(t, uint8(0x55), m.ReadRAM(0xA000))

	m.WriteROM(0x0000, 0x00)
	assert.Equal(t, uint8(0xFF), m.ReadRAM(0xA000))
}

func TestMBC3RTCLatchAndReadback(t *testing.T) {
	m := newMBC3(make([]byte, 2*0x4000), 1, true)
	fixed := time.Unix(1_700_000_000, 0)
	m.rtc.now = func() time.Time { return fixed }
	m.rtc.lastAdvance = fixed
	m.WriteROM(0x0000, 0x0A) // enable RAM/RTC
	m.WriteROM(0x4000, RTCSeconds)
	m.WriteRAM(0xA000, 42)

	m.WriteROM(0x6000, 0x00)
	m.WriteROM(0x6000, 0x01)

	assert.Equal(t, uint8(42), m.ReadRAM(0xA000))
}

func TestMBC5FullROMBank(t *testing.T) {
	rom := make([]byte, 512*0x4000)
	for bank := 0; bank < 512; bank++ {
		rom[bank*0x4000] = uint8(bank)
		rom[bank*0x4000+1] = uint8(bank >> 8)
	}
	m := newMBC5(rom, 512, 0)
	m.WriteROM(0x2000, 0xFF)
	m.WriteROM(0x3000, 0x01) // bank 0x1FF = 511
	assert.Equal(t, uint8(511&0xFF), m.ReadROM(0x4000))
	assert.Equal(t, uint8(511>>8), m.ReadROM(0x4001))
}
