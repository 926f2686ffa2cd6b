package bus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tamberwick/goboycore/internal/addr"
	"github.com/tamberwick/goboycore/internal/cartridge"
)

// trivialROM builds a minimal 32KiB no-mapper cartridge image with a valid
// header, for tests that only need a cartridge present to exercise the bus.
func trivialROM() []byte {
	rom := make([]byte, 0x8000)
	rom[0x0147] = 0x00 // no mapper
	rom[0x0148] = 0x00 // 2 banks = 32KiB
	rom[0x0149] = 0x00 // no RAM
	return rom
}

func newTestBus(t *testing.T) *Bus {
	t.Helper()
	cart, err := cartridge.New(trivialROM())
	if err != nil {
		t.Fatalf("building test cartridge: %v", err)
	}
	b := New(false)
	b.LoadCartridge(cart)
	return b
}

func TestWRAMReadAfterWrite(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC010, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0xC010))
}

func TestEchoRAMMirrorsWRAM(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xC050, 0x99)
	assert.Equal(t, uint8(0x99), b.Read(0xE050))

	b.Write(0xE060, 0x55)
	assert.Equal(t, uint8(0x55), b.Read(0xC060))
}

func TestHRAMReadAfterWrite(t *testing.T) {
	b := newTestBus(t)
	b.Write(0xFF90, 0x7E)
	assert.Equal(t, uint8(0x7E), b.Read(0xFF90))
}

func TestOAMDMACopiesFromSource(t *testing.T) {
	b := newTestBus(t)
	for i := 0; i < 160; i++ {
		b.Write(0xC100+uint16(i), uint8(i))
	}

	b.Write(addr.DMA, 0xC1)

	for i := 0; i < 160; i++ {
		assert.Equal(t, uint8(i), b.PPU.DMAReadOAM(uint8(i)))
	}
}

func TestBootROMOverlayDisablesOnWrite(t *testing.T) {
	b := newTestBus(t)
	boot := make([]byte, 256)
	boot[0] = 0xAA
	b.SetBootROM(boot)

	assert.Equal(t, uint8(0xAA), b.Read(0x0000))

	b.Write(addr.BootROMDisable, 0x01)
	assert.NotEqual(t, uint8(0xAA), b.Read(0x0000)) // now reads cartridge ROM
}

func TestWRAMBankSwitchingOnCGB(t *testing.T) {
	b := New(true)
	cart, _ := cartridge.New(trivialROM())
	b.LoadCartridge(cart)

	b.Write(addr.SVBK, 0x02)
	b.Write(0xD000, 0x11)
	b.Write(addr.SVBK, 0x03)
	b.Write(0xD000, 0x22)

	b.Write(addr.SVBK, 0x02)
	assert.Equal(t, uint8(0x11), b.Read(0xD000))
	b.Write(addr.SVBK, 0x03)
	assert.Equal(t, uint8(0x22), b.Read(0xD000))
}

func TestWRAMBankZeroPromotedToOneOnDMG(t *testing.T) {
	b := newTestBus(t)
	b.Write(addr.SVBK, 0x00) // ignored on DMG
	b.Write(0xD000, 0x33)
	assert.Equal(t, uint8(0x33), b.Read(0xD000))
}

func TestInterruptFlagRoundTripsThroughBus(t *testing.T) {
	b := newTestBus(t)
	b.Write(addr.IF, 0x1F)
	assert.Equal(t, uint8(0xFF), b.Read(addr.IF))

	b.Write(addr.IE, 0x03)
	assert.Equal(t, uint8(0xE3), b.Read(addr.IE))
}

func TestSerialTransferRaisesInterrupt(t *testing.T) {
	b := newTestBus(t)
	b.Write(addr.SB, 'x')
	b.Write(addr.SC, 0x81)
	assert.NotZero(t, b.InterruptFlag()&uint8(addr.Serial))
}

func TestGeneralPurposeHDMACopiesIntoVRAM(t *testing.T) {
	b := New(true)
	cart, _ := cartridge.New(trivialROM())
	b.LoadCartridge(cart)

	for i := 0; i < 160; i++ {
		b.Write(0xC200+uint16(i), 0xAB)
	}

	b.Write(addr.HDMA1, 0xC2) // source high
	b.Write(addr.HDMA2, 0x00) // source low
	b.Write(addr.HDMA3, 0x00) // dest high (VRAM offset)
	b.Write(addr.HDMA4, 0x00) // dest low
	b.Write(addr.HDMA5, 0x09) // length = (9+1)*16 = 160, general purpose

	assert.Equal(t, uint8(0xAB), b.PPU.ReadVRAM(addr.VRAMStart))
}
