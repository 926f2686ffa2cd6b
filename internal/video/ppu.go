// Package video implements the pixel-processing unit: the scanline state
// machine, OAM scan, background/window/sprite pixel production, DMG and
// CGB palettes, and the STAT/LYC/VBlank interrupt logic.
//
// Mid-scanline pixel-FIFO accuracy is out of scope (per the core's design
// notes); pixels for an entire visible line are produced at once when
// Drawing mode ends, which is sufficient for the properties this
// core is tested against.
package video

import "github.com/tamberwick/goboycore/internal/addr"

// Mode is the PPU's current rendering stage, matching STAT bits 1:0.
type Mode uint8

const (
	HBlank Mode = 0
	VBlank Mode = 1
	OAMScan Mode = 2
	Drawing Mode = 3
)

const (
	DotsPerLine   = 456
	OAMScanDots   = 80
	DrawingDots   = 172 // approximated fixed duration, including on CGB
	LinesPerFrame = 154
	VisibleLines  = 144

	ScreenWidth  = 160
	ScreenHeight = 144
)

// LCDC bit positions.
const (
	lcdcBgWinEnable  = 0
	lcdcObjEnable    = 1
	lcdcObjSize      = 2
	lcdcBgTileMap    = 3
	lcdcBgTileData   = 4
	lcdcWinEnable    = 5
	lcdcWinTileMap   = 6
	lcdcPpuEnable    = 7
)

// STAT bit positions.
const (
	statModeLo     = 0
	statModeHi     = 1
	statLYCEqual   = 2
	statHBlankIRQ  = 3
	statVBlankIRQ  = 4
	statOAMIRQ     = 5
	statLYCIRQ     = 6
)

// PPU owns VRAM and OAM exclusively; the bus only ever reaches them
// through this type's Read/Write methods so mode-gating is enforced in
// one place.
type PPU struct {
	CGB bool

	vram     [2][0x2000]uint8
	vramBank uint8
	oam      [160]uint8

	mode       Mode
	lineY      uint8
	lineX      uint8
	cyclesLine int

	winLineCounter int
	windowLatched  bool

	lcdc, stat, scy, scx, lyc, wy, wx uint8
	bgp, obp0, obp1                   uint8

	bgColorRAM  [64]byte
	objColorRAM [64]byte
	bgpi, obpi  uint8 // index register: bits0-5 index, bit7 auto-increment

	opriSpriteOrder bool // true selects OAM-index priority (CGB default); false = X-priority (DMG)

	statLineWas bool

	sprites []spriteEntry

	frame Framebuffer
}

// New returns a PPU reset to the post-boot state for the given mode.
func New(cgb bool) *PPU {
	p := &PPU{CGB: cgb, mode: OAMScan, opriSpriteOrder: cgb}
	p.lcdc = 0x91
	p.bgp = 0xFC
	return p
}

// Framebuffer returns the pixel array produced by the most recently
// completed frame, as 15-bit RGB values (5 bits each of R, G, B).
func (p *PPU) Framebuffer() *Framebuffer { return &p.frame }

func (p *PPU) enabled() bool { return p.lcdc&(1<<lcdcPpuEnable) != 0 }

// blankFrame fills the framebuffer with color 0 (white under the default
// DMG palette), matching the blank screen real hardware shows while the
// LCD is switched off.
func (p *PPU) blankFrame() {
	white := dmgShadeToRGB15(0)
	for i := range p.frame.Pixels {
		p.frame.Pixels[i] = white
	}
}

// Tick advances the PPU by n T-cycles and returns any interrupts raised.
func (p *PPU) Tick(n int) uint8 {
	if !p.enabled() {
		return 0
	}
	var raised uint8
	for i := 0; i < n; i++ {
		raised |= p.tickOne()
	}
	return raised
}

func (p *PPU) tickOne() uint8 {
	var raised uint8
	p.cyclesLine++

	switch p.mode {
	case OAMScan:
		if p.cyclesLine == OAMScanDots {
			p.scanOAM()
			p.setMode(Drawing)
		}
	case Drawing:
		if p.cyclesLine == OAMScanDots+DrawingDots {
			p.renderLine()
			raised |= p.setMode(HBlank)
		}
	case HBlank:
		if p.cyclesLine == DotsPerLine {
			raised |= p.advanceLine()
		}
	case VBlank:
		if p.cyclesLine == DotsPerLine {
			raised |= p.advanceLine()
		}
	}

	raised |= p.updateStatFlag()
	return raised
}

func (p *PPU) advanceLine() uint8 {
	var raised uint8
	p.cyclesLine = 0
	p.lineY++

	if p.lineY == p.wy {
		p.windowLatched = true
	}

	if p.lineY > 153 {
		p.lineY = 0
		p.winLineCounter = 0
		p.windowLatched = false
	}

	if p.lineY == 144 {
		raised |= uint8(addr.VBlank)
		raised |= p.setMode(VBlank)
	} else if p.lineY < 144 {
		raised |= p.setMode(OAMScan)
	}
	return raised
}

func (p *PPU) setMode(m Mode) uint8 {
	p.mode = m
	return p.updateStatFlag()
}

// updateStatFlag recomputes the OR'd STAT condition and requests LCDStat
// on a rising edge, matching the "STAT blocking" interrupt behavior.
func (p *PPU) updateStatFlag() uint8 {
	flag := false
	switch p.mode {
	case HBlank:
		flag = p.stat&(1<<statHBlankIRQ) != 0
	case VBlank:
		flag = p.stat&(1<<statVBlankIRQ) != 0
	case OAMScan:
		flag = p.stat&(1<<statOAMIRQ) != 0
	}
	if p.lineY == p.lyc && p.stat&(1<<statLYCIRQ) != 0 {
		flag = true
	}

	var raised uint8
	if flag && !p.statLineWas {
		raised = uint8(addr.LCDStat)
	}
	p.statLineWas = flag
	return raised
}

// ReadRegister handles the LCDC..WX and CGB palette/bank I/O port reads.
func (p *PPU) ReadRegister(address uint16) uint8 {
	switch address {
	case addr.LCDC:
		return p.lcdc
	case addr.STAT:
		stat := p.stat&0x78 | uint8(p.mode)&0x03
		if p.lineY == p.lyc {
			stat |= 1 << statLYCEqual
		}
		return stat | 0x80
	case addr.SCY:
		return p.scy
	case addr.SCX:
		return p.scx
	case addr.LY:
		return p.lineY
	case addr.LYC:
		return p.lyc
	case addr.BGP:
		return p.bgp
	case addr.OBP0:
		return p.obp0
	case addr.OBP1:
		return p.obp1
	case addr.WY:
		return p.wy
	case addr.WX:
		return p.wx
	case addr.VBK:
		return p.vramBank | 0xFE
	case addr.BGPI:
		return p.bgpi
	case addr.BGPD:
		return p.bgColorRAM[p.bgpi&0x3F]
	case addr.OBPI:
		return p.obpi
	case addr.OBPD:
		return p.objColorRAM[p.obpi&0x3F]
	case addr.OPRI:
		if p.opriSpriteOrder {
			return 1
		}
		return 0
	}
	return 0xFF
}

func (p *PPU) WriteRegister(address uint16, value uint8) {
	switch address {
	case addr.LCDC:
		wasEnabled := p.enabled()
		p.lcdc = value
		if wasEnabled && !p.enabled() {
			p.lineY = 0
			p.cyclesLine = 0
			p.mode = HBlank
			p.blankFrame()
		}
	case addr.STAT:
		p.stat = value & 0x78
	case addr.SCY:
		p.scy = value
	case addr.SCX:
		p.scx = value
	case addr.LYC:
		p.lyc = value
	case addr.BGP:
		p.bgp = value
	case addr.OBP0:
		p.obp0 = value
	case addr.OBP1:
		p.obp1 = value
	case addr.WY:
		p.wy = value
	case addr.WX:
		p.wx = value
	case addr.VBK:
		if p.CGB {
			p.vramBank = value & 0x01
		}
	case addr.BGPI:
		p.bgpi = value & 0xBF
	case addr.BGPD:
		p.bgColorRAM[p.bgpi&0x3F] = value
		if p.bgpi&0x80 != 0 {
			p.bgpi = p.bgpi&0x80 | (p.bgpi+1)&0x3F
		}
	case addr.OBPI:
		p.obpi = value & 0xBF
	case addr.OBPD:
		p.objColorRAM[p.obpi&0x3F] = value
		if p.obpi&0x80 != 0 {
			p.obpi = p.obpi&0x80 | (p.obpi+1)&0x3F
		}
	case addr.OPRI:
		p.opriSpriteOrder = value&0x01 != 0
	}
}

// ReadVRAM is mode-gated: Drawing mode returns open-bus 0xFF and drops writes.
func (p *PPU) ReadVRAM(address uint16) uint8 {
	if p.mode == Drawing {
		return 0xFF
	}
	return p.vram[p.vramBank][address-addr.VRAMStart]
}

func (p *PPU) WriteVRAM(address uint16, value uint8) {
	if p.mode == Drawing {
		return
	}
	p.vram[p.vramBank][address-addr.VRAMStart] = value
}

// vramByte reads a specific bank regardless of the VBK selector; the
// renderer uses it for tile data and for CGB tile attributes in bank 1.
func (p *PPU) vramByte(bank uint8, offset uint16) uint8 {
	return p.vram[bank][offset]
}

func (p *PPU) ReadOAM(address uint16) uint8 {
	if p.mode == Drawing || p.mode == OAMScan {
		return 0xFF
	}
	return p.oam[address-addr.OAMStart]
}

func (p *PPU) WriteOAM(address uint16, value uint8) {
	if p.mode == Drawing || p.mode == OAMScan {
		return
	}
	p.oam[address-addr.OAMStart] = value
}

// DMAWriteOAM is used by the OAM-DMA engine, which bypasses mode gating.
func (p *PPU) DMAWriteOAM(index uint8, value uint8) {
	p.oam[index] = value
}

func (p *PPU) DMAReadOAM(index uint8) uint8 {
	return p.oam[index]
}

// CurrentMode reports the current PPU mode and LineY the current LY value;
// nothing in the core calls either.
func (p *PPU) CurrentMode() Mode { return p.mode }
func (p *PPU) LineY() uint8      { return p.lineY }
