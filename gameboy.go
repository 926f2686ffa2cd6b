// Package goboycore is a cycle-driven Game Boy (DMG and CGB) core: CPU,
// PPU, APU, timer, joypad, serial stub and cartridge/MBC emulation behind
// a small external handle. It owns no host I/O, windowing, or debugger UI;
// callers drive it frame by frame and read back pixels, audio, and save
// data through this type.
package goboycore

import (
	"fmt"
	"log/slog"

	"github.com/tamberwick/goboycore/internal/addr"
	"github.com/tamberwick/goboycore/internal/bus"
	"github.com/tamberwick/goboycore/internal/cartridge"
	"github.com/tamberwick/goboycore/internal/cpu"
	"github.com/tamberwick/goboycore/internal/timing"
	"github.com/tamberwick/goboycore/internal/video"
)

// GameBoy is the external handle: construct one from ROM bytes, then drive
// it with RunFrame and feed it input with SetButtons.
type GameBoy struct {
	cpu *cpu.CPU
	bus *bus.Bus

	frameCount uint64
}

// New parses rom and returns a GameBoy ready to run from its post-boot
// state. The cartridge header's CGB flag selects DMG or CGB mode; pass a
// CGB-only ROM to get CGB behavior, anything else runs as DMG.
func New(rom []byte) (*GameBoy, error) {
	cart, err := cartridge.New(rom)
	if err != nil {
		return nil, fmt.Errorf("goboycore: %w", err)
	}

	cgb := cart.CGBEnabled()
	b := bus.New(cgb)
	b.LoadCartridge(cart)

	c := cpu.New()
	if cgb {
		c.SetPostBootStateCGB()
	} else {
		c.SetPostBootState()
	}

	slog.Debug("goboycore: cartridge loaded", "cgb", cgb, "mapper", cart.Header.MapperCode)

	return &GameBoy{cpu: c, bus: b}, nil
}

// RunFrame steps whole instructions until at least one frame's worth of
// T-cycles (70224, the DMG/CGB frame budget) has elapsed, and returns the
// pixel buffer produced. The last instruction may run past the budget; that
// overshoot is not carried into the next frame. After a STOP instruction
// it performs the CGB speed switch if KEY1 is armed.
// The returned *video.Framebuffer aliases internal state and is only valid
// until the next RunFrame call.
func (g *GameBoy) RunFrame() *video.Framebuffer {
	total := 0
	for total < timing.CyclesPerFrame {
		mCycles := g.cpu.Step(g.bus)
		if g.cpu.Stopped {
			g.cpu.Stopped = false
			g.bus.ToggleSpeedIfArmed()
		}
		tCycles := mCycles * 4
		g.bus.Tick(tCycles)
		total += tCycles
	}
	g.frameCount++
	return g.bus.PPU.Framebuffer()
}

// SetBootROM installs a boot ROM overlay: reads of 0x0000-0x00FF (and, on
// CGB, 0x0200-0x08FF) return its bytes until the 0xFF50 disable latch is
// written. It also rewinds the CPU to the real hardware entry point
// (PC=0x0000, all registers zeroed) so the boot ROM runs from scratch
// instead of the post-boot snapshot New installs by default. Call this
// immediately after New, before RunFrame.
func (g *GameBoy) SetBootROM(rom []byte) {
	g.bus.SetBootROM(rom)
	g.cpu.ResetForBootROM()
}

// SetButtons applies the canonical active-low 8-bit button mask (Right,
// Left, Up, Down, A, B, Select, Start from bit 0) and raises the joypad
// interrupt when a newly pressed button belongs to a row currently
// selected through P1; presses in an unselected row raise nothing.
func (g *GameBoy) SetButtons(mask uint8) {
	g.bus.PressButtons(mask)
}

// SaveData returns the cartridge's persisted battery-backed RAM (and RTC
// state, for MBC3), or nil if the cartridge has no battery.
func (g *GameBoy) SaveData() []byte {
	return g.bus.Cart.SaveData()
}

// LoadSave restores battery-backed RAM (and RTC state) from a previous
// SaveData call's output. It is a caller error to call this with data from
// a different cartridge; the core does not validate provenance.
func (g *GameBoy) LoadSave(data []byte) {
	g.bus.Cart.LoadSave(data)
}

// TakeAudio drains every stereo sample pair the APU has mixed since the
// last call, as interleaved int16 left/right frames at 48kHz.
func (g *GameBoy) TakeAudio() []int16 {
	return g.bus.APU.DrainAll()
}

// ToggleAudioChannel mutes or unmutes one of the four APU channels (0-3),
// for debug frontends.
func (g *GameBoy) ToggleAudioChannel(channel int) {
	g.bus.APU.ToggleChannel(channel)
}

// SoloAudioChannel isolates a single APU channel (0-3); calling it again
// with the same index un-solos, for debug frontends.
func (g *GameBoy) SoloAudioChannel(channel int) {
	g.bus.APU.SoloChannel(channel)
}

// AudioChannelStatus reports whether each of the four APU channels is
// currently producing sound, for debug frontends.
func (g *GameBoy) AudioChannelStatus() (ch1, ch2, ch3, ch4 bool) {
	return g.bus.APU.GetChannelStatus()
}

// FrameCount reports how many frames RunFrame has produced.
func (g *GameBoy) FrameCount() uint64 {
	return g.frameCount
}

// Interrupt bit constants re-exported for callers that want to reason
// about IF/IE without importing the internal addr package.
const (
	InterruptVBlank  = uint8(addr.VBlank)
	InterruptLCDStat = uint8(addr.LCDStat)
	InterruptTimer   = uint8(addr.Timer)
	InterruptSerial  = uint8(addr.Serial)
	InterruptJoypad  = uint8(addr.Joypad)
)
