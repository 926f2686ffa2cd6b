// Package terminal renders a running GameBoy to a text terminal using
// shade block characters, and turns arrow/letter keys into the
// canonical button mask GameBoy.SetButtons expects. It owns the host I/O
// the core deliberately does not: screen, keyboard, frame pacing.
package terminal

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/tamberwick/goboycore"
	"github.com/tamberwick/goboycore/internal/timing"
	"github.com/tamberwick/goboycore/internal/video"
)

var shadeChars = []rune{'█', '▓', '▒', '░'}

// buttonBit positions match GameBoy.SetButtons: Right, Left, Up, Down, A,
// B, Select, Start, active-low (0 = held).
const (
	bitRight = 1 << iota
	bitLeft
	bitUp
	bitDown
	bitA
	bitB
	bitSelect
	bitStart
)

// Renderer drives a *goboycore.GameBoy against a tcell terminal screen.
type Renderer struct {
	screen  tcell.Screen
	gb      *goboycore.GameBoy
	limiter timing.Limiter
	held    uint8 // active-high shadow of what's currently pressed
}

// New initializes a terminal screen and returns a Renderer for gb.
func New(gb *goboycore.GameBoy) (*Renderer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	return &Renderer{screen: screen, gb: gb, limiter: timing.NewRealTimeLimiter()}, nil
}

// Run drives the emulator at the real Game Boy frame rate until the user
// quits (Escape/Ctrl-C) or the process receives a termination signal.
func (r *Renderer) Run() error {
	defer r.screen.Fini()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	events := make(chan tcell.Event, 16)
	go r.screen.ChannelEvents(events, nil)

	for {
		select {
		case <-signals:
			slog.Info("terminal: received signal, stopping")
			return nil
		case ev := <-events:
			if quit := r.handleEvent(ev); quit {
				return nil
			}
		default:
			r.limiter.WaitForNextFrame()
			frame := r.gb.RunFrame()
			r.gb.SetButtons(^r.held)
			r.draw(frame)
		}
	}
}

func (r *Renderer) handleEvent(ev tcell.Event) (quit bool) {
	keyEv, ok := ev.(*tcell.EventKey)
	if !ok {
		if _, ok := ev.(*tcell.EventResize); ok {
			r.screen.Sync()
		}
		return false
	}

	switch keyEv.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRight:
		r.held |= bitRight
	case tcell.KeyLeft:
		r.held |= bitLeft
	case tcell.KeyUp:
		r.held |= bitUp
	case tcell.KeyDown:
		r.held |= bitDown
	case tcell.KeyEnter:
		r.held |= bitStart
	case tcell.KeyF1:
		r.gb.ToggleAudioChannel(0)
	case tcell.KeyF2:
		r.gb.ToggleAudioChannel(1)
	case tcell.KeyF3:
		r.gb.ToggleAudioChannel(2)
	case tcell.KeyF4:
		r.gb.ToggleAudioChannel(3)
	case tcell.KeyRune:
		switch keyEv.Rune() {
		case 'a':
			r.held |= bitA
		case 's':
			r.held |= bitB
		case 'q':
			r.held |= bitSelect
		case '1':
			r.gb.SoloAudioChannel(0)
		case '2':
			r.gb.SoloAudioChannel(1)
		case '3':
			r.gb.SoloAudioChannel(2)
		case '4':
			r.gb.SoloAudioChannel(3)
		}
	}
	return false
}

// draw quantizes each 15-bit pixel to 4 shades and paints one pixel per
// terminal cell, one source row per terminal row, using shade glyphs.
func (r *Renderer) draw(frame *video.Framebuffer) {
	r.screen.Clear()
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)

	for y := 0; y < 144; y++ {
		for x := 0; x < 160; x++ {
			shade := shadeIndex(frame.At(x, y))
			r.screen.SetContent(x, y, shadeChars[shade], nil, style)
		}
	}
	r.drawAudioStatus(style)
	r.screen.Show()
}

// drawAudioStatus prints a one-line channel-on/off indicator below the
// playfield, reflecting the F1-F4 toggle / 1-4 solo controls.
func (r *Renderer) drawAudioStatus(style tcell.Style) {
	ch1, ch2, ch3, ch4 := r.gb.AudioChannelStatus()
	status := fmt.Sprintf("ch1:%s ch2:%s ch3:%s ch4:%s", onOff(ch1), onOff(ch2), onOff(ch3), onOff(ch4))
	for i, ch := range status {
		r.screen.SetContent(i, 144, ch, nil, style)
	}
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}

// shadeIndex maps a 15-bit RGB555 pixel to one of 4 brightness buckets by
// its red channel (the palette is always gray in practice).
func shadeIndex(color uint16) int {
	level := color & 0x1F
	switch {
	case level >= 24:
		return 0
	case level >= 16:
		return 1
	case level >= 8:
		return 2
	default:
		return 3
	}
}
