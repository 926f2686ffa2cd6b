// Package serial implements a stub link-cable port: transfers complete
// immediately (no peer is ever connected), the port logs each completed
// line of transmitted bytes, and each byte is also handed to an optional
// sink, which is nil by default.
package serial

import (
	"log/slog"

	"github.com/tamberwick/goboycore/internal/addr"
	"github.com/tamberwick/goboycore/internal/bit"
)

// Port is the SB/SC serial register pair.
type Port struct {
	sb, sc byte
	logger *slog.Logger
	line   []byte

	// Sink, if set, is called with each transmitted byte in addition to
	// the default line-buffered logging.
	Sink func(b byte)
}

// New returns a Port that logs complete lines at info level.
func New() *Port {
	return &Port{logger: slog.Default()}
}

func (p *Port) Read(address uint16) byte {
	switch address {
	case addr.SB:
		return p.sb
	case addr.SC:
		return p.sc
	}
	return 0xFF
}

// Write handles a register write and returns any interrupt raised by a
// completed transfer.
func (p *Port) Write(address uint16, value byte) uint8 {
	switch address {
	case addr.SB:
		p.sb = value
		return 0
	case addr.SC:
		p.sc = value
		return p.maybeTransfer()
	}
	return 0
}

func (p *Port) maybeTransfer() uint8 {
	if !bit.IsSet(7, p.sc) {
		return 0
	}
	// Only act as the clock source: an external-clock transfer (bit 0
	// clear) would need a peer driving the clock, which never exists here.
	if !bit.IsSet(0, p.sc) {
		return 0
	}

	b := p.sb
	if p.Sink != nil {
		p.Sink(b)
	}
	p.bufferForLog(b)

	p.sb = 0xFF
	p.sc = bit.Reset(7, p.sc)
	return uint8(addr.Serial)
}

func (p *Port) bufferForLog(b byte) {
	if b == '\n' || b == '\r' {
		if len(p.line) > 0 {
			p.logger.Info("serial", "line", string(p.line))
			p.line = p.line[:0]
		}
		return
	}
	p.line = append(p.line, b)
}
