package serial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tamberwick/goboycore/internal/addr"
)

func TestSerialEmitsExactByteSequence(t *testing.T) {
	p := New()
	var out []byte
	p.Sink = func(b byte) { out = append(out, b) }

	msg := []byte("Hi!\n")
	var irqCount int
	for _, b := range msg {
		p.Write(addr.SB, b)
		if p.Write(addr.SC, 0x81)&uint8(addr.Serial) != 0 {
			irqCount++
		}
	}

	assert.Equal(t, "Hi!\n", string(out))
	assert.Equal(t, len(msg), irqCount)
}

func TestSerialIgnoresExternalClockTransfers(t *testing.T) {
	p := New()
	var out []byte
	p.Sink = func(b byte) { out = append(out, b) }

	p.Write(addr.SB, 'X')
	p.Write(addr.SC, 0x80) // start bit set, clock bit clear: no local clock source
	assert.Empty(t, out)
}
