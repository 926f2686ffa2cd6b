package timer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tamberwick/goboycore/internal/addr"
)

func TestDIVWriteResetsAndIncrementsMonotonically(t *testing.T) {
	tm := New()
	tm.Write(addr.DIV, 0x00)
	assert.Equal(t, uint8(0), tm.Read(addr.DIV))

	tm.Tick(64 * 5)
	assert.NotZero(t, tm.Read(addr.DIV))
}

func TestTIMAOverflowReloadsAndRaisesInterruptOnce(t *testing.T) {
	tm := New()
	tm.Write(addr.TMA, 0xFF)
	tm.Write(addr.TIMA, 0xFE)
	tm.Write(addr.TAC, 0x05) // enabled, rate selects DIV bit 3

	var raisedCount int
	for i := 0; i < 16; i++ {
		if tm.Tick(4)&uint8(addr.Timer) != 0 {
			raisedCount++
		}
	}

	assert.Equal(t, 1, raisedCount)
	assert.Equal(t, uint8(0xFF), tm.Read(addr.TIMA))
}

func TestTACWriteGlitchCausesSpuriousIncrement(t *testing.T) {
	tm := New()
	tm.div = 1 << 3 // selected bit for rate 01 is currently 1
	tm.tac = 0x05   // enabled, same rate: lastBit should track as true
	tm.lastBit = true

	tm.Write(addr.TAC, 0x04) // rate 00 selects bit 9, currently 0: falling edge
	assert.Equal(t, uint8(1), tm.tima)
}
