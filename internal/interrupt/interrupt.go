// Package interrupt holds the two 5-bit interrupt registers shared by every
// peripheral: the enable mask (IE) and the pending-interrupt latch (IF).
// Peripherals never mutate IF directly; their Tick methods return a bitset
// that the bus ORs in centrally, per the design's aliasing-avoidance note.
package interrupt

import "github.com/tamberwick/goboycore/internal/addr"

// Controller is the IE/IF register pair. Bits above 5 always read as 1 and
// ignore writes.
type Controller struct {
	enable uint8
	flag   uint8
}

func (c *Controller) Enable() uint8 { return c.enable | ^addr.InterruptMask }
func (c *Controller) Flag() uint8   { return c.flag | ^addr.InterruptMask }

func (c *Controller) SetEnable(v uint8) { c.enable = v & addr.InterruptMask }
func (c *Controller) SetFlag(v uint8)   { c.flag = v & addr.InterruptMask }

// Request ORs the given interrupt bits into the pending latch.
func (c *Controller) Request(bits uint8) {
	c.flag |= bits & addr.InterruptMask
}

// Clear turns off a single interrupt's pending bit, called by the CPU once
// it has begun dispatching that interrupt.
func (c *Controller) Clear(i addr.Interrupt) {
	c.flag &^= uint8(i)
}

// Pending returns the bits that are both enabled and pending.
func (c *Controller) Pending() uint8 {
	return c.enable & c.flag & addr.InterruptMask
}
