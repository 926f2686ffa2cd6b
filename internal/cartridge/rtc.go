package cartridge

import "time"

// RTC models the real-time clock carried by MBC3+RTC cartridges. Live
// registers advance against the wall clock; only a latched snapshot is
// observable by the CPU, matching real hardware's two-step latch sequence.
// Persisted state is a signed offset rather than an absolute timestamp so
// save files stay portable across machines and across time itself.
type RTC struct {
	seconds, minutes, hours uint8
	days                    uint16 // 9-bit day counter
	halted                  bool
	dayCarry                bool

	lastAdvance    time.Time
	latched        [5]uint8
	pendingLatchZero bool

	now func() time.Time // overridable for tests
}

// RTC register selector values, as written to the RAM-bank-select port.
const (
	RTCSeconds  = 0x08
	RTCMinutes  = 0x09
	RTCHours    = 0x0A
	RTCDaysLow  = 0x0B
	RTCDaysHigh = 0x0C
)

// IsRTCSelector reports whether a RAM-bank-select value addresses the RTC
// rather than a RAM page.
func IsRTCSelector(sel uint8) bool {
	return sel >= RTCSeconds && sel <= RTCDaysHigh
}

// NewRTC returns an RTC anchored to the current wall-clock time.
func NewRTC() *RTC {
	r := &RTC{now: time.Now}
	r.lastAdvance = r.now()
	return r
}

func (r *RTC) advance() {
	if r.halted {
		return
	}
	now := r.now()
	elapsed := int64(now.Sub(r.lastAdvance).Seconds())
	r.lastAdvance = now
	if elapsed <= 0 {
		return
	}
	r.addSeconds(elapsed)
}

func (r *RTC) addSeconds(n int64) {
	total := int64(r.seconds) + int64(r.minutes)*60 + int64(r.hours)*3600 + int64(r.days)*86400 + n
	if total < 0 {
		total = 0
	}
	days := total / 86400
	rem := total % 86400
	r.hours = uint8(rem / 3600)
	rem %= 3600
	r.minutes = uint8(rem / 60)
	r.seconds = uint8(rem % 60)
	if days > 0x1FF {
		r.dayCarry = true
		days &= 0x1FF
	}
	r.days = uint16(days)
}

// WriteLatchSequence feeds one byte of a 0x6000-0x7FFF write; a 0 followed
// by a 1 latches the live registers into the observable snapshot.
func (r *RTC) WriteLatchSequence(value uint8) {
	if value == 0 {
		r.pendingLatchZero = true
		return
	}
	if value == 1 && r.pendingLatchZero {
		r.latch()
	}
	r.pendingLatchZero = false
}

func (r *RTC) latch() {
	r.advance()
	r.latched[0] = r.seconds
	r.latched[1] = r.minutes
	r.latched[2] = r.hours
	r.latched[3] = uint8(r.days)
	dh := uint8(r.days>>8) & 0x01
	if r.halted {
		dh |= 0x40
	}
	if r.dayCarry {
		dh |= 0x80
	}
	r.latched[4] = dh
}

// ReadLatched returns the latched value for one of the RTCSeconds..RTCDaysHigh selectors.
func (r *RTC) ReadLatched(sel uint8) uint8 {
	return r.latched[sel-RTCSeconds]
}

// WriteRegister sets a live RTC register directly, bypassing the latch.
func (r *RTC) WriteRegister(sel uint8, value uint8) {
	r.advance()
	switch sel {
	case RTCSeconds:
		r.seconds = value % 60
	case RTCMinutes:
		r.minutes = value % 60
	case RTCHours:
		r.hours = value % 24
	case RTCDaysLow:
		r.days = r.days&0x100 | uint16(value)
	case RTCDaysHigh:
		r.days = r.days&0x0FF | uint16(value&0x01)<<8
		r.halted = value&0x40 != 0
		r.dayCarry = value&0x80 != 0
	}
}

// saveOffset returns seconds such that wall-clock-now + offset reproduces
// the current apparent RTC time; that offset is what gets persisted.
func (r *RTC) saveOffset() int64 {
	r.advance()
	total := int64(r.seconds) + int64(r.minutes)*60 + int64(r.hours)*3600 + int64(r.days)*86400
	return total - r.now().Unix()
}

func (r *RTC) loadOffset(offset int64) {
	total := r.now().Unix() + offset
	if total < 0 {
		total = 0
	}
	days := total / 86400
	rem := total % 86400
	r.hours = uint8(rem / 3600)
	rem %= 3600
	r.minutes = uint8(rem / 60)
	r.seconds = uint8(rem % 60)
	r.dayCarry = days > 0x1FF
	r.days = uint16(days & 0x1FF)
	r.lastAdvance = r.now()
}

// MarshalTrailer encodes the RTC as the 4-byte little-endian seconds offset
// plus day-high/flags byte appended after a save's RAM contents, per the
// cartridge save-data layout.
func (r *RTC) MarshalTrailer() []byte {
	offset := r.saveOffset()
	buf := make([]byte, 5)
	buf[0] = byte(offset)
	buf[1] = byte(offset >> 8)
	buf[2] = byte(offset >> 16)
	buf[3] = byte(offset >> 24)
	r.latch()
	buf[4] = r.latched[4]
	return buf
}

// UnmarshalTrailer restores RTC state from a save-data trailer.
func (r *RTC) UnmarshalTrailer(buf []byte) {
	if len(buf) < 5 {
		return
	}
	offset := int64(int32(uint32(buf[0]) | uint32(buf[1])<<8 | uint32(buf[2])<<16 | uint32(buf[3])<<24))
	r.loadOffset(offset)
	r.halted = buf[4]&0x40 != 0
	r.dayCarry = buf[4]&0x80 != 0
}
