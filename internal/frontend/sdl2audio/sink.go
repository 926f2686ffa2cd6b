// Package sdl2audio drains GameBoy.TakeAudio's PCM stream to a real output
// device via SDL2, behind the "sdl2" build tag the way the rest of the
// ecosystem gates SDL2 bindings (they require the SDL2 development
// libraries to be installed at build time). In default builds NewSink
// returns no sink and an error saying why, instead of failing to link.
package sdl2audio

// Sink accepts interleaved stereo int16 PCM frames, as produced by
// GameBoy.TakeAudio, and plays them on a host audio device.
type Sink interface {
	// Queue submits samples for playback; it never blocks on the device
	// catching up, matching the core's no-backpressure audio contract.
	Queue(samples []int16) error
	Close() error
}
