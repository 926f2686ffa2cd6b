//go:build !sdl2

package sdl2audio

import "fmt"

// NewSink reports that this build was compiled without SDL2 support.
// Build with -tags sdl2 (and the SDL2 development libraries installed) to
// get a real device.
func NewSink() (Sink, error) {
	return nil, fmt.Errorf("sdl2audio: not available in this build, compile with -tags sdl2")
}
