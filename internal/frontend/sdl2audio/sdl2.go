//go:build sdl2

package sdl2audio

import (
	"fmt"
	"log/slog"

	"github.com/veandco/go-sdl2/sdl"
)

const sampleRate = 48000

type device struct {
	id sdl.AudioDeviceID
}

// NewSink opens the default SDL2 audio output device at the core's 48kHz
// stereo sample rate.
func NewSink() (Sink, error) {
	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl2audio: %w", err)
	}

	spec := &sdl.AudioSpec{
		Freq:     sampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  1024,
	}
	obtained := &sdl.AudioSpec{}
	id, err := sdl.OpenAudioDevice("", false, spec, obtained, 0)
	if err != nil {
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
		return nil, fmt.Errorf("sdl2audio: opening device: %w", err)
	}

	sdl.PauseAudioDevice(id, false)
	slog.Info("sdl2audio: device opened", "freq", obtained.Freq, "samples", obtained.Samples)

	return &device{id: id}, nil
}

func (d *device) Queue(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}
	bytes := make([]byte, len(samples)*2)
	for i, s := range samples {
		bytes[i*2] = byte(s)
		bytes[i*2+1] = byte(s >> 8)
	}
	return sdl.QueueAudio(d.id, bytes)
}

func (d *device) Close() error {
	sdl.CloseAudioDevice(d.id)
	sdl.QuitSubSystem(sdl.INIT_AUDIO)
	return nil
}
