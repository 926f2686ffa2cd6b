package audio

// Provider is the surface a host frontend uses to pull mixed samples and
// drive channel debug controls, independent of the register-level APU type.
type Provider interface {
	// GetSamples retrieves count interleaved stereo frames for playback.
	GetSamples(count int) []int16

	ToggleChannel(channel int)
	SoloChannel(channel int)
	GetChannelStatus() (ch1, ch2, ch3, ch4 bool)
}

var _ Provider = (*APU)(nil)
