package video

// Framebuffer is a 160x144 grid of 15-bit RGB colors (5 bits each of R, G,
// B in the low 15 bits), the format external collaborators convert to
// their own surface representation.
type Framebuffer struct {
	Pixels [ScreenWidth * ScreenHeight]uint16
}

func (f *Framebuffer) Set(x, y int, color uint16) {
	f.Pixels[y*ScreenWidth+x] = color
}

func (f *Framebuffer) At(x, y int) uint16 {
	return f.Pixels[y*ScreenWidth+x]
}

// rgb15 packs 5-bit channels into the documented 15-bit encoding.
func rgb15(r, g, b uint8) uint16 {
	return uint16(r&0x1F) | uint16(g&0x1F)<<5 | uint16(b&0x1F)<<10
}

// dmgShadeToRGB15 maps a 2-bit DMG shade index (0=lightest) to a
// grayscale 15-bit color.
func dmgShadeToRGB15(shade uint8) uint16 {
	levels := [4]uint8{0x1F, 0x15, 0x0A, 0x00}
	v := levels[shade&0x03]
	return rgb15(v, v, v)
}
