package soc

const (
	FramebufferWidth  = 160
	FramebufferHeight = 144
)

// palette selects the four grayscale shades a 2-bit color id maps to. It
// is the only palette table; there is no green-tint variant and no build
// switch between palettes.
var palette = [4]uint32{
	0xFFFFFFFF, // white
	0x989898FF,
	0x4C4C4CFF,
	0x000000FF, // black
}

// FrameBuffer is a 160x144 RGBA8888 pixel buffer.
type FrameBuffer struct {
	pixels [FramebufferWidth * FramebufferHeight]uint32
}

func (fb *FrameBuffer) set(x, y int, shade uint8) {
	fb.pixels[y*FramebufferWidth+x] = palette[shade&0x03]
}

func (fb *FrameBuffer) fill(shade uint8) {
	for i := range fb.pixels {
		fb.pixels[i] = palette[shade&0x03]
	}
}

// GetPixel returns the RGBA8888 value at (x, y).
func (fb *FrameBuffer) GetPixel(x, y int) uint32 {
	return fb.pixels[y*FramebufferWidth+x]
}

// ToSlice exposes the raw pixel buffer for a backend to blit directly.
func (fb *FrameBuffer) ToSlice() []uint32 {
	return fb.pixels[:]
}
