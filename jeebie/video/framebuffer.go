package video

const (
	// ScreenWidth is the number of visible pixel columns.
	ScreenWidth = 160
	// ScreenHeight is the number of visible scanlines.
	ScreenHeight = 144
)

// shades maps a 2-bit palette index to an 8-bit grayscale intensity.
// Index 0 is the lightest shade, index 3 the darkest.
var shades = [4]uint8{0xFF, 0xAA, 0x55, 0x00}

// FrameBuffer is a flat RGB pixel buffer, 3 bytes per pixel, row-major.
type FrameBuffer struct {
	pixels [ScreenWidth * ScreenHeight * 3]uint8
}

// NewFrameBuffer creates an all-white (shade 0) frame buffer.
func NewFrameBuffer() *FrameBuffer {
	fb := &FrameBuffer{}
	fb.Clear()
	return fb
}

// Clear resets every pixel to the lightest shade.
func (fb *FrameBuffer) Clear() {
	for i := range fb.pixels {
		fb.pixels[i] = shades[0]
	}
}

// SetPixel writes a pixel's shade (0-3) at (x, y).
func (fb *FrameBuffer) SetPixel(x, y, colorIndex int) {
	if x < 0 || x >= ScreenWidth || y < 0 || y >= ScreenHeight {
		return
	}
	shade := shades[colorIndex&0x03]
	offset := (y*ScreenWidth + x) * 3
	fb.pixels[offset] = shade
	fb.pixels[offset+1] = shade
	fb.pixels[offset+2] = shade
}

// Bytes returns the raw RGB buffer, 160*144*3 bytes, row-major, top to bottom.
func (fb *FrameBuffer) Bytes() []uint8 {
	return fb.pixels[:]
}
