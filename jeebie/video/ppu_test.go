package video

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/dmgcore/jeebie/addr"
)

func newEnabledPPU(requestIRQ RequestFunc) *PPU {
	p := New(requestIRQ)
	p.Write(addr.LCDC, 0x91) // LCD on, BG on, tile data 0x8000 addressing, tile map 0
	return p
}

func TestModeProgressionWithinALine(t *testing.T) {
	p := newEnabledPPU(nil)
	assert.Equal(t, OamSearch, p.mode)

	p.Tick(oamSearchCycles)
	assert.Equal(t, PixelTransfer, p.mode)

	p.Tick(pixelTransferCycles)
	assert.Equal(t, HBlank, p.mode)

	p.Tick(hBlankCycles)
	assert.Equal(t, OamSearch, p.mode)
	assert.Equal(t, uint8(1), p.Read(addr.LY))
}

func TestFrameReadyAfterVisibleLines(t *testing.T) {
	p := newEnabledPPU(nil)

	for line := 0; line < visibleLines; line++ {
		p.Tick(lineCycles)
	}

	assert.True(t, p.IsFrameReady())
	assert.False(t, p.IsFrameReady(), "the latch should clear after being read once")
}

func TestLYWrapsAfterVBlank(t *testing.T) {
	p := newEnabledPPU(nil)

	for line := 0; line < linesPerFrame; line++ {
		p.Tick(lineCycles)
	}

	assert.Equal(t, uint8(0), p.Read(addr.LY))
	assert.Equal(t, OamSearch, p.mode)
}

func TestVBlankInterruptRequestedOncePerFrame(t *testing.T) {
	requested := 0
	p := newEnabledPPU(func(i addr.Interrupt) {
		if i == addr.VBlankInterrupt {
			requested++
		}
	})

	for line := 0; line < linesPerFrame*2; line++ {
		p.Tick(lineCycles)
	}

	assert.Equal(t, 2, requested)
}

func TestDisabledLCDHaltsProgression(t *testing.T) {
	p := New(nil)
	p.Write(addr.LCDC, 0x00)

	p.Tick(lineCycles * 10)

	assert.Equal(t, uint8(0), p.Read(addr.LY))
	assert.Equal(t, OamSearch, p.mode)
}

func TestBackgroundRasterizationUsesBGPPalette(t *testing.T) {
	p := newEnabledPPU(nil)
	p.Write(addr.BGP, 0b11_10_01_00) // index 0 -> shade 0, 1 -> 1, 2 -> 2, 3 -> 3

	// Tile 0 at 0x8000: row 0 bytes chosen so pixel 0 has color index 3 (both bits set).
	p.Write(0x8000, 0x80) // low bit for pixel 0
	p.Write(0x8001, 0x80) // high bit for pixel 0

	// Tile map 0 at 0x9800: first entry selects tile 0 (already zero-valued).

	p.Tick(oamSearchCycles + pixelTransferCycles)

	pixels := p.FrameBuffer().Bytes()
	assert.Equal(t, uint8(0x00), pixels[0], "color index 3 maps to the darkest shade")
}

func TestLYCFlagSetOnCoincidence(t *testing.T) {
	p := newEnabledPPU(nil)
	p.Write(addr.LYC, 1)

	p.Tick(lineCycles)

	stat := p.Read(addr.STAT)
	assert.NotZero(t, stat&0x04)
}
