// Package video implements the DMG's picture processing unit: a fixed-budget
// scanline mode state machine and a background-only rasterizer.
package video

import (
	"log/slog"

	"github.com/valerio/dmgcore/jeebie/addr"
	"github.com/valerio/dmgcore/jeebie/bit"
)

// Mode is one of the four PPU scanline states.
type Mode uint8

const (
	HBlank Mode = iota
	VBlank
	OamSearch
	PixelTransfer
)

const (
	oamSearchCycles     = 80
	pixelTransferCycles = 172
	hBlankCycles        = 204
	lineCycles          = oamSearchCycles + pixelTransferCycles + hBlankCycles // 456
	linesPerFrame       = 154
	visibleLines        = 144
)

const (
	vramSize = 0x2000
	oamSize  = 0xA0
)

// RequestFunc raises an interrupt of the given kind.
type RequestFunc func(addr.Interrupt)

// PPU rasterizes the background layer into a frame buffer on a fixed
// scanline schedule, driven entirely by Tick.
type PPU struct {
	vram [vramSize]byte
	oam  [oamSize]byte

	lcdc uint8
	stat uint8
	scy  uint8
	scx  uint8
	ly   uint8
	lyc  uint8
	bgp  uint8
	obp0 uint8
	obp1 uint8
	wy   uint8
	wx   uint8

	mode        Mode
	accumulator int

	frame      *FrameBuffer
	frameReady bool

	requestIRQ RequestFunc
}

// New creates a PPU in OamSearch mode at line 0, with the registers at
// their documented DMG power-up values.
func New(requestIRQ RequestFunc) *PPU {
	return &PPU{
		mode:       OamSearch,
		frame:      NewFrameBuffer(),
		requestIRQ: requestIRQ,
		lcdc:       0x91,
		bgp:        0xFC,
		obp0:       0xFF,
		obp1:       0xFF,
	}
}

// lcdEnabled reports whether LCDC bit 7 (display enable) is set.
func (p *PPU) lcdEnabled() bool {
	return bit.IsSet(7, p.lcdc)
}

// Tick advances the PPU by the given number of T-cycles.
func (p *PPU) Tick(cycles int) {
	if !p.lcdEnabled() {
		return
	}

	p.accumulator += cycles

	for {
		budget := p.modeBudget()
		if p.accumulator < budget {
			return
		}
		p.accumulator -= budget
		p.advanceMode()
	}
}

func (p *PPU) modeBudget() int {
	switch p.mode {
	case OamSearch:
		return oamSearchCycles
	case PixelTransfer:
		return pixelTransferCycles
	case HBlank:
		return hBlankCycles
	case VBlank:
		return lineCycles
	default:
		return lineCycles
	}
}

func (p *PPU) advanceMode() {
	switch p.mode {
	case OamSearch:
		p.mode = PixelTransfer
	case PixelTransfer:
		p.drawScanline()
		p.mode = HBlank
	case HBlank:
		p.ly++
		if p.ly == visibleLines {
			p.mode = VBlank
			p.frameReady = true
			if p.requestIRQ != nil {
				p.requestIRQ(addr.VBlankInterrupt)
			}
		} else {
			p.mode = OamSearch
		}
	case VBlank:
		p.ly++
		if p.ly >= linesPerFrame {
			p.ly = 0
			p.mode = OamSearch
		}
	}

	p.updateStatMode()
}

// updateStatMode mirrors the current mode and LYC-coincidence bit into the
// low 3 bits of STAT. STAT-source interrupts are not implemented.
func (p *PPU) updateStatMode() {
	p.stat = (p.stat &^ 0x03) | uint8(p.statModeBits())
	if p.ly == p.lyc {
		p.stat |= 0x04
	} else {
		p.stat &^= 0x04
	}
}

func (p *PPU) statModeBits() uint8 {
	switch p.mode {
	case HBlank:
		return 0
	case VBlank:
		return 1
	case OamSearch:
		return 2
	case PixelTransfer:
		return 3
	default:
		return 0
	}
}

// IsFrameReady reports whether a full frame has completed since it last
// returned true, and clears the latch.
func (p *PPU) IsFrameReady() bool {
	if p.frameReady {
		p.frameReady = false
		return true
	}
	return false
}

// FrameBuffer returns the current frame buffer for presentation.
func (p *PPU) FrameBuffer() *FrameBuffer {
	return p.frame
}

// drawScanline rasterizes the background for the current line (LY) into the frame buffer.
func (p *PPU) drawScanline() {
	if int(p.ly) >= visibleLines {
		return
	}
	if !bit.IsSet(0, p.lcdc) {
		// LCDC bit 0 disables the background entirely; the line is not
		// redrawn and keeps whatever the frame buffer already held.
		return
	}

	tileMapBase := uint16(addr.TileMap0)
	if bit.IsSet(3, p.lcdc) {
		tileMapBase = addr.TileMap1
	}

	useSignedAddressing := !bit.IsSet(4, p.lcdc)

	y := (int(p.ly) + int(p.scy)) & 0xFF
	tileRow := y / 8
	pixelRow := y % 8

	var tile Tile
	lastTileCol := -1

	for screenX := 0; screenX < ScreenWidth; screenX++ {
		x := (screenX + int(p.scx)) & 0xFF
		tileCol := x / 8
		pixelCol := x % 8

		if tileCol != lastTileCol {
			mapOffset := tileMapBase + uint16(tileRow*32+tileCol)
			tileIndex := p.Read(mapOffset)

			var tileAddr uint16
			if useSignedAddressing {
				tileAddr = uint16(int(addr.TileData2) + int(int8(tileIndex))*16)
			} else {
				tileAddr = addr.TileData0 + uint16(tileIndex)*16
			}

			tile = fetchTile(p, tileAddr)
			lastTileCol = tileCol
		}

		colorIndex := tile.Rows[pixelRow].GetPixel(pixelCol)
		shade := p.applyPalette(p.bgp, colorIndex)
		p.frame.SetPixel(screenX, int(p.ly), shade)
	}
}

// applyPalette maps a 2-bit color index through a palette register.
func (p *PPU) applyPalette(palette uint8, colorIndex int) int {
	shift := uint(colorIndex) * 2
	return int((palette >> shift) & 0x03)
}

// Read handles VRAM and PPU register reads.
func (p *PPU) Read(address uint16) uint8 {
	switch {
	case address >= 0x8000 && address < 0xA000:
		return p.vram[address-0x8000]
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		return p.oam[address-addr.OAMStart]
	case address == addr.LCDC:
		return p.lcdc
	case address == addr.STAT:
		return p.stat | 0x80
	case address == addr.SCY:
		return p.scy
	case address == addr.SCX:
		return p.scx
	case address == addr.LY:
		return p.ly
	case address == addr.LYC:
		return p.lyc
	case address == addr.BGP:
		return p.bgp
	case address == addr.OBP0:
		return p.obp0
	case address == addr.OBP1:
		return p.obp1
	case address == addr.WY:
		return p.wy
	case address == addr.WX:
		return p.wx
	default:
		slog.Warn("unhandled ppu read", "addr", address)
		return 0xFF
	}
}

// Write handles VRAM and PPU register writes.
func (p *PPU) Write(address uint16, value uint8) {
	switch {
	case address >= 0x8000 && address < 0xA000:
		p.vram[address-0x8000] = value
	case address >= addr.OAMStart && address <= addr.OAMEnd:
		p.oam[address-addr.OAMStart] = value
	case address == addr.LCDC:
		p.lcdc = value
	case address == addr.STAT:
		p.stat = (p.stat & 0x07) | (value &^ 0x07)
	case address == addr.SCY:
		p.scy = value
	case address == addr.SCX:
		p.scx = value
	case address == addr.LY:
		// read-only
	case address == addr.LYC:
		p.lyc = value
	case address == addr.BGP:
		p.bgp = value
	case address == addr.OBP0:
		p.obp0 = value
	case address == addr.OBP1:
		p.obp1 = value
	case address == addr.WY:
		p.wy = value
	case address == addr.WX:
		p.wx = value
	default:
		slog.Warn("unhandled ppu write", "addr", address)
	}
}
