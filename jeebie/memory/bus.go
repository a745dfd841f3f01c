// Package memory implements the DMG's 16-bit address bus, dispatching reads
// and writes to work RAM, the cartridge, the PPU, the timer, the interrupt
// controller and the joypad.
package memory

import (
	"fmt"
	"log/slog"

	"github.com/valerio/dmgcore/jeebie/addr"
	"github.com/valerio/dmgcore/jeebie/bit"
	"github.com/valerio/dmgcore/jeebie/cartridge"
	"github.com/valerio/dmgcore/jeebie/interrupt"
	"github.com/valerio/dmgcore/jeebie/timer"
	"github.com/valerio/dmgcore/jeebie/video"
)

type memRegion uint8

const (
	regionROM memRegion = iota
	regionVRAM
	regionExtRAM
	regionWRAM
	regionEcho
	regionOAM
	regionUnused
	regionIO
	regionHRAM
)

// JoypadKey is one of the eight physical Game Boy buttons.
type JoypadKey uint8

const (
	JoypadRight JoypadKey = iota
	JoypadLeft
	JoypadUp
	JoypadDown
	JoypadA
	JoypadB
	JoypadSelect
	JoypadStart
)

// PPU is the subset of video.PPU the bus depends on.
type PPU interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
	Tick(cycles int)
}

// Bus is the DMG's 16-bit memory-mapped I/O space.
type Bus struct {
	cart      *cartridge.Cartridge
	ppu       PPU
	timer     *timer.Timer
	interrupt *interrupt.Controller

	wram [0x2000]byte
	hram [0x7F]byte
	io   [0x80]byte

	joypadButtons uint8
	joypadDpad    uint8
	p1Select      uint8

	// bootROM stands in for the 256-byte DMG boot ROM. Its content is a
	// stub (all zero, decoding as NOP) rather than the real boot program,
	// which this core doesn't ship or execute; it exists so that reads of
	// 0x0000-0x00FF are observably distinct from cartridge ROM while the
	// boot lock is held, per the address map.
	bootROM    [0x100]byte
	bootLocked bool

	regionMap [256]memRegion
}

// New creates a bus with no cartridge loaded, a fresh PPU, timer and
// interrupt controller, and the boot ROM region locked.
func New() *Bus {
	b := &Bus{
		joypadButtons: 0x0F,
		joypadDpad:    0x0F,
		bootLocked:    true,
	}
	b.interrupt = interrupt.New()
	b.timer = timer.New(func() { b.interrupt.Request(addr.TimerInterrupt) })
	b.ppu = video.New(func(i addr.Interrupt) { b.interrupt.Request(i) })
	initRegionMap(b)
	return b
}

// LoadCartridge parses and installs a ROM image.
func (b *Bus) LoadCartridge(rom []byte) {
	b.cart = cartridge.New(rom)
}

// Interrupts returns the bus's interrupt controller.
func (b *Bus) Interrupts() *interrupt.Controller {
	return b.interrupt
}

// PPU returns the bus's picture processing unit.
func (b *Bus) PPU() *video.PPU {
	return b.ppu.(*video.PPU)
}

// Tick advances the timer and PPU by the given number of T-cycles.
func (b *Bus) Tick(cycles int) {
	b.timer.Tick(cycles)
	b.ppu.Tick(cycles)
}

func initRegionMap(b *Bus) {
	for i := 0x00; i <= 0x7F; i++ {
		b.regionMap[i] = regionROM
	}
	for i := 0x80; i <= 0x9F; i++ {
		b.regionMap[i] = regionVRAM
	}
	for i := 0xA0; i <= 0xBF; i++ {
		b.regionMap[i] = regionExtRAM
	}
	for i := 0xC0; i <= 0xDF; i++ {
		b.regionMap[i] = regionWRAM
	}
	for i := 0xE0; i <= 0xFD; i++ {
		b.regionMap[i] = regionEcho
	}
	b.regionMap[0xFE] = regionOAM
	b.regionMap[0xFF] = regionIO
}

// Read reads a byte from the full 16-bit address space.
func (b *Bus) Read(address uint16) uint8 {
	switch b.regionMap[address>>8] {
	case regionROM:
		if b.bootLocked && address < 0x100 {
			return b.bootROM[address]
		}
		if b.cart == nil {
			slog.Warn("reading from rom with no cartridge", "addr", fmt.Sprintf("0x%04X", address))
			return 0xFF
		}
		return b.cart.Read(address)
	case regionExtRAM:
		if b.cart == nil {
			slog.Warn("reading from external ram with no cartridge", "addr", fmt.Sprintf("0x%04X", address))
			return 0xFF
		}
		return b.cart.Read(address)
	case regionVRAM:
		return b.ppu.Read(address)
	case regionWRAM:
		return b.wram[address-0xC000]
	case regionEcho:
		return b.wram[address-0xE000]
	case regionOAM:
		return b.ppu.Read(address)
	default:
		return b.readIO(address)
	}
}

func (b *Bus) readIO(address uint16) uint8 {
	switch {
	case address == addr.P1:
		return b.readJoypad()
	case address == addr.DIV, address == addr.TIMA, address == addr.TMA, address == addr.TAC:
		return b.timer.Read(address)
	case address == addr.IF:
		return b.interrupt.ReadIF()
	case address == addr.IE:
		return b.interrupt.ReadIE()
	case address == addr.LCDC, address == addr.STAT, address == addr.SCY, address == addr.SCX,
		address == addr.LY, address == addr.LYC, address == addr.BGP, address == addr.OBP0,
		address == addr.OBP1, address == addr.WY, address == addr.WX:
		return b.ppu.Read(address)
	case address == addr.BootLock:
		return b.io[address-0xFF00]
	case address >= 0xFF80 && address <= 0xFFFE:
		return b.hram[address-0xFF80]
	default:
		return 0xFF
	}
}

// Write writes a byte to the full 16-bit address space.
func (b *Bus) Write(address uint16, value uint8) {
	switch b.regionMap[address>>8] {
	case regionROM:
		if b.cart == nil {
			slog.Warn("writing to rom with no cartridge", "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
			return
		}
		b.cart.Write(address, value)
	case regionVRAM:
		b.ppu.Write(address, value)
	case regionExtRAM:
		if b.cart == nil {
			slog.Warn("writing to external ram with no cartridge", "addr", fmt.Sprintf("0x%04X", address), "value", fmt.Sprintf("0x%02X", value))
			return
		}
		b.cart.Write(address, value)
	case regionWRAM:
		b.wram[address-0xC000] = value
	case regionEcho:
		b.wram[address-0xE000] = value
	case regionOAM:
		b.ppu.Write(address, value)
	default:
		b.writeIO(address, value)
	}
}

func (b *Bus) writeIO(address uint16, value uint8) {
	switch {
	case address == addr.P1:
		b.writeJoypad(value)
	case address == addr.DIV, address == addr.TIMA, address == addr.TMA, address == addr.TAC:
		b.timer.Write(address, value)
	case address == addr.IF:
		b.interrupt.WriteIF(value)
	case address == addr.IE:
		b.interrupt.WriteIE(value)
	case address == addr.DMA:
		b.performDMA(value)
	case address == addr.LCDC, address == addr.STAT, address == addr.SCY, address == addr.SCX,
		address == addr.LY, address == addr.LYC, address == addr.BGP, address == addr.OBP0,
		address == addr.OBP1, address == addr.WY, address == addr.WX:
		b.ppu.Write(address, value)
	case address == addr.BootLock:
		if value != 0 {
			b.bootLocked = false
		}
		b.io[address-0xFF00] = value
	case address >= 0xFF80 && address <= 0xFFFE:
		b.hram[address-0xFF80] = value
	default:
		b.io[address-0xFF00] = value
	}
}

// performDMA copies 160 bytes from (value << 8) into OAM, synchronously.
func (b *Bus) performDMA(value uint8) {
	source := uint16(value) << 8
	for i := uint16(0); i < 160; i++ {
		b.ppu.Write(addr.OAMStart+i, b.Read(source+i))
	}
}

// readJoypad builds the P1 register value from the current selection and button state.
func (b *Bus) readJoypad() uint8 {
	result := uint8(0b1100_0000)
	result |= b.p1Select

	selectDpad := !bit.IsSet(4, b.p1Select)
	selectButtons := !bit.IsSet(5, b.p1Select)

	switch {
	case selectButtons && !selectDpad:
		result |= b.joypadButtons & 0x0F
	case selectDpad && !selectButtons:
		result |= b.joypadDpad & 0x0F
	case selectButtons && selectDpad:
		result |= b.joypadButtons & b.joypadDpad & 0x0F
	default:
		result |= 0x0F
	}

	return result
}

func (b *Bus) writeJoypad(value uint8) {
	b.p1Select = value & 0b0011_0000
}

// HandleKeyPress marks a key as pressed and requests the joypad interrupt on
// a high-to-low transition.
func (b *Bus) HandleKeyPress(key JoypadKey) {
	oldButtons := b.joypadButtons
	oldDpad := b.joypadDpad

	switch key {
	case JoypadRight:
		b.joypadDpad = bit.Reset(0, b.joypadDpad)
	case JoypadLeft:
		b.joypadDpad = bit.Reset(1, b.joypadDpad)
	case JoypadUp:
		b.joypadDpad = bit.Reset(2, b.joypadDpad)
	case JoypadDown:
		b.joypadDpad = bit.Reset(3, b.joypadDpad)
	case JoypadA:
		b.joypadButtons = bit.Reset(0, b.joypadButtons)
	case JoypadB:
		b.joypadButtons = bit.Reset(1, b.joypadButtons)
	case JoypadSelect:
		b.joypadButtons = bit.Reset(2, b.joypadButtons)
	case JoypadStart:
		b.joypadButtons = bit.Reset(3, b.joypadButtons)
	}

	buttonTransitions := oldButtons &^ b.joypadButtons
	dpadTransitions := oldDpad &^ b.joypadDpad
	if buttonTransitions|dpadTransitions != 0 {
		b.interrupt.Request(addr.JoypadInterrupt)
	}
}

// HandleKeyRelease marks a key as released.
func (b *Bus) HandleKeyRelease(key JoypadKey) {
	switch key {
	case JoypadRight:
		b.joypadDpad = bit.Set(0, b.joypadDpad)
	case JoypadLeft:
		b.joypadDpad = bit.Set(1, b.joypadDpad)
	case JoypadUp:
		b.joypadDpad = bit.Set(2, b.joypadDpad)
	case JoypadDown:
		b.joypadDpad = bit.Set(3, b.joypadDpad)
	case JoypadA:
		b.joypadButtons = bit.Set(0, b.joypadButtons)
	case JoypadB:
		b.joypadButtons = bit.Set(1, b.joypadButtons)
	case JoypadSelect:
		b.joypadButtons = bit.Set(2, b.joypadButtons)
	case JoypadStart:
		b.joypadButtons = bit.Set(3, b.joypadButtons)
	}
}
