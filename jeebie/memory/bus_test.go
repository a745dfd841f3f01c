package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valerio/dmgcore/jeebie/addr"
)

func romWithHeader() []byte {
	rom := make([]byte, 0x8000)
	rom[0x147] = 0x00 // plain ROM
	return rom
}

func TestWRAMReadWrite(t *testing.T) {
	b := New()
	b.Write(0xC010, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0xC010))
}

func TestEchoRAMMirrorsWRAM(t *testing.T) {
	b := New()
	b.Write(0xC010, 0x55)
	assert.Equal(t, uint8(0x55), b.Read(0xE010), "echo RAM at 0xE010 mirrors WRAM at 0xC010")

	b.Write(0xE020, 0x66)
	assert.Equal(t, uint8(0x66), b.Read(0xC020))
}

func TestHRAMReadWrite(t *testing.T) {
	b := New()
	b.Write(0xFF80, 0x11)
	assert.Equal(t, uint8(0x11), b.Read(0xFF80))

	b.Write(0xFFFE, 0x22)
	assert.Equal(t, uint8(0x22), b.Read(0xFFFE))
}

func TestUnmappedCartridgeReadReturnsFF(t *testing.T) {
	b := New()
	assert.Equal(t, uint8(0xFF), b.Read(0x0100))
}

func TestCartridgeReadAfterLoad(t *testing.T) {
	b := New()
	rom := romWithHeader()
	rom[0x0100] = 0xAB
	b.LoadCartridge(rom)

	assert.Equal(t, uint8(0xAB), b.Read(0x0100))
}

func TestIEAndIFRegisters(t *testing.T) {
	b := New()
	b.Write(addr.IE, 0x1F)
	assert.Equal(t, uint8(0x1F), b.Read(addr.IE))

	b.Write(addr.IF, 0x01)
	assert.Equal(t, uint8(0xE1), b.Read(addr.IF), "unused top bits of IF always read as 1")
}

func TestTimerRegistersRouteThroughBus(t *testing.T) {
	b := New()
	b.Write(addr.TAC, 0x05)
	b.Write(addr.TMA, 0x10)
	b.Write(addr.TIMA, 0xFF)

	b.Tick(16)

	assert.Equal(t, uint8(0x10), b.Read(addr.TIMA))
	assert.NotZero(t, b.Read(addr.IF)&uint8(addr.TimerInterrupt))
}

func TestOAMDMACopiesFromSource(t *testing.T) {
	b := New()
	rom := romWithHeader()
	for i := 0; i < 160; i++ {
		rom[0x2000+i] = byte(i)
	}
	b.LoadCartridge(rom)

	b.Write(addr.DMA, 0x20) // source = 0x2000

	for i := uint16(0); i < 160; i++ {
		assert.Equal(t, byte(i), b.Read(addr.OAMStart+i))
	}
}

func TestBootLockUnmapsOnNonZeroWrite(t *testing.T) {
	rom := romWithHeader()
	rom[0x0000] = 0xAB
	rom[0x00FF] = 0xCD

	b := New()
	b.LoadCartridge(rom)
	assert.True(t, b.bootLocked)

	// While the boot ROM is locked, reads at 0x0000-0x00FF come from the
	// boot stub, not the cartridge underneath it.
	assert.Equal(t, uint8(0x00), b.Read(0x0000))
	assert.Equal(t, uint8(0x00), b.Read(0x00FF))

	b.Write(addr.BootLock, 0x01)
	assert.False(t, b.bootLocked)

	// Once unlocked, the same addresses fall through to cartridge ROM.
	assert.Equal(t, uint8(0xAB), b.Read(0x0000))
	assert.Equal(t, uint8(0xCD), b.Read(0x00FF))
}

func TestJoypadSelectionMapping(t *testing.T) {
	b := New()

	b.Write(addr.P1, 0x20) // bit 4 low selects the direction keys (active low)
	b.HandleKeyPress(JoypadRight)

	assert.False(t, b.Read(addr.P1)&0x01 != 0, "bit 0 clear means right is pressed")
}

func TestJoypadInterruptOnPress(t *testing.T) {
	b := New()
	b.Write(addr.P1, 0x10) // select buttons
	b.HandleKeyPress(JoypadA)

	assert.NotZero(t, b.Read(addr.IF)&uint8(addr.JoypadInterrupt))
}

func TestPPURegistersRouteThroughBus(t *testing.T) {
	b := New()
	b.Write(addr.BGP, 0xE4)
	assert.Equal(t, uint8(0xE4), b.Read(addr.BGP))
}

func TestVRAMReadWrite(t *testing.T) {
	b := New()
	b.Write(0x8000, 0x99)
	assert.Equal(t, uint8(0x99), b.Read(0x8000))
}
