// Package jeebie is the emulator's root package: it wires the CPU, memory
// bus, PPU, timer and interrupt controller together and drives them one
// instruction or one frame at a time.
package jeebie

import (
	"log/slog"
	"os"

	"github.com/valerio/dmgcore/jeebie/cpu"
	"github.com/valerio/dmgcore/jeebie/memory"
	"github.com/valerio/dmgcore/jeebie/video"
)

// Emulator is the root struct tying together the DMG core.
type Emulator struct {
	bus *memory.Bus
	cpu *cpu.CPU

	frameCount uint64
}

func newEmulator() *Emulator {
	bus := memory.New()
	e := &Emulator{
		bus: bus,
		cpu: cpu.New(bus, bus.Interrupts()),
	}
	return e
}

// New creates an emulator instance with no cartridge loaded.
func New() *Emulator {
	return newEmulator()
}

// NewWithFile creates an emulator instance and loads the ROM at path into it.
func NewWithFile(path string) (*Emulator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded rom data", "size", len(data))

	e := newEmulator()
	e.bus.LoadCartridge(data)
	return e, nil
}

// Step executes one interrupt dispatch or one instruction, ticks the timer
// and PPU for the cycles spent, and returns those cycles.
func (e *Emulator) Step() int {
	cycles := e.cpu.Step()
	e.bus.Tick(cycles)
	return cycles
}

// RunFrame steps the emulator until the PPU has completed a full frame.
func (e *Emulator) RunFrame() {
	for !e.bus.PPU().IsFrameReady() {
		e.Step()
	}
	e.frameCount++
}

// FrameBuffer returns the current 160x144 RGB frame for presentation.
func (e *Emulator) FrameBuffer() *video.FrameBuffer {
	return e.bus.PPU().FrameBuffer()
}

// HandleKeyPress forwards a joypad key press to the bus.
func (e *Emulator) HandleKeyPress(key memory.JoypadKey) {
	e.bus.HandleKeyPress(key)
}

// HandleKeyRelease forwards a joypad key release to the bus.
func (e *Emulator) HandleKeyRelease(key memory.JoypadKey) {
	e.bus.HandleKeyRelease(key)
}

// FrameCount returns the number of frames completed by RunFrame so far.
func (e *Emulator) FrameCount() uint64 {
	return e.frameCount
}
