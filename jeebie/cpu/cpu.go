// Package cpu implements the Sharp LR35902 instruction set: registers,
// flags, the full base and 0xCB-prefixed opcode tables, and interrupt
// dispatch.
package cpu

import (
	"log/slog"

	"github.com/valerio/dmgcore/jeebie/addr"
)

// Bus is the memory interface the CPU reads instructions and operands from.
type Bus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// Interrupts is the subset of the interrupt controller the CPU drives directly.
type Interrupts interface {
	Pending() bool
	TakeNext() (addr.Interrupt, bool)
	EnableMaster()
	DisableMaster()
}

// CPU holds the Sharp LR35902 register file and executes one instruction (or
// one interrupt dispatch) per Step call.
type CPU struct {
	a, b, c, d, e, h, l, f uint8
	sp, pc                 uint16

	halted        bool
	currentOpcode uint8

	bus        Bus
	interrupts Interrupts
}

// New creates a CPU wired to the given bus and interrupt controller, with
// the register file zeroed and PC/SP at their documented power-up values
// (PC=0x0100, SP=0xFFFE).
func New(bus Bus, interrupts Interrupts) *CPU {
	c := &CPU{bus: bus, interrupts: interrupts}
	c.sp = 0xFFFE
	c.pc = 0x0100
	return c
}

// PC returns the current program counter. Exposed for tests and tooling.
func (c *CPU) PC() uint16 { return c.pc }

// SP returns the current stack pointer.
func (c *CPU) SP() uint16 { return c.sp }

// Registers returns the eight 8-bit register values, in A,F,B,C,D,E,H,L order.
func (c *CPU) Registers() (a, f, b, ccReg, d, e, h, l uint8) {
	return c.a, c.f, c.b, c.c, c.d, c.e, c.h, c.l
}

const interruptServiceCycles = 20

// Step executes one interrupt dispatch (if IME is set and an interrupt is
// pending) or one instruction, and returns the number of T-cycles consumed.
func (c *CPU) Step() int {
	if c.halted && c.interrupts.Pending() {
		c.halted = false
	}

	if i, ok := c.interrupts.TakeNext(); ok {
		c.interrupts.DisableMaster()
		c.pushStack(c.pc)
		c.pc = i.Vector()
		return interruptServiceCycles
	}

	if c.halted {
		return 4
	}

	c.currentOpcode = c.fetch()
	return c.execute(c.currentOpcode)
}

func (c *CPU) fetch() uint8 {
	value := c.bus.Read(c.pc)
	c.pc++
	return value
}

func (c *CPU) fetchWord() uint16 {
	low := c.fetch()
	high := c.fetch()
	return uint16(high)<<8 | uint16(low)
}

func (c *CPU) halt() {
	c.halted = true
}

// stop puts the CPU to sleep the same way halt does; this core does not
// model the LCD/speed-switch side effects of STOP.
func (c *CPU) stop() {
	c.halted = true
}

func (c *CPU) execute(opcode uint8) int {
	if opcode == 0xCB {
		cbOpcode := c.fetch()
		return c.executeCB(cbOpcode)
	}

	fn := opcodeTable[opcode]
	if fn == nil {
		slog.Warn("undefined opcode, treating as NOP", "opcode", opcode, "pc", c.pc-1)
		return 4
	}
	return fn(c)
}

