package cpu

import "github.com/valerio/dmgcore/jeebie/bit"

// flag is one of the 4 flags packed into the high nibble of the F register
// (bits 4-7; the low nibble of F is always zero).
type flag uint8

const (
	flagZero      flag = 0x80
	flagSubtract  flag = 0x40
	flagHalfCarry flag = 0x20
	flagCarry     flag = 0x10
)

func (c *CPU) setFlag(f flag) {
	c.f |= uint8(f)
}

func (c *CPU) resetFlag(f flag) {
	c.f &^= uint8(f)
}

func (c *CPU) setFlagToCondition(f flag, condition bool) {
	if condition {
		c.setFlag(f)
	} else {
		c.resetFlag(f)
	}
}

func (c *CPU) isSetFlag(f flag) bool {
	return c.f&uint8(f) != 0
}

func (c *CPU) flagToBit(f flag) uint8 {
	if c.isSetFlag(f) {
		return 1
	}
	return 0
}

func (c *CPU) getAF() uint16 {
	return bit.Combine(c.a, c.f)
}

func (c *CPU) setAF(value uint16) {
	c.a = bit.High(value)
	c.f = bit.Low(value) & 0xF0
}

func (c *CPU) getBC() uint16 {
	return bit.Combine(c.b, c.c)
}

func (c *CPU) setBC(value uint16) {
	c.b = bit.High(value)
	c.c = bit.Low(value)
}

func (c *CPU) getDE() uint16 {
	return bit.Combine(c.d, c.e)
}

func (c *CPU) setDE(value uint16) {
	c.d = bit.High(value)
	c.e = bit.Low(value)
}

func (c *CPU) getHL() uint16 {
	return bit.Combine(c.h, c.l)
}

func (c *CPU) setHL(value uint16) {
	c.h = bit.High(value)
	c.l = bit.Low(value)
}
