// Package interrupt implements the DMG's interrupt controller: the IE/IF
// registers and IME flag, with fixed interrupt priority and dispatch vectors.
package interrupt

import "github.com/valerio/dmgcore/jeebie/addr"

// order is fixed priority, highest first: VBlank > LCDSTAT > Timer > Serial > Joypad.
var order = []addr.Interrupt{
	addr.VBlankInterrupt,
	addr.LCDSTATInterrupt,
	addr.TimerInterrupt,
	addr.SerialInterrupt,
	addr.JoypadInterrupt,
}

// Controller owns the interrupt enable/flag registers and the master enable.
type Controller struct {
	ie   uint8
	if_  uint8
	ime  bool
}

// New creates a controller with IME disabled and no interrupts enabled or pending.
func New() *Controller {
	return &Controller{}
}

// Request marks an interrupt as pending, regardless of whether it is enabled.
func (c *Controller) Request(i addr.Interrupt) {
	c.if_ |= uint8(i)
}

// Pending reports whether any enabled interrupt has a pending request, irrespective of IME.
// This is used to wake the CPU from HALT even when IME is disabled.
func (c *Controller) Pending() bool {
	return c.if_&c.ie != 0
}

// TakeNext returns the highest-priority enabled and pending interrupt, clearing its
// flag bit, only if IME is set. If IME is disabled or nothing qualifies, it returns
// (0, false) and leaves state untouched.
func (c *Controller) TakeNext() (addr.Interrupt, bool) {
	if !c.ime {
		return 0, false
	}

	active := c.if_ & c.ie
	if active == 0 {
		return 0, false
	}

	for _, i := range order {
		if active&uint8(i) != 0 {
			c.if_ &^= uint8(i)
			return i, true
		}
	}

	return 0, false
}

// EnableMaster sets IME, allowing interrupts to be dispatched.
func (c *Controller) EnableMaster() {
	c.ime = true
}

// DisableMaster clears IME.
func (c *Controller) DisableMaster() {
	c.ime = false
}

// MasterEnabled reports the current IME state.
func (c *Controller) MasterEnabled() bool {
	return c.ime
}

// ReadIE returns the raw IE register value.
func (c *Controller) ReadIE() uint8 {
	return c.ie
}

// WriteIE sets the raw IE register value.
func (c *Controller) WriteIE(v uint8) {
	c.ie = v
}

// ReadIF returns the raw IF register value. The unused top 3 bits always read as 1.
func (c *Controller) ReadIF() uint8 {
	return c.if_ | 0xE0
}

// WriteIF sets the raw IF register value (low 5 bits only).
func (c *Controller) WriteIF(v uint8) {
	c.if_ = v & 0x1F
}
